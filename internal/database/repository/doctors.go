package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jask/ruralcare/internal/care"
)

// DoctorRepo handles the doctor catalog.
type DoctorRepo struct {
	db DBTX
}

func NewDoctorRepo(db DBTX) *DoctorRepo { return &DoctorRepo{db: db} }

func (r *DoctorRepo) Upsert(ctx context.Context, d care.Doctor) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO doctors(id, name, specialization, rating, experience, languages, availability, next_slot, fee, location, verified)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 specialization=excluded.specialization,
	 rating=excluded.rating,
	 experience=excluded.experience,
	 languages=excluded.languages,
	 availability=excluded.availability,
	 next_slot=excluded.next_slot,
	 fee=excluded.fee,
	 location=excluded.location,
	 verified=excluded.verified;
	`, d.ID, d.Name, d.Specialization, d.Rating, d.Experience, joinList(d.Languages), string(d.Availability), d.NextSlot, d.Fee, d.Location, boolInt(d.Verified))
	return err
}

const doctorCols = `id, name, specialization, rating, experience, languages, availability, next_slot, fee, location, verified`

func scanDoctor(s interface{ Scan(...any) error }) (care.Doctor, error) {
	var d care.Doctor
	var langs, avail string
	var verified int
	if err := s.Scan(&d.ID, &d.Name, &d.Specialization, &d.Rating, &d.Experience, &langs, &avail, &d.NextSlot, &d.Fee, &d.Location, &verified); err != nil {
		return care.Doctor{}, err
	}
	d.Languages = splitList(langs)
	d.Availability = care.Availability(avail)
	d.Verified = verified == 1
	return d, nil
}

func (r *DoctorRepo) List(ctx context.Context) ([]care.Doctor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+doctorCols+` FROM doctors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []care.Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DoctorRepo) Get(ctx context.Context, id string) (care.Doctor, error) {
	d, err := scanDoctor(r.db.QueryRowContext(ctx, `SELECT `+doctorCols+` FROM doctors WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return care.Doctor{}, ErrNotFound
	}
	return d, err
}
