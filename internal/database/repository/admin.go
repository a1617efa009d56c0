package repository

import (
	"context"
	"database/sql"

	"github.com/jask/ruralcare/internal/care"
)

// AdminRepo reads the platform statistics behind the admin dashboard.
type AdminRepo struct {
	db DBTX
}

func NewAdminRepo(db DBTX) *AdminRepo { return &AdminRepo{db: db} }

func (r *AdminRepo) UpsertMonth(ctx context.Context, order int, m care.MonthlyConsultations) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO consultation_stats(month, sort_order, consultations, revenue) VALUES (?, ?, ?, ?)
	ON CONFLICT(month) DO UPDATE SET sort_order=excluded.sort_order, consultations=excluded.consultations, revenue=excluded.revenue;
	`, m.Month, order, m.Consultations, m.Revenue)
	return err
}

func (r *AdminRepo) SetUserCount(ctx context.Context, kind string, total int) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO user_counts(kind, total) VALUES (?, ?)
	ON CONFLICT(kind) DO UPDATE SET total=excluded.total;
	`, kind, total)
	return err
}

func (r *AdminRepo) UpsertVillage(ctx context.Context, v care.VillageStat) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO villages(name, patients, consultations, status) VALUES (?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET patients=excluded.patients, consultations=excluded.consultations, status=excluded.status;
	`, v.Village, v.Patients, v.Consultations, v.Status)
	return err
}

func (r *AdminRepo) UpsertConsultation(ctx context.Context, c care.Consultation) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO consultations(id, patient, doctor, call_type, status, duration_min, village, ago) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET patient=excluded.patient, doctor=excluded.doctor, call_type=excluded.call_type,
	 status=excluded.status, duration_min=excluded.duration_min, village=excluded.village, ago=excluded.ago;
	`, c.ID, c.Patient, c.Doctor, string(c.CallType), c.Status, c.DurationMin, c.Village, c.Ago)
	return err
}

// Overview assembles the admin dashboard. System health is not stored; callers fill it.
func (r *AdminRepo) Overview(ctx context.Context) (care.AdminOverview, error) {
	o := care.AdminOverview{Users: map[string]int{}}

	if err := eachRow(ctx, r.db, `SELECT month, consultations, revenue FROM consultation_stats ORDER BY sort_order`, func(rows *sql.Rows) error {
		var m care.MonthlyConsultations
		if err := rows.Scan(&m.Month, &m.Consultations, &m.Revenue); err != nil {
			return err
		}
		o.Trend = append(o.Trend, m)
		return nil
	}); err != nil {
		return o, err
	}

	if err := eachRow(ctx, r.db, `SELECT kind, total FROM user_counts`, func(rows *sql.Rows) error {
		var kind string
		var total int
		if err := rows.Scan(&kind, &total); err != nil {
			return err
		}
		o.Users[kind] = total
		return nil
	}); err != nil {
		return o, err
	}

	if err := eachRow(ctx, r.db, `SELECT name, patients, consultations, status FROM villages ORDER BY patients DESC`, func(rows *sql.Rows) error {
		var v care.VillageStat
		if err := rows.Scan(&v.Village, &v.Patients, &v.Consultations, &v.Status); err != nil {
			return err
		}
		if v.Status == "active" {
			o.ActiveVillages++
		}
		o.Villages = append(o.Villages, v)
		return nil
	}); err != nil {
		return o, err
	}

	if err := eachRow(ctx, r.db, `SELECT id, patient, doctor, call_type, status, duration_min, village, ago FROM consultations ORDER BY id DESC`, func(rows *sql.Rows) error {
		var c care.Consultation
		var ct string
		if err := rows.Scan(&c.ID, &c.Patient, &c.Doctor, &ct, &c.Status, &c.DurationMin, &c.Village, &c.Ago); err != nil {
			return err
		}
		c.CallType = care.CallType(ct)
		o.Recent = append(o.Recent, c)
		return nil
	}); err != nil {
		return o, err
	}

	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&o.Appointments)
	return o, err
}

func eachRow(ctx context.Context, db DBTX, query string, fn func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
