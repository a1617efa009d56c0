package repository

import (
	"context"
	"time"

	"github.com/jask/ruralcare/internal/care"
)

// AppointmentRepo stores booked consultations.
type AppointmentRepo struct {
	db DBTX
}

func NewAppointmentRepo(db DBTX) *AppointmentRepo { return &AppointmentRepo{db: db} }

func (r *AppointmentRepo) Insert(ctx context.Context, a care.Appointment, patientID string) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO appointments(id, doctor_id, doctor_name, day, slot, call_type, symptoms, urgency, fee, patient_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, a.ID, a.DoctorID, a.DoctorName, a.Date.Format(dayLayout), a.Time, string(a.CallType), a.Symptoms, string(a.Urgency), a.Fee, patientID, a.CreatedAt.UTC())
	return err
}

// SlotTaken reports whether the doctor already has a booking at day/slot.
func (r *AppointmentRepo) SlotTaken(ctx context.Context, doctorID string, day time.Time, slot string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM appointments WHERE doctor_id = ? AND day = ? AND slot = ?`,
		doctorID, day.Format(dayLayout), slot).Scan(&n)
	return n > 0, err
}

// ListForPatient returns bookings from day onwards, soonest first.
func (r *AppointmentRepo) ListForPatient(ctx context.Context, patientID string, from time.Time) ([]care.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, doctor_id, doctor_name, day, slot, call_type, symptoms, urgency, fee, created_at
	FROM appointments WHERE patient_id = ? AND day >= ? ORDER BY day, created_at`, patientID, from.Format(dayLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []care.Appointment
	for rows.Next() {
		var a care.Appointment
		var day, callType, urgency string
		if err := rows.Scan(&a.ID, &a.DoctorID, &a.DoctorName, &day, &a.Time, &callType, &a.Symptoms, &urgency, &a.Fee, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Date, err = time.Parse(dayLayout, day)
		if err != nil {
			return nil, err
		}
		a.CallType = care.CallType(callType)
		a.Urgency = care.Urgency(urgency)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AppointmentRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&n)
	return n, err
}
