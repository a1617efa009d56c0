package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jask/ruralcare/internal/care"
	"github.com/jask/ruralcare/internal/database/repository"
)

var ErrSlotTaken = errors.New("slot already booked")

// BookingService validates and stores appointments.
type BookingService struct {
	Appointments *repository.AppointmentRepo
	Now          func() time.Time
	Logger       zerolog.Logger
}

func (s *BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *BookingService) Book(ctx context.Context, req care.AppointmentRequest, patientID string) (care.Appointment, error) {
	a, err := care.NewAppointment(uuid.NewString(), req, s.now())
	if err != nil {
		return care.Appointment{}, err
	}
	taken, err := s.Appointments.SlotTaken(ctx, a.DoctorID, a.Date, a.Time)
	if err != nil {
		return care.Appointment{}, fmt.Errorf("check slot: %w", err)
	}
	if taken {
		return care.Appointment{}, fmt.Errorf("%w: %s %s", ErrSlotTaken, a.Date.Format("Mon 2 Jan"), a.Time)
	}
	if err := s.Appointments.Insert(ctx, a, patientID); err != nil {
		return care.Appointment{}, fmt.Errorf("store appointment: %w", err)
	}
	s.Logger.Info().
		Str("appointment", a.ID).
		Str("doctor", a.DoctorName).
		Str("urgency", string(a.Urgency)).
		Msg("appointment booked")
	return a, nil
}

// Upcoming lists the patient's bookings from today on.
func (s *BookingService) Upcoming(ctx context.Context, patientID string) ([]care.Appointment, error) {
	now := s.now()
	y, m, d := now.Date()
	return s.Appointments.ListForPatient(ctx, patientID, time.Date(y, m, d, 0, 0, 0, 0, now.Location()))
}
