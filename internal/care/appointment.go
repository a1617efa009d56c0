package care

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Urgency of a booked consultation.
type Urgency string

const (
	Routine   Urgency = "routine"
	Urgent    Urgency = "urgent"
	Emergency Urgency = "emergency"
)

var Urgencies = []Urgency{Routine, Urgent, Emergency}

func (u Urgency) Valid() bool { return slices.Contains(Urgencies, u) }

// TimeSlots lists bookable half-hour slots for day: mornings 9 to 12 and afternoons 2 to 6.
// On the current day only hours after the current hour are offered.
func TimeSlots(day, now time.Time) []string {
	today := sameDay(day, now)
	hour := now.Hour()
	var slots []string
	add := func(h int) {
		if today && h <= hour {
			return
		}
		display, suffix := h, "AM"
		if h >= 12 {
			suffix = "PM"
		}
		if h > 12 {
			display = h - 12
		}
		slots = append(slots, fmt.Sprintf("%d:00 %s", display, suffix), fmt.Sprintf("%d:30 %s", display, suffix))
	}
	for h := 9; h < 12; h++ {
		add(h)
	}
	for h := 14; h < 18; h++ {
		add(h)
	}
	return slots
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// Appointment is the payload handed from the scheduler to the call screen.
type Appointment struct {
	ID         string
	DoctorID   string
	DoctorName string
	Date       time.Time
	Time       string
	CallType   CallType
	Symptoms   string
	Urgency    Urgency
	Fee        int
	CreatedAt  time.Time
}

// AppointmentRequest is what the scheduler collects before confirmation.
type AppointmentRequest struct {
	Doctor   Doctor
	Date     time.Time
	Time     string
	CallType CallType
	Symptoms string
	Urgency  Urgency
}

// BookingWindowDays is how far ahead of today appointments can be booked.
const BookingWindowDays = 30

// InBookingWindow reports whether day falls between today and today+BookingWindowDays.
func InBookingWindow(day, now time.Time) bool {
	y, m, d := now.In(day.Location()).Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	last := first.AddDate(0, 0, BookingWindowDays+1)
	return !day.Before(first) && day.Before(last)
}

// NewAppointment validates a request against the slots available at now.
func NewAppointment(id string, req AppointmentRequest, now time.Time) (Appointment, error) {
	if req.Doctor.ID == "" || req.Doctor.Name == "" {
		return Appointment{}, fmt.Errorf("%w: doctor required", ErrInvalidAppointment)
	}
	if !req.CallType.Valid() {
		return Appointment{}, fmt.Errorf("%w: call type %q", ErrInvalidAppointment, req.CallType)
	}
	if req.Urgency == "" {
		req.Urgency = Routine
	}
	if !req.Urgency.Valid() {
		return Appointment{}, fmt.Errorf("%w: urgency %q", ErrInvalidAppointment, req.Urgency)
	}
	if strings.TrimSpace(req.Time) == "" {
		return Appointment{}, fmt.Errorf("%w: time slot required", ErrInvalidAppointment)
	}
	if !InBookingWindow(req.Date, now) {
		return Appointment{}, fmt.Errorf("%w: date %s outside the booking window", ErrInvalidAppointment, req.Date.Format("2006-01-02"))
	}
	if !slices.Contains(TimeSlots(req.Date, now), req.Time) {
		return Appointment{}, fmt.Errorf("%w: slot %s not available", ErrInvalidAppointment, req.Time)
	}
	y, m, d := req.Date.Date()
	return Appointment{
		ID:         id,
		DoctorID:   req.Doctor.ID,
		DoctorName: req.Doctor.Name,
		Date:       time.Date(y, m, d, 0, 0, 0, 0, req.Date.Location()),
		Time:       req.Time,
		CallType:   req.CallType,
		Symptoms:   strings.TrimSpace(req.Symptoms),
		Urgency:    req.Urgency,
		Fee:        req.Doctor.Fee,
		CreatedAt:  now,
	}, nil
}
