// Package care holds the telemedicine domain: doctors, appointments, records and pharmacies.
package care

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDoctor      = errors.New("invalid doctor")
	ErrInvalidAppointment = errors.New("invalid appointment")
)

// Availability of a doctor for an immediate consultation.
type Availability string

const (
	Available Availability = "available"
	Busy      Availability = "busy"
	Offline   Availability = "offline"
)

// CallType is how a consultation is held.
type CallType string

const (
	CallVideo CallType = "video"
	CallAudio CallType = "audio"
)

func (c CallType) Valid() bool { return c == CallVideo || c == CallAudio }

type Doctor struct {
	ID             string
	Name           string
	Specialization string
	Rating         float64
	Experience     int
	Languages      []string
	Availability   Availability
	NextSlot       string
	Fee            int
	Location       string
	Verified       bool
}

// NewDoctor validates the fields every screen relies on.
func NewDoctor(d Doctor) (Doctor, error) {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
	d.Specialization = strings.TrimSpace(d.Specialization)
	switch {
	case d.ID == "":
		return Doctor{}, fmt.Errorf("%w: id required", ErrInvalidDoctor)
	case d.Name == "":
		return Doctor{}, fmt.Errorf("%w: name required", ErrInvalidDoctor)
	case d.Specialization == "":
		return Doctor{}, fmt.Errorf("%w: specialization required", ErrInvalidDoctor)
	case d.Fee < 0:
		return Doctor{}, fmt.Errorf("%w: negative fee", ErrInvalidDoctor)
	}
	if d.Availability == "" {
		d.Availability = Offline
	}
	return d, nil
}

// Initials is used where the prototype showed an avatar fallback.
func (d Doctor) Initials() string {
	var b strings.Builder
	for _, part := range strings.Fields(d.Name) {
		b.WriteString(strings.ToUpper(string([]rune(part)[0])))
	}
	return b.String()
}
