// Package router is the navigation state machine: who is signed in, which screen is
// active, and the context handed from one screen to the next.
package router

import (
	"errors"
	"fmt"

	"github.com/jask/ruralcare/internal/care"
	"github.com/jask/ruralcare/internal/session"
)

var (
	ErrForbidden       = errors.New("screen not available for this role")
	ErrAlreadySignedIn = errors.New("already signed in")
	ErrNoDoctorPortal  = errors.New("doctor portal is not available")
	ErrWrongScreen     = errors.New("action not available on this screen")
)

// State is everything the router owns. The zero value is the initial state.
type State struct {
	Session     session.Session
	View        View
	Doctor      *care.Doctor
	CallType    care.CallType
	Urgency     care.Urgency
	Appointment *care.Appointment
}

// Router produces the next State for each user action. It holds no timers and is not
// safe for concurrent use; the UI event loop is its only writer.
type Router struct {
	state State
	// OnChange, if set, observes every successful transition.
	OnChange func(from, to State)
}

func New() *Router { return &Router{state: State{CallType: care.CallVideo}} }

func (r *Router) State() State { return r.state }

func (r *Router) View() View { return r.state.View }

func (r *Router) Role() session.Role { return r.state.Session.Role }

func (r *Router) set(next State) State {
	prev := r.state
	r.state = next
	if r.OnChange != nil {
		r.OnChange(prev, next)
	}
	return next
}

// Allowed reports whether role may see view.
func Allowed(role session.Role, v View) bool {
	switch role {
	case session.Patient:
		return v != AdminDashboard
	case session.Admin:
		return v == AdminDashboard
	default:
		return v == Dashboard
	}
}

func (r *Router) require(views ...View) error {
	if r.state.Session.Role != session.Patient {
		return ErrForbidden
	}
	for _, v := range views {
		if r.state.View == v {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrWrongScreen, r.state.View)
}

// Login moves Anonymous to the role's home screen.
func (r *Router) Login(s session.Session) (State, error) {
	if r.state.Session.SignedIn() {
		return r.state, ErrAlreadySignedIn
	}
	next := State{Session: s, CallType: care.CallVideo}
	switch s.Role {
	case session.Patient:
		next.View = Dashboard
	case session.Admin:
		next.View = AdminDashboard
	case session.Doctor:
		return r.state, ErrNoDoctorPortal
	default:
		return r.state, session.ErrUnknownRole
	}
	return r.set(next), nil
}

// Logout returns to the initial state from anywhere.
func (r *Router) Logout() State {
	return r.set(State{CallType: care.CallVideo})
}

// QuickAction follows a dashboard tile.
func (r *Router) QuickAction(a QuickAction) (State, error) {
	if err := r.require(Dashboard); err != nil {
		return r.state, err
	}
	next := r.state
	switch a {
	case ActionVideoCall:
		next.CallType, next.View = care.CallVideo, DoctorSelection
	case ActionAudioCall:
		next.CallType, next.View = care.CallAudio, DoctorSelection
	case ActionSymptomChecker:
		next.View = SymptomChecker
	case ActionMedicineTracker:
		next.View = MedicineTracker
	case ActionHealthRecords:
		next.View = HealthRecords
	default:
		return r.state, fmt.Errorf("unknown quick action %d", a)
	}
	return r.set(next), nil
}

// SelectDoctor hands the chosen doctor and call type to the scheduler.
func (r *Router) SelectDoctor(d care.Doctor, ct care.CallType) (State, error) {
	if err := r.require(DoctorSelection); err != nil {
		return r.state, err
	}
	d, err := care.NewDoctor(d)
	if err != nil {
		return r.state, err
	}
	if !ct.Valid() {
		ct = r.state.CallType
	}
	next := r.state
	next.Doctor, next.CallType, next.View = &d, ct, AppointmentScheduler
	return r.set(next), nil
}

// ScheduleAppointment confirms a slot and starts the call with the selected doctor.
func (r *Router) ScheduleAppointment(a care.Appointment) (State, error) {
	if err := r.require(AppointmentScheduler); err != nil {
		return r.state, err
	}
	if r.state.Doctor == nil || a.DoctorID != r.state.Doctor.ID {
		return r.state, fmt.Errorf("%w: appointment is for another doctor", care.ErrInvalidAppointment)
	}
	next := r.state
	next.Appointment = &a
	if a.CallType.Valid() {
		next.CallType = a.CallType
	}
	next.View = VideoCall
	return r.set(next), nil
}

// EndCall returns to the dashboard and forgets the consultation context.
func (r *Router) EndCall() (State, error) {
	if err := r.require(VideoCall); err != nil {
		return r.state, err
	}
	next := r.state
	next.View, next.Doctor, next.Appointment, next.Urgency = Dashboard, nil, nil, ""
	return r.set(next), nil
}

// BookConsultation moves from the symptom checker results to doctor selection.
func (r *Router) BookConsultation(u care.Urgency) (State, error) {
	if err := r.require(SymptomChecker); err != nil {
		return r.state, err
	}
	next := r.state
	next.View = DoctorSelection
	if u.Valid() {
		next.Urgency = u
	}
	return r.set(next), nil
}

func (r *Router) OpenEmergencyInfo() (State, error) {
	if err := r.require(HealthRecords); err != nil {
		return r.state, err
	}
	next := r.state
	next.View = EmergencyInfo
	return r.set(next), nil
}

func (r *Router) OpenPharmacyLocator() (State, error) {
	if err := r.require(MedicineTracker); err != nil {
		return r.state, err
	}
	next := r.state
	next.View = PharmacyLocator
	return r.set(next), nil
}

// Back follows the active screen's back transition. Root screens stay put.
func (r *Router) Back() State {
	if r.state.View == VideoCall {
		st, _ := r.EndCall()
		return st
	}
	parent := r.state.View.Parent()
	if parent == r.state.View {
		return r.state
	}
	next := r.state
	next.View = parent
	if parent == Dashboard || parent == DoctorSelection {
		next.Appointment = nil
	}
	if parent == Dashboard {
		next.Doctor, next.Urgency = nil, ""
	}
	return r.set(next)
}

// Navigate jumps straight to v when the role allows it.
func (r *Router) Navigate(v View) (State, error) {
	if _, ok := viewNames[v]; !ok {
		return r.state, fmt.Errorf("unknown view %d", v)
	}
	if !r.state.Session.SignedIn() || !Allowed(r.state.Session.Role, v) {
		return r.state, ErrForbidden
	}
	if (v == AppointmentScheduler || v == VideoCall) && r.state.Doctor == nil {
		return r.state, fmt.Errorf("%w: no doctor selected", ErrWrongScreen)
	}
	next := r.state
	next.View = v
	return r.set(next), nil
}
