// Package call holds the state of a simulated consultation call. Nothing here touches media;
// the TUI drives Tick and CycleQuality from timers.
package call

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jask/ruralcare/internal/care"
)

// Quality is the connection label shown on the call screen.
type Quality string

const (
	QualityGood Quality = "good"
	QualityFair Quality = "fair"
	QualityPoor Quality = "poor"
)

var qualities = []Quality{QualityGood, QualityFair, QualityPoor}

// Sender of a chat message.
type Sender string

const (
	FromDoctor  Sender = "doctor"
	FromPatient Sender = "patient"
)

type Message struct {
	Sender Sender
	Text   string
	At     string
}

// Participants fills the call header.
type Participants struct {
	DoctorName           string
	DoctorSpecialization string
	PatientName          string
}

const (
	fallbackDoctor         = "Dr. Simran Kaur"
	fallbackSpecialization = "General Medicine"
)

// Session is one consultation call.
type Session struct {
	Participants
	Type     care.CallType
	Audio    bool
	Video    bool
	Speaker  bool
	ChatOpen bool
	Duration time.Duration
	Quality  Quality
	Messages []Message
}

// New starts a call. Video starts enabled only for video calls.
func New(p Participants, typ care.CallType) *Session {
	if strings.TrimSpace(p.DoctorName) == "" {
		p.DoctorName = fallbackDoctor
	}
	if strings.TrimSpace(p.DoctorSpecialization) == "" {
		p.DoctorSpecialization = fallbackSpecialization
	}
	if !typ.Valid() {
		typ = care.CallVideo
	}
	return &Session{
		Participants: p,
		Type:         typ,
		Audio:        true,
		Video:        typ == care.CallVideo,
		Speaker:      true,
		Quality:      QualityGood,
		Messages: []Message{
			{Sender: FromDoctor, Text: "Hello! How are you feeling today?", At: "10:30 AM"},
		},
	}
}

// Tick advances the call clock by one second.
func (s *Session) Tick() { s.Duration += time.Second }

func (s *Session) ToggleAudio()   { s.Audio = !s.Audio }
func (s *Session) ToggleVideo()   { s.Video = !s.Video }
func (s *Session) ToggleSpeaker() { s.Speaker = !s.Speaker }
func (s *Session) ToggleChat()    { s.ChatOpen = !s.ChatOpen }

// CycleQuality picks a random connection quality.
func (s *Session) CycleQuality(r *rand.Rand) {
	s.Quality = qualities[r.Intn(len(qualities))]
}

// Send appends a patient message. Blank text is ignored.
func (s *Session) Send(text string, at time.Time) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	s.Messages = append(s.Messages, Message{Sender: FromPatient, Text: text, At: at.Format("3:04 PM")})
	return true
}

// Elapsed renders the call clock as MM:SS.
func (s *Session) Elapsed() string { return FormatDuration(s.Duration) }

// FormatDuration renders d as MM:SS; minutes keep growing past an hour.
func FormatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
