package call

import (
	"math/rand"
	"testing"
	"time"

	"github.com/jask/ruralcare/internal/care"
)

func TestNewCallDefaults(t *testing.T) {
	s := New(Participants{PatientName: "Ram Kumar"}, care.CallAudio)
	if s.DoctorName != fallbackDoctor || s.DoctorSpecialization != fallbackSpecialization {
		t.Fatalf("expected fallback doctor, got %+v", s.Participants)
	}
	if s.Video || !s.Audio || !s.Speaker || s.Quality != QualityGood {
		t.Fatalf("unexpected audio call flags %+v", s)
	}
	if v := New(Participants{DoctorName: "Dr. Rajesh Kumar"}, care.CallVideo); !v.Video || v.DoctorName != "Dr. Rajesh Kumar" {
		t.Fatalf("video call should start with video on")
	}
}

func TestTogglesOnlyFlipTheirFlag(t *testing.T) {
	s := New(Participants{}, care.CallVideo)
	s.Tick()
	s.Tick()
	s.Send("I have been having headaches", time.Date(2026, 1, 1, 10, 31, 0, 0, time.UTC))
	base := *s
	baseMsgs := len(s.Messages)

	toggles := []struct {
		name   string
		toggle func()
		flag   func() bool
	}{
		{"audio", s.ToggleAudio, func() bool { return s.Audio }},
		{"video", s.ToggleVideo, func() bool { return s.Video }},
		{"speaker", s.ToggleSpeaker, func() bool { return s.Speaker }},
	}
	for _, tc := range toggles {
		before := tc.flag()
		tc.toggle()
		if tc.flag() == before {
			t.Fatalf("%s did not flip", tc.name)
		}
		if s.Duration != base.Duration || len(s.Messages) != baseMsgs || s.ChatOpen != base.ChatOpen {
			t.Fatalf("%s changed unrelated state", tc.name)
		}
		tc.toggle()
	}
	if s.Audio != base.Audio || s.Video != base.Video || s.Speaker != base.Speaker {
		t.Fatalf("double toggle should restore flags")
	}
}

func TestChatAndClock(t *testing.T) {
	s := New(Participants{}, care.CallVideo)
	at := time.Date(2026, 1, 1, 14, 5, 0, 0, time.UTC)
	if s.Send("   ", at) {
		t.Fatalf("blank message should be ignored")
	}
	if !s.Send(" thanks ", at) {
		t.Fatalf("message should be sent")
	}
	last := s.Messages[len(s.Messages)-1]
	if last.Sender != FromPatient || last.Text != "thanks" || last.At != "2:05 PM" {
		t.Fatalf("unexpected message %+v", last)
	}
	for i := 0; i < 75; i++ {
		s.Tick()
	}
	if s.Elapsed() != "01:15" {
		t.Fatalf("got %s", s.Elapsed())
	}
	if FormatDuration(65*time.Minute) != "65:00" {
		t.Fatalf("minutes should not wrap")
	}
}

func TestCycleQualityStaysInSet(t *testing.T) {
	s := New(Participants{}, care.CallVideo)
	r := rand.New(rand.NewSource(7))
	seen := map[Quality]bool{}
	for i := 0; i < 50; i++ {
		s.CycleQuality(r)
		seen[s.Quality] = true
	}
	for q := range seen {
		if q != QualityGood && q != QualityFair && q != QualityPoor {
			t.Fatalf("unexpected quality %q", q)
		}
	}
	if len(seen) < 2 {
		t.Fatalf("expected quality to vary, saw %v", seen)
	}
}
