package care

import (
	"sort"
	"time"
)

// RecordKind classifies a health record.
type RecordKind string

const (
	KindConsultation RecordKind = "consultation"
	KindLabResult    RecordKind = "lab-result"
	KindPrescription RecordKind = "prescription"
	KindVaccination  RecordKind = "vaccination"
	KindVitalSigns   RecordKind = "vital-signs"
)

var RecordKinds = []RecordKind{KindConsultation, KindLabResult, KindPrescription, KindVaccination, KindVitalSigns}

type HealthRecord struct {
	ID          string
	Kind        RecordKind
	Title       string
	Date        time.Time
	Doctor      string
	Hospital    string
	Status      string
	Summary     string
	Attachments []string
	Synced      bool
}

// FilterRecords matches title, doctor or summary within kind ("" or "all" for any), newest first.
func FilterRecords(rs []HealthRecord, query string, kind RecordKind) []HealthRecord {
	k, byKind := selected(string(kind))
	out := make([]HealthRecord, 0, len(rs))
	for _, r := range rs {
		if byKind && string(r.Kind) != k {
			continue
		}
		if !Matches(query, r.Title, r.Doctor, r.Summary) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// Unsynced counts records not yet uploaded; the records screen shows it as an offline badge.
func Unsynced(rs []HealthRecord) int {
	n := 0
	for _, r := range rs {
		if !r.Synced {
			n++
		}
	}
	return n
}

type EmergencyContact struct {
	Name     string
	Phone    string
	Relation string
}

// Severity of a medical alert.
type Severity string

const (
	SeverityCritical  Severity = "critical"
	SeverityImportant Severity = "important"
	SeverityNormal    Severity = "normal"
)

type MedicalAlert struct {
	Kind        string
	Description string
	Severity    Severity
}

// EmergencyProfile is everything the emergency screen shows.
type EmergencyProfile struct {
	Contacts []EmergencyContact
	Alerts   []MedicalAlert
}

// CriticalFirst orders alerts by severity.
func CriticalFirst(as []MedicalAlert) []MedicalAlert {
	rank := map[Severity]int{SeverityCritical: 0, SeverityImportant: 1, SeverityNormal: 2}
	out := append([]MedicalAlert(nil), as...)
	sort.SliceStable(out, func(i, j int) bool { return rank[out[i].Severity] < rank[out[j].Severity] })
	return out
}
