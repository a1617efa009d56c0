package care

import (
	"errors"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrNoSymptoms = errors.New("describe at least one symptom")
	ErrInvalidAge = errors.New("age must be a whole number between 0 and 120")
)

// Answer options for the patient details on a symptom report. An empty
// gender or duration means the patient skipped the question.
var (
	Genders           = []string{"", "male", "female", "other"}
	SymptomDurations  = []string{"", "few_hours", "1_day", "2_3_days", "1_week", "more_week"}
	SymptomSeverities = []string{"mild", "moderate", "severe"}
)

// NextOption returns the option after cur, wrapping around. Unknown values restart at the first option.
func NextOption(options []string, cur string) string {
	i := slices.Index(options, cur)
	return options[(i+1)%len(options)]
}

type Symptom struct {
	ID       string
	Name     string
	Category string
}

// CommonSymptoms are the quick-pick chips on the symptom checker.
var CommonSymptoms = []Symptom{
	{ID: "fever", Name: "Fever", Category: "general"},
	{ID: "headache", Name: "Headache", Category: "neurological"},
	{ID: "cough", Name: "Cough", Category: "respiratory"},
	{ID: "chest_pain", Name: "Chest Pain", Category: "cardiac"},
	{ID: "stomach_pain", Name: "Stomach Pain", Category: "digestive"},
	{ID: "fatigue", Name: "Fatigue", Category: "general"},
	{ID: "nausea", Name: "Nausea", Category: "digestive"},
	{ID: "dizziness", Name: "Dizziness", Category: "neurological"},
}

// SymptomReport is the symptom checker input.
type SymptomReport struct {
	Description string
	Selected    []string
	Age         string
	Gender      string
	Duration    string
	Severity    string
}

// NewSymptomReport returns an empty report with the default severity.
func NewSymptomReport() SymptomReport {
	return SymptomReport{Severity: SymptomSeverities[0]}
}

// Toggle adds or removes a quick-pick symptom id.
func (r *SymptomReport) Toggle(id string) {
	for i, s := range r.Selected {
		if s == id {
			r.Selected = append(r.Selected[:i], r.Selected[i+1:]...)
			return
		}
	}
	r.Selected = append(r.Selected, id)
}

func (r SymptomReport) Validate() error {
	if strings.TrimSpace(r.Description) == "" && len(r.Selected) == 0 {
		return ErrNoSymptoms
	}
	if age := strings.TrimSpace(r.Age); age != "" {
		if n, err := strconv.Atoi(age); err != nil || n < 0 || n > 120 {
			return ErrInvalidAge
		}
	}
	return nil
}

// NextSteps are the three care paths offered with an analysis.
type NextSteps struct {
	SelfCare     string
	Telemedicine string
	Emergency    string
}

// Analysis is the symptom checker's result.
type Analysis struct {
	PrimaryCondition string
	Confidence       int
	Urgency          string
	RiskLevel        string
	Recommendations  []string
	RedFlags         []string
	NextSteps        NextSteps
}

// ConsultUrgency maps an analysis urgency onto the booking urgency.
func (a Analysis) ConsultUrgency() Urgency {
	switch a.Urgency {
	case "high", "urgent":
		return Urgent
	case "critical", "emergency":
		return Emergency
	default:
		return Routine
	}
}
