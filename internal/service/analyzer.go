package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jask/ruralcare/internal/care"
)

// SymptomAnalyzer turns a symptom report into a triage suggestion.
// progress receives percentages in increasing order; it may be nil.
type SymptomAnalyzer interface {
	Analyze(ctx context.Context, report care.SymptomReport, progress func(int)) (care.Analysis, error)
}

const progressStep = 10

// SimulatedAnalyzer reports progress every Step and returns a fixed analysis.
type SimulatedAnalyzer struct {
	Step   time.Duration
	Logger zerolog.Logger
}

func (a *SimulatedAnalyzer) Analyze(ctx context.Context, report care.SymptomReport, progress func(int)) (care.Analysis, error) {
	if err := report.Validate(); err != nil {
		return care.Analysis{}, err
	}
	a.Logger.Debug().
		Int("selected", len(report.Selected)).
		Str("age", report.Age).
		Str("gender", report.Gender).
		Str("duration", report.Duration).
		Str("severity", report.Severity).
		Msg("analysis started")
	for pct := progressStep; pct <= 100; pct += progressStep {
		if err := sleepCtx(ctx, a.Step); err != nil {
			a.Logger.Debug().Int("progress", pct-progressStep).Msg("analysis cancelled")
			return care.Analysis{}, err
		}
		if progress != nil {
			progress(pct)
		}
	}
	res := cannedAnalysis()
	a.Logger.Info().Str("condition", res.PrimaryCondition).Int("confidence", res.Confidence).Msg("analysis complete")
	return res, nil
}

func cannedAnalysis() care.Analysis {
	return care.Analysis{
		PrimaryCondition: "Upper Respiratory Tract Infection",
		Confidence:       85,
		Urgency:          "moderate",
		RiskLevel:        "Low to Moderate",
		Recommendations: []string{
			"Rest and stay hydrated",
			"Take paracetamol for fever and pain relief",
			"Use warm salt water gargles for throat irritation",
			"Monitor symptoms for 3-5 days",
		},
		RedFlags: []string{
			"Difficulty breathing or shortness of breath",
			"High fever above 103°F (39.4°C)",
			"Severe chest pain",
			"Persistent vomiting",
		},
		NextSteps: care.NextSteps{
			SelfCare:     "Continue home remedies and monitor symptoms",
			Telemedicine: "Consult with a doctor if symptoms worsen",
			Emergency:    "Seek immediate medical attention if red flag symptoms appear",
		},
	}
}
