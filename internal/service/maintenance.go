package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/ruralcare/internal/database"
)

// MaintenanceService houses destructive/ops actions surfaced through the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes bookings and preferences, then reloads the sample catalog.
// It keeps the schema intact so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		tables := []string{
			"appointments",
			"preferences",
			"medicine_stock",
			"medicines",
			"pharmacies",
			"health_records",
			"emergency_contacts",
			"medical_alerts",
			"consultation_stats",
			"user_counts",
			"villages",
			"consultations",
			"doctors",
		}
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return database.SeedDefaults(ctx, s.DB)
}
