package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jask/ruralcare/internal/care"
	"github.com/jask/ruralcare/internal/database"
	"github.com/jask/ruralcare/internal/database/repository"
)

// CatalogService is the read side the screens load from.
type CatalogService struct {
	DoctorRepo   *repository.DoctorRepo
	PharmacyRepo *repository.PharmacyRepo
	RecordRepo   *repository.RecordRepo
	AdminRepo    *repository.AdminRepo
	Logger       zerolog.Logger
}

func (s *CatalogService) Doctors(ctx context.Context) ([]care.Doctor, error) {
	return s.DoctorRepo.List(ctx)
}

func (s *CatalogService) Pharmacies(ctx context.Context) ([]care.Pharmacy, error) {
	return s.PharmacyRepo.ListPharmacies(ctx)
}

func (s *CatalogService) Medicines(ctx context.Context) ([]care.Medicine, error) {
	return s.PharmacyRepo.ListMedicines(ctx)
}

func (s *CatalogService) Stock(ctx context.Context, medicineID string) ([]care.Stock, error) {
	return s.PharmacyRepo.StockFor(ctx, medicineID)
}

func (s *CatalogService) Records(ctx context.Context) ([]care.HealthRecord, error) {
	return s.RecordRepo.ListRecords(ctx)
}

// SyncRecords marks pending records as uploaded. There is no remote yet.
func (s *CatalogService) SyncRecords(ctx context.Context) (int64, error) {
	n, err := s.RecordRepo.MarkSynced(ctx)
	if err != nil {
		return 0, fmt.Errorf("sync records: %w", err)
	}
	s.Logger.Info().Int64("records", n).Msg("records synced")
	return n, nil
}

func (s *CatalogService) Emergency(ctx context.Context) (care.EmergencyProfile, error) {
	return s.RecordRepo.EmergencyProfile(ctx)
}

func (s *CatalogService) Overview(ctx context.Context) (care.AdminOverview, error) {
	o, err := s.AdminRepo.Overview(ctx)
	if err != nil {
		return o, err
	}
	o.Health = database.SampleSystemHealth()
	return o, nil
}
