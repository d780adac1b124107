package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kendall-kelly/clinic-landing-api/models"
	"github.com/shopspring/decimal"
)

// DefaultServiceTypes are offered by the booking form on a fresh install
func DefaultServiceTypes() []models.InsertServiceType {
	return []models.InsertServiceType{
		{Name: "Initial Consultation", Duration: 30, Price: decimal.NewNullDecimal(decimal.Zero)},
		{Name: "Follow-up Visit", Duration: 20, Price: decimal.NewNullDecimal(decimal.NewFromInt(30000))},
		{Name: "Treatment Session", Duration: 60, Price: decimal.NewNullDecimal(decimal.NewFromInt(80000))},
	}
}

// SeedServiceTypes creates seeds when no active service type exists yet
func SeedServiceTypes(ctx context.Context, store Storage, seeds []models.InsertServiceType) error {
	existing, err := store.GetAllServiceTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list service types: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, seed := range seeds {
		if _, err := store.CreateServiceType(ctx, seed); err != nil {
			return fmt.Errorf("failed to seed service type %q: %w", seed.Name, err)
		}
	}
	slog.Info("seeded service types", "count", len(seeds))
	return nil
}
