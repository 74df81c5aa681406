package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chrisdamba/ridesim/internal/models"
)

// The bulk methods commit one chunk per transaction. Where generation depends
// on existing rows (vehicle owners, ride riders/vehicles) the builder callback
// receives the refs read inside that same transaction.

type UserRepository interface {
	BulkCreate(ctx context.Context, users []*models.User) error
	Create(ctx context.Context, user *models.User) error
	GetRefsByCity(ctx context.Context, city string) ([]models.UserRef, error)
}

type VehicleRepository interface {
	BulkCreateWithOwners(ctx context.Context, city string, build func(owners []models.UserRef) []*models.Vehicle) error
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetRefsByCity(ctx context.Context, city string) ([]models.VehicleRef, error)
	BrowseByCity(ctx context.Context, city string, limit int) ([]*models.Vehicle, error)
}

type RideRepository interface {
	BulkCreateWithRefs(ctx context.Context, city string, build func(riders []models.UserRef, vehicles []models.VehicleRef) []*models.Ride) error
	Start(ctx context.Context, ride *models.Ride) error
	End(ctx context.Context, city string, id uuid.UUID, endTime time.Time) error
	GetActiveRefsByCity(ctx context.Context, city string) ([]models.RideRef, error)
}
