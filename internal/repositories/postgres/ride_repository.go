package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/ridesim/internal/models"
)

type RideRepository struct {
	pool *pgxpool.Pool
}

func NewRideRepository(pool *pgxpool.Pool) *RideRepository {
	return &RideRepository{pool: pool}
}

const insertRideStmt = `
	INSERT INTO rides (id, city, vehicle_city, rider_id, vehicle_id,
		start_address, end_address, start_time, end_time, revenue)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// BulkCreateWithRefs reads the current users and vehicles of the city and
// inserts the rides produced by build, all inside one transaction.
func (r *RideRepository) BulkCreateWithRefs(ctx context.Context, city string, build func(riders []models.UserRef, vehicles []models.VehicleRef) []*models.Ride) error {
	return executeTx(ctx, r.pool, func(tx pgx.Tx) error {
		userRows, err := tx.Query(ctx, `SELECT id FROM users WHERE city = $1`, city)
		if err != nil {
			return err
		}
		riders, err := scanUserRefs(userRows)
		if err != nil {
			return err
		}

		vehicleRows, err := tx.Query(ctx, `SELECT id FROM vehicles WHERE city = $1`, city)
		if err != nil {
			return err
		}
		vehicles, err := scanVehicleRefs(vehicleRows)
		if err != nil {
			return err
		}

		if len(riders) == 0 || len(vehicles) == 0 {
			return fmt.Errorf("no users or vehicles in city %q to ride", city)
		}

		for _, ride := range build(riders, vehicles) {
			if err := execInsertRide(ctx, tx, ride); err != nil {
				return err
			}
		}
		return nil
	})
}

// Start inserts a ride with no end time.
func (r *RideRepository) Start(ctx context.Context, ride *models.Ride) error {
	return executeTx(ctx, r.pool, func(tx pgx.Tx) error {
		return execInsertRide(ctx, tx, ride)
	})
}

// End records the end time of a previously started ride.
func (r *RideRepository) End(ctx context.Context, city string, id uuid.UUID, endTime time.Time) error {
	return executeTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`UPDATE rides SET end_time = $3 WHERE city = $1 AND id = $2`,
			city, id, endTime)
		return err
	})
}

func (r *RideRepository) GetActiveRefsByCity(ctx context.Context, city string) ([]models.RideRef, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT city, id FROM rides WHERE city = $1 AND end_time IS NULL`, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []models.RideRef
	for rows.Next() {
		var ref models.RideRef
		if err := rows.Scan(&ref.City, &ref.ID); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func execInsertRide(ctx context.Context, tx pgx.Tx, ride *models.Ride) error {
	_, err := tx.Exec(ctx, insertRideStmt,
		ride.ID,
		ride.City,
		ride.VehicleCity,
		ride.RiderID,
		ride.VehicleID,
		ride.StartAddress,
		ride.EndAddress,
		ride.StartTime,
		ride.EndTime,
		ride.Revenue,
	)
	return err
}
