package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/ridesim/internal/models"
)

type VehicleRepository struct {
	pool *pgxpool.Pool
}

func NewVehicleRepository(pool *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{pool: pool}
}

const insertVehicleStmt = `
	INSERT INTO vehicles (id, city, type, owner_id, creation_time, status, current_location, ext)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// BulkCreateWithOwners reads the current users of the city and inserts the
// vehicles produced by build, all inside one transaction, so every generated
// vehicle references an owner that exists at commit time.
func (r *VehicleRepository) BulkCreateWithOwners(ctx context.Context, city string, build func(owners []models.UserRef) []*models.Vehicle) error {
	return executeTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT id FROM users WHERE city = $1`, city)
		if err != nil {
			return err
		}
		owners, err := scanUserRefs(rows)
		if err != nil {
			return err
		}
		if len(owners) == 0 {
			return fmt.Errorf("no users in city %q to own vehicles", city)
		}

		for _, vehicle := range build(owners) {
			if err := execInsertVehicle(ctx, tx, vehicle); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return executeTx(ctx, r.pool, func(tx pgx.Tx) error {
		return execInsertVehicle(ctx, tx, vehicle)
	})
}

func execInsertVehicle(ctx context.Context, tx pgx.Tx, vehicle *models.Vehicle) error {
	_, err := tx.Exec(ctx, insertVehicleStmt,
		vehicle.ID,
		vehicle.City,
		vehicle.Type,
		vehicle.OwnerID,
		vehicle.CreationTime,
		vehicle.Status,
		vehicle.CurrentLocation,
		vehicle.Ext,
	)
	return err
}

func (r *VehicleRepository) GetRefsByCity(ctx context.Context, city string) ([]models.VehicleRef, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM vehicles WHERE city = $1`, city)
	if err != nil {
		return nil, err
	}
	return scanVehicleRefs(rows)
}

// BrowseByCity is the read-only "home screen" query issued by the simulator.
func (r *VehicleRepository) BrowseByCity(ctx context.Context, city string, limit int) ([]*models.Vehicle, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, city, type, owner_id, creation_time, status, current_location, ext
		FROM vehicles WHERE city = $1 LIMIT $2`, city, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		vehicle := &models.Vehicle{}
		err := rows.Scan(
			&vehicle.ID,
			&vehicle.City,
			&vehicle.Type,
			&vehicle.OwnerID,
			&vehicle.CreationTime,
			&vehicle.Status,
			&vehicle.CurrentLocation,
			&vehicle.Ext,
		)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, rows.Err()
}

func scanVehicleRefs(rows pgx.Rows) ([]models.VehicleRef, error) {
	defer rows.Close()

	var refs []models.VehicleRef
	for rows.Next() {
		var ref models.VehicleRef
		if err := rows.Scan(&ref.ID); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
