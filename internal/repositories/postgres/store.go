package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/chrisdamba/ridesim/internal/models"
)

// Store owns the connection pool and hands out the per-entity repositories.
type Store struct {
	pool *pgxpool.Pool
	log  *zap.SugaredLogger
}

func NewStore(ctx context.Context, connString string, log *zap.SugaredLogger) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Users() *UserRepository {
	return NewUserRepository(s.pool)
}

func (s *Store) Vehicles() *VehicleRepository {
	return NewVehicleRepository(s.pool)
}

func (s *Store) Rides() *RideRepository {
	return NewRideRepository(s.pool)
}

func (s *Store) Close() {
	s.pool.Close()
}

// InitTables drops and recreates the dataset schema. Skipped when the load
// command runs with --skip-init, which keeps existing rows intact.
func (s *Store) InitTables(ctx context.Context) error {
	stmts := []string{
		`DROP TABLE IF EXISTS rides`,
		`DROP TABLE IF EXISTS vehicles`,
		`DROP TABLE IF EXISTS users`,
		`CREATE TABLE users (
			id UUID NOT NULL,
			city VARCHAR NOT NULL,
			name VARCHAR,
			address VARCHAR,
			credit_card VARCHAR,
			PRIMARY KEY (city, id)
		)`,
		`CREATE TABLE vehicles (
			id UUID NOT NULL,
			city VARCHAR NOT NULL,
			type VARCHAR,
			owner_id UUID,
			creation_time TIMESTAMPTZ,
			status VARCHAR,
			current_location VARCHAR,
			ext JSONB,
			PRIMARY KEY (city, id)
		)`,
		`CREATE TABLE rides (
			id UUID NOT NULL,
			city VARCHAR NOT NULL,
			vehicle_city VARCHAR,
			rider_id UUID,
			vehicle_id UUID,
			start_address VARCHAR,
			end_address VARCHAR,
			start_time TIMESTAMPTZ,
			end_time TIMESTAMPTZ,
			revenue DECIMAL(10,2),
			PRIMARY KEY (city, id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("error initializing tables: %w", err)
		}
	}

	s.log.Info("initialized dataset tables")
	return nil
}

// ApplyGeoPartitioning partitions every table by city list so the cluster can
// pin partitions to regions. Requires an enterprise license on CockroachDB.
func (s *Store) ApplyGeoPartitioning(ctx context.Context, partitions models.PartitionMap) error {
	for _, table := range []string{"users", "vehicles", "rides"} {
		var clauses []string
		for _, p := range partitions {
			quoted := make([]string, len(p.Cities))
			for i, city := range p.Cities {
				quoted[i] = "'" + strings.ReplaceAll(city, "'", "''") + "'"
			}
			clauses = append(clauses, fmt.Sprintf("PARTITION %s VALUES IN (%s)", p.Name, strings.Join(quoted, ", ")))
		}

		stmt := fmt.Sprintf("ALTER TABLE %s PARTITION BY LIST (city) (%s)", table, strings.Join(clauses, ", "))
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("error partitioning table %s: %w", table, err)
		}
		s.log.Infow("applied geo-partitioning", "table", table)
	}
	return nil
}
