package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/ridesim/internal/models"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const insertUserStmt = `
	INSERT INTO users (id, city, name, address, credit_card)
	VALUES ($1, $2, $3, $4, $5)`

// BulkCreate inserts one chunk of users as a single transaction.
func (r *UserRepository) BulkCreate(ctx context.Context, users []*models.User) error {
	return executeTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, user := range users {
			_, err := tx.Exec(ctx, insertUserStmt,
				user.ID,
				user.City,
				user.Name,
				user.Address,
				user.CreditCard,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return executeTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertUserStmt,
			user.ID,
			user.City,
			user.Name,
			user.Address,
			user.CreditCard,
		)
		return err
	})
}

func (r *UserRepository) GetRefsByCity(ctx context.Context, city string) ([]models.UserRef, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM users WHERE city = $1`, city)
	if err != nil {
		return nil, err
	}
	return scanUserRefs(rows)
}

func scanUserRefs(rows pgx.Rows) ([]models.UserRef, error) {
	defer rows.Close()

	var refs []models.UserRef
	for rows.Next() {
		var ref models.UserRef
		if err := rows.Scan(&ref.ID); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
