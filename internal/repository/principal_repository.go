package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/product-service/internal/domain"
)

// PrincipalRepository defines persistence access for principals.
type PrincipalRepository interface {
	Create(ctx context.Context, principal *domain.Principal) error
	Update(ctx context.Context, principal *domain.Principal) error
	GetByUsername(ctx context.Context, username string) (*domain.Principal, error)
}

type principalRepository struct {
	pool *pgxpool.Pool
}

// NewPrincipalRepository returns a Postgres-backed implementation.
func NewPrincipalRepository(pool *pgxpool.Pool) PrincipalRepository {
	return &principalRepository{pool: pool}
}

func (r *principalRepository) Create(ctx context.Context, principal *domain.Principal) error {
	const query = `
        INSERT INTO principals (username, role, password_hash, active)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		principal.Username,
		principal.Role,
		principal.PasswordHash,
		principal.Active,
	).Scan(&principal.ID, &principal.CreatedAt, &principal.UpdatedAt)
}

func (r *principalRepository) Update(ctx context.Context, principal *domain.Principal) error {
	const query = `
        UPDATE principals SET username=$1, role=$2, password_hash=$3, active=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		principal.Username,
		principal.Role,
		principal.PasswordHash,
		principal.Active,
		principal.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *principalRepository) GetByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	const query = `
        SELECT id, username, role, password_hash, active, created_at, updated_at
        FROM principals WHERE username=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, username))
}

func (r *principalRepository) scanOne(row pgx.Row) (*domain.Principal, error) {
	var principal domain.Principal
	if err := row.Scan(
		&principal.ID,
		&principal.Username,
		&principal.Role,
		&principal.PasswordHash,
		&principal.Active,
		&principal.CreatedAt,
		&principal.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &principal, nil
}
