package repository

import (
	"context"
	"database/sql"

	"pravacash/internal/models"
)

// OwnerRepository mirrors identities asserted by the auth collaborator.
type OwnerRepository struct {
	db *sql.DB
}

// NewOwnerRepository returns repository instance.
func NewOwnerRepository(db *sql.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// Ensure upserts an owner row on first sight and keeps its role current.
func (r *OwnerRepository) Ensure(ctx context.Context, id, role string) error {
	if role == "" {
		role = models.RoleUser
	}
	const query = `
		INSERT INTO owners (id, role)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET role = EXCLUDED.role
	`
	_, err := r.db.ExecContext(ctx, query, id, role)
	return err
}

// List returns all known owners, oldest first.
func (r *OwnerRepository) List(ctx context.Context) ([]models.Owner, error) {
	const query = `
		SELECT id, name, role, created_at
		FROM owners
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []models.Owner
	for rows.Next() {
		var owner models.Owner
		if err := rows.Scan(&owner.ID, &owner.Name, &owner.Role, &owner.CreatedAt); err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return owners, nil
}
