package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/partnerdesk/internal/domain"
)

// partnerRepository implements domain.PartnerRepository
type partnerRepository struct {
	db *DB
}

// NewPartnerRepository creates a new partner repository
func NewPartnerRepository(db *DB) domain.PartnerRepository {
	return &partnerRepository{db: db}
}

// List retrieves every partner ordered by name
func (r *partnerRepository) List(ctx context.Context) ([]*domain.Partner, error) {
	query := `
		SELECT id, name, email, password
		FROM partners
		ORDER BY name, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer rows.Close()

	var partners []*domain.Partner
	for rows.Next() {
		var p domain.Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Password); err != nil {
			return nil, fmt.Errorf("failed to scan partner: %w", err)
		}
		partners = append(partners, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partners: %w", err)
	}

	return partners, nil
}

// GetByID retrieves a partner by its ID
func (r *partnerRepository) GetByID(ctx context.Context, id string) (*domain.Partner, error) {
	query := `
		SELECT id, name, email, password
		FROM partners
		WHERE id = $1
	`

	var p domain.Partner
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Email, &p.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("partner %s: %w", id, domain.ErrPartnerNotFound)
		}
		return nil, fmt.Errorf("failed to get partner by ID: %w", err)
	}

	return &p, nil
}

// Create creates a new partner
func (r *partnerRepository) Create(ctx context.Context, partner *domain.Partner) error {
	query := `
		INSERT INTO partners (id, name, email, password)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, partner.ID, partner.Name, partner.Email, partner.Password)
	if err != nil {
		return fmt.Errorf("failed to create partner: %w", err)
	}

	return nil
}
