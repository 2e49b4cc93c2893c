package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/partnerdesk/internal/domain"
)

// Ensure PartnerRepository implements domain.PartnerRepository
var _ domain.PartnerRepository = (*PartnerRepository)(nil)

// PartnerRepository stores partners in SQLite.
type PartnerRepository struct {
	db *DB
}

// NewPartnerRepository creates a PartnerRepository on db.
func NewPartnerRepository(db *DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

// List retrieves every partner ordered by name.
func (r *PartnerRepository) List(ctx context.Context) ([]*domain.Partner, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, password FROM partners ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer rows.Close()

	var partners []*domain.Partner
	for rows.Next() {
		p := &domain.Partner{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Password); err != nil {
			return nil, fmt.Errorf("failed to scan partner: %w", err)
		}
		partners = append(partners, p)
	}

	return partners, rows.Err()
}

// GetByID retrieves a partner by id.
func (r *PartnerRepository) GetByID(ctx context.Context, id string) (*domain.Partner, error) {
	p := &domain.Partner{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password FROM partners WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Password)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("partner %s: %w", id, domain.ErrPartnerNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}

	return p, nil
}

// Create inserts a new partner.
func (r *PartnerRepository) Create(ctx context.Context, partner *domain.Partner) error {
	query := `
		INSERT INTO partners (id, name, email, password)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		partner.ID,
		partner.Name,
		partner.Email,
		partner.Password,
	)
	if err != nil {
		return fmt.Errorf("failed to create partner: %w", err)
	}

	return nil
}
