package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/partnerdesk/internal/domain"
)

// Ensure ClientRepository implements domain.ClientRepository
var _ domain.ClientRepository = (*ClientRepository)(nil)

// ClientRepository stores clients in SQLite.
type ClientRepository struct {
	db *DB
}

// NewClientRepository creates a ClientRepository on db.
func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const selectClients = `
	SELECT id, partner_id, name, document, age, foundation_date, monthly_income, balance
	FROM clients
`

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(s scanner) (*domain.Client, error) {
	c := &domain.Client{}
	var (
		age        sql.NullInt64
		foundation sql.NullString
		income     string
		balance    string
	)

	if err := s.Scan(&c.ID, &c.PartnerID, &c.Name, &c.Document, &age, &foundation, &income, &balance); err != nil {
		return nil, err
	}

	if age.Valid {
		v := int(age.Int64)
		c.Age = &v
	}
	if foundation.Valid {
		v := foundation.String
		c.FoundationDate = &v
	}

	var err error
	if c.MonthlyIncome, err = decimal.NewFromString(income); err != nil {
		return nil, fmt.Errorf("failed to parse monthly income: %w", err)
	}
	if c.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}

	return c, nil
}

// List retrieves the clients owned by partnerID in insertion order, or every
// client when partnerID is empty.
func (r *ClientRepository) List(ctx context.Context, partnerID string) ([]*domain.Client, error) {
	query := selectClients
	var args []any
	if partnerID != "" {
		query += ` WHERE partner_id = ?`
		args = append(args, partnerID)
	}
	query += ` ORDER BY rowid`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}

	return clients, rows.Err()
}

// GetByID retrieves a client by id.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	c, err := scanClient(r.db.QueryRowContext(ctx, selectClients+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return c, nil
}

// Create inserts a new client.
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, partner_id, name, document, age, foundation_date, monthly_income, balance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.PartnerID,
		client.Name,
		client.Document,
		nullInt(client.Age),
		nullString(client.FoundationDate),
		client.MonthlyIncome.String(),
		client.Balance.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// Update overwrites the mutable fields of an existing client.
func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients
		SET name = ?, age = ?, foundation_date = ?, monthly_income = ?, balance = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		client.Name,
		nullInt(client.Age),
		nullString(client.FoundationDate),
		client.MonthlyIncome.String(),
		client.Balance.String(),
		client.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	return expectAffected(result, client.ID)
}

// Delete removes a client by id.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	return expectAffected(result, id)
}

func expectAffected(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
