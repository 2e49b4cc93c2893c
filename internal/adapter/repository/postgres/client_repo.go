package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/partnerdesk/internal/domain"
)

const clientColumns = `id, partner_id, name, document, age, foundation_date, monthly_income, balance`

// clientRepository implements domain.ClientRepository
type clientRepository struct {
	db *DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *DB) domain.ClientRepository {
	return &clientRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var c domain.Client
	var age sql.NullInt64
	var foundation sql.NullString
	var incomeStr, balanceStr string

	if err := row.Scan(&c.ID, &c.PartnerID, &c.Name, &c.Document, &age, &foundation, &incomeStr, &balanceStr); err != nil {
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

	// Parse monthly_income and balance (NUMERIC)
	income, err := decimal.NewFromString(incomeStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse monthly_income: %w", err)
	}
	c.MonthlyIncome = income

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	c.Balance = balance

	return &c, nil
}

// List retrieves the clients owned by partnerID, or every client when it is empty
func (r *clientRepository) List(ctx context.Context, partnerID string) ([]*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	var args []any
	if partnerID != "" {
		query += ` WHERE partner_id = $1`
		args = append(args, partnerID)
	}
	query += ` ORDER BY name, id`

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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}

	return clients, nil
}

// GetByID retrieves a client by its ID
func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	c, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}

	return c, nil
}

// Create creates a new client
func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.PartnerID,
		client.Name,
		client.Document,
		nullableInt(client.Age),
		nullableString(client.FoundationDate),
		client.MonthlyIncome.String(),
		client.Balance.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// Update overwrites the mutable fields of an existing client
func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients
		SET name = $2, age = $3, foundation_date = $4, monthly_income = $5, balance = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		nullableInt(client.Age),
		nullableString(client.FoundationDate),
		client.MonthlyIncome.String(),
		client.Balance.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	return requireOneRow(result, client.ID)
}

// Delete removes a client by its ID
func (r *clientRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	return requireOneRow(result, id)
}

func requireOneRow(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
