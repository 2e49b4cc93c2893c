package domain

import (
	"context"
)

// PartnerRepository defines the interface for partner persistence operations.
// Lookups of a missing partner return an error wrapping ErrPartnerNotFound.
type PartnerRepository interface {
	// List retrieves every partner
	List(ctx context.Context) ([]*Partner, error)

	// GetByID retrieves a partner by its ID
	GetByID(ctx context.Context, id string) (*Partner, error)

	// Create creates a new partner
	Create(ctx context.Context, partner *Partner) error
}

// ClientRepository defines the interface for client persistence operations.
// Lookups of a missing client return an error wrapping ErrNotFound.
type ClientRepository interface {
	// List retrieves the clients owned by partnerID
	// If partnerID is empty, returns all clients
	List(ctx context.Context, partnerID string) ([]*Client, error)

	// GetByID retrieves a client by its ID
	GetByID(ctx context.Context, id string) (*Client, error)

	// Create creates a new client; the ID must already be assigned
	Create(ctx context.Context, client *Client) error

	// Update overwrites every mutable field of an existing client
	Update(ctx context.Context, client *Client) error

	// Delete removes a client by its ID
	Delete(ctx context.Context, id string) error
}
