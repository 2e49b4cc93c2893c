package domain

import (
	"context"
)

// PartnerGateway is the remote source of partner identities seen by the client app.
type PartnerGateway interface {
	ListPartners(ctx context.Context) ([]Partner, error)
}

// ClientGateway is the remote source of truth for client records.
// Implementations convert every transport failure into a *NetworkError.
type ClientGateway interface {
	ListClients(ctx context.Context, partnerID string) ([]Client, error)

	// GetClient returns nil and no error when the client does not exist.
	GetClient(ctx context.Context, id string) (*Client, error)

	CreateClient(ctx context.Context, client Client) (*Client, error)
	UpdateClient(ctx context.Context, id string, patch ClientPatch) (*Client, error)
	DeleteClient(ctx context.Context, id string) error
}
