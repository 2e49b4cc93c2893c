package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/simaogato/partnerdesk/internal/domain"
)

// DefaultTimeout bounds every request when the caller sets none.
const DefaultTimeout = 10 * time.Second

var errNotFound = errors.New("resource not found")

// Gateway implements domain.PartnerGateway and domain.ClientGateway over HTTP.
type Gateway struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *slog.Logger
}

// Ensure Gateway implements the domain gateways
var (
	_ domain.PartnerGateway = (*Gateway)(nil)
	_ domain.ClientGateway  = (*Gateway)(nil)
)

// NewGateway creates a Gateway for the collaborator at baseURL. A non-empty
// token is sent as a bearer credential.
func NewGateway(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ListPartners fetches the whole partner collection.
func (g *Gateway) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	var dtos []PartnerDTO
	if err := g.do(ctx, http.MethodGet, "/partners", nil, &dtos); err != nil {
		return nil, g.fail("list_partners", "failed to load partners", err)
	}

	partners := make([]domain.Partner, len(dtos))
	for i, d := range dtos {
		partners[i] = d.Domain()
	}
	return partners, nil
}

// ListClients fetches the clients owned by partnerID.
func (g *Gateway) ListClients(ctx context.Context, partnerID string) ([]domain.Client, error) {
	var dtos []ClientDTO
	path := "/clients?partnerId=" + url.QueryEscape(partnerID)
	if err := g.do(ctx, http.MethodGet, path, nil, &dtos); err != nil {
		return nil, g.fail("list_clients", "failed to load clients", err)
	}

	clients := make([]domain.Client, 0, len(dtos))
	for _, d := range dtos {
		c, err := d.Domain()
		if err != nil {
			return nil, g.fail("list_clients", "failed to load clients", err)
		}
		clients = append(clients, c)
	}
	return clients, nil
}

// GetClient fetches one client. A 404 yields nil and no error.
func (g *Gateway) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var dto ClientDTO
	err := g.do(ctx, http.MethodGet, "/clients/"+url.PathEscape(id), nil, &dto)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, g.fail("get_client", "failed to load client", err)
	}
	return g.decodeClient("get_client", "failed to load client", dto)
}

// CreateClient posts client and returns the stored copy.
func (g *Gateway) CreateClient(ctx context.Context, client domain.Client) (*domain.Client, error) {
	var dto ClientDTO
	if err := g.do(ctx, http.MethodPost, "/clients", NewClientDTO(client), &dto); err != nil {
		return nil, g.fail("create_client", "failed to create client", err)
	}
	return g.decodeClient("create_client", "failed to create client", dto)
}

// UpdateClient patches client id and returns the stored copy.
func (g *Gateway) UpdateClient(ctx context.Context, id string, patch domain.ClientPatch) (*domain.Client, error) {
	var dto ClientDTO
	if err := g.do(ctx, http.MethodPatch, "/clients/"+url.PathEscape(id), NewClientPatchDTO(patch), &dto); err != nil {
		return nil, g.fail("update_client", "failed to update client", err)
	}
	return g.decodeClient("update_client", "failed to update client", dto)
}

// DeleteClient removes client id.
func (g *Gateway) DeleteClient(ctx context.Context, id string) error {
	if err := g.do(ctx, http.MethodDelete, "/clients/"+url.PathEscape(id), nil, nil); err != nil {
		return g.fail("delete_client", "failed to delete client", err)
	}
	return nil
}

func (g *Gateway) decodeClient(op, message string, dto ClientDTO) (*domain.Client, error) {
	c, err := dto.Domain()
	if err != nil {
		return nil, g.fail(op, message, err)
	}
	return &c, nil
}

func (g *Gateway) fail(op, message string, err error) error {
	g.logger.Warn("Gateway request failed", "op", op, "error", err)
	return domain.NewNetworkError(op, message, err)
}

// do sends one request and decodes a 2xx body into out when out is not nil.
func (g *Gateway) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	g.logger.Debug("Gateway request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr ErrorDTO
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr)
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, apiErr.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
