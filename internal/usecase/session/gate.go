package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/simaogato/partnerdesk/internal/domain"
	"github.com/simaogato/partnerdesk/internal/rules"
)

// StorageKey is the fixed key the authenticated partner is persisted under.
const StorageKey = "@partnerdesk:partner"

// KeyStore is a small persistent string store.
// Get returns "" and no error when the key is absent.
type KeyStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Gate holds the authenticated partner and its persisted copy.
type Gate struct {
	Partners domain.PartnerGateway
	Store    KeyStore

	logger *slog.Logger

	mu      sync.RWMutex
	current *domain.Partner
}

// NewGate creates a new Gate instance
func NewGate(partners domain.PartnerGateway, store KeyStore, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{Partners: partners, Store: store, logger: logger}
}

// ValidateLogin checks the login form fields.
func ValidateLogin(email, password string) []domain.ValidationError {
	var errs []domain.ValidationError
	switch {
	case strings.TrimSpace(email) == "":
		errs = append(errs, domain.ValidationError{Field: "email", Message: "email required"})
	case !rules.IsValidEmail(strings.TrimSpace(email)):
		errs = append(errs, domain.ValidationError{Field: "email", Message: "invalid email"})
	}
	if password == "" {
		errs = append(errs, domain.ValidationError{Field: "password", Message: "password required"})
	}
	return errs
}

// Login looks the partner up by exact email and password. No match returns nil
// and no error. The held and stored copies never carry the password.
func (g *Gate) Login(ctx context.Context, email, password string) (*domain.Partner, error) {
	if errs := ValidateLogin(email, password); len(errs) > 0 {
		return nil, domain.ValidationErrors(errs)
	}
	email = strings.TrimSpace(email)

	partners, err := g.Partners.ListPartners(ctx)
	if err != nil {
		g.logger.Error("Failed to list partners", "error", err)
		var netErr *domain.NetworkError
		if errors.As(err, &netErr) {
			return nil, err
		}
		return nil, domain.NewNetworkError("login", "failed to sign in", err)
	}

	for i := range partners {
		if !partners[i].Matches(email, password) {
			continue
		}
		partner := partners[i]
		partner.Password = ""
		if err := g.persist(&partner); err != nil {
			return nil, err
		}

		g.mu.Lock()
		g.current = &partner
		g.mu.Unlock()

		g.logger.Info("Partner signed in", "partner_id", partner.ID)
		return &partner, nil
	}

	g.logger.Info("Sign in rejected", "email", email)
	return nil, nil
}

// Logout forgets the held partner and removes its stored copy.
func (g *Gate) Logout(ctx context.Context) error {
	g.mu.Lock()
	g.current = nil
	g.mu.Unlock()

	if err := g.Store.Remove(StorageKey); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Restore loads a previously stored partner. A missing or unreadable record
// leaves the gate unauthenticated.
func (g *Gate) Restore(ctx context.Context) (*domain.Partner, error) {
	raw, err := g.Store.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	var partner domain.Partner
	if err := json.Unmarshal([]byte(raw), &partner); err != nil || partner.ID == "" {
		g.logger.Warn("Ignoring corrupt session record", "error", err)
		return nil, nil
	}

	g.mu.Lock()
	g.current = &partner
	g.mu.Unlock()
	return &partner, nil
}

// Current returns the authenticated partner, or nil.
func (g *Gate) Current() *domain.Partner {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return nil
	}
	p := *g.current
	return &p
}

// PartnerID returns the authenticated partner's id, or "".
func (g *Gate) PartnerID() string {
	if p := g.Current(); p != nil {
		return p.ID
	}
	return ""
}

func (g *Gate) persist(p *domain.Partner) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := g.Store.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}
