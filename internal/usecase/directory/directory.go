package directory

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/partnerdesk/internal/domain"
	"github.com/simaogato/partnerdesk/internal/rules"
)

// ErrNoPartner is returned by mutating operations when nobody is logged in.
var ErrNoPartner = errors.New("no authenticated partner")

// PartnerSource yields the authenticated partner, or nil.
type PartnerSource interface {
	Current() *domain.Partner
}

// Directory is the in-memory mirror of the authenticated partner's clients.
// The mirror is refreshed wholesale; local mutations follow successful remote calls.
type Directory struct {
	Gateway domain.ClientGateway
	Session PartnerSource

	logger *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	clients  []domain.Client
	term     string
	inFlight int
}

// NewDirectory creates a new Directory instance
func NewDirectory(gateway domain.ClientGateway, session PartnerSource, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{
		Gateway: gateway,
		Session: session,
		logger:  logger,
		now:     time.Now,
	}
}

// IsLoading reports whether a remote call is in flight. The indicator is shared
// by every operation.
func (d *Directory) IsLoading() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.inFlight > 0
}

// StartLoading raises the loading indicator for work the directory does not
// run itself, such as a transfer. Call done when the work ends.
func (d *Directory) StartLoading() (done func()) {
	return d.begin()
}

func (d *Directory) begin() func() {
	d.mu.Lock()
	d.inFlight++
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		d.inFlight--
		d.mu.Unlock()
	}
}

// Refresh reloads the whole set from the gateway. It is a no-op when nobody is
// logged in.
func (d *Directory) Refresh(ctx context.Context) error {
	partner := d.Session.Current()
	if partner == nil {
		return nil
	}

	done := d.begin()
	defer done()

	clients, err := d.Gateway.ListClients(ctx, partner.ID)
	if err != nil {
		d.logger.Error("Failed to refresh clients", "partner_id", partner.ID, "error", err)
		return asNetworkError("list", "failed to load clients", err)
	}

	d.mu.Lock()
	d.clients = clients
	d.mu.Unlock()

	d.logger.Debug("Clients refreshed", "partner_id", partner.ID, "count", len(clients))
	return nil
}

// Reset drops the local set, used on logout.
func (d *Directory) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clients = nil
	d.term = ""
}

// Clients returns a copy of the local set in load order.
func (d *Directory) Clients() []domain.Client {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.Client, len(d.clients))
	copy(out, d.clients)
	return out
}

// Get returns the local copy of the client with id.
func (d *Directory) Get(id string) (domain.Client, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.clients {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Client{}, false
}

// Create validates the form, assigns the owning partner and a zero balance, and
// persists the client. On success the server copy is appended locally.
func (d *Directory) Create(ctx context.Context, input ClientInput) error {
	partner := d.Session.Current()
	if partner == nil {
		return ErrNoPartner
	}

	if errs := ValidateNewClient(input, d.now()); len(errs) > 0 {
		return domain.ValidationErrors(errs)
	}

	client := domain.Client{
		PartnerID:     partner.ID,
		Name:          strings.TrimSpace(input.Name),
		Document:      rules.Digits(input.Document),
		MonthlyIncome: rules.ParseCurrencyInput(input.MonthlyIncome),
		Balance:       decimal.Zero,
	}
	if rules.IsPersonalDocument(client.Document) {
		age := parseAge(input.Age)
		client.Age = &age
	} else {
		date := strings.TrimSpace(input.FoundationDate)
		client.FoundationDate = &date
	}

	done := d.begin()
	defer done()

	created, err := d.Gateway.CreateClient(ctx, client)
	if err != nil {
		d.logger.Error("Failed to create client", "partner_id", partner.ID, "error", err)
		return asNetworkError("create", "failed to create client", err)
	}

	d.mu.Lock()
	d.clients = append(d.clients, *created)
	d.mu.Unlock()

	d.logger.Info("Client created", "client_id", created.ID, "partner_id", partner.ID)
	return nil
}

// Edit validates the edit form against the local copy of id and applies it.
func (d *Directory) Edit(ctx context.Context, id string, input ClientInput) error {
	current, ok := d.Get(id)
	if !ok {
		return domain.ErrNotFound
	}

	if errs := ValidateEdit(current, input, d.now()); len(errs) > 0 {
		return domain.ValidationErrors(errs)
	}

	name := strings.TrimSpace(input.Name)
	income := rules.ParseCurrencyInput(input.MonthlyIncome)
	patch := domain.ClientPatch{Name: &name, MonthlyIncome: &income}
	if current.IsPersonal() {
		age := parseAge(input.Age)
		patch.Age = &age
	} else {
		date := strings.TrimSpace(input.FoundationDate)
		patch.FoundationDate = &date
	}

	return d.Update(ctx, id, patch)
}

// Update persists patch and replaces the local entry with the server copy.
func (d *Directory) Update(ctx context.Context, id string, patch domain.ClientPatch) error {
	done := d.begin()
	defer done()

	updated, err := d.Gateway.UpdateClient(ctx, id, patch)
	if err != nil {
		d.logger.Error("Failed to update client", "client_id", id, "error", err)
		return asNetworkError("update", "failed to update client", err)
	}

	d.mu.Lock()
	for i := range d.clients {
		if d.clients[i].ID == id {
			d.clients[i] = *updated
		}
	}
	d.mu.Unlock()

	d.logger.Info("Client updated", "client_id", id)
	return nil
}

// Delete removes the client remotely, then locally.
func (d *Directory) Delete(ctx context.Context, id string) error {
	done := d.begin()
	defer done()

	if err := d.Gateway.DeleteClient(ctx, id); err != nil {
		d.logger.Error("Failed to delete client", "client_id", id, "error", err)
		return asNetworkError("delete", "failed to delete client", err)
	}

	d.mu.Lock()
	kept := d.clients[:0]
	for _, c := range d.clients {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	d.clients = kept
	d.mu.Unlock()

	d.logger.Info("Client deleted", "client_id", id)
	return nil
}

// ApplyTransfer moves amount between the two local entries without asking the
// gateway. The local patch wins until the next Refresh.
func (d *Directory) ApplyTransfer(fromID, toID string, amount decimal.Decimal) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.clients {
		switch d.clients[i].ID {
		case fromID:
			d.clients[i].Balance = d.clients[i].Balance.Sub(amount)
		case toID:
			d.clients[i].Balance = d.clients[i].Balance.Add(amount)
		}
	}
}

func asNetworkError(op, message string, err error) error {
	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		return err
	}
	return domain.NewNetworkError(op, message, err)
}
