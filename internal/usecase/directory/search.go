package directory

import (
	"strings"

	"github.com/simaogato/partnerdesk/internal/domain"
	"github.com/simaogato/partnerdesk/internal/rules"
)

// Filter keeps the clients whose name contains term, ignoring case, or whose
// document digits contain it. An empty term keeps everything.
func Filter(clients []domain.Client, term string) []domain.Client {
	if term == "" {
		return clients
	}

	needle := strings.ToLower(term)
	out := make([]domain.Client, 0, len(clients))
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(c.Document, needle) {
			out = append(out, c)
		}
	}
	return out
}

// Search filters the current set by term.
func (d *Directory) Search(term string) []domain.Client {
	return Filter(d.Clients(), term)
}

// SetSearchTerm stores the term used by Filtered.
func (d *Directory) SetSearchTerm(term string) {
	d.mu.Lock()
	d.term = term
	d.mu.Unlock()
}

// SearchTerm returns the stored search term.
func (d *Directory) SearchTerm() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.term
}

// Filtered is the current set filtered by the stored term, recomputed on every call.
func (d *Directory) Filtered() []domain.Client {
	return Filter(d.Clients(), d.SearchTerm())
}

// Lookup resolves ref as a client ID first, then as a document in any format.
func (d *Directory) Lookup(ref string) (domain.Client, bool) {
	if c, ok := d.Get(ref); ok {
		return c, true
	}

	digits := rules.Digits(ref)
	if digits == "" {
		return domain.Client{}, false
	}
	for _, c := range d.Clients() {
		if c.Document == digits {
			return c, true
		}
	}
	return domain.Client{}, false
}
