package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/partnerdesk/internal/rules"
)

// Client represents a banked individual or organization owned by a partner.
// Adheres to the data model: exactly one of Age (personal) and FoundationDate
// (organizational) is set, picked by the document class.
type Client struct {
	ID             string
	PartnerID      string
	Name           string
	Document       string  // digits only
	Age            *int    // personal documents only
	FoundationDate *string // organizational documents only, DD/MM/YYYY
	MonthlyIncome  decimal.Decimal
	Balance        decimal.Decimal // never negative
}

// IsPersonal reports whether the client holds a personal document.
func (c *Client) IsPersonal() bool {
	return rules.IsPersonalDocument(c.Document)
}

// Validate ensures the client adheres to domain rules
// Returns an error if validation fails
func (c *Client) Validate() error {
	if c.Name == "" {
		return errors.New("client name cannot be empty")
	}

	switch len(rules.Digits(c.Document)) {
	case rules.PersonalDocumentLength:
		if c.Age == nil || c.FoundationDate != nil {
			return errors.New("personal client must have an age and no foundation date")
		}
	case rules.OrganizationalDocumentLength:
		if c.FoundationDate == nil || c.Age != nil {
			return errors.New("organizational client must have a foundation date and no age")
		}
	default:
		return fmt.Errorf("invalid document length %d", len(rules.Digits(c.Document)))
	}

	if c.Balance.IsNegative() {
		return errors.New("client balance cannot be negative")
	}

	return nil
}

// ClientPatch is a partial update; nil fields are left untouched.
type ClientPatch struct {
	Name           *string
	Age            *int
	FoundationDate *string
	MonthlyIncome  *decimal.Decimal
	Balance        *decimal.Decimal
}

// IsEmpty reports whether the patch sets no field.
func (p ClientPatch) IsEmpty() bool {
	return p.Name == nil && p.Age == nil && p.FoundationDate == nil &&
		p.MonthlyIncome == nil && p.Balance == nil
}

// Apply merges the set fields of p into c.
func (p ClientPatch) Apply(c *Client) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Age != nil {
		age := *p.Age
		c.Age = &age
	}
	if p.FoundationDate != nil {
		date := *p.FoundationDate
		c.FoundationDate = &date
	}
	if p.MonthlyIncome != nil {
		c.MonthlyIncome = *p.MonthlyIncome
	}
	if p.Balance != nil {
		c.Balance = *p.Balance
	}
}

// BalancePatch builds the patch that sets an absolute balance.
func BalancePatch(balance decimal.Decimal) ClientPatch {
	return ClientPatch{Balance: &balance}
}
