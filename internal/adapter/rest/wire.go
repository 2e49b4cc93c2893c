// Package rest holds the JSON wire format of the partner and client resources and
// an HTTP gateway that speaks it.
package rest

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/partnerdesk/internal/domain"
)

// ClientDTO is the wire form of a client. Money travels as JSON numbers carried
// in json.Number so no precision is lost to float64.
type ClientDTO struct {
	ID             string      `json:"id,omitempty"`
	PartnerID      string      `json:"partnerId"`
	Name           string      `json:"name"`
	Document       string      `json:"document"`
	Age            *int        `json:"age,omitempty"`
	FoundationDate *string     `json:"foundationDate,omitempty"`
	MonthlyIncome  json.Number `json:"monthlyIncome"`
	Balance        json.Number `json:"balance"`
}

// ClientPatchDTO is the wire form of a partial update; absent fields are untouched.
type ClientPatchDTO struct {
	Name           *string      `json:"name,omitempty"`
	Age            *int         `json:"age,omitempty"`
	FoundationDate *string      `json:"foundationDate,omitempty"`
	MonthlyIncome  *json.Number `json:"monthlyIncome,omitempty"`
	Balance        *json.Number `json:"balance,omitempty"`
}

// PartnerDTO is the wire form of a partner.
type PartnerDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ErrorDTO is the body of every non-2xx response of the collaborator.
type ErrorDTO struct {
	Error string `json:"error"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func parseNumber(field string, n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, n, err)
	}
	return d, nil
}

// NewClientDTO converts a domain client to its wire form.
func NewClientDTO(c domain.Client) ClientDTO {
	return ClientDTO{
		ID:             c.ID,
		PartnerID:      c.PartnerID,
		Name:           c.Name,
		Document:       c.Document,
		Age:            c.Age,
		FoundationDate: c.FoundationDate,
		MonthlyIncome:  number(c.MonthlyIncome),
		Balance:        number(c.Balance),
	}
}

// Domain converts the wire form back to a domain client.
func (d ClientDTO) Domain() (domain.Client, error) {
	income, err := parseNumber("monthlyIncome", d.MonthlyIncome)
	if err != nil {
		return domain.Client{}, err
	}
	balance, err := parseNumber("balance", d.Balance)
	if err != nil {
		return domain.Client{}, err
	}

	return domain.Client{
		ID:             d.ID,
		PartnerID:      d.PartnerID,
		Name:           d.Name,
		Document:       d.Document,
		Age:            d.Age,
		FoundationDate: d.FoundationDate,
		MonthlyIncome:  income,
		Balance:        balance,
	}, nil
}

// NewClientPatchDTO converts a domain patch to its wire form.
func NewClientPatchDTO(p domain.ClientPatch) ClientPatchDTO {
	dto := ClientPatchDTO{
		Name:           p.Name,
		Age:            p.Age,
		FoundationDate: p.FoundationDate,
	}
	if p.MonthlyIncome != nil {
		n := number(*p.MonthlyIncome)
		dto.MonthlyIncome = &n
	}
	if p.Balance != nil {
		n := number(*p.Balance)
		dto.Balance = &n
	}
	return dto
}

// Domain converts the wire form back to a domain patch.
func (d ClientPatchDTO) Domain() (domain.ClientPatch, error) {
	patch := domain.ClientPatch{
		Name:           d.Name,
		Age:            d.Age,
		FoundationDate: d.FoundationDate,
	}
	if d.MonthlyIncome != nil {
		v, err := parseNumber("monthlyIncome", *d.MonthlyIncome)
		if err != nil {
			return domain.ClientPatch{}, err
		}
		patch.MonthlyIncome = &v
	}
	if d.Balance != nil {
		v, err := parseNumber("balance", *d.Balance)
		if err != nil {
			return domain.ClientPatch{}, err
		}
		patch.Balance = &v
	}
	return patch, nil
}

// NewPartnerDTO converts a domain partner to its wire form.
func NewPartnerDTO(p domain.Partner) PartnerDTO {
	return PartnerDTO(p)
}

// Domain converts the wire form back to a domain partner.
func (d PartnerDTO) Domain() domain.Partner {
	return domain.Partner(d)
}
