package transfer

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simaogato/partnerdesk/internal/domain"
	"github.com/simaogato/partnerdesk/internal/rules"
)

// Intent is the transient content of the transfer form.
type Intent struct {
	From   *domain.Client
	To     *domain.Client
	Amount string
}

// Validate checks intent and returns the parsed amount. Selection and amount
// errors are collected together; the distinct-endpoint and balance checks only
// run once those pass, and each one stops validation.
func Validate(intent Intent) (decimal.Decimal, []domain.ValidationError) {
	var errs []domain.ValidationError
	add := func(field, msg string) {
		errs = append(errs, domain.ValidationError{Field: field, Message: msg})
	}

	if !wellFormed(intent.From) {
		add("from", "origin client required")
	}
	if !wellFormed(intent.To) {
		add("to", "destination client required")
	}

	amount := decimal.Zero
	if strings.TrimSpace(intent.Amount) == "" {
		add("amount", "amount required")
	} else {
		amount = rules.ParseCurrencyInput(intent.Amount)
		if !amount.IsPositive() {
			add("amount", "amount must be positive")
		}
	}

	if len(errs) > 0 {
		return decimal.Zero, errs
	}

	if intent.From.ID == intent.To.ID {
		return decimal.Zero, []domain.ValidationError{{Field: "to", Message: "source and destination must differ"}}
	}
	if amount.GreaterThan(intent.From.Balance) {
		return decimal.Zero, []domain.ValidationError{{Field: "amount", Message: "insufficient balance"}}
	}

	return amount, nil
}

func wellFormed(c *domain.Client) bool {
	return c != nil && c.ID != "" && c.Name != "" && c.Document != ""
}
