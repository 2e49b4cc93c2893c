package directory

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/simaogato/partnerdesk/internal/domain"
	"github.com/simaogato/partnerdesk/internal/rules"
)

const (
	minAge = 18
	maxAge = 120
)

// ClientInput is the raw text of the create and edit forms.
type ClientInput struct {
	Name           string
	Document       string
	Age            string
	FoundationDate string
	MonthlyIncome  string
}

// ValidateNewClient checks the create form and returns the field errors in form order.
func ValidateNewClient(in ClientInput, now time.Time) []domain.ValidationError {
	var errs []domain.ValidationError
	add := func(field, msg string) {
		errs = append(errs, domain.ValidationError{Field: field, Message: msg})
	}

	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < 2 {
		add("name", "name must have at least 2 characters")
	}

	documentOK := false
	switch {
	case strings.TrimSpace(in.Document) == "":
		add("document", "document required")
	case !rules.IsValidDocument(in.Document):
		add("document", "invalid document")
	default:
		documentOK = true
	}

	if msg := checkIncome(in.MonthlyIncome); msg != "" {
		add("monthlyIncome", msg)
	}

	// The class-specific field depends on a usable document.
	if documentOK {
		if rules.IsPersonalDocument(in.Document) {
			if !validAge(in.Age) {
				add("age", "age must be between 18 and 120")
			}
		} else if _, err := rules.ParseFoundationDate(strings.TrimSpace(in.FoundationDate), now); err != nil {
			add("foundationDate", err.Error())
		}
	}

	return errs
}

// ValidateEdit checks the edit form for client. The document is not editable, so
// its class decides between age and foundation date.
func ValidateEdit(client domain.Client, in ClientInput, now time.Time) []domain.ValidationError {
	var errs []domain.ValidationError
	add := func(field, msg string) {
		errs = append(errs, domain.ValidationError{Field: field, Message: msg})
	}

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		add("name", "name required")
	case utf8.RuneCountInString(name) < 2:
		add("name", "name must have at least 2 characters")
	}

	if client.IsPersonal() {
		switch {
		case strings.TrimSpace(in.Age) == "":
			add("age", "age required")
		case !validAge(in.Age):
			add("age", "age must be between 18 and 120")
		}
	} else {
		date := strings.TrimSpace(in.FoundationDate)
		if date == "" {
			add("foundationDate", "foundation date required")
		} else if _, err := rules.ParseFoundationDate(date, now); err != nil {
			add("foundationDate", err.Error())
		}
	}

	if msg := checkIncome(in.MonthlyIncome); msg != "" {
		add("monthlyIncome", msg)
	}

	return errs
}

func checkIncome(text string) string {
	if strings.TrimSpace(text) == "" {
		return "monthly income required"
	}
	if !rules.ParseCurrencyInput(text).IsPositive() {
		return "monthly income must be greater than zero"
	}
	return ""
}

func validAge(text string) bool {
	age, err := strconv.Atoi(strings.TrimSpace(text))
	return err == nil && age >= minAge && age <= maxAge
}

func parseAge(text string) int {
	age, _ := strconv.Atoi(strings.TrimSpace(text))
	return age
}
