// Package rules holds the pure validation and formatting rules shared by the
// client forms, the transfer engine and the REST collaborator.
package rules

import (
	"strings"
)

const (
	// PersonalDocumentLength is the digit count of a personal ID (CPF).
	PersonalDocumentLength = 11
	// OrganizationalDocumentLength is the digit count of an organizational ID (CNPJ).
	OrganizationalDocumentLength = 14
)

// Digits strips every non-digit character from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsPersonalDocument reports whether the cleaned document has the personal ID length.
// Every other length is treated as organizational.
func IsPersonalDocument(document string) bool {
	return len(Digits(document)) == PersonalDocumentLength
}

// IsValidPersonalID validates a CPF: 11 digits, not a repeated digit, and both
// modulo-11 check digits.
func IsValidPersonalID(id string) bool {
	d := Digits(id)
	if len(d) != PersonalDocumentLength || repeated(d) {
		return false
	}

	if personalCheckDigit(d[:9]) != int(d[9]-'0') {
		return false
	}
	return personalCheckDigit(d[:10]) == int(d[10]-'0')
}

// personalCheckDigit weights the prefix from len+1 down to 2.
func personalCheckDigit(prefix string) int {
	sum := 0
	weight := len(prefix) + 1
	for i := 0; i < len(prefix); i++ {
		sum += int(prefix[i]-'0') * weight
		weight--
	}
	digit := 11 - sum%11
	if digit >= 10 {
		return 0
	}
	return digit
}

// IsValidOrganizationalID validates a CNPJ: 14 digits, not a repeated digit, and
// both check digits.
func IsValidOrganizationalID(id string) bool {
	d := Digits(id)
	if len(d) != OrganizationalDocumentLength || repeated(d) {
		return false
	}

	if organizationalCheckDigit(d[:12]) != int(d[12]-'0') {
		return false
	}
	return organizationalCheckDigit(d[:13]) == int(d[13]-'0')
}

// organizationalCheckDigit walks the prefix right to left with weights 2..9, wrapping.
func organizationalCheckDigit(prefix string) int {
	sum := 0
	weight := 2
	for i := len(prefix) - 1; i >= 0; i-- {
		sum += int(prefix[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

// IsValidDocument validates a document of either class, picked by digit count.
func IsValidDocument(document string) bool {
	switch len(Digits(document)) {
	case PersonalDocumentLength:
		return IsValidPersonalID(document)
	case OrganizationalDocumentLength:
		return IsValidOrganizationalID(document)
	default:
		return false
	}
}

// FormatDocument applies the progressive document mask to the digits of document:
// 000.000.000-00 up to 11 digits, 00.000.000/0000-00 above.
func FormatDocument(document string) string {
	d := Digits(document)

	var b strings.Builder
	b.Grow(len(d) + 4)
	if len(d) <= PersonalDocumentLength {
		for i, r := range d {
			switch i {
			case 3, 6:
				b.WriteByte('.')
			case 9:
				b.WriteByte('-')
			}
			b.WriteRune(r)
		}
		return b.String()
	}

	for i, r := range d {
		switch i {
		case 2, 5:
			b.WriteByte('.')
		case 8:
			b.WriteByte('/')
		case 12:
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func repeated(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}
