// Package domain holds identifier primitives shared across packages.
package domain

import (
	"strconv"
	"strings"

	dErrors "census/pkg/domain-errors"
)

// ImportID identifies one stored batch of citizens. Valid ids start at 1.
type ImportID int64

// CitizenID identifies a citizen within a single import.
type CitizenID int64

func (i ImportID) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (c CitizenID) String() string {
	return strconv.FormatInt(int64(c), 10)
}

// ParseImportID parses a decimal import id from an untrusted string.
func ParseImportID(s string) (ImportID, error) {
	n, err := parseDecimal(s)
	if err != nil || n < 1 {
		return 0, dErrors.New(dErrors.CodeMalformedRequest, "invalid import_id")
	}
	return ImportID(n), nil
}

// ParseCitizenID parses a decimal citizen id from an untrusted string.
func ParseCitizenID(s string) (CitizenID, error) {
	n, err := parseDecimal(s)
	if err != nil || n < 0 {
		return 0, dErrors.New(dErrors.CodeMalformedRequest, "invalid citizen_id")
	}
	return CitizenID(n), nil
}

// parseDecimal accepts only plain ASCII digits with an optional leading minus, so
// forms like "+1", " 1" or "0x1" never reach the store as keys.
func parseDecimal(s string) (int64, error) {
	if s == "" || strings.TrimLeft(strings.TrimPrefix(s, "-"), "0123456789") != "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(s, 10, 64)
}
