// Package naming derives the canonical identifiers used to name generated artifacts
package naming

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidName is returned when a raw resource name normalizes to nothing usable
var ErrInvalidName = errors.New("invalid resource name")

// CanonicalName is the normalized identifier pair derived from user input
type CanonicalName struct {
	// TypeName is the PascalCase type name, e.g. "OrderItem"
	TypeName string

	// VarName is TypeName lower-cased, e.g. "orderitem"
	VarName string
}

// Normalize converts a raw user-supplied string into a CanonicalName.
// Segments are split on any rune that is not a letter or digit.
func Normalize(raw string) (CanonicalName, error) {
	segments := strings.FieldsFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteString(studly(seg))
	}

	typeName := sb.String()
	if typeName == "" {
		return CanonicalName{}, fmt.Errorf("%w: %q", ErrInvalidName, raw)
	}

	first := []rune(typeName)[0]
	if !unicode.IsLetter(first) {
		return CanonicalName{}, fmt.Errorf("%w: %q must start with a letter", ErrInvalidName, raw)
	}

	return CanonicalName{
		TypeName: typeName,
		VarName:  strings.ToLower(typeName),
	}, nil
}

// studly upper-cases the first rune of a segment. An all-caps segment is
// folded to lower case first so "PRODUCT" becomes "Product" while existing
// humps in "orderItem" survive.
func studly(seg string) string {
	runes := []rune(seg)
	if isUpper(runes) {
		runes = []rune(strings.ToLower(seg))
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func isUpper(runes []rune) bool {
	hasLetter := false
	for _, r := range runes {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter && len(runes) > 1
}

// Snake returns the snake_case form of TypeName, e.g. "order_item".
// Acronym runs stay together: "HTTPServer" becomes "http_server".
func (n CanonicalName) Snake() string {
	runes := []rune(n.TypeName)
	var sb strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

// String returns the TypeName
func (n CanonicalName) String() string {
	return n.TypeName
}
