package messagedb

import (
	"strings"
)

const (
	// StreamSeparator separates the category of a stream name from its identifier,
	// e.g. "order-123" belongs to the "order" category.
	StreamSeparator = "-"

	// Wildcard in a stream name expression matches any sequence of characters.
	// An expression containing it addresses a category rather than a stream.
	Wildcard = "*"

	sqlWildcard = "%"
)

// Address is the target of a read, resolved from a stream name expression.
//
// The only implementations are ExactAddress and CategoryAddress.
type Address interface {
	isAddress()
}

// ExactAddress addresses a single stream by its full name.
type ExactAddress struct {
	StreamName string
}

func (ExactAddress) isAddress() {}

// CategoryAddress addresses all the streams of a category, narrowed down by
// a SQL condition on the stream name.
type CategoryAddress struct {
	Category string

	// Condition is a SQL fragment of the form "stream_name like <literal>",
	// with the literal produced by EscapeLiteral.
	Condition string
}

func (CategoryAddress) isAddress() {}

// ResolveAddress classifies a stream name expression.
//
// Expressions containing the Wildcard resolve to a CategoryAddress, whose
// category is the part of the expression before the first StreamSeparator.
// Any other expression resolves to an ExactAddress, unmodified.
//
// An *AddressError is returned for empty expressions and for wildcard
// expressions with no literal category in front of a StreamSeparator.
func ResolveAddress(expression string) (Address, error) {
	if expression == "" {
		return nil, &AddressError{Expression: expression, Reason: "expression is empty"}
	}

	if !strings.Contains(expression, Wildcard) {
		return ExactAddress{StreamName: expression}, nil
	}

	if IsCategory(expression) {
		return nil, &AddressError{
			Expression: expression,
			Reason:     "wildcard expression has no '" + StreamSeparator + "' separator to derive a category from",
		}
	}

	category := Category(expression)

	switch {
	case category == "":
		return nil, &AddressError{Expression: expression, Reason: "wildcard expression has an empty category"}
	case strings.Contains(category, Wildcard):
		return nil, &AddressError{Expression: expression, Reason: "wildcard expression has a wildcard in its category"}
	}

	pattern := strings.ReplaceAll(expression, Wildcard, sqlWildcard)

	return CategoryAddress{
		Category:  category,
		Condition: "stream_name like " + EscapeLiteral(pattern),
	}, nil
}

// Category returns the category of a stream name: the part before the first
// StreamSeparator, or the whole name if it has none.
func Category(streamName string) string {
	category, _, _ := strings.Cut(streamName, StreamSeparator)
	return category
}

// IsCategory reports whether name is a category name rather than a stream name.
func IsCategory(name string) bool {
	return !strings.Contains(name, StreamSeparator)
}
