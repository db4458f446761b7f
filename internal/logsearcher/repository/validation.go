package repository

import (
	"regexp"
	"strings"

	"github.com/princess-entrapta/logsearcher/internal/common/apperrors"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	expressionPattern = regexp.MustCompile(`^[A-Za-z0-9_\s'"().,:\[\]<>=!%*/+|&@?#~^-]+$`)
)

// validateIdentifier checks a name that ends up interpolated into SQL as an
// identifier (view names, column names, aggregate view names).
func validateIdentifier(name string, value string) error {
	if !identifierPattern.MatchString(value) {
		return &apperrors.ErrInvalidArgument{
			Name:    name,
			Value:   value,
			Message: "must be a valid identifier",
		}
	}
	return nil
}

// validateExpression checks a column extraction or filter predicate
// expression at write time. Expressions are interpolated into query text when
// views are read, so anything that could terminate or comment out a
// statement is rejected here. Stored expressions are trusted afterwards.
func validateExpression(name string, value string) error {
	invalid := func(message string) error {
		return &apperrors.ErrInvalidArgument{Name: name, Value: value, Message: message}
	}
	if strings.TrimSpace(value) == "" {
		return invalid("must not be empty")
	}
	if strings.Contains(value, ";") {
		return invalid("must not contain statement separators")
	}
	if strings.Contains(value, "--") || strings.Contains(value, "/*") {
		return invalid("must not contain comment markers")
	}
	if !expressionPattern.MatchString(value) {
		return invalid("contains characters outside the allowed expression syntax")
	}
	return nil
}
