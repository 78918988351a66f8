// File: internal/core/ident.go
package core

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrEmptyCondition    = errors.New("condition must not be empty")
	ErrColumnMismatch    = errors.New("column and value counts differ")
	ErrNoColumns         = errors.New("at least one column is required")
)

const maxIdentLen = 128

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// Ident is a validated database, table or column name.
// It never contains quote characters, so a dialect can quote it verbatim.
type Ident string

// ParseIdent validates a single name.
func ParseIdent(name string) (Ident, error) {
	if len(name) == 0 || len(name) > maxIdentLen || !identRe.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return Ident(name), nil
}

// ColumnDef is one column of a CREATE TABLE statement.
type ColumnDef struct {
	Name        Ident
	Type        string
	Constraints []string
}

// Assignment is one "column = value" pair of an UPDATE.
type Assignment struct {
	Column Ident
	Value  interface{}
}

// Predicate compares a column against a bound value.
type Predicate struct {
	Column Ident
	Op     string
	Value  interface{}
}

// Condition is a conjunction of predicates. The zero value matches every row.
type Condition []Predicate

var validOps = map[string]bool{
	"=": true, "<>": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}
