package query

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/vegasq/csvreport/table"
)

var (
	// ErrUnknownColumn is returned when a filter, group key or aggregation
	// names a column the table does not have
	ErrUnknownColumn = errors.New("column not in data")

	// ErrConversion is returned when an ordering comparison needs a number
	// and the literal or a column cell is not one
	ErrConversion = errors.New("could not convert to float")

	// ErrUnknownFunction is returned for an aggregation function with no reducer
	ErrUnknownFunction = errors.New("unknown aggregation function")

	// ErrUnsupportedKind is returned when a reducer cannot handle a column kind
	ErrUnsupportedKind = errors.New("aggregation not supported for column kind")
)

// UnknownColumnError names the missing column and what was available
type UnknownColumnError struct {
	Column    string
	Available []string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("Column '%s' not in data", e.Column)
}

// Is makes errors.Is(err, ErrUnknownColumn) match
func (e *UnknownColumnError) Is(target error) bool {
	return target == ErrUnknownColumn
}

// ConversionError reports an ordering comparison that could not coerce to float
type ConversionError struct {
	Condition Condition
	Err       error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("filter %q: %v", e.Condition.String(), e.Err)
}

// Is makes errors.Is(err, ErrConversion) match
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// requireColumn returns the named column or an *UnknownColumnError
func requireColumn(t *table.Table, name string) (*table.Column, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, &UnknownColumnError{Column: name, Available: t.Names()}
	}
	return col, nil
}

// requireColumns checks that every name exists in t
func requireColumns(t *table.Table, names []string) error {
	for _, name := range names {
		if _, err := requireColumn(t, name); err != nil {
			return err
		}
	}
	return nil
}

// AvailableColumns formats the column list shown next to an unknown column error
func AvailableColumns(err error) (string, bool) {
	var colErr *UnknownColumnError
	if !errors.As(err, &colErr) {
		return "", false
	}
	return strings.Join(colErr.Available, ", "), true
}
