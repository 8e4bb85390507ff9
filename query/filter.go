package query

import (
	"strings"
)

// Operator is a comparison operator in a filter expression
type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpLess         Operator = "<"
	OpGreater      Operator = ">"
	OpLessEqual    Operator = "<="
	OpGreaterEqual Operator = ">="
)

// operatorScanOrder lists operators in the order they are searched for.
// Two-character operators come before their one-character prefixes.
var operatorScanOrder = []Operator{
	OpGreaterEqual,
	OpLessEqual,
	OpNotEqual,
	OpGreater,
	OpLess,
	OpEqual,
}

// Ordering reports whether the operator compares by magnitude rather than equality
func (o Operator) Ordering() bool {
	switch o {
	case OpLess, OpGreater, OpLessEqual, OpGreaterEqual:
		return true
	default:
		return false
	}
}

// Condition is a parsed filter: column, operator and the literal as typed
type Condition struct {
	Column   string
	Operator Operator
	Value    string
}

// String renders the condition back to filter syntax
func (c Condition) String() string {
	return c.Column + string(c.Operator) + c.Value
}

// ParseFilter parses one raw filter expression such as "amount>=15" or
// `region = "west"`.
//
// The first operator from operatorScanOrder that occurs in raw wins, and raw
// is split at its first occurrence. Whitespace is trimmed from both sides and
// one layer of matching quotes is removed from the value. The second return
// value is false when raw contains no operator.
func ParseFilter(raw string) (Condition, bool) {
	for _, op := range operatorScanOrder {
		idx := strings.Index(raw, string(op))
		if idx < 0 {
			continue
		}

		key := strings.TrimSpace(raw[:idx])
		value := strings.TrimSpace(raw[idx+len(op):])

		return Condition{
			Column:   key,
			Operator: op,
			Value:    unquote(value),
		}, true
	}

	return Condition{}, false
}

// ParseFilters parses every raw expression, dropping the ones without an operator
func ParseFilters(raws []string) []Condition {
	conds := make([]Condition, 0, len(raws))
	for _, raw := range raws {
		if cond, ok := ParseFilter(raw); ok {
			conds = append(conds, cond)
		}
	}
	return conds
}

// unquote strips one pair of surrounding double or single quotes
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
