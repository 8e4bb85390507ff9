// Package query parses filter expressions and aggregation specs and applies
// them to a table.Table.
//
// # Filters
//
// A filter is a single comparison written as column, operator, literal:
//
//	status = completed
//	region="west"
//	amount>=15
//
// Supported operators are =, !=, >, <, >= and <=. Filters given together
// are combined with AND; there are no OR or NOT combinators. A string with
// no operator is ignored.
//
// Each Condition is bound to its column once (see Bind). Equality operators
// compare as numbers when both the literal and the column are numeric and
// as text otherwise. Ordering operators always compare as numbers and fail
// with ErrConversion when that is not possible.
//
//	conds := query.ParseFilters([]string{"region=west", "amount>=15"})
//	filtered, err := query.ApplyFilters(t, conds)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Aggregation
//
// Aggregation specs use function:column form, for example sum:amount or
// avg:price. The spec count:* counts rows per group and, when present,
// replaces every other spec.
//
//	specs := query.ParseAggSpecs([]string{"sum:amount"})
//	summary, err := query.Aggregate(filtered, []string{"region"}, specs)
//
// Groups are returned sorted by key. When two specs name the same column the
// later function wins.
package query
