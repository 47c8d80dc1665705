// Package query turns caller-facing windows and filter expressions into
// event log queries.
//
// Windows are relative to a caller-supplied now. Day windows accept
// fractions and are rounded to the nearest millisecond; second windows are
// whole seconds. A window of zero or less means no lower bound.
//
// Filters use github.com/expr-lang/expr and run after the read:
//
//	f, err := query.CompileRebalanceFilter(`amount >= 100000 && succeeded`)
//	if err != nil {
//	    return err
//	}
//	records = query.Apply(records, f)
package query
