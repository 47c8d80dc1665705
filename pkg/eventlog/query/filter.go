package query

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"lightning-jet/jet/pkg/eventlog"
)

// Filter selects records after they are read.
type Filter[T any] func(T) bool

// Apply keeps the records matching f, preserving order. A nil filter keeps everything.
func Apply[T any](records []T, f Filter[T]) []T {
	if f == nil {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if f(r) {
			out = append(out, r)
		}
	}
	return out
}

// Take returns the first n records. n <= 0 keeps everything.
func Take[T any](records []T, n int) []T {
	if n <= 0 || len(records) <= n {
		return records
	}
	return records[:n]
}

// StoreLimit is the limit to hand the store when a filter runs after the
// read. A filter must see every row, so the limit is applied with Take
// instead.
func StoreLimit(limit int, filtered bool) int {
	if filtered {
		return 0
	}
	return limit
}

// HtlcEnv exposes a failed HTLC to filter expressions.
type HtlcEnv struct {
	Date     int64  `expr:"date"`
	FromChan string `expr:"from_chan"`
	ToChan   string `expr:"to_chan"`
	Sats     int64  `expr:"sats"`
	Extra    string `expr:"extra"`
}

// RebalanceEnv exposes a rebalance attempt to filter expressions.
type RebalanceEnv struct {
	ID         int64  `expr:"id"`
	Date       int64  `expr:"date"`
	From       string `expr:"from"`
	To         string `expr:"to"`
	Amount     int64  `expr:"amount"`
	Rebalanced int64  `expr:"rebalanced"`
	Status     int    `expr:"status"`
	Succeeded  bool   `expr:"succeeded"`
	Extra      string `expr:"extra"`
}

// CompileHtlcFilter compiles an expression such as
// `sats > 10000 && to_chan == "780000000000000002"`. An empty expression
// yields a nil filter.
func CompileHtlcFilter(expression string) (Filter[*eventlog.FailedHtlcRecord], error) {
	program, err := compile(expression, HtlcEnv{})
	if err != nil || program == nil {
		return nil, wrapFilterError(eventlog.TableFailedHtlc, expression, err)
	}

	return func(r *eventlog.FailedHtlcRecord) bool {
		return run(program, HtlcEnv{
			Date:     r.Date,
			FromChan: r.FromChan,
			ToChan:   r.ToChan,
			Sats:     r.Sats,
			Extra:    r.Extra,
		})
	}, nil
}

// CompileRebalanceFilter compiles an expression such as
// `!succeeded && extra contains "no route"`. An empty expression yields a
// nil filter.
func CompileRebalanceFilter(expression string) (Filter[*eventlog.RebalanceRecord], error) {
	program, err := compile(expression, RebalanceEnv{})
	if err != nil || program == nil {
		return nil, wrapFilterError(eventlog.TableRebalanceHistory, expression, err)
	}

	return func(r *eventlog.RebalanceRecord) bool {
		return run(program, RebalanceEnv{
			ID:         r.ID,
			Date:       r.Date,
			From:       r.From,
			To:         r.To,
			Amount:     r.Amount,
			Rebalanced: r.Rebalanced,
			Status:     r.Status,
			Succeeded:  r.Succeeded(),
			Extra:      r.Extra,
		})
	}, nil
}

func compile(expression string, env any) (*vm.Program, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, nil
	}
	return expr.Compile(expression, expr.Env(env), expr.AsBool())
}

// run evaluates a compiled filter. Evaluation errors count as no match.
func run(program *vm.Program, env any) bool {
	result, err := expr.Run(program, env)
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}

func wrapFilterError(table eventlog.Table, expression string, err error) error {
	if err == nil {
		return nil
	}
	return eventlog.NewQueryError(table, fmt.Errorf("failed to compile filter '%s': %w", expression, err))
}
