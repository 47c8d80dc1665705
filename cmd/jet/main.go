// Jet records failed HTLC forwards and rebalance attempts of a Lightning
// node in a local event log and makes them available for analysis.
//
// Usage:
//
//	# Record a failed forward from an lnd HTLC event
//	jet htlcs record --file event.json
//
//	# Failed forwards of the last two days
//	jet htlcs list --days 2
//
//	# Record a rebalance attempt
//	jet rebalances record --from 02ab.. --to 03cd.. --amount 100000 --rebalanced 100000
//
//	# Export the rebalance history as CSV
//	jet export --table rebalances --format csv -o rebalances.csv
//
//	# Serve metrics and health endpoints and run scheduled archives
//	jet serve --config /etc/jet/jet.yaml
package main

func main() {
	Execute()
}
