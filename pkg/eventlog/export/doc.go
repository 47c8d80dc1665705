// Package export writes failed HTLC and rebalance records as JSON or CSV.
//
// JSON output is always an array. CSV columns mirror the table columns:
//
//	date,from_chan,to_chan,sats,extra
//	id,date,from_node,to_node,amount,rebalanced,status,extra
//
// # Usage
//
//	exporter, err := export.New("csv", export.Options{IncludeHeader: true})
//	if err != nil {
//	    return err
//	}
//	err = exporter.ExportRebalances(ctx, records, os.Stdout)
package export
