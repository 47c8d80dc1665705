// Package recorder is the public face of the event log. It turns HTLC
// events and rebalance outcomes into rows, and lists them back either
// synchronously or through a callback that receives an explicit result.
//
// # Usage
//
//	store, err := storage.NewSQLiteStorage(storage.DefaultSQLiteConfig())
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	rec := recorder.NewRecorder(store, recorder.DefaultConfig(),
//	    recorder.WithMetrics(collector),
//	    recorder.WithTracer(tracer),
//	)
//	defer rec.Close()
//
//	if err := rec.RecordRebalanceSuccess(ctx, "A", "B", 1000, 1000); err != nil {
//	    return err
//	}
//
//	// Last hour of rebalances.
//	records, err := rec.ListRebalances(ctx, 3600)
//
//	// Same read without blocking the caller.
//	rec.ListFailedHtlcsAsync(ctx, 7, func(res recorder.HtlcResult) {
//	    if res.Err != nil {
//	        log.Printf("list failed: %v", res.Err)
//	        return
//	    }
//	    render(res.Records)
//	})
//
// Write failures are returned to the caller and satisfy
// errors.Is(err, eventlog.ErrStoreWriteFailed).
package recorder
