// Package archive writes scheduled snapshots of the event log tables.
//
// Each run gets a UUID and writes one file per table to the archive
// directory, named <table>-<YYYYMMDD-HHMMSS>-<run8>.<ext>. A run can be
// limited to a recent window and filtered with the same expressions as
// "jet htlcs list --where". The tables themselves are never modified.
//
//	archiver, err := archive.NewArchiver(store, archive.FromConfig(cfg.Archive),
//	    archive.WithMetrics(collector))
//	if err != nil {
//	    return err
//	}
//	scheduler := archive.NewScheduler(archiver, cfg.Archive.Schedule)
//	if err := scheduler.Start(ctx); err != nil {
//	    return err
//	}
//	defer scheduler.Stop()
package archive
