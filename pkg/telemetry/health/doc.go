// Package health serves liveness, readiness and version endpoints for
// "jet serve".
//
// Liveness always answers 200 while the process runs. Readiness runs every
// registered check concurrently, each under its own timeout, and answers
// 503 when any check fails. jet registers two checks: "eventlog", which
// pings the event store, and "archive", which fails while the last
// scheduled archive run failed.
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("eventlog", health.StoreCheck(store))
//	checker.Register(mux, cfg.Telemetry.Health, health.VersionInfo{Version: version})
package health
