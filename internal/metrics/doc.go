// Package metrics records compile statistics.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and does nothing; PrometheusRecorder keeps counters and
// histograms in a private registry that can be written as a node-exporter
// textfile after each run:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	d := driver.New(cfg, driver.WithObserver(rec))
//	d.Compile(ctx)
//	_ = rec.WriteTextfile("/var/lib/node_exporter/texbuilder.prom")
package metrics
