package metrics

import "time"

// Recorder defines observability hooks for compile runs. step and result are
// the driver's pass name and classification; status and toolchain describe
// the finished run.
type Recorder interface {
	ObservePass(step, result string, d time.Duration)
	ObserveRun(status, toolchain string, finished time.Time)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePass(string, string, time.Duration) {}
func (NoopRecorder) ObserveRun(string, string, time.Time)      {}
