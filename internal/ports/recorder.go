package ports

import "time"

// Recorder receives pipeline measurements.
type Recorder interface {
	LineProcessed()
	PhrasesFound(n int)
	RecordsEmitted(n int)
	OracleCall(d time.Duration, err error)
}

// NopRecorder discards all measurements.
type NopRecorder struct{}

func (NopRecorder) LineProcessed()                  {}
func (NopRecorder) PhrasesFound(int)                {}
func (NopRecorder) RecordsEmitted(int)              {}
func (NopRecorder) OracleCall(time.Duration, error) {}
