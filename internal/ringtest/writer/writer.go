// Package writer records ringtest driver results, mirroring the
// teacher's tester/writer package: an interface with a CSV
// implementation and a no-op fallback.
package writer

import "time"

// Writer is the common interface for recording a single driver result.
type Writer interface {
	WriteRow(node, result string, delay time.Duration) error
	Flush() error
	Close() error
}

// NopWriter discards every row.
type NopWriter struct{}

func (NopWriter) WriteRow(node, result string, delay time.Duration) error { return nil }
func (NopWriter) Flush() error                                            { return nil }
func (NopWriter) Close() error                                            { return nil }
