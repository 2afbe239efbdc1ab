package docweaver

import (
	"fmt"
	"io"
	"slices"
	"sync"
)

// WarningSink receives warnings raised under the UnknownWarn policy.
type WarningSink interface {
	AcceptWarning(message string)
}

// WarningSinkFunc adapts a function to WarningSink.
type WarningSinkFunc func(message string)

func (f WarningSinkFunc) AcceptWarning(message string) { f(message) }

// Discard drops every warning.
var Discard WarningSink = WarningSinkFunc(func(string) {})

// WriterSink writes one warning per line to an io.Writer.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink returns a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) AcceptWarning(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, message)
}

// CollectingSink keeps warnings in memory so callers can inspect them after
// a conversion.
type CollectingSink struct {
	mu       sync.Mutex
	warnings []string
}

func (s *CollectingSink) AcceptWarning(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, message)
}

// Warnings returns a copy of the collected warnings in arrival order.
func (s *CollectingSink) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.warnings)
}

// Reset drops the collected warnings.
func (s *CollectingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = nil
}
