/*
Copyright 2025 MetricsHub

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package diag carries the optional operator-facing diagnostic output of the
// library. Callers embedding the library (an engine, a CLI) decide whether
// diagnostics are enabled and where messages go; the library itself never
// writes directly to stdout or a log file.
package diag

import (
	"fmt"
	"sync/atomic"
)

// Sink is a diagnostic output capability: a predicate telling whether
// diagnostic output is currently wanted, and a consumer for the messages.
// A nil *Sink is valid and permanently disabled.
type Sink struct {
	isEnabled func() bool
	emit      func(string)
}

// New returns a Sink built from the two capabilities. Either function may be
// nil, in which case the sink is disabled.
func New(isEnabled func() bool, emit func(string)) *Sink {
	return &Sink{isEnabled: isEnabled, emit: emit}
}

// Enabled reports whether diagnostic messages should be produced. Callers
// building expensive messages should check this first.
func (s *Sink) Enabled() bool {
	if s == nil || s.isEnabled == nil || s.emit == nil {
		return false
	}
	return s.isEnabled()
}

// Emitf formats and emits one diagnostic message if the sink is enabled.
func (s *Sink) Emitf(format string, a ...interface{}) {
	if !s.Enabled() {
		return
	}
	s.emit(fmt.Sprintf(format, a...))
}

var defaultSink atomic.Pointer[Sink]

// Configure sets the process-wide default sink. It is meant to be called once
// before any other operation of the library; components that were not handed
// an explicit sink fall back to it. Reconfiguring concurrently with differing
// capabilities is not supported.
func Configure(isEnabled func() bool, emit func(string)) {
	defaultSink.Store(New(isEnabled, emit))
}

// Default returns the process-wide sink configured via Configure, or a
// disabled sink if Configure was never called.
func Default() *Sink {
	return defaultSink.Load()
}
