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

// Package vcenter authenticates against a VMware vCenter server, locates a
// managed ESX host by name or IP address, and obtains a short-lived ticket
// authorizing out-of-band CIM/WBEM queries against that host.
//
// The package is a library with no persisted state: every operation performs
// a fresh connect/resolve/logout cycle. Callers needing parallelism open
// independent operations; sessions are never shared or pooled.
package vcenter

import "github.com/MetricsHub/vcenter-go/pkg/diag"

// ConfigureDiagnostics sets the process-wide diagnostic output capabilities:
// a predicate telling whether diagnostic output is wanted, and a consumer
// for the messages (a CLI would print to stdout, an embedding engine would
// route to its own debug log). Call it once, before any other operation, if
// diagnostic output is desired. Components accepting an explicit *diag.Sink
// ignore this process-wide configuration.
func ConfigureDiagnostics(isEnabled func() bool, emit func(string)) {
	diag.Configure(isEnabled, emit)
}
