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

package vcenter

import (
	"errors"

	"github.com/vmware/govmomi/vim25/soap"
	"github.com/vmware/govmomi/vim25/types"
)

// Errors returned by this package. Callers match them with errors.Is; the
// wrapped message carries the endpoint or host the failure relates to.
// Anything not classified below is surfaced as-is rather than swallowed.
var (
	// ErrInvalidCredentials is returned when vCenter rejects the username or
	// password. Never retried by this package.
	ErrInvalidCredentials = errors.New("invalid vCenter credentials")

	// ErrConnectivity is returned when the endpoint is unreachable, the URL is
	// malformed, or the TLS handshake fails.
	ErrConnectivity = errors.New("cannot connect to vCenter")

	// ErrInventory is returned when the inventory root or the Datacenter set
	// cannot be fetched. Fatal to the call.
	ErrInventory = errors.New("vCenter inventory unavailable")

	// ErrDNSResolution is returned when the target host name resolves to no IP
	// address. Only reachable after the name-based passes found nothing.
	ErrDNSResolution = errors.New("hostname does not resolve to an IP address")

	// ErrHostNotFound is returned when every resolution pass completed without
	// a match. The session itself was healthy.
	ErrHostNotFound = errors.New("host not found in vCenter")
)

// isInvalidLogin reports whether err is the vim25 InvalidLogin fault.
func isInvalidLogin(err error) bool {
	if !soap.IsSoapFault(err) {
		return false
	}
	_, ok := soap.ToSoapFault(err).VimFault().(types.InvalidLogin)
	return ok
}
