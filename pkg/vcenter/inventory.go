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

import "context"

// HostEntity is a HostSystem managed entity in the vCenter inventory.
type HostEntity interface {
	// Name returns the entity name as registered in the inventory, usually an
	// FQDN or an IP address.
	Name() string
	// AcquireCimTicket asks the host for a short-lived CIM services ticket and
	// returns its session id.
	AcquireCimTicket(ctx context.Context) (string, error)
}

// DatacenterEntity is a Datacenter managed entity. Its search index can look
// up hosts by IP address.
type DatacenterEntity interface {
	Name() string
	// FindHostsByIP returns the HostSystem entities whose management address
	// matches ip, in server-returned order.
	FindHostsByIP(ctx context.Context, ip string) ([]HostEntity, error)
}

// Inventory is the read capability of an authenticated vCenter session, the
// only surface HostResolver depends on. Implementations return entities in
// server-returned order; that order is not stable across calls.
type Inventory interface {
	// HostSystems returns every HostSystem entity reachable from the inventory
	// root.
	HostSystems(ctx context.Context) ([]HostEntity, error)
	// Datacenters returns every Datacenter entity reachable from the inventory
	// root.
	Datacenters(ctx context.Context) ([]DatacenterEntity, error)
}

// Session is one authenticated vCenter connection, opened for a single
// request and closed on every exit path.
type Session interface {
	Inventory
	// Disconnect logs out of the session. Calling it on an already-closed
	// session is a no-op.
	Disconnect(ctx context.Context) error
}
