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
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/MetricsHub/vcenter-go/pkg/diag"
	"github.com/MetricsHub/vcenter-go/pkg/logger"
)

// HostResolver turns a host name or IP address into the corresponding
// HostSystem entity of the vCenter inventory. The lookup runs three passes in
// strict order, short-circuiting on the first match:
//
//  1. exact entity-name match, case-insensitive;
//  2. match against entity names truncated at their first dot, only when the
//     target itself contains no dot (operators often use short names while
//     the inventory holds FQDNs);
//  3. resolve the target via DNS and search each datacenter's index by IP.
//
// Ties within a pass go to the first entity in server-returned order. That
// order is whatever vCenter hands back and must not be assumed stable.
type HostResolver struct {
	// Sink receives the candidate entity names when the name-based passes
	// come up empty, to help operators diagnose naming mismatches. Nil falls
	// back to the process-wide sink configured via diag.Configure.
	Sink *diag.Sink

	// LookupIP resolves a host name to its IP addresses. Nil uses
	// net.DefaultResolver.
	LookupIP func(ctx context.Context, host string) ([]net.IPAddr, error)
}

func (r *HostResolver) sink() *diag.Sink {
	if r.Sink != nil {
		return r.Sink
	}
	return diag.Default()
}

func (r *HostResolver) lookupIP(ctx context.Context, host string) ([]net.IPAddr, error) {
	if r.LookupIP != nil {
		return r.LookupIP(ctx, host)
	}
	return net.DefaultResolver.LookupIPAddr(ctx, host)
}

// Resolve finds the HostSystem entity matching target in the given inventory.
// A completed search without a match returns (nil, nil): not finding the host
// is a valid outcome, not an error. Errors are limited to the inventory being
// unreachable, DNS resolution failing in the third pass, or the underlying
// transport failing.
func (r *HostResolver) Resolve(ctx context.Context, inv Inventory, target string) (HostEntity, error) {
	log := logger.GetLogger(ctx)

	hosts, err := inv.HostSystems(ctx)
	if err != nil {
		return nil, err
	}

	// First pass: exact match of the entity name with the target, case
	// insensitive of course.
	for _, host := range hosts {
		if strings.EqualFold(host.Name(), target) {
			return host, nil
		}
	}

	// Second pass: compare the target with a shortened version of the entity
	// names, i.e. what's before the first dot. Only done when the target
	// itself has no dot. The index > 1 condition keeps a leading dot from
	// producing an empty short name.
	if !strings.Contains(target, ".") {
		for _, host := range hosts {
			entityName := host.Name()
			if dot := strings.Index(entityName, "."); dot > 1 {
				if strings.EqualFold(entityName[:dot], target) {
					return host, nil
				}
			}
		}
	}

	// The name-based passes found nothing. Tell the operator what we did
	// consider before falling back to the IP search.
	if sink := r.sink(); sink.Enabled() {
		var entityList strings.Builder
		for _, host := range hosts {
			fmt.Fprintf(&entityList, " - %s\n", host.Name())
		}
		sink.Emitf("Couldn't find host %s in the list of managed entities:\n%s",
			target, entityList.String())
		sink.Emitf("Will now try with the IP address of %s", target)
	}

	// Third pass: resolve the target to its IP addresses and search each
	// datacenter's index for a host carrying one of them. Datacenters in
	// server-returned order, addresses in DNS-returned order; first hit wins.
	addrs, err := r.lookupIP(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("%w: couldn't resolve %q: %v", ErrDNSResolution, target, err)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: no addresses for %q", ErrDNSResolution, target)
	}

	dcs, err := inv.Datacenters(ctx)
	if err != nil {
		return nil, err
	}
	if len(dcs) == 0 {
		return nil, fmt.Errorf("%w: no Datacenter managed entity", ErrInventory)
	}

	for _, dc := range dcs {
		for _, addr := range addrs {
			matches, err := dc.FindHostsByIP(ctx, addr.IP.String())
			if err != nil {
				return nil, err
			}
			if len(matches) > 0 {
				return matches[0], nil
			}
		}
	}

	log.Debugf("host %q not found after exhausting all resolution passes", target)
	return nil, nil
}
