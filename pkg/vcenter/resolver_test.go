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
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MetricsHub/vcenter-go/pkg/diag"
)

type fakeHost struct {
	name      string
	ticket    string
	ticketErr error
	acquired  int
}

func (h *fakeHost) Name() string { return h.name }

func (h *fakeHost) AcquireCimTicket(ctx context.Context) (string, error) {
	h.acquired++
	if h.ticketErr != nil {
		return "", h.ticketErr
	}
	return h.ticket, nil
}

type fakeDatacenter struct {
	name string
	byIP map[string][]HostEntity
	err  error
}

func (d *fakeDatacenter) Name() string { return d.name }

func (d *fakeDatacenter) FindHostsByIP(ctx context.Context, ip string) ([]HostEntity, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.byIP[ip], nil
}

type fakeInventory struct {
	hosts    []HostEntity
	hostsErr error
	dcs      []DatacenterEntity
	dcsErr   error
}

func (inv *fakeInventory) HostSystems(ctx context.Context) ([]HostEntity, error) {
	if inv.hostsErr != nil {
		return nil, inv.hostsErr
	}
	return inv.hosts, nil
}

func (inv *fakeInventory) Datacenters(ctx context.Context) ([]DatacenterEntity, error) {
	if inv.dcsErr != nil {
		return nil, inv.dcsErr
	}
	return inv.dcs, nil
}

func hostNames(names ...string) []HostEntity {
	hosts := make([]HostEntity, 0, len(names))
	for _, name := range names {
		hosts = append(hosts, &fakeHost{name: name})
	}
	return hosts
}

func staticLookup(ips ...string) func(context.Context, string) ([]net.IPAddr, error) {
	return func(ctx context.Context, host string) ([]net.IPAddr, error) {
		var addrs []net.IPAddr
		for _, ip := range ips {
			addrs = append(addrs, net.IPAddr{IP: net.ParseIP(ip)})
		}
		return addrs, nil
	}
}

func failingLookup(ctx context.Context, host string) ([]net.IPAddr, error) {
	return nil, fmt.Errorf("lookup %s: no such host", host)
}

func TestResolveExactMatch(t *testing.T) {
	ctx := context.Background()
	inv := &fakeInventory{
		hosts: hostNames("other1.example.com", "ESX1.Example.COM", "other2.example.com"),
	}
	r := &HostResolver{LookupIP: failingLookup}

	host, err := r.Resolve(ctx, inv, "esx1.example.com")
	require.NoError(t, err)
	require.NotNil(t, host)
	assert.Equal(t, "ESX1.Example.COM", host.Name())
}

func TestResolveExactMatchFirstSeenWins(t *testing.T) {
	ctx := context.Background()
	inv := &fakeInventory{
		hosts: hostNames("esx1.example.com", "ESX1.EXAMPLE.COM"),
	}
	r := &HostResolver{LookupIP: failingLookup}

	host, err := r.Resolve(ctx, inv, "Esx1.Example.Com")
	require.NoError(t, err)
	assert.Equal(t, "esx1.example.com", host.Name())
}

func TestResolveShortName(t *testing.T) {
	ctx := context.Background()
	inv := &fakeInventory{
		hosts: hostNames("other.example.com", "esx1.example.com"),
	}
	r := &HostResolver{LookupIP: failingLookup}

	host, err := r.Resolve(ctx, inv, "ESX1")
	require.NoError(t, err)
	require.NotNil(t, host)
	assert.Equal(t, "esx1.example.com", host.Name())
}

func TestResolveShortNamePassSkippedForDottedTarget(t *testing.T) {
	// A prefix match exists but the target itself contains a dot, so the
	// short-name pass must not run; the search falls through to the IP pass
	// and exhausts without a match.
	ctx := context.Background()
	inv := &fakeInventory{
		hosts: hostNames("esx1.example.com"),
		dcs:   []DatacenterEntity{&fakeDatacenter{name: "DC1"}},
	}
	r := &HostResolver{LookupIP: staticLookup("10.0.0.5")}

	host, err := r.Resolve(ctx, inv, "esx1.other")
	require.NoError(t, err)
	assert.Nil(t, host)
}

func TestResolveLeadingDotNeverMatchesShortName(t *testing.T) {
	ctx := context.Background()
	inv := &fakeInventory{
		hosts: hostNames(".internal"),
		dcs:   []DatacenterEntity{&fakeDatacenter{name: "DC1"}},
	}
	r := &HostResolver{LookupIP: staticLookup("10.0.0.5")}

	host, err := r.Resolve(ctx, inv, "internal")
	require.NoError(t, err)
	assert.Nil(t, host)
}

func TestResolveByIP(t *testing.T) {
	ctx := context.Background()
	h1 := &fakeHost{name: "h1.example.com"}
	inv := &fakeInventory{
		hosts: hostNames("unrelated.example.com"),
		dcs: []DatacenterEntity{
			&fakeDatacenter{
				name: "DC1",
				byIP: map[string][]HostEntity{"10.0.0.5": {h1}},
			},
		},
	}
	r := &HostResolver{LookupIP: staticLookup("10.0.0.5")}

	host, err := r.Resolve(ctx, inv, "target")
	require.NoError(t, err)
	assert.Same(t, h1, host)
}

func TestResolveByIPSecondAddressWins(t *testing.T) {
	ctx := context.Background()
	h1 := &fakeHost{name: "h1.example.com"}
	inv := &fakeInventory{
		dcs: []DatacenterEntity{
			&fakeDatacenter{
				name: "DC1",
				byIP: map[string][]HostEntity{"10.0.0.6": {h1}},
			},
		},
	}
	r := &HostResolver{LookupIP: staticLookup("10.0.0.5", "10.0.0.6")}

	host, err := r.Resolve(ctx, inv, "target")
	require.NoError(t, err)
	assert.Same(t, h1, host)
}

func TestResolveByIPSecondDatacenterWins(t *testing.T) {
	ctx := context.Background()
	h1 := &fakeHost{name: "h1.example.com"}
	inv := &fakeInventory{
		dcs: []DatacenterEntity{
			&fakeDatacenter{name: "DC1"},
			&fakeDatacenter{
				name: "DC2",
				byIP: map[string][]HostEntity{"10.0.0.5": {h1}},
			},
		},
	}
	r := &HostResolver{LookupIP: staticLookup("10.0.0.5")}

	host, err := r.Resolve(ctx, inv, "target")
	require.NoError(t, err)
	assert.Same(t, h1, host)
}

func TestResolveByIPFirstOfMultipleMatches(t *testing.T) {
	ctx := context.Background()
	h1 := &fakeHost{name: "h1.example.com"}
	h2 := &fakeHost{name: "h2.example.com"}
	inv := &fakeInventory{
		dcs: []DatacenterEntity{
			&fakeDatacenter{
				name: "DC1",
				byIP: map[string][]HostEntity{"10.0.0.5": {h1, h2}},
			},
		},
	}
	r := &HostResolver{LookupIP: staticLookup("10.0.0.5")}

	host, err := r.Resolve(ctx, inv, "target")
	require.NoError(t, err)
	assert.Same(t, h1, host)
}

func TestResolveDNSFailure(t *testing.T) {
	ctx := context.Background()
	inv := &fakeInventory{
		hosts: hostNames("unrelated.example.com"),
	}
	r := &HostResolver{LookupIP: failingLookup}

	_, err := r.Resolve(ctx, inv, "no-such-host")
	assert.ErrorIs(t, err, ErrDNSResolution)
}

func TestResolveDNSEmptyAnswer(t *testing.T) {
	ctx := context.Background()
	r := &HostResolver{
		LookupIP: func(ctx context.Context, host string) ([]net.IPAddr, error) {
			return nil, nil
		},
	}

	_, err := r.Resolve(ctx, &fakeInventory{}, "target")
	assert.ErrorIs(t, err, ErrDNSResolution)
}

func TestResolveNoDatacenters(t *testing.T) {
	ctx := context.Background()
	r := &HostResolver{LookupIP: staticLookup("10.0.0.5")}

	_, err := r.Resolve(ctx, &fakeInventory{}, "target")
	assert.ErrorIs(t, err, ErrInventory)
}

func TestResolveInventoryErrors(t *testing.T) {
	ctx := context.Background()
	rootErr := fmt.Errorf("%w: boom", ErrInventory)
	r := &HostResolver{LookupIP: staticLookup("10.0.0.5")}

	_, err := r.Resolve(ctx, &fakeInventory{hostsErr: rootErr}, "target")
	assert.ErrorIs(t, err, ErrInventory)

	_, err = r.Resolve(ctx, &fakeInventory{dcsErr: rootErr}, "target")
	assert.ErrorIs(t, err, ErrInventory)
}

func TestResolveSearchIndexErrorPropagates(t *testing.T) {
	ctx := context.Background()
	indexErr := errors.New("search index blew up")
	inv := &fakeInventory{
		dcs: []DatacenterEntity{&fakeDatacenter{name: "DC1", err: indexErr}},
	}
	r := &HostResolver{LookupIP: staticLookup("10.0.0.5")}

	_, err := r.Resolve(ctx, inv, "target")
	assert.ErrorIs(t, err, indexErr)
}

func TestResolveEmitsCandidateListDiagnostics(t *testing.T) {
	ctx := context.Background()
	var messages []string
	sink := diag.New(
		func() bool { return true },
		func(msg string) { messages = append(messages, msg) },
	)
	inv := &fakeInventory{
		hosts: hostNames("esx1.example.com", "esx2.example.com"),
		dcs:   []DatacenterEntity{&fakeDatacenter{name: "DC1"}},
	}
	r := &HostResolver{Sink: sink, LookupIP: staticLookup("10.0.0.5")}

	host, err := r.Resolve(ctx, inv, "absent")
	require.NoError(t, err)
	assert.Nil(t, host)

	require.Len(t, messages, 2)
	assert.Contains(t, messages[0], " - esx1.example.com\n")
	assert.Contains(t, messages[0], " - esx2.example.com\n")
	assert.Contains(t, messages[1], "IP address of absent")
}

func TestResolveNoDiagnosticsOnMatch(t *testing.T) {
	ctx := context.Background()
	var messages []string
	sink := diag.New(
		func() bool { return true },
		func(msg string) { messages = append(messages, msg) },
	)
	inv := &fakeInventory{hosts: hostNames("esx1.example.com")}
	r := &HostResolver{Sink: sink, LookupIP: failingLookup}

	_, err := r.Resolve(ctx, inv, "esx1.example.com")
	require.NoError(t, err)
	assert.Empty(t, messages)
}
