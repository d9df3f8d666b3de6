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

	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/methods"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/MetricsHub/vcenter-go/pkg/logger"
)

// HostSystem holds details of a host instance.
type HostSystem struct {
	// HostSystem represents the host system.
	*object.HostSystem
	name string
}

// Name returns the entity name of the host as registered in the inventory.
func (host *HostSystem) Name() string {
	return host.name
}

// AcquireCimTicket asks the host for a CIM services ticket and returns its
// session id. The ticket authorizes out-of-band CIM/WBEM queries against the
// host for a short, server-defined window.
func (host *HostSystem) AcquireCimTicket(ctx context.Context) (string, error) {
	log := logger.GetLogger(ctx)
	req := types.AcquireCimServicesTicket{
		This: host.Reference(),
	}
	res, err := methods.AcquireCimServicesTicket(ctx, host.Client(), &req)
	if err != nil {
		log.Errorf("failed to acquire CIM services ticket for host %q with err: %v",
			host.name, err)
		return "", err
	}
	return res.Returnval.SessionId, nil
}
