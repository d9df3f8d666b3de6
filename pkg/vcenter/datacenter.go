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

	"github.com/MetricsHub/vcenter-go/pkg/logger"
)

// Datacenter holds a Datacenter managed entity.
type Datacenter struct {
	// Datacenter represents the govmomi Datacenter.
	*object.Datacenter
}

// FindHostsByIP queries the datacenter's search index for HostSystem entities
// whose management address matches ip, in server-returned order.
func (dc *Datacenter) FindHostsByIP(ctx context.Context, ip string) ([]HostEntity, error) {
	log := logger.GetLogger(ctx)
	searchIndex := object.NewSearchIndex(dc.Client())
	refs, err := searchIndex.FindAllByIp(ctx, dc.Datacenter, ip, false)
	if err != nil {
		log.Errorf("failed to search datacenter %q by IP %s with err: %v", dc.Name(), ip, err)
		return nil, err
	}

	var hosts []HostEntity
	for _, ref := range refs {
		hostObj, ok := ref.(*object.HostSystem)
		if !ok {
			continue
		}
		name, err := hostObj.ObjectName(ctx)
		if err != nil {
			name = hostObj.Reference().Value
		}
		hosts = append(hosts, &HostSystem{HostSystem: hostObj, name: name})
	}
	return hosts, nil
}
