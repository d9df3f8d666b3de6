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
	"strconv"

	"github.com/MetricsHub/vcenter-go/pkg/config"
	"github.com/MetricsHub/vcenter-go/pkg/logger"
)

// GetVcenterIPs returns the vCenter addresses defined in the configuration.
func GetVcenterIPs(cfg *config.Config) ([]string, error) {
	var err error
	vCenterIPs := make([]string, 0)
	for key := range cfg.VirtualCenter {
		vCenterIPs = append(vCenterIPs, key)
	}
	if len(vCenterIPs) == 0 {
		err = errors.New("unable to get vCenter hosts from the configuration")
	}
	return vCenterIPs, err
}

// GetVirtualCenterConfig returns a VirtualCenterConfig object created from the
// configuration specified in the argument. Each request targets a single
// vCenter, so the configuration must define exactly one.
func GetVirtualCenterConfig(ctx context.Context, cfg *config.Config) (*VirtualCenterConfig, error) {
	log := logger.GetLogger(ctx)
	vCenterIPs, err := GetVcenterIPs(cfg)
	if err != nil {
		return nil, err
	}
	if len(vCenterIPs) > 1 {
		return nil, logger.LogNewErrorf(log,
			"found %d vCenter hosts in the configuration, expected exactly one", len(vCenterIPs))
	}
	host := vCenterIPs[0]
	port, err := strconv.Atoi(cfg.VirtualCenter[host].VCenterPort)
	if err != nil {
		return nil, logger.LogNewErrorf(log, "invalid port %q for vCenter %s: %v",
			cfg.VirtualCenter[host].VCenterPort, host, err)
	}

	vcConfig := &VirtualCenterConfig{
		Host:       host,
		Port:       port,
		Username:   cfg.VirtualCenter[host].User,
		Password:   cfg.VirtualCenter[host].Password,
		Insecure:   cfg.VirtualCenter[host].InsecureFlag,
		CAFile:     cfg.VirtualCenter[host].CAFile,
		Thumbprint: cfg.VirtualCenter[host].Thumbprint,
	}
	return vcConfig, nil
}
