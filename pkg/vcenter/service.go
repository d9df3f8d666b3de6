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

	"github.com/MetricsHub/vcenter-go/pkg/config"
	"github.com/MetricsHub/vcenter-go/pkg/diag"
	"github.com/MetricsHub/vcenter-go/pkg/logger"
)

// CertificateService requests CIM services tickets for ESX hosts managed by a
// vCenter server. Each operation opens a fresh session, performs its work and
// logs out before returning, on every path.
type CertificateService struct {
	// Resolver locates the target host in the inventory.
	Resolver *HostResolver

	// Sink receives the connection progress diagnostics. Nil falls back to
	// the process-wide sink configured via diag.Configure.
	Sink *diag.Sink

	// openSession opens an authenticated session. Replaced in tests.
	openSession func(ctx context.Context, cfg *VirtualCenterConfig) (Session, error)
}

// NewCertificateService returns a CertificateService backed by the govmomi
// vCenter client.
func NewCertificateService() *CertificateService {
	return &CertificateService{
		Resolver:    &HostResolver{},
		openSession: openVirtualCenterSession,
	}
}

func openVirtualCenterSession(ctx context.Context, cfg *VirtualCenterConfig) (Session, error) {
	vc := &VirtualCenter{Config: cfg}
	if err := vc.Connect(ctx); err != nil {
		return nil, err
	}
	return vc, nil
}

func (s *CertificateService) resolver() *HostResolver {
	if s.Resolver != nil {
		return s.Resolver
	}
	return &HostResolver{}
}

func (s *CertificateService) sink() *diag.Sink {
	if s.Sink != nil {
		return s.Sink
	}
	return diag.Default()
}

// RequestCertificate requests an authentication ticket for hostname from the
// vCenter server at vcenterName. The host must be registered in vCenter; the
// returned session id then lets CIM/WBEM clients connect to the ESX host
// directly, without its own credentials. Server certificate verification is
// skipped, matching the behavior callers of this entry point expect; use
// RequestCertificateWithConfig to pin a CA or thumbprint.
func (s *CertificateService) RequestCertificate(ctx context.Context,
	vcenterName, username, password, hostname string) (string, error) {
	return s.RequestCertificateWithConfig(ctx, &VirtualCenterConfig{
		Host:     vcenterName,
		Username: username,
		Password: password,
		Insecure: true,
	}, hostname)
}

// RequestCertificateWithConfig is RequestCertificate with full control over
// the connection settings.
func (s *CertificateService) RequestCertificateWithConfig(ctx context.Context,
	cfg *VirtualCenterConfig, hostname string) (string, error) {
	log := logger.GetLogger(ctx)

	s.sink().Emitf("Connecting to https://%s/sdk ...", cfg.Host)
	session, err := s.open(ctx, cfg)
	if err != nil {
		return "", err
	}
	defer func() {
		// Logout is best-effort cleanup; a failure here must never mask the
		// outcome of the request.
		if err := session.Disconnect(ctx); err != nil {
			log.Errorf("failed to log out of vCenter %q: %v", cfg.Host, err)
		}
	}()

	host, err := s.resolver().Resolve(ctx, session, hostname)
	if err != nil {
		return "", err
	}
	if host == nil {
		return "", fmt.Errorf("%w: unable to find host %q in vCenter %q",
			ErrHostNotFound, hostname, cfg.Host)
	}

	return host.AcquireCimTicket(ctx)
}

// ListAllHosts returns the names of every HostSystem entity registered in the
// vCenter server at vcenterName, in server-returned order.
func (s *CertificateService) ListAllHosts(ctx context.Context,
	vcenterName, username, password string) ([]string, error) {
	return s.ListAllHostsWithConfig(ctx, &VirtualCenterConfig{
		Host:     vcenterName,
		Username: username,
		Password: password,
		Insecure: true,
	})
}

// ListAllHostsWithConfig is ListAllHosts with full control over the
// connection settings.
func (s *CertificateService) ListAllHostsWithConfig(ctx context.Context,
	cfg *VirtualCenterConfig) ([]string, error) {
	log := logger.GetLogger(ctx)

	s.sink().Emitf("Connecting to https://%s/sdk ...", cfg.Host)
	session, err := s.open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := session.Disconnect(ctx); err != nil {
			log.Errorf("failed to log out of vCenter %q: %v", cfg.Host, err)
		}
	}()

	hosts, err := session.HostSystems(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(hosts))
	for _, host := range hosts {
		names = append(names, host.Name())
	}
	return names, nil
}

// RequestCertificateFromConfig is RequestCertificate with the connection
// settings taken from a configuration read via the config package.
func (s *CertificateService) RequestCertificateFromConfig(ctx context.Context,
	cfg *config.Config, hostname string) (string, error) {
	vcConfig, err := GetVirtualCenterConfig(ctx, cfg)
	if err != nil {
		return "", err
	}
	return s.RequestCertificateWithConfig(ctx, vcConfig, hostname)
}

// ListAllHostsFromConfig is ListAllHosts with the connection settings taken
// from a configuration read via the config package.
func (s *CertificateService) ListAllHostsFromConfig(ctx context.Context,
	cfg *config.Config) ([]string, error) {
	vcConfig, err := GetVirtualCenterConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s.ListAllHostsWithConfig(ctx, vcConfig)
}

func (s *CertificateService) open(ctx context.Context, cfg *VirtualCenterConfig) (Session, error) {
	if s.openSession != nil {
		return s.openSession(ctx, cfg)
	}
	return openVirtualCenterSession(ctx, cfg)
}

// RequestCertificate requests an authentication ticket for hostname from the
// vCenter server at vcenterName, using a default CertificateService.
func RequestCertificate(ctx context.Context,
	vcenterName, username, password, hostname string) (string, error) {
	return NewCertificateService().RequestCertificate(ctx, vcenterName, username, password, hostname)
}

// ListAllHosts returns the names of every host registered in the vCenter
// server at vcenterName, using a default CertificateService.
func ListAllHosts(ctx context.Context,
	vcenterName, username, password string) ([]string, error) {
	return NewCertificateService().ListAllHosts(ctx, vcenterName, username, password)
}
