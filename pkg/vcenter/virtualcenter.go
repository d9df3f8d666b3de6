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
	neturl "net/url"
	"strconv"
	"time"

	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/session"
	"github.com/vmware/govmomi/view"
	"github.com/vmware/govmomi/vim25"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/soap"

	"github.com/MetricsHub/vcenter-go/pkg/logger"
)

const (
	// DefaultScheme is the default connection scheme.
	DefaultScheme = "https"
	// DefaultPort is the default vCenter port.
	DefaultPort = 443

	entityHostSystem = "HostSystem"
)

// VirtualCenterConfig represents virtual center configuration.
type VirtualCenterConfig struct {
	// Scheme represents the connection scheme. (Ex: https)
	Scheme string
	// Host represents the virtual center host address.
	Host string
	// Port represents the virtual center host port.
	Port int
	// Username represents the virtual center username.
	Username string
	// Password represents the virtual center password in clear text.
	Password string
	// Specifies whether to verify the server's certificate chain. Set to true
	// to skip verification.
	Insecure bool
	// Specifies the path to a CA certificate in PEM format. This has no effect
	// if Insecure is enabled. Optional; if not configured, the system's CA
	// certificates will be used.
	CAFile string
	// Thumbprint specifies the certificate thumbprint to use. This has no
	// effect if Insecure is enabled.
	Thumbprint string
	// ClientTimeout is the limit for requests made by the vCenter client.
	// Zero means no client-side timeout.
	ClientTimeout time.Duration
}

// VirtualCenter holds one authenticated connection to a virtual center
// instance. A VirtualCenter is opened for a single request and must be
// disconnected on every exit path; it is not safe for concurrent use.
type VirtualCenter struct {
	// Config represents the virtual center configuration.
	Config *VirtualCenterConfig
	// Client represents the govmomi client instance for the connection.
	Client *govmomi.Client
}

func (vc *VirtualCenter) String() string {
	return fmt.Sprintf("VirtualCenter [Config: %v, Client: %v]", vc.Config, vc.Client)
}

// newClient creates a new govmomi Client instance and logs in.
func (vc *VirtualCenter) newClient(ctx context.Context) (*govmomi.Client, error) {
	log := logger.GetLogger(ctx)
	if vc.Config.Scheme == "" {
		vc.Config.Scheme = DefaultScheme
	}
	if vc.Config.Port == 0 {
		vc.Config.Port = DefaultPort
	}

	url, err := soap.ParseURL(net.JoinHostPort(vc.Config.Host, strconv.Itoa(vc.Config.Port)))
	if err != nil {
		log.Errorf("failed to parse URL %s with err: %v", url, err)
		return nil, fmt.Errorf("%w: invalid endpoint %q: %v", ErrConnectivity, vc.Config.Host, err)
	}

	soapClient := soap.NewClient(url, vc.Config.Insecure)
	if len(vc.Config.CAFile) > 0 && !vc.Config.Insecure {
		if err := soapClient.SetRootCAs(vc.Config.CAFile); err != nil {
			log.Errorf("failed to load CA file: %v", err)
			return nil, fmt.Errorf("%w: CA file %q: %v", ErrConnectivity, vc.Config.CAFile, err)
		}
	} else if len(vc.Config.Thumbprint) > 0 && !vc.Config.Insecure {
		soapClient.SetThumbprint(url.Host, vc.Config.Thumbprint)
		log.Debugf("using thumbprint %s for url %s", vc.Config.Thumbprint, url.Host)
	}
	soapClient.Timeout = vc.Config.ClientTimeout

	vimClient, err := vim25.NewClient(ctx, soapClient)
	if err != nil {
		log.Errorf("failed to create new client with err: %v", err)
		return nil, fmt.Errorf("%w: %q: %v", ErrConnectivity, url.Host, err)
	}
	vimClient.UserAgent = "metricshub-vcenter-go"

	client := &govmomi.Client{
		Client:         vimClient,
		SessionManager: session.NewManager(vimClient),
	}

	if err := client.SessionManager.Login(ctx,
		neturl.UserPassword(vc.Config.Username, vc.Config.Password)); err != nil {
		if isInvalidLogin(err) {
			log.Errorf("invalid credentials for vCenter %q", vc.Config.Host)
			return nil, fmt.Errorf("%w: user %q on %q", ErrInvalidCredentials,
				vc.Config.Username, vc.Config.Host)
		}
		log.Errorf("failed to log in to vCenter %q with err: %v", vc.Config.Host, err)
		return nil, err
	}

	s, err := client.SessionManager.UserSession(ctx)
	if err != nil {
		log.Errorf("failed to get UserSession. err: %v", err)
		return nil, err
	}
	// UserSession can return a nil session with a nil error when the session
	// is not authenticated.
	if s == nil {
		return nil, fmt.Errorf("%w: nil session obtained from session manager", ErrInvalidCredentials)
	}
	log.Debugf("New session ID for '%s' = %s", s.UserName, s.Key)
	return client, nil
}

// Connect establishes a connection to the virtual center host and
// authenticates with the configured credentials. Calling Connect on an
// already-connected instance is a no-op.
func (vc *VirtualCenter) Connect(ctx context.Context) error {
	log := logger.GetLogger(ctx)
	if vc.Client != nil {
		return nil
	}
	log.Debugf("Connecting to vCenter %q ...", vc.Config.Host)
	client, err := vc.newClient(ctx)
	if err != nil {
		return err
	}
	vc.Client = client
	return nil
}

// Disconnect logs out of the virtual center session if connected. Logout
// failures are reported so the caller can log them; an already-disconnected
// instance is a no-op.
func (vc *VirtualCenter) Disconnect(ctx context.Context) error {
	log := logger.GetLogger(ctx)
	if vc.Client == nil {
		log.Debug("Client wasn't connected, ignoring")
		return nil
	}
	err := vc.Client.Logout(ctx)
	vc.Client = nil
	if err != nil {
		log.Errorf("failed to logout with err: %v", err)
		return err
	}
	return nil
}

// HostSystems returns every HostSystem entity reachable from the inventory
// root, in server-returned order.
func (vc *VirtualCenter) HostSystems(ctx context.Context) ([]HostEntity, error) {
	log := logger.GetLogger(ctx)
	m := view.NewManager(vc.Client.Client)
	v, err := m.CreateContainerView(ctx, vc.Client.Client.ServiceContent.RootFolder,
		[]string{entityHostSystem}, true)
	if err != nil {
		log.Errorf("failed to create container view for %s with err: %v", entityHostSystem, err)
		return nil, fmt.Errorf("%w: %v", ErrInventory, err)
	}
	defer func() { _ = v.Destroy(ctx) }()

	var hostMoList []mo.HostSystem
	if err := v.Retrieve(ctx, []string{entityHostSystem}, []string{"name"}, &hostMoList); err != nil {
		log.Errorf("failed to retrieve %s names with err: %v", entityHostSystem, err)
		return nil, fmt.Errorf("%w: %v", ErrInventory, err)
	}

	hosts := make([]HostEntity, 0, len(hostMoList))
	for _, hostMo := range hostMoList {
		hosts = append(hosts, &HostSystem{
			HostSystem: object.NewHostSystem(vc.Client.Client, hostMo.Self),
			name:       hostMo.Name,
		})
	}
	return hosts, nil
}

// Datacenters returns every Datacenter entity reachable from the inventory
// root, in server-returned order.
func (vc *VirtualCenter) Datacenters(ctx context.Context) ([]DatacenterEntity, error) {
	log := logger.GetLogger(ctx)
	finder := find.NewFinder(vc.Client.Client, false)
	dcList, err := finder.DatacenterList(ctx, "*")
	if err != nil {
		log.Errorf("failed to list datacenters with err: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInventory, err)
	}

	dcs := make([]DatacenterEntity, 0, len(dcList))
	for _, dcObj := range dcList {
		dcs = append(dcs, &Datacenter{Datacenter: dcObj})
	}
	return dcs, nil
}
