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

// Package config reads connection settings for one or more vCenter servers
// from an INI-style configuration file, with environment variable overrides.
package config

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"

	"gopkg.in/gcfg.v1"

	"github.com/MetricsHub/vcenter-go/pkg/logger"
)

const (
	// DefaultVCenterPort is the default port used to access vCenter.
	DefaultVCenterPort string = "443"
	// DefaultConfigPath is the default path of the vCenter config file.
	DefaultConfigPath = "/etc/metricshub/vcenter.conf"
	// EnvVCenterConfig contains the path to the vCenter config file.
	EnvVCenterConfig = "VCENTER_CONFIG"
)

// Errors
var (
	// ErrUsernameMissing is returned when the provided username is empty.
	ErrUsernameMissing = errors.New("username is missing")

	// ErrPasswordMissing is returned when the provided password is empty.
	ErrPasswordMissing = errors.New("password is missing")

	// ErrInvalidVCenterIP is returned when a VirtualCenter section carries an
	// empty vCenter address.
	ErrInvalidVCenterIP = errors.New("config does not have the VirtualCenter IP address specified")

	// ErrMissingVCenter is returned when the provided configuration does not
	// define any vCenters.
	ErrMissingVCenter = errors.New("no Virtual Center hosts defined")
)

// Config is used to read and store information from the configuration file.
type Config struct {
	Global struct {
		// vCenter username.
		User string `gcfg:"user"`
		// vCenter password in clear text.
		Password string `gcfg:"password"`
		// vCenter port.
		VCenterPort string `gcfg:"port"`
		// Specifies whether to verify the server's certificate chain. Set to
		// true to skip verification.
		InsecureFlag bool `gcfg:"insecure-flag"`
		// Specifies the path to a CA certificate in PEM format. This has no
		// effect if InsecureFlag is enabled.
		CAFile string `gcfg:"ca-file"`
	}

	// Virtual Center configurations, keyed by vCenter address.
	VirtualCenter map[string]*VirtualCenterConfig
}

// VirtualCenterConfig contains information used to access a remote vCenter
// endpoint.
type VirtualCenterConfig struct {
	// vCenter username.
	User string `gcfg:"user"`
	// vCenter password in clear text.
	Password string `gcfg:"password"`
	// vCenter port.
	VCenterPort string `gcfg:"port"`
	// True if vCenter uses self-signed cert.
	InsecureFlag bool `gcfg:"insecure-flag"`
	// Specifies the path to a CA certificate in PEM format.
	CAFile string `gcfg:"ca-file"`
	// Certificate thumbprint to verify against, when CAFile is not given.
	Thumbprint string `gcfg:"thumbprint"`
}

// FromEnv initializes the provided configuration object with values obtained
// from environment variables. If an environment variable is set for a
// property that's already initialized, the environment variable's value takes
// precedence.
func FromEnv(ctx context.Context, cfg *Config) error {
	if cfg == nil {
		return errors.New("config object cannot be nil")
	}
	log := logger.GetLogger(ctx)
	if cfg.VirtualCenter == nil {
		cfg.VirtualCenter = make(map[string]*VirtualCenterConfig)
	}

	if v := os.Getenv(logger.EnvLoggerLevel); v != "" {
		logger.SetLoggerLevel(logger.LogLevel(v))
	}
	if v := os.Getenv("VCENTER_USER"); v != "" {
		cfg.Global.User = v
	}
	if v := os.Getenv("VCENTER_PASSWORD"); v != "" {
		cfg.Global.Password = v
	}
	if v := os.Getenv("VCENTER_PORT"); v != "" {
		cfg.Global.VCenterPort = v
	}
	if v := os.Getenv("VCENTER_CA_FILE"); v != "" {
		cfg.Global.CAFile = v
	}
	if v := os.Getenv("VCENTER_INSECURE"); v != "" {
		insecure, err := strconv.ParseBool(v)
		if err != nil {
			log.Errorf("failed to parse VCENTER_INSECURE: %s", err)
		} else {
			cfg.Global.InsecureFlag = insecure
		}
	}
	if v := os.Getenv("VCENTER_ADDRESS"); v != "" {
		if _, ok := cfg.VirtualCenter[v]; !ok {
			cfg.VirtualCenter[v] = &VirtualCenterConfig{}
		}
	}
	return nil
}

func validateConfig(ctx context.Context, cfg *Config) error {
	log := logger.GetLogger(ctx)
	// Fix default global values.
	if cfg.Global.VCenterPort == "" {
		cfg.Global.VCenterPort = DefaultVCenterPort
	}
	// Must have at least one vCenter defined.
	if len(cfg.VirtualCenter) == 0 {
		log.Error(ErrMissingVCenter)
		return ErrMissingVCenter
	}
	for vcServer, vcConfig := range cfg.VirtualCenter {
		log.Debugf("Initializing vc server %s", vcServer)
		if vcServer == "" {
			log.Error(ErrInvalidVCenterIP)
			return ErrInvalidVCenterIP
		}
		if vcConfig.User == "" {
			vcConfig.User = cfg.Global.User
			if vcConfig.User == "" {
				log.Errorf("vcConfig.User is empty for vc %s!", vcServer)
				return ErrUsernameMissing
			}
		}
		if vcConfig.Password == "" {
			vcConfig.Password = cfg.Global.Password
			if vcConfig.Password == "" {
				log.Errorf("vcConfig.Password is empty for vc %s!", vcServer)
				return ErrPasswordMissing
			}
		}
		if vcConfig.VCenterPort == "" {
			vcConfig.VCenterPort = cfg.Global.VCenterPort
		}
		if vcConfig.CAFile == "" {
			vcConfig.CAFile = cfg.Global.CAFile
		}
		if !vcConfig.InsecureFlag {
			vcConfig.InsecureFlag = cfg.Global.InsecureFlag
		}
	}
	return nil
}

// ReadConfig parses the vCenter config file and stores it into Config.
// Environment variables are also checked.
func ReadConfig(ctx context.Context, config io.Reader) (*Config, error) {
	log := logger.GetLogger(ctx)
	if config == nil {
		return nil, logger.LogNewError(log, "no vCenter config file given")
	}
	cfg := &Config{}
	if err := gcfg.FatalOnly(gcfg.ReadInto(cfg, config)); err != nil {
		log.Errorf("error while reading config file: %+v", err)
		return nil, err
	}
	// Env vars should override config file entries if present.
	if err := FromEnv(ctx, cfg); err != nil {
		return nil, err
	}
	if err := validateConfig(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetConfig returns the Config read from the file pointed to by the
// VCENTER_CONFIG environment variable, falling back to DefaultConfigPath. If
// the file does not exist, the configuration is built from environment
// variables alone.
func GetConfig(ctx context.Context) (*Config, error) {
	log := logger.GetLogger(ctx)
	cfgPath := os.Getenv(EnvVCenterConfig)
	if cfgPath == "" {
		cfgPath = DefaultConfigPath
	}
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Infof("Could not stat %s, reading config params from env", cfgPath)
		cfg := &Config{}
		if err := FromEnv(ctx, cfg); err != nil {
			return nil, err
		}
		if err := validateConfig(ctx, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	f, err := os.Open(cfgPath)
	if err != nil {
		log.Errorf("failed to open %s. Err: %v", cfgPath, err)
		return nil, err
	}
	defer f.Close()
	return ReadConfig(ctx, f)
}
