// Package config loads s2nbar settings: logging, the HTTP service, the
// reference geometry policy and band coefficient overrides.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/chrissnell/s2brdf/pkg/brdf"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	LoadConfig() (*ConfigData, error)
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Logging       LoggingData                  `yaml:"logging"`
	Server        ServerData                   `yaml:"server"`
	Reference     ReferenceData                `yaml:"reference"`
	Bands         map[string]brdf.Coefficients `yaml:"bands,omitempty"`
	TrueColorGain float64                      `yaml:"true_color_gain,omitempty"`
}

// LoggingData holds logger settings
type LoggingData struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
	Debug bool   `yaml:"debug,omitempty"`
}

// ServerData holds the HTTP service settings
type ServerData struct {
	ListenAddr string `yaml:"listen_addr"`
	HTTPPort   int    `yaml:"http_port"`
}

// ReferenceData selects the geometry NBAR is normalized to. A nil
// SolarZenithDeg keeps the observed solar zenith.
type ReferenceData struct {
	SolarZenithDeg *float64 `yaml:"solar_zenith_deg,omitempty"`
}

// Default returns the built-in configuration.
func Default() *ConfigData {
	return &ConfigData{
		Logging: LoggingData{Level: "info"},
		Server: ServerData{
			ListenAddr: "0.0.0.0",
			HTTPPort:   8080,
		},
		TrueColorGain: brdf.TrueColorGain,
	}
}

// Addr returns the host:port the HTTP service listens on.
func (s ServerData) Addr() string {
	return fmt.Sprintf("%v:%v", s.ListenAddr, s.HTTPPort)
}

// Validate checks the configuration for values that cannot be used.
func (c *ConfigData) Validate() error {
	var errs []error

	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port %d out of range", c.Server.HTTPPort))
	}
	for name, coeffs := range c.Bands {
		if name == "" {
			errs = append(errs, errors.New("bands: empty band key"))
			continue
		}
		for _, v := range []float64{coeffs.Iso, coeffs.Geo, coeffs.Vol} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				errs = append(errs, fmt.Errorf("bands.%s: non-finite coefficient", name))
				break
			}
		}
	}
	if z := c.Reference.SolarZenithDeg; z != nil && (*z < 0 || *z >= 90) {
		errs = append(errs, fmt.Errorf("reference.solar_zenith_deg %v must be in [0, 90)", *z))
	}
	if c.TrueColorGain < 0 {
		errs = append(errs, fmt.Errorf("true_color_gain %v must not be negative", c.TrueColorGain))
	}

	return errors.Join(errs...)
}

// BandTable returns the literature table with the configured bands merged
// on top. Keys are upper-cased.
func (c *ConfigData) BandTable() brdf.BandTable {
	table := brdf.DefaultBands()
	for name, coeffs := range c.Bands {
		table[brdf.Band(normalizeBandKey(name))] = coeffs
	}
	return table
}

// Normalizer builds the normalizer described by the configuration.
func (c *ConfigData) Normalizer() *brdf.Normalizer {
	var ref brdf.ReferenceGeometry = brdf.NadirView
	if z := c.Reference.SolarZenithDeg; z != nil {
		ref = brdf.FixedSolarZenith(brdf.Deg2Rad(*z))
	}
	return brdf.NewNormalizer(c.BandTable(), ref)
}
