// Copyright 2025 The SolarScope Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ProjectID:          "solar-project",
		APIKey:             "AIzaSyTestKeyLongEnough123456",
		Email:              "ops@example.com",
		Password:           "secret",
		UnitPrice:          DefaultUnitPrice,
		RecentWindowMonths: DefaultRecentWindow,
		AnnualYieldPerKWp:  DefaultAnnualYieldPerKWp,
		ForecastPeriods:    DefaultForecastPeriods,
		RevenuePerKWp:      DefaultRevenuePerKWp,
		StoragePath:        "/tmp/solarscope-test",
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.InDelta(t, 0.99, config.UnitPrice, 1e-9)
	assert.Equal(t, 6, config.RecentWindowMonths)
	assert.InDelta(t, 1200, config.AnnualYieldPerKWp, 1e-9)
	assert.Equal(t, 3, config.ForecastPeriods)
	assert.InDelta(t, 150, config.RevenuePerKWp, 1e-9)
	assert.Equal(t, 60, config.CacheTTLMinutes)
	assert.NotEmpty(t, config.StoragePath)
	assert.False(t, config.Debug)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
project_id: solar-project
api_key: AIzaSyTestKeyLongEnough123456
email: ops@example.com
password: secret
unit_price: 1.10
recent_window_months: 12
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0600))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "solar-project", config.ProjectID)
	assert.InDelta(t, 1.10, config.UnitPrice, 1e-9)
	assert.Equal(t, 12, config.RecentWindowMonths)
	// Defaults survive for keys the file does not set
	assert.Equal(t, 3, config.ForecastPeriods)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("SOLARSCOPE_PROJECT_ID", "env-project")
	t.Setenv("SOLARSCOPE_UNIT_PRICE", "1.25")
	t.Setenv("SOLARSCOPE_DEBUG", "true")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "env-project", config.ProjectID)
	assert.InDelta(t, 1.25, config.UnitPrice, 1e-9)
	assert.True(t, config.Debug)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "missing project id",
			mutate:  func(c *Config) { c.ProjectID = "" },
			wantMsg: "project_id is required",
		},
		{
			name:    "short api key",
			mutate:  func(c *Config) { c.APIKey = "short" },
			wantMsg: "api_key appears to be invalid",
		},
		{
			name:    "bad email",
			mutate:  func(c *Config) { c.Email = "not-an-email" },
			wantMsg: "email appears to be invalid",
		},
		{
			name:    "missing password",
			mutate:  func(c *Config) { c.Password = "" },
			wantMsg: "password is required",
		},
		{
			name:    "zero unit price",
			mutate:  func(c *Config) { c.UnitPrice = 0 },
			wantMsg: "unit_price must be greater than 0",
		},
		{
			name:    "window out of range",
			mutate:  func(c *Config) { c.RecentWindowMonths = 25 },
			wantMsg: "recent_window_months must be between 1 and 24",
		},
		{
			name:    "forecast out of range",
			mutate:  func(c *Config) { c.ForecastPeriods = 0 },
			wantMsg: "forecast_periods must be between 1 and 12",
		},
		{
			name:    "negative cache ttl",
			mutate:  func(c *Config) { c.CacheTTLMinutes = -1 },
			wantMsg: "cache_ttl_minutes must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)
			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestConfigValidateFillsStoragePath(t *testing.T) {
	config := validConfig()
	config.StoragePath = ""
	require.NoError(t, config.Validate())
	assert.NotEmpty(t, config.StoragePath)
}
