// Copyright 2025 The SolarScope Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	// Document store credentials
	ProjectID string `yaml:"project_id"`
	APIKey    string `yaml:"api_key"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`

	// Analysis settings
	UnitPrice          float64 `yaml:"unit_price"`            // Currency per kWh
	RecentWindowMonths int     `yaml:"recent_window_months"`  // History entries per unit used for averages
	AnnualYieldPerKWp  float64 `yaml:"annual_yield_per_kwp"`  // kWh generated per kWp per year
	ForecastPeriods    int     `yaml:"forecast_periods"`      // Months projected beyond the series
	RevenuePerKWp      float64 `yaml:"revenue_per_kwp"`       // Monthly revenue per installed kWp
	CacheTTLMinutes    int     `yaml:"cache_ttl_minutes"`

	// Storage
	StoragePath string `yaml:"storage_path"`

	// Debugging
	Debug bool `yaml:"debug"`
}

// LoadConfig loads configuration from a YAML file. A .env file in the
// working directory is loaded first so secrets can stay out of the YAML.
func LoadConfig(path string) (*Config, error) {
	// Missing .env is fine; real environments set variables directly
	_ = godotenv.Load()

	// Set defaults
	config := &Config{
		UnitPrice:          DefaultUnitPrice,
		RecentWindowMonths: DefaultRecentWindow,
		AnnualYieldPerKWp:  DefaultAnnualYieldPerKWp,
		ForecastPeriods:    DefaultForecastPeriods,
		RevenuePerKWp:      DefaultRevenuePerKWp,
		CacheTTLMinutes:    60,
		StoragePath:        getDefaultStoragePath(),
		Debug:              false,
	}

	// If no path provided, return defaults with env var overrides
	if path == "" {
		config.applyEnvironmentVariables()
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnvironmentVariables()

	return config, nil
}

// getDefaultStoragePath returns the default storage path
func getDefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".solarscope"
	}
	return filepath.Join(home, ".config", "solarscope")
}

// applyEnvironmentVariables overrides config with environment variables
func (c *Config) applyEnvironmentVariables() {
	if val := os.Getenv("SOLARSCOPE_PROJECT_ID"); val != "" {
		c.ProjectID = val
	}
	if val := os.Getenv("SOLARSCOPE_API_KEY"); val != "" {
		c.APIKey = val
	}
	if val := os.Getenv("SOLARSCOPE_EMAIL"); val != "" {
		c.Email = val
	}
	if val := os.Getenv("SOLARSCOPE_PASSWORD"); val != "" {
		c.Password = val
	}
	if val := os.Getenv("SOLARSCOPE_UNIT_PRICE"); val != "" {
		if price, err := strconv.ParseFloat(val, 64); err == nil {
			c.UnitPrice = price
		}
	}
	if val := os.Getenv("SOLARSCOPE_STORAGE_PATH"); val != "" {
		c.StoragePath = val
	}
	if val := os.Getenv("SOLARSCOPE_DEBUG"); val == "true" || val == "1" {
		c.Debug = true
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errors []string

	// Required fields
	if c.ProjectID == "" {
		errors = append(errors, "project_id is required")
	}

	if c.APIKey == "" {
		errors = append(errors, "api_key is required")
	} else if len(c.APIKey) < 20 {
		errors = append(errors, "api_key appears to be invalid (too short)")
	}

	if c.Email == "" {
		errors = append(errors, "email is required")
	} else if !strings.Contains(c.Email, "@") {
		errors = append(errors, "email appears to be invalid")
	}

	if c.Password == "" {
		errors = append(errors, "password is required")
	}

	if c.UnitPrice <= 0 {
		errors = append(errors, "unit_price must be greater than 0")
	}

	if c.RecentWindowMonths < 1 || c.RecentWindowMonths > 24 {
		errors = append(errors, "recent_window_months must be between 1 and 24")
	}

	if c.AnnualYieldPerKWp <= 0 {
		errors = append(errors, "annual_yield_per_kwp must be greater than 0")
	}

	if c.ForecastPeriods < 1 || c.ForecastPeriods > 12 {
		errors = append(errors, "forecast_periods must be between 1 and 12")
	}

	if c.CacheTTLMinutes < 0 {
		errors = append(errors, "cache_ttl_minutes must not be negative")
	}

	// Set default storage path if empty
	if c.StoragePath == "" {
		c.StoragePath = getDefaultStoragePath()
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
