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
	"time"
)

// Collector orchestrates snapshot collection from the document store
type Collector struct {
	client  *StoreClient
	config  *Config
	storage *Storage
	logger  *Logger
}

// NewCollector creates a new data collector
func NewCollector(client *StoreClient, config *Config, storage *Storage, logger *Logger) *Collector {
	return &Collector{
		client:  client,
		config:  config,
		storage: storage,
		logger:  logger,
	}
}

// Collect fetches a full snapshot of the portfolio, serving from the local
// cache when a recent one exists. The snapshot is a complete replacement:
// there is no incremental merge with earlier data.
func (c *Collector) Collect() (*Snapshot, error) {
	c.logger.Info("Starting data collection")

	cacheKey := fmt.Sprintf("snapshot_%s", c.config.ProjectID)
	var snapshot *Snapshot
	cached, err := c.storage.LoadCache(cacheKey, &snapshot)
	if err != nil {
		c.logger.Warn("Failed to load snapshot from cache", "error", err)
	}
	if cached && snapshot != nil {
		c.logger.Info("Loaded snapshot from cache",
			"clients", len(snapshot.Clients),
			"fetched_at", snapshot.FetchedAt.Format(time.RFC3339),
		)
		return snapshot, nil
	}

	clients, err := c.client.FetchClients()
	if err != nil {
		return nil, fmt.Errorf("failed to collect snapshot: %w", err)
	}

	snapshot = buildSnapshot(clients, c.logger)

	ttl := time.Duration(c.config.CacheTTLMinutes) * time.Minute
	if ttl > 0 {
		if err := c.storage.SaveCache(cacheKey, snapshot, ttl); err != nil {
			c.logger.Warn("Failed to cache snapshot", "error", err)
		}
	}

	c.logger.Info("Data collection completed successfully",
		"total", snapshot.TotalInStore,
		"analyzed", len(snapshot.Clients),
	)
	return snapshot, nil
}

// buildSnapshot splits the fetched clients into the analyzed set and the
// excluded remainder. Clients without any valid billing history cannot be
// scored, but their consumer units are still collected: consumption in an
// entry that fails the validity check (say, nothing paid yet) still belongs
// in the trend series and the unit-level balance averages.
func buildSnapshot(clients []Client, logger *Logger) *Snapshot {
	snapshot := &Snapshot{
		TotalInStore: len(clients),
		FetchedAt:    time.Now(),
	}

	for _, client := range clients {
		// Every unit feeds the trend series and per-unit averages, even
		// when its owner cannot be scored
		snapshot.AllConsumerUnits = append(snapshot.AllConsumerUnits, client.ConsumerUnits...)

		if !client.HasHistoryData {
			logger.LogExcludedClient(client.ID, client.Name, "no billing history")
			continue
		}
		snapshot.Clients = append(snapshot.Clients, client)
	}

	return snapshot
}
