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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSnapshot(t *testing.T) {
	clients := []Client{
		historyClient("c1", 0, 2, 400, 250),
		{ID: "c2", Name: "No History"},
		historyClient("c3", 30, 10, 600, 40),
	}

	snapshot := buildSnapshot(clients, testLogger())

	assert.Equal(t, 3, snapshot.TotalInStore)
	require.Len(t, snapshot.Clients, 2)
	assert.Equal(t, "c1", snapshot.Clients[0].ID)
	assert.Equal(t, "c3", snapshot.Clients[1].ID)
	assert.Len(t, snapshot.AllConsumerUnits, 2)
	assert.WithinDuration(t, time.Now(), snapshot.FetchedAt, time.Minute)
}

func TestBuildSnapshotKeepsExcludedClientUnits(t *testing.T) {
	// c2 never paid a bill, so it cannot be scored, but its unit's
	// consumption still feeds the trend series and unit averages
	clients := []Client{
		{
			ID: "c1", Name: "Scored", TotalBalance: 50, HasHistoryData: true,
			ConsumerUnits: []ConsumerUnit{
				{ID: "u1", ClientID: "c1", History: []HistoryEntry{{Period: "01/2024", Consumption: 100, AmountPaid: 50}}},
			},
		},
		{
			ID: "c2", Name: "Unpaid",
			ConsumerUnits: []ConsumerUnit{
				{ID: "u2", ClientID: "c2", BalanceKWH: 300, History: []HistoryEntry{{Period: "01/2024", Consumption: 200, AmountPaid: 0}}},
			},
		},
	}

	snapshot := buildSnapshot(clients, testLogger())

	require.Len(t, snapshot.Clients, 1)
	assert.Equal(t, "c1", snapshot.Clients[0].ID)

	ids := make([]string, 0, len(snapshot.AllConsumerUnits))
	for _, unit := range snapshot.AllConsumerUnits {
		ids = append(ids, unit.ID)
	}
	assert.Contains(t, ids, "u1")
	assert.Contains(t, ids, "u2")
}

func TestCollectServesFromCache(t *testing.T) {
	storage := newTestStorage(t)
	config := testConfig()
	config.ProjectID = "test-project"
	config.CacheTTLMinutes = 60

	cached := &Snapshot{
		Clients:      []Client{historyClient("c1", 0, 2, 400, 250)},
		TotalInStore: 1,
		FetchedAt:    time.Now(),
	}
	require.NoError(t, storage.SaveCache("snapshot_test-project", cached, time.Hour))

	// A nil API client proves the cache path never reaches the network
	collector := NewCollector(nil, config, storage, testLogger())
	snapshot, err := collector.Collect()
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, 1, snapshot.TotalInStore)
	require.Len(t, snapshot.Clients, 1)
	assert.Equal(t, "c1", snapshot.Clients[0].ID)
}
