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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOverview(t *testing.T) {
	clients := []Client{
		{
			ID: "c1", Name: "Zero", Power: 5, Status: StatusActive,
			TotalBalance: 0, HasHistoryData: true,
			ConsumerUnits: []ConsumerUnit{
				{BalanceKWH: 0, History: []HistoryEntry{{Period: "01/2024", Consumption: 100, AmountPaid: 50}}},
			},
		},
		{
			ID: "c2", Name: "Low", Power: 8, Status: StatusActive,
			TotalBalance: 80, HasHistoryData: true,
			ConsumerUnits: []ConsumerUnit{
				{BalanceKWH: 80, History: []HistoryEntry{{Period: "01/2024", Consumption: 200, AmountPaid: 90}}},
			},
		},
		{
			ID: "c3", Name: "Healthy", Power: 10, Status: StatusMonitoring,
			TotalBalance: 400, HasHistoryData: false,
			ConsumerUnits: []ConsumerUnit{
				{BalanceKWH: 400},
			},
		},
	}

	var units []ConsumerUnit
	for _, c := range clients {
		units = append(units, c.ConsumerUnits...)
	}

	report := BuildOverview(clients, units)

	assert.Equal(t, 3, report.TotalClients)
	assert.InDelta(t, 23, report.TotalPower, 1e-9)
	assert.Equal(t, 2, report.StatusDistribution[StatusActive])
	assert.Equal(t, 1, report.StatusDistribution[StatusMonitoring])

	assert.Equal(t, 2, report.LowBalanceClients)
	assert.Equal(t, 1, report.ZeroBalanceClients)
	assert.Equal(t, 1, report.PayingBillClients)

	assert.Equal(t, 2, report.ClientsWithHistory)
	assert.Equal(t, 1, report.ClientsWithoutHistory)

	// Average over units with history only: (0 + 80) / 2
	assert.InDelta(t, 40, report.AverageBalance, 1e-9)
	assert.InDelta(t, 66.666, report.OpportunityRate, 0.001)
	assert.InDelta(t, 66.666, report.HistoryRate, 0.001)

	require.Len(t, report.Alerts, 1)
	assert.Equal(t, "c1", report.Alerts[0].ClientID)
	assert.Equal(t, "Zero has no energy balance left and is paying full utility rates", report.Alerts[0].Message)
}

func TestBuildOverviewAverageIncludesExcludedClientUnits(t *testing.T) {
	// c1 is scoreable; c2's history never passed validation so the client
	// is out of the analyzed set, but its unit balance still counts.
	analyzed := []Client{
		{
			ID: "c1", TotalBalance: 100, HasHistoryData: true,
			ConsumerUnits: []ConsumerUnit{
				{BalanceKWH: 100, History: []HistoryEntry{{Period: "01/2024", Consumption: 100, AmountPaid: 50}}},
			},
		},
	}
	excludedUnit := ConsumerUnit{
		BalanceKWH: 300,
		History:    []HistoryEntry{{Period: "01/2024", Consumption: 100, AmountPaid: 0}},
	}
	allUnits := append(analyzed[0].ConsumerUnits, excludedUnit)

	report := BuildOverview(analyzed, allUnits)

	assert.Equal(t, 1, report.TotalClients)
	assert.InDelta(t, 200, report.AverageBalance, 1e-9)
}

func TestBuildOverviewEmpty(t *testing.T) {
	report := BuildOverview(nil, nil)
	assert.Zero(t, report.TotalClients)
	assert.Zero(t, report.OpportunityRate)
	assert.Zero(t, report.HistoryRate)
	assert.Len(t, report.BalanceBuckets, 5)
	assert.Empty(t, report.Alerts)
}

func TestBalanceHistogramEdges(t *testing.T) {
	clients := []Client{
		{TotalBalance: 0},
		{TotalBalance: 1},
		{TotalBalance: 50},
		{TotalBalance: 50.5},
		{TotalBalance: 100},
		{TotalBalance: 101},
		{TotalBalance: 200},
		{TotalBalance: 200.1},
	}

	buckets := balanceHistogram(clients)
	require.Len(t, buckets, 5)

	assert.Equal(t, BalanceBucket{Label: "0 kWh", Count: 1}, buckets[0])
	assert.Equal(t, BalanceBucket{Label: "1-50 kWh", Count: 2}, buckets[1])
	assert.Equal(t, BalanceBucket{Label: "51-100 kWh", Count: 2}, buckets[2])
	assert.Equal(t, BalanceBucket{Label: "101-200 kWh", Count: 2}, buckets[3])
	assert.Equal(t, BalanceBucket{Label: "200+ kWh", Count: 1}, buckets[4])
}

func TestZeroBalanceAlertsCap(t *testing.T) {
	clients := make([]Client, 8)
	for i := range clients {
		clients[i] = Client{ID: fmt.Sprintf("c%d", i), Name: fmt.Sprintf("Client %d", i)}
	}

	alerts := zeroBalanceAlerts(clients)
	require.Len(t, alerts, 5)
	assert.Equal(t, "c0", alerts[0].ClientID)
	assert.Equal(t, "c4", alerts[4].ClientID)
}
