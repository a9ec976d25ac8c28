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

func TestBuildTrendSeriesClampsPerEntry(t *testing.T) {
	forecaster := NewForecaster(testConfig(), testLogger())

	// Two entries in the same period: one saves 49, the other would be
	// -90.10 unclamped. The trend series counts only the positive one.
	units := []ConsumerUnit{
		{
			ClientID: "c1",
			History: []HistoryEntry{
				{Period: "01/2024", Consumption: 100, AmountPaid: 50},
			},
		},
		{
			ClientID: "c2",
			History: []HistoryEntry{
				{Period: "01/2024", Consumption: 10, AmountPaid: 100},
			},
		},
	}

	series := forecaster.BuildTrendSeries(units)
	require.Len(t, series, 1)
	assert.InDelta(t, 49, series[0].Savings, 1e-9)
	assert.InDelta(t, 110, series[0].Consumption, 1e-9)
	assert.InDelta(t, 150, series[0].Paid, 1e-9)
	assert.Equal(t, 2, series[0].ClientCount)
	assert.InDelta(t, 55, series[0].AverageConsumption, 1e-9)

	// Same data through the table aggregation keeps the sign
	aggregates := AggregateMonthly(units, 0.99)
	require.Len(t, aggregates, 1)
	assert.InDelta(t, -41.1, aggregates[0].Savings, 1e-9)
}

func TestBuildTrendSeriesChronology(t *testing.T) {
	forecaster := NewForecaster(testConfig(), testLogger())
	units := []ConsumerUnit{
		{
			ClientID: "c1",
			History: []HistoryEntry{
				{Period: "03/2024", Consumption: 300, AmountPaid: 100},
				{Period: "01/2024", Consumption: 100, AmountPaid: 50},
				{Period: "bogus", Consumption: 999, AmountPaid: 999},
				{Period: "12/2023", Consumption: 50, AmountPaid: 20},
			},
		},
	}

	series := forecaster.BuildTrendSeries(units)
	require.Len(t, series, 3)
	assert.Equal(t, "12/2023", series[0].Period)
	assert.Equal(t, "01/2024", series[1].Period)
	assert.Equal(t, "03/2024", series[2].Period)
}

func TestProjectTooShort(t *testing.T) {
	forecaster := NewForecaster(testConfig(), testLogger())

	assert.Nil(t, forecaster.Project(nil))
	assert.Nil(t, forecaster.Project([]TrendPoint{{Period: "01/2024", Consumption: 100}}))
}

func TestProjectLinearSeries(t *testing.T) {
	forecaster := NewForecaster(testConfig(), testLogger())

	series := []TrendPoint{
		{Period: "01/2024", Consumption: 100, Savings: 50},
		{Period: "02/2024", Consumption: 200, Savings: 40},
	}

	forecast := forecaster.Project(series)
	require.NotNil(t, forecast)
	require.Len(t, forecast.NextPeriods, 3)

	// Consumption fits y = 100x + 100, projected at x = 2, 3, 4
	assert.InDelta(t, 300, forecast.NextPeriods[0].Consumption, 1e-9)
	assert.InDelta(t, 400, forecast.NextPeriods[1].Consumption, 1e-9)
	assert.InDelta(t, 500, forecast.NextPeriods[2].Consumption, 1e-9)
	assert.Equal(t, TrendIncreasing, forecast.ConsumptionTrend)

	// Savings fit y = -10x + 50
	assert.InDelta(t, 30, forecast.NextPeriods[0].Savings, 1e-9)
	assert.InDelta(t, 20, forecast.NextPeriods[1].Savings, 1e-9)
	assert.InDelta(t, 10, forecast.NextPeriods[2].Savings, 1e-9)
	assert.Equal(t, TrendDecreasing, forecast.SavingsTrend)
}

func TestProjectClampsToZero(t *testing.T) {
	forecaster := NewForecaster(testConfig(), testLogger())

	series := []TrendPoint{
		{Period: "01/2024", Consumption: 10, Savings: 10},
		{Period: "02/2024", Consumption: 0, Savings: 0},
	}

	forecast := forecaster.Project(series)
	require.NotNil(t, forecast)
	for _, p := range forecast.NextPeriods {
		assert.GreaterOrEqual(t, p.Consumption, 0.0)
		assert.GreaterOrEqual(t, p.Savings, 0.0)
	}
}

func TestProjectUsesRecentWindow(t *testing.T) {
	forecaster := NewForecaster(testConfig(), testLogger())

	// Eight flat periods after two huge ones: only the last six feed the
	// fit, so the projection stays flat at 100.
	series := []TrendPoint{
		{Period: "01/2023", Consumption: 9000},
		{Period: "02/2023", Consumption: 9000},
		{Period: "03/2023", Consumption: 100},
		{Period: "04/2023", Consumption: 100},
		{Period: "05/2023", Consumption: 100},
		{Period: "06/2023", Consumption: 100},
		{Period: "07/2023", Consumption: 100},
		{Period: "08/2023", Consumption: 100},
	}

	forecast := forecaster.Project(series)
	require.NotNil(t, forecast)
	assert.InDelta(t, 100, forecast.NextPeriods[0].Consumption, 1e-9)
}

func TestDirectionZeroSlopeIsDecreasing(t *testing.T) {
	assert.Equal(t, TrendDecreasing, direction(0))
	assert.Equal(t, TrendIncreasing, direction(0.001))
	assert.Equal(t, TrendDecreasing, direction(-0.001))
}

func TestSeasonalAverages(t *testing.T) {
	series := []TrendPoint{
		{Period: "01/2024", Consumption: 100, Savings: 10},
		{Period: "01/2025", Consumption: 200, Savings: 30},
		{Period: "03/2024", Consumption: 500, Savings: 50},
	}

	seasonal := SeasonalAverages(series)
	require.Len(t, seasonal, 2)

	assert.Equal(t, time.January, seasonal[0].Month)
	assert.InDelta(t, 150, seasonal[0].AvgConsumption, 1e-9)
	assert.InDelta(t, 20, seasonal[0].AvgSavings, 1e-9)

	assert.Equal(t, time.March, seasonal[1].Month)
	assert.InDelta(t, 500, seasonal[1].AvgConsumption, 1e-9)
}

func TestGrowthSeries(t *testing.T) {
	clients := []Client{
		{ID: "c1", InstallDate: "15/01/2024"},
		{ID: "c2", InstallDate: "20/01/2024"},
		{ID: "c3", InstallDate: "03/12/2023"},
		{ID: "c4", InstallDate: "N/A"},
		{ID: "c5", InstallDate: ""},
	}

	growth := GrowthSeries(clients)
	require.Len(t, growth, 2)
	assert.Equal(t, GrowthPoint{Period: "12/2023", NewClients: 1}, growth[0])
	assert.Equal(t, GrowthPoint{Period: "01/2024", NewClients: 2}, growth[1])
}

func TestBuildTrends(t *testing.T) {
	forecaster := NewForecaster(testConfig(), testLogger())

	clients := []Client{
		{ID: "c1", InstallDate: "15/01/2024"},
		{ID: "c2", InstallDate: "20/02/2024"},
	}
	units := []ConsumerUnit{
		{
			ClientID: "c1",
			History: []HistoryEntry{
				{Period: "01/2024", Consumption: 100, AmountPaid: 50},
				{Period: "02/2024", Consumption: 200, AmountPaid: 90},
			},
		},
	}

	report := forecaster.BuildTrends(clients, units)

	require.Len(t, report.Series, 2)
	assert.InDelta(t, 300, report.TotalConsumption, 1e-9)
	assert.InDelta(t, 157, report.TotalSavings, 1e-9)
	assert.InDelta(t, 150, report.AvgRecentConsumption, 1e-9)
	assert.InDelta(t, 78.5, report.AvgRecentSavings, 1e-9)
	assert.Equal(t, 2, report.RecentNewClients)
	require.NotNil(t, report.Forecast)
	require.Len(t, report.Seasonal, 2)
	require.Len(t, report.Growth, 2)

	titles := make([]string, len(report.Insights))
	for i, in := range report.Insights {
		titles[i] = in.Title
	}
	assert.Contains(t, titles, "Best Period")
	assert.Contains(t, titles, "Attention Period")
	assert.Contains(t, titles, "Portfolio Growth")
}
