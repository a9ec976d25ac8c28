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
	"math"
	"sort"
	"time"
)

// Forecaster builds the monthly trend series and its linear projection
type Forecaster struct {
	config *Config
	logger *Logger
}

// NewForecaster creates a new trend forecaster
func NewForecaster(config *Config, logger *Logger) *Forecaster {
	return &Forecaster{
		config: config,
		logger: logger,
	}
}

// BuildTrendSeries aggregates all unit histories into a chronological
// monthly series. Unlike AggregateMonthly, savings accumulate with a
// per-entry clamp to zero: a period where solar saved nothing contributes
// nothing, it does not eat into other entries' savings. The table and
// drill-down views keep the unclamped figures; this asymmetry is deliberate.
func (f *Forecaster) BuildTrendSeries(units []ConsumerUnit) []TrendPoint {
	type bucket struct {
		consumption float64
		paid        float64
		savings     float64
		clients     map[string]struct{}
	}

	buckets := make(map[string]*bucket)
	for _, unit := range units {
		for _, entry := range unit.History {
			if _, ok := ParsePeriod(entry.Period); !ok {
				continue
			}
			b := buckets[entry.Period]
			if b == nil {
				b = &bucket{clients: make(map[string]struct{})}
				buckets[entry.Period] = b
			}
			b.consumption += entry.Consumption
			b.paid += entry.AmountPaid
			b.savings += math.Max(0, entry.Consumption*f.config.UnitPrice-entry.AmountPaid)
			b.clients[unit.ClientID] = struct{}{}
		}
	}

	series := make([]TrendPoint, 0, len(buckets))
	for period, b := range buckets {
		point := TrendPoint{
			Period:      period,
			Consumption: b.consumption,
			Paid:        b.paid,
			Savings:     b.savings,
			ClientCount: len(b.clients),
		}
		if point.ClientCount > 0 {
			point.AverageConsumption = b.consumption / float64(point.ClientCount)
		}
		series = append(series, point)
	}

	sortByPeriod(series, func(p TrendPoint) string { return p.Period })
	return series
}

// Project fits an ordinary least-squares line to the recent window of the
// series and projects the next periods. Fewer than two observed periods
// cannot support a fit; that is a representable no-forecast state (nil),
// not an error.
func (f *Forecaster) Project(series []TrendPoint) *Forecast {
	recent := series
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}
	if len(recent) < 2 {
		return nil
	}

	consumption := make([]float64, len(recent))
	savings := make([]float64, len(recent))
	for i, p := range recent {
		consumption[i] = p.Consumption
		savings[i] = p.Savings
	}

	cSlope, cIntercept := linearFit(consumption)
	sSlope, sIntercept := linearFit(savings)

	forecast := &Forecast{
		NextPeriods: make([]ForecastPoint, 0, f.config.ForecastPeriods),
		// Zero slope buckets as decreasing; see the open-question note in
		// DESIGN.md before changing this tie-break.
		ConsumptionTrend: direction(cSlope),
		SavingsTrend:     direction(sSlope),
	}

	n := len(recent)
	for step := 0; step < f.config.ForecastPeriods; step++ {
		x := float64(n + step)
		forecast.NextPeriods = append(forecast.NextPeriods, ForecastPoint{
			Consumption: math.Max(0, cSlope*x+cIntercept),
			Savings:     math.Max(0, sSlope*x+sIntercept),
		})
	}

	return forecast
}

// linearFit computes the closed-form least-squares slope and intercept for
// values indexed 0..n-1. Callers guarantee n >= 2.
func linearFit(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	slope = (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func direction(slope float64) TrendDirection {
	if slope > 0 {
		return TrendIncreasing
	}
	return TrendDecreasing
}

// SeasonalAverages computes the calendar-month averages of consumption and
// savings across all observed years, ordered January to December
func SeasonalAverages(series []TrendPoint) []SeasonalAverage {
	type bucket struct {
		consumption float64
		savings     float64
		count       int
	}

	months := make(map[time.Month]*bucket)
	for _, point := range series {
		t, ok := ParsePeriod(point.Period)
		if !ok {
			continue
		}
		b := months[t.Month()]
		if b == nil {
			b = &bucket{}
			months[t.Month()] = b
		}
		b.consumption += point.Consumption
		b.savings += point.Savings
		b.count++
	}

	seasonal := make([]SeasonalAverage, 0, len(months))
	for month, b := range months {
		seasonal = append(seasonal, SeasonalAverage{
			Month:          month,
			AvgConsumption: b.consumption / float64(b.count),
			AvgSavings:     b.savings / float64(b.count),
		})
	}

	sort.Slice(seasonal, func(i, j int) bool {
		return seasonal[i].Month < seasonal[j].Month
	})
	return seasonal
}

// GrowthSeries buckets clients by install month, producing the portfolio
// growth curve. Clients with missing or malformed install dates contribute
// nothing.
func GrowthSeries(clients []Client) []GrowthPoint {
	counts := make(map[string]int)
	for _, client := range clients {
		if period, ok := InstallPeriod(client.InstallDate); ok {
			counts[period]++
		}
	}

	growth := make([]GrowthPoint, 0, len(counts))
	for period, count := range counts {
		growth = append(growth, GrowthPoint{Period: period, NewClients: count})
	}
	sortByPeriod(growth, func(g GrowthPoint) string { return g.Period })
	return growth
}

// BuildTrends assembles the complete trends view-model
func (f *Forecaster) BuildTrends(clients []Client, units []ConsumerUnit) TrendsReport {
	series := f.BuildTrendSeries(units)
	seasonal := SeasonalAverages(series)
	growth := GrowthSeries(clients)

	report := TrendsReport{
		Series:   series,
		Seasonal: seasonal,
		Growth:   growth,
		Forecast: f.Project(series),
	}

	recent := series
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}
	for _, p := range series {
		report.TotalConsumption += p.Consumption
		report.TotalSavings += p.Savings
	}
	if len(recent) > 0 {
		var c, s float64
		for _, p := range recent {
			c += p.Consumption
			s += p.Savings
		}
		report.AvgRecentConsumption = c / float64(len(recent))
		report.AvgRecentSavings = s / float64(len(recent))
	}

	start := len(growth) - 3
	if start < 0 {
		start = 0
	}
	for _, g := range growth[start:] {
		report.RecentNewClients += g.NewClients
	}

	report.Insights = trendInsights(report)

	f.logger.Info("Trend analysis completed",
		"periods", len(series),
		"forecast", report.Forecast != nil,
		"total_savings", report.TotalSavings,
	)

	return report
}

// trendInsights creates recommendations from the seasonal and growth data
func trendInsights(report TrendsReport) []Insight {
	var insights []Insight

	if len(report.Seasonal) > 0 {
		best := report.Seasonal[0]
		worst := report.Seasonal[0]
		for _, m := range report.Seasonal[1:] {
			if m.AvgSavings > best.AvgSavings {
				best = m
			}
			if m.AvgSavings < worst.AvgSavings {
				worst = m
			}
		}
		insights = append(insights, Insight{
			Category:    "trend",
			Priority:    "low",
			Title:       "Best Period",
			Description: fmt.Sprintf("%s is the month with the highest average savings", best.Month),
			Action:      "Use it as the baseline for seasonal comparisons",
		})
		insights = append(insights, Insight{
			Category:    "trend",
			Priority:    "medium",
			Title:       "Attention Period",
			Description: fmt.Sprintf("%s shows the lowest average savings", worst.Month),
			Action:      "Review generation and billing for this period",
		})
	}

	if report.RecentNewClients > 0 {
		insights = append(insights, Insight{
			Category:    "trend",
			Priority:    "low",
			Title:       "Portfolio Growth",
			Description: fmt.Sprintf("%d new clients in the last 3 months", report.RecentNewClients),
			Action:      "Confirm onboarding data is complete for new installs",
		})
	}

	if report.AvgRecentSavings > 1000 {
		insights = append(insights, Insight{
			Category:    "trend",
			Priority:    "low",
			Title:       "High Performance",
			Description: "Average monthly savings above 1,000 across the portfolio",
			Action:      "Strong result; consider using it in commercial material",
		})
	}

	return insights
}
