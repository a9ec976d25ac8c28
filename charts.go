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
	"encoding/base64"
	"fmt"

	charts "github.com/vicanso/go-charts/v2"
)

// ChartGenerator handles chart generation
type ChartGenerator struct {
	theme string
}

// NewChartGenerator creates a new chart generator
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{
		theme: "dark", // Match our HTML report dark theme
	}
}

// GenerateMonthlySeriesChart creates a line chart of monthly consumption and
// savings, with the forecast continuing the observed series
func (cg *ChartGenerator) GenerateMonthlySeriesChart(trends TrendsReport) (string, error) {
	if len(trends.Series) == 0 {
		return "", fmt.Errorf("no monthly series data available")
	}

	var labels []string
	var consumptionValues []float64
	var savingsValues []float64

	for _, point := range trends.Series {
		labels = append(labels, point.Period)
		consumptionValues = append(consumptionValues, point.Consumption)
		savingsValues = append(savingsValues, point.Savings)
	}

	legendLabels := []string{"Consumption (kWh)", "Savings"}

	// Forecast values continue the observed lines under projected labels
	if trends.Forecast != nil && len(trends.Forecast.NextPeriods) > 0 {
		for i, point := range trends.Forecast.NextPeriods {
			labels = append(labels, fmt.Sprintf("+%d", i+1))
			consumptionValues = append(consumptionValues, point.Consumption)
			savingsValues = append(savingsValues, point.Savings)
		}
		legendLabels = []string{"Consumption (kWh, projected)", "Savings (projected)"}
	}

	values := [][]float64{consumptionValues, savingsValues}

	p, err := charts.LineRender(
		values,
		charts.TitleTextOptionFunc("Monthly Consumption and Savings"),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc(legendLabels, charts.PositionRight),
		charts.ThemeOptionFunc(cg.getTheme()),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  20,
			Bottom: 20,
			Left:   20,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render monthly series chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to generate chart bytes: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}

// GenerateCityChart creates a bar chart of client counts in the top cities
func (cg *ChartGenerator) GenerateCityChart(regional RegionalReport) (string, error) {
	cities := regional.ReliableCities
	if len(cities) == 0 {
		return "", fmt.Errorf("no regional data available")
	}
	if len(cities) > 10 {
		cities = cities[:10]
	}

	var labels []string
	var clientCounts []float64
	var opportunityCounts []float64

	for _, city := range cities {
		labels = append(labels, city.Name)
		clientCounts = append(clientCounts, float64(city.TotalClients))
		opportunityCounts = append(opportunityCounts, float64(city.Opportunities))
	}

	p, err := charts.BarRender(
		[][]float64{clientCounts, opportunityCounts},
		charts.TitleTextOptionFunc("Top Cities by Client Count"),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc([]string{"Clients", "Opportunities"}, charts.PositionRight),
		charts.ThemeOptionFunc(cg.getTheme()),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  20,
			Bottom: 20,
			Left:   20,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render city chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to generate chart bytes: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}

// GenerateBalanceChart creates a bar chart of the balance distribution
func (cg *ChartGenerator) GenerateBalanceChart(overview OverviewReport) (string, error) {
	if len(overview.BalanceBuckets) == 0 {
		return "", fmt.Errorf("no balance data available")
	}

	var labels []string
	var counts []float64
	for _, bucket := range overview.BalanceBuckets {
		labels = append(labels, bucket.Label)
		counts = append(counts, float64(bucket.Count))
	}

	p, err := charts.BarRender(
		[][]float64{counts},
		charts.TitleTextOptionFunc("Energy Balance Distribution"),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc([]string{"Clients"}, charts.PositionRight),
		charts.ThemeOptionFunc(cg.getTheme()),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  20,
			Bottom: 20,
			Left:   20,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render balance chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to generate chart bytes: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}

// GenerateClientCostChart creates a line chart of what one client paid per
// billing period against the savings solar delivered
func (cg *ChartGenerator) GenerateClientCostChart(view ClientDrilldown) (string, error) {
	labels, paid, savings := CostSavingsSeries(&view)
	if len(labels) == 0 {
		return "", fmt.Errorf("no billing history available")
	}

	p, err := charts.LineRender(
		[][]float64{paid, savings},
		charts.TitleTextOptionFunc(fmt.Sprintf("%s: Paid vs Savings", view.Client.Name)),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc([]string{"Paid", "Savings"}, charts.PositionRight),
		charts.ThemeOptionFunc(cg.getTheme()),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  20,
			Bottom: 20,
			Left:   20,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render client cost chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to generate chart bytes: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}

// getTheme returns the chart theme name
func (cg *ChartGenerator) getTheme() string {
	return cg.theme
}
