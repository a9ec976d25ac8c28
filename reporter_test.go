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

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "R$ 1,234.56", FormatCurrency(1234.56))
	assert.Equal(t, "R$ 0", FormatCurrency(0))
	assert.Equal(t, "R$ 99.9", FormatCurrency(99.9))
}

func TestFormatKWH(t *testing.T) {
	assert.Equal(t, "1,500", FormatKWH(1500))
	assert.Equal(t, "120.5", FormatKWH(120.5))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "66.7%", FormatPercentage(66.666))
	assert.Equal(t, "0.0%", FormatPercentage(0))
}

func testAnalysisResult(t *testing.T) *AnalysisResult {
	t.Helper()
	analyzer := NewAnalyzer(testConfig(), testLogger())
	result, err := analyzer.Analyze(testSnapshot())
	require.NoError(t, err)
	return result
}

func TestGenerateMarkdownReport(t *testing.T) {
	result := testAnalysisResult(t)
	path := filepath.Join(t.TempDir(), "report.md")

	reporter := NewReporter(testLogger())
	require.NoError(t, reporter.GenerateReport(result, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	report := string(content)

	assert.Contains(t, report, "Solar Portfolio Analysis Report")
	assert.Contains(t, report, "2 of 3 clients analyzed")
	assert.Contains(t, report, "Springfield")
	assert.Contains(t, report, "Client c1")
	assert.Contains(t, report, "Immediate Action Needed")
	assert.Contains(t, report, "Top Client Detail")
}

func TestGenerateHTMLReport(t *testing.T) {
	result := testAnalysisResult(t)
	path := filepath.Join(t.TempDir(), "report.html")

	reporter := NewHTMLReporter(testLogger())
	require.NoError(t, reporter.GenerateHTMLReport(result, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	report := string(content)

	assert.Contains(t, report, "<!DOCTYPE html>")
	assert.Contains(t, report, "Solar Portfolio Analysis")
	assert.Contains(t, report, "Springfield")
	assert.Contains(t, report, "Client c1")
	assert.Contains(t, report, "Top Client Detail")
}

func TestGenerateChartsFromAnalysis(t *testing.T) {
	result := testAnalysisResult(t)
	cg := NewChartGenerator()

	monthly, err := cg.GenerateMonthlySeriesChart(result.Trends)
	require.NoError(t, err)
	assert.NotEmpty(t, monthly)

	city, err := cg.GenerateCityChart(result.Regional)
	require.NoError(t, err)
	assert.NotEmpty(t, city)

	balance, err := cg.GenerateBalanceChart(result.Overview)
	require.NoError(t, err)
	assert.NotEmpty(t, balance)

	require.NotEmpty(t, result.TopClientDetails)
	clientCost, err := cg.GenerateClientCostChart(result.TopClientDetails[0])
	require.NoError(t, err)
	assert.NotEmpty(t, clientCost)
}

func TestGenerateClientCostChartEmptyHistory(t *testing.T) {
	cg := NewChartGenerator()
	_, err := cg.GenerateClientCostChart(ClientDrilldown{Client: Client{Name: "Empty"}})
	assert.Error(t, err)
}

func TestIsNewerVersion(t *testing.T) {
	assert.True(t, isNewerVersion("v1.2.0", "v1.1.9"))
	assert.True(t, isNewerVersion("2.0.0", "1.9.9"))
	assert.False(t, isNewerVersion("v1.1.0", "v1.1.0"))
	assert.False(t, isNewerVersion("v1.0.9", "v1.1.0"))
	assert.True(t, isNewerVersion("v1.1.0.1", "v1.1.0"))
}
