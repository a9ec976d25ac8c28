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
	"io"
	"os"

	"github.com/dustin/go-humanize"
)

// Reporter generates markdown reports from analysis results
type Reporter struct {
	logger *Logger
}

// NewReporter creates a new report generator
func NewReporter(logger *Logger) *Reporter {
	return &Reporter{
		logger: logger,
	}
}

// GenerateReport creates a markdown report from analysis results
func (r *Reporter) GenerateReport(result *AnalysisResult, outputPath string) error {
	r.logger.Info("Generating report")

	var writer io.Writer
	if outputPath == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	// Generate report content
	r.writeHeader(writer, result)
	r.writeDataFilter(writer, result)
	r.writeOverview(writer, result)
	r.writeOpportunities(writer, result)
	r.writeRegional(writer, result)
	r.writeTrends(writer, result)
	r.writeClientDetails(writer, result)
	r.writeRecommendations(writer, result)
	r.writeFooter(writer)

	if outputPath != "" {
		r.logger.Info("Report saved", "path", outputPath)
	}

	return nil
}

// writeHeader writes the report header
func (r *Reporter) writeHeader(w io.Writer, result *AnalysisResult) {
	fmt.Fprintf(w, "# Solar Portfolio Analysis Report\n\n")
	fmt.Fprintf(w, "**Generated:** %s\n\n", result.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "**Data fetched:** %s\n\n", result.FetchedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "**Run ID:** %s\n\n", result.RunID)
	fmt.Fprintf(w, "**solarscope version:** %s\n\n", GetVersion())
	fmt.Fprintf(w, "---\n\n")
}

// writeDataFilter writes the data-filter banner
func (r *Reporter) writeDataFilter(w io.Writer, result *AnalysisResult) {
	if result.ExcludedClients == 0 {
		return
	}
	fmt.Fprintf(w, "> ℹ️ **Data filter:** %d of %d clients analyzed. %d clients have no billing history and are excluded from scoring and trends.\n\n",
		result.AnalyzedClients,
		result.TotalInStore,
		result.ExcludedClients,
	)
}

// writeOverview writes the portfolio summary section
func (r *Reporter) writeOverview(w io.Writer, result *AnalysisResult) {
	overview := result.Overview

	fmt.Fprintf(w, "## 📊 Portfolio Overview\n\n")

	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| 👥 Analyzed Clients | %d |\n", overview.TotalClients)
	fmt.Fprintf(w, "| ☀️ Installed Power | %s kWp |\n", FormatKWH(overview.TotalPower))
	fmt.Fprintf(w, "| 🔋 Average Unit Balance | %s kWh |\n", FormatKWH(overview.AverageBalance))
	fmt.Fprintf(w, "| 📉 Low Balance (< 100 kWh) | %d |\n", overview.LowBalanceClients)
	fmt.Fprintf(w, "| 🪫 Zero Balance | %d |\n", overview.ZeroBalanceClients)
	fmt.Fprintf(w, "| 💸 Paying Utility Bills (< 50 kWh) | %d |\n", overview.PayingBillClients)
	fmt.Fprintf(w, "| 📈 History Coverage | %s |\n", FormatPercentage(overview.HistoryRate))
	fmt.Fprintf(w, "\n")

	// Status distribution
	if len(overview.StatusDistribution) > 0 {
		fmt.Fprintf(w, "### 🗂 Status Distribution\n\n")
		fmt.Fprintf(w, "| Status | Clients |\n")
		fmt.Fprintf(w, "|--------|--------|\n")
		for _, status := range []ClientStatus{
			StatusActive, StatusExpired, StatusMonitoring,
			StatusRecurringMaintenance, StatusOMComplete, StatusUnknown,
		} {
			if count := overview.StatusDistribution[status]; count > 0 {
				fmt.Fprintf(w, "| %s | %d |\n", StatusLabel(status), count)
			}
		}
		fmt.Fprintf(w, "\n")
	}

	// Balance distribution
	fmt.Fprintf(w, "### 🔋 Balance Distribution\n\n")
	fmt.Fprintf(w, "| Range | Clients |\n")
	fmt.Fprintf(w, "|-------|--------|\n")
	for _, bucket := range overview.BalanceBuckets {
		fmt.Fprintf(w, "| %s | %d |\n", bucket.Label, bucket.Count)
	}
	fmt.Fprintf(w, "\n")

	// Urgent alerts
	if len(overview.Alerts) > 0 {
		fmt.Fprintf(w, "### 🚨 Urgent Alerts\n\n")
		for _, alert := range overview.Alerts {
			fmt.Fprintf(w, "- ⚠️ %s\n", alert.Message)
		}
		fmt.Fprintf(w, "\n")
	}
}

// writeOpportunities writes the expansion opportunities section
func (r *Reporter) writeOpportunities(w io.Writer, result *AnalysisResult) {
	opportunities := result.Opportunities

	fmt.Fprintf(w, "## 💡 Expansion Opportunities\n\n")

	stats := opportunities.Stats
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| 🎯 Total Opportunities | %d |\n", stats.Total)
	fmt.Fprintf(w, "| 🔴 Urgent | %d |\n", stats.Urgent)
	fmt.Fprintf(w, "| 🟡 Medium | %d |\n", stats.Medium)
	fmt.Fprintf(w, "| 🔵 Low | %d |\n", stats.Low)
	fmt.Fprintf(w, "| ⚡ Expansion Potential | %s kWp |\n", FormatKWH(stats.TotalExpansionPotential))
	fmt.Fprintf(w, "| 💰 Estimated Monthly Revenue | %s |\n", FormatCurrency(stats.TotalMonthlyRevenue))
	fmt.Fprintf(w, "\n")

	if len(opportunities.Records) == 0 {
		fmt.Fprintf(w, "*No scored opportunities in the current data set.*\n\n")
		return
	}

	// Top opportunities table
	records := opportunities.Records
	displayCount := 10
	if len(records) < displayCount {
		displayCount = len(records)
	}

	if len(records) > displayCount {
		fmt.Fprintf(w, "Showing the **top %d of %d** scored clients:\n\n", displayCount, len(records))
	}

	fmt.Fprintf(w, "| Client | Score | Category | Balance | Monthly Usage | Suggested Expansion |\n")
	fmt.Fprintf(w, "|--------|-------|----------|---------|---------------|---------------------|\n")
	for i := 0; i < displayCount; i++ {
		record := records[i]
		icon := "🔵"
		switch record.Category {
		case CategoryUrgent:
			icon = "🔴"
		case CategoryMedium:
			icon = "🟡"
		}
		fmt.Fprintf(w, "| %s | %d | %s %s | %s kWh | %s kWh | %.1f kWp |\n",
			record.Name,
			record.Score,
			icon,
			record.Category,
			FormatKWH(record.TotalBalance),
			FormatKWH(record.MonthlyConsumption),
			record.SuggestedExpansion,
		)
	}
	fmt.Fprintf(w, "\n")
}

// writeRegional writes the regional analysis section
func (r *Reporter) writeRegional(w io.Writer, result *AnalysisResult) {
	regional := result.Regional

	fmt.Fprintf(w, "## 🗺 Regional Analysis\n\n")

	fmt.Fprintf(w, "**Cities:** %d total, %d with reliable sample sizes\n\n",
		regional.TotalCities, regional.ReliableCount)
	fmt.Fprintf(w, "**Best performing city:** %s (%s)\n\n",
		regional.BestPerformance.Name, regional.BestPerformance.Reason)

	if len(regional.ReliableCities) > 0 {
		fmt.Fprintf(w, "| City | Clients | Power | Avg Balance | Opportunity Rate |\n")
		fmt.Fprintf(w, "|------|---------|-------|-------------|------------------|\n")
		for _, city := range regional.ReliableCities {
			fmt.Fprintf(w, "| %s | %d | %s kWp | %s kWh | %s |\n",
				city.Name,
				city.TotalClients,
				FormatKWH(city.TotalPower),
				FormatKWH(city.AverageBalance),
				FormatPercentage(city.OpportunityRate),
			)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(regional.SingleClientCities) > 0 {
		fmt.Fprintf(w, "*%d cities have a single client each and are excluded from the comparison above.*\n\n",
			len(regional.SingleClientCities))
	}
}

// writeTrends writes the trends and forecast section
func (r *Reporter) writeTrends(w io.Writer, result *AnalysisResult) {
	trends := result.Trends

	fmt.Fprintf(w, "## 📈 Trends and Forecast\n\n")

	if len(trends.Series) == 0 {
		fmt.Fprintf(w, "*No billing periods available for trend analysis.*\n\n")
		return
	}

	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| 🔆 Total Consumption | %s kWh |\n", FormatKWH(trends.TotalConsumption))
	fmt.Fprintf(w, "| 💰 Total Savings | %s |\n", FormatCurrency(trends.TotalSavings))
	fmt.Fprintf(w, "| 📅 Avg Recent Consumption | %s kWh/month |\n", FormatKWH(trends.AvgRecentConsumption))
	fmt.Fprintf(w, "| 💵 Avg Recent Savings | %s/month |\n", FormatCurrency(trends.AvgRecentSavings))
	fmt.Fprintf(w, "| 🆕 New Clients (last 3 months) | %d |\n", trends.RecentNewClients)
	fmt.Fprintf(w, "\n")

	// Recent series
	series := trends.Series
	if len(series) > 6 {
		series = series[len(series)-6:]
	}
	fmt.Fprintf(w, "### 🗓 Recent Months\n\n")
	fmt.Fprintf(w, "| Period | Consumption | Savings | Clients |\n")
	fmt.Fprintf(w, "|--------|-------------|---------|--------|\n")
	for _, point := range series {
		fmt.Fprintf(w, "| %s | %s kWh | %s | %d |\n",
			point.Period,
			FormatKWH(point.Consumption),
			FormatCurrency(point.Savings),
			point.ClientCount,
		)
	}
	fmt.Fprintf(w, "\n")

	// Forecast
	if trends.Forecast != nil {
		consumptionIcon := "📉"
		if trends.Forecast.ConsumptionTrend == TrendIncreasing {
			consumptionIcon = "📈"
		}
		savingsIcon := "📉"
		if trends.Forecast.SavingsTrend == TrendIncreasing {
			savingsIcon = "📈"
		}

		fmt.Fprintf(w, "### 🔮 Forecast\n\n")
		fmt.Fprintf(w, "Consumption trend: %s %s, savings trend: %s %s\n\n",
			consumptionIcon, trends.Forecast.ConsumptionTrend,
			savingsIcon, trends.Forecast.SavingsTrend,
		)
		fmt.Fprintf(w, "| Period | Consumption | Savings |\n")
		fmt.Fprintf(w, "|--------|-------------|--------|\n")
		for i, point := range trends.Forecast.NextPeriods {
			fmt.Fprintf(w, "| +%d | %s kWh | %s |\n",
				i+1,
				FormatKWH(point.Consumption),
				FormatCurrency(point.Savings),
			)
		}
		fmt.Fprintf(w, "\n")
	} else {
		fmt.Fprintf(w, "*Fewer than two billing periods observed; no forecast produced.*\n\n")
	}
}

// writeClientDetails writes the drill-down history tables for the
// highest-scoring opportunity clients
func (r *Reporter) writeClientDetails(w io.Writer, result *AnalysisResult) {
	if len(result.TopClientDetails) == 0 {
		return
	}

	fmt.Fprintf(w, "## 🔍 Top Client Detail\n\n")

	for _, detail := range result.TopClientDetails {
		fmt.Fprintf(w, "### %s\n\n", detail.Client.Name)

		fmt.Fprintf(w, "| Period | Consumption | Estimated Cost | Paid | Savings |\n")
		fmt.Fprintf(w, "|--------|-------------|----------------|------|--------|\n")
		for _, row := range detail.Rows {
			fmt.Fprintf(w, "| %s | %s kWh | %s | %s | %s |\n",
				row.Period,
				FormatKWH(row.Consumption),
				FormatCurrency(row.EstimatedCost),
				FormatCurrency(row.Paid),
				FormatCurrency(row.Savings),
			)
		}
		fmt.Fprintf(w, "| **Total** | **%s kWh** | **%s** | **%s** | **%s** |\n\n",
			FormatKWH(detail.Totals.Consumption),
			FormatCurrency(detail.Totals.EstimatedCost),
			FormatCurrency(detail.Totals.Paid),
			FormatCurrency(detail.Totals.Savings),
		)

		for _, balance := range detail.Balances {
			fmt.Fprintf(w, "- %s: %s kWh credit\n", balance.Name, FormatKWH(balance.Balance))
		}
		fmt.Fprintf(w, "\n")
	}
}

// writeRecommendations writes the recommendations section, grouping every
// view's insights by priority
func (r *Reporter) writeRecommendations(w io.Writer, result *AnalysisResult) {
	var insights []Insight
	insights = append(insights, result.Opportunities.Insights...)
	insights = append(insights, result.Trends.Insights...)

	if len(insights) == 0 {
		return
	}

	fmt.Fprintf(w, "## 💡 Recommendations\n\n")

	highPriority := []Insight{}
	mediumPriority := []Insight{}
	lowPriority := []Insight{}

	for _, insight := range insights {
		switch insight.Priority {
		case "high":
			highPriority = append(highPriority, insight)
		case "medium":
			mediumPriority = append(mediumPriority, insight)
		default:
			lowPriority = append(lowPriority, insight)
		}
	}

	if len(highPriority) > 0 {
		fmt.Fprintf(w, "### 🔴 High Priority\n\n")
		for _, insight := range highPriority {
			r.writeInsight(w, insight)
		}
	}

	if len(mediumPriority) > 0 {
		fmt.Fprintf(w, "### 🟡 Medium Priority\n\n")
		for _, insight := range mediumPriority {
			r.writeInsight(w, insight)
		}
	}

	if len(lowPriority) > 0 {
		fmt.Fprintf(w, "### 🔵 Low Priority\n\n")
		for _, insight := range lowPriority {
			r.writeInsight(w, insight)
		}
	}
}

// writeInsight writes a single insight
func (r *Reporter) writeInsight(w io.Writer, insight Insight) {
	fmt.Fprintf(w, "#### %s\n\n", insight.Title)
	fmt.Fprintf(w, "%s\n\n", insight.Description)
	fmt.Fprintf(w, "**Recommended Action:** %s\n\n", insight.Action)
}

// writeFooter writes the report footer
func (r *Reporter) writeFooter(w io.Writer) {
	fmt.Fprintf(w, "---\n\n")
	fmt.Fprintf(w, "*Savings estimates assume the configured unit price applies to all consumed energy; actual utility invoices may differ due to tariff flags and taxes. Review individual bills before making commercial commitments.*\n\n")
	fmt.Fprintf(w, "*Generated by [solarscope](https://github.com/solarscope/solarscope)*\n")
}

// FormatCurrency formats a monetary value with thousands separators
func FormatCurrency(value float64) string {
	return "R$ " + humanize.CommafWithDigits(value, 2)
}

// FormatKWH formats an energy value with thousands separators
func FormatKWH(value float64) string {
	return humanize.CommafWithDigits(value, 2)
}

// FormatPercentage formats a value as a percentage
func FormatPercentage(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}
