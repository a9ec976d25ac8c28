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
	"html"
	"io"
	"os"
)

// HTMLReporter generates HTML reports from analysis results
type HTMLReporter struct {
	logger *Logger
}

// NewHTMLReporter creates a new HTML report generator
func NewHTMLReporter(logger *Logger) *HTMLReporter {
	return &HTMLReporter{
		logger: logger,
	}
}

// GenerateHTMLReport generates an HTML report
func (r *HTMLReporter) GenerateHTMLReport(result *AnalysisResult, outputPath string) error {
	r.logger.Info("Generating HTML report")

	var writer io.Writer
	if outputPath == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create HTML report file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	// Generate HTML report content
	r.writeHTMLHeader(writer, result)
	r.writeHTMLOverview(writer, result)
	r.writeHTMLCharts(writer, result)
	r.writeHTMLOpportunities(writer, result)
	r.writeHTMLRegional(writer, result)
	r.writeHTMLTrends(writer, result)
	r.writeHTMLClientDetails(writer, result)
	r.writeHTMLRecommendations(writer, result)
	r.writeHTMLFooter(writer)

	if outputPath != "" {
		r.logger.Info("HTML report saved", "path", outputPath)
	}

	return nil
}

func (r *HTMLReporter) writeHTMLHeader(w io.Writer, result *AnalysisResult) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Solar Portfolio Analysis Report</title>
    <style>
        :root {
            --primary-color: #FFB800;
            --secondary-color: #00C896;
            --warning-color: #FFB800;
            --danger-color: #FF006E;
            --success-color: #00C896;
            --bg-color: #0A0F1E;
            --card-bg: #1A2332;
            --text-color: #E8EAF6;
            --text-muted: #9FA8DA;
            --border-color: #2A3550;
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            background: var(--bg-color);
            color: var(--text-color);
            line-height: 1.6;
            padding: 20px;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
        }

        header {
            background: linear-gradient(135deg, var(--primary-color), var(--secondary-color));
            padding: 40px;
            border-radius: 16px;
            margin-bottom: 30px;
            box-shadow: 0 8px 32px rgba(255, 184, 0, 0.2);
        }

        h1 {
            font-size: 2.5em;
            margin-bottom: 10px;
            font-weight: 700;
        }

        .subtitle {
            color: rgba(255, 255, 255, 0.9);
            font-size: 1.1em;
        }

        .card {
            background: var(--card-bg);
            border-radius: 12px;
            padding: 30px;
            margin-bottom: 30px;
            border: 1px solid var(--border-color);
            box-shadow: 0 4px 16px rgba(0, 0, 0, 0.3);
        }

        h2 {
            color: var(--primary-color);
            margin-bottom: 20px;
            font-size: 1.8em;
            border-bottom: 2px solid var(--border-color);
            padding-bottom: 10px;
        }

        h3 {
            color: var(--secondary-color);
            margin: 25px 0 15px 0;
            font-size: 1.4em;
        }

        table {
            width: 100%%;
            border-collapse: collapse;
            margin: 20px 0;
        }

        th, td {
            padding: 12px;
            text-align: left;
            border-bottom: 1px solid var(--border-color);
        }

        th {
            background: rgba(255, 184, 0, 0.1);
            color: var(--primary-color);
            font-weight: 600;
        }

        tr:hover {
            background: rgba(0, 200, 150, 0.05);
        }

        .metric-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
            gap: 20px;
            margin: 20px 0;
        }

        .metric-card {
            background: rgba(255, 184, 0, 0.05);
            border: 1px solid var(--border-color);
            border-radius: 8px;
            padding: 20px;
            text-align: center;
        }

        .metric-value {
            font-size: 2em;
            font-weight: bold;
            color: var(--secondary-color);
            margin: 10px 0;
        }

        .metric-label {
            color: var(--text-muted);
            font-size: 0.9em;
        }

        .badge {
            display: inline-block;
            padding: 6px 12px;
            border-radius: 20px;
            font-size: 0.85em;
            font-weight: 600;
            margin: 5px;
        }

        .badge-success {
            background: var(--success-color);
            color: white;
        }

        .badge-warning {
            background: var(--warning-color);
            color: #0A0F1E;
        }

        .badge-danger {
            background: var(--danger-color);
            color: white;
        }

        .badge-info {
            background: #3F51B5;
            color: white;
        }

        .insight-box {
            background: rgba(0, 200, 150, 0.05);
            border-left: 4px solid var(--secondary-color);
            padding: 20px;
            margin: 15px 0;
            border-radius: 4px;
        }

        .insight-box.high {
            border-left-color: var(--danger-color);
            background: rgba(255, 0, 110, 0.05);
        }

        .insight-box.medium {
            border-left-color: var(--warning-color);
            background: rgba(255, 184, 0, 0.05);
        }

        .insight-title {
            font-weight: 600;
            color: var(--text-color);
            margin-bottom: 10px;
        }

        .insight-action {
            background: rgba(255, 255, 255, 0.05);
            padding: 10px;
            border-radius: 4px;
            margin-top: 10px;
            font-style: italic;
        }

        .chart-container {
            margin: 20px 0;
            text-align: center;
        }

        .chart-container img {
            max-width: 100%%;
            border-radius: 8px;
        }

        .blockquote {
            border-left: 4px solid var(--primary-color);
            padding: 10px;
            margin: 20px 0;
            background: rgba(255, 184, 0, 0.05);
            border-radius: 10px;
        }

        footer {
            text-align: center;
            padding: 30px;
            color: var(--text-muted);
            border-top: 1px solid var(--border-color);
            margin-top: 40px;
        }

        @media (max-width: 768px) {
            body {
                padding: 10px;
            }

            header {
                padding: 20px;
            }

            h1 {
                font-size: 1.8em;
            }

            .card {
                padding: 20px;
            }

            table {
                font-size: 0.9em;
            }
        }

        @media print {
            body {
                background: white;
                color: black;
            }

            .card {
                border: 1px solid #ddd;
                break-inside: avoid;
            }
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>☀️ Solar Portfolio Analysis</h1>
            <div class="subtitle">Generated: %s</div>
            <div class="subtitle">Data fetched: %s</div>
            <div class="subtitle" style="opacity: 0.7; font-size: 0.9em; margin-top: 10px;">solarscope %s · run %s</div>
        </header>
`,
		result.GeneratedAt.Format("Monday, 2 January 2006 at 15:04"),
		result.FetchedAt.Format("Monday, 2 January 2006 at 15:04"),
		GetVersion(),
		result.RunID,
	)
}

func (r *HTMLReporter) writeHTMLOverview(w io.Writer, result *AnalysisResult) {
	overview := result.Overview

	fmt.Fprintf(w, `
        <div class="card">
            <h2>📊 Portfolio Overview</h2>

            <div class="metric-grid">
                <div class="metric-card">
                    <div class="metric-label">Analyzed Clients</div>
                    <div class="metric-value">%d</div>
                    <span class="badge badge-info">of %d in store</span>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Installed Power</div>
                    <div class="metric-value">%s kWp</div>
                    <span class="badge badge-success">Portfolio Total</span>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Average Unit Balance</div>
                    <div class="metric-value">%s kWh</div>
                    <span class="badge badge-info">Units With History</span>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Low Balance Clients</div>
                    <div class="metric-value">%d</div>
                    <span class="badge badge-warning">Below 100 kWh</span>
                </div>
            </div>
`,
		overview.TotalClients,
		result.TotalInStore,
		FormatKWH(overview.TotalPower),
		FormatKWH(overview.AverageBalance),
		overview.LowBalanceClients,
	)

	// Balance distribution table
	fmt.Fprintf(w, `
            <h3>🔋 Balance Distribution</h3>
            <table>
                <thead>
                    <tr><th>Range</th><th>Clients</th></tr>
                </thead>
                <tbody>
`)
	for _, bucket := range overview.BalanceBuckets {
		fmt.Fprintf(w, "                    <tr><td>%s</td><td>%d</td></tr>\n",
			html.EscapeString(bucket.Label), bucket.Count)
	}
	fmt.Fprintf(w, `                </tbody>
            </table>
`)

	// Urgent alerts
	if len(overview.Alerts) > 0 {
		fmt.Fprintf(w, "            <h3>🚨 Urgent Alerts</h3>\n")
		for _, alert := range overview.Alerts {
			fmt.Fprintf(w, `            <div class="blockquote">⚠️ %s</div>
`, html.EscapeString(alert.Message))
		}
	}

	fmt.Fprintf(w, "        </div>\n")
}

func (r *HTMLReporter) writeHTMLCharts(w io.Writer, result *AnalysisResult) {
	if result.MonthlySeriesChart == "" && result.CityChart == "" && result.BalanceChart == "" {
		return
	}

	fmt.Fprintf(w, `
        <div class="card">
            <h2>📉 Charts</h2>
`)
	writeChart := func(title, encoded string) {
		if encoded == "" {
			return
		}
		fmt.Fprintf(w, `
            <h3>%s</h3>
            <div class="chart-container">
                <img src="data:image/png;base64,%s" alt="%s">
            </div>
`, title, encoded, title)
	}

	writeChart("Monthly Consumption and Savings", result.MonthlySeriesChart)
	writeChart("Top Cities", result.CityChart)
	writeChart("Balance Distribution", result.BalanceChart)

	fmt.Fprintf(w, "        </div>\n")
}

func (r *HTMLReporter) writeHTMLOpportunities(w io.Writer, result *AnalysisResult) {
	opportunities := result.Opportunities
	stats := opportunities.Stats

	fmt.Fprintf(w, `
        <div class="card">
            <h2>💡 Expansion Opportunities</h2>

            <div class="metric-grid">
                <div class="metric-card">
                    <div class="metric-label">Urgent</div>
                    <div class="metric-value">%d</div>
                    <span class="badge badge-danger">Score ≥ 70</span>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Medium</div>
                    <div class="metric-value">%d</div>
                    <span class="badge badge-warning">Score 40–69</span>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Expansion Potential</div>
                    <div class="metric-value">%s kWp</div>
                    <span class="badge badge-info">Suggested Total</span>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Estimated Monthly Revenue</div>
                    <div class="metric-value">%s</div>
                    <span class="badge badge-success">If Installed</span>
                </div>
            </div>
`,
		stats.Urgent,
		stats.Medium,
		FormatKWH(stats.TotalExpansionPotential),
		FormatCurrency(stats.TotalMonthlyRevenue),
	)

	records := opportunities.Records
	displayCount := 10
	if len(records) < displayCount {
		displayCount = len(records)
	}

	if displayCount > 0 {
		fmt.Fprintf(w, `
            <h3>🎯 Top Opportunities</h3>
            <table>
                <thead>
                    <tr><th>Client</th><th>Score</th><th>Category</th><th>Balance</th><th>Monthly Usage</th><th>Expansion</th></tr>
                </thead>
                <tbody>
`)
		for i := 0; i < displayCount; i++ {
			record := records[i]
			badge := "badge-info"
			switch record.Category {
			case CategoryUrgent:
				badge = "badge-danger"
			case CategoryMedium:
				badge = "badge-warning"
			}
			fmt.Fprintf(w, `                    <tr><td>%s</td><td>%d</td><td><span class="badge %s">%s</span></td><td>%s kWh</td><td>%s kWh</td><td>%.1f kWp</td></tr>
`,
				html.EscapeString(record.Name),
				record.Score,
				badge,
				record.Category,
				FormatKWH(record.TotalBalance),
				FormatKWH(record.MonthlyConsumption),
				record.SuggestedExpansion,
			)
		}
		fmt.Fprintf(w, `                </tbody>
            </table>
`)
	}

	fmt.Fprintf(w, "        </div>\n")
}

func (r *HTMLReporter) writeHTMLRegional(w io.Writer, result *AnalysisResult) {
	regional := result.Regional

	fmt.Fprintf(w, `
        <div class="card">
            <h2>🗺 Regional Analysis</h2>

            <div class="blockquote">🏆 Best performing city: <strong>%s</strong> (%s)</div>
`,
		html.EscapeString(regional.BestPerformance.Name),
		html.EscapeString(regional.BestPerformance.Reason),
	)

	if len(regional.ReliableCities) > 0 {
		fmt.Fprintf(w, `
            <table>
                <thead>
                    <tr><th>City</th><th>Clients</th><th>Power</th><th>Avg Balance</th><th>Opportunity Rate</th></tr>
                </thead>
                <tbody>
`)
		for _, city := range regional.ReliableCities {
			fmt.Fprintf(w, `                    <tr><td>%s</td><td>%d</td><td>%s kWp</td><td>%s kWh</td><td>%s</td></tr>
`,
				html.EscapeString(city.Name),
				city.TotalClients,
				FormatKWH(city.TotalPower),
				FormatKWH(city.AverageBalance),
				FormatPercentage(city.OpportunityRate),
			)
		}
		fmt.Fprintf(w, `                </tbody>
            </table>
`)
	}

	if len(regional.SingleClientCities) > 0 {
		fmt.Fprintf(w, `            <p style="color: var(--text-muted)">%d cities have a single client each and are excluded from the comparison above.</p>
`, len(regional.SingleClientCities))
	}

	fmt.Fprintf(w, "        </div>\n")
}

func (r *HTMLReporter) writeHTMLTrends(w io.Writer, result *AnalysisResult) {
	trends := result.Trends

	fmt.Fprintf(w, `
        <div class="card">
            <h2>📈 Trends and Forecast</h2>
`)

	if len(trends.Series) == 0 {
		fmt.Fprintf(w, `            <p style="color: var(--text-muted)">No billing periods available for trend analysis.</p>
        </div>
`)
		return
	}

	fmt.Fprintf(w, `
            <div class="metric-grid">
                <div class="metric-card">
                    <div class="metric-label">Total Consumption</div>
                    <div class="metric-value">%s kWh</div>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Total Savings</div>
                    <div class="metric-value">%s</div>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Avg Recent Savings</div>
                    <div class="metric-value">%s</div>
                    <span class="badge badge-info">Per Month</span>
                </div>
                <div class="metric-card">
                    <div class="metric-label">New Clients</div>
                    <div class="metric-value">%d</div>
                    <span class="badge badge-info">Last 3 Months</span>
                </div>
            </div>
`,
		FormatKWH(trends.TotalConsumption),
		FormatCurrency(trends.TotalSavings),
		FormatCurrency(trends.AvgRecentSavings),
		trends.RecentNewClients,
	)

	if trends.Forecast != nil {
		fmt.Fprintf(w, `
            <h3>🔮 Forecast</h3>
            <p>Consumption trend: <strong>%s</strong> · Savings trend: <strong>%s</strong></p>
            <table>
                <thead>
                    <tr><th>Period</th><th>Consumption</th><th>Savings</th></tr>
                </thead>
                <tbody>
`,
			trends.Forecast.ConsumptionTrend,
			trends.Forecast.SavingsTrend,
		)
		for i, point := range trends.Forecast.NextPeriods {
			fmt.Fprintf(w, `                    <tr><td>+%d</td><td>%s kWh</td><td>%s</td></tr>
`, i+1, FormatKWH(point.Consumption), FormatCurrency(point.Savings))
		}
		fmt.Fprintf(w, `                </tbody>
            </table>
`)
	} else {
		fmt.Fprintf(w, `            <p style="color: var(--text-muted)">Fewer than two billing periods observed; no forecast produced.</p>
`)
	}

	fmt.Fprintf(w, "        </div>\n")
}

func (r *HTMLReporter) writeHTMLClientDetails(w io.Writer, result *AnalysisResult) {
	if len(result.TopClientDetails) == 0 {
		return
	}

	fmt.Fprintf(w, `
        <div class="card">
            <h2>🔍 Top Client Detail</h2>
`)

	for _, detail := range result.TopClientDetails {
		fmt.Fprintf(w, `
            <h3>%s</h3>
            <table>
                <thead>
                    <tr><th>Period</th><th>Consumption</th><th>Estimated Cost</th><th>Paid</th><th>Savings</th></tr>
                </thead>
                <tbody>
`, html.EscapeString(detail.Client.Name))
		for _, row := range detail.Rows {
			fmt.Fprintf(w, `                    <tr><td>%s</td><td>%s kWh</td><td>%s</td><td>%s</td><td>%s</td></tr>
`,
				html.EscapeString(row.Period),
				FormatKWH(row.Consumption),
				FormatCurrency(row.EstimatedCost),
				FormatCurrency(row.Paid),
				FormatCurrency(row.Savings),
			)
		}
		fmt.Fprintf(w, `                    <tr><td><strong>Total</strong></td><td><strong>%s kWh</strong></td><td><strong>%s</strong></td><td><strong>%s</strong></td><td><strong>%s</strong></td></tr>
                </tbody>
            </table>
`,
			FormatKWH(detail.Totals.Consumption),
			FormatCurrency(detail.Totals.EstimatedCost),
			FormatCurrency(detail.Totals.Paid),
			FormatCurrency(detail.Totals.Savings),
		)
	}

	if result.ClientCostChart != "" {
		fmt.Fprintf(w, `
            <div class="chart-container">
                <img src="data:image/png;base64,%s" alt="Paid vs Savings">
            </div>
`, result.ClientCostChart)
	}

	fmt.Fprintf(w, "        </div>\n")
}

func (r *HTMLReporter) writeHTMLRecommendations(w io.Writer, result *AnalysisResult) {
	var insights []Insight
	insights = append(insights, result.Opportunities.Insights...)
	insights = append(insights, result.Trends.Insights...)

	if len(insights) == 0 {
		return
	}

	fmt.Fprintf(w, `
        <div class="card">
            <h2>💡 Recommendations</h2>
`)

	for _, insight := range insights {
		priorityClass := ""
		switch insight.Priority {
		case "high":
			priorityClass = " high"
		case "medium":
			priorityClass = " medium"
		}
		fmt.Fprintf(w, `
            <div class="insight-box%s">
                <div class="insight-title">%s</div>
                <div>%s</div>
                <div class="insight-action">%s</div>
            </div>
`,
			priorityClass,
			html.EscapeString(insight.Title),
			html.EscapeString(insight.Description),
			html.EscapeString(insight.Action),
		)
	}

	fmt.Fprintf(w, "        </div>\n")
}

func (r *HTMLReporter) writeHTMLFooter(w io.Writer) {
	fmt.Fprintf(w, `
        <footer>
            <p>Savings estimates assume the configured unit price applies to all consumed energy; actual utility invoices may differ due to tariff flags and taxes.</p>
            <p>Generated by <a href="https://github.com/solarscope/solarscope" style="color: var(--secondary-color)">solarscope</a></p>
        </footer>
    </div>
</body>
</html>
`)
}
