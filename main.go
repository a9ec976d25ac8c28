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
	"flag"
	"fmt"
	"os"
)

func main() {
	// Define command-line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	projectID := flag.String("project", "", "Document store project ID (overrides config)")
	apiKey := flag.String("key", "", "Document store API key (overrides config)")
	outputPath := flag.String("output", "", "Output file for report (default: stdout)")
	htmlOutput := flag.Bool("html", false, "Generate HTML report instead of Markdown")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("solarscope %s\n", GetVersion())
		os.Exit(0)
	}

	// Initialize logger
	logger := NewLogger(*debug)
	logger.Info("Starting solarscope", "version", GetVersion())

	// Check for updates (non-blocking)
	go CheckForUpdates(logger)

	// Load configuration
	logger.Info("Loading configuration", "config_file", *configPath)
	config, err := LoadConfig(*configPath)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Override with command-line flags
	if *projectID != "" {
		config.ProjectID = *projectID
	}
	if *apiKey != "" {
		config.APIKey = *apiKey
	}
	if *debug {
		config.Debug = true
		// Recreate logger with debug enabled
		logger = NewLogger(true)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Configuration loaded successfully")

	// Initialize storage
	logger.Info("Initializing storage", "path", config.StoragePath)
	storage, err := NewStorage(config.StoragePath, config.ProjectID, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	// Create store client
	logger.Info("Creating API client")
	client := NewStoreClient(config, logger)

	// Create data collector
	logger.Info("Initializing data collector")
	collector := NewCollector(client, config, storage, logger)

	// Fetch the portfolio snapshot
	logger.Info("Collecting data from document store")
	snapshot, err := collector.Collect()
	if err != nil {
		logger.Error("Failed to collect data", "error", err)
		os.Exit(1)
	}

	// Load the previous run before analyzing, for delta logging
	previous, err := storage.LoadLatestAnalysis(config.ProjectID)
	if err != nil {
		logger.Warn("Failed to load previous analysis", "error", err)
	}

	// Create analyzer
	logger.Info("Initializing analyzer")
	analyzer := NewAnalyzer(config, logger)

	// Perform analysis
	logger.Info("Performing analysis")
	result, err := analyzer.Analyze(snapshot)
	if err != nil {
		logger.Error("Failed to perform analysis", "error", err)
		os.Exit(1)
	}

	logHeadlineDeltas(logger, previous, result)

	// Render charts for the report
	chartGen := NewChartGenerator()
	if chart, err := chartGen.GenerateMonthlySeriesChart(result.Trends); err != nil {
		logger.Warn("Failed to generate monthly series chart", "error", err)
	} else {
		result.MonthlySeriesChart = chart
	}
	if chart, err := chartGen.GenerateCityChart(result.Regional); err != nil {
		logger.Warn("Failed to generate city chart", "error", err)
	} else {
		result.CityChart = chart
	}
	if chart, err := chartGen.GenerateBalanceChart(result.Overview); err != nil {
		logger.Warn("Failed to generate balance chart", "error", err)
	} else {
		result.BalanceChart = chart
	}
	if len(result.TopClientDetails) > 0 {
		if chart, err := chartGen.GenerateClientCostChart(result.TopClientDetails[0]); err != nil {
			logger.Warn("Failed to generate client cost chart", "error", err)
		} else {
			result.ClientCostChart = chart
		}
	}

	// Save analysis results
	logger.Info("Saving analysis results")
	if err := storage.SaveAnalysisResult(result, config.ProjectID); err != nil {
		logger.Warn("Failed to save analysis results", "error", err)
	}

	// Generate report (HTML or Markdown)
	if *htmlOutput {
		logger.Info("Generating HTML report")
		htmlReporter := NewHTMLReporter(logger)
		if err := htmlReporter.GenerateHTMLReport(result, *outputPath); err != nil {
			logger.Error("Failed to generate HTML report", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Info("Generating Markdown report")
		reporter := NewReporter(logger)
		if err := reporter.GenerateReport(result, *outputPath); err != nil {
			logger.Error("Failed to generate report", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Analysis completed successfully")
}

// logHeadlineDeltas compares the new run's headline numbers with the
// previous saved run
func logHeadlineDeltas(logger *Logger, previous, current *AnalysisResult) {
	if previous == nil {
		logger.Debug("No previous analysis found, skipping delta logging")
		return
	}

	logger.Info("Changes since previous run",
		"previous_run", previous.RunID,
		"clients", current.AnalyzedClients-previous.AnalyzedClients,
		"urgent", current.Opportunities.Stats.Urgent-previous.Opportunities.Stats.Urgent,
		"low_balance", current.Overview.LowBalanceClients-previous.Overview.LowBalanceClients,
		"total_savings", current.Trends.TotalSavings-previous.Trends.TotalSavings,
	)
}
