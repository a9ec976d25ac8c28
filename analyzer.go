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
	"time"

	"github.com/google/uuid"
)

// Analyzer runs the full analysis pipeline over a collected snapshot
type Analyzer struct {
	config     *Config
	logger     *Logger
	scorer     *Scorer
	forecaster *Forecaster

	// Memoization: repeated Analyze calls over the same snapshot return the
	// cached result. Identity is the snapshot pointer plus its client count.
	memoSnapshot *Snapshot
	memoCount    int
	memoResult   *AnalysisResult
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(config *Config, logger *Logger) *Analyzer {
	return &Analyzer{
		config:     config,
		logger:     logger,
		scorer:     NewScorer(config, logger),
		forecaster: NewForecaster(config, logger),
	}
}

// Analyze builds the complete view-model set from a snapshot. The pipeline
// is pure: the only failure mode is structurally missing input.
func (a *Analyzer) Analyze(snapshot *Snapshot) (*AnalysisResult, error) {
	if snapshot == nil {
		return nil, &DataError{
			DataType: "snapshot",
			Message:  "snapshot data is required for analysis",
		}
	}

	if a.memoResult != nil && a.memoSnapshot == snapshot && a.memoCount == len(snapshot.Clients) {
		a.logger.Debug("Returning memoized analysis", "run_id", a.memoResult.RunID)
		return a.memoResult, nil
	}

	a.logger.Info("Starting analysis",
		"total", snapshot.TotalInStore,
		"analyzed", len(snapshot.Clients),
	)

	result := &AnalysisResult{
		RunID:           uuid.NewString(),
		GeneratedAt:     time.Now(),
		FetchedAt:       snapshot.FetchedAt,
		TotalInStore:    snapshot.TotalInStore,
		AnalyzedClients: len(snapshot.Clients),
		ExcludedClients: snapshot.TotalInStore - len(snapshot.Clients),
	}

	a.logger.LogAnalysisStage("overview")
	result.Overview = BuildOverview(snapshot.Clients, snapshot.AllConsumerUnits)

	a.logger.LogAnalysisStage("opportunities")
	// Initial presentation order: lowest balance first, the clients closest
	// to paying full utility rates
	result.Opportunities = a.scorer.BuildOpportunities(snapshot.Clients, FilterAll,
		SortState{Key: SortByBalance, Ascending: true})

	a.logger.LogAnalysisStage("regional")
	result.Regional = AggregateByCity(snapshot.Clients)

	a.logger.LogAnalysisStage("trends")
	result.Trends = a.forecaster.BuildTrends(snapshot.Clients, snapshot.AllConsumerUnits)

	a.logger.LogAnalysisStage("client_detail")
	result.TopClientDetails = a.topClientDetails(result.Opportunities.Records)

	a.memoSnapshot = snapshot
	a.memoCount = len(snapshot.Clients)
	a.memoResult = result

	a.logger.Info("Analysis completed", "run_id", result.RunID)
	return result, nil
}

// topClientDetails builds drill-down views for the highest-scoring
// opportunity clients, driving the same open/activate lifecycle an
// interactive consumer would
func (a *Analyzer) topClientDetails(records []OpportunityRecord) []ClientDrilldown {
	ranked := make([]OpportunityRecord, len(records))
	copy(ranked, records)
	SortOpportunities(ranked, SortState{Key: SortByUrgency})

	drill := NewDrilldownState(a.config)
	details := make([]ClientDrilldown, 0, TopClientDetailCount)
	for _, record := range ranked {
		if len(details) == TopClientDetailCount {
			break
		}
		drill.Open(record.Client)
		view, err := drill.Activate()
		if err != nil {
			a.logger.Warn("Failed to build client detail", "client_id", record.ID, "error", err)
			continue
		}
		details = append(details, *view)
		drill.Close()
	}
	return details
}
