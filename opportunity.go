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
	"strings"
)

// Scorer computes expansion opportunity scores for the client portfolio
type Scorer struct {
	config *Config
	logger *Logger
}

// NewScorer creates a new opportunity scorer
func NewScorer(config *Config, logger *Logger) *Scorer {
	return &Scorer{
		config: config,
		logger: logger,
	}
}

// ScoreClients scores every client that has billing history. Clients without
// history are filtered out entirely, not scored as zero: their absence from
// the output is the signal.
//
// The score is additive over four capped factors (balance 40, consumption
// density 30, paid amount 20, history bonus 5) with no final normalisation,
// so the attainable maximum is 95, not 100.
func (s *Scorer) ScoreClients(clients []Client) []OpportunityRecord {
	records := make([]OpportunityRecord, 0, len(clients))

	for _, client := range clients {
		if !client.HasHistoryData {
			continue
		}

		consumption, paid := s.monthlyAverages(client)
		score := scoreBalance(client.TotalBalance) +
			scoreConsumptionDensity(consumption, client.Power) +
			scorePaidAmount(paid) +
			5 // valid-history bonus; this path only runs with history present

		records = append(records, OpportunityRecord{
			Client:             client,
			Score:              score,
			Category:           categorise(score),
			MonthlyConsumption: math.Round(consumption),
			MonthlyPaid:        math.Round(paid),
			SuggestedExpansion: s.suggestedExpansion(consumption, client.Power),
			BalanceStatus:      classifyBalance(client.TotalBalance),
		})
	}

	return records
}

// monthlyAverages sums, across the client's units, each unit's average
// consumption and paid amount over its most recent history entries. "Recent"
// means the leading entries in stored order; the upstream exporter writes
// newest first, and this layer deliberately does not re-sort (see DESIGN.md).
func (s *Scorer) monthlyAverages(client Client) (consumption, paid float64) {
	window := s.config.RecentWindowMonths
	for _, unit := range client.ConsumerUnits {
		if len(unit.History) == 0 {
			continue
		}
		recent := unit.History
		if len(recent) > window {
			recent = recent[:window]
		}
		var unitConsumption, unitPaid float64
		for _, e := range recent {
			unitConsumption += e.Consumption
			unitPaid += e.AmountPaid
		}
		consumption += unitConsumption / float64(len(recent))
		paid += unitPaid / float64(len(recent))
	}
	return consumption, paid
}

// suggestedExpansion estimates the extra capacity (kWp, one decimal) needed
// to cover the client's consumption at the assumed annual yield
func (s *Scorer) suggestedExpansion(monthlyConsumption, power float64) float64 {
	if monthlyConsumption <= 0 {
		return 0
	}
	needed := monthlyConsumption * 12 / s.config.AnnualYieldPerKWp
	return math.Round(math.Max(0, needed-power)*10) / 10
}

// scoreBalance awards up to 40 points: the lower the remaining credit, the
// stronger the expansion signal
func scoreBalance(balance float64) int {
	switch {
	case balance == 0:
		return 40
	case balance < 50:
		return 30
	case balance < 100:
		return 20
	case balance < 200:
		return 10
	default:
		return 0
	}
}

// scoreConsumptionDensity awards up to 30 points for consumption that is
// high relative to installed capacity. Requires both figures to be positive.
func scoreConsumptionDensity(monthlyConsumption, power float64) int {
	if monthlyConsumption <= 0 || power <= 0 {
		return 0
	}
	ratio := monthlyConsumption / power
	switch {
	case ratio > 150:
		return 30
	case ratio > 100:
		return 20
	case ratio > 50:
		return 10
	default:
		return 0
	}
}

// scorePaidAmount awards up to 20 points for money still flowing to the grid
func scorePaidAmount(monthlyPaid float64) int {
	switch {
	case monthlyPaid > 200:
		return 20
	case monthlyPaid > 100:
		return 15
	case monthlyPaid > 50:
		return 10
	default:
		return 0
	}
}

func categorise(score int) OpportunityCategory {
	switch {
	case score >= UrgentScoreThreshold:
		return CategoryUrgent
	case score >= MediumScoreThreshold:
		return CategoryMedium
	default:
		return CategoryLow
	}
}

func classifyBalance(balance float64) BalanceState {
	switch {
	case balance == 0:
		return BalanceZero
	case balance < 50:
		return BalanceCritical
	case balance < 100:
		return BalanceLow
	default:
		return BalanceOK
	}
}

// SortKey selects the column an opportunity list is ordered by
type SortKey string

const (
	SortByName        SortKey = "name"
	SortByBalance     SortKey = "balance"
	SortByPotential   SortKey = "potential"
	SortByUrgency     SortKey = "urgency"
	SortByConsumption SortKey = "consumption"
	SortByPaid        SortKey = "paid"
	SortByCategory    SortKey = "category"
)

// SortState is the multi-key sort surface over an opportunity list
type SortState struct {
	Key       SortKey
	Ascending bool
}

// Toggle requests a sort on the given key: requesting the active key flips
// the direction, a new key starts ascending
func (st *SortState) Toggle(key SortKey) {
	if st.Key == key {
		st.Ascending = !st.Ascending
		return
	}
	st.Key = key
	st.Ascending = true
}

// categoryRank orders categories for sorting: urgent > medium > low
func categoryRank(c OpportunityCategory) int {
	switch c {
	case CategoryUrgent:
		return 3
	case CategoryMedium:
		return 2
	case CategoryLow:
		return 1
	default:
		return 0
	}
}

// FilterAll selects every scored record regardless of category
const FilterAll = "all"

// FilterOpportunities returns the records matching a category filter. The
// "all" filter still drops zero-score records.
func FilterOpportunities(records []OpportunityRecord, category string) []OpportunityRecord {
	filtered := make([]OpportunityRecord, 0, len(records))
	for _, r := range records {
		if category == "all" || category == "" {
			if r.Score > 0 {
				filtered = append(filtered, r)
			}
			continue
		}
		if string(r.Category) == category {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// SortOpportunities orders records in place according to the sort state
func SortOpportunities(records []OpportunityRecord, state SortState) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		var cmp int
		switch state.Key {
		case SortByName:
			cmp = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case SortByBalance:
			cmp = compareFloat(a.TotalBalance, b.TotalBalance)
		case SortByPotential:
			cmp = compareFloat(a.SuggestedExpansion, b.SuggestedExpansion)
		case SortByConsumption:
			cmp = compareFloat(a.MonthlyConsumption, b.MonthlyConsumption)
		case SortByPaid:
			cmp = compareFloat(a.MonthlyPaid, b.MonthlyPaid)
		case SortByCategory:
			cmp = categoryRank(a.Category) - categoryRank(b.Category)
		default: // urgency
			cmp = a.Score - b.Score
		}
		if state.Ascending {
			return cmp < 0
		}
		return cmp > 0
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// BuildOpportunities runs the full opportunities view: scoring, filtering,
// sorting, aggregate stats and insight generation
func (s *Scorer) BuildOpportunities(clients []Client, filter string, state SortState) OpportunitiesReport {
	records := s.ScoreClients(clients)
	records = FilterOpportunities(records, filter)
	SortOpportunities(records, state)

	stats := summariseOpportunities(records, s.config.RevenuePerKWp)

	s.logger.Info("Opportunities scored",
		"total", stats.Total,
		"urgent", stats.Urgent,
		"expansion_kwp", stats.TotalExpansionPotential,
	)

	return OpportunitiesReport{
		Records:  records,
		Stats:    stats,
		Insights: opportunityInsights(stats),
	}
}

// summariseOpportunities computes the aggregate stats over a record list
func summariseOpportunities(records []OpportunityRecord, revenuePerKWp float64) OpportunityStats {
	stats := OpportunityStats{Total: len(records)}
	for _, r := range records {
		switch r.Category {
		case CategoryUrgent:
			stats.Urgent++
		case CategoryMedium:
			stats.Medium++
		case CategoryLow:
			stats.Low++
		}
		stats.TotalExpansionPotential += r.SuggestedExpansion
	}
	stats.TotalMonthlyRevenue = math.Round(stats.TotalExpansionPotential * revenuePerKWp)
	stats.TotalExpansionPotential = math.Round(stats.TotalExpansionPotential*10) / 10
	return stats
}

// opportunityInsights creates actionable recommendations from the stats
func opportunityInsights(stats OpportunityStats) []Insight {
	var insights []Insight

	if stats.Urgent > 0 {
		insights = append(insights, Insight{
			Category:    "opportunity",
			Priority:    "high",
			Title:       "Immediate Action Needed",
			Description: fmt.Sprintf("%d clients with zero or critical credit balance need urgent attention", stats.Urgent),
			Action:      "Prioritise commercial contact with these clients",
		})
	}

	if stats.TotalExpansionPotential > 10 {
		insights = append(insights, Insight{
			Category:    "opportunity",
			Priority:    "medium",
			Title:       "Large Expansion Potential",
			Description: fmt.Sprintf("%.1f kWp of expansion potential across the portfolio", stats.TotalExpansionPotential),
			Action:      fmt.Sprintf("Potential revenue: %.0f/month at current pricing", stats.TotalMonthlyRevenue),
		})
	}

	return insights
}
