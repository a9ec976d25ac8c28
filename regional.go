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
)

// AggregateByCity groups clients by the city derived from their address and
// computes per-city rollups. Cities with at least two clients are "reliable"
// and get comparative averages; cities with exactly one client are retained
// in a separate list so they stay visible without skewing any ranking.
func AggregateByCity(clients []Client) RegionalReport {
	cities := make(map[string]*CityAggregate)

	for _, client := range clients {
		city := DeriveCity(client.Address)
		agg := cities[city]
		if agg == nil {
			agg = &CityAggregate{
				Name:               city,
				StatusDistribution: make(map[ClientStatus]int),
			}
			cities[city] = agg
		}

		agg.TotalClients++
		agg.TotalPower += client.Power
		agg.TotalBalance += client.TotalBalance
		agg.StatusDistribution[client.Status]++
		agg.Clients = append(agg.Clients, client)

		if client.TotalBalance < LowBalanceThreshold {
			agg.Opportunities++
		}
	}

	var reliable, single []CityAggregate
	for _, agg := range cities {
		if agg.TotalClients >= ReliableCityMinClients {
			n := float64(agg.TotalClients)
			agg.AverageBalance = agg.TotalBalance / n
			agg.AveragePower = agg.TotalPower / n
			agg.OpportunityRate = float64(agg.Opportunities) / n * 100
			agg.ReliabilityScore = math.Min(100, n/10*100)
			reliable = append(reliable, *agg)
			continue
		}
		// Degenerate averages: the single client's raw values
		agg.AverageBalance = agg.TotalBalance
		agg.AveragePower = agg.TotalPower
		if agg.Opportunities > 0 {
			agg.OpportunityRate = 100
		}
		single = append(single, *agg)
	}

	sort.SliceStable(reliable, func(i, j int) bool {
		return reliable[i].TotalClients > reliable[j].TotalClients
	})
	sort.SliceStable(single, func(i, j int) bool {
		return single[i].TotalBalance > single[j].TotalBalance
	})

	report := RegionalReport{
		ReliableCities:     reliable,
		SingleClientCities: single,
		TotalCities:        len(reliable) + len(single),
		ReliableCount:      len(reliable),
		TopCityByClients:   "N/A",
		TopCityByPower:     "N/A",
		BestPerformance:    selectBestCity(reliable),
	}
	if len(reliable) > 0 {
		report.TopCityByClients = reliable[0].Name
		report.TopCityByPower = topByPower(reliable)
	}
	return report
}

// selectBestCity picks the best performing city among the reliable ones:
// at least three clients, opportunity rate under 50%, highest average
// balance. With no city meeting the bar it falls back to the reliable city
// with the most clients, and with no reliable cities at all it reports an
// explicit insufficient-data sentinel.
func selectBestCity(reliable []CityAggregate) BestCity {
	if len(reliable) == 0 {
		return BestCity{Name: "N/A", Reason: "insufficient data"}
	}

	var best *CityAggregate
	for i := range reliable {
		city := &reliable[i]
		if city.TotalClients < BestCityMinClients || city.OpportunityRate >= BestCityMaxOpportunityRate {
			continue
		}
		if best == nil || city.AverageBalance > best.AverageBalance {
			best = city
		}
	}

	if best == nil {
		fallback := reliable[0] // Count-sorted; first has the most clients
		return BestCity{
			Name:   fallback.Name,
			Reason: fmt.Sprintf("%d clients", fallback.TotalClients),
		}
	}
	return BestCity{
		Name:   best.Name,
		Reason: fmt.Sprintf("%.0f kWh average balance", best.AverageBalance),
	}
}

// topByPower returns the name of the reliable city with the highest total
// installed capacity
func topByPower(reliable []CityAggregate) string {
	top := reliable[0]
	for _, city := range reliable[1:] {
		if city.TotalPower > top.TotalPower {
			top = city
		}
	}
	return top.Name
}

// CityByName resolves a city drill-down, searching reliable cities first and
// single-client cities second
func (r *RegionalReport) CityByName(name string) (CityAggregate, bool) {
	for _, city := range r.ReliableCities {
		if city.Name == name {
			return city, true
		}
	}
	for _, city := range r.SingleClientCities {
		if city.Name == name {
			return city, true
		}
	}
	return CityAggregate{}, false
}

// CityInsights creates the per-city insight strings shown in the drill-down
func CityInsights(city CityAggregate) []Insight {
	var insights []Insight

	if city.TotalClients >= 5 {
		insights = append(insights, Insight{
			Category:    "regional",
			Priority:    "low",
			Title:       "Reliable Sample",
			Description: fmt.Sprintf("Reliable sample with %d clients", city.TotalClients),
			Action:      "City metrics can be used for comparative ranking",
		})
	} else if city.TotalClients >= ReliableCityMinClients {
		insights = append(insights, Insight{
			Category:    "regional",
			Priority:    "medium",
			Title:       "Small Sample",
			Description: fmt.Sprintf("Small sample (%d clients), metrics are limited", city.TotalClients),
			Action:      "Treat averages as indicative only",
		})
	}

	if city.OpportunityRate == 0 {
		insights = append(insights, Insight{
			Category:    "regional",
			Priority:    "low",
			Title:       "Excellent Performance",
			Description: "No expansion opportunities identified in this city",
			Action:      "No commercial action needed, keep monitoring",
		})
	} else if city.OpportunityRate > 50 {
		insights = append(insights, Insight{
			Category:    "regional",
			Priority:    "high",
			Title:       "High Opportunity Rate",
			Description: "Many clients in this city are running a low credit balance",
			Action:      "Schedule a regional commercial campaign",
		})
	} else {
		insights = append(insights, Insight{
			Category:    "regional",
			Priority:    "medium",
			Title:       "Expansion Opportunities",
			Description: fmt.Sprintf("%d expansion opportunities identified", city.Opportunities),
			Action:      "Review the low-balance clients in this city",
		})
	}

	if city.AveragePower > 10 {
		insights = append(insights, Insight{
			Category:    "regional",
			Priority:    "low",
			Title:       "High Average Capacity",
			Description: fmt.Sprintf("High average installed capacity (%.1f kWp/client)", city.AveragePower),
			Action:      "Larger systems: prioritise O&M coverage here",
		})
	}

	return insights
}
