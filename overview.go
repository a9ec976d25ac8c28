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

import "fmt"

// BuildOverview assembles the portfolio-wide KPI view. Client-level KPIs
// come from the analyzed set; the per-unit average balance covers every
// collected unit, including those of clients excluded from scoring.
func BuildOverview(clients []Client, units []ConsumerUnit) OverviewReport {
	report := OverviewReport{
		TotalClients:       len(clients),
		StatusDistribution: make(map[ClientStatus]int),
	}

	var balanceTotal float64
	var unitsWithHistory int

	for _, client := range clients {
		report.TotalPower += client.Power
		report.StatusDistribution[client.Status]++

		if client.TotalBalance < LowBalanceThreshold {
			report.LowBalanceClients++
		}
		if client.TotalBalance == 0 {
			report.ZeroBalanceClients++
		}
		if client.TotalBalance < CriticalBalanceThreshold {
			report.PayingBillClients++
		}

		if client.HasHistoryData {
			report.ClientsWithHistory++
		} else {
			report.ClientsWithoutHistory++
		}
	}

	for _, unit := range units {
		if len(unit.History) > 0 {
			balanceTotal += unit.BalanceKWH
			unitsWithHistory++
		}
	}

	if unitsWithHistory > 0 {
		report.AverageBalance = balanceTotal / float64(unitsWithHistory)
	}
	if report.TotalClients > 0 {
		report.OpportunityRate = float64(report.LowBalanceClients) / float64(report.TotalClients) * 100
		report.HistoryRate = float64(report.ClientsWithHistory) / float64(report.TotalClients) * 100
	}

	report.BalanceBuckets = balanceHistogram(clients)
	report.Alerts = zeroBalanceAlerts(clients)

	return report
}

// balanceHistogram counts clients per balance range, in display order
func balanceHistogram(clients []Client) []BalanceBucket {
	counts := make([]int, len(balanceBucketLabels))
	for _, client := range clients {
		switch b := client.TotalBalance; {
		case b == 0:
			counts[0]++
		case b <= 50:
			counts[1]++
		case b <= 100:
			counts[2]++
		case b <= 200:
			counts[3]++
		default:
			counts[4]++
		}
	}

	buckets := make([]BalanceBucket, len(balanceBucketLabels))
	for i, label := range balanceBucketLabels {
		buckets[i] = BalanceBucket{Label: label, Count: counts[i]}
	}
	return buckets
}

// zeroBalanceAlerts flags the first clients found with a fully consumed
// balance. Capped at five so the report surfaces the problem without
// turning into a client listing.
func zeroBalanceAlerts(clients []Client) []Alert {
	var alerts []Alert
	for _, client := range clients {
		if client.TotalBalance != 0 {
			continue
		}
		alerts = append(alerts, Alert{
			ClientID: client.ID,
			Message:  fmt.Sprintf("%s has no energy balance left and is paying full utility rates", client.Name),
		})
		if len(alerts) == 5 {
			break
		}
	}
	return alerts
}
