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
	"sort"
)

// AggregateMonthly groups the billing history of all consumer units by
// period label and computes per-period totals. Period labels that do not
// parse as a calendar month/year are excluded entirely rather than bucketed
// under a placeholder. Labels are compared byte-for-byte: "01/2024" and
// " 01/2024 " are distinct keys. That is a known data-quality limitation of
// the upstream exports, not something this layer normalises away.
//
// Savings = estimated unsubsidised cost - amount actually paid, and may be
// negative; callers that want the clamped accumulation used in trend totals
// should use BuildTrendSeries instead.
func AggregateMonthly(units []ConsumerUnit, unitPrice float64) []MonthlyAggregate {
	type bucket struct {
		consumption float64
		paid        float64
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
			b.clients[unit.ClientID] = struct{}{}
		}
	}

	aggregates := make([]MonthlyAggregate, 0, len(buckets))
	for period, b := range buckets {
		estimated := b.consumption * unitPrice
		aggregates = append(aggregates, MonthlyAggregate{
			Period:           period,
			TotalConsumption: b.consumption,
			TotalPaid:        b.paid,
			EstimatedCost:    estimated,
			Savings:          estimated - b.paid,
			ClientCount:      len(b.clients),
		})
	}

	sortByPeriod(aggregates, func(a MonthlyAggregate) string { return a.Period })
	return aggregates
}

// BuildClientDrilldown assembles the single-client history table: one row
// per billing period across the client's units, a totals footer and the
// per-unit balance list. Row savings keep their sign.
func BuildClientDrilldown(client Client, unitPrice float64) ClientDrilldown {
	aggregates := AggregateMonthly(client.ConsumerUnits, unitPrice)

	drill := ClientDrilldown{
		Client:   client,
		Rows:     make([]HistoryRow, 0, len(aggregates)),
		Balances: make([]UnitBalance, 0, len(client.ConsumerUnits)),
	}

	for _, agg := range aggregates {
		row := HistoryRow{
			Period:        agg.Period,
			Consumption:   agg.TotalConsumption,
			EstimatedCost: agg.EstimatedCost,
			Paid:          agg.TotalPaid,
			Savings:       agg.Savings,
		}
		drill.Rows = append(drill.Rows, row)
		drill.Totals.Consumption += row.Consumption
		drill.Totals.EstimatedCost += row.EstimatedCost
		drill.Totals.Paid += row.Paid
		drill.Totals.Savings += row.Savings
	}

	for _, unit := range client.ConsumerUnits {
		name := unit.Name
		if name == "" {
			name = "Unnamed unit"
		}
		drill.Balances = append(drill.Balances, UnitBalance{
			Name:    name,
			Balance: unit.BalanceKWH,
		})
	}

	return drill
}

// sortByPeriod sorts a slice chronologically by its "MM/YYYY" period label.
// Callers guarantee every label parses; unparseable labels never reach here.
func sortByPeriod[T any](items []T, period func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, _ := ParsePeriod(period(items[i]))
		tj, _ := ParsePeriod(period(items[j]))
		return ti.Before(tj)
	})
}
