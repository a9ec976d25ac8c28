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
)

// ClientStatus is the lifecycle status of a client installation
type ClientStatus string

const (
	StatusActive               ClientStatus = "active"
	StatusExpired              ClientStatus = "expired"
	StatusMonitoring           ClientStatus = "monitoring"
	StatusRecurringMaintenance ClientStatus = "recurring_maintenance"
	StatusOMComplete           ClientStatus = "om_complete"
	StatusUnknown              ClientStatus = "unknown"
)

// Client represents a solar installation client with its consumer units
type Client struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	ClientNumber  string         `json:"clientNumber"`
	Address       string         `json:"address"`
	Power         float64        `json:"power"` // Installed capacity in kWp
	Status        ClientStatus   `json:"status"`
	InstallDate   string         `json:"installDate"` // DD/MM/YYYY as stored
	ConsumerUnits []ConsumerUnit `json:"consumerUnits"`

	// Derived on snapshot load, never mutated in place
	TotalBalance   float64 `json:"totalBalance"` // kWh, sum of unit balances
	HasHistoryData bool    `json:"hasHistoryData"`
}

// ConsumerUnit is a single metered connection point belonging to a client
type ConsumerUnit struct {
	ID           string         `json:"id"`
	ClientID     string         `json:"clientId"`
	ClientName   string         `json:"clientName"`
	ClientNumber string         `json:"clientNumber"`
	Name         string         `json:"name"`
	BalanceKWH   float64        `json:"balanceKWH"` // Accumulated energy credit
	History      []HistoryEntry `json:"history"`    // Stored order, not guaranteed chronological
}

// HistoryEntry is one billing period of a consumer unit.
// Numeric fields are coerced at the input boundary (see schema.go); the
// period label is kept raw and validated where it is used as a group key.
type HistoryEntry struct {
	Period      string  `json:"period"` // "MM/YYYY"
	Consumption float64 `json:"consumption"`
	AmountPaid  float64 `json:"amountPaid"`
}

// MonthlyAggregate holds portfolio-wide totals for one billing period
type MonthlyAggregate struct {
	Period           string  `json:"period"`
	TotalConsumption float64 `json:"totalConsumption"` // kWh
	TotalPaid        float64 `json:"totalPaid"`
	EstimatedCost    float64 `json:"estimatedCost"` // Consumption at the reference unit price
	Savings          float64 `json:"savings"`       // EstimatedCost - TotalPaid, may be negative
	ClientCount      int     `json:"clientCount"`   // Distinct contributing clients
}

// HistoryRow is one billing period in a single client's history table
type HistoryRow struct {
	Period        string  `json:"period"`
	Consumption   float64 `json:"consumption"`
	EstimatedCost float64 `json:"estimatedCost"`
	Paid          float64 `json:"paid"`
	Savings       float64 `json:"savings"` // Not clamped; negative means solar cost more than it saved
}

// HistoryTotals accumulates a client history table's footer row
type HistoryTotals struct {
	Consumption   float64 `json:"consumption"`
	EstimatedCost float64 `json:"estimatedCost"`
	Paid          float64 `json:"paid"`
	Savings       float64 `json:"savings"`
}

// UnitBalance pairs a consumer unit name with its current credit balance
type UnitBalance struct {
	Name    string  `json:"name"`
	Balance float64 `json:"balance"` // kWh
}

// OpportunityCategory buckets an opportunity score
type OpportunityCategory string

const (
	CategoryUrgent OpportunityCategory = "urgent"
	CategoryMedium OpportunityCategory = "medium"
	CategoryLow    OpportunityCategory = "low"
)

// BalanceState classifies a client's current energy credit balance
type BalanceState string

const (
	BalanceZero     BalanceState = "zero"
	BalanceCritical BalanceState = "critical"
	BalanceLow      BalanceState = "low"
	BalanceOK       BalanceState = "ok"
)

// OpportunityRecord is a scored expansion opportunity for one client
type OpportunityRecord struct {
	Client

	Score              int                 `json:"opportunityScore"` // 0-95
	Category           OpportunityCategory `json:"category"`
	MonthlyConsumption float64             `json:"monthlyConsumption"` // kWh, rounded to whole units
	MonthlyPaid        float64             `json:"monthlyPaid"`        // Currency, rounded to whole units
	SuggestedExpansion float64             `json:"suggestedExpansion"` // kWp, one decimal
	BalanceStatus      BalanceState        `json:"balanceStatus"`
}

// OpportunityStats summarises a filtered opportunity list
type OpportunityStats struct {
	Total                   int     `json:"total"`
	Urgent                  int     `json:"urgent"`
	Medium                  int     `json:"medium"`
	Low                     int     `json:"low"`
	TotalExpansionPotential float64 `json:"totalExpansionPotential"` // kWp
	TotalMonthlyRevenue     float64 `json:"totalMonthlyRevenue"`     // Estimated, currency/month
}

// Insight represents an actionable recommendation
type Insight struct {
	Category    string `json:"category"` // opportunity, regional, trend, data_quality
	Priority    string `json:"priority"` // high, medium, low
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

// CityAggregate is a per-city rollup of the client portfolio
type CityAggregate struct {
	Name               string               `json:"name"`
	TotalClients       int                  `json:"totalClients"`
	TotalPower         float64              `json:"totalPower"`   // kWp
	TotalBalance       float64              `json:"totalBalance"` // kWh
	AverageBalance     float64              `json:"averageBalance"`
	AveragePower       float64              `json:"averagePower"`
	StatusDistribution map[ClientStatus]int `json:"statusDistribution"`
	Opportunities      int                  `json:"opportunities"`   // Clients with balance < 100 kWh
	OpportunityRate    float64              `json:"opportunityRate"` // Percent
	ReliabilityScore   float64              `json:"reliabilityScore"`
	Clients            []Client             `json:"clients"`
}

// BestCity names the best performing city and why it was chosen
type BestCity struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// RegionalReport is the regional view-model
type RegionalReport struct {
	ReliableCities     []CityAggregate `json:"reliableCities"`     // 2+ clients, count-sorted
	SingleClientCities []CityAggregate `json:"singleClientCities"` // Kept separately, balance-sorted
	TotalCities        int             `json:"totalCities"`
	ReliableCount      int             `json:"reliableCount"`
	TopCityByClients   string          `json:"topCityByClients"`
	TopCityByPower     string          `json:"topCityByPower"`
	BestPerformance    BestCity        `json:"bestPerformance"`
}

// TrendPoint is one billing period in the trend series
type TrendPoint struct {
	Period             string  `json:"period"`
	Consumption        float64 `json:"consumption"`
	Paid               float64 `json:"paid"`
	Savings            float64 `json:"savings"` // Per-entry clamped to >= 0
	ClientCount        int     `json:"clientCount"`
	AverageConsumption float64 `json:"averageConsumption"` // Per contributing client
}

// TrendDirection classifies a fitted slope
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
)

// ForecastPoint is one projected future period
type ForecastPoint struct {
	Consumption float64 `json:"consumption"` // kWh, clamped to >= 0
	Savings     float64 `json:"savings"`     // Currency, clamped to >= 0
}

// Forecast holds the linear projection over the coming periods.
// Absence of a Forecast (nil) means the observed window was too short.
type Forecast struct {
	NextPeriods      []ForecastPoint `json:"nextPeriods"`
	ConsumptionTrend TrendDirection  `json:"consumptionTrend"`
	SavingsTrend     TrendDirection  `json:"savingsTrend"`
}

// SeasonalAverage is the calendar-month average across all observed years
type SeasonalAverage struct {
	Month          time.Month `json:"month"`
	AvgConsumption float64    `json:"avgConsumption"`
	AvgSavings     float64    `json:"avgSavings"`
}

// GrowthPoint counts new installations per calendar month
type GrowthPoint struct {
	Period     string `json:"period"` // "MM/YYYY"
	NewClients int    `json:"newClients"`
}

// TrendsReport is the trends view-model
type TrendsReport struct {
	Series               []TrendPoint      `json:"series"`
	Seasonal             []SeasonalAverage `json:"seasonal"`
	Growth               []GrowthPoint     `json:"growth"`
	Forecast             *Forecast         `json:"forecast,omitempty"`
	TotalConsumption     float64           `json:"totalConsumption"`
	TotalSavings         float64           `json:"totalSavings"`
	AvgRecentConsumption float64           `json:"avgRecentConsumption"`
	AvgRecentSavings     float64           `json:"avgRecentSavings"`
	RecentNewClients     int               `json:"recentNewClients"` // Last 3 growth periods
	Insights             []Insight         `json:"insights"`
}

// BalanceBucket is one bar of the balance distribution histogram
type BalanceBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Alert flags a client needing immediate commercial attention
type Alert struct {
	ClientID string `json:"clientId"`
	Message  string `json:"message"`
}

// OverviewReport is the overview view-model
type OverviewReport struct {
	TotalClients          int                  `json:"totalClients"`
	TotalPower            float64              `json:"totalPower"`
	StatusDistribution    map[ClientStatus]int `json:"statusDistribution"`
	LowBalanceClients     int                  `json:"lowBalanceClients"`  // < 100 kWh
	ZeroBalanceClients    int                  `json:"zeroBalanceClients"` // == 0 kWh
	PayingBillClients     int                  `json:"payingBillClients"`  // < 50 kWh
	ClientsWithHistory    int                  `json:"clientsWithHistory"`
	ClientsWithoutHistory int                  `json:"clientsWithoutHistory"`
	AverageBalance        float64              `json:"averageBalance"`  // Per unit with history
	OpportunityRate       float64              `json:"opportunityRate"` // Percent
	HistoryRate           float64              `json:"historyRate"`     // Percent
	BalanceBuckets        []BalanceBucket      `json:"balanceBuckets"`
	Alerts                []Alert              `json:"alerts"`
}

// OpportunitiesReport is the opportunities view-model
type OpportunitiesReport struct {
	Records  []OpportunityRecord `json:"records"`
	Stats    OpportunityStats    `json:"stats"`
	Insights []Insight           `json:"insights"`
}

// ClientDrilldown is the single-client view-model shown in the drill-down
type ClientDrilldown struct {
	Client   Client        `json:"client"`
	Rows     []HistoryRow  `json:"rows"`
	Totals   HistoryTotals `json:"totals"`
	Balances []UnitBalance `json:"balances"`
}

// Snapshot is one full replacement of the upstream data set
type Snapshot struct {
	Clients         []Client       `json:"clients"` // Analyzed set: clients with valid history
	AllConsumerUnits []ConsumerUnit `json:"allConsumerUnits"`
	TotalInStore    int            `json:"totalInStore"`
	FetchedAt       time.Time      `json:"fetchedAt"`
}

// AnalysisResult holds the complete analysis output across all views
type AnalysisResult struct {
	RunID           string    `json:"runId"`
	GeneratedAt     time.Time `json:"generatedAt"`
	FetchedAt       time.Time `json:"fetchedAt"`
	TotalInStore    int       `json:"totalInStore"`
	AnalyzedClients int       `json:"analyzedClients"`
	ExcludedClients int       `json:"excludedClients"`

	Overview      OverviewReport      `json:"overview"`
	Opportunities OpportunitiesReport `json:"opportunities"`
	Regional      RegionalReport      `json:"regional"`
	Trends        TrendsReport        `json:"trends"`

	// TopClientDetails holds the drill-down views for the highest-scoring
	// opportunity clients
	TopClientDetails []ClientDrilldown `json:"topClientDetails,omitempty"`

	// Charts (base64 encoded PNG images)
	MonthlySeriesChart string `json:"monthlySeriesChart,omitempty"`
	CityChart          string `json:"cityChart,omitempty"`
	BalanceChart       string `json:"balanceChart,omitempty"`
	ClientCostChart    string `json:"clientCostChart,omitempty"`
}
