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

const (
	// DocumentStoreAPIBase is the base URL of the document store REST API
	DocumentStoreAPIBase = "https://firestore.googleapis.com/v1"

	// IdentityAPIBase is the base URL for anonymous session tokens
	IdentityAPIBase = "https://identitytoolkit.googleapis.com/v1"

	// ClientsCollection is the collection holding client documents
	ClientsCollection = "solar-clients"

	// ConsumerUnitsCollection is the per-client subcollection of metered units
	ConsumerUnitsCollection = "consumerUnits"
)

// Defaults for the analysis tunables. All of them can be overridden in the
// configuration file; the values mirror the commercial assumptions the
// portfolio is managed under, they are not physical constants.
const (
	// DefaultUnitPrice is the reference grid price in currency per kWh, used
	// to estimate what a billing period would have cost without solar.
	DefaultUnitPrice = 0.99

	// DefaultRecentWindow is how many history entries (in stored order) feed
	// the monthly consumption/paid averages.
	DefaultRecentWindow = 6

	// DefaultAnnualYieldPerKWp is the assumed annual generation of one
	// installed kWp, in kWh.
	DefaultAnnualYieldPerKWp = 1200

	// DefaultForecastPeriods is how many periods the trend projection covers.
	DefaultForecastPeriods = 3

	// DefaultRevenuePerKWp is the estimated monthly revenue of one kWp of
	// sold expansion capacity.
	DefaultRevenuePerKWp = 150
)

// Score thresholds and balance buckets shared by scorer, overview and reports
const (
	// UrgentScoreThreshold and MediumScoreThreshold bucket opportunity scores
	UrgentScoreThreshold = 70
	MediumScoreThreshold = 40

	// LowBalanceThreshold marks a client as an expansion opportunity (kWh)
	LowBalanceThreshold = 100

	// CriticalBalanceThreshold marks a client as effectively paying a grid
	// bill again (kWh)
	CriticalBalanceThreshold = 50

	// ReliableCityMinClients is the minimum sample size before a city's
	// averages are used in comparative ranking
	ReliableCityMinClients = 2

	// BestCityMinClients and BestCityMaxOpportunityRate gate the best
	// performing city selection
	BestCityMinClients         = 3
	BestCityMaxOpportunityRate = 50.0

	// TopClientDetailCount caps the per-client drill-downs in the reports
	TopClientDetailCount = 3
)

// UnknownCityLabel is the sentinel city for missing or "N/A" addresses.
// The label is kept in the portfolio's source language so it matches the
// values already present in historical exports.
const UnknownCityLabel = "Cidade não informada"

// statusLabels maps client statuses to display labels
var statusLabels = map[ClientStatus]string{
	StatusActive:               "Under Warranty",
	StatusExpired:              "Warranty Expired",
	StatusMonitoring:           "Monitoring",
	StatusRecurringMaintenance: "Recurring Maintenance",
	StatusOMComplete:           "O&M Complete",
	StatusUnknown:              "Unknown",
}

// StatusLabel returns a display label for a client status
func StatusLabel(s ClientStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// balanceBucketLabels defines the histogram buckets for the overview, in
// display order
var balanceBucketLabels = []string{
	"0 kWh",
	"1-50 kWh",
	"51-100 kWh",
	"101-200 kWh",
	"200+ kWh",
}
