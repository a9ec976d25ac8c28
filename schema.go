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
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// The document store keeps history entries under spreadsheet-style column
// labels imported from billing exports ("Referência", "Consumo(kWh)",
// "Valor"), with numeric fields stored sometimes as numbers and sometimes as
// strings. This file is the only place that untyped representation is
// allowed to exist; everything past the mapping functions works on the typed
// model in models.go.

// flexFloat coerces a JSON number, numeric string, or null to float64.
// Anything non-numeric coerces to zero, never an error.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}

	// Quoted string form
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// flexString coerces a JSON string or number to its textual form
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			*s = ""
			return nil
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(data)
	return nil
}

// rawHistoryEntry is one billing period as stored upstream
type rawHistoryEntry struct {
	Reference   string    `json:"Referência"`
	Consumption flexFloat `json:"Consumo(kWh)"`
	Amount      flexFloat `json:"Valor"`
}

// rawConsumerUnit is a consumer unit document as stored upstream
type rawConsumerUnit struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	BalanceKWH flexFloat         `json:"balanceKWH"`
	History    []rawHistoryEntry `json:"history"`
}

// rawClient is a client document as stored upstream
type rawClient struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	ClientNumber flexString `json:"clientNumber"`
	Address      string     `json:"address"`
	Power        flexString `json:"power"` // Locale-comma decimal, e.g. "12,5"
	Status       string     `json:"status"`
	InstallDate  string     `json:"installDate"` // DD/MM/YYYY
}

// ParsePower parses an installed capacity value that uses a decimal comma.
// Invalid or missing values coerce to zero.
func ParsePower(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseClientStatus maps an upstream status string to a known status
func ParseClientStatus(s string) ClientStatus {
	switch ClientStatus(s) {
	case StatusActive, StatusExpired, StatusMonitoring,
		StatusRecurringMaintenance, StatusOMComplete:
		return ClientStatus(s)
	default:
		return StatusUnknown
	}
}

// ParsePeriod parses a "MM/YYYY" billing period label into the first day of
// that month. Returns false for anything that does not split into a valid
// calendar month and year; such labels are excluded from aggregation rather
// than defaulted.
func ParsePeriod(label string) (time.Time, bool) {
	parts := strings.Split(label, "/")
	if len(parts) != 2 {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || year <= 0 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
}

// InstallPeriod converts a "DD/MM/YYYY" install date into its "MM/YYYY"
// billing period label
func InstallPeriod(installDate string) (string, bool) {
	if installDate == "" || installDate == "N/A" {
		return "", false
	}
	parts := strings.Split(installDate, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", false
	}
	return parts[1] + "/" + parts[2], true
}

// DeriveCity extracts the city from a free-text address: the trimmed last
// comma-separated segment when the address has several segments, otherwise
// the whole trimmed address. Missing or "N/A" addresses map to the unknown
// city sentinel.
func DeriveCity(address string) string {
	if address == "" || address == "N/A" {
		return UnknownCityLabel
	}
	parts := strings.Split(address, ",")
	if len(parts) > 1 {
		if city := strings.TrimSpace(parts[len(parts)-1]); city != "" {
			return city
		}
		return UnknownCityLabel
	}
	if city := strings.TrimSpace(address); city != "" {
		return city
	}
	return UnknownCityLabel
}

// entryLooksValid reports whether a history entry carries real billing data:
// positive consumption, positive paid amount, and a period label that at
// least resembles "MM/YYYY"
func entryLooksValid(e rawHistoryEntry) bool {
	return e.Consumption > 0 && e.Amount > 0 && strings.Contains(e.Reference, "/")
}

// MapConsumerUnit converts a raw consumer unit document into the typed model,
// attaching the owning client's identity as a non-owning back-reference.
// History entries keep their stored order.
func MapConsumerUnit(raw rawConsumerUnit, clientID, clientName, clientNumber string) ConsumerUnit {
	unit := ConsumerUnit{
		ID:           raw.ID,
		ClientID:     clientID,
		ClientName:   clientName,
		ClientNumber: clientNumber,
		Name:         raw.Name,
		BalanceKWH:   float64(raw.BalanceKWH),
	}
	if len(raw.History) > 0 {
		unit.History = make([]HistoryEntry, len(raw.History))
		for i, e := range raw.History {
			unit.History[i] = HistoryEntry{
				Period:      e.Reference,
				Consumption: float64(e.Consumption),
				AmountPaid:  float64(e.Amount),
			}
		}
	}
	return unit
}

// MapClient converts a raw client document plus its raw consumer units into
// the typed model, computing the derived balance and history flags
func MapClient(raw rawClient, rawUnits []rawConsumerUnit) Client {
	client := Client{
		ID:           raw.ID,
		Name:         raw.Name,
		ClientNumber: string(raw.ClientNumber),
		Address:      raw.Address,
		Power:        ParsePower(string(raw.Power)),
		Status:       ParseClientStatus(raw.Status),
		InstallDate:  raw.InstallDate,
	}

	client.ConsumerUnits = make([]ConsumerUnit, 0, len(rawUnits))
	for _, ru := range rawUnits {
		unit := MapConsumerUnit(ru, client.ID, client.Name, client.ClientNumber)
		client.TotalBalance += unit.BalanceKWH
		for _, e := range ru.History {
			if entryLooksValid(e) {
				client.HasHistoryData = true
				break
			}
		}
		client.ConsumerUnits = append(client.ConsumerUnits, unit)
	}

	return client
}
