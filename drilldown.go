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

// DrilldownPhase is the lifecycle phase of the client drill-down
type DrilldownPhase string

const (
	DrilldownClosed  DrilldownPhase = "closed"
	DrilldownOpening DrilldownPhase = "opening"
	DrilldownOpen    DrilldownPhase = "open"
)

// DrilldownState drives the per-client detail view. Transitions are
// synchronous: Open moves closed → opening, Activate moves opening → open,
// Close returns to closed from any phase. Opening while another client is
// open replaces it.
type DrilldownState struct {
	config *Config

	phase  DrilldownPhase
	client *Client
	view   *ClientDrilldown
}

// NewDrilldownState creates a drill-down in the closed phase
func NewDrilldownState(config *Config) *DrilldownState {
	return &DrilldownState{
		config: config,
		phase:  DrilldownClosed,
	}
}

// Phase returns the current lifecycle phase
func (d *DrilldownState) Phase() DrilldownPhase {
	return d.phase
}

// Client returns the client being shown, or nil when closed
func (d *DrilldownState) Client() *Client {
	return d.client
}

// View returns the built view-model, or nil before Activate
func (d *DrilldownState) View() *ClientDrilldown {
	return d.view
}

// Open selects a client and moves to the opening phase. The view-model is
// not built until Activate so callers can render a transition first.
func (d *DrilldownState) Open(client Client) {
	d.client = &client
	d.view = nil
	d.phase = DrilldownOpening
}

// Activate builds the selected client's view-model and moves to the open
// phase. Calling it without a prior Open is a caller bug.
func (d *DrilldownState) Activate() (*ClientDrilldown, error) {
	if d.phase != DrilldownOpening || d.client == nil {
		return nil, &DataError{
			DataType: "drilldown",
			Message:  fmt.Sprintf("no client selected (phase %s)", d.phase),
		}
	}

	view := BuildClientDrilldown(*d.client, d.config.UnitPrice)
	d.view = &view
	d.phase = DrilldownOpen
	return d.view, nil
}

// Close clears the selection and returns to the closed phase
func (d *DrilldownState) Close() {
	d.client = nil
	d.view = nil
	d.phase = DrilldownClosed
}

// CostSavingsSeries extracts the stacked cost-vs-savings values from a
// drill-down, oldest period first, for charting
func CostSavingsSeries(view *ClientDrilldown) (labels []string, paid, savings []float64) {
	if view == nil {
		return nil, nil, nil
	}
	for _, row := range view.Rows {
		labels = append(labels, row.Period)
		paid = append(paid, row.Paid)
		savings = append(savings, row.Savings)
	}
	return labels, paid, savings
}
