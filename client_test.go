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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentID(t *testing.T) {
	assert.Equal(t, "abc123",
		documentID("projects/p/databases/(default)/documents/solar-clients/abc123"))
	assert.Equal(t, "bare", documentID("bare"))
	assert.Equal(t, "", documentID("trailing/"))
}

func TestStoreValuePlain(t *testing.T) {
	wire := `{
		"name": "projects/p/databases/(default)/documents/solar-clients/c1",
		"fields": {
			"name": {"stringValue": "Homer Simpson"},
			"power": {"stringValue": "5,5"},
			"balanceKWH": {"doubleValue": 120.5},
			"count": {"integerValue": "42"},
			"active": {"booleanValue": true},
			"missing": {"nullValue": null},
			"history": {"arrayValue": {"values": [
				{"mapValue": {"fields": {
					"Referência": {"stringValue": "01/2024"},
					"Consumo(kWh)": {"integerValue": "300"},
					"Valor": {"stringValue": "150.50"}
				}}}
			]}}
		}
	}`

	var doc storeDocument
	require.NoError(t, json.Unmarshal([]byte(wire), &doc))

	plain := plainFields(doc.Fields)
	assert.Equal(t, "Homer Simpson", plain["name"])
	assert.Equal(t, 120.5, plain["balanceKWH"])
	assert.Equal(t, float64(42), plain["count"])
	assert.Equal(t, true, plain["active"])
	assert.Nil(t, plain["missing"])

	history, ok := plain["history"].([]interface{})
	require.True(t, ok)
	require.Len(t, history, 1)
	entry, ok := history[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "01/2024", entry["Referência"])
	assert.Equal(t, float64(300), entry["Consumo(kWh)"])
}

func TestDecodeDocument(t *testing.T) {
	wire := `{
		"name": "projects/p/databases/(default)/documents/solar-clients/c1/consumerUnits/u1",
		"fields": {
			"name": {"stringValue": "Casa"},
			"balanceKWH": {"stringValue": "120.5"},
			"history": {"arrayValue": {"values": [
				{"mapValue": {"fields": {
					"Referência": {"stringValue": "01/2024"},
					"Consumo(kWh)": {"stringValue": "300"},
					"Valor": {"doubleValue": 150.5}
				}}}
			]}}
		}
	}`

	var doc storeDocument
	require.NoError(t, json.Unmarshal([]byte(wire), &doc))

	var raw rawConsumerUnit
	require.NoError(t, decodeDocument(doc, &raw))

	assert.Equal(t, "u1", raw.ID)
	assert.Equal(t, "Casa", raw.Name)
	assert.Equal(t, 120.5, float64(raw.BalanceKWH))
	require.Len(t, raw.History, 1)
	assert.Equal(t, "01/2024", raw.History[0].Reference)
	assert.Equal(t, float64(300), float64(raw.History[0].Consumption))
	assert.Equal(t, 150.5, float64(raw.History[0].Amount))
}

func TestAPIErrorRetryable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{status: 429, want: true},
		{status: 500, want: true},
		{status: 502, want: true},
		{status: 503, want: true},
		{status: 504, want: true},
		{status: 400, want: false},
		{status: 401, want: false},
		{status: 404, want: false},
	}

	for _, tt := range tests {
		err := &APIError{StatusCode: tt.status}
		assert.Equal(t, tt.want, err.IsRetryable(), "status %d", tt.status)
	}
}

func TestErrorMessages(t *testing.T) {
	apiErr := &APIError{StatusCode: 404, Endpoint: "/documents", Message: "not found"}
	assert.Equal(t, "API error at /documents (status 404): not found", apiErr.Error())

	authErr := &AuthError{Code: "INVALID_PASSWORD", Message: "sign-in failed"}
	assert.Equal(t, "authentication error [INVALID_PASSWORD]: sign-in failed", authErr.Error())

	dataErr := &DataError{DataType: "snapshot", Message: "snapshot data is required for analysis"}
	assert.Equal(t, "data error for snapshot: snapshot data is required for analysis", dataErr.Error())
}
