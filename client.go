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
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// StoreClient handles communication with the hosted document store's REST API
type StoreClient struct {
	projectID  string
	apiKey     string
	email      string
	password   string
	httpClient *http.Client
	logger     *Logger

	// ID token management
	idToken     string
	tokenExpiry time.Time
	tokenMutex  sync.RWMutex

	// Rate limiting
	lastRequest  time.Time
	requestMutex sync.Mutex
}

// NewStoreClient creates a new document store API client
func NewStoreClient(config *Config, logger *Logger) *StoreClient {
	return &StoreClient{
		projectID: config.ProjectID,
		apiKey:    config.APIKey,
		email:     config.Email,
		password:  config.Password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// ensureValidToken ensures we have a valid ID token
func (c *StoreClient) ensureValidToken() error {
	c.tokenMutex.RLock()
	hasValidToken := c.idToken != "" && time.Now().Before(c.tokenExpiry)
	c.tokenMutex.RUnlock()

	if hasValidToken {
		return nil
	}

	return c.signIn()
}

// signIn exchanges the configured credentials for an ID token
func (c *StoreClient) signIn() error {
	c.tokenMutex.Lock()
	defer c.tokenMutex.Unlock()

	c.logger.Debug("Signing in to identity endpoint")

	endpoint := fmt.Sprintf("%s/accounts:signInWithPassword?key=%s", IdentityAPIBase, c.apiKey)

	payload := map[string]interface{}{
		"email":             c.email,
		"password":          c.password,
		"returnSecureToken": true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal sign-in request: %w", err)
	}

	req, err := http.NewRequest("POST", endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create sign-in request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", GetUserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{
			Endpoint: IdentityAPIBase,
			Message:  "failed to request ID token",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(bodyBytes, &errResp)
		return &AuthError{
			Code:    errResp.Error.Message,
			Message: fmt.Sprintf("sign-in failed (status %d)", resp.StatusCode),
		}
	}

	var tokenResp struct {
		IDToken   string `json:"idToken"`
		ExpiresIn string `json:"expiresIn"` // Seconds, as a string
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("failed to decode sign-in response: %w", err)
	}

	if tokenResp.IDToken == "" {
		return &AuthError{
			Message: "empty ID token received from identity endpoint",
		}
	}

	ttl := 55 * time.Minute
	if secs, err := strconv.Atoi(tokenResp.ExpiresIn); err == nil && secs > 60 {
		// Refresh a little before the server-side expiry
		ttl = time.Duration(secs-60) * time.Second
	}

	c.idToken = tokenResp.IDToken
	c.tokenExpiry = time.Now().Add(ttl)

	c.logger.Debug("ID token obtained successfully")
	return nil
}

// storeDocument is one document in the store's wire format
type storeDocument struct {
	Name   string                `json:"name"`
	Fields map[string]storeValue `json:"fields"`
}

// storeValue is the store's typed value envelope. Exactly one member is set.
type storeValue struct {
	StringValue    *string      `json:"stringValue,omitempty"`
	IntegerValue   *string      `json:"integerValue,omitempty"` // 64-bit ints arrive as strings
	DoubleValue    *float64     `json:"doubleValue,omitempty"`
	BooleanValue   *bool        `json:"booleanValue,omitempty"`
	NullValue      *interface{} `json:"nullValue,omitempty"`
	TimestampValue *string      `json:"timestampValue,omitempty"`
	MapValue       *struct {
		Fields map[string]storeValue `json:"fields"`
	} `json:"mapValue,omitempty"`
	ArrayValue *struct {
		Values []storeValue `json:"values"`
	} `json:"arrayValue,omitempty"`
}

// plain unwraps a typed value into its plain JSON equivalent
func (v storeValue) plain() interface{} {
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.IntegerValue != nil:
		if n, err := strconv.ParseInt(*v.IntegerValue, 10, 64); err == nil {
			return float64(n)
		}
		return *v.IntegerValue
	case v.DoubleValue != nil:
		return *v.DoubleValue
	case v.BooleanValue != nil:
		return *v.BooleanValue
	case v.TimestampValue != nil:
		return *v.TimestampValue
	case v.MapValue != nil:
		return plainFields(v.MapValue.Fields)
	case v.ArrayValue != nil:
		values := make([]interface{}, len(v.ArrayValue.Values))
		for i, av := range v.ArrayValue.Values {
			values[i] = av.plain()
		}
		return values
	default:
		return nil
	}
}

func plainFields(fields map[string]storeValue) map[string]interface{} {
	plain := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		plain[key] = value.plain()
	}
	return plain
}

// documentID returns the last path segment of a document resource name
func documentID(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			return name[i+1:]
		}
	}
	return name
}

// decodeDocument converts a store document into the target raw type by
// flattening the typed value envelopes and re-decoding as plain JSON. The
// flexible coercions in schema.go apply on the way through.
func decodeDocument(doc storeDocument, target interface{}) error {
	plain := plainFields(doc.Fields)
	plain["id"] = documentID(doc.Name)

	data, err := json.Marshal(plain)
	if err != nil {
		return fmt.Errorf("failed to flatten document %s: %w", doc.Name, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", doc.Name, err)
	}
	return nil
}

// listDocuments pages through a collection path, collecting every document
func (c *StoreClient) listDocuments(collectionPath string) ([]storeDocument, error) {
	var documents []storeDocument
	pageToken := ""

	for {
		endpoint := fmt.Sprintf("%s/projects/%s/databases/(default)/documents/%s?pageSize=300",
			DocumentStoreAPIBase, c.projectID, collectionPath)
		if pageToken != "" {
			endpoint += "&pageToken=" + pageToken
		}

		var page struct {
			Documents     []storeDocument `json:"documents"`
			NextPageToken string          `json:"nextPageToken"`
		}
		if err := c.makeRequest(endpoint, &page); err != nil {
			return nil, err
		}

		documents = append(documents, page.Documents...)
		if page.NextPageToken == "" {
			return documents, nil
		}
		pageToken = page.NextPageToken
	}
}

// makeRequest makes an authenticated GET request against the store
func (c *StoreClient) makeRequest(endpoint string, result interface{}) error {
	if err := c.ensureValidToken(); err != nil {
		return err
	}

	// Rate limiting: minimum 100ms between requests
	c.requestMutex.Lock()
	if elapsed := time.Since(c.lastRequest); elapsed < 100*time.Millisecond {
		time.Sleep(100*time.Millisecond - elapsed)
	}
	c.lastRequest = time.Now()
	c.requestMutex.Unlock()

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create store request: %w", err)
	}

	c.tokenMutex.RLock()
	token := c.idToken
	c.tokenMutex.RUnlock()

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", GetUserAgent())

	c.logger.LogAPIRequest("GET", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{
			Endpoint: endpoint,
			Message:  "store request failed",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		// Invalidate the token so the next call signs in again
		c.tokenMutex.Lock()
		c.idToken = ""
		c.tokenMutex.Unlock()

		return &AuthError{
			Message: fmt.Sprintf("authentication failed (status %d)", resp.StatusCode),
		}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.LogAPIError(endpoint, resp.StatusCode, fmt.Errorf("%s", string(bodyBytes)))
		return &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    string(bodyBytes),
		}
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return fmt.Errorf("failed to decode store response: %w", err)
	}

	return nil
}

// FetchClients fetches every client document and its consumer unit
// subcollection, returning the typed model
func (c *StoreClient) FetchClients() ([]Client, error) {
	c.logger.Info("Fetching client documents", "collection", ClientsCollection)

	docs, err := c.listDocuments(ClientsCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clients: %w", err)
	}

	clients := make([]Client, 0, len(docs))
	for _, doc := range docs {
		var raw rawClient
		if err := decodeDocument(doc, &raw); err != nil {
			return nil, err
		}

		unitPath := fmt.Sprintf("%s/%s/%s", ClientsCollection, raw.ID, ConsumerUnitsCollection)
		unitDocs, err := c.listDocuments(unitPath)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch consumer units for client %s: %w", raw.ID, err)
		}

		rawUnits := make([]rawConsumerUnit, 0, len(unitDocs))
		for _, unitDoc := range unitDocs {
			var rawUnit rawConsumerUnit
			if err := decodeDocument(unitDoc, &rawUnit); err != nil {
				return nil, err
			}
			rawUnits = append(rawUnits, rawUnit)
		}

		clients = append(clients, MapClient(raw, rawUnits))
	}

	c.logger.LogDataCollection("clients", len(clients))
	return clients, nil
}
