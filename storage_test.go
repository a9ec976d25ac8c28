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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	storage, err := NewStorage(t.TempDir(), "test-project", testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestStorageAnalysisRoundTrip(t *testing.T) {
	storage := newTestStorage(t)

	result := &AnalysisResult{
		RunID:           "run-1",
		GeneratedAt:     time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
		AnalyzedClients: 2,
	}
	require.NoError(t, storage.SaveAnalysisResult(result, "test-project"))

	loaded, err := storage.LoadLatestAnalysis("test-project")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "run-1", loaded.RunID)
	assert.Equal(t, 2, loaded.AnalyzedClients)
}

func TestStorageLoadLatestPicksNewest(t *testing.T) {
	storage := newTestStorage(t)

	first := &AnalysisResult{RunID: "run-1", GeneratedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)}
	second := &AnalysisResult{RunID: "run-2", GeneratedAt: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, storage.SaveAnalysisResult(first, "test-project"))
	require.NoError(t, storage.SaveAnalysisResult(second, "test-project"))

	loaded, err := storage.LoadLatestAnalysis("test-project")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "run-2", loaded.RunID)
}

func TestStorageLoadLatestNone(t *testing.T) {
	storage := newTestStorage(t)

	loaded, err := storage.LoadLatestAnalysis("test-project")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStorageCacheRoundTrip(t *testing.T) {
	storage := newTestStorage(t)

	snapshot := &Snapshot{TotalInStore: 7}
	require.NoError(t, storage.SaveCache("snapshot_test-project", snapshot, time.Hour))

	var loaded Snapshot
	found, err := storage.LoadCache("snapshot_test-project", &loaded)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 7, loaded.TotalInStore)
}

func TestStorageCacheExpiry(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.SaveCache("k", "v", -time.Minute))

	var loaded string
	found, err := storage.LoadCache("k", &loaded)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStorageCacheMiss(t *testing.T) {
	storage := newTestStorage(t)

	var loaded string
	found, err := storage.LoadCache("missing", &loaded)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStorageClearCache(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.SaveCache("a", 1, time.Hour))
	require.NoError(t, storage.SaveCache("b", 2, time.Hour))
	require.NoError(t, storage.ClearCache())

	total, expired, err := storage.CacheStats()
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, expired)
}
