package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wahdanz1/taxipred/internal/dataset"
	"github.com/wahdanz1/taxipred/internal/models"
)

func testTable(t *testing.T) *dataset.Table {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clean.csv")
	content := "trip_distance_km,trip_price\n5,23\n10,41\n2,14\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	table, err := dataset.ReadCSV(path)
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}
	return table
}

func TestTaxiHandler_GetDataset(t *testing.T) {
	handler := NewTaxiHandler(testTable(t))

	req := httptest.NewRequest(http.MethodGet, "/taxi", nil)
	rec := httptest.NewRecorder()
	handler.GetDataset(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var records []map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 3)
	assert.Equal(t, 23.0, records[0]["trip_price"])
}

func TestTaxiHandler_GetStats(t *testing.T) {
	handler := NewTaxiHandler(testTable(t))

	req := httptest.NewRequest(http.MethodGet, "/taxi/stats", nil)
	rec := httptest.NewRecorder()
	handler.GetStats(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var stats models.DatasetStats
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.TotalRecords)
	assert.Equal(t, 14.0, stats.PriceStats.Min)
	assert.Equal(t, 41.0, stats.PriceStats.Max)
	assert.Equal(t, 23.0, stats.PriceStats.Median)
	assert.Equal(t, 10.0, stats.DistanceStats.Max)
}
