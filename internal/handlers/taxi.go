package handlers

import (
	"net/http"

	"github.com/wahdanz1/taxipred/internal/dataset"
)

// TaxiHandler serves the cleaned dataset and its summary statistics.
type TaxiHandler struct {
	table *dataset.Table
}

func NewTaxiHandler(table *dataset.Table) *TaxiHandler {
	return &TaxiHandler{table: table}
}

// GetDataset returns every cleaned record as JSON. The table is small enough
// that the dashboard loads it wholesale.
func (h *TaxiHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.table.Records())
}

// GetStats returns record counts and price/distance summaries.
func (h *TaxiHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.table.Stats())
}
