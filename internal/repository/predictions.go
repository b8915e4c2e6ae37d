// Package repository persists served predictions to Postgres for later
// inspection of what the model told users.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wahdanz1/taxipred/internal/models"
)

type PredictionRepository struct {
	db *sql.DB
}

func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Migrate creates the prediction log table when it does not exist yet.
func (r *PredictionRepository) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS predictions (
			id BIGSERIAL PRIMARY KEY,
			request_id TEXT NOT NULL,
			trip_distance_km DOUBLE PRECISION NOT NULL,
			passenger_count INTEGER NOT NULL,
			pickup_datetime TIMESTAMPTZ NOT NULL,
			weather TEXT NOT NULL,
			traffic_conditions TEXT NOT NULL,
			estimated_price DOUBLE PRECISION NOT NULL,
			model_name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migrate predictions table: %w", err)
	}
	return nil
}

// Insert stores one served prediction and returns its id.
func (r *PredictionRepository) Insert(ctx context.Context, rec *models.PredictionRecord) (int64, error) {
	query := `
		INSERT INTO predictions (
			request_id, trip_distance_km, passenger_count, pickup_datetime,
			weather, traffic_conditions, estimated_price, model_name, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		rec.RequestID,
		rec.TripDistanceKM,
		rec.PassengerCount,
		rec.PickupDatetime,
		rec.Weather,
		rec.TrafficConditions,
		rec.EstimatedPrice,
		rec.ModelName,
		createdAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert prediction: %w", err)
	}
	return id, nil
}

// Recent returns the latest predictions, newest first.
func (r *PredictionRepository) Recent(ctx context.Context, limit int) ([]models.PredictionRecord, error) {
	query := `
		SELECT id, request_id, trip_distance_km, passenger_count, pickup_datetime,
		       weather, traffic_conditions, estimated_price, model_name, created_at
		FROM predictions
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var records []models.PredictionRecord
	for rows.Next() {
		var rec models.PredictionRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.RequestID,
			&rec.TripDistanceKM,
			&rec.PassengerCount,
			&rec.PickupDatetime,
			&rec.Weather,
			&rec.TrafficConditions,
			&rec.EstimatedPrice,
			&rec.ModelName,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
