package storage

import (
	"encoding/json"
	"time"
)

// PredictionRun records one predictor invocation for auditing.
type PredictionRun struct {
	ID        int64
	Kind      string
	EntityID  *string
	Payload   json.RawMessage
	Result    json.RawMessage
	Summary   string
	CreatedAt time.Time
}

// Prediction kinds stored in prediction_runs.
const (
	KindAnomaly  = "anomaly"
	KindDemand   = "demand"
	KindStockout = "stockout"
)
