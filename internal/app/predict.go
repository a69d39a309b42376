package app

import (
	"context"
	"encoding/json"
	"fmt"

	"inventory-predict/internal/predict/anomaly"
	"inventory-predict/internal/predict/demand"
	"inventory-predict/internal/predict/stockout"
	"inventory-predict/internal/storage"
)

// Detect runs anomaly detection over the payload argument and prints the
// report.
func (a *App) Detect(ctx context.Context, args []string) error {
	payload, err := payloadArg(args)
	if err != nil {
		return a.emitError(err)
	}

	var req anomaly.DetectionRequest
	if err := decodePayload(payload, &req); err != nil {
		return a.emitError(err)
	}

	report := a.detector.Detect(req)

	summary := fmt.Sprintf("severity=%s score=%.3f anomalies=%d", report.Severity, report.AnomalyScore, len(report.Anomalies))
	a.recordRun(ctx, storage.KindAnomaly, &req.EntityID, payload, report, summary)

	return a.emitResult(report)
}

// Forecast runs the demand forecaster over the payload argument and prints
// the result. Insufficient history surfaces as an error envelope.
func (a *App) Forecast(ctx context.Context, args []string) error {
	payload, err := payloadArg(args)
	if err != nil {
		return a.emitError(err)
	}

	var req demand.ForecastRequest
	if err := decodePayload(payload, &req); err != nil {
		return a.emitError(err)
	}

	result, err := a.forecaster.Forecast(req)
	if err != nil {
		return a.emitError(err)
	}

	summary := fmt.Sprintf("total=%d trend=%s steps=%d", result.TotalForecast, result.Trend, len(result.Forecast))
	a.recordRun(ctx, storage.KindDemand, nil, payload, result, summary)

	return a.emitResult(result)
}

// AssessRisk runs the stockout scorer over the payload argument and prints
// the assessment.
func (a *App) AssessRisk(ctx context.Context, args []string) error {
	payload, err := payloadArg(args)
	if err != nil {
		return a.emitError(err)
	}

	var state stockout.InventoryState
	if err := decodePayload(payload, &state); err != nil {
		return a.emitError(err)
	}

	assessment := a.scorer.AssessRisk(state)

	summary := fmt.Sprintf("risk=%s action=%s reorder=%d", assessment.OverallRisk, assessment.RecommendedAction, assessment.ReorderQuantity)
	a.recordRun(ctx, storage.KindStockout, nil, payload, assessment, summary)

	return a.emitResult(assessment)
}

// recordRun persists an invocation when a store is configured. Persistence
// problems are logged, never surfaced: the prediction already succeeded.
func (a *App) recordRun(ctx context.Context, kind string, entityID *string, payload string, result interface{}, summary string) {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		a.Logger.Error().Err(err).Str("kind", kind).Msg("failed to open store; run not recorded")
		return
	}
	if store == nil {
		return
	}
	defer closeStore()

	resultJSON, err := json.Marshal(result)
	if err != nil {
		a.Logger.Error().Err(err).Str("kind", kind).Msg("failed to marshal result; run not recorded")
		return
	}

	run := storage.PredictionRun{
		Kind:     kind,
		EntityID: entityID,
		Payload:  json.RawMessage(payload),
		Result:   resultJSON,
		Summary:  summary,
	}
	if _, err := store.InsertRun(ctx, run); err != nil {
		a.Logger.Error().Err(err).Str("kind", kind).Msg("failed to record prediction run")
	}
}
