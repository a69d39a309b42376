package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"inventory-predict/internal/capability"
	"inventory-predict/internal/config"
	"inventory-predict/internal/predict/anomaly"
	"inventory-predict/internal/predict/demand"
	"inventory-predict/internal/predict/stockout"
	"inventory-predict/internal/storage"
)

// ErrReported marks an error whose JSON envelope has already been written to
// stdout; the CLI should exit non-zero without printing it again.
var ErrReported = errors.New("error already reported")

// errNoInput is surfaced when a predictor command receives no payload.
var errNoInput = errors.New("No input provided")

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	detector   *anomaly.Detector
	forecaster *demand.Forecaster
	scorer     *stockout.Scorer

	stdout *json.Encoder
}

// NewApp constructs a new application handle. Backend availability is
// resolved once here; every predictor call routes through the same gate.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	backend := capability.Detect(cfg.Model.Enabled)
	if !backend.Available() {
		logger.Debug().Msg("ensemble backend unavailable; statistical fallbacks active")
	}
	if cfg.Database.DSN == "" {
		logger.Debug().Msg("database not configured; prediction runs will not be recorded")
	}

	return &App{
		Config:     cfg,
		Logger:     logger.With().Str("component", "app").Logger(),
		detector:   anomaly.NewDetector(backend, logger),
		forecaster: demand.NewForecaster(backend, logger),
		scorer:     stockout.NewScorer(backend, logger),
		stdout:     json.NewEncoder(os.Stdout),
	}
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// payloadArg extracts the single JSON payload argument. Only a missing
// argument counts as no input; an empty string is left to fail JSON parsing.
func payloadArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", errNoInput
	}
	return args[0], nil
}

// decodePayload parses a JSON payload into the request type, mapping parse
// failures onto the documented envelope message.
func decodePayload(payload string, into interface{}) error {
	if err := json.Unmarshal([]byte(payload), into); err != nil {
		return fmt.Errorf("Invalid JSON: %s", err)
	}
	return nil
}

// emitResult writes the success payload as the sole stdout output.
func (a *App) emitResult(result interface{}) error {
	if err := a.stdout.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// emitError writes the error envelope to stdout and returns ErrReported so
// the process exits non-zero without a duplicate message.
func (a *App) emitError(err error) error {
	envelope := map[string]string{"error": err.Error()}
	if encErr := a.stdout.Encode(envelope); encErr != nil {
		return fmt.Errorf("encode error envelope: %w", encErr)
	}
	return ErrReported
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}

// ExportOptions hold parameters for exporting a forecast.
type ExportOptions struct {
	InputPath string
	CSVPath   string
	PNGPath   string
}
