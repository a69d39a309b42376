// Package stockout classifies stockout risk over fixed horizons and sizes
// replenishment. The assessment is a closed-form rule computation; the
// trainable classifier remains a placeholder until a backend grows a
// training corpus.
package stockout

import (
	"math"

	"github.com/rs/zerolog"

	"inventory-predict/internal/capability"
	"inventory-predict/internal/stats"
)

const (
	// serviceZ is the 95% service level normal quantile used for safety
	// stock and worst-case demand.
	serviceZ = 1.65
	// seasonalDemandMultiplier inflates expected demand during peaks.
	seasonalDemandMultiplier = 1.3
	// minDailySales floors the sales rate in day-of-stock divisions.
	minDailySales = 0.1
)

// horizons are the assessment windows in days.
var horizons = []int{7, 14, 30}

// Risk component weights.
const (
	stockRiskWeight    = 0.5
	leadTimeRiskWeight = 0.3
	supplierRiskWeight = 0.2
)

// Scorer assesses stockout risk from inventory snapshots.
type Scorer struct {
	backend capability.Backend
	logger  zerolog.Logger
}

// NewScorer constructs a scorer. The backend is only consulted by Train;
// assessments are always rule-based.
func NewScorer(backend capability.Backend, logger zerolog.Logger) *Scorer {
	return &Scorer{
		backend: backend,
		logger:  logger.With().Str("component", "stockout").Logger(),
	}
}

// AssessRisk computes per-horizon probabilities, the overall level, and the
// recommended replenishment for one inventory snapshot.
func (s *Scorer) AssessRisk(state InventoryState) Assessment {
	avgSales := state.avgDailySales()
	leadTime := state.leadTimeDays()

	risks := make([]HorizonRisk, len(horizons))
	maxProbability := 0.0
	for i, horizon := range horizons {
		risks[i] = horizonRisk(state, horizon)
		if risks[i].Probability > maxProbability {
			maxProbability = risks[i].Probability
		}
	}

	overall := levelFor(maxProbability)
	safetyStock := serviceZ * state.SalesVariability * avgSales * math.Sqrt(leadTime)

	action, reorderQty := recommend(overall, state.CurrentStock, avgSales, leadTime, safetyStock)

	return Assessment{
		Risk7Days:         risks[0],
		Risk14Days:        risks[1],
		Risk30Days:        risks[2],
		OverallRisk:       overall,
		RecommendedAction: action,
		ReorderQuantity:   reorderQty,
		DaysUntilStockout: stats.RoundTo(state.CurrentStock/math.Max(avgSales, minDailySales), 1),
		SafetyStockLevel:  int(safetyStock),
	}
}

// horizonRisk combines stock coverage, lead-time exposure, and supplier
// reliability into one probability for a horizon.
func horizonRisk(state InventoryState, horizon int) HorizonRisk {
	avgSales := state.avgDailySales()
	leadTime := state.leadTimeDays()

	effectiveStock := state.CurrentStock + state.PendingOrders
	daysOfStock := effectiveStock / math.Max(avgSales, minDailySales)

	demandMultiplier := 1.0
	if state.IsSeasonalPeak {
		demandMultiplier = seasonalDemandMultiplier
	}
	expectedDemand := avgSales * float64(horizon) * demandMultiplier
	demandStd := state.SalesVariability * avgSales * math.Sqrt(float64(horizon))
	worstCaseDemand := expectedDemand + serviceZ*demandStd

	stockRisk := 0.0
	if worstCaseDemand > 0 {
		stockRisk = math.Max(0, 1-effectiveStock/worstCaseDemand)
	}
	leadTimeRisk := 0.0
	if leadTime > 0 {
		leadTimeRisk = math.Max(0, 1-daysOfStock/leadTime)
	}
	supplierRisk := 1 - state.supplierReliability()

	probability := math.Min(1, stockRiskWeight*stockRisk+leadTimeRiskWeight*leadTimeRisk+supplierRiskWeight*supplierRisk)
	probability = stats.RoundTo(probability, 3)

	return HorizonRisk{Probability: probability, Level: levelFor(probability)}
}

// levelFor maps a probability onto its risk level.
func levelFor(probability float64) RiskLevel {
	switch {
	case probability >= 0.8:
		return RiskCritical
	case probability >= 0.6:
		return RiskHigh
	case probability >= 0.3:
		return RiskMedium
	default:
		return RiskLow
	}
}

// recommend derives the action and reorder quantity from the overall level.
func recommend(overall RiskLevel, currentStock, avgSales, leadTime, safetyStock float64) (string, int) {
	switch overall {
	case RiskCritical, RiskHigh:
		qty := stats.RoundInt(avgSales*leadTime*2 + safetyStock - currentStock)
		if qty < 0 {
			qty = 0
		}
		return ActionUrgentReorder, qty
	case RiskMedium:
		qty := stats.RoundInt(avgSales*leadTime*1.5 + safetyStock - currentStock)
		if qty < 0 {
			qty = 0
		}
		return ActionPlanReorder, qty
	default:
		return ActionMonitor, 0
	}
}

// TrainingSample pairs an inventory snapshot with an observed stockout
// outcome.
type TrainingSample struct {
	State      InventoryState
	StockedOut bool
}

// Train is a placeholder for fitting a classifier on historical stockout
// outcomes. The rule-based assessment is the authoritative behavior; this
// is a no-op even when a backend is available.
func (s *Scorer) Train(samples []TrainingSample) error {
	if !s.backend.Available() || len(samples) == 0 {
		return nil
	}
	s.logger.Debug().Int("samples", len(samples)).Msg("classifier training not implemented; assessments stay rule-based")
	return nil
}
