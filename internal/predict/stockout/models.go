package stockout

// InventoryState is the input snapshot for a risk assessment.
type InventoryState struct {
	CurrentStock        float64  `json:"currentStock"`
	AvgDailySales       *float64 `json:"avgDailySales"`
	SalesVariability    float64  `json:"salesVariability"`
	LeadTimeDays        *float64 `json:"leadTimeDays"`
	PendingOrders       float64  `json:"pendingOrders"`
	ReorderPoint        float64  `json:"reorderPoint"`
	IsSeasonalPeak      bool     `json:"isSeasonalPeak"`
	SupplierReliability *float64 `json:"supplierReliability"`
}

// Defaults for optional payload fields.
const (
	defaultAvgDailySales       = 1.0
	defaultLeadTimeDays        = 7.0
	defaultSupplierReliability = 1.0
)

func (s InventoryState) avgDailySales() float64 {
	if s.AvgDailySales != nil {
		return *s.AvgDailySales
	}
	return defaultAvgDailySales
}

func (s InventoryState) leadTimeDays() float64 {
	if s.LeadTimeDays != nil {
		return *s.LeadTimeDays
	}
	return defaultLeadTimeDays
}

func (s InventoryState) supplierReliability() float64 {
	if s.SupplierReliability != nil {
		return *s.SupplierReliability
	}
	return defaultSupplierReliability
}

// RiskLevel is an ordinal stockout risk label.
type RiskLevel string

// Risk levels, ordered low < medium < high < critical.
const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Recommended actions by overall risk.
const (
	ActionUrgentReorder = "urgent_reorder"
	ActionPlanReorder   = "plan_reorder"
	ActionMonitor       = "monitor"
)

// HorizonRisk is the stockout probability and level for one horizon.
type HorizonRisk struct {
	Probability float64   `json:"probability"`
	Level       RiskLevel `json:"level"`
}

// Assessment is the output of a risk assessment call.
type Assessment struct {
	Risk7Days         HorizonRisk `json:"risk_7_days"`
	Risk14Days        HorizonRisk `json:"risk_14_days"`
	Risk30Days        HorizonRisk `json:"risk_30_days"`
	OverallRisk       RiskLevel   `json:"overall_risk"`
	RecommendedAction string      `json:"recommended_action"`
	ReorderQuantity   int         `json:"reorder_quantity"`
	DaysUntilStockout float64     `json:"days_until_stockout"`
	SafetyStockLevel  int         `json:"safety_stock_level"`
}
