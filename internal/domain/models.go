// Package domain defines the core entities for the expense tracker UI
// gateway. Every type here is a client-side projection of an upstream
// analytics API response; the gateway owns no source of truth.
package domain

// ============================================================
// Selection & Theme
// ============================================================

// Selection is the (user, month) pair scoping all currently displayed data.
// It is the only state shared across pages.
type Selection struct {
	UserID int    `json:"user_id"`
	Month  string `json:"month"` // YYYY-MM
}

// Theme is the display mode preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle flips light ⇄ dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ============================================================
// Analytics (dashboard)
// ============================================================

// MonthlySummary is returned by GET /analytics/summary.
type MonthlySummary struct {
	UserID       int     `json:"user_id"`
	Month        string  `json:"month"`
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	NetSavings   float64 `json:"net_savings"`
}

// CategoryTotal is one row of GET /analytics/by_category.
type CategoryTotal struct {
	Category     string  `json:"category"`
	TotalExpense float64 `json:"total_expense"`
}

// BudgetCompareRow is one row of GET /analytics/budget_compare.
type BudgetCompareRow struct {
	Category   string  `json:"category"`
	Month      string  `json:"month"`
	Budget     float64 `json:"budget"`
	Actual     float64 `json:"actual"`
	Difference float64 `json:"difference"`
}

// ============================================================
// Transactions
// ============================================================

// Direction classifies a transaction row for display. It is derived
// purely from the sign of the amount, never from a separate upstream field.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// Transaction is one row of GET /transactions.
type Transaction struct {
	ID           int     `json:"id"`
	UserID       int     `json:"user_id"`
	CategoryName string  `json:"category_name"`
	Amount       float64 `json:"amount"`
	Date         string  `json:"transaction_date"` // YYYY-MM-DD
	Description  string  `json:"description"`
}

// Direction returns income for strictly positive amounts and expense
// otherwise. Zero counts as expense.
func (t Transaction) Direction() Direction {
	if t.Amount > 0 {
		return DirectionIncome
	}
	return DirectionExpense
}

// TransactionCreate is the body of POST /transactions.
type TransactionCreate struct {
	UserID       int     `json:"user_id"`
	CategoryName string  `json:"category_name"`
	Amount       float64 `json:"amount"`
	Date         string  `json:"transaction_date"`
	Description  string  `json:"description"`
}

// TransactionRow is a transaction decorated with its display direction,
// ready for the table layer.
type TransactionRow struct {
	Transaction
	Direction Direction `json:"direction"`
}

// ============================================================
// Budgets
// ============================================================

// Budget is one row of GET /budgets.
type Budget struct {
	ID           int     `json:"id"`
	UserID       int     `json:"user_id"`
	CategoryName string  `json:"category_name"`
	Month        string  `json:"month"`
	Amount       float64 `json:"amount"`
}

// BudgetCreate is the body of POST /budgets (upsert semantics upstream).
type BudgetCreate struct {
	UserID       int     `json:"user_id"`
	CategoryName string  `json:"category_name"`
	Month        string  `json:"month"`
	Amount       float64 `json:"amount"`
}

// ============================================================
// Anomalies
// ============================================================

// AnomalyRequest parameterizes the anomaly-detection endpoints. The
// z-threshold is passed through unchanged; detection happens upstream.
type AnomalyRequest struct {
	UserID     int     `json:"user_id"`
	Month      string  `json:"month"`
	ZThreshold float64 `json:"z_threshold"`
}

// DailyPoint is one day of the daily anomaly series.
type DailyPoint struct {
	Date        string  `json:"date"`
	TotalAmount float64 `json:"total_amount"`
	ZScore      float64 `json:"z_score"`
	IsAnomaly   bool    `json:"is_anomaly"`
}

// DailyAnomalySeries is returned by POST /anomalies/daily.
type DailyAnomalySeries struct {
	UserID     int          `json:"user_id"`
	Month      string       `json:"month"`
	Mean       float64      `json:"mean"`
	Std        float64      `json:"std"`
	ZThreshold float64      `json:"z_threshold"`
	Points     []DailyPoint `json:"points"`
}

// PlotPoint is one day of the plot-band series.
type PlotPoint struct {
	Date        string  `json:"date"`
	TotalAmount float64 `json:"total_amount"`
}

// DailyPlotBands is returned by POST /anomalies/daily/plot.
type DailyPlotBands struct {
	Mean      float64     `json:"mean"`
	Std       float64     `json:"std"`
	UpperBand float64     `json:"upper_band"`
	LowerBand float64     `json:"lower_band"`
	Points    []PlotPoint `json:"points"`
}

// TransactionAnomalyPoint is one scored transaction.
type TransactionAnomalyPoint struct {
	ID           int     `json:"id"`
	Date         string  `json:"date"`
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	CategoryName string  `json:"category_name"`
	ZScore       float64 `json:"z_score"`
	IsAnomaly    bool    `json:"is_anomaly"`
}

// TransactionAnomalies is returned by POST /anomalies/transactions.
type TransactionAnomalies struct {
	Mean       float64                   `json:"mean"`
	Std        float64                   `json:"std"`
	ZThreshold float64                   `json:"z_threshold"`
	Points     []TransactionAnomalyPoint `json:"points"`
}

// ============================================================
// Clustering / spending segment
// ============================================================

// Segment is the spending-behavior classification returned by
// POST /cluster/segments. Consumed here, never computed.
type Segment struct {
	UserID     int                `json:"user_id"`
	Month      string             `json:"month"`
	ClusterID  int                `json:"cluster_id"`
	Label      string             `json:"label"`
	Centroid   []float64          `json:"centroid"`
	Categories []string           `json:"categories"`
	Totals     map[string]float64 `json:"totals"`
	Ratios     map[string]float64 `json:"ratios"`
}

// ============================================================
// Users
// ============================================================

// User is the subset of GET /users/{id} the top bar consumes.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
