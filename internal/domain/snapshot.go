package domain

import "time"

// ============================================================
// Page data snapshots
// ============================================================

// PageID identifies one routed page of the UI.
type PageID string

const (
	PageDashboard    PageID = "dashboard"
	PageTransactions PageID = "transactions"
	PageBudgets      PageID = "budgets"
	PageAnomalies    PageID = "anomalies"
	PageProfile      PageID = "profile"
)

// PageState is the fetch-cycle state machine of a page.
//
//	idle → loading → ready
//	idle → loading → settled   (a fetch failed; previous data stands)
//
// A terminal state is not revisited until the next selection change or
// remount. There is no polling and no background refresh.
type PageState string

const (
	PageIdle    PageState = "idle"
	PageLoading PageState = "loading"
	PageReady   PageState = "ready"
	PageSettled PageState = "settled"
)

// DashboardData is the dashboard page's snapshot: three upstream results
// committed as one unit.
type DashboardData struct {
	Summary    *MonthlySummary    `json:"summary"`
	ByCategory []CategoryTotal    `json:"by_category"`
	Budgets    []BudgetCompareRow `json:"budget_compare"`
}

// TransactionsData is the transactions page's snapshot.
type TransactionsData struct {
	Rows []TransactionRow `json:"rows"`
}

// BudgetsData is the budgets page's snapshot.
type BudgetsData struct {
	Rows []Budget `json:"rows"`
}

// AnomaliesData is the anomalies page's snapshot: three upstream results
// committed as one unit.
type AnomaliesData struct {
	Plot         *DailyPlotBands       `json:"plot"`
	Daily        *DailyAnomalySeries   `json:"daily"`
	Transactions *TransactionAnomalies `json:"transactions"`
}

// ProfileData is the profile page's snapshot.
type ProfileData struct {
	Segment *Segment `json:"segment"`
}

// Snapshot is the committed result set a page displays after a completed
// fetch cycle, together with its lifecycle state. Data is nil until the
// first successful cycle; after that, failures leave it stale-but-visible.
type Snapshot struct {
	Page       PageID    `json:"page"`
	State      PageState `json:"state"`
	Generation uint64    `json:"generation"`
	Data       any       `json:"data"`
	Error      string    `json:"error,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}
