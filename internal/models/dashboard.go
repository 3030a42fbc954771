package models

// DashboardCard describes one card in the dashboard layout. Order within
// DashboardSettings.Cards is the display order.
type DashboardCard struct {
	Kind string `json:"kind"`
	Size string `json:"size,omitempty"`
}

// DashboardSettings is a singleton record holding the dashboard layout.
// It is created lazily on first save and updated thereafter; there is
// never more than one row.
type DashboardSettings struct {
	ID        ID              `json:"id"`
	Cards     []DashboardCard `json:"cards"`
	UpdatedAt string          `json:"updated_at,omitempty"`
}
