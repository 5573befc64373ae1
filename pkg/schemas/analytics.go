package schemas

import "time"

const (
	AggregationCount = "count"
	AggregationSum   = "sum"
	AggregationAvg   = "avg"
)

type AnalyticsQuery struct {
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	EventTypes  []string   `json:"event_types"`
	Aggregation string     `json:"aggregation" binding:"omitempty,oneof=count sum avg"`
	GroupBy     string     `json:"group_by"`
}

// GroupResult is one grouped aggregation row. Total/Average appear only when
// the builder attached the matching accumulator.
type GroupResult struct {
	Key     string   `json:"_id"`
	Count   int64    `json:"count"`
	Total   *float64 `json:"total,omitempty"`
	Average *float64 `json:"average,omitempty"`
}

type QueryData struct {
	TotalEvents int64          `json:"total_events"`
	Results     interface{}    `json:"results"`
	QueryParams AnalyticsQuery `json:"query_params"`
}

type QueryResponse struct {
	Success bool      `json:"success"`
	Data    QueryData `json:"data"`
}

type RecentEvent struct {
	ID        string                 `json:"id"`
	EventType string                 `json:"event_type"`
	Timestamp time.Time              `json:"timestamp"`
	EventData map[string]interface{} `json:"event_data"`
}

type DashboardData struct {
	TotalEvents    int64            `json:"total_events"`
	EventBreakdown map[string]int64 `json:"event_breakdown"`
	TimeSeries     map[string]int64 `json:"time_series"`
	RecentEvents   []RecentEvent    `json:"recent_events"`
}

type DashboardResponse struct {
	Success bool          `json:"success"`
	Data    DashboardData `json:"data"`
}

type ExportQuery struct {
	Format    string `form:"format"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type ExportResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Format  string      `json:"format"`
	Count   int         `json:"count"`
}
