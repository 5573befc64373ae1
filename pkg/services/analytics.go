package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/campushq/analytics/internal/cache"
	"github.com/campushq/analytics/pkg/mapper"
	"github.com/campushq/analytics/pkg/models"
	"github.com/campushq/analytics/pkg/schemas"
	"github.com/campushq/analytics/pkg/types"
)

const (
	dashboardRecentLimit = 10
	dashboardWindowDays  = 7
	dashboardCacheTTL    = 30 * time.Second
)

type AnalyticsService struct {
	db     *gorm.DB
	cache  cache.Cacher
	logger *zap.SugaredLogger
}

func NewAnalyticsService(db *gorm.DB, cacher cache.Cacher, logger *zap.SugaredLogger) *AnalyticsService {
	return &AnalyticsService{db: db, cache: cacher, logger: logger}
}

func (as *AnalyticsService) Dashboard(ctx context.Context, userID string) (*schemas.DashboardResponse, *types.AppError) {
	data, err := cache.Fetch(as.cache, cache.KeyDashboard(userID), dashboardCacheTTL, func() (schemas.DashboardData, error) {
		return as.buildDashboard(ctx, userID)
	})
	if err != nil {
		return nil, &types.AppError{Error: fmt.Errorf("failed to fetch analytics: %w", err), Code: http.StatusInternalServerError}
	}

	return &schemas.DashboardResponse{Success: true, Data: data}, nil
}

func (as *AnalyticsService) buildDashboard(ctx context.Context, userID string) (schemas.DashboardData, error) {
	data := schemas.DashboardData{
		EventBreakdown: map[string]int64{},
		TimeSeries:     map[string]int64{},
	}
	builder := &analyticsQueryBuilder{db: as.db}

	userQuery := func() *gorm.DB {
		return as.db.WithContext(ctx).Model(&models.Event{}).Where("user_id = ?", userID)
	}

	if err := userQuery().Count(&data.TotalEvents).Error; err != nil {
		return data, err
	}

	var breakdown []groupRow
	err := userQuery().
		Select("event_type AS group_key, COUNT(*) AS count").
		Group("event_type").
		Order("count DESC").
		Scan(&breakdown).Error
	if err != nil {
		return data, err
	}
	for _, row := range breakdown {
		data.EventBreakdown[row.GroupKey] = row.Count
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	weekAgo := today.AddDate(0, 0, -dashboardWindowDays)

	var daily []groupRow
	err = userQuery().
		Select(fmt.Sprintf("%s AS group_key, COUNT(*) AS count", builder.dayExpr())).
		Where("timestamp >= ?", weekAgo).
		Group(builder.dayExpr()).
		Order("group_key ASC").
		Scan(&daily).Error
	if err != nil {
		return data, err
	}
	for _, row := range daily {
		data.TimeSeries[row.GroupKey] = row.Count
	}

	var recent []models.Event
	err = userQuery().
		Order("timestamp DESC").
		Limit(dashboardRecentLimit).
		Find(&recent).Error
	if err != nil {
		return data, err
	}
	data.RecentEvents = make([]schemas.RecentEvent, 0, len(recent))
	for i := range recent {
		data.RecentEvents = append(data.RecentEvents, mapper.ToRecentEvent(&recent[i]))
	}

	return data, nil
}

func (as *AnalyticsService) Query(ctx context.Context, userID string, q *schemas.AnalyticsQuery) (*schemas.QueryResponse, *types.AppError) {
	builder := &analyticsQueryBuilder{db: as.db}
	data, appErr := builder.execute(ctx, userID, q)
	if appErr != nil {
		return nil, appErr
	}
	return &schemas.QueryResponse{Success: true, Data: *data}, nil
}

func (as *AnalyticsService) Export(ctx context.Context, userID string, q *schemas.ExportQuery) (*schemas.ExportResponse, *types.AppError) {
	query := as.db.WithContext(ctx).Model(&models.Event{}).Where("user_id = ?", userID)

	if q.StartDate != "" {
		start, err := parseExportDate(q.StartDate)
		if err != nil {
			return nil, &types.AppError{Error: fmt.Errorf("invalid start_date: %w", err), Code: http.StatusBadRequest}
		}
		query = query.Where("timestamp >= ?", start)
	}
	if q.EndDate != "" {
		end, err := parseExportDate(q.EndDate)
		if err != nil {
			return nil, &types.AppError{Error: fmt.Errorf("invalid end_date: %w", err), Code: http.StatusBadRequest}
		}
		query = query.Where("timestamp <= ?", end)
	}

	var events []models.Event
	if err := query.Order("timestamp DESC").Find(&events).Error; err != nil {
		return nil, &types.AppError{Error: fmt.Errorf("failed to export data: %w", err), Code: http.StatusInternalServerError}
	}

	out := make([]schemas.EventOut, 0, len(events))
	for i := range events {
		out = append(out, *mapper.ToEventOut(&events[i]))
	}

	if q.Format == "csv" {
		body, err := eventsToCSV(out)
		if err != nil {
			return nil, &types.AppError{Error: fmt.Errorf("failed to export data: %w", err), Code: http.StatusInternalServerError}
		}
		return &schemas.ExportResponse{
			Success: true,
			Data:    body,
			Format:  "csv",
			Count:   len(out),
		}, nil
	}

	return &schemas.ExportResponse{
		Success: true,
		Data:    out,
		Format:  "json",
		Count:   len(out),
	}, nil
}

func parseExportDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", value)
}

var exportHeader = []string{
	"id", "event_type", "event_data", "user_id", "timestamp",
	"metadata", "processed", "processed_data", "processing_error", "error_timestamp",
}

// eventsToCSV renders the export rows. An empty result set yields an empty
// string, not a lone header row.
func eventsToCSV(events []schemas.EventOut) (string, error) {
	if len(events) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return "", err
	}
	for _, event := range events {
		record := []string{
			event.ID,
			event.EventType,
			jsonCell(event.EventData),
			event.UserID,
			event.Timestamp.Format(time.RFC3339),
			jsonCell(event.Metadata),
			strconv.FormatBool(event.Processed),
			jsonCell(event.ProcessedData),
			stringCell(event.ProcessingError),
			timeCell(event.ErrorTimestamp),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}

func jsonCell(v interface{}) string {
	switch value := v.(type) {
	case map[string]interface{}:
		if len(value) == 0 {
			return ""
		}
	case *schemas.ProcessedDataOut:
		if value == nil {
			return ""
		}
	case nil:
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func stringCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func timeCell(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format(time.RFC3339)
}
