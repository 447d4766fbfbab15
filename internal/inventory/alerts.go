package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/kdesch5000/observium-mcp/internal/models"
	"github.com/kdesch5000/observium-mcp/internal/toolerr"
)

// ListAlerts returns alert checks, newest change first, for one device when
// ref is non-nil. status filters to active (failed) or recovered checks.
func (s *Store) ListAlerts(ctx context.Context, ref *models.EntityRef, status string, limit int) ([]models.Alert, error) {
	query := `
		SELECT
			a.alert_table_id, a.device_id, a.entity_type, a.entity_id, a.alert_status,
			a.last_changed, a.last_ok, a.last_failed,
			d.hostname,
			t.alert_name, t.alert_message
		FROM alert_table a
		JOIN devices d ON a.device_id = d.device_id
		LEFT JOIN alert_tests t ON a.alert_test_id = t.alert_test_id
		WHERE d.disabled = 0`
	var params []any

	if ref != nil {
		query += ` AND a.device_id = ?`
		params = append(params, ref.ID)
	}

	switch strings.ToLower(status) {
	case "", "all":
	case "active":
		query += ` AND a.alert_status = 1`
	case "recovered":
		query += ` AND a.alert_status = 0`
	default:
		return nil, toolerr.WithAlternatives(toolerr.InvalidArgument,
			[]string{"active", "recovered", "all"}, "unknown alert status filter: %s", status)
	}

	if limit <= 0 {
		limit = 50
	}
	query += ` ORDER BY a.last_changed DESC LIMIT ?`
	params = append(params, limit)

	var alerts []models.Alert
	if err := s.db.SelectContext(ctx, &alerts, query, params...); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}

	for i := range alerts {
		if alerts[i].Status == 1 {
			alerts[i].StatusText = "active"
		} else {
			alerts[i].StatusText = "recovered"
		}
	}
	return alerts, nil
}

// AlertSummary aggregates alert state: totals by status, active alerts by
// entity type, and the ten devices with the most active alerts.
type AlertSummary struct {
	TotalActive    int            `json:"total_active"`
	TotalRecovered int            `json:"total_recovered"`
	ByEntityType   map[string]int `json:"by_entity_type"`
	ByDevice       map[string]int `json:"by_device"`
}

func (s *Store) AlertSummary(ctx context.Context) (*AlertSummary, error) {
	summary := &AlertSummary{
		ByEntityType: make(map[string]int),
		ByDevice:     make(map[string]int),
	}

	statusQuery := `
		SELECT a.alert_status, COUNT(*) AS count
		FROM alert_table a
		JOIN devices d ON a.device_id = d.device_id
		WHERE d.disabled = 0
		GROUP BY a.alert_status`
	rows, err := s.db.QueryxContext(ctx, statusQuery)
	if err != nil {
		return nil, fmt.Errorf("alert status counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status, count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("alert status counts: %w", err)
		}
		if status == 1 {
			summary.TotalActive = count
		} else {
			summary.TotalRecovered += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("alert status counts: %w", err)
	}

	entityQuery := `
		SELECT a.entity_type, COUNT(*) AS count
		FROM alert_table a
		JOIN devices d ON a.device_id = d.device_id
		WHERE d.disabled = 0 AND a.alert_status = 1
		GROUP BY a.entity_type
		ORDER BY count DESC`
	if err := s.groupCounts(ctx, entityQuery, summary.ByEntityType); err != nil {
		return nil, err
	}

	deviceQuery := `
		SELECT d.hostname, COUNT(*) AS count
		FROM alert_table a
		JOIN devices d ON a.device_id = d.device_id
		WHERE d.disabled = 0 AND a.alert_status = 1
		GROUP BY a.device_id, d.hostname
		ORDER BY count DESC
		LIMIT 10`
	if err := s.groupCounts(ctx, deviceQuery, summary.ByDevice); err != nil {
		return nil, err
	}

	return summary, nil
}

func (s *Store) groupCounts(ctx context.Context, query string, dest map[string]int) error {
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return fmt.Errorf("alert group counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("alert group counts: %w", err)
		}
		dest[key] = count
	}
	return rows.Err()
}
