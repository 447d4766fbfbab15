// Package inventory is the read-only view over the Observium database.
// Every method issues filtered SELECT queries and returns request-scoped
// values; nothing is cached between calls because the inventory may change
// between requests.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/kdesch5000/observium-mcp/internal/models"
	"github.com/kdesch5000/observium-mcp/internal/toolerr"
)

type Store struct {
	db  *sqlx.DB
	log *slog.Logger
}

func NewStore(db *sqlx.DB, log *slog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With("component", "inventory"),
	}
}

const deviceColumns = `device_id, hostname, sysName, os, version, hardware, status, uptime, last_polled, location`

// ListDevices returns all non-disabled devices, optionally filtered by
// status token (up/down/disabled) and OS substring.
func (s *Store) ListDevices(ctx context.Context, statusFilter, osFilter string) ([]models.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE disabled = 0`
	var params []any

	if statusFilter != "" {
		code, ok := statusCode(statusFilter)
		if !ok {
			return nil, toolerr.WithAlternatives(toolerr.InvalidArgument,
				[]string{"up", "down", "disabled"},
				"unknown status filter: %s", statusFilter)
		}
		query += ` AND status = ?`
		params = append(params, code)
	}

	if osFilter != "" {
		query += ` AND os LIKE ?`
		params = append(params, "%"+osFilter+"%")
	}

	query += ` ORDER BY hostname`

	var devices []models.Device
	if err := s.db.SelectContext(ctx, &devices, query, params...); err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	for i := range devices {
		devices[i].StatusText = statusText(devices[i].Status)
		devices[i].UptimeText = FormatUptime(devices[i].Uptime)
	}
	return devices, nil
}

// GetDevice returns full detail for one resolved device, including port,
// sensor and active-alert counts.
func (s *Store) GetDevice(ctx context.Context, ref *models.EntityRef) (*models.DeviceDetail, error) {
	query := `
		SELECT ` + deviceColumns + `,
			sysDescr, sysContact, vendor, serial, features, status_type,
			last_discovered, last_polled_timetaken, purpose, type, ip, snmp_version
		FROM devices
		WHERE device_id = ?`

	var detail models.DeviceDetail
	if err := s.db.GetContext(ctx, &detail, query, ref.ID); err != nil {
		if isNoRows(err) {
			return nil, toolerr.New(toolerr.NotFound, "device not found: %d", ref.ID)
		}
		return nil, fmt.Errorf("get device %d: %w", ref.ID, err)
	}

	detail.StatusText = statusText(detail.Status)
	detail.UptimeText = FormatUptime(detail.Uptime)

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM ports WHERE device_id = ? AND deleted = 0`, &detail.PortCount},
		{`SELECT COUNT(*) FROM sensors WHERE device_id = ? AND sensor_deleted = 0`, &detail.SensorCount},
		{`SELECT COUNT(*) FROM alert_table WHERE device_id = ? AND alert_status = 1`, &detail.AlertCount},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dest, c.query, ref.ID); err != nil {
			return nil, fmt.Errorf("count for device %d: %w", ref.ID, err)
		}
	}

	return &detail, nil
}

func statusCode(token string) (int, bool) {
	switch strings.ToLower(token) {
	case "down":
		return 0, true
	case "up":
		return 1, true
	case "disabled":
		return 2, true
	}
	return 0, false
}

func statusText(code int) string {
	switch code {
	case 0:
		return "down"
	case 1:
		return "up"
	case 2:
		return "disabled"
	}
	return fmt.Sprintf("unknown (%d)", code)
}
