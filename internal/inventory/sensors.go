package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/kdesch5000/observium-mcp/internal/models"
)

// ListSensors returns sensors with current values, for one device when ref
// is non-nil, otherwise across all non-disabled devices.
func (s *Store) ListSensors(ctx context.Context, ref *models.EntityRef, sensorClass string) ([]models.Sensor, error) {
	query := `
		SELECT
			s.sensor_id, s.device_id, s.sensor_class, s.sensor_type, s.sensor_descr,
			s.sensor_value, s.sensor_unit, s.sensor_limit, s.sensor_limit_low,
			s.sensor_limit_warn, s.sensor_limit_low_warn,
			d.hostname
		FROM sensors s
		JOIN devices d ON s.device_id = d.device_id
		WHERE d.disabled = 0 AND s.sensor_deleted = 0`
	var params []any

	if ref != nil {
		query += ` AND s.device_id = ?`
		params = append(params, ref.ID)
	}
	if sensorClass != "" {
		query += ` AND s.sensor_class = ?`
		params = append(params, strings.ToLower(sensorClass))
	}

	query += ` ORDER BY d.hostname, s.sensor_class, s.sensor_descr`

	var sensors []models.Sensor
	if err := s.db.SelectContext(ctx, &sensors, query, params...); err != nil {
		return nil, fmt.Errorf("list sensors: %w", err)
	}

	for i := range sensors {
		sensors[i].StatusText = sensorStatus(&sensors[i])
		sensors[i].FormattedText = FormatSensorValue(sensors[i].Value, sensors[i].Class, sensors[i].Unit)
	}
	return sensors, nil
}

// SensorClasses returns the distinct sensor classes present in the system.
func (s *Store) SensorClasses(ctx context.Context) ([]string, error) {
	var classes []string
	query := `SELECT DISTINCT sensor_class FROM sensors WHERE sensor_deleted = 0 ORDER BY sensor_class`
	if err := s.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("sensor classes: %w", err)
	}
	return classes, nil
}

// sensorStatus grades the current value against the critical limits first,
// then the warning limits.
func sensorStatus(s *models.Sensor) string {
	if s.Value == nil {
		return "unknown"
	}
	v := *s.Value
	switch {
	case s.Limit != nil && v > *s.Limit:
		return "critical_high"
	case s.LimitLow != nil && v < *s.LimitLow:
		return "critical_low"
	case s.LimitWarn != nil && v > *s.LimitWarn:
		return "warning_high"
	case s.LimitLowWarn != nil && v < *s.LimitLowWarn:
		return "warning_low"
	}
	return "normal"
}
