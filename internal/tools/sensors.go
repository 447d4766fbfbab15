package tools

import (
	"context"

	"github.com/kdesch5000/observium-mcp/internal/models"
)

// ListSensors lists hardware sensors with current values and threshold
// grading. Scope narrows to one device when an identifier is given.
func (s *Service) ListSensors(ctx context.Context, deviceID *int, hostname, sensorClass string) ([]models.Sensor, error) {
	var ref *models.EntityRef
	if deviceID != nil || hostname != "" {
		resolved, err := s.inv.ResolveDevice(ctx, deviceID, hostname)
		if err != nil {
			return nil, err
		}
		ref = resolved
	}
	return s.inv.ListSensors(ctx, ref, sensorClass)
}

// GetSensorClasses returns the distinct sensor classes present in the system.
func (s *Service) GetSensorClasses(ctx context.Context) ([]string, error) {
	return s.inv.SensorClasses(ctx)
}
