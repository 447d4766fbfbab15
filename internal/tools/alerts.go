package tools

import (
	"context"

	"github.com/kdesch5000/observium-mcp/internal/inventory"
	"github.com/kdesch5000/observium-mcp/internal/models"
)

// ListAlerts lists alert checks, optionally scoped to one device and
// filtered by status (active, recovered, all).
func (s *Service) ListAlerts(ctx context.Context, deviceID *int, hostname, status string, limit int) ([]models.Alert, error) {
	var ref *models.EntityRef
	if deviceID != nil || hostname != "" {
		resolved, err := s.inv.ResolveDevice(ctx, deviceID, hostname)
		if err != nil {
			return nil, err
		}
		ref = resolved
	}
	return s.inv.ListAlerts(ctx, ref, status, limit)
}

// GetAlertSummary aggregates alert state across the whole system.
func (s *Service) GetAlertSummary(ctx context.Context) (*inventory.AlertSummary, error) {
	return s.inv.AlertSummary(ctx)
}
