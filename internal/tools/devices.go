package tools

import (
	"context"

	"github.com/kdesch5000/observium-mcp/internal/models"
)

// ListDevices lists monitored devices, optionally filtered by status token
// and OS substring.
func (s *Service) ListDevices(ctx context.Context, status, osFilter string) ([]models.Device, error) {
	return s.inv.ListDevices(ctx, status, osFilter)
}

// GetDevice returns full detail for one device identified by id or hostname.
func (s *Service) GetDevice(ctx context.Context, deviceID *int, hostname string) (*models.DeviceDetail, error) {
	ref, err := s.inv.ResolveDevice(ctx, deviceID, hostname)
	if err != nil {
		return nil, err
	}
	return s.inv.GetDevice(ctx, ref)
}
