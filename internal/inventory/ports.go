package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/kdesch5000/observium-mcp/internal/models"
	"github.com/kdesch5000/observium-mcp/internal/toolerr"
)

const portColumns = `
	p.port_id, p.device_id, p.ifIndex, p.ifName, p.ifDescr, p.ifAlias,
	p.ifSpeed, p.ifHighSpeed, p.ifAdminStatus, p.ifOperStatus,
	p.ifInOctets, p.ifOutOctets, p.ifInOctets_rate, p.ifOutOctets_rate,
	p.ifInErrors, p.ifOutErrors, p.ifType, p.ifMtu,
	d.hostname`

// ListPorts returns the ports of one device, optionally filtered by admin
// and operational status.
func (s *Store) ListPorts(ctx context.Context, ref *models.EntityRef, adminStatus, operStatus string) ([]models.Port, error) {
	query := `
		SELECT ` + portColumns + `
		FROM ports p
		JOIN devices d ON p.device_id = d.device_id
		WHERE p.device_id = ? AND p.deleted = 0`
	params := []any{ref.ID}

	for _, f := range []struct {
		column, value string
	}{
		{"p.ifAdminStatus", adminStatus},
		{"p.ifOperStatus", operStatus},
	} {
		if f.value == "" {
			continue
		}
		v := strings.ToLower(f.value)
		if v != "up" && v != "down" {
			return nil, toolerr.WithAlternatives(toolerr.InvalidArgument,
				[]string{"up", "down"}, "invalid status filter: %s", f.value)
		}
		query += ` AND ` + f.column + ` = ?`
		params = append(params, v)
	}

	query += ` ORDER BY p.ifIndex`

	var ports []models.Port
	if err := s.db.SelectContext(ctx, &ports, query, params...); err != nil {
		return nil, fmt.Errorf("list ports for device %d: %w", ref.ID, err)
	}

	for i := range ports {
		decoratePort(&ports[i])
	}
	return ports, nil
}

// GetPort returns one port row by id.
func (s *Store) GetPort(ctx context.Context, portID int) (*models.Port, error) {
	query := `
		SELECT ` + portColumns + `
		FROM ports p
		JOIN devices d ON p.device_id = d.device_id
		WHERE p.port_id = ?`

	var port models.Port
	if err := s.db.GetContext(ctx, &port, query, portID); err != nil {
		if isNoRows(err) {
			return nil, toolerr.New(toolerr.NotFound, "port not found: %d", portID)
		}
		return nil, fmt.Errorf("get port %d: %w", portID, err)
	}

	decoratePort(&port)
	return &port, nil
}

func decoratePort(p *models.Port) {
	switch {
	case p.IfName != nil && *p.IfName != "":
		p.Name = *p.IfName
	case p.IfDescr != nil:
		p.Name = *p.IfDescr
	}

	p.SpeedBits = portSpeedBits(p)
	p.Speed = FormatSpeed(p.SpeedBits)
}

// portSpeedBits prefers ifHighSpeed (Mbps, needed above 4.2 Gbps where the
// 32-bit ifSpeed counter saturates) over ifSpeed (bps).
func portSpeedBits(p *models.Port) *int64 {
	if p.IfHighSpeed != nil && *p.IfHighSpeed > 0 {
		bps := *p.IfHighSpeed * 1_000_000
		return &bps
	}
	if p.IfSpeed != nil && *p.IfSpeed > 0 {
		bps := *p.IfSpeed
		return &bps
	}
	return nil
}
