package tools

import (
	"context"

	"github.com/kdesch5000/observium-mcp/internal/models"
	"github.com/kdesch5000/observium-mcp/internal/toolerr"
	"github.com/kdesch5000/observium-mcp/internal/trend"
)

// ListPorts lists the network ports of one device with status and counter
// snapshots from the inventory.
func (s *Service) ListPorts(ctx context.Context, deviceID *int, hostname, adminStatus, operStatus string) ([]models.Port, error) {
	ref, err := s.inv.ResolveDevice(ctx, deviceID, hostname)
	if err != nil {
		return nil, err
	}
	return s.inv.ListPorts(ctx, ref, adminStatus, operStatus)
}

type CurrentTraffic struct {
	InRateBps      int64  `json:"in_rate_bps"`
	OutRateBps     int64  `json:"out_rate_bps"`
	TotalInOctets  *int64 `json:"total_in_octets,omitempty"`
	TotalOutOctets *int64 `json:"total_out_octets,omitempty"`
}

type PortHistory struct {
	Period      string                        `json:"period"`
	ArchiveFile string                        `json:"rrd_file"`
	AccessMode  models.AccessMode             `json:"access_mode"`
	Datasources []string                      `json:"datasources"`
	DataPoints  int                           `json:"data_points"`
	Statistics  map[string]models.SeriesStats `json:"statistics"`
	Data        []models.Sample               `json:"data"`
}

type PortTrafficResult struct {
	Port       models.Port    `json:"port"`
	Current    CurrentTraffic `json:"current"`
	Historical *PortHistory   `json:"historical,omitempty"`
}

// GetPortTraffic returns traffic statistics for one port: the inventory's
// current rates plus, when the port's archive is readable, a historical
// window. A missing archive degrades to current-only; a failing remote
// channel does not, because that failure needs operator attention.
func (s *Service) GetPortTraffic(ctx context.Context, portID, deviceID *int, deviceHostname, portName, period string) (*PortTrafficResult, error) {
	ref, err := s.inv.ResolvePort(ctx, portID, deviceID, deviceHostname, portName)
	if err != nil {
		return nil, err
	}

	spec, err := trend.Map(period)
	if err != nil {
		return nil, err
	}

	port, err := s.inv.GetPort(ctx, ref.ID)
	if err != nil {
		return nil, err
	}

	result := &PortTrafficResult{
		Port:    *port,
		Current: currentTraffic(port),
	}

	desc, err := s.rrd.LocatePort(ctx, ref)
	if err != nil {
		if toolerr.IsKind(err, toolerr.ArchiveUnavailable) {
			s.log.Debug("port archive missing, returning current rates only",
				"port_id", ref.ID, "hostname", ref.Hostname)
			return result, nil
		}
		return nil, err
	}

	raw, err := s.rrd.Fetch(ctx, desc, spec)
	if err != nil {
		return nil, err
	}

	display, stats := trend.Aggregate(raw, spec)
	result.Historical = &PortHistory{
		Period:      spec.Token,
		ArchiveFile: desc.Filename,
		AccessMode:  desc.AccessMode,
		Datasources: raw.Datasources,
		DataPoints:  len(raw.Samples),
		Statistics:  stats,
		Data:        display,
	}
	return result, nil
}

// currentTraffic converts the inventory's octets-per-second rate columns to
// bits per second.
func currentTraffic(port *models.Port) CurrentTraffic {
	current := CurrentTraffic{
		TotalInOctets:  port.InOctets,
		TotalOutOctets: port.OutOctets,
	}
	if port.InOctetsRate != nil {
		current.InRateBps = *port.InOctetsRate * 8
	}
	if port.OutOctetsRate != nil {
		current.OutRateBps = *port.OutOctetsRate * 8
	}
	return current
}
