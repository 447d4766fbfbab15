// Package mcpserver exposes the tool operations over the Model Context
// Protocol. Each registered tool decodes its argument struct, delegates to
// the tools service and returns the result as compact JSON text content.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	mcp "github.com/metoro-io/mcp-golang"

	"github.com/kdesch5000/observium-mcp/internal/toolerr"
	"github.com/kdesch5000/observium-mcp/internal/tools"
)

type Server struct {
	svc *tools.Service
	log *slog.Logger
}

func New(svc *tools.Service, log *slog.Logger) *Server {
	return &Server{
		svc: svc,
		log: log.With("component", "mcp"),
	}
}

type GetTrendsArgs struct {
	Hostname string `json:"hostname,omitempty" jsonschema:"description=Device hostname or sysName"`
	DeviceID *int   `json:"device_id,omitempty" jsonschema:"description=Numeric device id; takes precedence over hostname"`
	Metric   string `json:"metric,omitempty" jsonschema:"description=Metric token: load cpu memory uptime (default load)"`
	Period   string `json:"period,omitempty" jsonschema:"description=Time window token: 1h 6h 1d 1w 1m (default 1d)"`
}

type ListAvailableMetricsArgs struct {
	Hostname string `json:"hostname,omitempty" jsonschema:"description=Device hostname or sysName"`
	DeviceID *int   `json:"device_id,omitempty" jsonschema:"description=Numeric device id; takes precedence over hostname"`
}

type GetPortTrafficArgs struct {
	PortID         *int   `json:"port_id,omitempty" jsonschema:"description=Numeric port id; takes precedence over name lookup"`
	DeviceID       *int   `json:"device_id,omitempty" jsonschema:"description=Numeric device id of the port's device"`
	DeviceHostname string `json:"device_hostname,omitempty" jsonschema:"description=Hostname of the port's device"`
	PortName       string `json:"port_name,omitempty" jsonschema:"description=Interface name, description or alias (case-insensitive)"`
	Period         string `json:"period,omitempty" jsonschema:"description=Time window token: 1h 6h 1d 1w 1m (default 1d)"`
}

type ListDevicesArgs struct {
	Status string `json:"status,omitempty" jsonschema:"description=Filter by status: up down disabled"`
	OS     string `json:"os,omitempty" jsonschema:"description=Filter by OS substring"`
}

type GetDeviceArgs struct {
	Hostname string `json:"hostname,omitempty" jsonschema:"description=Device hostname or sysName"`
	DeviceID *int   `json:"device_id,omitempty" jsonschema:"description=Numeric device id; takes precedence over hostname"`
}

type ListPortsArgs struct {
	Hostname    string `json:"hostname,omitempty" jsonschema:"description=Device hostname or sysName"`
	DeviceID    *int   `json:"device_id,omitempty" jsonschema:"description=Numeric device id; takes precedence over hostname"`
	AdminStatus string `json:"admin_status,omitempty" jsonschema:"description=Filter by administrative status: up down"`
	OperStatus  string `json:"oper_status,omitempty" jsonschema:"description=Filter by operational status: up down"`
}

type ListSensorsArgs struct {
	Hostname    string `json:"hostname,omitempty" jsonschema:"description=Scope to one device by hostname or sysName"`
	DeviceID    *int   `json:"device_id,omitempty" jsonschema:"description=Scope to one device by numeric id"`
	SensorClass string `json:"sensor_class,omitempty" jsonschema:"description=Filter by class, e.g. temperature voltage fanspeed"`
}

type GetSensorClassesArgs struct{}

type ListAlertsArgs struct {
	Hostname string `json:"hostname,omitempty" jsonschema:"description=Scope to one device by hostname or sysName"`
	DeviceID *int   `json:"device_id,omitempty" jsonschema:"description=Scope to one device by numeric id"`
	Status   string `json:"status,omitempty" jsonschema:"description=Filter: active recovered all (default all)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"description=Maximum entries to return (default 50)"`
}

type GetAlertSummaryArgs struct{}

// RegisterTools registers every tool with the MCP server.
func (s *Server) RegisterTools(server *mcp.Server) error {
	registrations := []struct {
		name        string
		description string
		handler     any
	}{
		{"get_trends",
			"Get historical trend data for a device metric (load, cpu, memory, uptime) over a time period (1h, 6h, 1d, 1w, 1m). Returns a bounded data series plus min/max/avg/current statistics per datasource.",
			s.getTrends},
		{"list_available_metrics",
			"List every metric archive available for a device, grouped into categories (system, network, sensors, performance, other). Use this to discover what get_trends can fetch.",
			s.listAvailableMetrics},
		{"get_port_traffic",
			"Get traffic statistics for a network port: current in/out rates from the inventory plus a historical window from the port's archive when it is readable. Identify the port by port_id, or by device plus port name.",
			s.getPortTraffic},
		{"list_devices",
			"List monitored devices with status and uptime. Optionally filter by status (up, down, disabled) or OS substring.",
			s.listDevices},
		{"get_device",
			"Get full detail for one device including hardware, location, SNMP info and port/sensor/alert counts. Identify the device by device_id or hostname.",
			s.getDevice},
		{"list_ports",
			"List the network ports of one device with speeds, status and traffic counters. Optionally filter by administrative or operational status.",
			s.listPorts},
		{"list_sensors",
			"List hardware sensors with current values graded against warning and critical thresholds. Optionally scope to one device or filter by sensor class.",
			s.listSensors},
		{"get_sensor_classes",
			"List the distinct sensor classes present in the system, for use as list_sensors filters.",
			s.getSensorClasses},
		{"list_alerts",
			"List alert checks, newest change first. Optionally scope to one device and filter by status (active, recovered, all).",
			s.listAlerts},
		{"get_alert_summary",
			"Summarize alert state across the whole system: totals by status, active alerts by entity type, and the devices with the most active alerts.",
			s.getAlertSummary},
	}

	for _, r := range registrations {
		if err := server.RegisterTool(r.name, r.description, r.handler); err != nil {
			return fmt.Errorf("register %s tool: %w", r.name, err)
		}
	}
	return nil
}

func (s *Server) getTrends(args GetTrendsArgs) (*mcp.ToolResponse, error) {
	result, err := s.svc.GetTrends(context.Background(), args.DeviceID, args.Hostname, args.Metric, args.Period)
	return s.respond("get_trends", result, err)
}

func (s *Server) listAvailableMetrics(args ListAvailableMetricsArgs) (*mcp.ToolResponse, error) {
	result, err := s.svc.ListAvailableMetrics(context.Background(), args.DeviceID, args.Hostname)
	return s.respond("list_available_metrics", result, err)
}

func (s *Server) getPortTraffic(args GetPortTrafficArgs) (*mcp.ToolResponse, error) {
	result, err := s.svc.GetPortTraffic(context.Background(),
		args.PortID, args.DeviceID, args.DeviceHostname, args.PortName, args.Period)
	return s.respond("get_port_traffic", result, err)
}

func (s *Server) listDevices(args ListDevicesArgs) (*mcp.ToolResponse, error) {
	result, err := s.svc.ListDevices(context.Background(), args.Status, args.OS)
	return s.respond("list_devices", result, err)
}

func (s *Server) getDevice(args GetDeviceArgs) (*mcp.ToolResponse, error) {
	result, err := s.svc.GetDevice(context.Background(), args.DeviceID, args.Hostname)
	return s.respond("get_device", result, err)
}

func (s *Server) listPorts(args ListPortsArgs) (*mcp.ToolResponse, error) {
	result, err := s.svc.ListPorts(context.Background(), args.DeviceID, args.Hostname, args.AdminStatus, args.OperStatus)
	return s.respond("list_ports", result, err)
}

func (s *Server) listSensors(args ListSensorsArgs) (*mcp.ToolResponse, error) {
	result, err := s.svc.ListSensors(context.Background(), args.DeviceID, args.Hostname, args.SensorClass)
	return s.respond("list_sensors", result, err)
}

func (s *Server) getSensorClasses(args GetSensorClassesArgs) (*mcp.ToolResponse, error) {
	result, err := s.svc.GetSensorClasses(context.Background())
	return s.respond("get_sensor_classes", result, err)
}

func (s *Server) listAlerts(args ListAlertsArgs) (*mcp.ToolResponse, error) {
	result, err := s.svc.ListAlerts(context.Background(), args.DeviceID, args.Hostname, args.Status, args.Limit)
	return s.respond("list_alerts", result, err)
}

func (s *Server) getAlertSummary(args GetAlertSummaryArgs) (*mcp.ToolResponse, error) {
	result, err := s.svc.GetAlertSummary(context.Background())
	return s.respond("get_alert_summary", result, err)
}

// respond turns a (result, err) pair into tool text content. Taxonomy errors
// become structured JSON the caller can branch on; anything else is an
// internal fault and propagates as a protocol error.
func (s *Server) respond(tool string, result any, err error) (*mcp.ToolResponse, error) {
	if err != nil {
		if te := toolerr.AsError(err); te != nil {
			s.log.Debug("tool returned taxonomy error", "tool", tool, "kind", te.Kind, "message", te.Message)
			payload, merr := json.Marshal(map[string]any{"error": te})
			if merr != nil {
				return nil, fmt.Errorf("%s: marshal error payload: %w", tool, merr)
			}
			return mcp.NewToolResponse(mcp.NewTextContent(string(payload))), nil
		}
		s.log.Error("tool failed", "tool", tool, "error", err)
		return nil, fmt.Errorf("%s: %w", tool, err)
	}

	payload, merr := json.Marshal(result)
	if merr != nil {
		return nil, fmt.Errorf("%s: marshal result: %w", tool, merr)
	}
	return mcp.NewToolResponse(mcp.NewTextContent(string(payload))), nil
}
