package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kdesch5000/observium-mcp/internal/models"
	"github.com/kdesch5000/observium-mcp/internal/toolerr"
)

// Identifier resolution is an ordered list of lookup strategies tried in
// priority order. Each strategy reports match / no-match / error, so adding
// a new identifier scheme is additive rather than another nested branch.

type deviceRow struct {
	DeviceID int     `db:"device_id"`
	Hostname string  `db:"hostname"`
	SysName  *string `db:"sysName"`
}

type deviceLookup func(ctx context.Context) (*deviceRow, error)

// ResolveDevice turns a loose (numeric id | hostname) pair into a canonical
// device reference. A numeric id takes precedence; hostname lookups try the
// exact hostname first and fall back to the system-reported sysName, which
// covers devices whose hostname field is blank or synthetic because they
// were discovered by protocol probing rather than DNS.
func (s *Store) ResolveDevice(ctx context.Context, deviceID *int, hostname string) (*models.EntityRef, error) {
	if deviceID == nil && hostname == "" {
		return nil, toolerr.New(toolerr.InvalidArgument, "either device_id or hostname must be provided")
	}

	var lookups []deviceLookup
	if deviceID != nil {
		lookups = append(lookups, s.deviceByID(*deviceID))
	} else {
		lookups = append(lookups,
			s.deviceByColumn("hostname", hostname),
			s.deviceByColumn("sysName", hostname),
		)
	}

	for _, lookup := range lookups {
		row, err := lookup(ctx)
		if err != nil {
			return nil, err
		}
		if row != nil {
			return deviceRef(row), nil
		}
	}

	if deviceID != nil {
		return nil, toolerr.New(toolerr.NotFound, "device not found: %d", *deviceID)
	}
	return nil, toolerr.New(toolerr.NotFound, "device not found: %s", hostname)
}

func (s *Store) deviceByID(id int) deviceLookup {
	return func(ctx context.Context) (*deviceRow, error) {
		return s.lookupDevice(ctx,
			`SELECT device_id, hostname, sysName FROM devices WHERE device_id = ?`, id)
	}
}

func (s *Store) deviceByColumn(column, value string) deviceLookup {
	// column is one of the fixed names above, never caller input
	query := fmt.Sprintf(
		`SELECT device_id, hostname, sysName FROM devices WHERE %s = ? ORDER BY device_id LIMIT 1`, column)
	return func(ctx context.Context) (*deviceRow, error) {
		return s.lookupDevice(ctx, query, value)
	}
}

func (s *Store) lookupDevice(ctx context.Context, query string, arg any) (*deviceRow, error) {
	var row deviceRow
	if err := s.db.GetContext(ctx, &row, query, arg); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("device lookup: %w", err)
	}
	return &row, nil
}

func deviceRef(row *deviceRow) *models.EntityRef {
	display := row.Hostname
	if display == "" && row.SysName != nil {
		display = *row.SysName
	}
	return &models.EntityRef{
		Kind:        models.KindDevice,
		ID:          row.DeviceID,
		Hostname:    row.Hostname,
		DisplayName: display,
	}
}

type portRow struct {
	PortID   int     `db:"port_id"`
	DeviceID int     `db:"device_id"`
	Hostname string  `db:"hostname"`
	IfName   *string `db:"ifName"`
	IfDescr  *string `db:"ifDescr"`
	IfAlias  *string `db:"ifAlias"`
}

// ResolvePort turns (port id | device hostname + free-text port name) into a
// canonical port reference. The name is matched case-insensitively against
// the interface's short name, its description and its administrative alias.
// More than one match fails with AmbiguousIdentifier listing the candidate
// port ids; callers disambiguate via port_id.
func (s *Store) ResolvePort(ctx context.Context, portID *int, deviceID *int, deviceHostname, portName string) (*models.EntityRef, error) {
	if portID != nil {
		var row portRow
		query := `
			SELECT p.port_id, p.device_id, p.ifName, p.ifDescr, p.ifAlias, d.hostname
			FROM ports p
			JOIN devices d ON p.device_id = d.device_id
			WHERE p.port_id = ?`
		if err := s.db.GetContext(ctx, &row, query, *portID); err != nil {
			if isNoRows(err) {
				return nil, toolerr.New(toolerr.NotFound, "port not found: %d", *portID)
			}
			return nil, fmt.Errorf("port lookup: %w", err)
		}
		return portRef(&row), nil
	}

	if portName == "" {
		return nil, toolerr.New(toolerr.InvalidArgument,
			"either port_id or (device_hostname and port_name) must be provided")
	}

	device, err := s.ResolveDevice(ctx, deviceID, deviceHostname)
	if err != nil {
		return nil, err
	}

	var rows []portRow
	query := `
		SELECT p.port_id, p.device_id, p.ifName, p.ifDescr, p.ifAlias, d.hostname
		FROM ports p
		JOIN devices d ON p.device_id = d.device_id
		WHERE p.device_id = ? AND p.deleted = 0
		ORDER BY p.port_id`
	if err := s.db.SelectContext(ctx, &rows, query, device.ID); err != nil {
		return nil, fmt.Errorf("port candidates: %w", err)
	}

	var matches []portRow
	for _, row := range rows {
		if portNameMatches(&row, portName) {
			matches = append(matches, row)
		}
	}

	switch len(matches) {
	case 0:
		return nil, toolerr.New(toolerr.NotFound, "port not found: %s on %s", portName, device.DisplayName)
	case 1:
		return portRef(&matches[0]), nil
	}

	candidates := make([]string, len(matches))
	for i, m := range matches {
		candidates[i] = strconv.Itoa(m.PortID)
	}
	return nil, toolerr.WithAlternatives(toolerr.AmbiguousIdentifier, candidates,
		"port name %q matches %d ports on %s; disambiguate via port_id",
		portName, len(matches), device.DisplayName)
}

func portNameMatches(row *portRow, name string) bool {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, field := range []*string{row.IfName, row.IfDescr, row.IfAlias} {
		if field != nil && strings.ToLower(strings.TrimSpace(*field)) == want {
			return true
		}
	}
	return false
}

func portRef(row *portRow) *models.EntityRef {
	display := ""
	switch {
	case row.IfName != nil && *row.IfName != "":
		display = *row.IfName
	case row.IfDescr != nil:
		display = *row.IfDescr
	}
	return &models.EntityRef{
		Kind:        models.KindPort,
		ID:          row.PortID,
		DeviceID:    row.DeviceID,
		Hostname:    row.Hostname,
		DisplayName: display,
	}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
