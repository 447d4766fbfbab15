package inventory

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdesch5000/observium-mcp/internal/toolerr"
)

// The store only issues portable SELECTs with ? placeholders, so an
// in-memory SQLite database stands in for MySQL in tests.
const testSchema = `
CREATE TABLE devices (
	device_id INTEGER PRIMARY KEY,
	hostname TEXT NOT NULL,
	sysName TEXT,
	os TEXT,
	version TEXT,
	hardware TEXT,
	status INTEGER NOT NULL DEFAULT 1,
	disabled INTEGER NOT NULL DEFAULT 0,
	uptime INTEGER,
	last_polled TIMESTAMP,
	location TEXT,
	sysDescr TEXT,
	sysContact TEXT,
	vendor TEXT,
	serial TEXT,
	features TEXT,
	status_type TEXT,
	last_discovered TIMESTAMP,
	last_polled_timetaken REAL,
	purpose TEXT,
	type TEXT,
	ip TEXT,
	snmp_version TEXT
);

CREATE TABLE ports (
	port_id INTEGER PRIMARY KEY,
	device_id INTEGER NOT NULL,
	deleted INTEGER NOT NULL DEFAULT 0,
	ifIndex INTEGER,
	ifName TEXT,
	ifDescr TEXT,
	ifAlias TEXT,
	ifSpeed INTEGER,
	ifHighSpeed INTEGER,
	ifAdminStatus TEXT,
	ifOperStatus TEXT,
	ifInOctets INTEGER,
	ifOutOctets INTEGER,
	ifInOctets_rate INTEGER,
	ifOutOctets_rate INTEGER,
	ifInErrors INTEGER,
	ifOutErrors INTEGER,
	ifType TEXT,
	ifMtu INTEGER
);

CREATE TABLE sensors (
	sensor_id INTEGER PRIMARY KEY,
	device_id INTEGER NOT NULL,
	sensor_deleted INTEGER NOT NULL DEFAULT 0,
	sensor_class TEXT NOT NULL,
	sensor_type TEXT,
	sensor_descr TEXT,
	sensor_value REAL,
	sensor_unit TEXT,
	sensor_limit REAL,
	sensor_limit_low REAL,
	sensor_limit_warn REAL,
	sensor_limit_low_warn REAL
);

CREATE TABLE alert_tests (
	alert_test_id INTEGER PRIMARY KEY,
	alert_name TEXT,
	alert_message TEXT
);

CREATE TABLE alert_table (
	alert_table_id INTEGER PRIMARY KEY,
	device_id INTEGER NOT NULL,
	alert_test_id INTEGER,
	entity_type TEXT,
	entity_id INTEGER,
	alert_status INTEGER NOT NULL,
	last_changed INTEGER,
	last_ok INTEGER,
	last_failed INTEGER
);
`

const testFixtures = `
INSERT INTO devices (device_id, hostname, sysName, os, status, disabled, uptime, location) VALUES
	(1, 'router1.example.com', 'core-r1', 'ios', 1, 0, 273720, 'dc1'),
	(2, 'sw1.example.com', NULL, 'procurve', 1, 0, 86400, 'dc1'),
	(3, 'probe-10-0-0-5', 'edge-fw1', 'pfsense', 0, 0, NULL, 'dc2'),
	(4, 'retired.example.com', NULL, 'ios', 2, 1, NULL, NULL);

INSERT INTO ports (port_id, device_id, deleted, ifIndex, ifName, ifDescr, ifAlias,
	ifSpeed, ifHighSpeed, ifAdminStatus, ifOperStatus,
	ifInOctets, ifOutOctets, ifInOctets_rate, ifOutOctets_rate) VALUES
	(101, 1, 0, 1, 'Gi0/1', 'GigabitEthernet0/1', 'uplink', 0, 1000, 'up', 'up', 9000000, 4000000, 125000, 62500),
	(102, 1, 0, 2, 'Gi0/2', 'GigabitEthernet0/2', 'uplink', 0, 1000, 'up', 'down', 100, 100, 0, 0),
	(103, 1, 1, 3, 'Gi0/3', 'GigabitEthernet0/3', NULL, 0, 1000, 'down', 'down', 0, 0, 0, 0),
	(201, 2, 0, 1, 'eth0', 'Ethernet Interface', NULL, 100000000, 0, 'up', 'up', 500, 500, 10, 10);

INSERT INTO sensors (sensor_id, device_id, sensor_deleted, sensor_class, sensor_descr,
	sensor_value, sensor_unit, sensor_limit, sensor_limit_low, sensor_limit_warn, sensor_limit_low_warn) VALUES
	(11, 1, 0, 'temperature', 'CPU Temp', 75.0, 'C', 70.0, 5.0, 60.0, 10.0),
	(12, 1, 0, 'voltage', '12V Rail', 12.1, 'V', 13.0, 11.0, 12.8, 11.2),
	(13, 2, 0, 'fanspeed', 'Fan 1', 4200.0, 'rpm', NULL, 500.0, NULL, 800.0),
	(14, 1, 1, 'temperature', 'Old Sensor', 20.0, 'C', NULL, NULL, NULL, NULL);

INSERT INTO alert_tests (alert_test_id, alert_name, alert_message) VALUES
	(1, 'Device Down', 'Device stopped responding'),
	(2, 'Port Errors', 'Interface error rate above threshold');

INSERT INTO alert_table (alert_table_id, device_id, alert_test_id, entity_type, entity_id,
	alert_status, last_changed, last_ok, last_failed) VALUES
	(1001, 3, 1, 'device', 3, 1, 1700000500, 1699990000, 1700000500),
	(1002, 1, 2, 'port', 102, 1, 1700000400, 1699990000, 1700000400),
	(1003, 1, 2, 'port', 101, 0, 1700000300, 1700000300, 1699990000);
`

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	_, err = db.Exec(testFixtures)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(db, log)
}

func intPtr(v int) *int {
	return &v
}

func TestResolveDeviceByID(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.ResolveDevice(context.Background(), intPtr(1), "")
	require.NoError(t, err)
	assert.Equal(t, 1, ref.ID)
	assert.Equal(t, "router1.example.com", ref.Hostname)
}

func TestResolveDeviceIDTakesPrecedence(t *testing.T) {
	store := newTestStore(t)

	// A hostname that matches a different device must lose to the id.
	ref, err := store.ResolveDevice(context.Background(), intPtr(2), "router1.example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, ref.ID)
}

func TestResolveDeviceByHostname(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.ResolveDevice(context.Background(), nil, "router1.example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, ref.ID)
}

func TestResolveDeviceSysNameFallback(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.ResolveDevice(context.Background(), nil, "edge-fw1")
	require.NoError(t, err)
	assert.Equal(t, 3, ref.ID)
	assert.Equal(t, "probe-10-0-0-5", ref.Hostname)
}

func TestResolveDeviceSameEntityBothWays(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	byID, err := store.ResolveDevice(ctx, intPtr(1), "")
	require.NoError(t, err)
	byName, err := store.ResolveDevice(ctx, nil, "router1.example.com")
	require.NoError(t, err)
	assert.Equal(t, byID, byName)
}

func TestResolveDeviceNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ResolveDevice(context.Background(), nil, "ghost.invalid")
	require.Error(t, err)
	assert.Equal(t, toolerr.NotFound, toolerr.KindOf(err))
}

func TestResolveDeviceNoIdentifier(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ResolveDevice(context.Background(), nil, "")
	require.Error(t, err)
	assert.Equal(t, toolerr.InvalidArgument, toolerr.KindOf(err))
}

func TestResolvePortByID(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.ResolvePort(context.Background(), intPtr(101), nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, 101, ref.ID)
	assert.Equal(t, 1, ref.DeviceID)
	assert.Equal(t, "router1.example.com", ref.Hostname)
	assert.Equal(t, "Gi0/1", ref.DisplayName)
}

func TestResolvePortByNameCaseInsensitive(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.ResolvePort(context.Background(), nil, nil, "router1.example.com", "gi0/1")
	require.NoError(t, err)
	assert.Equal(t, 101, ref.ID)
}

func TestResolvePortAmbiguousName(t *testing.T) {
	store := newTestStore(t)

	// Both live ports on router1 carry the alias "uplink".
	_, err := store.ResolvePort(context.Background(), nil, nil, "router1.example.com", "uplink")
	require.Error(t, err)
	assert.Equal(t, toolerr.AmbiguousIdentifier, toolerr.KindOf(err))

	te := toolerr.AsError(err)
	require.NotNil(t, te)
	assert.Equal(t, []string{"101", "102"}, te.Alternatives)
}

func TestResolvePortNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ResolvePort(context.Background(), nil, nil, "router1.example.com", "Te9/9")
	require.Error(t, err)
	assert.Equal(t, toolerr.NotFound, toolerr.KindOf(err))
}

func TestResolvePortMissingIdentifiers(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ResolvePort(context.Background(), nil, nil, "", "")
	require.Error(t, err)
	assert.Equal(t, toolerr.InvalidArgument, toolerr.KindOf(err))
}

func TestListDevicesExcludesDisabled(t *testing.T) {
	store := newTestStore(t)

	devices, err := store.ListDevices(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, devices, 3)
	for _, d := range devices {
		assert.NotEqual(t, 4, d.DeviceID)
	}
}

func TestListDevicesStatusFilter(t *testing.T) {
	store := newTestStore(t)

	devices, err := store.ListDevices(context.Background(), "down", "")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, 3, devices[0].DeviceID)
	assert.Equal(t, "down", devices[0].StatusText)
}

func TestListDevicesInvalidStatus(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ListDevices(context.Background(), "sideways", "")
	require.Error(t, err)
	assert.Equal(t, toolerr.InvalidArgument, toolerr.KindOf(err))
}

func TestListDevicesOSFilter(t *testing.T) {
	store := newTestStore(t)

	devices, err := store.ListDevices(context.Background(), "", "procurve")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "sw1.example.com", devices[0].Hostname)
}

func TestGetDeviceDetailCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := store.ResolveDevice(ctx, intPtr(1), "")
	require.NoError(t, err)

	detail, err := store.GetDevice(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "router1.example.com", detail.Hostname)
	assert.Equal(t, 2, detail.PortCount, "deleted ports are excluded")
	assert.Equal(t, 2, detail.SensorCount, "deleted sensors are excluded")
	assert.Equal(t, 1, detail.AlertCount, "only active alerts are counted")
	assert.Equal(t, "up", detail.StatusText)
	assert.Equal(t, "3d 4h 2m", detail.UptimeText)
}

func TestListPorts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := store.ResolveDevice(ctx, intPtr(1), "")
	require.NoError(t, err)

	ports, err := store.ListPorts(ctx, ref, "", "")
	require.NoError(t, err)
	require.Len(t, ports, 2, "deleted ports are excluded")
	assert.Equal(t, "Gi0/1", ports[0].Name)
}

func TestListPortsOperStatusFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := store.ResolveDevice(ctx, intPtr(1), "")
	require.NoError(t, err)

	ports, err := store.ListPorts(ctx, ref, "", "down")
	require.NoError(t, err)
	require.Len(t, ports, 1)
	assert.Equal(t, 102, ports[0].PortID)
}

func TestListPortsInvalidFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := store.ResolveDevice(ctx, intPtr(1), "")
	require.NoError(t, err)

	_, err = store.ListPorts(ctx, ref, "testing", "")
	require.Error(t, err)
	assert.Equal(t, toolerr.InvalidArgument, toolerr.KindOf(err))
}

func TestGetPortSpeedDecoration(t *testing.T) {
	store := newTestStore(t)

	// ifHighSpeed is in Mbps and wins over ifSpeed.
	port, err := store.GetPort(context.Background(), 101)
	require.NoError(t, err)
	require.NotNil(t, port.SpeedBits)
	assert.Equal(t, int64(1_000_000_000), *port.SpeedBits)
	assert.Equal(t, "1 Gbps", port.Speed)

	// eth0 only has the legacy bps counter.
	port, err = store.GetPort(context.Background(), 201)
	require.NoError(t, err)
	require.NotNil(t, port.SpeedBits)
	assert.Equal(t, int64(100_000_000), *port.SpeedBits)
}

func TestGetPortNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetPort(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, toolerr.NotFound, toolerr.KindOf(err))
}

func TestListSensorsGrading(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := store.ResolveDevice(ctx, intPtr(1), "")
	require.NoError(t, err)

	sensors, err := store.ListSensors(ctx, ref, "")
	require.NoError(t, err)
	require.Len(t, sensors, 2, "deleted sensors are excluded")

	byDescr := make(map[string]string)
	for _, s := range sensors {
		require.NotNil(t, s.Descr)
		byDescr[*s.Descr] = s.StatusText
	}
	assert.Equal(t, "critical_high", byDescr["CPU Temp"])
	assert.Equal(t, "normal", byDescr["12V Rail"])
}

func TestListSensorsClassFilter(t *testing.T) {
	store := newTestStore(t)

	sensors, err := store.ListSensors(context.Background(), nil, "fanspeed")
	require.NoError(t, err)
	require.Len(t, sensors, 1)
	assert.Equal(t, "sw1.example.com", sensors[0].Hostname)
}

func TestSensorClasses(t *testing.T) {
	store := newTestStore(t)

	classes, err := store.SensorClasses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"fanspeed", "temperature", "voltage"}, classes)
}

func TestListAlertsActive(t *testing.T) {
	store := newTestStore(t)

	alerts, err := store.ListAlerts(context.Background(), nil, "active", 0)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	// Newest change first.
	assert.Equal(t, 1001, alerts[0].AlertID)
	assert.Equal(t, "active", alerts[0].StatusText)
}

func TestListAlertsScopedToDevice(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := store.ResolveDevice(ctx, intPtr(1), "")
	require.NoError(t, err)

	alerts, err := store.ListAlerts(ctx, ref, "", 0)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	for _, a := range alerts {
		assert.Equal(t, 1, a.DeviceID)
	}
}

func TestListAlertsInvalidStatus(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ListAlerts(context.Background(), nil, "pending", 0)
	require.Error(t, err)
	assert.Equal(t, toolerr.InvalidArgument, toolerr.KindOf(err))
}

func TestAlertSummary(t *testing.T) {
	store := newTestStore(t)

	summary, err := store.AlertSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalActive)
	assert.Equal(t, 1, summary.TotalRecovered)
	assert.Equal(t, map[string]int{"device": 1, "port": 1}, summary.ByEntityType)
	assert.Equal(t, map[string]int{"router1.example.com": 1, "probe-10-0-0-5": 1}, summary.ByDevice)
}
