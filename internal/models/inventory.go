package models

import "time"

// Inventory rows. Column names follow the Observium schema, which mixes
// snake_case and SNMP-style camelCase; db tags keep the mapping explicit.
// Nullable columns are pointers, matching how the inventory leaves fields
// blank for devices discovered by probing rather than DNS.

type Device struct {
	DeviceID   int        `db:"device_id" json:"device_id"`
	Hostname   string     `db:"hostname" json:"hostname"`
	SysName    *string    `db:"sysName" json:"sysname,omitempty"`
	OS         *string    `db:"os" json:"os,omitempty"`
	Version    *string    `db:"version" json:"version,omitempty"`
	Hardware   *string    `db:"hardware" json:"hardware,omitempty"`
	Status     int        `db:"status" json:"-"`
	StatusText string     `db:"-" json:"status"`
	Uptime     *int64     `db:"uptime" json:"uptime_seconds,omitempty"`
	UptimeText string     `db:"-" json:"uptime,omitempty"`
	LastPolled *time.Time `db:"last_polled" json:"last_polled,omitempty"`
	Location   *string    `db:"location" json:"location,omitempty"`
}

type DeviceDetail struct {
	Device
	SysDescr       *string    `db:"sysDescr" json:"description,omitempty"`
	SysContact     *string    `db:"sysContact" json:"contact,omitempty"`
	Vendor         *string    `db:"vendor" json:"vendor,omitempty"`
	Serial         *string    `db:"serial" json:"serial,omitempty"`
	Features       *string    `db:"features" json:"features,omitempty"`
	StatusType     *string    `db:"status_type" json:"status_type,omitempty"`
	LastDiscovered *time.Time `db:"last_discovered" json:"last_discovered,omitempty"`
	PollDuration   *float64   `db:"last_polled_timetaken" json:"poll_duration_seconds,omitempty"`
	Purpose        *string    `db:"purpose" json:"purpose,omitempty"`
	Type           *string    `db:"type" json:"type,omitempty"`
	IP             *string    `db:"ip" json:"ip,omitempty"`
	SNMPVersion    *string    `db:"snmp_version" json:"snmp_version,omitempty"`

	PortCount   int `db:"-" json:"port_count"`
	SensorCount int `db:"-" json:"sensor_count"`
	AlertCount  int `db:"-" json:"active_alert_count"`
}

type Port struct {
	PortID        int     `db:"port_id" json:"port_id"`
	DeviceID      int     `db:"device_id" json:"device_id"`
	Hostname      string  `db:"hostname" json:"hostname"`
	IfIndex       *int    `db:"ifIndex" json:"ifindex,omitempty"`
	IfName        *string `db:"ifName" json:"-"`
	IfDescr       *string `db:"ifDescr" json:"description,omitempty"`
	IfAlias       *string `db:"ifAlias" json:"alias,omitempty"`
	IfSpeed       *int64  `db:"ifSpeed" json:"-"`
	IfHighSpeed   *int64  `db:"ifHighSpeed" json:"-"`
	AdminStatus   *string `db:"ifAdminStatus" json:"admin_status,omitempty"`
	OperStatus    *string `db:"ifOperStatus" json:"oper_status,omitempty"`
	InOctets      *int64  `db:"ifInOctets" json:"in_octets,omitempty"`
	OutOctets     *int64  `db:"ifOutOctets" json:"out_octets,omitempty"`
	InOctetsRate  *int64  `db:"ifInOctets_rate" json:"-"`
	OutOctetsRate *int64  `db:"ifOutOctets_rate" json:"-"`
	InErrors      *int64  `db:"ifInErrors" json:"in_errors,omitempty"`
	OutErrors     *int64  `db:"ifOutErrors" json:"out_errors,omitempty"`
	IfType        *string `db:"ifType" json:"type,omitempty"`
	IfMtu         *int    `db:"ifMtu" json:"mtu,omitempty"`

	Name      string `db:"-" json:"name"`
	Speed     string `db:"-" json:"speed,omitempty"`
	SpeedBits *int64 `db:"-" json:"speed_bps,omitempty"`
}

type Sensor struct {
	SensorID      int      `db:"sensor_id" json:"sensor_id"`
	DeviceID      int      `db:"device_id" json:"device_id"`
	Hostname      string   `db:"hostname" json:"hostname"`
	Class         string   `db:"sensor_class" json:"class"`
	Type          *string  `db:"sensor_type" json:"type,omitempty"`
	Descr         *string  `db:"sensor_descr" json:"description,omitempty"`
	Value         *float64 `db:"sensor_value" json:"value,omitempty"`
	Unit          *string  `db:"sensor_unit" json:"unit,omitempty"`
	Limit         *float64 `db:"sensor_limit" json:"limit_high,omitempty"`
	LimitLow      *float64 `db:"sensor_limit_low" json:"limit_low,omitempty"`
	LimitWarn     *float64 `db:"sensor_limit_warn" json:"limit_warn_high,omitempty"`
	LimitLowWarn  *float64 `db:"sensor_limit_low_warn" json:"limit_warn_low,omitempty"`
	StatusText    string   `db:"-" json:"status"`
	FormattedText string   `db:"-" json:"formatted_value,omitempty"`
}

type Alert struct {
	AlertID     int     `db:"alert_table_id" json:"alert_id"`
	DeviceID    int     `db:"device_id" json:"device_id"`
	Hostname    string  `db:"hostname" json:"hostname"`
	EntityType  *string `db:"entity_type" json:"entity_type,omitempty"`
	EntityID    *int    `db:"entity_id" json:"entity_id,omitempty"`
	Status      int     `db:"alert_status" json:"-"`
	StatusText  string  `db:"-" json:"status"`
	Name        *string `db:"alert_name" json:"name,omitempty"`
	Message     *string `db:"alert_message" json:"message,omitempty"`
	LastChanged *int64  `db:"last_changed" json:"last_changed,omitempty"`
	LastOK      *int64  `db:"last_ok" json:"last_ok,omitempty"`
	LastFailed  *int64  `db:"last_failed" json:"last_failed,omitempty"`
}
