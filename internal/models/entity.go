package models

// EntityKind distinguishes the two monitored object types the inventory tracks.
type EntityKind string

const (
	KindDevice EntityKind = "device"
	KindPort   EntityKind = "port"
)

// AccessMode records which path serves an archive file.
type AccessMode string

const (
	AccessLocal      AccessMode = "local"
	AccessRemote     AccessMode = "remote"
	AccessUnresolved AccessMode = "unresolved"
)

// Category is the semantic bucket an archive file falls into.
type Category string

const (
	CategorySystem      Category = "system"
	CategoryNetwork     Category = "network"
	CategorySensors     Category = "sensors"
	CategoryPerformance Category = "performance"
	CategoryOther       Category = "other"
)

// EntityRef is the canonical identity of a monitored object, resolved fresh
// per request. ID is the inventory's stable numeric key; for ports DeviceID
// carries the owning device and Hostname the device's hostname (archives are
// laid out per device hostname).
type EntityRef struct {
	Kind        EntityKind `json:"kind"`
	ID          int        `json:"id"`
	DeviceID    int        `json:"device_id,omitempty"`
	Hostname    string     `json:"hostname,omitempty"`
	DisplayName string     `json:"display_name"`
}

// ArchiveDescriptor identifies one time-series archive for one entity.
// Created per lookup, never persisted.
type ArchiveDescriptor struct {
	Entity     EntityRef  `json:"-"`
	Category   Category   `json:"category"`
	Filename   string     `json:"filename"`
	Path       string     `json:"path"`
	AccessMode AccessMode `json:"access_mode"`
}

// MetricName returns the descriptor's display name: the archive filename
// without its .rrd extension.
func (d ArchiveDescriptor) MetricName() string {
	const ext = ".rrd"
	if n := len(d.Filename) - len(ext); n > 0 && d.Filename[n:] == ext {
		return d.Filename[:n]
	}
	return d.Filename
}
