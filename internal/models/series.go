package models

import "encoding/json"

// Datum is a single measured value that may be an explicit hole. Holes come
// from archive gaps (rrdtool prints nan) and must stay visible in display
// series so timestamps keep their alignment; they are excluded from
// aggregate math. A struct rather than a sentinel float so aggregation code
// cannot accidentally treat a hole as zero.
type Datum struct {
	Value   float64
	Defined bool
}

// Defined returns a defined datum.
func DefinedDatum(v float64) Datum {
	return Datum{Value: v, Defined: true}
}

// Hole returns an undefined datum.
func Hole() Datum {
	return Datum{}
}

// MarshalJSON renders holes as null so consumers see the gap, not a zero.
func (d Datum) MarshalJSON() ([]byte, error) {
	if !d.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(d.Value)
}

func (d *Datum) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Datum{}
		return nil
	}
	d.Defined = true
	return json.Unmarshal(b, &d.Value)
}

// Sample is one timestamped row of an archive. Values are positionally
// aligned with the FetchResult's datasource names.
type Sample struct {
	Timestamp int64   `json:"timestamp"`
	Values    []Datum `json:"values"`
}

// FetchResult is the raw outcome of one archive read: the datasource names
// from the fetch header and the samples in ascending timestamp order.
type FetchResult struct {
	Datasources []string `json:"datasources"`
	Samples     []Sample `json:"samples"`
}

// ArchiveInfo is the metadata of one archive (from rrdtool info).
type ArchiveInfo struct {
	Datasources []string `json:"datasources"`
	Step        int64    `json:"step,omitempty"`
	LastUpdate  int64    `json:"last_update,omitempty"`
}

// PeriodSpec fixes the time window, the archive-native sampling resolution
// and the display point budget for one period token.
type PeriodSpec struct {
	Token        string `json:"token"`
	Window       int64  `json:"window_seconds"`
	NativeStep   int64  `json:"native_step_seconds"`
	TargetPoints int    `json:"target_point_count"`
}

// SeriesStats summarizes one datasource over the raw window. All fields are
// pointers: a series with zero defined samples reports every statistic as
// absent, never as a fabricated zero.
type SeriesStats struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Avg     *float64 `json:"avg,omitempty"`
	Current *float64 `json:"current,omitempty"`
}
