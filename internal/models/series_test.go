package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatumJSONHolesAreNull(t *testing.T) {
	sample := Sample{
		Timestamp: 1700000000,
		Values:    []Datum{DefinedDatum(0.42), Hole()},
	}

	raw, err := json.Marshal(sample)
	require.NoError(t, err)
	assert.JSONEq(t, `{"timestamp":1700000000,"values":[0.42,null]}`, string(raw))

	var decoded Sample
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, decoded.Values[0].Defined)
	assert.False(t, decoded.Values[1].Defined)
}

func TestMetricName(t *testing.T) {
	assert.Equal(t, "la", ArchiveDescriptor{Filename: "la.rrd"}.MetricName())
	assert.Equal(t, "port-7", ArchiveDescriptor{Filename: "port-7.rrd"}.MetricName())
	assert.Equal(t, "readme", ArchiveDescriptor{Filename: "readme"}.MetricName())
	assert.Equal(t, ".rrd", ArchiveDescriptor{Filename: ".rrd"}.MetricName())
}
