package rrd

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kdesch5000/observium-mcp/internal/models"
)

// ParseFetch converts `rrdtool fetch` text output into samples. The first
// non-empty line names the datasources; every following "timestamp: v v"
// line is one sample. nan markers become explicit holes so gaps stay
// visible instead of collapsing to zero.
func ParseFetch(out []byte) (*models.FetchResult, error) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var result models.FetchResult

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if result.Datasources == nil {
			result.Datasources = strings.Fields(line)
			continue
		}

		ts, values, ok := parseSampleLine(line, len(result.Datasources))
		if !ok {
			continue
		}
		result.Samples = append(result.Samples, models.Sample{Timestamp: ts, Values: values})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan fetch output: %w", err)
	}

	if len(result.Datasources) == 0 {
		return nil, fmt.Errorf("fetch output has no datasource header")
	}
	return &result, nil
}

func parseSampleLine(line string, width int) (int64, []models.Datum, bool) {
	colon := strings.IndexByte(line, ':')
	if colon <= 0 {
		return 0, nil, false
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(line[:colon]), 10, 64)
	if err != nil {
		return 0, nil, false
	}

	fields := strings.Fields(line[colon+1:])
	values := make([]models.Datum, 0, width)
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) {
			values = append(values, models.Hole())
			continue
		}
		values = append(values, models.DefinedDatum(v))
	}

	// Pad short rows so values stay aligned with the datasource header.
	for len(values) < width {
		values = append(values, models.Hole())
	}
	return ts, values, true
}

// ParseInfo extracts datasource names, step and last update time from
// `rrdtool info` output.
func ParseInfo(out []byte) (*models.ArchiveInfo, error) {
	info := &models.ArchiveInfo{}
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch {
		case strings.HasPrefix(key, "ds[") && strings.Contains(key, "]."):
			name := key[len("ds["):strings.IndexByte(key, ']')]
			if !seen[name] {
				seen[name] = true
				info.Datasources = append(info.Datasources, name)
			}
		case key == "step":
			if v, err := strconv.ParseInt(value, 10, 64); err == nil {
				info.Step = v
			}
		case key == "last_update":
			if v, err := strconv.ParseInt(value, 10, 64); err == nil {
				info.LastUpdate = v
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan info output: %w", err)
	}

	if len(info.Datasources) == 0 {
		return nil, fmt.Errorf("info output has no datasources")
	}
	return info, nil
}
