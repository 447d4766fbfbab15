package tools

import (
	"context"

	"github.com/kdesch5000/observium-mcp/internal/models"
	"github.com/kdesch5000/observium-mcp/internal/trend"
)

// DefaultMetric applies when get_trends is called without a metric token.
const DefaultMetric = "load"

type TrendsResult struct {
	Hostname    string                        `json:"hostname"`
	Metric      string                        `json:"metric"`
	Period      string                        `json:"period"`
	ArchiveFile string                        `json:"rrd_file"`
	AccessMode  models.AccessMode             `json:"access_mode"`
	Datasources []string                      `json:"datasources"`
	DataPoints  int                           `json:"data_points"`
	Statistics  map[string]models.SeriesStats `json:"statistics"`
	Data        []models.Sample               `json:"data"`
}

// GetTrends returns historical trend data for one device metric: a display
// series bounded to the period's point budget plus summary statistics
// computed over the full raw window.
func (s *Service) GetTrends(ctx context.Context, deviceID *int, hostname, metric, period string) (*TrendsResult, error) {
	ref, err := s.inv.ResolveDevice(ctx, deviceID, hostname)
	if err != nil {
		return nil, err
	}

	if metric == "" {
		metric = DefaultMetric
	}
	spec, err := trend.Map(period)
	if err != nil {
		return nil, err
	}

	desc, err := s.rrd.Locate(ctx, ref, metric)
	if err != nil {
		return nil, err
	}

	raw, err := s.rrd.Fetch(ctx, desc, spec)
	if err != nil {
		return nil, err
	}

	display, stats := trend.Aggregate(raw, spec)

	s.log.Debug("trends fetched",
		"hostname", ref.Hostname,
		"metric", metric,
		"period", spec.Token,
		"archive", desc.Filename,
		"access_mode", desc.AccessMode,
		"raw_samples", len(raw.Samples),
		"display_points", len(display),
	)

	return &TrendsResult{
		Hostname:    ref.Hostname,
		Metric:      metric,
		Period:      spec.Token,
		ArchiveFile: desc.Filename,
		AccessMode:  desc.AccessMode,
		Datasources: raw.Datasources,
		DataPoints:  len(raw.Samples),
		Statistics:  stats,
		Data:        display,
	}, nil
}

type MetricDescriptor struct {
	Name string `json:"name"`
	File string `json:"file"`
}

type AvailableMetricsResult struct {
	Hostname      string                        `json:"hostname"`
	TotalArchives int                           `json:"total_rrd_files"`
	Categories    map[string][]MetricDescriptor `json:"categories"`
}

// ListAvailableMetrics enumerates every archive of a device and classifies
// each into its semantic bucket. Availability listing only; no sample data
// is read.
func (s *Service) ListAvailableMetrics(ctx context.Context, deviceID *int, hostname string) (*AvailableMetricsResult, error) {
	ref, err := s.inv.ResolveDevice(ctx, deviceID, hostname)
	if err != nil {
		return nil, err
	}

	descs, err := s.rrd.Enumerate(ctx, ref)
	if err != nil {
		return nil, err
	}

	categories := make(map[string][]MetricDescriptor)
	for _, d := range descs {
		key := string(d.Category)
		categories[key] = append(categories[key], MetricDescriptor{
			Name: d.MetricName(),
			File: d.Filename,
		})
	}

	return &AvailableMetricsResult{
		Hostname:      ref.Hostname,
		TotalArchives: len(descs),
		Categories:    categories,
	}, nil
}
