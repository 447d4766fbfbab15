package trend

import (
	"github.com/kdesch5000/observium-mcp/internal/models"
)

// Aggregate reduces a raw fetch result to a bounded display series plus
// per-datasource summary statistics. Statistics always come from the full
// raw window — downsampling is for display only and must not bias min/max/avg.
// The function is pure: same input, same output, no clock.
func Aggregate(raw *models.FetchResult, spec models.PeriodSpec) ([]models.Sample, map[string]models.SeriesStats) {
	display := Downsample(raw.Samples, spec.TargetPoints)

	stats := make(map[string]models.SeriesStats, len(raw.Datasources))
	for i, ds := range raw.Datasources {
		stats[ds] = seriesStats(raw.Samples, i)
	}
	return display, stats
}

// Downsample partitions the sample range into target equal-width buckets and
// keeps one representative per bucket: the last raw sample inside it. A
// bucket that falls between raw samples carries the nearest preceding sample
// forward, which matches how step metrics (counters, utilization) are
// conventionally displayed and never invents values.
func Downsample(samples []models.Sample, target int) []models.Sample {
	if target <= 0 || len(samples) <= target {
		return samples
	}

	first := samples[0].Timestamp
	last := samples[len(samples)-1].Timestamp
	span := last - first
	if span <= 0 {
		return samples[:1]
	}

	display := make([]models.Sample, 0, target)
	idx := 0
	var carried *models.Sample

	for bucket := 1; bucket <= target; bucket++ {
		// Upper bound of this bucket, inclusive for the final one.
		bound := first + span*int64(bucket)/int64(target)

		advanced := false
		for idx < len(samples) && samples[idx].Timestamp <= bound {
			carried = &samples[idx]
			idx++
			advanced = true
		}
		if carried == nil {
			continue
		}
		if !advanced && len(display) > 0 && display[len(display)-1].Timestamp == carried.Timestamp {
			// Empty bucket: the carried sample is already on display.
			continue
		}
		display = append(display, *carried)
	}
	return display
}

func seriesStats(samples []models.Sample, col int) models.SeriesStats {
	var (
		stats models.SeriesStats
		sum   float64
		count int
	)

	for _, s := range samples {
		if col >= len(s.Values) || !s.Values[col].Defined {
			continue
		}
		v := s.Values[col].Value
		if count == 0 {
			stats.Min = ptr(v)
			stats.Max = ptr(v)
		} else {
			if v < *stats.Min {
				stats.Min = ptr(v)
			}
			if v > *stats.Max {
				stats.Max = ptr(v)
			}
		}
		sum += v
		count++
		// Latest defined sample wins; the last raw point may be a hole.
		stats.Current = ptr(v)
	}

	if count > 0 {
		stats.Avg = ptr(sum / float64(count))
	}
	return stats
}

func ptr(v float64) *float64 {
	return &v
}
