package rrd

import (
	"context"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kdesch5000/observium-mcp/internal/config"
	"github.com/kdesch5000/observium-mcp/internal/models"
	"github.com/kdesch5000/observium-mcp/internal/toolerr"
)

// metricSpec maps one metric token to its canonical archive filename. Some
// tokens carry a fallback substring: when the canonical file is absent the
// device directory is searched for any archive containing it, because the
// exact filename varies with the SNMP MIB the poller used.
type metricSpec struct {
	filename string
	category models.Category
	fallback string
}

var metricFiles = map[string]metricSpec{
	"load":   {filename: "la.rrd", category: models.CategorySystem},
	"cpu":    {filename: "processor-hr-1.rrd", category: models.CategorySystem, fallback: "processor"},
	"memory": {filename: "mempool-ucd-snmp-mib--0.rrd", category: models.CategorySystem, fallback: "mempool"},
	"uptime": {filename: "uptime.rrd", category: models.CategorySystem},
}

// MetricTokens returns the recognized metric tokens, sorted.
func MetricTokens() []string {
	tokens := make([]string, 0, len(metricFiles))
	for t := range metricFiles {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens
}

// Service locates and reads archives through whichever access paths the
// deployment configures: local filesystem first, SSH remote as fallback.
type Service struct {
	basePath string
	rrdtool  string
	timeout  time.Duration
	runners  []Runner
	log      *slog.Logger
}

func NewService(cfg *config.Config, log *slog.Logger) *Service {
	var runners []Runner
	if cfg.RRDLocalEnabled {
		runners = append(runners, NewLocalRunner())
	}
	if cfg.RemoteConfigured() {
		runners = append(runners, NewSSHRunner(cfg))
	}
	return &Service{
		basePath: cfg.RRDPath,
		rrdtool:  cfg.RRDToolPath,
		timeout:  time.Duration(cfg.CommandTimeoutSec) * time.Second,
		runners:  runners,
		log:      log.With("component", "rrd"),
	}
}

// NewServiceWithRunners builds a service over explicit runners; used by
// tests to substitute fake archive access.
func NewServiceWithRunners(basePath string, log *slog.Logger, runners ...Runner) *Service {
	return &Service{
		basePath: basePath,
		rrdtool:  "rrdtool",
		timeout:  time.Minute,
		runners:  runners,
		log:      log.With("component", "rrd"),
	}
}

func (s *Service) devicePath(hostname string) string {
	return path.Join(s.basePath, hostname)
}

func (s *Service) runnerFor(mode models.AccessMode) Runner {
	for _, r := range s.runners {
		if r.Mode() == mode {
			return r
		}
	}
	return nil
}

// probe finds the first access path where the file exists. A transport
// failure on the remote path is only surfaced if no other path served the
// file, so a healthy local deployment never fails on a dead SSH channel.
func (s *Service) probe(ctx context.Context, filePath string) (models.AccessMode, error) {
	if len(s.runners) == 0 {
		return models.AccessUnresolved, toolerr.New(toolerr.ArchiveUnavailable,
			"local archive access is disabled and no remote archive host is configured")
	}

	var transportErr error
	for _, runner := range s.runners {
		found, err := runner.Exists(ctx, filePath)
		if err != nil {
			if toolerr.IsKind(err, toolerr.TransportFailure) {
				transportErr = err
				continue
			}
			return models.AccessUnresolved, err
		}
		if found {
			return runner.Mode(), nil
		}
	}

	if transportErr != nil {
		return models.AccessUnresolved, transportErr
	}
	return models.AccessUnresolved, toolerr.New(toolerr.ArchiveUnavailable,
		"archive not found on any access path: %s", filePath)
}

// Locate resolves a metric token into a concrete archive descriptor for a
// device. Unknown tokens fail with the valid alternatives; a known token
// whose archive is missing fails with the device's available archives.
func (s *Service) Locate(ctx context.Context, ref *models.EntityRef, metric string) (*models.ArchiveDescriptor, error) {
	spec, ok := metricFiles[strings.ToLower(metric)]
	if !ok {
		return nil, toolerr.WithAlternatives(toolerr.UnknownMetric, MetricTokens(),
			"unknown metric: %s", metric)
	}

	desc := &models.ArchiveDescriptor{
		Entity:     *ref,
		Category:   spec.category,
		Filename:   spec.filename,
		Path:       path.Join(s.devicePath(ref.Hostname), spec.filename),
		AccessMode: models.AccessUnresolved,
	}

	mode, err := s.probe(ctx, desc.Path)
	if err == nil {
		desc.AccessMode = mode
		return desc, nil
	}
	if !toolerr.IsKind(err, toolerr.ArchiveUnavailable) || spec.fallback == "" {
		return nil, err
	}

	// Canonical file absent; search the device directory for an archive
	// matching the fallback substring.
	available, listErr := s.listArchives(ctx, ref)
	if listErr != nil {
		return nil, listErr
	}
	for _, name := range available {
		if strings.Contains(strings.ToLower(name), spec.fallback) {
			desc.Filename = name
			desc.Path = path.Join(s.devicePath(ref.Hostname), name)
			if desc.AccessMode, err = s.probe(ctx, desc.Path); err != nil {
				return nil, err
			}
			return desc, nil
		}
	}

	if len(available) > 20 {
		available = available[:20]
	}
	return nil, toolerr.WithAlternatives(toolerr.ArchiveUnavailable, available,
		"no archive for metric %q on device %s", metric, ref.DisplayName)
}

// LocatePort resolves the traffic archive of a port (port-<id>.rrd under
// the owning device's directory).
func (s *Service) LocatePort(ctx context.Context, ref *models.EntityRef) (*models.ArchiveDescriptor, error) {
	filename := "port-" + strconv.Itoa(ref.ID) + ".rrd"
	desc := &models.ArchiveDescriptor{
		Entity:     *ref,
		Category:   models.CategoryNetwork,
		Filename:   filename,
		Path:       path.Join(s.devicePath(ref.Hostname), filename),
		AccessMode: models.AccessUnresolved,
	}

	mode, err := s.probe(ctx, desc.Path)
	if err != nil {
		return nil, err
	}
	desc.AccessMode = mode
	return desc, nil
}

// listArchives returns the .rrd filenames in the entity's device directory,
// sorted. A missing directory is an empty list, not an error.
func (s *Service) listArchives(ctx context.Context, ref *models.EntityRef) ([]string, error) {
	if len(s.runners) == 0 {
		return nil, toolerr.New(toolerr.ArchiveUnavailable,
			"local archive access is disabled and no remote archive host is configured")
	}

	dir := s.devicePath(ref.Hostname)

	var transportErr error
	for _, runner := range s.runners {
		found, err := runner.Exists(ctx, dir)
		if err != nil {
			if toolerr.IsKind(err, toolerr.TransportFailure) {
				transportErr = err
				continue
			}
			return nil, err
		}
		if !found {
			continue
		}

		names, err := runner.ListDir(ctx, dir)
		if err != nil {
			return nil, err
		}
		var archives []string
		for _, name := range names {
			if strings.HasSuffix(name, ".rrd") {
				archives = append(archives, name)
			}
		}
		sort.Strings(archives)
		return archives, nil
	}

	if transportErr != nil {
		return nil, transportErr
	}
	return nil, nil
}

// Enumerate lists every archive of an entity, classified by filename
// pattern. Files matching no known pattern land in "other" rather than
// being dropped, so operators can still discover them.
func (s *Service) Enumerate(ctx context.Context, ref *models.EntityRef) ([]models.ArchiveDescriptor, error) {
	names, err := s.listArchives(ctx, ref)
	if err != nil {
		return nil, err
	}

	descs := make([]models.ArchiveDescriptor, 0, len(names))
	for _, name := range names {
		descs = append(descs, models.ArchiveDescriptor{
			Entity:     *ref,
			Category:   Classify(name),
			Filename:   name,
			Path:       path.Join(s.devicePath(ref.Hostname), name),
			AccessMode: models.AccessUnresolved,
		})
	}
	return descs, nil
}

// Classification patterns, checked in order; first match wins.
var categoryPatterns = []struct {
	category models.Category
	patterns []string
}{
	{models.CategorySystem, []string{"la.rrd", "load", "cpu", "processor", "mem", "swap", "hr_", "uptime", "storage"}},
	{models.CategoryNetwork, []string{"port-", "netstats", "ip"}},
	{models.CategorySensors, []string{"sensor", "temp", "volt", "fan", "power", "alert-7"}},
	{models.CategoryPerformance, []string{"perf", "poller"}},
}

// Classify buckets an archive filename into its semantic category.
func Classify(filename string) models.Category {
	lower := strings.ToLower(filename)
	for _, group := range categoryPatterns {
		for _, p := range group.patterns {
			if strings.Contains(lower, p) {
				return group.category
			}
		}
	}
	return models.CategoryOther
}
