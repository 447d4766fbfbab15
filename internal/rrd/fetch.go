package rrd

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/kdesch5000/observium-mcp/internal/models"
	"github.com/kdesch5000/observium-mcp/internal/toolerr"
)

// Fetch reads one window of samples from an archive. The read is a single
// rrdtool invocation bounded to exactly (now - window, now); AVERAGE is the
// consolidation function, so when the window outlives the fine retention
// tier rrdtool transparently serves the coarser consolidated data.
func (s *Service) Fetch(ctx context.Context, desc *models.ArchiveDescriptor, spec models.PeriodSpec) (*models.FetchResult, error) {
	runner := s.runnerFor(desc.AccessMode)
	if runner == nil {
		return nil, toolerr.New(toolerr.ArchiveUnavailable,
			"no access path for archive %s (mode %s)", desc.Path, desc.AccessMode)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	end := time.Now().Unix()
	start := end - spec.Window

	args := []string{
		"fetch", desc.Path, "AVERAGE",
		"--start", strconv.FormatInt(start, 10),
		"--end", strconv.FormatInt(end, 10),
		"--resolution", strconv.FormatInt(spec.NativeStep, 10),
	}

	out, err := runner.Run(ctx, s.rrdtool, args...)
	if err != nil {
		return nil, classifyCommandError(err, desc)
	}

	result, err := ParseFetch(out)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.DataCorrupt, err, "unparsable fetch output from %s", desc.Path)
	}
	return result, nil
}

// Info reads an archive's metadata (datasource names, step, last update).
func (s *Service) Info(ctx context.Context, desc *models.ArchiveDescriptor) (*models.ArchiveInfo, error) {
	runner := s.runnerFor(desc.AccessMode)
	if runner == nil {
		return nil, toolerr.New(toolerr.ArchiveUnavailable,
			"no access path for archive %s (mode %s)", desc.Path, desc.AccessMode)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := runner.Run(ctx, s.rrdtool, "info", desc.Path)
	if err != nil {
		return nil, classifyCommandError(err, desc)
	}

	info, err := ParseInfo(out)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.DataCorrupt, err, "unparsable info output from %s", desc.Path)
	}
	return info, nil
}

// Healthy probes the archive base path; used by the health endpoint.
func (s *Service) Healthy(ctx context.Context) error {
	if len(s.runners) == 0 {
		return toolerr.New(toolerr.ArchiveUnavailable, "no archive access path configured")
	}
	found, err := s.runners[0].Exists(ctx, s.basePath)
	if err != nil {
		return err
	}
	if !found {
		return toolerr.New(toolerr.ArchiveUnavailable, "archive base path missing: %s", s.basePath)
	}
	return nil
}

// classifyCommandError separates transport failures (already tagged by the
// remote runner) from content failures: a missing file is ArchiveUnavailable,
// anything else rrdtool rejects is DataCorrupt.
func classifyCommandError(err error, desc *models.ArchiveDescriptor) error {
	if toolerr.KindOf(err) != "" {
		return err
	}

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		stderr := strings.ToLower(cmdErr.Stderr)
		if strings.Contains(stderr, "no such file") || strings.Contains(stderr, "does not exist") {
			return toolerr.Wrap(toolerr.ArchiveUnavailable, err, "archive missing: %s", desc.Path)
		}
		return toolerr.Wrap(toolerr.DataCorrupt, err, "archive read failed: %s", desc.Path)
	}
	return err
}
