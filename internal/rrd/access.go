// Package rrd locates, enumerates and reads RRD archive files. Archives live
// under one directory per device hostname, either on the local filesystem or
// on a remote host reached over SSH; both paths sit behind the same Runner
// capability so the locator and fetcher stay path-agnostic.
package rrd

import (
	"context"

	"github.com/kdesch5000/observium-mcp/internal/models"
)

// Runner is the archive-access capability: run an archive-read command and
// probe the file tree. Both implementations use the same existence
// semantics — a present-but-empty file counts as found — so local and
// remote deployments behave identically.
type Runner interface {
	// Run executes a command and returns its stdout. A non-zero exit comes
	// back as *CommandError; the remote implementation reports channel
	// problems (unreachable host, failed auth) as TransportFailure instead,
	// because operators fix those differently from archive-content errors.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// Exists probes a path without reading it.
	Exists(ctx context.Context, path string) (bool, error)

	// ListDir lists the entries of a directory, one name per element.
	ListDir(ctx context.Context, path string) ([]string, error)

	Mode() models.AccessMode
}

// CommandError is a command that ran but exited non-zero. It is a content
// level failure (missing archive, unreadable data), never a transport one.
type CommandError struct {
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return "command failed: " + e.Stderr
	}
	return "command failed: " + e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
