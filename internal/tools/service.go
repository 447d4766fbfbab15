// Package tools implements the query operations exposed to callers (MCP and
// HTTP). Each operation is an independent, stateless unit of work: it
// resolves identifiers fresh, reads what it needs and returns a
// request-scoped result or a single taxonomy error.
package tools

import (
	"log/slog"

	"github.com/kdesch5000/observium-mcp/internal/inventory"
	"github.com/kdesch5000/observium-mcp/internal/rrd"
)

type Service struct {
	inv *inventory.Store
	rrd *rrd.Service
	log *slog.Logger
}

func New(inv *inventory.Store, archive *rrd.Service, log *slog.Logger) *Service {
	return &Service{
		inv: inv,
		rrd: archive,
		log: log.With("component", "tools"),
	}
}
