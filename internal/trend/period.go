// Package trend maps human period vocabulary onto archive-native sampling
// windows and reduces raw sample sequences into display series and summary
// statistics.
package trend

import (
	"github.com/kdesch5000/observium-mcp/internal/models"
	"github.com/kdesch5000/observium-mcp/internal/toolerr"
)

// DefaultPeriod applies when a request omits the period token.
const DefaultPeriod = "1d"

// The period table. Shorter windows use the archive's fine retained
// resolution, longer ones its coarser consolidated tiers; every display
// budget stays at or under 100 points.
var periods = []models.PeriodSpec{
	{Token: "1h", Window: 3_600, NativeStep: 60, TargetPoints: 60},
	{Token: "6h", Window: 21_600, NativeStep: 300, TargetPoints: 72},
	{Token: "1d", Window: 86_400, NativeStep: 900, TargetPoints: 96},
	{Token: "1w", Window: 604_800, NativeStep: 7_200, TargetPoints: 84},
	{Token: "1m", Window: 2_678_400, NativeStep: 43_200, TargetPoints: 62},
}

// Map translates a period token into its spec. An empty token maps to the
// default; an unrecognized one fails rather than silently falling back,
// because a wrong window silently accepted would mislead trend analysis.
func Map(token string) (models.PeriodSpec, error) {
	if token == "" {
		token = DefaultPeriod
	}
	for _, p := range periods {
		if p.Token == token {
			return p, nil
		}
	}
	return models.PeriodSpec{}, toolerr.WithAlternatives(toolerr.InvalidArgument, Tokens(),
		"unknown period: %s", token)
}

// Tokens returns the valid period tokens in window order.
func Tokens() []string {
	tokens := make([]string, len(periods))
	for i, p := range periods {
		tokens[i] = p.Token
	}
	return tokens
}
