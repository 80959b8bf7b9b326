// Package risk converts severity, exposure and asset criticality into a
// bounded numeric score used to rank findings.
package risk

import (
	"math"
	"strings"
)

// Score bounds. Scores are clamped so downstream sorting and UI gauges can
// rely on a fixed range.
const (
	MinScore = 1
	MaxScore = 200
)

// severityWeight is the base weight per canonical severity level.
var severityWeight = map[string]float64{
	"info":     1,
	"low":      3,
	"medium":   6,
	"high":     10,
	"critical": 15,
}

// exposureWeight scales findings on internet-facing assets above internal ones.
var exposureWeight = map[string]float64{
	"internal": 1.0,
	"internet": 1.5,
}

// criticalityWeight scales by business criticality of the affected asset.
var criticalityWeight = map[string]float64{
	"low":    0.8,
	"medium": 1.0,
	"high":   1.3,
}

// Score computes round(severity * exposure * criticality * 10), half up,
// clamped to [MinScore, MaxScore]. Lookups are case-insensitive; unrecognized
// severity falls back to weight 1 and unrecognized exposure/criticality to a
// neutral 1.0, so arbitrary input still yields a valid score.
func Score(severity, exposure, criticality string) int {
	s, ok := severityWeight[strings.ToLower(severity)]
	if !ok {
		s = 1
	}
	e, ok := exposureWeight[strings.ToLower(exposure)]
	if !ok {
		e = 1.0
	}
	c, ok := criticalityWeight[strings.ToLower(criticality)]
	if !ok {
		c = 1.0
	}

	raw := int(math.Round(s * e * c * 10))
	if raw < MinScore {
		return MinScore
	}
	if raw > MaxScore {
		return MaxScore
	}
	return raw
}
