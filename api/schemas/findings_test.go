package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSeverity(t *testing.T) {
	cases := []struct {
		in   string
		want Severity
	}{
		{"critical", SeverityCritical},
		{"CRIT", SeverityCritical},
		{"5", SeverityCritical},
		{"High", SeverityHigh},
		{"error", SeverityHigh},
		{"4", SeverityHigh},
		{"medium", SeverityMedium},
		{"MODERATE", SeverityMedium},
		{"warning", SeverityMedium},
		{"3", SeverityMedium},
		{"low", SeverityLow},
		{"2", SeverityLow},
		{"info", SeverityInfo},
		{"note", SeverityInfo},
		{"none", SeverityInfo},
		{"  high  ", SeverityHigh},
		{"", SeverityInfo},
		{"bogus", SeverityInfo},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeSeverity(tc.in), "input %q", tc.in)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusOpen, StatusInvestigating, StatusResolved, StatusClosed} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("in_progress"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("OPEN"))
}
