package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Literals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		severity    string
		exposure    string
		criticality string
		want        int
	}{
		{"high internet high", "high", "internet", "high", 195},
		{"info internal low", "info", "internal", "low", 8},
		{"critical internet high clamps to max", "critical", "internet", "high", 200},
		{"medium internal medium", "medium", "internal", "medium", 60},
		{"low internet medium", "low", "internet", "medium", 45},
		{"unrecognized everything", "bogus", "bogus", "bogus", 10},
		{"case insensitive", "HIGH", "Internet", "HIGH", 195},
		{"empty input", "", "", "", 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Score(tt.severity, tt.exposure, tt.criticality))
		})
	}
}

func TestScore_Bounds(t *testing.T) {
	t.Parallel()

	severities := []string{"info", "low", "medium", "high", "critical", "junk"}
	exposures := []string{"internal", "internet", "junk"}
	criticalities := []string{"low", "medium", "high", "junk"}

	for _, s := range severities {
		for _, e := range exposures {
			for _, c := range criticalities {
				got := Score(s, e, c)
				assert.GreaterOrEqual(t, got, MinScore, "score(%s,%s,%s)", s, e, c)
				assert.LessOrEqual(t, got, MaxScore, "score(%s,%s,%s)", s, e, c)
			}
		}
	}
}
