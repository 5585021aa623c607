package pricing

import (
	"testing"

	"jewel-pricing/internal/errors"
)

func TestHourlyRateForSkill(t *testing.T) {
	e := newTestEngine()
	tests := []struct {
		level string
		want  string
	}{
		{"basic", "37.5"},
		{"standard", "50"},
		{"advanced", "62.5"},
		{"expert", "75"},
		{"EXPERT", "75"},
		{" Advanced ", "62.5"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			rate, err := e.HourlyRateForSkill(tt.level, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertDecimal(t, "rate", rate, tt.want)
		})
	}
}

func TestHourlyRateUsesConfiguredWage(t *testing.T) {
	rate, err := GetHourlyRateForSkill("expert", &AdminSettings{Pricing: &PricingSettings{Wage: Float64(80)}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "rate", rate, "120")
}

// The public rate lookup is strict while process costing is lenient.
// Both behaviours are intentional and pinned here.
func TestSkillLevelStrictVersusLenient(t *testing.T) {
	e := newTestEngine()

	t.Run("strict rejects missing level", func(t *testing.T) {
		_, err := e.HourlyRateForSkill("", nil)
		assertErrorType(t, err, errors.TypeInvalidType)
	})

	t.Run("strict rejects unknown level", func(t *testing.T) {
		_, err := e.HourlyRateForSkill("master", nil)
		assertErrorType(t, err, errors.TypeOutOfRange)
	})

	t.Run("labor cost is strict", func(t *testing.T) {
		_, err := e.LaborCost(2, "master", nil)
		assertErrorType(t, err, errors.TypeOutOfRange)
	})

	for _, level := range []string{"", "master", "Journeyman"} {
		t.Run("process falls back to standard for "+level, func(t *testing.T) {
			res, err := e.ProcessCost(&Process{LaborHours: 1, SkillLevel: level}, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.SkillLevel != SkillStandard {
				t.Errorf("skill level = %q, want %q", res.SkillLevel, SkillStandard)
			}
			assertDecimal(t, "hourlyRate", res.HourlyRate, "50")
		})
	}
}

func TestLaborCost(t *testing.T) {
	cost, err := CalculateLaborCost(2.5, "advanced", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "laborCost", cost, "156.25")

	_, err = CalculateLaborCost(-1, "basic", nil)
	assertErrorType(t, err, errors.TypeOutOfRange)
}

func TestParseSkillLevel(t *testing.T) {
	for _, level := range SkillLevels() {
		got, err := ParseSkillLevel(string(level))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", level, err)
		}
		if got != level {
			t.Errorf("ParseSkillLevel(%q) = %q", level, got)
		}
		if _, ok := got.Multiplier(); !ok {
			t.Errorf("%s has no multiplier", level)
		}
	}
}
