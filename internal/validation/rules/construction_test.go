package rules

import (
	"testing"

	"github.com/mechforge/mechforge/internal/validation/rule"
)

func TestEngineRequired(t *testing.T) {
	d := engineRequiredRule()

	t.Run("missing engine is critical", func(t *testing.T) {
		res := d.Validate(rule.NewContext(mech(55), nil))
		if res.Passed {
			t.Fatal("expected failure without engine")
		}
		if res.CriticalErrorCount() != 1 {
			t.Fatalf("expected critical severity, got %+v", res)
		}
	})

	t.Run("installed engine passes", func(t *testing.T) {
		u := mech(55)
		u.EngineRating = 275
		if res := d.Validate(rule.NewContext(u, nil)); !res.Passed {
			t.Fatalf("expected pass, got %+v", res)
		}
	})
}

func TestEngineRating(t *testing.T) {
	d := engineRatingRule()

	t.Run("not applicable without engine", func(t *testing.T) {
		if d.CanValidate(rule.NewContext(mech(55), nil)) {
			t.Fatal("expected rule inapplicable without engine")
		}
	})

	tests := []struct {
		name     string
		rating   int
		wantPass bool
	}{
		{"standard rating", 275, true},
		{"maximum rating", 400, true},
		{"over maximum", 405, false},
		{"off-increment", 277, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := mech(55)
			u.EngineRating = tt.rating
			res := d.Validate(rule.NewContext(u, nil))
			if res.Passed != tt.wantPass {
				t.Fatalf("expected pass=%v, got %+v", tt.wantPass, res)
			}
		})
	}
}

func TestWalkSpeed(t *testing.T) {
	d := walkSpeedRule()

	t.Run("not applicable without declared speed", func(t *testing.T) {
		u := mech(55)
		u.EngineRating = 275
		if d.CanValidate(rule.NewContext(u, nil)) {
			t.Fatal("expected rule inapplicable without walk MP")
		}
	})

	t.Run("matching speed passes", func(t *testing.T) {
		u := mech(55)
		u.EngineRating = 275
		u.WalkMP = 5
		if res := d.Validate(rule.NewContext(u, nil)); !res.Passed {
			t.Fatalf("expected pass, got %+v", res)
		}
	})

	t.Run("mismatched speed fails", func(t *testing.T) {
		u := mech(55)
		u.EngineRating = 275
		u.WalkMP = 6
		if res := d.Validate(rule.NewContext(u, nil)); res.Passed {
			t.Fatalf("expected mismatch failure, got %+v", res)
		}
	})

	t.Run("fractional ratio floors", func(t *testing.T) {
		u := mech(55)
		u.EngineRating = 280 // 280/55 = 5.09
		u.WalkMP = 5
		if res := d.Validate(rule.NewContext(u, nil)); !res.Passed {
			t.Fatalf("expected floored expectation to pass, got %+v", res)
		}
	})
}
