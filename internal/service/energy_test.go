package service_test

import (
	"math"
	"testing"

	"github.com/VeraMao/meowtrition-v2/internal/model"
	"github.com/VeraMao/meowtrition-v2/internal/service"
)

func TestRestingEnergy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		weightKg float64
		want     float64
	}{
		{1, 70},
		{4, 70 * math.Pow(4, 0.75)},
		{5.5, 70 * math.Pow(5.5, 0.75)},
	}
	for _, tc := range cases {
		got, err := service.RestingEnergy(tc.weightKg)
		if err != nil {
			t.Fatalf("resting energy for %.1f kg: %v", tc.weightKg, err)
		}
		if math.Abs(got-tc.want) > 1e-6 {
			t.Fatalf("resting energy for %.1f kg: got %.6f, want %.6f", tc.weightKg, got, tc.want)
		}
	}
}

func TestRestingEnergyRejectsNonPositiveWeight(t *testing.T) {
	t.Parallel()

	for _, w := range []float64{0, -1} {
		if _, err := service.RestingEnergy(w); err == nil {
			t.Fatalf("expected error for weight %.1f", w)
		}
	}
}

func TestActivityFactorTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		level    model.ActivityLevel
		neutered bool
		want     float64
	}{
		{model.ActivityLow, true, 1.2},
		{model.ActivityLow, false, 1.4},
		{model.ActivityMedium, true, 1.4},
		{model.ActivityMedium, false, 1.6},
		{model.ActivityHigh, true, 1.6},
		{model.ActivityHigh, false, 2.0},
	}
	for _, tc := range cases {
		got, err := service.ActivityFactor(tc.level, tc.neutered)
		if err != nil {
			t.Fatalf("activity factor %s neutered=%v: %v", tc.level, tc.neutered, err)
		}
		if got != tc.want {
			t.Fatalf("activity factor %s neutered=%v: got %v, want %v", tc.level, tc.neutered, got, tc.want)
		}
	}
}

func TestGoalAdjustmentFactor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		goal   model.WeightGoal
		custom *float64
		want   float64
	}{
		{model.GoalMaintain, nil, 1.0},
		{model.GoalLose, nil, 0.8},
		{model.GoalGain, nil, 1.2},
		{model.GoalCustom, ptr(0.9), 0.9},
		{model.GoalCustom, nil, 1.0},
	}
	for _, tc := range cases {
		got, err := service.GoalAdjustmentFactor(tc.goal, tc.custom)
		if err != nil {
			t.Fatalf("goal factor %s: %v", tc.goal, err)
		}
		if got != tc.want {
			t.Fatalf("goal factor %s: got %v, want %v", tc.goal, got, tc.want)
		}
	}
}

func TestGoalAdjustmentFactorRejectsOutOfRangeCustom(t *testing.T) {
	t.Parallel()

	for _, v := range []float64{0.49, 1.51, -1} {
		if _, err := service.GoalAdjustmentFactor(model.GoalCustom, &v); err == nil {
			t.Fatalf("expected error for custom factor %v", v)
		}
	}
	for _, v := range []float64{0.5, 1.5} {
		if _, err := service.GoalAdjustmentFactor(model.GoalCustom, &v); err != nil {
			t.Fatalf("boundary custom factor %v should be accepted: %v", v, err)
		}
	}
}

// A neutered medium-activity 4.5 kg cat maintaining weight gets
// 70 * 4.5^0.75 * 1.4 kcal/day.
func TestTargetCaloriesMaintainScenario(t *testing.T) {
	t.Parallel()

	profile := model.CatProfile{
		CurrentWeightKg: 4.5,
		IsNeutered:      true,
		ActivityLevel:   model.ActivityMedium,
	}
	got, err := service.TargetCaloriesForGoal(profile, model.GoalMaintain, nil)
	if err != nil {
		t.Fatalf("target calories: %v", err)
	}
	want := 70 * math.Pow(4.5, 0.75) * 1.4
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("target calories: got %.6f, want %.6f", got, want)
	}
}

// For lose and gain goals with a target weight set, the energy base is the
// target weight, not the current weight.
func TestTargetCaloriesUsesTargetWeightForGoal(t *testing.T) {
	t.Parallel()

	profile := model.CatProfile{
		CurrentWeightKg: 6.0,
		TargetWeightKg:  ptr(5.0),
		IsNeutered:      true,
		ActivityLevel:   model.ActivityLow,
	}
	got, err := service.TargetCaloriesForGoal(profile, model.GoalLose, nil)
	if err != nil {
		t.Fatalf("target calories: %v", err)
	}
	want := 70 * math.Pow(5.0, 0.75) * 1.2 * 0.8
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("target calories with target weight: got %.6f, want %.6f", got, want)
	}

	// Maintain ignores the target weight.
	got, err = service.TargetCaloriesForGoal(profile, model.GoalMaintain, nil)
	if err != nil {
		t.Fatalf("target calories: %v", err)
	}
	want = 70 * math.Pow(6.0, 0.75) * 1.2
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("maintain should use current weight: got %.6f, want %.6f", got, want)
	}
}

func TestTreatAllowance(t *testing.T) {
	t.Parallel()

	if got := service.TreatAllowance(1000, model.GoalLose); got != 50 {
		t.Fatalf("lose treat allowance: got %d, want 50", got)
	}
	if got := service.TreatAllowance(1000, model.GoalMaintain); got != 100 {
		t.Fatalf("maintain treat allowance: got %d, want 100", got)
	}
	if got := service.TreatAllowance(1000, model.GoalGain); got != 100 {
		t.Fatalf("gain treat allowance: got %d, want 100", got)
	}
}

func TestInferWeightGoal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		current float64
		target  *float64
		want    model.WeightGoal
	}{
		{5.0, nil, model.GoalMaintain},
		{5.0, ptr(4.0), model.GoalLose},
		{5.0, ptr(6.0), model.GoalGain},
		{5.0, ptr(5.2), model.GoalMaintain},
	}
	for _, tc := range cases {
		if got := service.InferWeightGoal(tc.current, tc.target); got != tc.want {
			t.Fatalf("infer goal current=%.1f: got %s, want %s", tc.current, got, tc.want)
		}
	}
}

func TestCalculateTargetWeight(t *testing.T) {
	t.Parallel()

	got, err := service.CalculateTargetWeight(5.0, model.GoalLose, nil)
	if err != nil {
		t.Fatalf("calculate target weight: %v", err)
	}
	if math.Abs(got-4.0) > 1e-9 {
		t.Fatalf("lose target weight: got %.4f, want 4.0", got)
	}
	got, err = service.CalculateTargetWeight(5.0, model.GoalGain, nil)
	if err != nil {
		t.Fatalf("calculate target weight: %v", err)
	}
	if math.Abs(got-6.0) > 1e-9 {
		t.Fatalf("gain target weight: got %.4f, want 6.0", got)
	}
}

func ptr[T any](v T) *T { return &v }
