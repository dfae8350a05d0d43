package service_test

import (
	"math"
	"strings"
	"testing"

	"github.com/VeraMao/meowtrition-v2/internal/model"
	"github.com/VeraMao/meowtrition-v2/internal/service"
)

func TestAddAndGetCat(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	target := 4.0
	id, err := service.AddCat(sqldb, service.CatInput{
		Name:          "Mochi",
		Breed:         "British Shorthair",
		Gender:        "female",
		Age:           4,
		Weight:        5.2,
		WeightUnit:    "kg",
		TargetWeight:  &target,
		IsNeutered:    true,
		ActivityLevel: "low",
	})
	if err != nil {
		t.Fatalf("add cat: %v", err)
	}

	cat, err := service.GetCat(sqldb, id)
	if err != nil {
		t.Fatalf("get cat: %v", err)
	}
	if cat.Name != "Mochi" {
		t.Fatalf("name: got %q", cat.Name)
	}
	if cat.CurrentWeightKg != 5.2 {
		t.Fatalf("weight: got %v", cat.CurrentWeightKg)
	}
	if cat.TargetWeightKg == nil || *cat.TargetWeightKg != 4.0 {
		t.Fatalf("target weight: got %v", cat.TargetWeightKg)
	}
	if cat.BodyCondition != model.ConditionOverweight {
		t.Fatalf("body condition: got %s", cat.BodyCondition)
	}

	// Creation seeds the weight history.
	history, err := service.WeightHistory(sqldb, id, 0)
	if err != nil {
		t.Fatalf("weight history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 weight entry, got %d", len(history))
	}
}

func TestAddCatStoresWeightInKgFromLb(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	id, err := service.AddCat(sqldb, service.CatInput{
		Name:          "Biscuit",
		Age:           2,
		Weight:        11,
		WeightUnit:    "lb",
		IsNeutered:    false,
		ActivityLevel: "high",
	})
	if err != nil {
		t.Fatalf("add cat: %v", err)
	}
	cat, err := service.GetCat(sqldb, id)
	if err != nil {
		t.Fatalf("get cat: %v", err)
	}
	if math.Abs(cat.CurrentWeightKg-11/2.20462) > 1e-6 {
		t.Fatalf("weight in kg: got %v", cat.CurrentWeightKg)
	}
	if cat.WeightUnitPref != "lb" {
		t.Fatalf("unit pref: got %q", cat.WeightUnitPref)
	}
}

func TestAddCatValidation(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	cases := []struct {
		name string
		in   service.CatInput
	}{
		{"empty name", service.CatInput{Weight: 4, ActivityLevel: "low"}},
		{"zero weight", service.CatInput{Name: "X", Weight: 0, ActivityLevel: "low"}},
		{"negative age", service.CatInput{Name: "X", Age: -1, Weight: 4, ActivityLevel: "low"}},
		{"bad activity", service.CatInput{Name: "X", Weight: 4, ActivityLevel: "hyper"}},
		{"bad gender", service.CatInput{Name: "X", Weight: 4, ActivityLevel: "low", Gender: "unknown"}},
	}
	for _, tc := range cases {
		if _, err := service.AddCat(sqldb, tc.in); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestDeleteCatCascades(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Ghost", 4.0)
	foodID := addTestFood(t, sqldb, "Kibble", "dry", 380)
	savePlanForCat(t, sqldb, catID, foodID)

	if err := service.DeleteCat(sqldb, catID); err != nil {
		t.Fatalf("delete cat: %v", err)
	}
	if _, err := service.GetCat(sqldb, catID); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found, got %v", err)
	}
	plan, err := service.GetPlan(sqldb, catID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if plan != nil {
		t.Fatal("plan should be deleted with the cat")
	}

	if err := service.DeleteCat(sqldb, catID); err == nil {
		t.Fatal("second delete should report not found")
	}
}

func TestRecordWeightUpdatesConditionAndHistory(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Pudge", 4.0)

	result, err := service.RecordWeight(sqldb, catID, 5.6, "kg")
	if err != nil {
		t.Fatalf("record weight: %v", err)
	}
	if result.Condition != model.ConditionObese {
		t.Fatalf("body condition after gain: got %s", result.Condition)
	}

	cat, err := service.GetCat(sqldb, catID)
	if err != nil {
		t.Fatalf("get cat: %v", err)
	}
	if cat.CurrentWeightKg != 5.6 {
		t.Fatalf("current weight: got %v", cat.CurrentWeightKg)
	}
	history, err := service.WeightHistory(sqldb, catID, 0)
	if err != nil {
		t.Fatalf("weight history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 weight entries, got %d", len(history))
	}
}

func TestEvaluateWeightTarget(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		weight float64
		target *float64
		unit   string
		want   service.TargetProximity
	}{
		{"no target", 5.0, nil, "kg", service.TargetNone},
		{"reached", 4.05, ptr(4.0), "kg", service.TargetReached},
		{"close kg", 4.8, ptr(4.0), "kg", service.TargetClose},
		{"far kg", 5.0, ptr(4.0), "kg", service.TargetNone},
		{"close lb band", 4.85, ptr(4.0), "lb", service.TargetClose},
	}
	for _, tc := range cases {
		if got := service.EvaluateWeightTarget(tc.weight, tc.target, tc.unit); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSelectFoodRequiresExistingFood(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Nori", 4.0)
	if err := service.SelectFood(sqldb, catID, 999); err == nil {
		t.Fatal("expected error for missing food")
	}

	foodID := addTestFood(t, sqldb, "Pate", "wet", 95)
	if err := service.SelectFood(sqldb, catID, foodID); err != nil {
		t.Fatalf("select food: %v", err)
	}
	cat, err := service.GetCat(sqldb, catID)
	if err != nil {
		t.Fatalf("get cat: %v", err)
	}
	if cat.SelectedFoodID == nil || *cat.SelectedFoodID != foodID {
		t.Fatalf("selected food: got %v", cat.SelectedFoodID)
	}
}

func TestChangeWeightGoalRecalculatesTarget(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Tank", 5.0)

	newTarget, err := service.ChangeWeightGoal(sqldb, catID, "lose", nil)
	if err != nil {
		t.Fatalf("change goal: %v", err)
	}
	if math.Abs(newTarget-4.0) > 1e-9 {
		t.Fatalf("lose target: got %v, want 4.0", newTarget)
	}
	cat, err := service.GetCat(sqldb, catID)
	if err != nil {
		t.Fatalf("get cat: %v", err)
	}
	if cat.TargetWeightKg == nil || math.Abs(*cat.TargetWeightKg-4.0) > 1e-9 {
		t.Fatalf("stored target: got %v", cat.TargetWeightKg)
	}
}
