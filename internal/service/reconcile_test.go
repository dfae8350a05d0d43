package service_test

import (
	"database/sql"
	"testing"

	"github.com/VeraMao/meowtrition-v2/internal/service"
)

func setupCatWithPlan(t *testing.T) (*sql.DB, int64, int64) {
	t.Helper()
	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Olive", 4.0)
	foodID := addTestFood(t, sqldb, "Kibble", "dry", 400)
	savePlanForCat(t, sqldb, catID, foodID)
	return sqldb, catID, foodID
}

// Editing only cosmetic fields never opens a plan review; the profile is
// committed immediately.
func TestUpdateCatCosmeticEditCommitsDirectly(t *testing.T) {
	t.Parallel()

	sqldb, catID, _ := setupCatWithPlan(t)
	result, err := service.UpdateCat(sqldb, catID, service.CatUpdate{
		Name:  ptr("Olive II"),
		Breed: ptr("Ragdoll"),
	})
	if err != nil {
		t.Fatalf("update cat: %v", err)
	}
	if result.Review != nil {
		t.Fatal("cosmetic edit should not open a review")
	}

	cat, err := service.GetCat(sqldb, catID)
	if err != nil {
		t.Fatalf("get cat: %v", err)
	}
	if cat.Name != "Olive II" || cat.Breed != "Ragdoll" {
		t.Fatalf("profile not committed: %q / %q", cat.Name, cat.Breed)
	}
}

// A weight change with a saved plan parks the edit in a pending review;
// the stored profile stays untouched until the user decides.
func TestUpdateCatWeightChangeOpensReview(t *testing.T) {
	t.Parallel()

	sqldb, catID, _ := setupCatWithPlan(t)
	plan, err := service.GetPlan(sqldb, catID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}

	result, err := service.UpdateCat(sqldb, catID, service.CatUpdate{Weight: ptr(5.0)})
	if err != nil {
		t.Fatalf("update cat: %v", err)
	}
	if result.Review == nil {
		t.Fatal("weight change with a plan should open a review")
	}
	if result.Review.OldCalories != plan.TotalCaloriesPerDay {
		t.Fatalf("old calories: got %d, want %d", result.Review.OldCalories, plan.TotalCaloriesPerDay)
	}
	if result.Review.NewCalories <= result.Review.OldCalories {
		t.Fatalf("heavier cat should need more calories: old=%d new=%d",
			result.Review.OldCalories, result.Review.NewCalories)
	}

	cat, err := service.GetCat(sqldb, catID)
	if err != nil {
		t.Fatalf("get cat: %v", err)
	}
	if cat.CurrentWeightKg != 4.0 {
		t.Fatalf("profile should not be committed yet: weight=%v", cat.CurrentWeightKg)
	}

	pending, err := service.GetPendingReview(sqldb, catID)
	if err != nil {
		t.Fatalf("get pending review: %v", err)
	}
	if pending == nil || pending.State != "pending" {
		t.Fatalf("pending review: got %+v", pending)
	}
}

// Without a saved plan the same nutritional edit commits immediately.
func TestUpdateCatWithoutPlanCommitsDirectly(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Juniper", 4.0)

	result, err := service.UpdateCat(sqldb, catID, service.CatUpdate{Weight: ptr(5.0)})
	if err != nil {
		t.Fatalf("update cat: %v", err)
	}
	if result.Review != nil {
		t.Fatal("no plan means no review")
	}
	cat, err := service.GetCat(sqldb, catID)
	if err != nil {
		t.Fatalf("get cat: %v", err)
	}
	if cat.CurrentWeightKg != 5.0 {
		t.Fatalf("weight not committed: %v", cat.CurrentWeightKg)
	}
}

func TestApplyPlanReviewUpdatesPlanAndProfile(t *testing.T) {
	t.Parallel()

	sqldb, catID, _ := setupCatWithPlan(t)
	result, err := service.UpdateCat(sqldb, catID, service.CatUpdate{Weight: ptr(5.0)})
	if err != nil {
		t.Fatalf("update cat: %v", err)
	}
	review := result.Review

	if err := service.ApplyPlanReview(sqldb, catID); err != nil {
		t.Fatalf("apply review: %v", err)
	}

	cat, err := service.GetCat(sqldb, catID)
	if err != nil {
		t.Fatalf("get cat: %v", err)
	}
	if cat.CurrentWeightKg != 5.0 {
		t.Fatalf("profile weight: got %v, want 5.0", cat.CurrentWeightKg)
	}

	plan, err := service.GetPlan(sqldb, catID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if plan.TotalCaloriesPerDay != review.NewCalories {
		t.Fatalf("plan calories: got %d, want %d", plan.TotalCaloriesPerDay, review.NewCalories)
	}
	if plan.TotalGramsPerDay != review.NewGrams {
		t.Fatalf("plan grams: got %d, want %d", plan.TotalGramsPerDay, review.NewGrams)
	}
	// Applying resets the split to an even half and half.
	if plan.AmGrams+plan.PmGrams != plan.TotalGramsPerDay {
		t.Fatalf("am+pm %d+%d does not sum to %d", plan.AmGrams, plan.PmGrams, plan.TotalGramsPerDay)
	}
	if diff := plan.AmGrams - plan.PmGrams; diff < -1 || diff > 1 {
		t.Fatalf("apply should split 50/50: am=%d pm=%d", plan.AmGrams, plan.PmGrams)
	}

	pending, err := service.GetPendingReview(sqldb, catID)
	if err != nil {
		t.Fatalf("get pending review: %v", err)
	}
	if pending != nil {
		t.Fatal("review should be resolved")
	}
}

func TestKeepPlanReviewCommitsProfileOnly(t *testing.T) {
	t.Parallel()

	sqldb, catID, _ := setupCatWithPlan(t)
	before, err := service.GetPlan(sqldb, catID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}

	if _, err := service.UpdateCat(sqldb, catID, service.CatUpdate{Weight: ptr(5.0)}); err != nil {
		t.Fatalf("update cat: %v", err)
	}
	if err := service.KeepPlanReview(sqldb, catID); err != nil {
		t.Fatalf("keep review: %v", err)
	}

	cat, err := service.GetCat(sqldb, catID)
	if err != nil {
		t.Fatalf("get cat: %v", err)
	}
	if cat.CurrentWeightKg != 5.0 {
		t.Fatalf("profile weight: got %v, want 5.0", cat.CurrentWeightKg)
	}
	after, err := service.GetPlan(sqldb, catID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if after.TotalCaloriesPerDay != before.TotalCaloriesPerDay || after.TotalGramsPerDay != before.TotalGramsPerDay {
		t.Fatal("keep must leave the plan untouched")
	}
}

func TestDismissPlanReviewDropsEdit(t *testing.T) {
	t.Parallel()

	sqldb, catID, _ := setupCatWithPlan(t)
	if _, err := service.UpdateCat(sqldb, catID, service.CatUpdate{Weight: ptr(5.0)}); err != nil {
		t.Fatalf("update cat: %v", err)
	}
	if err := service.DismissPlanReview(sqldb, catID); err != nil {
		t.Fatalf("dismiss review: %v", err)
	}

	cat, err := service.GetCat(sqldb, catID)
	if err != nil {
		t.Fatalf("get cat: %v", err)
	}
	if cat.CurrentWeightKg != 4.0 {
		t.Fatalf("dismiss must drop the edit: weight=%v", cat.CurrentWeightKg)
	}
	if err := service.DismissPlanReview(sqldb, catID); err == nil {
		t.Fatal("second dismiss should report no pending review")
	}
}

// A second edit replaces whatever review the first one left pending.
func TestNewEditSupersedesPendingReview(t *testing.T) {
	t.Parallel()

	sqldb, catID, _ := setupCatWithPlan(t)
	if _, err := service.UpdateCat(sqldb, catID, service.CatUpdate{Weight: ptr(5.0)}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	result, err := service.UpdateCat(sqldb, catID, service.CatUpdate{Weight: ptr(6.0)})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if result.Review == nil {
		t.Fatal("second edit should open a fresh review")
	}

	var pendingCount int
	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM plan_reviews WHERE cat_id = ? AND state = 'pending'`, catID).Scan(&pendingCount); err != nil {
		t.Fatalf("count pending reviews: %v", err)
	}
	if pendingCount != 1 {
		t.Fatalf("expected exactly 1 pending review, got %d", pendingCount)
	}
}

// Deleting the plan's food degrades the flow: the edit commits, a warning
// is logged, and no review is opened.
func TestUpdateCatMissingFoodCommitsWithoutReview(t *testing.T) {
	t.Parallel()

	sqldb, catID, foodID := setupCatWithPlan(t)
	// Remove the food out from under the plan.
	if _, err := sqldb.Exec(`PRAGMA foreign_keys = OFF`); err != nil {
		t.Fatalf("disable fks: %v", err)
	}
	if _, err := sqldb.Exec(`DELETE FROM foods WHERE id = ?`, foodID); err != nil {
		t.Fatalf("delete food: %v", err)
	}

	result, err := service.UpdateCat(sqldb, catID, service.CatUpdate{Weight: ptr(5.0)})
	if err != nil {
		t.Fatalf("update cat: %v", err)
	}
	if result.Review != nil {
		t.Fatal("missing food should skip the review")
	}
	cat, err := service.GetCat(sqldb, catID)
	if err != nil {
		t.Fatalf("get cat: %v", err)
	}
	if cat.CurrentWeightKg != 5.0 {
		t.Fatalf("edit should still commit: weight=%v", cat.CurrentWeightKg)
	}
}

// Recording a weight within 0.1 kg of the target reports the goal as
// reached.
func TestRecordWeightReportsTargetReached(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	target := 4.0
	catID, err := service.AddCat(sqldb, service.CatInput{
		Name:          "Maple",
		Age:           5,
		Weight:        4.5,
		WeightUnit:    "kg",
		TargetWeight:  &target,
		IsNeutered:    true,
		ActivityLevel: "medium",
	})
	if err != nil {
		t.Fatalf("add cat: %v", err)
	}

	result, err := service.RecordWeight(sqldb, catID, 4.05, "kg")
	if err != nil {
		t.Fatalf("record weight: %v", err)
	}
	if result.Proximity != service.TargetReached {
		t.Fatalf("proximity: got %v, want reached", result.Proximity)
	}
}

// Age is a review trigger even though it does not feed the energy formula
// today.
func TestUpdateCatAgeChangeOpensReview(t *testing.T) {
	t.Parallel()

	sqldb, catID, _ := setupCatWithPlan(t)
	result, err := service.UpdateCat(sqldb, catID, service.CatUpdate{Age: ptr(8)})
	if err != nil {
		t.Fatalf("update cat: %v", err)
	}
	if result.Review == nil {
		t.Fatal("age change should open a review")
	}
}

func TestUpdateCatActivityChangeOpensReview(t *testing.T) {
	t.Parallel()

	sqldb, catID, _ := setupCatWithPlan(t)
	result, err := service.UpdateCat(sqldb, catID, service.CatUpdate{ActivityLevel: ptr("high")})
	if err != nil {
		t.Fatalf("update cat: %v", err)
	}
	if result.Review == nil {
		t.Fatal("activity change should open a review")
	}
	if result.Review.NewCalories <= result.Review.OldCalories {
		t.Fatalf("higher activity should raise calories: old=%d new=%d",
			result.Review.OldCalories, result.Review.NewCalories)
	}
	if _, err := service.GetCat(sqldb, catID); err != nil {
		t.Fatalf("get cat: %v", err)
	}

	var state string
	if err := sqldb.QueryRow(`SELECT state FROM plan_reviews WHERE cat_id = ? ORDER BY id DESC LIMIT 1`, catID).Scan(&state); err != nil {
		t.Fatalf("read review state: %v", err)
	}
	if state != "pending" {
		t.Fatalf("review state: got %q", state)
	}
}

func TestUpdateCatUnknownCat(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	if _, err := service.UpdateCat(sqldb, 42, service.CatUpdate{Name: ptr("Ghost")}); err == nil {
		t.Fatal("expected not found error")
	}
}
