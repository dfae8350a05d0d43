package service_test

import (
	"testing"

	"github.com/VeraMao/meowtrition-v2/internal/model"
	"github.com/VeraMao/meowtrition-v2/internal/service"
)

func TestBuildPlanSingleFood(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Clover", 4.0)
	foodID := addTestFood(t, sqldb, "Kibble", "dry", 400)

	plan, err := service.BuildPlan(sqldb, service.PlanInput{
		CatID:       catID,
		FoodID:      foodID,
		WeightGoal:  "maintain",
		AmPercent:   60,
		MealsPerDay: 3,
	})
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}

	// 70 * 4^0.75 * 1.4 is about 277 kcal; at 400 kcal/100g that is about
	// 69 g/day.
	if plan.TotalCaloriesPerDay < 270 || plan.TotalCaloriesPerDay > 285 {
		t.Fatalf("total calories out of range: %d", plan.TotalCaloriesPerDay)
	}
	if plan.TotalGramsPerDay < 65 || plan.TotalGramsPerDay > 72 {
		t.Fatalf("total grams out of range: %d", plan.TotalGramsPerDay)
	}
	if plan.AmGrams+plan.PmGrams != plan.TotalGramsPerDay {
		t.Fatalf("am+pm %d+%d does not sum to %d", plan.AmGrams, plan.PmGrams, plan.TotalGramsPerDay)
	}
	if len(plan.MealSchedules) != 3 {
		t.Fatalf("expected 3 meal schedules, got %d", len(plan.MealSchedules))
	}
	if plan.MealSchedules[0].Time != "08:00" || plan.MealSchedules[1].Time != "18:00" {
		t.Fatalf("meal times: got %s / %s", plan.MealSchedules[0].Time, plan.MealSchedules[1].Time)
	}
	if plan.IsMixed {
		t.Fatal("single food plan should not be mixed")
	}
	if plan.TreatAllowanceKcal == 0 {
		t.Fatal("treat allowance should be set")
	}
}

func TestBuildPlanZeroMealsFreeFeeding(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Willow", 4.0)
	foodID := addTestFood(t, sqldb, "Kibble", "dry", 400)

	plan, err := service.BuildPlan(sqldb, service.PlanInput{
		CatID:      catID,
		FoodID:     foodID,
		WeightGoal: "maintain",
		AmPercent:  50,
	})
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	if plan.FeedingType != "free" {
		t.Fatalf("feeding type: got %q, want free", plan.FeedingType)
	}
	if len(plan.MealSchedules) != 0 {
		t.Fatalf("free feeding should have no schedule, got %d entries", len(plan.MealSchedules))
	}
	if plan.TotalGramsPerDay == 0 {
		t.Fatal("daily grams should still be computed")
	}
}

func TestSavePlanRoundTrip(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Basil", 4.0)
	foodID := addTestFood(t, sqldb, "Kibble", "dry", 400)

	plan, err := service.BuildPlan(sqldb, service.PlanInput{
		CatID:       catID,
		FoodID:      foodID,
		WeightGoal:  "lose",
		AmPercent:   50,
		MealsPerDay: 2,
	})
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	if err := service.SavePlan(sqldb, plan); err != nil {
		t.Fatalf("save plan: %v", err)
	}

	loaded, err := service.GetPlan(sqldb, catID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected a saved plan")
	}
	if loaded.TotalCaloriesPerDay != plan.TotalCaloriesPerDay {
		t.Fatalf("calories: got %d, want %d", loaded.TotalCaloriesPerDay, plan.TotalCaloriesPerDay)
	}
	if loaded.WeightGoal != model.GoalLose {
		t.Fatalf("goal: got %s", loaded.WeightGoal)
	}
	if len(loaded.MealSchedules) != 2 {
		t.Fatalf("schedules: got %d", len(loaded.MealSchedules))
	}

	// Saving marks the food as selected.
	cat, err := service.GetCat(sqldb, catID)
	if err != nil {
		t.Fatalf("get cat: %v", err)
	}
	if cat.SelectedFoodID == nil || *cat.SelectedFoodID != foodID {
		t.Fatalf("selected food: got %v", cat.SelectedFoodID)
	}
}

// Saving a plan for a cat that already has one replaces it wholesale.
func TestSavePlanReplacesExisting(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Fern", 4.0)
	first := addTestFood(t, sqldb, "Kibble", "dry", 400)
	second := addTestFood(t, sqldb, "Pate", "wet", 90)

	savePlanForCat(t, sqldb, catID, first)
	savePlanForCat(t, sqldb, catID, second)

	loaded, err := service.GetPlan(sqldb, catID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if loaded.FoodID != second {
		t.Fatalf("plan food: got %d, want %d", loaded.FoodID, second)
	}

	var count int
	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM feeding_plans WHERE cat_id = ?`, catID).Scan(&count); err != nil {
		t.Fatalf("count plans: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 plan row, got %d", count)
	}
}

func TestSavePlanRejectsMismatchedTotals(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Sage", 4.0)
	foodID := addTestFood(t, sqldb, "Kibble", "dry", 400)

	plan, err := service.BuildPlan(sqldb, service.PlanInput{
		CatID:       catID,
		FoodID:      foodID,
		WeightGoal:  "maintain",
		AmPercent:   50,
		MealsPerDay: 2,
	})
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	plan.AmGrams += 10
	if err := service.SavePlan(sqldb, plan); err == nil {
		t.Fatal("expected error for am/pm mismatch")
	}
}

func TestSaveMixPlan(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Pepper", 4.0)
	dryID := addTestFood(t, sqldb, "Kibble", "dry", 350)
	wetID := addTestFood(t, sqldb, "Pate", "wet", 90)

	dry, err := service.GetFood(sqldb, dryID)
	if err != nil {
		t.Fatalf("get dry food: %v", err)
	}
	wet, err := service.GetFood(sqldb, wetID)
	if err != nil {
		t.Fatalf("get wet food: %v", err)
	}

	plan, err := service.BuildMixPlan(service.MixInput{
		TargetCalories: 300,
		DryFood:        &dry,
		WetFood:        &wet,
		DryPercent:     70,
		DryMealsPerDay: 2,
		WetMealsPerDay: 1,
		WeightGoal:     model.GoalMaintain,
	})
	if err != nil {
		t.Fatalf("build mix plan: %v", err)
	}
	plan.CatID = catID
	if err := service.SavePlan(sqldb, plan); err != nil {
		t.Fatalf("save mix plan: %v", err)
	}

	loaded, err := service.GetPlan(sqldb, catID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if !loaded.IsMixed {
		t.Fatal("loaded plan should be mixed")
	}
	if len(loaded.AmPortions) != 2 || len(loaded.PmPortions) != 2 {
		t.Fatalf("portions: got %d am / %d pm", len(loaded.AmPortions), len(loaded.PmPortions))
	}
	if len(loaded.MealSchedules) != 3 {
		t.Fatalf("schedules: got %d", len(loaded.MealSchedules))
	}
}
