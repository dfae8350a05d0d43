package service_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/VeraMao/meowtrition-v2/internal/db"
	"github.com/VeraMao/meowtrition-v2/internal/service"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "meowtrition.db")
	sqldb, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { sqldb.Close() })
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func addTestCat(t *testing.T, sqldb *sql.DB, name string, weightKg float64) int64 {
	t.Helper()
	id, err := service.AddCat(sqldb, service.CatInput{
		Name:          name,
		Age:           3,
		Weight:        weightKg,
		WeightUnit:    "kg",
		IsNeutered:    true,
		ActivityLevel: "medium",
	})
	if err != nil {
		t.Fatalf("add cat %s: %v", name, err)
	}
	return id
}

func addTestFood(t *testing.T, sqldb *sql.DB, name, foodType string, kcalPer100g float64) int64 {
	t.Helper()
	id, err := service.AddFood(sqldb, service.FoodInput{
		Name:         name,
		Type:         foodType,
		CalorieValue: kcalPer100g,
		CalorieUnit:  "kcal/100g",
	})
	if err != nil {
		t.Fatalf("add food %s: %v", name, err)
	}
	return id
}

func savePlanForCat(t *testing.T, sqldb *sql.DB, catID, foodID int64) {
	t.Helper()
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
	if err := service.SavePlan(sqldb, plan); err != nil {
		t.Fatalf("save plan: %v", err)
	}
}
