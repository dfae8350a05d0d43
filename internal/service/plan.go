package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"

	"github.com/VeraMao/meowtrition-v2/internal/model"
)

type PlanInput struct {
	CatID        int64
	FoodID       int64
	WeightGoal   string
	CustomFactor *float64
	AmPercent    int
	MealsPerDay  int
}

// BuildPlan computes a single-food feeding plan for a cat without saving
// it: goal-adjusted target calories, daily grams from the food's density,
// AM/PM split by percentage, and an even meal schedule.
func BuildPlan(db *sql.DB, in PlanInput) (model.FeedingPlan, error) {
	cat, err := GetCat(db, in.CatID)
	if err != nil {
		return model.FeedingPlan{}, err
	}
	food, err := GetFood(db, in.FoodID)
	if err != nil {
		return model.FeedingPlan{}, err
	}
	goal, err := parseWeightGoal(in.WeightGoal)
	if err != nil {
		return model.FeedingPlan{}, err
	}
	if in.MealsPerDay < 0 || in.MealsPerDay > maxMealsPerDay {
		return model.FeedingPlan{}, fmt.Errorf("meals per day must be between 0 and %d", maxMealsPerDay)
	}

	target, err := TargetCaloriesForGoal(cat, goal, in.CustomFactor)
	if err != nil {
		return model.FeedingPlan{}, err
	}
	dailyGrams, err := GramsForCalories(target, food.CaloriesPer100g)
	if err != nil {
		return model.FeedingPlan{}, err
	}
	amGrams, pmGrams, err := SplitAmPm(dailyGrams, in.AmPercent)
	if err != nil {
		return model.FeedingPlan{}, err
	}
	// Zero meals is free feeding: the daily totals stand, but no
	// schedule entries are generated.
	var schedules []model.MealSchedule
	if in.MealsPerDay > 0 {
		meals, err := DistributeMealsEvenly(dailyGrams, target, in.MealsPerDay)
		if err != nil {
			return model.FeedingPlan{}, err
		}
		schedules = make([]model.MealSchedule, 0, len(meals))
		for i, meal := range meals {
			schedules = append(schedules, model.MealSchedule{
				Time:     defaultMealTime(i),
				Grams:    meal.Grams,
				Calories: meal.Calories,
			})
		}
	}

	feedingType := "scheduled"
	if in.MealsPerDay == 0 {
		feedingType = "free"
	}

	return model.FeedingPlan{
		CatID:               in.CatID,
		FoodID:              in.FoodID,
		TotalGramsPerDay:    int(math.Round(dailyGrams)),
		TotalCaloriesPerDay: int(math.Round(target)),
		AmGrams:             amGrams,
		PmGrams:             pmGrams,
		WeightGoal:          goal,
		CustomFactor:        customFactorFor(goal, in.CustomFactor),
		MealsPerDay:         in.MealsPerDay,
		FeedingType:         feedingType,
		TreatAllowanceKcal:  TreatAllowance(target, goal),
		MealSchedules:       schedules,
	}, nil
}

// defaultMealTime mirrors the app's canned schedule: breakfast, dinner,
// then every three hours after breakfast.
func defaultMealTime(index int) string {
	switch index {
	case 0:
		return "08:00"
	case 1:
		return "18:00"
	default:
		return fmt.Sprintf("%02d:00", 8+index*3)
	}
}

// SavePlan replaces the cat's feeding plan wholesale and marks the plan's
// food as the cat's selected food. Plans are never patched incrementally.
func SavePlan(db *sql.DB, plan model.FeedingPlan) error {
	if plan.CatID <= 0 {
		return fmt.Errorf("cat id must be > 0")
	}
	if plan.FoodID <= 0 {
		return fmt.Errorf("food id must be > 0")
	}
	if err := validatePortionSums(plan); err != nil {
		return err
	}
	amJSON, err := encodePortions(plan.AmPortions)
	if err != nil {
		return err
	}
	pmJSON, err := encodePortions(plan.PmPortions)
	if err != nil {
		return err
	}
	schedulesJSON, err := encodeSchedules(plan.MealSchedules)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
INSERT INTO feeding_plans(cat_id, food_id, total_grams_per_day, total_calories_per_day, am_grams, pm_grams, weight_goal, custom_factor, is_mixed, meals_per_day, feeding_type, treat_allowance_kcal, am_portions_json, pm_portions_json, meal_schedules_json, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(cat_id) DO UPDATE SET
  food_id=excluded.food_id,
  total_grams_per_day=excluded.total_grams_per_day,
  total_calories_per_day=excluded.total_calories_per_day,
  am_grams=excluded.am_grams,
  pm_grams=excluded.pm_grams,
  weight_goal=excluded.weight_goal,
  custom_factor=excluded.custom_factor,
  is_mixed=excluded.is_mixed,
  meals_per_day=excluded.meals_per_day,
  feeding_type=excluded.feeding_type,
  treat_allowance_kcal=excluded.treat_allowance_kcal,
  am_portions_json=excluded.am_portions_json,
  pm_portions_json=excluded.pm_portions_json,
  meal_schedules_json=excluded.meal_schedules_json,
  updated_at=CURRENT_TIMESTAMP
`, plan.CatID, plan.FoodID, plan.TotalGramsPerDay, plan.TotalCaloriesPerDay, plan.AmGrams, plan.PmGrams,
		string(plan.WeightGoal), plan.CustomFactor, boolToInt(plan.IsMixed), plan.MealsPerDay, plan.FeedingType,
		plan.TreatAllowanceKcal, amJSON, pmJSON, schedulesJSON)
	if err != nil {
		return fmt.Errorf("save feeding plan for cat %d: %w", plan.CatID, err)
	}
	if _, err := db.Exec(`UPDATE cats SET selected_food_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, plan.FoodID, plan.CatID); err != nil {
		return fmt.Errorf("update selected food for cat %d: %w", plan.CatID, err)
	}
	return nil
}

// validatePortionSums enforces the construction-time invariants: mixed
// portions must sum to the daily grams, and AM+PM grams must match the
// total within 1 gram of rounding drift.
func validatePortionSums(plan model.FeedingPlan) error {
	if diff := plan.AmGrams + plan.PmGrams - plan.TotalGramsPerDay; diff < -1 || diff > 1 {
		return fmt.Errorf("am/pm grams (%d+%d) do not sum to daily total %d", plan.AmGrams, plan.PmGrams, plan.TotalGramsPerDay)
	}
	if !plan.IsMixed {
		return nil
	}
	sum := 0
	for _, p := range plan.AmPortions {
		sum += p.Grams
	}
	for _, p := range plan.PmPortions {
		sum += p.Grams
	}
	// Per-food complement halving rounds each food independently, so allow
	// one unit of drift per portioned food.
	allowed := len(plan.AmPortions)
	if allowed < 1 {
		allowed = 1
	}
	if diff := sum - plan.TotalGramsPerDay; diff < -allowed || diff > allowed {
		return fmt.Errorf("mixed portions sum to %d g, expected daily total %d g", sum, plan.TotalGramsPerDay)
	}
	return nil
}

func GetPlan(db *sql.DB, catID int64) (*model.FeedingPlan, error) {
	if catID <= 0 {
		return nil, fmt.Errorf("cat id must be > 0")
	}
	var p model.FeedingPlan
	var goal, feedingType, amRaw, pmRaw, schedulesRaw string
	var customFactor sql.NullFloat64
	var isMixed int
	err := db.QueryRow(`
SELECT id, cat_id, food_id, total_grams_per_day, total_calories_per_day, am_grams, pm_grams, weight_goal, custom_factor, is_mixed, meals_per_day, feeding_type, treat_allowance_kcal, IFNULL(am_portions_json, ''), IFNULL(pm_portions_json, ''), IFNULL(meal_schedules_json, ''), created_at, updated_at
FROM feeding_plans
WHERE cat_id = ?
`, catID).Scan(&p.ID, &p.CatID, &p.FoodID, &p.TotalGramsPerDay, &p.TotalCaloriesPerDay, &p.AmGrams, &p.PmGrams, &goal, &customFactor, &isMixed, &p.MealsPerDay, &feedingType, &p.TreatAllowanceKcal, &amRaw, &pmRaw, &schedulesRaw, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get feeding plan for cat %d: %w", catID, err)
	}
	p.WeightGoal = model.WeightGoal(goal)
	p.FeedingType = feedingType
	p.IsMixed = isMixed != 0
	if customFactor.Valid {
		v := customFactor.Float64
		p.CustomFactor = &v
	}
	if p.AmPortions, err = decodePortions(amRaw); err != nil {
		return nil, fmt.Errorf("decode am portions: %w", err)
	}
	if p.PmPortions, err = decodePortions(pmRaw); err != nil {
		return nil, fmt.Errorf("decode pm portions: %w", err)
	}
	if p.MealSchedules, err = decodeSchedules(schedulesRaw); err != nil {
		return nil, fmt.Errorf("decode meal schedules: %w", err)
	}
	return &p, nil
}

func encodePortions(portions []model.FoodPortion) (string, error) {
	if len(portions) == 0 {
		return "", nil
	}
	out, err := json.Marshal(portions)
	if err != nil {
		return "", fmt.Errorf("encode portions: %w", err)
	}
	return string(out), nil
}

func decodePortions(raw string) ([]model.FoodPortion, error) {
	if raw == "" {
		return nil, nil
	}
	var portions []model.FoodPortion
	if err := json.Unmarshal([]byte(raw), &portions); err != nil {
		return nil, err
	}
	return portions, nil
}

func encodeSchedules(schedules []model.MealSchedule) (string, error) {
	if len(schedules) == 0 {
		return "", nil
	}
	out, err := json.Marshal(schedules)
	if err != nil {
		return "", fmt.Errorf("encode meal schedules: %w", err)
	}
	return string(out), nil
}

func decodeSchedules(raw string) ([]model.MealSchedule, error) {
	if raw == "" {
		return nil, nil
	}
	var schedules []model.MealSchedule
	if err := json.Unmarshal([]byte(raw), &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}
