package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/VeraMao/meowtrition-v2/internal/logging"
	"github.com/VeraMao/meowtrition-v2/internal/model"
)

// CatUpdate carries the fields of a profile edit. Nil pointers leave the
// stored value untouched.
type CatUpdate struct {
	Name          *string
	Breed         *string
	Gender        *string
	Age           *int
	Weight        *float64
	WeightUnit    *string
	TargetWeight  *float64
	ClearTarget   bool
	IsNeutered    *bool
	ActivityLevel *string
	PhotoURL      *string
}

// profileSnapshot is the edited profile held inside a pending review until
// the user decides what to do with the plan.
type profileSnapshot struct {
	Name            string   `json:"name"`
	Breed           string   `json:"breed"`
	Gender          string   `json:"gender"`
	Age             int      `json:"age"`
	CurrentWeightKg float64  `json:"current_weight_kg"`
	TargetWeightKg  *float64 `json:"target_weight_kg"`
	WeightUnitPref  string   `json:"weight_unit_pref"`
	IsNeutered      bool     `json:"is_neutered"`
	ActivityLevel   string   `json:"activity_level"`
	BodyCondition   string   `json:"body_condition"`
	PhotoURL        string   `json:"photo_url"`
}

// UpdateResult reports what an edit did: either the profile was committed
// directly, or a pending review now holds it.
type UpdateResult struct {
	Cat    model.CatProfile
	Review *model.PlanReview
}

// UpdateCat applies a profile edit. When the edit changes something the
// energy calculation depends on (weight, activity, neuter status, or age)
// and the cat has a saved plan with a selected food, the edit is parked in
// a pending plan review instead of being committed; the caller resolves it
// with ApplyPlanReview, KeepPlanReview, or DismissPlanReview. A fresh edit
// discards any review still pending.
func UpdateCat(db *sql.DB, catID int64, upd CatUpdate) (UpdateResult, error) {
	cat, err := GetCat(db, catID)
	if err != nil {
		return UpdateResult{}, err
	}

	updated, err := applyUpdate(cat, upd)
	if err != nil {
		return UpdateResult{}, err
	}

	// An edit supersedes whatever review the previous edit left behind.
	if err := discardPendingReview(db, catID); err != nil {
		return UpdateResult{}, err
	}

	if !nutritionalChange(cat, updated) {
		if err := commitProfile(db, catID, updated, cat.CurrentWeightKg); err != nil {
			return UpdateResult{}, err
		}
		updated.ID = catID
		return UpdateResult{Cat: updated}, nil
	}

	plan, err := GetPlan(db, catID)
	if err != nil {
		return UpdateResult{}, err
	}
	if plan == nil || cat.SelectedFoodID == nil {
		if err := commitProfile(db, catID, updated, cat.CurrentWeightKg); err != nil {
			return UpdateResult{}, err
		}
		updated.ID = catID
		return UpdateResult{Cat: updated}, nil
	}

	newCalories, err := TargetCaloriesForGoal(updated, plan.WeightGoal, plan.CustomFactor)
	if err != nil {
		return UpdateResult{}, err
	}

	food, err := GetFood(db, plan.FoodID)
	if err != nil {
		// The plan references a food that no longer exists. Commit the
		// edit, log the inconsistency, and skip the review.
		logging.L().Warnw("plan references missing food, skipping plan review",
			"cat_id", catID, "food_id", plan.FoodID)
		if err := commitProfile(db, catID, updated, cat.CurrentWeightKg); err != nil {
			return UpdateResult{}, err
		}
		updated.ID = catID
		return UpdateResult{Cat: updated}, nil
	}

	newGramsF, err := GramsForCalories(newCalories, food.CaloriesPer100g)
	if err != nil {
		return UpdateResult{}, err
	}

	snapshot := profileSnapshot{
		Name:            updated.Name,
		Breed:           updated.Breed,
		Gender:          updated.Gender,
		Age:             updated.Age,
		CurrentWeightKg: updated.CurrentWeightKg,
		TargetWeightKg:  updated.TargetWeightKg,
		WeightUnitPref:  updated.WeightUnitPref,
		IsNeutered:      updated.IsNeutered,
		ActivityLevel:   string(updated.ActivityLevel),
		BodyCondition:   string(updated.BodyCondition),
		PhotoURL:        updated.PhotoURL,
	}
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("encode profile snapshot: %w", err)
	}

	review := model.PlanReview{
		CatID:       catID,
		CatName:     updated.Name,
		OldCalories: plan.TotalCaloriesPerDay,
		NewCalories: int(math.Round(newCalories)),
		OldGrams:    plan.TotalGramsPerDay,
		NewGrams:    int(math.Round(newGramsF)),
		State:       "pending",
	}
	res, err := db.Exec(`
INSERT INTO plan_reviews(cat_id, old_calories, new_calories, old_grams, new_grams, new_profile_json, weight_goal, custom_factor)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
`, catID, review.OldCalories, review.NewCalories, review.OldGrams, review.NewGrams, string(snapshotJSON),
		string(plan.WeightGoal), plan.CustomFactor)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("create plan review for cat %d: %w", catID, err)
	}
	review.ID, _ = res.LastInsertId()

	updated.ID = catID
	return UpdateResult{Cat: updated, Review: &review}, nil
}

func applyUpdate(cat model.CatProfile, upd CatUpdate) (model.CatProfile, error) {
	out := cat
	if upd.Name != nil {
		if *upd.Name == "" {
			return model.CatProfile{}, fmt.Errorf("cat name is required")
		}
		out.Name = *upd.Name
	}
	if upd.Breed != nil {
		out.Breed = *upd.Breed
	}
	if upd.Gender != nil {
		g := normalizeName(*upd.Gender)
		if g != "" && g != "male" && g != "female" {
			return model.CatProfile{}, fmt.Errorf("invalid gender %q (use male or female)", *upd.Gender)
		}
		out.Gender = g
	}
	if upd.Age != nil {
		if err := validateNonNegativeInt("age", *upd.Age); err != nil {
			return model.CatProfile{}, err
		}
		out.Age = *upd.Age
	}
	unit := cat.WeightUnitPref
	if upd.WeightUnit != nil {
		u := normalizeName(*upd.WeightUnit)
		if u == "lbs" {
			u = "lb"
		}
		if u != "kg" && u != "lb" {
			return model.CatProfile{}, fmt.Errorf("invalid weight unit %q (use kg or lb)", *upd.WeightUnit)
		}
		unit = u
		out.WeightUnitPref = u
	}
	if upd.Weight != nil {
		kg, err := ConvertWeightToKg(*upd.Weight, unit)
		if err != nil {
			return model.CatProfile{}, err
		}
		out.CurrentWeightKg = kg
		condition, err := BodyConditionFor(kg, out.Breed)
		if err != nil {
			return model.CatProfile{}, err
		}
		out.BodyCondition = condition
	}
	if upd.ClearTarget {
		out.TargetWeightKg = nil
	} else if upd.TargetWeight != nil {
		kg, err := ConvertWeightToKg(*upd.TargetWeight, unit)
		if err != nil {
			return model.CatProfile{}, fmt.Errorf("target %w", err)
		}
		out.TargetWeightKg = &kg
	}
	if upd.IsNeutered != nil {
		out.IsNeutered = *upd.IsNeutered
	}
	if upd.ActivityLevel != nil {
		activity, err := parseActivityLevel(*upd.ActivityLevel)
		if err != nil {
			return model.CatProfile{}, err
		}
		out.ActivityLevel = activity
	}
	if upd.PhotoURL != nil {
		out.PhotoURL = *upd.PhotoURL
	}
	return out, nil
}

// nutritionalChange reports whether the edit touched an input of the
// energy calculation. Cosmetic fields (name, breed, photo) never trigger
// a plan review.
func nutritionalChange(before, after model.CatProfile) bool {
	return before.CurrentWeightKg != after.CurrentWeightKg ||
		before.ActivityLevel != after.ActivityLevel ||
		before.IsNeutered != after.IsNeutered ||
		before.Age != after.Age
}

// commitProfile writes the edited profile to the cats table and appends a
// weight history entry when the weight changed.
func commitProfile(db *sql.DB, catID int64, cat model.CatProfile, previousWeightKg float64) error {
	res, err := db.Exec(`
UPDATE cats
SET name = ?, breed = ?, gender = ?, age = ?, current_weight_kg = ?, target_weight_kg = ?, weight_unit_pref = ?, is_neutered = ?, activity_level = ?, body_condition = ?, photo_url = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, cat.Name, cat.Breed, cat.Gender, cat.Age, cat.CurrentWeightKg, cat.TargetWeightKg, cat.WeightUnitPref,
		boolToInt(cat.IsNeutered), string(cat.ActivityLevel), string(cat.BodyCondition), cat.PhotoURL, catID)
	if err != nil {
		return fmt.Errorf("update cat %d: %w", catID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update cat %d: %w", catID, err)
	}
	if n == 0 {
		return fmt.Errorf("cat %d not found", catID)
	}
	if cat.CurrentWeightKg != previousWeightKg {
		if _, err := db.Exec(`INSERT INTO weight_entries(cat_id, weight_kg, recorded_at) VALUES(?, ?, ?)`,
			catID, cat.CurrentWeightKg, time.Now().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("record weight for cat %d: %w", catID, err)
		}
	}
	return nil
}

func discardPendingReview(db *sql.DB, catID int64) error {
	_, err := db.Exec(`
UPDATE plan_reviews SET state = 'dismissed', resolved_at = CURRENT_TIMESTAMP
WHERE cat_id = ? AND state = 'pending'
`, catID)
	if err != nil {
		return fmt.Errorf("discard pending review for cat %d: %w", catID, err)
	}
	return nil
}

// GetPendingReview returns the cat's pending plan review, or nil when
// nothing is awaiting a decision.
func GetPendingReview(db *sql.DB, catID int64) (*model.PlanReview, error) {
	if catID <= 0 {
		return nil, fmt.Errorf("cat id must be > 0")
	}
	var r model.PlanReview
	var resolved sql.NullTime
	err := db.QueryRow(`
SELECT r.id, r.cat_id, c.name, r.old_calories, r.new_calories, r.old_grams, r.new_grams, r.state, r.created_at, r.resolved_at
FROM plan_reviews r
JOIN cats c ON c.id = r.cat_id
WHERE r.cat_id = ? AND r.state = 'pending'
`, catID).Scan(&r.ID, &r.CatID, &r.CatName, &r.OldCalories, &r.NewCalories, &r.OldGrams, &r.NewGrams, &r.State, &r.CreatedAt, &resolved)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pending review for cat %d: %w", catID, err)
	}
	if resolved.Valid {
		t := resolved.Time
		r.ResolvedAt = &t
	}
	return &r, nil
}

type pendingReviewRow struct {
	id           int64
	oldCalories  int
	newCalories  int
	newGrams     int
	snapshot     profileSnapshot
	weightGoal   model.WeightGoal
	customFactor *float64
}

func loadPendingReview(db *sql.DB, catID int64) (pendingReviewRow, error) {
	var row pendingReviewRow
	var snapshotJSON, goal string
	var customFactor sql.NullFloat64
	err := db.QueryRow(`
SELECT id, old_calories, new_calories, new_grams, new_profile_json, weight_goal, custom_factor
FROM plan_reviews
WHERE cat_id = ? AND state = 'pending'
`, catID).Scan(&row.id, &row.oldCalories, &row.newCalories, &row.newGrams, &snapshotJSON, &goal, &customFactor)
	if err == sql.ErrNoRows {
		return pendingReviewRow{}, fmt.Errorf("no pending plan review for cat %d", catID)
	}
	if err != nil {
		return pendingReviewRow{}, fmt.Errorf("load pending review for cat %d: %w", catID, err)
	}
	if err := json.Unmarshal([]byte(snapshotJSON), &row.snapshot); err != nil {
		return pendingReviewRow{}, fmt.Errorf("decode profile snapshot: %w", err)
	}
	row.weightGoal = model.WeightGoal(goal)
	if customFactor.Valid {
		v := customFactor.Float64
		row.customFactor = &v
	}
	return row, nil
}

func profileFromSnapshot(s profileSnapshot) model.CatProfile {
	return model.CatProfile{
		Name:            s.Name,
		Breed:           s.Breed,
		Gender:          s.Gender,
		Age:             s.Age,
		CurrentWeightKg: s.CurrentWeightKg,
		TargetWeightKg:  s.TargetWeightKg,
		WeightUnitPref:  s.WeightUnitPref,
		IsNeutered:      s.IsNeutered,
		ActivityLevel:   model.ActivityLevel(s.ActivityLevel),
		BodyCondition:   model.BodyCondition(s.BodyCondition),
		PhotoURL:        s.PhotoURL,
	}
}

func resolveReview(db *sql.DB, reviewID int64, state string) error {
	_, err := db.Exec(`UPDATE plan_reviews SET state = ?, resolved_at = CURRENT_TIMESTAMP WHERE id = ?`, state, reviewID)
	if err != nil {
		return fmt.Errorf("resolve plan review %d: %w", reviewID, err)
	}
	return nil
}

// ApplyPlanReview commits the edited profile and updates the plan to the
// reviewed targets. The new daily grams are split evenly between AM and
// PM and the meal schedule is redistributed over the plan's meal count.
func ApplyPlanReview(db *sql.DB, catID int64) error {
	row, err := loadPendingReview(db, catID)
	if err != nil {
		return err
	}
	cat, err := GetCat(db, catID)
	if err != nil {
		return err
	}
	if err := commitProfile(db, catID, profileFromSnapshot(row.snapshot), cat.CurrentWeightKg); err != nil {
		return err
	}

	plan, err := GetPlan(db, catID)
	if err != nil {
		return err
	}
	if plan == nil {
		// The plan disappeared between the edit and the decision. The
		// profile is already committed; nothing left to update.
		logging.L().Warnw("plan missing at review apply, profile committed without plan update", "cat_id", catID)
		return resolveReview(db, row.id, "applied")
	}

	am, pm := splitHalf(float64(row.newGrams))
	plan.TotalCaloriesPerDay = row.newCalories
	plan.TotalGramsPerDay = row.newGrams
	plan.AmGrams = am
	plan.PmGrams = pm
	if plan.MealsPerDay > 0 {
		meals, err := DistributeMealsEvenly(float64(row.newGrams), float64(row.newCalories), plan.MealsPerDay)
		if err != nil {
			return err
		}
		schedules := make([]model.MealSchedule, 0, len(meals))
		for i, meal := range meals {
			t := defaultMealTime(i)
			if i < len(plan.MealSchedules) {
				t = plan.MealSchedules[i].Time
			}
			schedules = append(schedules, model.MealSchedule{Time: t, Grams: meal.Grams, Calories: meal.Calories})
		}
		plan.MealSchedules = schedules
	}
	plan.TreatAllowanceKcal = TreatAllowance(float64(row.newCalories), row.weightGoal)
	if err := SavePlan(db, *plan); err != nil {
		return err
	}
	return resolveReview(db, row.id, "applied")
}

// KeepPlanReview commits the edited profile while leaving the saved plan
// exactly as it was.
func KeepPlanReview(db *sql.DB, catID int64) error {
	row, err := loadPendingReview(db, catID)
	if err != nil {
		return err
	}
	cat, err := GetCat(db, catID)
	if err != nil {
		return err
	}
	if err := commitProfile(db, catID, profileFromSnapshot(row.snapshot), cat.CurrentWeightKg); err != nil {
		return err
	}
	return resolveReview(db, row.id, "kept")
}

// DismissPlanReview abandons the review without committing the edit; both
// the profile and the plan stay as they were.
func DismissPlanReview(db *sql.DB, catID int64) error {
	row, err := loadPendingReview(db, catID)
	if err != nil {
		return err
	}
	return resolveReview(db, row.id, "dismissed")
}
