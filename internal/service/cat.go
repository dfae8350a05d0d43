package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/VeraMao/meowtrition-v2/internal/model"
)

type CatInput struct {
	Name          string
	Breed         string
	Gender        string
	Age           int
	Weight        float64
	WeightUnit    string
	TargetWeight  *float64
	IsNeutered    bool
	ActivityLevel string
	PhotoURL      string
}

func AddCat(db *sql.DB, in CatInput) (int64, error) {
	cat, err := catFromInput(in)
	if err != nil {
		return 0, err
	}
	res, err := db.Exec(`
INSERT INTO cats(name, breed, gender, age, current_weight_kg, target_weight_kg, weight_unit_pref, is_neutered, activity_level, body_condition, photo_url)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, cat.Name, cat.Breed, cat.Gender, cat.Age, cat.CurrentWeightKg, cat.TargetWeightKg, cat.WeightUnitPref, boolToInt(cat.IsNeutered), string(cat.ActivityLevel), string(cat.BodyCondition), cat.PhotoURL)
	if err != nil {
		return 0, fmt.Errorf("add cat: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve cat id: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO weight_entries(cat_id, weight_kg, recorded_at) VALUES(?, ?, ?)`,
		id, cat.CurrentWeightKg, time.Now().Format(time.RFC3339)); err != nil {
		return 0, fmt.Errorf("record initial weight: %w", err)
	}
	return id, nil
}

func catFromInput(in CatInput) (model.CatProfile, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.CatProfile{}, fmt.Errorf("cat name is required")
	}
	if err := validateNonNegativeInt("age", in.Age); err != nil {
		return model.CatProfile{}, err
	}
	weightKg, err := ConvertWeightToKg(in.Weight, in.WeightUnit)
	if err != nil {
		return model.CatProfile{}, err
	}
	var targetKg *float64
	if in.TargetWeight != nil {
		v, err := ConvertWeightToKg(*in.TargetWeight, in.WeightUnit)
		if err != nil {
			return model.CatProfile{}, fmt.Errorf("target %w", err)
		}
		targetKg = &v
	}
	activity, err := parseActivityLevel(in.ActivityLevel)
	if err != nil {
		return model.CatProfile{}, err
	}
	gender := normalizeName(in.Gender)
	if gender != "" && gender != "male" && gender != "female" {
		return model.CatProfile{}, fmt.Errorf("invalid gender %q (use male or female)", in.Gender)
	}
	unitPref := normalizeName(in.WeightUnit)
	if unitPref == "" || unitPref == "lbs" {
		if unitPref == "lbs" {
			unitPref = "lb"
		} else {
			unitPref = "kg"
		}
	}
	condition, err := BodyConditionFor(weightKg, in.Breed)
	if err != nil {
		return model.CatProfile{}, err
	}
	return model.CatProfile{
		Name:            name,
		Breed:           strings.TrimSpace(in.Breed),
		Gender:          gender,
		Age:             in.Age,
		CurrentWeightKg: weightKg,
		TargetWeightKg:  targetKg,
		WeightUnitPref:  unitPref,
		IsNeutered:      in.IsNeutered,
		ActivityLevel:   activity,
		BodyCondition:   condition,
		PhotoURL:        strings.TrimSpace(in.PhotoURL),
	}, nil
}

const catColumns = `id, name, breed, gender, age, current_weight_kg, target_weight_kg, weight_unit_pref, is_neutered, activity_level, body_condition, photo_url, selected_food_id, created_at, updated_at`

func scanCat(row interface{ Scan(...any) error }) (model.CatProfile, error) {
	var c model.CatProfile
	var target sql.NullFloat64
	var selectedFood sql.NullInt64
	var neutered int
	var activity, condition string
	if err := row.Scan(&c.ID, &c.Name, &c.Breed, &c.Gender, &c.Age, &c.CurrentWeightKg, &target, &c.WeightUnitPref, &neutered, &activity, &condition, &c.PhotoURL, &selectedFood, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return model.CatProfile{}, err
	}
	if target.Valid {
		v := target.Float64
		c.TargetWeightKg = &v
	}
	if selectedFood.Valid {
		v := selectedFood.Int64
		c.SelectedFoodID = &v
	}
	c.IsNeutered = neutered != 0
	c.ActivityLevel = model.ActivityLevel(activity)
	c.BodyCondition = model.BodyCondition(condition)
	return c, nil
}

func GetCat(db *sql.DB, id int64) (model.CatProfile, error) {
	if id <= 0 {
		return model.CatProfile{}, fmt.Errorf("cat id must be > 0")
	}
	cat, err := scanCat(db.QueryRow(`SELECT `+catColumns+` FROM cats WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.CatProfile{}, fmt.Errorf("cat %d not found", id)
	}
	if err != nil {
		return model.CatProfile{}, fmt.Errorf("get cat %d: %w", id, err)
	}
	return cat, nil
}

func ListCats(db *sql.DB) ([]model.CatProfile, error) {
	rows, err := db.Query(`SELECT ` + catColumns + ` FROM cats ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list cats: %w", err)
	}
	defer rows.Close()
	cats := make([]model.CatProfile, 0)
	for rows.Next() {
		cat, err := scanCat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cat: %w", err)
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cats: %w", err)
	}
	return cats, nil
}

func DeleteCat(db *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("cat id must be > 0")
	}
	res, err := db.Exec(`DELETE FROM cats WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete cat %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("cat %d not found", id)
	}
	return nil
}

// SelectFood sets the cat's main feeding food.
func SelectFood(db *sql.DB, catID, foodID int64) error {
	if catID <= 0 {
		return fmt.Errorf("cat id must be > 0")
	}
	if _, err := GetFood(db, foodID); err != nil {
		return err
	}
	res, err := db.Exec(`UPDATE cats SET selected_food_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, foodID, catID)
	if err != nil {
		return fmt.Errorf("select food for cat %d: %w", catID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("cat %d not found", catID)
	}
	return nil
}

// TargetProximity classifies how close a newly recorded weight is to the
// cat's target weight.
type TargetProximity string

const (
	TargetReached TargetProximity = "reached"
	TargetClose   TargetProximity = "close"
	TargetNone    TargetProximity = "none"
)

// EvaluateWeightTarget compares a weight against the target: under 0.1 kg
// difference counts as reached, within 0.9 kg (2 lb when the preference is
// pounds) as close.
func EvaluateWeightTarget(weightKg float64, targetWeightKg *float64, unitPref string) TargetProximity {
	if targetWeightKg == nil {
		return TargetNone
	}
	diff := weightKg - *targetWeightKg
	if diff < 0 {
		diff = -diff
	}
	if diff < 0.1 {
		return TargetReached
	}
	closeThresholdKg := 0.9
	if normalizeName(unitPref) == "lb" {
		closeThresholdKg = LbToKg(2)
	}
	if diff <= closeThresholdKg {
		return TargetClose
	}
	return TargetNone
}

type WeightUpdateResult struct {
	WeightKg  float64
	Proximity TargetProximity
	Condition model.BodyCondition
}

// RecordWeight appends a weight history entry, updates the cat's current
// weight and body condition, and reports target proximity for the
// congratulation flow.
func RecordWeight(db *sql.DB, catID int64, weight float64, unit string) (WeightUpdateResult, error) {
	cat, err := GetCat(db, catID)
	if err != nil {
		return WeightUpdateResult{}, err
	}
	weightKg, err := ConvertWeightToKg(weight, unit)
	if err != nil {
		return WeightUpdateResult{}, err
	}
	condition, err := BodyConditionFor(weightKg, cat.Breed)
	if err != nil {
		return WeightUpdateResult{}, err
	}

	if _, err := db.Exec(`INSERT INTO weight_entries(cat_id, weight_kg, recorded_at) VALUES(?, ?, ?)`,
		catID, weightKg, time.Now().Format(time.RFC3339)); err != nil {
		return WeightUpdateResult{}, fmt.Errorf("record weight for cat %d: %w", catID, err)
	}
	if _, err := db.Exec(`UPDATE cats SET current_weight_kg = ?, body_condition = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		weightKg, string(condition), catID); err != nil {
		return WeightUpdateResult{}, fmt.Errorf("update current weight for cat %d: %w", catID, err)
	}

	return WeightUpdateResult{
		WeightKg:  weightKg,
		Proximity: EvaluateWeightTarget(weightKg, cat.TargetWeightKg, cat.WeightUnitPref),
		Condition: condition,
	}, nil
}

// ChangeWeightGoal recomputes the cat's target weight from its current
// weight and the new goal using the weight-scaling approximation.
func ChangeWeightGoal(db *sql.DB, catID int64, goal string, customFactor *float64) (float64, error) {
	cat, err := GetCat(db, catID)
	if err != nil {
		return 0, err
	}
	parsedGoal, err := parseWeightGoal(goal)
	if err != nil {
		return 0, err
	}
	newTarget, err := CalculateTargetWeight(cat.CurrentWeightKg, parsedGoal, customFactor)
	if err != nil {
		return 0, err
	}
	if _, err := db.Exec(`UPDATE cats SET target_weight_kg = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, newTarget, catID); err != nil {
		return 0, fmt.Errorf("update target weight for cat %d: %w", catID, err)
	}
	return newTarget, nil
}

func WeightHistory(db *sql.DB, catID int64, limit int) ([]model.WeightEntry, error) {
	if catID <= 0 {
		return nil, fmt.Errorf("cat id must be > 0")
	}
	query := `
SELECT id, cat_id, weight_kg, recorded_at
FROM weight_entries
WHERE cat_id = ?
ORDER BY recorded_at DESC`
	args := []any{catID}
	if limit > 0 {
		query += `
LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list weight history: %w", err)
	}
	defer rows.Close()
	entries := make([]model.WeightEntry, 0)
	for rows.Next() {
		var e model.WeightEntry
		var recordedRaw string
		if err := rows.Scan(&e.ID, &e.CatID, &e.WeightKg, &recordedRaw); err != nil {
			return nil, fmt.Errorf("scan weight entry: %w", err)
		}
		recorded, err := time.Parse(time.RFC3339, recordedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at: %w", err)
		}
		e.RecordedAt = recorded
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weight entries: %w", err)
	}
	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
