package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/VeraMao/meowtrition-v2/internal/model"
)

type FoodInput struct {
	Name         string
	Brand        string
	Type         string
	CalorieValue float64
	CalorieUnit  string
	ProteinPct   float64
	FatPct       float64
	CarbPct      float64
	FiberPct     float64
	Tags         []string
}

// AddFood ingests a food into the catalog. Whatever calorie unit the input
// uses, only the canonical kcal/100g density is stored.
func AddFood(db *sql.DB, in FoodInput) (int64, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return 0, fmt.Errorf("food name is required")
	}
	foodType, err := parseFoodType(in.Type)
	if err != nil {
		return 0, err
	}
	unit, err := ParseCalorieUnit(in.CalorieUnit)
	if err != nil {
		return 0, err
	}
	density, err := CalorieDensityPer100g(in.CalorieValue, unit, foodType)
	if err != nil {
		return 0, err
	}
	for _, check := range []struct {
		name  string
		value float64
	}{
		{"protein", in.ProteinPct},
		{"fat", in.FatPct},
		{"carbs", in.CarbPct},
		{"fiber", in.FiberPct},
	} {
		if err := validateNonNegativeFloat(check.name, check.value); err != nil {
			return 0, err
		}
	}
	tagsJSON, err := encodeTags(in.Tags)
	if err != nil {
		return 0, err
	}

	res, err := db.Exec(`
INSERT INTO foods(name, brand, type, calories_per_100g, protein_pct, fat_pct, carb_pct, fiber_pct, tags_json)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`, name, strings.TrimSpace(in.Brand), string(foodType), density, in.ProteinPct, in.FatPct, in.CarbPct, in.FiberPct, tagsJSON)
	if err != nil {
		return 0, fmt.Errorf("add food: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve food id: %w", err)
	}
	return id, nil
}

const foodColumns = `id, name, brand, type, calories_per_100g, protein_pct, fat_pct, carb_pct, fiber_pct, IFNULL(tags_json, ''), created_at, updated_at`

func scanFood(row interface{ Scan(...any) error }) (model.FoodItem, error) {
	var f model.FoodItem
	var foodType, tagsRaw string
	if err := row.Scan(&f.ID, &f.Name, &f.Brand, &foodType, &f.CaloriesPer100g, &f.ProteinPct, &f.FatPct, &f.CarbPct, &f.FiberPct, &tagsRaw, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return model.FoodItem{}, err
	}
	f.Type = model.FoodType(foodType)
	tags, err := decodeTags(tagsRaw)
	if err != nil {
		return model.FoodItem{}, err
	}
	f.Tags = tags
	return f, nil
}

func GetFood(db *sql.DB, id int64) (model.FoodItem, error) {
	if id <= 0 {
		return model.FoodItem{}, fmt.Errorf("food id must be > 0")
	}
	food, err := scanFood(db.QueryRow(`SELECT `+foodColumns+` FROM foods WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.FoodItem{}, fmt.Errorf("food %d not found", id)
	}
	if err != nil {
		return model.FoodItem{}, fmt.Errorf("get food %d: %w", id, err)
	}
	return food, nil
}

type FoodFilter struct {
	Type  string
	Query string
	Limit int
}

func ListFoods(db *sql.DB, f FoodFilter) ([]model.FoodItem, error) {
	query := `SELECT ` + foodColumns + ` FROM foods WHERE 1=1`
	args := make([]any, 0, 3)
	if strings.TrimSpace(f.Type) != "" {
		foodType, err := parseFoodType(f.Type)
		if err != nil {
			return nil, err
		}
		query += ` AND type = ?`
		args = append(args, string(foodType))
	}
	if q := normalizeName(f.Query); q != "" {
		query += ` AND (LOWER(name) LIKE ? OR LOWER(brand) LIKE ?)`
		pattern := "%" + q + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY name ASC`
	if f.Limit <= 0 {
		f.Limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, f.Limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	defer rows.Close()
	foods := make([]model.FoodItem, 0)
	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		foods = append(foods, food)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foods: %w", err)
	}
	return foods, nil
}

func DeleteFood(db *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("food id must be > 0")
	}
	var inUse int
	if err := db.QueryRow(`SELECT COUNT(1) FROM feeding_plans WHERE food_id = ?`, id).Scan(&inUse); err != nil {
		return fmt.Errorf("check food usage: %w", err)
	}
	if inUse > 0 {
		return fmt.Errorf("food %d is used by %d feeding plan(s); update those plans first", id, inUse)
	}
	res, err := db.Exec(`DELETE FROM foods WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete food %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("food %d not found", id)
	}
	return nil
}

func encodeTags(tags []string) (string, error) {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return "", nil
	}
	out, err := json.Marshal(cleaned)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(out), nil
}

func decodeTags(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}
