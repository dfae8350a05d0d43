package service

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/VeraMao/meowtrition-v2/internal/model"
)

type FeedingLogInput struct {
	CatID          int64
	FoodID         *int64
	CustomFoodName string
	Grams          float64
	IsTreat        bool
	TreatTag       string
	FedAt          time.Time
}

var validTreatTags = map[string]bool{"training": true, "snack": true, "health": true}

// AddFeedingLog records a feeding. Calories are computed from the food's
// density at entry time and frozen; later edits to the food never rewrite
// history. Entries with a custom food name carry zero calories.
func AddFeedingLog(db *sql.DB, in FeedingLogInput) (int64, error) {
	if _, err := GetCat(db, in.CatID); err != nil {
		return 0, err
	}
	if in.Grams <= 0 {
		return 0, fmt.Errorf("grams must be > 0")
	}
	customName := strings.TrimSpace(in.CustomFoodName)
	if in.FoodID == nil && customName == "" {
		return 0, fmt.Errorf("either a food id or a custom food name is required")
	}
	if in.FoodID != nil && customName != "" {
		return 0, fmt.Errorf("food id and custom food name are mutually exclusive")
	}
	tag := normalizeName(in.TreatTag)
	if tag != "" && !validTreatTags[tag] {
		return 0, fmt.Errorf("invalid treat tag %q (use training, snack, or health)", in.TreatTag)
	}
	if tag != "" && !in.IsTreat {
		return 0, fmt.Errorf("treat tag requires --treat")
	}

	calories := 0
	if in.FoodID != nil {
		food, err := GetFood(db, *in.FoodID)
		if err != nil {
			return 0, err
		}
		kcal, err := CaloriesForGrams(in.Grams, food.CaloriesPer100g)
		if err != nil {
			return 0, err
		}
		calories = int(math.Round(kcal))
	}

	fedAt := in.FedAt
	if fedAt.IsZero() {
		fedAt = time.Now()
	}
	res, err := db.Exec(`
INSERT INTO feeding_logs(cat_id, food_id, custom_food_name, grams, calories, is_treat, treat_tag, fed_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
`, in.CatID, in.FoodID, customName, in.Grams, calories, boolToInt(in.IsTreat), tag, fedAt.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("add feeding log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve feeding log id: %w", err)
	}
	return id, nil
}

type FeedingLogFilter struct {
	CatID      int64
	Day        string // YYYY-MM-DD, empty for all days
	TreatsOnly bool
	Limit      int
}

func ListFeedingLogs(db *sql.DB, filter FeedingLogFilter) ([]model.FeedingLog, error) {
	if filter.CatID <= 0 {
		return nil, fmt.Errorf("cat id must be > 0")
	}
	query := `
SELECT id, cat_id, food_id, custom_food_name, grams, calories, is_treat, treat_tag, fed_at, created_at
FROM feeding_logs
WHERE cat_id = ?`
	args := []any{filter.CatID}
	if filter.Day != "" {
		start, end, err := dayBounds(filter.Day)
		if err != nil {
			return nil, err
		}
		query += ` AND fed_at >= ? AND fed_at < ?`
		args = append(args, start, end)
	}
	if filter.TreatsOnly {
		query += ` AND is_treat = 1`
	}
	query += ` ORDER BY fed_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feeding logs: %w", err)
	}
	defer rows.Close()

	var logs []model.FeedingLog
	for rows.Next() {
		var l model.FeedingLog
		var foodID sql.NullInt64
		var isTreat int
		var fedAt string
		if err := rows.Scan(&l.ID, &l.CatID, &foodID, &l.CustomFoodName, &l.Grams, &l.Calories, &isTreat, &l.TreatTag, &fedAt, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feeding log: %w", err)
		}
		if foodID.Valid {
			v := foodID.Int64
			l.FoodID = &v
		}
		l.IsTreat = isTreat != 0
		if l.FedAt, err = time.Parse(time.RFC3339, fedAt); err != nil {
			return nil, fmt.Errorf("parse fed_at: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func DeleteFeedingLog(db *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("feeding log id must be > 0")
	}
	res, err := db.Exec(`DELETE FROM feeding_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete feeding log %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete feeding log %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("feeding log %d not found", id)
	}
	return nil
}

// DaySummary aggregates one day of feeding against the cat's plan.
type DaySummary struct {
	Day            string
	TotalGrams     float64
	TotalCalories  int
	TreatCalories  int
	Entries        int
	TargetCalories int
	TreatAllowance int
}

// SummarizeDay totals the day's intake and, when a plan exists, sets the
// calorie target and treat allowance for comparison.
func SummarizeDay(db *sql.DB, catID int64, day string) (DaySummary, error) {
	logs, err := ListFeedingLogs(db, FeedingLogFilter{CatID: catID, Day: day})
	if err != nil {
		return DaySummary{}, err
	}
	summary := DaySummary{Day: day, Entries: len(logs)}
	for _, l := range logs {
		summary.TotalGrams += l.Grams
		summary.TotalCalories += l.Calories
		if l.IsTreat {
			summary.TreatCalories += l.Calories
		}
	}
	plan, err := GetPlan(db, catID)
	if err != nil {
		return DaySummary{}, err
	}
	if plan != nil {
		summary.TargetCalories = plan.TotalCaloriesPerDay
		summary.TreatAllowance = plan.TreatAllowanceKcal
	}
	return summary, nil
}
