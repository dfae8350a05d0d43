package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/VeraMao/meowtrition-v2/internal/model"
)

const exportSchemaVersion = 1

// Archive is the portable snapshot of everything the app stores.
type Archive struct {
	SchemaVersion int                 `json:"schema_version" yaml:"schema_version"`
	ExportedAt    time.Time           `json:"exported_at" yaml:"exported_at"`
	Cats          []model.CatProfile  `json:"cats" yaml:"cats"`
	Foods         []model.FoodItem    `json:"foods" yaml:"foods"`
	Plans         []model.FeedingPlan `json:"plans" yaml:"plans"`
	Logs          []model.FeedingLog  `json:"logs" yaml:"logs"`
	Weights       []model.WeightEntry `json:"weights" yaml:"weights"`
	Posts         []model.SharePost   `json:"posts" yaml:"posts"`
	Config        map[string]string   `json:"config" yaml:"config"`
}

// BuildArchive collects the full database contents into an Archive.
func BuildArchive(db *sql.DB) (Archive, error) {
	archive := Archive{SchemaVersion: exportSchemaVersion, ExportedAt: time.Now().UTC()}

	cats, err := ListCats(db)
	if err != nil {
		return Archive{}, err
	}
	archive.Cats = cats

	foods, err := ListFoods(db, FoodFilter{})
	if err != nil {
		return Archive{}, err
	}
	archive.Foods = foods

	for _, cat := range cats {
		plan, err := GetPlan(db, cat.ID)
		if err != nil {
			return Archive{}, err
		}
		if plan != nil {
			archive.Plans = append(archive.Plans, *plan)
		}
		logs, err := ListFeedingLogs(db, FeedingLogFilter{CatID: cat.ID})
		if err != nil {
			return Archive{}, err
		}
		archive.Logs = append(archive.Logs, logs...)
		weights, err := WeightHistory(db, cat.ID, 0)
		if err != nil {
			return Archive{}, err
		}
		archive.Weights = append(archive.Weights, weights...)
		posts, err := ListSharePosts(db, cat.ID)
		if err != nil {
			return Archive{}, err
		}
		archive.Posts = append(archive.Posts, posts...)
	}

	config, err := ListConfig(db)
	if err != nil {
		return Archive{}, err
	}
	archive.Config = config
	return archive, nil
}

// Export writes the archive to path. Format is json or yaml; when empty
// it is inferred from the file extension, defaulting to json.
func Export(db *sql.DB, path, format string) error {
	archive, err := BuildArchive(db)
	if err != nil {
		return err
	}
	format, err = resolveFormat(path, format)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "json":
		data, err = json.MarshalIndent(archive, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(archive)
	}
	if err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export to %s: %w", path, err)
	}
	return nil
}

func resolveFormat(path, format string) (string, error) {
	format = normalizeName(format)
	if format == "yml" {
		format = "yaml"
	}
	if format == "" {
		switch {
		case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
			format = "yaml"
		default:
			format = "json"
		}
	}
	if format != "json" && format != "yaml" {
		return "", fmt.Errorf("invalid export format %q (use json or yaml)", format)
	}
	return format, nil
}

// ImportStats counts what an import created.
type ImportStats struct {
	Cats    int
	Foods   int
	Plans   int
	Logs    int
	Weights int
	Posts   int
}

// Import reads an archive and inserts its contents into the database. Ids
// from the archive are remapped to freshly assigned ones, so importing
// into a non-empty database adds rather than overwrites.
func Import(db *sql.DB, path string) (ImportStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportStats{}, fmt.Errorf("read import file %s: %w", path, err)
	}

	var archive Archive
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		err = yaml.Unmarshal(data, &archive)
	} else {
		err = json.Unmarshal(data, &archive)
	}
	if err != nil {
		return ImportStats{}, fmt.Errorf("decode import file %s: %w", path, err)
	}
	if archive.SchemaVersion != exportSchemaVersion {
		return ImportStats{}, fmt.Errorf("unsupported archive schema version %d (want %d)", archive.SchemaVersion, exportSchemaVersion)
	}

	var stats ImportStats
	catIDs := map[int64]int64{}
	foodIDs := map[int64]int64{}

	tx, err := db.Begin()
	if err != nil {
		return ImportStats{}, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, f := range archive.Foods {
		tagsJSON, err := encodeTags(f.Tags)
		if err != nil {
			return ImportStats{}, err
		}
		res, err := tx.Exec(`
INSERT INTO foods(name, brand, type, calories_per_100g, protein_pct, fat_pct, carb_pct, fiber_pct, tags_json)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`, f.Name, f.Brand, string(f.Type), f.CaloriesPer100g, f.ProteinPct, f.FatPct, f.CarbPct, f.FiberPct, tagsJSON)
		if err != nil {
			return ImportStats{}, fmt.Errorf("import food %q: %w", f.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return ImportStats{}, fmt.Errorf("import food %q: %w", f.Name, err)
		}
		foodIDs[f.ID] = id
		stats.Foods++
	}

	for _, c := range archive.Cats {
		res, err := tx.Exec(`
INSERT INTO cats(name, breed, gender, age, current_weight_kg, target_weight_kg, weight_unit_pref, is_neutered, activity_level, body_condition, photo_url)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.Name, c.Breed, c.Gender, c.Age, c.CurrentWeightKg, c.TargetWeightKg, c.WeightUnitPref,
			boolToInt(c.IsNeutered), string(c.ActivityLevel), string(c.BodyCondition), c.PhotoURL)
		if err != nil {
			return ImportStats{}, fmt.Errorf("import cat %q: %w", c.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return ImportStats{}, fmt.Errorf("import cat %q: %w", c.Name, err)
		}
		catIDs[c.ID] = id
		if c.SelectedFoodID != nil {
			if newFoodID, ok := foodIDs[*c.SelectedFoodID]; ok {
				if _, err := tx.Exec(`UPDATE cats SET selected_food_id = ? WHERE id = ?`, newFoodID, id); err != nil {
					return ImportStats{}, fmt.Errorf("import cat %q: %w", c.Name, err)
				}
			}
		}
		stats.Cats++
	}

	for _, p := range archive.Plans {
		catID, ok := catIDs[p.CatID]
		if !ok {
			continue
		}
		foodID, ok := foodIDs[p.FoodID]
		if !ok {
			continue
		}
		remapped := p
		remapped.CatID = catID
		remapped.FoodID = foodID
		remapped.AmPortions = remapPortions(p.AmPortions, foodIDs)
		remapped.PmPortions = remapPortions(p.PmPortions, foodIDs)
		for i := range remapped.MealSchedules {
			remapped.MealSchedules[i].Portions = remapPortions(remapped.MealSchedules[i].Portions, foodIDs)
		}
		amJSON, err := encodePortions(remapped.AmPortions)
		if err != nil {
			return ImportStats{}, err
		}
		pmJSON, err := encodePortions(remapped.PmPortions)
		if err != nil {
			return ImportStats{}, err
		}
		schedulesJSON, err := encodeSchedules(remapped.MealSchedules)
		if err != nil {
			return ImportStats{}, err
		}
		if _, err := tx.Exec(`
INSERT INTO feeding_plans(cat_id, food_id, total_grams_per_day, total_calories_per_day, am_grams, pm_grams, weight_goal, custom_factor, is_mixed, meals_per_day, feeding_type, treat_allowance_kcal, am_portions_json, pm_portions_json, meal_schedules_json)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, catID, foodID, remapped.TotalGramsPerDay, remapped.TotalCaloriesPerDay, remapped.AmGrams, remapped.PmGrams,
			string(remapped.WeightGoal), remapped.CustomFactor, boolToInt(remapped.IsMixed), remapped.MealsPerDay,
			remapped.FeedingType, remapped.TreatAllowanceKcal, amJSON, pmJSON, schedulesJSON); err != nil {
			return ImportStats{}, fmt.Errorf("import plan for cat %d: %w", p.CatID, err)
		}
		stats.Plans++
	}

	for _, l := range archive.Logs {
		catID, ok := catIDs[l.CatID]
		if !ok {
			continue
		}
		var foodID *int64
		if l.FoodID != nil {
			if mapped, ok := foodIDs[*l.FoodID]; ok {
				foodID = &mapped
			}
		}
		if _, err := tx.Exec(`
INSERT INTO feeding_logs(cat_id, food_id, custom_food_name, grams, calories, is_treat, treat_tag, fed_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
`, catID, foodID, l.CustomFoodName, l.Grams, l.Calories, boolToInt(l.IsTreat), l.TreatTag, l.FedAt.Format(time.RFC3339)); err != nil {
			return ImportStats{}, fmt.Errorf("import feeding log: %w", err)
		}
		stats.Logs++
	}

	for _, w := range archive.Weights {
		catID, ok := catIDs[w.CatID]
		if !ok {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO weight_entries(cat_id, weight_kg, recorded_at) VALUES(?, ?, ?)`,
			catID, w.WeightKg, w.RecordedAt.Format(time.RFC3339)); err != nil {
			return ImportStats{}, fmt.Errorf("import weight entry: %w", err)
		}
		stats.Weights++
	}

	for _, p := range archive.Posts {
		catID, ok := catIDs[p.CatID]
		if !ok {
			continue
		}
		remappedFoods := make([]int64, 0, len(p.FoodIDs))
		for _, fid := range p.FoodIDs {
			if mapped, ok := foodIDs[fid]; ok {
				remappedFoods = append(remappedFoods, mapped)
			}
		}
		foodIDsJSON, err := json.Marshal(remappedFoods)
		if err != nil {
			return ImportStats{}, fmt.Errorf("import share post: %w", err)
		}
		tagsJSON, err := json.Marshal(p.Tags)
		if err != nil {
			return ImportStats{}, fmt.Errorf("import share post: %w", err)
		}
		// Posts get fresh ids like every other record, so re-importing an
		// archive into the same database never collides.
		if _, err := tx.Exec(`
INSERT INTO share_posts(id, cat_id, content, food_ids_json, combination_type, rating, tags_json)
VALUES(?, ?, ?, ?, ?, ?, ?)
`, uuid.NewString(), catID, p.Content, string(foodIDsJSON), p.CombinationType, p.Rating, string(tagsJSON)); err != nil {
			return ImportStats{}, fmt.Errorf("import share post %s: %w", p.ID, err)
		}
		stats.Posts++
	}

	for k, v := range archive.Config {
		if _, err := tx.Exec(`
INSERT INTO app_config(key, value) VALUES(?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`, k, v); err != nil {
			return ImportStats{}, fmt.Errorf("import config %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, fmt.Errorf("commit import: %w", err)
	}
	return stats, nil
}

func remapPortions(portions []model.FoodPortion, foodIDs map[int64]int64) []model.FoodPortion {
	if len(portions) == 0 {
		return nil
	}
	out := make([]model.FoodPortion, 0, len(portions))
	for _, p := range portions {
		if mapped, ok := foodIDs[p.FoodID]; ok {
			p.FoodID = mapped
			out = append(out, p)
		}
	}
	return out
}
