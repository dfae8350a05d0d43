package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS cats (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  breed TEXT NOT NULL DEFAULT '',
  gender TEXT NOT NULL DEFAULT '' CHECK(gender IN ('', 'male', 'female')),
  age INTEGER NOT NULL CHECK(age >= 0),
  current_weight_kg REAL NOT NULL CHECK(current_weight_kg > 0),
  target_weight_kg REAL CHECK(target_weight_kg > 0),
  weight_unit_pref TEXT NOT NULL DEFAULT 'kg' CHECK(weight_unit_pref IN ('kg', 'lb')),
  is_neutered INTEGER NOT NULL DEFAULT 0,
  activity_level TEXT NOT NULL CHECK(activity_level IN ('low', 'medium', 'high')),
  body_condition TEXT NOT NULL DEFAULT '',
  photo_url TEXT NOT NULL DEFAULT '',
  selected_food_id INTEGER,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS foods (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  brand TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL CHECK(type IN ('dry', 'wet', 'treat', 'prescription', 'custom')),
  calories_per_100g REAL NOT NULL CHECK(calories_per_100g > 0),
  protein_pct REAL NOT NULL DEFAULT 0 CHECK(protein_pct >= 0),
  fat_pct REAL NOT NULL DEFAULT 0 CHECK(fat_pct >= 0),
  carb_pct REAL NOT NULL DEFAULT 0 CHECK(carb_pct >= 0),
  fiber_pct REAL NOT NULL DEFAULT 0 CHECK(fiber_pct >= 0),
  tags_json TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS feeding_plans (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  cat_id INTEGER NOT NULL UNIQUE,
  food_id INTEGER NOT NULL,
  total_grams_per_day INTEGER NOT NULL CHECK(total_grams_per_day >= 0),
  total_calories_per_day INTEGER NOT NULL CHECK(total_calories_per_day >= 0),
  am_grams INTEGER NOT NULL CHECK(am_grams >= 0),
  pm_grams INTEGER NOT NULL CHECK(pm_grams >= 0),
  weight_goal TEXT NOT NULL DEFAULT 'maintain' CHECK(weight_goal IN ('maintain', 'lose', 'gain', 'custom')),
  custom_factor REAL CHECK(custom_factor >= 0.5 AND custom_factor <= 1.5),
  is_mixed INTEGER NOT NULL DEFAULT 0,
  meals_per_day INTEGER NOT NULL DEFAULT 2 CHECK(meals_per_day >= 0 AND meals_per_day <= 10),
  feeding_type TEXT NOT NULL DEFAULT 'scheduled' CHECK(feeding_type IN ('scheduled', 'free')),
  treat_allowance_kcal INTEGER NOT NULL DEFAULT 0 CHECK(treat_allowance_kcal >= 0),
  am_portions_json TEXT NOT NULL DEFAULT '',
  pm_portions_json TEXT NOT NULL DEFAULT '',
  meal_schedules_json TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(cat_id) REFERENCES cats(id) ON DELETE CASCADE,
  FOREIGN KEY(food_id) REFERENCES foods(id)
);

CREATE TABLE IF NOT EXISTS feeding_logs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  cat_id INTEGER NOT NULL,
  food_id INTEGER,
  custom_food_name TEXT NOT NULL DEFAULT '',
  grams REAL NOT NULL CHECK(grams > 0),
  calories INTEGER NOT NULL CHECK(calories >= 0),
  is_treat INTEGER NOT NULL DEFAULT 0,
  treat_tag TEXT NOT NULL DEFAULT '' CHECK(treat_tag IN ('', 'training', 'snack', 'health')),
  fed_at DATETIME NOT NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(cat_id) REFERENCES cats(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_feeding_logs_cat_id ON feeding_logs(cat_id);
CREATE INDEX IF NOT EXISTS idx_feeding_logs_fed_at ON feeding_logs(fed_at);
`,
	},
	{
		version: 2,
		name:    "weight_history",
		sql: `
CREATE TABLE IF NOT EXISTS weight_entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  cat_id INTEGER NOT NULL,
  weight_kg REAL NOT NULL CHECK(weight_kg > 0),
  recorded_at DATETIME NOT NULL,
  FOREIGN KEY(cat_id) REFERENCES cats(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_weight_entries_cat_id ON weight_entries(cat_id);
`,
	},
	{
		version: 3,
		name:    "plan_reviews",
		sql: `
CREATE TABLE IF NOT EXISTS plan_reviews (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  cat_id INTEGER NOT NULL,
  old_calories INTEGER NOT NULL,
  new_calories INTEGER NOT NULL,
  old_grams INTEGER NOT NULL,
  new_grams INTEGER NOT NULL,
  new_profile_json TEXT NOT NULL,
  weight_goal TEXT NOT NULL DEFAULT 'maintain',
  custom_factor REAL,
  state TEXT NOT NULL DEFAULT 'pending' CHECK(state IN ('pending', 'applied', 'kept', 'dismissed')),
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  resolved_at DATETIME,
  FOREIGN KEY(cat_id) REFERENCES cats(id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_plan_reviews_pending
  ON plan_reviews(cat_id) WHERE state = 'pending';
`,
	},
	{
		version: 4,
		name:    "share_posts",
		sql: `
CREATE TABLE IF NOT EXISTS share_posts (
  id TEXT PRIMARY KEY,
  cat_id INTEGER NOT NULL,
  content TEXT NOT NULL,
  food_ids_json TEXT NOT NULL DEFAULT '',
  combination_type TEXT NOT NULL DEFAULT 'single' CHECK(combination_type IN ('single', 'mixed')),
  rating INTEGER NOT NULL DEFAULT 0 CHECK(rating >= 0 AND rating <= 5),
  tags_json TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(cat_id) REFERENCES cats(id) ON DELETE CASCADE
);
`,
	},
	{
		version: 5,
		name:    "app_config",
		sql: `
CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}
	return nil
}
