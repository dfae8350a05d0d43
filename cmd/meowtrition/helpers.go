package meowtrition

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/VeraMao/meowtrition-v2/internal/app"
	"github.com/VeraMao/meowtrition-v2/internal/db"
	"github.com/VeraMao/meowtrition-v2/internal/service"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return app.DefaultDBPath()
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func parseDateTimeOrNow(date, timeStr string) (time.Time, error) {
	date = strings.TrimSpace(date)
	timeStr = strings.TrimSpace(timeStr)
	if date == "" && timeStr == "" {
		return time.Now(), nil
	}
	if date == "" {
		return time.Time{}, fmt.Errorf("--date is required when --time is set")
	}
	if timeStr == "" {
		t, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
		}
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date/--time (expected YYYY-MM-DD and HH:MM)")
	}
	return t, nil
}

// floatFlagPtr turns a flag that was explicitly set into a pointer, so
// services can tell "not provided" apart from zero.
func floatFlagPtr(changed bool, value float64) *float64 {
	if !changed {
		return nil
	}
	return &value
}

// defaultWeightUnit resolves the weight unit when no flag was given:
// MEOWTRITION_WEIGHT_UNIT wins, then the weight_unit preference.
func defaultWeightUnit(sqldb *sql.DB, fallback string) string {
	if env := strings.TrimSpace(os.Getenv("MEOWTRITION_WEIGHT_UNIT")); env != "" {
		return env
	}
	if pref, err := service.GetConfig(sqldb, "weight_unit"); err == nil && pref != "" {
		return pref
	}
	return fallback
}

// formatWeight renders a stored kg weight in the cat's preferred unit.
func formatWeight(weightKg float64, unitPref string) string {
	value, err := service.WeightFromKg(weightKg, unitPref)
	if err != nil {
		return fmt.Sprintf("%.2f kg", weightKg)
	}
	unit := "kg"
	if strings.EqualFold(strings.TrimSpace(unitPref), "lb") {
		unit = "lb"
	}
	return fmt.Sprintf("%.2f %s", value, unit)
}
