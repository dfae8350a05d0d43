package service

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// Known config keys and their allowed values. An empty slice means any
// value is accepted.
var configKeys = map[string][]string{
	"weight_unit":    {"kg", "lb"},
	"portion_unit":   {"grams", "cups"},
	"calorie_unit":   {"kcal/100g", "kcal/cup", "kcal me/kg"},
	"default_meals":  nil,
	"export_format":  {"json", "yaml"},
	"active_cat_id":  nil,
	"treat_warnings": {"on", "off"},
	"theme":          nil,
}

func SetConfig(db *sql.DB, key, value string) error {
	key = normalizeName(key)
	allowed, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(knownConfigKeys(), ", "))
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("config value is required")
	}
	if len(allowed) > 0 {
		valid := false
		for _, a := range allowed {
			if strings.EqualFold(value, a) {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid value %q for %s (use %s)", value, key, strings.Join(allowed, " or "))
		}
	}
	_, err := db.Exec(`
INSERT INTO app_config(key, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`, key, value)
	if err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	return nil
}

func GetConfig(db *sql.DB, key string) (string, error) {
	key = normalizeName(key)
	if _, ok := configKeys[key]; !ok {
		return "", fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(knownConfigKeys(), ", "))
	}
	var value string
	err := db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get config %s: %w", key, err)
	}
	return value, nil
}

func ListConfig(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM app_config ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

func knownConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
