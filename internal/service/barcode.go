package service

import (
	"database/sql"
	"fmt"
	"regexp"

	"github.com/VeraMao/meowtrition-v2/internal/model"
)

var barcodePattern = regexp.MustCompile(`^\d{8,14}$`)

// scanCatalog is a small built-in barcode catalog standing in for a real
// product database lookup.
var scanCatalog = map[string]FoodInput{
	"4902201416894": {
		Name:         "Ocean Whitefish Dry",
		Brand:        "Seaside",
		Type:         "dry",
		CalorieValue: 382,
		CalorieUnit:  "kcal/100g",
		ProteinPct:   34,
		FatPct:       14,
		CarbPct:      38,
		FiberPct:     4,
		Tags:         []string{"fish", "adult"},
	},
	"0017800149303": {
		Name:         "Chicken Pate",
		Brand:        "Homestead",
		Type:         "wet",
		CalorieValue: 92,
		CalorieUnit:  "kcal/100g",
		ProteinPct:   10,
		FatPct:       5,
		CarbPct:      2,
		FiberPct:     1,
		Tags:         []string{"chicken", "grain-free"},
	},
	"8850477010215": {
		Name:         "Salmon Crunch Treats",
		Brand:        "Seaside",
		Type:         "treat",
		CalorieValue: 410,
		CalorieUnit:  "kcal/100g",
		ProteinPct:   30,
		FatPct:       18,
		CarbPct:      40,
		FiberPct:     2,
		Tags:         []string{"salmon", "treat"},
	},
}

// ScanBarcode resolves a barcode against the built-in catalog and saves
// the matching food. The barcode must be 8 to 14 digits; unknown codes
// return a not-found error rather than creating a placeholder.
func ScanBarcode(db *sql.DB, code string) (model.FoodItem, error) {
	if !barcodePattern.MatchString(code) {
		return model.FoodItem{}, fmt.Errorf("invalid barcode %q (expected 8 to 14 digits)", code)
	}
	in, ok := scanCatalog[code]
	if !ok {
		return model.FoodItem{}, fmt.Errorf("barcode %s not found in catalog", code)
	}
	id, err := AddFood(db, in)
	if err != nil {
		return model.FoodItem{}, err
	}
	return GetFood(db, id)
}
