package service

import (
	"fmt"
	"strings"

	"github.com/VeraMao/meowtrition-v2/internal/model"
)

// Display conversion factors. The cup weights are the app's fixed
// approximations (dry kibble vs. wet food density), not physical constants;
// they must stay exact for compatibility with existing data.
const (
	lbPerKg        = 2.20462
	dryGramsPerCup = 100.0
	wetGramsPerCup = 240.0
)

type CalorieUnit string

const (
	CalorieUnitPer100g CalorieUnit = "kcal/100g"
	CalorieUnitPerCup  CalorieUnit = "kcal/cup"
	CalorieUnitMEPerKg CalorieUnit = "kcal ME/kg"
)

// GramsForCalories converts a calorie amount to grams of a food with the
// given density in kcal/100g.
func GramsForCalories(calories float64, kcalPer100g float64) (float64, error) {
	if kcalPer100g <= 0 {
		return 0, fmt.Errorf("calorie density must be > 0 kcal/100g")
	}
	if calories < 0 {
		return 0, fmt.Errorf("calories must be >= 0")
	}
	return calories / (kcalPer100g / 100), nil
}

func CaloriesForGrams(grams float64, kcalPer100g float64) (float64, error) {
	if kcalPer100g <= 0 {
		return 0, fmt.Errorf("calorie density must be > 0 kcal/100g")
	}
	if grams < 0 {
		return 0, fmt.Errorf("grams must be >= 0")
	}
	return (grams / 100) * kcalPer100g, nil
}

func KgToLb(kg float64) float64 {
	return kg * lbPerKg
}

func LbToKg(lb float64) float64 {
	return lb / lbPerKg
}

func gramsPerCup(foodType model.FoodType) float64 {
	if foodType == model.FoodWet {
		return wetGramsPerCup
	}
	return dryGramsPerCup
}

func GramsToCups(grams float64, foodType model.FoodType) float64 {
	return grams / gramsPerCup(foodType)
}

func CupsToGrams(cups float64, foodType model.FoodType) float64 {
	return cups * gramsPerCup(foodType)
}

// ConvertWeightToKg normalizes user input to the canonical storage unit.
func ConvertWeightToKg(value float64, unit string) (float64, error) {
	if value <= 0 {
		return 0, fmt.Errorf("weight must be > 0")
	}
	switch u := strings.ToLower(strings.TrimSpace(unit)); u {
	case "", "kg":
		return value, nil
	case "lb", "lbs":
		return LbToKg(value), nil
	default:
		return 0, fmt.Errorf("invalid weight unit %q (use kg or lb)", unit)
	}
}

func WeightFromKg(weightKg float64, unit string) (float64, error) {
	switch u := strings.ToLower(strings.TrimSpace(unit)); u {
	case "", "kg":
		return weightKg, nil
	case "lb", "lbs":
		return KgToLb(weightKg), nil
	default:
		return 0, fmt.Errorf("invalid weight unit %q (use kg or lb)", unit)
	}
}

func ParseCalorieUnit(unit string) (CalorieUnit, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "kcal/100g":
		return CalorieUnitPer100g, nil
	case "kcal/cup":
		return CalorieUnitPerCup, nil
	case "kcal me/kg", "kcal/kg":
		return CalorieUnitMEPerKg, nil
	default:
		return "", fmt.Errorf("invalid calorie unit %q (use kcal/100g, kcal/cup, or kcal ME/kg)", unit)
	}
}

// CalorieDensityPer100g converts a calorie figure in any supported input
// unit to the canonical kcal/100g stored on the food. The cup conversion
// depends on the food type's grams-per-cup approximation. This runs once at
// food creation; everything downstream sees kcal/100g only.
func CalorieDensityPer100g(value float64, unit CalorieUnit, foodType model.FoodType) (float64, error) {
	if value <= 0 {
		return 0, fmt.Errorf("calorie value must be > 0")
	}
	switch unit {
	case CalorieUnitPer100g:
		return value, nil
	case CalorieUnitPerCup:
		return value / gramsPerCup(foodType) * 100, nil
	case CalorieUnitMEPerKg:
		return value / 10, nil
	default:
		return 0, fmt.Errorf("invalid calorie unit %q", unit)
	}
}
