package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/VeraMao/meowtrition-v2/internal/model"
)

func validateNonNegativeInt(name string, value int) error {
	if value < 0 {
		return fmt.Errorf("%s must be >= 0", name)
	}
	return nil
}

func validateNonNegativeFloat(name string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%s must be >= 0", name)
	}
	return nil
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

func parseActivityLevel(level string) (model.ActivityLevel, error) {
	switch model.ActivityLevel(normalizeName(level)) {
	case model.ActivityLow:
		return model.ActivityLow, nil
	case model.ActivityMedium:
		return model.ActivityMedium, nil
	case model.ActivityHigh:
		return model.ActivityHigh, nil
	default:
		return "", fmt.Errorf("invalid activity level %q (use low, medium, or high)", level)
	}
}

func parseWeightGoal(goal string) (model.WeightGoal, error) {
	g := normalizeName(goal)
	if g == "" {
		return model.GoalMaintain, nil
	}
	switch model.WeightGoal(g) {
	case model.GoalMaintain, model.GoalLose, model.GoalGain, model.GoalCustom:
		return model.WeightGoal(g), nil
	default:
		return "", fmt.Errorf("invalid weight goal %q (use maintain, lose, gain, or custom)", goal)
	}
}

func parseFoodType(foodType string) (model.FoodType, error) {
	switch model.FoodType(normalizeName(foodType)) {
	case model.FoodDry:
		return model.FoodDry, nil
	case model.FoodWet:
		return model.FoodWet, nil
	case model.FoodTreat:
		return model.FoodTreat, nil
	case model.FoodPrescription:
		return model.FoodPrescription, nil
	case model.FoodCustom:
		return model.FoodCustom, nil
	default:
		return "", fmt.Errorf("invalid food type %q (use dry, wet, treat, prescription, or custom)", foodType)
	}
}

func dayBounds(date string) (string, string, error) {
	start, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), time.Local)
	if err != nil {
		return "", "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}
	end := start.AddDate(0, 0, 1)
	return start.Format(time.RFC3339), end.Format(time.RFC3339), nil
}
