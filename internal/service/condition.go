package service

import (
	"fmt"

	"github.com/VeraMao/meowtrition-v2/internal/model"
)

// averageAdultWeightKg is the baseline for the weight-ratio body condition
// score. The breed parameter is accepted for interface stability but no
// breed-specific baseline exists yet; all cats score against the average.
const averageAdultWeightKg = 4.0

func BodyConditionFor(weightKg float64, breed string) (model.BodyCondition, error) {
	_ = breed
	if weightKg <= 0 {
		return "", fmt.Errorf("weight must be > 0 kg")
	}
	ratio := weightKg / averageAdultWeightKg
	switch {
	case ratio < 0.7:
		return model.ConditionVeryUnderweight, nil
	case ratio < 0.85:
		return model.ConditionUnderweight, nil
	case ratio <= 1.15:
		return model.ConditionIdeal, nil
	case ratio <= 1.35:
		return model.ConditionOverweight, nil
	default:
		return model.ConditionObese, nil
	}
}

func BodyConditionLabel(condition model.BodyCondition) string {
	switch condition {
	case model.ConditionVeryUnderweight:
		return "Very Underweight"
	case model.ConditionUnderweight:
		return "Underweight"
	case model.ConditionIdeal:
		return "Healthy Weight"
	case model.ConditionOverweight:
		return "Overweight"
	case model.ConditionObese:
		return "Obese"
	default:
		return string(condition)
	}
}

func BodyConditionDescription(condition model.BodyCondition) string {
	switch condition {
	case model.ConditionVeryUnderweight:
		return "Zero body fat; ribs and spine visible from a distance"
	case model.ConditionUnderweight:
		return "Ribs are visible; waist is pronounced"
	case model.ConditionIdeal:
		return "Ribs can be felt when petting; clearly defined waist is seen from above"
	case model.ConditionOverweight:
		return "Ribs only felt when applying pressure; belly pooch visible when viewed from the side"
	case model.ConditionObese:
		return "Ribs can't be felt; belly is extended"
	default:
		return ""
	}
}
