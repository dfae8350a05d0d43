package service

import (
	"fmt"
	"math"

	"github.com/VeraMao/meowtrition-v2/internal/model"
)

// activityFactors is the single source of truth for MER multipliers,
// keyed by activity level; the pair is [neutered, intact].
var activityFactors = map[model.ActivityLevel][2]float64{
	model.ActivityLow:    {1.2, 1.4},
	model.ActivityMedium: {1.4, 1.6},
	model.ActivityHigh:   {1.6, 2.0},
}

// RestingEnergy computes the resting energy requirement (RER) in kcal/day:
// 70 * weight^0.75.
func RestingEnergy(weightKg float64) (float64, error) {
	if weightKg <= 0 {
		return 0, fmt.Errorf("weight must be > 0 kg")
	}
	return 70 * math.Pow(weightKg, 0.75), nil
}

func ActivityFactor(level model.ActivityLevel, isNeutered bool) (float64, error) {
	pair, ok := activityFactors[level]
	if !ok {
		return 0, fmt.Errorf("invalid activity level %q (use low, medium, or high)", level)
	}
	if isNeutered {
		return pair[0], nil
	}
	return pair[1], nil
}

// MaintenanceEnergy is RER scaled by the activity/neuter factor (MER).
func MaintenanceEnergy(profile model.CatProfile) (float64, error) {
	rer, err := RestingEnergy(profile.CurrentWeightKg)
	if err != nil {
		return 0, err
	}
	factor, err := ActivityFactor(profile.ActivityLevel, profile.IsNeutered)
	if err != nil {
		return 0, err
	}
	return rer * factor, nil
}

// GoalAdjustmentFactor maps a weight goal to its calorie multiplier.
// Custom factors must lie in [0.5, 1.5].
func GoalAdjustmentFactor(goal model.WeightGoal, customFactor *float64) (float64, error) {
	switch goal {
	case model.GoalLose:
		return 0.8, nil
	case model.GoalGain:
		return 1.2, nil
	case model.GoalCustom:
		if customFactor == nil {
			return 1.0, nil
		}
		if *customFactor < 0.5 || *customFactor > 1.5 {
			return 0, fmt.Errorf("custom factor must be between 0.5 and 1.5, got %.2f", *customFactor)
		}
		return *customFactor, nil
	case model.GoalMaintain, "":
		return 1.0, nil
	default:
		return 0, fmt.Errorf("invalid weight goal %q", goal)
	}
}

func TargetCalories(mer float64, goal model.WeightGoal, customFactor *float64) (float64, error) {
	factor, err := GoalAdjustmentFactor(goal, customFactor)
	if err != nil {
		return 0, err
	}
	return mer * factor, nil
}

// TargetCaloriesForGoal is the goal-aware target: for lose/gain goals with a
// target weight set, the RER base is the target weight so the plan aims at
// the destination weight's needs rather than the current one.
func TargetCaloriesForGoal(profile model.CatProfile, goal model.WeightGoal, customFactor *float64) (float64, error) {
	baseWeight := profile.CurrentWeightKg
	if (goal == model.GoalLose || goal == model.GoalGain) && profile.TargetWeightKg != nil {
		baseWeight = *profile.TargetWeightKg
	}
	rer, err := RestingEnergy(baseWeight)
	if err != nil {
		return 0, err
	}
	factor, err := ActivityFactor(profile.ActivityLevel, profile.IsNeutered)
	if err != nil {
		return 0, err
	}
	return TargetCalories(rer*factor, goal, customFactor)
}

// TreatAllowance is the daily calorie budget for treats: 5% of the target
// for weight loss, 10% otherwise, rounded to the nearest kcal.
func TreatAllowance(targetCalories float64, goal model.WeightGoal) int {
	pct := 0.10
	if goal == model.GoalLose {
		pct = 0.05
	}
	return int(math.Round(targetCalories * pct))
}

// CalculateTargetWeight derives a target weight by applying the goal's
// calorie factor directly to the current weight. This mirrors the calorie
// adjustment rather than any physiological model; it is kept as a documented
// approximation.
func CalculateTargetWeight(currentWeightKg float64, goal model.WeightGoal, customFactor *float64) (float64, error) {
	if currentWeightKg <= 0 {
		return 0, fmt.Errorf("weight must be > 0 kg")
	}
	factor, err := GoalAdjustmentFactor(goal, customFactor)
	if err != nil {
		return 0, err
	}
	return currentWeightKg * factor, nil
}

// InferWeightGoal guesses a goal from the current/target weight ratio:
// >10% below current means lose, >10% above means gain.
func InferWeightGoal(currentWeightKg float64, targetWeightKg *float64) model.WeightGoal {
	if targetWeightKg == nil || currentWeightKg <= 0 {
		return model.GoalMaintain
	}
	ratio := *targetWeightKg / currentWeightKg
	if ratio < 0.9 {
		return model.GoalLose
	}
	if ratio > 1.1 {
		return model.GoalGain
	}
	return model.GoalMaintain
}

// CalculationDetails is the step-by-step breakdown behind a plan, for
// display by `plan calc --explain`.
type CalculationDetails struct {
	RER                    float64
	ActivityFactor         float64
	MER                    float64
	WeightGoalLabel        string
	AdjustmentPercent      int
	TargetCalories         float64
	CaloriesPerGram        float64
	DailyGrams             float64
	TreatAllowancePercent  int
	TreatAllowanceCalories int
}

func GetCalculationDetails(profile model.CatProfile, food model.FoodItem, goal model.WeightGoal, customFactor *float64) (CalculationDetails, error) {
	rer, err := RestingEnergy(profile.CurrentWeightKg)
	if err != nil {
		return CalculationDetails{}, err
	}
	activity, err := ActivityFactor(profile.ActivityLevel, profile.IsNeutered)
	if err != nil {
		return CalculationDetails{}, err
	}
	mer := rer * activity

	adjustment, err := GoalAdjustmentFactor(goal, customFactor)
	if err != nil {
		return CalculationDetails{}, err
	}
	target, err := TargetCalories(mer, goal, customFactor)
	if err != nil {
		return CalculationDetails{}, err
	}
	dailyGrams, err := GramsForCalories(target, food.CaloriesPer100g)
	if err != nil {
		return CalculationDetails{}, err
	}

	adjustmentPct := int(math.Round((adjustment - 1) * 100))
	label := "Maintain"
	switch goal {
	case model.GoalLose:
		label = "Lose Weight (-20%)"
	case model.GoalGain:
		label = "Gain Weight (+20%)"
	case model.GoalCustom:
		sign := ""
		if adjustmentPct > 0 {
			sign = "+"
		}
		label = fmt.Sprintf("Custom (%s%d%%)", sign, adjustmentPct)
	}

	treatPct := 10
	if goal == model.GoalLose {
		treatPct = 5
	}

	return CalculationDetails{
		RER:                    rer,
		ActivityFactor:         activity,
		MER:                    mer,
		WeightGoalLabel:        label,
		AdjustmentPercent:      adjustmentPct,
		TargetCalories:         target,
		CaloriesPerGram:        food.CaloriesPer100g / 100,
		DailyGrams:             dailyGrams,
		TreatAllowancePercent:  treatPct,
		TreatAllowanceCalories: TreatAllowance(target, goal),
	}, nil
}
