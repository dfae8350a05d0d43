package service

import (
	"fmt"
	"math"

	"github.com/VeraMao/meowtrition-v2/internal/model"
)

const maxMealsPerDay = 10

// MealPortion is one meal's share of a daily total.
type MealPortion struct {
	Grams    int
	Calories int
}

// DistributeMealsEvenly splits a daily total into mealsPerDay equal meals.
// Each meal rounds independently, so the sum may drift from the daily total
// by up to mealsPerDay-1 units; that drift is accepted, not corrected.
func DistributeMealsEvenly(totalGrams, totalCalories float64, mealsPerDay int) ([]MealPortion, error) {
	if mealsPerDay <= 0 {
		return nil, fmt.Errorf("meals per day must be > 0")
	}
	if mealsPerDay > maxMealsPerDay {
		return nil, fmt.Errorf("meals per day must be <= %d", maxMealsPerDay)
	}
	if totalGrams < 0 || totalCalories < 0 {
		return nil, fmt.Errorf("daily totals must be >= 0")
	}

	gramsPerMeal := totalGrams / float64(mealsPerDay)
	caloriesPerMeal := totalCalories / float64(mealsPerDay)
	meals := make([]MealPortion, 0, mealsPerDay)
	for i := 0; i < mealsPerDay; i++ {
		meals = append(meals, MealPortion{
			Grams:    int(math.Round(gramsPerMeal)),
			Calories: int(math.Round(caloriesPerMeal)),
		})
	}
	return meals, nil
}

// SplitAmPm divides a daily total between the AM and PM buckets by
// percentage. The AM value rounds and PM takes the remainder, so the pair
// always sums exactly to the rounded total.
func SplitAmPm(total float64, amPercent int) (am, pm int, err error) {
	if amPercent < 0 || amPercent > 100 {
		return 0, 0, fmt.Errorf("am percentage must be between 0 and 100")
	}
	if total < 0 {
		return 0, 0, fmt.Errorf("daily total must be >= 0")
	}
	rounded := int(math.Round(total))
	am = int(math.Round(total * float64(amPercent) / 100))
	pm = rounded - am
	return am, pm, nil
}

// splitHalf halves a value with complement rounding (AM rounds, PM is the
// remainder).
func splitHalf(value float64) (int, int) {
	am := int(math.Round(value / 2))
	pm := int(math.Round(value)) - am
	return am, pm
}

// CalculateMixedFoodPortions allocates a calorie target across foods by
// weighted ratio. One food takes the whole target; otherwise ratios are
// normalized to sum to 1 (equal weighting when absent) and each food's
// grams follow from its own calorie density.
func CalculateMixedFoodPortions(targetCalories float64, foods []model.FoodItem, ratios []float64) ([]model.FoodPortion, error) {
	if targetCalories < 0 {
		return nil, fmt.Errorf("target calories must be >= 0")
	}
	if len(foods) == 0 {
		return []model.FoodPortion{}, nil
	}

	if len(foods) == 1 {
		grams, err := GramsForCalories(targetCalories, foods[0].CaloriesPer100g)
		if err != nil {
			return nil, fmt.Errorf("food %q: %w", foods[0].Name, err)
		}
		return []model.FoodPortion{{
			FoodID:   foods[0].ID,
			Grams:    int(math.Round(grams)),
			Calories: int(math.Round(targetCalories)),
		}}, nil
	}

	if ratios == nil {
		ratios = make([]float64, len(foods))
		for i := range ratios {
			ratios[i] = 1 / float64(len(foods))
		}
	}
	if len(ratios) != len(foods) {
		return nil, fmt.Errorf("got %d ratios for %d foods", len(ratios), len(foods))
	}
	var totalRatio float64
	for i, r := range ratios {
		if r < 0 {
			return nil, fmt.Errorf("ratio for food %q must be >= 0", foods[i].Name)
		}
		totalRatio += r
	}
	if totalRatio <= 0 {
		return nil, fmt.Errorf("ratios must sum to > 0")
	}

	portions := make([]model.FoodPortion, 0, len(foods))
	for i, food := range foods {
		calories := targetCalories * ratios[i] / totalRatio
		grams, err := GramsForCalories(calories, food.CaloriesPer100g)
		if err != nil {
			return nil, fmt.Errorf("food %q: %w", food.Name, err)
		}
		portions = append(portions, model.FoodPortion{
			FoodID:   food.ID,
			Grams:    int(math.Round(grams)),
			Calories: int(math.Round(calories)),
		})
	}
	return portions, nil
}

// RatioMode records whether the dry-ratio slider value came from the user or
// was forced by the allocator because only one food type is selected. An
// explicit tag instead of a side-effecting flag keeps the transition logic
// pure.
type RatioMode string

const (
	RatioUserSet   RatioMode = "user-set"
	RatioAutoForce RatioMode = "auto-forced"
)

// ResolveDryRatio returns the effective dry-food percentage and mode for the
// current food selection. With only dry food the ratio is forced to 100,
// with only wet food to 0; when both are present again an auto-forced
// extreme snaps back to the default so the user is not stuck at 0/100.
func ResolveDryRatio(hasDry, hasWet bool, sliderPercent int, mode RatioMode) (int, RatioMode) {
	const defaultDryPercent = 70
	switch {
	case hasDry && !hasWet:
		return 100, RatioAutoForce
	case !hasDry && hasWet:
		return 0, RatioAutoForce
	case hasDry && hasWet:
		if mode == RatioAutoForce && (sliderPercent == 0 || sliderPercent == 100) {
			return defaultDryPercent, RatioUserSet
		}
		return sliderPercent, RatioUserSet
	default:
		return 0, RatioAutoForce
	}
}

// MixInput describes a dry/wet meal mix: at most one dry and one wet food,
// a dry-calorie percentage, and an independent meal count per food type.
type MixInput struct {
	TargetCalories float64
	DryFood        *model.FoodItem
	WetFood        *model.FoodItem
	DryPercent     int
	DryMealsPerDay int
	WetMealsPerDay int
	WeightGoal     model.WeightGoal
	CustomFactor   *float64
}

// BuildMixPlan computes a mixed feeding plan: each food's daily calorie
// share from the dry ratio, grams from its density, AM/PM portions by
// complement halving, and a per-food meal schedule. A meal count of 0 emits
// no schedule entries for that food but its daily grams still count toward
// the plan total.
func BuildMixPlan(in MixInput) (model.FeedingPlan, error) {
	if in.TargetCalories <= 0 {
		return model.FeedingPlan{}, fmt.Errorf("target calories must be > 0")
	}
	if in.DryFood == nil && in.WetFood == nil {
		return model.FeedingPlan{}, fmt.Errorf("select at least one dry or wet food")
	}
	for _, mealCount := range []int{in.DryMealsPerDay, in.WetMealsPerDay} {
		if mealCount < 0 || mealCount > maxMealsPerDay {
			return model.FeedingPlan{}, fmt.Errorf("meals per day must be between 0 and %d", maxMealsPerDay)
		}
	}

	dryPercent, _ := ResolveDryRatio(in.DryFood != nil, in.WetFood != nil, in.DryPercent, RatioUserSet)
	dryRatio := float64(dryPercent) / 100

	dryCalories := in.TargetCalories * dryRatio
	wetCalories := in.TargetCalories * (1 - dryRatio)

	var dryGrams, wetGrams float64
	var err error
	if in.DryFood != nil && dryCalories > 0 {
		dryGrams, err = GramsForCalories(dryCalories, in.DryFood.CaloriesPer100g)
		if err != nil {
			return model.FeedingPlan{}, fmt.Errorf("dry food %q: %w", in.DryFood.Name, err)
		}
	}
	if in.WetFood != nil && wetCalories > 0 {
		wetGrams, err = GramsForCalories(wetCalories, in.WetFood.CaloriesPer100g)
		if err != nil {
			return model.FeedingPlan{}, fmt.Errorf("wet food %q: %w", in.WetFood.Name, err)
		}
	}
	totalGrams := dryGrams + wetGrams

	amGrams, pmGrams := splitHalf(totalGrams)

	var amPortions, pmPortions []model.FoodPortion
	appendPortions := func(food *model.FoodItem, grams, calories float64) {
		if food == nil || grams <= 0 || calories <= 0 {
			return
		}
		amG, pmG := splitHalf(grams)
		amC, pmC := splitHalf(calories)
		amPortions = append(amPortions, model.FoodPortion{FoodID: food.ID, Grams: amG, Calories: amC})
		pmPortions = append(pmPortions, model.FoodPortion{FoodID: food.ID, Grams: pmG, Calories: pmC})
	}
	appendPortions(in.DryFood, dryGrams, dryCalories)
	appendPortions(in.WetFood, wetGrams, wetCalories)

	var schedules []model.MealSchedule
	appendSchedules := func(food *model.FoodItem, mealCount int, grams, calories float64, label string) {
		if food == nil || mealCount <= 0 || grams <= 0 || calories <= 0 {
			return
		}
		gramsPerMeal := grams / float64(mealCount)
		caloriesPerMeal := calories / float64(mealCount)
		for i := 0; i < mealCount; i++ {
			portion := model.FoodPortion{
				FoodID:   food.ID,
				Grams:    int(math.Round(gramsPerMeal)),
				Calories: int(math.Round(caloriesPerMeal)),
			}
			schedules = append(schedules, model.MealSchedule{
				Time:     fmt.Sprintf("%s Meal %d", label, i+1),
				Grams:    portion.Grams,
				Calories: portion.Calories,
				Portions: []model.FoodPortion{portion},
			})
		}
	}
	appendSchedules(in.DryFood, in.DryMealsPerDay, dryGrams, dryCalories, "Dry")
	appendSchedules(in.WetFood, in.WetMealsPerDay, wetGrams, wetCalories, "Wet")

	primaryFoodID := int64(0)
	if in.DryFood != nil {
		primaryFoodID = in.DryFood.ID
	} else if in.WetFood != nil {
		primaryFoodID = in.WetFood.ID
	}

	mealsPerDay := in.DryMealsPerDay
	if in.WetMealsPerDay > mealsPerDay {
		mealsPerDay = in.WetMealsPerDay
	}
	if mealsPerDay < 1 {
		mealsPerDay = 1
	}

	return model.FeedingPlan{
		FoodID:              primaryFoodID,
		TotalGramsPerDay:    int(math.Round(totalGrams)),
		TotalCaloriesPerDay: int(math.Round(in.TargetCalories)),
		AmGrams:             amGrams,
		PmGrams:             pmGrams,
		WeightGoal:          in.WeightGoal,
		CustomFactor:        customFactorFor(in.WeightGoal, in.CustomFactor),
		IsMixed:             in.DryFood != nil && in.WetFood != nil,
		MealsPerDay:         mealsPerDay,
		FeedingType:         "scheduled",
		TreatAllowanceKcal:  TreatAllowance(in.TargetCalories, in.WeightGoal),
		AmPortions:          amPortions,
		PmPortions:          pmPortions,
		MealSchedules:       schedules,
	}, nil
}

func customFactorFor(goal model.WeightGoal, factor *float64) *float64 {
	if goal != model.GoalCustom {
		return nil
	}
	return factor
}
