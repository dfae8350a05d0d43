package meowtrition

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VeraMao/meowtrition-v2/internal/model"
	"github.com/VeraMao/meowtrition-v2/internal/service"
)

var mixCmd = &cobra.Command{
	Use:   "mix",
	Short: "Build mixed dry/wet feeding plans",
}

var (
	mixCatID        int64
	mixDryFoodID    int64
	mixWetFoodID    int64
	mixDryPercent   int
	mixDryMeals     int
	mixWetMeals     int
	mixGoal         string
	mixCustomFactor float64
)

func buildMixPlan(cmd *cobra.Command, sqldb *sql.DB) (model.FeedingPlan, error) {
	if mixDryFoodID == 0 && mixWetFoodID == 0 {
		return model.FeedingPlan{}, fmt.Errorf("at least one of --dry or --wet is required")
	}
	cat, err := service.GetCat(sqldb, mixCatID)
	if err != nil {
		return model.FeedingPlan{}, err
	}

	var dryFood, wetFood *model.FoodItem
	if mixDryFoodID != 0 {
		f, err := service.GetFood(sqldb, mixDryFoodID)
		if err != nil {
			return model.FeedingPlan{}, err
		}
		if f.Type != model.FoodDry {
			return model.FeedingPlan{}, fmt.Errorf("food %d is %s, not dry", f.ID, f.Type)
		}
		dryFood = &f
	}
	if mixWetFoodID != 0 {
		f, err := service.GetFood(sqldb, mixWetFoodID)
		if err != nil {
			return model.FeedingPlan{}, err
		}
		if f.Type != model.FoodWet {
			return model.FeedingPlan{}, fmt.Errorf("food %d is %s, not wet", f.ID, f.Type)
		}
		wetFood = &f
	}

	goal, custom := mixGoal, floatFlagPtr(cmd.Flags().Changed("factor"), mixCustomFactor)
	parsedGoal := model.WeightGoal(goal)
	if goal == "" {
		parsedGoal = model.GoalMaintain
	}
	target, err := service.TargetCaloriesForGoal(cat, parsedGoal, custom)
	if err != nil {
		return model.FeedingPlan{}, err
	}

	plan, err := service.BuildMixPlan(service.MixInput{
		TargetCalories: target,
		DryFood:        dryFood,
		WetFood:        wetFood,
		DryPercent:     mixDryPercent,
		DryMealsPerDay: mixDryMeals,
		WetMealsPerDay: mixWetMeals,
		WeightGoal:     parsedGoal,
		CustomFactor:   custom,
	})
	if err != nil {
		return model.FeedingPlan{}, err
	}
	plan.CatID = mixCatID
	return plan, nil
}

func printMixPlan(cmd *cobra.Command, sqldb *sql.DB, plan model.FeedingPlan) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Daily target: %d kcal (%d g)\n", plan.TotalCaloriesPerDay, plan.TotalGramsPerDay)
	fmt.Fprintf(out, "AM/PM split:  %d g / %d g\n", plan.AmGrams, plan.PmGrams)
	fmt.Fprintf(out, "Treats:       up to %d kcal/day\n", plan.TreatAllowanceKcal)
	fmt.Fprintln(out, "Portions:")
	for _, bucket := range []struct {
		name     string
		portions []model.FoodPortion
	}{{"AM", plan.AmPortions}, {"PM", plan.PmPortions}} {
		for _, p := range bucket.portions {
			name := fmt.Sprintf("food %d", p.FoodID)
			if f, err := service.GetFood(sqldb, p.FoodID); err == nil {
				name = f.Name
			}
			fmt.Fprintf(out, "  %s\t%s\t%d g\t%d kcal\n", bucket.name, name, p.Grams, p.Calories)
		}
	}
	if len(plan.MealSchedules) > 0 {
		fmt.Fprintln(out, "Meals:")
		for _, m := range plan.MealSchedules {
			fmt.Fprintf(out, "  %s\t%d g\t%d kcal\n", m.Time, m.Grams, m.Calories)
		}
	}
}

var mixCalcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate a mixed plan without saving it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			plan, err := buildMixPlan(cmd, sqldb)
			if err != nil {
				return err
			}
			printMixPlan(cmd, sqldb, plan)
			return nil
		})
	},
}

var mixSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Calculate and save a mixed plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			plan, err := buildMixPlan(cmd, sqldb)
			if err != nil {
				return err
			}
			if err := service.SavePlan(sqldb, plan); err != nil {
				return err
			}
			printMixPlan(cmd, sqldb, plan)
			fmt.Fprintf(cmd.OutOrStdout(), "\nSaved mixed plan for cat %d\n", plan.CatID)
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{mixCalcCmd, mixSaveCmd} {
		c.Flags().Int64Var(&mixCatID, "cat", 0, "Cat id (required)")
		c.Flags().Int64Var(&mixDryFoodID, "dry", 0, "Dry food id")
		c.Flags().Int64Var(&mixWetFoodID, "wet", 0, "Wet food id")
		c.Flags().IntVar(&mixDryPercent, "dry-percent", 70, "Percent of calories from dry food")
		c.Flags().IntVar(&mixDryMeals, "dry-meals", 2, "Dry food meals per day")
		c.Flags().IntVar(&mixWetMeals, "wet-meals", 1, "Wet food meals per day")
		c.Flags().StringVar(&mixGoal, "goal", "maintain", "Weight goal: maintain, lose, gain, or custom")
		c.Flags().Float64Var(&mixCustomFactor, "factor", 1.0, "Custom calorie factor (0.5 to 1.5), only with --goal custom")
	}

	mixCmd.AddCommand(mixCalcCmd, mixSaveCmd)
	rootCmd.AddCommand(mixCmd)
}
