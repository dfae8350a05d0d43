package meowtrition

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VeraMao/meowtrition-v2/internal/model"
	"github.com/VeraMao/meowtrition-v2/internal/service"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build and manage single-food feeding plans",
}

var (
	planCatID        int64
	planFoodID       int64
	planGoal         string
	planCustomFactor float64
	planAmPercent    int
	planMeals        int
	planSave         bool
	planExplain      bool
)

var planCalcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate a feeding plan without saving it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			plan, err := buildSingleFoodPlan(cmd, sqldb)
			if err != nil {
				return err
			}
			printPlan(cmd, sqldb, plan)
			if planExplain {
				if err := printCalculationDetails(cmd, sqldb, plan); err != nil {
					return err
				}
			}
			if planSave {
				if err := service.SavePlan(sqldb, plan); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nSaved plan for cat %d\n", plan.CatID)
			}
			return nil
		})
	},
}

var planSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Calculate and save a feeding plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			plan, err := buildSingleFoodPlan(cmd, sqldb)
			if err != nil {
				return err
			}
			if err := service.SavePlan(sqldb, plan); err != nil {
				return err
			}
			printPlan(cmd, sqldb, plan)
			fmt.Fprintf(cmd.OutOrStdout(), "\nSaved plan for cat %d\n", plan.CatID)
			return nil
		})
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show <cat-id>",
	Short: "Show the cat's saved feeding plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("cat id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			plan, err := service.GetPlan(sqldb, id)
			if err != nil {
				return err
			}
			if plan == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No saved plan for cat %d\n", id)
				return nil
			}
			printPlan(cmd, sqldb, *plan)
			return nil
		})
	},
}

func buildSingleFoodPlan(cmd *cobra.Command, sqldb *sql.DB) (model.FeedingPlan, error) {
	return service.BuildPlan(sqldb, service.PlanInput{
		CatID:        planCatID,
		FoodID:       planFoodID,
		WeightGoal:   planGoal,
		CustomFactor: floatFlagPtr(cmd.Flags().Changed("factor"), planCustomFactor),
		AmPercent:    planAmPercent,
		MealsPerDay:  planMeals,
	})
}

func printCalculationDetails(cmd *cobra.Command, sqldb *sql.DB, plan model.FeedingPlan) error {
	cat, err := service.GetCat(sqldb, plan.CatID)
	if err != nil {
		return err
	}
	food, err := service.GetFood(sqldb, plan.FoodID)
	if err != nil {
		return err
	}
	d, err := service.GetCalculationDetails(cat, food, plan.WeightGoal, plan.CustomFactor)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nHow the numbers are calculated:")
	fmt.Fprintf(out, "  Resting energy (70 x kg^0.75):   %.1f kcal\n", d.RER)
	fmt.Fprintf(out, "  Activity factor:                 x %.1f\n", d.ActivityFactor)
	fmt.Fprintf(out, "  Maintenance energy:              %.1f kcal\n", d.MER)
	fmt.Fprintf(out, "  Goal adjustment:                 %s\n", d.WeightGoalLabel)
	fmt.Fprintf(out, "  Daily target:                    %.0f kcal\n", d.TargetCalories)
	fmt.Fprintf(out, "  Food density:                    %.2f kcal/g\n", d.CaloriesPerGram)
	fmt.Fprintf(out, "  Daily amount:                    %.0f g\n", d.DailyGrams)
	fmt.Fprintf(out, "  Treat allowance (%d%%):           %d kcal\n", d.TreatAllowancePercent, d.TreatAllowanceCalories)
	return nil
}

func printPlan(cmd *cobra.Command, sqldb *sql.DB, plan model.FeedingPlan) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Daily target: %d kcal (%d g)\n", plan.TotalCaloriesPerDay, plan.TotalGramsPerDay)
	fmt.Fprintf(out, "Goal:         %s\n", plan.WeightGoal)
	fmt.Fprintf(out, "AM/PM split:  %d g / %d g\n", plan.AmGrams, plan.PmGrams)
	fmt.Fprintf(out, "Treats:       up to %d kcal/day\n", plan.TreatAllowanceKcal)
	if plan.FeedingType == "free" {
		fmt.Fprintln(out, "Feeding:      free (no schedule)")
	}
	if food, err := service.GetFood(sqldb, plan.FoodID); err == nil && !plan.IsMixed {
		cups := service.GramsToCups(float64(plan.TotalGramsPerDay), food.Type)
		fmt.Fprintf(out, "Food:         %s (%.0f kcal/100g, about %.1f cups/day)\n",
			food.Name, food.CaloriesPer100g, cups)
	}
	if len(plan.MealSchedules) > 0 {
		fmt.Fprintln(out, "Meals:")
		for _, m := range plan.MealSchedules {
			fmt.Fprintf(out, "  %s\t%d g\t%d kcal\n", m.Time, m.Grams, m.Calories)
		}
	}
}

func init() {
	for _, c := range []*cobra.Command{planCalcCmd, planSaveCmd} {
		c.Flags().Int64Var(&planCatID, "cat", 0, "Cat id (required)")
		c.Flags().Int64Var(&planFoodID, "food", 0, "Food id (required)")
		c.Flags().StringVar(&planGoal, "goal", "maintain", "Weight goal: maintain, lose, gain, or custom")
		c.Flags().Float64Var(&planCustomFactor, "factor", 1.0, "Custom calorie factor (0.5 to 1.5), only with --goal custom")
		c.Flags().IntVar(&planAmPercent, "am-percent", 50, "Percent of daily grams fed in the morning")
		c.Flags().IntVar(&planMeals, "meals", 2, "Meals per day (0 for free feeding)")
	}
	planCalcCmd.Flags().BoolVar(&planSave, "save", false, "Also save the calculated plan")
	planCalcCmd.Flags().BoolVar(&planExplain, "explain", false, "Show the step-by-step calorie breakdown")

	planCmd.AddCommand(planCalcCmd, planSaveCmd, planShowCmd)
	rootCmd.AddCommand(planCmd)
}
