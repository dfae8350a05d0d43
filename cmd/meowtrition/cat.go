package meowtrition

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VeraMao/meowtrition-v2/internal/service"
)

var catCmd = &cobra.Command{
	Use:   "cat",
	Short: "Manage cat profiles",
}

var (
	catName         string
	catBreed        string
	catGender       string
	catAge          int
	catWeight       float64
	catWeightUnit   string
	catTargetWeight float64
	catClearTarget  bool
	catNeutered     bool
	catActivity     string
	catPhotoURL     string
)

var catAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new cat profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			unit := catWeightUnit
			if !cmd.Flags().Changed("unit") {
				unit = defaultWeightUnit(sqldb, unit)
			}
			in := service.CatInput{
				Name:          catName,
				Breed:         catBreed,
				Gender:        catGender,
				Age:           catAge,
				Weight:        catWeight,
				WeightUnit:    unit,
				TargetWeight:  floatFlagPtr(cmd.Flags().Changed("target-weight"), catTargetWeight),
				IsNeutered:    catNeutered,
				ActivityLevel: catActivity,
				PhotoURL:      catPhotoURL,
			}
			id, err := service.AddCat(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added cat %d (%s)\n", id, catName)
			return nil
		})
	},
}

var catListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cat profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			cats, err := service.ListCats(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tAGE\tWEIGHT\tCONDITION\tACTIVITY")
			for _, c := range cats {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d\t%s\t%s\t%s\n",
					c.ID, c.Name, c.Age, formatWeight(c.CurrentWeightKg, c.WeightUnitPref),
					service.BodyConditionLabel(c.BodyCondition), c.ActivityLevel)
			}
			return nil
		})
	},
}

var catShowCmd = &cobra.Command{
	Use:   "show <cat-id>",
	Short: "Show a cat profile with calculated targets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("cat id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			cat, err := service.GetCat(sqldb, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:       %s\n", cat.Name)
			if cat.Breed != "" {
				fmt.Fprintf(out, "Breed:      %s\n", cat.Breed)
			}
			if cat.Gender != "" {
				fmt.Fprintf(out, "Gender:     %s\n", cat.Gender)
			}
			fmt.Fprintf(out, "Age:        %d\n", cat.Age)
			fmt.Fprintf(out, "Weight:     %s\n", formatWeight(cat.CurrentWeightKg, cat.WeightUnitPref))
			if cat.TargetWeightKg != nil {
				fmt.Fprintf(out, "Target:     %s\n", formatWeight(*cat.TargetWeightKg, cat.WeightUnitPref))
			}
			fmt.Fprintf(out, "Neutered:   %t\n", cat.IsNeutered)
			fmt.Fprintf(out, "Activity:   %s\n", cat.ActivityLevel)
			fmt.Fprintf(out, "Condition:  %s (%s)\n",
				service.BodyConditionLabel(cat.BodyCondition),
				service.BodyConditionDescription(cat.BodyCondition))

			goal := service.InferWeightGoal(cat.CurrentWeightKg, cat.TargetWeightKg)
			target, err := service.TargetCaloriesForGoal(cat, goal, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Goal:       %s\n", goal)
			fmt.Fprintf(out, "Calories:   %.0f kcal/day\n", target)

			if review, err := service.GetPendingReview(sqldb, id); err != nil {
				return err
			} else if review != nil {
				fmt.Fprintf(out, "\nPending plan review: %d -> %d kcal/day (run 'meowtrition cat review show %d')\n",
					review.OldCalories, review.NewCalories, id)
			}
			return nil
		})
	},
}

var catEditCmd = &cobra.Command{
	Use:   "edit <cat-id>",
	Short: "Edit a cat profile",
	Long:  "Edit a cat profile. Changing weight, activity, neuter status, or age while a feeding plan exists opens a plan review instead of committing immediately.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("cat id", args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		upd := service.CatUpdate{ClearTarget: catClearTarget}
		if flags.Changed("name") {
			upd.Name = &catName
		}
		if flags.Changed("breed") {
			upd.Breed = &catBreed
		}
		if flags.Changed("gender") {
			upd.Gender = &catGender
		}
		if flags.Changed("age") {
			upd.Age = &catAge
		}
		if flags.Changed("weight") {
			upd.Weight = &catWeight
		}
		if flags.Changed("unit") {
			upd.WeightUnit = &catWeightUnit
		}
		if flags.Changed("target-weight") {
			upd.TargetWeight = &catTargetWeight
		}
		if flags.Changed("neutered") {
			upd.IsNeutered = &catNeutered
		}
		if flags.Changed("activity") {
			upd.ActivityLevel = &catActivity
		}
		if flags.Changed("photo") {
			upd.PhotoURL = &catPhotoURL
		}

		return withDB(func(sqldb *sql.DB) error {
			result, err := service.UpdateCat(sqldb, id, upd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if result.Review == nil {
				fmt.Fprintf(out, "Updated cat %d\n", id)
				return nil
			}
			fmt.Fprintf(out, "This change affects %s's feeding plan.\n", result.Review.CatName)
			fmt.Fprintf(out, "  Current plan: %d kcal/day (%d g)\n", result.Review.OldCalories, result.Review.OldGrams)
			fmt.Fprintf(out, "  New target:   %d kcal/day (%d g)\n", result.Review.NewCalories, result.Review.NewGrams)
			fmt.Fprintf(out, "Resolve with 'meowtrition cat review apply %d', 'keep %d', or 'dismiss %d'.\n", id, id, id)
			return nil
		})
	},
}

var catDeleteCmd = &cobra.Command{
	Use:   "delete <cat-id>",
	Short: "Delete a cat and all its data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("cat id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteCat(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted cat %d\n", id)
			return nil
		})
	},
}

var (
	weightValue float64
	weightUnit  string
)

var catWeightCmd = &cobra.Command{
	Use:   "weight <cat-id>",
	Short: "Record a new weight for a cat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("cat id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			result, err := service.RecordWeight(sqldb, id, weightValue, weightUnit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recorded %.2f kg; body condition: %s\n",
				result.WeightKg, service.BodyConditionLabel(result.Condition))
			switch result.Proximity {
			case service.TargetReached:
				fmt.Fprintln(out, "Target weight reached. Congratulations!")
			case service.TargetClose:
				fmt.Fprintln(out, "Almost there: weight is close to the target.")
			}
			return nil
		})
	},
}

var historyLimit int

var catHistoryCmd = &cobra.Command{
	Use:   "history <cat-id>",
	Short: "Show a cat's weight history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("cat id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			cat, err := service.GetCat(sqldb, id)
			if err != nil {
				return err
			}
			entries, err := service.WeightHistory(sqldb, id, historyLimit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "DATE\tWEIGHT")
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n",
					e.RecordedAt.Local().Format("2006-01-02 15:04"),
					formatWeight(e.WeightKg, cat.WeightUnitPref))
			}
			return nil
		})
	},
}

var (
	goalName   string
	goalFactor float64
)

var catGoalCmd = &cobra.Command{
	Use:   "goal <cat-id>",
	Short: "Change the weight goal and recompute the target weight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("cat id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			factor := floatFlagPtr(cmd.Flags().Changed("factor"), goalFactor)
			newTarget, err := service.ChangeWeightGoal(sqldb, id, goalName, factor)
			if err != nil {
				return err
			}
			cat, err := service.GetCat(sqldb, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Goal set to %s; new target weight %s\n",
				goalName, formatWeight(newTarget, cat.WeightUnitPref))
			return nil
		})
	},
}

var catSelectFoodCmd = &cobra.Command{
	Use:   "select-food <cat-id> <food-id>",
	Short: "Set the cat's main food",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		catID, err := parseInt64Arg("cat id", args[0])
		if err != nil {
			return err
		}
		foodID, err := parseInt64Arg("food id", args[1])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SelectFood(sqldb, catID, foodID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cat %d now feeds on food %d\n", catID, foodID)
			return nil
		})
	},
}

func init() {
	catAddCmd.Flags().StringVar(&catName, "name", "", "Cat name (required)")
	catAddCmd.Flags().StringVar(&catBreed, "breed", "", "Breed")
	catAddCmd.Flags().StringVar(&catGender, "gender", "", "male or female")
	catAddCmd.Flags().IntVar(&catAge, "age", 0, "Age in years")
	catAddCmd.Flags().Float64Var(&catWeight, "weight", 0, "Current weight (required)")
	catAddCmd.Flags().StringVar(&catWeightUnit, "unit", "kg", "Weight unit: kg or lb")
	catAddCmd.Flags().Float64Var(&catTargetWeight, "target-weight", 0, "Target weight in the same unit")
	catAddCmd.Flags().BoolVar(&catNeutered, "neutered", false, "Cat is neutered/spayed")
	catAddCmd.Flags().StringVar(&catActivity, "activity", "medium", "Activity level: low, medium, or high")
	catAddCmd.Flags().StringVar(&catPhotoURL, "photo", "", "Photo URL or path")

	catEditCmd.Flags().StringVar(&catName, "name", "", "Cat name")
	catEditCmd.Flags().StringVar(&catBreed, "breed", "", "Breed")
	catEditCmd.Flags().StringVar(&catGender, "gender", "", "male or female")
	catEditCmd.Flags().IntVar(&catAge, "age", 0, "Age in years")
	catEditCmd.Flags().Float64Var(&catWeight, "weight", 0, "Current weight")
	catEditCmd.Flags().StringVar(&catWeightUnit, "unit", "", "Weight unit: kg or lb")
	catEditCmd.Flags().Float64Var(&catTargetWeight, "target-weight", 0, "Target weight")
	catEditCmd.Flags().BoolVar(&catClearTarget, "clear-target", false, "Remove the target weight")
	catEditCmd.Flags().BoolVar(&catNeutered, "neutered", false, "Cat is neutered/spayed")
	catEditCmd.Flags().StringVar(&catActivity, "activity", "", "Activity level: low, medium, or high")
	catEditCmd.Flags().StringVar(&catPhotoURL, "photo", "", "Photo URL or path")

	catWeightCmd.Flags().Float64Var(&weightValue, "value", 0, "Weight value (required)")
	catWeightCmd.Flags().StringVar(&weightUnit, "unit", "kg", "Weight unit: kg or lb")

	catHistoryCmd.Flags().IntVar(&historyLimit, "limit", 50, "Maximum entries to show")

	catGoalCmd.Flags().StringVar(&goalName, "goal", "maintain", "Weight goal: maintain, lose, gain, or custom")
	catGoalCmd.Flags().Float64Var(&goalFactor, "factor", 1.0, "Custom calorie factor (0.5 to 1.5), only with --goal custom")

	catCmd.AddCommand(catAddCmd, catListCmd, catShowCmd, catEditCmd, catDeleteCmd,
		catWeightCmd, catHistoryCmd, catGoalCmd, catSelectFoodCmd, catReviewCmd)
	rootCmd.AddCommand(catCmd)
}
