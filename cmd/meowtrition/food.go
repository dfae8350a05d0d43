package meowtrition

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VeraMao/meowtrition-v2/internal/service"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Manage the food catalog",
}

var (
	foodName     string
	foodBrand    string
	foodType     string
	foodCalories float64
	foodCalUnit  string
	foodProtein  float64
	foodFat      float64
	foodCarbs    float64
	foodFiber    float64
	foodTags     []string
)

var foodAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a food to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.AddFood(sqldb, service.FoodInput{
				Name:         foodName,
				Brand:        foodBrand,
				Type:         foodType,
				CalorieValue: foodCalories,
				CalorieUnit:  foodCalUnit,
				ProteinPct:   foodProtein,
				FatPct:       foodFat,
				CarbPct:      foodCarbs,
				FiberPct:     foodFiber,
				Tags:         foodTags,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added food %d (%s)\n", id, foodName)
			return nil
		})
	},
}

var (
	foodFilterType  string
	foodFilterQuery string
	foodFilterLimit int
)

var foodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			foods, err := service.ListFoods(sqldb, service.FoodFilter{
				Type:  foodFilterType,
				Query: foodFilterQuery,
				Limit: foodFilterLimit,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tBRAND\tTYPE\tKCAL/100G")
			for _, f := range foods {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%.0f\n",
					f.ID, f.Name, f.Brand, f.Type, f.CaloriesPer100g)
			}
			return nil
		})
	},
}

var foodShowCmd = &cobra.Command{
	Use:   "show <food-id>",
	Short: "Show a food with unit conversions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("food id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			f, err := service.GetFood(sqldb, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:      %s\n", f.Name)
			if f.Brand != "" {
				fmt.Fprintf(out, "Brand:     %s\n", f.Brand)
			}
			fmt.Fprintf(out, "Type:      %s\n", f.Type)
			fmt.Fprintf(out, "Calories:  %.0f kcal/100g (%.0f kcal/cup)\n",
				f.CaloriesPer100g, f.CaloriesPer100g/100*service.CupsToGrams(1, f.Type))
			fmt.Fprintf(out, "Macros:    protein %.1f%%, fat %.1f%%, carbs %.1f%%, fiber %.1f%%\n",
				f.ProteinPct, f.FatPct, f.CarbPct, f.FiberPct)
			if len(f.Tags) > 0 {
				fmt.Fprintf(out, "Tags:      %s\n", strings.Join(f.Tags, ", "))
			}
			return nil
		})
	},
}

var foodDeleteCmd = &cobra.Command{
	Use:   "delete <food-id>",
	Short: "Delete a food from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("food id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteFood(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted food %d\n", id)
			return nil
		})
	},
}

var foodScanCmd = &cobra.Command{
	Use:   "scan <barcode>",
	Short: "Look up a barcode in the built-in offline catalog and save the food",
	Long:  "Look up a barcode in the built-in offline catalog and save the food. No camera or network is involved; only the bundled sample catalog is consulted.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			f, err := service.ScanBarcode(sqldb, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scanned %s: added food %d (%s, %.0f kcal/100g)\n",
				args[0], f.ID, f.Name, f.CaloriesPer100g)
			return nil
		})
	},
}

func init() {
	foodAddCmd.Flags().StringVar(&foodName, "name", "", "Food name (required)")
	foodAddCmd.Flags().StringVar(&foodBrand, "brand", "", "Brand")
	foodAddCmd.Flags().StringVar(&foodType, "type", "", "Food type: dry, wet, treat, prescription, or custom (required)")
	foodAddCmd.Flags().Float64Var(&foodCalories, "calories", 0, "Calorie value in the given unit (required)")
	foodAddCmd.Flags().StringVar(&foodCalUnit, "calorie-unit", "kcal/100g", "Calorie unit: kcal/100g, kcal/cup, or kcal ME/kg")
	foodAddCmd.Flags().Float64Var(&foodProtein, "protein", 0, "Protein percent")
	foodAddCmd.Flags().Float64Var(&foodFat, "fat", 0, "Fat percent")
	foodAddCmd.Flags().Float64Var(&foodCarbs, "carbs", 0, "Carbohydrate percent")
	foodAddCmd.Flags().Float64Var(&foodFiber, "fiber", 0, "Fiber percent")
	foodAddCmd.Flags().StringSliceVar(&foodTags, "tags", nil, "Comma-separated tags")

	foodListCmd.Flags().StringVar(&foodFilterType, "type", "", "Filter by food type")
	foodListCmd.Flags().StringVar(&foodFilterQuery, "query", "", "Search name and brand")
	foodListCmd.Flags().IntVar(&foodFilterLimit, "limit", 0, "Maximum foods to list")

	foodCmd.AddCommand(foodAddCmd, foodListCmd, foodShowCmd, foodDeleteCmd, foodScanCmd)
	rootCmd.AddCommand(foodCmd)
}
