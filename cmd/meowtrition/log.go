package meowtrition

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/VeraMao/meowtrition-v2/internal/service"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record and review feedings",
}

var (
	logCatID      int64
	logFoodID     int64
	logCustomName string
	logGrams      float64
	logIsTreat    bool
	logTreatTag   string
	logDate       string
	logTime       string

	logListDay    string
	logListTreats bool
	logListLimit  int

	logTodayDay string
)

var logAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a feeding",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			fedAt, err := parseDateTimeOrNow(logDate, logTime)
			if err != nil {
				return err
			}
			in := service.FeedingLogInput{
				CatID:          logCatID,
				CustomFoodName: logCustomName,
				Grams:          logGrams,
				IsTreat:        logIsTreat,
				TreatTag:       logTreatTag,
				FedAt:          fedAt,
			}
			if cmd.Flags().Changed("food") {
				in.FoodID = &logFoodID
			}
			id, err := service.AddFeedingLog(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged feeding %d (%.0f g)\n", id, logGrams)
			return nil
		})
	},
}

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "List feedings for a cat",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			logs, err := service.ListFeedingLogs(sqldb, service.FeedingLogFilter{
				CatID:      logCatID,
				Day:        logListDay,
				TreatsOnly: logListTreats,
				Limit:      logListLimit,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(logs) == 0 {
				fmt.Fprintln(out, "No feedings recorded.")
				return nil
			}
			for _, l := range logs {
				name := l.CustomFoodName
				if l.FoodID != nil {
					if f, err := service.GetFood(sqldb, *l.FoodID); err == nil {
						name = f.Name
					} else {
						name = fmt.Sprintf("food %d", *l.FoodID)
					}
				}
				marker := ""
				if l.IsTreat {
					marker = "treat"
					if l.TreatTag != "" {
						marker = "treat/" + l.TreatTag
					}
				}
				fmt.Fprintf(out, "%d\t%s\t%s\t%.0f g\t%d kcal\t%s\n",
					l.ID, l.FedAt.Format("2006-01-02 15:04"), name, l.Grams, l.Calories, marker)
			}
			return nil
		})
	},
}

var logTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Summarize a day's intake against the plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			day := logTodayDay
			if day == "" {
				day = time.Now().Format("2006-01-02")
			}
			s, err := service.SummarizeDay(sqldb, logCatID, day)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Summary for %s\n", s.Day)
			fmt.Fprintf(out, "Entries:  %d\n", s.Entries)
			fmt.Fprintf(out, "Fed:      %.0f g, %d kcal\n", s.TotalGrams, s.TotalCalories)
			fmt.Fprintf(out, "Treats:   %d kcal\n", s.TreatCalories)
			if s.TargetCalories > 0 {
				fmt.Fprintf(out, "Target:   %d kcal (%d remaining)\n", s.TargetCalories, s.TargetCalories-s.TotalCalories)
				if s.TreatCalories > s.TreatAllowance {
					fmt.Fprintf(out, "Treats exceed the daily allowance of %d kcal.\n", s.TreatAllowance)
				}
			}
			return nil
		})
	},
}

var logDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a feeding entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("feeding log id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteFeedingLog(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted feeding %d\n", id)
			return nil
		})
	},
}

func init() {
	logAddCmd.Flags().Int64Var(&logCatID, "cat", 0, "Cat id (required)")
	logAddCmd.Flags().Int64Var(&logFoodID, "food", 0, "Food id from the catalog")
	logAddCmd.Flags().StringVar(&logCustomName, "name", "", "Custom food name for one-off entries")
	logAddCmd.Flags().Float64Var(&logGrams, "grams", 0, "Amount fed in grams (required)")
	logAddCmd.Flags().BoolVar(&logIsTreat, "treat", false, "Mark the entry as a treat")
	logAddCmd.Flags().StringVar(&logTreatTag, "tag", "", "Treat tag: training, snack, or health")
	logAddCmd.Flags().StringVar(&logDate, "date", "", "Feeding date (YYYY-MM-DD, defaults to now)")
	logAddCmd.Flags().StringVar(&logTime, "time", "", "Feeding time (HH:MM, requires --date)")

	logListCmd.Flags().Int64Var(&logCatID, "cat", 0, "Cat id (required)")
	logListCmd.Flags().StringVar(&logListDay, "day", "", "Only entries on this day (YYYY-MM-DD)")
	logListCmd.Flags().BoolVar(&logListTreats, "treats", false, "Only treat entries")
	logListCmd.Flags().IntVar(&logListLimit, "limit", 50, "Maximum entries to show")

	logTodayCmd.Flags().Int64Var(&logCatID, "cat", 0, "Cat id (required)")
	logTodayCmd.Flags().StringVar(&logTodayDay, "day", "", "Day to summarize (YYYY-MM-DD, defaults to today)")

	logCmd.AddCommand(logAddCmd, logListCmd, logTodayCmd, logDeleteCmd)
	rootCmd.AddCommand(logCmd)
}
