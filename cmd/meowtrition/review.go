package meowtrition

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VeraMao/meowtrition-v2/internal/service"
)

var catReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Resolve pending feeding plan reviews",
}

var catReviewShowCmd = &cobra.Command{
	Use:   "show <cat-id>",
	Short: "Show the cat's pending plan review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("cat id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			review, err := service.GetPendingReview(sqldb, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if review == nil {
				fmt.Fprintf(out, "No pending plan review for cat %d\n", id)
				return nil
			}
			fmt.Fprintf(out, "Pending review for %s (opened %s)\n",
				review.CatName, review.CreatedAt.Local().Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "  Current plan: %d kcal/day (%d g)\n", review.OldCalories, review.OldGrams)
			fmt.Fprintf(out, "  New target:   %d kcal/day (%d g)\n", review.NewCalories, review.NewGrams)
			fmt.Fprintln(out, "Resolve with 'apply' (update plan), 'keep' (save profile, keep plan), or 'dismiss' (drop the edit).")
			return nil
		})
	},
}

var catReviewApplyCmd = &cobra.Command{
	Use:   "apply <cat-id>",
	Short: "Commit the profile edit and update the plan to the new targets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("cat id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.ApplyPlanReview(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied plan review for cat %d; feeding plan updated\n", id)
			return nil
		})
	},
}

var catReviewKeepCmd = &cobra.Command{
	Use:   "keep <cat-id>",
	Short: "Commit the profile edit but keep the current plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("cat id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.KeepPlanReview(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile saved for cat %d; feeding plan unchanged\n", id)
			return nil
		})
	},
}

var catReviewDismissCmd = &cobra.Command{
	Use:   "dismiss <cat-id>",
	Short: "Drop the pending edit without changing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("cat id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DismissPlanReview(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dismissed plan review for cat %d\n", id)
			return nil
		})
	},
}

func init() {
	catReviewCmd.AddCommand(catReviewShowCmd, catReviewApplyCmd, catReviewKeepCmd, catReviewDismissCmd)
}
