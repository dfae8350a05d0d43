package meowtrition

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VeraMao/meowtrition-v2/internal/service"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Share feeding plans in the local share zone",
}

var (
	shareCatID   int64
	shareContent string
	shareRating  int
	shareTags    []string

	shareListCatID int64
)

var sharePostCmd = &cobra.Command{
	Use:   "post",
	Short: "Post a cat's current plan with a note",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			post, err := service.CreateSharePost(sqldb, service.SharePostInput{
				CatID:   shareCatID,
				Content: shareContent,
				Rating:  shareRating,
				Tags:    shareTags,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Posted %s plan for %s (%s)\n", post.CombinationType, post.CatName, post.ID)
			return nil
		})
	},
}

var shareListCmd = &cobra.Command{
	Use:   "list",
	Short: "List share-zone posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			posts, err := service.ListSharePosts(sqldb, shareListCatID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(posts) == 0 {
				fmt.Fprintln(out, "No posts yet.")
				return nil
			}
			for _, p := range posts {
				rating := strings.Repeat("*", p.Rating)
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.CatName, p.CombinationType, rating, p.Content)
				if len(p.Tags) > 0 {
					fmt.Fprintf(out, "\ttags: %s\n", strings.Join(p.Tags, ", "))
				}
			}
			return nil
		})
	},
}

var shareDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a share-zone post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteSharePost(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted post %s\n", args[0])
			return nil
		})
	},
}

func init() {
	sharePostCmd.Flags().Int64Var(&shareCatID, "cat", 0, "Cat id (required)")
	sharePostCmd.Flags().StringVar(&shareContent, "content", "", "Post text (required)")
	sharePostCmd.Flags().IntVar(&shareRating, "rating", 0, "Plan rating from 0 to 5")
	sharePostCmd.Flags().StringSliceVar(&shareTags, "tags", nil, "Comma-separated tags")

	shareListCmd.Flags().Int64Var(&shareListCatID, "cat", 0, "Only posts for this cat")

	shareCmd.AddCommand(sharePostCmd, shareListCmd, shareDeleteCmd)
	rootCmd.AddCommand(shareCmd)
}
