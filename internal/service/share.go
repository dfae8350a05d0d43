package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/VeraMao/meowtrition-v2/internal/model"
)

type SharePostInput struct {
	CatID   int64
	Content string
	Rating  int
	Tags    []string
}

// CreateSharePost snapshots the cat's current plan into a local share-zone
// post. Whether the post is a single-food or mixed combination comes from
// the plan at posting time.
func CreateSharePost(db *sql.DB, in SharePostInput) (model.SharePost, error) {
	cat, err := GetCat(db, in.CatID)
	if err != nil {
		return model.SharePost{}, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return model.SharePost{}, fmt.Errorf("post content is required")
	}
	if in.Rating < 0 || in.Rating > 5 {
		return model.SharePost{}, fmt.Errorf("rating must be between 0 and 5")
	}

	plan, err := GetPlan(db, in.CatID)
	if err != nil {
		return model.SharePost{}, err
	}
	if plan == nil {
		return model.SharePost{}, fmt.Errorf("cat %d has no saved feeding plan to share", in.CatID)
	}

	combinationType := "single"
	foodIDs := []int64{plan.FoodID}
	if plan.IsMixed {
		combinationType = "mixed"
		foodIDs = foodIDs[:0]
		seen := map[int64]bool{}
		for _, p := range append(append([]model.FoodPortion{}, plan.AmPortions...), plan.PmPortions...) {
			if !seen[p.FoodID] {
				seen[p.FoodID] = true
				foodIDs = append(foodIDs, p.FoodID)
			}
		}
	}

	foodIDsJSON, err := json.Marshal(foodIDs)
	if err != nil {
		return model.SharePost{}, fmt.Errorf("encode food ids: %w", err)
	}
	tags := normalizeTags(in.Tags)
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return model.SharePost{}, fmt.Errorf("encode tags: %w", err)
	}

	post := model.SharePost{
		ID:              uuid.NewString(),
		CatID:           in.CatID,
		CatName:         cat.Name,
		Content:         content,
		FoodIDs:         foodIDs,
		CombinationType: combinationType,
		Rating:          in.Rating,
		Tags:            tags,
	}
	_, err = db.Exec(`
INSERT INTO share_posts(id, cat_id, content, food_ids_json, combination_type, rating, tags_json)
VALUES(?, ?, ?, ?, ?, ?, ?)
`, post.ID, post.CatID, post.Content, string(foodIDsJSON), post.CombinationType, post.Rating, string(tagsJSON))
	if err != nil {
		return model.SharePost{}, fmt.Errorf("create share post: %w", err)
	}
	return post, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = normalizeName(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func ListSharePosts(db *sql.DB, catID int64) ([]model.SharePost, error) {
	query := `
SELECT p.id, p.cat_id, c.name, p.content, p.food_ids_json, p.combination_type, p.rating, p.tags_json, p.created_at
FROM share_posts p
JOIN cats c ON c.id = p.cat_id`
	var args []any
	if catID > 0 {
		query += ` WHERE p.cat_id = ?`
		args = append(args, catID)
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list share posts: %w", err)
	}
	defer rows.Close()

	var posts []model.SharePost
	for rows.Next() {
		var p model.SharePost
		var foodIDsRaw, tagsRaw string
		if err := rows.Scan(&p.ID, &p.CatID, &p.CatName, &p.Content, &foodIDsRaw, &p.CombinationType, &p.Rating, &tagsRaw, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan share post: %w", err)
		}
		if foodIDsRaw != "" {
			if err := json.Unmarshal([]byte(foodIDsRaw), &p.FoodIDs); err != nil {
				return nil, fmt.Errorf("decode food ids: %w", err)
			}
		}
		if tagsRaw != "" {
			if err := json.Unmarshal([]byte(tagsRaw), &p.Tags); err != nil {
				return nil, fmt.Errorf("decode tags: %w", err)
			}
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func DeleteSharePost(db *sql.DB, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("share post id is required")
	}
	res, err := db.Exec(`DELETE FROM share_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete share post %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete share post %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("share post %s not found", id)
	}
	return nil
}
