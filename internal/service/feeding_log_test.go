package service_test

import (
	"testing"
	"time"

	"github.com/VeraMao/meowtrition-v2/internal/service"
)

func TestAddFeedingLogFreezesCalories(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Tofu", 4.0)
	foodID := addTestFood(t, sqldb, "Kibble", "dry", 400)

	logID, err := service.AddFeedingLog(sqldb, service.FeedingLogInput{
		CatID:  catID,
		FoodID: &foodID,
		Grams:  50,
	})
	if err != nil {
		t.Fatalf("add feeding log: %v", err)
	}

	// Changing the food afterwards must not rewrite logged calories.
	if _, err := sqldb.Exec(`UPDATE foods SET calories_per_100g = 800 WHERE id = ?`, foodID); err != nil {
		t.Fatalf("update food: %v", err)
	}

	logs, err := service.ListFeedingLogs(sqldb, service.FeedingLogFilter{CatID: catID})
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 1 || logs[0].ID != logID {
		t.Fatalf("logs: got %d entries", len(logs))
	}
	if logs[0].Calories != 200 {
		t.Fatalf("calories: got %d, want 200", logs[0].Calories)
	}
}

func TestAddFeedingLogCustomFoodName(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Udon", 4.0)

	if _, err := service.AddFeedingLog(sqldb, service.FeedingLogInput{
		CatID:          catID,
		CustomFoodName: "birthday tuna",
		Grams:          20,
		IsTreat:        true,
		TreatTag:       "snack",
	}); err != nil {
		t.Fatalf("add custom log: %v", err)
	}

	logs, err := service.ListFeedingLogs(sqldb, service.FeedingLogFilter{CatID: catID, TreatsOnly: true})
	if err != nil {
		t.Fatalf("list treats: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 treat entry, got %d", len(logs))
	}
	if logs[0].CustomFoodName != "birthday tuna" || logs[0].Calories != 0 {
		t.Fatalf("custom entry: got %+v", logs[0])
	}
}

func TestAddFeedingLogValidation(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Ramen", 4.0)
	foodID := addTestFood(t, sqldb, "Kibble", "dry", 400)

	cases := []struct {
		name string
		in   service.FeedingLogInput
	}{
		{"zero grams", service.FeedingLogInput{CatID: catID, FoodID: &foodID}},
		{"no food reference", service.FeedingLogInput{CatID: catID, Grams: 10}},
		{"both references", service.FeedingLogInput{CatID: catID, FoodID: &foodID, CustomFoodName: "x", Grams: 10}},
		{"bad treat tag", service.FeedingLogInput{CatID: catID, FoodID: &foodID, Grams: 10, IsTreat: true, TreatTag: "party"}},
		{"tag without treat", service.FeedingLogInput{CatID: catID, FoodID: &foodID, Grams: 10, TreatTag: "snack"}},
		{"unknown cat", service.FeedingLogInput{CatID: 999, FoodID: &foodID, Grams: 10}},
	}
	for _, tc := range cases {
		if _, err := service.AddFeedingLog(sqldb, tc.in); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestListFeedingLogsDayFilter(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Soba", 4.0)
	foodID := addTestFood(t, sqldb, "Kibble", "dry", 400)

	today := time.Now()
	yesterday := today.AddDate(0, 0, -1)
	for _, fedAt := range []time.Time{today, today, yesterday} {
		if _, err := service.AddFeedingLog(sqldb, service.FeedingLogInput{
			CatID:  catID,
			FoodID: &foodID,
			Grams:  30,
			FedAt:  fedAt,
		}); err != nil {
			t.Fatalf("add log: %v", err)
		}
	}

	logs, err := service.ListFeedingLogs(sqldb, service.FeedingLogFilter{
		CatID: catID,
		Day:   today.Format("2006-01-02"),
	})
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 entries for today, got %d", len(logs))
	}

	if _, err := service.ListFeedingLogs(sqldb, service.FeedingLogFilter{CatID: catID, Day: "not-a-date"}); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestSummarizeDayComparesAgainstPlan(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Mochi", 4.0)
	foodID := addTestFood(t, sqldb, "Kibble", "dry", 400)
	savePlanForCat(t, sqldb, catID, foodID)

	if _, err := service.AddFeedingLog(sqldb, service.FeedingLogInput{
		CatID:  catID,
		FoodID: &foodID,
		Grams:  30,
	}); err != nil {
		t.Fatalf("add log: %v", err)
	}
	if _, err := service.AddFeedingLog(sqldb, service.FeedingLogInput{
		CatID:   catID,
		FoodID:  &foodID,
		Grams:   5,
		IsTreat: true,
	}); err != nil {
		t.Fatalf("add treat log: %v", err)
	}

	summary, err := service.SummarizeDay(sqldb, catID, time.Now().Format("2006-01-02"))
	if err != nil {
		t.Fatalf("summarize day: %v", err)
	}
	if summary.Entries != 2 {
		t.Fatalf("entries: got %d", summary.Entries)
	}
	if summary.TotalCalories != 140 {
		t.Fatalf("total calories: got %d, want 140", summary.TotalCalories)
	}
	if summary.TreatCalories != 20 {
		t.Fatalf("treat calories: got %d, want 20", summary.TreatCalories)
	}
	if summary.TargetCalories == 0 || summary.TreatAllowance == 0 {
		t.Fatalf("plan context missing: %+v", summary)
	}
}

func TestDeleteFeedingLog(t *testing.T) {
	t.Parallel()

	sqldb := newTestDB(t)
	catID := addTestCat(t, sqldb, "Gyoza", 4.0)
	foodID := addTestFood(t, sqldb, "Kibble", "dry", 400)
	logID, err := service.AddFeedingLog(sqldb, service.FeedingLogInput{CatID: catID, FoodID: &foodID, Grams: 25})
	if err != nil {
		t.Fatalf("add log: %v", err)
	}

	if err := service.DeleteFeedingLog(sqldb, logID); err != nil {
		t.Fatalf("delete log: %v", err)
	}
	if err := service.DeleteFeedingLog(sqldb, logID); err == nil {
		t.Fatal("second delete should report not found")
	}
}
