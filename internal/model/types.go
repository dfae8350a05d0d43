package model

import "time"

type WeightGoal string

const (
	GoalMaintain WeightGoal = "maintain"
	GoalLose     WeightGoal = "lose"
	GoalGain     WeightGoal = "gain"
	GoalCustom   WeightGoal = "custom"
)

type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "low"
	ActivityMedium ActivityLevel = "medium"
	ActivityHigh   ActivityLevel = "high"
)

type BodyCondition string

const (
	ConditionVeryUnderweight BodyCondition = "very-underweight"
	ConditionUnderweight     BodyCondition = "underweight"
	ConditionIdeal           BodyCondition = "ideal"
	ConditionOverweight      BodyCondition = "overweight"
	ConditionObese           BodyCondition = "obese"
)

type FoodType string

const (
	FoodDry          FoodType = "dry"
	FoodWet          FoodType = "wet"
	FoodTreat        FoodType = "treat"
	FoodPrescription FoodType = "prescription"
	FoodCustom       FoodType = "custom"
)

type CatProfile struct {
	ID              int64
	Name            string
	Breed           string
	Gender          string
	Age             int
	CurrentWeightKg float64
	TargetWeightKg  *float64
	WeightUnitPref  string
	IsNeutered      bool
	ActivityLevel   ActivityLevel
	BodyCondition   BodyCondition
	PhotoURL        string
	SelectedFoodID  *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type FoodItem struct {
	ID              int64
	Name            string
	Brand           string
	Type            FoodType
	CaloriesPer100g float64
	ProteinPct      float64
	FatPct          float64
	CarbPct         float64
	FiberPct        float64
	Tags            []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FoodPortion is one food's contribution to a meal or time bucket.
type FoodPortion struct {
	FoodID   int64 `json:"food_id"`
	Grams    int   `json:"grams"`
	Calories int   `json:"calories"`
}

type MealSchedule struct {
	Time     string        `json:"time"`
	Grams    int           `json:"grams"`
	Calories int           `json:"calories"`
	Portions []FoodPortion `json:"portions,omitempty"`
}

type FeedingPlan struct {
	ID                  int64
	CatID               int64
	FoodID              int64
	TotalGramsPerDay    int
	TotalCaloriesPerDay int
	AmGrams             int
	PmGrams             int
	WeightGoal          WeightGoal
	CustomFactor        *float64
	IsMixed             bool
	MealsPerDay         int
	FeedingType         string
	TreatAllowanceKcal  int
	AmPortions          []FoodPortion
	PmPortions          []FoodPortion
	MealSchedules       []MealSchedule
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type FeedingLog struct {
	ID             int64
	CatID          int64
	FoodID         *int64
	CustomFoodName string
	Grams          float64
	Calories       int
	IsTreat        bool
	TreatTag       string
	FedAt          time.Time
	CreatedAt      time.Time
}

type WeightEntry struct {
	ID         int64
	CatID      int64
	WeightKg   float64
	RecordedAt time.Time
}

// PlanReview is a persisted plan comparison awaiting a user decision.
type PlanReview struct {
	ID          int64
	CatID       int64
	CatName     string
	OldCalories int
	NewCalories int
	OldGrams    int
	NewGrams    int
	State       string
	CreatedAt   time.Time
	ResolvedAt  *time.Time
}

type SharePost struct {
	ID              string
	CatID           int64
	CatName         string
	Content         string
	FoodIDs         []int64
	CombinationType string
	Rating          int
	Tags            []string
	CreatedAt       time.Time
}
