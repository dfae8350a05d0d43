package service_test

import (
	"testing"

	"github.com/VeraMao/meowtrition-v2/internal/model"
	"github.com/VeraMao/meowtrition-v2/internal/service"
)

func TestBodyConditionThresholds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		weightKg float64
		want     model.BodyCondition
	}{
		{2.0, model.ConditionVeryUnderweight},
		{2.7, model.ConditionVeryUnderweight},
		{2.9, model.ConditionUnderweight},
		{3.3, model.ConditionUnderweight},
		{3.5, model.ConditionIdeal},
		{4.0, model.ConditionIdeal},
		{4.5, model.ConditionIdeal},
		{4.7, model.ConditionOverweight},
		{5.3, model.ConditionOverweight},
		{5.5, model.ConditionObese},
		{8.0, model.ConditionObese},
	}
	for _, tc := range cases {
		got, err := service.BodyConditionFor(tc.weightKg, "")
		if err != nil {
			t.Fatalf("body condition for %.2f kg: %v", tc.weightKg, err)
		}
		if got != tc.want {
			t.Fatalf("body condition for %.2f kg: got %s, want %s", tc.weightKg, got, tc.want)
		}
	}
}

// Breed does not shift the baseline; classification only follows weight.
func TestBodyConditionIgnoresBreed(t *testing.T) {
	t.Parallel()

	for _, breed := range []string{"", "Maine Coon", "Singapura"} {
		got, err := service.BodyConditionFor(4.0, breed)
		if err != nil {
			t.Fatalf("body condition for breed %q: %v", breed, err)
		}
		if got != model.ConditionIdeal {
			t.Fatalf("body condition for breed %q: got %s, want ideal", breed, got)
		}
	}
}

func TestBodyConditionRejectsNonPositiveWeight(t *testing.T) {
	t.Parallel()

	if _, err := service.BodyConditionFor(0, ""); err == nil {
		t.Fatal("expected error for zero weight")
	}
}

func TestBodyConditionLabels(t *testing.T) {
	t.Parallel()

	if got := service.BodyConditionLabel(model.ConditionIdeal); got != "Healthy Weight" {
		t.Fatalf("ideal label: got %q", got)
	}
	if got := service.BodyConditionLabel(model.ConditionVeryUnderweight); got != "Very Underweight" {
		t.Fatalf("very underweight label: got %q", got)
	}
}
