package attribution

import (
	"math"
	"testing"

	"trade-attribution-lab/internal/domain"
)

func TestCompound_ConstantReturns(t *testing.T) {
	series := constantSeries(t, "2024-01-01", 20, 1.0)

	got, n := Compound(series, day(t, "2024-01-01"), day(t, "2024-01-10"))
	if n != 9 {
		t.Errorf("Expected 9 samples, got %d", n)
	}
	want := (math.Pow(1.01, 9) - 1) * 100
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected %.6f%%, got %.6f%%", want, got)
	}
}

func TestCompound_ExcludesEndDate(t *testing.T) {
	series := []domain.DailyReturn{
		{Date: day(t, "2024-01-10"), DailyReturnPercent: 2.0},
		{Date: day(t, "2024-01-11"), DailyReturnPercent: 2.0},
		{Date: day(t, "2024-01-12"), DailyReturnPercent: 50.0},
	}

	got, n := Compound(series, day(t, "2024-01-10"), day(t, "2024-01-12"))
	if n != 2 {
		t.Errorf("Expected 2 samples, got %d", n)
	}
	want := (1.02*1.02 - 1) * 100
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected %.6f%%, got %.6f%%", want, got)
	}
}

func TestCompound_NoSamples(t *testing.T) {
	series := constantSeries(t, "2024-01-01", 5, 1.0)

	got, n := Compound(series, day(t, "2024-02-01"), day(t, "2024-02-10"))
	if n != 0 {
		t.Errorf("Expected 0 samples, got %d", n)
	}
	if got != 0 {
		t.Errorf("Expected 0%% for empty selection, got %f", got)
	}
}

func TestCompound_TotalLoss(t *testing.T) {
	series := []domain.DailyReturn{
		{Date: day(t, "2024-01-01"), DailyReturnPercent: 5.0},
		{Date: day(t, "2024-01-02"), DailyReturnPercent: -100.0},
		{Date: day(t, "2024-01-03"), DailyReturnPercent: 5.0},
	}

	got, _ := Compound(series, day(t, "2024-01-01"), day(t, "2024-01-04"))
	if got != -100 {
		t.Errorf("Expected -100%% after total loss, got %f", got)
	}
}

func TestCompound_MixedSignsMatchNaiveProduct(t *testing.T) {
	series := []domain.DailyReturn{
		{Date: day(t, "2024-01-01"), DailyReturnPercent: 3.2},
		{Date: day(t, "2024-01-02"), DailyReturnPercent: -1.7},
		{Date: day(t, "2024-01-03"), DailyReturnPercent: 0.0},
		{Date: day(t, "2024-01-04"), DailyReturnPercent: 2.4},
	}

	got, n := Compound(series, day(t, "2024-01-01"), day(t, "2024-01-05"))
	if n != 4 {
		t.Errorf("Expected 4 samples, got %d", n)
	}
	want := (1.032*0.983*1.0*1.024 - 1) * 100
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected %.9f%%, got %.9f%%", want, got)
	}
}
