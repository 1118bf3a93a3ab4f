package distshape

import (
	"errors"
	"math"
	"testing"

	"github.com/rick2x/fieldprofiler/domain/core"
)

func TestShapeSymmetricData(t *testing.T) {
	a := NewAnalyzer()
	// Symmetric around 5, roughly bell shaped.
	values := []float64{2, 3, 4, 4, 5, 5, 5, 5, 6, 6, 7, 8}

	result, err := a.Shape(values)
	if err != nil {
		t.Fatalf("Shape() error = %v", err)
	}
	if math.Abs(result.Skewness) > 0.1 {
		t.Errorf("Skewness = %v, want near 0 for symmetric data", result.Skewness)
	}
	if !result.LikelyNormal {
		t.Errorf("LikelyNormal = false (p = %v), want true", result.ShapiroP)
	}
	if result.ShapiroP <= 0.05 || result.ShapiroP > 1 {
		t.Errorf("ShapiroP = %v, want in (0.05, 1]", result.ShapiroP)
	}
}

func TestShapeSkewedData(t *testing.T) {
	a := NewAnalyzer()
	// One extreme value against a flat baseline gives a long right tail.
	values := make([]float64, 0, 20)
	for i := 0; i < 19; i++ {
		values = append(values, 1)
	}
	values = append(values, 1000)

	result, err := a.Shape(values)
	if err != nil {
		t.Fatalf("Shape() error = %v", err)
	}
	if result.Skewness <= 0 {
		t.Errorf("Skewness = %v, want positive for right-tailed data", result.Skewness)
	}
	if result.LikelyNormal {
		t.Errorf("LikelyNormal = true (p = %v), want false", result.ShapiroP)
	}
}

func TestShapeConstantSeries(t *testing.T) {
	a := NewAnalyzer()
	_, err := a.Shape([]float64{7, 7, 7, 7})
	if !errors.Is(err, core.ErrShapeUnavailable) {
		t.Errorf("Shape() error = %v, want ErrShapeUnavailable", err)
	}
}

func TestShapeTooFewValues(t *testing.T) {
	a := NewAnalyzer()
	for _, values := range [][]float64{nil, {1}, {1, 2}} {
		if _, err := a.Shape(values); !errors.Is(err, core.ErrShapeUnavailable) {
			t.Errorf("Shape(%v) error = %v, want ErrShapeUnavailable", values, err)
		}
	}
}
