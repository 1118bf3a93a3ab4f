package ports

// ShapeResult carries the optional distribution-shape statistics for a
// numeric field.
type ShapeResult struct {
	Skewness     float64 `json:"skewness"`
	Kurtosis     float64 `json:"kurtosis"`
	ShapiroP     float64 `json:"shapiro_p"`
	LikelyNormal bool    `json:"likely_normal"`
}

// DistributionShape is the injected capability computing skewness, kurtosis
// and a normality test. The numeric analyzer depends only on this interface;
// when the capability reports an error the affected statistics degrade to
// unavailable instead of failing the run.
type DistributionShape interface {
	Shape(values []float64) (ShapeResult, error)
}
