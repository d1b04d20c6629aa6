package domain

// DashboardStats summarizes the patient collection for the dashboard panel.
type DashboardStats struct {
	TotalPatients  int64
	StrokeCases    int64
	NonStrokeCases int64
	AverageAge     float64
}

// GenderCount is one slice of the gender distribution.
type GenderCount struct {
	Gender string
	Count  int64
}

// AgeBucket groups patients by age boundary and counts stroke incidence
// inside the bucket. Lower is the inclusive bucket boundary.
type AgeBucket struct {
	Lower       int
	Count       int64
	StrokeCount int64
}

// HealthCell is one hypertension x heart-disease cell with stroke incidence.
type HealthCell struct {
	Hypertension int
	HeartDisease int
	Count        int64
	StrokeCount  int64
}

// SmokingCount pairs a smoking status with its stroke incidence.
type SmokingCount struct {
	SmokingStatus string
	Count         int64
	StrokeCount   int64
}

// AnalyticsReport carries the aggregation feeds consumed by chart
// collaborators outside this core.
type AnalyticsReport struct {
	GenderDistribution []GenderCount
	AgeBuckets         []AgeBucket
	HealthCorrelation  []HealthCell
	SmokingStroke      []SmokingCount
}
