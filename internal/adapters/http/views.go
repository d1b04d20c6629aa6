package http

import (
	"time"

	"github.com/caretrack/strokeregistry/internal/application"
	"github.com/caretrack/strokeregistry/internal/domain"
)

type identityView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func toIdentityView(identity domain.Identity) identityView {
	return identityView{
		ID:       identity.ID,
		Username: identity.Username,
		Role:     string(identity.Role),
	}
}

// patientView renders a record with bmi as a string so the unknown sentinel
// survives the trip to the client.
type patientView struct {
	ID              int       `json:"id"`
	Gender          string    `json:"gender"`
	Age             float64   `json:"age"`
	Hypertension    int       `json:"hypertension"`
	HeartDisease    int       `json:"heart_disease"`
	EverMarried     string    `json:"ever_married"`
	WorkType        string    `json:"work_type"`
	ResidenceType   string    `json:"residence_type"`
	AvgGlucoseLevel float64   `json:"avg_glucose_level"`
	BMI             string    `json:"bmi"`
	SmokingStatus   string    `json:"smoking_status"`
	Stroke          int       `json:"stroke"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	CreatedBy       string    `json:"created_by,omitempty"`
	UpdatedBy       string    `json:"updated_by,omitempty"`
}

func toPatientView(p domain.Patient) patientView {
	return patientView{
		ID:              p.ID,
		Gender:          p.Gender,
		Age:             p.Age,
		Hypertension:    p.Hypertension,
		HeartDisease:    p.HeartDisease,
		EverMarried:     p.EverMarried,
		WorkType:        p.WorkType,
		ResidenceType:   p.ResidenceType,
		AvgGlucoseLevel: p.AvgGlucoseLevel,
		BMI:             p.BMIString(),
		SmokingStatus:   p.SmokingStatus,
		Stroke:          p.Stroke,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		CreatedBy:       p.CreatedBy,
		UpdatedBy:       p.UpdatedBy,
	}
}

func toPatientViews(patients []domain.Patient) []patientView {
	views := make([]patientView, 0, len(patients))
	for _, p := range patients {
		views = append(views, toPatientView(p))
	}
	return views
}

type patientPageView struct {
	Patients   []patientView `json:"patients"`
	Page       int           `json:"page"`
	TotalCount int64         `json:"total_count"`
	TotalPages int           `json:"total_pages"`
}

type statsView struct {
	TotalPatients  int64   `json:"total_patients"`
	StrokeCases    int64   `json:"stroke_cases"`
	NonStrokeCases int64   `json:"non_stroke_cases"`
	AverageAge     float64 `json:"average_age"`
}

type dashboardView struct {
	Stats  statsView     `json:"stats"`
	Recent []patientView `json:"recent"`
}

func toDashboardView(resp application.DashboardResponse) dashboardView {
	return dashboardView{
		Stats: statsView{
			TotalPatients:  resp.Stats.TotalPatients,
			StrokeCases:    resp.Stats.StrokeCases,
			NonStrokeCases: resp.Stats.NonStrokeCases,
			AverageAge:     resp.Stats.AverageAge,
		},
		Recent: toPatientViews(resp.Recent),
	}
}

type genderCountView struct {
	Gender string `json:"gender"`
	Count  int64  `json:"count"`
}

type ageBucketView struct {
	Lower       int   `json:"lower"`
	Count       int64 `json:"count"`
	StrokeCount int64 `json:"stroke_count"`
}

type healthCellView struct {
	Hypertension int   `json:"hypertension"`
	HeartDisease int   `json:"heart_disease"`
	Count        int64 `json:"count"`
	StrokeCount  int64 `json:"stroke_count"`
}

type smokingCountView struct {
	SmokingStatus string `json:"smoking_status"`
	Count         int64  `json:"count"`
	StrokeCount   int64  `json:"stroke_count"`
}

type analyticsView struct {
	GenderDistribution []genderCountView  `json:"gender_distribution"`
	AgeBuckets         []ageBucketView    `json:"age_buckets"`
	HealthCorrelation  []healthCellView   `json:"health_correlation"`
	SmokingStroke      []smokingCountView `json:"smoking_stroke"`
}

func toAnalyticsView(report domain.AnalyticsReport) analyticsView {
	view := analyticsView{
		GenderDistribution: make([]genderCountView, 0, len(report.GenderDistribution)),
		AgeBuckets:         make([]ageBucketView, 0, len(report.AgeBuckets)),
		HealthCorrelation:  make([]healthCellView, 0, len(report.HealthCorrelation)),
		SmokingStroke:      make([]smokingCountView, 0, len(report.SmokingStroke)),
	}
	for _, g := range report.GenderDistribution {
		view.GenderDistribution = append(view.GenderDistribution, genderCountView(g))
	}
	for _, b := range report.AgeBuckets {
		view.AgeBuckets = append(view.AgeBuckets, ageBucketView(b))
	}
	for _, c := range report.HealthCorrelation {
		view.HealthCorrelation = append(view.HealthCorrelation, healthCellView(c))
	}
	for _, s := range report.SmokingStroke {
		view.SmokingStroke = append(view.SmokingStroke, smokingCountView(s))
	}
	return view
}

type attemptView struct {
	Username    string    `json:"username"`
	Succeeded   bool      `json:"succeeded"`
	Reason      string    `json:"reason,omitempty"`
	RemoteAddr  string    `json:"remote_addr,omitempty"`
	AttemptedAt time.Time `json:"attempted_at"`
}

func toAttemptViews(attempts []domain.LoginAttempt) []attemptView {
	views := make([]attemptView, 0, len(attempts))
	for _, a := range attempts {
		views = append(views, attemptView{
			Username:    a.Username,
			Succeeded:   a.Succeeded,
			Reason:      a.Reason,
			RemoteAddr:  a.RemoteAddr,
			AttemptedAt: a.AttemptedAt,
		})
	}
	return views
}
