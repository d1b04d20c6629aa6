package domain

import (
	"strconv"
	"time"
)

// Enumerated categorical values for patient records. Membership checks are
// exact and case-sensitive; near-misses are validation failures, not fixups.
var (
	Genders         = []string{"Male", "Female", "Other"}
	MaritalStatuses = []string{"Yes", "No"}
	WorkTypes       = []string{"Private", "Self-employed", "Govt_job", "children", "Never_worked"}
	ResidenceTypes  = []string{"Urban", "Rural"}
	SmokingStatuses = []string{"formerly smoked", "never smoked", "smokes", "Unknown"}
)

// BMIUnknown is the only non-numeric value the bmi field may carry.
const BMIUnknown = "unknown"

// PatientInput is a raw patient payload as received at the boundary, every
// field still a string. NormalizePatient is the only path from here to a
// stored record.
type PatientInput struct {
	ID              string `json:"id"`
	Gender          string `json:"gender"`
	Age             string `json:"age"`
	Hypertension    string `json:"hypertension"`
	HeartDisease    string `json:"heart_disease"`
	EverMarried     string `json:"ever_married"`
	WorkType        string `json:"work_type"`
	ResidenceType   string `json:"residence_type"`
	AvgGlucoseLevel string `json:"avg_glucose_level"`
	BMI             string `json:"bmi"`
	SmokingStatus   string `json:"smoking_status"`
	Stroke          string `json:"stroke"`
}

// Patient is a fully typed, escaped clinical record ready for storage.
// BMI is nil when the record carries the unknown sentinel.
type Patient struct {
	ID              int
	Gender          string
	Age             float64
	Hypertension    int
	HeartDisease    int
	EverMarried     string
	WorkType        string
	ResidenceType   string
	AvgGlucoseLevel float64
	BMI             *float64
	SmokingStatus   string
	Stroke          int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CreatedBy       string
	UpdatedBy       string
}

// BMIString renders the stored BMI or the unknown sentinel.
func (p Patient) BMIString() string {
	if p.BMI == nil {
		return BMIUnknown
	}
	return strconv.FormatFloat(*p.BMI, 'f', -1, 64)
}

// Input projects the record back to its raw field form. Normalizing the
// result yields a record identical to p (normalization is idempotent).
func (p Patient) Input() PatientInput {
	return PatientInput{
		ID:              strconv.Itoa(p.ID),
		Gender:          p.Gender,
		Age:             strconv.FormatFloat(p.Age, 'f', -1, 64),
		Hypertension:    strconv.Itoa(p.Hypertension),
		HeartDisease:    strconv.Itoa(p.HeartDisease),
		EverMarried:     p.EverMarried,
		WorkType:        p.WorkType,
		ResidenceType:   p.ResidenceType,
		AvgGlucoseLevel: strconv.FormatFloat(p.AvgGlucoseLevel, 'f', -1, 64),
		BMI:             p.BMIString(),
		SmokingStatus:   p.SmokingStatus,
		Stroke:          strconv.Itoa(p.Stroke),
	}
}
