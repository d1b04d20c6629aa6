package domain

import (
	"html"
	"slices"
	"strconv"
	"strings"
)

// NormalizePatient validates a raw payload and produces the stored record
// form. Rules run in a fixed order so the first reported failure is
// deterministic: required fields, numeric coercion, enumeration membership,
// ranges, binary flags, then HTML escaping of every categorical field. The
// function performs no I/O and has no side effects; normalizing an already
// normalized record yields the identical record.
func NormalizePatient(in PatientInput) (Patient, error) {
	id := strings.TrimSpace(in.ID)
	gender := strings.TrimSpace(in.Gender)
	age := strings.TrimSpace(in.Age)
	hypertension := strings.TrimSpace(in.Hypertension)
	heartDisease := strings.TrimSpace(in.HeartDisease)
	everMarried := strings.TrimSpace(in.EverMarried)
	workType := strings.TrimSpace(in.WorkType)
	residenceType := strings.TrimSpace(in.ResidenceType)
	avgGlucose := strings.TrimSpace(in.AvgGlucoseLevel)
	bmi := strings.TrimSpace(in.BMI)
	smokingStatus := strings.TrimSpace(in.SmokingStatus)
	stroke := strings.TrimSpace(in.Stroke)

	required := []struct {
		field string
		value string
	}{
		{"id", id},
		{"gender", gender},
		{"age", age},
		{"hypertension", hypertension},
		{"heart_disease", heartDisease},
		{"ever_married", everMarried},
		{"work_type", workType},
		{"residence_type", residenceType},
		{"avg_glucose_level", avgGlucose},
		{"bmi", bmi},
		{"smoking_status", smokingStatus},
		{"stroke", stroke},
	}
	for _, r := range required {
		if r.value == "" {
			return Patient{}, validationFailure(r.field, "missing required field")
		}
	}

	idValue, err := strconv.Atoi(id)
	if err != nil {
		return Patient{}, validationFailure("id", "must be an integer")
	}
	ageValue, err := strconv.ParseFloat(age, 64)
	if err != nil {
		return Patient{}, validationFailure("age", "must be a number")
	}
	hypertensionValue, err := strconv.Atoi(hypertension)
	if err != nil {
		return Patient{}, validationFailure("hypertension", "must be an integer")
	}
	heartDiseaseValue, err := strconv.Atoi(heartDisease)
	if err != nil {
		return Patient{}, validationFailure("heart_disease", "must be an integer")
	}
	glucoseValue, err := strconv.ParseFloat(avgGlucose, 64)
	if err != nil {
		return Patient{}, validationFailure("avg_glucose_level", "must be a number")
	}
	strokeValue, err := strconv.Atoi(stroke)
	if err != nil {
		return Patient{}, validationFailure("stroke", "must be an integer")
	}

	enums := []struct {
		field string
		value string
		set   []string
	}{
		{"gender", gender, Genders},
		{"ever_married", everMarried, MaritalStatuses},
		{"work_type", workType, WorkTypes},
		{"residence_type", residenceType, ResidenceTypes},
		{"smoking_status", smokingStatus, SmokingStatuses},
	}
	for _, e := range enums {
		if !slices.Contains(e.set, e.value) {
			return Patient{}, validationFailure(e.field, "must be one of: "+strings.Join(e.set, ", "))
		}
	}

	if ageValue < 0 || ageValue > 120 {
		return Patient{}, validationFailure("age", "must be between 0 and 120")
	}
	if glucoseValue < 0 || glucoseValue > 500 {
		return Patient{}, validationFailure("avg_glucose_level", "must be between 0 and 500")
	}
	var bmiValue *float64
	if bmi != BMIUnknown {
		parsed, err := strconv.ParseFloat(bmi, 64)
		if err != nil {
			return Patient{}, validationFailure("bmi", `must be a number or "unknown"`)
		}
		if parsed < 10 || parsed > 100 {
			return Patient{}, validationFailure("bmi", `must be between 10 and 100 or "unknown"`)
		}
		bmiValue = &parsed
	}

	flags := []struct {
		field string
		value int
	}{
		{"hypertension", hypertensionValue},
		{"heart_disease", heartDiseaseValue},
		{"stroke", strokeValue},
	}
	for _, f := range flags {
		if f.value != 0 && f.value != 1 {
			return Patient{}, validationFailure(f.field, "must be 0 or 1")
		}
	}

	return Patient{
		ID:              idValue,
		Gender:          html.EscapeString(gender),
		Age:             ageValue,
		Hypertension:    hypertensionValue,
		HeartDisease:    heartDiseaseValue,
		EverMarried:     html.EscapeString(everMarried),
		WorkType:        html.EscapeString(workType),
		ResidenceType:   html.EscapeString(residenceType),
		AvgGlucoseLevel: glucoseValue,
		BMI:             bmiValue,
		SmokingStatus:   html.EscapeString(smokingStatus),
		Stroke:          strokeValue,
	}, nil
}

// SanitizeText trims surrounding whitespace and HTML-escapes markup-relevant
// characters. Applied to identity fields before validation and storage; never
// applied to passwords.
func SanitizeText(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
