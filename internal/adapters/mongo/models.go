package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/caretrack/strokeregistry/internal/domain"
)

// patientDocument is the stored form of a normalized record. The clinical
// id is a distinct field from the Mongo _id; bmi is omitted entirely when
// the record carries the unknown sentinel.
type patientDocument struct {
	ObjectID        primitive.ObjectID `bson:"_id,omitempty"`
	ID              int                `bson:"id"`
	Gender          string             `bson:"gender"`
	Age             float64            `bson:"age"`
	Hypertension    int                `bson:"hypertension"`
	HeartDisease    int                `bson:"heart_disease"`
	EverMarried     string             `bson:"ever_married"`
	WorkType        string             `bson:"work_type"`
	ResidenceType   string             `bson:"residence_type"`
	AvgGlucoseLevel float64            `bson:"avg_glucose_level"`
	BMI             *float64           `bson:"bmi,omitempty"`
	SmokingStatus   string             `bson:"smoking_status"`
	Stroke          int                `bson:"stroke"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
	CreatedBy       string             `bson:"created_by"`
	UpdatedBy       string             `bson:"updated_by"`
}

func toPatientDocument(p domain.Patient) patientDocument {
	return patientDocument{
		ID:              p.ID,
		Gender:          p.Gender,
		Age:             p.Age,
		Hypertension:    p.Hypertension,
		HeartDisease:    p.HeartDisease,
		EverMarried:     p.EverMarried,
		WorkType:        p.WorkType,
		ResidenceType:   p.ResidenceType,
		AvgGlucoseLevel: p.AvgGlucoseLevel,
		BMI:             p.BMI,
		SmokingStatus:   p.SmokingStatus,
		Stroke:          p.Stroke,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		CreatedBy:       p.CreatedBy,
		UpdatedBy:       p.UpdatedBy,
	}
}

func toDomainPatient(doc patientDocument) domain.Patient {
	return domain.Patient{
		ID:              doc.ID,
		Gender:          doc.Gender,
		Age:             doc.Age,
		Hypertension:    doc.Hypertension,
		HeartDisease:    doc.HeartDisease,
		EverMarried:     doc.EverMarried,
		WorkType:        doc.WorkType,
		ResidenceType:   doc.ResidenceType,
		AvgGlucoseLevel: doc.AvgGlucoseLevel,
		BMI:             doc.BMI,
		SmokingStatus:   doc.SmokingStatus,
		Stroke:          doc.Stroke,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
		CreatedBy:       doc.CreatedBy,
		UpdatedBy:       doc.UpdatedBy,
	}
}

// auditDocument mirrors domain.AuditEvent for the append-only archive.
type auditDocument struct {
	ObjectID   primitive.ObjectID `bson:"_id,omitempty"`
	EventID    string             `bson:"event_id"`
	OccurredAt time.Time          `bson:"occurred_at"`
	Actor      string             `bson:"actor"`
	Kind       string             `bson:"kind"`
	Outcome    string             `bson:"outcome"`
	Target     string             `bson:"target,omitempty"`
	Detail     map[string]string  `bson:"detail,omitempty"`
}
