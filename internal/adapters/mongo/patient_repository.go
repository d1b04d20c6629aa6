package mongo

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/caretrack/strokeregistry/internal/domain"
	"github.com/caretrack/strokeregistry/internal/ports"
)

// PatientRepository is the document-store adapter for clinical records.
// Every write is a single-document operation, so an abandoned call never
// leaves a partial record behind.
type PatientRepository struct {
	patients *driver.Collection
}

func NewPatientRepository(db *driver.Database) *PatientRepository {
	return &PatientRepository{patients: db.Collection(patientsCollection)}
}

func (r *PatientRepository) Create(ctx context.Context, patient domain.Patient, actor string, at time.Time) (domain.Patient, error) {
	doc := toPatientDocument(patient)
	doc.CreatedAt = at
	doc.UpdatedAt = at
	doc.CreatedBy = actor
	doc.UpdatedBy = actor

	if _, err := r.patients.InsertOne(ctx, doc); err != nil {
		if driver.IsDuplicateKeyError(err) {
			return domain.Patient{}, domain.ErrConflict
		}
		return domain.Patient{}, translateError(err)
	}
	return toDomainPatient(doc), nil
}

// Update replaces the clinical fields of an existing record. The clinical id
// only appears in the filter, never in the update document, so it cannot be
// rewritten.
func (r *PatientRepository) Update(ctx context.Context, id int, patient domain.Patient, actor string, at time.Time) (domain.Patient, error) {
	set := bson.M{
		"gender":            patient.Gender,
		"age":               patient.Age,
		"hypertension":      patient.Hypertension,
		"heart_disease":     patient.HeartDisease,
		"ever_married":      patient.EverMarried,
		"work_type":         patient.WorkType,
		"residence_type":    patient.ResidenceType,
		"avg_glucose_level": patient.AvgGlucoseLevel,
		"smoking_status":    patient.SmokingStatus,
		"stroke":            patient.Stroke,
		"updated_at":        at,
		"updated_by":        actor,
	}
	update := bson.M{"$set": set}
	if patient.BMI != nil {
		set["bmi"] = *patient.BMI
	} else {
		update["$unset"] = bson.M{"bmi": ""}
	}

	var doc patientDocument
	err := r.patients.FindOneAndUpdate(ctx, bson.M{"id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return domain.Patient{}, domain.ErrNotFound
		}
		return domain.Patient{}, translateError(err)
	}
	return toDomainPatient(doc), nil
}

func (r *PatientRepository) Delete(ctx context.Context, id int) error {
	res, err := r.patients.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return translateError(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PatientRepository) Get(ctx context.Context, id int) (domain.Patient, error) {
	var doc patientDocument
	if err := r.patients.FindOne(ctx, bson.M{"id": id}).Decode(&doc); err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return domain.Patient{}, domain.ErrNotFound
		}
		return domain.Patient{}, translateError(err)
	}
	return toDomainPatient(doc), nil
}

// List returns one deterministic page of a filtered listing, ordered by
// clinical id ascending. An all-digits query matches the id exactly; any
// other query is a case-insensitive substring match over the categorical
// fields, quoted so user input never acts as a pattern.
func (r *PatientRepository) List(ctx context.Context, filter ports.PatientFilter, page, pageSize int) (ports.PatientPage, error) {
	query := bson.M{}
	if q := filter.Query; q != "" {
		if id, err := strconv.Atoi(q); err == nil {
			query["id"] = id
		} else {
			pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
			query["$or"] = bson.A{
				bson.M{"gender": pattern},
				bson.M{"work_type": pattern},
				bson.M{"smoking_status": pattern},
			}
		}
	}
	if filter.Stroke != nil {
		query["stroke"] = *filter.Stroke
	}
	if filter.Gender != "" {
		query["gender"] = filter.Gender
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	total, err := r.patients.CountDocuments(ctx, query)
	if err != nil {
		return ports.PatientPage{}, translateError(err)
	}

	cursor, err := r.patients.Find(ctx, query, options.Find().
		SetSort(bson.D{{Key: "id", Value: 1}}).
		SetSkip(int64((page-1)*pageSize)).
		SetLimit(int64(pageSize)),
	)
	if err != nil {
		return ports.PatientPage{}, translateError(err)
	}
	defer cursor.Close(ctx)

	var docs []patientDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return ports.PatientPage{}, translateError(err)
	}

	patients := make([]domain.Patient, 0, len(docs))
	for _, doc := range docs {
		patients = append(patients, toDomainPatient(doc))
	}
	return ports.PatientPage{
		Patients:   patients,
		Page:       page,
		TotalCount: total,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (r *PatientRepository) Recent(ctx context.Context, limit int) ([]domain.Patient, error) {
	if limit <= 0 {
		limit = 10
	}
	cursor, err := r.patients.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	var docs []patientDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateError(err)
	}
	patients := make([]domain.Patient, 0, len(docs))
	for _, doc := range docs {
		patients = append(patients, toDomainPatient(doc))
	}
	return patients, nil
}

func (r *PatientRepository) Stats(ctx context.Context) (domain.DashboardStats, error) {
	total, err := r.patients.CountDocuments(ctx, bson.M{})
	if err != nil {
		return domain.DashboardStats{}, translateError(err)
	}
	strokeCases, err := r.patients.CountDocuments(ctx, bson.M{"stroke": 1})
	if err != nil {
		return domain.DashboardStats{}, translateError(err)
	}

	cursor, err := r.patients.Aggregate(ctx, driver.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "avg_age": bson.M{"$avg": "$age"}}}},
	})
	if err != nil {
		return domain.DashboardStats{}, translateError(err)
	}
	defer cursor.Close(ctx)

	var avgRows []struct {
		AvgAge float64 `bson:"avg_age"`
	}
	if err := cursor.All(ctx, &avgRows); err != nil {
		return domain.DashboardStats{}, translateError(err)
	}
	avgAge := 0.0
	if len(avgRows) > 0 {
		avgAge = avgRows[0].AvgAge
	}

	return domain.DashboardStats{
		TotalPatients:  total,
		StrokeCases:    strokeCases,
		NonStrokeCases: total - strokeCases,
		AverageAge:     avgAge,
	}, nil
}

// Analytics runs the four chart-feed aggregations in one pass. Rendering is
// a collaborator concern; this returns plain counters.
func (r *PatientRepository) Analytics(ctx context.Context) (domain.AnalyticsReport, error) {
	report := domain.AnalyticsReport{}

	var genderRows []struct {
		Gender string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := r.aggregate(ctx, driver.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{"_id": "$gender", "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}, &genderRows); err != nil {
		return domain.AnalyticsReport{}, err
	}
	for _, row := range genderRows {
		report.GenderDistribution = append(report.GenderDistribution, domain.GenderCount{
			Gender: row.Gender,
			Count:  row.Count,
		})
	}

	var bucketRows []struct {
		Lower       int   `bson:"_id"`
		Count       int64 `bson:"count"`
		StrokeCount int64 `bson:"stroke_count"`
	}
	if err := r.aggregate(ctx, driver.Pipeline{
		bson.D{{Key: "$bucket", Value: bson.M{
			"groupBy":    "$age",
			"boundaries": bson.A{0, 20, 40, 60, 80, 120},
			"default":    -1,
			"output": bson.M{
				"count":        bson.M{"$sum": 1},
				"stroke_count": bson.M{"$sum": "$stroke"},
			},
		}}},
	}, &bucketRows); err != nil {
		return domain.AnalyticsReport{}, err
	}
	for _, row := range bucketRows {
		report.AgeBuckets = append(report.AgeBuckets, domain.AgeBucket{
			Lower:       row.Lower,
			Count:       row.Count,
			StrokeCount: row.StrokeCount,
		})
	}

	var healthRows []struct {
		Key struct {
			Hypertension int `bson:"hypertension"`
			HeartDisease int `bson:"heart_disease"`
		} `bson:"_id"`
		Count       int64 `bson:"count"`
		StrokeCount int64 `bson:"stroke_count"`
	}
	if err := r.aggregate(ctx, driver.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"hypertension":  "$hypertension",
				"heart_disease": "$heart_disease",
			},
			"count":        bson.M{"$sum": 1},
			"stroke_count": bson.M{"$sum": "$stroke"},
		}}},
	}, &healthRows); err != nil {
		return domain.AnalyticsReport{}, err
	}
	for _, row := range healthRows {
		report.HealthCorrelation = append(report.HealthCorrelation, domain.HealthCell{
			Hypertension: row.Key.Hypertension,
			HeartDisease: row.Key.HeartDisease,
			Count:        row.Count,
			StrokeCount:  row.StrokeCount,
		})
	}

	var smokingRows []struct {
		SmokingStatus string `bson:"_id"`
		Count         int64  `bson:"count"`
		StrokeCount   int64  `bson:"stroke_count"`
	}
	if err := r.aggregate(ctx, driver.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":          "$smoking_status",
			"count":        bson.M{"$sum": 1},
			"stroke_count": bson.M{"$sum": "$stroke"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}, &smokingRows); err != nil {
		return domain.AnalyticsReport{}, err
	}
	for _, row := range smokingRows {
		report.SmokingStroke = append(report.SmokingStroke, domain.SmokingCount{
			SmokingStatus: row.SmokingStatus,
			Count:         row.Count,
			StrokeCount:   row.StrokeCount,
		})
	}

	return report, nil
}

func (r *PatientRepository) aggregate(ctx context.Context, pipeline driver.Pipeline, out any) error {
	cursor, err := r.patients.Aggregate(ctx, pipeline)
	if err != nil {
		return translateError(err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return translateError(err)
	}
	return nil
}

// translateError maps driver failures to the domain taxonomy; a deadline or
// server-selection timeout is a retryable outage, never silently swallowed.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domain.ErrStorageUnavailable
	case driver.IsTimeout(err):
		return domain.ErrStorageUnavailable
	default:
		return err
	}
}
