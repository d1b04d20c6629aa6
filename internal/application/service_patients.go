package application

import (
	"context"
	"fmt"
	"strconv"

	"github.com/caretrack/strokeregistry/internal/domain"
	"github.com/caretrack/strokeregistry/internal/ports"
)

// ValidateAndNormalize runs the validation pipeline on a raw payload without
// touching storage. Callers that only need a verdict use this; the write
// paths run the same pipeline internally.
func (s *Service) ValidateAndNormalize(in domain.PatientInput) (domain.Patient, error) {
	return domain.NormalizePatient(in)
}

// CreatePatient validates the payload and inserts the record. The clinical id
// is caller-supplied and must be unique; the store's unique index is the
// arbiter, so concurrent creates with the same id resolve to exactly one
// winner and domain.ErrConflict for the rest.
func (s *Service) CreatePatient(ctx context.Context, actor domain.Identity, in domain.PatientInput) (domain.Patient, error) {
	patient, err := domain.NormalizePatient(in)
	if err != nil {
		return domain.Patient{}, err
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	created, err := s.patients.Create(sctx, patient, actorName(actor), s.nowFn())
	if err != nil {
		return domain.Patient{}, err
	}

	s.emit(domain.AuditPatientCreated, domain.AuditOutcomeSuccess, actorName(actor), strconv.Itoa(created.ID), nil)
	return created, nil
}

// UpdatePatient replaces the record identified by id with the validated
// payload. The clinical id is immutable: the payload's id field is validated
// like any other but the stored id never changes.
func (s *Service) UpdatePatient(ctx context.Context, actor domain.Identity, id int, in domain.PatientInput) (domain.Patient, error) {
	patient, err := domain.NormalizePatient(in)
	if err != nil {
		return domain.Patient{}, err
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	updated, err := s.patients.Update(sctx, id, patient, actorName(actor), s.nowFn())
	if err != nil {
		return domain.Patient{}, err
	}

	s.emit(domain.AuditPatientUpdated, domain.AuditOutcomeSuccess, actorName(actor), strconv.Itoa(id), nil)
	return updated, nil
}

// DeletePatient removes the record. Deleting an absent id is ErrNotFound,
// not a silent no-op.
func (s *Service) DeletePatient(ctx context.Context, actor domain.Identity, id int) error {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	if err := s.patients.Delete(sctx, id); err != nil {
		return err
	}

	s.emit(domain.AuditPatientDeleted, domain.AuditOutcomeSuccess, actorName(actor), strconv.Itoa(id), nil)
	return nil
}

// GetPatient fetches one record by clinical id.
func (s *Service) GetPatient(ctx context.Context, id int) (domain.Patient, error) {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	return s.patients.Get(sctx, id)
}

// ListPatients returns one deterministically ordered page of the filtered
// collection. Page numbers are 1-based; out-of-range pages return an empty
// page with the true total, never an error.
func (s *Service) ListPatients(ctx context.Context, req ListPatientsRequest) (ports.PatientPage, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	if req.Stroke != nil && *req.Stroke != 0 && *req.Stroke != 1 {
		return ports.PatientPage{}, fmt.Errorf("%w: stroke filter must be 0 or 1", domain.ErrInvalidInput)
	}

	filter := ports.PatientFilter{
		Query:  domain.SanitizeText(req.Query),
		Stroke: req.Stroke,
		Gender: domain.SanitizeText(req.Gender),
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	return s.patients.List(sctx, filter, page, s.cfg.PageSize)
}
