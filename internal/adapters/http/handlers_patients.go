package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/caretrack/strokeregistry/internal/application"
	"github.com/caretrack/strokeregistry/internal/domain"
)

func (h *Handler) listPatients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := application.ListPatientsRequest{
		Query:  q.Get("q"),
		Gender: q.Get("gender"),
		Page:   parseIntDefault(q.Get("page"), 1),
	}
	if raw := strings.TrimSpace(q.Get("stroke")); raw != "" {
		stroke, err := strconv.Atoi(raw)
		if err != nil {
			writeValidationError(r.Context(), w, "list_patients", &domain.ValidationError{Field: "stroke", Reason: "must be 0 or 1"})
			return
		}
		req.Stroke = &stroke
	}

	page, err := h.service.ListPatients(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "list_patients", err)
		return
	}
	writeSuccess(w, http.StatusOK, patientPageView{
		Patients:   toPatientViews(page.Patients),
		Page:       page.Page,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
	})
}

func (h *Handler) createPatient(w http.ResponseWriter, r *http.Request) {
	var input domain.PatientInput
	if err := decodeBody(r, &input); err != nil {
		writeValidationError(r.Context(), w, "create_patient", err)
		return
	}
	identity, _ := identityFromContext(r.Context())

	patient, err := h.service.CreatePatient(r.Context(), identity, input)
	if err != nil {
		writeMappedError(r.Context(), w, "create_patient", err)
		return
	}
	writeSuccess(w, http.StatusCreated, toPatientView(patient))
}

func (h *Handler) getPatient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeMappedError(r.Context(), w, "get_patient", err)
		return
	}

	patient, err := h.service.GetPatient(r.Context(), id)
	if err != nil {
		writeMappedError(r.Context(), w, "get_patient", err)
		return
	}
	writeSuccess(w, http.StatusOK, toPatientView(patient))
}

func (h *Handler) updatePatient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeMappedError(r.Context(), w, "update_patient", err)
		return
	}

	var input domain.PatientInput
	if err := decodeBody(r, &input); err != nil {
		writeValidationError(r.Context(), w, "update_patient", err)
		return
	}
	identity, _ := identityFromContext(r.Context())

	patient, err := h.service.UpdatePatient(r.Context(), identity, id, input)
	if err != nil {
		writeMappedError(r.Context(), w, "update_patient", err)
		return
	}
	writeSuccess(w, http.StatusOK, toPatientView(patient))
}

func (h *Handler) deletePatient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeMappedError(r.Context(), w, "delete_patient", err)
		return
	}
	identity, _ := identityFromContext(r.Context())

	if err := h.service.DeletePatient(r.Context(), identity, id); err != nil {
		writeMappedError(r.Context(), w, "delete_patient", err)
		return
	}
	writeMessage(w, http.StatusOK, "patient deleted")
}
