package http

import "net/http"

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Dashboard(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "dashboard", err)
		return
	}
	writeSuccess(w, http.StatusOK, toDashboardView(resp))
}

func (h *Handler) analytics(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Analytics(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "analytics", err)
		return
	}
	writeSuccess(w, http.StatusOK, toAnalyticsView(resp.Report))
}
