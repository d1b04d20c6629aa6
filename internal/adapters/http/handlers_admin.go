package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/caretrack/strokeregistry/internal/domain"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	identities, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "list_users", err)
		return
	}

	views := make([]identityView, 0, len(identities))
	for _, identity := range identities {
		views = append(views, toIdentityView(identity))
	}
	writeSuccess(w, http.StatusOK, views)
}

func (h *Handler) changeUserRole(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
	if err != nil {
		writeMappedError(r.Context(), w, "change_user_role",
			fmt.Errorf("%w: user id must be an integer", domain.ErrInvalidInput))
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "change_user_role", err)
		return
	}
	actor, _ := identityFromContext(r.Context())

	if err := h.service.ChangeUserRole(r.Context(), actor, userID, domain.Role(req.Role)); err != nil {
		writeMappedError(r.Context(), w, "change_user_role", err)
		return
	}
	writeMessage(w, http.StatusOK, "role updated")
}

func (h *Handler) loginAttempts(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 20)
	attempts, err := h.service.RecentLoginAttempts(r.Context(), limit)
	if err != nil {
		writeMappedError(r.Context(), w, "login_attempts", err)
		return
	}
	writeSuccess(w, http.StatusOK, toAttemptViews(attempts))
}
