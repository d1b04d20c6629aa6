package http

import (
	"net/http"

	"github.com/caretrack/strokeregistry/internal/application"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "register", err)
		return
	}
	req.RemoteAddr = readIP(r)

	identity, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "register", err)
		return
	}
	writeSuccess(w, http.StatusCreated, toIdentityView(identity))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req application.AuthenticateRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "login", err)
		return
	}
	req.RemoteAddr = readIP(r)

	resp, err := h.service.Authenticate(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "login", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"token": resp.Token,
		"user":  toIdentityView(resp.Identity),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), tokenFromContext(r.Context())); err != nil {
		writeMappedError(r.Context(), w, "logout", err)
		return
	}
	writeMessage(w, http.StatusOK, "logged out")
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "NO_SESSION", "authentication required")
		return
	}
	writeSuccess(w, http.StatusOK, toIdentityView(identity))
}
