package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/training-management/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("authentication failed", "error", err)
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Login successful", tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("token refresh failed", "error", err)
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Token refreshed", tokens)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var dto ForgotPasswordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	if err := h.Service.ForgotPassword(r.Context(), dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "If the email is registered, a reset link has been sent", nil)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var dto ResetPasswordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	if err := h.Service.ResetPassword(r.Context(), dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Password has been reset", nil)
}
