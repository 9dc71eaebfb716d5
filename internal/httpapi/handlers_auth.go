package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/memeforge/memeforge/internal/auth"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type userResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func newSessionResponse(user *auth.User, token string) sessionResponse {
	return sessionResponse{
		User: userResponse{
			ID:      user.ID.String(),
			Email:   user.Email,
			IsAdmin: user.IsAdmin,
		},
		Token: token,
	}
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, a.log, errBadRequest)
		return
	}

	user, token, err := a.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, a.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, newSessionResponse(user, token))
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, a.log, errBadRequest)
		return
	}

	user, token, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, a.log, err)
		return
	}

	respondJSON(w, http.StatusOK, newSessionResponse(user, token))
}
