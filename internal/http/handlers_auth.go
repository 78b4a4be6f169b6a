package http

import (
	"encoding/json"
	"net/http"

	"github.com/Adnan1921/radnja-tracker/internal/access"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	Role     access.Role `json:"role"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, identity, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, loginResponse{
		Token:    token,
		Username: identity.Username,
		Role:     identity.Role,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout(tokenFrom(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"username": identity.Username,
		"role":     identity.Role,
	})
}
