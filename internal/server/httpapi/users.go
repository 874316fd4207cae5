package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/taskmanager/internal/server/models"
	"github.com/dmitrijs2005/taskmanager/internal/server/services"
)

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *HTTPServer) signupHandler(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, token, err := s.users.Register(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

func (s *HTTPServer) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

func (s *HTTPServer) logoutHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	token, _ := TokenFromContext(r.Context())

	if err := s.users.Logout(r.Context(), user.ID, token); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

func (s *HTTPServer) logoutAllHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	if err := s.users.LogoutAll(r.Context(), user.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "all sessions have been logged out"})
}

func (s *HTTPServer) profileHandler(w http.ResponseWriter, r *http.Request) {
	current, _ := UserFromContext(r.Context())

	user, err := s.users.Profile(r.Context(), current.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var patch map[string]any
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.users.UpdateProfile(r.Context(), user.ID, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *HTTPServer) deleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	deleted, err := s.users.DeleteAccount(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}
