package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/taskmanager/internal/common"
	"github.com/dmitrijs2005/taskmanager/internal/server/services"
)

const (
	avatarField = "avatar"

	// Whole multipart request cap. The file itself is cut at one byte past
	// the avatar limit so the service can reject it without reading it all.
	maxAvatarRequest = 10 << 20
)

func (s *HTTPServer) uploadAvatarHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarRequest)
	file, header, err := r.FormFile(avatarField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, r, common.NewFieldError(avatarField, "file is too large"))
			return
		}
		s.writeError(w, r, common.NewFieldError(avatarField, "please upload an image"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxAvatarSize+1))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.avatars.Upload(r.Context(), user.ID, header.Filename, data); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "avatar uploaded"})
}

func (s *HTTPServer) deleteAvatarHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	if err := s.avatars.Delete(r.Context(), user.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "avatar deleted"})
}

// getAvatarHandler is public. Any failure is reported as 404.
func (s *HTTPServer) getAvatarHandler(w http.ResponseWriter, r *http.Request) {
	data, err := s.avatars.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(r.Context(), "avatar lookup failed", "user_id", r.PathValue("id"), "error", err)
		}
		writeJSON(w, http.StatusNotFound, errorBody{Error: "could not find image"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
