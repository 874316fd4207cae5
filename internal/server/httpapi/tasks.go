package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskmanager/internal/server/models"
	"github.com/dmitrijs2005/taskmanager/internal/server/services"
)

// parseTaskQuery reads completed, sortBy=<field>_<asc|desc>, limit and skip.
// Values that do not parse are ignored.
func parseTaskQuery(r *http.Request) models.TaskQuery {
	var q models.TaskQuery
	v := r.URL.Query()

	if c := v.Get("completed"); c != "" {
		done := c == "true"
		q.Completed = &done
	}

	if sb := v.Get("sortBy"); sb != "" {
		field, dir, _ := strings.Cut(sb, "_")
		q.SortBy = field
		q.Desc = dir == "desc"
	}

	if n, err := strconv.Atoi(v.Get("limit")); err == nil && n > 0 {
		q.Limit = n
	}
	if n, err := strconv.Atoi(v.Get("skip")); err == nil && n > 0 {
		q.Offset = n
	}
	return q
}

func (s *HTTPServer) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var in services.TaskInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.tasks.Create(r.Context(), user.ID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *HTTPServer) listTasksHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	list, err := s.tasks.List(r.Context(), user.ID, parseTaskQuery(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) getTaskHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	task, err := s.tasks.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *HTTPServer) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var patch map[string]any
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.tasks.Update(r.Context(), user.ID, r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *HTTPServer) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	task, err := s.tasks.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}
