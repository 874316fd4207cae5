package httpapi

import "net/http"

func (s *HTTPServer) registerRoute(pattern string, handler http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) {
	s.mux.HandleFunc(pattern, ChainMiddleware(handler, mw...))
}

func (s *HTTPServer) initRoutes() {
	s.registerRoute("GET /health", s.healthHandler)

	s.registerRoute("POST /users", s.signupHandler)
	s.registerRoute("POST /users/login", s.loginHandler)
	s.registerRoute("POST /users/logout", s.logoutHandler, s.authMiddleware)
	s.registerRoute("POST /users/logoutAll", s.logoutAllHandler, s.authMiddleware)
	s.registerRoute("GET /users/me", s.profileHandler, s.authMiddleware)
	s.registerRoute("PATCH /users/me", s.updateProfileHandler, s.authMiddleware)
	s.registerRoute("DELETE /users/me", s.deleteAccountHandler, s.authMiddleware)

	s.registerRoute("POST /users/me/avatar", s.uploadAvatarHandler, s.authMiddleware)
	s.registerRoute("DELETE /users/me/avatar", s.deleteAvatarHandler, s.authMiddleware)
	s.registerRoute("GET /users/{id}/avatar", s.getAvatarHandler)

	s.registerRoute("POST /tasks", s.createTaskHandler, s.authMiddleware)
	s.registerRoute("GET /tasks", s.listTasksHandler, s.authMiddleware)
	s.registerRoute("GET /tasks/{id}", s.getTaskHandler, s.authMiddleware)
	s.registerRoute("PATCH /tasks/{id}", s.updateTaskHandler, s.authMiddleware)
	s.registerRoute("DELETE /tasks/{id}", s.deleteTaskHandler, s.authMiddleware)
}

func (s *HTTPServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
