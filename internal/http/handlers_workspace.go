package http

import (
	"net/http"
	"strings"

	"caixa/internal/core"
)

// Projects are user-level: only the user header matters here.

type projectRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	user := strings.TrimSpace(r.Header.Get(headerUserID))
	if user == "" {
		writeError(w, r, core.ErrEmptyUser)
		return
	}

	var req projectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.workspace.CreateProject(r.Context(), user, core.Project{
		Name:  sanitizeInput(req.Name),
		Color: req.Color,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectJSON(created))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	user := strings.TrimSpace(r.Header.Get(headerUserID))
	if user == "" {
		writeError(w, r, core.ErrEmptyUser)
		return
	}

	projects, err := s.workspace.ListProjects(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]projectJSON, len(projects))
	for i, p := range projects {
		out[i] = toProjectJSON(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	user := strings.TrimSpace(r.Header.Get(headerUserID))
	if user == "" {
		writeError(w, r, core.ErrEmptyUser)
		return
	}

	if err := s.workspace.DeleteProject(r.Context(), user, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type categoryRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.workspace.CreateCategory(r.Context(), scope, core.Category{
		Name: sanitizeInput(req.Name),
		Kind: core.TransactionKind(req.Kind),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, categoryJSON{ID: created.ID, Name: created.Name, Kind: string(created.Kind)})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	categories, err := s.workspace.ListCategories(r.Context(), scope)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]categoryJSON, len(categories))
	for i, c := range categories {
		out[i] = categoryJSON{ID: c.ID, Name: c.Name, Kind: string(c.Kind)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.workspace.DeleteCategory(r.Context(), scope, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type goalRequest struct {
	Name       string  `json:"name"`
	Target     string  `json:"target"`
	CategoryID *string `json:"category_id"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req goalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cents, err := core.ParseDecimalToCents(req.Target)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.workspace.CreateGoal(r.Context(), scope, core.InvestmentGoal{
		Name:       sanitizeInput(req.Name),
		Target:     core.Money{Cents: cents},
		CategoryID: req.CategoryID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalJSON(created))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	goals, err := s.workspace.ListGoals(r.Context(), scope)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]goalJSON, len(goals))
	for i, g := range goals {
		out[i] = toGoalJSON(g)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.workspace.DeleteGoal(r.Context(), scope, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
