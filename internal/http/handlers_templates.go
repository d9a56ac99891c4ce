package http

import (
	"net/http"

	"caixa/internal/services"
)

type templateRequest struct {
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	DueDay      int     `json:"due_day"`
	CategoryID  *string `json:"category_id"`
	Active      bool    `json:"active"`
}

func (req templateRequest) input() services.TemplateInput {
	return services.TemplateInput{
		Description: sanitizeInput(req.Description),
		Amount:      req.Amount,
		DueDay:      req.DueDay,
		CategoryID:  req.CategoryID,
		Active:      req.Active,
	}
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req templateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.templates.Create(r.Context(), scope, req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTemplateJSON(created))
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	templates, err := s.templates.List(r.Context(), scope)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]templateJSON, len(templates))
	for i, t := range templates {
		out[i] = toTemplateJSON(t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := s.templates.Get(r.Context(), scope, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTemplateJSON(*t))
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req templateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := s.templates.Update(r.Context(), scope, r.PathValue("id"), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTemplateJSON(updated))
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.templates.Delete(r.Context(), scope, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
