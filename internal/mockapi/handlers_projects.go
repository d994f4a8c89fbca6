package mockapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

func projectID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	return id, err == nil && id > 0
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return v
}

// listProjects pages the caller's projects, newest first, with their total.
func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 10)
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	projects, total := s.state.listProjects(userID(r.Context()), perPage, (page-1)*perPage)
	writeJSON(w, http.StatusOK, map[string]any{
		"projects": projects,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

type projectBody struct {
	ProjectName   *string `json:"project_name"`
	Description   *string `json:"description"`
	WebsiteType   *string `json:"website_type"`
	Requirements  *string `json:"requirements"`
	GeneratedCode *string `json:"generated_code"`
	Status        *string `json:"status"`
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var req projectBody
	if !decodeBody(r, &req) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if trimmed(req.ProjectName) == "" {
		writeError(w, http.StatusBadRequest, "Project name is required")
		return
	}

	websiteType := "general"
	if req.WebsiteType != nil && *req.WebsiteType != "" {
		websiteType = *req.WebsiteType
	}

	project := s.state.insertProject(&types.Project{
		UserID:       userID(r.Context()),
		Name:         trimmed(req.ProjectName),
		Description:  trimmed(req.Description),
		WebsiteType:  types.WebsiteType(websiteType),
		Requirements: trimmed(req.Requirements),
		Status:       types.StatusDraft,
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Project created successfully",
		"project": project,
	})
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	project, ok := s.state.project(id, userID(r.Context()))
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}

// updateProject accepts every column the backend accepts, including status
// and generated_code. The client never sends those two.
func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	var req projectBody
	if !decodeBody(r, &req) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	project, ok := s.state.mutateProject(id, userID(r.Context()), func(p *types.Project) {
		if name := trimmed(req.ProjectName); name != "" {
			p.Name = name
		}
		if req.Description != nil {
			p.Description = trimmed(req.Description)
		}
		if req.WebsiteType != nil && *req.WebsiteType != "" {
			p.WebsiteType = types.WebsiteType(*req.WebsiteType)
		}
		if req.Requirements != nil {
			p.Requirements = trimmed(req.Requirements)
		}
		if req.GeneratedCode != nil {
			code := *req.GeneratedCode
			p.GeneratedCode = &code
		}
		if req.Status != nil && *req.Status != "" {
			p.Status = types.Status(*req.Status)
		}
	})
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Project updated successfully",
		"project": project,
	})
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok || !s.state.deleteProject(id, userID(r.Context())) {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}
