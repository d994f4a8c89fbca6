package mockapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

type generationResult struct {
	Message        string         `json:"message"`
	Project        *types.Project `json:"project"`
	GenerationTime float64        `json:"generation_time"`
}

// pause simulates model latency. It reports false if the client left.
func (s *Server) pause(r *http.Request) bool {
	if s.config.GenerationDelay <= 0 {
		return true
	}
	select {
	case <-time.After(s.config.GenerationDelay):
		return true
	case <-r.Context().Done():
		return false
	}
}

func (s *Server) generateWebsite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID int64  `json:"project_id"`
		Prompt    string `json:"prompt"`
	}
	if !decodeBody(r, &req) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.ProjectID == 0 {
		writeError(w, http.StatusBadRequest, "Project ID is required")
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeError(w, http.StatusBadRequest, "Website description/prompt is required")
		return
	}

	uid := userID(r.Context())
	project, ok := s.state.project(req.ProjectID, uid)
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	start := time.Now()
	if !s.pause(r) {
		s.state.logGeneration(project.ID, prompt, time.Since(start), "client disconnected")
		return
	}
	code := renderSite(project, prompt)

	updated, ok := s.state.mutateProject(project.ID, uid, func(p *types.Project) {
		p.GeneratedCode = &code
		p.Status = types.StatusGenerated
	})
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	elapsed := time.Since(start)
	s.state.logGeneration(project.ID, prompt, elapsed, "")

	writeJSON(w, http.StatusOK, generationResult{
		Message:        "Website generated successfully",
		Project:        updated,
		GenerationTime: elapsed.Seconds(),
	})
}

func (s *Server) regenerateWebsite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID     int64  `json:"project_id"`
		Modifications string `json:"modifications"`
	}
	if !decodeBody(r, &req) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.ProjectID == 0 {
		writeError(w, http.StatusBadRequest, "Project ID is required")
		return
	}
	modifications := strings.TrimSpace(req.Modifications)
	if modifications == "" {
		writeError(w, http.StatusBadRequest, "Modification instructions are required")
		return
	}

	uid := userID(r.Context())
	project, ok := s.state.project(req.ProjectID, uid)
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if !project.HasCode() {
		writeError(w, http.StatusBadRequest, "No existing code to modify. Generate website first.")
		return
	}

	prompt := "Modifications: " + modifications
	start := time.Now()
	if !s.pause(r) {
		s.state.logGeneration(project.ID, prompt, time.Since(start), "client disconnected")
		return
	}

	updated, ok := s.state.mutateProject(project.ID, uid, func(p *types.Project) {
		var code string
		if p.GeneratedCode != nil {
			code = *p.GeneratedCode
		}
		code = applyModifications(code, modifications)
		p.GeneratedCode = &code
		p.Status = types.StatusRegenerated
	})
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	elapsed := time.Since(start)
	s.state.logGeneration(project.ID, prompt, elapsed, "")

	writeJSON(w, http.StatusOK, generationResult{
		Message:        "Website regenerated successfully",
		Project:        updated,
		GenerationTime: elapsed.Seconds(),
	})
}

func (s *Server) generationHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if _, ok := s.state.project(id, userID(r.Context())); !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": s.state.generationHistory(id)})
}
