package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/housesketch/pkg/buildinfo"
	herrors "github.com/matzehuels/housesketch/pkg/errors"
	"github.com/matzehuels/housesketch/pkg/pipeline"
	"github.com/matzehuels/housesketch/pkg/prompt"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// handlePlan returns the JSON plan document.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}
	res, err := s.runner.Plan(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	a, _ := res.Find(pipeline.DocumentName, pipeline.FormatJSON)
	writeArtifact(w, a, false)
}

func (s *Server) handleSiteSVG(w http.ResponseWriter, r *http.Request) {
	s.serveDrawing(w, r, pipeline.ViewSite, "site-plan")
}

func (s *Server) handleFloorSVG(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 1 {
		writeError(w, herrors.New(herrors.ErrCodeNotFound, "no such floor"))
		return
	}
	s.serveDrawing(w, r, pipeline.ViewFloors, fmt.Sprintf("floor-%d", n))
}

func (s *Server) serveDrawing(w http.ResponseWriter, r *http.Request, view, name string) {
	opts, err := optionsFromValues(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{pipeline.FormatSVG}
	opts.Views = []string{view}

	res, err := s.runner.Plan(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	a, ok := res.Find(name, pipeline.FormatSVG)
	if !ok {
		writeError(w, herrors.New(herrors.ErrCodeNotFound, "%s is not part of this plan", name))
		return
	}
	writeArtifact(w, a, false)
}

// handleExport downloads the plan in one format. Document formats bundle
// every view; svg and png return the site plan.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}
	opts, err := optionsFromValues(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{format}

	name := pipeline.DocumentName
	if format == pipeline.FormatSVG || format == pipeline.FormatPNG {
		name = "site-plan"
		opts.Views = []string{pipeline.ViewSite}
	}

	res, err := s.runner.Plan(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	a, ok := res.Find(name, format)
	if !ok {
		writeError(w, herrors.New(herrors.ErrCodeInternal, "export %s produced no artifact", format))
		return
	}
	writeArtifact(w, a, true)
}

type promptResponse struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
}

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := s.runner.Prompt(opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promptResponse{Prompt: p, NegativePrompt: prompt.NegativePrompt})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	g, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func writeArtifact(w http.ResponseWriter, a pipeline.Artifact, download bool) {
	w.Header().Set("Content-Type", a.MediaType)
	if download {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.FileName))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}
