package server

import (
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	herrors "github.com/matzehuels/housesketch/pkg/errors"
	"github.com/matzehuels/housesketch/pkg/pipeline"
	"github.com/matzehuels/housesketch/pkg/prompt"
	"github.com/matzehuels/housesketch/pkg/render/sink"
	"github.com/matzehuels/housesketch/pkg/site"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Form     formValues
	Units    []string
	Features []featureOption
	Error    string
	Plan     *planView
	Image    *imageView
}

type formValues struct {
	Width, Length, Unit, Floors, Style, Detail string
}

type featureOption struct {
	Value   string
	Label   string
	Checked bool
}

type planView struct {
	Lot      string
	Drawings []drawingView
	Rooms    []roomRow
	NetArea  string
	Prompt   string
	Exports  []exportLink
}

type drawingView struct {
	Name string
	SVG  template.HTML
}

type roomRow struct {
	Name  string
	Share string
	Area  string
}

type exportLink struct {
	Label string
	Href  string
}

type imageView struct {
	Src      template.URL
	Provider string
	Cached   bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, newPage(r.URL.Query()))
}

// handleSubmit renders the plan for the submitted form. With
// action=generate it also requests an image.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, http.StatusBadRequest, pageData{Error: "could not read the form"})
		return
	}
	page := newPage(r.PostForm)

	opts, err := optionsFromValues(r.PostForm)
	if err == nil {
		opts.Formats = []string{pipeline.FormatSVG}
		opts.Views = []string{pipeline.ViewSite, pipeline.ViewFloors}
		var res *pipeline.Result
		if res, err = s.runner.Plan(r.Context(), opts); err == nil {
			page.Plan = newPlanView(res, opts)
		}
	}
	if err == nil && r.PostForm.Get("action") == "generate" {
		page.Image, err = s.generateForForm(r, opts)
	}

	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		page.Error = publicError(err).Message
	}
	s.renderPage(w, status, page)
}

func (s *Server) generateForForm(r *http.Request, opts pipeline.Options) (*imageView, error) {
	if !s.allow() {
		return nil, herrors.New(herrors.ErrCodeRateLimited, "too many image requests, try again shortly")
	}
	g, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		return nil, err
	}
	v := &imageView{Provider: g.Image.Provider, Cached: g.Image.Cached}
	if g.Image.URL != "" {
		// template.URL bypasses html/template's own URL filtering.
		if err := herrors.ValidateURL(g.Image.URL); err != nil {
			return nil, herrors.Wrap(herrors.ErrCodeProviderFailed, err, "image generation returned an unusable URL")
		}
		v.Src = template.URL(g.Image.URL)
	} else {
		v.Src = template.URL("data:" + g.Image.MediaType + ";base64," + base64.StdEncoding.EncodeToString(g.Image.Data))
	}
	return v, nil
}

func (s *Server) renderPage(w http.ResponseWriter, status int, page pageData) {
	page.Units = herrors.Units
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, page); err != nil {
		s.logger.Error("render page", "err", err)
	}
}

func newPage(v map[string][]string) pageData {
	get := func(k, def string) string {
		if vs := v[k]; len(vs) > 0 && vs[0] != "" {
			return vs[0]
		}
		return def
	}
	page := pageData{Form: formValues{
		Width:  get("width", "10"),
		Length: get("length", "20"),
		Unit:   get("unit", pipeline.DefaultUnit),
		Floors: get("floors", strconv.Itoa(pipeline.DefaultFloors)),
		Style:  get("style", ""),
		Detail: get("detail", "0"),
	}}

	checked := make(map[string]bool)
	for _, f := range listValue(v, "features") {
		checked[site.NormalizeTag(f)] = true
	}
	for _, f := range site.AllFeatures {
		page.Features = append(page.Features, featureOption{
			Value:   string(f),
			Label:   prompt.FeatureLabels(site.NewFeatureSet(f))[0],
			Checked: checked[string(f)],
		})
	}
	return page
}

func newPlanView(res *pipeline.Result, opts pipeline.Options) *planView {
	q := queryString(opts)
	v := &planView{
		Lot:     sink.LotLabel(res.Layout.Lot),
		NetArea: fmt.Sprintf("%.1f m²", res.Rooms.NetArea),
		Prompt:  res.Prompt,
	}
	for _, a := range res.Artifacts {
		v.Drawings = append(v.Drawings, drawingView{Name: a.Name, SVG: template.HTML(a.Data)})
	}
	for _, room := range res.Rooms.Rooms {
		v.Rooms = append(v.Rooms, roomRow{
			Name:  room.Name,
			Share: fmt.Sprintf("%.1f%%", room.Share*100),
			Area:  fmt.Sprintf("%.1f m²", room.Area),
		})
	}
	for _, f := range []string{pipeline.FormatPDF, pipeline.FormatXLSX, pipeline.FormatJSON, pipeline.FormatSVG} {
		v.Exports = append(v.Exports, exportLink{
			Label: f,
			Href:  "/api/plan/export." + f + "?" + q,
		})
	}
	return v
}
