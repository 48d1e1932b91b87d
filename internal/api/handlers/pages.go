package handlers

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/RMahshie/wirelesscalc/internal/client"
	"github.com/RMahshie/wirelesscalc/internal/controller"
	"github.com/RMahshie/wirelesscalc/internal/metrics"
	"github.com/RMahshie/wirelesscalc/internal/scenario"
	"github.com/RMahshie/wirelesscalc/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// PageHandler serves the scenario forms and the results panel as HTML
type PageHandler struct {
	client          client.CalculationClient
	metrics         *metrics.Collector
	language        string
	defaultScenario models.Scenario
}

// NewPageHandler creates a new page handler. defaultScenario may be empty.
func NewPageHandler(calc client.CalculationClient, collector *metrics.Collector, language string, defaultScenario models.Scenario) *PageHandler {
	return &PageHandler{
		client:          calc,
		metrics:         collector,
		language:        language,
		defaultScenario: defaultScenario,
	}
}

type formView struct {
	Info   models.ScenarioInfo
	Active bool
	Values map[string]string
}

type pageData struct {
	Lang    string
	Dir     string
	Forms   []formView
	State   controller.State
	Results bool
}

// Index renders the page with the default scenario, or none, selected
func (p *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctrl, err := p.newController()
	if err != nil {
		http.Error(w, "Failed to prepare page", http.StatusInternalServerError)
		return
	}
	p.render(w, http.StatusOK, ctrl.State(), nil)
}

// ShowScenario renders the page with the requested scenario form active
func (p *PageHandler) ShowScenario(w http.ResponseWriter, r *http.Request) {
	ctrl, s, ok := p.selectFromURL(w, r)
	if !ok {
		return
	}
	log.Debug().Str("scenario", string(s)).Msg("Scenario selected")
	p.render(w, http.StatusOK, ctrl.State(), nil)
}

// SubmitScenario validates the posted form, runs the calculation and renders the results
func (p *PageHandler) SubmitScenario(w http.ResponseWriter, r *http.Request) {
	ctrl, s, ok := p.selectFromURL(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	status := http.StatusOK
	if _, err := ctrl.Submit(r.Context(), s, scenario.FormSource(r.PostForm)); err != nil {
		var verr *scenario.ValidationError
		if errors.As(err, &verr) {
			status = http.StatusUnprocessableEntity
		} else {
			status = http.StatusBadGateway
		}
	}
	p.render(w, status, ctrl.State(), r.PostForm)
}

func (p *PageHandler) newController() (*controller.Controller, error) {
	return controller.New(controller.Options{
		Client:   p.client,
		Metrics:  p.metrics,
		Language: p.language,
		Default:  p.defaultScenario,
	})
}

func (p *PageHandler) selectFromURL(w http.ResponseWriter, r *http.Request) (*controller.Controller, models.Scenario, bool) {
	s, err := scenario.Parse(chi.URLParam(r, "scenario"))
	if err != nil {
		http.NotFound(w, r)
		return nil, "", false
	}
	ctrl, err := p.newController()
	if err != nil {
		http.Error(w, "Failed to prepare page", http.StatusInternalServerError)
		return nil, "", false
	}
	if err := ctrl.Select(s); err != nil {
		http.NotFound(w, r)
		return nil, "", false
	}
	return ctrl, s, true
}

// render writes the full page. Submitted values refill the active form so it stays usable for a retry.
func (p *PageHandler) render(w http.ResponseWriter, status int, st controller.State, submitted map[string][]string) {
	data := pageData{
		Lang:    "en",
		Dir:     "ltr",
		State:   st,
		Results: st.ResultsVisible,
	}
	if p.language == "ar" {
		data.Lang = "ar"
		data.Dir = "rtl"
	}

	for _, def := range scenario.All() {
		fv := formView{
			Info:   def.Info(),
			Active: st.FormVisible(def.Scenario),
			Values: map[string]string{},
		}
		if fv.Active {
			for _, f := range def.Fields {
				if vals := submitted[f.InputID]; len(vals) > 0 {
					fv.Values[f.InputID] = vals[0]
				}
			}
		}
		data.Forms = append(data.Forms, fv)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		log.Error().Err(err).Msg("Failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
