package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"MetalCharts/internal/calculator"
	"MetalCharts/internal/chart"
	"MetalCharts/internal/layout"
	"MetalCharts/internal/model"
	"MetalCharts/internal/notifier"
	"MetalCharts/internal/render"
)

type healthResponse struct {
	Status      string     `json:"status"`
	NextRefresh *time.Time `json:"next_refresh,omitempty"`
	Countdown   string     `json:"countdown,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok"}
	if s.Clock != nil {
		if next := s.Clock.NextRefresh(); !next.IsZero() {
			resp.NextRefresh = &next
			resp.Countdown = notifier.FormatCountdown(time.Until(next))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	var err error
	if !s.Dashboard.View(chi.URLParam(r, "kind"), func(v chart.View) { err = v.RenderPNG(&buf) }) {
		writeError(w, http.StatusNotFound, "unknown chart")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// pointerRequest is one pointer event in surface pixels.
type pointerRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Action string  `json:"action"` // move, leave or click
}

type filterRequest struct {
	Key string `json:"key"`
}

// stateResponse mirrors the view state after an event.
type stateResponse struct {
	Changed  bool          `json:"changed"`
	Filter   string        `json:"filter"`
	Hover    *model.Target `json:"hover"`
	Selected *model.Target `json:"selected"`
	Tooltip  []string      `json:"tooltip,omitempty"`
	Details  string        `json:"details,omitempty"`
	Method   string        `json:"method,omitempty"`
}

func (s *Server) labels() map[string]string {
	out := make(map[string]string, len(s.Instruments))
	for _, inst := range s.Instruments {
		out[inst.Code] = inst.Label
	}
	return out
}

func (s *Server) state(v chart.View, changed bool) stateResponse {
	st := v.State()
	resp := stateResponse{
		Changed:  changed,
		Filter:   st.ActiveFilter,
		Hover:    st.Hovered,
		Selected: st.Selected,
		Tooltip:  notifier.TargetTooltip(st.Hovered, s.labels()),
	}
	if fv, ok := v.(*chart.ForecastView); ok {
		resp.Details = fv.SelectionDetails()
		resp.Method = fv.MethodCaption()
	}
	return resp
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var resp stateResponse
	if !s.Dashboard.View(chi.URLParam(r, "kind"), func(v chart.View) { resp = s.state(v, false) }) {
		writeError(w, http.StatusNotFound, "unknown chart")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePointer hit-tests against a fresh render of the current state,
// which draws the same geometry as the last served image.
func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid pointer event")
		return
	}
	switch req.Action {
	case "move", "leave", "click":
	default:
		writeError(w, http.StatusBadRequest, "action must be move, leave or click")
		return
	}

	var resp stateResponse
	found := s.Dashboard.View(chi.URLParam(r, "kind"), func(v chart.View) {
		width, height := v.Size()
		v.Render(render.NewRecorder(float64(width), float64(height)))
		var changed bool
		switch req.Action {
		case "move":
			changed = v.PointerMove(req.X, req.Y)
		case "leave":
			changed = v.PointerLeave()
		case "click":
			changed = v.Click(req.X, req.Y)
		}
		resp = s.state(v, changed)
	})
	if !found {
		writeError(w, http.StatusNotFound, "unknown chart")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter request")
		return
	}
	var resp stateResponse
	if !s.Dashboard.View(chi.URLParam(r, "kind"), func(v chart.View) { resp = s.state(v, v.ToggleFilter(req.Key)) }) {
		writeError(w, http.StatusNotFound, "unknown chart")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) trends() []calculator.Trend {
	var out []calculator.Trend
	s.Dashboard.Do(func(c *chart.CandleView, _ *chart.ForecastView) { out = c.Trends() })
	return out
}

func (s *Server) handleTrending(w http.ResponseWriter, _ *http.Request) {
	trends := s.trends()
	if trends == nil {
		trends = []calculator.Trend{}
	}
	writeJSON(w, http.StatusOK, trends)
}

func (s *Server) handleSparkline(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	for _, tr := range s.trends() {
		if tr.Instrument != code {
			continue
		}
		values := make([]float64, len(tr.Sparkline))
		for i, p := range tr.Sparkline {
			values[i] = p.Value
		}
		col := render.DefaultTheme.Up
		if !tr.Up {
			col = render.DefaultTheme.Down
		}
		ras := render.NewRaster(sparkWidth, sparkHeight)
		render.NewRenderer(layout.Options{}).Sparkline(ras, values, col)

		var buf bytes.Buffer
		if err := ras.EncodePNG(&buf); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
		return
	}
	writeError(w, http.StatusNotFound, "no trend for instrument")
}
