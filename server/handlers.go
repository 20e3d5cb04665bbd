package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/typedex/dexgraph/catchrate"
	"github.com/typedex/dexgraph/compare"
	"github.com/typedex/dexgraph/models"
	"github.com/typedex/dexgraph/physics"
	"github.com/typedex/dexgraph/pokeapi"
	"github.com/typedex/dexgraph/render"
	"github.com/typedex/dexgraph/session"
	"github.com/typedex/dexgraph/store"
	"github.com/typedex/dexgraph/typechart"
)

var errBadRequest = errors.New("bad request")

// Ticks are capped per request so a single call cannot hog a write slot for
// seconds.
const maxTicksPerRequest = 1000

type createSessionRequest struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Profile string  `json:"profile"`
	Drift   *bool   `json:"drift"` // nil falls back to the configured default
}

type tickRequest struct {
	N int `json:"n"`
}

type selectRequest struct {
	Category string `json:"category"`
}

type dragRequest struct {
	Category string  `json:"category"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Phase    string  `json:"phase"`
}

type sessionResponse struct {
	ID     string            `json:"id"`
	Energy float64           `json:"energy"`
	Graph  *models.TypeGraph `json:"graph"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Width <= 0 {
		req.Width = s.opts.DefaultWidth
	}
	if req.Height <= 0 {
		req.Height = s.opts.DefaultHeight
	}
	drift := s.opts.DefaultDrift
	if req.Drift != nil {
		drift = *req.Drift
	}

	sess := s.sessions.Create(session.Options{
		Width:       req.Width,
		Height:      req.Height,
		ProfileName: req.Profile,
		Profile:     physics.ProfileByName(req.Profile),
		Drift:       drift,
	})
	writeJSON(w, http.StatusCreated, snapshotOf(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snapshotOf(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.PathValue("id")); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req tickRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.N <= 0 {
		req.N = 1
	}
	if req.N > maxTicksPerRequest {
		req.N = maxTicksPerRequest
	}

	sess.Tick(req.N)
	writeJSON(w, http.StatusOK, snapshotOf(sess))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sess.Select(req.Category); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snapshotOf(sess))
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req dragRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var err error
	switch req.Phase {
	case "start":
		err = sess.BeginDrag(req.Category)
	case "move", "":
		err = sess.DragTo(req.Category, req.X, req.Y)
	case "end":
		sess.EndDrag(req.Category)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown drag phase %q", req.Phase))
		return
	}
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snapshotOf(sess))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Reset()
	writeJSON(w, http.StatusOK, snapshotOf(sess))
}

func (s *Server) handleRenderSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	if _, err := render.GetRenderer(format); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := render.Generate(sess.Snapshot(), format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", contentTypeFor(format))
	w.Write(out)
}

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"count": s.chart.Count(),
		"types": s.chart.Types(),
	})
}

func (s *Server) handleTypeMatchups(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !s.chart.Has(name) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown category %q", name))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"type":      name,
		"color":     typechart.Color(name),
		"attacking": s.chart.Attacking(name),
		"defending": s.chart.Defending(name),
	})
}

func (s *Server) handlePokemon(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	p, err := s.lookupPokemon(r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	p, err := s.lookupPokemon(r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	matches, err := s.store.MostSimilar(r.Context(), p.ID, queryInt(r, "limit", 5))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"target":  p,
		"matches": matches,
	})
}

func (s *Server) handlePercentile(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	p, err := s.lookupPokemon(r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	stat := r.URL.Query().Get("stat")
	pct, err := s.store.StatPercentile(r.Context(), p.ID, stat)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         p.ID,
		"name":       p.Name,
		"stat":       stat,
		"percentile": pct,
	})
}

func (s *Server) handleSprite(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if s.client == nil {
		writeError(w, http.StatusServiceUnavailable, "remote client not configured")
		return
	}
	p, err := s.lookupPokemon(r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if p.SpriteURL == "" {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no sprite recorded for %s", p.Name))
		return
	}

	data, err := s.client.Sprite(r.Context(), p.SpriteURL)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	stat := r.URL.Query().Get("stat")
	ranked, err := s.store.RankByStat(r.Context(), stat, queryInt(r, "limit", 10))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stat":     stat,
		"rankings": ranked,
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	a, err := s.resolveSpecies(r, "a")
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	b, err := s.resolveSpecies(r, "b")
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	cmp, err := compare.Compare(r.Context(), s.store, a, b)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (s *Server) handleCatchRate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	at := catchrate.Attempt{
		BaseRate:   catchrate.DefaultBaseRate,
		HPFraction: 1.0,
		Status:     catchrate.StatusNone,
		Ball:       catchrate.BallPoke,
	}

	// The base rate comes from a stored species when one is named, otherwise
	// straight from the query.
	if name := q.Get("name"); name != "" {
		if !s.requireStore(w) {
			return
		}
		p, err := s.store.PokemonByName(r.Context(), name)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		at.BaseRate = p.CaptureRate
	} else if base := q.Get("base"); base != "" {
		v, err := strconv.Atoi(base)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid base rate %q", base))
			return
		}
		at.BaseRate = v
	}

	if hp := q.Get("hp"); hp != "" {
		v, err := strconv.ParseFloat(hp, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid hp fraction %q", hp))
			return
		}
		at.HPFraction = v
	}
	if status := q.Get("status"); status != "" {
		at.Status = status
	}
	if ball := q.Get("ball"); ball != "" {
		at.Ball = ball
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"attempt": at,
		"result":  catchrate.Calculate(at),
	})
}

// session resolves the {id} path value, answering 404 when it is stale.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return nil, false
	}
	return sess, true
}

// lookupPokemon resolves the {id} path value as a numeric id or, failing
// that, a species name.
func (s *Server) lookupPokemon(r *http.Request) (models.Pokemon, error) {
	key := r.PathValue("id")
	if id, err := strconv.Atoi(key); err == nil {
		return s.store.Pokemon(r.Context(), id)
	}
	return s.store.PokemonByName(r.Context(), key)
}

// resolveSpecies reads a query parameter as a species id or name.
func (s *Server) resolveSpecies(r *http.Request, param string) (int, error) {
	v := r.URL.Query().Get(param)
	if v == "" {
		return 0, fmt.Errorf("%w: missing parameter %q", errBadRequest, param)
	}
	if id, err := strconv.Atoi(v); err == nil {
		return id, nil
	}
	p, err := s.store.PokemonByName(r.Context(), v)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "species store not configured")
		return false
	}
	return true
}

func snapshotOf(sess *session.Session) sessionResponse {
	return sessionResponse{
		ID:     sess.ID,
		Energy: sess.Energy(),
		Graph:  sess.Snapshot(),
	}
}

// decodeBody decodes a JSON request body. An empty body is fine, every field
// has a server-side default.
func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNoSuchSession),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, pokeapi.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrUnknownCategory),
		errors.Is(err, store.ErrUnknownStat),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func contentTypeFor(format string) string {
	switch format {
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "ascii":
		return "text/plain; charset=utf-8"
	case "dot":
		return "text/vnd.graphviz"
	default:
		return "application/json"
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
