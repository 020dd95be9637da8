package cmd

import (
	"bytes"
	"context"
	"crypto/subtle"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/vfaronov/httpheader"

	"github.com/tonekit/tonekit/internal/a11y"
	"github.com/tonekit/tonekit/internal/config"
	"github.com/tonekit/tonekit/internal/core"
	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/preview"
	"github.com/tonekit/tonekit/internal/store"
	"github.com/tonekit/tonekit/internal/tokens"
	"github.com/tonekit/tonekit/internal/utils"
)

//go:embed static/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// maxImportSize caps POST /api/import bodies.
const maxImportSize = 1 << 20

// APIHandler handles HTTP API requests
type APIHandler struct {
	service  core.PaletteService
	store    *store.Store
	preview  *preview.Service
	settings *config.Settings
	token    string
	port     int
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(st *store.Store, pv *preview.Service, settings *config.Settings, token string, port int) *APIHandler {
	return &APIHandler{
		service:  core.NewLocalPaletteService(st, pv),
		store:    st,
		preview:  pv,
		settings: settings,
		token:    token,
		port:     port,
	}
}

// Routes registers every endpoint, wrapped in auth and CORS.
func (h *APIHandler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", h.Index)
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/events", h.Events)
	mux.HandleFunc("/api/families", h.Families)
	mux.HandleFunc("/api/families/hsl", h.FamilyHSL)
	mux.HandleFunc("/api/palette", h.Palette)
	mux.HandleFunc("/api/contrast", h.Contrast)
	mux.HandleFunc("/api/fix", h.Fix)
	mux.HandleFunc("/api/fix-all", h.FixAll)
	mux.HandleFunc("/api/overrides", h.Overrides)
	mux.HandleFunc("/api/tokens", h.Tokens)
	mux.HandleFunc("/api/css", h.CSS)
	mux.HandleFunc("/api/import", h.Import)

	// Origin check outermost so foreign pages never reach the token
	return corsMiddleware(authMiddleware(h.token, mux))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Debug("Failed to encode response: %v", err)
	}
}

// writeError maps palette errors onto status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, palette.ErrUnknownFamily), errors.Is(err, palette.ErrUnknownStep):
		status = http.StatusNotFound
	case errors.Is(err, palette.ErrUnknownMode), errors.Is(err, palette.ErrUnknownVariant),
		errors.Is(err, core.ErrNoContrastPair):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		utils.Debug("API error: %v", err)
	}
	http.Error(w, err.Error(), status)
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	return false
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer func() {
		if err := r.Body.Close(); err != nil {
			utils.Debug("Error closing body: %v", err)
		}
	}()
	if err := json.NewDecoder(io.LimitReader(r.Body, maxImportSize)).Decode(v); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// Index serves the preview page (Public). The page gets the API token
// embedded so its own requests pass auth.
func (h *APIHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Token   string
		Mode    string
		Version string
	}{h.token, string(h.settings.Mode()), Version}
	if err := indexTemplate.Execute(w, data); err != nil {
		utils.Debug("Failed to render index: %v", err)
	}
}

// Health check endpoint (Public)
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.preview.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"port":    h.port,
		"version": snap.Version,
	})
}

// Events endpoint (Protected)
func (h *APIHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	stream, cleanup, err := h.service.StreamEvents(r.Context())
	if err != nil {
		http.Error(w, "Failed to subscribe to events", http.StatusInternalServerError)
		return
	}
	defer cleanup()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Current state first, so a fresh page never waits for a change
	snap := h.preview.Snapshot()
	writeSSE(w, preview.Event{
		Type:    preview.EventPalette,
		Version: snap.Version,
		Failing: map[palette.Mode]int{palette.ModeLight: snap.Failing(palette.ModeLight), palette.ModeDark: snap.Failing(palette.ModeDark)},
	})
	flusher.Flush()

	done := r.Context().Done()
	for {
		select {
		case <-done:
			return
		case ev, ok := <-stream:
			if !ok {
				return
			}
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w io.Writer, ev preview.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		utils.Debug("Error marshaling event: %v", err)
		return
	}
	// SSE Format:
	// event: <type>
	// data: <json>
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

// Families endpoint (Protected)
func (h *APIHandler) Families(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	families, err := h.service.Families()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, families)
}

// FamilyHSL sets (POST) or resets (DELETE) a base color (Protected)
func (h *APIHandler) FamilyHSL(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost, http.MethodDelete) {
		return
	}

	if r.Method == http.MethodDelete {
		id := r.URL.Query().Get("family")
		if id == "" {
			http.Error(w, "Missing family parameter", http.StatusBadRequest)
			return
		}
		info, err := h.service.ResetBase(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
		return
	}

	var req core.HSLRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Family == "" {
		http.Error(w, "family is required", http.StatusBadRequest)
		return
	}
	info, err := h.service.SetBase(req.Family, palette.HSL{H: req.H, S: req.S, L: req.L})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// modeParam reads ?mode=. Empty means both modes.
func modeParam(r *http.Request) ([]palette.Mode, error) {
	v := r.URL.Query().Get("mode")
	if v == "" {
		return palette.Modes, nil
	}
	m, err := palette.ParseMode(v)
	if err != nil {
		return nil, err
	}
	return []palette.Mode{m}, nil
}

// PaletteResponse is the generated ramp of every family, per mode.
type PaletteResponse struct {
	Version  uint64                                       `json:"version"`
	Families []palette.Family                             `json:"families"`
	Modes    map[palette.Mode]map[string][]palette.Swatch `json:"modes"`
}

// Palette endpoint (Protected)
func (h *APIHandler) Palette(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	modes, err := modeParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	snap := h.preview.Snapshot()
	resp := PaletteResponse{
		Version: snap.Version,
		Modes:   make(map[palette.Mode]map[string][]palette.Swatch, len(modes)),
	}
	for _, fp := range snap.Tree.Families {
		resp.Families = append(resp.Families, fp.Family)
	}
	for _, m := range modes {
		byFamily := make(map[string][]palette.Swatch, len(snap.Tree.Families))
		for _, fp := range snap.Tree.Families {
			byFamily[fp.Family.ID] = fp.Modes[m]
		}
		resp.Modes[m] = byFamily
	}
	writeJSON(w, http.StatusOK, resp)
}

// ContrastResponse lists the indicators of each requested mode.
type ContrastResponse struct {
	Version    uint64                            `json:"version"`
	LargeText  bool                              `json:"largeText"`
	Indicators map[palette.Mode][]a11y.Indicator `json:"indicators"`
	Failing    map[palette.Mode]int              `json:"failing"`
}

// Contrast endpoint (Protected). ?large=1 grades with the large-text
// thresholds; pass/fail stays on the AA 4.5 target.
func (h *APIHandler) Contrast(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	modes, err := modeParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	largeText := h.settings.Editor.LargeText
	if v := r.URL.Query().Get("large"); v != "" {
		largeText = v == "1" || v == "true"
	}

	snap := h.preview.Snapshot()
	resp := ContrastResponse{
		Version:    snap.Version,
		LargeText:  largeText,
		Indicators: make(map[palette.Mode][]a11y.Indicator, len(modes)),
		Failing:    make(map[palette.Mode]int, len(modes)),
	}
	for _, m := range modes {
		inds := make([]a11y.Indicator, len(snap.Indicators[m]))
		for i, ind := range snap.Indicators[m] {
			ind.On.Level = a11y.Classify(ind.On.Ratio, largeText)
			ind.OnAlt.Level = a11y.Classify(ind.OnAlt.Ratio, largeText)
			inds[i] = ind
		}
		resp.Indicators[m] = inds
		resp.Failing[m] = snap.Failing(m)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Fix endpoint (Protected)
func (h *APIHandler) Fix(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	var req core.FixRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.service.Fix(req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.Debug("API fix %s (%s): %g -> %g", res.Key, res.Mode, res.Result.Previous, res.Result.Lightness)
	writeJSON(w, http.StatusOK, res)
}

// FixAll endpoint (Protected)
func (h *APIHandler) FixAll(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	mode, err := palette.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, err)
		return
	}
	fixed, err := h.service.FixAll(mode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fixed)
}

// Overrides lists (GET), records (POST) or removes (DELETE) overrides
// (Protected). DELETE without family/step/variant removes all of them.
func (h *APIHandler) Overrides(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost, http.MethodDelete) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		entries, err := h.service.Overrides()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)

	case http.MethodPost:
		var entry core.OverrideEntry
		if !decodeBody(w, r, &entry) {
			return
		}
		if err := h.service.SetOverride(entry); err != nil {
			if _, verr := entry.Override(); verr != nil {
				http.Error(w, verr.Error(), http.StatusBadRequest)
				return
			}
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})

	case http.MethodDelete:
		q := r.URL.Query()
		if q.Get("family") == "" && q.Get("step") == "" {
			if err := h.service.ResetOverrides(); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
			return
		}
		key, err := core.OverrideEntry{
			Family:  q.Get("family"),
			Step:    palette.Step(q.Get("step")),
			Variant: palette.Variant(q.Get("variant")),
		}.OverrideKey()
		if err != nil {
			writeError(w, err)
			return
		}
		if err := h.service.DeleteOverride(key); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "key": key.String()})
	}
}

// Tokens endpoint (Protected). ?download=1 serves the export as an
// attachment named after the configured export filename.
func (h *APIHandler) Tokens(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	data, err := tokens.Build(h.store.Families(), h.store.Overrides(), tokenOptions(h.settings)).Marshal()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if d := r.URL.Query().Get("download"); d == "1" || d == "true" {
		httpheader.SetContentDisposition(w.Header(), "attachment", h.settings.General.ExportFilename, nil)
	}
	_, _ = w.Write(data)
}

// CSSResponse is the JSON form of /api/css.
type CSSResponse struct {
	Variables string `json:"variables"`
	Classes   string `json:"classes"`
	Base      string `json:"base"`
}

// CSS endpoint (Protected). Serves text/css unless the client prefers
// application/json.
func (h *APIHandler) CSS(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	families, overrides, opts := h.store.Families(), h.store.Overrides(), tokenOptions(h.settings)

	if prefersJSON(r.Header) {
		writeJSON(w, http.StatusOK, CSSResponse{
			Variables: tokens.Variables(families, overrides, opts),
			Classes:   tokens.Classes(families, opts),
			Base:      tokens.BaseBlock(families, opts),
		})
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = io.WriteString(w, cssText(h.store, opts, cssKind(r.URL.Query().Get("base") == "1", false)))
}

// prefersJSON reports whether the Accept header ranks application/json
// strictly above text/css. A missing header means text/css.
func prefersJSON(header http.Header) bool {
	accept := httpheader.Accept(header)
	if len(accept) == 0 {
		return false
	}
	jsonQ := httpheader.MatchAccept(accept, "application/json").Q
	cssQ := httpheader.MatchAccept(accept, "text/css").Q
	return jsonQ > cssQ
}

// Import endpoint (Protected). Accepts a JSON object of family -> {h,s,l}
// and applies every entry as a base color edit. Unknown families reject the
// whole import.
func (h *APIHandler) Import(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize+1))
	if err != nil {
		http.Error(w, "Failed to read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(body) > maxImportSize {
		http.Error(w, "Import too large", http.StatusRequestEntityTooLarge)
		return
	}
	if kind, _ := filetype.Match(body); kind != filetype.Unknown {
		http.Error(w, fmt.Sprintf("Expected JSON, got %s", kind.MIME.Value), http.StatusUnsupportedMediaType)
		return
	}

	bases, err := parseImport(body)
	if err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	families := h.store.Families()
	resolved := make(map[string]palette.HSL, len(bases))
	for id, hsl := range bases {
		f, err := palette.FindFamily(families, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if _, dup := resolved[f.ID]; dup {
			http.Error(w, fmt.Sprintf("Family %s given more than once", f.ID), http.StatusBadRequest)
			return
		}
		resolved[f.ID] = hsl
	}

	applied := make([]core.FamilyInfo, 0, len(resolved))
	for _, f := range families {
		hsl, ok := resolved[f.ID]
		if !ok {
			continue
		}
		info, err := h.service.SetBase(f.ID, hsl)
		if err != nil {
			writeError(w, err)
			return
		}
		applied = append(applied, info)
	}
	utils.Debug("API import: %d base color(s)", len(applied))
	writeJSON(w, http.StatusOK, applied)
}

// parseImport accepts either {"primary": {"h":..}} or a family list as
// returned by /api/families.
func parseImport(body []byte) (map[string]palette.HSL, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var list []struct {
			ID string `json:"id"`
			palette.HSL
		}
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, err
		}
		out := make(map[string]palette.HSL, len(list))
		for _, f := range list {
			if f.ID == "" {
				return nil, errors.New("family entry without id")
			}
			out[f.ID] = f.HSL
		}
		return out, nil
	}

	var out map[string]palette.HSL
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// startHTTPServer serves the API on an existing listener until it is closed.
// Request contexts derive from ctx so open event streams end with it.
func startHTTPServer(ctx context.Context, ln net.Listener, handler *APIHandler) *http.Server {
	server := &http.Server{
		Handler:     handler.Routes(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			utils.Debug("HTTP server error: %v", err)
		}
	}()
	return server
}

// sameOrigin reports whether r comes from a page served by this server.
// Requests without an Origin header (CLI, curl) count as same-origin.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && strings.EqualFold(u.Host, r.Host)
}

// corsMiddleware only answers the preview page's own origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")
		if !sameOrigin(r) {
			utils.Debug("Rejected cross-origin %s %s from %s", r.Method, r.URL.Path, r.Header.Get("Origin"))
			http.Error(w, "Cross-origin requests are not allowed", http.StatusForbidden)
			return
		}
		if origin := r.Header.Get("Origin"); origin != "" && r.URL.Path != "/" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func authMiddleware(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The page and health check are public
		if r.URL.Path == "/" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		provided := ""
		if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			provided = strings.TrimPrefix(authHeader, "Bearer ")
		} else if r.URL.Path == "/events" {
			// EventSource cannot set headers
			provided = r.URL.Query().Get("token")
		}
		if provided != "" && len(provided) == len(token) && subtle.ConstantTimeCompare([]byte(provided), []byte(token)) == 1 {
			next.ServeHTTP(w, r)
			return
		}

		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}

func ensureAuthToken() string {
	tokenFile := config.GetTokenPath()
	data, err := os.ReadFile(tokenFile)
	if err == nil {
		if token := strings.TrimSpace(string(data)); token != "" {
			return token
		}
	}

	// Generate new token
	token := uuid.New().String()
	if err := os.MkdirAll(filepath.Dir(tokenFile), 0o755); err != nil {
		utils.Debug("Failed to create token dir: %v", err)
	}
	if err := os.WriteFile(tokenFile, []byte(token), 0o600); err != nil {
		utils.Debug("Failed to write token file: %v", err)
	}
	return token
}
