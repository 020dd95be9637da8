package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonekit/tonekit/internal/config"
	"github.com/tonekit/tonekit/internal/core"
	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/preview"
	"github.com/tonekit/tonekit/internal/store"
)

const testToken = "test-token"

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	st := store.New(nil, nil)
	pv := preview.NewService(st, time.Hour)
	t.Cleanup(pv.Close)

	h := NewAPIHandler(st, pv, config.DefaultSettings(), testToken, 0)
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return srv, st
}

func doRequest(t *testing.T, srv *httptest.Server, method, path string, body []byte, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+testToken)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestAPI_AuthRequired(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/api/families", "/api/palette", "/api/tokens"} {
		resp, err := srv.Client().Get(srv.URL + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/families", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_PublicEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]any
	decode(t, resp, &health)
	assert.Equal(t, "ok", health["status"])

	page, err := srv.Client().Get(srv.URL + "/")
	require.NoError(t, err)
	defer page.Body.Close()
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, page.Header.Get("Content-Type"), "text/html")
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(page.Body)
	assert.Contains(t, buf.String(), `"test-token"`)

	missing, err := srv.Client().Get(srv.URL + "/nope")
	require.NoError(t, err)
	_ = missing.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, missing.StatusCode)
}

func TestAPI_PreflightSkipsAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/fix", nil)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestAPI_CrossOriginRejected(t *testing.T) {
	srv, st := newTestServer(t)
	key := palette.OverrideKey{Family: "primary", Step: palette.StepBase, Variant: palette.VariantOn}
	require.NoError(t, st.RecordOverride(key, palette.Override{Light: 98, Dark: 98}))

	foreign := http.Header{"Origin": {"https://evil.example"}}

	page := doRequest(t, srv, http.MethodGet, "/", nil, foreign)
	assert.Equal(t, http.StatusForbidden, page.StatusCode)
	assert.Empty(t, page.Header.Get("Access-Control-Allow-Origin"))
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(page.Body)
	assert.NotContains(t, buf.String(), testToken)

	resp := doRequest(t, srv, http.MethodDelete, "/api/overrides", nil, foreign)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Len(t, st.Overrides(), 1)

	resp = doRequest(t, srv, http.MethodOptions, "/api/fix", nil, foreign)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_SameOriginAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	own := http.Header{"Origin": {srv.URL}}

	page := doRequest(t, srv, http.MethodGet, "/", nil, own)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Empty(t, page.Header.Get("Access-Control-Allow-Origin"))

	resp := doRequest(t, srv, http.MethodGet, "/api/families", nil, own)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, srv.URL, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSameOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://127.0.0.1:7420", true},
		{"http://127.0.0.1:7421", false},
		{"https://evil.example", false},
		{"null", false},
		{"file://127.0.0.1:7420", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "http://127.0.0.1:7420/", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.want, sameOrigin(r), tt.origin)
	}
}

func TestAPI_FixIsReflectedInPalette(t *testing.T) {
	srv, _ := newTestServer(t)

	body, _ := json.Marshal(core.FixRequest{Family: "warning", Step: palette.StepPlusOne, Variant: "on", Mode: palette.ModeLight})
	resp := doRequest(t, srv, http.MethodPost, "/api/fix", body, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fix core.FixResponse
	decode(t, resp, &fix)
	assert.True(t, fix.Result.Changed)
	assert.Equal(t, "alerts-warning", fix.Family)

	resp = doRequest(t, srv, http.MethodGet, "/api/palette?mode=light", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pal PaletteResponse
	decode(t, resp, &pal)
	assert.Len(t, pal.Modes, 1)
	var found bool
	for _, sw := range pal.Modes[palette.ModeLight]["alerts-warning"] {
		if sw.Step == palette.StepPlusOne {
			found = true
			assert.Equal(t, fix.Result.Lightness, sw.OnLightness)
			assert.True(t, sw.OnOverridden)
		}
	}
	assert.True(t, found)

	resp = doRequest(t, srv, http.MethodGet, "/api/overrides", nil, nil)
	var entries []core.OverrideEntry
	decode(t, resp, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, fix.Result.Lightness, entries[0].Light)
}

func TestAPI_FixErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		req    core.FixRequest
		status int
	}{
		{core.FixRequest{Family: "accent", Step: palette.StepBase}, http.StatusNotFound},
		{core.FixRequest{Family: "primary", Step: "plus-nine"}, http.StatusNotFound},
		{core.FixRequest{Family: "primary", Step: palette.StepOriginal}, http.StatusBadRequest},
		{core.FixRequest{Family: "primary", Step: palette.StepBase, Mode: "sepia"}, http.StatusBadRequest},
		{core.FixRequest{Family: "primary", Step: palette.StepBase, Variant: "shadow"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		body, _ := json.Marshal(tc.req)
		resp := doRequest(t, srv, http.MethodPost, "/api/fix", body, nil)
		assert.Equal(t, tc.status, resp.StatusCode, "%+v", tc.req)
	}

	resp := doRequest(t, srv, http.MethodPost, "/api/fix", []byte("{"), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, "/api/fix", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestAPI_FixAllAndContrast(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/contrast?mode=light", nil, nil)
	var before ContrastResponse
	decode(t, resp, &before)
	require.Greater(t, before.Failing[palette.ModeLight], 0)

	resp = doRequest(t, srv, http.MethodPost, "/api/fix-all?mode=light", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fixed []core.FixResponse
	decode(t, resp, &fixed)
	assert.NotEmpty(t, fixed)

	resp = doRequest(t, srv, http.MethodGet, "/api/contrast?mode=light", nil, nil)
	var after ContrastResponse
	decode(t, resp, &after)
	assert.Equal(t, 0, after.Failing[palette.ModeLight])
	assert.Greater(t, after.Version, before.Version)

	resp = doRequest(t, srv, http.MethodPost, "/api/fix-all?mode=sepia", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ContrastLargeText(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/contrast?mode=dark&large=1", nil, nil)
	var res ContrastResponse
	decode(t, resp, &res)
	assert.True(t, res.LargeText)
	require.NotEmpty(t, res.Indicators[palette.ModeDark])
	for _, ind := range res.Indicators[palette.ModeDark] {
		if ind.On.Ratio >= 4.5 {
			assert.Equal(t, "AAA", string(ind.On.Level))
		}
	}
}

func TestAPI_FamiliesHSL(t *testing.T) {
	srv, st := newTestServer(t)

	body, _ := json.Marshal(core.HSLRequest{Family: "neutral", H: 30, S: 20, L: 140})
	resp := doRequest(t, srv, http.MethodPost, "/api/families/hsl", body, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var info core.FamilyInfo
	decode(t, resp, &info)
	assert.True(t, info.Edited)
	assert.Equal(t, 100.0, info.L)
	assert.True(t, st.Edited("neutral"))

	resp = doRequest(t, srv, http.MethodGet, "/api/families", nil, nil)
	var families []core.FamilyInfo
	decode(t, resp, &families)
	require.Len(t, families, 6)
	assert.True(t, families[1].Edited)

	resp = doRequest(t, srv, http.MethodDelete, "/api/families/hsl?family=neutral", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, st.Edited("neutral"))

	resp = doRequest(t, srv, http.MethodDelete, "/api/families/hsl", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_TokensDownload(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/tokens", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Content-Disposition"))
	var doc []map[string]any
	decode(t, resp, &doc)
	require.Len(t, doc, 1)
	assert.Contains(t, doc[0], "Color Styles")

	resp = doRequest(t, srv, http.MethodGet, "/api/tokens?download=1", nil, nil)
	disposition := resp.Header.Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, "attachment"))
	assert.Contains(t, disposition, "optics-tokens-generated.json")
}

func TestAPI_CSSNegotiation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/css", nil, nil)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	assert.Contains(t, buf.String(), "--op-color-primary-h")
	assert.Contains(t, buf.String(), "light-dark(")

	resp = doRequest(t, srv, http.MethodGet, "/api/css", nil, http.Header{"Accept": {"application/json, text/css;q=0.5"}})
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	var css CSSResponse
	decode(t, resp, &css)
	assert.Contains(t, css.Variables, "--op-color-neutral-base")
	assert.Contains(t, css.Classes, ".primary-base")
	assert.Contains(t, css.Base, "--op-color-primary-s")

	resp = doRequest(t, srv, http.MethodGet, "/api/css", nil, http.Header{"Accept": {"text/css, application/json;q=0.9"}})
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
}

func TestPrefersJSON(t *testing.T) {
	assert.False(t, prefersJSON(http.Header{}))
	assert.False(t, prefersJSON(http.Header{"Accept": {"*/*"}}))
	assert.True(t, prefersJSON(http.Header{"Accept": {"application/json"}}))
	assert.False(t, prefersJSON(http.Header{"Accept": {"text/css"}}))
	assert.True(t, prefersJSON(http.Header{"Accept": {"text/css;q=0.1, application/*"}}))
}

func TestAPI_Import(t *testing.T) {
	srv, st := newTestServer(t)

	body := []byte(`{"primary": {"h": 10, "s": 20, "l": 30}, "danger": {"h": 5, "s": 90, "l": 45}}`)
	resp := doRequest(t, srv, http.MethodPost, "/api/import", body, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var applied []core.FamilyInfo
	decode(t, resp, &applied)
	require.Len(t, applied, 2)
	assert.Equal(t, "primary", applied[0].ID)
	assert.Equal(t, "alerts-danger", applied[1].ID)
	assert.True(t, st.Edited("alerts-danger"))

	f, err := st.Family("primary")
	require.NoError(t, err)
	assert.Equal(t, palette.HSL{H: 10, S: 20, L: 30}, f.HSL)
}

func TestAPI_ImportFamilyList(t *testing.T) {
	srv, st := newTestServer(t)

	body := []byte(`[{"id": "neutral", "name": "Neutral", "h": 90, "s": 4, "l": 52}]`)
	resp := doRequest(t, srv, http.MethodPost, "/api/import", body, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	f, _ := st.Family("neutral")
	assert.Equal(t, 90.0, f.H)
}

func TestAPI_ImportRejects(t *testing.T) {
	srv, st := newTestServer(t)

	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	resp := doRequest(t, srv, http.MethodPost, "/api/import", png, nil)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodPost, "/api/import", []byte(`not json`), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// One unknown family rejects the whole import.
	resp = doRequest(t, srv, http.MethodPost, "/api/import", []byte(`{"primary": {"h": 1, "s": 1, "l": 1}, "accent": {"h": 1, "s": 1, "l": 1}}`), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, st.Edited("primary"))

	// A short alias and the full id name the same family.
	resp = doRequest(t, srv, http.MethodPost, "/api/import", []byte(`{"danger": {"h": 1, "s": 1, "l": 1}, "alerts-danger": {"h": 2, "s": 2, "l": 2}}`), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, st.Edited("alerts-danger"))
}

func TestAPI_OverridesDelete(t *testing.T) {
	srv, st := newTestServer(t)

	entry, _ := json.Marshal(core.OverrideEntry{Family: "primary", Step: palette.StepBase, Variant: "alt", Light: 95, Dark: 5})
	resp := doRequest(t, srv, http.MethodPost, "/api/overrides", entry, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, st.Overrides(), 1)

	bad, _ := json.Marshal(core.OverrideEntry{Family: "primary", Step: palette.StepBase, Light: 101})
	resp = doRequest(t, srv, http.MethodPost, "/api/overrides", bad, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodDelete, "/api/overrides?family=primary&step=base&variant=alt", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, st.Overrides())

	resp = doRequest(t, srv, http.MethodPost, "/api/fix-all?mode=dark", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doRequest(t, srv, http.MethodDelete, "/api/overrides", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, st.Overrides())
}

func TestAPI_Events(t *testing.T) {
	srv, _ := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?token="+testToken, nil)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	buf := make([]byte, 256)
	n, err := resp.Body.Read(buf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(buf[:n]), "event: palette\n"))
}

func TestStartHTTPServer_ShutdownEndsEventStreams(t *testing.T) {
	st := store.New(nil, nil)
	pv := preview.NewService(st, time.Hour)
	t.Cleanup(pv.Close)
	h := NewAPIHandler(st, pv, config.DefaultSettings(), testToken, 0)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	server := startHTTPServer(ctx, ln, h)

	resp, err := http.Get("http://" + ln.Addr().String() + "/events?token=" + testToken)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	buf := make([]byte, 256)
	_, err = resp.Body.Read(buf)
	require.NoError(t, err)

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	assert.NoError(t, server.Shutdown(shutdownCtx))
}

func TestRemotePaletteService_AgainstAPI(t *testing.T) {
	srv, st := newTestServer(t)
	svc := core.NewRemotePaletteService(srv.URL, testToken)

	families, err := svc.Families()
	require.NoError(t, err)
	assert.Len(t, families, 6)

	info, err := svc.SetBase("info", palette.HSL{H: 200, S: 40, L: 50})
	require.NoError(t, err)
	assert.Equal(t, "alerts-info", info.ID)
	assert.True(t, st.Edited("alerts-info"))

	_, err = svc.ResetBase("info")
	require.NoError(t, err)
	assert.False(t, st.Edited("alerts-info"))

	res, err := svc.Fix(core.FixRequest{Family: "alerts-warning", Step: palette.StepPlusOne, Mode: palette.ModeLight})
	require.NoError(t, err)
	assert.True(t, res.Result.Passed)

	entries, err := svc.Overrides()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, svc.DeleteOverride(palette.OverrideKey{Family: "alerts-warning", Step: palette.StepPlusOne, Variant: palette.VariantOn}))
	assert.Empty(t, st.Overrides())

	require.NoError(t, svc.SetOverride(core.OverrideEntry{Family: "neutral", Step: palette.StepBase, Variant: "on", Light: 90, Dark: 10}))
	require.NoError(t, svc.ResetOverrides())
	assert.Empty(t, st.Overrides())

	_, err = svc.Fix(core.FixRequest{Family: "accent", Step: palette.StepBase})
	assert.ErrorContains(t, err, "404")
}

func TestRemotePaletteService_StreamEvents(t *testing.T) {
	srv, _ := newTestServer(t)
	svc := core.NewRemotePaletteService(srv.URL, testToken)

	events, cleanup, err := svc.StreamEvents(context.Background())
	require.NoError(t, err)
	defer cleanup()

	select {
	case ev := <-events:
		assert.Equal(t, preview.EventPalette, ev.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for initial event")
	}

	_, err = svc.SetBase("primary", palette.HSL{H: 1, S: 2, L: 3})
	require.NoError(t, err)
	select {
	case ev := <-events:
		assert.Equal(t, preview.EventPalette, ev.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}
