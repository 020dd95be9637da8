package core

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/preview"
)

// RemotePaletteService implements PaletteService against a running preview
// server.
type RemotePaletteService struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewRemotePaletteService creates a new remote service instance.
func NewRemotePaletteService(baseURL string, token string) *RemotePaletteService {
	return &RemotePaletteService{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *RemotePaletteService) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+s.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer func() { _ = resp.Body.Close() }()
		// Limit error body read to 1KB
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}
	return resp, nil
}

// call performs a request and decodes the JSON response into out (if non-nil).
func (s *RemotePaletteService) call(method, path string, body, out any) error {
	resp, err := s.doRequest(context.Background(), method, path, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *RemotePaletteService) Families() ([]FamilyInfo, error) {
	var families []FamilyInfo
	if err := s.call(http.MethodGet, "/api/families", nil, &families); err != nil {
		return nil, err
	}
	return families, nil
}

// HSLRequest is the body of POST /api/families/hsl.
type HSLRequest struct {
	Family string  `json:"family"`
	H      float64 `json:"h"`
	S      float64 `json:"s"`
	L      float64 `json:"l"`
}

func (s *RemotePaletteService) SetBase(family string, hsl palette.HSL) (FamilyInfo, error) {
	var info FamilyInfo
	req := HSLRequest{Family: family, H: hsl.H, S: hsl.S, L: hsl.L}
	err := s.call(http.MethodPost, "/api/families/hsl", req, &info)
	return info, err
}

func (s *RemotePaletteService) ResetBase(family string) (FamilyInfo, error) {
	var info FamilyInfo
	err := s.call(http.MethodDelete, "/api/families/hsl?family="+url.QueryEscape(family), nil, &info)
	return info, err
}

func (s *RemotePaletteService) Fix(req FixRequest) (FixResponse, error) {
	var res FixResponse
	err := s.call(http.MethodPost, "/api/fix", req, &res)
	return res, err
}

func (s *RemotePaletteService) FixAll(mode palette.Mode) ([]FixResponse, error) {
	var res []FixResponse
	err := s.call(http.MethodPost, "/api/fix-all?mode="+url.QueryEscape(string(mode)), nil, &res)
	return res, err
}

func (s *RemotePaletteService) Overrides() ([]OverrideEntry, error) {
	var entries []OverrideEntry
	if err := s.call(http.MethodGet, "/api/overrides", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *RemotePaletteService) SetOverride(entry OverrideEntry) error {
	return s.call(http.MethodPost, "/api/overrides", entry, nil)
}

func (s *RemotePaletteService) DeleteOverride(key palette.OverrideKey) error {
	q := url.Values{}
	q.Set("family", key.Family)
	q.Set("step", string(key.Step))
	q.Set("variant", string(key.Variant))
	return s.call(http.MethodDelete, "/api/overrides?"+q.Encode(), nil, nil)
}

func (s *RemotePaletteService) ResetOverrides() error {
	return s.call(http.MethodDelete, "/api/overrides", nil, nil)
}

// StreamEvents returns a channel that receives snapshot events via SSE,
// reconnecting with backoff until the cleanup func is called.
func (s *RemotePaletteService) StreamEvents(ctx context.Context) (<-chan preview.Event, func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan preview.Event, 16)
	go s.streamWithReconnect(ctx, ch)
	return ch, cancel, nil
}

func (s *RemotePaletteService) streamWithReconnect(ctx context.Context, ch chan preview.Event) {
	defer close(ch)
	backoff := 1 * time.Second
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := s.connectSSE(ctx, ch)
		if err == nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (s *RemotePaletteService) connectSSE(ctx context.Context, ch chan preview.Event) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/events", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// The stream stays open; the client timeout would cut it.
	client := *s.Client
	client.Timeout = 0
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to connect to event stream: %s", resp.Status)
	}

	reader := bufio.NewReader(resp.Body)
	var eventType string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case strings.HasPrefix(line, "event: "):
			eventType = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			if eventType != preview.EventPalette && eventType != preview.EventIndicators {
				continue
			}
			var ev preview.Event
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
				continue
			}
			// Drop the event if the reader is behind; the next one carries
			// a newer version anyway.
			select {
			case ch <- ev:
			default:
			}
		case line == "":
			eventType = ""
		}
	}
}
