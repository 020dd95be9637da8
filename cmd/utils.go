package cmd

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/tonekit/tonekit/internal/clipboard"
	"github.com/tonekit/tonekit/internal/config"
	"github.com/tonekit/tonekit/internal/palette"
	"github.com/tonekit/tonekit/internal/utils"
)

// readActivePort reads the port of a running preview server
func readActivePort() int {
	data, err := os.ReadFile(config.GetPortPath())
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return port
}

// saveActivePort records the preview server port for CLI discovery
func saveActivePort(port int) {
	if err := os.WriteFile(config.GetPortPath(), []byte(strconv.Itoa(port)), 0o644); err != nil {
		utils.Debug("Error writing port file: %v", err)
	}
	utils.Debug("HTTP server listening on port %d", port)
}

// removeActivePort cleans up the port file on exit
func removeActivePort() {
	if err := os.Remove(config.GetPortPath()); err != nil && !os.IsNotExist(err) {
		utils.Debug("Error removing port file: %v", err)
	}
}

// findAvailablePort tries ports starting from 'start' until one is available
func findAvailablePort(host string, start int) (int, net.Listener) {
	for port := start; port < start+100; port++ {
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err == nil {
			return port, ln
		}
	}
	return 0, nil
}

// parseHSLArgs accepts either three numbers ("216 58 48") or a single color
// in any form the clipboard reader understands ("#2b5aa1", "hsl(216 58% 48%)").
func parseHSLArgs(args []string) (palette.HSL, error) {
	switch len(args) {
	case 1:
		hsl, ok := clipboard.ExtractColor(args[0])
		if !ok {
			return palette.HSL{}, fmt.Errorf("not a color: %q", args[0])
		}
		return hsl, nil
	case 3:
		var vals [3]float64
		for i, a := range args {
			v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(a), "%"), 64)
			if err != nil {
				return palette.HSL{}, fmt.Errorf("invalid number %q", a)
			}
			vals[i] = v
		}
		return palette.HSL{H: vals[0], S: vals[1], L: vals[2]}, nil
	}
	return palette.HSL{}, fmt.Errorf("expected a color or three numbers (h s l), got %d argument(s)", len(args))
}

// parseModes turns a --mode flag into the modes to act on. "all" and ""
// select both.
func parseModes(v string) ([]palette.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "all", "both":
		return palette.Modes, nil
	}
	m, err := palette.ParseMode(v)
	if err != nil {
		return nil, err
	}
	return []palette.Mode{m}, nil
}
