package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tonekit/tonekit/internal/config"
	"github.com/tonekit/tonekit/internal/preview"
	"github.com/tonekit/tonekit/internal/store"
	"github.com/tonekit/tonekit/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the live preview server",
	Long: `Serve a live preview page of the palette. Edits made through the page,
the API or other tonekit commands are pushed to open pages as they happen.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initializeGlobalState()
		settings := loadSettings(cmd)

		isMaster, err := AcquireLock()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error acquiring lock: %v\n", err)
			os.Exit(1)
		}
		if !isMaster {
			fmt.Fprintln(os.Stderr, "Error: another tonekit editor is already running.")
			os.Exit(1)
		}
		defer func() {
			if err := ReleaseLock(); err != nil {
				utils.Debug("Error releasing lock: %v", err)
			}
		}()

		host, _ := cmd.Flags().GetString("host")
		if host == "" {
			host = settings.Server.Host
		}
		portFlag, _ := cmd.Flags().GetInt("port")

		port, listener, err := listen(host, portFlag, settings.Server.Port)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		st := mustOpenStore(settings)
		if err := runServer(cmd.Context(), st, settings, host, port, listener); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// listen binds the preview server. An explicit port is strict; otherwise
// the configured port is the first one tried.
func listen(host string, strict, preferred int) (int, net.Listener, error) {
	if strict > 0 {
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(strict)))
		if err != nil {
			return 0, nil, fmt.Errorf("could not bind to port %d: %w", strict, err)
		}
		return strict, ln, nil
	}
	if preferred <= 0 {
		preferred = config.DefaultSettings().Server.Port
	}
	port, ln := findAvailablePort(host, preferred)
	if ln == nil {
		return 0, nil, fmt.Errorf("could not find available port")
	}
	return port, ln, nil
}

// runServer serves until SIGINT/SIGTERM or ctx is cancelled.
func runServer(parent context.Context, st *store.Store, settings *config.Settings, host string, port int, ln net.Listener) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pv := preview.NewService(st, settings.Editor.RefreshInterval)
	defer pv.Close()
	go func() {
		if err := pv.Run(ctx); err != nil && ctx.Err() == nil {
			utils.Debug("preview: %v", err)
		}
	}()

	watcher := config.NewWatcher(func(s *config.Settings) {
		st.SetFamilies(s.ToFamilies())
	})
	if err := watcher.Start(ctx); err != nil {
		utils.Debug("config: watcher unavailable: %v", err)
	} else {
		defer watcher.Stop()
	}

	handler := NewAPIHandler(st, pv, settings, ensureAuthToken(), port)
	server := startHTTPServer(ctx, ln, handler)

	// Save port for CLI discovery
	saveActivePort(port)
	defer removeActivePort()

	fmt.Printf("tonekit preview running at http://%s\n", net.JoinHostPort(host, strconv.Itoa(port)))
	fmt.Println("Press Ctrl+C to stop.")

	<-ctx.Done()
	fmt.Println("\nShutting down...")
	pv.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default: settings, then next free)")
	serveCmd.Flags().String("host", "", "Interface to bind (default from settings)")
}
