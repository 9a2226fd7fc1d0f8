package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/OfficeXApp/drive-engine/internal/live"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the drive engine's HTTP surface",
		Long: "Starts listening on the configured address, exposing GET /healthz and " +
			"the GET /organization/whoami endpoint (plain JSON, or a websocket upgrade " +
			"for real-time Inbox notifications).",
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /organization/whoami", live.WhoamiHandler(cc.Engine, cc.Hub, userIDFromRequest))

	requestCtx := cmd.Context()

	srv := &http.Server{
		Addr:    cc.Cfg.ListenAddr,
		Handler: mux,
		BaseContext: func(net.Listener) context.Context {
			return requestCtx
		},
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		cc.Logger.Info("serving", "addr", cc.Cfg.ListenAddr, "drive_id", cc.Cfg.DriveID)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		cc.Logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cc.Cfg.WebhookDispatchTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("serve: shutdown: %w", err)
		}
	}

	return nil
}

// userIDFromRequest resolves the calling principal from the Authorization
// header or ?auth= query parameter (spec §4.2, "a token may alternatively
// be supplied as ?auth=…; header takes precedence"). Exported as a plain
// func so internal/live never needs to import internal/auth directly.
func userIDFromRequest(r *http.Request) (string, error) {
	cc := cliContextFrom(r.Context())
	if cc == nil {
		return "", fmt.Errorf("engine context missing from request")
	}

	raw := bearerToken(r)
	if raw == "" {
		return "", fmt.Errorf("missing bearer token")
	}

	key, err := cc.Engine.Authenticate(raw)
	if err != nil {
		cc.Logger.Debug("whoami: authentication failed", "err", err)
		return "", err
	}

	return key.UserID, nil
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if after, ok := strings.CutPrefix(h, "Bearer "); ok {
			return after
		}
	}

	return r.URL.Query().Get("auth")
}
