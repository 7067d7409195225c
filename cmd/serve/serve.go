package serve

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/cmt-technologies/otrmtv/internal/agent"
	"github.com/cmt-technologies/otrmtv/internal/config"
	"github.com/cmt-technologies/otrmtv/internal/identity"
	"github.com/cmt-technologies/otrmtv/internal/kiosk"
	"github.com/cmt-technologies/otrmtv/internal/metrics"
	"github.com/cmt-technologies/otrmtv/internal/pairing"
	"github.com/cmt-technologies/otrmtv/internal/store"
	"github.com/cmt-technologies/otrmtv/internal/utils"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

// kioskLookupTimeout bounds lookups when LOOKUP_TIMEOUT is unset. Each
// POST to the activate route would otherwise leave a request hanging on an
// unresponsive service.
const kioskLookupTimeout = 30 * time.Second

var (
	listenAddr string
	splash     time.Duration
)

var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the kiosk server",
	Long:  "Pair after the splash delay and serve the pairing state, QR code and metrics over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("listen") {
			listenAddr = cfg.ListenAddr
		}
		if !cmd.Flags().Changed("splash") {
			splash = cfg.SplashDuration
		}

		clock := clockwork.NewRealClock()
		board := store.NewBoard()
		reg := metrics.NewRegistry()
		pm := metrics.NewPairingMetrics(reg)

		orch := pairing.NewOrchestrator(pairing.NewClient(cfg.LookupURL, lookupTimeout(cfg)), clock, board, pm)
		a := agent.New(identity.NewResolver(identity.NewHostProber(cfg.SysfsRoot)), orch, clock, pm)
		srv := kiosk.NewServer(board, a, reg)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := srv.Listen(listenAddr)
			if err != nil {
				slog.Error("Fail to start server", "error", err)
				cancel()
			}
		}()

		if _, port, err := net.SplitHostPort(listenAddr); err == nil {
			for _, u := range utils.KioskURLs(port) {
				slog.Info("Kiosk reachable", "url", u)
			}
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			states := a.Start(ctx, splash)
			if states == nil {
				return
			}
			final := pairing.Await(states)
			slog.Info("Initial activation settled", "phase", final.Phase, "reason", final.Reason)
		}()

		select {
		case <-utils.WaitForSignal():
		case <-ctx.Done():
		}

		cancel()
		a.Stop()
		if err := srv.Shutdown(); err != nil {
			slog.Error("Fail to stop server", "error", err)
		}
		wg.Wait()
		return nil
	},
}

func lookupTimeout(cfg *config.Config) time.Duration {
	if cfg.LookupTimeout > 0 {
		return cfg.LookupTimeout
	}
	return kioskLookupTimeout
}

func init() {
	Cmd.Flags().StringVarP(&listenAddr, "listen", "L", "0.0.0.0:8080", "kiosk listen address")
	Cmd.Flags().DurationVarP(&splash, "splash", "s", 3*time.Second, "splash delay before the first activation")
}
