package pair

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cmt-technologies/otrmtv/internal/agent"
	"github.com/cmt-technologies/otrmtv/internal/config"
	"github.com/cmt-technologies/otrmtv/internal/identity"
	"github.com/cmt-technologies/otrmtv/internal/models"
	"github.com/cmt-technologies/otrmtv/internal/pairing"
	"github.com/cmt-technologies/otrmtv/internal/render"
	"github.com/cmt-technologies/otrmtv/internal/utils"
	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

var (
	splash time.Duration
	output string
	qrSize int
)

var Cmd = &cobra.Command{
	Use:   "pair",
	Short: "Fetch the pairing code for this TV and show it",
	Long:  "Resolve the device identity, look up its pairing payload and render the room card and QR code",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("splash") {
			splash = cfg.SplashDuration
		}

		clock := clockwork.NewRealClock()
		orch := pairing.NewOrchestrator(pairing.NewClient(cfg.LookupURL, cfg.LookupTimeout), clock)
		a := agent.New(identity.NewResolver(identity.NewHostProber(cfg.SysfsRoot)), orch, clock)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			select {
			case <-utils.WaitForSignal():
				slog.Info("Interrupted, cancel pairing")
				a.Stop()
				cancel()
			case <-ctx.Done():
			}
		}()

		states := a.Start(ctx, splash)
		if states == nil {
			return ctx.Err()
		}

		var final models.PairingState
		for state := range states {
			printState(state)
			final = state
		}

		if final.Phase == models.PhaseReady && output != "" {
			b, err := render.QRCodePNG(final.Payload.QRConfig, qrSize)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, b, 0o644); err != nil {
				return err
			}
			slog.Info("QR code written", "path", output)
		}

		fmt.Fprintln(os.Stdout, render.Screen(final))

		if final.Phase != models.PhaseReady {
			return fmt.Errorf("pairing failed: %s", final.Reason)
		}
		return nil
	},
}

func printState(state models.PairingState) {
	var phase string
	switch state.Phase {
	case models.PhaseReady:
		phase = color.GreenString(string(state.Phase))
	case models.PhaseError:
		phase = color.RedString("%s (%s)", state.Phase, state.Reason)
	default:
		phase = color.YellowString(string(state.Phase))
	}
	fmt.Fprintf(os.Stderr, "[%d] %s device=%s\n", state.Generation, phase, state.Identity.Normalized)
}

func init() {
	Cmd.Flags().DurationVarP(&splash, "splash", "s", 3*time.Second, "splash delay before the first activation")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "write the QR code as PNG to this path")
	Cmd.Flags().IntVar(&qrSize, "qr-size", 512, "PNG QR code size in pixels")
}
