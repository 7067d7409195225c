package identity

import (
	"fmt"
	"os"

	"github.com/cmt-technologies/otrmtv/internal/config"
	"github.com/cmt-technologies/otrmtv/internal/identity"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var normalizedOnly bool

var Cmd = &cobra.Command{
	Use:   "identity",
	Short: "Print the device identity used for pairing",
	Long:  "Resolve the device identity the same way an activation does and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		id := identity.NewResolver(identity.NewHostProber(cfg.SysfsRoot)).Resolve()

		if normalizedOnly {
			fmt.Fprintln(os.Stdout, id.Normalized)
			return nil
		}

		tierColor := color.New(color.FgGreen)
		if !id.Tier.IsHardware() {
			tierColor = color.New(color.FgYellow)
		}

		fmt.Fprintf(os.Stdout, "%s %s\n", color.New(color.Bold).Sprint("Raw:       "), id.Raw)
		fmt.Fprintf(os.Stdout, "%s %s\n", color.New(color.Bold).Sprint("Normalized:"), color.CyanString(id.Normalized))
		fmt.Fprintf(os.Stdout, "%s %s\n", color.New(color.Bold).Sprint("Tier:      "), tierColor.Sprintf("%d (%s)", id.Tier, id.Tier))
		return nil
	},
}

func init() {
	Cmd.Flags().BoolVarP(&normalizedOnly, "normalized", "N", false, "print only the normalized identity")
}
