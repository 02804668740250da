package main

import (
	"fmt"
	"log/slog"

	"github.com/lukaszgryglicki/skyscatter/internal/skyscatter"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skyscatter",
		Short: "Precompute atmospheric scattering lookup tables",
		Long: `Skyscatter precomputes the transmittance, irradiance and scattering
lookup tables of a planetary atmosphere for a render time sky shader.

Tables are written as big-endian float32 files named
<prefix>-<table>-<detail>x.float32 under the output directory.

Configuration can be set via a JSON file, environment variables (SKY_*)
or command-line flags; flags take precedence over the environment,
which takes precedence over the file.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cmd)
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			written, err := skyscatter.Run(cfg)
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.String("config", "", "JSON config file (env SKY_CONFIG)")
	f.IntP("detail", "d", skyscatter.Detail, fmt.Sprintf("Detail level in [%d, %d], every resolution is scaled by 2^detail", skyscatter.MinDetail, skyscatter.MaxDetail))
	f.StringP("output", "o", skyscatter.OutputDir, "Output directory for the tables")
	f.String("prefix", skyscatter.Prefix, "Table file name prefix")
	f.Int("orders", skyscatter.Orders, "Scattering orders to compute, 1 is single scattering only")
	f.Int("workers", 0, "Worker goroutines per pass (0 = number of CPUs)")
	f.Bool("png", false, "Also write PNG previews of every table")
	f.Float64("gamma", skyscatter.Gamma, "Preview gamma")
	f.Float64("mie-g", skyscatter.DefaultEarthParams().MieAnisotropy, "Mie phase anisotropy")
	f.Float64("mie-angstrom", skyscatter.DefaultEarthParams().MieAngstrom, "Mie wavelength exponent")
	f.Float64("albedo", skyscatter.DefaultEarthParams().GroundAlbedo, "Ground albedo")
	f.Float64("max-sun-zenith", skyscatter.DefaultEarthParams().MaxSunZenithDeg, "Maximum sun zenith angle in degrees")
	f.Bool("debug", false, "Log pass progress (env DEBUG)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	debug := getConfigBool(cmd, "debug", "DEBUG", false)
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	skyscatter.Debug = debug
	skyscatter.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
}

// Execute runs the root command; cobra prints the diagnostic on error.
func Execute() error {
	return newRootCmd().Execute()
}
