package main

import (
	"os"
	"strconv"

	"github.com/lukaszgryglicki/skyscatter/internal/skyscatter"
	"github.com/spf13/cobra"
)

// loadConfig builds the run configuration. Precedence: explicitly set flag,
// then SKY_* environment variable, then the JSON config, then the built-in default.
func loadConfig(cmd *cobra.Command) (*skyscatter.Config, error) {
	cfg, err := skyscatter.LoadConfig(getConfigString(cmd, "config", "SKY_CONFIG", ""))
	if err != nil {
		return nil, err
	}
	cfg.Detail = getConfigInt(cmd, "detail", "SKY_DETAIL", cfg.Detail)
	cfg.OutputDir = getConfigString(cmd, "output", "SKY_OUTPUT_DIR", cfg.OutputDir)
	cfg.Prefix = getConfigString(cmd, "prefix", "SKY_PREFIX", cfg.Prefix)
	cfg.Orders = getConfigInt(cmd, "orders", "SKY_ORDERS", cfg.Orders)
	cfg.Workers = getConfigInt(cmd, "workers", "SKY_WORKERS", cfg.Workers)
	cfg.PNG = getConfigBool(cmd, "png", "SKY_PNG", cfg.PNG)
	cfg.Gamma = getConfigFloat(cmd, "gamma", "SKY_GAMMA", cfg.Gamma)

	a := &cfg.Atmosphere
	a.MieAnisotropy = getConfigFloat(cmd, "mie-g", "SKY_MIE_G", a.MieAnisotropy)
	a.MieAngstrom = getConfigFloat(cmd, "mie-angstrom", "SKY_MIE_ANGSTROM", a.MieAngstrom)
	a.GroundAlbedo = getConfigFloat(cmd, "albedo", "SKY_GROUND_ALBEDO", a.GroundAlbedo)
	a.MaxSunZenithDeg = getConfigFloat(cmd, "max-sun-zenith", "SKY_MAX_SUN_ZENITH", a.MaxSunZenithDeg)
	return cfg, nil
}

// getConfigString gets a string value from flag, then env, then fallback
func getConfigString(cmd *cobra.Command, flagName, envName, fallback string) string {
	// Check if flag was explicitly set
	if cmd.Flags().Changed(flagName) {
		val, _ := cmd.Flags().GetString(flagName)
		return val
	}
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return fallback
}

// getConfigInt gets an int value from flag, then env, then fallback
func getConfigInt(cmd *cobra.Command, flagName, envName string, fallback int) int {
	if cmd.Flags().Changed(flagName) {
		val, _ := cmd.Flags().GetInt(flagName)
		return val
	}
	if v := os.Getenv(envName); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getConfigFloat gets a float64 value from flag, then env, then fallback
func getConfigFloat(cmd *cobra.Command, flagName, envName string, fallback float64) float64 {
	if cmd.Flags().Changed(flagName) {
		val, _ := cmd.Flags().GetFloat64(flagName)
		return val
	}
	if v := os.Getenv(envName); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getConfigBool gets a bool value from flag, then env, then fallback
func getConfigBool(cmd *cobra.Command, flagName, envName string, fallback bool) bool {
	if cmd.Flags().Changed(flagName) {
		val, _ := cmd.Flags().GetBool(flagName)
		return val
	}
	if v := os.Getenv(envName); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		// DEBUG=anything turns it on, as the other switches do
		return true
	}
	return fallback
}
