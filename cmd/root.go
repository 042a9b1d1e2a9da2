package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbanecon/mexmetro/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mexmetro",
	Short: "Economic diagnostics for Mexican metropolitan areas",
	Long:  "Joins survey microdata and municipal aggregates, derives wage/rent/productivity indicators, migration net rates and city growth metrics, and renders each dataset as standalone interactive charts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("out", "", "output directory for chart files (overrides config)")
	rootCmd.PersistentFlags().Bool("png", false, "also render static PNG charts")
}

// outputOptions resolves the output directory and PNG toggle from flags
// with config fallback.
func outputOptions(cmd *cobra.Command) (dir string, png bool) {
	dir, _ = cmd.Flags().GetString("out")
	if dir == "" {
		dir = cfg.Output.Dir
	}
	png, _ = cmd.Flags().GetBool("png")
	if !png {
		png = cfg.Output.PNG
	}
	return dir, png
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
