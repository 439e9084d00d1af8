package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "artemist [data_file] [threshold]",
	Short: "A tick-by-tick mean-reversion backtesting engine",
	Long: `Artemist replays a single instrument's tick stream through a rolling
z-score signal and a slippage-and-commission-aware execution engine,
producing an equity curve, a trade log, and end-of-run performance
metrics.

Arguments:
  data_file   path to the tick CSV (default: data/ES_futures_sample.csv)
  threshold   z-score entry threshold theta (default: 2.5)

Complete documentation is available at https://github.com/Odey340/Artemist`,
	Args: cobra.MaximumNArgs(2),
	RunE: runBacktest,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "path to a YAML or JSON engine config file")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "optional SQLite journal path (additive to CSV output)")
	rootCmd.Flags().StringVar(&prefix, "prefix", "backtest", "output file prefix for the equity/trades CSVs")
	rootCmd.Flags().BoolVar(&usePipeline, "pipeline", false, "run the producer/consumer ring pipeline instead of the direct call chain")
	rootCmd.Flags().IntVar(&ringCapacity, "ring-capacity", 0, "ring buffer capacity when --pipeline is set (default: config's ring_capacity)")
	rootCmd.Flags().StringVar(&logPath, "log", "", "path to a free-form human-readable log file")
}
