package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Odey340/Artemist/config"
	"github.com/Odey340/Artemist/internal/backtest"
	"github.com/Odey340/Artemist/internal/metrics"
	"github.com/Odey340/Artemist/internal/pipeline"
	"github.com/Odey340/Artemist/internal/quote"
	"github.com/Odey340/Artemist/internal/runid"
	"github.com/Odey340/Artemist/journal"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	dbPath       string
	prefix       string
	usePipeline  bool
	ringCapacity int
	logPath      string
)

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("prefix") {
		prefix = cfg.Journal.Prefix
	}
	if dbPath == "" {
		dbPath = cfg.Journal.DBPath
	}

	dataPath := "data/ES_futures_sample.csv"
	if len(args) > 0 {
		dataPath = args[0]
	}
	threshold := cfg.Threshold
	if len(args) > 1 {
		threshold, err = strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid threshold %q: %w", args[1], err)
		}
	}
	capacity := cfg.RingCapacity
	if ringCapacity > 0 {
		capacity = ringCapacity
	}
	if usePipeline && (capacity <= 0 || capacity&(capacity-1) != 0) {
		return fmt.Errorf("ring capacity must be a power of two, got %d", capacity)
	}

	logger, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	runID := runid.New()
	logger.Printf("run %s starting: data=%s threshold=%.4f pipeline=%v", runID, dataPath, threshold, usePipeline)

	src, err := quote.Open(dataPath)
	if err != nil {
		return fmt.Errorf("open tick source: %w", err)
	}
	defer src.Close()

	engCfg := backtest.Config{
		Commission:      cfg.Commission,
		SlippageTicks:   cfg.SlippageTicks,
		TickSize:        cfg.TickSize,
		Multiplier:      cfg.Multiplier,
		StartingCapital: cfg.StartingCapital,
		Window:          cfg.Window,
		Threshold:       threshold,
	}
	eng := backtest.NewEngine(engCfg)

	jrn, sqliteJournal, closeJournal, err := openJournal(runID)
	if err != nil {
		return err
	}

	start := time.Now()
	var stats pipeline.Stats
	if usePipeline {
		stats, err = pipeline.Run(context.Background(), src, capacity, eng)
	} else {
		stats = pipeline.RunDirect(src, eng)
	}
	processingTime := time.Since(start)
	if err != nil {
		_ = closeJournal()
		return fmt.Errorf("run backtest: %w", err)
	}

	for _, e := range eng.EquityCurve {
		if err := jrn.RecordEquity(e); err != nil {
			_ = closeJournal()
			return fmt.Errorf("record equity: %w", err)
		}
	}
	for _, t := range eng.Trades {
		if err := jrn.RecordTrade(t); err != nil {
			_ = closeJournal()
			return fmt.Errorf("record trade: %w", err)
		}
	}

	m := metrics.Compute(eng, metrics.Input{
		StartingCapital: cfg.StartingCapital,
		TicksProcessed:  stats.TicksProcessed,
		FirstTickTime:   stats.FirstTickTime,
		LastTickTime:    stats.LastTickTime,
		ProcessingTime:  processingTime,
	})

	if sqliteJournal != nil {
		_ = sqliteJournal.RecordRun(journal.RunSummary{
			DataPath:        dataPath,
			Threshold:       threshold,
			Window:          cfg.Window,
			StartingCapital: cfg.StartingCapital,
			TotalReturn:     m.TotalReturn,
			Volatility:      m.Volatility,
			Sharpe:          m.Sharpe,
			MaxDrawdown:     m.MaxDrawdown,
			WinRate:         m.WinRate,
			TotalTrades:     m.TotalTrades,
			TicksProcessed:  m.TicksProcessed,
		})
	}

	if err := closeJournal(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}

	logger.Printf("run %s complete: sharpe=%.4f max_drawdown=%.4f ticks/sec=%s",
		runID, m.Sharpe, m.MaxDrawdown, humanize.Commaf(m.TicksPerSecond))

	printMetrics(m)
	return nil
}

func loadConfig() (*config.EngineConfig, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgFile)
}

func openLogger() (*log.Logger, func() error, error) {
	if logPath == "" {
		return log.New(os.Stderr, "", log.LstdFlags), func() error { return nil }, nil
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, "", log.LstdFlags), f.Close, nil
}

func openJournal(runID string) (journal.Journal, *journal.SQLiteJournal, func() error, error) {
	csvJournal, err := journal.NewCSV(prefix)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open csv journal: %w", err)
	}

	if dbPath == "" {
		return csvJournal, nil, csvJournal.Close, nil
	}

	sqliteJournal, err := journal.NewSQLite(dbPath, runID)
	if err != nil {
		_ = csvJournal.Close()
		return nil, nil, nil, fmt.Errorf("open sqlite journal: %w", err)
	}

	multi := journal.NewMulti(csvJournal, sqliteJournal)
	return multi, sqliteJournal, multi.Close, nil
}

func printMetrics(m metrics.Metrics) {
	fmt.Printf("Total Return: %.4f\n", m.TotalReturn)
	fmt.Printf("Volatility: %.4f\n", m.Volatility)
	fmt.Printf("Sharpe Ratio: %.4f\n", m.Sharpe)
	fmt.Printf("Max Drawdown: %.4f\n", m.MaxDrawdown)
	fmt.Printf("Win Rate: %.4f\n", m.WinRate)
	fmt.Printf("Avg Trade Length: %.4f\n", m.AvgTradeLength)
	fmt.Printf("Ticks Processed: %s\n", humanize.Comma(m.TicksProcessed))
	fmt.Printf("Ticks/Second: %s\n", humanize.Commaf(m.TicksPerSecond))
	fmt.Printf("Total Trades: %d\n", m.TotalTrades)
	fmt.Printf("Winning Trades: %d\n", m.WinningTrades)
	fmt.Printf("Processing Time: %s\n", m.ProcessingTime)
	fmt.Printf("Avg Latency: %s\n", m.AvgLatency)
}
