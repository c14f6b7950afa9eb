package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"nextbar/internal/config"
	"nextbar/internal/pipeline"
	"nextbar/internal/source"
	"nextbar/internal/store"
	"nextbar/internal/util"
	"nextbar/internal/venue"
)

const version = "0.1.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: nextbar-cli <command> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  predict <ticker>   Run the prediction pipeline for a ticker\n")
		fmt.Fprintf(os.Stderr, "  archive <ticker>   Fetch daily bars and archive them to Parquet\n")
		fmt.Fprintf(os.Stderr, "  replay <ticker>    Run the pipeline against the local archive\n")
		fmt.Fprintf(os.Stderr, "  venues             List the known venue suffix table\n")
		fmt.Fprintf(os.Stderr, "  version            Print the CLI version\n")
		fmt.Fprintf(os.Stderr, "\n")
	}

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("nextbar-cli %s\n", version)

	case "venues":
		for _, e := range venue.Table() {
			fmt.Printf("%-4s %-20s %s\n", e.Suffix, e.Desc.Name, e.Desc.Timezone)
		}

	case "predict":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "predict: ticker required")
			os.Exit(1)
		}
		if err := runPredict(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "predict: %v\n", err)
			os.Exit(1)
		}

	case "archive":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "archive: ticker required")
			os.Exit(1)
		}
		if err := runArchive(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "archive: %v\n", err)
			os.Exit(1)
		}

	case "replay":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "replay: ticker required")
			os.Exit(1)
		}
		if err := runReplay(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "replay: %v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		flag.Usage()
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	cfgPath := "config/nextbar.yaml"
	if p := os.Getenv("NEXTBAR_CONFIG"); p != "" {
		cfgPath = p
	}
	return config.Load(cfgPath)
}

func newYahoo(cfg *config.Config) *source.Yahoo {
	return source.NewYahoo(source.YahooOpts{
		BaseURL:         cfg.Source.YahooBaseURL,
		Timeout:         time.Duration(cfg.Source.TimeoutSec) * time.Second,
		Retries:         cfg.Source.Retries,
		RateLimitPerMin: cfg.Source.RateLimitPerMin,
	})
}

func runPredict(ticker string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slog.SetDefault(util.NewLogger("warn", "text"))

	yahoo := newYahoo(cfg)
	p := pipeline.New(yahoo, venue.NewResolver(yahoo, 2*time.Second), pipeline.Opts{
		LookbackDays: cfg.Source.LookbackDays,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := p.Run(ctx, ticker)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

// runReplay serves the pipeline from bars previously written by the archive
// command, without touching the network.
func runReplay(ticker string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slog.SetDefault(util.NewLogger("warn", "text"))

	fs := source.NewFileSource(store.NewParquetStore(cfg.Storage.DataDir))
	p := pipeline.New(fs, venue.NewResolver(nil, 0), pipeline.Opts{
		LookbackDays: cfg.Source.LookbackDays,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := p.Run(ctx, ticker)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func printResult(res *pipeline.Result) {
	fmt.Printf("%s (%s, %s)\n", res.Ticker, res.Venue, res.Timezone)
	fmt.Printf("  completed session  %s\n", res.SessionDate.Format("2006-01-02"))
	fmt.Printf("  ohlc               %.4f / %.4f / %.4f / %.4f\n",
		res.Bar.Open, res.Bar.High, res.Bar.Low, res.Bar.Close)
	fmt.Printf("  target date        %s\n", res.TargetDate.Format("2006-01-02"))
	fmt.Printf("  predicted close    %s (%s)\n", res.Predicted, res.Method)
	if res.BestEffort {
		fmt.Println("  note: session may still be in progress (best available bar)")
	}
}

func runArchive(ticker string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slog.SetDefault(util.NewLogger("warn", "text"))

	if _, err := store.SanitizeSymbolDir(ticker); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bars, err := newYahoo(cfg).DailyBars(ctx, ticker, cfg.Source.LookbackDays)
	if err != nil {
		return err
	}
	bars = source.Sanitize(bars)
	if len(bars) == 0 {
		return fmt.Errorf("no usable bars for %s", ticker)
	}

	ps := store.NewParquetStore(cfg.Storage.DataDir)
	if err := ps.WriteBars(ctx, bars); err != nil {
		return err
	}
	fmt.Printf("archived %d bars for %s under %s\n", len(bars), ticker, cfg.Storage.DataDir)
	return nil
}
