// Command cli runs a bootstrap from the terminal: residual data in, summary
// table out. With no data file it runs on synthetic two-group data, which is
// handy for a first look at a measure.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/briandowns/spinner"
	"github.com/joho/godotenv"

	"graphboot/adapters/corrmat"
	"graphboot/adapters/graphmetrics"
	"graphboot/adapters/postgres"
	"graphboot/adapters/tabular"
	"graphboot/domain/boot"
	"graphboot/domain/core"
	engine "graphboot/internal/boot"
	"graphboot/internal/config"
	"graphboot/internal/logging"
	"graphboot/internal/testkit"
	"graphboot/ports"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dataPath := flag.String("data", cfg.Data.Path, "residual data file (.xlsx or .csv); empty runs the synthetic demo")
	measure := flag.String("measure", cfg.Run.Measure, "graph measure")
	replicates := flag.Int("replicates", cfg.Run.Replicates, "bootstrap replicates per group")
	seed := flag.Int64("seed", cfg.Run.Seed, "base random seed")
	workers := flag.Int("workers", cfg.Run.Workers, "worker pool size (0 = all CPUs)")
	persist := flag.Bool("persist", false, "store the summary in postgres (DATABASE_URL)")
	quiet := flag.Bool("quiet", false, "suppress the progress spinner")
	flag.Parse()

	cfg.Run.Measure = *measure
	cfg.Run.Replicates = *replicates
	cfg.Run.Seed = *seed
	cfg.Run.Workers = *workers

	log := logging.New(os.Stderr, cfg.LogLevel, true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var source ports.ResidualSource
	if *dataPath != "" {
		source = tabular.NewFileSource(*dataPath, cfg.Data.Groups)
	} else {
		log.Info().Msg("no data file given, using synthetic demo groups")
		a, b := testkit.TwoGroups(testkit.DefaultOptions())
		source = tabular.NewMemorySource(a, b)
	}

	var progress ports.ProgressObserver = ports.NopProgress{}
	var spin *spinnerObserver
	if !*quiet {
		spin = newSpinnerObserver()
		progress = spin
		spin.Start()
		defer spin.Stop()
	}

	bootCfg := cfg.BootConfig()
	orch := engine.NewOrchestrator(
		corrmat.NewBuilder(),
		graphmetrics.NewRegistry(),
		engine.NewErrgroupPool(bootCfg.Workers),
		progress,
		log,
	)

	start := time.Now()
	result, err := orch.Run(ctx, source, bootCfg)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	table, err := engine.Summarize(result)
	if err != nil {
		return err
	}

	printTable(result, table, time.Since(start))

	if *persist {
		if cfg.Database.URL == "" {
			return fmt.Errorf("--persist requires DATABASE_URL")
		}
		repo, err := postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer repo.Close()
		if err := repo.SaveRun(ctx, result, table); err != nil {
			return err
		}
		log.Info().Str("run_id", result.RunID.String()).Msg("summary persisted")
	}
	return nil
}

func printTable(result *boot.BootstrapResult, table boot.SummaryTable, elapsed time.Duration) {
	fmt.Printf("run %s  measure=%s  conf=%g  seed=%d  elapsed=%s\n\n",
		result.RunID, result.Measure, result.Confidence, result.Seed, elapsed.Round(time.Millisecond))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GROUP\tDENSITY\tOBSERVED\tSTD.ERR\tCI LOW\tCI HIGH")
	for _, row := range table {
		fmt.Fprintf(w, "%s\t%.3f\t%.5f\t%.5f\t%.5f\t%.5f\n",
			row.Group, row.Density, row.Observed, row.StdError, row.CILow, row.CIHigh)
	}
	w.Flush()
}

// spinnerObserver shows replicate progress on the terminal. Purely advisory:
// it reads counts handed to it and never feeds anything back to the engine.
type spinnerObserver struct {
	mu   sync.Mutex
	spin *spinner.Spinner
}

func newSpinnerObserver() *spinnerObserver {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " bootstrapping..."
	return &spinnerObserver{spin: s}
}

func (o *spinnerObserver) Start() { o.spin.Start() }
func (o *spinnerObserver) Stop()  { o.spin.Stop() }

func (o *spinnerObserver) ReplicateDone(group core.GroupID, completed, total int) {
	o.mu.Lock()
	o.spin.Suffix = fmt.Sprintf(" group %s: %d/%d replicates", group, completed, total)
	o.mu.Unlock()
}

func (o *spinnerObserver) GroupDone(group core.GroupID) {
	o.mu.Lock()
	o.spin.Suffix = fmt.Sprintf(" group %s done", group)
	o.mu.Unlock()
}
