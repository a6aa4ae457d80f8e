package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	navio "navcore/internal/io"
	"navcore/internal/storage"
	"navcore/pkg/navcore"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "bootstrap":
		return runBootstrap(ctx, args[1:])
	case "concepts":
		return runConcepts(ctx, args[1:])
	case "weights":
		return runWeights(ctx, args[1:])
	case "vectors":
		return runVectors(ctx, args[1:])
	case "decide":
		return runDecide(ctx, args[1:])
	case "simulate":
		return runSimulate(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: navcorectl <init|bootstrap|concepts|weights|vectors|decide|simulate|reset> [flags]", msg)
}

type commonFlags struct {
	storeKind  *string
	dbPath     *string
	modelName  *string
	configPath *string
	verbose    *bool
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		storeKind:  fs.String("store", storage.DefaultStoreKind(), "store backend: memory|file|bolt|sqlite"),
		dbPath:     fs.String("db-path", "navcore.db", "database path (directory for the file backend)"),
		modelName:  fs.String("model", "", "concept model name"),
		configPath: fs.String("config", "", "JSON config file with engine overrides"),
		verbose:    fs.Bool("v", false, "log engine events to stderr"),
	}
}

func (f commonFlags) newClient() (*navcore.Client, error) {
	opts := navcore.Options{
		StoreKind: *f.storeKind,
		DBPath:    *f.dbPath,
		ModelName: *f.modelName,
	}
	if *f.configPath != "" {
		cfg, err := loadConfigFromFile(*f.configPath)
		if err != nil {
			return nil, err
		}
		opts.Config = &cfg
	}
	if *f.verbose {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return navcore.New(opts)
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := common.newClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Init(ctx); err != nil {
		return err
	}
	stats, err := client.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("initialized store=%s model_loaded=%v concepts=%d session=%s\n",
		*common.storeKind, stats.ModelLoaded, stats.ConceptCount, stats.SessionID)
	return nil
}

func runBootstrap(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bootstrap", flag.ContinueOnError)
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := common.newClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	count, err := client.Bootstrap(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("bootstrapped %d concepts\n", count)
	return nil
}

func runConcepts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("concepts", flag.ContinueOnError)
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := common.newClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Init(ctx); err != nil {
		return err
	}
	infos, err := client.Concepts(ctx)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("no concept model loaded; run bootstrap first")
		return nil
	}
	for _, info := range infos {
		fmt.Printf("%-28s %s\n", info.Name, info.Category)
	}
	return nil
}

func runWeights(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("weights", flag.ContinueOnError)
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := common.newClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Init(ctx); err != nil {
		return err
	}
	weights, err := client.Weights()
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(weights)
}

func runVectors(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("vectors", flag.ContinueOnError)
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := common.newClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Init(ctx); err != nil {
		return err
	}
	names, err := client.Vectors()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no online vectors learned yet")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runDecide(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("decide", flag.ContinueOnError)
	common := addCommonFlags(fs)
	front := fs.Float64("front", 400, "front distance in mm")
	left := fs.Float64("left", 400, "left distance in mm")
	right := fs.Float64("right", 400, "right distance in mm")
	speedLeft := fs.Float64("speed-left", 0, "current left wheel speed")
	speedRight := fs.Float64("speed-right", 0, "current right wheel speed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := common.newClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Init(ctx); err != nil {
		return err
	}
	d, err := client.Decide(navcore.SensorReading{
		Front:      *front,
		Left:       *left,
		Right:      *right,
		SpeedLeft:  *speedLeft,
		SpeedRight: *speedRight,
	})
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(d)
}

type scenario struct {
	name               string
	front, left, right float64
}

var scenarios = []scenario{
	{"clear path", 200, 150, 150},
	{"front obstacle", 50, 150, 150},
	{"left wall", 150, 30, 200},
	{"right wall", 150, 200, 30},
	{"trapped", 40, 40, 40},
}

func runSimulate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	common := addCommonFlags(fs)
	cycles := fs.Int("cycles", 1, "cycles per scenario")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *cycles <= 0 {
		return errors.New("cycles must be positive")
	}

	client, err := common.newClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Init(ctx); err != nil {
		return err
	}
	rig, err := navio.NewRig()
	if err != nil {
		return err
	}

	for _, sc := range scenarios {
		fmt.Printf("[%s] F=%.0f L=%.0f R=%.0f\n", sc.name, sc.front, sc.left, sc.right)
		rig.SetDistances(sc.front, sc.left, sc.right)
		for i := 0; i < *cycles; i++ {
			reading, err := rig.Reading(ctx)
			if err != nil {
				return err
			}
			d, err := client.Decide(reading)
			if err != nil {
				return err
			}
			if err := rig.Apply(ctx, d); err != nil {
				return err
			}
			fmt.Printf("  cycle=%d action=%s speeds=%.0f,%.0f source=%s concept=%s\n",
				d.Cycle, d.Action, d.SpeedLeft, d.SpeedRight, d.Source, d.Concept)
		}
	}
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := common.newClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.ResetLearning(ctx); err != nil {
		return err
	}
	fmt.Printf("learning state reset store=%s\n", *common.storeKind)
	return nil
}
