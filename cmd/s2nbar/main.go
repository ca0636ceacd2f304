package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/chrissnell/s2brdf/internal/log"
	"github.com/chrissnell/s2brdf/internal/observation"
	"github.com/chrissnell/s2brdf/internal/server"
	"github.com/chrissnell/s2brdf/pkg/config"
	"github.com/chrissnell/s2brdf/pkg/responseformat"
	"github.com/chrissnell/s2brdf/pkg/solar"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

type options struct {
	configFile string
	debug      bool
	logLevel   string
	serve      bool
	port       int
	input      string
	format     string

	obs       observation.Observation
	timeStr   string
	latitude  float64
	longitude float64
	set       map[string]bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configFile, "config", "", "Path to YAML configuration file")
	flag.BoolVar(&opts.debug, "debug", false, "Turn on debugging output")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.BoolVar(&opts.serve, "serve", false, "Run the HTTP service")
	flag.IntVar(&opts.port, "port", 0, "HTTP port; overrides the config file")

	flag.StringVar(&opts.input, "input", "", "CSV file of observations to normalize ('-' for stdin)")
	flag.StringVar(&opts.format, "format", "text", "Output format: text, json or msgpack")

	flag.StringVar(&opts.obs.Band, "band", "", "Sentinel-2 band, e.g. B04")
	flag.Float64Var(&opts.obs.Reflectance, "reflectance", 0, "Observed surface reflectance")
	flag.Float64Var(&opts.obs.SZA, "sza", 0, "Solar zenith angle (degrees)")
	flag.Float64Var(&opts.obs.VZA, "vza", 0, "View zenith angle (degrees)")
	flag.Float64Var(&opts.obs.SAA, "saa", 0, "Solar azimuth angle (degrees)")
	flag.Float64Var(&opts.obs.VAA, "vaa", 0, "View azimuth angle (degrees)")
	flag.StringVar(&opts.timeStr, "time", "", "Acquisition time (RFC3339); derives -sza and -saa from -lat/-lon when they are not given")
	flag.Float64Var(&opts.latitude, "lat", 0, "Latitude of the observation (degrees north)")
	flag.Float64Var(&opts.longitude, "lon", 0, "Longitude of the observation (degrees east)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("s2nbar %s\n", version)
		os.Exit(0)
	}

	opts.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(log.Options{Level: cfg.Logging.Level, File: cfg.Logging.File, Debug: cfg.Logging.Debug}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	switch {
	case opts.serve:
		err = serve(cfg)
	case opts.input != "":
		err = runBatch(cfg, opts, os.Stdout)
	default:
		err = runSingle(cfg, opts, os.Stdout)
	}
	if err != nil {
		log.Errorf("%v", err)
		log.Sync()
		os.Exit(1)
	}
}

// loadConfig applies defaults < file < flags.
func loadConfig(opts options) (*config.ConfigData, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	if opts.debug {
		cfg.Logging.Debug = true
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.port != 0 {
		cfg.Server.HTTPPort = opts.port
	}

	return cfg, cfg.Validate()
}

func serve(cfg *config.ConfigData) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	ctrl := server.NewController(ctx, &wg, cfg, log.Named("server"))
	if err := ctrl.StartController(); err != nil {
		return err
	}

	wg.Wait()
	if err := ctrl.Err(); err != nil {
		return err
	}
	log.Info("s2nbar stopped")
	return nil
}

func runBatch(cfg *config.ConfigData, opts options, out io.Writer) error {
	var in io.Reader = os.Stdin
	if opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	obs, err := observation.ReadCSV(in)
	if err != nil {
		return err
	}

	start := time.Now()
	results := observation.Process(cfg.Normalizer(), obs)
	summary := observation.Summarize(results)
	log.Infow("normalized observations",
		"count", summary.Count,
		"failed", summary.Failed,
		"non_finite", summary.NonFinite,
		"mean_c_lambda", float64(summary.MeanCLambda),
		"duration", time.Since(start),
	)

	if opts.format == "text" {
		return observation.WriteCSV(out, results)
	}
	return responseformat.NewFormatter().Encode(out, opts.format, struct {
		Results []observation.Result `json:"results"`
		Summary observation.Summary  `json:"summary"`
	}{results, summary})
}

func runSingle(cfg *config.ConfigData, opts options, out io.Writer) error {
	if opts.obs.Band == "" {
		return errors.New("no -band given; run with -h for help")
	}

	o := opts.obs
	if opts.timeStr != "" {
		t, err := time.Parse(time.RFC3339, opts.timeStr)
		if err != nil {
			return fmt.Errorf("parsing -time: %w", err)
		}
		pos := solar.Calculate(t, opts.latitude, opts.longitude)
		if !pos.AboveHorizon() {
			log.Warnf("sun is %.2f degrees below the horizon at %s", -pos.ElevationDeg, t.Format(time.RFC3339))
		}
		if !opts.set["sza"] {
			o.SZA = pos.ZenithDeg
		}
		if !opts.set["saa"] {
			o.SAA = pos.AzimuthDeg
		}
		log.Debugw("derived solar geometry", "sza", o.SZA, "saa", o.SAA)
	}

	if err := o.CheckFinite(); err != nil {
		return err
	}

	res := observation.Normalize(cfg.Normalizer(), o)
	if res.Error != "" {
		return errors.New(res.Error)
	}

	if opts.format != "text" {
		return responseformat.NewFormatter().Encode(out, opts.format, res)
	}

	fmt.Fprintf(out, "NBAR for %s\n", res.Band)
	fmt.Fprintf(out, "  Geometry:    sza=%.3f° vza=%.3f° saa=%.3f° vaa=%.3f°\n", res.SZA, res.VZA, res.SAA, res.VAA)
	fmt.Fprintf(out, "  Reflectance: %.6f\n", res.Reflectance)
	fmt.Fprintf(out, "  c_lambda:    %.6f\n", float64(res.CLambda))
	fmt.Fprintf(out, "  NBAR:        %.6f\n", float64(res.NBAR))
	return nil
}
