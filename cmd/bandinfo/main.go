// Command bandinfo prints a fractional-octave band grid and the response of
// the filters designed for it.
//
// Usage:
//
//	bandinfo [flags]
//
// Examples:
//
//	bandinfo
//	bandinfo -fraction 1 -rate 44100
//	bandinfo -fraction 3 -min 50 -max 5000 -order 6 -weighting A
//	bandinfo -config analysis.json -rate 96000
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-acoustics/dsp/filter/bank"
	"github.com/cwbudde/algo-acoustics/dsp/filter/weighting"
	"github.com/cwbudde/algo-acoustics/dsp/octave"
	"github.com/cwbudde/algo-acoustics/measure/bandlevel"
)

// cliFlags holds the flags that can override a loaded config.
type cliFlags struct {
	fraction  int
	minFreq   float64
	maxFreq   float64
	order     int
	base10    bool
	zeroPhase bool
	weighting string
}

func registerFlags(fs *flag.FlagSet, cfg bandlevel.Config) *cliFlags {
	f := &cliFlags{}
	fs.IntVar(&f.fraction, "fraction", cfg.Fraction, "bands per octave")
	fs.Float64Var(&f.minFreq, "min", cfg.MinFreq, "lowest nominal center in Hz")
	fs.Float64Var(&f.maxFreq, "max", cfg.MaxFreq, "highest nominal center in Hz")
	fs.IntVar(&f.order, "order", cfg.Order, "Butterworth prototype order")
	fs.BoolVar(&f.base10, "base10", false, "use the base-10 octave ratio 10^0.3")
	fs.BoolVar(&f.zeroPhase, "zero-phase", false, "report forward-backward (zero-phase) responses")
	fs.StringVar(&f.weighting, "weighting", "", "weighting curve to tabulate per band (A, B, C, Z)")

	return f
}

// apply copies the flags set on the command line into cfg.
func (f *cliFlags) apply(fs *flag.FlagSet, cfg *bandlevel.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "fraction":
			cfg.Fraction = f.fraction
		case "min":
			cfg.MinFreq = f.minFreq
		case "max":
			cfg.MaxFreq = f.maxFreq
		case "order":
			cfg.Order = f.order
		case "base10":
			cfg.Base = octave.Base2
			if f.base10 {
				cfg.Base = octave.Base10
			}
		case "zero-phase":
			cfg.Phase = bank.PhaseCausal
			if f.zeroPhase {
				cfg.Phase = bank.PhaseZero
			}
		case "weighting":
			cfg.Weighting = f.weighting
		}
	})
}

func main() {
	cfg := bandlevel.DefaultConfig()

	configPath := flag.String("config", "", "JSON analysis config; flags given explicitly override it")
	rate := flag.Int("rate", 48000, "sample rate in Hz")
	verbose := flag.Bool("v", false, "log filter design")
	overrides := registerFlags(flag.CommandLine, cfg)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bandinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the band grid and the designed band-pass responses.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  bandinfo -fraction 1 -rate 44100\n")
		fmt.Fprintf(os.Stderr, "  bandinfo -fraction 3 -min 50 -max 5000 -order 6 -weighting A\n")
	}
	flag.Parse()

	if *configPath != "" {
		if err := loadConfig(*configPath, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	overrides.apply(flag.CommandLine, &cfg)

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}
	defer func() { _ = logger.Sync() }()

	a, err := bandlevel.New(cfg, bandlevel.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	b, err := a.Bank(*rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	wt, _ := weighting.ParseType(cfg.Weighting)

	if err := printBands(os.Stdout, b, wt); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string, cfg *bandlevel.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	return nil
}

// printBands writes one row per band: the grid, the filter response at the
// center, the edges and the neighbouring centers, and the weighting value.
func printBands(w io.Writer, b *bank.Bank, wt weighting.Type) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintf(tw, "Band\tNominal [Hz]\tCenter [Hz]\tLower [Hz]\tUpper [Hz]\tSections\tCenter [dB]\tEdges [dB]\tNeighbours [dB]\t%s [dB]\tStatus\n", wt); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if _, err := fmt.Fprintf(tw, "----\t------------\t-----------\t----------\t----------\t--------\t-----------\t----------\t---------------\t-----\t------\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bands := b.Bands()
	specs := b.Specs()
	ratio := 1.0

	if len(bands) > 1 {
		ratio = bands[1].Center / bands[0].Center
	}

	for i, band := range bands {
		sections, center, edges, neighbours := "-", "-", "-", "-"

		if spec := specs[i]; spec != nil {
			sections = fmt.Sprintf("%d", spec.NumSections())
			center = fmt.Sprintf("%.2f", b.MagnitudeDB(i, band.Center))
			edges = fmt.Sprintf("%.2f/%.2f", b.MagnitudeDB(i, band.Lower), b.MagnitudeDB(i, band.Upper))

			up := b.MagnitudeDB(i, band.Center*ratio)
			if band.Center*ratio >= b.SampleRate()/2 {
				up = math.NaN()
			}

			neighbours = fmt.Sprintf("%.1f/%.1f", b.MagnitudeDB(i, band.Center/ratio), up)
		}

		if _, err := fmt.Fprintf(tw, "%d\t%g\t%.2f\t%.2f\t%.2f\t%s\t%s\t%s\t%s\t%.1f\t%s\n",
			band.Index,
			band.Nominal,
			band.Center,
			band.Lower,
			band.Upper,
			sections,
			center,
			edges,
			neighbours,
			wt.GainDB(band.Center),
			b.Status(i),
		); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	return tw.Flush()
}
