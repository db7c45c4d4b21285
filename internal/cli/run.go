package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/muliwe/go-triangle-classifier/internal/classifier"
	"github.com/muliwe/go-triangle-classifier/internal/triangle"
)

// ErrMismatch is returned when a sample classifies differently than labelled
var ErrMismatch = errors.New("sample mismatch")

// RunReport summarises a run over the sample corpus
type RunReport struct {
	Rounds           int               `yaml:"rounds"`
	Classifications  int               `yaml:"classifications"`
	SimulatedLatency time.Duration     `yaml:"simulated_latency"`
	Elapsed          time.Duration     `yaml:"elapsed"`
	PerType          map[string]int    `yaml:"per_type"`
	Mismatches       []triangle.Sample `yaml:"mismatches,omitempty"`
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		rounds  int
		latency time.Duration
		slow    bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify the reference samples and report timing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rounds < 1 {
				return fmt.Errorf("--rounds must be at least 1, got %d", rounds)
			}

			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}

			clfCfg := cfg.ClassifierConfig()
			if cmd.Flags().Changed("latency") {
				clfCfg.SimulatedLatency = latency
			}
			if slow {
				clfCfg = classifier.SlowConfig()
			}
			log.Debug("running samples", "rounds", rounds, "simulated_latency", clfCfg.SimulatedLatency)

			report, err := runSamples(cmd, classifier.New(clfCfg), rounds)
			if err != nil {
				return err
			}
			if err := writeReport(cmd.OutOrStdout(), report, output); err != nil {
				return err
			}
			if len(report.Mismatches) > 0 {
				return fmt.Errorf("%w: %d of %d", ErrMismatch, len(report.Mismatches), report.Classifications)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&rounds, "rounds", 3, "number of passes over the samples")
	cmd.Flags().DurationVar(&latency, "latency", 0, "simulated latency per classification")
	cmd.Flags().BoolVar(&slow, "slow", false, "use the slow variant ("+classifier.SlowLatency.String()+" per classification)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "report format: text or yaml")
	cmd.MarkFlagsMutuallyExclusive("slow", "latency")
	return cmd
}

func runSamples(cmd *cobra.Command, clf *classifier.Classifier, rounds int) (RunReport, error) {
	samples := triangle.Samples()
	report := RunReport{
		Rounds:           rounds,
		SimulatedLatency: clf.Latency(),
		PerType:          map[string]int{},
	}

	start := time.Now()
	for round := 0; round < rounds; round++ {
		for _, s := range samples {
			r, err := clf.Classify(cmd.Context(), s.Sides)
			if err != nil {
				return report, err
			}
			report.Classifications++
			report.PerType[r.Type.String()]++
			if round == 0 && r.Type != s.Want {
				report.Mismatches = append(report.Mismatches, s)
			}
		}
	}
	report.Elapsed = time.Since(start)
	return report, nil
}

func writeReport(w io.Writer, r RunReport, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		_, err := fmt.Fprintf(w,
			"rounds: %d\nclassifications: %d\nsimulated latency: %s\nelapsed: %s\nmismatches: %d\n",
			r.Rounds, r.Classifications, r.SimulatedLatency, r.Elapsed, len(r.Mismatches))
		return err
	}
	return fmt.Errorf("unknown output format %q", format)
}
