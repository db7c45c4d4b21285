package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muliwe/go-triangle-classifier/internal/classifier"
	"github.com/muliwe/go-triangle-classifier/internal/triangle"
)

func newClassifyCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "classify A B C",
		Short:   "Classify three side lengths",
		Example: "  triangle classify 3 4 5\n  triangle classify --json -- 1 1 -1",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sides, err := parseSides(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !asJSON {
				_, err = fmt.Fprintln(out, sides.Classify())
				return err
			}

			result, err := classifier.New(classifier.DefaultConfig()).Classify(cmd.Context(), sides)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func parseSides(args []string) (triangle.Sides, error) {
	var vals [3]int
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return triangle.Sides{}, fmt.Errorf("side %d: %q is not an integer", i+1, arg)
		}
		vals[i] = v
	}
	return triangle.Sides{A: vals[0], B: vals[1], C: vals[2]}, nil
}
