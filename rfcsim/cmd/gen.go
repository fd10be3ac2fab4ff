package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/rfcache/replay"
)

var errInvalidGenParams = errors.New(
	"cores, streams, and regs must be positive")

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a synthetic trace.",
	Long: "`gen -n 1000 -o trace.csv` writes 1000 random accesses to " +
		"trace.csv. The same seed always gives the same trace.",
	Args: cobra.NoArgs,
	RunE: genTrace,
}

func init() {
	rootCmd.AddCommand(genCmd)

	f := genCmd.Flags()
	f.IntP("accesses", "n", 10000, "Number of accesses")
	f.Int64("seed", 0, "Random seed")
	f.Int("cores", 1, "Number of cores")
	f.Int("streams", 4, "Number of streams")
	f.Int("regs", 16, "Number of registers per stream")
	f.Float64("write-ratio", 0.3, "Fraction of accesses that are writes")
	f.StringP("output", "o", "", "Output file; stdout if empty")
}

func genTrace(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()

	n, _ := f.GetInt("accesses")
	seed, _ := f.GetInt64("seed")

	src := replay.NewSyntheticSource(seed, n)
	src.NumCores, _ = f.GetInt("cores")
	src.NumStreams, _ = f.GetInt("streams")
	src.NumRegs, _ = f.GetInt("regs")
	src.WriteRatio, _ = f.GetFloat64("write-ratio")

	if src.NumCores < 1 || src.NumStreams < 1 || src.NumRegs < 1 {
		return errInvalidGenParams
	}

	output, _ := f.GetString("output")
	if output == "" {
		return replay.WriteTrace(cmd.OutOrStdout(), src)
	}

	file, err := os.Create(output)
	if err != nil {
		return err
	}

	if err := replay.WriteTrace(file, src); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
