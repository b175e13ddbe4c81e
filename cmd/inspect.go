package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unscatty/PianoViaR-sub000/midi"
	"github.com/unscatty/PianoViaR-sub000/sheet"
	"github.com/unscatty/PianoViaR-sub000/util"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Inspects a midi file",
	Long:  `Prints the tracks, time signature and guessed key of a midi file`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := midi.ReadFile(args[0])
		if err != nil {
			return err
		}
		inspect(cmd, f)
		return nil
	},
}

func inspect(cmd *cobra.Command, f *midi.File) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "title: %v\n", f.Title())
	fmt.Fprintf(out, "format: %v, %v track chunks\n", f.TrackMode, len(f.Events))
	fmt.Fprintf(out, "time: %v\n", f.Time)
	if f.Truncated {
		fmt.Fprintln(out, "truncated: true")
	}
	if f.TrackPerChannel {
		fmt.Fprintln(out, "tracks split by channel")
	}

	var counts []int
	var numbers []int
	for i, t := range f.Tracks {
		counts = append(counts, len(t.Notes))
		for _, n := range t.Notes {
			numbers = append(numbers, n.Number)
		}
		fmt.Fprintf(out, "track %v: %v, %v notes, %v lyrics\n", i, t.InstrumentName(), len(t.Notes), len(t.Lyrics))
	}
	fmt.Fprintf(out, "notes: %v\n", util.Sum(counts))
	fmt.Fprintf(out, "end: %v pulses\n", f.EndTime())
	fmt.Fprintf(out, "key: %v\n", sheet.Guess(numbers))
	fmt.Fprintf(out, "measure lengths: %v\n", f.GuessMeasureLength())
}
