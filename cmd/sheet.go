package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/unscatty/PianoViaR-sub000/midi"
	"github.com/unscatty/PianoViaR-sub000/model"
	"github.com/unscatty/PianoViaR-sub000/sheet"
)

var (
	sheetLayout = defaultLayoutFlags()
	sheetJSON   bool
)

func init() {
	sheetLayout.bind(sheetCmd)
	sheetCmd.Flags().BoolVar(&sheetJSON, "json", false, "print the full layout as json")
	rootCmd.AddCommand(sheetCmd)
}

var sheetCmd = &cobra.Command{
	Use:   "sheet <file.mid>",
	Short: "Lays out the sheet music of a midi file",
	Long:  `Lays out the sheet music of a midi file and prints its pages`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := midi.ReadFile(args[0])
		if err != nil {
			return err
		}
		v, err := createSheetView(f, &sheetLayout)
		if err != nil {
			return err
		}
		if sheetJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		}
		printSheet(cmd.OutOrStdout(), v)
		return nil
	},
}

func createSheetView(f *midi.File, l *layoutFlags) (*model.SheetView, error) {
	opts, err := l.options(f)
	if err != nil {
		return nil, err
	}
	s, err := sheet.Create(f, opts, l.dimensions())
	if err != nil {
		return nil, err
	}
	return model.NewSheetView(s), nil
}

func printSheet(out io.Writer, v *model.SheetView) {
	fmt.Fprintf(out, "%v\n%v, %v\n", v.Title, v.Key, v.Time)
	for i, page := range v.Pages {
		fmt.Fprintf(out, "page %v\n", i+1)
		for _, staff := range page {
			chords := 0
			for _, s := range staff.Symbols {
				if s.Kind == sheet.KindChord.String() {
					chords++
				}
			}
			fmt.Fprintf(out, "  track %v %-6v pulses %v-%v, %v chords, %v symbols\n",
				staff.Track, staff.Clef, staff.Start, staff.End, chords, len(staff.Symbols))
		}
	}
}
