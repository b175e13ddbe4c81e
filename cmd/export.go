package cmd

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/unscatty/PianoViaR-sub000/midi"
)

var (
	exportTranspose  int
	exportTempo      int
	exportPause      int
	exportMute       []int
	exportInstrument int
)

func init() {
	fs := exportCmd.Flags()
	fs.IntVar(&exportTranspose, "transpose", 0, "transpose by this many semitones")
	fs.IntVar(&exportTempo, "tempo", 0, "microseconds per quarter note, the file's own when 0")
	fs.IntVar(&exportPause, "pause", 0, "start playback at this pulse")
	fs.IntSliceVar(&exportMute, "mute", nil, "tracks to mute")
	fs.IntVar(&exportInstrument, "instrument", -1, "play every track with this instrument")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <in.mid> <out.mid>",
	Short: "Writes a midi file with a new sound",
	Long:  `Writes a midi file with its tracks transposed, muted, re-tempoed or played on another instrument`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := midi.ReadFile(args[0])
		if err != nil {
			return err
		}
		opts, err := exportOptions(f)
		if err != nil {
			return err
		}
		out, err := os.Create(args[1])
		if err != nil {
			return errors.Wrap(err, "could not create output file")
		}
		defer out.Close()
		if err := f.ChangeSound(out, opts); err != nil {
			return err
		}
		log.WithFields(log.Fields{"in": args[0], "out": args[1]}).Info("exported")
		return nil
	},
}

func exportOptions(f *midi.File) (midi.Options, error) {
	opts := midi.NewOptions(f)
	opts.Transpose = exportTranspose
	opts.PauseTime = exportPause
	if exportTempo > 0 {
		opts.Tempo = exportTempo
	}
	for _, i := range exportMute {
		if i < 0 || i >= len(opts.Mute) {
			return opts, errors.Errorf("no track %d", i)
		}
		opts.Mute[i] = true
	}
	if exportInstrument >= 0 {
		if exportInstrument > 127 {
			return opts, errors.Errorf("bad instrument %d", exportInstrument)
		}
		opts.UseDefaultInstruments = false
		for i := range opts.Instruments {
			opts.Instruments[i] = exportInstrument
		}
	}
	return opts, nil
}
