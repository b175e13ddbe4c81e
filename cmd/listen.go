package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver

	"github.com/unscatty/PianoViaR-sub000/sheet"
	"github.com/unscatty/PianoViaR-sub000/util"
)

var (
	listenPort   int
	listenSharps int
	listenFlats  int
	listenWait   time.Duration
)

func init() {
	fs := listenCmd.Flags()
	fs.IntVar(&listenPort, "port", 0, "midi in port")
	fs.IntVar(&listenSharps, "sharps", 0, "key signature sharps")
	fs.IntVar(&listenFlats, "flats", 0, "key signature flats")
	fs.DurationVar(&listenWait, "wait", 50*time.Millisecond, "how long the keys must rest before the chord is spelled")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Spells the chords played on a midi keyboard",
	Long:  `Listens to a midi in port and prints each chord held down, spelled in a key`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := sheet.NewKeySignature(listenSharps, listenFlats)
		if err != nil {
			return err
		}
		return listen(cmd.OutOrStdout(), key)
	},
}

// heldNotes tracks the keys held down and prints the chord they form once
// they settle.
type heldNotes struct {
	mu       sync.Mutex
	on       map[uint8]bool
	key      *sheet.KeySignature
	out      io.Writer
	debounce func(func())
}

func newHeldNotes(out io.Writer, key *sheet.KeySignature, wait time.Duration) *heldNotes {
	return &heldNotes{
		on:       make(map[uint8]bool),
		key:      key,
		out:      out,
		debounce: debounce.New(wait),
	}
}

func (h *heldNotes) press(key uint8) {
	h.mu.Lock()
	h.on[key] = true
	h.mu.Unlock()
	h.debounce(h.print)
}

func (h *heldNotes) release(key uint8) {
	h.mu.Lock()
	delete(h.on, key)
	h.mu.Unlock()
	h.debounce(h.print)
}

func (h *heldNotes) chord() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var numbers []int
	for _, k := range util.GetKeys(h.on) {
		numbers = append(numbers, int(k))
	}
	return h.key.SpellChord(numbers)
}

func (h *heldNotes) print() {
	if names := h.chord(); len(names) > 0 {
		fmt.Fprintln(h.out, names)
	}
}

func listen(out io.Writer, key *sheet.KeySignature) error {
	defer gomidi.CloseDriver()
	in, err := gomidi.InPort(listenPort)
	if err != nil {
		return errors.Wrapf(err, "can't find midi in port %d", listenPort)
	}

	held := newHeldNotes(out, key, listenWait)
	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		var ch, note, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &note, &vel):
			held.press(note)
		case msg.GetNoteEnd(&ch, &note):
			held.release(note)
		default:
			// ignore
		}
	})
	if err != nil {
		return errors.Wrap(err, "could not listen")
	}
	defer stop()

	log.WithFields(log.Fields{"port": in.String(), "key": key.String()}).Info("listening")
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
	return nil
}
