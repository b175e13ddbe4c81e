//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/unscatty/PianoViaR-sub000/cmd"
	"github.com/unscatty/PianoViaR-sub000/model"
)

var router http.Handler

func writeSong(path string, keys []uint8) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	var tr smf.Track
	tr.Add(0, smf.MetaMeter(4, 4))
	tr.Add(0, smf.MetaTempo(120))
	for _, key := range keys {
		tr.Add(0, gomidi.NoteOn(0, key, 100))
		tr.Add(480, gomidi.NoteOff(0, key))
	}
	tr.Close(0)
	if err := s.Add(tr); err != nil {
		panic(err.Error())
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		panic(err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		panic(err.Error())
	}
	if err := os.WriteFile(path, buf.Bytes(), 0666); err != nil {
		panic(err.Error())
	}
}

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "pianoviar-e2e")
	if err != nil {
		panic(err.Error())
	}
	media := filepath.Join(dir, "media")
	writeSong(filepath.Join(media, "c_scale.mid"), []uint8{60, 62, 64, 65, 67, 69, 71, 72})
	writeSong(filepath.Join(media, "d", "d_scale.mid"), []uint8{62, 64, 66, 67, 69, 71, 73, 74})

	if err := cmd.LoadServeFiles(media, filepath.Join(dir, "cache"), 0); err != nil {
		panic(err.Error())
	}
	router = cmd.NewRouter()

	exitVal := m.Run()
	os.RemoveAll(dir)
	os.Exit(exitVal)
}

func get(t *testing.T, target string) *http.Response {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Result()
}

func TestListSongsE2E(t *testing.T) {
	resp := get(t, "/songs")
	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)

	var songs model.SongsResponse
	if err := json.NewDecoder(resp.Body).Decode(&songs); err != nil {
		panic(err.Error())
	}
	assert.Equal([]model.Song{
		{Num: 1, Path: "c_scale.mid", Title: "c scale"},
		{Num: 2, Path: filepath.Join("d", "d_scale.mid"), Title: "d scale"},
	}, songs.Songs)
}

func TestSongSheetIsCachedE2E(t *testing.T) {
	assert := assert.New(t)

	first := get(t, "/songs/2/sheet?letters=letter")
	assert.Equal(200, first.StatusCode)
	assert.Equal("miss", first.Header.Get("X-Cache"))
	firstBody, _ := io.ReadAll(first.Body)

	second := get(t, "/songs/2/sheet?letters=letter")
	assert.Equal("hit", second.Header.Get("X-Cache"))
	secondBody, _ := io.ReadAll(second.Body)
	assert.JSONEq(string(firstBody), string(secondBody))

	var v model.SheetView
	if err := json.Unmarshal(firstBody, &v); err != nil {
		panic(err.Error())
	}
	assert.Equal("D major", v.Key)
	var names []string
	for _, page := range v.Pages {
		for _, staff := range page {
			if staff.Track != 0 {
				continue
			}
			for _, s := range staff.Symbols {
				for _, n := range s.Notes {
					names = append(names, n.Name)
				}
			}
		}
	}
	assert.Equal([]string{"D", "E", "F#", "G", "A", "B", "C#", "D"}, names)
}

func TestSongPreviewE2E(t *testing.T) {
	resp := get(t, "/songs/1/preview?start=1920&transpose=1")
	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)
	assert.Equal("audio/midi", resp.Header.Get("Content-Type"))

	s, err := smf.ReadFrom(resp.Body)
	if err != nil {
		panic(err.Error())
	}
	var keys []uint8
	for _, tr := range s.Tracks {
		for _, evt := range tr {
			var ch, key, vel uint8
			if gomidi.Message(evt.Message).GetNoteStart(&ch, &key, &vel) {
				keys = append(keys, key)
			}
		}
	}
	assert.Equal([]uint8{68, 70, 72, 73}, keys)
}

func TestMissingSongE2E(t *testing.T) {
	assert.Equal(t, 404, get(t, "/songs/9/sheet").StatusCode)
	assert.Equal(t, 404, get(t, "/songs/9/preview").StatusCode)
}
