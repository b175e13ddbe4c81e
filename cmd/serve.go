package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/unscatty/PianoViaR-sub000/cache"
	"github.com/unscatty/PianoViaR-sub000/constants"
	"github.com/unscatty/PianoViaR-sub000/db"
	"github.com/unscatty/PianoViaR-sub000/file"
	"github.com/unscatty/PianoViaR-sub000/midi"
	"github.com/unscatty/PianoViaR-sub000/model"
	"github.com/unscatty/PianoViaR-sub000/sample"
	"github.com/unscatty/PianoViaR-sub000/util"
)

const maxUploadBytes = 16 << 20

var (
	mediaDir    string
	songNums    model.SongNumToPath
	songs       []model.Song
	sheetCache  *cache.Cache
	useMetadata bool
	maxSongs    int
)

func init() {
	serveCmd.Flags().BoolVar(&useMetadata, "metadata", false, "look up song metadata in DynamoDB")
	serveCmd.Flags().IntVar(&maxSongs, "max", 0, "serve at most this many songs")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves sheet music over http",
	Long:  `Serves the songs of MEDIA_PATH as sheet music, caching layouts in CACHE_PATH`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := LoadServeFiles(constants.GetMediaDir(), constants.GetCacheDir(), maxSongs); err != nil {
			return err
		}
		return serve()
	},
}

// LoadServeFiles numbers the songs of media and opens the sheet cache.
func LoadServeFiles(media, cacheDir string, maxNum int) error {
	paths, err := util.GatherAllMidiPaths(media, maxNum)
	if err != nil {
		return err
	}
	mediaDir = media
	songNums = file.CreateSongNumMap(paths)

	metadatas := map[string]model.SongMetadata{}
	if useMetadata {
		store, err := db.Connect()
		if err != nil {
			return err
		}
		if metadatas, err = store.GetSongMetadatas(paths); err != nil {
			return err
		}
	}
	songs = file.CreateSongs(songNums, metadatas)

	if sheetCache, err = cache.Open(cacheDir); err != nil {
		return err
	}
	log.WithFields(log.Fields{"songs": len(songs), "cached": sheetCache.Len()}).Info("loaded songs")
	return nil
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/sheet", HandleSheet).Methods("POST")
	router.HandleFunc("/songs", HandleSongs).Methods("GET")
	router.HandleFunc("/songs/{num:[0-9]+}/sheet", HandleSongSheet).Methods("GET")
	router.HandleFunc("/songs/{num:[0-9]+}/preview", HandleSongPreview).Methods("GET")
	return cors.Default().Handler(router)
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// HandleSheet lays out the midi file in the request body.
func HandleSheet(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not read body"))
		return
	}
	layout, err := parseLayoutQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.mid"
	}
	f, err := midi.Parse(data, name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	v, err := createSheetView(f, &layout)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, v)
}

func HandleSongs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, model.SongsResponse{Songs: songs})
}

func readSong(r *http.Request) (model.SongNum, *midi.File, int, error) {
	num, err := strconv.ParseUint(mux.Vars(r)["num"], 10, 32)
	if err != nil {
		return 0, nil, http.StatusBadRequest, errors.Wrap(err, "bad song number")
	}
	path, ok := songNums[uint32(num)]
	if !ok {
		return 0, nil, http.StatusNotFound, errors.Errorf("no song %d", num)
	}
	f, err := midi.ReadFile(filepath.Join(mediaDir, path))
	if err != nil {
		return 0, nil, http.StatusUnprocessableEntity, err
	}
	return uint32(num), f, http.StatusOK, nil
}

func HandleSongSheet(w http.ResponseWriter, r *http.Request) {
	num, f, status, err := readSong(r)
	if err != nil {
		writeError(w, status, err)
		return
	}
	layout, err := parseLayoutQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	opts, err := layout.options(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	key := cache.Key(num, opts)
	if layout.large {
		key += ":large"
	}

	v, ok, err := sheetCache.Get(key)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("could not read cached sheet")
	}
	if ok {
		w.Header().Set("X-Cache", "hit")
		writeJSON(w, v)
		return
	}
	v, err = createSheetView(f, &layout)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if err := sheetCache.Put(key, v); err != nil {
		log.WithError(err).WithField("key", key).Warn("could not cache sheet")
	}
	w.Header().Set("X-Cache", "miss")
	writeJSON(w, v)
}

// HandleSongPreview returns a short midi excerpt of a song from the start
// pulse, optionally transposed.
func HandleSongPreview(w http.ResponseWriter, r *http.Request) {
	_, f, status, err := readSong(r)
	if err != nil {
		writeError(w, status, err)
		return
	}
	opts := midi.NewOptions(f)
	start := 0
	q := r.URL.Query()
	if v := q.Get("start"); v != "" {
		if start, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, errors.Wrap(err, "bad start"))
			return
		}
	}
	if v := q.Get("transpose"); v != "" {
		if opts.Transpose, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, errors.Wrap(err, "bad transpose"))
			return
		}
	}
	data, err := sample.Preview(f, opts, start)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	w.Write(data)
}

func serve() error {
	addr := ":" + constants.GetPort()
	log.WithField("addr", addr).Info("serving")
	return http.ListenAndServe(addr, NewRouter())
}
