package file

import (
	"path/filepath"
	"strings"

	"github.com/unscatty/PianoViaR-sub000/model"
	"github.com/unscatty/PianoViaR-sub000/util"
)

// CreateSongNumMap numbers paths in order, starting at 1.
func CreateSongNumMap(paths []string) model.SongNumToPath {
	res := make(model.SongNumToPath)
	for i, v := range paths {
		res[uint32(i+1)] = v
	}
	return res
}

// Title is the file name of path without its extension, with underscores as
// spaces.
func Title(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.ReplaceAll(name, "_", " ")
}

// CreateSongs lists the songs of m by number, with metadata keyed by path
// where known.
func CreateSongs(m model.SongNumToPath, metadatas map[string]model.SongMetadata) []model.Song {
	songs := make([]model.Song, 0, len(m))
	for _, num := range util.GetKeys(m) {
		path := m[num]
		song := model.Song{Num: num, Path: path, Title: Title(path)}
		if md, ok := metadatas[path]; ok {
			md := md
			song.Metadata = &md
			if md.Title != "" {
				song.Title = md.Title
			}
		}
		songs = append(songs, song)
	}
	return songs
}
