package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/unscatty/PianoViaR-sub000/constants"
	"github.com/unscatty/PianoViaR-sub000/model"
	"github.com/unscatty/PianoViaR-sub000/sheet"
	"github.com/unscatty/PianoViaR-sub000/util"
)

// Index maps a cache key to the file holding its sheet.
type Index = map[string]string

/*
Cache keeps rendered sheets on disk as gob files with random names, plus an
index file mapping keys to file names. It is safe for concurrent use.
*/
type Cache struct {
	dir   string
	mu    sync.Mutex
	index Index
}

// Open loads the cache in dir, creating dir if needed.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, errors.Wrap(err, "could not create cache dir")
	}
	c := &Cache{dir: dir, index: make(Index)}
	path := c.indexPath()
	if _, err := os.Stat(path); err == nil {
		index, err := util.ReadBinary[Index](path)
		if err != nil {
			return nil, err
		}
		c.index = index
	}
	return c, nil
}

func (c *Cache) indexPath() string {
	return filepath.Join(c.dir, constants.CacheIndexFile)
}

// Key identifies the sheet of a song under the options that change its
// layout.
func Key(song model.SongNum, opts sheet.Options) string {
	key := fmt.Sprintf("%d:two=%t:shift=%d:tr=%d:letters=%d:lyrics=%t:measures=%t:vert=%t:combine=%d",
		song, opts.TwoStaffs, opts.ShiftTime, opts.Transpose, opts.ShowNoteLetters,
		opts.ShowLyrics, opts.ShowMeasures, opts.ScrollVert, opts.CombineInterval)
	for i, show := range opts.Tracks {
		if !show {
			key += fmt.Sprintf(":hide%d", i)
		}
	}
	if opts.Key != nil {
		key += fmt.Sprintf(":key=%d/%d", opts.Key.NumSharps, opts.Key.NumFlats)
	}
	if opts.Time != nil {
		key += fmt.Sprintf(":time=%d/%d", opts.Time.Numerator, opts.Time.Denominator)
	}
	return key
}

func (c *Cache) Get(key string) (*model.SheetView, bool, error) {
	c.mu.Lock()
	filename, ok := c.index[key]
	c.mu.Unlock()
	if !ok {
		return nil, false, nil
	}
	v, err := util.ReadBinary[model.SheetView](filepath.Join(c.dir, filename))
	if err != nil {
		return nil, false, err
	}
	return &v, true, nil
}

// Put stores v under key, replacing any earlier sheet.
func (c *Cache) Put(key string, v *model.SheetView) error {
	filename := uuid.New().String() + ".dat"
	if err := util.CreateBinary(filepath.Join(c.dir, filename), v); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.index[key]; ok {
		if err := os.Remove(filepath.Join(c.dir, old)); err != nil {
			log.WithError(err).WithField("file", old).Warn("could not remove old cache file")
		}
	}
	c.index[key] = filename
	return util.CreateBinary(c.indexPath(), c.index)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// Clear removes every cached sheet.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := util.RecreateDir(c.dir); err != nil {
		return err
	}
	c.index = make(Index)
	return nil
}
