package model

type SongNum = uint32
type SongNumToPath = map[SongNum]string

// SongMetadata is what the metadata table knows about a midi file.
type SongMetadata struct {
	Year    uint   `json:"year,omitempty"`
	Artist  string `json:"artist"`
	Release string `json:"release,omitempty"`
	Title   string `json:"title"`
}

type Song struct {
	Num      SongNum       `json:"num"`
	Path     string        `json:"path"`
	Title    string        `json:"title"`
	Metadata *SongMetadata `json:"metadata,omitempty"`
}
