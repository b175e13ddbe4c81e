package constants

import "os"

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// GetCacheDir is where rendered sheet music is cached.
func GetCacheDir() string {
	return getenv("CACHE_PATH", "./out")
}

func GetMediaDir() string {
	path := os.Getenv("MEDIA_PATH")
	if path != "" {
		return path
	}

	panic("MEDIA_PATH environment variable is not set!")
}

func GetMetadataEndpoint() string {
	return getenv("METADATA_ENDPOINT", "http://localhost:8000")
}

func GetMetadataTable() string {
	return getenv("METADATA_TABLE", "pianoviar-metadata")
}

func GetPort() string {
	return getenv("PORT", "8080")
}

// DynamoDB caps BatchGetItem at 100 keys, we ask for fewer to keep
// responses small.
const MetadataBatchSize = 10

// Number of note events kept in a song preview, per track.
const PreviewNoteEvents = 10

const CacheIndexFile = "index.dat"
