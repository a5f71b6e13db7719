package engine

import (
	"os"

	"github.com/dhowden/tag"
)

// readStreamMetadata extracts embedded metadata from the file being
// loaded so listeners that only care about display strings never touch
// the decoder. Unreadable tags yield an empty map, not an error.
func readStreamMetadata(path string) Metadata {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil
	}

	meta := Metadata{}
	if v := m.Title(); v != "" {
		meta["title"] = v
	}
	if v := m.Artist(); v != "" {
		meta["artist"] = v
	}
	if v := m.Album(); v != "" {
		meta["album"] = v
	}
	if v := m.Genre(); v != "" {
		meta["genre"] = v
	}
	return meta
}
