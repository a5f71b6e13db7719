package metadata

import (
	"os"
	"path/filepath"
)

// Cover files are probed base-first so cover.png outranks folder.jpg.
var (
	coverBases = []string{"cover", "folder", "album", "front"}
	coverExts  = []string{".jpg", ".png", ".jpeg"}
)

// FindAlbumArt looks for a conventional cover file in the track's
// directory. Returns the path to the first match, or empty string.
func FindAlbumArt(trackPath string) string {
	dir := filepath.Dir(trackPath)
	for _, base := range coverBases {
		for _, ext := range coverExts {
			path := filepath.Join(dir, base+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// mimeForExt maps a cover file extension to its MIME type. Everything
// that is not PNG is served as JPEG since coverExts only admits the two.
func mimeForExt(ext string) string {
	if ext == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}
