package metadata

import (
	"fmt"
	"math/big"
	"path/filepath"
	"strings"

	id3v2 "github.com/bogem/id3v2/v2"
)

// popmEmail identifies our POPM frame among those other players may
// have written.
const popmEmail = "cadence"

// ReadRating reads the user rating stored in the file's POPM frame,
// scaled to 0.0..1.0. The second return is false when the file carries
// no rating or the format does not support one.
func ReadRating(path string) (float64, bool) {
	if strings.ToLower(filepath.Ext(path)) != ".mp3" {
		return 0, false
	}
	t, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"POPM"}})
	if err != nil {
		return 0, false
	}
	defer t.Close()

	// Prefer our own frame but accept any other player's as fallback.
	var fallback *id3v2.PopularimeterFrame
	for _, f := range t.GetFrames(t.CommonID("Popularimeter")) {
		popm, ok := f.(id3v2.PopularimeterFrame)
		if !ok {
			continue
		}
		if popm.Email == popmEmail {
			return float64(popm.Rating) / 255.0, true
		}
		if fallback == nil {
			p := popm
			fallback = &p
		}
	}
	if fallback != nil {
		return float64(fallback.Rating) / 255.0, true
	}
	return 0, false
}

// WriteRating persists a 0.0..1.0 user rating to the file's POPM
// frame. Only MP3 is supported; other formats return an error.
func WriteRating(path string, value float64) error {
	if strings.ToLower(filepath.Ext(path)) != ".mp3" {
		return fmt.Errorf("rating not supported for %s", filepath.Ext(path))
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tag: %w", err)
	}
	defer t.Close()

	t.AddFrame(t.CommonID("Popularimeter"), id3v2.PopularimeterFrame{
		Email:   popmEmail,
		Rating:  uint8(value * 255),
		Counter: big.NewInt(0),
	})
	if err := t.Save(); err != nil {
		return fmt.Errorf("save tag: %w", err)
	}
	return nil
}
