package auth

import (
	"encoding/json"
	"errors"
	"strings"
)

// MaxTileLength matches the dash.value column width.
const MaxTileLength = 1024

// Tile describes one dashboard link. Tiles are stored and served as JSON strings.
type Tile struct {
	DisplayText string `json:"displayText"`
	Link        string `json:"link"`
	CSSClasses  string `json:"cssClasses"`
}

// Validate checks the fields a tile needs to be rendered.
func (t Tile) Validate() error {
	if strings.TrimSpace(t.DisplayText) == "" {
		return errors.New("tile display text is required")
	}
	if strings.TrimSpace(t.Link) == "" {
		return errors.New("tile link is required")
	}
	return nil
}

// Encode returns the stored JSON form of the tile.
func (t Tile) Encode() (string, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	if len(b) > MaxTileLength {
		return "", errors.New("encoded tile exceeds 1024 bytes")
	}
	return string(b), nil
}

// ParseTile decodes a stored tile descriptor.
func ParseTile(raw string) (Tile, error) {
	var t Tile
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return Tile{}, err
	}
	return t, nil
}
