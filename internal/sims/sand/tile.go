package sand

import "fmt"

// Tile enumerates the values a grid cell can hold.
type Tile uint8

const (
	Air Tile = iota
	Land
	Water
	Static
	Color0
	Color1
	Color2
	Color3
	Color4
	Color5
	Color6
	Color7
	Color8
	Color9
	Color10
	Color11

	// NumTiles is the size of the closed tile set.
	NumTiles = int(Color11) + 1
)

// Tags are the single-character selection keys, indexed by Tile.
var tags = [NumTiles]string{
	"a", "l", "w", "s",
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "-", "=",
}

var names = [NumTiles]string{
	"air", "land", "water", "static",
	"color0", "color1", "color2", "color3", "color4", "color5",
	"color6", "color7", "color8", "color9", "color10", "color11",
}

// Valid reports whether t belongs to the closed tile set.
func (t Tile) Valid() bool { return int(t) < NumTiles }

// Inert reports whether t is one of the physics-inert static variants.
func (t Tile) Inert() bool { return t >= Static && t.Valid() }

// Tag returns the selection key for t, or "" for values outside the set.
func (t Tile) Tag() string {
	if !t.Valid() {
		return ""
	}
	return tags[t]
}

// String returns the tile name, or tile(N) outside the set.
func (t Tile) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tile(%d)", uint8(t))
	}
	return names[t]
}

// TileForTag maps a selection key to its tile. Unknown tags report false.
func TileForTag(tag string) (Tile, bool) {
	for i, s := range tags {
		if s == tag {
			return Tile(i), true
		}
	}
	return Air, false
}

// ParseTile accepts either a tile name ("water") or a selection tag ("w").
func ParseTile(s string) (Tile, bool) {
	for i, n := range names {
		if n == s {
			return Tile(i), true
		}
	}
	return TileForTag(s)
}

// Tags lists every recognized selection key in tile order.
func Tags() []string {
	out := make([]string, NumTiles)
	copy(out, tags[:])
	return out
}
