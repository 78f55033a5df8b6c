// Package tiles maps narrator location tokens to coordinates on the small
// fixed map grid. This is static presentation configuration, not game logic:
// the core treats locations as opaque strings.
package tiles

// Grid dimensions of the map panel.
const (
	Cols = 4
	Rows = 4
)

// Coord is a tile position, zero-based, column first.
type Coord struct {
	Col int
	Row int
}

var locationCoords = map[string]Coord{
	"Village":    {1, 1},
	"Market":     {1, 2},
	"Tavern":     {2, 1},
	"Cave":       {2, 2},
	"Blacksmith": {3, 1},
}

// Lookup returns the tile for a location token. Unknown tokens report ok false
// and render as an unplaced default tile.
func Lookup(location string) (Coord, bool) {
	c, ok := locationCoords[location]
	return c, ok
}

// NameAt returns the location name rendered on a tile, or "" for plain ground.
func NameAt(c Coord) string {
	for name, coord := range locationCoords {
		if coord == c {
			return name
		}
	}
	return ""
}
