package tiles

import "testing"

func TestLookupKnownLocations(t *testing.T) {
	t.Parallel()

	for _, loc := range []string{"Village", "Market", "Tavern", "Cave", "Blacksmith"} {
		c, ok := Lookup(loc)
		if !ok {
			t.Errorf("Lookup(%q) not placed", loc)
			continue
		}
		if c.Col < 0 || c.Col >= Cols || c.Row < 0 || c.Row >= Rows {
			t.Errorf("Lookup(%q) = %+v is off the grid", loc, c)
		}
		if NameAt(c) != loc {
			t.Errorf("NameAt(%+v) = %q, want %q", c, NameAt(c), loc)
		}
	}
}

func TestLookupUnknownLocation(t *testing.T) {
	t.Parallel()

	if _, ok := Lookup("Mystery Swamp"); ok {
		t.Fatal("unknown location must not be placed")
	}
	if name := NameAt(Coord{Col: 0, Row: 0}); name != "" {
		t.Fatalf("empty tile named %q", name)
	}
}
