package sprite

import (
	"math"
	"strings"
)

// Atlas describes a sprite sheet made of equally sized cells.
type Atlas struct {
	Name       string
	CellWidth  int
	CellHeight int
	Columns    int
	Rows       int
}

// Width returns the unscaled width of the sheet in pixels.
func (a Atlas) Width() int { return a.CellWidth * a.Columns }

// Height returns the unscaled height of the sheet in pixels.
func (a Atlas) Height() int { return a.CellHeight * a.Rows }

var (
	// DeckAtlas holds the deck card backs.
	DeckAtlas = Atlas{Name: "Enhancers", CellWidth: 71, CellHeight: 95, Columns: 7, Rows: 5}
	// StakeAtlas holds the stake chips.
	StakeAtlas = Atlas{Name: "stake_chips", CellWidth: 29, CellHeight: 29, Columns: 5, Rows: 2}
)

const (
	// DefaultCardBack is used for unknown deck names.
	DefaultCardBack = "Red Deck"
	// DefaultStake is used for unknown stake names.
	DefaultStake = "White Stake"
)

// Rect is a scaled region of an atlas. X and Y are the offset of the region
// inside the scaled sheet; SheetWidth and SheetHeight are the scaled sheet size.
type Rect struct {
	Name        string
	X, Y        float64
	Width       float64
	Height      float64
	SheetWidth  float64
	SheetHeight float64
}

type cell struct {
	name     string
	col, row int
}

var cardBacks = []cell{
	{"Red Deck", 0, 0},
	{"Blue Deck", 0, 2},
	{"Yellow Deck", 1, 2},
	{"Green Deck", 2, 2},
	{"Black Deck", 3, 2},
	{"Magic Deck", 0, 3},
	{"Nebula Deck", 3, 0},
	{"Ghost Deck", 6, 2},
	{"Abandoned Deck", 3, 3},
	{"Checkered Deck", 1, 3},
	{"Zodiac Deck", 3, 4},
	{"Painted Deck", 4, 3},
	{"Anaglyph Deck", 2, 4},
	{"Plasma Deck", 4, 2},
	{"Erratic Deck", 2, 3},
	{"Challenge Deck", 0, 4},
}

var stakes = []cell{
	{"White Stake", 0, 0},
	{"Red Stake", 1, 0},
	{"Green Stake", 2, 0},
	{"Black Stake", 4, 0},
	{"Blue Stake", 3, 0},
	{"Purple Stake", 0, 1},
	{"Orange Stake", 1, 1},
	{"Gold Stake", 2, 1},
}

// CardBack returns the rectangle of the named deck's card back.
// Names match case-insensitively with or without the " Deck" suffix.
// A scale that is not a positive finite number means 1.
func CardBack(name string, scale float64) Rect {
	return lookup(DeckAtlas, cardBacks, name, "deck", DefaultCardBack, scale)
}

// Stake returns the rectangle of the named stake chip.
// Names match case-insensitively with or without the " Stake" suffix.
// A scale that is not a positive finite number means 1.
func Stake(name string, scale float64) Rect {
	return lookup(StakeAtlas, stakes, name, "stake", DefaultStake, scale)
}

// CardBacks lists the known deck names in display order.
func CardBacks() []string { return names(cardBacks) }

// Stakes lists the known stake names in display order.
func Stakes() []string { return names(stakes) }

func lookup(atlas Atlas, cells []cell, name, suffix, fallback string, scale float64) Rect {
	c, ok := find(cells, name, suffix)
	if !ok {
		c, _ = find(cells, fallback, suffix)
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = 1
	}
	return Rect{
		Name:        c.name,
		X:           float64(c.col*atlas.CellWidth) * scale,
		Y:           float64(c.row*atlas.CellHeight) * scale,
		Width:       float64(atlas.CellWidth) * scale,
		Height:      float64(atlas.CellHeight) * scale,
		SheetWidth:  float64(atlas.Width()) * scale,
		SheetHeight: float64(atlas.Height()) * scale,
	}
}

func find(cells []cell, name, suffix string) (cell, bool) {
	key := normalize(name, suffix)
	for _, c := range cells {
		if normalize(c.name, suffix) == key {
			return c, true
		}
	}
	return cell{}, false
}

func normalize(name, suffix string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSpace(strings.TrimSuffix(name, suffix))
	return name
}

func names(cells []cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.name
	}
	return out
}
