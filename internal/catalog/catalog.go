// internal/catalog/catalog.go
//
// Piece catalog for the puzzle engine.
//
// Responsibilities:
//   - Load the fixed set of pieces (id + four edge values) from YAML.
//   - Validate it (non-empty, unique ids, edge values >= 1).
//   - Provide lookups by id and the grid edge length of a square catalog.
//
// Initialization behavior (Init):
//   1. If PUZZLE_CATALOG_FILE is set, load the catalog from that file.
//   2. Otherwise fall back to the embedded reference 3x3 catalog.
//
// The catalog is configuration: loaded once per process, never mutated.

package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/edgepuzzle/assets"
)

// Side names one of the four edges of a square piece.
type Side string

const (
	Top    Side = "top"
	Left   Side = "left"
	Right  Side = "right"
	Bottom Side = "bottom"
)

var (
	ErrUnknownPiece = errors.New("unknown piece")
	ErrEmpty        = errors.New("catalog has no pieces")
	ErrDuplicateID  = errors.New("duplicate piece id")
	ErrInvalidPiece = errors.New("invalid piece")
)

// Piece is an immutable catalog entry.
type Piece struct {
	ID     string `yaml:"id" json:"id"`
	Top    int    `yaml:"top" json:"top"`
	Left   int    `yaml:"left" json:"left"`
	Right  int    `yaml:"right" json:"right"`
	Bottom int    `yaml:"bottom" json:"bottom"`
}

// Value returns the edge value printed on side s.
func (p Piece) Value(s Side) int {
	switch s {
	case Top:
		return p.Top
	case Left:
		return p.Left
	case Right:
		return p.Right
	case Bottom:
		return p.Bottom
	}
	return 0
}

// Catalog is the validated, read-only set of pieces for a puzzle.
type Catalog struct {
	Name   string
	pieces map[string]Piece
	ids    []string
}

type catalogFile struct {
	Name   string  `yaml:"name"`
	Pieces []Piece `yaml:"pieces"`
}

// New validates pieces and builds a Catalog.
func New(name string, pieces []Piece) (*Catalog, error) {
	if len(pieces) == 0 {
		return nil, ErrEmpty
	}
	c := &Catalog{Name: name, pieces: make(map[string]Piece, len(pieces))}
	for _, p := range pieces {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: empty id", ErrInvalidPiece)
		}
		if p.Top < 1 || p.Left < 1 || p.Right < 1 || p.Bottom < 1 {
			return nil, fmt.Errorf("%w: %s has an edge value below 1", ErrInvalidPiece, p.ID)
		}
		if _, dup := c.pieces[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		c.pieces[p.ID] = p
		c.ids = append(c.ids, p.ID)
	}
	sort.Strings(c.ids)
	return c, nil
}

// Load decodes a YAML catalog document.
func Load(r io.Reader) (*Catalog, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(f.Name, f.Pieces)
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Default returns the embedded reference 3x3 catalog.
func Default() (*Catalog, error) {
	b, err := assets.DefaultCatalog()
	if err != nil {
		return nil, err
	}
	return Load(bytes.NewReader(b))
}

var (
	initOnce   sync.Once
	active     *Catalog
	initialErr error
)

// Init loads the process-wide catalog exactly once.
func Init() (*Catalog, error) {
	initOnce.Do(func() {
		if path := os.Getenv("PUZZLE_CATALOG_FILE"); path != "" {
			active, initialErr = LoadFile(path)
			return
		}
		active, initialErr = Default()
	})
	return active, initialErr
}

// Get looks up a piece by id.
func (c *Catalog) Get(id string) (Piece, error) {
	p, ok := c.pieces[id]
	if !ok {
		return Piece{}, fmt.Errorf("%w: %q", ErrUnknownPiece, id)
	}
	return p, nil
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.pieces[id]
	return ok
}

// IDs returns all piece ids, sorted.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.ids...)
}

// Pieces returns all pieces ordered by id.
func (c *Catalog) Pieces() []Piece {
	out := make([]Piece, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.pieces[id])
	}
	return out
}

// Len is the number of pieces.
func (c *Catalog) Len() int { return len(c.ids) }

// GridSide returns n for an n×n catalog; ok is false when the piece count
// is not a perfect square.
func (c *Catalog) GridSide() (n int, ok bool) {
	return PerfectSquareRoot(c.Len())
}

// PerfectSquareRoot returns the integer root of count when it is a perfect square.
func PerfectSquareRoot(count int) (int, bool) {
	if count <= 0 {
		return 0, false
	}
	n := int(math.Round(math.Sqrt(float64(count))))
	if n*n != count {
		return 0, false
	}
	return n, true
}
