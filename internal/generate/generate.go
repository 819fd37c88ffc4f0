// Package generate materializes synthetic tables from a schema.
//
// A Generator draws every value from the *rand.Rand it was built with, so a
// fixed seed reproduces a table exactly. Generators are not safe for
// concurrent use; build one per request.
package generate

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/JonMunkholm/synthdata/internal/schema"
)

// Alphabet is the symbol set string columns draw from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generator samples table values from a random source.
type Generator struct {
	rng *rand.Rand
}

// New returns a Generator drawing from rng. A nil rng gets a randomly
// seeded source.
func New(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{rng: rng}
}

// NewSeeded returns a Generator whose output is fully determined by seed.
func NewSeeded(seed uint64) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// RandomSeed returns a fresh seed from the process-wide source.
func RandomSeed() uint64 {
	return rand.Uint64()
}

// Generate builds a table with a randomly seeded Generator.
func Generate(numRows int, s schema.Schema) (*Table, error) {
	return New(nil).Generate(numRows, s)
}

// Generate returns a table of numRows rows with one column per spec, in
// schema order, after the post-processing pass.
//
// The whole request is validated before any value is drawn: numRows < 1 or
// an invalid spec yields a schema.ValidationError, and a spec of unknown type
// a schema.TypeMismatchError.
func (g *Generator) Generate(numRows int, s schema.Schema) (*Table, error) {
	if numRows < 1 {
		return nil, schema.ValidationError{
			Field:   "rows",
			Value:   fmt.Sprint(numRows),
			Message: "number of rows must be at least 1",
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	t := &Table{rows: numRows, columns: make([]Column, len(s))}
	for i, spec := range s {
		col, err := g.column(spec, numRows)
		if err != nil {
			return nil, err
		}
		t.columns[i] = col
	}

	t.normalize()
	return t, nil
}

func (g *Generator) column(spec schema.ColumnSpec, n int) (Column, error) {
	col := Column{Name: spec.ColumnName(), Kind: spec.Kind()}

	switch c := spec.(type) {
	case schema.IntColumn:
		col.ints = make([]int64, n)
		for i := range col.ints {
			col.ints[i] = g.intIn(c.Min, c.Max)
		}

	case schema.FloatColumn:
		lo, hi := c.CentRange()
		col.floats = make([]float64, n)
		for i := range col.floats {
			// Interpolating avoids Max-Min, which overflows for wide ranges.
			r := g.rng.Float64()
			v := math.Max(c.Min, math.Min(c.Max, c.Min*(1-r)+c.Max*r))
			if math.Abs(v) < wholeFloat {
				v = math.Max(lo, math.Min(hi, math.Round(v*100))) / 100
			}
			col.floats[i] = v
		}

	case schema.StringColumn:
		col.texts = make([]string, n)
		buf := make([]byte, c.Length)
		for i := range col.texts {
			for j := range buf {
				buf[j] = Alphabet[g.rng.IntN(len(Alphabet))]
			}
			col.texts[i] = string(buf)
		}

	case schema.DateColumn:
		lo, hi := schema.TruncateDate(c.Min), schema.TruncateDate(c.Max)
		if hi.Before(lo) {
			lo, hi = hi, lo
		}
		span := hi.Unix() - lo.Unix()
		col.texts = make([]string, n)
		for i := range col.texts {
			at := time.Unix(lo.Unix()+g.rng.Int64N(span+1), 0).UTC()
			col.texts[i] = schema.TruncateDate(at).Format(schema.DateLayout)
		}

	case schema.CategoryColumn:
		col.texts = make([]string, n)
		for i := range col.texts {
			col.texts[i] = strings.TrimSpace(c.Categories[g.rng.IntN(len(c.Categories))])
		}

	default:
		return Column{}, schema.TypeMismatchError{Name: spec.ColumnName(), Type: fmt.Sprintf("%T", spec)}
	}

	return col, nil
}

// intIn draws uniformly from [lo, hi). Unsigned arithmetic keeps spans wider
// than math.MaxInt64 exact.
func (g *Generator) intIn(lo, hi int64) int64 {
	span := uint64(hi) - uint64(lo)
	return lo + int64(g.rng.Uint64N(span))
}
