// Package fonts provides text metrics backed by go-text/typesetting.
// Widths come from HarfBuzz shaping, so ligatures and kerning are
// reflected in the measurements the layout engine works with.
package fonts

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// Metrics is the measurement contract the layout and measurement
// passes depend on.
type Metrics interface {
	// WidthOf measures the advance width of text at the given size,
	// including character spacing between glyph clusters.
	WidthOf(text, fontName string, size, characterSpacing float64) float64

	// LineMetrics returns the line height, ascender and descender for
	// the font at the given size. Descender is negative.
	LineMetrics(fontName string, size float64) (height, ascender, descender float64)
}

// Store registers font binaries by family name and measures text
// against them. Parsed font.Font objects are cached and safe for
// concurrent reads; font.Face instances are created per call since
// they are not safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	fonts map[string]*font.Font

	shaperPool sync.Pool
}

// NewStore returns an empty font store.
func NewStore() *Store {
	return &Store{
		fonts: make(map[string]*font.Font),
		shaperPool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
	}
}

// RegisterTTF parses TrueType/OpenType font data and registers it
// under the given family name.
func (s *Store) RegisterTTF(name string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("fonts: font data for %q is empty", name)
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("fonts: parse %q: %w", name, err)
	}
	s.mu.Lock()
	s.fonts[name] = face.Font
	s.mu.Unlock()
	return nil
}

func (s *Store) lookup(name string) (*font.Font, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.fonts[name]; ok {
		return f, true
	}
	// A store holding a single family serves it for any name.
	if len(s.fonts) == 1 {
		for _, f := range s.fonts {
			return f, true
		}
	}
	return nil, false
}

// WidthOf implements Metrics.
func (s *Store) WidthOf(text, fontName string, size, characterSpacing float64) float64 {
	if text == "" || size <= 0 {
		return 0
	}
	f, ok := s.lookup(fontName)
	if !ok {
		return 0
	}
	out := s.shape(text, f, size)
	width := 0.0
	for _, g := range out.Glyphs {
		width += float64(g.XAdvance) / 64.0
	}
	if n := len([]rune(text)); n > 1 {
		width += characterSpacing * float64(n-1)
	}
	return width
}

// LineMetrics implements Metrics.
func (s *Store) LineMetrics(fontName string, size float64) (height, ascender, descender float64) {
	f, ok := s.lookup(fontName)
	if !ok || size <= 0 {
		return 0, 0, 0
	}
	out := s.shape(" ", f, size)
	ascender = float64(out.LineBounds.Ascent) / 64.0
	descender = float64(out.LineBounds.Descent) / 64.0
	gap := float64(out.LineBounds.Gap) / 64.0
	height = ascender - descender + gap
	return height, ascender, descender
}

func (s *Store) shape(text string, f *font.Font, size float64) shaping.Output {
	runes := []rune(text)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(f),
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(runes),
		Language:  language.DefaultLanguage(),
	}
	shaper := s.shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := shaper.Shape(input)
	s.shaperPool.Put(shaper)
	return out
}

// detectScript picks the script of the first non-space rune. Mixed
// script text should be split into runs upstream.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
