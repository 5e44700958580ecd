package doccanvas

import (
	"os"

	"github.com/goliatone/go-docgen/docgen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Face sizes in points at 72 DPI, so one point is one pixel.
const (
	TitleSize  = 36
	HeaderSize = 24
	LargeSize  = 20
	NormalSize = 16
	SmallSize  = 13
)

// FontConfig points at optional TrueType files. Empty paths use the
// embedded Go fonts.
type FontConfig struct {
	Regular string
	Bold    string
}

// FontSet holds the faces used by one drawing. Faces are not safe for
// concurrent use, so every drawing builds its own set.
type FontSet struct {
	Title  font.Face
	Header font.Face
	Large  font.Face
	Normal font.Face
	Bold   font.Face
	Small  font.Face
}

type fontSource struct {
	regular *opentype.Font
	bold    *opentype.Font
}

func loadFontSource(cfg FontConfig, logger docgen.Logger) fontSource {
	return fontSource{
		regular: parseFont(cfg.Regular, goregular.TTF, logger),
		bold:    parseFont(cfg.Bold, gobold.TTF, logger),
	}
}

func parseFont(path string, fallback []byte, logger docgen.Logger) *opentype.Font {
	data := fallback
	if path != "" {
		custom, err := os.ReadFile(path)
		if err != nil {
			logger.Debugf("canvas font %q unavailable, using Go font: %v", path, err)
		} else {
			data = custom
		}
	}
	parsed, err := opentype.Parse(data)
	if err != nil && path != "" {
		logger.Debugf("canvas font %q invalid, using Go font: %v", path, err)
		parsed, err = opentype.Parse(fallback)
	}
	if err != nil {
		logger.Debugf("canvas font parse failed, using basic font: %v", err)
		return nil
	}
	return parsed
}

// faces builds a fresh FontSet. Any face that cannot be built silently
// becomes basicfont.Face7x13.
func (s fontSource) faces() FontSet {
	if s.regular == nil && s.bold == nil {
		return basicFonts()
	}
	return FontSet{
		Title:  newFace(s.bold, TitleSize),
		Header: newFace(s.bold, HeaderSize),
		Large:  newFace(s.regular, LargeSize),
		Normal: newFace(s.regular, NormalSize),
		Bold:   newFace(s.bold, NormalSize),
		Small:  newFace(s.regular, SmallSize),
	}
}

func newFace(f *opentype.Font, size float64) font.Face {
	if f == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// basicFonts is the set used when no TrueType font parses.
func basicFonts() FontSet {
	return FontSet{
		Title:  basicfont.Face7x13,
		Header: basicfont.Face7x13,
		Large:  basicfont.Face7x13,
		Normal: basicfont.Face7x13,
		Bold:   basicfont.Face7x13,
		Small:  basicfont.Face7x13,
	}
}

func (f FontSet) close() {
	for _, face := range []font.Face{f.Title, f.Header, f.Large, f.Normal, f.Bold, f.Small} {
		if face != nil {
			_ = face.Close()
		}
	}
}
