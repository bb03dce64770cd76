package layout

import (
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/topicsheet/pkg/errors"
	"github.com/matzehuels/topicsheet/pkg/fonts"
)

// US Letter in points.
const (
	LetterWidth  = 612.0
	LetterHeight = 792.0
)

// Faces holds the one face each kind of text block is sized and drawn with.
type Faces struct {
	Label        fonts.Face `json:"label" toml:"label" yaml:"label"`
	Value        fonts.Face `json:"value" toml:"value" yaml:"value"`
	TableHeader  fonts.Face `json:"table_header" toml:"table_header" yaml:"table_header"`
	RowLabel     fonts.Face `json:"row_label" toml:"row_label" yaml:"row_label"`
	ActionNumber fonts.Face `json:"action_number" toml:"action_number" yaml:"action_number"`
	BandTitle    fonts.Face `json:"band_title" toml:"band_title" yaml:"band_title"`
	BandSubtitle fonts.Face `json:"band_subtitle" toml:"band_subtitle" yaml:"band_subtitle"`
}

func (f Faces) named() map[string]fonts.Face {
	return map[string]fonts.Face{
		"label":         f.Label,
		"value":         f.Value,
		"table_header":  f.TableHeader,
		"row_label":     f.RowLabel,
		"action_number": f.ActionNumber,
		"band_title":    f.BandTitle,
		"band_subtitle": f.BandSubtitle,
	}
}

// Geometry is the immutable page and spacing configuration of a document.
// All lengths are in points.
type Geometry struct {
	PageWidth  float64 `json:"page_width" toml:"page_width" yaml:"page_width" validate:"gt=0"`
	PageHeight float64 `json:"page_height" toml:"page_height" yaml:"page_height" validate:"gt=0"`

	// Margin is the left and right content margin.
	Margin float64 `json:"margin" toml:"margin" yaml:"margin" validate:"gte=0"`

	// HeaderBand is the height of the filled band at the top of every page.
	// HeaderGap separates the band from the first content line.
	HeaderBand float64 `json:"header_band" toml:"header_band" yaml:"header_band" validate:"gte=0"`
	HeaderGap  float64 `json:"header_gap" toml:"header_gap" yaml:"header_gap" validate:"gte=0"`

	// BottomMargin is the lowest y a reserved block may reach.
	BottomMargin float64 `json:"bottom_margin" toml:"bottom_margin" yaml:"bottom_margin" validate:"gte=0"`

	// Padding is added to the wrapped text height of every box.
	// Inset is the horizontal distance between a box edge and its text.
	Padding float64 `json:"padding" toml:"padding" yaml:"padding" validate:"gte=0"`
	Inset   float64 `json:"inset" toml:"inset" yaml:"inset" validate:"gte=0"`

	LabelGap          float64 `json:"label_gap" toml:"label_gap" yaml:"label_gap" validate:"gte=0"`
	FieldGap          float64 `json:"field_gap" toml:"field_gap" yaml:"field_gap" validate:"gte=0"`
	HeadingGap        float64 `json:"heading_gap" toml:"heading_gap" yaml:"heading_gap" validate:"gte=0"`
	TableHeaderHeight float64 `json:"table_header_height" toml:"table_header_height" yaml:"table_header_height" validate:"gt=0"`
	RowGap            float64 `json:"row_gap" toml:"row_gap" yaml:"row_gap" validate:"gte=0"`
	ActionIndent      float64 `json:"action_indent" toml:"action_indent" yaml:"action_indent" validate:"gte=0"`
	ActionGap         float64 `json:"action_gap" toml:"action_gap" yaml:"action_gap" validate:"gte=0"`

	HeaderLogo Box `json:"header_logo" toml:"header_logo" yaml:"header_logo"`
	FooterLogo Box `json:"footer_logo" toml:"footer_logo" yaml:"footer_logo"`

	Faces Faces `json:"faces" toml:"faces" yaml:"faces"`
}

// DefaultGeometry returns the US Letter summary sheet geometry.
func DefaultGeometry() Geometry {
	const w, h = LetterWidth, LetterHeight
	return Geometry{
		PageWidth:         w,
		PageHeight:        h,
		Margin:            50,
		HeaderBand:        70,
		HeaderGap:         20,
		BottomMargin:      60,
		Padding:           10,
		Inset:             5,
		LabelGap:          5,
		FieldGap:          20,
		HeadingGap:        20,
		TableHeaderHeight: 20,
		RowGap:            10,
		ActionIndent:      25,
		ActionGap:         15,
		HeaderLogo:        BoxAt(w-70, h-20, 40, 40),
		FooterLogo:        BoxAt(50, 50, 80, 30),
		Faces: Faces{
			Label:        fonts.Face{Name: fonts.HelveticaBold, Size: 12, LineHeight: 14},
			Value:        fonts.Face{Name: fonts.Helvetica, Size: 10, LineHeight: 14},
			TableHeader:  fonts.Face{Name: fonts.HelveticaBold, Size: 10, LineHeight: 14},
			RowLabel:     fonts.Face{Name: fonts.HelveticaBold, Size: 10, LineHeight: 14},
			ActionNumber: fonts.Face{Name: fonts.HelveticaBold, Size: 10, LineHeight: 14},
			BandTitle:    fonts.Face{Name: fonts.HelveticaBold, Size: 14, LineHeight: 16},
			BandSubtitle: fonts.Face{Name: fonts.HelveticaBold, Size: 16, LineHeight: 18},
		},
	}
}

// ContentWidth is the horizontal space between the side margins.
func (g Geometry) ContentWidth() float64 { return g.PageWidth - 2*g.Margin }

// ContentTop is the y at which content starts on every page.
func (g Geometry) ContentTop() float64 { return g.PageHeight - g.HeaderBand - g.HeaderGap }

var validate = validator.New()

// Validate checks that the geometry describes a usable page.
func (g Geometry) Validate() error {
	if err := validate.Struct(g); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid geometry")
	}
	if g.ContentWidth() <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margins leave no content width")
	}
	if g.ContentTop() <= g.BottomMargin {
		return errors.New(errors.ErrCodeInvalidConfig, "header band and bottom margin leave no content height")
	}
	if g.ActionIndent >= g.ContentWidth() {
		return errors.New(errors.ErrCodeInvalidConfig, "action indent %v exceeds content width", g.ActionIndent)
	}
	for name, f := range g.Faces.named() {
		if err := f.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "face %s", name)
		}
	}
	return nil
}
