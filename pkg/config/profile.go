package config

import (
	"github.com/BurntSushi/toml"

	"github.com/matzehuels/topicsheet/pkg/errors"
	"github.com/matzehuels/topicsheet/pkg/pipeline"
	"github.com/matzehuels/topicsheet/pkg/render/compose"
	"github.com/matzehuels/topicsheet/pkg/render/layout"
)

// Profile is a layout profile: page geometry and header band branding.
// Keys left out of the profile file keep their default values.
//
//	[branding]
//	organisation = "Acme Corp"
//	band_color = { r = 10, g = 60, b = 120 }
//
//	[geometry]
//	margin = 36.0
//	[geometry.faces.value]
//	size = 11.0
type Profile struct {
	Geometry layout.Geometry  `toml:"geometry"`
	Branding compose.Branding `toml:"branding"`
}

// DefaultProfile returns the stock US Letter geometry and branding.
func DefaultProfile() Profile {
	return Profile{
		Geometry: layout.DefaultGeometry(),
		Branding: compose.DefaultBranding(),
	}
}

// LoadProfile decodes the TOML profile at path over the defaults. Unknown
// keys and invalid geometry are reported as INVALID_CONFIG.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return Profile{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "profile %s", path)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Profile{}, errors.New(errors.ErrCodeInvalidConfig, "profile %s: unknown key %q", path, undec[0].String())
	}
	if err := p.Geometry.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// RenderOptions returns the per-render defaults derived from the
// configuration: the profile's geometry and branding plus the logos.
func (c *Config) RenderOptions() (pipeline.Options, error) {
	p := DefaultProfile()
	if c.Profile != "" {
		var err error
		if p, err = LoadProfile(c.Profile); err != nil {
			return pipeline.Options{}, err
		}
	}
	return pipeline.Options{
		Geometry:   &p.Geometry,
		Branding:   &p.Branding,
		HeaderLogo: c.HeaderLogo,
		FooterLogo: c.FooterLogo,
	}, nil
}
