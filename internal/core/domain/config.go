package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Config is the per-kind configuration of a component.
//
// The set of implementations is closed: one struct per Kind. Code that
// needs per-kind behaviour switches over the concrete types.
type Config interface {
	// Kind returns the component kind this config belongs to.
	Kind() Kind

	// Validate checks the config's own invariants.
	Validate() error

	// Clone returns a deep copy sharing no slices or pointers.
	Clone() Config

	sealed()
}

// NewConfig returns the zero config for a kind.
func NewConfig(kind Kind) (Config, error) {
	switch kind {
	case KindHero:
		return &HeroConfig{}, nil
	case KindEnhancedHero:
		return &EnhancedHeroConfig{}, nil
	case KindUltraHero:
		return &UltraHeroConfig{}, nil
	case KindSectionHeader:
		return &SectionHeaderConfig{}, nil
	case KindMenuSection:
		return &MenuSectionConfig{}, nil
	case KindTeamSection:
		return &TeamSectionConfig{}, nil
	case KindTestimonials:
		return &TestimonialsConfig{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
}

// DecodeConfig decodes raw JSON into the config struct for kind.
// Unknown fields are ignored so layouts written by older editors still load.
func DecodeConfig(kind Kind, raw []byte) (Config, error) {
	return decodeConfig(kind, raw, false)
}

func decodeConfig(kind Kind, raw []byte, strict bool) (Config, error) {
	cfg, err := NewConfig(kind)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return cfg, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decoding %s config: %w", kind, err)
	}
	return cfg, nil
}

// configToMap converts a config into its generic JSON object form.
func configToMap(cfg Config) (map[string]any, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	m := make(map[string]any)
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ButtonStyle is the visual variant of a styled button.
type ButtonStyle string

// Available button styles.
const (
	ButtonPrimary   ButtonStyle = "primary"
	ButtonSecondary ButtonStyle = "secondary"
	ButtonOutline   ButtonStyle = "outline"
	ButtonGhost     ButtonStyle = "ghost"
	ButtonLink      ButtonStyle = "link"
)

// IsValid returns true if the style is recognised. Empty means default.
func (s ButtonStyle) IsValid() bool {
	switch s {
	case "", ButtonPrimary, ButtonSecondary, ButtonOutline, ButtonGhost, ButtonLink:
		return true
	default:
		return false
	}
}

// ButtonSize is the size of a styled button.
type ButtonSize string

// Available button sizes.
const (
	ButtonSmall  ButtonSize = "small"
	ButtonMedium ButtonSize = "medium"
	ButtonLarge  ButtonSize = "large"
)

// IsValid returns true if the size is recognised. Empty means default.
func (s ButtonSize) IsValid() bool {
	switch s {
	case "", ButtonSmall, ButtonMedium, ButtonLarge:
		return true
	default:
		return false
	}
}

// ButtonRounding is the corner rounding of a styled button.
type ButtonRounding string

// Available roundings.
const (
	RoundedNone   ButtonRounding = "none"
	RoundedNormal ButtonRounding = "normal"
	RoundedFull   ButtonRounding = "full"
)

// IsValid returns true if the rounding is recognised. Empty means default.
func (r ButtonRounding) IsValid() bool {
	switch r {
	case "", RoundedNone, RoundedNormal, RoundedFull:
		return true
	default:
		return false
	}
}

// LinkButton is a call-to-action on hero banners.
type LinkButton struct {
	Text string `json:"text"`
	Link string `json:"link"`

	// Enabled is only used by the enhanced hero. Nil means enabled.
	Enabled *bool `json:"enabled,omitempty"`
}

// IsEnabled reports whether the button should be shown.
func (b LinkButton) IsEnabled() bool {
	return b.Enabled == nil || *b.Enabled
}

func (b LinkButton) clone() LinkButton {
	if b.Enabled != nil {
		v := *b.Enabled
		b.Enabled = &v
	}
	return b
}

// StyledButton is one of the reorderable buttons on an ultra hero.
type StyledButton struct {
	ID           string         `json:"id"`
	Text         string         `json:"text"`
	Link         string         `json:"link"`
	Style        ButtonStyle    `json:"style,omitempty"`
	Size         ButtonSize     `json:"size,omitempty"`
	Rounded      ButtonRounding `json:"rounded,omitempty"`
	CustomBg     string         `json:"customBg,omitempty"`
	CustomText   string         `json:"customText,omitempty"`
	CustomBorder string         `json:"customBorder,omitempty"`
}

// TeamMember is a person shown in a team section.
type TeamMember struct {
	ID    string `json:"id"`
	Image string `json:"image"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Testimonial is a guest review.
type Testimonial struct {
	ID     string `json:"id"`
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Rating int    `json:"rating"`
}

// MaxRating is the highest star rating. Zero means unrated.
const MaxRating = 5

// uniqueIDs checks that no non-empty id appears twice.
func uniqueIDs(what string, ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s id %q repeated", ErrInvalidInput, what, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
