package domain

import (
	"fmt"
	"strings"
)

// Kind is the closed type tag selecting which configuration schema
// and rendering routine apply to a component.
type Kind string

// Available component kinds. The values are the wire names used in
// persisted layouts.
const (
	// KindHero is a full-width banner with a background image and two buttons.
	KindHero Kind = "hero"

	// KindEnhancedHero is a hero whose buttons can be individually disabled.
	KindEnhancedHero Kind = "enhanced_hero"

	// KindUltraHero is a hero with a reorderable list of styled buttons.
	KindUltraHero Kind = "ultra_hero"

	// KindSectionHeader is a kicker, title and subtitle block.
	KindSectionHeader Kind = "section_header"

	// KindMenuSection shows items from the restaurant's menu.
	KindMenuSection Kind = "menu_section"

	// KindTeamSection introduces the kitchen team.
	KindTeamSection Kind = "team_section"

	// KindTestimonials lists guest reviews.
	KindTestimonials Kind = "testimonials"
)

// AllKinds returns every kind in palette order.
func AllKinds() []Kind {
	return []Kind{
		KindHero,
		KindEnhancedHero,
		KindUltraHero,
		KindSectionHeader,
		KindMenuSection,
		KindTeamSection,
		KindTestimonials,
	}
}

// IsValid returns true if the kind is recognised.
func (k Kind) IsValid() bool {
	switch k {
	case KindHero, KindEnhancedHero, KindUltraHero, KindSectionHeader,
		KindMenuSection, KindTeamSection, KindTestimonials:
		return true
	default:
		return false
	}
}

// String returns the wire name.
func (k Kind) String() string {
	return string(k)
}

// Label returns the palette label shown to the page owner.
func (k Kind) Label() string {
	switch k {
	case KindHero:
		return "Hero Section"
	case KindEnhancedHero:
		return "Enhanced Hero"
	case KindUltraHero:
		return "Ultra Hero"
	case KindSectionHeader:
		return "Section Header"
	case KindMenuSection:
		return "Menu Section"
	case KindTeamSection:
		return "Team Section"
	case KindTestimonials:
		return "Testimonials"
	default:
		return "Unknown"
	}
}

// ParseKind converts a wire name into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(s))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
	return k, nil
}

// KindInfo describes a kind for palettes and listings.
type KindInfo struct {
	Kind        Kind
	Label       string
	Description string
}
