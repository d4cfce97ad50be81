package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
)

// Ensure ComponentRegistry implements the interface.
var _ driving.ComponentRegistry = (*ComponentRegistry)(nil)

// ConfigFactory builds a fresh default config. Nested items get ids from ids.
type ConfigFactory func(ids driven.IDGenerator) domain.Config

// Item id prefixes for nested records.
const (
	prefixButton      = "btn"
	prefixMember      = "member"
	prefixTestimonial = "test"
)

const defaultHeroImage = "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?auto=format&fit=crop&w=1600&q=80"

// ComponentRegistry provides default configs and palette metadata for
// every component kind.
type ComponentRegistry struct {
	mu        sync.RWMutex
	ids       driven.IDGenerator
	factories map[domain.Kind]ConfigFactory
	infos     map[domain.Kind]domain.KindInfo
}

// NewComponentRegistry creates a registry with the built-in kinds.
func NewComponentRegistry(ids driven.IDGenerator) *ComponentRegistry {
	r := &ComponentRegistry{
		ids:       ids,
		factories: make(map[domain.Kind]ConfigFactory),
		infos:     make(map[domain.Kind]domain.KindInfo),
	}
	r.registerBuiltinKinds()
	return r
}

func (r *ComponentRegistry) registerBuiltinKinds() {
	r.mustRegister(domain.KindHero, "Banner with background image and two buttons", heroDefaults)
	r.mustRegister(domain.KindEnhancedHero, "Hero whose buttons can be switched off", enhancedHeroDefaults)
	r.mustRegister(domain.KindUltraHero, "Hero with reorderable, individually styled buttons", ultraHeroDefaults)
	r.mustRegister(domain.KindSectionHeader, "Kicker, title and description", sectionHeaderDefaults)
	r.mustRegister(domain.KindMenuSection, "Preview of menu items", menuSectionDefaults)
	r.mustRegister(domain.KindTeamSection, "Introduce the kitchen team", teamSectionDefaults)
	r.mustRegister(domain.KindTestimonials, "Guest reviews with star ratings", testimonialsDefaults)
}

func (r *ComponentRegistry) mustRegister(kind domain.Kind, description string, factory ConfigFactory) {
	if err := r.Register(kind, description, factory); err != nil {
		panic(err)
	}
}

// Register adds or replaces the default factory for a kind.
func (r *ComponentRegistry) Register(kind domain.Kind, description string, factory ConfigFactory) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedKind, kind)
	}
	if factory == nil {
		return fmt.Errorf("%w: nil factory for %s", domain.ErrInvalidInput, kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = factory
	r.infos[kind] = domain.KindInfo{
		Kind:        kind,
		Label:       kind.Label(),
		Description: description,
	}
	return nil
}

// Kinds returns palette entries in display order.
func (r *ComponentRegistry) Kinds() []domain.KindInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.KindInfo, 0, len(r.infos))
	for _, k := range domain.AllKinds() {
		if info, ok := r.infos[k]; ok {
			out = append(out, info)
		}
	}
	return out
}

// DefaultConfigFor returns a fresh default config for kind.
func (r *ComponentRegistry) DefaultConfigFor(kind domain.Kind) (domain.Config, error) {
	r.mu.RLock()
	factory, ok := r.factories[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedKind, kind)
	}
	if r.ids == nil {
		return nil, fmt.Errorf("%w: registry has no id generator", domain.ErrNotImplemented)
	}
	return factory(r.ids), nil
}

// newButton returns a default styled button with a fresh id.
func (r *ComponentRegistry) newButton() domain.StyledButton {
	return domain.StyledButton{
		ID:      r.ids.NewID(prefixButton),
		Text:    "New Button",
		Link:    "#",
		Style:   domain.ButtonPrimary,
		Size:    domain.ButtonMedium,
		Rounded: domain.RoundedNormal,
	}
}

// newTeamMember returns a placeholder team member with a fresh id.
func (r *ComponentRegistry) newTeamMember() domain.TeamMember {
	return domain.TeamMember{
		ID:   r.ids.NewID(prefixMember),
		Name: "New Chef",
		Role: "Chef",
	}
}

// newTestimonial returns an empty five-star testimonial with a fresh id.
func (r *ComponentRegistry) newTestimonial() domain.Testimonial {
	return domain.Testimonial{
		ID:     r.ids.NewID(prefixTestimonial),
		Rating: domain.MaxRating,
	}
}

// AppendItemPatch returns a patch adding one default item to the
// config's list.
func (r *ComponentRegistry) AppendItemPatch(cfg domain.Config) (domain.Patch, error) {
	if r.ids == nil {
		return domain.Patch{}, fmt.Errorf("%w: registry has no id generator", domain.ErrNotImplemented)
	}
	switch c := cfg.(type) {
	case *domain.UltraHeroConfig:
		items := append(append([]domain.StyledButton{}, c.Buttons...), r.newButton())
		return listPatch("buttons", items)
	case *domain.TeamSectionConfig:
		items := append(append([]domain.TeamMember{}, c.Members...), r.newTeamMember())
		return listPatch("members", items)
	case *domain.TestimonialsConfig:
		items := append(append([]domain.Testimonial{}, c.Testimonials...), r.newTestimonial())
		return listPatch("testimonials", items)
	default:
		return domain.Patch{}, fmt.Errorf("%w: %s has no item list", domain.ErrInvalidPatch, kindOf(cfg))
	}
}

// RemoveItemPatch returns a patch removing the list item at index.
func (r *ComponentRegistry) RemoveItemPatch(cfg domain.Config, index int) (domain.Patch, error) {
	switch c := cfg.(type) {
	case *domain.UltraHeroConfig:
		items, err := without(c.Buttons, index)
		if err != nil {
			return domain.Patch{}, err
		}
		return listPatch("buttons", items)
	case *domain.TeamSectionConfig:
		items, err := without(c.Members, index)
		if err != nil {
			return domain.Patch{}, err
		}
		return listPatch("members", items)
	case *domain.TestimonialsConfig:
		items, err := without(c.Testimonials, index)
		if err != nil {
			return domain.Patch{}, err
		}
		return listPatch("testimonials", items)
	default:
		return domain.Patch{}, fmt.Errorf("%w: %s has no item list", domain.ErrInvalidPatch, kindOf(cfg))
	}
}

func without[T any](items []T, index int) ([]T, error) {
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("%w: no item at index %d", domain.ErrInvalidPatch, index)
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...), nil
}

// listPatch converts items into the generic JSON shape a patch carries.
func listPatch[T any](key string, items []T) (domain.Patch, error) {
	generic, err := toJSONValue(items)
	if err != nil {
		return domain.Patch{}, fmt.Errorf("%w: %w", domain.ErrInvalidPatch, err)
	}
	return domain.Patch{Config: map[string]any{key: generic}}, nil
}

// toJSONValue converts v into the map/slice form produced by encoding/json.
func toJSONValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func boolPtr(b bool) *bool { return &b }

func kindOf(cfg domain.Config) string {
	if cfg == nil {
		return "nil config"
	}
	return cfg.Kind().String()
}

func heroDefaults(_ driven.IDGenerator) domain.Config {
	return &domain.HeroConfig{
		Title:           "New Hero Title",
		Subtitle:        "Hero subtitle description",
		BackgroundImage: defaultHeroImage,
		PrimaryButton:   domain.LinkButton{Text: "Primary Action", Link: "#"},
		SecondaryButton: domain.LinkButton{Text: "Secondary Action", Link: "#"},
	}
}

func enhancedHeroDefaults(_ driven.IDGenerator) domain.Config {
	return &domain.EnhancedHeroConfig{
		Title:           "Click to Edit Title",
		Subtitle:        "Click to edit this subtitle - supports inline editing!",
		BackgroundImage: defaultHeroImage,
		PrimaryButton:   domain.LinkButton{Text: "Click to Edit", Link: "/orders", Enabled: boolPtr(true)},
		SecondaryButton: domain.LinkButton{Text: "Click to Edit", Link: "/booking", Enabled: boolPtr(true)},
	}
}

func ultraHeroDefaults(ids driven.IDGenerator) domain.Config {
	return &domain.UltraHeroConfig{
		Title:           "Ultra Hero with Draggable Buttons",
		Subtitle:        "Click text to edit, drag buttons to reorder, style each button individually!",
		BackgroundImage: defaultHeroImage,
		Buttons: []domain.StyledButton{
			{
				ID:      ids.NewID(prefixButton),
				Text:    "Drag Me",
				Link:    "/orders",
				Style:   domain.ButtonPrimary,
				Size:    domain.ButtonMedium,
				Rounded: domain.RoundedNormal,
			},
			{
				ID:      ids.NewID(prefixButton),
				Text:    "Style Me",
				Link:    "/booking",
				Style:   domain.ButtonOutline,
				Size:    domain.ButtonMedium,
				Rounded: domain.RoundedNormal,
			},
		},
	}
}

func sectionHeaderDefaults(_ driven.IDGenerator) domain.Config {
	return &domain.SectionHeaderConfig{
		Kicker:   "Section Kicker",
		Title:    "Section Title",
		Subtitle: "Section description goes here",
	}
}

func menuSectionDefaults(_ driven.IDGenerator) domain.Config {
	return &domain.MenuSectionConfig{
		Title:          "Menu",
		Subtitle:       "Browse our delicious offerings",
		ShowCategories: true,
		MaxItems:       4,
	}
}

func teamSectionDefaults(ids driven.IDGenerator) domain.Config {
	return &domain.TeamSectionConfig{
		Title:    "Our Chefs",
		Subtitle: "A talented team mastering tandoor, curries and breads.",
		Members: []domain.TeamMember{
			{
				ID:    ids.NewID(prefixMember),
				Image: "https://images.unsplash.com/photo-1577219491135-ce391730fb2c?auto=format&fit=crop&w=600&q=80",
				Name:  "Chef Arjun Singh",
				Role:  "Tandoor Specialist",
			},
			{
				ID:    ids.NewID(prefixMember),
				Image: "https://images.unsplash.com/photo-1583394293214-28ded15ee548?auto=format&fit=crop&w=600&q=80",
				Name:  "Chef Meera Kapoor",
				Role:  "Regional Curries",
			},
		},
	}
}

func testimonialsDefaults(ids driven.IDGenerator) domain.Config {
	return &domain.TestimonialsConfig{
		Title:    "What guests say",
		Subtitle: "Real reviews from people who keep coming back.",
		Testimonials: []domain.Testimonial{
			{
				ID:     ids.NewID(prefixTestimonial),
				Quote:  "Amazing food and service!",
				Author: "Happy Customer",
				Rating: 5,
			},
		},
	}
}
