package domain

import "fmt"

// Compile-time checks that every kind has a config.
var (
	_ Config = (*HeroConfig)(nil)
	_ Config = (*EnhancedHeroConfig)(nil)
	_ Config = (*UltraHeroConfig)(nil)
	_ Config = (*SectionHeaderConfig)(nil)
	_ Config = (*MenuSectionConfig)(nil)
	_ Config = (*TeamSectionConfig)(nil)
	_ Config = (*TestimonialsConfig)(nil)
)

// HeroConfig configures a hero banner.
type HeroConfig struct {
	Title           string     `json:"title"`
	Subtitle        string     `json:"subtitle"`
	BackgroundImage string     `json:"backgroundImage"`
	PrimaryButton   LinkButton `json:"primaryButton"`
	SecondaryButton LinkButton `json:"secondaryButton"`
}

// Kind implements Config.
func (c *HeroConfig) Kind() Kind { return KindHero }

// Validate implements Config.
func (c *HeroConfig) Validate() error { return nil }

// Clone implements Config.
func (c *HeroConfig) Clone() Config {
	out := *c
	out.PrimaryButton = c.PrimaryButton.clone()
	out.SecondaryButton = c.SecondaryButton.clone()
	return &out
}

func (c *HeroConfig) sealed() {}

// EnhancedHeroConfig configures a hero whose buttons can be switched off.
type EnhancedHeroConfig struct {
	Title           string     `json:"title"`
	Subtitle        string     `json:"subtitle"`
	BackgroundImage string     `json:"backgroundImage"`
	PrimaryButton   LinkButton `json:"primaryButton"`
	SecondaryButton LinkButton `json:"secondaryButton"`
}

// Kind implements Config.
func (c *EnhancedHeroConfig) Kind() Kind { return KindEnhancedHero }

// Validate implements Config.
func (c *EnhancedHeroConfig) Validate() error { return nil }

// Clone implements Config.
func (c *EnhancedHeroConfig) Clone() Config {
	out := *c
	out.PrimaryButton = c.PrimaryButton.clone()
	out.SecondaryButton = c.SecondaryButton.clone()
	return &out
}

func (c *EnhancedHeroConfig) sealed() {}

// UltraHeroConfig configures a hero with an ordered list of styled buttons.
type UltraHeroConfig struct {
	Title           string         `json:"title"`
	Subtitle        string         `json:"subtitle"`
	BackgroundImage string         `json:"backgroundImage"`
	Buttons         []StyledButton `json:"buttons"`
}

// Kind implements Config.
func (c *UltraHeroConfig) Kind() Kind { return KindUltraHero }

// Validate implements Config.
func (c *UltraHeroConfig) Validate() error {
	ids := make([]string, len(c.Buttons))
	for i, b := range c.Buttons {
		ids[i] = b.ID
		if !b.Style.IsValid() {
			return fmt.Errorf("%w: button %q has unknown style %q", ErrInvalidInput, b.ID, b.Style)
		}
		if !b.Size.IsValid() {
			return fmt.Errorf("%w: button %q has unknown size %q", ErrInvalidInput, b.ID, b.Size)
		}
		if !b.Rounded.IsValid() {
			return fmt.Errorf("%w: button %q has unknown rounding %q", ErrInvalidInput, b.ID, b.Rounded)
		}
	}
	return uniqueIDs("buttons", ids)
}

// Clone implements Config.
func (c *UltraHeroConfig) Clone() Config {
	out := *c
	if c.Buttons != nil {
		out.Buttons = make([]StyledButton, len(c.Buttons))
		copy(out.Buttons, c.Buttons)
	}
	return &out
}

func (c *UltraHeroConfig) sealed() {}

// SectionHeaderConfig configures a section heading.
type SectionHeaderConfig struct {
	Kicker   string `json:"kicker"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Kind implements Config.
func (c *SectionHeaderConfig) Kind() Kind { return KindSectionHeader }

// Validate implements Config.
func (c *SectionHeaderConfig) Validate() error { return nil }

// Clone implements Config.
func (c *SectionHeaderConfig) Clone() Config {
	out := *c
	return &out
}

func (c *SectionHeaderConfig) sealed() {}

// MenuSectionConfig configures the menu preview.
type MenuSectionConfig struct {
	Title          string `json:"title"`
	Subtitle       string `json:"subtitle"`
	ShowCategories bool   `json:"showCategories"`
	MaxItems       int    `json:"maxItems"`
}

// Kind implements Config.
func (c *MenuSectionConfig) Kind() Kind { return KindMenuSection }

// Validate implements Config.
func (c *MenuSectionConfig) Validate() error {
	if c.MaxItems < 0 {
		return fmt.Errorf("%w: maxItems must not be negative, got %d", ErrInvalidInput, c.MaxItems)
	}
	return nil
}

// Clone implements Config.
func (c *MenuSectionConfig) Clone() Config {
	out := *c
	return &out
}

func (c *MenuSectionConfig) sealed() {}

// TeamSectionConfig configures the team introduction.
type TeamSectionConfig struct {
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle"`
	Members  []TeamMember `json:"members"`
}

// Kind implements Config.
func (c *TeamSectionConfig) Kind() Kind { return KindTeamSection }

// Validate implements Config.
func (c *TeamSectionConfig) Validate() error {
	ids := make([]string, len(c.Members))
	for i, m := range c.Members {
		ids[i] = m.ID
	}
	return uniqueIDs("members", ids)
}

// Clone implements Config.
func (c *TeamSectionConfig) Clone() Config {
	out := *c
	if c.Members != nil {
		out.Members = make([]TeamMember, len(c.Members))
		copy(out.Members, c.Members)
	}
	return &out
}

func (c *TeamSectionConfig) sealed() {}

// TestimonialsConfig configures the guest reviews block.
type TestimonialsConfig struct {
	Title        string        `json:"title"`
	Subtitle     string        `json:"subtitle"`
	Testimonials []Testimonial `json:"testimonials"`
}

// Kind implements Config.
func (c *TestimonialsConfig) Kind() Kind { return KindTestimonials }

// Validate implements Config.
func (c *TestimonialsConfig) Validate() error {
	ids := make([]string, len(c.Testimonials))
	for i, t := range c.Testimonials {
		ids[i] = t.ID
		if t.Rating < 0 || t.Rating > MaxRating {
			return fmt.Errorf("%w: testimonial %q rating %d outside 0..%d",
				ErrInvalidInput, t.ID, t.Rating, MaxRating)
		}
	}
	return uniqueIDs("testimonials", ids)
}

// Clone implements Config.
func (c *TestimonialsConfig) Clone() Config {
	out := *c
	if c.Testimonials != nil {
		out.Testimonials = make([]Testimonial, len(c.Testimonials))
		copy(out.Testimonials, c.Testimonials)
	}
	return &out
}

func (c *TestimonialsConfig) sealed() {}
