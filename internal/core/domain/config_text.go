package domain

// Headline returns the most prominent text of a config, for listings.
func Headline(cfg Config) string {
	switch c := cfg.(type) {
	case *HeroConfig:
		return c.Title
	case *EnhancedHeroConfig:
		return c.Title
	case *UltraHeroConfig:
		return c.Title
	case *SectionHeaderConfig:
		if c.Title == "" {
			return c.Kicker
		}
		return c.Title
	case *MenuSectionConfig:
		return c.Title
	case *TeamSectionConfig:
		return c.Title
	case *TestimonialsConfig:
		return c.Title
	}
	return ""
}

// MapText returns a copy of cfg with fn applied to every human-readable
// text field. Links, image URLs, ids and style values are left alone.
func MapText(cfg Config, fn func(string) string) Config {
	switch c := cfg.Clone().(type) {
	case *HeroConfig:
		c.Title, c.Subtitle = fn(c.Title), fn(c.Subtitle)
		c.PrimaryButton.Text = fn(c.PrimaryButton.Text)
		c.SecondaryButton.Text = fn(c.SecondaryButton.Text)
		return c
	case *EnhancedHeroConfig:
		c.Title, c.Subtitle = fn(c.Title), fn(c.Subtitle)
		c.PrimaryButton.Text = fn(c.PrimaryButton.Text)
		c.SecondaryButton.Text = fn(c.SecondaryButton.Text)
		return c
	case *UltraHeroConfig:
		c.Title, c.Subtitle = fn(c.Title), fn(c.Subtitle)
		for i := range c.Buttons {
			c.Buttons[i].Text = fn(c.Buttons[i].Text)
		}
		return c
	case *SectionHeaderConfig:
		c.Kicker, c.Title, c.Subtitle = fn(c.Kicker), fn(c.Title), fn(c.Subtitle)
		return c
	case *MenuSectionConfig:
		c.Title, c.Subtitle = fn(c.Title), fn(c.Subtitle)
		return c
	case *TeamSectionConfig:
		c.Title, c.Subtitle = fn(c.Title), fn(c.Subtitle)
		for i := range c.Members {
			c.Members[i].Name = fn(c.Members[i].Name)
			c.Members[i].Role = fn(c.Members[i].Role)
		}
		return c
	case *TestimonialsConfig:
		c.Title, c.Subtitle = fn(c.Title), fn(c.Subtitle)
		for i := range c.Testimonials {
			c.Testimonials[i].Quote = fn(c.Testimonials[i].Quote)
			c.Testimonials[i].Author = fn(c.Testimonials[i].Author)
		}
		return c
	default:
		return c
	}
}
