package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent_UnmarshalJSON_PerKind(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, c Component)
	}{
		{
			name:  "hero",
			input: `{"id":"hero-1","type":"hero","config":{"title":"Welcome","primaryButton":{"text":"Order","link":"/orders"}},"isVisible":true}`,
			check: func(t *testing.T, c Component) {
				cfg, ok := c.Config.(*HeroConfig)
				require.True(t, ok)
				assert.Equal(t, "Welcome", cfg.Title)
				assert.Equal(t, "/orders", cfg.PrimaryButton.Link)
			},
		},
		{
			name:  "enhanced hero with disabled button",
			input: `{"id":"e1","type":"enhanced_hero","config":{"primaryButton":{"text":"A","link":"/a","enabled":false}}}`,
			check: func(t *testing.T, c Component) {
				cfg, ok := c.Config.(*EnhancedHeroConfig)
				require.True(t, ok)
				assert.False(t, cfg.PrimaryButton.IsEnabled())
				assert.True(t, cfg.SecondaryButton.IsEnabled())
			},
		},
		{
			name:  "ultra hero buttons",
			input: `{"id":"u1","type":"ultra_hero","config":{"buttons":[{"id":"btn-1","text":"Drag Me","link":"/orders","style":"primary","size":"medium","rounded":"normal"}]}}`,
			check: func(t *testing.T, c Component) {
				cfg, ok := c.Config.(*UltraHeroConfig)
				require.True(t, ok)
				require.Len(t, cfg.Buttons, 1)
				assert.Equal(t, ButtonPrimary, cfg.Buttons[0].Style)
			},
		},
		{
			name:  "menu section",
			input: `{"id":"m1","type":"menu_section","config":{"title":"Menu","showCategories":true,"maxItems":4}}`,
			check: func(t *testing.T, c Component) {
				cfg, ok := c.Config.(*MenuSectionConfig)
				require.True(t, ok)
				assert.True(t, cfg.ShowCategories)
				assert.Equal(t, 4, cfg.MaxItems)
			},
		},
		{
			name:  "team section",
			input: `{"id":"t1","type":"team_section","config":{"members":[{"id":"member-1","name":"Chef Arjun Singh","role":"Tandoor Specialist"}]}}`,
			check: func(t *testing.T, c Component) {
				cfg, ok := c.Config.(*TeamSectionConfig)
				require.True(t, ok)
				require.Len(t, cfg.Members, 1)
				assert.Equal(t, "Tandoor Specialist", cfg.Members[0].Role)
			},
		},
		{
			name:  "testimonials",
			input: `{"id":"r1","type":"testimonials","config":{"testimonials":[{"id":"test-1","quote":"Great","author":"Sam","rating":5}]}}`,
			check: func(t *testing.T, c Component) {
				cfg, ok := c.Config.(*TestimonialsConfig)
				require.True(t, ok)
				assert.Equal(t, 5, cfg.Testimonials[0].Rating)
			},
		},
		{
			name:  "unknown config fields are ignored",
			input: `{"id":"s1","type":"section_header","config":{"title":"T","legacyColour":"red"}}`,
			check: func(t *testing.T, c Component) {
				cfg, ok := c.Config.(*SectionHeaderConfig)
				require.True(t, ok)
				assert.Equal(t, "T", cfg.Title)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Component
			require.NoError(t, json.Unmarshal([]byte(tt.input), &c))
			assert.Equal(t, c.Kind, c.Config.Kind())
			tt.check(t, c)
		})
	}
}

func TestComponent_UnmarshalJSON_MissingVisibleDefaultsTrue(t *testing.T) {
	var c Component
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","type":"hero","config":{}}`), &c))
	assert.True(t, c.Visible)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","type":"hero","config":{},"isVisible":false}`), &c))
	assert.False(t, c.Visible)
}

func TestComponent_UnmarshalJSON_UnknownType(t *testing.T) {
	var c Component
	err := json.Unmarshal([]byte(`{"id":"a","type":"carousel","config":{}}`), &c)
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestComponent_UnmarshalJSON_BadConfig(t *testing.T) {
	var c Component
	err := json.Unmarshal([]byte(`{"id":"a","type":"menu_section","config":{"maxItems":"four"}}`), &c)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestComponent_MarshalJSON_WireShape(t *testing.T) {
	c := headerComponent("s1", "Title")
	c.Visible = false

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Equal(t, "s1", wire["id"])
	assert.Equal(t, "section_header", wire["type"])
	assert.Equal(t, false, wire["isVisible"])
	cfg, ok := wire["config"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Title", cfg["title"])
}

func TestComponent_Validate(t *testing.T) {
	assert.NoError(t, heroComponent("a", "x").Validate())

	noID := heroComponent("", "x")
	assert.ErrorIs(t, noID.Validate(), ErrInvalidInput)

	mismatch := heroComponent("a", "x")
	mismatch.Kind = KindMenuSection
	assert.ErrorIs(t, mismatch.Validate(), ErrInvalidInput)

	badKind := heroComponent("a", "x")
	badKind.Kind = "nope"
	assert.ErrorIs(t, badKind.Validate(), ErrUnsupportedKind)

	nilCfg := Component{ID: "a", Kind: KindHero}
	assert.ErrorIs(t, nilCfg.Validate(), ErrInvalidInput)
}

func TestComponent_Clone_NoAliasing(t *testing.T) {
	orig := NewComponent("t1", &TeamSectionConfig{
		Members: []TeamMember{{ID: "m1", Name: "Arjun"}},
	})
	clone := orig.Clone()

	clone.Config.(*TeamSectionConfig).Members[0].Name = "Meera"

	assert.Equal(t, "Arjun", orig.Config.(*TeamSectionConfig).Members[0].Name)
	assert.False(t, orig.Equal(clone))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"hero always valid", &HeroConfig{}, false},
		{"negative max items", &MenuSectionConfig{MaxItems: -1}, true},
		{"zero max items", &MenuSectionConfig{}, false},
		{"rating above max", &TestimonialsConfig{Testimonials: []Testimonial{{ID: "a", Rating: 6}}}, true},
		{"unrated testimonial", &TestimonialsConfig{Testimonials: []Testimonial{{ID: "a"}}}, false},
		{"duplicate member ids", &TeamSectionConfig{Members: []TeamMember{{ID: "a"}, {ID: "a"}}}, true},
		{"empty member ids tolerated", &TeamSectionConfig{Members: []TeamMember{{}, {}}}, false},
		{"unknown button style", &UltraHeroConfig{Buttons: []StyledButton{{ID: "b", Style: "neon"}}}, true},
		{"unknown button size", &UltraHeroConfig{Buttons: []StyledButton{{ID: "b", Size: "huge"}}}, true},
		{"unknown rounding", &UltraHeroConfig{Buttons: []StyledButton{{ID: "b", Rounded: "pill"}}}, true},
		{"default button styling", &UltraHeroConfig{Buttons: []StyledButton{{ID: "b"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewConfig(t *testing.T) {
	for _, k := range AllKinds() {
		cfg, err := NewConfig(k)
		require.NoError(t, err)
		assert.Equal(t, k, cfg.Kind())
	}

	_, err := NewConfig("nope")
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestDecodeConfig_EmptyAndNull(t *testing.T) {
	cfg, err := DecodeConfig(KindHero, nil)
	require.NoError(t, err)
	assert.Equal(t, &HeroConfig{}, cfg)

	cfg, err = DecodeConfig(KindMenuSection, []byte("null"))
	require.NoError(t, err)
	assert.Equal(t, &MenuSectionConfig{}, cfg)
}
