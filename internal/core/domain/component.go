package domain

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Component is one configurable section of the page.
type Component struct {
	// ID is opaque and stable for the lifetime of the instance.
	ID string

	// Kind selects the config schema and rendering routine.
	Kind Kind

	// Config is the kind-specific configuration. Its Kind always equals Kind.
	Config Config

	// Visible components are rendered; hidden ones are kept but skipped.
	Visible bool
}

// NewComponent creates a visible component for cfg.
func NewComponent(id string, cfg Config) Component {
	return Component{
		ID:      id,
		Kind:    cfg.Kind(),
		Config:  cfg,
		Visible: true,
	}
}

// Validate checks that the component is well formed.
func (c Component) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: component id is required", ErrInvalidInput)
	}
	if !c.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedKind, c.Kind)
	}
	if c.Config == nil {
		return fmt.Errorf("%w: component %q has no config", ErrInvalidInput, c.ID)
	}
	if c.Config.Kind() != c.Kind {
		return fmt.Errorf("%w: component %q is %s but its config is %s",
			ErrInvalidInput, c.ID, c.Kind, c.Config.Kind())
	}
	if err := c.Config.Validate(); err != nil {
		return fmt.Errorf("component %q: %w", c.ID, err)
	}
	return nil
}

// Clone returns a deep copy.
func (c Component) Clone() Component {
	if c.Config != nil {
		c.Config = c.Config.Clone()
	}
	return c
}

// Equal reports whether two components are deep-equal.
func (c Component) Equal(o Component) bool {
	return c.ID == o.ID &&
		c.Kind == o.Kind &&
		c.Visible == o.Visible &&
		reflect.DeepEqual(c.Config, o.Config)
}

// componentJSON is the wire form: {"id","type","config","isVisible"}.
type componentJSON struct {
	ID        string          `json:"id"`
	Type      Kind            `json:"type"`
	Config    json.RawMessage `json:"config"`
	IsVisible *bool           `json:"isVisible,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (c Component) MarshalJSON() ([]byte, error) {
	cfg := []byte("{}")
	if c.Config != nil {
		raw, err := json.Marshal(c.Config)
		if err != nil {
			return nil, fmt.Errorf("marshalling config of %q: %w", c.ID, err)
		}
		cfg = raw
	}
	visible := c.Visible
	return json.Marshal(componentJSON{
		ID:        c.ID,
		Type:      c.Kind,
		Config:    cfg,
		IsVisible: &visible,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The "type" tag selects the
// config struct; a missing "isVisible" means visible.
func (c *Component) UnmarshalJSON(data []byte) error {
	var wire componentJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if !wire.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedKind, wire.Type)
	}

	cfg, err := DecodeConfig(wire.Type, wire.Config)
	if err != nil {
		return fmt.Errorf("%w: component %q: %w", ErrInvalidInput, wire.ID, err)
	}

	c.ID = wire.ID
	c.Kind = wire.Type
	c.Config = cfg
	c.Visible = wire.IsVisible == nil || *wire.IsVisible
	return nil
}
