package domain

import (
	"encoding/json"
	"fmt"
)

// Patch is a partial update of one component.
type Patch struct {
	// Config is deep-merged into the component's config. Nested objects
	// merge key by key; sequences and scalars replace.
	Config map[string]any `json:"config,omitempty"`

	// Visible replaces the component's visibility when set.
	Visible *bool `json:"isVisible,omitempty"`
}

// VisibilityPatch builds a patch that only changes visibility.
func VisibilityPatch(visible bool) Patch {
	return Patch{Visible: &visible}
}

// IsEmpty reports whether the patch changes nothing at all.
func (p Patch) IsEmpty() bool {
	return len(p.Config) == 0 && p.Visible == nil
}

// Apply returns a new component with the patch merged in.
func (p Patch) Apply(c Component) (Component, error) {
	out := c.Clone()
	if len(p.Config) > 0 {
		cfg, err := MergeConfig(c.Config, p.Config)
		if err != nil {
			return Component{}, fmt.Errorf("component %q: %w", c.ID, err)
		}
		out.Config = cfg
	}
	if p.Visible != nil {
		out.Visible = *p.Visible
	}
	return out, nil
}

// MergeConfig deep-merges patch into cfg and decodes the result strictly
// into the same kind. Unknown keys and mistyped values are rejected.
func MergeConfig(cfg Config, patch map[string]any) (Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: no config to merge into", ErrInvalidPatch)
	}

	base, err := configToMap(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPatch, err)
	}

	merged := deepMerge(base, patch)
	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPatch, err)
	}

	out, err := decodeConfig(cfg.Kind(), raw, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPatch, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPatch, err)
	}
	return out, nil
}

// deepMerge writes patch into base. Both sides must be JSON-shaped.
func deepMerge(base, patch map[string]any) map[string]any {
	if base == nil {
		base = make(map[string]any, len(patch))
	}
	for key, value := range patch {
		pm, patchIsMap := value.(map[string]any)
		bm, baseIsMap := base[key].(map[string]any)
		if patchIsMap && baseIsMap {
			base[key] = deepMerge(bm, pm)
			continue
		}
		base[key] = value
	}
	return base
}
