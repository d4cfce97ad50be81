package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldType tells an editor how to present and parse a field.
type FieldType string

// Field types.
const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldBool   FieldType = "bool"
	FieldChoice FieldType = "choice"
)

// Field is one editable value of a config, addressed by a dotted path
// into its JSON form. List items use their index as a path segment,
// e.g. "members.1.name".
type Field struct {
	Path    string
	Label   string
	Type    FieldType
	Value   string
	Options []string
}

// EditableFields lists the fields an editor should offer for cfg, in
// display order.
func EditableFields(cfg Config) []Field {
	var fields []Field
	switch c := cfg.(type) {
	case *HeroConfig:
		fields = append(fields, headingFields(c.Title, c.Subtitle)...)
		fields = append(fields, textField("backgroundImage", "Background image", c.BackgroundImage))
		fields = append(fields, linkButtonFields("primaryButton", "Primary button", c.PrimaryButton, false)...)
		fields = append(fields, linkButtonFields("secondaryButton", "Secondary button", c.SecondaryButton, false)...)
	case *EnhancedHeroConfig:
		fields = append(fields, headingFields(c.Title, c.Subtitle)...)
		fields = append(fields, textField("backgroundImage", "Background image", c.BackgroundImage))
		fields = append(fields, linkButtonFields("primaryButton", "Primary button", c.PrimaryButton, true)...)
		fields = append(fields, linkButtonFields("secondaryButton", "Secondary button", c.SecondaryButton, true)...)
	case *UltraHeroConfig:
		fields = append(fields, headingFields(c.Title, c.Subtitle)...)
		fields = append(fields, textField("backgroundImage", "Background image", c.BackgroundImage))
		for i, b := range c.Buttons {
			p := fmt.Sprintf("buttons.%d.", i)
			l := fmt.Sprintf("Button %d ", i+1)
			fields = append(fields,
				textField(p+"text", l+"text", b.Text),
				textField(p+"link", l+"link", b.Link),
				choiceField(p+"style", l+"style", string(b.Style), buttonStyles()),
				choiceField(p+"size", l+"size", string(b.Size), buttonSizes()),
				choiceField(p+"rounded", l+"rounding", string(b.Rounded), buttonRoundings()),
				textField(p+"customBg", l+"background colour", b.CustomBg),
				textField(p+"customText", l+"text colour", b.CustomText),
				textField(p+"customBorder", l+"border colour", b.CustomBorder),
			)
		}
	case *SectionHeaderConfig:
		fields = append(fields, textField("kicker", "Kicker", c.Kicker))
		fields = append(fields, headingFields(c.Title, c.Subtitle)...)
	case *MenuSectionConfig:
		fields = append(fields, headingFields(c.Title, c.Subtitle)...)
		fields = append(fields,
			boolField("showCategories", "Show categories", c.ShowCategories),
			Field{Path: "maxItems", Label: "Max items", Type: FieldNumber, Value: strconv.Itoa(c.MaxItems)},
		)
	case *TeamSectionConfig:
		fields = append(fields, headingFields(c.Title, c.Subtitle)...)
		for i, m := range c.Members {
			p := fmt.Sprintf("members.%d.", i)
			l := fmt.Sprintf("Member %d ", i+1)
			fields = append(fields,
				textField(p+"name", l+"name", m.Name),
				textField(p+"role", l+"role", m.Role),
				textField(p+"image", l+"image", m.Image),
			)
		}
	case *TestimonialsConfig:
		fields = append(fields, headingFields(c.Title, c.Subtitle)...)
		for i, t := range c.Testimonials {
			p := fmt.Sprintf("testimonials.%d.", i)
			l := fmt.Sprintf("Review %d ", i+1)
			fields = append(fields,
				textField(p+"quote", l+"quote", t.Quote),
				textField(p+"author", l+"author", t.Author),
				Field{Path: p + "rating", Label: l + "rating", Type: FieldNumber, Value: strconv.Itoa(t.Rating)},
			)
		}
	}
	return fields
}

// PatchFromFields builds a config patch carrying the edited field values.
// Values are parsed according to each field's type; list fields update the
// item at their index within the current list.
func PatchFromFields(cfg Config, fields []Field) (Patch, error) {
	if cfg == nil {
		return Patch{}, fmt.Errorf("%w: no config", ErrInvalidPatch)
	}
	base, err := configToMap(cfg)
	if err != nil {
		return Patch{}, fmt.Errorf("%w: %w", ErrInvalidPatch, err)
	}

	touched := make(map[string]any)
	for _, f := range fields {
		value, err := parseFieldValue(f)
		if err != nil {
			return Patch{}, err
		}
		segments := strings.Split(f.Path, ".")
		if err := setPath(base, segments, value); err != nil {
			return Patch{}, fmt.Errorf("%w: field %q: %w", ErrInvalidPatch, f.Path, err)
		}
		touched[segments[0]] = base[segments[0]]
	}
	if len(touched) == 0 {
		return Patch{}, nil
	}
	return Patch{Config: touched}, nil
}

func parseFieldValue(f Field) (any, error) {
	v := strings.TrimSpace(f.Value)
	switch f.Type {
	case FieldNumber:
		if v == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a whole number", ErrInvalidPatch, f.Label)
		}
		return n, nil
	case FieldBool:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false", ErrInvalidPatch, f.Label)
		}
		return b, nil
	case FieldChoice:
		if v != "" && len(f.Options) > 0 && !contains(f.Options, v) {
			return nil, fmt.Errorf("%w: %s must be one of %s",
				ErrInvalidPatch, f.Label, strings.Join(f.Options, ", "))
		}
		return v, nil
	default:
		return f.Value, nil
	}
}

// setPath writes value at the dotted path inside a JSON-shaped map.
func setPath(node map[string]any, segments []string, value any) error {
	key := segments[0]
	if len(segments) == 1 {
		node[key] = value
		return nil
	}

	switch child := node[key].(type) {
	case map[string]any:
		return setPath(child, segments[1:], value)
	case []any:
		i, err := strconv.Atoi(segments[1])
		if err != nil || i < 0 || i >= len(child) {
			return fmt.Errorf("no item %q in %s", segments[1], key)
		}
		if len(segments) == 2 {
			child[i] = value
			return nil
		}
		item, ok := child[i].(map[string]any)
		if !ok {
			return fmt.Errorf("item %d of %s is not an object", i, key)
		}
		return setPath(item, segments[2:], value)
	case nil:
		m := make(map[string]any)
		node[key] = m
		return setPath(m, segments[1:], value)
	default:
		return fmt.Errorf("%s is not an object", key)
	}
}

func headingFields(title, subtitle string) []Field {
	return []Field{
		textField("title", "Title", title),
		textField("subtitle", "Subtitle", subtitle),
	}
}

func linkButtonFields(path, label string, b LinkButton, toggle bool) []Field {
	fields := []Field{
		textField(path+".text", label+" text", b.Text),
		textField(path+".link", label+" link", b.Link),
	}
	if toggle {
		fields = append(fields, boolField(path+".enabled", label+" enabled", b.IsEnabled()))
	}
	return fields
}

func textField(path, label, value string) Field {
	return Field{Path: path, Label: label, Type: FieldText, Value: value}
}

func boolField(path, label string, value bool) Field {
	return Field{Path: path, Label: label, Type: FieldBool, Value: strconv.FormatBool(value), Options: []string{"true", "false"}}
}

func choiceField(path, label, value string, options []string) Field {
	return Field{Path: path, Label: label, Type: FieldChoice, Value: value, Options: options}
}

func buttonStyles() []string {
	return []string{
		string(ButtonPrimary), string(ButtonSecondary), string(ButtonOutline),
		string(ButtonGhost), string(ButtonLink),
	}
}

func buttonSizes() []string {
	return []string{string(ButtonSmall), string(ButtonMedium), string(ButtonLarge)}
}

func buttonRoundings() []string {
	return []string{string(RoundedNone), string(RoundedNormal), string(RoundedFull)}
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
