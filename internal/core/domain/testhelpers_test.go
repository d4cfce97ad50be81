package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func heroComponent(id, title string) Component {
	return NewComponent(id, &HeroConfig{
		Title:         title,
		PrimaryButton: LinkButton{Text: "Order", Link: "/orders"},
	})
}

func headerComponent(id, title string) Component {
	return NewComponent(id, &SectionHeaderConfig{Kicker: "Kicker", Title: title})
}

func menuComponent(id string) Component {
	return NewComponent(id, &MenuSectionConfig{Title: "Menu", ShowCategories: true, MaxItems: 4})
}

func mustLayout(t *testing.T, components ...Component) Layout {
	t.Helper()
	l, err := NewLayout(components...)
	require.NoError(t, err)
	return l
}
