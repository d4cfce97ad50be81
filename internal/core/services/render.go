package services

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
)

// Ensure RenderService implements the interface.
var _ driving.RenderService = (*RenderService)(nil)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("tablesite").Funcs(template.FuncMap{
	"lines": lines,
	"stars": stars,
}).ParseFS(templateFS, "templates/*.html"))

// RenderService renders layouts as HTML previews and Markdown.
type RenderService struct {
	pages    driven.DefaultPageProvider
	markdown driven.MarkdownConverter
	title    string
}

// NewRenderService creates a render service. An empty layout renders the
// page from pages; markdown may be nil if Markdown export is not needed.
func NewRenderService(pages driven.DefaultPageProvider, markdown driven.MarkdownConverter) *RenderService {
	return &RenderService{
		pages:    pages,
		markdown: markdown,
		title:    "Restaurant",
	}
}

// SetTitle sets the document title of rendered pages.
func (s *RenderService) SetTitle(title string) {
	s.title = title
}

type pageData struct {
	Title    string
	EditMode bool
	Sections []template.HTML
}

type sectionData struct {
	ID    string
	Kind  domain.Kind
	Edit  bool
	First bool
	Last  bool
	Body  template.HTML
}

// RenderHTML renders the visible components in order. Edit mode tags each
// section with its component id and adds builder controls.
func (s *RenderService) RenderHTML(layout domain.Layout, opts driving.RenderOptions) (string, error) {
	if layout.IsEmpty() && s.pages != nil {
		page, err := s.pages.DefaultPage()
		if err != nil {
			return "", fmt.Errorf("default page: %w", err)
		}
		layout = page
	}

	visible := layout.Visible()
	data := pageData{
		Title:    s.title,
		EditMode: opts.EditMode,
		Sections: make([]template.HTML, 0, len(visible)),
	}
	for i, c := range visible {
		section, err := renderSection(c, sectionData{
			ID:    c.ID,
			Kind:  c.Kind,
			Edit:  opts.EditMode,
			First: i == 0,
			Last:  i == len(visible)-1,
		})
		if err != nil {
			return "", err
		}
		data.Sections = append(data.Sections, section)
	}

	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, "page", data); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}

// RenderMarkdown renders the preview page and converts it to Markdown.
func (s *RenderService) RenderMarkdown(layout domain.Layout) (string, error) {
	if s.markdown == nil {
		return "", domain.ErrNotImplemented
	}
	page, err := s.RenderHTML(layout, driving.RenderOptions{})
	if err != nil {
		return "", err
	}
	md, err := s.markdown.ConvertHTML(page)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return md, nil
}

func renderSection(c domain.Component, data sectionData) (template.HTML, error) {
	name, err := templateFor(c.Config)
	if err != nil {
		return "", fmt.Errorf("component %q: %w", c.ID, err)
	}

	var body bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&body, name, c.Config); err != nil {
		return "", fmt.Errorf("render %s %q: %w", c.Kind, c.ID, err)
	}
	//nolint:gosec // G203: body was produced by html/template and is already escaped.
	data.Body = template.HTML(body.String())

	var out bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&out, "section", data); err != nil {
		return "", fmt.Errorf("render section %q: %w", c.ID, err)
	}
	//nolint:gosec // G203: produced by html/template.
	return template.HTML(out.String()), nil
}

// templateFor selects the partial for a config.
func templateFor(cfg domain.Config) (string, error) {
	switch cfg.(type) {
	case *domain.HeroConfig:
		return "hero", nil
	case *domain.EnhancedHeroConfig:
		return "enhanced_hero", nil
	case *domain.UltraHeroConfig:
		return "ultra_hero", nil
	case *domain.SectionHeaderConfig:
		return "section_header", nil
	case *domain.MenuSectionConfig:
		return "menu_section", nil
	case *domain.TeamSectionConfig:
		return "team_section", nil
	case *domain.TestimonialsConfig:
		return "testimonials", nil
	default:
		return "", fmt.Errorf("%w: %T", domain.ErrUnsupportedKind, cfg)
	}
}

// lines escapes s and turns newlines into line breaks.
func lines(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	//nolint:gosec // G203: input is escaped above.
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// stars renders a rating as filled and empty stars.
func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > domain.MaxRating {
		rating = domain.MaxRating
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", domain.MaxRating-rating)
}
