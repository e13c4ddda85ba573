package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/naka-gawa/portfolio-stats/internal/domain"
)

// FallbackDescription replaces a missing or empty repository description.
const FallbackDescription = "A project built with passion and dedication."

// DefaultProjectImage is used for languages without a placeholder.
const DefaultProjectImage = "https://images.unsplash.com/photo-1460925895917-afdab827c52f?w=800&q=80"

const maxProjectTopics = 3

var defaultLanguageImages = map[string]string{
	"JavaScript": "https://images.unsplash.com/photo-1627398242454-45a1465c2479?w=800&q=80",
	"TypeScript": "https://images.unsplash.com/photo-1618477388954-7852f32655ec?w=800&q=80",
	"Python":     "https://images.unsplash.com/photo-1526379095098-d400fd0bf935?w=800&q=80",
	"Java":       "https://images.unsplash.com/photo-1517694712202-14dd9538aa97?w=800&q=80",
	"HTML":       "https://images.unsplash.com/photo-1542831371-29b0f74f9713?w=800&q=80",
	"CSS":        "https://images.unsplash.com/photo-1507721999472-8ed4421c4af2?w=800&q=80",
	"Dart":       "https://images.unsplash.com/photo-1551650975-87deedd944c3?w=800&q=80",
}

// ProjectMapper turns repositories into project cards.
type ProjectMapper struct {
	images       map[string]string
	defaultImage string
}

// NewProjectMapper returns a mapper using the built-in language images with
// overrides layered on top. An empty defaultImage keeps DefaultProjectImage.
func NewProjectMapper(overrides map[string]string, defaultImage string) *ProjectMapper {
	images := make(map[string]string, len(defaultLanguageImages)+len(overrides))
	for lang, url := range defaultLanguageImages {
		images[lang] = url
	}
	for lang, url := range overrides {
		if url != "" {
			images[lang] = url
		}
	}
	if defaultImage == "" {
		defaultImage = DefaultProjectImage
	}
	return &ProjectMapper{images: images, defaultImage: defaultImage}
}

// Map projects one repository. It does no I/O and cannot fail.
func (m *ProjectMapper) Map(repo domain.Repository) domain.Project {
	description := repo.Description
	if description == "" {
		description = FallbackDescription
	}

	return domain.Project{
		ID:           repo.ID,
		Title:        projectTitle(repo.Name),
		Description:  description,
		Technologies: technologies(repo),
		Image:        m.image(repo.Language),
		GitHub:       repo.HTMLURL,
		Live:         repo.Homepage,
	}
}

// MapAll maps repos in order.
func (m *ProjectMapper) MapAll(repos []domain.Repository) []domain.Project {
	projects := make([]domain.Project, 0, len(repos))
	for _, repo := range repos {
		projects = append(projects, m.Map(repo))
	}
	return projects
}

func (m *ProjectMapper) image(language string) string {
	if url, ok := m.images[language]; ok {
		return url
	}
	return m.defaultImage
}

// projectTitle turns hyphens into spaces and upper-cases the first rune of
// each word. The remaining runes are left alone.
func projectTitle(name string) string {
	name = strings.ReplaceAll(name, "-", " ")

	var b strings.Builder
	b.Grow(len(name))
	atWordStart := true
	for len(name) > 0 {
		r, size := utf8.DecodeRuneInString(name)
		name = name[size:]
		if unicode.IsSpace(r) {
			atWordStart = true
			b.WriteRune(r)
			continue
		}
		if atWordStart {
			r = unicode.ToUpper(r)
			atWordStart = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func technologies(repo domain.Repository) []string {
	topics := repo.Topics
	if len(topics) > maxProjectTopics {
		topics = topics[:maxProjectTopics]
	}

	techs := make([]string, 0, 1+len(topics))
	if repo.Language != "" {
		techs = append(techs, repo.Language)
	}
	for _, topic := range topics {
		if topic != "" {
			techs = append(techs, topic)
		}
	}
	return techs
}
