package document

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

// DefaultPermalinkPattern is used when the site does not configure one.
const DefaultPermalinkPattern = "/:year/:month/:day/:title/"

const (
	permalinkGroup = "permalinks"
	permalinkRoute = "post"
)

var patternTokens = regexp.MustCompile(`:(\w+)`)

// Permalinks computes canonical URL paths by substituting date components
// and the slug into a configured pattern. Patterns are go-urlkit route
// templates; recognised tokens are :year, :month, :day, :title, and :slug.
type Permalinks struct {
	manager *urlkit.RouteManager
	tokens  []string
	pattern string
}

// NewPermalinks validates the pattern and prepares a builder for it.
func NewPermalinks(pattern string) (*Permalinks, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		pattern = DefaultPermalinkPattern
	}
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}

	tokens := []string{}
	for _, match := range patternTokens.FindAllStringSubmatch(pattern, -1) {
		token := match[1]
		switch token {
		case "year", "month", "day", "title", "slug":
			tokens = append(tokens, token)
		default:
			return nil, fmt.Errorf("document: permalink pattern %q uses unknown token :%s", pattern, token)
		}
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name: permalinkGroup,
				Paths: map[string]string{
					permalinkRoute: pattern,
				},
			},
		},
	})

	return &Permalinks{
		manager: manager,
		tokens:  tokens,
		pattern: pattern,
	}, nil
}

// Build substitutes the document identity into the pattern.
func (p *Permalinks) Build(id ID) (string, error) {
	builder := p.manager.Group(permalinkGroup).Builder(permalinkRoute)
	for _, token := range p.tokens {
		builder.WithParam(token, tokenValue(token, id.Date, id.Slug))
	}

	url, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("document: build permalink for %s: %w", id, err)
	}

	if strings.HasSuffix(p.pattern, "/") && !strings.HasSuffix(url, "/") {
		url += "/"
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return url, nil
}

// Pattern returns the normalised pattern in use.
func (p *Permalinks) Pattern() string {
	return p.pattern
}

// OutputPath maps a permalink to the relative artifact path for its page.
// Directory-style permalinks get an index.html; explicit file permalinks
// are written as-is.
func OutputPath(permalink string) string {
	clean := strings.Trim(strings.TrimSpace(permalink), "/")
	if clean == "" {
		return "index.html"
	}
	if ext := path.Ext(clean); ext != "" {
		return clean
	}
	return path.Join(clean, "index.html")
}

func tokenValue(token string, date time.Time, slug string) string {
	switch token {
	case "year":
		return date.Format("2006")
	case "month":
		return date.Format("01")
	case "day":
		return date.Format("02")
	default: // title, slug
		return slug
	}
}
