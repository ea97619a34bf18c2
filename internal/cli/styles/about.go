package styles

import (
	"strings"

	"github.com/bnema/termdeck/internal/domain/build"
)

// VersionRenderer renders build information.
type VersionRenderer struct {
	theme *Theme
}

// NewVersionRenderer creates a version renderer with the given theme.
func NewVersionRenderer(theme *Theme) *VersionRenderer {
	return &VersionRenderer{theme: theme}
}

// Render renders one labelled line per build field.
func (r *VersionRenderer) Render(info build.Info) string {
	field := func(key, val string) string {
		if val == "" {
			val = "unknown"
		}
		return r.theme.Subtle.Width(9).Render(key) + r.theme.Highlight.Render(val)
	}
	lines := []string{
		r.theme.Title.Render("termdeck"),
		field("Version", info.Version),
		field("Commit", info.Commit),
		field("Built", info.BuildDate),
		field("Go", info.GoVersion),
		r.theme.Subtle.Render(build.RepoURL()),
	}
	return strings.Join(lines, "\n")
}
