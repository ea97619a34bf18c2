package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bnema/termdeck/internal/application/usecase"
	"github.com/bnema/termdeck/internal/domain/entity"
)

// LayoutRenderer renders saved layouts for the layout commands.
type LayoutRenderer struct {
	theme *Theme
}

// NewLayoutRenderer creates a layout renderer with the given theme.
func NewLayoutRenderer(theme *Theme) *LayoutRenderer {
	return &LayoutRenderer{theme: theme}
}

// RenderList renders a table of saved layouts, newest first.
func (r *LayoutRenderer) RenderList(items []usecase.WorkspaceSummary) string {
	if len(items) == 0 {
		return r.theme.Subtle.Render("No saved layouts.")
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{it.ID, fmt.Sprint(it.Panes), it.BrowserRoot, it.SavedAt})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(r.theme.Subtle.GetForeground())).
		Headers("ID", "PANES", "BROWSER ROOT", "SAVED").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.theme.Title.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.String()
}

// RenderState renders one layout as an indented tree.
func (r *LayoutRenderer) RenderState(st *entity.WorkspaceState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", r.theme.Title.Render("Layout"), r.theme.Highlight.Render(st.ID))
	if !st.SavedAt.IsZero() {
		fmt.Fprintf(&b, "%s %s\n", r.theme.Subtle.Render("Saved"), st.SavedAt.Format("2006-01-02 15:04:05"))
	}
	if st.BrowserRoot != "" {
		fmt.Fprintf(&b, "%s %s\n", r.theme.Subtle.Render("Browser"), st.BrowserRoot)
	}
	if st.Root == nil {
		b.WriteString(r.theme.Subtle.Render("(empty)"))
		return b.String()
	}
	r.node(&b, st.Root, st.Focused, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

func (r *LayoutRenderer) node(b *strings.Builder, n *entity.LayoutNodeSnapshot, focused entity.PaneID, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.IsLeaf() {
		p := n.Pane
		line := fmt.Sprintf("%s#%d %s", indent, p.ID, p.Kind)
		switch {
		case p.Cwd != "":
			line += " " + r.theme.Subtle.Render(p.Cwd)
		case p.File != "":
			line += " " + r.theme.Subtle.Render(p.File)
		}
		if p.ID == focused {
			line += " " + r.theme.Title.Render("*")
		}
		b.WriteString(line + "\n")
		return
	}
	fmt.Fprintf(b, "%s%s %.2f\n", indent, n.Direction, n.Ratio)
	if n.First != nil {
		r.node(b, n.First, focused, depth+1)
	}
	if n.Second != nil {
		r.node(b, n.Second, focused, depth+1)
	}
}

// RenderError renders an error line.
func (r *LayoutRenderer) RenderError(err error) string {
	return r.theme.ErrorStyle.Render("Error: " + err.Error())
}
