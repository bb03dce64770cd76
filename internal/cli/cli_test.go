package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topicsheet/pkg/drafts"
	"github.com/matzehuels/topicsheet/pkg/pipeline"
	"github.com/matzehuels/topicsheet/pkg/render/layout"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to pdf", "", []string{"pdf"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "pdf,json,svg", []string{"pdf", "json", "svg"}},
		{"spaces and blanks", " pdf, ,json ", []string{"pdf", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	named := pipeline.Options{DraftName: "Q3 Review", Formats: []string{"pdf"}}
	multi := pipeline.Options{Formats: []string{"pdf", "json"}}

	tests := []struct {
		name   string
		output string
		opts   pipeline.Options
		format string
		isDir  bool
		want   string
	}{
		{"default name", "", named, "pdf", false, "Q3 Review.pdf"},
		{"default fallback", "", multi, "json", false, "Strategic_Topic_Summary.json"},
		{"single format keeps output", "out/x.bin", named, "pdf", false, "out/x.bin"},
		{"multi strips format ext", "out/x.pdf", multi, "json", false, "out/x.json"},
		{"multi keeps other ext", "out/x.v2", multi, "pdf", false, "out/x.v2.pdf"},
		{"directory", "out", named, "pdf", true, filepath.Join("out", "Q3 Review.pdf")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.opts, tt.format, tt.isDir); got != tt.want {
				t.Errorf("outputPath(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}

func TestDescribeWarning(t *testing.T) {
	tests := []struct {
		w    layout.Warning
		want string
	}{
		{
			layout.Warning{Kind: layout.WarnOversizedWord, Page: 1, Block: "field:Topic", Detail: "Supercalifragilistic"},
			"word wider than its box (page 1, field:Topic): Supercalifragilistic",
		},
		{
			layout.Warning{Kind: layout.WarnOversizedBlock, Page: 3},
			"block taller than a page (page 3)",
		},
		{
			layout.Warning{Kind: layout.WarnImageMissing, Page: 1, Block: "logo-footer", Detail: "missing"},
			"image skipped (page 1, logo-footer): missing",
		},
	}
	for _, tt := range tests {
		if got := describeWarning(tt.w); got != tt.want {
			t.Errorf("describeWarning(%v) = %q, want %q", tt.w.Kind, got, tt.want)
		}
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "page"); got != "1 page" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(2, "page"); got != "2 pages" {
		t.Errorf("plural(2) = %q", got)
	}
}

func TestDraftListModel(t *testing.T) {
	list := []drafts.Summary{
		{Name: "alpha", UpdatedAt: time.Now().Add(-2 * time.Hour)},
		{Name: "beta", UpdatedAt: time.Now()},
	}
	var m tea.Model = NewDraftListModel(list)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown}) // stays on last row
	if got := m.(DraftListModel).Cursor; got != 1 {
		t.Fatalf("Cursor = %d, want 1", got)
	}

	view := m.View()
	if !strings.Contains(view, "alpha") || !strings.Contains(view, "beta") {
		t.Errorf("View() missing draft names:\n%s", view)
	}
	if !strings.Contains(view, "2h ago") {
		t.Errorf("View() missing relative time:\n%s", view)
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("enter should quit the picker")
	}
	sel := m.(DraftListModel).Selected
	if sel == nil || sel.Name != "beta" {
		t.Errorf("Selected = %v, want beta", sel)
	}
}

func TestDraftListModelQuit(t *testing.T) {
	m, cmd := NewDraftListModel(nil).Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Error("esc should quit the picker")
	}
	if m.(DraftListModel).Selected != nil {
		t.Error("esc should not select a draft")
	}
}

func TestFormatRelativeTime(t *testing.T) {
	if got := formatRelativeTime(time.Time{}); got != "—" {
		t.Errorf("formatRelativeTime(zero) = %q", got)
	}
	if got := formatRelativeTime(time.Now()); got != "just now" {
		t.Errorf("formatRelativeTime(now) = %q", got)
	}
	old := time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC)
	if got := formatRelativeTime(old); got != "Mar 4, 2020" {
		t.Errorf("formatRelativeTime(old) = %q", got)
	}
}

func TestLayoutFlagUsage(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	cmds := map[string]*cobra.Command{
		"render": c.renderCommand(),
		"serve":  c.serveCommand(),
		"pick":   c.draftsPickCommand(),
	}

	tests := []struct {
		cmd  string
		flag string
		want string
	}{
		{"render", "summary-only", "only the header band"},
		{"pick", "summary-only", "only the header band"},
		{"render", "header-logo", "every page"},
		{"serve", "header-logo", "every page"},
		{"render", "footer-logo", "bottom left of the last page"},
		{"serve", "footer-logo", "bottom left of the last page"},
	}

	for _, tt := range tests {
		t.Run(tt.cmd+"/"+tt.flag, func(t *testing.T) {
			f := cmds[tt.cmd].Flags().Lookup(tt.flag)
			if f == nil {
				t.Fatalf("--%s not defined on %s", tt.flag, tt.cmd)
			}
			if !strings.Contains(f.Usage, tt.want) {
				t.Errorf("--%s usage = %q, want it to mention %q", tt.flag, f.Usage, tt.want)
			}
		})
	}
}
