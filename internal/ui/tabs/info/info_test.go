package info

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/partner-console-tui/internal/app"
	"github.com/j-veylop/partner-console-tui/internal/config"
	"github.com/j-veylop/partner-console-tui/internal/version"
)

func setVersion(t *testing.T) {
	t.Helper()
	version.Reset()
	version.Version, version.Commit, version.Date = "v1.2.3", "abc1234", "2024-03-15"
	t.Cleanup(version.Reset)
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), &config.Config{})
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState(), &config.Config{})
	m.SetSize(80, 10)

	if _, cmd := m.Update(nil); cmd != nil {
		t.Error("non-key messages should be ignored")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown}); cmd != nil {
		t.Error("scrolling should not produce a command")
	}
}

func TestModel_CopyExportPath(t *testing.T) {
	copyKey := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}}

	tests := []struct {
		name       string
		lastExport string
		cfg        *config.Config
		want       string
	}{
		{"last export", "/tmp/out/report.csv", &config.Config{ExportDir: "/tmp/out"}, "/tmp/out/report.csv"},
		{"export dir fallback", "", &config.Config{ExportDir: "/tmp/out"}, "/tmp/out"},
		{"nothing to copy", "", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := app.NewState()
			state.SetLastExport(tt.lastExport)
			m := New(state, tt.cfg)

			_, cmd := m.Update(copyKey)
			if tt.want == "" {
				if cmd != nil {
					t.Error("expected no command")
				}
				return
			}
			if cmd == nil {
				t.Fatal("expected a copy command")
			}
			msg, ok := cmd().(app.CopyToClipboardMsg)
			if !ok || msg.Text != tt.want {
				t.Errorf("cmd() = %#v, want CopyToClipboardMsg{%q}", msg, tt.want)
			}
		})
	}
}

func TestModel_View(t *testing.T) {
	setVersion(t)

	state := app.NewState()
	state.ApplyView(app.ViewLoadedMsg{Seed: 42, RosterSize: 100})
	state.SetLastExport("/tmp/out/b2_partner_daily_usage_demo.csv")

	cfg := &config.Config{
		Region:         "eu-central-003",
		DaysBack:       60,
		ExportDir:      "/tmp/out",
		LogPath:        "/tmp/pct.log",
		NotifyOnExport: true,
	}
	m := New(state, cfg)
	m.SetSize(100, 80)

	view := ansi.Strip(m.View())
	for _, want := range []string{
		"Env File:",
		"none",
		"EU-Central-003",
		"60d",
		"/tmp/out",
		"Seed:",
		"42",
		"100",
		"90 days",
		"/tmp/out/b2_partner_daily_usage_demo.csv",
		"About partner-console-tui",
		"v1.2.3",
		"abc1234",
		"Watch .env:      off",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_ViewWithoutConfig(t *testing.T) {
	setVersion(t)

	m := New(app.NewState(), nil)
	m.SetSize(100, 60)

	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Configuration not loaded") {
		t.Error("nil config should be reported")
	}
	if !strings.Contains(view, "press x to write b2_partner_daily_usage_demo.csv") {
		t.Error("missing export hint")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), nil)
	if len(m.ShortHelp()) != 3 {
		t.Errorf("ShortHelp len = %d, want 3", len(m.ShortHelp()))
	}
	if len(m.FullHelp()) != 2 {
		t.Errorf("FullHelp len = %d, want 2", len(m.FullHelp()))
	}
}
