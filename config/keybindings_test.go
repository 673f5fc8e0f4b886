package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetActionKeyDefaults(t *testing.T) {
	kb := DefaultKeybindings()

	tests := []struct {
		action string
		want   string
	}{
		{"quit", "alt+q"},
		{"help", "alt+h"},
		{"clear_history", "alt+n"},
		{"search_messages", "alt+f"},
		{"retrieve", "alt+r"},
		{"scroll_down", "alt+j"},
		{"scroll_up", "alt+k"},
		{"page_down", "alt+pgdown"},
		// Secondary modifier with a letter collapses shift into uppercase
		{"about", "alt+A"},
		{"check_health", "alt+H"},
		{"half_page_down", "alt+J"},
		{"scroll_to_bottom", "alt+G"},
		// Secondary modifier with a special key keeps explicit shift
		{"half_page_down_arrow", "alt+shift+down"},
		{"unknown_action", ""},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			if got := kb.GetActionKey(tt.action); got != tt.want {
				t.Errorf("GetActionKey(%q) = %q, want %q", tt.action, got, tt.want)
			}
		})
	}
}

func TestGetActionKeyUserOverride(t *testing.T) {
	kb := DefaultKeybindings()
	kb.Actions = map[string]string{
		"quit":        "ctrl+shift+q",
		"scroll_down": "",
	}

	if got := kb.GetActionKey("quit"); got != "ctrl+shift+q" {
		t.Errorf("override ignored: got %q", got)
	}
	// Empty override falls back to the default
	if got := kb.GetActionKey("scroll_down"); got != "alt+j" {
		t.Errorf("empty override should fall back: got %q", got)
	}
}

func TestCustomModifiers(t *testing.T) {
	kb := &KeyBindingsConfig{
		Modifiers: ModifierConfig{
			Primary:   "ctrl",
			Secondary: "ctrl+shift",
		},
	}

	if got := kb.PrimaryKey("j"); got != "ctrl+j" {
		t.Errorf("PrimaryKey: got %q", got)
	}
	if got := kb.SecondaryKey("j"); got != "ctrl+J" {
		t.Errorf("SecondaryKey letter: got %q", got)
	}
	if got := kb.SecondaryKey("down"); got != "ctrl+shift+down" {
		t.Errorf("SecondaryKey special key: got %q", got)
	}
	if got := kb.GetActionKey("quit"); got != "ctrl+q" {
		t.Errorf("GetActionKey with ctrl primary: got %q", got)
	}
}

func TestDisplayActionKey(t *testing.T) {
	kb := DefaultKeybindings()

	tests := []struct {
		action string
		want   string
	}{
		{"quit", "Alt+Q"},
		{"about", "Alt+Shift+A"},
		{"half_page_down_arrow", "Alt+Shift+Down"},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			if got := kb.DisplayActionKey(tt.action); got != tt.want {
				t.Errorf("DisplayActionKey(%q) = %q, want %q", tt.action, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		primary   string
		secondary string
		wantValid bool
	}{
		{"defaults", "alt", "alt+shift", true},
		{"shift alone", "shift", "alt+shift", false},
		{"ctrl warns but passes", "ctrl", "ctrl+shift", true},
		{"super", "super", "super+shift", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := &KeyBindingsConfig{
				Modifiers: ModifierConfig{Primary: tt.primary, Secondary: tt.secondary},
			}
			valid, _ := kb.Validate()
			if valid != tt.wantValid {
				t.Errorf("Validate() = %v, want %v", valid, tt.wantValid)
			}
		})
	}
}

func TestLoadKeybindingsCreatesDefault(t *testing.T) {
	dir := t.TempDir()

	kb, err := LoadKeybindings(dir)
	if err != nil {
		t.Fatalf("LoadKeybindings failed: %v", err)
	}
	if kb.Primary() != "alt" || kb.Secondary() != "alt+shift" {
		t.Errorf("got %q/%q, want default modifiers", kb.Primary(), kb.Secondary())
	}
	if !FileExists(filepath.Join(dir, "keybindings.toml")) {
		t.Error("default keybindings.toml should be written")
	}

	// The written template must parse back cleanly
	if _, err := LoadKeybindings(dir); err != nil {
		t.Fatalf("reloading the generated template failed: %v", err)
	}
}

func TestLoadKeybindingsWithOverrides(t *testing.T) {
	dir := t.TempDir()

	content := `
[modifiers]
primary = "ctrl"

[actions]
quit = "ctrl+shift+x"
`
	if err := os.WriteFile(filepath.Join(dir, "keybindings.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	kb, err := LoadKeybindings(dir)
	if err != nil {
		t.Fatalf("LoadKeybindings failed: %v", err)
	}

	if kb.Primary() != "ctrl" {
		t.Errorf("primary: got %q, want ctrl", kb.Primary())
	}
	// Missing secondary falls back to default
	if kb.Secondary() != "alt+shift" {
		t.Errorf("secondary: got %q, want alt+shift", kb.Secondary())
	}
	if got := kb.GetActionKey("quit"); got != "ctrl+shift+x" {
		t.Errorf("quit override: got %q", got)
	}
	// Non-overridden actions follow the new primary modifier
	if got := kb.GetActionKey("scroll_down"); got != "ctrl+j" {
		t.Errorf("scroll_down: got %q", got)
	}
}
