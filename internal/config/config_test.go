package config_test

import (
	"os"
	"strings"
	"testing"

	"github.com/EpsilonKu/fterm/internal/config"
)

func TestDefaults(t *testing.T) {
	cfg := config.Default()

	if cfg.Dimensions.Width != 0.8 || cfg.Dimensions.Height != 0.8 {
		t.Errorf("expected 0.8x0.8 dimensions, got %+v", cfg.Dimensions)
	}
	if cfg.Dimensions.X != 0.5 || cfg.Dimensions.Y != 0.5 {
		t.Errorf("expected centered placement, got %+v", cfg.Dimensions)
	}
	if cfg.Border != "rounded" {
		t.Errorf("expected rounded border, got %q", cfg.Border)
	}
	if cfg.Cmd != nil {
		t.Errorf("expected nil default command, got %v", cfg.Cmd)
	}
	if !cfg.AutoClose {
		t.Error("expected auto_close enabled by default")
	}
	if cfg.Blend != 0 {
		t.Errorf("expected zero blend, got %d", cfg.Blend)
	}
}

func TestMergeKeepsUnspecifiedFields(t *testing.T) {
	w := 0.5
	border := "double"
	merged := config.Merge(config.Default(), config.Overrides{
		Dimensions: &config.DimensionOverrides{Width: &w},
		Border:     &border,
	})

	if merged.Dimensions.Width != 0.5 {
		t.Errorf("width override not applied: %v", merged.Dimensions.Width)
	}
	if merged.Dimensions.Height != 0.8 {
		t.Errorf("height should keep default: %v", merged.Dimensions.Height)
	}
	if merged.Border != "double" {
		t.Errorf("border override not applied: %q", merged.Border)
	}
	if merged.FileType != "fterm" {
		t.Errorf("filetype should keep default: %q", merged.FileType)
	}
}

func TestMergeZeroValuesWin(t *testing.T) {
	// An explicit zero is a real override, distinct from "unset".
	off := false
	merged := config.Merge(config.Default(), config.Overrides{
		AutoClose: &off,
	})

	if merged.AutoClose {
		t.Error("explicit auto_close=false lost in merge")
	}
}

func TestOverridesEmpty(t *testing.T) {
	var nilOverrides *config.Overrides
	if !nilOverrides.Empty() {
		t.Error("nil overrides should be empty")
	}
	if !(&config.Overrides{}).Empty() {
		t.Error("zero overrides should be empty")
	}

	border := "single"
	if (&config.Overrides{Border: &border}).Empty() {
		t.Error("overrides with a field set should not be empty")
	}
}

func TestResolveCommandEmpty(t *testing.T) {
	argv := config.ResolveCommand(nil)
	if len(argv) != 1 || argv[0] == "" {
		t.Fatalf("expected the default shell, got %v", argv)
	}
}

func TestResolveCommandShellLine(t *testing.T) {
	argv := config.ResolveCommand(config.Command{"ls -la /tmp"})
	if len(argv) != 3 {
		t.Fatalf("expected shell -c wrapping, got %v", argv)
	}
	if argv[1] != "-c" || argv[2] != "ls -la /tmp" {
		t.Errorf("expected [-c, line], got %v", argv[1:])
	}
}

func TestResolveCommandArgv(t *testing.T) {
	cmd := config.Command{"git", "log", "--oneline"}
	argv := config.ResolveCommand(cmd)
	if len(argv) != 3 || argv[0] != "git" || argv[2] != "--oneline" {
		t.Fatalf("expected argv passed through, got %v", argv)
	}

	// The resolved argv must be a copy.
	argv[0] = "changed"
	if cmd[0] != "git" {
		t.Error("ResolveCommand aliased the input slice")
	}
}

func TestResolveCommandBareWord(t *testing.T) {
	argv := config.ResolveCommand(config.Command{"htop"})
	if len(argv) != 1 || argv[0] != "htop" {
		t.Fatalf("a spaceless single command should run directly, got %v", argv)
	}
}

func TestResolveGeometry(t *testing.T) {
	d := config.Dimensions{Width: 0.8, Height: 0.8, X: 0.5, Y: 0.5}
	geo := config.ResolveGeometry(d, 100, 40)

	if geo.Width != 80 || geo.Height != 32 {
		t.Errorf("expected 80x32, got %dx%d", geo.Width, geo.Height)
	}
	if geo.Col != 10 || geo.Row != 4 {
		t.Errorf("expected placement at col 10 row 4, got col %d row %d", geo.Col, geo.Row)
	}
}

func TestResolveGeometryDeterministic(t *testing.T) {
	d := config.Dimensions{Width: 0.73, Height: 0.41, X: 0.37, Y: 0.91}
	first := config.ResolveGeometry(d, 157, 43)
	for range 10 {
		if got := config.ResolveGeometry(d, 157, 43); got != first {
			t.Fatalf("geometry not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestResolveGeometryTinyScreen(t *testing.T) {
	d := config.Dimensions{Width: 0.1, Height: 0.1, X: 0.5, Y: 0.5}
	geo := config.ResolveGeometry(d, 3, 3)

	if geo.Width < 1 || geo.Height < 1 {
		t.Errorf("degenerate size: %dx%d", geo.Width, geo.Height)
	}
	if geo.Row < 0 || geo.Col < 0 {
		t.Errorf("negative placement: row %d col %d", geo.Row, geo.Col)
	}
}

func TestCommandText(t *testing.T) {
	if got := (config.Command{"git", "status"}).Text(); got != "git status" {
		t.Errorf("expected joined command line, got %q", got)
	}
	if got := (config.Command{}).Text(); got != "" {
		t.Errorf("expected empty line, got %q", got)
	}
}

func TestParseOverrides(t *testing.T) {
	data := []byte(`
border = "double"
auto_close = false
cmd = ["fish"]

[dimensions]
width = 0.6
x = 1.0
`)
	o, err := config.ParseOverrides(data)
	if err != nil {
		t.Fatalf("ParseOverrides failed: %v", err)
	}

	if o.Border == nil || *o.Border != "double" {
		t.Error("border not parsed")
	}
	if o.AutoClose == nil || *o.AutoClose {
		t.Error("auto_close not parsed")
	}
	if len(o.Cmd) != 1 || o.Cmd[0] != "fish" {
		t.Errorf("cmd not parsed: %v", o.Cmd)
	}
	if o.Dimensions == nil || o.Dimensions.Width == nil || *o.Dimensions.Width != 0.6 {
		t.Error("dimensions.width not parsed")
	}
	if o.Dimensions.Height != nil {
		t.Error("unset dimension should stay nil")
	}
	if o.Highlight != nil || o.FileType != nil || o.Blend != nil {
		t.Error("unset fields should stay nil")
	}
}

func TestParseOverridesRejectsGarbage(t *testing.T) {
	if _, err := config.ParseOverrides([]byte("border = [not toml")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestWriteAndLoadDefaultConfig(t *testing.T) {
	path := t.TempDir() + "/config.toml"
	if err := config.WriteDefaultConfig(path); err != nil {
		t.Fatalf("WriteDefaultConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading config back: %v", err)
	}
	if !strings.Contains(string(data), "auto_close") {
		t.Error("written config missing auto_close key")
	}

	o, err := config.ParseOverrides(data)
	if err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}
	merged := config.Merge(config.Default(), o)
	if merged.Border != "rounded" || merged.Dimensions.Width != 0.8 || !merged.AutoClose {
		t.Errorf("default file changed defaults: %+v", merged)
	}
}
