package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s != Default() {
		t.Fatalf("want defaults, got %+v", s)
	}
}

func TestParsePartialFileKeepsDefaults(t *testing.T) {
	s, err := Parse([]byte("fps = 60\nsnap_px = 10.0\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.FPS != 60 {
		t.Fatalf("fps override lost, got %d", s.FPS)
	}
	if s.SnapPx != 10.0 {
		t.Fatalf("snap_px override lost, got %v", s.SnapPx)
	}
	if s.UnlinkPx != Default().UnlinkPx {
		t.Fatalf("unset field should keep default, got %v", s.UnlinkPx)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		toml string
	}{
		{"fps too high", "fps = 500\n"},
		{"snap above unlink", "snap_px = 20.0\nunlink_px = 10.0\n"},
		{"zero zoom", "zoom_px_per_second = 0.0\n"},
		{"negative padding", "padding_ms = -1\n"},
		{"zero history", "history_depth = 0\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.toml)); !errors.Is(err, ErrInvalidSetting) {
				t.Fatalf("want ErrInvalidSetting, got %v", err)
			}
		})
	}
}

func TestParseMalformedTOML(t *testing.T) {
	if _, err := Parse([]byte("fps = [broken")); err == nil {
		t.Fatal("want parse error")
	}
}

func TestEngineOptionsRoundTrip(t *testing.T) {
	s := Default()
	s.FPS = 24
	if got := len(s.EngineOptions()); got == 0 {
		t.Fatal("want at least one option")
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clipstorm.toml")
	if err := os.WriteFile(path, []byte("fps = 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan Settings, 1)
	w, err := Watch(path, func(s Settings) {
		select {
		case reloaded <- s:
		default:
		}
	}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("fps = 60\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case s := <-reloaded:
		if s.FPS != 60 {
			t.Fatalf("reloaded fps = %d, want 60", s.FPS)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatchCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clipstorm.toml")
	if err := os.WriteFile(path, []byte("fps = 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := Watch(path, func(Settings) {})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
