package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	tokenFile := filepath.Join(dir, "token")
	if err := os.WriteFile(tokenFile, []byte("  from-file \n"), 0o600); err != nil {
		t.Fatalf("write token: %v", err)
	}

	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write empty: %v", err)
	}

	t.Setenv("RESUME_RATER_TEST_TOKEN", " from-env ")

	tests := []struct {
		name    string
		src     Source
		want    string
		wantErr bool
		unset   bool
	}{
		{name: "file wins", src: Source{File: tokenFile, Env: "RESUME_RATER_TEST_TOKEN", Value: "inline"}, want: "from-file"},
		{name: "env before value", src: Source{Env: "RESUME_RATER_TEST_TOKEN", Value: "inline"}, want: "from-env"},
		{name: "inline value", src: Source{Env: "RESUME_RATER_TEST_MISSING", Value: " inline "}, want: "inline"},
		{name: "missing file", src: Source{File: filepath.Join(dir, "nope")}, wantErr: true},
		{name: "empty file", src: Source{File: emptyFile, Value: "inline"}, wantErr: true},
		{name: "nothing configured", src: Source{Name: "api token"}, wantErr: true, unset: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, ErrNotConfigured) != tt.unset {
				t.Fatalf("unexpected ErrNotConfigured match for %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLoadOptional(t *testing.T) {
	got, err := LoadOptional(Source{Name: "api token"})
	if err != nil || got != "" {
		t.Fatalf("expected empty optional secret, got %q, %v", got, err)
	}

	if _, err := LoadOptional(Source{File: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatalf("expected error for a configured but missing file")
	}
}
