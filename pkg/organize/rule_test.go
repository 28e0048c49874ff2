package organize

import (
	"errors"
	"testing"
)

func TestPatternRule(t *testing.T) {
	t.Run("first capture group names the folder", func(t *testing.T) {
		rule, err := NewPatternRule(`^(.*?) - \d+.*\.(mkv)$`)
		if err != nil {
			t.Fatalf("NewPatternRule failed: %v", err)
		}
		folder, ok := rule.Resolve("Show - 01.mkv")
		if !ok {
			t.Fatal("expected a match")
		}
		if folder != "Show" {
			t.Errorf("expected folder %q, got %q", "Show", folder)
		}
	})

	t.Run("search mode matches inside the name", func(t *testing.T) {
		rule, err := NewPatternRule(`(\d{4})`)
		if err != nil {
			t.Fatalf("NewPatternRule failed: %v", err)
		}
		folder, ok := rule.Resolve("holiday-2019-beach.jpg")
		if !ok || folder != "2019" {
			t.Errorf("expected 2019, got %q (ok=%v)", folder, ok)
		}
	})

	t.Run("no match is not an error", func(t *testing.T) {
		rule, err := NewPatternRule(`^(.*?) - \d+.*\.(mkv)$`)
		if err != nil {
			t.Fatalf("NewPatternRule failed: %v", err)
		}
		if _, ok := rule.Resolve("notes.txt"); ok {
			t.Error("expected no match for notes.txt")
		}
	})

	t.Run("zero capture groups is a no-match", func(t *testing.T) {
		rule, err := NewPatternRule(`\.mkv$`)
		if err != nil {
			t.Fatalf("NewPatternRule failed: %v", err)
		}
		if _, ok := rule.Resolve("Show - 01.mkv"); ok {
			t.Error("expected no match when the pattern has no groups")
		}
	})

	t.Run("empty capture is a no-match", func(t *testing.T) {
		rule, err := NewPatternRule(`^(.*?)\.mkv$`)
		if err != nil {
			t.Fatalf("NewPatternRule failed: %v", err)
		}
		if _, ok := rule.Resolve(".mkv"); ok {
			t.Error("expected no match when the group captures nothing")
		}
	})

	t.Run("empty pattern is a config error", func(t *testing.T) {
		_, err := NewPatternRule("")
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ConfigError, got %v", err)
		}
	})

	t.Run("uncompilable pattern is a config error", func(t *testing.T) {
		_, err := NewPatternRule("(")
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ConfigError, got %v", err)
		}
		if cfgErr.Unwrap() == nil {
			t.Error("expected the compile error to be wrapped")
		}
	})
}

func TestTypeRule(t *testing.T) {
	rule := NewTypeRule()

	cases := []struct {
		name     string
		filename string
		want     string
	}{
		{"video", "Show - 01.mkv", "Videos"},
		{"image", "photo.jpg", "Images"},
		{"image uppercase", "PHOTO.JPG", "Images"},
		{"document", "report.pdf", "Documents"},
		{"archive", "bundle.tar", "Archives"},
		{"spreadsheet", "data.csv", "Spreadsheets"},
		{"unknown extension", "file.xyz", CategoryOthers},
		{"no extension", "README", CategoryOthers},
		{"trailing dot", "weird.", CategoryOthers},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			folder, ok := rule.Resolve(tc.filename)
			if !ok {
				t.Fatalf("type rule must always resolve, got no match for %q", tc.filename)
			}
			if folder != tc.want {
				t.Errorf("Resolve(%q) = %q, want %q", tc.filename, folder, tc.want)
			}
		})
	}
}
