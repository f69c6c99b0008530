package yamlimport

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `---
- Developer:
    - Github:
        - abbr: GH
          href: https://github.com/
          description: Code hosting
    - Go Docs:
        - abbr: GO
          href: https://go.dev/doc/
- Social:
    - Reddit:
        - abbr: RE
          href: https://reddit.com/
    - Broken:
        - abbr: BR
    - Github again:
        - href: https://github.com/
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	file, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(file) != 2 {
		t.Fatalf("Load() groups = %d, want 2", len(file))
	}
	if got := len(file[0]["Developer"]); got != 2 {
		t.Errorf("Developer bookmarks = %d, want 2", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() should fail on a missing file")
	}
}

func TestParseStripsTemplates(t *testing.T) {
	data := []byte(`---
- Home:
    - Router:
        - abbr: RT
          href: {{HOMEPAGE_VAR_ROUTER_URL}}
`)
	file, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	entry := file[0]["Home"][0]["Router"][0]
	if entry.Href != "" {
		t.Errorf("Href = %q, want empty", entry.Href)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("- : : [")); err == nil {
		t.Error("Parse() should fail on invalid yaml")
	}
}
