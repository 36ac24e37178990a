package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "v1.4.0"

	got := Template()
	for _, want := range []string{"{{.Name}} version v1.4.0", "commit: " + Commit, "built: " + Date} {
		if !strings.Contains(got, want) {
			t.Errorf("Template() = %q, missing %q", got, want)
		}
	}
}

func TestUserAgent(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "v0.3.1"

	if got := UserAgent(); got != "swcatalog/v0.3.1" {
		t.Errorf("UserAgent() = %q", got)
	}
}
