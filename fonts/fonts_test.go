package fonts

import (
	"testing"

	"github.com/ByLCY/xstitch/pattern"
)

// 每个可选字体族都必须有字体数据。
func TestEveryFamilyIsRegistered(t *testing.T) {
	for _, name := range pattern.FontFamilies() {
		font, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if len(font.Data) < 1024 {
			t.Fatalf("font %s looks truncated: %d bytes", name, len(font.Data))
		}
	}
	if _, err := Load(" SANS-SERIF "); err != nil {
		t.Fatalf("lookup should be case-insensitive: %v", err)
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("wingdings"); err == nil {
		t.Fatalf("expected error for unknown family")
	}
	if len(registry) != len(pattern.FontFamilies()) {
		t.Fatalf("registry has %d families, want %d", len(registry), len(pattern.FontFamilies()))
	}
}
