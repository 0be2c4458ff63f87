package dsl_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/xstitch/dsl"
	"github.com/ByLCY/xstitch/pattern"
)

const sampleDSL = `
// greeting card
pattern "Greeting" {
  text: "Hello\nWorld"
  lines: 2
  font-size: large
  font-family: serif
  line-spacing: loose; fabric: cream
  /* red thread */
  stitch-color: #c0392b
  grid: true
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name() != "Greeting" {
		t.Fatalf("expected pattern name Greeting, got %q", doc.Name())
	}
	if got := len(doc.Pattern.Block.Entries); got != 8 {
		t.Fatalf("expected 8 entries, got %d", got)
	}
	first := doc.Pattern.Block.Entries[0]
	if first.Key != "text" || first.Value.String == nil {
		t.Fatalf("expected text string assignment, got %+v", first)
	}
	if got := first.Value.Text(); got != "Hello\nWorld" {
		t.Fatalf("string literal not unquoted: %q", got)
	}
}

func TestDocumentRequest(t *testing.T) {
	doc, err := dsl.Parse(strings.NewReader(sampleDSL))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	req, err := doc.Request(pattern.DefaultRequest())
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	want := pattern.Request{
		Text:        "Hello\nWorld",
		MaxLines:    2,
		FontSize:    pattern.FontLarge,
		FontFamily:  pattern.FamilySerif,
		LineSpacing: pattern.SpacingLoose,
		StitchColor: pattern.Color{R: 0xc0, G: 0x39, B: 0x2b, A: 0xff},
		FabricColor: pattern.FabricCream,
		ShowGrid:    true,
	}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentWithoutNameKeepsDefaults(t *testing.T) {
	doc, err := dsl.ParseString(`pattern { text: "Hi" }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name() != "" {
		t.Fatalf("expected empty name, got %q", doc.Name())
	}
	base := pattern.DefaultRequest()
	req, err := doc.Request(base)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	base.Text = "Hi"
	if diff := cmp.Diff(base, req); diff != "" {
		t.Fatalf("defaults not kept (-want +got):\n%s", diff)
	}
}

func TestDocumentRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"unknown key":  `pattern { shape: round }`,
		"bad size":     `pattern { font-size: huge }`,
		"bad lines":    `pattern { lines: many }`,
		"bad fabric":   `pattern { fabric: tartan }`,
		"bad colour":   `pattern { stitch-color: notacolour }`,
		"bad boolean":  `pattern { grid: maybe }`,
		"bad rgb args": `pattern { color: rgb(1, 2) }`,
	}
	for name, src := range cases {
		doc, err := dsl.ParseString(src)
		if err != nil {
			t.Fatalf("%s: parse failed: %v", name, err)
		}
		if _, err := doc.Request(pattern.DefaultRequest()); !errors.Is(err, pattern.ErrInvalidOption) {
			t.Fatalf("%s: expected ErrInvalidOption, got %v", name, err)
		}
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := dsl.ParseString(`pattern { text "missing colon" }`); err == nil {
		t.Fatalf("expected syntax error")
	}
	if _, err := dsl.ParseString(`pattern { color: #abcd }`); err == nil {
		t.Fatalf("expected lexer error for 4-digit hex")
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]pattern.Color{
		"#000":                {A: 0xff},
		"#c0392b":             {R: 0xc0, G: 0x39, B: 0x2b, A: 0xff},
		"#11223380":           {R: 0x11, G: 0x22, B: 0x33, A: 0x80},
		"rgb(10, 20, 30)":     {R: 10, G: 20, B: 30, A: 0xff},
		"rgba(255, 0, 0, 0)":  {R: 255},
		"rgba(0, 0, 255, 1)":  {B: 255, A: 0xff},
		"  navy ":             {B: 0x80, A: 0xff},
		"DarkRed":             {R: 0x8b, A: 0xff},
	}
	for input, want := range cases {
		got, err := dsl.ParseColor(input)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseColor(%q) = %s, want %s", input, got.Hex(), want.Hex())
		}
	}
	for _, bad := range []string{"", "#12", "rgb(300, 0, 0)", "rgba(0, 0, 0, 2)", "chartreuse-ish"} {
		if _, err := dsl.ParseColor(bad); !errors.Is(err, pattern.ErrInvalidOption) {
			t.Fatalf("ParseColor(%q): expected ErrInvalidOption, got %v", bad, err)
		}
	}
}

func TestApplyOptionAliases(t *testing.T) {
	req := pattern.DefaultRequest()
	for key, value := range map[string]string{
		"max-lines":    "0",
		"Fabric-Color": "light_blue",
		"show-grid":    "yes",
		"color":        "#fff",
	} {
		if err := dsl.ApplyOption(&req, key, value); err != nil {
			t.Fatalf("ApplyOption(%s): %v", key, err)
		}
	}
	if req.MaxLines != 0 || req.FabricColor != pattern.FabricLightBlue || !req.ShowGrid || req.StitchColor.Hex() != "#ffffff" {
		t.Fatalf("aliases not applied: %+v", req)
	}
}
