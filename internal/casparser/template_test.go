package casparser

import (
	"os"
	"path/filepath"
	"testing"

	"casfolio/cas-import/internal/models"
)

func TestBuiltinISINHeader(t *testing.T) {
	templates := BuiltinTemplates()

	var isinTmpl *Template
	for i := range templates {
		if templates[i].Name == "isin-header" {
			isinTmpl = &templates[i]
		}
	}
	if isinTmpl == nil {
		t.Fatal("isin-header template missing from built-ins")
	}

	match, ok := isinTmpl.MatchHeader("RELIANCE INDUSTRIES — ISIN INE002A01018")
	if !ok {
		t.Fatal("expected ISIN header to match")
	}
	if match.Name != "RELIANCE INDUSTRIES" {
		t.Errorf("name = %q, want %q", match.Name, "RELIANCE INDUSTRIES")
	}
	if match.ISIN != "INE002A01018" {
		t.Errorf("isin = %q, want %q", match.ISIN, "INE002A01018")
	}
	if match.Symbol != "RELIANCE" {
		t.Errorf("derived symbol = %q, want %q", match.Symbol, "RELIANCE")
	}

	if _, ok := isinTmpl.MatchHeader("12-Jan-2023 BUY 10 2400.00"); ok {
		t.Error("transaction row must not match the header pattern")
	}
}

func TestBuiltinAssetHeader(t *testing.T) {
	templates := BuiltinTemplates()

	var assetTmpl *Template
	for i := range templates {
		if templates[i].Name == "asset-header" {
			assetTmpl = &templates[i]
		}
	}
	if assetTmpl == nil {
		t.Fatal("asset-header template missing from built-ins")
	}

	match, ok := assetTmpl.MatchHeader("ASSET: Nippon Gold ETF (GOLDBEES)")
	if !ok {
		t.Fatal("expected ASSET header to match")
	}
	if match.Name != "Nippon Gold ETF" {
		t.Errorf("name = %q, want %q", match.Name, "Nippon Gold ETF")
	}
	if match.Symbol != "GOLDBEES" {
		t.Errorf("symbol = %q, want %q", match.Symbol, "GOLDBEES")
	}

	match, ok = assetTmpl.MatchHeader("ASSET: Sovereign Gold Bond")
	if !ok {
		t.Fatal("expected ASSET header without ticker to match")
	}
	if match.Symbol != "SOVEREIGN" {
		t.Errorf("derived symbol = %q, want %q", match.Symbol, "SOVEREIGN")
	}
}

func TestColumnForAndTypeToken(t *testing.T) {
	tmpl := BuiltinTemplates()[0]

	if name, ok := tmpl.ColumnFor("Units"); !ok || name != models.ColumnQuantity {
		t.Errorf("ColumnFor(Units) = %v, %v", name, ok)
	}
	if name, ok := tmpl.ColumnFor("nav"); !ok || name != models.ColumnPrice {
		t.Errorf("ColumnFor(nav) = %v, %v", name, ok)
	}
	if _, ok := tmpl.ColumnFor("Folio"); ok {
		t.Error("unknown label must not map to a column")
	}

	if tt, ok := tmpl.TypeToken("purchase"); !ok || tt != models.TypeBuy {
		t.Errorf("TypeToken(purchase) = %v, %v", tt, ok)
	}
	if tt, ok := tmpl.TypeToken("REDEMPTION"); !ok || tt != models.TypeSell {
		t.Errorf("TypeToken(REDEMPTION) = %v, %v", tt, ok)
	}
	if _, ok := tmpl.TypeToken("DIVIDEND"); ok {
		t.Error("DIVIDEND must not map to a direction")
	}
}

func TestLoadTemplates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.yaml")

	content := `templates:
  - name: broker-x
    header_pattern: '^HOLDING[:\s]+(?P<name>.+)$'
    buy_tokens: ["CR"]
    sell_tokens: ["DR"]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	templates, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates returned error: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(templates))
	}

	tmpl := templates[0]
	if _, ok := tmpl.MatchHeader("HOLDING: HDFC Bank"); !ok {
		t.Error("custom header pattern did not match")
	}
	if tt, ok := tmpl.TypeToken("CR"); !ok || tt != models.TypeBuy {
		t.Error("custom buy token not honored")
	}
	// Column labels inherit the defaults when omitted.
	if _, ok := tmpl.ColumnFor("Quantity"); !ok {
		t.Error("expected default column labels to be inherited")
	}
}

func TestLoadTemplatesRejectsBadPattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	content := `templates:
  - name: broken
    header_pattern: '(['
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadTemplates(path); err == nil {
		t.Error("expected error for invalid header pattern")
	}
}
