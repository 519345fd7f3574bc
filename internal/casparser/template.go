package casparser

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"casfolio/cas-import/internal/models"

	"gopkg.in/yaml.v3"
)

// Template describes one issuer's statement layout: how holding headers look
// and which labels its tables use for each column. Real CAS formats vary by
// depository and broker, so templates are data, not code; extra templates
// load from YAML files listed in configuration.
type Template struct {
	Name string `yaml:"name"`

	// HeaderPattern matches a holding header row. Named capture groups
	// "name", "isin" and "symbol" feed the section fields; only "name" is
	// required.
	HeaderPattern string `yaml:"header_pattern"`

	// ColumnLabels maps a column slot to the header labels that identify it.
	ColumnLabels map[models.ColumnName][]string `yaml:"column_labels"`

	// BuyTokens and SellTokens are the explicit transaction-type words.
	BuyTokens  []string `yaml:"buy_tokens"`
	SellTokens []string `yaml:"sell_tokens"`

	headerRe *regexp.Regexp
}

// HeaderMatch is the outcome of matching a holding header row.
type HeaderMatch struct {
	Name   string
	Symbol string
	ISIN   string
}

// Compile validates the template and compiles its header pattern.
func (t *Template) Compile() error {
	if t.Name == "" {
		return fmt.Errorf("template without a name")
	}
	if t.HeaderPattern == "" {
		return fmt.Errorf("template %q has no header_pattern", t.Name)
	}
	re, err := regexp.Compile(t.HeaderPattern)
	if err != nil {
		return fmt.Errorf("template %q: bad header_pattern: %w", t.Name, err)
	}
	t.headerRe = re
	return nil
}

// MatchHeader tests a row's text against the header pattern. The boolean is
// false when the row is not a holding header under this template.
func (t *Template) MatchHeader(text string) (HeaderMatch, bool) {
	if t.headerRe == nil {
		return HeaderMatch{}, false
	}
	m := t.headerRe.FindStringSubmatch(text)
	if m == nil {
		return HeaderMatch{}, false
	}

	var match HeaderMatch
	for i, group := range t.headerRe.SubexpNames() {
		if i == 0 || i >= len(m) {
			continue
		}
		switch group {
		case "name":
			match.Name = strings.TrimSpace(m[i])
		case "symbol":
			match.Symbol = strings.TrimSpace(m[i])
		case "isin":
			match.ISIN = strings.TrimSpace(m[i])
		}
	}

	if match.Name == "" {
		return HeaderMatch{}, false
	}
	if match.Symbol == "" {
		// Without an explicit ticker the first word of the asset name is
		// the best stable identifier the statement offers.
		match.Symbol = strings.ToUpper(strings.Fields(match.Name)[0])
	}
	return match, true
}

// ColumnFor reports which column slot a header label belongs to.
func (t *Template) ColumnFor(label string) (models.ColumnName, bool) {
	needle := strings.ToLower(strings.TrimSpace(label))
	for name, labels := range t.ColumnLabels {
		for _, l := range labels {
			if needle == strings.ToLower(l) {
				return name, true
			}
		}
	}
	return "", false
}

// TypeToken maps an explicit transaction-type word to a direction.
func (t *Template) TypeToken(token string) (models.TransactionType, bool) {
	needle := strings.ToUpper(strings.TrimSpace(token))
	for _, b := range t.BuyTokens {
		if needle == strings.ToUpper(b) {
			return models.TypeBuy, true
		}
	}
	for _, s := range t.SellTokens {
		if needle == strings.ToUpper(s) {
			return models.TypeSell, true
		}
	}
	return models.TypeOther, false
}

// defaultColumnLabels covers the vocabulary common to CDSL and NSDL style
// statements.
func defaultColumnLabels() map[models.ColumnName][]string {
	return map[models.ColumnName][]string{
		models.ColumnDate:        {"Date", "Txn Date", "Transaction Date", "Trade Date"},
		models.ColumnDescription: {"Description", "Particulars", "Narration", "Transaction Details"},
		models.ColumnType:        {"Type", "Txn Type", "Transaction Type", "Buy/Sell"},
		models.ColumnQuantity:    {"Quantity", "Qty", "Units", "Shares"},
		models.ColumnPrice:       {"Price", "Rate", "NAV", "Price Per Unit"},
		models.ColumnBalance:     {"Balance", "Closing Balance", "Cumulative Units", "Holding"},
	}
}

var defaultBuyTokens = []string{"BUY", "PURCHASE", "BOUGHT", "SIP"}
var defaultSellTokens = []string{"SELL", "REDEMPTION", "SOLD", "REDEEM"}

// BuiltinTemplates returns the templates that ship with the tool. They are
// deliberately generic: an ISIN-anchored header and an "ASSET:"-labelled
// header, which between them cover the common depository layouts.
func BuiltinTemplates() []Template {
	templates := []Template{
		{
			Name:          "isin-header",
			HeaderPattern: `^(?P<name>.+?)\s*(?:[-—–:]\s*)?ISIN[:\s]+(?P<isin>[A-Z]{2}[0-9A-Z]{9}[0-9])\b`,
			ColumnLabels:  defaultColumnLabels(),
			BuyTokens:     defaultBuyTokens,
			SellTokens:    defaultSellTokens,
		},
		{
			Name:          "asset-header",
			HeaderPattern: `^ASSET[:\s]+(?P<name>[^()]+?)(?:\s*\((?P<symbol>[A-Z0-9.&-]+)\))?\s*$`,
			ColumnLabels:  defaultColumnLabels(),
			BuyTokens:     defaultBuyTokens,
			SellTokens:    defaultSellTokens,
		},
	}
	for i := range templates {
		// Built-ins are static; a compile failure here is a programming
		// error, surfaced at first use in tests.
		if err := templates[i].Compile(); err != nil {
			panic(err)
		}
	}
	return templates
}

// templateFile is the on-disk YAML shape for extra templates.
type templateFile struct {
	Templates []Template `yaml:"templates"`
}

// LoadTemplates reads additional issuer templates from a YAML file.
// Templates missing column labels or type tokens inherit the defaults.
func LoadTemplates(path string) ([]Template, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- template paths come from user configuration
	if err != nil {
		return nil, fmt.Errorf("reading template file %s: %w", path, err)
	}

	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing template file %s: %w", path, err)
	}

	for i := range file.Templates {
		t := &file.Templates[i]
		if t.ColumnLabels == nil {
			t.ColumnLabels = defaultColumnLabels()
		}
		if len(t.BuyTokens) == 0 {
			t.BuyTokens = defaultBuyTokens
		}
		if len(t.SellTokens) == 0 {
			t.SellTokens = defaultSellTokens
		}
		if err := t.Compile(); err != nil {
			return nil, err
		}
	}
	return file.Templates, nil
}
