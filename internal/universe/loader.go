package universe

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/justin-napolitano/finance-index-dashboard/internal/model"
)

// symbolRe accepts exchange symbols including class-share dots and dashes.
var symbolRe = regexp.MustCompile(`^[A-Z0-9.\-_]+$`)

// LoadFile reads a ticker universe from a .txt, .csv, or .yaml file. Symbols
// are cleaned, provider-normalized, deduplicated, and returned sorted.
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tickers file: %w", err)
	}

	var symbols []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		symbols, err = fromCSV(data)
	case ".yaml", ".yml":
		symbols, err = fromYAML(data)
	default:
		// Plain text is the fallback for unknown extensions.
		symbols = fromText(data)
	}
	if err != nil {
		return nil, err
	}

	uniq := dedupe(symbols)
	if len(uniq) == 0 {
		return nil, fmt.Errorf("no valid tickers found in %s", path)
	}
	return uniq, nil
}

// fromText parses one symbol per line, allowing blank lines and comments.
func fromText(data []byte) []string {
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		// Allow trailing comments: "AAPL  # apple"
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		out = append(out, line)
	}
	return out
}

func fromCSV(data []byte) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse tickers csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Find a likely symbol column in the header; fall back to the first
	// column when there is no recognizable header.
	col := -1
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "ticker", "symbol":
			col = i
		}
	}

	var out []string
	rows := records
	if col >= 0 {
		rows = records[1:]
	} else {
		col = 0
	}
	for _, row := range rows {
		if col < len(row) {
			out = append(out, row[col])
		}
	}
	return out, nil
}

// yamlUniverse supports a flat list, a grouped layout with include/exclude,
// or a bare top-level sequence.
type yamlUniverse struct {
	Tickers []string            `yaml:"tickers"`
	Groups  map[string][]string `yaml:"groups"`
	Include []string            `yaml:"include"`
	Exclude []string            `yaml:"exclude"`
}

func fromYAML(data []byte) ([]string, error) {
	var doc yamlUniverse
	if err := yaml.Unmarshal(data, &doc); err != nil {
		// A bare sequence does not decode into the struct form.
		var bare []string
		if seqErr := yaml.Unmarshal(data, &bare); seqErr == nil {
			return bare, nil
		}
		return nil, fmt.Errorf("parse tickers yaml: %w", err)
	}

	out := append([]string(nil), doc.Tickers...)

	excluded := make(map[string]bool, len(doc.Exclude))
	for _, s := range doc.Exclude {
		excluded[model.NormalizeSymbol(s)] = true
	}
	for _, group := range doc.Include {
		for _, s := range doc.Groups[group] {
			if !excluded[model.NormalizeSymbol(s)] {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func dedupe(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	var out []string
	for _, s := range symbols {
		sym := model.NormalizeSymbol(s)
		if sym == "" || !symbolRe.MatchString(sym) || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
