package universe

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadFile_Text(t *testing.T) {
	path := writeTempFile(t, "tickers.txt", `
# large caps
AAPL
msft   # trailing comment
brk.b
// slash comment
GOOG

AAPL
`)
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	want := []string{"AAPL", "BRK-B", "GOOG", "MSFT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLoadFile_CSVWithHeader(t *testing.T) {
	path := writeTempFile(t, "tickers.csv", "name,ticker,sector\nApple,AAPL,tech\nMicrosoft,MSFT,tech\n")
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	want := []string{"AAPL", "MSFT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLoadFile_CSVNoHeader(t *testing.T) {
	path := writeTempFile(t, "tickers.csv", "NVDA\nAMD\n")
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	want := []string{"AMD", "NVDA"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLoadFile_YAMLGroups(t *testing.T) {
	path := writeTempFile(t, "tickers.yaml", `
tickers:
  - AAPL
groups:
  semis:
    - NVDA
    - AMD
    - INTC
include:
  - semis
exclude:
  - INTC
`)
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	want := []string{"AAPL", "AMD", "NVDA"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLoadFile_YAMLBareSequence(t *testing.T) {
	path := writeTempFile(t, "tickers.yml", "- aapl\n- msft\n")
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	want := []string{"AAPL", "MSFT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLoadFile_RejectsJunkSymbols(t *testing.T) {
	path := writeTempFile(t, "tickers.txt", "AAPL\nnot a symbol!\nMSFT\n")
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	want := []string{"AAPL", "MSFT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLoadFile_EmptyIsError(t *testing.T) {
	path := writeTempFile(t, "tickers.txt", "# nothing here\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for empty universe")
	}
}
