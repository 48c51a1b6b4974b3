package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffSize is how many leading bytes are used for charset detection.
const sniffSize = 1 << 16

// ReadCSV parses comma, semicolon or tab separated text.
// Input is decoded to UTF-8. A UTF-8 BOM is stripped and input that is not
// valid UTF-8 goes through charset detection.
func ReadCSV(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	text, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding csv: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}

	return fromRecords(records)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func decode(raw []byte) ([]byte, error) {
	if text := bytes.TrimPrefix(raw, utf8BOM); utf8.Valid(text) {
		return text, nil
	}

	sniff := raw
	if len(sniff) > sniffSize {
		sniff = sniff[:sniffSize]
	}

	// UTF-16 is picked up from its BOM; anything else falls back to windows-1252.
	enc, _, _ := charset.DetermineEncoding(sniff, "text/csv")
	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), raw)
	return out, err
}

// detectDelimiter picks the most frequent of ',', ';' and '\t' in the
// first line, defaulting to ','.
func detectDelimiter(text []byte) rune {
	line := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}

	best, bestCount := ',', 0
	for _, c := range []rune{',', ';', '\t'} {
		if n := bytes.Count(line, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}

	return best
}
