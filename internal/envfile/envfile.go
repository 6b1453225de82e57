// Package envfile models a dotenv-style configuration file as an ordered
// document. Unlike map-based parsers it round-trips comments, blank lines
// and unknown keys byte for byte, so the file stays usable as a shared
// interface with other launch tooling.
package envfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Pair is a single KEY=VALUE entry in document order.
type Pair struct {
	Key   string
	Value string
}

type line struct {
	raw   string // verbatim text for passthrough lines
	key   string
	value string
	pair  bool
}

// Document is the parsed file. Mutations touch only the lines they target;
// everything else is written back unchanged.
type Document struct {
	lines []line
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// Load reads the document at path. A missing file yields an empty document;
// the first Save will create it.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return Parse(string(data)), nil
}

// Parse builds a document from file contents. Lines that are not a valid
// KEY=VALUE pair (comments, blanks, malformed entries) are kept verbatim.
func Parse(data string) *Document {
	doc := New()
	if data == "" {
		return doc
	}
	raw := strings.Split(strings.TrimSuffix(data, "\n"), "\n")
	for _, text := range raw {
		doc.lines = append(doc.lines, parseLine(text))
	}
	return doc
}

func parseLine(text string) line {
	eq := strings.IndexByte(text, '=')
	if eq <= 0 {
		return line{raw: text}
	}
	key := text[:eq]
	if !validKey(key) {
		return line{raw: text}
	}
	return line{key: key, value: text[eq+1:], pair: true}
}

func validKey(key string) bool {
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c == '_':
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return len(key) > 0
}

// Get returns the value of the first entry for key.
func (d *Document) Get(key string) (string, bool) {
	for _, ln := range d.lines {
		if ln.pair && ln.key == key {
			return ln.value, true
		}
	}
	return "", false
}

// Has reports whether key is present with a non-empty value.
func (d *Document) Has(key string) bool {
	v, ok := d.Get(key)
	return ok && strings.TrimSpace(v) != ""
}

// Set updates the first entry for key in place, or appends a new line when
// the key is absent. Later duplicates of the key are dropped so a key the
// tool manages appears exactly once after the next save.
func (d *Document) Set(key, value string) {
	seen := false
	kept := d.lines[:0]
	for _, ln := range d.lines {
		if ln.pair && ln.key == key {
			if seen {
				continue
			}
			ln.value = value
			seen = true
		}
		kept = append(kept, ln)
	}
	d.lines = kept
	if !seen {
		d.lines = append(d.lines, line{key: key, value: value, pair: true})
	}
}

// Unset removes every entry for key and reports whether any existed.
func (d *Document) Unset(key string) bool {
	removed := false
	kept := d.lines[:0]
	for _, ln := range d.lines {
		if ln.pair && ln.key == key {
			removed = true
			continue
		}
		kept = append(kept, ln)
	}
	d.lines = kept
	return removed
}

// Pairs returns every KEY=VALUE entry in document order.
func (d *Document) Pairs() []Pair {
	pairs := make([]Pair, 0, len(d.lines))
	for _, ln := range d.lines {
		if ln.pair {
			pairs = append(pairs, Pair{Key: ln.key, Value: ln.value})
		}
	}
	return pairs
}

// PairsWithPrefix returns the entries whose key starts with prefix, in
// document order.
func (d *Document) PairsWithPrefix(prefix string) []Pair {
	var pairs []Pair
	for _, ln := range d.lines {
		if ln.pair && strings.HasPrefix(ln.key, prefix) {
			pairs = append(pairs, Pair{Key: ln.key, Value: ln.value})
		}
	}
	return pairs
}

// Len returns the number of KEY=VALUE entries.
func (d *Document) Len() int {
	n := 0
	for _, ln := range d.lines {
		if ln.pair {
			n++
		}
	}
	return n
}

// String renders the document exactly as it will be saved.
func (d *Document) String() string {
	var b strings.Builder
	for _, ln := range d.lines {
		if ln.pair {
			b.WriteString(ln.key)
			b.WriteByte('=')
			b.WriteString(ln.value)
		} else {
			b.WriteString(ln.raw)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteTo writes the rendered document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

// Save writes the document to path atomically: the content goes to a temp
// file in the same directory, then replaces the target with a rename.
func (d *Document) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".env-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp env file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := io.WriteString(tmp, d.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write env file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp env file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace env file %s: %w", path, err)
	}
	return nil
}
