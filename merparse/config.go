// Package merparse reads and writes Meraculous config files and plans
// parameter sweeps over them.
package merparse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// MalformedLineError reports a config line that could not be parsed.
type MalformedLineError struct {
	File   string
	Line   int
	Text   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("%s:%d: malformed config line %q: %s", e.File, e.Line, e.Text, e.Reason)
}

// KeyNotFoundError reports a lookup for a parameter the config does not have.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("config has no parameter %q", e.Key)
}

type entry struct {
	key    string   // empty for comments and blank lines
	values []string // nil for comments and blank lines
	raw    string   // verbatim text for comments and blank lines
}

// Config is an ordered view of one Meraculous config file. Parameter order,
// comments and blank lines survive a parse/serialize round trip. Most keys
// hold a single value; lib_seq repeats, one line per read library.
type Config struct {
	entries []entry
	libs    []LibSeq
}

// Parse reads a Meraculous config from r. The name is used in error messages
// only.
func Parse(r io.Reader, name string) (*Config, error) {
	cfg := &Config{}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			cfg.entries = append(cfg.entries, entry{raw: line})
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, &MalformedLineError{
				File:   name,
				Line:   lineNum,
				Text:   line,
				Reason: "parameter has no value",
			}
		}
		key := fields[0]
		if key == "lib_seq" {
			lib, err := ParseLibSeq(fields[1:])
			if err != nil {
				return nil, &MalformedLineError{
					File:   name,
					Line:   lineNum,
					Text:   line,
					Reason: err.Error(),
				}
			}
			cfg.libs = append(cfg.libs, lib)
			cfg.entries = append(cfg.entries, entry{key: key, values: fields[1:]})
			continue
		}
		cfg.entries = append(cfg.entries, entry{key: key, values: fields[1:]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", name, err)
	}
	return cfg, nil
}

// ParseFile parses the config file at path.
func ParseFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path)
}

// Get returns the value of key. For keys whose line carries several fields
// the fields are joined with single spaces. The first occurrence wins.
func (c *Config) Get(key string) (string, error) {
	for _, e := range c.entries {
		if e.key == key {
			return strings.Join(e.values, " "), nil
		}
	}
	return "", &KeyNotFoundError{Key: key}
}

// GetDefault is Get with a fallback for absent keys.
func (c *Config) GetDefault(key, fallback string) string {
	v, err := c.Get(key)
	if err != nil {
		return fallback
	}
	return v
}

// Set overwrites the first occurrence of key, or appends a new parameter
// line if the key is absent.
func (c *Config) Set(key, value string) {
	for i := range c.entries {
		if c.entries[i].key == key {
			c.entries[i].values = []string{value}
			return
		}
	}
	c.entries = append(c.entries, entry{key: key, values: []string{value}})
}

// Has reports whether the config defines key.
func (c *Config) Has(key string) bool {
	_, err := c.Get(key)
	return err == nil
}

// Keys returns the parameter names in file order, repeats included.
func (c *Config) Keys() []string {
	var keys []string
	for _, e := range c.entries {
		if e.key != "" {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Libs returns the parsed lib_seq records in file order.
func (c *Config) Libs() []LibSeq {
	return c.libs
}

// Clone returns a deep copy that can be modified independently.
func (c *Config) Clone() *Config {
	dup := &Config{
		entries: make([]entry, len(c.entries)),
		libs:    make([]LibSeq, len(c.libs)),
	}
	copy(dup.libs, c.libs)
	for i, e := range c.entries {
		dup.entries[i] = entry{key: e.key, raw: e.raw}
		if e.values != nil {
			dup.entries[i].values = append([]string(nil), e.values...)
		}
	}
	return dup
}

// WriteTo serializes the config back to the Meraculous text format.
func (c *Config) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, e := range c.entries {
		var line string
		if e.key == "" {
			line = e.raw
		} else {
			line = e.key + " " + strings.Join(e.values, " ")
		}
		written, err := fmt.Fprintln(w, line)
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (c *Config) String() string {
	var sb strings.Builder
	c.WriteTo(&sb) //nolint:errcheck // strings.Builder never fails
	return sb.String()
}

// WriteFile serializes the config to path, truncating any existing file.
func (c *Config) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
