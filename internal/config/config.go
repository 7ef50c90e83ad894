// Package config finds and decodes stylint configuration files.
//
// stylint.toml is preferred; .stylint.yaml and .stylint.yml are accepted. The
// nearest file found walking up from the lint target wins.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"stylint/internal/lint"
)

const (
	TOMLName = "stylint.toml"

	ExtendsRecommended = "recommended"
	ExtendsNone        = "none"
)

// Names lists the recognised file names in lookup order.
var Names = []string{TOMLName, ".stylint.yaml", ".stylint.yml"}

var (
	ErrBadExtends  = errors.New(`extends must be "recommended" or "none"`)
	ErrUnknownKey  = errors.New("unknown configuration key")
	ErrBadOverride = errors.New("malformed rule override")
)

// File is a decoded configuration file.
type File struct {
	Extends        string            `toml:"extends" yaml:"extends"`
	Rules          map[string]string `toml:"rules" yaml:"rules"`
	Ignore         []string          `toml:"ignore" yaml:"ignore"`
	MaxDiagnostics int               `toml:"max_diagnostics" yaml:"max_diagnostics"`

	// Path is where the file was read from; empty for the built-in default.
	Path string `toml:"-" yaml:"-"`
}

// Default is the configuration used when no file is found.
func Default() *File {
	return &File{Extends: ExtendsRecommended}
}

// Find walks up from startDir to locate a configuration file.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		for _, name := range Names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest configuration file, or Default when none exists.
func Discover(startDir string) (*File, error) {
	p, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(p)
}

// Load decodes the file at p, choosing the format by extension.
func Load(p string) (*File, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var f *File
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		f, err = decodeYAML(data)
	default:
		f, err = decodeTOML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	f.Path = p
	return f, nil
}

func decodeTOML(data []byte) (*File, error) {
	f := Default()
	meta, err := toml.Decode(string(data), f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}
	return f, nil
}

func decodeYAML(data []byte) (*File, error) {
	f := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		if strings.Contains(err.Error(), "not found in type") {
			return nil, fmt.Errorf("%w: %v", ErrUnknownKey, err)
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return f, nil
}

func (f *File) validate() error {
	f.Extends = strings.ToLower(strings.TrimSpace(f.Extends))
	switch f.Extends {
	case "":
		f.Extends = ExtendsRecommended
	case ExtendsRecommended, ExtendsNone:
	default:
		return fmt.Errorf("%w, got %q", ErrBadExtends, f.Extends)
	}
	if f.MaxDiagnostics < 0 {
		return fmt.Errorf("max_diagnostics must not be negative, got %d", f.MaxDiagnostics)
	}
	for _, pattern := range f.Ignore {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("ignore pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// Selection turns the file plus command-line overrides ("id" or
// "id=severity") into the engine's rule selection. Overrides apply last.
func (f *File) Selection(overrides []string) (lint.Selection, error) {
	sel := lint.Selection{Recommended: f.Extends != ExtendsNone}
	ids := make([]string, 0, len(f.Rules))
	for id := range f.Rules {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		sel.Settings = append(sel.Settings, lint.Setting{ID: id, Severity: f.Rules[id]})
	}
	var errs []error
	for _, o := range overrides {
		s, err := ParseOverride(o)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sel.Settings = append(sel.Settings, s)
	}
	return sel, errors.Join(errs...)
}

// ParseOverride reads one --rule flag value.
func ParseOverride(s string) (lint.Setting, error) {
	id, sev, _ := strings.Cut(s, "=")
	id = strings.TrimSpace(id)
	if id == "" {
		return lint.Setting{}, fmt.Errorf("%w %q", ErrBadOverride, s)
	}
	return lint.Setting{ID: id, Severity: strings.TrimSpace(sev)}, nil
}

// Ignored reports whether a slash-separated path relative to the config
// root matches one of the ignore patterns. A pattern matches the full path,
// the base name, or, when it ends in "/**", everything below a directory.
func (f *File) Ignored(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range f.Ignore {
		if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
			if rel == dir || strings.HasPrefix(rel, dir+"/") {
				return true
			}
			continue
		}
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, path.Base(rel)); ok {
			return true
		}
	}
	return false
}

// Root is the directory ignore patterns are relative to.
func (f *File) Root() string {
	if f.Path == "" {
		return ""
	}
	if abs, err := filepath.Abs(f.Path); err == nil {
		return filepath.Dir(abs)
	}
	return filepath.Dir(f.Path)
}
