package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// Scope selects which configuration layer a lookup or write targets.
// Lookups with ScopeAll merge the layers with local winning over global
// winning over system.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeSystem
	ScopeGlobal
	ScopeLocal
)

const systemConfigPath = "/etc/gitconfig"

// systemConfigEnv overrides the system config location, mainly so tests
// do not depend on the machine's /etc/gitconfig.
const systemConfigEnv = "GITQLITE_SYSTEM_CONFIG"

// configValues maps "section" -> "key" -> value for one loaded layer.
type configValues map[string]map[string]string

func (c configValues) lookup(section, key string) (string, bool) {
	if m, ok := c[section]; ok {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	return "", false
}

// ConfigGet resolves key, of the form "section.key", against the layered
// configuration. It returns the value, the path of the file that supplied
// it, and whether the key was found at all. Files are re-read on every
// call so external edits are always visible.
func (r *Repo) ConfigGet(key string, scope Scope) (string, string, bool, error) {
	section, name, err := splitConfigKey(key)
	if err != nil {
		return "", "", false, err
	}

	var paths []string
	switch scope {
	case ScopeSystem:
		paths = []string{resolveSystemConfigPath()}
	case ScopeGlobal:
		paths = []string{globalConfigPath()}
	case ScopeLocal:
		paths = []string{r.localConfigPath()}
	default:
		// Highest precedence first.
		paths = []string{r.localConfigPath(), globalConfigPath(), resolveSystemConfigPath()}
	}

	for _, p := range paths {
		values, err := loadConfigFile(p)
		if err != nil {
			return "", "", false, err
		}
		if v, ok := values.lookup(section, name); ok {
			return v, p, true, nil
		}
	}
	return "", "", false, nil
}

// ConfigSet writes key = value into the file owning the given scope.
// ScopeAll writes to the local file, matching the behavior of git's
// plain "config key value". The target file is created if missing.
func (r *Repo) ConfigSet(key, value string, scope Scope) error {
	section, name, err := splitConfigKey(key)
	if err != nil {
		return err
	}

	var path string
	switch scope {
	case ScopeSystem:
		path = resolveSystemConfigPath()
	case ScopeGlobal:
		path = globalConfigPath()
	default:
		path = r.localConfigPath()
	}

	f, err := ini.LooseLoad(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	f.Section(section).Key(name).SetValue(value)
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (r *Repo) localConfigPath() string {
	return filepath.Join(r.HomeDir, "config")
}

func globalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gitconfig")
}

func resolveSystemConfigPath() string {
	if p := os.Getenv(systemConfigEnv); p != "" {
		return p
	}
	return systemConfigPath
}

func splitConfigKey(key string) (section, name string, err error) {
	section, name, ok := strings.Cut(key, ".")
	if !ok || section == "" || name == "" {
		return "", "", &ConfigKeyError{Key: key}
	}
	return section, name, nil
}

// loadConfigFile reads one configuration file and flattens it, following
// [include] sections depth-first at the point they appear. A missing file
// is simply an empty layer. The visited set caps the include chain and
// turns a cycle into ErrRecursiveInclude instead of unbounded recursion.
func loadConfigFile(path string) (configValues, error) {
	values := make(configValues)
	if path == "" {
		return values, nil
	}
	visited := make(map[string]struct{})
	if err := loadConfigInto(values, visited, path); err != nil {
		return nil, err
	}
	return values, nil
}

func loadConfigInto(values configValues, visited map[string]struct{}, path string) error {
	if _, seen := visited[path]; seen {
		return fmt.Errorf("config: %s: %w", path, ErrRecursiveInclude)
	}
	visited[path] = struct{}{}

	f, err := ini.LooseLoad(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	for _, sec := range f.Sections() {
		name := sec.Name()
		if name == ini.DefaultSection {
			name = ""
		}
		if name == "include" {
			if inc := sec.Key("path").String(); inc != "" {
				if !filepath.IsAbs(inc) {
					inc = filepath.Join(filepath.Dir(path), inc)
				}
				if err := loadConfigInto(values, visited, inc); err != nil {
					return err
				}
			}
			continue
		}
		m := values[name]
		if m == nil {
			m = make(map[string]string)
			values[name] = m
		}
		for _, k := range sec.Keys() {
			m[k.Name()] = k.Value()
		}
	}
	return nil
}

// writeDefaultConfig seeds a fresh repository's local config file.
func writeDefaultConfig(path string) error {
	f := ini.Empty()
	core := f.Section("core")
	core.Key("repositoryformatversion").SetValue("0")
	core.Key("filemode").SetValue("false")
	core.Key("bare").SetValue("false")
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
