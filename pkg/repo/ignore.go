package repo

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ignoreFileName is the per-directory rule file.
const ignoreFileName = ".gitignore"

// IgnoreRule is one parsed rule line: an exclude or a negate pattern.
// Literal rules (escaped with a leading backslash) match by exact path
// instead of glob expansion.
type IgnoreRule struct {
	Pattern string
	Negate  bool
	Literal bool
}

// Ignore holds the scoped ignore rules of a repository: every rule file
// found under the root, keyed by its owning directory. Rules in a closer
// directory fully shadow rules farther up for the subtree they govern.
type Ignore struct {
	root   string
	scoped map[string][]IgnoreRule
}

// parseIgnoreLine parses one rule line. ok is false for blank lines and
// comments.
func parseIgnoreLine(line string) (rule IgnoreRule, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return IgnoreRule{}, false
	}
	switch line[0] {
	case '#':
		return IgnoreRule{}, false
	case '!':
		return IgnoreRule{Pattern: line[1:], Negate: true}, true
	case '\\':
		return IgnoreRule{Pattern: line[1:], Literal: true}, true
	default:
		return IgnoreRule{Pattern: line}, true
	}
}

// ParseIgnoreRules reads an ordered rule list from one rule file.
func ParseIgnoreRules(r io.Reader) ([]IgnoreRule, error) {
	var rules []IgnoreRule
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if rule, ok := parseIgnoreLine(scanner.Text()); ok {
			rules = append(rules, rule)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ignore rules: %w", err)
	}
	return rules, nil
}

// LoadIgnore discovers every rule file under root with a full tree walk
// (explicit stack, no call recursion) and parses each into its directory's
// rule list.
func LoadIgnore(root string) (*Ignore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("load ignore rules: %w", err)
	}

	ig := &Ignore{root: abs, scoped: make(map[string][]IgnoreRule)}

	stack := []string{abs}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f, err := os.Open(filepath.Join(dir, ignoreFileName)); err == nil {
			rules, err := ParseIgnoreRules(f)
			f.Close()
			if err != nil {
				return nil, err
			}
			ig.scoped[dir] = rules
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("load ignore rules: %w", err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			if entry.Name() == DirName || entry.Name() == ".git" {
				continue
			}
			stack = append(stack, filepath.Join(dir, entry.Name()))
		}
	}

	return ig, nil
}

// ShouldIgnore reports whether target is excluded. The nearest ancestor
// directory that owns a rule file decides alone: its rules are evaluated
// last-defined first, and the first rule whose expansion covers the target
// settles the outcome. When that directory's rules say nothing about the
// target, farther directories are not consulted and the default is "not
// ignored".
func (ig *Ignore) ShouldIgnore(target string) bool {
	abs, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	abs = filepath.Clean(abs)

	for dir := filepath.Dir(abs); ; dir = filepath.Dir(dir) {
		if rules, ok := ig.scoped[dir]; ok {
			if decision, decided := evalIgnoreRules(dir, rules, abs); decided {
				return decision
			}
			return false
		}
		if dir == ig.root || dir == filepath.Dir(dir) {
			return false
		}
	}
}

// evalIgnoreRules applies one directory's rule list to target, in reverse
// definition order. Malformed patterns are skipped with a diagnostic.
func evalIgnoreRules(dir string, rules []IgnoreRule, target string) (ignored, decided bool) {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false, false
	}
	rel = filepath.ToSlash(rel)

	for i := len(rules) - 1; i >= 0; i-- {
		rule := rules[i]

		if rule.Literal {
			if pathCovers(rule.Pattern, rel) {
				return !rule.Negate, true
			}
			continue
		}

		matched, err := matchIgnorePattern(rule.Pattern, rel)
		if err != nil {
			slog.Warn("skipping malformed ignore pattern",
				"dir", dir, "pattern", rule.Pattern, "err", err)
			continue
		}
		if matched {
			return !rule.Negate, true
		}
	}
	return false, false
}

// matchIgnorePattern matches one glob pattern against a slash-separated
// path relative to the pattern's owning directory. A pattern without a
// slash matches at any depth; a pattern containing one is anchored at the
// owning directory. Matching a directory covers everything under it.
func matchIgnorePattern(pattern, rel string) (bool, error) {
	pattern = strings.TrimSuffix(pattern, "/")
	if pattern == "" {
		return false, nil
	}
	if !strings.Contains(pattern, "/") {
		pattern = "**/" + pattern
	}
	if ok, err := doublestar.Match(pattern, rel); err != nil || ok {
		return ok, err
	}
	return doublestar.Match(pattern+"/**", rel)
}

// pathCovers reports whether the slash-separated rel equals p or lives
// under it.
func pathCovers(p, rel string) bool {
	return rel == p || strings.HasPrefix(rel, p+"/")
}
