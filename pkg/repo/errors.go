package repo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRepository reports that no repository was found at or above
	// the starting directory. Callers are expected to recover from it;
	// it is not an abort.
	ErrNotRepository = errors.New("not a gitqlite repository (or any of the parent directories)")

	// ErrMissingIdentity reports that user.name or user.email is not
	// configured. Committing aborts before any object is written.
	ErrMissingIdentity = errors.New("author identity unknown: set user.name and user.email")

	// ErrRecursiveInclude reports a cycle in config [include] directives.
	ErrRecursiveInclude = errors.New("recursive config include")
)

// PathOutsideRepositoryError reports an operation on a path that does not
// live under the repository root.
type PathOutsideRepositoryError struct {
	Path string
	Root string
}

func (e *PathOutsideRepositoryError) Error() string {
	return fmt.Sprintf("path %s is outside repository %s", e.Path, e.Root)
}

// IgnoredPathError reports an attempt to stage a path excluded by the
// ignore rules.
type IgnoredPathError struct {
	Path string
}

func (e *IgnoredPathError) Error() string {
	return fmt.Sprintf("path %s is excluded by ignore rules", e.Path)
}

// ConfigKeyError reports a config key that is not of the form
// "section.key".
type ConfigKeyError struct {
	Key string
}

func (e *ConfigKeyError) Error() string {
	return fmt.Sprintf("config key %q does not contain a section", e.Key)
}
