package site

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// PageExtension marks the files DiscoverPages treats as pages.
const PageExtension = ".html"

// DiscoverPages returns the slash-separated names of every page below the
// source root, sorted. Directories starting with "_" or "." are skipped, and
// so is the destination when it lies inside the source.
func (s *Site) DiscoverPages() ([]string, error) {
	var pages []string

	err := filepath.WalkDir(s.source, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if p == s.source {
				return nil
			}
			if p == s.destination || isPrivate(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if isPrivate(d.Name()) || !strings.EqualFold(filepath.Ext(d.Name()), PageExtension) {
			return nil
		}

		rel, err := filepath.Rel(s.source, p)
		if err != nil {
			return err
		}
		pages = append(pages, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover pages: %w", err)
	}

	slices.Sort(pages)
	return pages, nil
}

// LoadPages reads the named pages from the source tree and returns their
// contents keyed by name.
func (s *Site) LoadPages(names []string) (map[string]string, error) {
	pages := make(map[string]string, len(names))
	for _, name := range names {
		clean := path.Clean(filepath.ToSlash(name))
		if !filepath.IsLocal(filepath.FromSlash(clean)) {
			return nil, fmt.Errorf("page %q is not below the source root", name)
		}

		data, err := os.ReadFile(filepath.Join(s.source, filepath.FromSlash(clean)))
		if err != nil {
			return nil, fmt.Errorf("failed to read page %s: %w", clean, err)
		}
		pages[clean] = string(data)
	}
	return pages, nil
}

func isPrivate(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}
