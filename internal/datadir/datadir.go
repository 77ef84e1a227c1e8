// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package datadir reads and publishes a site's data directory: site.json,
// concerts.json and one pages/<name>.json per page.
package datadir

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"sitecms/internal/persist"
)

// ManifestFile is the file name of the published pages manifest.
const ManifestFile = persist.KeyManifest + ".json"

// PageNames lists the page documents under dir/pages, sorted by name.
func PageNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(dir, "pages"))
	if err != nil {
		return nil, fmt.Errorf("read pages: %w", err)
	}
	var names []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// WriteManifest writes the JSON array of page names to dir.
func WriteManifest(dir string, names []string) error {
	if names == nil {
		names = []string{}
	}
	body, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), body, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Publish copies the data directory src to dst and writes the pages
// manifest next to it, so editors loading from the published site can
// discover every page. It returns the page names.
func Publish(src, dst string) ([]string, error) {
	names, err := PageNames(src)
	if err != nil {
		return nil, err
	}
	if err := copyTree(src, dst); err != nil {
		return nil, fmt.Errorf("copy %s: %w", src, err)
	}
	if err := WriteManifest(dst, names); err != nil {
		return nil, err
	}
	return names, nil
}

// copyTree copies every file under src to dst, overwriting existing files.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}

// ReadBatch loads every document of dir into a save batch: site first,
// then concerts when present, then the pages by name.
func ReadBatch(dir string) (*persist.Batch, error) {
	batch := persist.NewBatch()

	add := func(key, file string, required bool) error {
		raw, err := os.ReadFile(file)
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}
		if !json.Valid(raw) {
			return fmt.Errorf("read %s: invalid JSON", key)
		}
		batch.Put(key, raw)
		return nil
	}

	if err := add(persist.KeySite, filepath.Join(dir, "site.json"), true); err != nil {
		return nil, err
	}
	if err := add(persist.KeyConcerts, filepath.Join(dir, "concerts.json"), false); err != nil {
		return nil, err
	}

	names, err := PageNames(dir)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		key := persist.PageKey(name)
		if !persist.ValidKey(key) {
			return nil, &persist.KeyError{Key: key}
		}
		if err := add(key, filepath.Join(dir, "pages", name+".json"), true); err != nil {
			return nil, err
		}
	}
	return batch, nil
}
