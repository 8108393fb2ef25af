package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/rezonia/fatturapa-exporter/internal/processor"
)

// collectFiles expands globs and directories into the files matching exts
func collectFiles(args []string, exts ...string) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", arg)
			}
			if !info.IsDir() {
				files = append(files, arg)
				continue
			}
			matches = []string{arg}
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				continue
			}
			if !info.IsDir() {
				if hasExt(match, exts) {
					files = append(files, match)
				}
				continue
			}
			err = filepath.Walk(match, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && hasExt(path, exts) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return files, nil
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// loadItems decodes every invoice in files; a file may hold one invoice or an array.
// Unreadable files become failed items.
func loadItems(files []string) []processor.Item {
	var items []processor.Item
	for _, file := range files {
		printVerbose("Reading: %s\n", file)

		data, err := os.ReadFile(file)
		if err != nil {
			items = append(items, processor.Item{Source: file, Err: fmt.Errorf("failed to read file: %w", err)})
			continue
		}

		decoded, err := processor.DecodeItems(data, file)
		if err != nil {
			items = append(items, processor.Item{Source: file, Err: err})
			continue
		}
		items = append(items, decoded...)
	}
	return items
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
