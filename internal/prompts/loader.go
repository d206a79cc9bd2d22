// Package prompts holds the LLM prompt templates used by the tailoring stages.
// Templates are JSON files of key -> text, embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// placeholder matches {{.Key}}.
var placeholder = regexp.MustCompile(`\{\{\.([A-Za-z]+)\}\}`)

// library is every embedded file parsed once, keyed by filename then prompt key.
var library = sync.OnceValues(func() (map[string]map[string]string, error) {
	names, err := fs.Glob(promptFiles, "*.json")
	if err != nil {
		return nil, err
	}
	lib := make(map[string]map[string]string, len(names))
	for _, name := range names {
		data, err := promptFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var entries map[string]string
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		lib[name] = entries
	}
	return lib, nil
})

func file(filename string) (map[string]string, error) {
	lib, err := library()
	if err != nil {
		return nil, err
	}
	entries, ok := lib[filename]
	if !ok {
		return nil, fmt.Errorf("prompt file %s is not embedded", filename)
	}
	return entries, nil
}

// Get retrieves a prompt by filename and key (e.g. "analysis.json", "extract-requirements").
func Get(filename, key string) (string, error) {
	entries, err := file(filename)
	if err != nil {
		return "", err
	}
	prompt, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for prompts that must exist. A miss is a programming error.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Fill substitutes {{.Key}} placeholders from data in one pass. Placeholders without
// a value become empty, so optional sections disappear.
func Fill(template string, data map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		return data[placeholder.FindStringSubmatch(m)[1]]
	})
}

// Render loads a prompt and fills it from data.
func Render(filename, key string, data map[string]string) string {
	return Fill(MustGet(filename, key), data)
}

// Keys returns the prompt keys in a file, sorted.
func Keys(filename string) ([]string, error) {
	entries, err := file(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
