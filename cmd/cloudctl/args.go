package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/stuck-lehnert/cloud/internal/config"
)

// parsePairs turns key=value arguments into a map. Values stay strings and
// are coerced by the resource; an empty value becomes NULL.
func parsePairs(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid pair %q, expected key=value", pair)
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("key %q given twice", key)
		}
		out[key] = value
	}
	return out, nil
}

// readJSON returns the text of a JSON argument. A leading @ names a file.
func readJSON(arg string) ([]byte, error) {
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		data, err := afero.ReadFile(config.AppFs, path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return data, nil
	}
	return []byte(arg), nil
}

func decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// mergeData combines key=value pairs with an optional JSON object.
func mergeData(pairs []string, jsonArg string) (map[string]any, error) {
	data, err := parsePairs(pairs)
	if err != nil {
		return nil, err
	}
	if jsonArg == "" {
		return data, nil
	}

	raw, err := readJSON(jsonArg)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := decode(raw, &obj); err != nil {
		return nil, err
	}
	for k, v := range obj {
		if _, dup := data[k]; dup {
			return nil, fmt.Errorf("key %q given twice", k)
		}
		data[k] = v
	}
	return data, nil
}

// parseTargets reads a JSON array of filter objects for batch commands.
func parseTargets(arg string) ([]map[string]any, error) {
	raw, err := readJSON(arg)
	if err != nil {
		return nil, err
	}
	var targets []map[string]any
	if err := decode(raw, &targets); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets given")
	}
	return targets, nil
}
