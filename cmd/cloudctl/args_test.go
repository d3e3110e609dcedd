package main

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stuck-lehnert/cloud/internal/config"
)

func memFs(t *testing.T) afero.Fs {
	t.Helper()

	orig := config.AppFs
	fs := afero.NewMemMapFs()
	config.AppFs = fs
	t.Cleanup(func() { config.AppFs = orig })
	return fs
}

func TestParsePairs(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]any
		wantErr string
	}{
		{"empty", nil, map[string]any{}, ""},
		{"values", []string{"name=ada", "teamId=3"}, map[string]any{"name": "ada", "teamId": "3"}, ""},
		{"value with equals", []string{"expr=a=b"}, map[string]any{"expr": "a=b"}, ""},
		{"empty value", []string{"email="}, map[string]any{"email": ""}, ""},
		{"missing equals", []string{"name"}, nil, "expected key=value"},
		{"empty key", []string{" =x"}, nil, "expected key=value"},
		{"duplicate", []string{"a=1", "a=2"}, nil, `"a" given twice`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePairs(tt.pairs)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeData(t *testing.T) {
	fs := memFs(t)
	require.NoError(t, afero.WriteFile(fs, "project.json", []byte(`{"archived": true, "ownerId": "x"}`), 0o644))

	got, err := mergeData([]string{"name=apollo"}, `{"description": "moon", "priority": 2}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "apollo", "description": "moon", "priority": json.Number("2")}, got)

	got, err = mergeData(nil, "@project.json")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"archived": true, "ownerId": "x"}, got)

	_, err = mergeData([]string{"name=a"}, `{"name": "b"}`)
	assert.ErrorContains(t, err, "given twice")

	_, err = mergeData(nil, "@missing.json")
	assert.ErrorContains(t, err, "reading missing.json")

	_, err = mergeData(nil, `{"name":`)
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestParseTargets(t *testing.T) {
	fs := memFs(t)
	require.NoError(t, afero.WriteFile(fs, "targets.json", []byte(`[{"id": 1}, {"id": 2}]`), 0o644))

	got, err := parseTargets("@targets.json")
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": json.Number("1")}, {"id": json.Number("2")}}, got)

	_, err = parseTargets("[]")
	assert.ErrorContains(t, err, "no targets")

	_, err = parseTargets(`{"id": 1}`)
	assert.ErrorContains(t, err, "invalid JSON")
}
