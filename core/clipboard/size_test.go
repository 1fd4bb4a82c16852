package clipboard_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clipsync/core/clipboard"
)

func blobOf(n int) clipboard.Blob {
	return clipboard.Blob{Data: make([]byte, n)}
}

func TestComputeSizeMB(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		blobs []clipboard.Blob
		want  string
	}{
		{name: "nil", blobs: nil, want: "0.0000"},
		{name: "empty", blobs: []clipboard.Blob{}, want: "0.0000"},
		{name: "exact megabytes", blobs: []clipboard.Blob{blobOf(1048576), blobOf(2097152)}, want: "3.0000"},
		{name: "half megabyte", blobs: []clipboard.Blob{blobOf(524288)}, want: "0.5000"},
		{name: "truncates", blobs: []clipboard.Blob{blobOf(123456)}, want: "0.1177"},
		{name: "below resolution", blobs: []clipboard.Blob{blobOf(1)}, want: "0.0000"},
		{name: "one byte short", blobs: []clipboard.Blob{blobOf(1048575)}, want: "0.9999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, clipboard.ComputeSizeMB(tt.blobs).String())
		})
	}
}

func TestSizeMBJSON(t *testing.T) {
	t.Parallel()

	size := clipboard.ComputeSizeMB([]clipboard.Blob{blobOf(1048576), blobOf(2097152)})
	data, err := json.Marshal(map[string]clipboard.SizeMB{"sizeMB": size})
	require.NoError(t, err)
	assert.JSONEq(t, `{"sizeMB":3}`, string(data))
	assert.Contains(t, string(data), "3.0000")
	assert.InDelta(t, 3.0, size.Float(), 1e-9)

	var back clipboard.SizeMB
	require.NoError(t, json.Unmarshal([]byte("0.1177"), &back))
	assert.Equal(t, "0.1177", back.String())

	assert.Error(t, json.Unmarshal([]byte(`"big"`), &back))
}
