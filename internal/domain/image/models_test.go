package image

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:  "valid name",
			input: "node42_1724500000.png",
		},
		{
			name:    "empty name",
			input:   "",
			wantErr: ErrInvalidName,
		},
		{
			name:    "path separator",
			input:   "../escape.png",
			wantErr: ErrInvalidName,
		},
		{
			name:    "backslash",
			input:   "a\\b.png",
			wantErr: ErrInvalidName,
		},
		{
			name:    "too long",
			input:   strings.Repeat("x", MaxNameLen+1),
			wantErr: ErrInvalidName,
		},
		{
			name:    "invalid utf8",
			input:   string([]byte{0xff, 0xfe}),
			wantErr: ErrInvalidName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRecordValidate(t *testing.T) {
	valid := func() *Record {
		return &Record{
			Name:      "result.png",
			Width:     512,
			Height:    512,
			Origin:    OriginInternal,
			Category:  CategoryGeneral,
			NodeID:    "node-1",
			SessionID: "session-1",
		}
	}

	t.Run("valid record", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("unknown origin", func(t *testing.T) {
		r := valid()
		r.Origin = "martian"
		assert.ErrorIs(t, r.Validate(), ErrInvalidOrigin)
	})

	t.Run("unknown category", func(t *testing.T) {
		r := valid()
		r.Category = "thumbnail"
		assert.ErrorIs(t, r.Validate(), ErrInvalidCategory)
	})

	t.Run("zero dimensions", func(t *testing.T) {
		r := valid()
		r.Width = 0
		assert.ErrorIs(t, r.Validate(), ErrEmptyImage)
	})

	t.Run("malformed metadata", func(t *testing.T) {
		r := valid()
		r.Metadata = json.RawMessage(`{"unterminated`)
		assert.ErrorIs(t, r.Validate(), ErrInvalidMetadata)
	})

	t.Run("valid metadata", func(t *testing.T) {
		r := valid()
		r.Metadata = json.RawMessage(`{"seed": 1234, "model": "sd-1.5"}`)
		assert.NoError(t, r.Validate())
	})
}

func TestCreateRequestValidate(t *testing.T) {
	req := &CreateRequest{
		Origin:   OriginInternal,
		Category: CategoryMask,
	}
	require.NoError(t, req.Validate())

	req.Category = ""
	assert.ErrorIs(t, req.Validate(), ErrInvalidCategory)
}
