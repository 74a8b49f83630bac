package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorTypes(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		errorType ErrorType
		isIO      bool
		isParse   bool
		isValid   bool
	}{
		{"io", NewIOError("cannot read", fs.ErrPermission), ErrorTypeIO, true, false, false},
		{"parse", NewParseError("bad yaml", nil), ErrorTypeParse, false, true, false},
		{"validation", NewValidationError("missing cron", nil), ErrorTypeValidation, false, false, true},
		{"wrapped_validation", fmt.Errorf("load: %w", NewValidationError("x", nil)), ErrorTypeValidation, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isIO, IsIOError(tt.err))
			assert.Equal(t, tt.isParse, IsParseError(tt.err))
			assert.Equal(t, tt.isValid, IsValidationError(tt.err))

			errorType, ok := TypeOf(tt.err)
			require.True(t, ok)
			assert.Equal(t, tt.errorType, errorType)
		})
	}
}

func TestTypeOfPlainError(t *testing.T) {
	_, ok := TypeOf(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsIOError(nil))
}

func TestDomainErrorContext(t *testing.T) {
	err := NewParseError("failed to decode unit", errors.New("line 3: mapping values are not allowed")).
		WithPath("/etc/minit.d/web.yaml").
		WithChunk(2).
		WithField("kind")

	assert.Equal(t, "/etc/minit.d/web.yaml", err.Path())
	assert.Equal(t, 2, err.Chunk())
	assert.Equal(t, "kind", err.Field())
	assert.Equal(t,
		"parse: failed to decode unit (path: /etc/minit.d/web.yaml, document: 2) [field: kind]: line 3: mapping values are not allowed",
		err.Error())
}

func TestDomainErrorWithoutContext(t *testing.T) {
	err := NewValidationError("unit name is required", nil)

	assert.Equal(t, "", err.Path())
	assert.Equal(t, 0, err.Chunk())
	assert.Equal(t, "", err.Field())
	assert.Equal(t, "validation: unit name is required", err.Error())
}

func TestDomainErrorIsAndUnwrap(t *testing.T) {
	cause := fs.ErrNotExist
	err := NewIOError("failed to list unit directory", cause)

	assert.True(t, errors.Is(err, &DomainError{Type: ErrorTypeIO}))
	assert.False(t, errors.Is(err, &DomainError{Type: ErrorTypeParse}))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, cause, errors.Unwrap(err))
}
