package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/tallycheck/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestAssumptionError(t *testing.T) {
	t.Run("message with line", func(t *testing.T) {
		err := pkgerrors.NewAssumptionError("final-piles", pkgerrors.KindUniqueness,
			"duplicate vote in ballot", "000001-00-0001, 1) C01,C01")
		assert.Equal(t,
			`final-piles: uniqueness assumption violated: duplicate vote in ballot (line "000001-00-0001, 1) C01,C01")`,
			err.Error())
	})

	t.Run("message without line", func(t *testing.T) {
		err := pkgerrors.NewAssumptionError("", pkgerrors.KindStructure, "candidate section count != 1", "")
		assert.Equal(t, "structure assumption violated: candidate section count != 1", err.Error())
	})

	t.Run("kinds match their sentinels", func(t *testing.T) {
		tests := []struct {
			kind     pkgerrors.Kind
			sentinel error
		}{
			{pkgerrors.KindStructure, pkgerrors.ErrStructure},
			{pkgerrors.KindReference, pkgerrors.ErrReference},
			{pkgerrors.KindUniqueness, pkgerrors.ErrUniqueness},
			{pkgerrors.KindFormat, pkgerrors.ErrFormat},
		}
		for _, tt := range tests {
			t.Run(string(tt.kind), func(t *testing.T) {
				err := pkgerrors.NewAssumptionError("x", tt.kind, "y", "")
				assert.True(t, errors.Is(err, tt.sentinel))
				assert.False(t, errors.Is(err, pkgerrors.ErrMismatch))
				assert.True(t, pkgerrors.IsAssumption(err))
			})
		}
	})

	t.Run("wrapped error keeps its kind", func(t *testing.T) {
		base := pkgerrors.NewAssumptionError("x", pkgerrors.KindFormat, "y", "")
		wrapped := fmt.Errorf("parsing: %w", base)
		assert.True(t, errors.Is(wrapped, pkgerrors.ErrFormat))

		var ae *pkgerrors.AssumptionError
		require.True(t, errors.As(wrapped, &ae))
		assert.Equal(t, pkgerrors.KindFormat, ae.Kind)
	})
}

func TestMismatchError(t *testing.T) {
	err := &pkgerrors.MismatchError{
		Missing:    []string{"a"},
		Extra:      []string{"b", "c"},
		Mismatched: nil,
	}
	assert.Equal(t, "distributions differ: 1 missing, 2 extra, 0 with different counts", err.Error())
	assert.True(t, pkgerrors.IsMismatch(err))
	assert.True(t, pkgerrors.IsMismatch(fmt.Errorf("audit: %w", err)))
	assert.False(t, pkgerrors.IsAssumption(err))
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("tier", nil, "cannot be empty")
		assert.Equal(t, "validation failed for field tier: cannot be empty", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "bad ranking"}
		assert.Equal(t, "validation failed: bad ranking", err.Error())
	})
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		limited    bool
		down       bool
		message    string
	}{
		{"not found", 404, false, false, "fetch error from community (status 404): 404 Not Found"},
		{"rate limited", 429, true, false, "fetch error from community (status 429): 404 Not Found"},
		{"server error", 503, false, true, "fetch error from community (status 503): 404 Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &pkgerrors.APIError{Source: "community", StatusCode: tt.statusCode, Message: "404 Not Found"}
			assert.Equal(t, tt.limited, errors.Is(err, pkgerrors.ErrRateLimited))
			assert.Equal(t, tt.down, errors.Is(err, pkgerrors.ErrProviderUnavailable))
			assert.Equal(t, tt.message, err.Error())
		})
	}

	t.Run("without status unwraps", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := &pkgerrors.APIError{Source: "official", Message: "request failed", Err: cause}
		assert.Equal(t, "fetch error from official: request failed", err.Error())
		assert.ErrorIs(t, err, cause)
	})
}

func TestConfigError(t *testing.T) {
	cause := errors.New("missing key")
	err := pkgerrors.NewConfigError("official", "either path or web_url is required", cause)
	assert.Equal(t, "configuration error in official: either path or web_url is required", err.Error())
	assert.ErrorIs(t, err, cause)

	noComponent := pkgerrors.NewConfigError("", "no sources", nil)
	assert.Equal(t, "configuration error: no sources", noComponent.Error())
}

func TestWrapHelpers(t *testing.T) {
	assert.Nil(t, pkgerrors.WrapIO("read", "x", nil))
	assert.Nil(t, pkgerrors.WrapParse("json", "", nil))

	cause := errors.New("boom")
	ioErr := pkgerrors.WrapIO("read", "report.txt", cause)
	assert.Equal(t, "IO error during read of report.txt: boom", ioErr.Error())
	assert.ErrorIs(t, ioErr, cause)

	parseErr := pkgerrors.WrapParse("json", "", cause)
	assert.Equal(t, "json parse error: boom", parseErr.Error())
	assert.ErrorIs(t, parseErr, cause)

	fileErr := pkgerrors.NewParseError("yaml", "aliases.yaml", "bad indent", cause)
	assert.Equal(t, "parse error in yaml file aliases.yaml: bad indent", fileErr.Error())
}
