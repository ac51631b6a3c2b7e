package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("bad"), KindValidation},
		{"auth", Auth("nope"), KindAuth},
		{"not found", NotFound("missing"), KindNotFound},
		{"conflict", Conflict("dup"), KindConflict},
		{"upstream", Upstream("provider", errors.New("502")), KindUpstream},
		{"wrapped", fmt.Errorf("store: %w", NotFound("missing")), KindNotFound},
		{"plain", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("status 500")
	err := Upstream("Failed to fetch weather data", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to fetch weather data: status 500", err.Error())
	assert.Equal(t, "Failed to fetch weather data", Message(err, "fallback"))
}

func TestMessageFallback(t *testing.T) {
	assert.Equal(t, "fallback", Message(errors.New("raw"), "fallback"))
}

func TestIs(t *testing.T) {
	assert.True(t, Is(Auth("x"), KindAuth))
	assert.False(t, Is(Auth("x"), KindNotFound))
	assert.False(t, Is(nil, KindInternal))
}
