package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := ParseFailed("sales.csv", fmt.Errorf("bare quote in field"))
	wrapped := Wrap(base, "upload rejected")

	assert.Equal(t, CodeParseFailed, GetCode(wrapped))
	assert.Contains(t, wrapped.Error(), "bare quote in field")
	assert.True(t, Is(wrapped, CodeParseFailed))
}

func TestWrapPlainError(t *testing.T) {
	wrapped := Wrapf(fmt.Errorf("boom"), "step %d", 2)

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "step 2: boom", wrapped.Error())
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestGetCodeUnknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
	assert.Equal(t, CodeInvalidInput, GetCode(fmt.Errorf("outer: %w", InvalidInput("bad"))))
}

func TestNotFound(t *testing.T) {
	err := NotFound(`filter column "country"`)
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.Equal(t, `filter column "country" not found`, err.Error())
}
