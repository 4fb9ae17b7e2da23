package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	cause := LoadError("data/a.csv", stderrors.New("no such file"))
	err := Wrap(cause, "failed to list data files")

	assert.Equal(t, CodeLoadError, GetCode(err))
	assert.Equal(t, "failed to list data files: failed to load data/a.csv: no such file", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	err := Wrapf(stderrors.New("boom"), "step %d", 2)
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestHasCodeWalksChain(t *testing.T) {
	inner := ParseError("b.csv", stderrors.New("bare quote"))
	outer := fmt.Errorf("loading: %w", WithCode(CodeInvalidInput, inner))

	assert.True(t, HasCode(outer, CodeInvalidInput))
	assert.False(t, HasCode(outer, CodeLoadError))
	assert.Equal(t, CodeInvalidInput, GetCode(outer))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
	assert.True(t, IsAppError(outer))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, CodeNotFound, NotFound("column").Code)
	assert.Equal(t, "column not found", NotFound("column").Error())
	assert.Equal(t, CodeConfigInvalid, ConfigInvalid("bad").Code)
}
