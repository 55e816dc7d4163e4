package results

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationResult(t *testing.T) {
	ok := SuccessResult[string, error]("done")
	assert.True(t, ok.IsSuccess())
	assert.False(t, ok.IsFailure())
	assert.Equal(t, "done", *ok.Success)

	failed := FailureResult[string, error](errors.New("nope"))
	assert.False(t, failed.IsSuccess())
	assert.True(t, failed.IsFailure())
	assert.EqualError(t, *failed.Failure, "nope")

	var empty OperationResult[int, string]
	assert.False(t, empty.IsSuccess())
	assert.False(t, empty.IsFailure())
}
