package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errBusy = errors.New("busy")

func TestOnce_RetriesMatchingErrorOnce(t *testing.T) {
	calls := 0
	_, err := Once(context.Background(), errBusy, func() (int, error) {
		calls++
		return 0, errBusy
	})

	assert.ErrorIs(t, err, errBusy)
	assert.Equal(t, 2, calls)
}

func TestOnce_SecondAttemptSucceeds(t *testing.T) {
	calls := 0
	got, err := Once(context.Background(), errBusy, func() (string, error) {
		calls++
		if calls == 1 {
			return "", errBusy
		}
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
}

func TestOnce_OtherErrorsAreNotRetried(t *testing.T) {
	other := errors.New("other")
	calls := 0
	_, err := Once(context.Background(), errBusy, func() (int, error) {
		calls++
		return 0, other
	})

	assert.ErrorIs(t, err, other)
	assert.Equal(t, 1, calls)
}
