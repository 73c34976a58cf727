package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOracleError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewOracleError("remote", cause)

	assert.EqualError(t, err, "oracle unavailable: remote: connection refused")
	assert.ErrorIs(t, err, ErrOracleUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, NewOracleError("remote", nil))
}
