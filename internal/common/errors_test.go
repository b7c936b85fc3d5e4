package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserErrorWrapping(t *testing.T) {
	cause := errors.New("disk full")
	err := NewUserError("Failed to open the database", cause)

	assert.Equal(t, "Failed to open the database: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestUserMessage(t *testing.T) {
	cause := errors.New("disk full")

	assert.Equal(t, "Failed to open the database",
		UserMessage(NewUserError("Failed to open the database", cause)))
	assert.Equal(t, "disk full", UserMessage(cause))
}
