package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionError(t *testing.T) {
	perr := &PermissionError{
		Op:      "update",
		Path:    "users/abc",
		Payload: map[string]interface{}{"approved": true},
	}

	assert.Contains(t, perr.Error(), "update")
	assert.Contains(t, perr.Error(), "users/abc")
	assert.True(t, errors.Is(perr, ErrPermissionDenied))
}

func TestDenyPermissionReportsToSink(t *testing.T) {
	var captured *PermissionError
	SetPermissionSink(func(perr *PermissionError) {
		captured = perr
	})
	defer SetPermissionSink(nil)

	perr := DenyPermission("delete", "lectures/l1", nil)

	assert.Same(t, perr, captured)
	assert.Equal(t, "delete", captured.Op)
	assert.Equal(t, "lectures/l1", captured.Path)
}

func TestDenyPermissionWithoutSink(t *testing.T) {
	SetPermissionSink(nil)

	perr := DenyPermission("get", "quizzes/q1", nil)
	assert.NotNil(t, perr)
	assert.True(t, errors.Is(perr, ErrPermissionDenied))
}
