package failure_test

import (
	"errors"
	"net/http"
	"testing"
	"tably/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", failure.BadRequestFromString("bad input"), http.StatusBadRequest},
		{"unauthorized", failure.Unauthorized("no token"), http.StatusUnauthorized},
		{"forbidden", failure.Forbidden("not yours"), http.StatusForbidden},
		{"not found", failure.NotFound("booking"), http.StatusNotFound},
		{"conflict", failure.Conflict("already rated"), http.StatusConflict},
		{"unprocessable", failure.UnprocessableFromString("restaurant is closed"), http.StatusUnprocessableEntity},
		{"internal", failure.InternalError(errors.New("boom")), http.StatusInternalServerError},
		{"plain error defaults to 500", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failure.GetCode(tt.err))
		})
	}
}

func TestGetCode_WrappedFailure(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), failure.NotFound("room"))

	assert.Equal(t, http.StatusNotFound, failure.GetCode(wrapped))
}

func TestNotFound_Message(t *testing.T) {
	err := failure.NotFound("order")

	assert.EqualError(t, err, "order not found")
}

type detailError struct {
	Detail string
}

func (e *detailError) Error() string {
	return e.Detail
}

func TestConflictFromError_KeepsCauseReachable(t *testing.T) {
	cause := &detailError{Detail: "room already booked"}

	err := failure.ConflictFromError(cause)
	require.Error(t, err)

	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	assert.EqualError(t, err, "room already booked")

	var got *detailError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, cause, got)
}

func TestNilPassthrough(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
	assert.NoError(t, failure.ConflictFromError(nil))
}
