package model_test

import (
	"testing"
	"tably/internal/domains/booking/model"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_Room(t *testing.T) {
	tests := []struct {
		from model.Status
		to   model.Status
		want bool
	}{
		{model.StatusPending, model.StatusConfirmed, true},
		{model.StatusPending, model.StatusCancelled, true},
		{model.StatusConfirmed, model.StatusCheckedIn, true},
		{model.StatusConfirmed, model.StatusCancelled, true},
		{model.StatusCheckedIn, model.StatusCheckedOut, true},
		{model.StatusCheckedIn, model.StatusCancelled, false},
		{model.StatusCheckedOut, model.StatusConfirmed, false},
		{model.StatusCancelled, model.StatusConfirmed, false},
		{model.StatusPending, model.StatusCheckedIn, false},
		{model.StatusConfirmed, model.StatusCompleted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, model.CanTransition(model.ResourceRoom, tt.from, tt.to),
			"room %s -> %s", tt.from, tt.to)
	}
}

func TestCanTransition_Table(t *testing.T) {
	tests := []struct {
		from model.Status
		to   model.Status
		want bool
	}{
		{model.StatusPending, model.StatusConfirmed, true},
		{model.StatusConfirmed, model.StatusCompleted, true},
		{model.StatusConfirmed, model.StatusCancelled, true},
		{model.StatusConfirmed, model.StatusCheckedIn, false},
		{model.StatusCompleted, model.StatusCancelled, false},
		{model.StatusCancelled, model.StatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, model.CanTransition(model.ResourceTable, tt.from, tt.to),
			"table %s -> %s", tt.from, tt.to)
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, model.StatusCancelled.Terminal(model.ResourceRoom))
	assert.True(t, model.StatusCheckedOut.Terminal(model.ResourceRoom))
	assert.True(t, model.StatusCompleted.Terminal(model.ResourceTable))
	assert.False(t, model.StatusConfirmed.Terminal(model.ResourceRoom))
	assert.False(t, model.StatusPending.Terminal(model.ResourceTable))
}

func TestStatus_Active(t *testing.T) {
	assert.True(t, model.StatusPending.Active())
	assert.True(t, model.StatusConfirmed.Active())
	assert.True(t, model.StatusCheckedIn.Active())
	assert.False(t, model.StatusCancelled.Active())
	assert.False(t, model.StatusCheckedOut.Active())
	assert.False(t, model.StatusCompleted.Active())
}
