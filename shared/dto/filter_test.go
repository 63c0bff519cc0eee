package dto_test

import (
	"testing"
	"tably/shared/dto"

	"github.com/stretchr/testify/assert"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "eq with table prefix",
			filter:    dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "confirmed", Table: "bookings"},
			wantWhere: "bookings.status = :status",
			wantArgs:  map[string]any{"status": "confirmed"},
		},
		{
			name:      "eq without table",
			filter:    dto.Filter{Field: "active", Operator: dto.FilterOperatorEq, Value: true},
			wantWhere: "active = :active",
			wantArgs:  map[string]any{"active": true},
		},
		{
			name:      "like wraps value in wildcards",
			filter:    dto.Filter{Field: "name", Operator: dto.FilterOperatorLike, Value: "deluxe"},
			wantWhere: "LOWER(name) LIKE LOWER(:name)",
			wantArgs:  map[string]any{"name": "%deluxe%"},
		},
		{
			name:      "not eq",
			filter:    dto.Filter{Field: "status", Operator: dto.FilterOperatorNotEq, Value: "cancelled"},
			wantWhere: "status != :status",
			wantArgs:  map[string]any{"status": "cancelled"},
		},
		{
			name:      "greater eq",
			filter:    dto.Filter{Field: "window_end", Operator: dto.FilterOperatorGreaterEq, Value: "2025-01-01"},
			wantWhere: "window_end >= :window_end",
			wantArgs:  map[string]any{"window_end": "2025-01-01"},
		},
		{
			name:      "arg name overrides field in placeholder",
			filter:    dto.Filter{Field: "id", ArgName: "booking_id", Operator: dto.FilterOperatorEq, Value: "b-1"},
			wantWhere: "id = :booking_id",
			wantArgs:  map[string]any{"booking_id": "b-1"},
		},
		{
			name:      "in expands slice into named args",
			filter:    dto.Filter{Field: "status", Operator: dto.FilterOperatorIn, Value: []string{"pending", "confirmed"}},
			wantWhere: "status IN (:status_0, :status_1)",
			wantArgs:  map[string]any{"status_0": "pending", "status_1": "confirmed"},
		},
		{
			name:      "unknown operator yields empty clause",
			filter:    dto.Filter{Field: "status", Operator: "between", Value: "x"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	t.Run("joins filters with AND by default", func(t *testing.T) {
		group := dto.FilterGroup{
			Filters: []any{
				dto.Filter{Field: "resource_id", Operator: dto.FilterOperatorEq, Value: "room-1"},
				dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "confirmed"},
			},
		}

		where, args := group.GetWhereClause()

		assert.Equal(t, "(resource_id = :resource_id AND status = :status)", where)
		assert.Equal(t, map[string]any{"resource_id": "room-1", "status": "confirmed"}, args)
	})

	t.Run("nested group with OR", func(t *testing.T) {
		group := dto.FilterGroup{
			Operator: dto.FilterGroupOperatorAnd,
			Filters: []any{
				dto.Filter{Field: "resource_id", Operator: dto.FilterOperatorEq, Value: "room-1"},
				dto.FilterGroup{
					Operator: dto.FilterGroupOperatorOr,
					Filters: []any{
						dto.Filter{Field: "status", ArgName: "status_pending", Operator: dto.FilterOperatorEq, Value: "pending"},
						dto.Filter{Field: "status", ArgName: "status_confirmed", Operator: dto.FilterOperatorEq, Value: "confirmed"},
					},
				},
			},
		}

		where, args := group.GetWhereClause()

		assert.Equal(t, "(resource_id = :resource_id AND (status = :status_pending OR status = :status_confirmed))", where)
		assert.Equal(t, map[string]any{
			"resource_id":      "room-1",
			"status_pending":   "pending",
			"status_confirmed": "confirmed",
		}, args)
	})

	t.Run("empty group yields empty clause", func(t *testing.T) {
		group := dto.FilterGroup{}

		where, args := group.GetWhereClause()

		assert.Empty(t, where)
		assert.Empty(t, args)
	})
}
