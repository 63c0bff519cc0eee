package shared

import (
	"context"
	"crypto/md5" //nolint:gosec // cache key fingerprint, not a credential
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"tably/shared/cache"
	"tably/shared/constant"
	"tably/shared/dto"
	"time"

	"github.com/rs/zerolog/log"
)

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the non-zero fields of a struct into a map of
// updated columns, stamping modification metadata.
func TransformFields(data interface{}, actor string, now time.Time) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = now
	updatedFields[constant.FieldModifiedBy] = actor

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

func BuildCacheKey(prefix, suffix string) string {
	return fmt.Sprintf("%s:%s", prefix, suffix)
}

// BuildCacheKeyWithQuery derives a stable cache key from the query params
// and filters of a list request.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	payload, err := json.Marshal(struct {
		Params dto.QueryParams
		Where  string
		Args   map[string]any
	}{params, where, args})
	if err != nil {
		return prefix
	}

	sum := md5.Sum(payload) //nolint:gosec

	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+"*"); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate cache")
	}
}

// PrincipalFromContext reads the authenticated user set by the auth
// middleware. Both values are empty on unauthenticated requests.
func PrincipalFromContext(ctx context.Context) (userID, role string) {
	userID, _ = ctx.Value(constant.ContextKeyUserID).(string)
	role, _ = ctx.Value(constant.ContextKeyUserRole).(string)

	return userID, role
}
