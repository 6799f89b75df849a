package guard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"typoteka/internal/domain/entity"
)

// ParseID parses a positive decimal identifier. Anything else is a bad request
// naming field.
func ParseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: %w", field, raw, entity.ErrBadRequest)
	}
	return id, nil
}

// ID is the Step form of ParseID; the parsed value is written to dst.
func ID(field, raw string, dst *int64) Step {
	return func(context.Context) Result {
		id, err := ParseID(field, raw)
		if err != nil {
			return resultOf(err)
		}
		*dst = id
		return Result{}
	}
}
