package common

import (
	"strconv"
)

// Batch splits a into two slices. DO NOT write on the returned value.
func Batch[T any](a *[]T, n int) []T {
	if len(*a) > n {
		batch := (*a)[:n]
		*a = (*a)[n:]
		return batch
	}

	b := (*a)
	*a = (*a)[:0]
	return b
}

// ClampLimit returns limit bounded to [1, max], or def when limit is unset.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}

	if limit > max {
		return max
	}

	return limit
}

func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
