package utils

import (
	"strconv"
	"strings"
)

const BillsListCachePrefix = "bills:list:v1:"

// BuildBillsListCacheKey keys a cached bill list by its filter and cache generation.
func BuildBillsListCacheKey(generation int64, email string) string {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" {
		e = "*"
	}

	return BillsListCachePrefix + "gen=" + strconv.FormatInt(generation, 10) +
		":email=" + e
}
