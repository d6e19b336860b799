package redis

import (
	"fmt"

	"github.com/mazewars/mazewars-go/internal/model"
)

// Key prefix for all archive data
const keyPrefix = "mazewars"

// matchKey returns the Redis key for a MatchSummary
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// matchIndexKey returns the Redis key for the SET ordering matches by
// end time
func matchIndexKey() string {
	return fmt.Sprintf("%s:idx:matches", keyPrefix)
}
