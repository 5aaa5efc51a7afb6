package microcontent

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const componentKeyPrefix = "component:"

// ComponentKey derives the composite micro-content key addressing a subfield
// of a repeatable component entry, e.g. "component:{uuid}:image". It is a
// deterministic address, not a foreign key, so image storage can be looked up
// without traversing the component list.
func ComponentKey(entry uuid.UUID, field string) string {
	return fmt.Sprintf("%s%s:%s", componentKeyPrefix, entry, field)
}

// ComponentPrefix returns the key prefix shared by every subfield of one
// component entry. Used for orphan cleanup when the entry is deleted.
func ComponentPrefix(entry uuid.UUID) string {
	return componentKeyPrefix + entry.String() + ":"
}

// ParseComponentKey splits a composite key back into entry uuid and field
// name. The second return is false for plain (non-component) keys.
func ParseComponentKey(key string) (uuid.UUID, string, bool) {
	if !strings.HasPrefix(key, componentKeyPrefix) {
		return uuid.Nil, "", false
	}
	rest := strings.TrimPrefix(key, componentKeyPrefix)
	idx := strings.IndexByte(rest, ':')
	if idx <= 0 || idx == len(rest)-1 {
		return uuid.Nil, "", false
	}
	entry, err := uuid.Parse(rest[:idx])
	if err != nil {
		return uuid.Nil, "", false
	}
	return entry, rest[idx+1:], true
}
