package valueobject

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ParseRef interprets an optional reference of a partial update: nil leaves
// it untouched, blank clears it, anything else must be a UUID
func ParseRef(s *string) (id *uuid.UUID, detach bool, err error) {
	if s == nil {
		return nil, false, nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil, true, nil
	}
	parsed, err := uuid.Parse(v)
	if err != nil {
		return nil, false, fmt.Errorf("invalid id %q", v)
	}
	return &parsed, false, nil
}
