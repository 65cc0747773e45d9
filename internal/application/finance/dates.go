package finance

import (
	"time"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/domain/shared/valueobject"
)

func parseDate(field, s string) (time.Time, error) {
	t, err := valueobject.ParseDate(s)
	if err != nil {
		return time.Time{}, shared.ErrInvalidInput.WithMessage("%s: %v", field, err)
	}
	return t, nil
}

func parseOptionalDate(field string, s *string) (*time.Time, error) {
	t, err := valueobject.ParseDatePtr(s)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("%s: %v", field, err)
	}
	return t, nil
}
