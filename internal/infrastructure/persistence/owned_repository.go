package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/infrastructure/persistence/owner"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// listSpec describes how a resource is searched, filtered and sorted
type listSpec struct {
	searchColumns []string
	sortFields    map[string]bool
	defaultSort   string
	// filterColumns maps filter keys to columns compared by equality
	filterColumns map[string]string
	// dateColumn is compared against Filter.From / Filter.To
	dateColumn string
}

// ownedRepository implements shared.OwnedRepository for any aggregate
// embedding shared.OwnedAggregateRoot
type ownedRepository[T any, PT interface {
	*T
	shared.OwnedAggregate
}] struct {
	db   *gorm.DB
	spec listSpec
}

func newOwnedRepository[T any, PT interface {
	*T
	shared.OwnedAggregate
}](db *gorm.DB, spec listSpec) ownedRepository[T, PT] {
	return ownedRepository[T, PT]{db: db, spec: spec}
}

func (r ownedRepository[T, PT]) scoped(ctx context.Context, ownerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(new(T)).Scopes(owner.Scope(ownerID))
}

// FindByIDForOwner implements shared.OwnedRepository
func (r ownedRepository[T, PT]) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*T, error) {
	var entity T
	if err := r.scoped(ctx, ownerID).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// FindAllForOwner implements shared.OwnedRepository
func (r ownedRepository[T, PT]) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]T, error) {
	var entities []T
	query := r.applyFilter(r.scoped(ctx, ownerID), filter)
	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// CountForOwner implements shared.OwnedRepository
func (r ownedRepository[T, PT]) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.scoped(ctx, ownerID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save updates the entity within its owner's rows and inserts it when its
// ID is unused. An ID held by a deleted row or by another owner yields
// shared.ErrNotFound.
func (r ownedRepository[T, PT]) Save(ctx context.Context, entity *T) error {
	ownerID := PT(entity).GetOwnerID()
	if ownerID == uuid.Nil {
		return owner.ErrOwnerRequired
	}
	res := r.db.WithContext(ctx).
		Model(entity).
		Scopes(owner.Scope(ownerID)).
		Select("*").
		Omit("id", "created_at", "user_id").
		Updates(entity)
	if res.Error != nil {
		return translateWriteError(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var taken int64
	if err := r.db.WithContext(ctx).Unscoped().Model(new(T)).
		Where("id = ?", PT(entity).GetID()).
		Count(&taken).Error; err != nil {
		return err
	}
	if taken > 0 {
		return shared.ErrNotFound
	}
	return translateWriteError(r.db.WithContext(ctx).Create(entity).Error)
}

// DeleteForOwner soft-deletes one row of the owner
func (r ownedRepository[T, PT]) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Scopes(owner.Scope(ownerID)).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// existsForOwner reports whether a live row of the owner matches column = value
func (r ownedRepository[T, PT]) existsForOwner(ctx context.Context, ownerID uuid.UUID, column string, value any, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.scoped(ctx, ownerID).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r ownedRepository[T, PT]) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	filter = filter.Normalize()
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, r.spec.sortFields, r.spec.defaultSort)
	query = query.Order(clause.OrderByColumn{
		Column: clause.Column{Name: sortField},
		Desc:   ValidateSortOrder(filter.OrderDir) == "DESC",
	})

	offset := (filter.Page - 1) * filter.PageSize
	return query.Offset(offset).Limit(filter.PageSize)
}

func (r ownedRepository[T, PT]) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if s := strings.TrimSpace(filter.Search); s != "" && len(r.spec.searchColumns) > 0 {
		pattern := "%" + strings.ToLower(s) + "%"
		conds := make([]string, len(r.spec.searchColumns))
		args := make([]any, len(r.spec.searchColumns))
		for i, col := range r.spec.searchColumns {
			conds[i] = fmt.Sprintf("LOWER(%s) LIKE ?", col)
			args[i] = pattern
		}
		query = query.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	for key, value := range filter.Filters {
		col, ok := r.spec.filterColumns[key]
		if !ok || value == nil {
			continue
		}
		query = query.Where(clause.Eq{Column: clause.Column{Name: col}, Value: value})
	}

	if r.spec.dateColumn != "" {
		if filter.From != nil {
			query = query.Where(clause.Gte{Column: clause.Column{Name: r.spec.dateColumn}, Value: *filter.From})
		}
		if filter.To != nil {
			query = query.Where(clause.Lte{Column: clause.Column{Name: r.spec.dateColumn}, Value: *filter.To})
		}
	}
	return query
}

// translateWriteError maps unique violations to ErrAlreadyExists
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") {
		return shared.ErrAlreadyExists
	}
	return err
}
