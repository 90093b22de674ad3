// Package orm holds small GORM helpers shared by repositories.
package orm

import (
	"gorm.io/gorm"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination describes one page of a listing.
type Pagination struct {
	Total int64 `json:"totalCount"`
	Pages int   `json:"totalNoPage"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Normalize clamps page to >= 1 and limit to [1, MaxLimit], using
// DefaultLimit when limit is unset.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Paginate counts q, then loads the requested page into dest. q should carry
// its Model, filters and ordering; it is not mutated. scopes (preloads and
// the like) apply to the page load only.
func Paginate(q *gorm.DB, page, limit int, dest interface{}, scopes ...func(*gorm.DB) *gorm.DB) (Pagination, error) {
	page, limit = Normalize(page, limit)
	p := Pagination{Page: page, Limit: limit}

	if err := q.Session(&gorm.Session{}).Count(&p.Total).Error; err != nil {
		return p, err
	}
	p.Pages = int((p.Total + int64(limit) - 1) / int64(limit))

	err := q.Session(&gorm.Session{}).
		Scopes(scopes...).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(dest).Error
	return p, err
}
