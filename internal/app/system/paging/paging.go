// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/committeehub/internal/app/system/limits"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize is the default number of rows in a paged JSON list.
const PageSize = 50

// Params are the keyset paging inputs of a list request:
// ?after=<cursor> or ?before=<cursor>, and ?limit=n.
type Params struct {
	Before string
	After  string
	Limit  int
}

// FromRequest reads Params from the query string. The limit defaults to
// PageSize and is capped at limits.MaxListLimit.
func FromRequest(r *http.Request) Params {
	p := Params{
		Before: query.Get(r, "before"),
		After:  query.Get(r, "after"),
		Limit:  PageSize,
	}
	if n, err := strconv.Atoi(query.Get(r, "limit")); err == nil && n > 0 {
		p.Limit = min(n, limits.MaxListLimit)
	}
	return p
}

func (p Params) size() int {
	if p.Limit <= 0 {
		return PageSize
	}
	return p.Limit
}

// LimitPlusOne returns the page size + 1 for look-ahead pagination
// (fetch one extra document to detect a further page).
func (p Params) LimitPlusOne() int64 { return int64(p.size() + 1) }

// Result is the paging block of a list response.
type Result struct {
	HasPrev bool   `json:"has_prev"`
	HasNext bool   `json:"has_next"`
	Prev    string `json:"prev,omitempty"`
	Next    string `json:"next,omitempty"`
}

// Trim trims a fetched slice for keyset pagination.
// Call this after fetching LimitPlusOne rows (and after Reverse when paging
// backwards).
//
// When going backwards (before != ""):
//   - If len > size, trim the first element (an earlier page exists)
//   - HasNext is always true (we came from somewhere)
//
// When going forwards or on the first page:
//   - If len > size, trim to size (a next page exists)
//   - HasPrev is true only if after != ""
func Trim[T any](rows *[]T, p Params) Result {
	size := p.size()
	orig := len(*rows)
	var res Result

	if p.Before != "" {
		if orig > size {
			*rows = (*rows)[1:]
			res.HasPrev = true
		}
		res.HasNext = true
	} else {
		if orig > size {
			*rows = (*rows)[:size]
			res.HasNext = true
		}
		res.HasPrev = p.After != ""
	}
	return res
}

// Direction indicates the pagination direction.
type Direction int

const (
	Forward  Direction = iota // Default: sort ascending, use "gt" for cursor
	Backward                  // Sort descending, use "lt" for cursor
)

// KeysetConfig holds the result of configuring keyset pagination.
type KeysetConfig struct {
	Direction Direction
	SortOrder int // 1 for ascending, -1 for descending
	Cursor    *wafflemongo.Cursor
	limit     int64
}

// Keyset determines pagination direction and decodes the cursor.
// An undecodable cursor starts from the beginning in that direction.
func (p Params) Keyset() KeysetConfig {
	cfg := KeysetConfig{
		Direction: Forward,
		SortOrder: 1,
		limit:     p.LimitPlusOne(),
	}

	if p.Before != "" {
		cfg.Direction = Backward
		cfg.SortOrder = -1
		if c, ok := wafflemongo.DecodeCursor(p.Before); ok {
			cfg.Cursor = &c
		}
	} else if p.After != "" {
		if c, ok := wafflemongo.DecodeCursor(p.After); ok {
			cfg.Cursor = &c
		}
	}

	return cfg
}

// ApplyToFind configures FindOptions with sort and look-ahead limit.
func (cfg KeysetConfig) ApplyToFind(find *options.FindOptions, sortField string) {
	find.SetSort(bson.D{
		{Key: sortField, Value: cfg.SortOrder},
		{Key: "_id", Value: cfg.SortOrder},
	}).SetLimit(cfg.limit)
}

// KeysetWindow returns the cursor condition for the query filter.
// Returns nil if no cursor is set.
func (cfg KeysetConfig) KeysetWindow(sortField string) bson.M {
	if cfg.Cursor == nil {
		return nil
	}
	dir := "gt"
	if cfg.Direction == Backward {
		dir = "lt"
	}
	return wafflemongo.KeysetWindow(sortField, dir, cfg.Cursor.CI, cfg.Cursor.ID)
}

// Reverse reverses a slice in place. Use this after fetching results
// when paging backwards to restore the display order.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// BuildCursors fills res.Prev and res.Next from the first and last rows,
// only where that direction has more rows.
func BuildCursors[T any](res *Result, rows []T, keyFn func(T) string, idFn func(T) primitive.ObjectID) {
	if len(rows) == 0 {
		return
	}
	if res.HasPrev {
		first := rows[0]
		res.Prev = wafflemongo.EncodeCursor(keyFn(first), idFn(first))
	}
	if res.HasNext {
		last := rows[len(rows)-1]
		res.Next = wafflemongo.EncodeCursor(keyFn(last), idFn(last))
	}
}
