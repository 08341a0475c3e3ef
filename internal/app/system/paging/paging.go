// internal/app/system/paging/paging.go

// Package paging provides keyset pagination for the list endpoints. Lists
// sort by _id descending (ObjectIDs are time-ordered, so this is newest
// first), and the cursor is the _id of the last row on the previous page.
// Queries fetch one extra row past the limit to detect whether a next page
// exists.
package paging

import (
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultLimit is the page size used when the request does not name one.
const DefaultLimit = 50

// MaxLimit caps the page size a caller can request.
const MaxLimit = 200

// Page carries the parsed pagination parameters of a list request.
type Page struct {
	Limit int64
	After *primitive.ObjectID
}

// Default returns a first-page Page with the default limit.
func Default() Page {
	return Page{Limit: DefaultLimit}
}

// Parse reads the "limit" and "after" query parameters. Unparseable values
// fall back to the defaults rather than failing the request; limits are
// clamped to MaxLimit.
func Parse(r *http.Request) Page {
	p := Default()

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			p.Limit = n
			if p.Limit > MaxLimit {
				p.Limit = MaxLimit
			}
		}
	}
	if raw := r.URL.Query().Get("after"); raw != "" {
		if id, err := primitive.ObjectIDFromHex(raw); err == nil {
			p.After = &id
		}
	}
	return p
}

// Filter adds the cursor window to a query filter and returns it. With no
// cursor the filter is returned unchanged.
func (p Page) Filter(filter bson.M) bson.M {
	if p.After != nil {
		filter["_id"] = bson.M{"$lt": *p.After}
	}
	return filter
}

// FindOptions returns find options sorted newest first with a look-ahead
// limit of one extra row.
func (p Page) FindOptions() *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(p.Limit + 1)
}

// Trim cuts the look-ahead row off a fetched slice. When the extra row was
// present it returns the cursor for the next page; otherwise the cursor is
// empty and the caller is on the last page. id extracts a row's ObjectID.
func Trim[T any](p Page, rows *[]T, id func(T) primitive.ObjectID) (next string, more bool) {
	if int64(len(*rows)) <= p.Limit {
		return "", false
	}
	*rows = (*rows)[:p.Limit]
	last := (*rows)[len(*rows)-1]
	return id(last).Hex(), true
}
