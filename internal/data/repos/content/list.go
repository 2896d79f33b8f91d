package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/listing"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/pkg/dbctx"
)

// ErrInvalidPage is returned for a page number outside the result set.
var ErrInvalidPage = errors.New("invalid page")

type ListQuery struct {
	Page     int
	Search   string
	Ordering string
	// Filters holds raw query parameters; only those named in the listing rules apply.
	Filters map[string]string
}

type Page[T any] struct {
	Items    []*T
	Count    int64
	Page     int
	PageSize int
}

func (p *Page[T]) HasNext() bool {
	return int64(p.Page*p.PageSize) < p.Count
}

func (p *Page[T]) HasPrevious() bool { return p.Page > 1 }

func (s *store[T]) List(dbc dbctx.Context, q ListQuery) (*Page[T], error) {
	rules := s.listing
	pageSize := rules.PageSize
	if pageSize <= 0 {
		pageSize = listing.DefaultPageSize
	}
	page := q.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, ErrInvalidPage
	}

	base := dbc.DB(s.db).Model(new(T))
	for _, j := range rules.Joins {
		base = base.Joins(j)
	}
	base = applySearch(base, s.table, rules.Search, q.Search)
	base = applyFilters(base, s.table, rules.Filters, q.Filters)
	base = base.Session(&gorm.Session{})

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count %s: %w", s.table, err)
	}
	offset := (page - 1) * pageSize
	if page > 1 && int64(offset) >= count {
		return nil, ErrInvalidPage
	}

	var items []*T
	query := s.withPreloads(base.Select(s.table + ".*"))
	for _, o := range orderClauses(s.table, rules, q.Ordering) {
		query = query.Order(o)
	}
	if err := query.Limit(pageSize).Offset(offset).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	return &Page[T]{Items: items, Count: count, Page: page, PageSize: pageSize}, nil
}

func qualify(table, column string) string {
	if strings.Contains(column, ".") {
		return column
	}
	return table + "." + column
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// applySearch requires every whitespace-separated term to match at least one column.
func applySearch(q *gorm.DB, table string, columns []string, search string) *gorm.DB {
	terms := strings.Fields(strings.ToLower(search))
	if len(terms) == 0 || len(columns) == 0 {
		return q
	}
	for _, term := range terms {
		conds := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))
		for _, c := range columns {
			conds = append(conds, "LOWER("+qualify(table, c)+`) LIKE ? ESCAPE '\'`)
			args = append(args, "%"+likeEscaper.Replace(term)+"%")
		}
		q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	return q
}

func applyFilters(q *gorm.DB, table string, allowed map[string]string, values map[string]string) *gorm.DB {
	for param, column := range allowed {
		v, ok := values[param]
		if !ok || v == "" {
			continue
		}
		if strings.HasSuffix(column, "_id") || column == "id" {
			id, err := uuid.Parse(v)
			if err != nil {
				// Not an identifier, so nothing can match.
				q = q.Where("1 = 0")
				continue
			}
			q = q.Where(qualify(table, column)+" = ?", id)
			continue
		}
		q = q.Where(qualify(table, column)+" = ?", v)
	}
	return q
}

// orderClauses resolves ?ordering= against the allow-list, falling back to the
// configured default. The primary key is always the final tie-break.
func orderClauses(table string, rules listing.Entity, requested string) []string {
	allowed := map[string]bool{}
	for _, f := range rules.OrderingFields {
		allowed[f] = true
	}
	var fields []string
	for _, raw := range strings.Split(requested, ",") {
		raw = strings.TrimSpace(raw)
		if allowed[strings.TrimPrefix(raw, "-")] {
			fields = append(fields, raw)
		}
	}
	if len(fields) == 0 {
		fields = rules.Ordering
	}
	out := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		if strings.HasPrefix(f, "-") {
			out = append(out, qualify(table, strings.TrimPrefix(f, "-"))+" DESC")
		} else {
			out = append(out, qualify(table, f)+" ASC")
		}
	}
	return append(out, table+".id ASC")
}
