package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type SortOrder string

const (
	SortFeatured  SortOrder = "featured"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortRating    SortOrder = "rating"
	SortNewest    SortOrder = "newest"
)

const allCategories = "all"

func ParseSortOrder(value string) (SortOrder, error) {
	switch SortOrder(value) {
	case "":
		return SortFeatured, nil
	case SortFeatured, SortPriceAsc, SortPriceDesc, SortRating, SortNewest:
		return SortOrder(value), nil
	default:
		return "", fmt.Errorf("unknown sort order '%s'", value)
	}
}

// Query describes the listing page: every criterion that is left empty does not filter.
type Query struct {
	Category string              `form:"category"`
	Search   string              `form:"q"`
	MinPrice decimal.NullDecimal `form:"minPrice"`
	MaxPrice decimal.NullDecimal `form:"maxPrice"`
	Sort     SortOrder           `form:"sort"`
}

func (c *Catalog) Search(q Query) []Product {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	result := c.filter(func(p Product) bool {
		if q.Category != "" && q.Category != allCategories && p.Category != q.Category {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			return false
		}
		if q.MinPrice.Valid && p.Price.LessThan(q.MinPrice.Decimal) {
			return false
		}
		if q.MaxPrice.Valid && p.Price.GreaterThan(q.MaxPrice.Decimal) {
			return false
		}
		return true
	})

	sortProducts(result, q.Sort)

	return result
}

func sortProducts(products []Product, order SortOrder) {
	var less func(a, b Product) bool

	switch order {
	case SortPriceAsc:
		less = func(a, b Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceDesc:
		less = func(a, b Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortRating:
		less = func(a, b Product) bool { return a.Rating > b.Rating }
	case SortNewest:
		less = func(a, b Product) bool { return sequence(a.UID) > sequence(b.UID) }
	default:
		less = func(a, b Product) bool { return a.Featured && !b.Featured }
	}

	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}

// sequence interprets numeric product uids as their order of publication.
func sequence(uid string) int {
	n, err := strconv.Atoi(uid)
	if err != nil {
		return 0
	}
	return n
}
