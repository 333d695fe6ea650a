package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/MarcGrol/printshop/lib/myvalidate"
)

//go:embed data/products.json
var defaultCatalog []byte

// Catalog is the read-only product feed.
type Catalog struct {
	categories []Category
	products   []Product
	byUID      map[string]int
}

func LoadDefault() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

func LoadFile(filename string) (*Catalog, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening catalog %s: %s", filename, err)
	}
	defer f.Close()

	return Load(f)
}

func Load(reader io.Reader) (*Catalog, error) {
	doc := document{}
	err := json.NewDecoder(reader).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("error decoding catalog: %s", err)
	}

	err = myvalidate.New().Struct(doc)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %s", err)
	}

	knownCategories := map[string]bool{}
	for _, cat := range doc.Categories {
		if knownCategories[cat.UID] {
			return nil, fmt.Errorf("invalid catalog: duplicate category %s", cat.UID)
		}
		knownCategories[cat.UID] = true
	}

	byUID := map[string]int{}
	for idx, p := range doc.Products {
		if _, exists := byUID[p.UID]; exists {
			return nil, fmt.Errorf("invalid catalog: duplicate product %s", p.UID)
		}
		if !knownCategories[p.Category] {
			return nil, fmt.Errorf("invalid catalog: product %s has unknown category %s", p.UID, p.Category)
		}
		byUID[p.UID] = idx
	}

	return &Catalog{
		categories: doc.Categories,
		products:   doc.Products,
		byUID:      byUID,
	}, nil
}

func (c *Catalog) Get(productUID string) (Product, bool) {
	idx, found := c.byUID[productUID]
	if !found {
		return Product{}, false
	}
	return c.products[idx].clone(), true
}

// Products returns all products in feed order.
func (c *Catalog) Products() []Product {
	return c.filter(func(Product) bool { return true })
}

func (c *Catalog) Featured() []Product {
	return c.filter(func(p Product) bool { return p.Featured })
}

// Related returns up to limit other products of the same category.
func (c *Catalog) Related(productUID string, limit int) []Product {
	product, found := c.Get(productUID)
	if !found {
		return []Product{}
	}

	related := c.filter(func(p Product) bool {
		return p.Category == product.Category && p.UID != product.UID
	})
	if len(related) > limit {
		related = related[:limit]
	}
	return related
}

func (c *Catalog) Categories() []CategorySummary {
	summaries := make([]CategorySummary, 0, len(c.categories))
	for _, cat := range c.categories {
		count := 0
		for _, p := range c.products {
			if p.Category == cat.UID {
				count++
			}
		}
		summaries = append(summaries, CategorySummary{Category: cat, ProductCount: count})
	}
	return summaries
}

// MaxPrice is the highest unit price, rounded up to a whole currency unit.
func (c *Catalog) MaxPrice() decimal.Decimal {
	max := decimal.Zero
	for _, p := range c.products {
		if p.Price.GreaterThan(max) {
			max = p.Price
		}
	}
	return max.Ceil()
}

func (c *Catalog) filter(keep func(Product) bool) []Product {
	result := []Product{}
	for _, p := range c.products {
		if keep(p) {
			result = append(result, p.clone())
		}
	}
	return result
}
