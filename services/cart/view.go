package cart

import (
	"time"
)

type LineView struct {
	ProductUID string `json:"productUID"`
	Title      string `json:"title"`
	Image      string `json:"image,omitempty"`
	UnitPrice  string `json:"unitPrice"`
	Quantity   int    `json:"quantity"`
	LineTotal  string `json:"lineTotal"`
}

type View struct {
	SessionUID   string     `json:"sessionUID"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastModified *time.Time `json:"lastModified,omitempty"`
	Lines        []LineView `json:"lines"`
	ItemCount    int        `json:"itemCount"`
	LineCount    int        `json:"lineCount"`
	Total        string     `json:"total"`
}

type SessionCreated struct {
	SessionUID string `json:"sessionUID"`
	Cart       View   `json:"cart"`
}

func (c Cart) View() View {
	lines := make([]LineView, 0, len(c.Lines))
	for _, l := range c.Lines {
		image := ""
		if len(l.Product.Images) > 0 {
			image = l.Product.Images[0]
		}
		lines = append(lines, LineView{
			ProductUID: l.Product.UID,
			Title:      l.Product.Title,
			Image:      image,
			UnitPrice:  l.Product.Price.StringFixed(2),
			Quantity:   l.Quantity,
			LineTotal:  l.Total().StringFixed(2),
		})
	}

	return View{
		SessionUID:   c.SessionUID,
		CreatedAt:    c.CreatedAt,
		LastModified: c.LastModified,
		Lines:        lines,
		ItemCount:    c.ItemCount(),
		LineCount:    len(c.Lines),
		Total:        c.Total().StringFixed(2),
	}
}
