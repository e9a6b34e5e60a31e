package memory

import "github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"

const seedTimestamp = "2024-01-01T00:00:00.000Z"

// Seeded returns a store filled with a small demo catalog.
func Seeded() *ContentStore {
	products := []entity.Product{
		{ID: "1", Name: "Ceramic Mug", Slug: "ceramic-mug", Price: 12.5, Description: "Stoneware mug, 350ml.", StockQuantity: 25},
		{ID: "2", Name: "Canvas Tote", Slug: "canvas-tote", Price: 18, Description: "Heavy cotton tote bag.", StockQuantity: 10},
		{ID: "3", Name: "Enamel Pin", Slug: "enamel-pin", Price: 6, StockQuantity: 3},
		{ID: "4", Name: "Wool Beanie", Slug: "wool-beanie", Price: 24, Description: "Merino wool, one size.", StockQuantity: 0},
	}
	for i := range products {
		products[i].CreatedAt = seedTimestamp
		products[i].UpdatedAt = seedTimestamp
	}

	posts := []entity.BlogPost{
		{ID: "1", Title: "Welcome to the shop", Slug: "welcome", Content: "We are open.", Author: "Staff", PublishedDate: "2024-01-02"},
		{ID: "2", Title: "Caring for stoneware", Slug: "caring-for-stoneware", Content: "Hand wash, mostly.", Author: "Staff", PublishedDate: "2024-02-14"},
	}

	return NewContentStore(products, posts)
}
