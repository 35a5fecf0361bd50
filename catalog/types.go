package catalog

// Category corresponds to "List categories" (GET /api/products/categories).
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Product corresponds to "Products by category"
// (GET /api/products/category/{slug}).
//
// Prices are whole currency units (KSH).
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Sizes       []string `json:"sizes,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Image       string   `json:"main_image,omitempty"`
	Description string   `json:"description,omitempty"`
	CategoryID  int64    `json:"category_id,omitempty"`
}
