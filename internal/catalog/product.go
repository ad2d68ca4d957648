package catalog

import "time"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	Category    string    `json:"category"`
	Featured    bool      `json:"featured"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListPage is the paged listing envelope served to clients.
type ListPage struct {
	Products      []*Product `json:"products"`
	TotalPages    int        `json:"totalPages"`
	CurrentPage   int        `json:"currentPage"`
	TotalProducts int        `json:"totalProducts"`
}
