package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"
)

var ErrProductNotFound = errors.New("product not found")

// ListFilter narrows a paged listing. Zero values mean "no filter".
type ListFilter struct {
	Category string
	Featured bool
	Page     int
	PageSize int
}

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

const productColumns = "id, name, description, price, image_url, category, featured, stock, created_at"

func scanProduct(s interface{ Scan(...any) error }) (*Product, error) {
	p := &Product{}
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.ImageURL,
		&p.Category,
		&p.Featured,
		&p.Stock,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProducts returns one page of products plus the paging envelope.
func (r *Repository) ListProducts(ctx context.Context, filter ListFilter) (*ListPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 12
	}

	where := "WHERE 1=1"
	args := []any{}
	if filter.Category != "" {
		where += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.Featured {
		where += " AND featured = 1"
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM products " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM products %s ORDER BY id LIMIT ? OFFSET ?",
		productColumns, where,
	)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	totalPages := (total + filter.PageSize - 1) / filter.PageSize
	return &ListPage{
		Products:      products,
		TotalPages:    totalPages,
		CurrentPage:   filter.Page,
		TotalProducts: total,
	}, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = ?", productColumns)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

func (r *Repository) CreateProduct(ctx context.Context, p *Product) (int64, error) {
	query := `
		INSERT INTO products (name, description, price, image_url, category, featured, stock)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		p.Name, p.Description, p.Price, p.ImageURL, p.Category, p.Featured, p.Stock)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return id, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET name = ?, description = ?, price = ?, image_url = ?, category = ?, featured = ?, stock = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(ctx, query,
		p.Name, p.Description, p.Price, p.ImageURL, p.Category, p.Featured, p.Stock, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repository) CountProducts(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// CountLowStock counts products at or below the given stock threshold.
func (r *Repository) CountLowStock(ctx context.Context, threshold int) (int, error) {
	var total int
	query := "SELECT COUNT(*) FROM products WHERE stock <= ?"
	if err := r.db.QueryRowContext(ctx, query, threshold).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count low-stock products: %w", err)
	}
	return total, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
