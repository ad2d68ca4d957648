package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "storefront_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

// CreateOrder inserts the order and its outbox event in one transaction so an
// order can never exist without its OrderPlaced event, or vice versa.
func (r *Repository) CreateOrder(ctx context.Context, order *Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.Number,
		"user_id":      order.UserID,
		"items":        order.Items,
		"total_amount": order.TotalAmount,
		"currency":     order.Currency,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `INSERT INTO orders (id, order_number, user_id, items, subtotal, tax, shipping, total_amount, currency, status, created_at, updated_at)
	               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())`

	_, insertErr := tx.ExecContext(ctx, orderQuery,
		order.ID,
		order.Number,
		order.UserID,
		itemsJSON,
		order.Subtotal,
		order.Tax,
		order.Shipping,
		order.TotalAmount,
		order.Currency,
		order.Status)

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}

	outboxQuery := `INSERT INTO order_outbox (aggregate_id, event_type, payload, created_at)
	                VALUES ($1, $2, $3, NOW())`

	if _, err := tx.ExecContext(ctx, outboxQuery, order.ID.String(), "OrderPlaced", payload); err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order tx: %w", err)
	}
	return nil
}

const orderColumns = `id, order_number, user_id, items, subtotal, tax, shipping, total_amount, currency, status, created_at, updated_at`

func scanOrder(s interface{ Scan(...any) error }) (*Order, error) {
	var order Order
	var itemsJSON []byte
	err := s.Scan(
		&order.ID,
		&order.Number,
		&order.UserID,
		&itemsJSON,
		&order.Subtotal,
		&order.Tax,
		&order.Shipping,
		&order.TotalAmount,
		&order.Currency,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	return &order, nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE id = $1", orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return order, nil
}

func (r *Repository) ListOrdersByUserID(ctx context.Context, userID string) ([]*Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE user_id = $1 ORDER BY created_at DESC", orderColumns)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user id: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *Repository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `SELECT id, aggregate_id, event_type, payload, created_at
	          FROM order_outbox WHERE processed_at IS NULL ORDER BY id LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query unprocessed events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		ev := &OutboxEvent{}
		if err := rows.Scan(&ev.ID, &ev.AggregateID, &ev.EventType, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

func (r *Repository) MarkEventAsProcessed(ctx context.Context, id int) error {
	query := `UPDATE order_outbox SET processed_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("mark event processed: %w", err)
	}
	return nil
}

// SalesStats returns the lifetime sales total and order count.
func (r *Repository) SalesStats(ctx context.Context) (totalSales float64, totalOrders int, err error) {
	query := `SELECT COALESCE(SUM(total_amount), 0), COUNT(*) FROM orders WHERE status <> 'cancelled'`
	if err := r.db.QueryRowContext(ctx, query).Scan(&totalSales, &totalOrders); err != nil {
		return 0, 0, fmt.Errorf("query sales stats: %w", err)
	}
	return totalSales, totalOrders, nil
}

func (r *Repository) RecentOrders(ctx context.Context, limit int) ([]*Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders ORDER BY created_at DESC LIMIT $1", orderColumns)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent orders: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

// MonthlySales buckets non-cancelled order totals per calendar month for the
// last `months` months, oldest first.
func (r *Repository) MonthlySales(ctx context.Context, months int) ([]MonthlyBucket, error) {
	query := `SELECT date_trunc('month', created_at) AS month, SUM(total_amount)
	          FROM orders
	          WHERE status <> 'cancelled'
	            AND created_at >= date_trunc('month', NOW()) - ($1 || ' months')::interval
	          GROUP BY month
	          ORDER BY month`

	rows, err := r.db.QueryContext(ctx, query, months-1)
	if err != nil {
		return nil, fmt.Errorf("query monthly sales: %w", err)
	}
	defer rows.Close()

	var buckets []MonthlyBucket
	for rows.Next() {
		var b MonthlyBucket
		if err := rows.Scan(&b.Month, &b.Sales); err != nil {
			return nil, fmt.Errorf("scan monthly bucket: %w", err)
		}
		buckets = append(buckets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return buckets, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
