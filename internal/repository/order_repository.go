package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/order-service/internal/domain"
)

// OrderFilter captures the paginated search parameters.
type OrderFilter struct {
	Status   string
	FromDate time.Time
	ToDate   time.Time
	Limit    int
	Offset   int
}

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int) (*domain.Order, error)
	GetAll(ctx context.Context) ([]domain.Order, error)
	GetByStatusSorted(ctx context.Context, status string) ([]domain.Order, error)
	Delete(ctx context.Context, id int) error
	BulkDeleteByStatus(ctx context.Context, status string) (int, error)
	ListWithFilter(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)
}

type orderRepository struct {
	db DB
}

// NewOrderRepository instantiates the repository.
func NewOrderRepository(db DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (order_id, description, status)
        VALUES ($1, $2, $3)
        RETURNING id, create_date`

	return r.db.QueryRow(ctx, query,
		order.OrderID,
		order.Description,
		order.Status,
	).Scan(&order.ID, &order.CreateDate)
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	const query = `
        UPDATE orders SET description=$1, status=$2, create_date=$3
        WHERE id=$4`

	cmd, err := r.db.Exec(ctx, query,
		order.Description,
		order.Status,
		order.CreateDate,
		order.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int) (*domain.Order, error) {
	const query = `
        SELECT id, order_id, description, status, create_date
        FROM orders WHERE id=$1`

	var order domain.Order
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.OrderID,
		&order.Description,
		&order.Status,
		&order.CreateDate,
	); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetAll(ctx context.Context) ([]domain.Order, error) {
	const query = `
        SELECT id, order_id, description, status, create_date
        FROM orders ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) GetByStatusSorted(ctx context.Context, status string) ([]domain.Order, error) {
	const query = `
        SELECT id, order_id, description, status, create_date
        FROM orders WHERE status=$1 ORDER BY create_date DESC`

	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM orders WHERE id=$1`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) BulkDeleteByStatus(ctx context.Context, status string) (int, error) {
	const query = `DELETE FROM orders WHERE status=$1`

	cmd, err := r.db.Exec(ctx, query, status)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func (r *orderRepository) ListWithFilter(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error) {
	conditions := []string{"status=$1", "create_date >= $2", "create_date <= $3"}
	args := []any{filter.Status, filter.FromDate, filter.ToDate}
	where := strings.Join(conditions, " AND ")

	countQuery := "SELECT COUNT(*) FROM orders WHERE " + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`
        SELECT id, order_id, description, status, create_date
        FROM orders WHERE %s
        ORDER BY create_date DESC
        LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.OrderID,
			&order.Description,
			&order.Status,
			&order.CreateDate,
		); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
