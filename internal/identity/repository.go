package identity

import (
	"context"
	"database/sql"
	"errors"

	"github.com/storecraft/commerce/internal/domain"
)

// ErrEmailTaken is returned when saving a user whose email is already in use.
// Uniqueness spans the whole user population, so it lives here rather than in
// the aggregate.
var ErrEmailTaken = errors.New("email already in use")

// Repository persists users, customers and customer-store links in the
// identity schema.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ---- users ----

func (r *Repository) SaveUser(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, role, active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET email = $2, role = $3, active = $4
	`, user.ID, user.Email, user.Role, user.Active)
	return err
}

func (r *Repository) FindUser(ctx context.Context, id string) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, role, active
		FROM users
		WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &user.Role, &user.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, role, active
		FROM users
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.Role, &user.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`, email).Scan(&exists)
	return exists, err
}

func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, role, active
		FROM users
		ORDER BY email
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	users := []domain.User{}
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Role, &user.Active); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// ---- customers ----

func (r *Repository) SaveCustomer(ctx context.Context, customer *domain.Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, user_id, store_id, first_name, last_name, phone, document, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''), $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET first_name = $4, last_name = $5, phone = $6, document = NULLIF($7, ''), updated_at = $9
	`, customer.ID, customer.UserID, customer.StoreID, customer.FirstName, customer.LastName,
		customer.Phone, customer.Document, customer.CreatedAt, customer.UpdatedAt)
	return err
}

func (r *Repository) FindCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	customer := &domain.Customer{}
	var storeID, document sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, store_id, first_name, last_name, phone, document, created_at, updated_at
		FROM customers
		WHERE id = $1
	`, id).Scan(&customer.ID, &customer.UserID, &storeID, &customer.FirstName, &customer.LastName,
		&customer.Phone, &document, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	customer.StoreID = storeID.String
	customer.Document = document.String
	return customer, nil
}

func (r *Repository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, store_id, first_name, last_name, phone, document, created_at, updated_at
		FROM customers
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	customers := []domain.Customer{}
	for rows.Next() {
		var customer domain.Customer
		var storeID, document sql.NullString
		if err := rows.Scan(&customer.ID, &customer.UserID, &storeID, &customer.FirstName, &customer.LastName,
			&customer.Phone, &document, &customer.CreatedAt, &customer.UpdatedAt); err != nil {
			return nil, err
		}
		customer.StoreID = storeID.String
		customer.Document = document.String
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

// ---- customer-store links ----

func (r *Repository) SaveLink(ctx context.Context, link *domain.CustomerStore) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customer_stores (id, customer_id, store_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET updated_at = $5
	`, link.ID, link.CustomerID, link.StoreID, link.CreatedAt, link.UpdatedAt)
	return err
}

func (r *Repository) FindLink(ctx context.Context, id string) (*domain.CustomerStore, error) {
	link := &domain.CustomerStore{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, store_id, created_at, updated_at
		FROM customer_stores
		WHERE id = $1
	`, id).Scan(&link.ID, &link.CustomerID, &link.StoreID, &link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return link, nil
}

func (r *Repository) ListLinks(ctx context.Context, customerID string) ([]domain.CustomerStore, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, store_id, created_at, updated_at
		FROM customer_stores
		WHERE customer_id = $1
		ORDER BY created_at
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	links := []domain.CustomerStore{}
	for rows.Next() {
		var link domain.CustomerStore
		if err := rows.Scan(&link.ID, &link.CustomerID, &link.StoreID, &link.CreatedAt, &link.UpdatedAt); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// DeleteLink removes an association permanently; changing an association
// means creating a new link and deleting the old one.
func (r *Repository) DeleteLink(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customer_stores WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
