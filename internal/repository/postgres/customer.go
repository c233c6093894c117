package postgres

import (
	"context"
	"database/sql"
	"time"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/repository"

	"github.com/lib/pq"
)

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (email, name, groups, payment_token, push_token, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	c.CreatedOn = time.Now().UTC()
	return r.db.QueryRowContext(ctx, query, c.Email, c.Name, pq.Array(c.Groups), c.PaymentToken, c.PushToken, c.CreatedOn).Scan(&c.ID)
}

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	c := &domain.Customer{}
	var pushToken sql.NullString
	query := `SELECT id, email, name, groups, payment_token, push_token, created_on FROM customers WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Email, &c.Name, pq.Array(&c.Groups), &c.PaymentToken, &pushToken, &c.CreatedOn)
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	if pushToken.Valid {
		c.PushToken = &pushToken.String
	}
	return c, nil
}

func (r *customerRepository) AddCard(ctx context.Context, card *domain.PaymentCard) error {
	query := `INSERT INTO payment_cards (id, customer_id, token, brand, last4) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, card.ID, card.CustomerID, card.Token, card.Brand, card.Last4)
	return err
}

// GetCard only returns cards owned by the customer
func (r *customerRepository) GetCard(ctx context.Context, customerID int32, cardID string) (*domain.PaymentCard, error) {
	card := &domain.PaymentCard{}
	query := `SELECT id, customer_id, token, brand, last4 FROM payment_cards WHERE id = $1 AND customer_id = $2`
	err := r.db.QueryRowContext(ctx, query, cardID, customerID).Scan(&card.ID, &card.CustomerID, &card.Token, &card.Brand, &card.Last4)
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return card, nil
}
