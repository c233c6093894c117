package postgres

import (
	"context"
	"database/sql"
	"time"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository"
)

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateTransaction(ctx context.Context, tx *domain.LedgerTransaction) error {
	logger.DatabaseCall("INSERT", "ledger_transactions", "customer_id", tx.CustomerID, "type", tx.Type)
	query := `INSERT INTO ledger_transactions (customer_id, amount_cents, type, related_reservation_id, description, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	tx.CreatedOn = time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query, tx.CustomerID, tx.AmountCents, tx.Type, tx.RelatedReservationID, tx.Description, tx.CreatedOn).Scan(&tx.ID)
	logger.DatabaseResult("INSERT", 1, err, "transaction_id", tx.ID)
	return err
}

// GetBalance sums the append-only ledger
func (r *ledgerRepository) GetBalance(ctx context.Context, customerID int32) (int64, error) {
	var balance int64
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM ledger_transactions WHERE customer_id = $1`
	err := r.db.QueryRowContext(ctx, query, customerID).Scan(&balance)
	return balance, err
}

func (r *ledgerRepository) ListTransactions(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	countQuery := `SELECT count(*) FROM ledger_transactions WHERE customer_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, customerID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, customer_id, amount_cents, type, related_reservation_id, COALESCE(description, ''), created_on
	          FROM ledger_transactions WHERE customer_id = $1 ORDER BY created_on DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, customerID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.LedgerTransaction
	for rows.Next() {
		var tx domain.LedgerTransaction
		var related sql.NullString
		if err := rows.Scan(&tx.ID, &tx.CustomerID, &tx.AmountCents, &tx.Type, &related, &tx.Description, &tx.CreatedOn); err != nil {
			return nil, 0, err
		}
		if related.Valid {
			tx.RelatedReservationID = &related.String
		}
		txs = append(txs, tx)
	}
	return txs, count, rows.Err()
}
