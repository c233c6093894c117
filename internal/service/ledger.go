package service

import (
	"context"
	"strings"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/repository"
)

type ledgerService struct {
	ledgerRepo repository.LedgerRepository
}

func NewLedgerService(ledgerRepo repository.LedgerRepository) LedgerService {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

func (s *ledgerService) GetBalance(ctx context.Context, customerID int32) (int64, error) {
	return s.ledgerRepo.GetBalance(ctx, customerID)
}

func (s *ledgerService) GetTransactions(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.ledgerRepo.ListTransactions(ctx, customerID, page, pageSize)
}

// Credit records a gift or manual credit. Balance usage and refunds are written by the
// reservation lifecycle only.
func (s *ledgerService) Credit(ctx context.Context, customerID int32, amountCents int64, txType domain.TransactionType, description string) (*domain.LedgerTransaction, error) {
	switch txType {
	case domain.TransactionTypeManualCredit, domain.TransactionTypeReferralGift, domain.TransactionTypeSignupGift:
	default:
		return nil, domain.NewError(domain.ErrorKindInvalidArgument, "transaction type cannot be credited directly")
	}
	if amountCents <= 0 {
		return nil, domain.NewError(domain.ErrorKindInvalidArgument, "credit amount must be positive")
	}

	tx := &domain.LedgerTransaction{
		CustomerID:  customerID,
		AmountCents: amountCents,
		Type:        txType,
		Description: strings.TrimSpace(description),
	}
	if err := s.ledgerRepo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}
