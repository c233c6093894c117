package service

import (
	"context"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository"
)

type notificationService struct {
	noteRepo     repository.NotificationRepository
	customerRepo repository.CustomerRepository
	emailSvc     EmailService
	pushSvc      PushService
}

func NewNotificationService(
	noteRepo repository.NotificationRepository,
	customerRepo repository.CustomerRepository,
	emailSvc EmailService,
	pushSvc PushService,
) NotificationService {
	if emailSvc == nil {
		emailSvc = NewLogEmailService()
	}
	if pushSvc == nil {
		pushSvc = NewLogPushService()
	}
	return &notificationService{
		noteRepo:     noteRepo,
		customerRepo: customerRepo,
		emailSvc:     emailSvc,
		pushSvc:      pushSvc,
	}
}

func (s *notificationService) Notify(ctx context.Context, customerID int32, title, message string, attrs map[string]string) {
	note := &domain.Notification{
		CustomerID: customerID,
		Title:      title,
		Message:    message,
		Attributes: attrs,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to store notification", "customerID", customerID, "error", err)
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		logger.Warn("Notification recipient not found", "customerID", customerID, "error", err)
		return
	}
	if customer.Email != "" {
		if err := s.emailSvc.SendNotification(ctx, customer.Email, customer.Name, title, message); err != nil {
			logger.Warn("Failed to email notification", "customerID", customerID, "error", err)
		}
	}
	if customer.PushToken != nil && *customer.PushToken != "" {
		if err := s.pushSvc.Send(ctx, *customer.PushToken, title, message, attrs); err != nil {
			logger.Warn("Failed to push notification", "customerID", customerID, "error", err)
		}
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, customerID, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, customerID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, customerID)
}
