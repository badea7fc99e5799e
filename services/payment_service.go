package services

import (
	"octagon-oracle/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PaymentService reads payment state recorded by the feed worker. It gates
// pick writes but never computes or mutates payment status itself.
type PaymentService struct {
	DB *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{DB: db}
}

// HasPaid reports whether a settled payment exists for (user, event).
func (s *PaymentService) HasPaid(userID, eventID string) (bool, error) {
	var n int64
	err := s.DB.Model(&models.Payment{}).
		Where("user_id = ? AND event_id = ? AND status = ?", userID, eventID, models.PaymentStatusPaid).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListMine returns the requesting user's payment records, newest first.
func (s *PaymentService) ListMine(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	var payments []models.Payment
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch payments"})
	}
	return c.JSON(payments)
}
