package services

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"octagon-oracle/models"
	"octagon-oracle/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type EventService struct {
	DB       *gorm.DB
	Payments *PaymentService
}

func NewEventService(db *gorm.DB, payments *PaymentService) *EventService {
	return &EventService{DB: db, Payments: payments}
}

// CreateEvent creates a fight card from a multipart form. Admin only.
func (s *EventService) CreateEvent(c *fiber.Ctx) error {
	name := c.FormValue("name")
	dateStr := c.FormValue("date")
	deadlineStr := c.FormValue("picks_deadline")
	entryFeeStr := c.FormValue("entry_fee")

	if name == "" || dateStr == "" || deadlineStr == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name, date and picks_deadline are required"})
	}

	date, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid date (use RFC3339)"})
	}
	deadline, err := time.Parse(time.RFC3339, deadlineStr)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid picks_deadline (use RFC3339)"})
	}

	entryFee := 0.0
	if entryFeeStr != "" {
		if f, err := strconv.ParseFloat(entryFeeStr, 64); err == nil && f >= 0 {
			entryFee = f
		} else {
			return c.Status(400).JSON(fiber.Map{"error": "entry_fee must be a non-negative number"})
		}
	}

	var mainPhotoURL string
	if photo, err := c.FormFile("main_photo"); err == nil && photo.Size > 0 {
		url, err := utils.UploadImage(photo, "events/main")
		if err != nil {
			log.Printf("main photo upload failed: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload main photo"})
		}
		mainPhotoURL = url
	}

	event := &models.Event{
		ID:            uuid.NewString(),
		Name:          name,
		Slug:          slug.Make(name),
		Date:          date,
		PicksDeadline: deadline,
		EntryFee:      entryFee,
		Status:        models.EventStatusUpcoming,
		MainPhotoURL:  mainPhotoURL,
	}
	if err := s.DB.Create(event).Error; err != nil {
		log.Printf("ERROR creating event: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}
	return c.Status(201).JSON(event)
}

// AddFight appends a fight to an event's card. Fighter images go to object
// storage; sort order defaults to the current card length when absent.
func (s *EventService) AddFight(c *fiber.Ctx) error {
	eventID := c.Params("id")

	var event models.Event
	if err := s.DB.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "event not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	f1 := strings.TrimSpace(c.FormValue("fighter1_name"))
	f2 := strings.TrimSpace(c.FormValue("fighter2_name"))
	if f1 == "" || f2 == "" {
		return c.Status(400).JSON(fiber.Map{"error": "fighter1_name and fighter2_name are required"})
	}

	sortOrder := -1
	if v := c.FormValue("sort_order"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "sort_order must be a non-negative integer"})
		}
		sortOrder = n
	}
	if sortOrder < 0 {
		var count int64
		s.DB.Model(&models.Fight{}).Where("event_id = ?", eventID).Count(&count)
		sortOrder = int(count)
	}

	var img1, img2 string
	if photo, err := c.FormFile("fighter1_img"); err == nil && photo.Size > 0 {
		url, err := utils.UploadImage(photo, "fighters")
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload fighter1 image"})
		}
		img1 = url
	}
	if photo, err := c.FormFile("fighter2_img"); err == nil && photo.Size > 0 {
		url, err := utils.UploadImage(photo, "fighters")
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload fighter2 image"})
		}
		img2 = url
	}

	fight := &models.Fight{
		ID:               uuid.NewString(),
		EventID:          eventID,
		Fighter1Name:     f1,
		Fighter1Record:   c.FormValue("fighter1_record"),
		Fighter1ImageURL: img1,
		Fighter2Name:     f2,
		Fighter2Record:   c.FormValue("fighter2_record"),
		Fighter2ImageURL: img2,
		SortOrder:        sortOrder,
	}
	if err := s.DB.Create(fight).Error; err != nil {
		log.Printf("ERROR creating fight for event %s: %v", eventID, err)
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}
	return c.Status(201).JSON(fight)
}

// ListEvents returns every event with its ordered card. Public.
func (s *EventService) ListEvents(c *fiber.Ctx) error {
	var events []models.Event
	err := s.DB.
		Preload("Fights", func(db *gorm.DB) *gorm.DB {
			return db.Order("\"sort_order\" ASC")
		}).
		Order("date DESC").
		Find(&events).Error
	if err != nil {
		log.Printf("ERROR fetching events: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch events"})
	}
	return c.JSON(events)
}

// GetEventView returns the event, its ordered fights, the requesting user's
// picks keyed by fight id, their bonus pick and whether they have paid entry.
func (s *EventService) GetEventView(c *fiber.Ctx) error {
	eventID := c.Params("id")
	userID := c.Locals("user_id").(string)

	var event models.Event
	err := s.DB.
		Preload("Fights", func(db *gorm.DB) *gorm.DB {
			return db.Order("\"sort_order\" ASC")
		}).
		First(&event, "id = ?", eventID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "event not found"})
		}
		log.Printf("ERROR fetching event %s: %v", eventID, err)
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	var picks []models.Pick
	if err := s.DB.
		Where("user_id = ? AND fight_id IN (SELECT id FROM fights WHERE event_id = ?)", userID, eventID).
		Find(&picks).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch picks"})
	}
	userPicks := make(map[string]models.Pick, len(picks))
	for _, p := range picks {
		userPicks[p.FightID] = p
	}

	var bonusPick *models.BonusPick
	var bp models.BonusPick
	if err := s.DB.Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&bp).Error; err == nil {
		bonusPick = &bp
	}

	hasPaid, err := s.Payments.HasPaid(userID, eventID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to check payment status"})
	}

	return c.JSON(fiber.Map{
		"event":      event,
		"user_picks": userPicks,
		"bonus_pick": bonusPick,
		"has_paid":   hasPaid,
	})
}

// UpdateEvent edits event metadata. Bonus-result fields are settlement's
// territory and stay untouched here.
func (s *EventService) UpdateEvent(c *fiber.Ctx) error {
	id := c.Params("id")

	var event models.Event
	if err := s.DB.First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "event not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(c.FormValue("name")); name != "" {
		updates["name"] = name
		updates["slug"] = slug.Make(name)
	}
	if v := c.FormValue("date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid date (use RFC3339)"})
		}
		updates["date"] = t
	}
	if v := c.FormValue("picks_deadline"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid picks_deadline (use RFC3339)"})
		}
		updates["picks_deadline"] = t
	}
	if v := c.FormValue("entry_fee"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "entry_fee must be a non-negative number"})
		}
		updates["entry_fee"] = f
	}
	if v := c.FormValue("status"); v != "" {
		if v != models.EventStatusUpcoming && v != models.EventStatusLive && v != models.EventStatusCompleted {
			return c.Status(400).JSON(fiber.Map{"error": "invalid status"})
		}
		updates["status"] = v
	}
	if photo, err := c.FormFile("main_photo"); err == nil && photo.Size > 0 {
		url, err := utils.UploadImage(photo, "events/main")
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload main photo"})
		}
		updates["main_photo_url"] = url
	}

	if len(updates) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "nothing to update"})
	}
	if err := s.DB.Model(&event).Updates(updates).Error; err != nil {
		log.Printf("ERROR updating event %s: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "update failed"})
	}

	s.DB.Preload("Fights", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"sort_order\" ASC")
	}).First(&event, "id = ?", id)
	return c.JSON(event)
}

// DeleteEvent removes an event and everything that hangs off it, in
// dependency order inside one transaction.
func (s *EventService) DeleteEvent(c *fiber.Ctx) error {
	id := c.Params("id")
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("fight_id IN (SELECT id FROM fights WHERE event_id = ?)", id).
			Delete(&models.Pick{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.BonusPick{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Fight{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Event{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(404, "event not found")
		}
		return nil
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		log.Printf("ERROR deleting event %s: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "delete failed"})
	}
	return c.JSON(fiber.Map{"message": "event deleted"})
}

// SearchFighters matches fighter names accent-insensitively, so "jose" finds
// "José". Matching happens in memory over the (small) fight table because the
// store cannot fold diacritics.
func (s *EventService) SearchFighters(c *fiber.Ctx) error {
	query := utils.NormalizeName(c.Query("q", ""))
	if query == "" {
		return c.Status(400).JSON(fiber.Map{"error": "q is required"})
	}

	var fights []models.Fight
	if err := s.DB.Select("id", "event_id", "fighter1_name", "fighter1_record", "fighter1_image_url",
		"fighter2_name", "fighter2_record", "fighter2_image_url").
		Find(&fights).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "search failed"})
	}

	type FighterHit struct {
		Name     string `json:"name"`
		Record   string `json:"record"`
		ImageURL string `json:"image_url"`
		FightID  string `json:"fight_id"`
		EventID  string `json:"event_id"`
	}
	var hits []FighterHit
	seen := map[string]bool{}
	for _, f := range fights {
		if strings.Contains(utils.NormalizeName(f.Fighter1Name), query) && !seen[f.Fighter1Name] {
			seen[f.Fighter1Name] = true
			hits = append(hits, FighterHit{f.Fighter1Name, f.Fighter1Record, f.Fighter1ImageURL, f.ID, f.EventID})
		}
		if strings.Contains(utils.NormalizeName(f.Fighter2Name), query) && !seen[f.Fighter2Name] {
			seen[f.Fighter2Name] = true
			hits = append(hits, FighterHit{f.Fighter2Name, f.Fighter2Record, f.Fighter2ImageURL, f.ID, f.EventID})
		}
	}
	return c.JSON(hits)
}
