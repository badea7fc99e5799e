package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"octagon-oracle/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentFeedClient consumes the payment provider's settled-payments feed and
// mirrors it into the payments table. This is the only writer of Payment
// rows; the service itself never decides whether someone has paid.
type PaymentFeedClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewPaymentFeedClient(db *gorm.DB) *PaymentFeedClient {
	baseURL := os.Getenv("PAYMENT_FEED_URL")
	if baseURL == "" {
		log.Fatal("PAYMENT_FEED_URL environment variable is required")
	}
	token := os.Getenv("PAYMENT_FEED_TOKEN")
	if token == "" {
		log.Fatal("PAYMENT_FEED_TOKEN environment variable is required")
	}

	return &PaymentFeedClient{
		BaseURL: baseURL,
		Token:   token,
		DB:      db,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// feedPayment is one entry of the provider's feed.
type feedPayment struct {
	ExternalPaymentID string     `json:"external_payment_id"`
	UserID            string     `json:"user_id"`
	EventID           string     `json:"event_id"`
	Amount            float64    `json:"amount"`
	Status            string     `json:"status"`
	PaidAt            *time.Time `json:"paid_at"`
}

// GetSettledPayments fetches payments that changed since the given time.
func (c *PaymentFeedClient) GetSettledPayments(ctx context.Context, since time.Time) ([]feedPayment, error) {
	u, err := url.Parse(fmt.Sprintf("%s/payments", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed URL: %w", err)
	}
	q := u.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call payment feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("payment feed returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Payments []feedPayment `json:"payments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode payment feed response: %w", err)
	}
	return response.Payments, nil
}

// PollPayments mirrors the feed into the payments table on a fixed interval,
// upserting on the provider's payment id so status transitions (pending →
// paid, paid → refunded) land on the existing row.
func PollPayments(ctx context.Context, client *PaymentFeedClient, pollInterval time.Duration) {
	log.Println("Starting payment feed polling...")
	lastSyncTime := time.Now().UTC().Add(-24 * time.Hour)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Payment feed polling stopped.")
			return
		case <-ticker.C:
			tickStart := time.Now().UTC()

			feed, err := client.GetSettledPayments(ctx, lastSyncTime)
			if err != nil {
				log.Printf("Error polling payment feed: %v", err)
				continue
			}
			if len(feed) == 0 {
				continue
			}

			payments := make([]models.Payment, 0, len(feed))
			for _, fp := range feed {
				if fp.ExternalPaymentID == "" || fp.UserID == "" || fp.EventID == "" {
					log.Printf("Skipping malformed feed entry (external id %q)", fp.ExternalPaymentID)
					continue
				}
				payments = append(payments, models.Payment{
					ID:                uuid.NewString(),
					UserID:            fp.UserID,
					EventID:           fp.EventID,
					Amount:            fp.Amount,
					Status:            fp.Status,
					ExternalPaymentID: fp.ExternalPaymentID,
					PaidAt:            fp.PaidAt,
				})
			}
			if len(payments) == 0 {
				continue
			}

			if err := client.DB.Clauses(
				clause.OnConflict{
					Columns: []clause.Column{{Name: "external_payment_id"}},
					DoUpdates: clause.AssignmentColumns([]string{
						"amount",
						"status",
						"paid_at",
					}),
				},
			).Create(&payments).Error; err != nil {
				// Keep lastSyncTime so the same window is retried next tick.
				log.Printf("Failed to upsert %d payment(s): %v", len(payments), err)
				continue
			}

			lastSyncTime = tickStart
			log.Printf("Synced %d payment(s) from feed.", len(payments))
		}
	}
}
