package economy

import (
	"context"

	"github.com/santiagobarrazas/CheeseShop/logging"
)

const (
	// EventSaleCompleted is emitted when a cut is accepted and paid for.
	EventSaleCompleted logging.EventType = "economy.sale_completed"
	// EventSaleFailed is emitted when provisions cannot cover a finished cut.
	EventSaleFailed logging.EventType = "economy.sale_failed"
	// EventProvisionsPurchased is emitted on a successful restock.
	EventProvisionsPurchased logging.EventType = "economy.provisions_purchased"
	// EventPurchaseRejected is emitted when a restock attempt lacks funds.
	EventPurchaseRejected logging.EventType = "economy.purchase_rejected"
)

// SaleCompletedPayload describes a finished sale.
type SaleCompletedPayload struct {
	CheeseType       string  `json:"cheeseType"`
	Accuracy         float64 `json:"accuracy"`
	WeightSold       float64 `json:"weightSold"`
	FinalPrice       int     `json:"finalPrice"`
	ReputationChange float64 `json:"reputationChange"`
}

// SaleFailedPayload describes a provisions shortfall on completion.
type SaleFailedPayload struct {
	WeightSold float64 `json:"weightSold"`
	Provisions float64 `json:"provisions"`
}

// ProvisionsPurchasedPayload describes a restock.
type ProvisionsPurchasedPayload struct {
	Grams int `json:"grams"`
	Cost  int `json:"cost"`
}

// PurchaseRejectedPayload describes why a restock failed.
type PurchaseRejectedPayload struct {
	Grams  int    `json:"grams"`
	Cost   int    `json:"cost"`
	Reason string `json:"reason"`
}

// SaleCompleted publishes a successful sale event.
func SaleCompleted(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload SaleCompletedPayload) {
	publish(ctx, pub, EventSaleCompleted, tick, actor, logging.SeverityInfo, payload)
}

// SaleFailed publishes a provisions-shortfall event.
func SaleFailed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload SaleFailedPayload) {
	publish(ctx, pub, EventSaleFailed, tick, actor, logging.SeverityWarn, payload)
}

// ProvisionsPurchased publishes a restock event.
func ProvisionsPurchased(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ProvisionsPurchasedPayload) {
	publish(ctx, pub, EventProvisionsPurchased, tick, actor, logging.SeverityInfo, payload)
}

// PurchaseRejected publishes a failed restock event.
func PurchaseRejected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PurchaseRejectedPayload) {
	publish(ctx, pub, EventPurchaseRejected, tick, actor, logging.SeverityWarn, payload)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, tick uint64, actor logging.EntityRef, severity logging.Severity, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Severity: severity,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}
