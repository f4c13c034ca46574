package model

import "time"

type PurchaseItemType string

const (
	PurchaseItemCourse   PurchaseItemType = "course"
	PurchaseItemBooking  PurchaseItemType = "booking"
	PurchaseItemWorkshop PurchaseItemType = "workshop"
)

// Valid проверяет тип покупки
func (t PurchaseItemType) Valid() bool {
	switch t {
	case PurchaseItemCourse, PurchaseItemBooking, PurchaseItemWorkshop:
		return true
	}
	return false
}

const PurchaseStatusPending = "pending"

// Quote итоговая цена с применённым купоном
type Quote struct {
	BasePrice  int64  `json:"basePrice"`
	Code       string `json:"code,omitempty"`
	Discount   int64  `json:"discount"`
	FinalPrice int64  `json:"finalPrice"`
}

// Purchase зафиксированная на момент оформления цена. Оплата - во внешнем шлюзе.
type Purchase struct {
	ID         int64            `json:"id"`
	UserID     int64            `json:"userId"`
	ItemType   PurchaseItemType `json:"itemType"`
	ItemID     int64            `json:"itemId"`
	BasePrice  int64            `json:"basePrice"`
	CouponCode string           `json:"couponCode,omitempty"`
	Discount   int64            `json:"discount"`
	FinalPrice int64            `json:"finalPrice"`
	Status     string           `json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`
}
