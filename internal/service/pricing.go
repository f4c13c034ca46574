package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"go.uber.org/zap"
)

// couponDiscounts фиксированная скидка по коду
var couponDiscounts = map[string]int64{
	"WELCOME100": 100,
	"NURSE50":    50,
	"MENTOR200":  200,
}

var couponPattern = regexp.MustCompile(`^[A-Z0-9]{3,32}$`)

// NormalizeCouponCode приводит код к виду для поиска
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCouponFormat проверяет формат уже нормализованного кода
func ValidCouponFormat(code string) bool {
	return couponPattern.MatchString(code)
}

// ApplyCoupon считает итоговую цену. Цена не уходит ниже нуля,
// Discount - фактически применённая скидка.
func ApplyCoupon(basePrice int64, code string) (model.Quote, error) {
	if basePrice < 0 {
		return model.Quote{}, model.ValidationError("base price must not be negative")
	}

	code = NormalizeCouponCode(code)
	if code == "" {
		return model.Quote{}, model.ValidationError("coupon code is required")
	}
	if !ValidCouponFormat(code) {
		return model.Quote{}, model.ValidationError("coupon code must be 3-32 letters or digits")
	}

	discount, ok := couponDiscounts[code]
	if !ok {
		return model.Quote{}, model.ErrUnknownCoupon
	}

	final := basePrice - discount
	if final < 0 {
		final = 0
	}

	return model.Quote{
		BasePrice:  basePrice,
		Code:       code,
		Discount:   basePrice - final,
		FinalPrice: final,
	}, nil
}

// RemoveCoupon возвращает цену без скидки
func RemoveCoupon(q model.Quote) model.Quote {
	return model.Quote{
		BasePrice:  q.BasePrice,
		FinalPrice: q.BasePrice,
	}
}

type PaymentService struct {
	purchases PurchaseStore
	logger    *zap.Logger
}

func NewPaymentService(purchases PurchaseStore, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		purchases: purchases,
		logger:    logger,
	}
}

// Quote считает цену. Пустой код - цена без скидки.
func (s *PaymentService) Quote(basePrice int64, code string) (model.Quote, error) {
	if strings.TrimSpace(code) == "" {
		if basePrice < 0 {
			return model.Quote{}, model.ValidationError("base price must not be negative")
		}
		return model.Quote{BasePrice: basePrice, FinalPrice: basePrice}, nil
	}
	return ApplyCoupon(basePrice, code)
}

// CheckoutInput параметры оформления покупки
type CheckoutInput struct {
	ItemType  model.PurchaseItemType
	ItemID    int64
	BasePrice int64
	Code      string
}

// Checkout фиксирует покупку с итоговой ценой. Оплата проходит во внешнем шлюзе.
func (s *PaymentService) Checkout(ctx context.Context, userID int64, in CheckoutInput) (*model.Purchase, error) {
	if !in.ItemType.Valid() {
		return nil, model.ValidationError("unknown item type %q", in.ItemType)
	}
	if in.ItemID <= 0 {
		return nil, model.ValidationError("itemId is required")
	}

	quote, err := s.Quote(in.BasePrice, in.Code)
	if err != nil {
		return nil, err
	}

	purchase := &model.Purchase{
		UserID:     userID,
		ItemType:   in.ItemType,
		ItemID:     in.ItemID,
		BasePrice:  quote.BasePrice,
		CouponCode: quote.Code,
		Discount:   quote.Discount,
		FinalPrice: quote.FinalPrice,
		Status:     model.PurchaseStatusPending,
	}

	if err := s.purchases.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}

	s.logger.Info("Purchase created",
		zap.Int64("purchase_id", purchase.ID),
		zap.Int64("user_id", userID),
		zap.String("item_type", string(in.ItemType)),
		zap.Int64("final_price", purchase.FinalPrice),
		zap.String("coupon", purchase.CouponCode),
	)

	return purchase, nil
}

// ListPurchases получает покупки пользователя
func (s *PaymentService) ListPurchases(ctx context.Context, userID int64) ([]*model.Purchase, error) {
	purchases, err := s.purchases.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return purchases, nil
}
