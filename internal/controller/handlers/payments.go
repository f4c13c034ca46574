package handlers

import (
	"net/http"
	"strconv"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/service"
	"github.com/gin-gonic/gin"
)

// CheckCoupon GET /coupons/:code?basePrice=
func (h *Handlers) CheckCoupon(c *gin.Context) {
	basePrice, err := strconv.ParseInt(c.Query("basePrice"), 10, 64)
	if err != nil {
		h.respondError(c, model.ValidationError("basePrice must be a number"))
		return
	}

	quote, err := service.ApplyCoupon(basePrice, c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"quote":   quote,
	})
}

type quoteRequest struct {
	BasePrice int64  `json:"basePrice" binding:"min=0"`
	Code      string `json:"code" binding:"omitempty,coupon"`
}

// Quote POST /payments/quote
func (h *Handlers) Quote(c *gin.Context) {
	var req quoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.payments.Quote(req.BasePrice, req.Code)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"quote":   quote,
	})
}

type checkoutRequest struct {
	ItemType  string `json:"itemType" binding:"required,oneof=course booking workshop"`
	ItemID    int64  `json:"itemId" binding:"required,min=1"`
	BasePrice int64  `json:"basePrice" binding:"min=0"`
	Code      string `json:"code" binding:"omitempty,coupon"`
}

// Checkout POST /payments/checkout
func (h *Handlers) Checkout(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req checkoutRequest
	if !h.bindJSON(c, &req) {
		return
	}

	purchase, err := h.payments.Checkout(c.Request.Context(), actor.UserID, service.CheckoutInput{
		ItemType:  model.PurchaseItemType(req.ItemType),
		ItemID:    req.ItemID,
		BasePrice: req.BasePrice,
		Code:      req.Code,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"purchase": purchase,
	})
}

// MyPurchases GET /my/purchases
func (h *Handlers) MyPurchases(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	purchases, err := h.payments.ListPurchases(c.Request.Context(), actor.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"purchases": purchases,
	})
}
