package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/beat-marketplace/internal/middleware"
	"github.com/iliyamo/beat-marketplace/internal/model"
	"github.com/iliyamo/beat-marketplace/internal/queue"
	"github.com/iliyamo/beat-marketplace/internal/repository"
	queue_publisher "github.com/iliyamo/beat-marketplace/internal/service"
)

// PurchaseHandler bundles dependencies for purchase endpoints. It holds
// the raw *sql.DB because creating a purchase and bumping the beat's
// purchase counter must share one transaction.
type PurchaseHandler struct {
	DB        *sql.DB
	Beats     *repository.BeatRepo
	Purchases *repository.PurchaseRepo
	Users     *repository.UserRepo
}

func NewPurchaseHandler(db *sql.DB, b *repository.BeatRepo, p *repository.PurchaseRepo, u *repository.UserRepo) *PurchaseHandler {
	return &PurchaseHandler{DB: db, Beats: b, Purchases: p, Users: u}
}

type purchaseReq struct {
	BeatID        uint64 `json:"beat_id"`
	PaymentMethod string `json:"payment_method"` // stripe | paypal | pix
}

// purchaseResp mirrors the stored receipt, with the amount serialized
// both as cents and as a float.
type purchaseResp struct {
	ID            uint64    `json:"id"`
	BeatID        uint64    `json:"beat_id"`
	BeatTitle     string    `json:"beat_title"`
	BuyerID       uint64    `json:"buyer_id"`
	BuyerName     string    `json:"buyer_name"`
	ProducerID    uint64    `json:"producer_id"`
	AmountCents   uint32    `json:"amount_cents"`
	Amount        float64   `json:"amount"`
	LicenseType   string    `json:"license_type"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

func purchaseView(p model.Purchase) purchaseResp {
	return purchaseResp{
		ID:            p.ID,
		BeatID:        p.BeatID,
		BeatTitle:     p.BeatTitle,
		BuyerID:       p.BuyerID,
		BuyerName:     p.BuyerName,
		ProducerID:    p.ProducerID,
		AmountCents:   p.AmountCents,
		Amount:        float64(p.AmountCents) / 100.0,
		LicenseType:   p.LicenseType,
		PaymentMethod: p.PaymentMethod,
		PaymentStatus: p.PaymentStatus,
		CreatedAt:     p.CreatedAt,
	}
}

func purchaseViews(ps []model.Purchase) []purchaseResp {
	out := make([]purchaseResp, 0, len(ps))
	for _, p := range ps {
		out = append(out, purchaseView(p))
	}
	return out
}

// Create buys a beat for the authenticated artist. The purchase row and
// the beat's purchase counter commit in one transaction; the UNIQUE KEY
// over (beat_id, buyer_id) turns duplicate attempts into 409 regardless
// of interleaving. There is no payment gateway: purchases complete
// immediately with payment_status "completed".
func (h *PurchaseHandler) Create(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req purchaseReq
	if err := c.Bind(&req); err != nil || req.BeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "beat_id required"})
	}
	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	switch method {
	case model.PaymentStripe, model.PaymentPaypal, model.PaymentPix:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method must be stripe, paypal or pix"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Beats.GetByID(ctx, req.BeatID)
	if err != nil {
		if err == repository.ErrBeatNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "beat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	buyer, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	p := model.Purchase{
		BeatID:        b.ID,
		BeatTitle:     b.Title,
		BuyerID:       uid,
		BuyerName:     buyer.Name,
		ProducerID:    b.ProducerID,
		AmountCents:   b.PriceCents, // price snapshot at purchase time
		LicenseType:   b.LicenseType,
		PaymentMethod: method,
		PaymentStatus: model.PaymentCompleted,
	}
	if err := h.Purchases.CreateTx(ctx, tx, &p); err != nil {
		if err == repository.ErrAlreadyPurchased {
			return c.JSON(http.StatusConflict, echo.Map{"error": "beat already purchased"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create purchase failed"})
	}
	if err := h.Beats.IncrementPurchasesTx(ctx, tx, b.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update beat failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true
	p.CreatedAt = time.Now().UTC()

	// Fire-and-forget: a broker outage must not fail the purchase.
	go func(ev queue.PurchaseCompletedEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := queue_publisher.PublishPurchaseCompleted(ctx, ev); err != nil {
			log.Printf("purchase event publish failed: %v", err)
		}
	}(queue.PurchaseCompletedEvent{
		PurchaseID:    p.ID,
		BeatID:        p.BeatID,
		BeatTitle:     p.BeatTitle,
		BuyerID:       p.BuyerID,
		BuyerName:     p.BuyerName,
		ProducerID:    p.ProducerID,
		AmountCents:   p.AmountCents,
		LicenseType:   p.LicenseType,
		PaymentMethod: p.PaymentMethod,
		CompletedAt:   p.CreatedAt.Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, purchaseView(p))
}

// MyPurchases lists the authenticated artist's purchases, newest first.
func (h *PurchaseHandler) MyPurchases(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ps, err := h.Purchases.ListByBuyer(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"purchases": purchaseViews(ps),
		"count":     len(ps),
	})
}

// MySales lists sales of the authenticated producer's beats, newest first.
func (h *PurchaseHandler) MySales(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ps, err := h.Purchases.ListByProducer(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"sales": purchaseViews(ps),
		"count": len(ps),
	})
}
