// Package order implements checkout and the admin pickup workflow.
package order

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/willowtrellis/farmstand-api/internal/application/dto"
	"github.com/willowtrellis/farmstand-api/internal/domain"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	domorder "github.com/willowtrellis/farmstand-api/internal/domain/order"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
	"github.com/willowtrellis/farmstand-api/pkg/logger"
)

// UseCase order operations.
type UseCase struct {
	tx       TxRunner
	orders   repository.OrderRepository
	notifier Notifier
	receipts ReceiptGenerator
	now      func() time.Time
	log      *logger.Logger
}

// NewUseCase builds the use case.
func NewUseCase(tx TxRunner, orders repository.OrderRepository, notifier Notifier, receipts ReceiptGenerator, log *logger.Logger) *UseCase {
	return &UseCase{
		tx:       tx,
		orders:   orders,
		notifier: notifier,
		receipts: receipts,
		now:      time.Now,
		log:      log.Component("orders"),
	}
}

// Create places a pickup order for userID. Unit prices come from the catalog, never from the request.
// Unknown products are invalid input; asking for more than is in stock is ErrInsufficientStock.
// Stock is not decremented: quantities belong to the spreadsheet.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	// merge repeated lines, keep first-seen order
	qty := make(map[string]int, len(in.Items))
	var ids []string
	for _, it := range in.Items {
		if _, seen := qty[it.ID]; !seen {
			ids = append(ids, it.ID)
		}
		qty[it.ID] += it.Quantity
	}

	now := uc.now()
	o := &entity.Order{
		ID:            uuid.New().String(),
		UserID:        userID,
		Status:        entity.OrderPending,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: strings.TrimSpace(in.CustomerEmail),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		PickupNotes:   strings.TrimSpace(in.PickupNotes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := uc.tx.Run(ctx, func(products repository.ProductRepository, orders repository.OrderRepository) error {
		found, err := products.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.Product, len(found))
		for _, p := range found {
			byID[p.ID] = p
		}

		total := decimal.Zero
		o.Items = o.Items[:0]
		for _, id := range ids {
			p, ok := byID[id]
			if !ok {
				return fmt.Errorf("%w: product %s not found", domain.ErrInvalidInput, id)
			}
			if qty[id] > p.Quantity {
				return fmt.Errorf("%w: %s has %d available, %d requested", domain.ErrInsufficientStock, p.Name, p.Quantity, qty[id])
			}
			item := entity.OrderItem{
				ID:          uuid.New().String(),
				OrderID:     o.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    qty[id],
				Price:       p.Price,
			}
			total = total.Add(item.Subtotal())
			o.Items = append(o.Items, item)
		}
		o.Total = total
		return orders.Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("order_id", o.ID).Str("user_id", userID).Str("total", o.Total.StringFixed(2)).
		Int("items", len(o.Items)).Msg("order placed")
	uc.notifier.OrderPlaced(o)

	return &dto.CreateOrderResponse{Success: true, OrderID: o.ID, Message: "Order placed successfully"}, nil
}

// List returns every order for admins and the caller's own orders otherwise, newest first.
func (uc *UseCase) List(ctx context.Context, userID string, isAdmin bool) ([]dto.OrderResponse, error) {
	filter := userID
	if isAdmin {
		filter = ""
	}
	orders, err := uc.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out, nil
}

// Get returns one order. Customers only see their own.
func (uc *UseCase) Get(ctx context.Context, id, userID string, isAdmin bool) (*dto.OrderResponse, error) {
	o, err := uc.load(ctx, id, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(o)
	return &resp, nil
}

// UpdateStatus moves an order through the pickup workflow. Closed orders cannot change.
// Entering READY_FOR_PICKUP notifies the customer.
func (uc *UseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.OrderResponse, error) {
	next, err := domorder.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	o, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domorder.CanTransition(o.Status, next); err != nil {
		return nil, err
	}
	if o.Status == next {
		resp := toOrderResponse(o)
		return &resp, nil
	}

	if err := uc.orders.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	prev := o.Status
	o.Status = next
	o.UpdatedAt = uc.now()
	uc.log.Info().Str("order_id", id).Str("from", string(prev)).Str("to", string(next)).Msg("order status changed")

	if domorder.NotifiesCustomer(next) {
		uc.notifier.OrderReady(o)
	}
	resp := toOrderResponse(o)
	return &resp, nil
}

// Receipt renders the pickup receipt PDF of an order the caller may see.
func (uc *UseCase) Receipt(ctx context.Context, id, userID string, isAdmin bool) ([]byte, error) {
	o, err := uc.load(ctx, id, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.receipts.Generate(o)
	if err != nil {
		return nil, fmt.Errorf("generate receipt: %w", err)
	}
	return pdf, nil
}

func (uc *UseCase) load(ctx context.Context, id, userID string, isAdmin bool) (*entity.Order, error) {
	o, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

// find loads an order by id. Ids that are not UUIDs cannot exist and read as not found.
func (uc *UseCase) find(ctx context.Context, id string) (*entity.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func validateCreate(in dto.CreateOrderRequest) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: order must contain at least one item", domain.ErrInvalidInput)
	}
	for _, it := range in.Items {
		if it.ID == "" || it.Quantity < 1 {
			return fmt.Errorf("%w: every item needs a product id and a quantity of at least 1", domain.ErrInvalidInput)
		}
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return fmt.Errorf("%w: customer name is required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.CustomerEmail)); err != nil {
		return fmt.Errorf("%w: valid customer email is required", domain.ErrInvalidInput)
	}
	return nil
}

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
		})
	}
	return dto.OrderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Status:        string(o.Status),
		Total:         o.Total,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		PickupNotes:   o.PickupNotes,
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
