package commands

import (
	"context"

	"marketplace/internal/core/domain/model/audit"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
)

// CreateOrderResult reports the identifiers of a freshly placed order along
// with the payment intent the buyer's client needs to confirm the charge.
type CreateOrderResult struct {
	OrderID      kernel.UUID
	Number       string
	ProviderRef  string
	ClientSecret string
}

// CreateOrderCommandHandler handles the business logic for order placement.
// Prices the requested items from listing snapshots, mints a payment intent
// with the provider, and persists the order, its initial timeline entry and
// the pending payment transaction atomically.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, catalog, gateway)
//	cmd, _ := NewCreateOrderCommand(buyerID, sellerID, items, "", 500, 250, nil, nil, nil)
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order placement failed: %w", err)
//	}
//	// Order is in PENDING status awaiting payment confirmation
type CreateOrderCommandHandler struct {
	uowFactory CheckoutUoWFactory
	catalog    ports.ListingCatalog
	gateway    ports.PaymentGateway
}

// NewCreateOrderCommandHandler creates a handler for order placement operations.
// Requires a CheckoutUoWFactory for transactional persistence, a ListingCatalog
// for price resolution and a PaymentGateway for intent minting.
func NewCreateOrderCommandHandler(
	uowFactory CheckoutUoWFactory,
	catalog ports.ListingCatalog,
	gateway ports.PaymentGateway,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		gateway:    gateway,
	}
}

// Handle processes the order placement command.
//
// The payment intent is minted before the database transaction opens, so a
// slow provider never holds row locks; the gateway degrades to a synthesized
// intent when the provider is unreachable. Everything else happens inside a
// single transaction: the order with its items, the initial PENDING timeline
// entry, the pending payment transaction and the audit entry.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	newOrder, err := h.assembleOrder(ctx, cmd)
	if err != nil {
		return CreateOrderResult{}, err
	}

	grandTotal, err := newOrder.GrandTotal()
	if err != nil {
		return CreateOrderResult{}, err
	}

	intent, err := h.gateway.MintIntent(ctx, newOrder.ID(), grandTotal.AmountCents(), grandTotal.Currency())
	if err != nil {
		return CreateOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	if err = orderRepo.Add(ctx, newOrder); err != nil {
		return CreateOrderResult{}, err
	}

	buyerID := cmd.BuyerID()
	timelineEvent, err := order.NewTimelineEvent(newOrder.ID(), order.Pending, "", &buyerID)
	if err != nil {
		return CreateOrderResult{}, err
	}
	if err = orderRepo.AppendTimelineEvent(ctx, timelineEvent); err != nil {
		return CreateOrderResult{}, err
	}

	paymentTx, err := payment.NewTransaction(
		kernel.NewUUID(), newOrder.ID(), paymentProviderName, grandTotal, intent.Status, intent.ID)
	if err != nil {
		return CreateOrderResult{}, err
	}
	if err = uow.PaymentRepository().Add(ctx, paymentTx); err != nil {
		return CreateOrderResult{}, err
	}

	auditEntry, err := audit.NewEntry(&buyerID, "order.created", "order", newOrder.ID().String(),
		map[string]string{"number": newOrder.Number(), "providerRef": intent.ID})
	if err != nil {
		return CreateOrderResult{}, err
	}
	if err = uow.AuditRepository().Add(ctx, auditEntry); err != nil {
		return CreateOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	return CreateOrderResult{
		OrderID:      newOrder.ID(),
		Number:       newOrder.Number(),
		ProviderRef:  intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// assembleOrder resolves prices from listing snapshots and builds the order
// aggregate. No persistence happens here.
func (h CreateOrderCommandHandler) assembleOrder(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	listingIDs := make([]kernel.UUID, 0, len(cmd.Items()))
	for _, item := range cmd.Items() {
		listingIDs = append(listingIDs, item.ListingID)
	}

	snapshots, err := h.catalog.GetByIDs(ctx, listingIDs)
	if err != nil {
		return nil, err
	}

	items, _, err := services.NewPricingResolver().Resolve(cmd.SellerID(), cmd.Items(), snapshots, cmd.Currency())
	if err != nil {
		return nil, err
	}

	newOrder, err := order.NewOrder(
		kernel.NewUUID(),
		order.NewOrderNumber(),
		cmd.BuyerID(),
		cmd.SellerID(),
		items,
		cmd.ShippingCents(),
		cmd.FeeCents(),
		cmd.Metadata(),
	)
	if err != nil {
		return nil, err
	}

	if err = newOrder.AttachAddresses(cmd.ShippingAddressID(), cmd.BillingAddressID()); err != nil {
		return nil, err
	}

	return newOrder, nil
}
