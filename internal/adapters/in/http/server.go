// Package http exposes the order lifecycle over a REST API.
// It coordinates between HTTP handlers and application use cases, translating
// transport concerns (JSON bodies, status codes, signature headers) at the
// boundary so the core never sees them.
package http

import (
	"errors"
	"io"
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server handles HTTP requests for the order lifecycle API.
type Server struct {
	// Command handlers
	createOrderHandler    commands.CreateOrderCommandHandler
	changeStatusHandler   commands.ChangeOrderStatusCommandHandler
	processWebhookHandler commands.ProcessWebhookEventCommandHandler

	// Query handlers
	getOrderHandler     queries.GetOrderQueryHandler
	getAllOrdersHandler queries.GetAllOrdersQueryHandler

	// gateway verifies webhook signatures at the transport boundary
	gateway ports.PaymentGateway
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	processWebhookHandler commands.ProcessWebhookEventCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getAllOrdersHandler queries.GetAllOrdersQueryHandler,
	gateway ports.PaymentGateway,
) *Server {
	return &Server{
		createOrderHandler:    createOrderHandler,
		changeStatusHandler:   changeStatusHandler,
		processWebhookHandler: processWebhookHandler,
		getOrderHandler:       getOrderHandler,
		getAllOrdersHandler:   getAllOrdersHandler,
		gateway:               gateway,
	}
}

// RegisterRoutes wires the API routes onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetOrders)
	api.GET("/orders/:orderId", s.GetOrder)
	api.PATCH("/orders/:orderId/status", s.ChangeOrderStatus)
	api.POST("/orders/payments/stripe/webhook", s.HandlePaymentWebhook)
}

// CreateOrder handles POST /api/v1/orders - places a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := request.toCommand()
	if err != nil {
		return domainErrorResponse(ctx, err)
	}

	result, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainErrorResponse(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(result.OrderID)
	if err != nil {
		return domainErrorResponse(ctx, err)
	}
	orderView, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainErrorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{
		Order:        toOrderResponse(orderView),
		ClientSecret: result.ClientSecret,
	})
}

// GetOrders handles GET /api/v1/orders - lists order summaries with optional
// buyerId, sellerId and status filters plus limit/offset paging.
func (s *Server) GetOrders(ctx echo.Context) error {
	var params ListOrdersParams
	if err := ctx.Bind(&params); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid query parameters")
	}

	buyerID, err := parseOptionalUUID(params.BuyerID)
	if err != nil {
		return domainErrorResponse(ctx, err)
	}
	sellerID, err := parseOptionalUUID(params.SellerID)
	if err != nil {
		return domainErrorResponse(ctx, err)
	}

	query, err := queries.NewGetAllOrdersQuery(buyerID, sellerID, params.Status, params.Limit, params.Offset)
	if err != nil {
		return domainErrorResponse(ctx, err)
	}

	orders, err := s.getAllOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainErrorResponse(ctx, err)
	}

	response := make([]OrderSummary, len(orders))
	for i, summary := range orders {
		response[i] = OrderSummary{
			ID:              summary.ID.String(),
			Number:          summary.Number,
			BuyerID:         summary.BuyerID.String(),
			SellerID:        summary.SellerID.String(),
			Status:          summary.Status,
			PaymentStatus:   summary.PaymentStatus,
			GrandTotalCents: summary.GrandTotalCents,
			Currency:        summary.Currency,
			PlacedAt:        summary.PlacedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:orderId - retrieves one hydrated order.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return domainErrorResponse(ctx, err)
	}

	orderView, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainErrorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(orderView))
}

// ChangeOrderStatus handles PATCH /api/v1/orders/:orderId/status - applies a
// lifecycle transition together with its settlement side effects and returns
// the updated order.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var request ChangeOrderStatusRequest
	if err = ctx.Bind(&request); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	target, err := order.StatusFromString(request.Status)
	if err != nil {
		return domainErrorResponse(ctx, err)
	}
	actorID, err := parseOptionalUUID(request.ActorID)
	if err != nil {
		return domainErrorResponse(ctx, err)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, target, request.Note, actorID)
	if err != nil {
		return domainErrorResponse(ctx, err)
	}
	cmd = cmd.WithProviderStatus(request.ProviderStatus)

	if err = s.changeStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainErrorResponse(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return domainErrorResponse(ctx, err)
	}
	orderView, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainErrorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(orderView))
}

// HandlePaymentWebhook handles POST /api/v1/orders/payments/stripe/webhook -
// receives provider events. The event is durably recorded before any side
// effect and the provider is always acked with 200 once the record exists, so
// redeliveries converge instead of looping.
func (s *Server) HandlePaymentWebhook(ctx echo.Context) error {
	rawBody, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Failed to read request body")
	}

	event, err := s.gateway.VerifyAndParse(rawBody, ctx.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		return domainErrorResponse(ctx, err)
	}

	cmd, err := commands.NewProcessWebhookEventCommand(event)
	if err != nil {
		return domainErrorResponse(ctx, err)
	}

	if err = s.processWebhookHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainErrorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, WebhookAck{Received: true})
}

func (r CreateOrderRequest) toCommand() (commands.CreateOrderCommand, error) {
	buyerID, err := kernel.UUIDFromString(r.BuyerID)
	if err != nil {
		return commands.CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("buyerId", err)
	}
	sellerID, err := kernel.UUIDFromString(r.SellerID)
	if err != nil {
		return commands.CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("sellerId", err)
	}
	shippingAddressID, err := parseOptionalUUID(r.ShippingAddressID)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	billingAddressID, err := parseOptionalUUID(r.BillingAddressID)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	items := make([]services.ItemRequest, 0, len(r.Items))
	for _, item := range r.Items {
		listingID, itemErr := kernel.UUIDFromString(item.ListingID)
		if itemErr != nil {
			return commands.CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("listingId", itemErr)
		}
		variantID, itemErr := parseOptionalUUID(item.VariantID)
		if itemErr != nil {
			return commands.CreateOrderCommand{}, itemErr
		}
		items = append(items, services.ItemRequest{
			ListingID: listingID,
			VariantID: variantID,
			Quantity:  item.Quantity,
		})
	}

	return commands.NewCreateOrderCommand(buyerID, sellerID, items, r.Currency,
		r.ShippingCents, r.FeeCents, shippingAddressID, billingAddressID, r.Metadata)
}

func parseOptionalUUID(raw *string) (*kernel.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := kernel.UUIDFromString(*raw)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return &id, nil
}

// domainErrorResponse maps the error taxonomy onto HTTP status codes.
func domainErrorResponse(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorResponse(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrInvalidState):
		return errorResponse(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrProviderUnavailable):
		return errorResponse(ctx, http.StatusBadGateway, err.Error())
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	default:
		return errorResponse(ctx, http.StatusInternalServerError, "Internal server error")
	}
}

func errorResponse(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}
