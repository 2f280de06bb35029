package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/audit"
	"marketplace/internal/core/domain/model/escrow"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/pkg/errs"
)

// ChangeOrderStatusCommandHandler orchestrates order status transitions and
// their settlement side effects. Entering PAID captures the payment and opens
// the escrow holding; COMPLETED releases it to the seller; CANCELLED and
// REFUNDED return funds to the buyer; DISPUTED freezes them.
//
// The order row is read under a row-level write lock, so two concurrent
// transitions on the same order serialize and the loser fails the state
// machine check against the winner's committed status.
//
// Example:
//
//	handler := NewChangeOrderStatusCommandHandler(uowFactory)
//	cmd, _ := NewChangeOrderStatusCommand(orderID, order.Completed, "", &adminID)
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrInvalidState) {
//	    // Transition not allowed from the order's current status
//	}
type ChangeOrderStatusCommandHandler struct {
	uowFactory SettlementUoWFactory
}

// NewChangeOrderStatusCommandHandler creates a handler for status transition
// operations. Requires a SettlementUoWFactory so the transition, its timeline
// entry, payment and escrow movements and the audit entry commit atomically.
func NewChangeOrderStatusCommandHandler(uowFactory SettlementUoWFactory) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the status transition command.
// Loads the order under lock, applies the state machine transition, appends
// the timeline entry, applies the settlement side effects of the target
// status, and records an audit entry, all in one transaction.
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = ord.TransitionTo(cmd.Target()); err != nil {
		return err
	}

	timelineEvent, err := order.NewTimelineEvent(ord.ID(), cmd.Target(), cmd.Note(), cmd.ActorID())
	if err != nil {
		return err
	}
	if err = orderRepo.AppendTimelineEvent(ctx, timelineEvent); err != nil {
		return err
	}

	if err = h.applySideEffects(ctx, uow, ord, cmd); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	auditEntry, err := audit.NewEntry(cmd.ActorID(), "order.status."+cmd.Target().String(),
		"order", ord.ID().String(), map[string]string{"number": ord.Number()})
	if err != nil {
		return err
	}
	if err = uow.AuditRepository().Add(ctx, auditEntry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// applySideEffects applies the payment and escrow consequences of entering
// the target status. Statuses without settlement consequences (Confirmed,
// Fulfilled, Delivered) fall through.
func (h ChangeOrderStatusCommandHandler) applySideEffects(
	ctx context.Context, uow SettlementUoW, ord *order.Order, cmd ChangeOrderStatusCommand,
) error {
	switch cmd.Target() {
	case order.Paid:
		return h.captureAndHold(ctx, uow, ord, cmd)
	case order.Completed:
		return h.releaseToSeller(ctx, uow, ord, cmd)
	case order.Cancelled, order.Refunded:
		return h.refundToBuyer(ctx, uow, ord, cmd)
	case order.Disputed:
		return h.freezeHolding(ctx, uow, ord)
	default:
		return nil
	}
}

// captureAndHold marks the payment transaction captured (creating it first if
// the order was placed while the provider was down) and opens the escrow
// holding for the full buyer charge, recording a HOLD ledger entry.
func (h ChangeOrderStatusCommandHandler) captureAndHold(
	ctx context.Context, uow SettlementUoW, ord *order.Order, cmd ChangeOrderStatusCommand,
) error {
	grandTotal, err := ord.GrandTotal()
	if err != nil {
		return err
	}

	paymentRepo := uow.PaymentRepository()
	paymentTx, err := paymentRepo.GetByOrderID(ctx, ord.ID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		paymentTx, err = payment.NewTransaction(kernel.NewUUID(), ord.ID(), paymentProviderName,
			grandTotal, cmd.ProviderStatus(), cmd.ProviderRef())
		if err != nil {
			return err
		}
		paymentTx.MarkCaptured(cmd.ProviderStatus())
		if err = paymentRepo.Add(ctx, paymentTx); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		paymentTx.MarkCaptured(cmd.ProviderStatus())
		if err = paymentRepo.Update(ctx, paymentTx); err != nil {
			return err
		}
	}

	if err = ord.SetPaymentStatus(payment.Captured); err != nil {
		return err
	}

	holding, err := escrow.OpenHolding(kernel.NewUUID(), ord.ID(), grandTotal)
	if err != nil {
		return err
	}

	escrowRepo := uow.EscrowRepository()
	if err = escrowRepo.Add(ctx, holding); err != nil {
		return err
	}

	return h.appendLedger(ctx, uow, holding, escrow.TypeHold, "Funds held in escrow", cmd.ActorID())
}

// releaseToSeller releases the escrow holding and records a RELEASE ledger
// entry. A holding frozen by a dispute is unfrozen first; completing a
// disputed order means the dispute was resolved in the seller's favor.
func (h ChangeOrderStatusCommandHandler) releaseToSeller(
	ctx context.Context, uow SettlementUoW, ord *order.Order, cmd ChangeOrderStatusCommand,
) error {
	escrowRepo := uow.EscrowRepository()
	holding, err := escrowRepo.GetByOrderID(ctx, ord.ID())
	if err != nil {
		return err
	}

	if holding.Status() == escrow.Disputed {
		if err = holding.Unfreeze(); err != nil {
			return err
		}
	}

	if err = holding.Release(); err != nil {
		return err
	}
	if err = escrowRepo.Update(ctx, holding); err != nil {
		return err
	}

	if err = h.auditEscrow(ctx, uow, holding, "order.escrow.release", cmd.ActorID()); err != nil {
		return err
	}

	return h.appendLedger(ctx, uow, holding, escrow.TypeRelease, "Escrow released to seller", cmd.ActorID())
}

// refundToBuyer marks the payment refunded and returns the escrow holding to
// the buyer, recording a REFUND ledger entry. Orders cancelled before any
// payment was captured have no holding and no captured payment; both side
// effects are then skipped.
func (h ChangeOrderStatusCommandHandler) refundToBuyer(
	ctx context.Context, uow SettlementUoW, ord *order.Order, cmd ChangeOrderStatusCommand,
) error {
	paymentRepo := uow.PaymentRepository()
	paymentTx, err := paymentRepo.GetByOrderID(ctx, ord.ID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		// no payment to refund
	case err != nil:
		return err
	default:
		paymentTx.MarkRefunded(cmd.ProviderStatus())
		if err = paymentRepo.Update(ctx, paymentTx); err != nil {
			return err
		}
		if err = ord.SetPaymentStatus(payment.Refunded); err != nil {
			return err
		}
	}

	escrowRepo := uow.EscrowRepository()
	holding, err := escrowRepo.GetByOrderID(ctx, ord.ID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return nil
	case err != nil:
		return err
	}

	if err = holding.Refund(); err != nil {
		return err
	}
	if err = escrowRepo.Update(ctx, holding); err != nil {
		return err
	}

	if err = h.auditEscrow(ctx, uow, holding, "order.escrow.refund", cmd.ActorID()); err != nil {
		return err
	}

	return h.appendLedger(ctx, uow, holding, escrow.TypeRefund, "Escrow refunded to buyer", cmd.ActorID())
}

// freezeHolding marks the escrow holding disputed. No funds move, so no
// ledger entry is recorded; the resolution (release or refund) records one.
func (h ChangeOrderStatusCommandHandler) freezeHolding(
	ctx context.Context, uow SettlementUoW, ord *order.Order,
) error {
	escrowRepo := uow.EscrowRepository()
	holding, err := escrowRepo.GetByOrderID(ctx, ord.ID())
	if err != nil {
		return err
	}

	if err = holding.Freeze(); err != nil {
		return err
	}

	return escrowRepo.Update(ctx, holding)
}

func (h ChangeOrderStatusCommandHandler) auditEscrow(
	ctx context.Context, uow SettlementUoW, holding *escrow.Holding,
	action string, actorID *kernel.UUID,
) error {
	entry, err := audit.NewEntry(actorID, action, "escrow_holding", holding.ID().String(),
		map[string]string{"orderId": holding.OrderID().String()})
	if err != nil {
		return err
	}

	return uow.AuditRepository().Add(ctx, entry)
}

func (h ChangeOrderStatusCommandHandler) appendLedger(
	ctx context.Context, uow SettlementUoW, holding *escrow.Holding,
	txType escrow.TransactionType, note string, actorID *kernel.UUID,
) error {
	ledgerTx, err := escrow.NewTransaction(holding.ID(), txType, holding.Amount(), note, actorID)
	if err != nil {
		return err
	}

	return uow.EscrowRepository().AppendTransaction(ctx, ledgerTx)
}
