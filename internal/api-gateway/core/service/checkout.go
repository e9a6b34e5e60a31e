// Package service holds the gateway's use cases. Every method returns either
// a result or an *apperror.Error ready for the HTTP boundary.
package service

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/stock"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/ports"
	"github.com/jcmexdev/storefront-gateway/internal/audit"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/apperror"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/constants"
)

// CheckoutService answers whether a cart can be bought right now. The answer
// is advisory: nothing is reserved or decremented.
type CheckoutService struct {
	store  ports.ContentStore
	audit  audit.Repository // nil-safe: auditing skipped if nil
	tracer trace.Tracer
}

func NewCheckoutService(store ports.ContentStore, auditRepo audit.Repository) *CheckoutService {
	return &CheckoutService{
		store:  store,
		audit:  auditRepo,
		tracer: otel.Tracer(constants.DefaultTracerName),
	}
}

func (s *CheckoutService) Check(ctx context.Context, user *entity.User, items []entity.LineItem) (*entity.CheckoutVerdict, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "checkout.check")
	defer span.End()

	ids := stock.DistinctProductIDs(items)
	span.SetAttributes(
		attribute.Int("checkout.lines", len(items)),
		attribute.Int("checkout.products", len(ids)),
	)
	slog.InfoContext(ctx, "processing checkout", "lines", len(items), "products", len(ids))

	records, err := s.store.StockRecords(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stock fetch failed")
		return nil, apperror.Upstream("Checkout processing failed", err)
	}

	verdict := stock.Reconcile(items, records)
	span.SetAttributes(
		attribute.Bool("checkout.can_proceed", verdict.CanProceed),
		attribute.Int("checkout.total_items", verdict.TotalItems),
	)

	if verdict.CanProceed {
		slog.InfoContext(ctx, "checkout validation successful", "lines", len(items), "total_items", verdict.TotalItems)
	} else {
		slog.WarnContext(ctx, "checkout denied", "unavailable", strings.Join(verdict.UnavailableNames(), ", "))
	}

	s.record(ctx, user, len(items), &verdict)
	return &verdict, nil
}

// record appends an audit row. A failing audit log never fails the checkout.
func (s *CheckoutService) record(ctx context.Context, user *entity.User, lines int, v *entity.CheckoutVerdict) {
	if s.audit == nil {
		return
	}

	requestID, _ := ctx.Value(constants.ContextKeyRequestID).(string)
	userID := ""
	if user != nil {
		userID = user.ID
	}

	entry := audit.NewEntry(ctx, requestID, userID, v.CanProceed, lines, v.TotalItems, v.UnavailableNames())
	if err := s.audit.Save(context.WithoutCancel(ctx), entry); err != nil {
		slog.ErrorContext(ctx, "failed to write checkout audit entry", "request_id", requestID, "error", err)
	}
}

func validateItems(items []entity.LineItem) error {
	if len(items) == 0 {
		return apperror.Validation("Items array is required and must contain at least one item")
	}
	for _, it := range items {
		if strings.TrimSpace(it.ProductID) == "" {
			return apperror.Validation("Product ID is required for each item")
		}
		if it.Quantity < 1 {
			return apperror.Validation("Quantity must be a positive integer")
		}
		if it.Quantity > entity.MaxLineQuantity {
			return apperror.Validation(entity.QuantityTooLargeMessage)
		}
	}
	return nil
}
