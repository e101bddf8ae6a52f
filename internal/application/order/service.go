package order

import (
	"context"
	"strings"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application"
	domorder "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/uow"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/pkg/apperr"
	"go.opentelemetry.io/otel/attribute"
)

const orderService = "order-service"

// Service answers order read queries. Order writes go through checkout.
type Service struct {
	uow uow.UnitOfWork
	in  *application.Instruments
}

func NewService(u uow.UnitOfWork, tel observability.Observability) *Service {
	return &Service{uow: u, in: application.NewInstruments(tel, orderService)}
}

func (s *Service) Get(ctx context.Context, orderID string) (_ *domorder.Order, err error) {
	ctx, run := s.in.Start(ctx, "order.get", "GetOrder", attribute.String("order.id", orderID))
	defer func() { run.End(err) }()

	if strings.TrimSpace(orderID) == "" {
		return nil, run.Fail("ORDER_ID_REQUIRED", apperr.Validation("order id is required"))
	}
	o, err := s.uow.Repositories().Orders.Get(ctx, orderID)
	if err != nil {
		return nil, run.Fail("ORDER_LOOKUP_FAILED", application.StoreError("order", err))
	}
	return o, nil
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) (_ []*domorder.Order, err error) {
	ctx, run := s.in.Start(ctx, "order.list_by_user", "ListOrders", attribute.String("user.id", userID))
	defer func() { run.End(err) }()

	if strings.TrimSpace(userID) == "" {
		return nil, run.Fail("USER_ID_REQUIRED", apperr.Validation("user id is required"))
	}
	orders, err := s.uow.Repositories().Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, run.Fail("ORDER_LIST_FAILED", application.StoreError("order", err))
	}
	run.Field("count", len(orders))
	return orders, nil
}
