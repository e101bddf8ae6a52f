package invoice

import (
	"context"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application"
	dominvoice "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/invoice"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/uow"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"go.opentelemetry.io/otel/attribute"
)

const invoiceService = "invoice-service"

// Service covers invoice reads and soft deletion. Payment state changes
// belong to checkout.
type Service struct {
	uow uow.UnitOfWork
	in  *application.Instruments
}

func NewService(u uow.UnitOfWork, tel observability.Observability) *Service {
	return &Service{uow: u, in: application.NewInstruments(tel, invoiceService)}
}

func (s *Service) Get(ctx context.Context, id string) (_ *dominvoice.Invoice, err error) {
	ctx, run := s.in.Start(ctx, "invoice.get", "GetInvoice", attribute.String("invoice.id", id))
	defer func() { run.End(err) }()

	inv, err := s.uow.Repositories().Invoices.Get(ctx, id)
	if err != nil {
		return nil, run.Fail("INVOICE_LOOKUP_FAILED", application.StoreError("invoice", err))
	}
	return inv, nil
}

func (s *Service) ListActive(ctx context.Context) (_ []*dominvoice.Invoice, err error) {
	ctx, run := s.in.Start(ctx, "invoice.list", "ListInvoices")
	defer func() { run.End(err) }()

	out, err := s.uow.Repositories().Invoices.ListActive(ctx)
	if err != nil {
		return nil, run.Fail("INVOICE_LIST_FAILED", application.StoreError("invoice", err))
	}
	run.Field("count", len(out))
	return out, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) (_ []*dominvoice.Invoice, err error) {
	ctx, run := s.in.Start(ctx, "invoice.list_by_user", "ListUserInvoices", attribute.String("user.id", userID))
	defer func() { run.End(err) }()

	out, err := s.uow.Repositories().Invoices.ListByUser(ctx, userID)
	if err != nil {
		return nil, run.Fail("INVOICE_LIST_FAILED", application.StoreError("invoice", err))
	}
	run.Field("count", len(out))
	return out, nil
}

// Delete hides the invoice from reads. Its payment history is kept.
func (s *Service) Delete(ctx context.Context, id string) (err error) {
	ctx, run := s.in.Start(ctx, "invoice.delete", "DeleteInvoice", attribute.String("invoice.id", id))
	defer func() { run.End(err) }()

	return s.setActive(ctx, run, id, false)
}

func (s *Service) Restore(ctx context.Context, id string) (_ *dominvoice.Invoice, err error) {
	ctx, run := s.in.Start(ctx, "invoice.restore", "RestoreInvoice", attribute.String("invoice.id", id))
	defer func() { run.End(err) }()

	if err := s.setActive(ctx, run, id, true); err != nil {
		return nil, err
	}
	inv, err := s.uow.Repositories().Invoices.Get(ctx, id)
	if err != nil {
		return nil, run.Fail("INVOICE_LOOKUP_FAILED", application.StoreError("invoice", err))
	}
	return inv, nil
}

func (s *Service) setActive(ctx context.Context, run *application.Run, id string, active bool) error {
	return s.uow.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		inv, err := repos.Invoices.GetAny(ctx, id)
		if err != nil {
			return run.Fail("INVOICE_LOOKUP_FAILED", application.StoreError("invoice", err))
		}
		if inv.Active == active {
			run.Status("UNCHANGED")
			return nil
		}
		if active {
			inv.Restore()
		} else {
			inv.Deactivate()
		}
		if err := repos.Invoices.Update(ctx, inv); err != nil {
			return run.Fail("INVOICE_SAVE_FAILED", application.StoreError("invoice", err))
		}
		return nil
	})
}
