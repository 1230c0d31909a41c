package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/sangkips/pos-print-server/internal/application/receipt"
	"github.com/sangkips/pos-print-server/internal/domain/entity"
	"github.com/sangkips/pos-print-server/internal/infrastructure/logger"
	"github.com/sangkips/pos-print-server/internal/infrastructure/metrics"
	"github.com/sangkips/pos-print-server/pkg/printer"
)

// Success messages returned to POS clients.
const (
	MsgPrinted       = "Impresión exitosa"
	MsgDailyPrinted  = "Impresión de cierre diario exitosa"
	MsgVoidedPrinted = "Impresión de anulaciones exitosa"
	MsgDrawerOpened  = "Cajón abierto"
)

var errMissingRecord = &entity.DataError{Field: "data", Reason: "no se recibieron datos del documento"}

// ErrorKind classifies a failed job.
type ErrorKind string

const (
	ErrorKindNone       ErrorKind = ""
	ErrorKindConnection ErrorKind = "connection"
	ErrorKindFlush      ErrorKind = "flush"
	ErrorKindData       ErrorKind = "data"
	ErrorKindInternal   ErrorKind = "internal"
)

// Result is the outcome of one print job. Failures are results, not errors:
// the HTTP layer reports both with status 200.
type Result struct {
	Success bool
	Message string
	Kind    ErrorKind
	JobID   string
	Err     error
}

// StatusResult is the outcome of a printer status check.
type StatusResult struct {
	Success   bool
	Connected bool
	IP        string
	Message   string
}

// PrinterService acquires a printer, composes a document and flushes it.
type PrinterService struct {
	manager   *printer.Manager
	formatter *receipt.Formatter
	metrics   *metrics.PrintMetrics
	jobs      *snowflake.Node
	logger    *zap.Logger
}

// NewPrinterService creates a new printer service. metrics may be nil.
func NewPrinterService(
	manager *printer.Manager,
	formatter *receipt.Formatter,
	m *metrics.PrintMetrics,
	jobs *snowflake.Node,
	log *zap.Logger,
) *PrinterService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PrinterService{
		manager:   manager,
		formatter: formatter,
		metrics:   m,
		jobs:      jobs,
		logger:    log.Named("print"),
	}
}

func (s *PrinterService) PrintPreBill(ctx context.Context, ip string, p *entity.PreBill) Result {
	return s.run(ctx, receipt.KindPreBill, ip, MsgPrinted, p != nil, func(doc *printer.Document) {
		s.formatter.PreBill(doc, p)
	})
}

func (s *PrinterService) PrintKitchenTicket(ctx context.Context, ip string, k *entity.KitchenTicket) Result {
	return s.run(ctx, receipt.KindKitchenTicket, ip, MsgPrinted, k != nil, func(doc *printer.Document) {
		s.formatter.KitchenTicket(doc, k)
	})
}

func (s *PrinterService) PrintCashRegisterClosing(ctx context.Context, ip string, c *entity.CashRegisterClosing, withDetail bool) Result {
	return s.run(ctx, receipt.KindCashClosing, ip, MsgPrinted, c != nil, func(doc *printer.Document) {
		s.formatter.CashRegisterClosing(doc, c, withDetail)
	})
}

func (s *PrinterService) PrintDailyClosing(ctx context.Context, ip string, d *entity.DailyClosing) Result {
	return s.run(ctx, receipt.KindDailyClosing, ip, MsgDailyPrinted, d != nil, func(doc *printer.Document) {
		s.formatter.DailyClosing(doc, d)
	})
}

func (s *PrinterService) PrintVoidedOrders(ctx context.Context, ip string, v *entity.VoidedOrderReport) Result {
	return s.run(ctx, receipt.KindVoidedOrder, ip, MsgVoidedPrinted, v != nil, func(doc *printer.Document) {
		s.formatter.VoidedOrder(doc, v)
	})
}

func (s *PrinterService) PrintInvoice(ctx context.Context, ip string, e *entity.ElectronicInvoice) Result {
	return s.run(ctx, receipt.KindInvoice, ip, MsgPrinted, e != nil, func(doc *printer.Document) {
		s.formatter.Invoice(doc, e)
	})
}

// OpenCashDrawer kicks the drawer attached to the printer. The secondary raw
// pulse is best effort; its failure does not fail the job.
func (s *PrinterService) OpenCashDrawer(ctx context.Context, ip string) Result {
	res, h := s.execute(ctx, receipt.KindCashDrawer, ip, MsgDrawerOpened, true, s.formatter.CashDrawer)
	if !res.Success {
		return res
	}

	pulse := h.NewDocument().Clear()
	s.formatter.CashDrawerPulse(pulse)
	if err := h.Execute(ctx, pulse); err != nil {
		s.requestLogger(ctx).Warn("secondary drawer pulse failed",
			zap.String("job_id", res.JobID),
			zap.String("printer", h.Address()),
			zap.Error(err),
		)
	}
	return res
}

// Status acquires the printer and probes it.
func (s *PrinterService) Status(ctx context.Context, ip string) StatusResult {
	h, err := s.manager.Acquire(ctx, ip)
	if err != nil {
		return StatusResult{Message: classify(err).Error()}
	}
	s.metrics.SetCachedHandles(s.manager.Len())

	connected, err := h.CheckConnection(ctx)
	if err != nil {
		s.requestLogger(ctx).Warn("printer status probe failed", zap.String("printer", h.Address()), zap.Error(err))
		connected = false
	}
	return StatusResult{Success: true, Connected: connected, IP: ip}
}

func (s *PrinterService) run(ctx context.Context, kind receipt.Kind, ip, okMsg string, present bool, compose func(*printer.Document)) Result {
	res, _ := s.execute(ctx, kind, ip, okMsg, present, compose)
	return res
}

// execute runs one job. present is false when the request carried no record.
func (s *PrinterService) execute(ctx context.Context, kind receipt.Kind, ip, okMsg string, present bool, compose func(*printer.Document)) (Result, *printer.Handle) {
	start := time.Now()
	jobID := s.nextJobID()
	log := s.requestLogger(ctx).With(
		zap.String("job_id", jobID),
		zap.String("document", string(kind)),
		zap.String("printer", ip),
	)

	fail := func(err error) Result {
		err = classify(err)
		res := Result{Message: err.Error(), Kind: kindOf(err), JobID: jobID, Err: err}
		s.metrics.ObserveJob(string(kind), string(res.Kind), time.Since(start))
		log.Warn("print job failed", zap.String("error_kind", string(res.Kind)), zap.Error(err))
		return res
	}

	if !present {
		return fail(errMissingRecord), nil
	}

	h, err := s.manager.Acquire(ctx, ip)
	s.metrics.SetCachedHandles(s.manager.Len())
	if err != nil {
		return fail(err), nil
	}

	doc := h.NewDocument()
	if err := safeCompose(compose, doc); err != nil {
		doc.Clear()
		return fail(err), h
	}
	if ce := log.Check(zap.DebugLevel, "document composed"); ce != nil {
		ce.Write(zap.Strings("lines", doc.Transcript()), zap.Int("bytes", doc.Len()))
	}

	if err := h.Execute(ctx, doc); err != nil {
		return fail(err), h
	}

	elapsed := time.Since(start)
	s.metrics.ObserveJob(string(kind), "success", elapsed)
	log.Info("print job completed", zap.Duration("elapsed", elapsed))
	return Result{Success: true, Message: okMsg, JobID: jobID}, h
}

// requestLogger adds the HTTP request ID carried by ctx, if any.
func (s *PrinterService) requestLogger(ctx context.Context) *zap.Logger {
	if id := logger.GetRequestID(ctx); id != "" {
		return s.logger.With(zap.String("request_id", id))
	}
	return s.logger
}

func (s *PrinterService) nextJobID() string {
	if s.jobs == nil {
		return ""
	}
	return s.jobs.Generate().String()
}

// safeCompose turns a formatter panic into a DataError.
func safeCompose(compose func(*printer.Document), doc *printer.Document) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &entity.DataError{Reason: fmt.Sprintf("no se pudo componer el documento: %v", r)}
		}
	}()
	compose(doc)
	return nil
}

func classify(err error) error {
	if errors.Is(err, printer.ErrNoAddress) {
		return &entity.DataError{Field: "printerIp", Reason: "la dirección de la impresora es obligatoria"}
	}
	return err
}

func kindOf(err error) ErrorKind {
	var connErr *printer.ConnectionError
	var flushErr *printer.FlushError
	var dataErr *entity.DataError
	switch {
	case errors.As(err, &connErr):
		return ErrorKindConnection
	case errors.As(err, &flushErr):
		return ErrorKindFlush
	case errors.As(err, &dataErr):
		return ErrorKindData
	default:
		return ErrorKindInternal
	}
}
