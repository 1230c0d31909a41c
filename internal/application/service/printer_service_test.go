package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sangkips/pos-print-server/internal/application/receipt"
	"github.com/sangkips/pos-print-server/internal/domain/entity"
	"github.com/sangkips/pos-print-server/internal/infrastructure/logger"
	"github.com/sangkips/pos-print-server/internal/infrastructure/metrics"
	"github.com/sangkips/pos-print-server/pkg/printer"
)

type fakePrinter struct {
	mu       sync.Mutex
	alive    bool
	probeErr error
	// printErrs is consumed one entry per Print call.
	printErrs []error
	jobs      [][]byte
	calls     int
}

func (p *fakePrinter) Print(ctx context.Context, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if len(p.printErrs) > 0 {
		err := p.printErrs[0]
		p.printErrs = p.printErrs[1:]
		if err != nil {
			return err
		}
	}
	p.jobs = append(p.jobs, append([]byte(nil), data...))
	return nil
}

func (p *fakePrinter) IsConnected(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.alive, p.probeErr
}

func (p *fakePrinter) Close() error { return nil }

func (p *fakePrinter) printCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type fixture struct {
	svc      *PrinterService
	printer  *fakePrinter
	connects atomic.Int32
	registry *prometheus.Registry
	logs     *observer.ObservedLogs
}

func newFixture(t *testing.T, p *fakePrinter) *fixture {
	t.Helper()
	f := &fixture{printer: p, registry: prometheus.NewRegistry()}

	core, logs := observer.New(zapcore.DebugLevel)
	f.logs = logs
	log := zap.New(core)

	connector := printer.ConnectorFunc(func(address string) printer.Printer {
		f.connects.Add(1)
		return p
	})
	cfg := printer.DefaultManagerConfig()
	cfg.CharWidth = 42
	manager := printer.NewManager(connector, cfg, log,
		printer.WithSleep(func(ctx context.Context, d time.Duration) error { return nil }),
	)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	formatter := receipt.NewFormatter(receipt.Options{Location: receipt.LoadLocation(receipt.DefaultTimezone)})
	m := metrics.NewPrintMetrics(f.registry, metrics.Config{ServiceName: "test", Environment: "test"})
	f.svc = NewPrinterService(manager, formatter, m, node, log)
	return f
}

func preBill() *entity.PreBill {
	return &entity.PreBill{
		NombreComercial: "Don Vitto",
		LugarOrigen:     "Restaurante",
		Items: []entity.LineItem{
			{Cantidad: "2", Nombre: "Cafe", PrecioUnitario: entity.NewAmount(1.5), PrecioTotal: entity.NewAmount(3)},
		},
		Payments: []entity.Payment{{TipoPago: "Efectivo", Monto: entity.NewAmount(3.3)}},
		Subtotal: entity.NewAmount(3),
		Propina:  entity.NewAmount(0.3),
		Total:    entity.NewAmount(3.3),
	}
}

func TestPrintPreBill_Success(t *testing.T) {
	f := newFixture(t, &fakePrinter{alive: true})

	res := f.svc.PrintPreBill(context.Background(), "192.168.1.50", preBill())

	require.True(t, res.Success, res.Message)
	assert.Equal(t, MsgPrinted, res.Message)
	assert.Equal(t, ErrorKindNone, res.Kind)
	assert.NotEmpty(t, res.JobID)
	require.Len(t, f.printer.jobs, 1)
	assert.True(t, bytes.Contains(f.printer.jobs[0], []byte("$3.30")))
	assert.True(t, bytes.Contains(f.printer.jobs[0], []byte("Cafe")))

	done := f.logs.FilterMessage("print job completed").All()
	require.Len(t, done, 1)
	assert.Equal(t, res.JobID, done[0].ContextMap()["job_id"])
	assert.Equal(t, "precuenta", done[0].ContextMap()["document"])
	assert.Len(t, f.logs.FilterMessage("document composed").All(), 1)

	n, err := testutil.GatherAndCount(f.registry, "print_jobs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPrint_ConnectionFailureIssuesNoCommands(t *testing.T) {
	jobs := []struct {
		name string
		run  func(s *PrinterService) Result
	}{
		{"pre-bill", func(s *PrinterService) Result {
			return s.PrintPreBill(context.Background(), "10.0.0.9", preBill())
		}},
		{"kitchen ticket", func(s *PrinterService) Result {
			return s.PrintKitchenTicket(context.Background(), "10.0.0.9", &entity.KitchenTicket{NumeroOrden: "7"})
		}},
		{"cash register closing", func(s *PrinterService) Result {
			return s.PrintCashRegisterClosing(context.Background(), "10.0.0.9", &entity.CashRegisterClosing{}, true)
		}},
		{"daily closing", func(s *PrinterService) Result {
			return s.PrintDailyClosing(context.Background(), "10.0.0.9", &entity.DailyClosing{})
		}},
		{"voided orders", func(s *PrinterService) Result {
			return s.PrintVoidedOrders(context.Background(), "10.0.0.9", &entity.VoidedOrderReport{})
		}},
		{"invoice", func(s *PrinterService) Result {
			return s.PrintInvoice(context.Background(), "10.0.0.9", &entity.ElectronicInvoice{})
		}},
		{"cash drawer", func(s *PrinterService) Result {
			return s.OpenCashDrawer(context.Background(), "10.0.0.9")
		}},
	}
	for _, tt := range jobs {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, &fakePrinter{alive: false})

			res := tt.run(f.svc)

			assert.False(t, res.Success)
			assert.NotEmpty(t, res.Message)
			assert.Equal(t, ErrorKindConnection, res.Kind)
			var connErr *printer.ConnectionError
			require.ErrorAs(t, res.Err, &connErr)
			assert.Equal(t, 4, connErr.Attempts)
			assert.Equal(t, 0, f.printer.printCalls())
			assert.Len(t, f.logs.FilterMessage("print job failed").All(), 1)
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"connection", &printer.ConnectionError{Address: "10.0.0.9:9100", Attempts: 4}, ErrorKindConnection},
		{"flush", fmt.Errorf("job: %w", &printer.FlushError{Address: "10.0.0.9:9100", Err: errors.New("eof")}), ErrorKindFlush},
		{"data", &entity.DataError{Field: "data"}, ErrorKindData},
		{"cancelled", context.Canceled, ErrorKindInternal},
		{"unknown", errors.New("boom"), ErrorKindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kindOf(tt.err))
		})
	}
}

func TestPrint_LogsCarryRequestID(t *testing.T) {
	f := newFixture(t, &fakePrinter{alive: true})
	ctx := logger.WithRequestID(context.Background(), "req-42")

	res := f.svc.PrintPreBill(ctx, "10.0.0.9", preBill())

	require.True(t, res.Success)
	done := f.logs.FilterMessage("print job completed").All()
	require.Len(t, done, 1)
	assert.Equal(t, "req-42", done[0].ContextMap()["request_id"])
	assert.Equal(t, res.JobID, done[0].ContextMap()["job_id"])
}

func TestPrint_MissingAddressIsDataError(t *testing.T) {
	f := newFixture(t, &fakePrinter{alive: true})

	res := f.svc.PrintDailyClosing(context.Background(), "  ", &entity.DailyClosing{})

	assert.False(t, res.Success)
	assert.Equal(t, ErrorKindData, res.Kind)
	var dataErr *entity.DataError
	require.ErrorAs(t, res.Err, &dataErr)
	assert.Equal(t, "printerIp", dataErr.Field)
	assert.Equal(t, int32(0), f.connects.Load())
}

func TestPrint_FlushFailure(t *testing.T) {
	f := newFixture(t, &fakePrinter{alive: true, printErrs: []error{errors.New("broken pipe")}})

	res := f.svc.PrintVoidedOrders(context.Background(), "10.0.0.9", &entity.VoidedOrderReport{})

	assert.False(t, res.Success)
	assert.Equal(t, ErrorKindFlush, res.Kind)
	assert.Contains(t, res.Message, "broken pipe")

	// the handle stays cached; the next job goes through
	res = f.svc.PrintVoidedOrders(context.Background(), "10.0.0.9", &entity.VoidedOrderReport{})
	assert.True(t, res.Success)
	assert.Equal(t, MsgVoidedPrinted, res.Message)
	assert.Equal(t, int32(1), f.connects.Load())
}

func TestPrint_MissingRecordIsDataError(t *testing.T) {
	f := newFixture(t, &fakePrinter{alive: true})

	res := f.svc.PrintPreBill(context.Background(), "10.0.0.9", nil)

	assert.False(t, res.Success)
	assert.Equal(t, ErrorKindData, res.Kind)
	var dataErr *entity.DataError
	require.ErrorAs(t, res.Err, &dataErr)
	assert.Equal(t, "data", dataErr.Field)
	assert.Equal(t, int32(0), f.connects.Load())
	assert.Equal(t, 0, f.printer.printCalls())
}

func TestSafeCompose_RecoversPanic(t *testing.T) {
	err := safeCompose(func(*printer.Document) { panic("bad row") }, printer.NewDocument(42, nil))

	var dataErr *entity.DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Contains(t, dataErr.Reason, "bad row")
	assert.NoError(t, safeCompose(func(*printer.Document) {}, printer.NewDocument(42, nil)))
}

func TestPrint_ReusesCachedHandle(t *testing.T) {
	f := newFixture(t, &fakePrinter{alive: true})
	ctx := context.Background()

	require.True(t, f.svc.PrintPreBill(ctx, "10.0.0.9", preBill()).Success)
	require.True(t, f.svc.PrintInvoice(ctx, "10.0.0.9:9100", &entity.ElectronicInvoice{}).Success)
	require.True(t, f.svc.PrintCashRegisterClosing(ctx, "10.0.0.9", &entity.CashRegisterClosing{}, true).Success)

	assert.Equal(t, int32(1), f.connects.Load())
	assert.Len(t, f.printer.jobs, 3)
}

func TestPrint_SuccessMessages(t *testing.T) {
	f := newFixture(t, &fakePrinter{alive: true})
	ctx := context.Background()

	assert.Equal(t, MsgDailyPrinted, f.svc.PrintDailyClosing(ctx, "10.0.0.9", &entity.DailyClosing{}).Message)
	assert.Equal(t, MsgPrinted, f.svc.PrintCashRegisterClosing(ctx, "10.0.0.9", &entity.CashRegisterClosing{}, false).Message)
	assert.Equal(t, MsgPrinted, f.svc.PrintKitchenTicket(ctx, "10.0.0.9", &entity.KitchenTicket{}).Message)
}

func TestOpenCashDrawer(t *testing.T) {
	f := newFixture(t, &fakePrinter{alive: true})

	res := f.svc.OpenCashDrawer(context.Background(), "10.0.0.9")

	require.True(t, res.Success)
	assert.Equal(t, MsgDrawerOpened, res.Message)
	require.Len(t, f.printer.jobs, 2)
	assert.True(t, bytes.Contains(f.printer.jobs[0], []byte{printer.ESC, 'p', 0}))
	assert.Equal(t, receipt.DrawerPulse, f.printer.jobs[1])
}

func TestOpenCashDrawer_SecondaryPulseFailureIsSwallowed(t *testing.T) {
	f := newFixture(t, &fakePrinter{alive: true, printErrs: []error{nil, errors.New("timeout")}})

	res := f.svc.OpenCashDrawer(context.Background(), "10.0.0.9")

	assert.True(t, res.Success)
	assert.Equal(t, 2, f.printer.printCalls())
	assert.Len(t, f.logs.FilterMessage("secondary drawer pulse failed").All(), 1)
}

func TestOpenCashDrawer_PrimaryFailure(t *testing.T) {
	f := newFixture(t, &fakePrinter{alive: true, printErrs: []error{errors.New("reset by peer")}})

	res := f.svc.OpenCashDrawer(context.Background(), "10.0.0.9")

	assert.False(t, res.Success)
	assert.Equal(t, ErrorKindFlush, res.Kind)
	assert.Equal(t, 1, f.printer.printCalls())
}

func TestStatus(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		f := newFixture(t, &fakePrinter{alive: true})
		res := f.svc.Status(context.Background(), "10.0.0.9")
		assert.Equal(t, StatusResult{Success: true, Connected: true, IP: "10.0.0.9"}, res)
	})

	t.Run("unreachable", func(t *testing.T) {
		f := newFixture(t, &fakePrinter{alive: false})
		res := f.svc.Status(context.Background(), "10.0.0.9")
		assert.False(t, res.Success)
		assert.False(t, res.Connected)
		assert.Contains(t, res.Message, "10.0.0.9")
	})

	t.Run("probe error after connect", func(t *testing.T) {
		p := &fakePrinter{alive: true}
		f := newFixture(t, p)
		require.True(t, f.svc.Status(context.Background(), "10.0.0.9").Success)

		p.mu.Lock()
		p.alive, p.probeErr = false, errors.New("no route to host")
		p.mu.Unlock()

		res := f.svc.Status(context.Background(), "10.0.0.9")
		assert.Equal(t, StatusResult{Success: true, Connected: false, IP: "10.0.0.9"}, res)
		assert.Len(t, f.logs.FilterMessage("printer status probe failed").All(), 1)
	})
}
