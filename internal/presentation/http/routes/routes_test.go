package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sangkips/pos-print-server/internal/application/receipt"
	"github.com/sangkips/pos-print-server/internal/application/service"
	"github.com/sangkips/pos-print-server/internal/config"
	"github.com/sangkips/pos-print-server/internal/infrastructure/metrics"
	"github.com/sangkips/pos-print-server/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-print-server/internal/presentation/http/handler"
	"github.com/sangkips/pos-print-server/pkg/printer"
)

type recordingPrinter struct {
	mu   sync.Mutex
	up   bool
	jobs [][]byte
}

func (p *recordingPrinter) Print(ctx context.Context, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *recordingPrinter) IsConnected(ctx context.Context) (bool, error) {
	return p.up, nil
}

func (p *recordingPrinter) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Name: "pos-print-server"},
		HTTP:      config.HTTPConfig{MaxBodySize: 1024},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{Enabled: true, Requests: 100, Duration: 60},
		Metrics:   config.MetricsConfig{Enabled: true},
	}
}

func setup(t *testing.T, p *recordingPrinter) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	cfg := testConfig()
	logger := zap.NewNop()

	manager := printer.NewManager(
		printer.ConnectorFunc(func(string) printer.Printer { return p }),
		printer.DefaultManagerConfig(),
		logger,
		printer.WithSleep(func(context.Context, time.Duration) error { return nil }),
	)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := service.NewPrinterService(
		manager,
		receipt.NewFormatter(receipt.Options{}),
		metrics.NewPrintMetrics(reg, metrics.Config{ServiceName: cfg.App.Name, Environment: "test"}),
		node,
		logger,
	)

	router, stop := Setup(&Handlers{
		Printer: handler.NewPrinterHandler(svc),
		Health:  handler.NewHealthHandler(cfg.App.Name),
	}, &Deps{Cfg: cfg, Logger: logger, Gatherer: reg})
	t.Cleanup(stop)
	return router
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutes_PrintEndToEnd(t *testing.T) {
	p := &recordingPrinter{up: true}
	r := setup(t, p)

	w := do(r, http.MethodPost, "/print/precuenta",
		`{"data":{"nombre_comercial":"Don Vitto","OrdenesDeRestauranteDetalle":[{"cantidad":2,"nombre":"Cafe","precio_unitario":1.5,"precio_total":3}],"total":3.3,"printerIp":"10.0.0.5"}}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Impresión exitosa"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(response.JobIDHeader))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	require.Len(t, p.jobs, 1)
	assert.Contains(t, string(p.jobs[0]), "Don Vitto")

	w = do(r, http.MethodPost, "/print/abrir-cajon", `{"printerIp":"10.0.0.5"}`)
	assert.JSONEq(t, `{"success":true,"message":"Cajón abierto"}`, w.Body.String())

	w = do(r, http.MethodGet, "/printer/status/10.0.0.5", "")
	assert.JSONEq(t, `{"success":true,"connected":true,"ip":"10.0.0.5"}`, w.Body.String())

	w = do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "print_jobs_total")
	assert.Contains(t, w.Body.String(), `document="precuenta"`)
}

func TestRoutes_UnreachablePrinter(t *testing.T) {
	p := &recordingPrinter{up: false}
	r := setup(t, p)

	w := do(r, http.MethodPost, "/print/comanda", `{"data":{"data":{"numero_orden":1},"printerIp":"10.0.0.6"}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), `"error_kind":"connection"`)
	assert.Empty(t, p.jobs)
}

func TestRoutes_Ambient(t *testing.T) {
	r := setup(t, &recordingPrinter{up: true})

	w := do(r, http.MethodGet, "/health", "")
	assert.JSONEq(t, `{"status":"ok","service":"pos-print-server"}`, w.Body.String())

	w = do(r, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	w = do(r, http.MethodPost, "/print/precuenta", `{"data":{"nombre_comercial":"`+strings.Repeat("x", 2048)+`"}}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
