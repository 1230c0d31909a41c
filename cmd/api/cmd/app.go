package cmd

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/sangkips/pos-print-server/internal/application/receipt"
	"github.com/sangkips/pos-print-server/internal/application/service"
	"github.com/sangkips/pos-print-server/internal/config"
	"github.com/sangkips/pos-print-server/internal/infrastructure/logger"
	"github.com/sangkips/pos-print-server/internal/infrastructure/metrics"
	"github.com/sangkips/pos-print-server/pkg/printer"
)

// app is the wired print pipeline shared by every command.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	manager  *printer.Manager
	service  *service.PrinterService
}

func newApp() (*app, error) {
	cfg, err := config.LoadFile(envFile)
	if err != nil {
		return nil, err
	}

	logCfg := logger.DefaultConfig()
	if cfg.App.IsProduction() {
		logCfg = logger.ProductionConfig()
	}
	logCfg.Level = cfg.Log.Level
	if cfg.Log.Format != "" {
		logCfg.Format = cfg.Log.Format
	}
	logCfg.Output = cfg.Log.Output
	if debug || cfg.App.Debug {
		logCfg.Level = "debug"
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	printMetrics := metrics.NewPrintMetrics(registry, metrics.Config{
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Env,
	})

	connector, err := printer.NewConnectorFromConfig(cfg.Printer.Driver, cfg.Printer.AttemptTimeout, cfg.Printer.WriteTimeout)
	if err != nil {
		return nil, err
	}
	manager := printer.NewManager(connector, printer.ManagerConfig{
		DefaultPort:        cfg.Printer.DefaultPort,
		CharWidth:          cfg.Printer.CharWidth,
		MaxAttempts:        cfg.Printer.ConnectAttempts,
		AttemptTimeout:     cfg.Printer.AttemptTimeout,
		RetryDelay:         cfg.Printer.RetryDelay,
		RemoveSpecialChars: cfg.Printer.RemoveSpecialChars,
	}, log, printer.WithAttemptHook(printMetrics.IncConnectAttempt))

	node, err := snowflake.NewNode(cfg.JobNode)
	if err != nil {
		return nil, fmt.Errorf("create job id node: %w", err)
	}

	formatter := receipt.NewFormatter(receipt.Options{
		AlwaysShowChange: cfg.Print.AlwaysShowChange,
		Location:         receipt.LoadLocation(cfg.Print.Timezone),
	})

	return &app{
		cfg:      cfg,
		logger:   log,
		registry: registry,
		manager:  manager,
		service:  service.NewPrinterService(manager, formatter, printMetrics, node, log),
	}, nil
}

func (a *app) close() {
	a.manager.Reset()
	_ = a.logger.Sync()
}
