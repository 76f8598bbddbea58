package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafe-pos/internal/app/pos"
	"cafe-pos/internal/common/config"
	"cafe-pos/internal/common/logger"
	"cafe-pos/internal/connections/database"
	"cafe-pos/internal/connections/rabbitmq"
	"cafe-pos/internal/events"
	"cafe-pos/internal/expense"
	"cafe-pos/internal/menu"
	"cafe-pos/internal/network"
	"cafe-pos/internal/order"
	"cafe-pos/internal/printer"
	"cafe-pos/internal/queue"
	"cafe-pos/internal/remote"
	"cafe-pos/internal/storage"
)

func main() {
	mode := flag.String("mode", "terminal", "terminal | sync")
	cfgPath := flag.String("config", "", "path to YAML config (default: search usual locations)")
	port := flag.Int("port", 0, "terminal: http port override")
	flag.Parse()

	lg := logger.New("pos")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path := *cfgPath
	if path == "" {
		var err error
		if path, err = config.FindConfig(); err != nil {
			fmt.Fprintln(os.Stderr, "no config file found; pass --config")
			os.Exit(2)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": path})
		os.Exit(1)
	}
	if *port != 0 {
		cfg.App.Port = *port
	}

	db, err := database.Open(cfg.Backend)
	if err != nil {
		lg.Error("db_open_failed", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	// The terminal must boot with the backend down; reachability is probed,
	// not required.
	monitor := network.NewMonitor(db.PingContext, 10*time.Second, 2*time.Second, lg)
	if err := database.WaitReady(ctx, db, 2, time.Second); err != nil {
		lg.Warn("backend_unreachable_at_boot", err, nil)
		monitor.Set(false)
	}
	go monitor.Run(ctx)

	var kv storage.KV
	switch cfg.Storage.Driver {
	case "redis":
		rkv, err := storage.NewRedisKV(cfg.Storage.RedisAddr)
		if err != nil {
			lg.Error("redis_connect_failed", err, map[string]any{"addr": cfg.Storage.RedisAddr})
			os.Exit(1)
		}
		defer rkv.Close()
		kv = rkv
	default:
		fkv, err := storage.NewFileKV(cfg.Storage.Path)
		if err != nil {
			lg.Error("file_store_failed", err, map[string]any{"path": cfg.Storage.Path})
			os.Exit(1)
		}
		kv = fkv
	}

	sink := remote.NewPostgresSink(db)
	offline := queue.NewOfflineQueue(queue.NewRepository(kv, lg), monitor, sink, lg)
	orders := order.NewService(sink, offline, monitor, lg)

	switch *mode {
	case "terminal":
		runTerminal(ctx, cfg, lg, kv, db, orders, monitor)
	case "sync":
		n, err := orders.SyncQueue(ctx)
		if err != nil {
			lg.Error("sync_failed", err, nil)
			os.Exit(1)
		}
		lg.Info("sync_done", map[string]any{"synced": n, "remaining": orders.PendingOffline()})
	default:
		fmt.Fprintln(os.Stderr, "--mode must be terminal or sync")
		os.Exit(2)
	}
}

func runTerminal(
	ctx context.Context,
	cfg *config.Config,
	lg *logger.Logger,
	kv storage.KV,
	db *sql.DB,
	orders *order.Service,
	monitor *network.Monitor,
) {
	if err := orders.Bootstrap(ctx); err != nil {
		lg.Warn("bootstrap_incomplete", err, nil)
	}

	if cfg.RabbitMQ.Enabled() {
		rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			lg.Warn("rabbitmq_unavailable", err, map[string]any{"host": cfg.RabbitMQ.Host})
		} else {
			defer rmq.Close()
			pub, err := events.NewPublisher(rmq, logger.New("events"))
			if err != nil {
				lg.Warn("rabbitmq_exchange_failed", err, nil)
			} else {
				orders.SetNotifier(pub)
			}
		}
	}

	var thermal *printer.Thermal
	var native printer.Capability
	if cfg.Printer.Transport == "tcp" {
		thermal = printer.NewThermal(printer.NewTCPTransport(), kv, lg)
		if err := thermal.Reconnect(ctx); err != nil {
			lg.Warn("printer_reconnect_failed", err, nil)
		}
		native = thermal
	}
	fallback, err := printer.NewDocumentFallback(cfg.Printer.SpoolDir)
	if err != nil {
		lg.Error("spool_dir_failed", err, map[string]any{"dir": cfg.Printer.SpoolDir})
		os.Exit(1)
	}
	gateway := printer.NewGateway(native, fallback, lg)

	server := pos.NewServer(
		orders,
		menu.NewService(menu.NewRepository(db), monitor, lg),
		expense.NewRepository(db),
		gateway,
		thermal,
		monitor,
		cfg.App.BusinessName,
		lg,
	)
	if err := server.Run(ctx, cfg.App.Port); err != nil {
		lg.Error("fatal", err, nil)
		os.Exit(1)
	}
}
