package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rafaelleal24/sales/internal/adapters/cli"
	"github.com/rafaelleal24/sales/internal/adapters/config"
	"github.com/rafaelleal24/sales/internal/adapters/mongo"
	"github.com/rafaelleal24/sales/internal/adapters/mongo/repository"
	"github.com/rafaelleal24/sales/internal/core/logger"
	"github.com/rafaelleal24/sales/internal/core/service"
)

func main() {
	cfg := config.NewConfig()
	// the CLI always logs to stdout
	if err := logger.Initialize(logger.Options{
		ServiceName: cfg.Logger.ServiceName + "-ctl",
		Level:       logger.ParseLevel(cfg.Logger.Level),
	}); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger: "+err.Error())
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	connect := func(ctx context.Context) (*cli.Backend, error) {
		client, err := mongo.NewConnection(cfg.Mongo)
		if err != nil {
			return nil, err
		}
		database := client.Database(cfg.Mongo.Database)
		return &cli.Backend{
			Customers: service.NewCustomerService(repository.NewCustomerRepository(database)),
			Products:  service.NewProductService(repository.NewProductRepository(database)),
			Close:     func() error { return mongo.Disconnect(client) },
		}, nil
	}

	if err := cli.Execute(ctx, connect); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}
