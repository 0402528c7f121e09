// cmd/poctl/main.go
package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hasithasandunlakshan/inventory-console/internal/analytics"
	"github.com/hasithasandunlakshan/inventory-console/internal/auth"
	"github.com/hasithasandunlakshan/inventory-console/internal/client"
	"github.com/hasithasandunlakshan/inventory-console/internal/config"
	"github.com/hasithasandunlakshan/inventory-console/internal/repository"
	"github.com/hasithasandunlakshan/inventory-console/internal/service"
	"github.com/hasithasandunlakshan/inventory-console/pkg/logger"
)

// console bundles the constructor-injected pieces each command needs.
type console struct {
	cfg        *config.Config
	tokens     *auth.TokenStore
	orders     *service.POService
	repo       repository.PORepository
	aggregator *analytics.Aggregator
}

func newConsole(c *cli.Context) *console {
	cfg := config.Load()
	if url := c.String("order-url"); url != "" {
		cfg.Services.OrderURL = url
	}

	tokens := auth.NewTokenStore(cfg.Auth.TokenFile)
	orderClient := client.New(cfg.Services.OrderURL, cfg.HTTP.Timeout, tokens)
	supplierClient := client.New(cfg.Services.SupplierURL, cfg.HTTP.Timeout, tokens)

	repo := repository.NewHTTPPORepository(orderClient)
	return &console{
		cfg:        cfg,
		tokens:     tokens,
		orders:     service.NewPOService(repo),
		repo:       repo,
		aggregator: analytics.NewAggregator(repo, repository.NewHTTPSupplierRepository(supplierClient)),
	}
}

func main() {
	app := &cli.App{
		Name:  "poctl",
		Usage: "purchase-order console for the inventory backend services",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "order-url",
				Usage:   "Base URL of the purchase-order service",
				EnvVars: []string{"ORDER_SERVICE_URL"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "warn",
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			loginCommand(),
			listCommand(),
			showCommand(),
			createCommand(),
			statusCommand(),
			receiveCommand(),
			itemsCommand(),
			notesCommand(),
			attachmentsCommand(),
			auditCommand(),
			reportCommand(),
			exportCommand(),
			importCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
