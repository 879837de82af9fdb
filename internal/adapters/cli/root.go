package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/dto"
)

var (
	version = "dev"
	commit  = "none"
)

type CustomerCreator interface {
	Create(ctx context.Context, request *dto.CreateCustomerRequest) (*domain.Customer, error)
}

type ProductCreator interface {
	CreateProduct(ctx context.Context, request *dto.CreateProductRequest) (*domain.Product, error)
}

// Backend is what seeding writes through. Close releases its connections.
type Backend struct {
	Customers CustomerCreator
	Products  ProductCreator
	Close     func() error
}

// Connector opens the backend only for commands that need it.
type Connector func(ctx context.Context) (*Backend, error)

func NewRootCmd(connect Connector) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "salesctl",
		Short:         "Operate the sales service",
		Long:          "salesctl loads catalog data into the sales database and reports build information.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newSeedCmd(connect))
	return cmd
}

func Execute(ctx context.Context, connect Connector) error {
	return NewRootCmd(connect).ExecuteContext(ctx)
}
