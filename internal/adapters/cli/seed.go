package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rafaelleal24/sales/internal/core/logger"
	"github.com/rafaelleal24/sales/internal/core/serviceerrors"
)

type seedResult struct {
	customers, products, skipped int
}

func newSeedCmd(connect Connector) *cobra.Command {
	var (
		file   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load customers and products from a YAML catalog",
		Long: `Load customers and products from a YAML catalog.

Customers whose email already exists are skipped, so a catalog can be
applied more than once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := LoadCatalog(file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "catalog ok: %d customers, %d products\n", len(catalog.Customers), len(catalog.Products))
				return nil
			}

			backend, err := connect(cmd.Context())
			if err != nil {
				return fmt.Errorf("connecting: %w", err)
			}
			if backend.Close != nil {
				defer backend.Close()
			}

			result, err := seed(cmd, backend, catalog, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "seeded %d customers and %d products (%d skipped)\n", result.customers, result.products, result.skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "catalog.yaml", "catalog file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the catalog without writing")
	return cmd
}

func seed(cmd *cobra.Command, backend *Backend, catalog *Catalog, out io.Writer) (seedResult, error) {
	ctx := cmd.Context()
	var result seedResult

	for _, c := range catalog.Customers {
		customer, err := backend.Customers.Create(ctx, c.request())
		if serviceerrors.IsOfKind(err, serviceerrors.KindConflict) {
			result.skipped++
			fmt.Fprintf(out, "skip customer %s: already exists\n", c.Email)
			continue
		}
		if err != nil {
			return result, fmt.Errorf("customer %s: %w", c.Email, err)
		}
		result.customers++
		fmt.Fprintf(out, "customer %s %s\n", customer.ID, customer.Email)
	}

	for _, p := range catalog.Products {
		product, err := backend.Products.CreateProduct(ctx, p.request())
		if err != nil {
			return result, fmt.Errorf("product %s: %w", p.Name, err)
		}
		result.products++
		fmt.Fprintf(out, "product %s %s x%d @ %s\n", product.ID, product.Name, product.Quantity, product.Price)
	}

	logger.Info(ctx, "catalog seeded", map[string]any{
		"customers": result.customers,
		"products":  result.products,
		"skipped":   result.skipped,
	})
	return result, nil
}
