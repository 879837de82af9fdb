package cli

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/dto"
)

// Catalog is the seed file layout:
//
//	customers:
//	  - name: Ada
//	    email: ada@example.com
//	products:
//	  - name: Pen
//	    price: "1.50"
//	    quantity: 100
type Catalog struct {
	Customers []CatalogCustomer `yaml:"customers"`
	Products  []CatalogProduct  `yaml:"products"`
}

type CatalogCustomer struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type CatalogProduct struct {
	Name     string `yaml:"name"`
	Price    string `yaml:"price"`
	Quantity int    `yaml:"quantity"`
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &catalog, nil
}

func (c *Catalog) Validate() error {
	var errs []error
	for i, customer := range c.Customers {
		if customer.Name == "" || customer.Email == "" {
			errs = append(errs, fmt.Errorf("customers[%d]: name and email are required", i))
		}
	}
	for i, product := range c.Products {
		if product.Name == "" {
			errs = append(errs, fmt.Errorf("products[%d]: name is required", i))
		}
		if price, err := domain.NewPrice(product.Price); err != nil {
			errs = append(errs, fmt.Errorf("products[%d]: %w", i, err))
		} else if !price.IsPositive() {
			errs = append(errs, fmt.Errorf("products[%d]: price must be greater than zero", i))
		}
		if product.Quantity < 0 {
			errs = append(errs, fmt.Errorf("products[%d]: quantity cannot be negative", i))
		}
	}
	return errors.Join(errs...)
}

func (p CatalogProduct) request() *dto.CreateProductRequest {
	return &dto.CreateProductRequest{
		Name:     p.Name,
		Price:    domain.MustPrice(p.Price),
		Quantity: p.Quantity,
	}
}

func (c CatalogCustomer) request() *dto.CreateCustomerRequest {
	return &dto.CreateCustomerRequest{Name: c.Name, Email: c.Email}
}
