// Package seed loads the starter catalog into a fresh store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/shopspring/decimal"

	"repairdesk/internal/domain"
	"repairdesk/internal/service"
)

//go:embed default.yaml
var defaultCatalog []byte

// money decodes a YAML scalar straight into a decimal, so 0.1 stays 0.1.
type money decimal.Decimal

func (m money) dec() decimal.Decimal { return decimal.Decimal(m) }

func (m *money) UnmarshalYAML(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"'`)
	if s == "" || s == "null" || s == "~" {
		*m = money(decimal.Zero)
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("money %q: %w", s, err)
	}
	*m = money(d)
	return nil
}

type productDTO struct {
	Brand          string `yaml:"brand"`
	Model          string `yaml:"model"`
	Part           string `yaml:"part"`
	Color          string `yaml:"color"`
	Stock          int64  `yaml:"stock"`
	RetailPrice    money  `yaml:"retailPrice"`
	WholesalePrice money  `yaml:"wholesalePrice"`
	PartPrice      money  `yaml:"partPrice"`
}

type deviceDTO struct {
	Brand           string   `yaml:"brand"`
	Model           string   `yaml:"model"`
	Version         string   `yaml:"version"`
	Security        string   `yaml:"security"`
	Baseband        string   `yaml:"baseband"`
	GoogleLock      bool     `yaml:"googleLock"`
	CanUnlock       bool     `yaml:"canUnlock"`
	VersionOptions  []string `yaml:"versionOptions"`
	SecurityOptions []string `yaml:"securityOptions"`
	BasebandOptions []string `yaml:"basebandOptions"`
}

type quoteDTO struct {
	Product        string `yaml:"product"`
	Price          money  `yaml:"price"`
	RetailPrice    money  `yaml:"retailPrice"`
	WholesalePrice money  `yaml:"wholesalePrice"`
	UnitPrice      money  `yaml:"unitPrice"`
	Shipping       money  `yaml:"shipping"`
	Link           string `yaml:"link"`
}

type catalogDTO struct {
	Brands        []string     `yaml:"brands"`
	Products      []productDTO `yaml:"products"`
	UnlockDevices []deviceDTO  `yaml:"unlockDevices"`
	Quotes        []quoteDTO   `yaml:"quotes"`
}

// Catalog стартовые данные мастерской
type Catalog struct {
	Brands        []string
	Products      []domain.Product
	UnlockDevices []domain.UnlockDevice
	Quotes        []domain.Quote
}

// Default returns the embedded starter catalog.
func Default() (Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file; an empty path means the embedded default.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Catalog, error) {
	var dto catalogDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return Catalog{}, fmt.Errorf("decode seed catalog: %w", err)
	}

	c := Catalog{Brands: dto.Brands}
	for _, p := range dto.Products {
		c.Products = append(c.Products, domain.Product{
			Brand:          p.Brand,
			Model:          p.Model,
			Part:           p.Part,
			Color:          p.Color,
			Stock:          p.Stock,
			RetailPrice:    p.RetailPrice.dec(),
			WholesalePrice: p.WholesalePrice.dec(),
			PartPrice:      p.PartPrice.dec(),
		})
	}
	for _, d := range dto.UnlockDevices {
		c.UnlockDevices = append(c.UnlockDevices, domain.UnlockDevice{
			Brand:           d.Brand,
			Model:           d.Model,
			Version:         d.Version,
			Security:        d.Security,
			Baseband:        d.Baseband,
			GoogleLock:      d.GoogleLock,
			CanUnlock:       d.CanUnlock,
			VersionOptions:  d.VersionOptions,
			SecurityOptions: d.SecurityOptions,
			BasebandOptions: d.BasebandOptions,
		})
	}
	for _, q := range dto.Quotes {
		c.Quotes = append(c.Quotes, domain.Quote{
			Product:        q.Product,
			Price:          q.Price.dec(),
			RetailPrice:    q.RetailPrice.dec(),
			WholesalePrice: q.WholesalePrice.dec(),
			UnitPrice:      q.UnitPrice.dec(),
			Shipping:       q.Shipping.dec(),
			Link:           q.Link,
		})
	}
	return c, nil
}

// Apply creates every catalog entry through the services, so validation and
// id assignment are the same as for API writes.
func Apply(ctx context.Context, c Catalog, products *service.ProductService, devices *service.DeviceService, quotes *service.QuoteService) error {
	for i, p := range c.Products {
		if _, err := products.Create(ctx, p); err != nil {
			return fmt.Errorf("seed product #%d: %w", i+1, err)
		}
	}
	for i, d := range c.UnlockDevices {
		if _, err := devices.Create(ctx, d); err != nil {
			return fmt.Errorf("seed unlock device #%d: %w", i+1, err)
		}
	}
	for i, q := range c.Quotes {
		if _, err := quotes.Create(ctx, q); err != nil {
			return fmt.Errorf("seed quote #%d: %w", i+1, err)
		}
	}
	return nil
}
