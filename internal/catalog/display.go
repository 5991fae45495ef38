package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shophub-io/shophub-backend/internal/mirror"
	"github.com/shophub-io/shophub-backend/pkg/db/models"
)

// ProductDisplay is the detail-page projection of a product. The extended
// fields past Available are presentation extras and may be placeholders.
type ProductDisplay struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Slug           string          `json:"slug"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	ImageURL       string          `json:"image_url,omitempty"`
	Category       string          `json:"category,omitempty"`
	Available      bool            `json:"available"`
	Brand          string          `json:"brand,omitempty"`
	Maker          string          `json:"maker,omitempty"`
	Distributor    string          `json:"distributor,omitempty"`
	Highlights     []string        `json:"highlights,omitempty"`
	WarrantyMonths int             `json:"warranty_months,omitempty"`
	ShipETADays    int             `json:"ship_eta_days,omitempty"`
}

// ApplyDisplayDefaults fills missing presentation fields with placeholders
// derived from the title. This is display-layer defaulting only; nothing here
// is persisted or fed back into the system of record.
func ApplyDisplayDefaults(display ProductDisplay) ProductDisplay {
	base := "Generic"
	if fields := strings.Fields(display.Title); len(fields) > 0 {
		base = fields[0]
	}
	if display.Brand == "" {
		display.Brand = base
	}
	if display.Maker == "" {
		display.Maker = fmt.Sprintf("%s Labs", base)
	}
	if display.Distributor == "" {
		display.Distributor = fmt.Sprintf("%s Distributors", base)
	}
	if display.Category == "" {
		display.Category = "General"
	}
	if len(display.Highlights) == 0 {
		display.Highlights = []string{
			fmt.Sprintf("Premium %s build", base),
			"Tested for quality and reliability",
			"Best value in its class",
		}
	}
	if display.WarrantyMonths == 0 {
		display.WarrantyMonths = 12
	}
	if display.ShipETADays == 0 {
		display.ShipETADays = 3
	}
	return display
}

func displayFromDoc(doc mirror.ProductDoc) ProductDisplay {
	return ProductDisplay{
		ID:          doc.ID,
		Title:       doc.Title,
		Slug:        doc.Slug,
		Description: doc.Description,
		Price:       doc.Price,
		ImageURL:    doc.ImageURL,
		Category:    doc.Category,
		Available:   doc.Available,
	}
}

func displayFromModel(product *models.Product) ProductDisplay {
	display := ProductDisplay{
		ID:          product.ID,
		Title:       product.Title,
		Slug:        product.Slug,
		Description: product.Description,
		Price:       product.Price,
		Available:   product.Available,
	}
	if product.ImageURL != nil {
		display.ImageURL = *product.ImageURL
	}
	if product.Category != nil {
		display.Category = product.Category.Name
	}
	return display
}
