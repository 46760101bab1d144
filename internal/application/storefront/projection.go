package storefront

import (
	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/catalog"
	"github.com/sabores/backend/internal/domain/scheduling"
	"github.com/sabores/backend/internal/domain/settings"
	"github.com/shopspring/decimal"
)

// ChoiceProjection is a public option choice
type ChoiceProjection struct {
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// OptionProjection is a public option group
type OptionProjection struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	MinSelect int                `json:"min_select"`
	MaxSelect int                `json:"max_select"`
	Choices   []ChoiceProjection `json:"choices"`
}

// ProductProjection is the public product shape: the allow-listed subset
// of the catalog aggregate that customers may see.
type ProductProjection struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Price       decimal.Decimal    `json:"price"`
	Available   bool               `json:"available"`
	Tags        []string           `json:"tags,omitempty"`
	Nutrition   catalog.Nutrition  `json:"nutrition"`
	ImageURL    string             `json:"image_url,omitempty"`
	Options     []OptionProjection `json:"options,omitempty"`
}

// CategoryProjection groups public products under a menu heading
type CategoryProjection struct {
	ID       uuid.UUID           `json:"id"`
	Name     string              `json:"name"`
	Products []ProductProjection `json:"products"`
}

// CatalogProjection is the full public menu
type CatalogProjection struct {
	Categories []CategoryProjection `json:"categories"`
}

// SettingsProjection is the public settings shape. Origin is included for
// the storefront map; credentials and internals never appear here.
type SettingsProjection struct {
	CompanyName       string                  `json:"company_name"`
	Online            bool                    `json:"online"`
	OpeningHours      scheduling.WeekSchedule `json:"opening_hours"`
	LeadTimeMinutes   int                     `json:"lead_time_minutes"`
	SchedulingEnabled bool                    `json:"scheduling_enabled"`
	OriginLat         float64                 `json:"origin_lat"`
	OriginLng         float64                 `json:"origin_lng"`
	CheckoutItems     settings.CheckoutItems  `json:"checkout_items"`
	Popup             settings.PopupConfig    `json:"popup"`
}

func toProductProjection(p *catalog.Product) ProductProjection {
	tags := make([]string, len(p.Tags))
	for i, tag := range p.Tags {
		tags[i] = string(tag)
	}

	options := make([]OptionProjection, len(p.Options))
	for i := range p.Options {
		option := &p.Options[i]
		choices := make([]ChoiceProjection, len(option.Choices))
		for j, choice := range option.Choices {
			choices[j] = ChoiceProjection{Name: choice.Name, PriceDelta: choice.PriceDelta}
		}
		options[i] = OptionProjection{
			ID:        option.ID,
			Name:      option.Name,
			MinSelect: option.MinSelect,
			MaxSelect: option.MaxSelect,
			Choices:   choices,
		}
	}

	return ProductProjection{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Available:   p.Available,
		Tags:        tags,
		Nutrition:   p.Nutrition,
		ImageURL:    p.ImageURL,
		Options:     options,
	}
}

// buildCatalog groups visible products under their active categories.
// Products without a category, or whose category is inactive, land in a
// trailing unnamed group so they are still orderable.
func buildCatalog(categories []catalog.Category, products []catalog.Product) *CatalogProjection {
	byCategory := make(map[uuid.UUID][]ProductProjection)
	var uncategorized []ProductProjection

	active := make(map[uuid.UUID]bool, len(categories))
	for _, category := range categories {
		active[category.ID] = true
	}

	for i := range products {
		product := &products[i]
		projection := toProductProjection(product)
		if product.CategoryID != nil && active[*product.CategoryID] {
			byCategory[*product.CategoryID] = append(byCategory[*product.CategoryID], projection)
		} else {
			uncategorized = append(uncategorized, projection)
		}
	}

	out := &CatalogProjection{Categories: make([]CategoryProjection, 0, len(categories)+1)}
	for _, category := range categories {
		items := byCategory[category.ID]
		if len(items) == 0 {
			continue
		}
		out.Categories = append(out.Categories, CategoryProjection{
			ID:       category.ID,
			Name:     category.Name,
			Products: items,
		})
	}
	if len(uncategorized) > 0 {
		out.Categories = append(out.Categories, CategoryProjection{Products: uncategorized})
	}

	return out
}

func toSettingsProjection(cfg *settings.Settings) *SettingsProjection {
	return &SettingsProjection{
		CompanyName:       cfg.CompanyName,
		Online:            cfg.Online,
		OpeningHours:      cfg.OpeningHours,
		LeadTimeMinutes:   cfg.LeadTimeMinutes,
		SchedulingEnabled: cfg.SchedulingEnabled,
		OriginLat:         cfg.OriginLat,
		OriginLng:         cfg.OriginLng,
		CheckoutItems:     cfg.CheckoutItems,
		Popup:             cfg.Popup,
	}
}
