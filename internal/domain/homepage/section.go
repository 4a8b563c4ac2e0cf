package homepage

import (
	"net/url"
	"strings"

	"github.com/boutique/backend/internal/domain/catalog"
)

// SectionThemes is the palette cycled over dynamic sections in order
var SectionThemes = []string{
	"forest", "navy", "plum", "teal", "rust", "slate",
	"olive", "rose", "indigo", "amber", "sage", "stone",
}

// Card is the storefront projection of a product inside a section
type Card struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Price        float64  `json:"price"`
	ComparePrice *float64 `json:"compare_price"`
	DiscountPct  *int     `json:"discount_pct"`
	Brand        string   `json:"brand"`
	Category     string   `json:"category"`
	Rating       *float64 `json:"rating"`
	RatingNumber *int     `json:"rating_number"`
	Sales        int      `json:"sales"`
	InStock      bool     `json:"in_stock"`
	MainImage    *string  `json:"main_image"`
	Images       []string `json:"images"`
}

// Section is one homepage row of product cards
type Section struct {
	Key      string  `json:"key"`
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Badge    *string `json:"badge"`
	Theme    string  `json:"theme"`
	ViewAll  string  `json:"view_all"`
	Products []Card  `json:"products"`
}

// NewCard projects a catalog product onto a section card
func NewCard(p *catalog.Product) Card {
	price, _ := p.Price.Float64()

	var comparePrice *float64
	if p.ComparePrice != nil {
		cp, _ := p.ComparePrice.Float64()
		comparePrice = &cp
	}

	var mainImage *string
	if img := p.MainImage(); img != "" {
		mainImage = &img
	}

	return Card{
		ID:           p.ID.String(),
		Title:        p.Title,
		Price:        price,
		ComparePrice: comparePrice,
		DiscountPct:  p.DiscountPercent(),
		Brand:        p.Brand,
		Category:     p.Category,
		Rating:       p.Rating,
		RatingNumber: p.RatingNumber,
		Sales:        p.Sales,
		InStock:      p.InStock(),
		MainImage:    mainImage,
		Images:       p.ImageURLs(),
	}
}

// NewDynamicSection builds a taxonomy-derived section. The theme is chosen
// by cycling the palette with the section's position among dynamic sections.
func NewDynamicSection(name string, position int, cards []Card) Section {
	return Section{
		Key:      "cat_" + sectionSlug(name),
		Title:    name,
		Subtitle: "Shop all " + strings.ToLower(name),
		Theme:    SectionThemes[position%len(SectionThemes)],
		ViewAll:  "/store?q=" + url.QueryEscape(name),
		Products: cards,
	}
}

// sectionSlug turns "Smartphones & Phones" into "smartphones_phones"
func sectionSlug(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " & ", " ")
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "&", "and")
}
