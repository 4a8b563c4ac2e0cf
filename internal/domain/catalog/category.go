package catalog

import (
	"strings"

	"github.com/boutique/backend/internal/domain/shared"
)

// Category is a browsable product grouping
type Category struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(120);not null;uniqueIndex" json:"name"`
	Slug        string `gorm:"type:varchar(140);not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:varchar(500)" json:"description"`
	ImageURL    string `gorm:"type:varchar(500)" json:"image_url"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`
}

// NewCategory creates an active category with a slug derived from the name
func NewCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Category name is required")
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       Slugify(name),
		IsActive:   true,
	}, nil
}

// Brand is a product manufacturer or label
type Brand struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(120);not null;uniqueIndex" json:"name"`
	Slug        string `gorm:"type:varchar(140);not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:varchar(500)" json:"description"`
	LogoURL     string `gorm:"type:varchar(500)" json:"logo_url"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`
}

// NewBrand creates an active brand with a slug derived from the name
func NewBrand(name string) (*Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Brand name is required")
	}
	return &Brand{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       Slugify(name),
		IsActive:   true,
	}, nil
}

// Slugify lowercases a name and collapses non-alphanumeric runs into hyphens
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
