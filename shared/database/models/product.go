package models

import "time"

// Product is the catalog entry mirrored from MazGest. MazgestID is the
// upsert key; a sync batch overwrites every mirrored field.
type Product struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	MazgestID int     `json:"mazgestId" gorm:"uniqueIndex;not null"`
	Code      string  `json:"code" gorm:"index;not null"`
	EAN       *string `json:"ean" gorm:"column:ean"`
	Name      string  `json:"name" gorm:"not null"`
	Slug      string  `json:"slug" gorm:"uniqueIndex;not null"`

	Description   *string `json:"description"`
	DescriptionIt *string `json:"descriptionIt"`
	DescriptionEn *string `json:"descriptionEn"`

	LoadType     *string `json:"loadType"`
	MainCategory *string `json:"mainCategory" gorm:"index"`
	Subcategory  *string `json:"subcategory"`

	Price          float64  `json:"price" gorm:"not null"`
	CompareAtPrice *float64 `json:"compareAtPrice"`
	Stock          int      `json:"stock" gorm:"default:0"`
	StockStatus    string   `json:"stockStatus" gorm:"default:in_stock"`

	// Material
	MaterialPrimary     *string  `json:"materialPrimary" gorm:"index"`
	MaterialColor       *string  `json:"materialColor"`
	MaterialWeightGrams *float64 `json:"materialWeightGrams"`

	// Main stone
	StoneMainType        *string  `json:"stoneMainType" gorm:"index"`
	StoneMainCarats      *float64 `json:"stoneMainCarats"`
	StoneMainColor       *string  `json:"stoneMainColor"`
	StoneMainClarity     *string  `json:"stoneMainClarity"`
	StoneMainCut         *string  `json:"stoneMainCut"`
	StoneMainCertificate *string  `json:"stoneMainCertificate"`

	StonesSecondaryType  *string `json:"stonesSecondaryType"`
	StonesSecondaryCount *int    `json:"stonesSecondaryCount"`

	// Pearls
	PearlType   *string  `json:"pearlType"`
	PearlSizeMm *float64 `json:"pearlSizeMm"`
	PearlColor  *string  `json:"pearlColor"`

	// Per-category sizing
	SizeRingIt     *string  `json:"sizeRingIt"`
	SizeBraceletCm *float64 `json:"sizeBraceletCm"`
	SizeNecklaceCm *float64 `json:"sizeNecklaceCm"`
	SizeEarringMm  *float64 `json:"sizeEarringMm"`

	// Per-category styling
	RingType     *string `json:"ringType"`
	RingStyle    *string `json:"ringStyle"`
	EarringType  *string `json:"earringType"`
	BraceletType *string `json:"braceletType"`
	NecklaceType *string `json:"necklaceType"`
	PendantType  *string `json:"pendantType"`

	Gender *string `json:"gender" gorm:"index"`

	// Watches
	WatchGender   *string `json:"watchGender"`
	WatchType     *string `json:"watchType"`
	WatchMovement *string `json:"watchMovement"`

	ItemCondition string `json:"itemCondition" gorm:"default:nuovo"`

	// SEO
	SeoTitle       *string `json:"seoTitle"`
	SeoDescription *string `json:"seoDescription"`

	IsActive   bool `json:"isActive" gorm:"default:true;index"`
	IsFeatured bool `json:"isFeatured" gorm:"default:false"`

	BrandID    *uint `json:"brandId" gorm:"index"`
	SupplierID *uint `json:"supplierId" gorm:"index"`

	Brand    *Brand    `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`

	Images   []ProductImage   `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	SyncedAt  *time.Time `json:"syncedAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ProductImage is replaced wholesale on every product sync.
type ProductImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"productId" gorm:"index;not null"`
	URL       string    `json:"url" gorm:"not null"`
	IsPrimary bool      `json:"isPrimary" gorm:"default:false"`
	SortOrder int       `json:"sortOrder" gorm:"default:0"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductVariant is replaced wholesale on every product sync.
type ProductVariant struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	ProductID        uint      `json:"productId" gorm:"index;not null"`
	MazgestVariantID *int      `json:"mazgestVariantId" gorm:"index"`
	SKU              *string   `json:"sku" gorm:"column:sku"`
	Name             *string   `json:"name"`
	AttributeName    *string   `json:"attributeName"`
	AttributeValue   *string   `json:"attributeValue"`
	IsVirtual        bool      `json:"isVirtual" gorm:"default:false"`
	ParentVariantID  *int      `json:"parentVariantId"`
	Price            *float64  `json:"price"`
	Stock            int       `json:"stock" gorm:"default:0"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
