package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gaurosa-backend/api-service/middleware"
	"gaurosa-backend/api-service/services"
	"gaurosa-backend/shared/database/models"
	"gaurosa-backend/shared/utils/cache"
	"gaurosa-backend/shared/utils/slug"
)

// ProductSyncHandler serves the MazGest catalog push endpoints.
type ProductSyncHandler struct {
	db     *gorm.DB
	images *services.ImageService
	cache  *cache.CacheManager
}

// NewProductSyncHandler creates a product sync handler. images and cache
// may be nil; image localization and ID caching degrade gracefully.
func NewProductSyncHandler(db *gorm.DB, images *services.ImageService, cacheManager *cache.CacheManager) *ProductSyncHandler {
	return &ProductSyncHandler{
		db:     db,
		images: images,
		cache:  cacheManager,
	}
}

// ImagePayload is one product image in a sync batch.
type ImagePayload struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

// VariantPayload is one product variant in a sync batch. The variant's
// own MazGest identifier arrives as "id".
type VariantPayload struct {
	MazgestVariantID *int     `json:"id"`
	SKU              *string  `json:"sku"`
	Name             *string  `json:"name"`
	AttributeName    *string  `json:"attribute_name"`
	AttributeValue   *string  `json:"attribute_value"`
	IsVirtual        bool     `json:"is_virtual"`
	ParentVariantID  *int     `json:"parent_variant_id"`
	Price            *float64 `json:"price"`
	Stock            int      `json:"stock"`
}

// ProductPayload is one product as MazGest sends it. "id" is the MazGest
// product ID, "public_price" the selling price, and "status" drives both
// stock_status and the active flag. Every field overwrites the mirrored
// row.
type ProductPayload struct {
	MazgestID int     `json:"id"`
	Code      string  `json:"code"`
	EAN       *string `json:"ean_code"`
	Name      string  `json:"name"`

	Description   *string `json:"description"`
	DescriptionIt *string `json:"description_it"`
	DescriptionEn *string `json:"description_en"`

	LoadType     *string `json:"load_type"`
	MainCategory *string `json:"main_category"`
	Subcategory  *string `json:"subcategory"`

	BrandID      *int   `json:"brand_id"`
	BrandName    string `json:"brand_name"`
	SupplierID   *int   `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`

	Price          float64  `json:"public_price"`
	CompareAtPrice *float64 `json:"compare_at_price"`
	Stock          int      `json:"stock"`
	Status         string   `json:"status"`

	MaterialPrimary     *string  `json:"material_primary"`
	MaterialColor       *string  `json:"material_color"`
	MaterialWeightGrams *float64 `json:"material_weight_grams"`

	StoneMainType        *string  `json:"stone_main_type"`
	StoneMainCarats      *float64 `json:"stone_main_carats"`
	StoneMainColor       *string  `json:"stone_main_color"`
	StoneMainClarity     *string  `json:"stone_main_clarity"`
	StoneMainCut         *string  `json:"stone_main_cut"`
	StoneMainCertificate *string  `json:"stone_main_certificate"`

	StonesSecondaryType  *string `json:"stones_secondary_type"`
	StonesSecondaryCount *int    `json:"stones_secondary_count"`

	PearlType   *string  `json:"pearl_type"`
	PearlSizeMm *float64 `json:"pearl_size_mm"`
	PearlColor  *string  `json:"pearl_color"`

	SizeRingIt     *string  `json:"size_ring_it"`
	SizeBraceletCm *float64 `json:"size_bracelet_cm"`
	SizeNecklaceCm *float64 `json:"size_necklace_cm"`
	SizeEarringMm  *float64 `json:"size_earring_mm"`

	RingType     *string `json:"ring_type"`
	RingStyle    *string `json:"ring_style"`
	EarringType  *string `json:"earring_type"`
	BraceletType *string `json:"bracelet_type"`
	NecklaceType *string `json:"necklace_type"`
	PendantType  *string `json:"pendant_type"`

	Gender *string `json:"gender"`

	WatchGender   *string `json:"watch_gender"`
	WatchType     *string `json:"watch_type"`
	WatchMovement *string `json:"watch_movement"`

	ItemCondition string `json:"item_condition"`

	SeoTitle       *string `json:"seo_title"`
	SeoDescription *string `json:"seo_description"`

	IsFeatured bool `json:"is_featured"`

	Images   []ImagePayload   `json:"images"`
	Variants []VariantPayload `json:"variants"`
}

// ProductSyncRequest is the sync batch body. The API key may come in the
// body instead of the X-Api-Key header.
type ProductSyncRequest struct {
	APIKey   string           `json:"api_key"`
	Products []ProductPayload `json:"products"`
}

// BatchDeleteRequest lists MazGest product IDs to remove.
type BatchDeleteRequest struct {
	APIKey     string `json:"api_key"`
	ProductIDs []int  `json:"product_ids"`
}

type syncCounters struct {
	imagesDownloaded int
	imagesFailed     int
}

// POST /api/sync/products
// @Summary Sync products from MazGest
// @Description Upsert a product batch. Images and variants are replaced wholesale per product.
// @Tags sync
// @Accept json
// @Produce json
// @Param batch body ProductSyncRequest true "Product batch"
// @Success 200 {object} map[string]interface{} "Batch report"
// @Failure 401 {object} map[string]interface{} "Invalid API key"
// @Router /sync/products [post]
// @Security ApiKeyAuth
func (h *ProductSyncHandler) SyncProducts(c *gin.Context) {
	var req ProductSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	apiKey := c.GetHeader("X-Api-Key")
	if apiKey == "" {
		apiKey = req.APIKey
	}
	if !middleware.ValidSyncAPIKey(apiKey) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid API key"})
		return
	}

	start := time.Now()
	counters := &syncCounters{}
	var syncErrors []string
	processed := 0

	for i := range req.Products {
		payload := &req.Products[i]
		if err := h.syncProduct(c.Request.Context(), payload, counters); err != nil {
			syncErrors = append(syncErrors, fmt.Sprintf("product %d (%s): %v", payload.MazgestID, payload.Code, err))
			log.Printf("❌ Product sync failed for mazgest_id %d: %v", payload.MazgestID, err)
		} else {
			processed++
		}
	}

	duration := time.Since(start)
	failed := len(syncErrors)

	h.writeSyncLog("products", len(req.Products), processed, failed, syncErrors, duration)
	h.cache.InvalidateSyncedProductIDs()

	log.Printf("✅ Product sync completed: %d/%d processed in %s", processed, len(req.Products), duration)

	c.JSON(http.StatusOK, gin.H{
		"success":           failed == 0,
		"total":             len(req.Products),
		"processed":         processed,
		"failed":            failed,
		"errors":            syncErrors,
		"images_downloaded": counters.imagesDownloaded,
		"images_failed":     counters.imagesFailed,
		"duration_ms":       duration.Milliseconds(),
	})
}

// syncProduct upserts one product with its relations in a transaction.
func (h *ProductSyncHandler) syncProduct(ctx context.Context, payload *ProductPayload, counters *syncCounters) error {
	if payload.MazgestID == 0 {
		return fmt.Errorf("missing product id")
	}
	if payload.Code == "" || payload.Name == "" {
		return fmt.Errorf("missing code or name")
	}

	// Image downloads happen outside the transaction so storage latency
	// never holds row locks.
	localURLs := make([]string, len(payload.Images))
	for i, image := range payload.Images {
		localURLs[i] = h.localizeImage(ctx, payload.Code, image.URL, i, counters)
	}

	// "status" doubles as visibility: only in-stock products go live.
	stockStatus := payload.Status
	if stockStatus == "" {
		stockStatus = "in_stock"
	}
	isActive := payload.Status == "in_stock"

	itemCondition := payload.ItemCondition
	if itemCondition == "" {
		itemCondition = "nuovo"
	}

	return h.db.Transaction(func(tx *gorm.DB) error {
		brandID, err := h.findOrCreateBrand(tx, payload.BrandID, payload.BrandName)
		if err != nil {
			return fmt.Errorf("brand: %w", err)
		}
		supplierID, err := h.findOrCreateSupplier(tx, payload.SupplierID, payload.SupplierName)
		if err != nil {
			return fmt.Errorf("supplier: %w", err)
		}

		now := time.Now()
		columns := map[string]interface{}{
			"code":                   payload.Code,
			"ean":                    payload.EAN,
			"name":                   payload.Name,
			"slug":                   slug.ForProduct(payload.Name, payload.Code),
			"description":            payload.Description,
			"description_it":         payload.DescriptionIt,
			"description_en":         payload.DescriptionEn,
			"load_type":              payload.LoadType,
			"main_category":          payload.MainCategory,
			"subcategory":            payload.Subcategory,
			"price":                  payload.Price,
			"compare_at_price":       payload.CompareAtPrice,
			"stock":                  payload.Stock,
			"stock_status":           stockStatus,
			"material_primary":       payload.MaterialPrimary,
			"material_color":         payload.MaterialColor,
			"material_weight_grams":  payload.MaterialWeightGrams,
			"stone_main_type":        payload.StoneMainType,
			"stone_main_carats":      payload.StoneMainCarats,
			"stone_main_color":       payload.StoneMainColor,
			"stone_main_clarity":     payload.StoneMainClarity,
			"stone_main_cut":         payload.StoneMainCut,
			"stone_main_certificate": payload.StoneMainCertificate,
			"stones_secondary_type":  payload.StonesSecondaryType,
			"stones_secondary_count": payload.StonesSecondaryCount,
			"pearl_type":             payload.PearlType,
			"pearl_size_mm":          payload.PearlSizeMm,
			"pearl_color":            payload.PearlColor,
			"size_ring_it":           payload.SizeRingIt,
			"size_bracelet_cm":       payload.SizeBraceletCm,
			"size_necklace_cm":       payload.SizeNecklaceCm,
			"size_earring_mm":        payload.SizeEarringMm,
			"ring_type":              payload.RingType,
			"ring_style":             payload.RingStyle,
			"earring_type":           payload.EarringType,
			"bracelet_type":          payload.BraceletType,
			"necklace_type":          payload.NecklaceType,
			"pendant_type":           payload.PendantType,
			"gender":                 payload.Gender,
			"watch_gender":           payload.WatchGender,
			"watch_type":             payload.WatchType,
			"watch_movement":         payload.WatchMovement,
			"item_condition":         itemCondition,
			"seo_title":              payload.SeoTitle,
			"seo_description":        payload.SeoDescription,
			"is_active":              isActive,
			"is_featured":            payload.IsFeatured,
			"brand_id":               brandID,
			"supplier_id":            supplierID,
			"synced_at":              now,
		}

		var product models.Product
		err = tx.Where("mazgest_id = ?", payload.MazgestID).First(&product).Error
		switch {
		case err == nil:
			if err := tx.Model(&product).Updates(columns).Error; err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
			product = models.Product{MazgestID: payload.MazgestID}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			if err := tx.Model(&product).Updates(columns).Error; err != nil {
				return err
			}
		default:
			return err
		}

		// Replace images and variants wholesale.
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}

		for i, image := range payload.Images {
			row := models.ProductImage{
				ProductID: product.ID,
				URL:       localURLs[i],
				SortOrder: image.SortOrder,
				IsPrimary: image.IsPrimary || (i == 0 && !anyPrimary(payload.Images)),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		for _, variant := range payload.Variants {
			row := models.ProductVariant{
				ProductID:        product.ID,
				MazgestVariantID: variant.MazgestVariantID,
				SKU:              variant.SKU,
				Name:             variant.Name,
				AttributeName:    variant.AttributeName,
				AttributeValue:   variant.AttributeValue,
				IsVirtual:        variant.IsVirtual,
				ParentVariantID:  variant.ParentVariantID,
				Price:            variant.Price,
				Stock:            variant.Stock,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func anyPrimary(images []ImagePayload) bool {
	for _, image := range images {
		if image.IsPrimary {
			return true
		}
	}
	return false
}

func (h *ProductSyncHandler) localizeImage(ctx context.Context, code, imageURL string, position int, counters *syncCounters) string {
	if h.images == nil {
		return imageURL
	}
	localURL := h.images.LocalizeImage(ctx, code, imageURL, position)
	if localURL == h.images.ResolveRemoteURL(imageURL) {
		counters.imagesFailed++
	} else {
		counters.imagesDownloaded++
	}
	return localURL
}

func (h *ProductSyncHandler) findOrCreateBrand(tx *gorm.DB, mazgestID *int, name string) (*uint, error) {
	if name == "" {
		return nil, nil
	}

	brandSlug := slug.Make(name)
	var brand models.Brand

	if mazgestID != nil {
		if err := tx.Where("mazgest_id = ?", *mazgestID).First(&brand).Error; err == nil {
			return &brand.ID, nil
		}
	}
	if err := tx.Where("slug = ?", brandSlug).First(&brand).Error; err == nil {
		if mazgestID != nil && brand.MazgestID == nil {
			tx.Model(&brand).Update("mazgest_id", *mazgestID)
		}
		return &brand.ID, nil
	}

	brand = models.Brand{
		MazgestID: mazgestID,
		Name:      name,
		Slug:      brandSlug,
		IsActive:  true,
	}
	if err := tx.Create(&brand).Error; err != nil {
		return nil, err
	}
	return &brand.ID, nil
}

func (h *ProductSyncHandler) findOrCreateSupplier(tx *gorm.DB, mazgestID *int, name string) (*uint, error) {
	if name == "" {
		return nil, nil
	}

	supplierSlug := slug.Make(name)
	var supplier models.Supplier

	if mazgestID != nil {
		if err := tx.Where("mazgest_id = ?", *mazgestID).First(&supplier).Error; err == nil {
			return &supplier.ID, nil
		}
	}
	if err := tx.Where("slug = ?", supplierSlug).First(&supplier).Error; err == nil {
		if mazgestID != nil && supplier.MazgestID == nil {
			tx.Model(&supplier).Update("mazgest_id", *mazgestID)
		}
		return &supplier.ID, nil
	}

	supplier = models.Supplier{
		MazgestID: mazgestID,
		Name:      name,
		Slug:      supplierSlug,
		IsActive:  true,
	}
	if err := tx.Create(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier.ID, nil
}

func (h *ProductSyncHandler) writeSyncLog(syncType string, total, processed, failed int, syncErrors []string, duration time.Duration) {
	status := models.SyncLogStatusSuccess
	if failed > 0 && processed > 0 {
		status = models.SyncLogStatusPartial
	} else if failed > 0 {
		status = models.SyncLogStatusError
	}

	var details *string
	if len(syncErrors) > 0 {
		joined := strings.Join(syncErrors, "; ")
		details = &joined
	}

	entry := models.SyncLog{
		SyncType:   syncType,
		Direction:  "inbound",
		Status:     status,
		Total:      total,
		Processed:  processed,
		Failed:     failed,
		Details:    details,
		DurationMs: duration.Milliseconds(),
	}
	if err := h.db.Create(&entry).Error; err != nil {
		log.Printf("❌ Failed to write sync log: %v", err)
	}
}

// DELETE /api/sync/products
// @Summary Delete one product
// @Description Remove a product and its images and variants by MazGest ID
// @Tags sync
// @Produce json
// @Param id query int true "MazGest product ID"
// @Success 200 {object} map[string]interface{} "Delete report"
// @Failure 401 {object} map[string]interface{} "Invalid API key"
// @Router /sync/products [delete]
// @Security ApiKeyAuth
func (h *ProductSyncHandler) DeleteProduct(c *gin.Context) {
	raw := c.Query("id")
	if raw == "" {
		raw = c.Query("mazgest_id")
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing or invalid product id"})
		return
	}

	h.deleteByMazgestIDs(c, []int{id})
}

// DELETE /api/sync/products/batch-delete
// @Summary Delete products in batch
// @Description Remove products no longer present in MazGest. Unknown IDs are ignored.
// @Tags sync
// @Accept json
// @Produce json
// @Param batch body BatchDeleteRequest true "MazGest IDs"
// @Success 200 {object} map[string]interface{} "Delete report"
// @Failure 401 {object} map[string]interface{} "Invalid API key"
// @Router /sync/products/batch-delete [delete]
// @Security ApiKeyAuth
func (h *ProductSyncHandler) BatchDeleteProducts(c *gin.Context) {
	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ProductIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing product_ids"})
		return
	}

	h.deleteByMazgestIDs(c, req.ProductIDs)
}

func (h *ProductSyncHandler) deleteByMazgestIDs(c *gin.Context, ids []int) {
	start := time.Now()
	var deletedCodes []string

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var products []models.Product
		if err := tx.Where("mazgest_id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}

		for _, product := range products {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductVariant{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Product{}, product.ID).Error; err != nil {
				return err
			}
			deletedCodes = append(deletedCodes, product.Code)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Delete failed"})
		return
	}

	h.writeSyncLog("products_delete", len(ids), len(deletedCodes), 0, nil, time.Since(start))
	h.cache.InvalidateSyncedProductIDs()

	log.Printf("✅ Product delete completed: %d of %d requested", len(deletedCodes), len(ids))

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"deleted":       len(deletedCodes),
		"deleted_codes": deletedCodes,
	})
}

// GET /api/sync/synced-ids
// @Summary Synced product IDs
// @Description All MazGest product IDs currently mirrored, for reconciliation
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]interface{} "ID list"
// @Router /sync/synced-ids [get]
func (h *ProductSyncHandler) SyncedIDs(c *gin.Context) {
	if ids, ok := h.cache.GetSyncedProductIDs(); ok {
		c.JSON(http.StatusOK, gin.H{"synced_ids": ids, "count": len(ids), "cached": true})
		return
	}

	var ids []int
	if err := h.db.Model(&models.Product{}).Order("mazgest_id ASC").Pluck("mazgest_id", &ids).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load product ids"})
		return
	}
	if ids == nil {
		ids = []int{}
	}

	if err := h.cache.SetSyncedProductIDs(ids); err == nil {
		log.Printf("🔄 Synced IDs cache refreshed (%d ids)", len(ids))
	}

	c.JSON(http.StatusOK, gin.H{"synced_ids": ids, "count": len(ids), "cached": false})
}
