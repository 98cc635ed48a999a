package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gaurosa-backend/shared/database/models"
	utils "gaurosa-backend/shared/utils/auth"
	"gaurosa-backend/shared/utils/slug"

	"github.com/google/uuid"
)

// SeedDatabase loads demo catalog data and a verified demo customer for
// local development. Safe to run repeatedly.
func SeedDatabase() error {
	log.Println("🌱 Seeding demo data...")

	if err := seedCustomer(); err != nil {
		return err
	}
	if err := seedCatalog(); err != nil {
		return err
	}

	log.Println("✅ Demo data seeded")
	return nil
}

func seedCustomer() error {
	var count int64
	DB.Model(&models.Customer{}).Where("email = ?", "demo@gaurosa.it").Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword("Password1")
	if err != nil {
		return err
	}

	now := time.Now()
	firstName := "Maria"
	lastName := "Rossi"
	customer := models.Customer{
		Email:           "demo@gaurosa.it",
		Password:        &hash,
		FirstName:       &firstName,
		LastName:        &lastName,
		AuthProvider:    models.AuthProviderEmail,
		EmailVerified:   true,
		EmailVerifiedAt: &now,
		PrivacyConsent:  true,
		ConsentedAt:     &now,
		FromWebsite:     true,
		SyncStatus:      models.SyncStatusPending,
	}
	if err := DB.Create(&customer).Error; err != nil {
		return err
	}

	orderNumber := "GR-" + strings.ToUpper(uuid.New().String()[:8])
	paymentIntent := "pi_demo_" + uuid.New().String()[:8]
	order := models.Order{
		OrderNumber:     orderNumber,
		CustomerID:      &customer.ID,
		Email:           customer.Email,
		Status:          models.OrderStatusPaid,
		PaymentStatus:   "paid",
		Total:           249.00,
		PaymentIntentID: &paymentIntent,
		PaidAt:          &now,
	}
	if err := DB.Create(&order).Error; err != nil {
		return err
	}

	log.Printf("   👤 Demo customer: demo@gaurosa.it / Password1 (order %s)", orderNumber)
	return nil
}

func seedCatalog() error {
	var count int64
	DB.Model(&models.Product{}).Count(&count)
	if count > 0 {
		return nil
	}

	brandID := 101
	brand := models.Brand{MazgestID: &brandID, Name: "Aurora Milano", Slug: slug.Make("Aurora Milano"), IsActive: true}
	if err := DB.Create(&brand).Error; err != nil {
		return err
	}

	supplierID := 201
	supplier := models.Supplier{MazgestID: &supplierID, Name: "Gioielli Veneto", Slug: slug.Make("Gioielli Veneto"), IsActive: true}
	if err := DB.Create(&supplier).Error; err != nil {
		return err
	}

	demo := []struct {
		mazgestID int
		code      string
		name      string
		price     float64
		category  string
		material  string
	}{
		{1001, "AN-0158", "Anello Solitario Oro Bianco", 890.00, "anelli", "oro bianco 18kt"},
		{1002, "BR-0034", "Bracciale Tennis Zirconi", 249.00, "bracciali", "argento 925"},
		{1003, "CL-0077", "Collana Perle Akoya", 1250.00, "collane", "perle akoya"},
	}

	for _, item := range demo {
		now := time.Now()
		category := item.category
		material := item.material
		product := models.Product{
			MazgestID:       item.mazgestID,
			Code:            item.code,
			Name:            item.name,
			Slug:            slug.ForProduct(item.name, item.code),
			Price:           item.price,
			Stock:           5,
			StockStatus:     "in_stock",
			ItemCondition:   "nuovo",
			MainCategory:    &category,
			MaterialPrimary: &material,
			IsActive:        true,
			BrandID:         &brand.ID,
			SupplierID:      &supplier.ID,
			SyncedAt:        &now,
		}
		if err := DB.Create(&product).Error; err != nil {
			return err
		}

		image := models.ProductImage{
			ProductID: product.ID,
			URL:       fmt.Sprintf("https://api.mazgest.org/storage/products/%s/1.jpg", strings.ToLower(item.code)),
			IsPrimary: true,
		}
		if err := DB.Create(&image).Error; err != nil {
			return err
		}
	}

	log.Printf("   💍 Demo catalog: %d products", len(demo))
	return nil
}
