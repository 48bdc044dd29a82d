package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stitchly-app/stitchly-api/config"
	"github.com/stitchly-app/stitchly-api/models"
)

var testDBCounter atomic.Int64

// OpenTestDB opens an in-memory SQLite database with the full schema and
// installs it as the active connection so handlers under test use it.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A uniquely named shared-cache DSN keeps every pooled connection on
	// the same in-memory database; plain ":memory:" gives each connection
	// its own empty one.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Tailor{},
		&models.Client{},
		&models.Category{},
		&models.Service{},
		&models.Order{},
		&models.OrderService{},
		&models.Invoice{},
		&models.Payment{},
		&models.Availability{},
		&models.Review{},
		&models.Message{},
		&models.Notification{},
		&models.Advertisement{},
		&models.Measurement{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	return db
}

// CreateUser inserts a user account with the given role.
func CreateUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		PasswordHash: "$2a$10$testhashtesthashtesthashtesthashtesthashtesthashtesth",
		Role:         role,
		Status:       models.UserStatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return &user
}

// CreateClient inserts a user plus client profile.
func CreateClient(t *testing.T, db *gorm.DB, email string) *models.Client {
	t.Helper()

	user := CreateUser(t, db, email, models.RoleClient)
	client := models.Client{
		UserID:    user.ID,
		FirstName: "Test",
		LastName:  "Client",
		Phone:     "0500000001",
		Address:   "1 Test Street",
	}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return &client
}

// CreateTailor inserts a user plus approved tailor profile.
func CreateTailor(t *testing.T, db *gorm.DB, email string) *models.Tailor {
	t.Helper()

	user := CreateUser(t, db, email, models.RoleTailor)
	tailor := models.Tailor{
		UserID:     user.ID,
		FirstName:  "Test",
		LastName:   "Tailor",
		Phone:      "0500000002",
		Address:    "2 Test Street",
		IsApproved: true,
	}
	if err := db.Create(&tailor).Error; err != nil {
		t.Fatalf("Failed to create tailor: %v", err)
	}
	return &tailor
}

// CreateAdmin inserts a user plus admin profile.
func CreateAdmin(t *testing.T, db *gorm.DB, email string) *models.Admin {
	t.Helper()

	user := CreateUser(t, db, email, models.RoleAdmin)
	admin := models.Admin{
		UserID: user.ID,
		Name:   "Test Admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("Failed to create admin: %v", err)
	}
	return &admin
}

// CreateService inserts a category (if needed) and an active service for
// the tailor at the given price.
func CreateService(t *testing.T, db *gorm.DB, tailor *models.Tailor, name, price string) *models.Service {
	t.Helper()

	var category models.Category
	if err := db.Where("name = ?", "Alterations").First(&category).Error; err != nil {
		category = models.Category{AdminID: 1, Name: "Alterations"}
		if err := db.Create(&category).Error; err != nil {
			t.Fatalf("Failed to create category: %v", err)
		}
	}

	service := models.Service{
		CategoryID:      category.ID,
		TailorID:        tailor.ID,
		Name:            name,
		BasePrice:       decimal.RequireFromString(price),
		DurationMinutes: 60,
		IsActive:        true,
	}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	return &service
}

// CreateOrder inserts an order in the given status with a pending invoice.
func CreateOrder(t *testing.T, db *gorm.DB, client *models.Client, tailor *models.Tailor, status string) *models.Order {
	t.Helper()

	total := decimal.RequireFromString("100.00")
	order := models.Order{
		ClientID:           client.ID,
		TailorID:           tailor.ID,
		Status:             status,
		Address:            client.Address,
		TotalPrice:         total,
		PlatformCommission: decimal.RequireFromString("10.00"),
		TailorPayout:       decimal.RequireFromString("90.00"),
		ServiceType:        models.ServiceTypePickup,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}

	invoice := models.Invoice{
		OrderID:       order.ID,
		ClientID:      client.ID,
		TotalAmount:   decimal.RequireFromString("115.00"),
		PaymentStatus: models.InvoiceStatusPending,
	}
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatalf("Failed to create invoice: %v", err)
	}

	return &order
}
