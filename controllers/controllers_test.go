package controllers

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fixhub/repair-shop-api/config"
	"github.com/fixhub/repair-shop-api/middleware"
	"github.com/fixhub/repair-shop-api/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Technician{},
		&models.RepairRequest{},
		&models.Inventory{},
		&models.Payment{},
		&models.Session{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

func testConfig() *config.Config {
	return &config.Config{
		DatabaseURL: "sqlite://:memory:",
		Port:        "8080",
		GoEnv:       "test",
		SessionTTL:  time.Hour,
	}
}

// mockAuthMiddleware sets up the context exactly as the real SessionAuth
// middleware does, without touching the session table
func mockAuthMiddleware(user models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := models.Session{
			ID:        1,
			Token:     "test-token",
			UserID:    user.ID,
			User:      user,
			ExpiresAt: time.Now().Add(time.Hour),
		}
		middleware.SetAuthContext(c, user, session)
		c.Next()
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role models.Role) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	user := models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func createTestTechnician(t *testing.T, db *gorm.DB, email string) models.Technician {
	t.Helper()

	technician := models.Technician{
		Name:           "Test Technician",
		Email:          email,
		Specialization: "Laptops",
	}
	if err := db.Create(&technician).Error; err != nil {
		t.Fatalf("Failed to create test technician: %v", err)
	}
	return technician
}

func createTestRequest(t *testing.T, db *gorm.DB, userID uint) models.RepairRequest {
	t.Helper()

	request := models.RepairRequest{
		UserID: userID,
		Device: "Laptop",
		Issue:  "Won't boot",
		Status: models.StatusPending,
	}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("Failed to create test repair request: %v", err)
	}
	return request
}
