package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fixhub/repair-shop-api/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Session{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func seedUserWithSession(t *testing.T, db *gorm.DB, role models.Role, token string, expiresAt time.Time) models.User {
	t.Helper()

	user := models.User{
		Name:         "Test User",
		Email:        string(role) + "@x.com",
		PasswordHash: "irrelevant",
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	session := models.Session{Token: token, UserID: user.ID, ExpiresAt: expiresAt}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	return user
}

func protectedRouter(db *gorm.DB, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := append([]gin.HandlerFunc{SessionAuth(db)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user, err := CurrentUser(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"email": user.Email}})
	})

	router.GET("/protected", handlers...)
	return router
}

func TestSessionAuth(t *testing.T) {
	db := setupTestDB(t)
	seedUserWithSession(t, db, models.RoleCustomer, "valid-token", time.Now().Add(time.Hour))
	seedUserWithSession(t, db, models.RoleAdmin, "expired-token", time.Now().Add(-time.Hour))

	tests := []struct {
		name           string
		setupRequest   func(*http.Request)
		expectedStatus int
	}{
		{
			name: "Valid cookie token",
			setupRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "valid-token"})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Valid bearer token",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer valid-token")
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing token",
			setupRequest:   func(r *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Unknown token",
			setupRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "no-such-token"})
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Expired session",
			setupRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "expired-token"})
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Malformed authorization header",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "valid-token")
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	router := protectedRouter(db)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/protected", nil)
			tt.setupRequest(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestSessionAuthDeletesExpiredSession(t *testing.T) {
	db := setupTestDB(t)
	seedUserWithSession(t, db, models.RoleCustomer, "stale-token", time.Now().Add(-time.Minute))

	router := protectedRouter(db)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale-token"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	db.Model(&models.Session{}).Where("token = ?", "stale-token").Count(&count)
	assert.Equal(t, int64(0), count, "Expired session row should be removed")
}

func TestRequireRole(t *testing.T) {
	db := setupTestDB(t)
	seedUserWithSession(t, db, models.RoleCustomer, "customer-token", time.Now().Add(time.Hour))
	seedUserWithSession(t, db, models.RoleAdmin, "admin-token", time.Now().Add(time.Hour))

	tests := []struct {
		name           string
		token          string
		requiredRole   models.Role
		expectedStatus int
	}{
		{
			name:           "Admin passes admin gate",
			token:          "admin-token",
			requiredRole:   models.RoleAdmin,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Customer fails admin gate",
			token:          "customer-token",
			requiredRole:   models.RoleAdmin,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Customer passes customer gate",
			token:          "customer-token",
			requiredRole:   models.RoleCustomer,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Admin fails customer gate",
			token:          "admin-token",
			requiredRole:   models.RoleCustomer,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := protectedRouter(db, RequireRole(tt.requiredRole))

			req, _ := http.NewRequest("GET", "/protected", nil)
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.token})
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantEmail string
		wantErr   bool
	}{
		{
			name: "successfully extracts user",
			setupFunc: func(c *gin.Context) {
				c.Set(contextUserKey, models.User{Email: "alice@x.com"})
			},
			wantEmail: "alice@x.com",
			wantErr:   false,
		},
		{
			name: "user not found in context",
			setupFunc: func(c *gin.Context) {
				// Don't set the user
			},
			wantErr: true,
		},
		{
			name: "user is not the expected type",
			setupFunc: func(c *gin.Context) {
				c.Set(contextUserKey, "not a user")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.setupFunc(c)

			user, err := CurrentUser(c)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantEmail, user.Email)
			}
		})
	}
}
