package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fixhub/repair-shop-api/models"
)

func TestCreateTechnician(t *testing.T) {
	db := setupTestDB(t)
	ctl := NewTechnicianController(db)
	admin := createTestUser(t, db, "admin@x.com", models.RoleAdmin)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Create technician successfully",
			body:           `{"name":"Sam","email":"sam@shop.com","specialization":"Phones"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Fail with duplicate email",
			body:           `{"name":"Sam Again","email":"sam@shop.com","specialization":"Tablets"}`,
			expectedStatus: http.StatusConflict,
			expectedCode:   "EMAIL_EXISTS",
		},
		{
			name:           "Fail with missing specialization",
			body:           `{"name":"Pat","email":"pat@shop.com"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/api/v1/admin/technicians", mockAuthMiddleware(admin), ctl.CreateTechnician)

			req, _ := http.NewRequest("POST", "/api/v1/admin/technicians", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedCode != "" {
				var response map[string]interface{}
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				errObj := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedCode, errObj["code"])
			}
		})
	}

	var count int64
	db.Model(&models.Technician{}).Where("email = ?", "sam@shop.com").Count(&count)
	assert.Equal(t, int64(1), count, "Duplicate creation should not add a technician")
}

func TestListTechnicians(t *testing.T) {
	db := setupTestDB(t)
	ctl := NewTechnicianController(db)
	admin := createTestUser(t, db, "admin@x.com", models.RoleAdmin)

	createTestTechnician(t, db, "sam@shop.com")
	createTestTechnician(t, db, "pat@shop.com")

	router := setupTestRouter()
	router.GET("/api/v1/admin/technicians", mockAuthMiddleware(admin), ctl.ListTechnicians)

	req, _ := http.NewRequest("GET", "/api/v1/admin/technicians", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool                `json:"success"`
		Data    []models.Technician `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Data, 2)
	assert.Equal(t, "sam@shop.com", response.Data[0].Email, "Technicians are listed by id")
}
