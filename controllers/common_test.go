package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Gelou69/Food-OrderomgHub/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Restaurant{},
		&models.FoodItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Preference{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// asUser stands in for the token middleware: it marks the request as
// authenticated with the given provider subject
func asUser(authID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", authID)
		c.Next()
	}
}

// seedOwner creates an owner profile with a linked restaurant
func seedOwner(t *testing.T, db *gorm.DB, authID, name string) (models.User, models.Restaurant) {
	t.Helper()

	owner := models.User{AuthID: authID, Name: name, Email: authID + "@example.com", Role: models.RoleOwner}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("Failed to seed owner: %v", err)
	}
	restaurant := models.Restaurant{OwnerID: owner.ID, Name: name + "'s Kitchen", Barangay: "Tibanga", IsOpen: true}
	if err := db.Create(&restaurant).Error; err != nil {
		t.Fatalf("Failed to seed restaurant: %v", err)
	}
	return owner, restaurant
}

// seedCustomer creates a customer profile
func seedCustomer(t *testing.T, db *gorm.DB, authID, name string) models.User {
	t.Helper()

	customer := models.User{AuthID: authID, Name: name, Email: authID + "@example.com", Role: models.RoleCustomer}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}
	return customer
}

func jsonRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	return body
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	body := decodeBody(t, w)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("Response has no error object: %s", w.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}
