package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/Gelou69/Food-OrderomgHub/models"
	"github.com/Gelou69/Food-OrderomgHub/services"
)

func productRouter(db *gorm.DB, authID string, storage services.StorageInterface) *gin.Engine {
	pc := NewProductController(db, storage)
	router := gin.New()
	router.Use(asUser(authID))
	router.GET("/owner/products", pc.ListProducts)
	router.POST("/owner/products", pc.CreateProduct)
	router.PUT("/owner/products/:id", pc.UpdateProduct)
	router.DELETE("/owner/products/:id", pc.DeleteProduct)
	router.POST("/owner/products/:id/image", pc.UploadProductImage)
	return router
}

func TestCreateProductGeneratesID(t *testing.T) {
	db := setupTestDB(t)
	_, restaurant := seedOwner(t, db, "auth|prod1", "Marco")
	router := productRouter(db, "auth|prod1", services.NewMockStorageService("bucket"))

	w := jsonRequest(t, router, "POST", "/owner/products", gin.H{
		"name":  "Sisig Plate",
		"price": 145.50,
		"stock": 20,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	id := data["id"].(string)
	// restaurantID_timestampMillis
	assert.True(t, strings.HasPrefix(id, "1_"), "Generated ID must start with the restaurant ID, got %q", id)

	var stored models.FoodItem
	assert.NoError(t, db.First(&stored, "id = ?", id).Error)
	assert.Equal(t, restaurant.ID, stored.RestaurantID)
}

func TestCreateProductKeepsClientID(t *testing.T) {
	db := setupTestDB(t)
	seedOwner(t, db, "auth|prod2", "Marco")
	router := productRouter(db, "auth|prod2", services.NewMockStorageService("bucket"))

	w := jsonRequest(t, router, "POST", "/owner/products", gin.H{
		"id":    "1_1757600000000",
		"name":  "Lumpia",
		"price": 60,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "1_1757600000000", data["id"])
}

func TestCreateProductRejectsNonPositivePrice(t *testing.T) {
	db := setupTestDB(t)
	seedOwner(t, db, "auth|prod3", "Marco")
	router := productRouter(db, "auth|prod3", services.NewMockStorageService("bucket"))

	w := jsonRequest(t, router, "POST", "/owner/products", gin.H{
		"name":  "Free Sample",
		"price": 0,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestUpdateProductPartial(t *testing.T) {
	db := setupTestDB(t)
	_, restaurant := seedOwner(t, db, "auth|prod4", "Marco")
	item := models.FoodItem{ID: "1_100", Name: "Pancit", Price: 90, Stock: 5, RestaurantID: restaurant.ID}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to seed food item: %v", err)
	}
	router := productRouter(db, "auth|prod4", services.NewMockStorageService("bucket"))

	w := jsonRequest(t, router, "PUT", "/owner/products/1_100", gin.H{"stock": 0})

	assert.Equal(t, http.StatusOK, w.Code)
	var stored models.FoodItem
	db.First(&stored, "id = ?", "1_100")
	assert.Equal(t, 0, stored.Stock, "Sold-out stock of zero must be accepted")
	assert.Equal(t, 90.0, stored.Price, "Fields absent from the request stay untouched")
}

func TestUpdateProductRejectsNegativeStock(t *testing.T) {
	db := setupTestDB(t)
	_, restaurant := seedOwner(t, db, "auth|prod5", "Marco")
	item := models.FoodItem{ID: "1_101", Name: "Pancit", Price: 90, Stock: 5, RestaurantID: restaurant.ID}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to seed food item: %v", err)
	}
	router := productRouter(db, "auth|prod5", services.NewMockStorageService("bucket"))

	w := jsonRequest(t, router, "PUT", "/owner/products/1_101", gin.H{"stock": -1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestProductOwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	seedOwner(t, db, "auth|prod6", "Marco")
	_, otherRestaurant := seedOwner(t, db, "auth|prod6-other", "Lena")
	item := models.FoodItem{ID: "2_200", Name: "Kare-Kare", Price: 180, RestaurantID: otherRestaurant.ID}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to seed food item: %v", err)
	}
	router := productRouter(db, "auth|prod6", services.NewMockStorageService("bucket"))

	w := jsonRequest(t, router, "DELETE", "/owner/products/2_200", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, w))

	var count int64
	db.Model(&models.FoodItem{}).Where("id = ?", "2_200").Count(&count)
	assert.EqualValues(t, 1, count, "Foreign product must survive the rejected delete")
}

func TestDeleteProduct(t *testing.T) {
	db := setupTestDB(t)
	_, restaurant := seedOwner(t, db, "auth|prod7", "Marco")
	item := models.FoodItem{ID: "1_102", Name: "Taho", Price: 25, RestaurantID: restaurant.ID}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to seed food item: %v", err)
	}
	router := productRouter(db, "auth|prod7", services.NewMockStorageService("bucket"))

	w := jsonRequest(t, router, "DELETE", "/owner/products/1_102", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var count int64
	db.Model(&models.FoodItem{}).Where("id = ?", "1_102").Count(&count)
	assert.Zero(t, count)
}

func multipartImage(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("Failed to build multipart body: %v", err)
	}
	part.Write(content)
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func TestUploadProductImage(t *testing.T) {
	db := setupTestDB(t)
	_, restaurant := seedOwner(t, db, "auth|prod8", "Marco")
	item := models.FoodItem{ID: "1_103", Name: "Bibingka", Price: 45, RestaurantID: restaurant.ID}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to seed food item: %v", err)
	}
	storage := services.NewMockStorageService("bucket")
	router := productRouter(db, "auth|prod8", storage)

	body, contentType := multipartImage(t, "bibingka.png", []byte("png-bytes"))
	req := httptest.NewRequest("POST", "/owner/products/1_103/image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.FoodItem
	db.First(&stored, "id = ?", "1_103")
	assert.Equal(t, "products/mock_bibingka.png", stored.ImageRef, "Stored reference is the storage key, not a URL")
}

func TestUploadProductImageRejectsBadExtension(t *testing.T) {
	db := setupTestDB(t)
	_, restaurant := seedOwner(t, db, "auth|prod9", "Marco")
	item := models.FoodItem{ID: "1_104", Name: "Bibingka", Price: 45, RestaurantID: restaurant.ID}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to seed food item: %v", err)
	}
	router := productRouter(db, "auth|prod9", services.NewMockStorageService("bucket"))

	body, contentType := multipartImage(t, "menu.pdf", []byte("%PDF"))
	req := httptest.NewRequest("POST", "/owner/products/1_104/image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FILE_FORMAT", errorCode(t, w))
}
