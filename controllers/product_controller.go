package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Gelou69/Food-OrderomgHub/models"
	"github.com/Gelou69/Food-OrderomgHub/services"
	"github.com/Gelou69/Food-OrderomgHub/utils"
)

// ProductController serves the owner's menu: food item CRUD and image upload
type ProductController struct {
	db      *gorm.DB
	storage services.StorageInterface
}

// NewProductController creates a product controller
func NewProductController(db *gorm.DB, storage services.StorageInterface) *ProductController {
	return &ProductController{db: db, storage: storage}
}

// CreateProductRequest represents the request body for creating a food item
type CreateProductRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
	Description string  `json:"description"`
	ImageRef    string  `json:"image_ref"`
}

// UpdateProductRequest represents the request body for editing a food item
type UpdateProductRequest struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Description *string  `json:"description"`
	ImageRef    *string  `json:"image_ref"`
}

// ListProducts handles GET /api/v1/owner/products
func (pc *ProductController) ListProducts(c *gin.Context) {
	_, restaurant, ok := ownerRestaurant(c, pc.db)
	if !ok {
		return
	}

	var items []models.FoodItem
	if err := pc.db.Where("restaurant_id = ?", restaurant.ID).Order("created_at DESC").Find(&items).Error; err != nil {
		log.Printf("Failed to list products for restaurant %d: %v", restaurant.ID, err)
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}

// CreateProduct handles POST /api/v1/owner/products
func (pc *ProductController) CreateProduct(c *gin.Context) {
	_, restaurant, ok := ownerRestaurant(c, pc.db)
	if !ok {
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	// Items created through this API get the client-generated identifier;
	// an identifier supplied by the caller is kept as-is.
	id := req.ID
	if id == "" {
		id = models.NewFoodItemID(restaurant.ID, time.Now())
	}

	item := models.FoodItem{
		ID:           id,
		Name:         req.Name,
		Price:        req.Price,
		Stock:        req.Stock,
		Description:  req.Description,
		ImageRef:     req.ImageRef,
		RestaurantID: restaurant.ID,
	}
	if err := pc.db.Create(&item).Error; err != nil {
		log.Printf("Failed to create product for restaurant %d: %v", restaurant.ID, err)
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    item,
	})
}

// UpdateProduct handles PUT /api/v1/owner/products/:id
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	_, restaurant, ok := ownerRestaurant(c, pc.db)
	if !ok {
		return
	}

	item, ok := pc.findOwnProduct(c, restaurant.ID)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Price must be greater than zero")
			return
		}
		item.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Stock cannot be negative")
			return
		}
		item.Stock = *req.Stock
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.ImageRef != nil {
		item.ImageRef = *req.ImageRef
	}

	if err := pc.db.Save(&item).Error; err != nil {
		log.Printf("Failed to update product %s: %v", item.ID, err)
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// DeleteProduct handles DELETE /api/v1/owner/products/:id
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	_, restaurant, ok := ownerRestaurant(c, pc.db)
	if !ok {
		return
	}

	item, ok := pc.findOwnProduct(c, restaurant.ID)
	if !ok {
		return
	}

	if err := pc.db.Delete(&item).Error; err != nil {
		log.Printf("Failed to delete product %s: %v", item.ID, err)
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted",
	})
}

// UploadProductImage handles POST /api/v1/owner/products/:id/image - uploads
// an image to storage and stores the key as the item's image reference
func (pc *ProductController) UploadProductImage(c *gin.Context) {
	_, restaurant, ok := ownerRestaurant(c, pc.db)
	if !ok {
		return
	}

	item, ok := pc.findOwnProduct(c, restaurant.ID)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Image file is required")
		return
	}

	if err := utils.ValidateImageFile(fileHeader); err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			errorResponse(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
			return
		}
		errorResponse(c, http.StatusBadRequest, "INVALID_FILE", err.Error())
		return
	}

	key, err := pc.storage.UploadFile(fileHeader)
	if err != nil {
		log.Printf("Failed to upload image for product %s: %v", item.ID, err)
		errorResponse(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to upload image")
		return
	}

	item.ImageRef = key
	if err := pc.db.Save(&item).Error; err != nil {
		log.Printf("Failed to save image reference for product %s: %v", item.ID, err)
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save image reference")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// findOwnProduct loads a food item by path parameter and verifies it belongs
// to the caller's restaurant. On failure it writes the error response and
// returns false.
func (pc *ProductController) findOwnProduct(c *gin.Context, restaurantID uint) (models.FoodItem, bool) {
	id := c.Param("id")
	if id == "" {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Product ID is required")
		return models.FoodItem{}, false
	}

	var item models.FoodItem
	if err := pc.db.Where("id = ?", id).First(&item).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return models.FoodItem{}, false
	}

	if item.RestaurantID != restaurantID {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "Product belongs to another restaurant")
		return models.FoodItem{}, false
	}

	return item, true
}
