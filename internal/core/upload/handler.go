package upload

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// Handler handles file upload HTTP requests
type Handler struct {
	uploadService *Service
}

// NewHandler creates a new upload handler
func NewHandler(uploadService *Service) *Handler {
	return &Handler{
		uploadService: uploadService,
	}
}

// UploadProductImage godoc
// @Summary Upload product image
// @Description Upload an image for a catalog product (requires authentication)
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param file formData file true "Product image to upload"
// @Param product_id formData string true "Product ID (used as public_id)"
// @Success 200 {object} UploadResult
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /upload/product [post]
func (h *Handler) UploadProductImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	businessID, ok := c.Locals("businessID").(string)
	if !ok || businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized: business_id not found",
		})
	}

	productID := c.FormValue("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "product_id is required",
		})
	}

	result, err := h.uploadService.UploadProductImage(businessID, productID, fileHeader)
	if err != nil {
		log.Printf("❌ Failed to upload product image: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("✅ Product image uploaded: %s (%s)", result.FileName, result.URL)

	return c.JSON(result)
}

// UploadLocationPhoto godoc
// @Summary Upload location photo
// @Description Upload the facade photo for a customer's saved location (requires authentication)
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param file formData file true "Location photo to upload"
// @Param customer_id formData string true "Customer ID"
// @Success 200 {object} UploadResult
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /upload/location [post]
func (h *Handler) UploadLocationPhoto(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	customerID := c.FormValue("customer_id")
	if customerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "customer_id is required",
		})
	}

	result, err := h.uploadService.UploadLocationPhoto(customerID, fileHeader)
	if err != nil {
		log.Printf("❌ Failed to upload location photo: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("✅ Location photo uploaded: %s (%s)", result.FileName, result.URL)

	return c.JSON(result)
}

// UploadBusinessImage godoc
// @Summary Upload business logo or cover
// @Description Upload the store profile logo or cover image (requires authentication)
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param file formData file true "Image to upload"
// @Param kind formData string true "Image kind" Enums(logo, cover)
// @Success 200 {object} UploadResult
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /upload/business [post]
func (h *Handler) UploadBusinessImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	businessID, ok := c.Locals("businessID").(string)
	if !ok || businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized: business_id not found",
		})
	}

	kind := c.FormValue("kind")
	if kind != "logo" && kind != "cover" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "kind must be 'logo' or 'cover'",
		})
	}

	result, err := h.uploadService.UploadBusinessImage(businessID, kind, fileHeader)
	if err != nil {
		log.Printf("❌ Failed to upload business image: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("✅ Business %s uploaded: %s (%s)", kind, result.FileName, result.URL)

	return c.JSON(result)
}

// DeleteFile godoc
// @Summary Delete a file
// @Description Delete a file from storage (requires authentication)
// @Tags Upload
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param public_id query string true "Public ID of the file to delete"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /upload [delete]
func (h *Handler) DeleteFile(c *fiber.Ctx) error {
	publicID := c.Query("public_id")
	if publicID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "public_id is required",
		})
	}

	if err := h.uploadService.Delete(publicID); err != nil {
		log.Printf("❌ Failed to delete file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("✅ File deleted successfully: %s", publicID)

	return c.JSON(fiber.Map{
		"message":   "File deleted successfully",
		"public_id": publicID,
	})
}

// GetProviderInfo godoc
// @Summary Get upload provider info
// @Description Get information about the current upload provider
// @Tags Upload
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /upload/info [get]
func (h *Handler) GetProviderInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"provider": h.uploadService.GetProviderName(),
	})
}
