package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"troublemaker_backend/internals/features/assessment/categories/model"
	helper "troublemaker_backend/internals/helpers"
)

type CategoryController struct {
	DB *gorm.DB
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db}
}

// =======================
// List (alphabetical)
// =======================
func (ctrl *CategoryController) ListCategories(c *fiber.Ctx) error {
	var categories []model.CategoryModel
	if err := ctrl.DB.Order("name ASC").Find(&categories).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve categories")
	}
	return helper.JsonList(c, "", categories, nil)
}

// =======================
// Create
// =======================
func (ctrl *CategoryController) CreateCategory(c *fiber.Ctx) error {
	var body struct {
		Name string `json:"nom"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Le nom de la catégorie est requis.")
	}

	var existing model.CategoryModel
	err := ctrl.DB.First(&existing, "name = ?", body.Name).Error
	if err == nil {
		return helper.JsonError(c, fiber.StatusConflict, "Cette catégorie existe déjà.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check category")
	}

	category := model.CategoryModel{Name: body.Name}
	if err := ctrl.DB.Create(&category).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create category")
	}
	return helper.JsonCreated(c, "Catégorie créée", category)
}
