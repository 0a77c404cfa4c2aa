package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/affistack/affiliate_backend/models"
	"github.com/affistack/affiliate_backend/repositories"
)

// ProductController is thin CRUD over the commissionable product catalog
type ProductController struct {
	products *repositories.ProductRepository
}

func NewProductController(products *repositories.ProductRepository) *ProductController {
	return &ProductController{products: products}
}

// CreateProduct registers a new commissionable product
func (pc *ProductController) CreateProduct(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	var req models.ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	status := models.ProductStatusActive
	if req.Status != "" {
		status = models.ProductStatus(req.Status)
	}

	product := &models.Product{
		Name:                 req.Name,
		CommissionType:       models.CommissionType(req.CommissionType),
		CommissionRate:       req.CommissionRate,
		CommissionFlatAmount: req.CommissionFlatAmount,
		MinInitialSpend:      req.MinInitialSpend,
		Status:               status,
	}
	if err := pc.products.Create(ctx, product); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Product created successfully",
		Data:    product,
	})
}

// GetProduct returns one product
func (pc *ProductController) GetProduct(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	productID, err := parseObjectIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	product, err := pc.products.FindByID(ctx, productID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Product retrieved",
		Data:    product,
	})
}

// ListProducts returns all products
func (pc *ProductController) ListProducts(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	products, err := pc.products.List(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Products retrieved",
		Data:    products,
	})
}

// UpdateProduct replaces the commission definition of a product. Commissions
// already calculated keep the rate they were created with.
func (pc *ProductController) UpdateProduct(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	productID, err := parseObjectIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req models.ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if err := pc.products.Update(ctx, productID, &req); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Product updated successfully",
	})
}
