package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/avetrov/go-shop-api/internal/domains/catalog/domain"
	catalogports "github.com/avetrov/go-shop-api/internal/domains/catalog/ports"
)

// ProductsHandler serves catalog routes.
type ProductsHandler struct {
	catalog catalogports.Service
}

func NewProductsHandler(catalog catalogports.Service) *ProductsHandler {
	return &ProductsHandler{catalog: catalog}
}

type createProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	InStock     int             `json:"inStock" binding:"gte=0"`
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingProblem(c, err)
		return
	}
	product, err := catalogdomain.NewProduct(req.Name, req.Description, req.Price, req.Category, req.InStock)
	if err != nil {
		respondError(c, err)
		return
	}
	created, err := h.catalog.Create(c.Request.Context(), product)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(created))
}

type listProductsRequest struct {
	Name        string `form:"name"`
	Category    string `form:"category"`
	MinStock    *int   `form:"minStock" binding:"omitempty,gte=0"`
	InStockOnly bool   `form:"inStockOnly"`
	SortBy      string `form:"sortBy"`
	Order       string `form:"order"`
	Page        int    `form:"page" binding:"omitempty,gte=1"`
	Limit       int    `form:"limit" binding:"omitempty,gte=1"`
}

func (h *ProductsHandler) List(c *gin.Context) {
	var req listProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingProblem(c, err)
		return
	}
	page, err := h.catalog.List(c.Request.Context(), catalogdomain.Query{
		Name:        req.Name,
		Category:    req.Category,
		MinStock:    req.MinStock,
		InStockOnly: req.InStockOnly,
		SortBy:      catalogdomain.SortBy(req.SortBy),
		Order:       catalogdomain.SortOrder(req.Order),
		Page:        req.Page,
		Limit:       req.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductPageResponse(page))
}

func (h *ProductsHandler) Get(c *gin.Context) {
	product, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

type updateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	InStock     *int             `json:"inStock" binding:"omitempty,gte=0"`
}

func (h *ProductsHandler) Update(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingProblem(c, err)
		return
	}
	product, err := h.catalog.Update(c.Request.Context(), c.Param("id"), catalogports.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		InStock:     req.InStock,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type productResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	InStock     int             `json:"inStock"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func toProductResponse(p *catalogdomain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type productPageResponse struct {
	Products   []productResponse `json:"products"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

func toProductPageResponse(page *catalogports.Page) productPageResponse {
	products := make([]productResponse, 0, len(page.Products))
	for _, p := range page.Products {
		products = append(products, toProductResponse(p))
	}
	return productPageResponse{
		Products:   products,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
}
