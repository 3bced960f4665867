package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"repairdesk/internal/domain"
	"repairdesk/internal/repository"
)

// Product handlers
type productReq struct {
	Brand          string          `json:"brand"`
	Model          string          `json:"model"`
	Part           string          `json:"part"`
	Color          string          `json:"color"`
	Stock          int64           `json:"stock"`
	RetailPrice    decimal.Decimal `json:"retailPrice" swaggertype:"number"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice" swaggertype:"number"`
	PartPrice      decimal.Decimal `json:"partPrice" swaggertype:"number"`
}

func (r productReq) toDomain(id int64) domain.Product {
	return domain.Product{
		ID:             id,
		Brand:          r.Brand,
		Model:          r.Model,
		Part:           r.Part,
		Color:          r.Color,
		Stock:          r.Stock,
		RetailPrice:    r.RetailPrice,
		WholesalePrice: r.WholesalePrice,
		PartPrice:      r.PartPrice,
	}
}

// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param input body productReq true "Product"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badJSON(c, err)
		return
	}
	p, err := s.svc.Products.Create(c, req.toDomain(0))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	p, err := s.svc.Products.GetByID(c, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Replace product
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param input body productReq true "Product"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badJSON(c, err)
		return
	}
	p, err := s.svc.Products.Update(c, req.toDomain(id))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Delete product
// @Tags products
// @Param id path int true "Product ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.svc.Products.Delete(c, id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List products
// @Tags products
// @Produce json
// @Param q query string false "Matches any field, case-insensitive"
// @Param brand query string false "Exact brand"
// @Success 200 {array} domain.Product
// @Security BearerAuth
// @Router /api/v1/products [get]
func (s *Server) listProducts(c *gin.Context) {
	list, err := s.svc.Products.List(c, repository.ProductFilter{
		Query: c.Query("q"),
		Brand: c.Query("brand"),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Unlock device handlers
type deviceReq struct {
	Brand           string   `json:"brand"`
	Model           string   `json:"model"`
	Version         string   `json:"version"`
	Security        string   `json:"security"`
	Baseband        string   `json:"baseband"`
	GoogleLock      bool     `json:"googleLock"`
	CanUnlock       bool     `json:"canUnlock"`
	VersionOptions  []string `json:"versionOptions"`
	SecurityOptions []string `json:"securityOptions"`
	BasebandOptions []string `json:"basebandOptions"`
}

func (r deviceReq) toDomain(id int64) domain.UnlockDevice {
	return domain.UnlockDevice{
		ID:              id,
		Brand:           r.Brand,
		Model:           r.Model,
		Version:         r.Version,
		Security:        r.Security,
		Baseband:        r.Baseband,
		GoogleLock:      r.GoogleLock,
		CanUnlock:       r.CanUnlock,
		VersionOptions:  r.VersionOptions,
		SecurityOptions: r.SecurityOptions,
		BasebandOptions: r.BasebandOptions,
	}
}

// @Summary Create unlock device profile
// @Description Empty version, security or baseband selects the first option of its list.
// @Tags unlock-devices
// @Accept json
// @Produce json
// @Param input body deviceReq true "Device"
// @Success 201 {object} domain.UnlockDevice
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/unlock-devices [post]
func (s *Server) createDevice(c *gin.Context) {
	var req deviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badJSON(c, err)
		return
	}
	d, err := s.svc.Devices.Create(c, req.toDomain(0))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// @Summary Get unlock device profile
// @Tags unlock-devices
// @Produce json
// @Param id path int true "Device ID"
// @Success 200 {object} domain.UnlockDevice
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/unlock-devices/{id} [get]
func (s *Server) getDevice(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	d, err := s.svc.Devices.GetByID(c, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary Replace unlock device profile
// @Tags unlock-devices
// @Accept json
// @Produce json
// @Param id path int true "Device ID"
// @Param input body deviceReq true "Device"
// @Success 200 {object} domain.UnlockDevice
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/unlock-devices/{id} [put]
func (s *Server) updateDevice(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req deviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badJSON(c, err)
		return
	}
	d, err := s.svc.Devices.Update(c, req.toDomain(id))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary List unlock device profiles
// @Tags unlock-devices
// @Produce json
// @Param q query string false "Matches any field, case-insensitive"
// @Param brand query string false "Exact brand"
// @Success 200 {array} domain.UnlockDevice
// @Security BearerAuth
// @Router /api/v1/unlock-devices [get]
func (s *Server) listDevices(c *gin.Context) {
	list, err := s.svc.Devices.List(c, repository.DeviceFilter{
		Query: c.Query("q"),
		Brand: c.Query("brand"),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Supported brands
// @Tags unlock-devices
// @Produce json
// @Success 200 {array} string
// @Security BearerAuth
// @Router /api/v1/brands [get]
func (s *Server) listBrands(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Devices.Brands())
}

// Quote handlers
type quoteReq struct {
	Product        string          `json:"product"`
	Price          decimal.Decimal `json:"price" swaggertype:"number"`
	RetailPrice    decimal.Decimal `json:"retailPrice" swaggertype:"number"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice" swaggertype:"number"`
	UnitPrice      decimal.Decimal `json:"unitPrice" swaggertype:"number"`
	Shipping       decimal.Decimal `json:"shipping" swaggertype:"number"`
	Link           string          `json:"link"`
}

func (r quoteReq) toDomain(id int64) domain.Quote {
	return domain.Quote{
		ID:             id,
		Product:        r.Product,
		Price:          r.Price,
		RetailPrice:    r.RetailPrice,
		WholesalePrice: r.WholesalePrice,
		UnitPrice:      r.UnitPrice,
		Shipping:       r.Shipping,
		Link:           r.Link,
	}
}

// @Summary Create supplier quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param input body quoteReq true "Quote"
// @Success 201 {object} domain.Quote
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/quotes [post]
func (s *Server) createQuote(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badJSON(c, err)
		return
	}
	q, err := s.svc.Quotes.Create(c, req.toDomain(0))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// @Summary Get supplier quote
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} domain.Quote
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/quotes/{id} [get]
func (s *Server) getQuote(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	q, err := s.svc.Quotes.GetByID(c, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// @Summary Replace supplier quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param input body quoteReq true "Quote"
// @Success 200 {object} domain.Quote
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/quotes/{id} [put]
func (s *Server) updateQuote(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badJSON(c, err)
		return
	}
	q, err := s.svc.Quotes.Update(c, req.toDomain(id))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// @Summary List supplier quotes
// @Tags quotes
// @Produce json
// @Param q query string false "Matches any field, case-insensitive"
// @Success 200 {array} domain.Quote
// @Security BearerAuth
// @Router /api/v1/quotes [get]
func (s *Server) listQuotes(c *gin.Context) {
	list, err := s.svc.Quotes.List(c, repository.QuoteFilter{Query: c.Query("q")})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
