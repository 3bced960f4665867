package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairdesk/internal/auth"
	"repairdesk/internal/domain"
	"repairdesk/internal/repository"
	"repairdesk/internal/service"
)

func orderFilter(c *gin.Context) repository.OrderFilter {
	return repository.OrderFilter{Number: c.Query("q"), Date: c.Query("date")}
}

// @Summary Create order
// @Description Copies the referenced product, unlock device or quote into the order. userName defaults to the authenticated user.
// @Tags orders
// @Accept json
// @Produce json
// @Param input body service.CreateOrderInput true "Order"
// @Success 201 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/orders [post]
func (s *Server) createOrder(c *gin.Context) {
	var req service.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badJSON(c, err)
		return
	}
	if req.UserName == "" {
		req.UserName = auth.User(c)
	}
	o, err := s.svc.Orders.Create(c, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// @Summary List orders
// @Tags orders
// @Produce json
// @Param q query string false "Order number contains, case-insensitive"
// @Param date query string false "ISO timestamp contains, e.g. 2024-05-01"
// @Success 200 {array} domain.Order
// @Security BearerAuth
// @Router /api/v1/orders [get]
func (s *Server) listOrders(c *gin.Context) {
	list, err := s.svc.Orders.List(c, orderFilter(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Order board
// @Description Filtered orders split into new, inProgress, completed and canceled columns.
// @Tags orders
// @Produce json
// @Param q query string false "Order number contains, case-insensitive"
// @Param date query string false "ISO timestamp contains"
// @Success 200 {object} domain.OrderBoard
// @Security BearerAuth
// @Router /api/v1/orders/board [get]
func (s *Server) orderBoard(c *gin.Context) {
	board, err := s.svc.Orders.Board(c, orderFilter(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	o, err := s.svc.Orders.GetByID(c, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// @Summary Edit order details
// @Description Only the fields present in the body change.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body service.OrderPatch true "Patch"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/orders/{id} [patch]
func (s *Server) patchOrder(c *gin.Context) {
	var req service.OrderPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badJSON(c, err)
		return
	}
	o, err := s.svc.Orders.Update(c, c.Param("id"), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type statusReq struct {
	Status domain.OrderStatus `json:"status" example:"in-progress"`
}

// @Summary Change order status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body statusReq true "new, in-progress or completed"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/orders/{id}/status [put]
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badJSON(c, err)
		return
	}
	o, err := s.svc.Orders.UpdateStatus(c, c.Param("id"), req.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type commentReq struct {
	Comment string `json:"comment" maxLength:"250"`
}

// @Summary Add comment
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body commentReq true "Comment"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/orders/{id}/comments [post]
func (s *Server) addOrderComment(c *gin.Context) {
	var req commentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badJSON(c, err)
		return
	}
	o, err := s.svc.Orders.AddComment(c, c.Param("id"), req.Comment)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type cancelReq struct {
	Reason string `json:"reason"`
}

// @Summary Cancel order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body cancelReq true "Reason"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/orders/{id}/cancel [post]
func (s *Server) cancelOrder(c *gin.Context) {
	var req cancelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badJSON(c, err)
		return
	}
	o, err := s.svc.Orders.Cancel(c, c.Param("id"), req.Reason)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
