package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"caixa-be/internal/order"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Checkout(c *gin.Context) {
	var in order.CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	sale, err := h.Orders.Checkout(c.Request.Context(), currentUser(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *Handler) GetOrder(c *gin.Context) {
	sale, err := h.Orders.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *Handler) ListOrders(c *gin.Context) {
	filter, err := h.listFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}

	sales, err := h.Orders.List(c.Request.Context(), currentUser(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *Handler) listFilter(c *gin.Context) (order.ListFilter, error) {
	var f order.ListFilter

	if s := c.Query("status"); s != "" {
		status := order.Status(s)
		f.Status = &status
	}

	from, err := parseDate(c.Query("from"), h.Location, false)
	if err != nil {
		return f, err
	}
	to, err := parseDate(c.Query("to"), h.Location, true)
	if err != nil {
		return f, err
	}
	f.From, f.To = from, to

	if f.Limit, err = queryInt(c, "limit"); err != nil {
		return f, err
	}
	if f.Page, err = queryInt(c, "page"); err != nil {
		return f, err
	}
	return f, nil
}

type editItemsRequest struct {
	Items []order.CartItem `json:"items"`
}

func (h *Handler) EditOrderItems(c *gin.Context) {
	var req editItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	sale, err := h.Orders.EditItems(c.Request.Context(), currentUser(c), c.Param("id"), req.Items)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *Handler) CompleteOrder(c *gin.Context) {
	sale, err := h.Orders.Complete(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	sale, err := h.Orders.Cancel(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *Handler) NextOrderNumber(c *gin.Context) {
	number, err := h.Numbers.Next(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"orderNumber": number})
}

func (h *Handler) CurrentOrderNumber(c *gin.Context) {
	number, err := h.Numbers.Current(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderNumber": number})
}

// parseDate reads a query date as YYYY-MM-DD in loc, or as RFC 3339. With
// endOfDay a plain date is moved to the last instant of that day.
func parseDate(s string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		if endOfDay {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", errBadRequest, s)
	}
	return &t, nil
}

func queryInt(c *gin.Context, name string) (int, error) {
	s := c.Query(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid %s", errBadRequest, name)
	}
	return n, nil
}
