package handlers

import (
	"net/http"
	"strconv"

	"metro/models"
	"metro/services/assignment"
	"metro/services/booking"
	"metro/services/payout"
	"metro/services/review"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves /api/admin.
type AdminHandler struct {
	Bookings   booking.BookingService
	Assignment assignment.AssignmentService
	Payouts    payout.PayoutService
	Reviews    review.ReviewService
}

func NewAdminHandler(bookings booking.BookingService, assign assignment.AssignmentService, payouts payout.PayoutService, reviews review.ReviewService) *AdminHandler {
	return &AdminHandler{Bookings: bookings, Assignment: assign, Payouts: payouts, Reviews: reviews}
}

// ListBookings supports ?status=&search=&from=&to=&limit=.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	filter := models.BookingFilter{
		Status:   models.BookingStatus(c.Query("status")),
		Search:   c.Query("search"),
		DateFrom: c.Query("from"),
		DateTo:   c.Query("to"),
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, strconv.ErrSyntax)
			return
		}
		filter.Limit = n
	}
	list, err := h.Bookings.SearchBookings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) GetBooking(c *gin.Context) {
	b, err := h.Bookings.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *AdminHandler) Candidates(c *gin.Context) {
	matchPincode := c.Query("matchPincode") == "true"
	list, err := h.Assignment.Candidates(c.Request.Context(), c.Param("id"), c.Param("itemId"), matchPincode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) Broadcast(c *gin.Context) {
	var req models.BroadcastRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	b, err := h.Assignment.Broadcast(c.Request.Context(), actorOf(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *AdminHandler) AssignPartner(c *gin.Context) {
	var req models.AssignPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Assignment.DirectAssign(c.Request.Context(), actorOf(c), c.Param("id"), c.Param("itemId"), req.PartnerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *AdminHandler) Payout(c *gin.Context) {
	b, err := h.Payouts.Payout(c.Request.Context(), actorOf(c), c.Param("id"), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *AdminHandler) Cancel(c *gin.Context) {
	b, err := h.Bookings.Cancel(c.Request.Context(), actorOf(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *AdminHandler) PartnerDetails(c *gin.Context) {
	d, err := h.Payouts.PartnerDetails(c.Request.Context(), c.Param("partnerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// ListReviews supports ?rating=&partnerId=&customerId=. A rating of "All" is ignored.
func (h *AdminHandler) ListReviews(c *gin.Context) {
	filter := models.ReviewFilter{
		PartnerID:  c.Query("partnerId"),
		CustomerID: c.Query("customerId"),
	}
	if raw := c.Query("rating"); raw != "" && raw != "All" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.Rating = n
	}
	list, err := h.Reviews.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) UpdateReviewStatus(c *gin.Context) {
	var req models.UpdateReviewStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	r, err := h.Reviews.SetApproval(c.Request.Context(), actorOf(c), c.Param("id"), *req.IsApproved)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *AdminHandler) DeleteReview(c *gin.Context) {
	if err := h.Reviews.Delete(c.Request.Context(), actorOf(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
