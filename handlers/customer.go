package handlers

import (
	"fmt"
	"net/http"

	"metro/apperrors"
	"metro/models"
	"metro/services/booking"
	"metro/services/invoice"
	"metro/services/review"
	"metro/services/storage"

	"github.com/gin-gonic/gin"
)

// CustomerHandler serves /api/customer.
type CustomerHandler struct {
	Bookings booking.BookingService
	Reviews  review.ReviewService
	Invoices *invoice.Renderer
	Storage  storage.StorageService
}

func NewCustomerHandler(bookings booking.BookingService, reviews review.ReviewService, invoices *invoice.Renderer, store storage.StorageService) *CustomerHandler {
	return &CustomerHandler{Bookings: bookings, Reviews: reviews, Invoices: invoices, Storage: store}
}

func (h *CustomerHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Bookings.CreateBooking(c.Request.Context(), actorOf(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *CustomerHandler) ListMyBookings(c *gin.Context) {
	list, err := h.Bookings.ListForCustomer(c.Request.Context(), actorOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CustomerHandler) GetMyBooking(c *gin.Context) {
	b, err := h.Bookings.GetForCustomer(c.Request.Context(), actorOf(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *CustomerHandler) Dashboard(c *gin.Context) {
	d, err := h.Bookings.Dashboard(c.Request.Context(), actorOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *CustomerHandler) PayRemaining(c *gin.Context) {
	var req models.PayRemainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Bookings.PayRemaining(c.Request.Context(), actorOf(c), c.Param("id"), req.PaymentDetails)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *CustomerHandler) Cancel(c *gin.Context) {
	b, err := h.Bookings.Cancel(c.Request.Context(), actorOf(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *CustomerHandler) Reschedule(c *gin.Context) {
	var req models.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Bookings.Reschedule(c.Request.Context(), actorOf(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *CustomerHandler) SubmitReview(c *gin.Context) {
	var req models.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	r, err := h.Reviews.Submit(c.Request.Context(), actorOf(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// DownloadInvoice streams the booking invoice as a PDF.
func (h *CustomerHandler) DownloadInvoice(c *gin.Context) {
	b, err := h.Bookings.GetForCustomer(c.Request.Context(), actorOf(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	pdf, filename, err := h.Invoices.Render(b)
	if err != nil {
		respondError(c, apperrors.Internal("failed to render invoice", err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *CustomerHandler) UploadURL(c *gin.Context) {
	uploadURL(c, h.Storage)
}

// uploadURL is shared by the customer and partner surfaces.
func uploadURL(c *gin.Context, store storage.StorageService) {
	if store == nil {
		respondError(c, apperrors.External("file storage is not configured", nil))
		return
	}
	var req models.UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := store.UploadURL(c.Request.Context(), actorOf(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
