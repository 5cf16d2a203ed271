package handlers

import (
	"net/http"

	"metro/models"
	"metro/services/assignment"
	"metro/services/partner"
	"metro/services/payout"
	"metro/services/review"
	"metro/services/storage"

	"github.com/gin-gonic/gin"
)

// PartnerHandler serves /api/pro.
type PartnerHandler struct {
	Assignment assignment.AssignmentService
	Payouts    payout.PayoutService
	Partners   partner.PartnerService
	Reviews    review.ReviewService
	Storage    storage.StorageService
}

func NewPartnerHandler(
	assign assignment.AssignmentService,
	payouts payout.PayoutService,
	partners partner.PartnerService,
	reviews review.ReviewService,
	store storage.StorageService,
) *PartnerHandler {
	return &PartnerHandler{Assignment: assign, Payouts: payouts, Partners: partners, Reviews: reviews, Storage: store}
}

func (h *PartnerHandler) ListJobRequests(c *gin.Context) {
	reqs, err := h.Assignment.ListJobRequests(c.Request.Context(), actorOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *PartnerHandler) ListMyJobs(c *gin.Context) {
	jobs, err := h.Assignment.ListMyJobs(c.Request.Context(), actorOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *PartnerHandler) Accept(c *gin.Context) {
	b, err := h.Assignment.Accept(c.Request.Context(), actorOf(c), c.Param("id"), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Assignment.PartnerView(b, actorOf(c).ID))
}

func (h *PartnerHandler) RejectRequest(c *gin.Context) {
	b, err := h.Assignment.RejectRequest(c.Request.Context(), actorOf(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": b.ID, "status": b.Status})
}

func (h *PartnerHandler) Confirm(c *gin.Context) {
	b, err := h.Assignment.Confirm(c.Request.Context(), actorOf(c), c.Param("id"), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Assignment.PartnerView(b, actorOf(c).ID))
}

func (h *PartnerHandler) Decline(c *gin.Context) {
	var req models.DeclineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Assignment.Decline(c.Request.Context(), actorOf(c), c.Param("id"), c.Param("itemId"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Assignment.PartnerView(b, actorOf(c).ID))
}

func (h *PartnerHandler) StartJob(c *gin.Context) {
	var req models.StartJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Assignment.StartJob(c.Request.Context(), actorOf(c), c.Param("id"), c.Param("itemId"), req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Assignment.PartnerView(b, actorOf(c).ID))
}

func (h *PartnerHandler) CompleteJob(c *gin.Context) {
	b, err := h.Assignment.CompleteJob(c.Request.Context(), actorOf(c), c.Param("id"), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Assignment.PartnerView(b, actorOf(c).ID))
}

func (h *PartnerHandler) Earnings(c *gin.Context) {
	sum, err := h.Payouts.EarningsSummary(c.Request.Context(), actorOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *PartnerHandler) GetBankDetails(c *gin.Context) {
	d, err := h.Partners.GetBankDetails(c.Request.Context(), actorOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *PartnerHandler) UpdateBankDetails(c *gin.Context) {
	var req models.BankDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := h.Partners.UpdateBankDetails(c.Request.Context(), actorOf(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *PartnerHandler) GetAvailability(c *gin.Context) {
	a, err := h.Partners.GetAvailability(c.Request.Context(), actorOf(c), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *PartnerHandler) SetAvailability(c *gin.Context) {
	var req models.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a, err := h.Partners.SetAvailability(c.Request.Context(), actorOf(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *PartnerHandler) GetProfile(c *gin.Context) {
	u, err := h.Partners.GetProfile(c.Request.Context(), actorOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *PartnerHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Partners.UpdateProfile(c.Request.Context(), actorOf(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *PartnerHandler) ReviewSummary(c *gin.Context) {
	sum, err := h.Reviews.Summary(c.Request.Context(), actorOf(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *PartnerHandler) UploadURL(c *gin.Context) {
	uploadURL(c, h.Storage)
}
