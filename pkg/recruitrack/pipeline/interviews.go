package pipeline

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/apperrors"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/models"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/tenancy"
	"gorm.io/gorm"
)

// ScheduleInterviewRequest represents the request to schedule an interview
type ScheduleInterviewRequest struct {
	ApplicationID   uint      `json:"application_id" binding:"required"`
	Type            string    `json:"type" binding:"required"`
	ScheduledDate   time.Time `json:"scheduled_date" binding:"required"`
	DurationMinutes uint      `json:"duration_minutes"`
}

// CompleteInterviewRequest represents the request to record interview results
type CompleteInterviewRequest struct {
	Feedback string `json:"feedback"`
	Rating   uint   `json:"rating" binding:"omitempty,min=1,max=5"`
}

// InterviewResponse represents an interview in API responses
type InterviewResponse struct {
	ID              uint   `json:"id"`
	ApplicationID   uint   `json:"application_id"`
	Type            string `json:"type"`
	ScheduledDate   string `json:"scheduled_date"`
	DurationMinutes uint   `json:"duration_minutes"`
	Status          string `json:"status"`
	Feedback        string `json:"feedback,omitempty"`
	Rating          uint   `json:"rating,omitempty"`
	CreatedAt       string `json:"created_at"`
}

func interviewToResponse(iv models.Interview) InterviewResponse {
	return InterviewResponse{
		ID:              iv.ID,
		ApplicationID:   iv.ApplicationID,
		Type:            iv.Type,
		ScheduledDate:   iv.ScheduledDate.Format("2006-01-02T15:04:05Z"),
		DurationMinutes: iv.DurationMinutes,
		Status:          string(iv.Status),
		Feedback:        iv.Feedback,
		Rating:          iv.Rating,
		CreatedAt:       iv.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Schedule creates an interview for an eligible application. The
// eligibility check runs inside the same transaction as the insert so
// the application cannot be reverted between check and insert.
func Schedule(db *gorm.DB, orgID uint, req ScheduleInterviewRequest) (models.Interview, error) {
	var interview models.Interview
	err := db.Transaction(func(tx *gorm.DB) error {
		var app models.Application
		if err := tenancy.Scoped(tx, orgID).First(&app, req.ApplicationID).Error; err != nil {
			return apperrors.Translate(err)
		}

		if app.SubmittedToClientDate == nil {
			return fmt.Errorf("application has not been submitted to the client: %w", apperrors.ErrNotEligible)
		}

		interview = models.Interview{
			OrganizationID:  orgID,
			ApplicationID:   app.ID,
			Type:            req.Type,
			ScheduledDate:   req.ScheduledDate,
			DurationMinutes: req.DurationMinutes,
			Status:          models.InterviewScheduled,
		}
		return tx.Create(&interview).Error
	})
	if err != nil {
		return models.Interview{}, err
	}
	return interview, nil
}

// Complete records feedback and flips the interview to completed. The
// application's status is left to explicit caller action.
func Complete(db *gorm.DB, orgID, interviewID uint, req CompleteInterviewRequest) (models.Interview, error) {
	var interview models.Interview
	if err := tenancy.Scoped(db, orgID).First(&interview, interviewID).Error; err != nil {
		return models.Interview{}, apperrors.Translate(err)
	}

	if interview.Status != models.InterviewScheduled {
		return models.Interview{}, fmt.Errorf("interview is %s: %w", interview.Status, apperrors.ErrNotEligible)
	}

	interview.Status = models.InterviewCompleted
	interview.Feedback = req.Feedback
	interview.Rating = req.Rating
	if err := db.Save(&interview).Error; err != nil {
		return models.Interview{}, apperrors.Translate(err)
	}
	return interview, nil
}

// ScheduleInterview schedules an interview for an application
// @Summary Schedule an interview
// @Description Create an interview; fails unless the application has been submitted to the client
// @Tags interviews
// @Accept json
// @Produce json
// @Param request body ScheduleInterviewRequest true "Interview details"
// @Success 201 {object} InterviewResponse
// @Failure 404 {object} map[string]string "Application not found"
// @Failure 422 {object} map[string]string "Application not eligible"
// @Security BearerAuth
// @Router /interviews [post]
func (h *Handler) ScheduleInterview(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	var req ScheduleInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	interview, err := Schedule(h.db, orgID, req)
	if err != nil {
		c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, interviewToResponse(interview))
}

// ListInterviews returns interviews, optionally filtered by application
// @Summary List interviews
// @Tags interviews
// @Produce json
// @Param application_id query int false "Application ID"
// @Success 200 {array} InterviewResponse
// @Security BearerAuth
// @Router /interviews [get]
func (h *Handler) ListInterviews(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	query := tenancy.Scoped(h.db, orgID)
	if applicationID := c.Query("application_id"); applicationID != "" {
		query = query.Where("application_id = ?", applicationID)
	}

	var interviews []models.Interview
	if err := query.Order("scheduled_date").Find(&interviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch interviews"})
		return
	}

	responses := make([]InterviewResponse, len(interviews))
	for i, iv := range interviews {
		responses[i] = interviewToResponse(iv)
	}
	c.JSON(http.StatusOK, responses)
}

// CompleteInterview records interview feedback
// @Summary Complete an interview
// @Description Record feedback and rating; does not advance the application status
// @Tags interviews
// @Accept json
// @Produce json
// @Param id path int true "Interview ID"
// @Param request body CompleteInterviewRequest true "Feedback"
// @Success 200 {object} InterviewResponse
// @Failure 422 {object} map[string]string "Interview not in scheduled state"
// @Security BearerAuth
// @Router /interviews/{id}/complete [post]
func (h *Handler) CompleteInterview(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	interviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid interview ID"})
		return
	}

	var req CompleteInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	interview, err := Complete(h.db, orgID, uint(interviewID), req)
	if err != nil {
		c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, interviewToResponse(interview))
}

// CancelInterview cancels a scheduled interview
// @Summary Cancel an interview
// @Tags interviews
// @Produce json
// @Param id path int true "Interview ID"
// @Success 200 {object} InterviewResponse
// @Failure 404 {object} map[string]string "Interview not found"
// @Security BearerAuth
// @Router /interviews/{id}/cancel [post]
func (h *Handler) CancelInterview(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	interviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid interview ID"})
		return
	}

	var interview models.Interview
	if err := tenancy.Scoped(h.db, orgID).First(&interview, interviewID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Interview not found"})
		return
	}

	if interview.Status != models.InterviewScheduled {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Only scheduled interviews can be cancelled"})
		return
	}

	interview.Status = models.InterviewCancelled
	if err := h.db.Save(&interview).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel interview"})
		return
	}

	c.JSON(http.StatusOK, interviewToResponse(interview))
}
