// Package pipeline drives the recruiting pipeline: applications between
// candidates and jobs, their status transitions, and interview
// scheduling behind the client-submission gate.
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

// Handler handles application and interview requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new pipeline handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// AssociateRequest represents the request to associate a candidate with a job.
// Status is deliberately absent: every application starts at "associated".
type AssociateRequest struct {
	CandidateID uint `json:"candidate_id" binding:"required"`
	JobID       uint `json:"job_id" binding:"required"`
}

// TransitionRequest represents the request to move an application
// through the pipeline. Any known status is accepted as an explicit
// request; the interview gate is the submitted-to-client date, not the
// status string.
type TransitionRequest struct {
	Status                models.ApplicationStatus `json:"status" binding:"required"`
	SubmittedToClientDate *time.Time               `json:"submitted_to_client_date,omitempty"`
	InterviewDate         *time.Time               `json:"interview_date,omitempty"`
	PlacedDate            *time.Time               `json:"placed_date,omitempty"`
	OfferedSalary         *uint                    `json:"offered_salary,omitempty"`
}

// ApplicationResponse represents an application in API responses
type ApplicationResponse struct {
	ID                    uint       `json:"id"`
	CandidateID           uint       `json:"candidate_id"`
	JobID                 uint       `json:"job_id"`
	Status                string     `json:"status"`
	AppliedDate           string     `json:"applied_date"`
	SubmittedToClientDate *time.Time `json:"submitted_to_client_date,omitempty"`
	InterviewDate         *time.Time `json:"interview_date,omitempty"`
	PlacedDate            *time.Time `json:"placed_date,omitempty"`
	OfferedSalary         uint       `json:"offered_salary"`
	CreatedAt             string     `json:"created_at"`
}

func applicationToResponse(app models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:                    app.ID,
		CandidateID:           app.CandidateID,
		JobID:                 app.JobID,
		Status:                string(app.Status),
		AppliedDate:           app.AppliedDate.Format("2006-01-02"),
		SubmittedToClientDate: app.SubmittedToClientDate,
		InterviewDate:         app.InterviewDate,
		PlacedDate:            app.PlacedDate,
		OfferedSalary:         app.OfferedSalary,
		CreatedAt:             app.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// HasApplication reports whether a non-deleted application exists for
// the (candidate, job) pair within the organization. Shared with the
// shortlist bulk-association flow.
func HasApplication(db *gorm.DB, orgID, candidateID, jobID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Application{}).
		Where("organization_id = ? AND candidate_id = ? AND job_id = ?", orgID, candidateID, jobID).
		Count(&count).Error
	return count > 0, err
}

// Associate creates an application at the initial status. The candidate
// and job must both belong to the organization; a second application
// for the same pair is a conflict, with the unique index as backstop.
func Associate(db *gorm.DB, orgID, candidateID, jobID uint) (models.Application, error) {
	var candidate models.Candidate
	if err := tenancy.Scoped(db, orgID).First(&candidate, candidateID).Error; err != nil {
		return models.Application{}, fmt.Errorf("candidate: %w", apperrors.Translate(err))
	}
	var job models.Job
	if err := tenancy.Scoped(db, orgID).First(&job, jobID).Error; err != nil {
		return models.Application{}, fmt.Errorf("job: %w", apperrors.Translate(err))
	}

	exists, err := HasApplication(db, orgID, candidateID, jobID)
	if err != nil {
		return models.Application{}, err
	}
	if exists {
		return models.Application{}, fmt.Errorf("candidate already associated with job: %w", apperrors.ErrConflict)
	}

	app := models.Application{
		OrganizationID: orgID,
		CandidateID:    candidateID,
		JobID:          jobID,
		Status:         models.ApplicationAssociated,
		AppliedDate:    time.Now(),
	}
	if err := db.Create(&app).Error; err != nil {
		return models.Application{}, apperrors.Translate(err)
	}
	return app, nil
}

// Transition applies an explicit status change and any date or salary
// updates to an application.
func Transition(db *gorm.DB, orgID, appID uint, req TransitionRequest) (models.Application, error) {
	if !models.ValidApplicationStatus(req.Status) {
		return models.Application{}, fmt.Errorf("unknown status %q: %w", req.Status, apperrors.ErrNotEligible)
	}

	var app models.Application
	if err := tenancy.Scoped(db, orgID).First(&app, appID).Error; err != nil {
		return models.Application{}, apperrors.Translate(err)
	}

	app.Status = req.Status
	if req.SubmittedToClientDate != nil {
		app.SubmittedToClientDate = req.SubmittedToClientDate
	}
	if req.InterviewDate != nil {
		app.InterviewDate = req.InterviewDate
	}
	if req.PlacedDate != nil {
		app.PlacedDate = req.PlacedDate
	}
	if req.OfferedSalary != nil {
		app.OfferedSalary = *req.OfferedSalary
	}

	if err := db.Save(&app).Error; err != nil {
		return models.Application{}, apperrors.Translate(err)
	}
	return app, nil
}

// CandidateStage projects a candidate's overall pipeline stage as the
// highest-ranked status across their applications. Pure read-side
// computation; nothing is stored.
func CandidateStage(db *gorm.DB, orgID, candidateID uint) (models.ApplicationStatus, error) {
	var apps []models.Application
	err := db.Where("organization_id = ? AND candidate_id = ?", orgID, candidateID).Find(&apps).Error
	if err != nil {
		return "", err
	}

	var best models.ApplicationStatus
	bestRank := -1
	for _, app := range apps {
		if r := models.StageRank(app.Status); r > bestRank {
			best = app.Status
			bestRank = r
		}
	}
	return best, nil
}

// CreateApplication associates a candidate with a job
// @Summary Associate a candidate with a job
// @Description Create an application at the initial "associated" status
// @Tags applications
// @Accept json
// @Produce json
// @Param request body AssociateRequest true "Candidate and job"
// @Success 201 {object} ApplicationResponse
// @Failure 409 {object} map[string]string "Already associated"
// @Security BearerAuth
// @Router /applications [post]
func (h *Handler) CreateApplication(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	var req AssociateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := Associate(h.db, orgID, req.CandidateID, req.JobID)
	if err != nil {
		c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, applicationToResponse(app))
}

// ListApplications returns applications, optionally filtered by candidate or job
// @Summary List applications
// @Description Get applications, filterable by candidate_id and job_id
// @Tags applications
// @Produce json
// @Param candidate_id query int false "Candidate ID"
// @Param job_id query int false "Job ID"
// @Success 200 {array} ApplicationResponse
// @Security BearerAuth
// @Router /applications [get]
func (h *Handler) ListApplications(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	query := tenancy.Scoped(h.db, orgID)
	if candidateID := c.Query("candidate_id"); candidateID != "" {
		query = query.Where("candidate_id = ?", candidateID)
	}
	if jobID := c.Query("job_id"); jobID != "" {
		query = query.Where("job_id = ?", jobID)
	}

	var apps []models.Application
	if err := query.Order("created_at DESC").Find(&apps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	responses := make([]ApplicationResponse, len(apps))
	for i, app := range apps {
		responses[i] = applicationToResponse(app)
	}
	c.JSON(http.StatusOK, responses)
}

// GetApplication returns a specific application
// @Summary Get an application
// @Tags applications
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} ApplicationResponse
// @Failure 404 {object} map[string]string "Application not found"
// @Security BearerAuth
// @Router /applications/{id} [get]
func (h *Handler) GetApplication(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	appID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	var app models.Application
	if err := tenancy.Scoped(h.db, orgID).First(&app, appID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	c.JSON(http.StatusOK, applicationToResponse(app))
}

// TransitionApplication moves an application through the pipeline
// @Summary Transition an application
// @Description Apply an explicit status change plus optional date/salary updates
// @Tags applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param request body TransitionRequest true "Target status and updates"
// @Success 200 {object} ApplicationResponse
// @Failure 404 {object} map[string]string "Application not found"
// @Failure 422 {object} map[string]string "Unknown status"
// @Security BearerAuth
// @Router /applications/{id}/transition [post]
func (h *Handler) TransitionApplication(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	appID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := Transition(h.db, orgID, uint(appID), req)
	if err != nil {
		c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, applicationToResponse(app))
}

// ListEligibleApplications returns applications eligible for interview scheduling
// @Summary List interview-eligible applications
// @Description Applications whose submitted-to-client date is set, filterable by candidate_id and job_id
// @Tags applications
// @Produce json
// @Param candidate_id query int false "Candidate ID"
// @Param job_id query int false "Job ID"
// @Success 200 {array} ApplicationResponse
// @Security BearerAuth
// @Router /applications/eligible [get]
func (h *Handler) ListEligibleApplications(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	query := tenancy.Scoped(h.db, orgID).Where("submitted_to_client_date IS NOT NULL")
	if candidateID := c.Query("candidate_id"); candidateID != "" {
		query = query.Where("candidate_id = ?", candidateID)
	}
	if jobID := c.Query("job_id"); jobID != "" {
		query = query.Where("job_id = ?", jobID)
	}

	var apps []models.Application
	if err := query.Order("created_at DESC").Find(&apps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	responses := make([]ApplicationResponse, len(apps))
	for i, app := range apps {
		responses[i] = applicationToResponse(app)
	}
	c.JSON(http.StatusOK, responses)
}

// RegisterRoutes registers application and interview routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/applications", h.ListApplications)
	rg.POST("/applications", h.CreateApplication)
	rg.GET("/applications/eligible", h.ListEligibleApplications)
	rg.GET("/applications/:id", h.GetApplication)
	rg.POST("/applications/:id/transition", h.TransitionApplication)
	rg.GET("/interviews", h.ListInterviews)
	rg.POST("/interviews", h.ScheduleInterview)
	rg.POST("/interviews/:id/complete", h.CompleteInterview)
	rg.POST("/interviews/:id/cancel", h.CancelInterview)
}
