package jobs

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/models"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/tenancy"
	"gorm.io/gorm"
)

// Handler handles job-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new jobs handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateJobRequest represents the request to create a job
type CreateJobRequest struct {
	CompanyID   uint   `json:"company_id" binding:"required"`
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description"`
	Location    string `json:"location"`
	SalaryMin   uint   `json:"salary_min"`
	SalaryMax   uint   `json:"salary_max"`
	Status      string `json:"status" binding:"omitempty,oneof=draft active paused filled cancelled"`
}

// UpdateJobRequest represents the request to update a job
type UpdateJobRequest struct {
	Title       string  `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	SalaryMin   *uint   `json:"salary_min"`
	SalaryMax   *uint   `json:"salary_max"`
	Status      string  `json:"status" binding:"omitempty,oneof=draft active paused filled cancelled"`
}

// JobResponse represents a job in API responses
type JobResponse struct {
	ID          uint   `json:"id"`
	CompanyID   uint   `json:"company_id"`
	CompanyName string `json:"company_name,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	SalaryMin   uint   `json:"salary_min"`
	SalaryMax   uint   `json:"salary_max"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

func jobToResponse(j models.Job) JobResponse {
	return JobResponse{
		ID:          j.ID,
		CompanyID:   j.CompanyID,
		CompanyName: j.Company.Name,
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		SalaryMin:   j.SalaryMin,
		SalaryMax:   j.SalaryMax,
		Status:      string(j.Status),
		CreatedAt:   j.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// List returns all jobs for the caller's organization
// @Summary List jobs
// @Tags jobs
// @Produce json
// @Param status query string false "Filter by status"
// @Param company_id query int false "Filter by company"
// @Success 200 {array} JobResponse
// @Security BearerAuth
// @Router /jobs [get]
func (h *Handler) List(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	query := tenancy.Scoped(h.db, orgID).Preload("Company")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if companyID := c.Query("company_id"); companyID != "" {
		query = query.Where("company_id = ?", companyID)
	}

	var jobs []models.Job
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
		return
	}

	responses := make([]JobResponse, len(jobs))
	for i, job := range jobs {
		responses[i] = jobToResponse(job)
	}
	c.JSON(http.StatusOK, responses)
}

// Create creates a new job under a company
// @Summary Create a job
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body CreateJobRequest true "Job details"
// @Success 201 {object} JobResponse
// @Failure 404 {object} map[string]string "Company not found"
// @Security BearerAuth
// @Router /jobs [post]
func (h *Handler) Create(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The company must belong to the caller's organization.
	var company models.Company
	if err := tenancy.Scoped(h.db, orgID).First(&company, req.CompanyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	status := models.JobStatus(req.Status)
	if status == "" {
		status = models.JobStatusDraft
	}

	job := models.Job{
		OrganizationID: orgID,
		CompanyID:      company.ID,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		Status:         status,
	}
	if err := h.db.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job"})
		return
	}
	job.Company = company

	c.JSON(http.StatusCreated, jobToResponse(job))
}

// Get returns a single job
// @Summary Get a job
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} JobResponse
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /jobs/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var job models.Job
	if err := tenancy.Scoped(h.db, orgID).Preload("Company").First(&job, jobID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, jobToResponse(job))
}

// Update updates a job
// @Summary Update a job
// @Tags jobs
// @Accept json
// @Produce json
// @Param id path int true "Job ID"
// @Param request body UpdateJobRequest true "Updated details"
// @Success 200 {object} JobResponse
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /jobs/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var job models.Job
	if err := tenancy.Scoped(h.db, orgID).First(&job, jobID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != "" {
		job.Title = req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.SalaryMin != nil {
		job.SalaryMin = *req.SalaryMin
	}
	if req.SalaryMax != nil {
		job.SalaryMax = *req.SalaryMax
	}
	if req.Status != "" {
		job.Status = models.JobStatus(req.Status)
	}

	if err := h.db.Save(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update job"})
		return
	}

	c.JSON(http.StatusOK, jobToResponse(job))
}

// Delete deletes a job
// @Summary Delete a job
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} map[string]string "Job deleted"
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /jobs/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var job models.Job
	if err := tenancy.Scoped(h.db, orgID).First(&job, jobID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	if err := h.db.Delete(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete job"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted"})
}

// RegisterRoutes registers job routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
