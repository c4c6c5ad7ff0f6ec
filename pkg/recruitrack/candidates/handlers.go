package candidates

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/models"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/pipeline"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/tenancy"
	"gorm.io/gorm"
)

// Handler handles candidate-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new candidates handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateCandidateRequest represents the request to create a candidate
type CreateCandidateRequest struct {
	FirstName      string   `json:"first_name" binding:"required,min=1,max=100"`
	LastName       string   `json:"last_name" binding:"required,min=1,max=100"`
	Email          string   `json:"email" binding:"omitempty,email"`
	Phone          string   `json:"phone"`
	Location       string   `json:"location"`
	CurrentTitle   string   `json:"current_title"`
	CurrentCompany string   `json:"current_company"`
	LinkedIn       string   `json:"linkedin"`
	Skills         []string `json:"skills"`
	Rating         uint     `json:"rating" binding:"omitempty,min=1,max=5"`
}

// UpdateCandidateRequest represents the request to update a candidate
type UpdateCandidateRequest struct {
	FirstName      string   `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName       string   `json:"last_name" binding:"omitempty,min=1,max=100"`
	Email          string   `json:"email" binding:"omitempty,email"`
	Phone          *string  `json:"phone"`
	Location       *string  `json:"location"`
	CurrentTitle   *string  `json:"current_title"`
	CurrentCompany *string  `json:"current_company"`
	LinkedIn       *string  `json:"linkedin"`
	Skills         []string `json:"skills"`
	Rating         *uint    `json:"rating" binding:"omitempty"`
	Status         string   `json:"status" binding:"omitempty,oneof=active placed inactive"`
}

// CandidateResponse represents a candidate in API responses
type CandidateResponse struct {
	ID             uint     `json:"id"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Location       string   `json:"location"`
	CurrentTitle   string   `json:"current_title"`
	CurrentCompany string   `json:"current_company"`
	LinkedIn       string   `json:"linkedin"`
	Skills         []string `json:"skills"`
	Rating         uint     `json:"rating"`
	Status         string   `json:"status"`
	Stage          string   `json:"stage,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

func candidateToResponse(c models.Candidate, stage models.ApplicationStatus) CandidateResponse {
	return CandidateResponse{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Phone:          c.Phone,
		Location:       c.Location,
		CurrentTitle:   c.CurrentTitle,
		CurrentCompany: c.CurrentCompany,
		LinkedIn:       c.LinkedIn,
		Skills:         c.Skills,
		Rating:         c.Rating,
		Status:         c.Status,
		Stage:          string(stage),
		CreatedAt:      c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// List returns all candidates for the caller's organization
// @Summary List candidates
// @Tags candidates
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {array} CandidateResponse
// @Security BearerAuth
// @Router /candidates [get]
func (h *Handler) List(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	query := tenancy.Scoped(h.db, orgID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var candidates []models.Candidate
	if err := query.Order("created_at DESC").Find(&candidates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch candidates"})
		return
	}

	responses := make([]CandidateResponse, len(candidates))
	for i, candidate := range candidates {
		responses[i] = candidateToResponse(candidate, "")
	}
	c.JSON(http.StatusOK, responses)
}

// Create creates a new candidate
// @Summary Create a candidate
// @Tags candidates
// @Accept json
// @Produce json
// @Param request body CreateCandidateRequest true "Candidate details"
// @Success 201 {object} CandidateResponse
// @Security BearerAuth
// @Router /candidates [post]
func (h *Handler) Create(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	var req CreateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidate := models.Candidate{
		OrganizationID: orgID,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          req.Email,
		Phone:          req.Phone,
		Location:       req.Location,
		CurrentTitle:   req.CurrentTitle,
		CurrentCompany: req.CurrentCompany,
		LinkedIn:       req.LinkedIn,
		Skills:         req.Skills,
		Rating:         req.Rating,
		Status:         "active",
	}
	if err := h.db.Create(&candidate).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create candidate"})
		return
	}

	c.JSON(http.StatusCreated, candidateToResponse(candidate, ""))
}

// Get returns a candidate with its derived pipeline stage
// @Summary Get a candidate
// @Description Includes the pipeline stage projected from the candidate's applications
// @Tags candidates
// @Produce json
// @Param id path int true "Candidate ID"
// @Success 200 {object} CandidateResponse
// @Failure 404 {object} map[string]string "Candidate not found"
// @Security BearerAuth
// @Router /candidates/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	candidateID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate ID"})
		return
	}

	var candidate models.Candidate
	if err := tenancy.Scoped(h.db, orgID).First(&candidate, candidateID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
		return
	}

	stage, err := pipeline.CandidateStage(h.db, orgID, candidate.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stage"})
		return
	}

	c.JSON(http.StatusOK, candidateToResponse(candidate, stage))
}

// Update updates a candidate
// @Summary Update a candidate
// @Tags candidates
// @Accept json
// @Produce json
// @Param id path int true "Candidate ID"
// @Param request body UpdateCandidateRequest true "Updated details"
// @Success 200 {object} CandidateResponse
// @Failure 404 {object} map[string]string "Candidate not found"
// @Security BearerAuth
// @Router /candidates/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	candidateID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate ID"})
		return
	}

	var candidate models.Candidate
	if err := tenancy.Scoped(h.db, orgID).First(&candidate, candidateID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
		return
	}

	var req UpdateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.FirstName != "" {
		candidate.FirstName = strings.TrimSpace(req.FirstName)
	}
	if req.LastName != "" {
		candidate.LastName = strings.TrimSpace(req.LastName)
	}
	if req.Email != "" {
		candidate.Email = req.Email
	}
	if req.Phone != nil {
		candidate.Phone = *req.Phone
	}
	if req.Location != nil {
		candidate.Location = *req.Location
	}
	if req.CurrentTitle != nil {
		candidate.CurrentTitle = *req.CurrentTitle
	}
	if req.CurrentCompany != nil {
		candidate.CurrentCompany = *req.CurrentCompany
	}
	if req.LinkedIn != nil {
		candidate.LinkedIn = *req.LinkedIn
	}
	if req.Skills != nil {
		candidate.Skills = req.Skills
	}
	if req.Rating != nil {
		candidate.Rating = *req.Rating
	}
	if req.Status != "" {
		candidate.Status = req.Status
	}

	if err := h.db.Save(&candidate).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update candidate"})
		return
	}

	c.JSON(http.StatusOK, candidateToResponse(candidate, ""))
}

// Delete deletes a candidate and cascades to shortlist memberships
// @Summary Delete a candidate
// @Tags candidates
// @Produce json
// @Param id path int true "Candidate ID"
// @Success 200 {object} map[string]string "Candidate deleted"
// @Failure 404 {object} map[string]string "Candidate not found"
// @Security BearerAuth
// @Router /candidates/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	candidateID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate ID"})
		return
	}

	var candidate models.Candidate
	if err := tenancy.Scoped(h.db, orgID).First(&candidate, candidateID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("candidate_id = ?", candidate.ID).Delete(&models.ShortlistCandidate{}).Error; err != nil {
			return err
		}
		return tx.Delete(&candidate).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete candidate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Candidate deleted"})
}

// RegisterRoutes registers candidate routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
