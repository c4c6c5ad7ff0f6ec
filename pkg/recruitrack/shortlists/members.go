package shortlists

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/apperrors"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/auth"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/models"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/pipeline"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/tenancy"
	"gorm.io/gorm"
)

// AddCandidatesRequest represents the request to add candidates in bulk
type AddCandidatesRequest struct {
	CandidateIDs []uint `json:"candidate_ids" binding:"required,min=1"`
	Notes        string `json:"notes"`
}

// AddCandidatesResponse reports which candidates were newly added
// versus already present, so re-adding is never an error for the batch.
type AddCandidatesResponse struct {
	Added          []uint `json:"added"`
	AlreadyPresent []uint `json:"already_present"`
}

// UpdateNotesRequest represents the request to update a member's notes
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// AssociateJobRequest represents the request to associate all shortlist
// candidates with a job
type AssociateJobRequest struct {
	JobID uint `json:"job_id" binding:"required"`
}

// AssociateJobResponse reports which candidates got new applications
// versus being skipped for an existing one.
type AssociateJobResponse struct {
	Created []uint `json:"created"`
	Skipped []uint `json:"skipped"`
}

// MemberResponse represents a shortlist member in API responses
type MemberResponse struct {
	CandidateID uint   `json:"candidate_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Notes       string `json:"notes"`
	AddedByID   uint   `json:"added_by_id"`
	AddedAt     string `json:"added_at"`
}

// AddCandidates inserts memberships for the given candidates, skipping
// pairs that already exist. Candidates outside the organization are
// rejected. Returns the split between newly added and already present.
func AddCandidates(db *gorm.DB, orgID, userID, shortlistID uint, candidateIDs []uint, notes string) (added, present []uint, err error) {
	added = []uint{}
	present = []uint{}
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, candidateID := range candidateIDs {
			var candidate models.Candidate
			if err := tenancy.Scoped(tx, orgID).First(&candidate, candidateID).Error; err != nil {
				return apperrors.Translate(err)
			}

			var existing int64
			tx.Model(&models.ShortlistCandidate{}).
				Where("shortlist_id = ? AND candidate_id = ?", shortlistID, candidateID).
				Count(&existing)
			if existing > 0 {
				present = append(present, candidateID)
				continue
			}

			member := models.ShortlistCandidate{
				ShortlistID: shortlistID,
				CandidateID: candidateID,
				Notes:       notes,
				AddedByID:   userID,
				AddedAt:     time.Now(),
			}
			if err := tx.Create(&member).Error; err != nil {
				return apperrors.Translate(err)
			}
			added = append(added, candidateID)
		}
		return nil
	})
	return added, present, err
}

// Duplicate copies a shortlist's metadata and memberships into a new
// shortlist owned by userID. The copy shares no rows with the source.
func Duplicate(db *gorm.DB, orgID, userID, shortlistID uint, newName string) (models.Shortlist, error) {
	var source models.Shortlist
	if err := tenancy.Scoped(db, orgID).First(&source, shortlistID).Error; err != nil {
		return models.Shortlist{}, apperrors.Translate(err)
	}

	var copy models.Shortlist
	err := db.Transaction(func(tx *gorm.DB) error {
		copy = models.Shortlist{
			OrganizationID: orgID,
			Name:           newName,
			Description:    source.Description,
			CreatedByID:    userID,
		}
		if err := tx.Create(&copy).Error; err != nil {
			return err
		}

		var members []models.ShortlistCandidate
		if err := tx.Where("shortlist_id = ?", source.ID).Find(&members).Error; err != nil {
			return err
		}

		now := time.Now()
		for _, m := range members {
			member := models.ShortlistCandidate{
				ShortlistID: copy.ID,
				CandidateID: m.CandidateID,
				Notes:       m.Notes,
				AddedByID:   userID,
				AddedAt:     now,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Shortlist{}, err
	}
	return copy, nil
}

// AssociateJob creates applications for every shortlist candidate that
// does not already have one for the job. Existing applications are
// skipped, never an error for the batch.
func AssociateJob(db *gorm.DB, orgID, shortlistID, jobID uint) (created, skipped []uint, err error) {
	created = []uint{}
	skipped = []uint{}

	var job models.Job
	if err := tenancy.Scoped(db, orgID).First(&job, jobID).Error; err != nil {
		return nil, nil, apperrors.Translate(err)
	}

	var members []models.ShortlistCandidate
	if err := db.Where("shortlist_id = ?", shortlistID).Find(&members).Error; err != nil {
		return nil, nil, err
	}

	for _, m := range members {
		exists, err := pipeline.HasApplication(db, orgID, m.CandidateID, jobID)
		if err != nil {
			return created, skipped, err
		}
		if exists {
			skipped = append(skipped, m.CandidateID)
			continue
		}
		if _, err := pipeline.Associate(db, orgID, m.CandidateID, jobID); err != nil {
			return created, skipped, err
		}
		created = append(created, m.CandidateID)
	}
	return created, skipped, nil
}

// ListMembers returns all candidates on a shortlist
// @Summary List shortlist members
// @Tags shortlists
// @Produce json
// @Param id path int true "Shortlist ID"
// @Success 200 {array} MemberResponse
// @Security BearerAuth
// @Router /shortlists/{id}/candidates [get]
func (h *Handler) ListMembers(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	shortlist, ok := h.findShortlist(c, orgID)
	if !ok {
		return
	}

	var members []models.ShortlistCandidate
	if err := h.db.Preload("Candidate").Where("shortlist_id = ?", shortlist.ID).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	responses := make([]MemberResponse, len(members))
	for i, m := range members {
		responses[i] = MemberResponse{
			CandidateID: m.CandidateID,
			FirstName:   m.Candidate.FirstName,
			LastName:    m.Candidate.LastName,
			Notes:       m.Notes,
			AddedByID:   m.AddedByID,
			AddedAt:     m.AddedAt.Format("2006-01-02T15:04:05Z"),
		}
	}
	c.JSON(http.StatusOK, responses)
}

// AddMembers adds candidates to a shortlist in bulk
// @Summary Add candidates to a shortlist
// @Description Bulk add; already-present candidates are reported, not duplicated
// @Tags shortlists
// @Accept json
// @Produce json
// @Param id path int true "Shortlist ID"
// @Param request body AddCandidatesRequest true "Candidates and notes"
// @Success 200 {object} AddCandidatesResponse
// @Security BearerAuth
// @Router /shortlists/{id}/candidates [post]
func (h *Handler) AddMembers(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	userID, _ := auth.GetUserID(c)
	shortlist, ok := h.findShortlist(c, orgID)
	if !ok {
		return
	}

	var req AddCandidatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	added, present, err := AddCandidates(h.db, orgID, userID, shortlist.ID, req.CandidateIDs, req.Notes)
	if err != nil {
		c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, AddCandidatesResponse{Added: added, AlreadyPresent: present})
}

// RemoveMember removes a candidate from a shortlist
// @Summary Remove a candidate from a shortlist
// @Tags shortlists
// @Produce json
// @Param id path int true "Shortlist ID"
// @Param candidateId path int true "Candidate ID"
// @Success 200 {object} map[string]string "Candidate removed"
// @Failure 404 {object} map[string]string "Not on shortlist"
// @Security BearerAuth
// @Router /shortlists/{id}/candidates/{candidateId} [delete]
func (h *Handler) RemoveMember(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	shortlist, ok := h.findShortlist(c, orgID)
	if !ok {
		return
	}

	candidateID, err := strconv.ParseUint(c.Param("candidateId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate ID"})
		return
	}

	var member models.ShortlistCandidate
	if err := h.db.Where("shortlist_id = ? AND candidate_id = ?", shortlist.ID, candidateID).First(&member).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate is not on this shortlist"})
		return
	}

	if err := h.db.Delete(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove candidate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Candidate removed"})
}

// UpdateMemberNotes updates a member's notes
// @Summary Update shortlist member notes
// @Tags shortlists
// @Accept json
// @Produce json
// @Param id path int true "Shortlist ID"
// @Param candidateId path int true "Candidate ID"
// @Param request body UpdateNotesRequest true "Notes"
// @Success 200 {object} map[string]string "Notes updated"
// @Security BearerAuth
// @Router /shortlists/{id}/candidates/{candidateId} [put]
func (h *Handler) UpdateMemberNotes(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	shortlist, ok := h.findShortlist(c, orgID)
	if !ok {
		return
	}

	candidateID, err := strconv.ParseUint(c.Param("candidateId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate ID"})
		return
	}

	var req UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var member models.ShortlistCandidate
	if err := h.db.Where("shortlist_id = ? AND candidate_id = ?", shortlist.ID, candidateID).First(&member).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate is not on this shortlist"})
		return
	}

	member.Notes = req.Notes
	if err := h.db.Save(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notes updated"})
}

// AssociateWithJob bulk-associates shortlist candidates with a job
// @Summary Associate shortlist candidates with a job
// @Description Creates applications for every member without one; existing applications are skipped
// @Tags shortlists
// @Accept json
// @Produce json
// @Param id path int true "Shortlist ID"
// @Param request body AssociateJobRequest true "Job"
// @Success 200 {object} AssociateJobResponse
// @Security BearerAuth
// @Router /shortlists/{id}/associate-job [post]
func (h *Handler) AssociateWithJob(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	shortlist, ok := h.findShortlist(c, orgID)
	if !ok {
		return
	}

	var req AssociateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, skipped, err := AssociateJob(h.db, orgID, shortlist.ID, req.JobID)
	if err != nil {
		c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, AssociateJobResponse{Created: created, Skipped: skipped})
}

// RegisterMemberRoutes registers shortlist membership routes
func (h *Handler) RegisterMemberRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/candidates", h.ListMembers)
	rg.POST("/:id/candidates", h.AddMembers)
	rg.PUT("/:id/candidates/:candidateId", h.UpdateMemberNotes)
	rg.DELETE("/:id/candidates/:candidateId", h.RemoveMember)
	rg.POST("/:id/associate-job", h.AssociateWithJob)
}
