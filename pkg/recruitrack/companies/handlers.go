package companies

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/models"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/tenancy"
	"gorm.io/gorm"
)

// Handler handles company-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new companies handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateCompanyRequest represents the request to create a company
type CreateCompanyRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Industry string `json:"industry"`
	Location string `json:"location"`
	Website  string `json:"website"`
	Notes    string `json:"notes"`
}

// UpdateCompanyRequest represents the request to update a company
type UpdateCompanyRequest struct {
	Name     string  `json:"name" binding:"omitempty,min=1,max=200"`
	Industry *string `json:"industry"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
	Notes    *string `json:"notes"`
}

// ContactRequest represents the request to create or update a contact
type ContactRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
	Title string `json:"title"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID        uint              `json:"id"`
	Name      string            `json:"name"`
	Industry  string            `json:"industry"`
	Location  string            `json:"location"`
	Website   string            `json:"website"`
	Notes     string            `json:"notes"`
	Contacts  []ContactResponse `json:"contacts,omitempty"`
	CreatedAt string            `json:"created_at"`
}

// ContactResponse represents a company contact in API responses
type ContactResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Title string `json:"title"`
}

func contactToResponse(ct models.CompanyContact) ContactResponse {
	return ContactResponse{ID: ct.ID, Name: ct.Name, Email: ct.Email, Phone: ct.Phone, Title: ct.Title}
}

func companyToResponse(co models.Company) CompanyResponse {
	resp := CompanyResponse{
		ID:        co.ID,
		Name:      co.Name,
		Industry:  co.Industry,
		Location:  co.Location,
		Website:   co.Website,
		Notes:     co.Notes,
		CreatedAt: co.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	for _, ct := range co.Contacts {
		resp.Contacts = append(resp.Contacts, contactToResponse(ct))
	}
	return resp
}

func (h *Handler) findCompany(c *gin.Context) (models.Company, bool) {
	orgID, _ := tenancy.GetOrgID(c)
	companyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
		return models.Company{}, false
	}

	var company models.Company
	if err := tenancy.Scoped(h.db, orgID).First(&company, companyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return models.Company{}, false
	}
	return company, true
}

// List returns all companies for the caller's organization
// @Summary List companies
// @Tags companies
// @Produce json
// @Success 200 {array} CompanyResponse
// @Security BearerAuth
// @Router /companies [get]
func (h *Handler) List(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	var companies []models.Company
	if err := tenancy.Scoped(h.db, orgID).Order("name ASC").Find(&companies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch companies"})
		return
	}

	responses := make([]CompanyResponse, len(companies))
	for i, company := range companies {
		responses[i] = companyToResponse(company)
	}
	c.JSON(http.StatusOK, responses)
}

// Create creates a new company
// @Summary Create a company
// @Tags companies
// @Accept json
// @Produce json
// @Param request body CreateCompanyRequest true "Company details"
// @Success 201 {object} CompanyResponse
// @Security BearerAuth
// @Router /companies [post]
func (h *Handler) Create(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company := models.Company{
		OrganizationID: orgID,
		Name:           req.Name,
		Industry:       req.Industry,
		Location:       req.Location,
		Website:        req.Website,
		Notes:          req.Notes,
	}
	if err := h.db.Create(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create company"})
		return
	}

	c.JSON(http.StatusCreated, companyToResponse(company))
}

// Get returns a company with its contacts
// @Summary Get a company
// @Tags companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} CompanyResponse
// @Failure 404 {object} map[string]string "Company not found"
// @Security BearerAuth
// @Router /companies/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	companyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
		return
	}

	var company models.Company
	if err := tenancy.Scoped(h.db, orgID).Preload("Contacts").First(&company, companyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	c.JSON(http.StatusOK, companyToResponse(company))
}

// Update updates a company
// @Summary Update a company
// @Tags companies
// @Accept json
// @Produce json
// @Param id path int true "Company ID"
// @Param request body UpdateCompanyRequest true "Updated details"
// @Success 200 {object} CompanyResponse
// @Failure 404 {object} map[string]string "Company not found"
// @Security BearerAuth
// @Router /companies/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	company, ok := h.findCompany(c)
	if !ok {
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != "" {
		company.Name = req.Name
	}
	if req.Industry != nil {
		company.Industry = *req.Industry
	}
	if req.Location != nil {
		company.Location = *req.Location
	}
	if req.Website != nil {
		company.Website = *req.Website
	}
	if req.Notes != nil {
		company.Notes = *req.Notes
	}

	if err := h.db.Save(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update company"})
		return
	}

	c.JSON(http.StatusOK, companyToResponse(company))
}

// Delete deletes a company and its contacts
// @Summary Delete a company
// @Tags companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} map[string]string "Company deleted"
// @Failure 404 {object} map[string]string "Company not found"
// @Failure 409 {object} map[string]string "Company still has jobs"
// @Security BearerAuth
// @Router /companies/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	company, ok := h.findCompany(c)
	if !ok {
		return
	}

	var jobCount int64
	if err := h.db.Model(&models.Job{}).Where("company_id = ?", company.ID).Count(&jobCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check jobs"})
		return
	}
	if jobCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Company still has jobs"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", company.ID).Delete(&models.CompanyContact{}).Error; err != nil {
			return err
		}
		return tx.Delete(&company).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete company"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Company deleted"})
}

// AddContact creates a contact under a company
// @Summary Add a company contact
// @Tags companies
// @Accept json
// @Produce json
// @Param id path int true "Company ID"
// @Param request body ContactRequest true "Contact details"
// @Success 201 {object} ContactResponse
// @Failure 404 {object} map[string]string "Company not found"
// @Security BearerAuth
// @Router /companies/{id}/contacts [post]
func (h *Handler) AddContact(c *gin.Context) {
	company, ok := h.findCompany(c)
	if !ok {
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact := models.CompanyContact{
		OrganizationID: company.OrganizationID,
		CompanyID:      company.ID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Title:          req.Title,
	}
	if err := h.db.Create(&contact).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact"})
		return
	}

	c.JSON(http.StatusCreated, contactToResponse(contact))
}

// UpdateContact updates a contact under a company
// @Summary Update a company contact
// @Tags companies
// @Accept json
// @Produce json
// @Param id path int true "Company ID"
// @Param contactId path int true "Contact ID"
// @Param request body ContactRequest true "Contact details"
// @Success 200 {object} ContactResponse
// @Failure 404 {object} map[string]string "Contact not found"
// @Security BearerAuth
// @Router /companies/{id}/contacts/{contactId} [put]
func (h *Handler) UpdateContact(c *gin.Context) {
	company, ok := h.findCompany(c)
	if !ok {
		return
	}

	contactID, err := strconv.ParseUint(c.Param("contactId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	var contact models.CompanyContact
	if err := h.db.Where("company_id = ?", company.ID).First(&contact, contactID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact.Name = req.Name
	contact.Email = req.Email
	contact.Phone = req.Phone
	contact.Title = req.Title
	if err := h.db.Save(&contact).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contact"})
		return
	}

	c.JSON(http.StatusOK, contactToResponse(contact))
}

// DeleteContact removes a contact from a company
// @Summary Delete a company contact
// @Tags companies
// @Produce json
// @Param id path int true "Company ID"
// @Param contactId path int true "Contact ID"
// @Success 200 {object} map[string]string "Contact deleted"
// @Failure 404 {object} map[string]string "Contact not found"
// @Security BearerAuth
// @Router /companies/{id}/contacts/{contactId} [delete]
func (h *Handler) DeleteContact(c *gin.Context) {
	company, ok := h.findCompany(c)
	if !ok {
		return
	}

	contactID, err := strconv.ParseUint(c.Param("contactId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	var contact models.CompanyContact
	if err := h.db.Where("company_id = ?", company.ID).First(&contact, contactID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}

	if err := h.db.Delete(&contact).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted"})
}

// RegisterRoutes registers company routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/contacts", h.AddContact)
	rg.PUT("/:id/contacts/:contactId", h.UpdateContact)
	rg.DELETE("/:id/contacts/:contactId", h.DeleteContact)
}
