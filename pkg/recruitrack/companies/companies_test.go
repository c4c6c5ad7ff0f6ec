package companies

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/auth"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/models"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/tenancy"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupFixture(t *testing.T) (*gorm.DB, *gin.Engine, models.User, models.Organization) {
	db := setupTestDB(t)

	user := models.User{Email: "recruiter@acme.test", PasswordHash: "x", Name: "Recruiter"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	org := models.Organization{Name: "Acme Recruiting"}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("failed to create org: %v", err)
	}
	if err := db.Create(&models.OrganizationMembership{OrganizationID: org.ID, UserID: user.ID}).Error; err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(db)
	group := router.Group("/api/companies", auth.AuthMiddleware(), tenancy.Middleware(db))
	handler.RegisterRoutes(group)

	return db, router, user, org
}

func doJSON(t *testing.T, router *gin.Engine, user models.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetCompanyWithContacts(t *testing.T) {
	db, router, user, org := setupFixture(t)

	w := doJSON(t, router, user, "POST", "/api/companies", map[string]interface{}{
		"name":     "Client Co",
		"industry": "fintech",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created CompanyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	w = doJSON(t, router, user, "POST", fmt.Sprintf("/api/companies/%d/contacts", created.ID), map[string]interface{}{
		"name":  "Pat Hiring",
		"email": "pat@clientco.test",
		"title": "Engineering Manager",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for contact, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, user, "GET", fmt.Sprintf("/api/companies/%d", created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got CompanyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(got.Contacts) != 1 || got.Contacts[0].Name != "Pat Hiring" {
		t.Errorf("expected one contact Pat Hiring, got %+v", got.Contacts)
	}

	var contact models.CompanyContact
	if err := db.Where("company_id = ?", created.ID).First(&contact).Error; err != nil {
		t.Fatalf("failed to load contact: %v", err)
	}
	if contact.OrganizationID != org.ID {
		t.Errorf("expected contact scoped to org %d, got %d", org.ID, contact.OrganizationID)
	}
}

func TestDeleteCompanyBlockedByJobs(t *testing.T) {
	db, router, user, org := setupFixture(t)

	company := models.Company{OrganizationID: org.ID, Name: "Busy Co"}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("failed to create company: %v", err)
	}
	job := models.Job{OrganizationID: org.ID, CompanyID: company.ID, Title: "Engineer", Status: models.JobStatusActive}
	if err := db.Create(&job).Error; err != nil {
		t.Fatalf("failed to create job: %v", err)
	}

	w := doJSON(t, router, user, "DELETE", fmt.Sprintf("/api/companies/%d", company.ID), nil)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 while jobs exist, got %d", w.Code)
	}

	if err := db.Delete(&job).Error; err != nil {
		t.Fatalf("failed to delete job: %v", err)
	}
	w = doJSON(t, router, user, "DELETE", fmt.Sprintf("/api/companies/%d", company.ID), nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 after jobs removed, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteCompanyRemovesContacts(t *testing.T) {
	db, router, user, org := setupFixture(t)

	company := models.Company{OrganizationID: org.ID, Name: "Quiet Co"}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("failed to create company: %v", err)
	}
	contact := models.CompanyContact{OrganizationID: org.ID, CompanyID: company.ID, Name: "Sam"}
	if err := db.Create(&contact).Error; err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}

	w := doJSON(t, router, user, "DELETE", fmt.Sprintf("/api/companies/%d", company.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.CompanyContact{}).Where("company_id = ?", company.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected contacts removed, found %d", count)
	}
}

func TestCompanyInvisibleAcrossOrganizations(t *testing.T) {
	db, router, user, _ := setupFixture(t)

	otherOrg := models.Organization{Name: "Rival Recruiting"}
	if err := db.Create(&otherOrg).Error; err != nil {
		t.Fatalf("failed to create other org: %v", err)
	}
	foreign := models.Company{OrganizationID: otherOrg.ID, Name: "Their Client"}
	if err := db.Create(&foreign).Error; err != nil {
		t.Fatalf("failed to create foreign company: %v", err)
	}

	w := doJSON(t, router, user, "GET", fmt.Sprintf("/api/companies/%d", foreign.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for other org's company, got %d", w.Code)
	}

	w = doJSON(t, router, user, "PUT", fmt.Sprintf("/api/companies/%d", foreign.ID), map[string]interface{}{"name": "Hijacked"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on cross-tenant update, got %d", w.Code)
	}
}
