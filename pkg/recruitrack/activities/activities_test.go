package activities

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
	group := router.Group("/api/activities", auth.AuthMiddleware(), tenancy.Middleware(db))
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

func TestCreateAndFilterActivities(t *testing.T) {
	_, router, user, _ := setupFixture(t)

	for i, entity := range []struct {
		kind string
		id   uint
	}{{"candidate", 1}, {"candidate", 2}, {"company", 1}} {
		w := doJSON(t, router, user, "POST", "/api/activities", map[string]interface{}{
			"entity_type": entity.kind,
			"entity_id":   entity.id,
			"note":        fmt.Sprintf("note %d", i),
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
	}

	w := doJSON(t, router, user, "GET", "/api/activities?entity_type=candidate&entity_id=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list []ActivityResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 filtered activity, got %d", len(list))
	}
	if list[0].CreatedBy != "Recruiter" {
		t.Errorf("expected author name, got %q", list[0].CreatedBy)
	}
}

func TestActivityRejectsUnknownEntityType(t *testing.T) {
	_, router, user, _ := setupFixture(t)

	w := doJSON(t, router, user, "POST", "/api/activities", map[string]interface{}{
		"entity_type": "invoice",
		"entity_id":   1,
		"note":        "does not apply",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown entity type, got %d", w.Code)
	}
}

func TestOnlyAuthorCanEditOrDelete(t *testing.T) {
	db, router, user, org := setupFixture(t)

	colleague := models.User{Email: "colleague@acme.test", PasswordHash: "x", Name: "Colleague"}
	if err := db.Create(&colleague).Error; err != nil {
		t.Fatalf("failed to create colleague: %v", err)
	}
	if err := db.Create(&models.OrganizationMembership{OrganizationID: org.ID, UserID: colleague.ID}).Error; err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}

	activity := models.Activity{OrganizationID: org.ID, EntityType: "candidate", EntityID: 1, CreatedByID: user.ID, Note: "original"}
	if err := db.Create(&activity).Error; err != nil {
		t.Fatalf("failed to create activity: %v", err)
	}

	w := doJSON(t, router, colleague, "PUT", fmt.Sprintf("/api/activities/%d", activity.ID), map[string]interface{}{"note": "hijacked"})
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-author edit, got %d", w.Code)
	}
	w = doJSON(t, router, colleague, "DELETE", fmt.Sprintf("/api/activities/%d", activity.ID), nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-author delete, got %d", w.Code)
	}

	w = doJSON(t, router, user, "PUT", fmt.Sprintf("/api/activities/%d", activity.ID), map[string]interface{}{"note": "revised"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for author edit, got %d: %s", w.Code, w.Body.String())
	}
	var updated models.Activity
	if err := db.First(&updated, activity.ID).Error; err != nil {
		t.Fatalf("failed to reload activity: %v", err)
	}
	if updated.Note != "revised" {
		t.Errorf("expected revised note, got %q", updated.Note)
	}

	w = doJSON(t, router, user, "DELETE", fmt.Sprintf("/api/activities/%d", activity.ID), nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for author delete, got %d", w.Code)
	}
}

func TestActivityInvisibleAcrossOrganizations(t *testing.T) {
	db, router, user, _ := setupFixture(t)

	otherOrg := models.Organization{Name: "Rival Recruiting"}
	if err := db.Create(&otherOrg).Error; err != nil {
		t.Fatalf("failed to create other org: %v", err)
	}
	outsider := models.User{Email: "outsider@rival.test", PasswordHash: "x", Name: "Outsider"}
	if err := db.Create(&outsider).Error; err != nil {
		t.Fatalf("failed to create outsider: %v", err)
	}
	foreign := models.Activity{OrganizationID: otherOrg.ID, EntityType: "candidate", EntityID: 9, CreatedByID: outsider.ID, Note: "secret"}
	if err := db.Create(&foreign).Error; err != nil {
		t.Fatalf("failed to create foreign activity: %v", err)
	}

	w := doJSON(t, router, user, "DELETE", fmt.Sprintf("/api/activities/%d", foreign.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for other org's activity, got %d", w.Code)
	}
}
