package tenancy

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/apperrors"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/auth"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func createOrgWithMember(t *testing.T, db *gorm.DB, orgName, email string) (models.Organization, models.User) {
	org := models.Organization{Name: orgName}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("Failed to create org: %v", err)
	}
	user := models.User{Email: email, Name: "Test User"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	membership := models.OrganizationMembership{OrganizationID: org.ID, UserID: user.ID}
	if err := db.Create(&membership).Error; err != nil {
		t.Fatalf("Failed to create membership: %v", err)
	}
	return org, user
}

func TestResolve(t *testing.T) {
	db := setupTestDB(t)
	org, user := createOrgWithMember(t, db, "Acme", "member@example.com")

	orgID, err := Resolve(db, user.ID)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if orgID != org.ID {
		t.Errorf("Expected org %d, got %d", org.ID, orgID)
	}
}

func TestResolveNotAMember(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{Email: "orphan@example.com", Name: "Orphan"}
	db.Create(&user)

	_, err := Resolve(db, user.ID)
	if !errors.Is(err, apperrors.ErrNotAMember) {
		t.Errorf("Expected ErrNotAMember, got %v", err)
	}
}

func TestResolveReflectsMembershipChanges(t *testing.T) {
	db := setupTestDB(t)
	_, user := createOrgWithMember(t, db, "Acme", "leaver@example.com")

	if _, err := Resolve(db, user.ID); err != nil {
		t.Fatalf("Resolve failed before removal: %v", err)
	}

	db.Where("user_id = ?", user.ID).Delete(&models.OrganizationMembership{})

	if _, err := Resolve(db, user.ID); !errors.Is(err, apperrors.ErrNotAMember) {
		t.Errorf("Expected ErrNotAMember after removal, got %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	db := setupTestDB(t)
	_, user := createOrgWithMember(t, db, "Acme", "mw@example.com")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", auth.AuthMiddleware(), Middleware(db), func(c *gin.Context) {
		orgID, _ := GetOrgID(c)
		c.JSON(http.StatusOK, gin.H{"organization_id": orgID})
	})

	token, _ := auth.GenerateToken(user.ID, user.Email)
	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestMiddlewareRejectsNonMember(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{Email: "noorg@example.com", Name: "No Org"}
	db.Create(&user)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", auth.AuthMiddleware(), Middleware(db), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token, _ := auth.GenerateToken(user.ID, user.Email)
	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", resp.Code)
	}
}

func TestScopedIsolatesTenants(t *testing.T) {
	db := setupTestDB(t)
	orgA, _ := createOrgWithMember(t, db, "Org A", "a@example.com")
	orgB, _ := createOrgWithMember(t, db, "Org B", "b@example.com")

	db.Create(&models.Candidate{OrganizationID: orgA.ID, FirstName: "Alice", LastName: "A"})
	db.Create(&models.Candidate{OrganizationID: orgB.ID, FirstName: "Bob", LastName: "B"})

	var candidates []models.Candidate
	if err := Scoped(db, orgA.ID).Find(&candidates).Error; err != nil {
		t.Fatalf("Scoped query failed: %v", err)
	}
	if len(candidates) != 1 || candidates[0].FirstName != "Alice" {
		t.Errorf("Expected only org A's candidate, got %v", candidates)
	}
}
