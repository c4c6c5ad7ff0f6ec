package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
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

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)
	auth := r.Group("/auth")
	handler.RegisterRoutes(auth)
	return r
}

func TestPasswordHashing(t *testing.T) {
	password := "testpassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == password {
		t.Error("Hash should not equal plain password")
	}

	if !CheckPassword(password, hash) {
		t.Error("CheckPassword should return true for correct password")
	}

	if CheckPassword("wrongpassword", hash) {
		t.Error("CheckPassword should return false for incorrect password")
	}
}

func TestJWTToken(t *testing.T) {
	token, err := GenerateToken(1, "test@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.UserID != 1 {
		t.Errorf("Expected UserID 1, got %d", claims.UserID)
	}

	if claims.Email != "test@example.com" {
		t.Errorf("Expected email test@example.com, got %s", claims.Email)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("Expected error for malformed token")
	}
}

func TestRegisterCreatesOrganization(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	body := RegisterRequest{
		Email:            "founder@example.com",
		Password:         "password123",
		Name:             "Founder",
		OrganizationName: "Acme Recruiting",
	}
	jsonBody, _ := json.Marshal(body)

	req, _ := http.NewRequest("POST", "/auth/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var response AuthResponse
	json.Unmarshal(resp.Body.Bytes(), &response)
	if response.Token == "" {
		t.Error("Expected a token in the response")
	}

	var org models.Organization
	if err := db.Where("name = ?", "Acme Recruiting").First(&org).Error; err != nil {
		t.Fatalf("Expected organization to be created: %v", err)
	}

	var membership models.OrganizationMembership
	if err := db.Where("organization_id = ? AND user_id = ?", org.ID, response.User.ID).First(&membership).Error; err != nil {
		t.Errorf("Expected founding membership to exist: %v", err)
	}
}

func TestRegisterWithoutOrganization(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	body := RegisterRequest{
		Email:    "invitee@example.com",
		Password: "password123",
		Name:     "Invitee",
	}
	jsonBody, _ := json.Marshal(body)

	req, _ := http.NewRequest("POST", "/auth/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.OrganizationMembership{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no memberships for invite-flow registration, got %d", count)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	hash, _ := HashPassword("password123")
	db.Create(&models.User{Email: "taken@example.com", PasswordHash: hash, Name: "Taken"})

	body := RegisterRequest{Email: "taken@example.com", Password: "password123", Name: "Dup"}
	jsonBody, _ := json.Marshal(body)

	req, _ := http.NewRequest("POST", "/auth/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", resp.Code)
	}
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	hash, _ := HashPassword("password123")
	db.Create(&models.User{Email: "login@example.com", PasswordHash: hash, Name: "Login"})

	body := LoginRequest{Email: "login@example.com", Password: "password123"}
	jsonBody, _ := json.Marshal(body)

	req, _ := http.NewRequest("POST", "/auth/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// Wrong password
	body.Password = "wrongpassword"
	jsonBody, _ = json.Marshal(body)
	req, _ = http.NewRequest("POST", "/auth/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for bad password, got %d", resp.Code)
	}
}

func TestConfigureTokenLifetime(t *testing.T) {
	Configure("", time.Minute)
	defer Configure("", 24*time.Hour)

	token, err := GenerateToken(1, "short@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != time.Minute {
		t.Errorf("Expected 1m token lifetime, got %v", lifetime)
	}
}

func TestConfigureSigningSecret(t *testing.T) {
	token, err := GenerateToken(1, "rotate@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	Configure("rotated-secret", 0)
	defer func() {
		jwtSecret = nil
	}()

	// Tokens signed under the old secret stop validating.
	if _, err := ValidateToken(token); err == nil {
		t.Error("Expected validation to fail after secret rotation")
	}

	token, err = GenerateToken(1, "rotate@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := ValidateToken(token); err != nil {
		t.Errorf("Expected token under new secret to validate, got %v", err)
	}
}
