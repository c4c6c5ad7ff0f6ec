package documents

import (
	"errors"
	"testing"

	"github.com/recruitrack/recruitrack/pkg/recruitrack/apperrors"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/models"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/storage"
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

func setupStore(t *testing.T) *storage.LocalStore {
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func createCandidate(t *testing.T, db *gorm.DB, orgID uint) models.Candidate {
	candidate := models.Candidate{OrganizationID: orgID, FirstName: "Ada", LastName: "Lovelace"}
	if err := db.Create(&candidate).Error; err != nil {
		t.Fatalf("Failed to create candidate: %v", err)
	}
	return candidate
}

func primaryCount(t *testing.T, db *gorm.DB, orgID uint, entityID uint, docType string) int64 {
	t.Helper()
	var count int64
	db.Model(&models.Document{}).
		Where("organization_id = ? AND entity_type = ? AND entity_id = ? AND document_type = ? AND is_primary = ?",
			orgID, models.EntityCandidate, entityID, docType, true).
		Count(&count)
	return count
}

func TestUploadReportsFirst(t *testing.T) {
	db := setupTestDB(t)
	store := setupStore(t)
	candidate := createCandidate(t, db, 1)

	doc1, isFirst, err := Upload(db, store, 1, 1, models.EntityCandidate, candidate.ID, "resume", "r1.pdf", "application/pdf", []byte("resume one"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !isFirst {
		t.Error("Expected first upload to report is_first = true")
	}
	if doc1.IsPrimary {
		t.Error("Uploads must never start as primary")
	}

	_, isFirst, err = Upload(db, store, 1, 1, models.EntityCandidate, candidate.ID, "resume", "r2.pdf", "application/pdf", []byte("resume two"))
	if err != nil {
		t.Fatalf("Second upload failed: %v", err)
	}
	if isFirst {
		t.Error("Expected second upload to report is_first = false")
	}

	// A different document type counts separately
	_, isFirst, err = Upload(db, store, 1, 1, models.EntityCandidate, candidate.ID, "cover-letter", "c1.pdf", "application/pdf", []byte("cover"))
	if err != nil {
		t.Fatalf("Cover letter upload failed: %v", err)
	}
	if !isFirst {
		t.Error("Expected first cover letter to report is_first = true")
	}
}

func TestUploadUnknownEntity(t *testing.T) {
	db := setupTestDB(t)
	store := setupStore(t)

	_, _, err := Upload(db, store, 1, 1, models.EntityCandidate, 999, "resume", "r.pdf", "application/pdf", []byte("x"))
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSetPrimaryMovesFlag(t *testing.T) {
	db := setupTestDB(t)
	store := setupStore(t)
	candidate := createCandidate(t, db, 1)

	doc1, _, _ := Upload(db, store, 1, 1, models.EntityCandidate, candidate.ID, "resume", "r1.pdf", "application/pdf", []byte("one"))
	doc2, _, _ := Upload(db, store, 1, 1, models.EntityCandidate, candidate.ID, "resume", "r2.pdf", "application/pdf", []byte("two"))

	if err := SetPrimary(db, 1, doc1.ID); err != nil {
		t.Fatalf("SetPrimary failed: %v", err)
	}
	if err := SetPrimary(db, 1, doc2.ID); err != nil {
		t.Fatalf("SetPrimary failed: %v", err)
	}

	var d1, d2 models.Document
	db.First(&d1, doc1.ID)
	db.First(&d2, doc2.ID)
	if d1.IsPrimary {
		t.Error("Expected first document to lose primary")
	}
	if !d2.IsPrimary {
		t.Error("Expected second document to be primary")
	}
	if got := primaryCount(t, db, 1, candidate.ID, "resume"); got != 1 {
		t.Errorf("Expected exactly one primary, got %d", got)
	}
}

// Repeated alternating set-primary calls must always leave exactly one
// primary, mirroring how two racing callers serialize through the
// transaction.
func TestSetPrimaryInvariantUnderRepetition(t *testing.T) {
	db := setupTestDB(t)
	store := setupStore(t)
	candidate := createCandidate(t, db, 1)

	doc1, _, _ := Upload(db, store, 1, 1, models.EntityCandidate, candidate.ID, "resume", "r1.pdf", "application/pdf", []byte("one"))
	doc2, _, _ := Upload(db, store, 1, 1, models.EntityCandidate, candidate.ID, "resume", "r2.pdf", "application/pdf", []byte("two"))

	targets := []uint{doc1.ID, doc2.ID, doc1.ID, doc2.ID, doc1.ID}
	for _, id := range targets {
		if err := SetPrimary(db, 1, id); err != nil {
			t.Fatalf("SetPrimary(%d) failed: %v", id, err)
		}
		if got := primaryCount(t, db, 1, candidate.ID, "resume"); got != 1 {
			t.Fatalf("Invariant broken after SetPrimary(%d): %d primaries", id, got)
		}
	}
}

func TestSetPrimaryScopedPerDocumentType(t *testing.T) {
	db := setupTestDB(t)
	store := setupStore(t)
	candidate := createCandidate(t, db, 1)

	resume, _, _ := Upload(db, store, 1, 1, models.EntityCandidate, candidate.ID, "resume", "r.pdf", "application/pdf", []byte("r"))
	cover, _, _ := Upload(db, store, 1, 1, models.EntityCandidate, candidate.ID, "cover-letter", "c.pdf", "application/pdf", []byte("c"))

	SetPrimary(db, 1, resume.ID)
	SetPrimary(db, 1, cover.ID)

	var r, cl models.Document
	db.First(&r, resume.ID)
	db.First(&cl, cover.ID)
	if !r.IsPrimary || !cl.IsPrimary {
		t.Error("Expected one primary per document type, not across types")
	}
}

func TestSetPrimaryCrossTenant(t *testing.T) {
	db := setupTestDB(t)
	store := setupStore(t)
	candidate := createCandidate(t, db, 2)

	doc, _, _ := Upload(db, store, 2, 1, models.EntityCandidate, candidate.ID, "resume", "r.pdf", "application/pdf", []byte("r"))

	if err := SetPrimary(db, 1, doc.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for cross-tenant set-primary, got %v", err)
	}
}

// Scenario: upload two resumes, promote the second, delete it. The
// remaining resume must not be auto-promoted.
func TestDeletePrimaryLeavesZeroPrimaries(t *testing.T) {
	db := setupTestDB(t)
	store := setupStore(t)
	candidate := createCandidate(t, db, 1)

	_, isFirst, _ := Upload(db, store, 1, 1, models.EntityCandidate, candidate.ID, "resume", "r1.pdf", "application/pdf", []byte("one"))
	if !isFirst {
		t.Fatal("Expected first upload to be first")
	}
	doc2, isFirst, _ := Upload(db, store, 1, 1, models.EntityCandidate, candidate.ID, "resume", "r2.pdf", "application/pdf", []byte("two"))
	if isFirst {
		t.Fatal("Expected second upload not to be first")
	}

	if err := SetPrimary(db, 1, doc2.ID); err != nil {
		t.Fatalf("SetPrimary failed: %v", err)
	}
	if err := Delete(db, store, 1, doc2.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if got := primaryCount(t, db, 1, candidate.ID, "resume"); got != 0 {
		t.Errorf("Expected zero primaries after deleting the primary, got %d", got)
	}
}

func TestDeleteRemovesBlob(t *testing.T) {
	db := setupTestDB(t)
	store := setupStore(t)
	candidate := createCandidate(t, db, 1)

	doc, _, _ := Upload(db, store, 1, 1, models.EntityCandidate, candidate.ID, "resume", "r.pdf", "application/pdf", []byte("bytes"))
	if err := Delete(db, store, 1, doc.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var count int64
	db.Model(&models.Document{}).Where("id = ?", doc.ID).Count(&count)
	if count != 0 {
		t.Error("Expected document row to be deleted")
	}
}
