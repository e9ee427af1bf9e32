package db

import (
	"fmt"
	"testing"
	"time"

	"github.com/filedraft/internal/versioning"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:file-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&User{}, &Folder{}, &File{}, &Tag{}, &ShareLink{}, &Collection{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return gdb
}

func TestBeforeSaveRejectsInvalidVersioningState(t *testing.T) {
	gdb := setupFileTestDB(t)

	other := File{Name: "anchor", StorageKey: "anchor-key"}
	if err := gdb.Create(&other).Error; err != nil {
		t.Fatalf("failed to create anchor file: %v", err)
	}

	bad := File{Name: "broken", StorageKey: "broken-key"}
	bad.IsLive = true
	bad.LiveID = &other.ID
	if err := gdb.Create(&bad).Error; err == nil {
		t.Fatal("expected a live record with a live link to be rejected")
	}

	flagged := File{Name: "flagged", StorageKey: "flagged-key"}
	flagged.DeletionRequested = true
	if err := gdb.Create(&flagged).Error; err == nil {
		t.Fatal("expected a draft with a deletion request to be rejected")
	}
}

func TestCopyFieldsFromSkipsIdentityAndVersioning(t *testing.T) {
	now := time.Now()
	folderID := uint(7)

	src := &File{
		Name:             "report.pdf",
		OriginalFilename: "Report Final v3.pdf",
		MimeType:         "application/pdf",
		Size:             2048,
		Checksum:         "abc123",
		StorageKey:       "key-1",
		Description:      "quarterly report",
		FolderID:         &folderID,
		OwnerID:          3,
	}
	src.ID = 42
	src.IsLive = true
	src.PublishedAt = &now

	dst := &File{}
	if err := dst.CopyFieldsFrom(src); err != nil {
		t.Fatalf("CopyFieldsFrom returned error: %v", err)
	}

	if dst.Name != src.Name || dst.MimeType != src.MimeType || dst.Size != src.Size ||
		dst.Checksum != src.Checksum || dst.StorageKey != src.StorageKey ||
		dst.Description != src.Description || dst.OwnerID != src.OwnerID {
		t.Fatal("expected all domain fields to be copied")
	}
	if dst.FolderID == nil || *dst.FolderID != folderID {
		t.Fatal("expected folder link to be copied")
	}
	if dst.ID != 0 {
		t.Fatal("expected identity to stay untouched")
	}
	if dst.IsLive || dst.PublishedAt != nil {
		t.Fatal("expected versioning state to stay untouched")
	}
}

func TestCopyRelationsMirrorsTags(t *testing.T) {
	gdb := setupFileTestDB(t)

	src := File{Name: "tagged", StorageKey: "tagged-key", Tags: []Tag{{Name: "invoice"}, {Name: "2026"}}}
	if err := gdb.Create(&src).Error; err != nil {
		t.Fatalf("failed to create tagged file: %v", err)
	}
	dst := File{Name: "copy", StorageKey: "copy-key"}
	if err := gdb.Create(&dst).Error; err != nil {
		t.Fatalf("failed to create target file: %v", err)
	}

	if err := dst.CopyRelations(gdb, &src); err != nil {
		t.Fatalf("CopyRelations returned error: %v", err)
	}

	var tags []Tag
	if err := gdb.Model(&dst).Association("Tags").Find(&tags); err != nil {
		t.Fatalf("failed to load copied tags: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 copied tags, got %d", len(tags))
	}

	// Copying from an untagged file clears the target.
	bare := File{Name: "bare", StorageKey: "bare-key"}
	if err := gdb.Create(&bare).Error; err != nil {
		t.Fatalf("failed to create bare file: %v", err)
	}
	if err := dst.CopyRelations(gdb, &bare); err != nil {
		t.Fatalf("CopyRelations returned error: %v", err)
	}
	if n := gdb.Model(&dst).Association("Tags").Count(); n != 0 {
		t.Fatalf("expected tags to be cleared, got %d", n)
	}
}

func TestFileCanPublish(t *testing.T) {
	f := &File{Name: "doc", StorageKey: "key"}
	if err := f.CanPublish(); err != nil {
		t.Fatalf("expected complete file to be publishable, got %v", err)
	}

	if err := (&File{StorageKey: "key"}).CanPublish(); err == nil {
		t.Fatal("expected a nameless file to be rejected")
	}
	if err := (&File{Name: "doc"}).CanPublish(); err == nil {
		t.Fatal("expected a file without storage key to be rejected")
	}
}

func TestRelationRegistryCoversFileReferences(t *testing.T) {
	rels := Relations.Related(FileKind)
	if len(rels) != 3 {
		t.Fatalf("expected 3 registered relations, got %d", len(rels))
	}

	byTable := make(map[string]versioning.Relation, len(rels))
	for _, rel := range rels {
		byTable[rel.Table] = rel
	}

	if rel, ok := byTable["share_links"]; !ok || rel.Column != "file_id" || rel.Kind != versioning.RelationToOne {
		t.Fatalf("unexpected share_links relation: %+v", rel)
	}
	if rel, ok := byTable["folders"]; !ok || rel.Column != "cover_file_id" || rel.Kind != versioning.RelationToOne {
		t.Fatalf("unexpected folders relation: %+v", rel)
	}
	if rel, ok := byTable["collection_files"]; !ok || rel.Column != "file_id" || rel.Kind != versioning.RelationManyToMany {
		t.Fatalf("unexpected collection_files relation: %+v", rel)
	}
}
