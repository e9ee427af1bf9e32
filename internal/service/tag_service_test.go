package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/filedraft/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTagServiceTestDB(t *testing.T) (*gorm.DB, *TagService) {
	t.Helper()

	dsn := fmt.Sprintf("file:tag-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.Tag{}, &db.File{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return gdb, NewTagService(gdb)
}

func TestCreateTagTrimsAndRejectsDuplicates(t *testing.T) {
	_, svc := setupTagServiceTestDB(t)

	tag, err := svc.Create("  invoice ")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if tag.Name != "invoice" {
		t.Fatalf("expected trimmed name, got %q", tag.Name)
	}

	if _, err := svc.Create("invoice"); !errors.Is(err, ErrTagExists) {
		t.Fatalf("expected ErrTagExists, got %v", err)
	}
	if _, err := svc.Create("   "); !errors.Is(err, ErrTagName) {
		t.Fatalf("expected ErrTagName, got %v", err)
	}
}

func TestDeleteTagBlockedWhileReferenced(t *testing.T) {
	gdb, svc := setupTagServiceTestDB(t)

	tag, err := svc.Create("invoice")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	file := db.File{Name: "report.pdf", StorageKey: "key", Tags: []db.Tag{*tag}}
	if err := gdb.Create(&file).Error; err != nil {
		t.Fatalf("failed to create tagged file: %v", err)
	}

	if err := svc.Delete(tag.ID); !errors.Is(err, ErrTagInUse) {
		t.Fatalf("expected ErrTagInUse, got %v", err)
	}

	if err := gdb.Model(&file).Association("Tags").Clear(); err != nil {
		t.Fatalf("failed to clear tags: %v", err)
	}
	if err := svc.Delete(tag.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(tag.ID); !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound, got %v", err)
	}
}

func TestListTagsOrdered(t *testing.T) {
	_, svc := setupTagServiceTestDB(t)

	for _, name := range []string{"zulu", "alpha", "mike"} {
		if _, err := svc.Create(name); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	tags, err := svc.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(tags))
	}
	if tags[0].Name != "alpha" || tags[2].Name != "zulu" {
		t.Fatalf("expected name ordering, got %v", tags)
	}
}
