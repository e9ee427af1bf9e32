package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/filedraft/internal/db"
)

func TestCreateTagValidatesInput(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	createTestUser(t, gdb, "editor", "secret", false)
	r := newTestRouter(gdb)
	cookie := login(t, r, "editor", "secret")

	recorder := doJSON(t, r, http.MethodPost, "/admin/api/tags", cookie, `{"name":"invoice"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, recorder.Code, recorder.Body.String())
	}

	recorder = doJSON(t, r, http.MethodPost, "/admin/api/tags", cookie, `{"name":"invoice"}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d for a duplicate, got %d", http.StatusBadRequest, recorder.Code)
	}

	recorder = doJSON(t, r, http.MethodPost, "/admin/api/tags", cookie, `{}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d for a missing name, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestDeleteTagInUseReturnsBadRequest(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	createTestUser(t, gdb, "editor", "secret", false)
	r := newTestRouter(gdb)
	cookie := login(t, r, "editor", "secret")

	tag := db.Tag{Name: "invoice"}
	if err := gdb.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	file := db.File{Name: "report.pdf", StorageKey: "key", Tags: []db.Tag{tag}}
	if err := gdb.Create(&file).Error; err != nil {
		t.Fatalf("failed to create tagged file: %v", err)
	}

	recorder := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/admin/api/tags/%d", tag.ID), cookie, "")
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d for a tag in use, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestGetTagsListsAll(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	createTestUser(t, gdb, "editor", "secret", false)
	r := newTestRouter(gdb)
	cookie := login(t, r, "editor", "secret")

	for _, name := range []string{"beta", "alpha"} {
		if err := gdb.Create(&db.Tag{Name: name}).Error; err != nil {
			t.Fatalf("failed to create tag: %v", err)
		}
	}

	recorder := doJSON(t, r, http.MethodGet, "/admin/api/tags", cookie, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}

	var payload struct {
		Tags []struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"tags"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode tags payload: %v", err)
	}
	if len(payload.Tags) != 2 || payload.Tags[0].Name != "alpha" {
		t.Fatalf("unexpected tags payload: %+v", payload.Tags)
	}
}
