package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"elfportal/internal/models"
	"elfportal/internal/repositories"
)

func newResourceService(t *testing.T) *ResourceService {
	t.Helper()
	conn := newTestDB(t)
	return NewResourceService(conn, repositories.NewResourceRepository(conn), t.TempDir())
}

func TestCreateResourceNormalizesTags(t *testing.T) {
	t.Parallel()
	svc := newResourceService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateResourceInput{
		Title: "QA handbook",
		Link:  "https://example.com/handbook",
		Tags:  "qa, QA, Runbook",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	groups, err := svc.Library(ctx, models.ResourceFilter{})
	if err != nil {
		t.Fatalf("Library: %v", err)
	}
	if countResources(groups) != 1 {
		t.Fatalf("library size: got %d, want 1", countResources(groups))
	}
	stored := groups[0].Resources[0]
	if stored.ID != created.ID {
		t.Fatalf("stored id: got %d, want %d", stored.ID, created.ID)
	}

	seen := map[string]bool{}
	for _, tag := range stored.Tags {
		seen[tag.Name] = true
	}
	if len(stored.Tags) != 2 || !seen["qa"] || !seen["runbook"] {
		t.Errorf("tags: got %v, want exactly {qa, runbook}", stored.Tags)
	}
}

func TestCreateResourceRejectsUnsafeInput(t *testing.T) {
	t.Parallel()
	svc := newResourceService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateResourceInput{
		Title: "Bad link", Link: "javascript:alert(1)",
	}); !errors.Is(err, ErrUnsafeLink) {
		t.Errorf("javascript link: got %v, want ErrUnsafeLink", err)
	}

	if _, err := svc.Create(ctx, CreateResourceInput{
		Title: "Bad file", FileName: "tool.exe", FileData: []byte("MZ"),
	}); !errors.Is(err, ErrUnsupportedFileType) {
		t.Errorf("exe upload: got %v, want ErrUnsupportedFileType", err)
	}

	if _, err := svc.Create(ctx, CreateResourceInput{
		Title: "Nothing attached",
	}); !errors.Is(err, ErrNoLinkOrFile) {
		t.Errorf("no link or file: got %v, want ErrNoLinkOrFile", err)
	}

	if _, err := svc.Create(ctx, CreateResourceInput{
		Link: "https://example.com",
	}); !errors.Is(err, ErrResourceTitleRequired) {
		t.Errorf("missing title: got %v, want ErrResourceTitleRequired", err)
	}
}

func TestCreateResourceStoresUpload(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	root := t.TempDir()
	svc := NewResourceService(conn, repositories.NewResourceRepository(conn), root)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateResourceInput{
		Title:    "Weekly report",
		FileName: "report.pdf",
		FileData: []byte("%PDF-1.4"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	const prefix = "/internal/resources/files/"
	if !strings.HasPrefix(created.Link, prefix) {
		t.Fatalf("stored link: got %q, want prefix %q", created.Link, prefix)
	}
	stored := strings.TrimPrefix(created.Link, prefix)
	if filepath.Ext(stored) != ".pdf" {
		t.Errorf("stored name keeps the extension: got %q", stored)
	}
	if stored == "report.pdf" {
		t.Error("stored name must be generated, not the client-supplied name")
	}

	data, err := os.ReadFile(filepath.Join(root, stored))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Errorf("stored bytes: got %q", data)
	}

	path, err := svc.OpenFile(stored)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if path != filepath.Join(root, stored) {
		t.Errorf("OpenFile path: got %q, want %q", path, filepath.Join(root, stored))
	}

	if _, err := svc.OpenFile("../" + stored); err == nil {
		t.Error("OpenFile must reject path traversal")
	}
}
