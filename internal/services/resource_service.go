// internal/services/resource_service.go
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"elfportal/internal/models"
	"elfportal/internal/repositories"
)

var (
	ErrResourceTitleRequired = errors.New("title is required")
	ErrNoLinkOrFile          = errors.New("provide a link or upload a document")
	ErrUnsafeLink            = errors.New("links must use http or https")
	ErrUnsupportedFileType   = errors.New("unsupported document file type")
)

// allowedUploadExts is the upload extension allow-list.
var allowedUploadExts = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".txt": true, ".md": true, ".csv": true,
	".png": true, ".jpg": true, ".jpeg": true,
}

// Normalize lowercases and collapses internal whitespace. Categories and tag
// names are stored and compared in this form.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormalizeTag additionally strips a leading '#'.
func NormalizeTag(s string) string {
	return Normalize(strings.TrimPrefix(strings.TrimSpace(s), "#"))
}

// ParseTags splits a comma-separated tag list, normalizes each entry and
// drops case-insensitive duplicates, preserving first-seen order.
func ParseTags(csv string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, part := range strings.Split(csv, ",") {
		tag := NormalizeTag(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// CategoryLabel renders a stored category as its display label: hyphens to
// spaces, each word title-cased.
func CategoryLabel(category string) string {
	words := strings.Fields(strings.ReplaceAll(category, "-", " "))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	if len(words) == 0 {
		return "General"
	}
	return strings.Join(words, " ")
}

// searchableText is the projection the free-text facet matches against.
func searchableText(res *models.Resource) string {
	parts := []string{res.Title, res.Category, res.Description, res.Link}
	for _, p := range res.Projects {
		parts = append(parts, p.Name)
	}
	for _, t := range res.Tasks {
		parts = append(parts, t.Title)
	}
	for _, t := range res.Tags {
		parts = append(parts, t.Name)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// FilterResources applies every selected facet conjunctively and groups the
// matches by display label. Unrecognized facet values fall back to "all".
func FilterResources(resources []models.Resource, filter models.ResourceFilter) []models.ResourceGroup {
	category := Normalize(filter.Category)
	tag := NormalizeTag(filter.Tag)
	state := strings.ToLower(strings.TrimSpace(filter.State))
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	// Facet values that name nothing in the library degrade to "all".
	if category != "" && category != "all" && !hasCategory(resources, category) {
		category = "all"
	}
	if tag != "" && tag != "all" && !hasTag(resources, tag) {
		tag = "all"
	}
	switch state {
	case "linked", "unlinked", "untagged":
	default:
		state = "all"
	}
	projectID, err := strconv.ParseInt(strings.TrimSpace(filter.ProjectID), 10, 64)
	scopeProject := err == nil && filter.ProjectID != ""

	grouped := map[string][]models.Resource{}
	for _, res := range resources {
		if category != "" && category != "all" && res.Category != category {
			continue
		}
		if tag != "" && tag != "all" && !resourceHasTag(&res, tag) {
			continue
		}
		if !matchesState(&res, state) {
			continue
		}
		if scopeProject && !linkedToProject(&res, projectID) {
			continue
		}
		if query != "" && !strings.Contains(searchableText(&res), query) {
			continue
		}
		label := CategoryLabel(res.Category)
		grouped[label] = append(grouped[label], res)
	}

	labels := make([]string, 0, len(grouped))
	for label := range grouped {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	groups := make([]models.ResourceGroup, 0, len(labels))
	for _, label := range labels {
		members := grouped[label]
		sort.Slice(members, func(i, j int) bool {
			ti, tj := strings.ToLower(members[i].Title), strings.ToLower(members[j].Title)
			if ti != tj {
				return ti < tj
			}
			return members[i].ID < members[j].ID
		})
		groups = append(groups, models.ResourceGroup{Label: label, Resources: members})
	}
	return groups
}

func hasCategory(resources []models.Resource, category string) bool {
	for i := range resources {
		if resources[i].Category == category {
			return true
		}
	}
	return false
}

func hasTag(resources []models.Resource, tag string) bool {
	for i := range resources {
		if resourceHasTag(&resources[i], tag) {
			return true
		}
	}
	return false
}

func resourceHasTag(res *models.Resource, tag string) bool {
	for _, t := range res.Tags {
		if t.Name == tag {
			return true
		}
	}
	return false
}

func matchesState(res *models.Resource, state string) bool {
	linked := len(res.Projects) > 0 || len(res.Tasks) > 0
	switch state {
	case "linked":
		return linked
	case "unlinked":
		return !linked
	case "untagged":
		return len(res.Tags) == 0
	default:
		return true
	}
}

// linkedToProject covers both direct project links and links that reach the
// project only through one of its tasks.
func linkedToProject(res *models.Resource, projectID int64) bool {
	for _, p := range res.Projects {
		if p.ID == projectID {
			return true
		}
	}
	for _, t := range res.Tasks {
		if t.ProjectID == projectID {
			return true
		}
	}
	return false
}

// CreateResourceInput carries the add-form fields. Exactly one of Link or
// FileData must be provided.
type CreateResourceInput struct {
	Title       string
	Category    string
	Description string
	Link        string
	FileName    string
	FileData    []byte
	Tags        string // raw comma-separated
	ProjectIDs  []int64
	TaskIDs     []int64
}

type ResourceService struct {
	conn      *sql.DB
	repo      repositories.ResourceRepository
	filesRoot string
}

func NewResourceService(conn *sql.DB, repo repositories.ResourceRepository, filesRoot string) *ResourceService {
	return &ResourceService{conn: conn, repo: repo, filesRoot: filepath.Clean(filesRoot)}
}

func (s *ResourceService) Library(ctx context.Context, filter models.ResourceFilter) ([]models.ResourceGroup, error) {
	resources, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterResources(resources, filter), nil
}

// LinkedToProjects buckets every resource by the projects it is linked to,
// directly or through a task. Used by the projects view to show each
// project's documents.
func (s *ResourceService) LinkedToProjects(ctx context.Context, projects []models.Project) (map[int64][]models.Resource, error) {
	resources, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	byProject := make(map[int64][]models.Resource, len(projects))
	for _, project := range projects {
		for i := range resources {
			if linkedToProject(&resources[i], project.ID) {
				byProject[project.ID] = append(byProject[project.ID], resources[i])
			}
		}
	}
	return byProject, nil
}

// Create validates the input, stores an uploaded file if present, and writes
// the resource with all of its links in one transaction so a failed link
// never leaves a half-created resource behind.
func (s *ResourceService) Create(ctx context.Context, input CreateResourceInput) (*models.Resource, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrResourceTitleRequired
	}

	link := strings.TrimSpace(input.Link)
	hasFile := len(input.FileData) > 0
	if link == "" && !hasFile {
		return nil, ErrNoLinkOrFile
	}
	if link != "" && !hasFile {
		lower := strings.ToLower(link)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			return nil, ErrUnsafeLink
		}
	}
	if hasFile {
		stored, err := s.storeUpload(input.FileName, input.FileData)
		if err != nil {
			return nil, err
		}
		link = "/internal/resources/files/" + stored
	}

	res := &models.Resource{
		Title:       title,
		Category:    Normalize(input.Category),
		Link:        link,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   time.Now().UTC(),
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	repo := repositories.NewResourceRepository(tx)
	if err := repo.Store(ctx, res); err != nil {
		return nil, err
	}
	for _, name := range ParseTags(input.Tags) {
		tagID, err := repo.EnsureTag(ctx, name)
		if err != nil {
			return nil, err
		}
		if err := repo.LinkTag(ctx, res.ID, tagID); err != nil {
			return nil, err
		}
		res.Tags = append(res.Tags, models.Tag{ID: tagID, Name: name})
	}
	for _, projectID := range input.ProjectIDs {
		if err := repo.LinkProject(ctx, res.ID, projectID); err != nil {
			return nil, err
		}
	}
	for _, taskID := range input.TaskIDs {
		if err := repo.LinkTask(ctx, res.ID, taskID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Printf("[resource][create][ok] id=%d title=%q tags=%d", res.ID, res.Title, len(res.Tags))
	return res, nil
}

// storeUpload writes the file under the files root with a server-generated
// random name; the client-supplied name only contributes its extension.
func (s *ResourceService) storeUpload(name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if !allowedUploadExts[ext] {
		return "", ErrUnsupportedFileType
	}
	if err := os.MkdirAll(s.filesRoot, 0o755); err != nil {
		return "", err
	}
	stored := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.filesRoot, stored), data, 0o644); err != nil {
		return "", err
	}
	return stored, nil
}

// OpenFile resolves a stored upload for serving, refusing path escapes.
func (s *ResourceService) OpenFile(name string) (string, error) {
	if name != filepath.Base(name) || name == "" || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	path := filepath.Join(s.filesRoot, name)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}
