package services

import (
	"reflect"
	"testing"

	"elfportal/internal/models"
)

func sampleLibrary() []models.Resource {
	return []models.Resource{
		{
			ID: 1, Title: "Discovery checklist", Category: "playbooks",
			Tags:     []models.Tag{{ID: 1, Name: "qa"}},
			Projects: []models.ProjectRef{{ID: 10, Name: "Acme rollout"}},
		},
		{
			ID: 2, Title: "Incident runbook", Category: "playbooks",
			Tags: []models.Tag{{ID: 2, Name: "runbook"}},
		},
		{
			ID: 3, Title: "Kickoff deck", Category: "client-reports",
			Tasks: []models.TaskRef{{ID: 100, ProjectID: 10, Title: "Prepare kickoff"}},
		},
		{
			ID: 4, Title: "Style guide", Category: "",
		},
	}
}

func TestParseTagsDeduplicatesCaseInsensitively(t *testing.T) {
	t.Parallel()

	got := ParseTags("qa, QA, Runbook")
	want := []string{"qa", "runbook"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseTags: got %v, want %v", got, want)
	}
}

func TestParseTagsStripsHashAndWhitespace(t *testing.T) {
	t.Parallel()

	got := ParseTags(" #QA ,  incident  response , ")
	want := []string{"qa", "incident response"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseTags: got %v, want %v", got, want)
	}
}

func TestCategoryLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"client-reports", "Client Reports"},
		{"playbooks", "Playbooks"},
		{"", "General"},
	}
	for _, tc := range cases {
		if got := CategoryLabel(tc.in); got != tc.want {
			t.Errorf("CategoryLabel(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFilterResourcesStatePartition(t *testing.T) {
	t.Parallel()

	library := sampleLibrary()
	linked := FilterResources(library, models.ResourceFilter{State: "linked"})
	unlinked := FilterResources(library, models.ResourceFilter{State: "unlinked"})

	seen := map[int64]int{}
	for _, group := range linked {
		for _, res := range group.Resources {
			seen[res.ID]++
		}
	}
	for _, group := range unlinked {
		for _, res := range group.Resources {
			seen[res.ID]++
		}
	}

	if len(seen) != len(library) {
		t.Fatalf("partition must cover the library: got %d ids, want %d", len(seen), len(library))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("resource %d appeared %d times across linked/unlinked, want exactly once", id, n)
		}
	}
}

func TestFilterResourcesProjectScopeFollowsTaskLinks(t *testing.T) {
	t.Parallel()

	groups := FilterResources(sampleLibrary(), models.ResourceFilter{ProjectID: "10"})

	var ids []int64
	for _, group := range groups {
		for _, res := range group.Resources {
			ids = append(ids, res.ID)
		}
	}
	// resource 1 links the project directly, resource 3 through a task
	want := map[int64]bool{1: true, 3: true}
	if len(ids) != 2 {
		t.Fatalf("project scope: got ids %v, want exactly {1,3}", ids)
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("project scope matched unexpected resource %d", id)
		}
	}
}

func TestFilterResourcesUnknownFacetFallsBackToAll(t *testing.T) {
	t.Parallel()

	library := sampleLibrary()
	all := FilterResources(library, models.ResourceFilter{})
	unknown := FilterResources(library, models.ResourceFilter{Category: "no-such-category", Tag: "no-such-tag"})

	if got, want := countResources(unknown), countResources(all); got != want {
		t.Errorf("unknown facet values must degrade to all: got %d, want %d", got, want)
	}
}

func TestFilterResourcesFacetsAreConjunctive(t *testing.T) {
	t.Parallel()

	groups := FilterResources(sampleLibrary(), models.ResourceFilter{
		Category: "playbooks",
		Tag:      "qa",
		State:    "linked",
	})

	if got := countResources(groups); got != 1 {
		t.Fatalf("conjunctive facets: got %d resources, want 1", got)
	}
	if groups[0].Resources[0].ID != 1 {
		t.Errorf("conjunctive facets: got resource %d, want 1", groups[0].Resources[0].ID)
	}
}

func TestFilterResourcesGroupsSortedByLabelThenTitle(t *testing.T) {
	t.Parallel()

	groups := FilterResources(sampleLibrary(), models.ResourceFilter{})

	labels := make([]string, 0, len(groups))
	for _, g := range groups {
		labels = append(labels, g.Label)
	}
	want := []string{"Client Reports", "General", "Playbooks"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("group labels: got %v, want %v", labels, want)
	}

	playbooks := groups[2].Resources
	if playbooks[0].ID != 1 || playbooks[1].ID != 2 {
		t.Errorf("within-group title order: got (%d,%d), want (1,2)", playbooks[0].ID, playbooks[1].ID)
	}
}

func TestFilterResourcesFreeTextSearchesLinkedNames(t *testing.T) {
	t.Parallel()

	groups := FilterResources(sampleLibrary(), models.ResourceFilter{Query: "acme"})

	if got := countResources(groups); got != 1 {
		t.Fatalf("text search: got %d resources, want 1", got)
	}
	if groups[0].Resources[0].ID != 1 {
		t.Errorf("text search: got resource %d, want 1", groups[0].Resources[0].ID)
	}
}

func countResources(groups []models.ResourceGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Resources)
	}
	return n
}
