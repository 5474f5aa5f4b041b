package portfolio

import "testing"

func TestDefaultPage(t *testing.T) {
	p := DefaultPage("Ada", "Architect")
	if p.OwnerName != "Ada" || p.Tagline != "Architect" {
		t.Fatalf("header copy not applied: %+v", p)
	}
	if len(p.Skills) != 6 {
		t.Fatalf("expected 6 skill categories, got %d", len(p.Skills))
	}
	if len(p.Projects) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(p.Projects))
	}
	for _, pr := range p.Projects {
		if pr.FallbackURL == "" || pr.ImageURL == "" {
			t.Fatalf("project %q missing image urls", pr.Title)
		}
	}
}
