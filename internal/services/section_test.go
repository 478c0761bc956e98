package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/draftforge/draftforge-backend/internal/logger"
	"github.com/draftforge/draftforge-backend/internal/repos"
	"github.com/draftforge/draftforge-backend/internal/requestdata"
	"github.com/draftforge/draftforge-backend/internal/types"
)

type sectionFixture struct {
	db      *gorm.DB
	svc     SectionService
	project *types.Project
	ctx     context.Context
}

func newSectionFixture(t *testing.T, titles ...string) *sectionFixture {
	t.Helper()
	db := openServiceTestDB(t)
	log := logger.NewNop()

	user := &types.User{ID: uuid.New(), Email: "sec@example.com", Password: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatal(err)
	}
	project := &types.Project{ID: uuid.New(), UserID: user.ID, Title: "P", Type: types.ProjectTypeDocx}
	if err := db.Create(project).Error; err != nil {
		t.Fatal(err)
	}
	for i, title := range titles {
		s := &types.Section{ID: uuid.New(), ProjectID: project.ID, Title: title, OrderIndex: i}
		if err := db.Create(s).Error; err != nil {
			t.Fatal(err)
		}
	}

	svc := NewSectionService(db, log, repos.NewProjectRepo(db, log), repos.NewSectionRepo(db, log))
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: user.ID})
	return &sectionFixture{db: db, svc: svc, project: project, ctx: ctx}
}

func (f *sectionFixture) titlesInOrder(t *testing.T) []string {
	t.Helper()
	var sections []*types.Section
	if err := f.db.Where("project_id = ?", f.project.ID).Order("order_index ASC").Find(&sections).Error; err != nil {
		t.Fatal(err)
	}
	titles := make([]string, 0, len(sections))
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	return titles
}

func (f *sectionFixture) sectionByTitle(t *testing.T, title string) *types.Section {
	t.Helper()
	var s types.Section
	if err := f.db.Where("project_id = ? AND title = ?", f.project.ID, title).First(&s).Error; err != nil {
		t.Fatal(err)
	}
	return &s
}

func TestCreateSectionAppends(t *testing.T) {
	f := newSectionFixture(t, "A", "B")
	created, err := f.svc.CreateSection(f.ctx, f.project.ID, "C", nil)
	if err != nil {
		t.Fatalf("CreateSection: %v", err)
	}
	if created.OrderIndex != 2 {
		t.Errorf("appended at %d, want 2", created.OrderIndex)
	}
}

func TestCreateSectionInsertAfter(t *testing.T) {
	f := newSectionFixture(t, "A", "B", "C")
	anchor := f.sectionByTitle(t, "A")
	created, err := f.svc.CreateSection(f.ctx, f.project.ID, "A2", &anchor.ID)
	if err != nil {
		t.Fatalf("CreateSection: %v", err)
	}
	if created.OrderIndex != 1 {
		t.Errorf("inserted at %d, want 1", created.OrderIndex)
	}
	got := f.titlesInOrder(t)
	want := []string{"A", "A2", "B", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}
}

func TestCreateSectionRequiresTitle(t *testing.T) {
	f := newSectionFixture(t, "A")
	if _, err := f.svc.CreateSection(f.ctx, f.project.ID, "   ", nil); err == nil {
		t.Fatal("blank title accepted")
	}
}

func TestUpdateSectionContentDerivesHTML(t *testing.T) {
	f := newSectionFixture(t, "A")
	s := f.sectionByTitle(t, "A")
	content := "## A\n\n**bold**"
	updated, err := f.svc.UpdateSection(f.ctx, s.ID, nil, &content)
	if err != nil {
		t.Fatalf("UpdateSection: %v", err)
	}
	if !strings.Contains(updated.HTMLContent, "<strong>bold</strong>") {
		t.Errorf("html not derived: %q", updated.HTMLContent)
	}
	stored := f.sectionByTitle(t, "A")
	if stored.Content != content {
		t.Errorf("content not persisted")
	}
}

func TestDeleteSectionRefusesLast(t *testing.T) {
	f := newSectionFixture(t, "Only")
	s := f.sectionByTitle(t, "Only")
	if err := f.svc.DeleteSection(f.ctx, s.ID); err == nil {
		t.Fatal("deleting the last section must fail")
	}
}

func TestDeleteSectionClosesGap(t *testing.T) {
	f := newSectionFixture(t, "A", "B", "C")
	if err := f.svc.DeleteSection(f.ctx, f.sectionByTitle(t, "B").ID); err != nil {
		t.Fatalf("DeleteSection: %v", err)
	}
	a, c := f.sectionByTitle(t, "A"), f.sectionByTitle(t, "C")
	if a.OrderIndex != 0 || c.OrderIndex != 1 {
		t.Errorf("indexes A=%d C=%d, want 0 and 1", a.OrderIndex, c.OrderIndex)
	}
}

func TestReorderSection(t *testing.T) {
	cases := []struct {
		name     string
		move     string
		newIndex int
		want     []string
	}{
		{"forward", "A", 2, []string{"B", "C", "A", "D"}},
		{"backward", "D", 0, []string{"D", "A", "B", "C"}},
		{"no_move", "B", 1, []string{"A", "B", "C", "D"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSectionFixture(t, "A", "B", "C", "D")
			moved := f.sectionByTitle(t, tc.move)
			sections, err := f.svc.ReorderSection(f.ctx, moved.ID, tc.newIndex)
			if err != nil {
				t.Fatalf("ReorderSection: %v", err)
			}
			got := make([]string, 0, len(sections))
			for _, s := range sections {
				got = append(got, s.Title)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("order %v, want %v", got, tc.want)
				}
			}
			for i, s := range sections {
				if s.OrderIndex != i {
					t.Errorf("%s has order_index %d at position %d", s.Title, s.OrderIndex, i)
				}
			}
		})
	}
}

func TestReorderSectionRejectsOutOfRange(t *testing.T) {
	for _, newIndex := range []int{-1, 4, 99} {
		f := newSectionFixture(t, "A", "B", "C", "D")
		moved := f.sectionByTitle(t, "B")
		if _, err := f.svc.ReorderSection(f.ctx, moved.ID, newIndex); !errors.Is(err, ErrInvalidOrderIndex) {
			t.Errorf("index %d: expected ErrInvalidOrderIndex, got %v", newIndex, err)
		}
		got := f.titlesInOrder(t)
		for i, want := range []string{"A", "B", "C", "D"} {
			if got[i] != want {
				t.Fatalf("index %d: order changed to %v", newIndex, got)
			}
		}
	}
}

func TestUpdateSectionPptxKeepsRawContent(t *testing.T) {
	f := newSectionFixture(t, "Seed")
	deck := &types.Project{ID: uuid.New(), UserID: f.project.UserID, Title: "Deck", Type: types.ProjectTypePptx}
	if err := f.db.Create(deck).Error; err != nil {
		t.Fatal(err)
	}
	slide := &types.Section{ID: uuid.New(), ProjectID: deck.ID, Title: "Opening", OrderIndex: 0}
	if err := f.db.Create(slide).Error; err != nil {
		t.Fatal(err)
	}

	content := "TITLE: Opening\nCONTENT:\n- **a bullet**"
	updated, err := f.svc.UpdateSection(f.ctx, slide.ID, nil, &content)
	if err != nil {
		t.Fatalf("UpdateSection: %v", err)
	}
	if updated.Content != content {
		t.Errorf("content=%q", updated.Content)
	}
	if updated.HTMLContent != "" {
		t.Errorf("slide content must not be rendered to html: %q", updated.HTMLContent)
	}
}

func TestSectionOwnershipEnforced(t *testing.T) {
	f := newSectionFixture(t, "A", "B")
	otherCtx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: uuid.New()})
	s := f.sectionByTitle(t, "A")
	if _, err := f.svc.GetSection(otherCtx, s.ID); err == nil {
		t.Error("foreign user read a section")
	}
	if err := f.svc.DeleteSection(otherCtx, s.ID); err == nil {
		t.Error("foreign user deleted a section")
	}
}

func TestSectionsSummary(t *testing.T) {
	long := strings.Repeat("word ", 100)
	sections := []*types.Section{
		{Title: "First", Content: "short body"},
		{Title: "Second", Content: ""},
		{Title: "Third", Content: long},
	}
	got := sectionsSummary(sections)
	if !strings.Contains(got, "1. First: short body") {
		t.Errorf("missing first entry: %q", got)
	}
	if !strings.Contains(got, "2. Second: (empty)") {
		t.Errorf("empty content should read (empty): %q", got)
	}
	if !strings.Contains(got, "...") {
		t.Errorf("long content should truncate with ellipsis")
	}
	if sectionsSummary(nil) != "(no sections yet)" {
		t.Errorf("no sections placeholder wrong")
	}
}
