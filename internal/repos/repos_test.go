package repos

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/draftforge/draftforge-backend/internal/logger"
	"github.com/draftforge/draftforge-backend/internal/types"
)

// openTestDB builds an in-memory sqlite database with the production table
// shapes. The postgres column defaults (uuid_generate_v4, now) never fire in
// practice because the services assign IDs and gorm fills the timestamps, so
// the test schema declares the columns without them.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared-cache DSN so every pooled connection sees one database,
	// unique per test for isolation.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	stmts := []string{
		`CREATE TABLE "user" (
			id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, password TEXT NOT NULL,
			created_at DATETIME, updated_at DATETIME)`,
		`CREATE TABLE "user_token" (
			id TEXT PRIMARY KEY, user_id TEXT NOT NULL,
			access_token TEXT NOT NULL UNIQUE, refresh_token TEXT NOT NULL UNIQUE,
			expires_at DATETIME, created_at DATETIME, updated_at DATETIME)`,
		`CREATE TABLE "project" (
			id TEXT PRIMARY KEY, user_id TEXT NOT NULL, title TEXT NOT NULL,
			type TEXT NOT NULL, prompt TEXT, metadata TEXT,
			created_at DATETIME, updated_at DATETIME)`,
		`CREATE TABLE "section" (
			id TEXT PRIMARY KEY, project_id TEXT NOT NULL, title TEXT NOT NULL,
			content TEXT, html_content TEXT, order_index INTEGER NOT NULL,
			created_at DATETIME, updated_at DATETIME)`,
		`CREATE TABLE "refinement_history" (
			id TEXT PRIMARY KEY, section_id TEXT NOT NULL, prompt TEXT,
			previous_content TEXT, new_content TEXT, created_at DATETIME)`,
		`CREATE TABLE "section_feedback" (
			id TEXT PRIMARY KEY, section_id TEXT NOT NULL, user_id TEXT NOT NULL,
			type TEXT NOT NULL, created_at DATETIME, updated_at DATETIME,
			UNIQUE (section_id, user_id))`,
		`CREATE TABLE "section_comment" (
			id TEXT PRIMARY KEY, section_id TEXT NOT NULL, user_id TEXT NOT NULL,
			comment TEXT NOT NULL, created_at DATETIME)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func seedProject(t *testing.T, db *gorm.DB) (*types.User, *types.Project) {
	t.Helper()
	user := &types.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Password: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	project := &types.Project{ID: uuid.New(), UserID: user.ID, Title: "Test Project", Type: types.ProjectTypeDocx}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return user, project
}

func seedSections(t *testing.T, db *gorm.DB, projectID uuid.UUID, titles ...string) []*types.Section {
	t.Helper()
	sections := make([]*types.Section, 0, len(titles))
	for i, title := range titles {
		sections = append(sections, &types.Section{
			ID: uuid.New(), ProjectID: projectID, Title: title, OrderIndex: i,
		})
	}
	if err := db.Create(&sections).Error; err != nil {
		t.Fatalf("seed sections: %v", err)
	}
	return sections
}

func TestSectionRepoGetByProjectOrdered(t *testing.T) {
	db := openTestDB(t)
	_, project := seedProject(t, db)
	repo := NewSectionRepo(db, logger.NewNop())
	ctx := context.Background()

	// Insert out of order, expect order_index to win.
	if err := db.Create(&types.Section{ID: uuid.New(), ProjectID: project.ID, Title: "Third", OrderIndex: 2}).Error; err != nil {
		t.Fatal(err)
	}
	seedSections(t, db, project.ID, "First", "Second")

	got, err := repo.GetByProjectOrdered(ctx, nil, project.ID)
	if err != nil {
		t.Fatalf("GetByProjectOrdered: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d sections", len(got))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if got[i].Title != want {
			t.Errorf("position %d = %q, want %q", i, got[i].Title, want)
		}
	}
}

func TestSectionRepoMaxOrderIndex(t *testing.T) {
	db := openTestDB(t)
	_, project := seedProject(t, db)
	repo := NewSectionRepo(db, logger.NewNop())
	ctx := context.Background()

	max, err := repo.MaxOrderIndex(ctx, nil, project.ID)
	if err != nil {
		t.Fatalf("MaxOrderIndex: %v", err)
	}
	if max != -1 {
		t.Errorf("empty project max=%d, want -1", max)
	}

	seedSections(t, db, project.ID, "A", "B", "C")
	max, err = repo.MaxOrderIndex(ctx, nil, project.ID)
	if err != nil {
		t.Fatalf("MaxOrderIndex: %v", err)
	}
	if max != 2 {
		t.Errorf("max=%d, want 2", max)
	}
}

func TestSectionRepoShiftOrderIndexes(t *testing.T) {
	db := openTestDB(t)
	_, project := seedProject(t, db)
	repo := NewSectionRepo(db, logger.NewNop())
	ctx := context.Background()
	seedSections(t, db, project.ID, "A", "B", "C", "D")

	// Open a gap at index 1 for an insertion.
	if err := repo.ShiftOrderIndexes(ctx, nil, project.ID, 1, -1, 1); err != nil {
		t.Fatalf("ShiftOrderIndexes: %v", err)
	}
	got, err := repo.GetByProjectOrdered(ctx, nil, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	wantOrder := map[string]int{"A": 0, "B": 2, "C": 3, "D": 4}
	for _, s := range got {
		if s.OrderIndex != wantOrder[s.Title] {
			t.Errorf("%s at %d, want %d", s.Title, s.OrderIndex, wantOrder[s.Title])
		}
	}

	// Close a bounded range back down.
	if err := repo.ShiftOrderIndexes(ctx, nil, project.ID, 2, 4, -1); err != nil {
		t.Fatalf("ShiftOrderIndexes: %v", err)
	}
	got, err = repo.GetByProjectOrdered(ctx, nil, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"A", "B", "C", "D"} {
		if got[i].Title != want || got[i].OrderIndex != i {
			t.Errorf("position %d = %q/%d", i, got[i].Title, got[i].OrderIndex)
		}
	}
}

func TestSectionRepoGetWithProject(t *testing.T) {
	db := openTestDB(t)
	_, project := seedProject(t, db)
	repo := NewSectionRepo(db, logger.NewNop())
	ctx := context.Background()
	sections := seedSections(t, db, project.ID, "Only")

	got, err := repo.GetWithProject(ctx, nil, sections[0].ID)
	if err != nil {
		t.Fatalf("GetWithProject: %v", err)
	}
	if got == nil || got.Project == nil {
		t.Fatalf("expected section with project preloaded, got %+v", got)
	}
	if got.Project.ID != project.ID {
		t.Errorf("preloaded project %s, want %s", got.Project.ID, project.ID)
	}

	missing, err := repo.GetWithProject(ctx, nil, uuid.New())
	if err != nil {
		t.Fatalf("GetWithProject missing: %v", err)
	}
	if missing != nil {
		t.Errorf("missing section should be nil, got %+v", missing)
	}
}

func TestProjectRepoGetForUserOwnership(t *testing.T) {
	db := openTestDB(t)
	owner, project := seedProject(t, db)
	stranger, _ := seedProject(t, db)
	repo := NewProjectRepo(db, logger.NewNop())
	ctx := context.Background()
	seedSections(t, db, project.ID, "S1", "S2")

	got, err := repo.GetForUser(ctx, nil, project.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetForUser: %v", err)
	}
	if got == nil || len(got.Sections) != 2 {
		t.Fatalf("owner lookup should preload sections, got %+v", got)
	}

	denied, err := repo.GetForUser(ctx, nil, project.ID, stranger.ID)
	if err != nil {
		t.Fatalf("GetForUser stranger: %v", err)
	}
	if denied != nil {
		t.Errorf("another user's project must come back nil")
	}
}

func TestSectionFeedbackRepoUpsert(t *testing.T) {
	db := openTestDB(t)
	user, project := seedProject(t, db)
	sections := seedSections(t, db, project.ID, "S")
	repo := NewSectionFeedbackRepo(db, logger.NewNop())
	ctx := context.Background()

	first, err := repo.Upsert(ctx, nil, &types.SectionFeedback{
		ID: uuid.New(), SectionID: sections[0].ID, UserID: user.ID, Type: types.FeedbackTypeLike,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if first.Type != types.FeedbackTypeLike {
		t.Errorf("type=%q", first.Type)
	}

	second, err := repo.Upsert(ctx, nil, &types.SectionFeedback{
		ID: uuid.New(), SectionID: sections[0].ID, UserID: user.ID, Type: types.FeedbackTypeDislike,
	})
	if err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	if second.Type != types.FeedbackTypeDislike {
		t.Errorf("upsert should flip the type, got %q", second.Type)
	}
	if second.ID != first.ID {
		t.Errorf("upsert must not create a second row")
	}

	likes, err := repo.CountByType(ctx, nil, sections[0].ID, types.FeedbackTypeLike)
	if err != nil {
		t.Fatal(err)
	}
	dislikes, err := repo.CountByType(ctx, nil, sections[0].ID, types.FeedbackTypeDislike)
	if err != nil {
		t.Fatal(err)
	}
	if likes != 0 || dislikes != 1 {
		t.Errorf("counts likes=%d dislikes=%d, want 0/1", likes, dislikes)
	}
}
