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

type feedbackFixture struct {
	db      *gorm.DB
	svc     FeedbackService
	model   *fakeModel
	section *types.Section
	project *types.Project
	ctx     context.Context
}

func newFeedbackFixture(t *testing.T) *feedbackFixture {
	t.Helper()
	db := openServiceTestDB(t)
	for _, stmt := range []string{
		`CREATE TABLE "section_feedback" (
			id TEXT PRIMARY KEY, section_id TEXT NOT NULL, user_id TEXT NOT NULL,
			type TEXT NOT NULL, created_at DATETIME, updated_at DATETIME,
			UNIQUE (section_id, user_id))`,
		`CREATE TABLE "section_comment" (
			id TEXT PRIMARY KEY, section_id TEXT NOT NULL, user_id TEXT NOT NULL,
			comment TEXT NOT NULL, created_at DATETIME)`,
	} {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	log := logger.NewNop()

	user := &types.User{ID: uuid.New(), Email: "fb@example.com", Password: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatal(err)
	}
	project := &types.Project{ID: uuid.New(), UserID: user.ID, Title: "P", Type: types.ProjectTypeDocx}
	if err := db.Create(project).Error; err != nil {
		t.Fatal(err)
	}
	section := &types.Section{ID: uuid.New(), ProjectID: project.ID, Title: "S", Content: "draft", OrderIndex: 0}
	if err := db.Create(section).Error; err != nil {
		t.Fatal(err)
	}

	model := &fakeModel{configured: true}
	svc := NewFeedbackService(
		db, log, model, NewNoopRateLimiter(),
		repos.NewSectionRepo(db, log),
		repos.NewProjectRepo(db, log),
		repos.NewSectionFeedbackRepo(db, log),
		repos.NewSectionCommentRepo(db, log),
		repos.NewRefinementHistoryRepo(db, log),
	)
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: user.ID})
	return &feedbackFixture{db: db, svc: svc, model: model, section: section, project: project, ctx: ctx}
}

func TestSubmitFeedbackFlips(t *testing.T) {
	f := newFeedbackFixture(t)

	fb, err := f.svc.SubmitFeedback(f.ctx, f.section.ID, "LIKE")
	if err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}
	if fb.Type != types.FeedbackTypeLike {
		t.Errorf("type=%q, input should lowercase", fb.Type)
	}

	fb, err = f.svc.SubmitFeedback(f.ctx, f.section.ID, "dislike")
	if err != nil {
		t.Fatalf("SubmitFeedback flip: %v", err)
	}
	if fb.Type != types.FeedbackTypeDislike {
		t.Errorf("type=%q after flip", fb.Type)
	}

	stats, err := f.svc.GetStats(f.ctx, f.section.ID)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Likes != 0 || stats.Dislikes != 1 || stats.UserFeedback != types.FeedbackTypeDislike {
		t.Errorf("stats %+v", stats)
	}
}

func TestSubmitFeedbackInvalidType(t *testing.T) {
	f := newFeedbackFixture(t)
	if _, err := f.svc.SubmitFeedback(f.ctx, f.section.ID, "meh"); err == nil {
		t.Fatal("invalid feedback type accepted")
	}
}

func TestRemoveFeedback(t *testing.T) {
	f := newFeedbackFixture(t)
	if _, err := f.svc.SubmitFeedback(f.ctx, f.section.ID, "like"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.RemoveFeedback(f.ctx, f.section.ID); err != nil {
		t.Fatalf("RemoveFeedback: %v", err)
	}
	stats, err := f.svc.GetStats(f.ctx, f.section.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Likes != 0 || stats.UserFeedback != "" {
		t.Errorf("stats after removal %+v", stats)
	}
	// Removing absent feedback is a no-op.
	if err := f.svc.RemoveFeedback(f.ctx, f.section.ID); err != nil {
		t.Errorf("repeat removal should not error: %v", err)
	}
}

func TestCommentsLifecycle(t *testing.T) {
	f := newFeedbackFixture(t)

	if _, err := f.svc.AddComment(f.ctx, f.section.ID, "   "); err == nil {
		t.Fatal("blank comment accepted")
	}
	c, err := f.svc.AddComment(f.ctx, f.section.ID, "  tighten the intro  ")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if c.Comment != "tighten the intro" {
		t.Errorf("comment should trim, got %q", c.Comment)
	}

	list, err := f.svc.ListComments(f.ctx, f.section.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d comments", len(list))
	}

	if err := f.svc.DeleteComment(f.ctx, c.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	list, err = f.svc.ListComments(f.ctx, f.section.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("comment not deleted")
	}
}

func TestDeleteCommentOwnership(t *testing.T) {
	f := newFeedbackFixture(t)
	c, err := f.svc.AddComment(f.ctx, f.section.ID, "mine")
	if err != nil {
		t.Fatal(err)
	}
	otherCtx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: uuid.New()})
	if err := f.svc.DeleteComment(otherCtx, c.ID); err == nil {
		t.Fatal("foreign user deleted a comment")
	}
}

func TestRegenerateWithFeedback(t *testing.T) {
	f := newFeedbackFixture(t)
	if _, err := f.svc.SubmitFeedback(f.ctx, f.section.ID, "dislike"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.AddComment(f.ctx, f.section.ID, "too vague"); err != nil {
		t.Fatal(err)
	}
	f.model.responses = []string{"a sharper rewrite"}

	section, err := f.svc.RegenerateWithFeedback(f.ctx, f.section.ID, "")
	if err != nil {
		t.Fatalf("RegenerateWithFeedback: %v", err)
	}
	if section.Content != "a sharper rewrite" {
		t.Errorf("content=%q", section.Content)
	}
	if len(f.model.prompts) != 1 || !strings.Contains(f.model.prompts[0], "too vague") {
		t.Errorf("without explicit feedback the latest comment must feed the prompt")
	}

	var history []*types.RefinementHistory
	if err := f.db.Where("section_id = ?", f.section.ID).Find(&history).Error; err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Fatalf("got %d history rows, want 1", len(history))
	}
	if history[0].Prompt != "[FEEDBACK REGENERATION] too vague" {
		t.Errorf("history prompt=%q", history[0].Prompt)
	}
	if history[0].PreviousContent != "draft" || history[0].NewContent != "a sharper rewrite" {
		t.Errorf("history contents %q -> %q", history[0].PreviousContent, history[0].NewContent)
	}

	stats, err := f.svc.GetStats(f.ctx, f.section.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Dislikes != 0 {
		t.Errorf("dislike should clear after regeneration, stats %+v", stats)
	}
	comments, err := f.svc.ListComments(f.ctx, f.section.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 0 {
		t.Errorf("comments should clear after regeneration")
	}
}

func TestRegenerateWithExplicitFeedback(t *testing.T) {
	f := newFeedbackFixture(t)
	if _, err := f.svc.AddComment(f.ctx, f.section.ID, "older comment"); err != nil {
		t.Fatal(err)
	}
	f.model.responses = []string{"rewritten"}

	if _, err := f.svc.RegenerateWithFeedback(f.ctx, f.section.ID, "make it punchier"); err != nil {
		t.Fatalf("RegenerateWithFeedback: %v", err)
	}
	if len(f.model.prompts) != 1 || !strings.Contains(f.model.prompts[0], "make it punchier") {
		t.Errorf("explicit feedback must feed the prompt")
	}
	if strings.Contains(f.model.prompts[0], "older comment") {
		t.Errorf("explicit feedback should take precedence over comments")
	}
	// No dislike on record, so the comment survives the regeneration.
	comments, err := f.svc.ListComments(f.ctx, f.section.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 1 {
		t.Errorf("comments should persist without a dislike, got %d", len(comments))
	}
}

func TestRegenerateWithoutFeedbackRejected(t *testing.T) {
	f := newFeedbackFixture(t)
	if _, err := f.svc.RegenerateWithFeedback(f.ctx, f.section.ID, "  "); !errors.Is(err, ErrNoFeedback) {
		t.Fatalf("expected ErrNoFeedback, got %v", err)
	}
	if len(f.model.prompts) != 0 {
		t.Errorf("model must not be called without feedback")
	}
}

func TestRegenerateWithFeedbackUnconfigured(t *testing.T) {
	f := newFeedbackFixture(t)
	f.model.configured = false
	if _, err := f.svc.RegenerateWithFeedback(f.ctx, f.section.ID, "tighten it"); err == nil || err.Error() != ErrMsgNoAPIKey {
		t.Fatalf("expected configuration sentinel, got %v", err)
	}
}
