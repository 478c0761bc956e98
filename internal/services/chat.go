package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/draftforge/draftforge-backend/internal/logger"
	"github.com/draftforge/draftforge-backend/internal/repos"
	"github.com/draftforge/draftforge-backend/internal/requestdata"
)

type ChatService interface {
	// SendMessage answers a free-form user message with the project's
	// current title and section contents folded into the prompt.
	SendMessage(ctx context.Context, projectID uuid.UUID, message string) (string, error)
}

type chatService struct {
	db          *gorm.DB
	log         *logger.Logger
	model       TextModel
	limiter     RateLimiter
	projectRepo repos.ProjectRepo
}

func NewChatService(db *gorm.DB, log *logger.Logger, model TextModel, limiter RateLimiter, projectRepo repos.ProjectRepo) ChatService {
	serviceLog := log.With("service", "ChatService")
	return &chatService{
		db:          db,
		log:         serviceLog,
		model:       model,
		limiter:     limiter,
		projectRepo: projectRepo,
	}
}

func (cs *chatService) SendMessage(ctx context.Context, projectID uuid.UUID, message string) (string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return "", fmt.Errorf("Request data not set in context")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("Message cannot be empty")
	}
	project, pErr := cs.projectRepo.GetForUser(ctx, nil, projectID, rd.UserID)
	if pErr != nil {
		return "", fmt.Errorf("Failed to get project: %w", pErr)
	}
	if project == nil {
		return "", fmt.Errorf("Project not found")
	}
	if !cs.model.Configured() {
		return "", errors.New(ErrMsgNoAPIKey)
	}
	allowed, aErr := cs.limiter.Allow(ctx, rd.UserID)
	if aErr == nil && !allowed {
		return "", ErrRateLimited
	}

	prompt := buildChatPrompt(project.Title, project.Type, sectionsSummary(project.Sections), message)
	reply, cErr := cs.model.Complete(ctx, prompt)
	if cErr != nil {
		if IsRateLimitError(cErr) {
			return "", ErrRateLimited
		}
		return "", fmt.Errorf("Failed to generate chat reply: %w", cErr)
	}
	return reply, nil
}
