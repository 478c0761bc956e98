package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/draftforge/draftforge-backend/internal/logger"
	"github.com/draftforge/draftforge-backend/internal/types"
	"github.com/draftforge/draftforge-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "draftforge", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Project{},
		&types.Section{},
		&types.RefinementHistory{},
		&types.SectionFeedback{},
		&types.SectionComment{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	stmts := []string{
		`ALTER TABLE "user_token" DROP CONSTRAINT IF EXISTS "fk_user_token_user_id";
		 ALTER TABLE "user_token" ADD CONSTRAINT "fk_user_token_user_id"
		 FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
		`ALTER TABLE "project" DROP CONSTRAINT IF EXISTS "fk_project_user_id";
		 ALTER TABLE "project" ADD CONSTRAINT "fk_project_user_id"
		 FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
		`ALTER TABLE "section" DROP CONSTRAINT IF EXISTS "fk_section_project_id";
		 ALTER TABLE "section" ADD CONSTRAINT "fk_section_project_id"
		 FOREIGN KEY ("project_id") REFERENCES "project"("id") ON DELETE CASCADE`,
		`ALTER TABLE "refinement_history" DROP CONSTRAINT IF EXISTS "fk_refinement_history_section_id";
		 ALTER TABLE "refinement_history" ADD CONSTRAINT "fk_refinement_history_section_id"
		 FOREIGN KEY ("section_id") REFERENCES "section"("id") ON DELETE CASCADE`,
		`ALTER TABLE "section_feedback" DROP CONSTRAINT IF EXISTS "fk_section_feedback_section_id";
		 ALTER TABLE "section_feedback" ADD CONSTRAINT "fk_section_feedback_section_id"
		 FOREIGN KEY ("section_id") REFERENCES "section"("id") ON DELETE CASCADE`,
		`ALTER TABLE "section_comment" DROP CONSTRAINT IF EXISTS "fk_section_comment_section_id";
		 ALTER TABLE "section_comment" ADD CONSTRAINT "fk_section_comment_section_id"
		 FOREIGN KEY ("section_id") REFERENCES "section"("id") ON DELETE CASCADE`,
	}
	for _, stmt := range stmts {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to add foreign key constraint: %w", err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
