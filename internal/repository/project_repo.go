package repository

import (
	"context"
	"errors"
	"time"

	"letsarc/internal/model"
	"letsarc/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var (
	// ErrProjectNotFound is returned when no project matches the given id or name.
	ErrProjectNotFound = errors.New("project not found")
	// ErrDuplicateProjectName is returned when project_name would no longer be unique.
	ErrDuplicateProjectName = errors.New("project name already exists")
	// ErrProjectCompleted is returned when advancing a project whose stages are all done.
	ErrProjectCompleted = errors.New("project already completed")
)

const pgUniqueViolation = "23505"

// UpdateParams carries a partial update. Nil fields keep the stored value;
// Progress, when present, overwrites the stored progress (a zero total keeps
// the stored total).
type UpdateParams struct {
	ProjectName   *string
	ClientName    *string
	FirstName     *string
	LastName      *string
	ContactNumber *string
	Email         *string
	Date          *string
	Progress      *model.Progress
}

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the admin_projects table if it does not exist yet.
func (r *ProjectRepository) EnsureSchema(ctx context.Context) error {
	query := `
        CREATE TABLE IF NOT EXISTS admin_projects (
            id TEXT PRIMARY KEY,
            project_name TEXT NOT NULL UNIQUE,
            client_name TEXT NOT NULL,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            contact_number TEXT NOT NULL,
            email TEXT NOT NULL,
            start_date TEXT NOT NULL,
            progress_completed INT NOT NULL DEFAULT 0,
            progress_total INT NOT NULL DEFAULT 12,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `
	if _, err := r.db.Exec(ctx, query); err != nil {
		r.logger.Error("Failed to ensure admin_projects schema", zap.Error(err))
		return err
	}
	return nil
}

const projectColumns = `
    id, project_name, client_name, first_name, last_name,
    contact_number, email, start_date,
    progress_completed, progress_total, created_at, updated_at
`

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID,
		&p.ProjectName,
		&p.ClientName,
		&p.FirstName,
		&p.LastName,
		&p.ContactNumber,
		&p.Email,
		&p.Date,
		&p.Progress.Completed,
		&p.Progress.Total,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// Insert stores a new project. The id is assigned here and never reused.
func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) (*model.Project, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("insert", "admin_projects", time.Since(start)) }()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	r.logger.Debug("Inserting project",
		zap.String("id", p.ID),
		zap.String("project_name", p.ProjectName),
		zap.String("client_name", p.ClientName),
	)

	query := `
        INSERT INTO admin_projects (
            id, project_name, client_name, first_name, last_name,
            contact_number, email, start_date,
            progress_completed, progress_total
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING ` + projectColumns

	created, err := scanProject(r.db.QueryRow(ctx, query,
		p.ID,
		p.ProjectName,
		p.ClientName,
		p.FirstName,
		p.LastName,
		p.ContactNumber,
		p.Email,
		p.Date,
		p.Progress.Completed,
		p.Progress.Total,
	))
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn("Duplicate project name", zap.String("project_name", p.ProjectName))
			return nil, ErrDuplicateProjectName
		}
		r.logger.Error("Failed to insert project", zap.Error(err))
		return nil, err
	}

	r.logger.Info("Project inserted successfully",
		zap.String("id", created.ID),
		zap.String("project_name", created.ProjectName),
	)
	return created, nil
}

// List returns every project. Order is unspecified; callers sort themselves.
func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("list", "admin_projects", time.Since(start)) }()

	query := `SELECT ` + projectColumns + ` FROM admin_projects`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list projects", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			r.logger.Error("Failed to scan project row", zap.Error(err))
			return nil, err
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetByID fetches one project by id.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("get_by_id", "admin_projects", time.Since(start)) }()

	query := `SELECT ` + projectColumns + ` FROM admin_projects WHERE id = $1`

	p, err := scanProject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		r.logger.Error("Failed to get project", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

// GetByName fetches one project by its unique name. Name lookups exist for
// the legacy name-keyed endpoints; everything else is id-based.
func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*model.Project, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("get_by_name", "admin_projects", time.Since(start)) }()

	query := `SELECT ` + projectColumns + ` FROM admin_projects WHERE project_name = $1`

	p, err := scanProject(r.db.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		r.logger.Error("Failed to get project by name", zap.String("project_name", name), zap.Error(err))
		return nil, err
	}
	return p, nil
}

// UpdateByID merges the given fields into the stored record and returns the
// updated project.
func (r *ProjectRepository) UpdateByID(ctx context.Context, id string, params UpdateParams) (*model.Project, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("update", "admin_projects", time.Since(start)) }()

	// Legacy edit payloads may carry only {progress: {completed}}; a zero
	// total means "keep the stored total", never "shrink the pipeline".
	var completed, total *int
	if params.Progress != nil {
		completed = &params.Progress.Completed
		if params.Progress.Total > 0 {
			total = &params.Progress.Total
		}
	}

	query := `
        UPDATE admin_projects SET
            project_name = COALESCE($2, project_name),
            client_name = COALESCE($3, client_name),
            first_name = COALESCE($4, first_name),
            last_name = COALESCE($5, last_name),
            contact_number = COALESCE($6, contact_number),
            email = COALESCE($7, email),
            start_date = COALESCE($8, start_date),
            progress_completed = COALESCE($9, progress_completed),
            progress_total = COALESCE($10, progress_total),
            updated_at = now()
        WHERE id = $1
        RETURNING ` + projectColumns

	p, err := scanProject(r.db.QueryRow(ctx, query,
		id,
		params.ProjectName,
		params.ClientName,
		params.FirstName,
		params.LastName,
		params.ContactNumber,
		params.Email,
		params.Date,
		completed,
		total,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateProjectName
		}
		r.logger.Error("Failed to update project", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	r.logger.Info("Project updated successfully", zap.String("id", p.ID))
	return p, nil
}

// Advance increments progress_completed by one, evaluated server-side so two
// concurrent advancements net two steps instead of one. The guard rejects
// advancement once every stage is done instead of clamping silently.
func (r *ProjectRepository) Advance(ctx context.Context, id string) (*model.Project, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("advance", "admin_projects", time.Since(start)) }()

	query := `
        UPDATE admin_projects
        SET progress_completed = progress_completed + 1,
            updated_at = now()
        WHERE id = $1 AND progress_completed < progress_total
        RETURNING ` + projectColumns

	p, err := scanProject(r.db.QueryRow(ctx, query, id))
	if err == nil {
		r.logger.Info("Project advanced",
			zap.String("id", p.ID),
			zap.Int("completed", p.Progress.Completed),
			zap.Int("total", p.Progress.Total),
		)
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error("Failed to advance project", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// No row matched: either the id is unknown or the project is completed.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrProjectCompleted
}

// DeleteByID removes a project permanently.
func (r *ProjectRepository) DeleteByID(ctx context.Context, id string) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("delete", "admin_projects", time.Since(start)) }()

	tag, err := r.db.Exec(ctx, `DELETE FROM admin_projects WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.String("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	r.logger.Info("Project deleted", zap.String("id", id))
	return nil
}
