package usecase

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-renderer/internal/domain"
	"resume-renderer/internal/layout"
)

type CanvasFactory interface {
	New(ctx context.Context, backend string) (layout.Canvas, error)
}

type JobsRepo interface {
	Save(ctx context.Context, j *domain.RenderJob) error
	Get(ctx context.Context, id uuid.UUID) (*domain.RenderJob, error)
}

// Archive keeps a copy of each produced document.
type Archive interface {
	Store(ctx context.Context, key string, data []byte) (string, error)
}

type pageCounter interface {
	PageCount() int
}

type Processor struct {
	engine   *layout.Engine
	canvases CanvasFactory
	repo     JobsRepo
	archive  Archive
	logger   *zap.Logger
}

// NewProcessor wires a render pipeline. repo and archive may be nil.
func NewProcessor(engine *layout.Engine, canvases CanvasFactory, repo JobsRepo, archive Archive, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{engine: engine, canvases: canvases, repo: repo, archive: archive, logger: logger}
}

// Process renders resume for job and returns the PDF bytes. The job's status,
// storage key and error are updated in place and saved best-effort.
func (p *Processor) Process(ctx context.Context, job *domain.RenderJob, resume *domain.Resume) ([]byte, error) {
	log := p.logger.With(zap.String("job_id", job.ID.String()), zap.String("backend", job.Backend))
	if job.Metadata == nil {
		job.Metadata = map[string]interface{}{}
	}

	job.Transition(domain.JobRendering)
	p.save(ctx, job, log)
	log.Info("render started")

	start := time.Now()
	pdf, pages, err := p.render(ctx, job.Backend, resume)
	elapsed := time.Since(start)
	job.Metadata["render_ms"] = elapsed.Milliseconds()
	if err != nil {
		job.Fail(err)
		p.save(ctx, job, log)
		log.Error("render failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return nil, err
	}
	if pages > 0 {
		job.Metadata["pages"] = pages
	}
	job.FileSize = int64(len(pdf))

	if p.archive != nil {
		key := job.ID.String() + ".pdf"
		if loc, err := p.archive.Store(ctx, key, pdf); err != nil {
			log.Warn("archive document failed", zap.String("key", key), zap.Error(err))
			job.Metadata["archive_error"] = err.Error()
		} else {
			job.FileKey = key
			job.Metadata["location"] = loc
		}
	}

	job.Transition(domain.JobCompleted)
	p.save(ctx, job, log)
	log.Info("render completed",
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", pages),
		zap.Duration("elapsed", elapsed),
	)
	return pdf, nil
}

func (p *Processor) render(ctx context.Context, backend string, resume *domain.Resume) ([]byte, int, error) {
	canvas, err := p.canvases.New(ctx, backend)
	if err != nil {
		return nil, 0, err
	}
	var buf bytes.Buffer
	if err := p.engine.Render(resume, canvas, &buf); err != nil {
		return nil, 0, fmt.Errorf("render resume: %w", err)
	}
	pages := 0
	if pc, ok := canvas.(pageCounter); ok {
		pages = pc.PageCount()
	}
	return buf.Bytes(), pages, nil
}

func (p *Processor) save(ctx context.Context, job *domain.RenderJob, log *zap.Logger) {
	if p.repo == nil {
		return
	}
	if err := p.repo.Save(ctx, job); err != nil {
		log.Warn("save render job failed", zap.String("status", job.Status), zap.Error(err))
	}
}

// Job looks a render job up by id.
func (p *Processor) Job(ctx context.Context, id uuid.UUID) (*domain.RenderJob, error) {
	if p.repo == nil {
		return nil, domain.ErrJobStoreDisabled
	}
	return p.repo.Get(ctx, id)
}
