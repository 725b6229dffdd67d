package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-renderer/internal/domain"
	"resume-renderer/internal/infrastructure/logger"
	"resume-renderer/internal/model"
)

// Renderer is the slice of usecase.Processor the handler needs.
type Renderer interface {
	Process(ctx context.Context, job *domain.RenderJob, resume *domain.Resume) ([]byte, error)
	Job(ctx context.Context, id uuid.UUID) (*domain.RenderJob, error)
}

type Handler struct {
	renderer Renderer
	backend  string
}

// NewHandler serves renders on backend unless a request overrides it.
func NewHandler(r Renderer, backend string) *Handler {
	return &Handler{renderer: r, backend: backend}
}

// Register mounts the routes on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/healthz", h.Health)

	api := app.Group("/api/v1")
	api.Post("/resume", h.RenderResume)
	api.Get("/resume/jobs/:id", h.GetJob)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// RenderResume validates the posted resume and answers with the PDF.
func (h *Handler) RenderResume(c *fiber.Ctx) error {
	log := logger.FromFiber(c)

	resume, err := model.Decode(c.Body())
	if err != nil {
		var verr *model.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   "invalid resume",
				"details": verr.Details,
			})
		case errors.Is(err, model.ErrMalformedBody):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	backend := c.Query("backend", h.backend)
	job := domain.NewRenderJob(resume.FullName, backend)
	pdf, err := h.renderer.Process(c.UserContext(), job, resume)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownBackend) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Error("render resume failed", zap.String("job_id", job.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render resume"})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="resume.pdf"`)
	c.Set("X-Render-Job-ID", job.ID.String())
	return c.Status(fiber.StatusOK).Send(pdf)
}

func (h *Handler) GetJob(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid job id"})
	}

	job, err := h.renderer.Job(c.UserContext(), id)
	switch {
	case errors.Is(err, domain.ErrJobNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrJobStoreDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		logger.FromFiber(c).Error("load render job failed", zap.String("job_id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load job"})
	}
	return c.JSON(job)
}
