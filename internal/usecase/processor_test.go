package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"resume-renderer/internal/domain"
	"resume-renderer/internal/layout"
)

// nullCanvas accepts every draw call and writes a fixed document.
type nullCanvas struct {
	pages     int
	finishErr error
}

func (c *nullCanvas) BeginPage()         { c.pages++ }
func (c *nullCanvas) PageWidth() float64 { return 210 }
func (c *nullCanvas) PageCount() int     { return c.pages }

func (c *nullCanvas) PlaceText(float64, float64, string, layout.Advance, layout.TextStyle)        {}
func (c *nullCanvas) PlaceWrappedText(float64, float64, string, layout.Advance, layout.TextStyle) {}
func (c *nullCanvas) DrawHorizontalRule(float64)                                                  {}
func (c *nullCanvas) AdvanceVertical(float64)                                                     {}
func (c *nullCanvas) SetHorizontalMargins(float64)                                                {}

func (c *nullCanvas) Finish(out io.Writer) error {
	if c.finishErr != nil {
		return c.finishErr
	}
	_, err := io.WriteString(out, "%PDF-1.3 fake")
	return err
}

type fakeCanvases struct {
	finishErr error
	newErr    error
	backends  []string
}

func (f *fakeCanvases) New(_ context.Context, backend string) (layout.Canvas, error) {
	f.backends = append(f.backends, backend)
	if f.newErr != nil {
		return nil, f.newErr
	}
	return &nullCanvas{finishErr: f.finishErr}, nil
}

type memRepo struct {
	mu       sync.Mutex
	jobs     map[uuid.UUID]domain.RenderJob
	statuses []string
	saveErr  error
}

func newMemRepo() *memRepo {
	return &memRepo{jobs: map[uuid.UUID]domain.RenderJob{}}
}

func (r *memRepo) Save(_ context.Context, j *domain.RenderJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, j.Status)
	if r.saveErr != nil {
		return r.saveErr
	}
	r.jobs[j.ID] = *j
	return nil
}

func (r *memRepo) Get(_ context.Context, id uuid.UUID) (*domain.RenderJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return &j, nil
}

type memArchive struct {
	keys []string
	err  error
}

func (a *memArchive) Store(_ context.Context, key string, data []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.keys = append(a.keys, key)
	return "mem://" + key, nil
}

func resume() *domain.Resume {
	return &domain.Resume{FullName: "Ada Lovelace", Skills: []domain.Skill{{Name: "Math"}}}
}

func TestProcessCompletes(t *testing.T) {
	repo := newMemRepo()
	archive := &memArchive{}
	canvases := &fakeCanvases{}
	p := NewProcessor(layout.NewEngine("test"), canvases, repo, archive, zaptest.NewLogger(t))

	job := domain.NewRenderJob("Ada Lovelace", "vector")
	pdf, err := p.Process(context.Background(), job, resume())
	require.NoError(t, err)

	assert.Equal(t, "%PDF-1.3 fake", string(pdf))
	assert.Equal(t, []string{"vector"}, canvases.backends)
	assert.Equal(t, domain.JobCompleted, job.Status)
	assert.Equal(t, int64(len(pdf)), job.FileSize)
	assert.Equal(t, job.ID.String()+".pdf", job.FileKey)
	assert.Equal(t, []string{job.FileKey}, archive.keys)
	assert.Equal(t, 1, job.Metadata["pages"])
	assert.Equal(t, []string{domain.JobRendering, domain.JobCompleted}, repo.statuses)

	stored, err := p.Job(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, stored.Status)
}

func TestProcessRenderFailure(t *testing.T) {
	repo := newMemRepo()
	archive := &memArchive{}
	boom := domain.NewRenderError(domain.ErrCodeFontLoad, "register fonts", errors.New("bad ttf"))
	p := NewProcessor(layout.NewEngine(""), &fakeCanvases{finishErr: boom}, repo, archive, zaptest.NewLogger(t))

	job := domain.NewRenderJob("Ada", "fpdf")
	_, err := p.Process(context.Background(), job, resume())
	require.Error(t, err)
	assert.True(t, domain.IsRenderError(err))
	assert.Equal(t, domain.JobFailed, job.Status)
	assert.Contains(t, job.Error, "bad ttf")
	assert.Empty(t, archive.keys)
	assert.Equal(t, []string{domain.JobRendering, domain.JobFailed}, repo.statuses)
}

func TestProcessUnknownBackend(t *testing.T) {
	p := NewProcessor(layout.NewEngine(""), &fakeCanvases{newErr: domain.ErrUnknownBackend}, nil, nil, nil)
	job := domain.NewRenderJob("Ada", "docx")
	_, err := p.Process(context.Background(), job, resume())
	assert.ErrorIs(t, err, domain.ErrUnknownBackend)
	assert.Equal(t, domain.JobFailed, job.Status)
}

func TestProcessSideEffectsAreBestEffort(t *testing.T) {
	repo := newMemRepo()
	repo.saveErr = errors.New("db down")
	archive := &memArchive{err: errors.New("bucket missing")}
	p := NewProcessor(layout.NewEngine(""), &fakeCanvases{}, repo, archive, zaptest.NewLogger(t))

	job := domain.NewRenderJob("Ada", "fpdf")
	pdf, err := p.Process(context.Background(), job, resume())
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, domain.JobCompleted, job.Status)
	assert.Empty(t, job.FileKey)
	assert.Equal(t, "bucket missing", job.Metadata["archive_error"])
}

func TestJobWithoutStore(t *testing.T) {
	p := NewProcessor(layout.NewEngine(""), &fakeCanvases{}, nil, nil, nil)
	_, err := p.Job(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrJobStoreDisabled)
}

func TestProcessNilMetadata(t *testing.T) {
	p := NewProcessor(layout.NewEngine(""), &fakeCanvases{}, nil, nil, nil)
	job := &domain.RenderJob{ID: uuid.New(), Backend: "fpdf"}
	_, err := p.Process(context.Background(), job, resume())
	require.NoError(t, err)
	assert.Contains(t, job.Metadata, "render_ms")
}
