package generator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezbjus/bariwikiemerg/internal/domain"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// termRepoMock implements termRepo with overridable function fields.
type termRepoMock struct {
	GetByIDFunc                func(ctx context.Context, id uuid.UUID) (*domain.Term, error)
	UpdateFunc                 func(ctx context.Context, id uuid.UUID, patch domain.TermPatch) (*domain.Term, error)
	NamesFunc                  func(ctx context.Context, exclude uuid.UUID, limit int) ([]string, error)
	FindWithoutDescriptionFunc func(ctx context.Context, limit int) ([]domain.Term, error)
	StatsFunc                  func(ctx context.Context) (domain.Stats, error)
}

func (m *termRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *termRepoMock) Update(ctx context.Context, id uuid.UUID, patch domain.TermPatch) (*domain.Term, error) {
	return m.UpdateFunc(ctx, id, patch)
}

func (m *termRepoMock) Names(ctx context.Context, exclude uuid.UUID, limit int) ([]string, error) {
	return m.NamesFunc(ctx, exclude, limit)
}

func (m *termRepoMock) FindWithoutDescription(ctx context.Context, limit int) ([]domain.Term, error) {
	return m.FindWithoutDescriptionFunc(ctx, limit)
}

func (m *termRepoMock) Stats(ctx context.Context) (domain.Stats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return domain.Stats{}, nil
}

// generatorMock implements ContentGenerator.
type generatorMock struct {
	GenerateFunc func(ctx context.Context, termName string, availableTerms []string) (*Content, error)
}

func (m *generatorMock) Generate(ctx context.Context, termName string, availableTerms []string) (*Content, error) {
	return m.GenerateFunc(ctx, termName, availableTerms)
}

func newTestService(repo termRepo, gen ContentGenerator) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, repo, gen, 15)
}

// ---------------------------------------------------------------------------
// GenerateForTerm tests
// ---------------------------------------------------------------------------

func TestService_GenerateForTerm_MergesContent(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &termRepoMock{
		GetByIDFunc: func(ctx context.Context, got uuid.UUID) (*domain.Term, error) {
			return &domain.Term{ID: id, Name: "Gastric Bypass", Status: domain.StatusDraft}, nil
		},
		NamesFunc: func(ctx context.Context, exclude uuid.UUID, limit int) ([]string, error) {
			assert.Equal(t, id, exclude)
			assert.Equal(t, hintFetchLimit, limit)
			return []string{"Sleeve Gastrectomy", "Hernia"}, nil
		},
		UpdateFunc: func(ctx context.Context, got uuid.UUID, patch domain.TermPatch) (*domain.Term, error) {
			require.NotNil(t, patch.Description)
			assert.Equal(t, "<p>Entry.</p>", *patch.Description)
			require.NotNil(t, patch.MetaDescription)
			assert.Equal(t, "Short.", *patch.MetaDescription)
			require.NotNil(t, patch.Category)
			assert.Equal(t, "Procedures", *patch.Category)
			assert.Nil(t, patch.Status)
			assert.Nil(t, patch.Name)
			assert.Nil(t, patch.Slug)
			return &domain.Term{ID: got, Category: *patch.Category}, nil
		},
	}

	gen := &generatorMock{
		GenerateFunc: func(ctx context.Context, termName string, availableTerms []string) (*Content, error) {
			assert.Equal(t, "Gastric Bypass", termName)
			assert.Equal(t, []string{"Sleeve Gastrectomy", "Hernia"}, availableTerms)
			return &Content{
				Description:      "<p>Entry.</p>",
				ShortDescription: "Short.",
				Category:         "Procedures",
				RelatedTerms:     []string{"Sleeve Gastrectomy"},
			}, nil
		},
	}

	svc := newTestService(repo, gen)
	_, err := svc.GenerateForTerm(context.Background(), id)
	require.NoError(t, err)
}

func TestService_GenerateForTerm_TruncatesHints(t *testing.T) {
	t.Parallel()

	names := make([]string, hintFetchLimit)
	for i := range names {
		names[i] = "term"
	}

	repo := &termRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
			return &domain.Term{ID: id, Name: "Hernia"}, nil
		},
		NamesFunc: func(ctx context.Context, exclude uuid.UUID, limit int) ([]string, error) {
			return names, nil
		},
		UpdateFunc: func(ctx context.Context, id uuid.UUID, patch domain.TermPatch) (*domain.Term, error) {
			return &domain.Term{ID: id}, nil
		},
	}

	gen := &generatorMock{
		GenerateFunc: func(ctx context.Context, termName string, availableTerms []string) (*Content, error) {
			assert.Len(t, availableTerms, 15)
			return &Content{}, nil
		},
	}

	svc := newTestService(repo, gen)
	_, err := svc.GenerateForTerm(context.Background(), uuid.New())
	require.NoError(t, err)
}

func TestService_GenerateForTerm_NotConfigured(t *testing.T) {
	t.Parallel()

	svc := newTestService(&termRepoMock{}, nil)
	_, err := svc.GenerateForTerm(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNotConfigured)
	assert.False(t, svc.Enabled())
}

func TestService_GenerateForTerm_TermNotFound(t *testing.T) {
	t.Parallel()

	repo := &termRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc := newTestService(repo, &generatorMock{})
	_, err := svc.GenerateForTerm(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_GenerateForTerm_BackendError(t *testing.T) {
	t.Parallel()

	repo := &termRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
			return &domain.Term{ID: id, Name: "Hernia"}, nil
		},
		NamesFunc: func(ctx context.Context, exclude uuid.UUID, limit int) ([]string, error) {
			return nil, nil
		},
	}

	gen := &generatorMock{
		GenerateFunc: func(ctx context.Context, termName string, availableTerms []string) (*Content, error) {
			return nil, domain.ErrGeneration
		},
	}

	svc := newTestService(repo, gen)
	_, err := svc.GenerateForTerm(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrGeneration)
}

func TestService_GenerateForTerm_DefaultsEmptyFields(t *testing.T) {
	t.Parallel()

	repo := &termRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
			return &domain.Term{ID: id, Name: "Hernia"}, nil
		},
		NamesFunc: func(ctx context.Context, exclude uuid.UUID, limit int) ([]string, error) {
			return nil, nil
		},
		UpdateFunc: func(ctx context.Context, id uuid.UUID, patch domain.TermPatch) (*domain.Term, error) {
			require.NotNil(t, patch.Category)
			assert.Equal(t, domain.DefaultCategory, *patch.Category)
			require.NotNil(t, patch.RelatedTerms)
			assert.Empty(t, *patch.RelatedTerms)
			require.NotNil(t, patch.AuthorityLinks)
			assert.Empty(t, *patch.AuthorityLinks)
			return &domain.Term{ID: id}, nil
		},
	}

	gen := &generatorMock{
		GenerateFunc: func(ctx context.Context, termName string, availableTerms []string) (*Content, error) {
			return &Content{}, nil
		},
	}

	svc := newTestService(repo, gen)
	_, err := svc.GenerateForTerm(context.Background(), uuid.New())
	require.NoError(t, err)
}

// ---------------------------------------------------------------------------
// RunBatch tests
// ---------------------------------------------------------------------------

func TestService_RunBatch_SingleRound(t *testing.T) {
	t.Parallel()

	batch := []domain.Term{
		{ID: uuid.New(), Name: "Hernia"},
		{ID: uuid.New(), Name: "Anastomosis"},
	}
	calls := 0

	repo := &termRepoMock{
		FindWithoutDescriptionFunc: func(ctx context.Context, limit int) ([]domain.Term, error) {
			calls++
			if calls == 1 {
				return batch, nil
			}
			return nil, nil
		},
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
			return &domain.Term{ID: id, Name: "x"}, nil
		},
		NamesFunc: func(ctx context.Context, exclude uuid.UUID, limit int) ([]string, error) {
			return nil, nil
		},
		UpdateFunc: func(ctx context.Context, id uuid.UUID, patch domain.TermPatch) (*domain.Term, error) {
			return &domain.Term{ID: id}, nil
		},
	}

	gen := &generatorMock{
		GenerateFunc: func(ctx context.Context, termName string, availableTerms []string) (*Content, error) {
			return &Content{Description: "<p>x</p>"}, nil
		},
	}

	svc := newTestService(repo, gen)
	res, err := svc.RunBatch(context.Background(), BatchOptions{BatchSize: 10})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 0, res.Failed)
	// One round only without Continuous.
	assert.Equal(t, 1, calls)
}

func TestService_RunBatch_CountsFailures(t *testing.T) {
	t.Parallel()

	batch := []domain.Term{
		{ID: uuid.New(), Name: "Hernia"},
		{ID: uuid.New(), Name: "Anastomosis"},
	}

	fail := true
	repo := &termRepoMock{
		FindWithoutDescriptionFunc: func(ctx context.Context, limit int) ([]domain.Term, error) {
			return batch, nil
		},
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
			return &domain.Term{ID: id, Name: "x"}, nil
		},
		NamesFunc: func(ctx context.Context, exclude uuid.UUID, limit int) ([]string, error) {
			return nil, nil
		},
		UpdateFunc: func(ctx context.Context, id uuid.UUID, patch domain.TermPatch) (*domain.Term, error) {
			return &domain.Term{ID: id}, nil
		},
	}

	gen := &generatorMock{
		GenerateFunc: func(ctx context.Context, termName string, availableTerms []string) (*Content, error) {
			fail = !fail
			if fail {
				return nil, domain.ErrGeneration
			}
			return &Content{}, nil
		},
	}

	svc := newTestService(repo, gen)
	res, err := svc.RunBatch(context.Background(), BatchOptions{BatchSize: 10})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
}

func TestService_RunBatch_ContinuousStopsWhenNothingSucceeds(t *testing.T) {
	t.Parallel()

	rounds := 0
	repo := &termRepoMock{
		FindWithoutDescriptionFunc: func(ctx context.Context, limit int) ([]domain.Term, error) {
			rounds++
			return []domain.Term{{ID: uuid.New(), Name: "Hernia"}}, nil
		},
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
			return &domain.Term{ID: id, Name: "Hernia"}, nil
		},
		NamesFunc: func(ctx context.Context, exclude uuid.UUID, limit int) ([]string, error) {
			return nil, nil
		},
	}

	gen := &generatorMock{
		GenerateFunc: func(ctx context.Context, termName string, availableTerms []string) (*Content, error) {
			return nil, errors.New("over quota")
		},
	}

	svc := newTestService(repo, gen)
	res, err := svc.RunBatch(context.Background(), BatchOptions{BatchSize: 10, Continuous: true})

	require.NoError(t, err)
	assert.Equal(t, 1, rounds)
	assert.Equal(t, 1, res.Failed)
}

func TestService_RunBatch_DryRun(t *testing.T) {
	t.Parallel()

	repo := &termRepoMock{
		StatsFunc: func(ctx context.Context) (domain.Stats, error) {
			return domain.Stats{Total: 10, Published: 4, Drafts: 6, Categories: 3}, nil
		},
		FindWithoutDescriptionFunc: func(ctx context.Context, limit int) ([]domain.Term, error) {
			t.Fatal("dry run must not fetch terms")
			return nil, nil
		},
	}

	// Dry run works even without a configured backend.
	svc := newTestService(repo, nil)
	res, err := svc.RunBatch(context.Background(), BatchOptions{DryRun: true})

	require.NoError(t, err)
	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 10, res.Stats.Total)
}

func TestService_RunBatch_CancelledContext(t *testing.T) {
	t.Parallel()

	repo := &termRepoMock{
		FindWithoutDescriptionFunc: func(ctx context.Context, limit int) ([]domain.Term, error) {
			return []domain.Term{{ID: uuid.New()}, {ID: uuid.New()}}, nil
		},
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
			return &domain.Term{ID: id}, nil
		},
		NamesFunc: func(ctx context.Context, exclude uuid.UUID, limit int) ([]string, error) {
			return nil, nil
		},
		UpdateFunc: func(ctx context.Context, id uuid.UUID, patch domain.TermPatch) (*domain.Term, error) {
			return &domain.Term{ID: id}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	gen := &generatorMock{
		GenerateFunc: func(ctx context.Context, termName string, availableTerms []string) (*Content, error) {
			cancel()
			return &Content{}, nil
		},
	}

	svc := newTestService(repo, gen)
	_, err := svc.RunBatch(ctx, BatchOptions{BatchSize: 10})
	require.ErrorIs(t, err, context.Canceled)
}
