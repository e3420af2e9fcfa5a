package group

import (
	"context"
	"errors"
	"testing"

	"groupRecommender/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGroupRepo struct {
	groups    map[string]domain.Group
	upserts   int
	upsertErr error
}

func (f *fakeGroupRepo) GetByCity(_ context.Context, city string) ([]domain.Group, error) {
	var out []domain.Group
	for _, id := range []string{"g1", "g2", "g3", "g4"} {
		if g, ok := f.groups[id]; ok && g.Location.City == city {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id string) (*domain.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	return &g, nil
}

func (f *fakeGroupRepo) Upsert(_ context.Context, g *domain.Group) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	f.groups[g.ID] = *g
	return nil
}

type fakeEmbedder struct {
	err     error
	singles int
	batches [][]string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.singles++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.batches = append(f.batches, texts)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 2}
	}
	return out, nil
}

func seededRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: map[string]domain.Group{
		"g1": {ID: "g1", Name: "Hikers", Description: "trail walks", Location: domain.Location{City: "Denver"}},
		"g2": {ID: "g2", Name: "Quiet", Description: "", Location: domain.Location{City: "Denver"}},
		"g3": {ID: "g3", Name: "Chess", Description: "rapid games", Location: domain.Location{City: "Denver"}},
		"g4": {ID: "g4", Name: "Elsewhere", Description: "far away", Location: domain.Location{City: "Austin"}},
	}}
}

func TestUpsertGroupEmbedsDescription(t *testing.T) {
	repo := &fakeGroupRepo{groups: map[string]domain.Group{}}
	emb := &fakeEmbedder{}
	svc := NewGroupService(repo, emb)

	g, err := svc.UpsertGroup(context.Background(), &domain.Group{
		Name:        " Salsa Nights ",
		Description: "dance",
		GroupType:   "party",
		Location:    domain.Location{City: "Austin"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "Salsa Nights", g.Name)
	assert.Equal(t, domain.GroupTypeSocial, g.GroupType)
	assert.Equal(t, []float32{5, 1}, []float32(g.Embedding))
	assert.Equal(t, 1, emb.singles)
	assert.Contains(t, repo.groups, g.ID)
}

func TestUpsertGroupKeepsSuppliedVector(t *testing.T) {
	repo := &fakeGroupRepo{groups: map[string]domain.Group{}}
	emb := &fakeEmbedder{}
	svc := NewGroupService(repo, emb)

	g, err := svc.UpsertGroup(context.Background(), &domain.Group{
		ID:          "g9",
		Name:        "Makers",
		Description: "build things",
		GroupType:   domain.GroupTypeHobby,
		Location:    domain.Location{City: "Austin"},
		Embedding:   []float32{0.1, 0.2},
	})
	require.NoError(t, err)

	assert.Equal(t, "g9", g.ID)
	assert.Equal(t, domain.GroupTypeHobby, g.GroupType)
	assert.Equal(t, []float32{0.1, 0.2}, []float32(g.Embedding))
	assert.Zero(t, emb.singles)
}

func TestUpsertGroupEmbeddingFailureStillSaves(t *testing.T) {
	repo := &fakeGroupRepo{groups: map[string]domain.Group{}}
	svc := NewGroupService(repo, &fakeEmbedder{err: errors.New("provider down")})

	g, err := svc.UpsertGroup(context.Background(), &domain.Group{Name: "Book Club", Description: "novels", Location: domain.Location{City: "Austin"}})
	require.NoError(t, err)
	assert.False(t, g.HasEmbedding())
	assert.Equal(t, 1, repo.upserts)
}

func TestUpsertGroupValidation(t *testing.T) {
	svc := NewGroupService(&fakeGroupRepo{groups: map[string]domain.Group{}}, &fakeEmbedder{})

	_, err := svc.UpsertGroup(context.Background(), &domain.Group{Location: domain.Location{City: "Austin"}})
	assert.ErrorIs(t, err, ErrGroupNameRequired)

	_, err = svc.UpsertGroup(context.Background(), &domain.Group{Name: "x"})
	assert.ErrorIs(t, err, ErrGroupCityRequired)
}

func TestGetGroupByID(t *testing.T) {
	svc := NewGroupService(seededRepo(), &fakeEmbedder{})

	g, err := svc.GetGroupByID(context.Background(), "g3")
	require.NoError(t, err)
	assert.Equal(t, "Chess", g.Name)

	_, err = svc.GetGroupByID(context.Background(), "zzz")
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}

func TestListByCity(t *testing.T) {
	svc := NewGroupService(seededRepo(), &fakeEmbedder{})

	groups, err := svc.ListByCity(context.Background(), " Denver ")
	require.NoError(t, err)
	assert.Len(t, groups, 3)

	groups, err = svc.ListByCity(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestRegenerateEmbeddings(t *testing.T) {
	repo := seededRepo()
	emb := &fakeEmbedder{}
	svc := NewGroupService(repo, emb)

	n, err := svc.RegenerateEmbeddings(context.Background(), "Denver")
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	require.Len(t, emb.batches, 1)
	assert.Equal(t, []string{"trail walks", "rapid games"}, emb.batches[0])
	assert.Equal(t, []float32{11, 2}, []float32(repo.groups["g1"].Embedding))
	assert.False(t, repo.groups["g2"].HasEmbedding())
	assert.False(t, repo.groups["g4"].HasEmbedding())
}

func TestRegenerateEmbeddingsProviderError(t *testing.T) {
	repo := seededRepo()
	svc := NewGroupService(repo, &fakeEmbedder{err: errors.New("quota")})

	_, err := svc.RegenerateEmbeddings(context.Background(), "Denver")
	assert.ErrorContains(t, err, "quota")
	assert.Zero(t, repo.upserts)
}

func TestRegenerateEmbeddingsNothingToDo(t *testing.T) {
	emb := &fakeEmbedder{}
	svc := NewGroupService(seededRepo(), emb)

	n, err := svc.RegenerateEmbeddings(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, emb.batches)
}
