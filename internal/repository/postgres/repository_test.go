package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"groupRecommender/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func q(sql string) string {
	return regexp.QuoteMeta(sql)
}

// ---- Groups ----

func TestGroupRepository_GetByCity(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "description", "group_type", "city", "state", "group_size_category", "embedding"}).
		AddRow("g1", "Hikers", "trail walks", "hobby", "Denver", "CO", "large", []byte(`[0.5,1]`)).
		AddRow("g2", "Mystery", "", "", "Denver", "CO", "", []byte(`[]`))

	mock.ExpectQuery(q(`SELECT * FROM "groups" WHERE city = $1 ORDER BY id ASC`)).
		WithArgs("Denver").
		WillReturnRows(rows)

	groups, err := repo.GetByCity(context.Background(), "Denver")
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "g1", groups[0].ID)
	assert.Equal(t, domain.GroupTypeHobby, groups[0].GroupType)
	assert.Equal(t, domain.Location{City: "Denver", State: "CO"}, groups[0].Location)
	assert.Equal(t, []float32{0.5, 1}, []float32(groups[0].Embedding))
	assert.True(t, groups[0].HasEmbedding())

	// an unknown type reads back as social
	assert.Equal(t, domain.GroupTypeSocial, groups[1].GroupType)
	assert.False(t, groups[1].HasEmbedding())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_GetByCityEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository(db)

	mock.ExpectQuery(q(`SELECT * FROM "groups" WHERE city = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	groups, err := repo.GetByCity(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_GetByCityError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository(db)

	mock.ExpectQuery(q(`SELECT * FROM "groups"`)).WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByCity(context.Background(), "Denver")
	assert.ErrorContains(t, err, "connection reset")
}

func TestGroupRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository(db)

	mock.ExpectQuery(q(`SELECT * FROM "groups" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "group_type"}).AddRow("g1", "Hikers", "sport"))

	g, err := repo.GetByID(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "Hikers", g.Name)
	assert.Equal(t, domain.GroupTypeSport, g.GroupType)

	mock.ExpectQuery(q(`SELECT * FROM "groups" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository(db)

	mock.ExpectExec(q(`INSERT INTO "groups"`) + `.*` + q(`ON CONFLICT ("id") DO UPDATE SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &domain.Group{
		ID:        "g1",
		Name:      "Hikers",
		GroupType: domain.GroupTypeHobby,
		Location:  domain.Location{City: "Denver"},
		Topics:    []string{"outdoors"},
		Embedding: []float32{1, 0},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---- Users ----

func TestUserRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "role", "personality_scores", "interests", "city", "state", "social_needs", "motivations"}).
		AddRow("u-1", "Sam", "user",
			[]byte(`{"extraversion":10,"conscientiousness":12,"openness":14}`),
			[]byte(`["hiking","jazz"]`),
			"Austin", "TX",
			[]byte(`{"loneliness_frequency":4}`),
			[]byte(`null`),
		)

	mock.ExpectQuery(q(`SELECT * FROM "users" WHERE id = $1`)).
		WillReturnRows(rows)

	u, err := repo.FindByID(context.Background(), "u-1")
	require.NoError(t, err)

	profile := u.Profile()
	assert.Equal(t, &domain.TraitScores{Extraversion: 10, Conscientiousness: 12, Openness: 14}, profile.Personality)
	assert.Equal(t, []string{"hiking", "jazz"}, profile.Interests)
	assert.Equal(t, "Austin", profile.Location.City)
	require.NotNil(t, profile.SocialNeeds)
	assert.Equal(t, 4, *profile.SocialNeeds.LonelinessFrequency)
	assert.Nil(t, profile.Motivations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(q(`SELECT * FROM "users"`)).WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.FindByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(q(`INSERT INTO "users"`)).WillReturnResult(sqlmock.NewResult(0, 1))

	u := &domain.User{ID: "u-1", Name: "Sam", Role: domain.RoleUser}
	u.SetTraits(&domain.TraitScores{Extraversion: 8, Conscientiousness: 8, Openness: 8})

	require.NoError(t, repo.Create(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(q(`UPDATE "users" SET`) + `.*` + q(`WHERE id = $`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &domain.User{ID: "u-1", Name: "Sam"}
	require.NoError(t, repo.Update(context.Background(), u))
	assert.False(t, u.UpdatedAt.IsZero())

	mock.ExpectExec(q(`UPDATE "users" SET`)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Update(context.Background(), &domain.User{ID: "ghost"}), domain.ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---- Feedback ----

func TestFeedbackRepository_GetByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFeedbackRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "test_id", "variant_a_group_id", "variant_b_group_id", "selected_variant", "reason", "created_at"}).
		AddRow("r2", "u-1", "t2", "g3", "g4", "B", `["more_casual"]`, now).
		AddRow("r1", "u-1", "t1", "g1", "g2", "A", "", now.Add(-time.Hour))

	mock.ExpectQuery(q(`SELECT * FROM "ab_test_results" WHERE user_id = $1 ORDER BY created_at DESC, id DESC`)).
		WithArgs("u-1").
		WillReturnRows(rows)

	records, err := repo.GetByUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "r2", records[0].ID)

	codes, payload := records[0].ParseReasons()
	assert.Equal(t, domain.ReasonList, payload)
	assert.Equal(t, []string{domain.ReasonMoreCasual}, codes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepository_GetAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFeedbackRepository(db)

	mock.ExpectQuery(q(`SELECT * FROM "ab_test_results" ORDER BY created_at DESC, id DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow("r1", "u-1").AddRow("r2", "u-2"))

	records, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFeedbackRepository(db)

	mock.ExpectExec(q(`INSERT INTO "ab_test_results"`)).WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), &domain.FeedbackRecord{
		ID: "r1", UserID: "u-1", TestID: "t1",
		VariantAGroupID: "g1", VariantBGroupID: "g2", SelectedVariant: "A",
	})
	require.NoError(t, err)

	mock.ExpectExec(q(`INSERT INTO "ab_test_results"`)).WillReturnError(errors.New("duplicate key"))
	err = repo.Save(context.Background(), &domain.FeedbackRecord{ID: "r1"})
	assert.ErrorContains(t, err, "duplicate key")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---- Learning policies ----

func TestLearningPolicyRepository_GetPolicy(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLearningPolicyRepository(db)

	mock.ExpectQuery(q(`SELECT * FROM "user_learning_policies" WHERE user_id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "policy"}).AddRow("u-1", "simple"))

	policy, ok, err := repo.GetPolicy(context.Background(), "u-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.PolicySimple, policy)

	mock.ExpectQuery(q(`SELECT * FROM "user_learning_policies"`)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "policy"}))

	_, ok, err = repo.GetPolicy(context.Background(), "u-2")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectQuery(q(`SELECT * FROM "user_learning_policies"`)).WillReturnError(errors.New("boom"))
	_, _, err = repo.GetPolicy(context.Background(), "u-3")
	assert.ErrorContains(t, err, "boom")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLearningPolicyRepository_UpsertPolicy(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLearningPolicyRepository(db)

	mock.ExpectExec(q(`INSERT INTO "user_learning_policies"`) + `.*` + q(`ON CONFLICT ("user_id") DO UPDATE SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertPolicy(context.Background(), domain.UserLearningPolicy{UserID: "u-1", Policy: domain.PolicyAdaptive})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
