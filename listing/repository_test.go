package listing

import (
	"context"
	"testing"
	"time"

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
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormRepositoryRecent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormRepository(db, func(slug string) string { return "https://blog.example/posts/" + slug })
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "title", "slug", "comment_count", "views", "created_at"}).
		AddRow("p1", "First", "first", 2, 10, created).
		AddRow("p2", "Second", "second", 0, 3, created)
	mock.ExpectQuery(`SELECT .+ FROM "posts" WHERE published = \$1 AND id NOT IN \(\$2\) AND "posts"."deleted_at" IS NULL ORDER BY created_at DESC`).
		WillReturnRows(rows)

	args := DefaultArgs()
	args.Skips = []string{"p9"}
	items, err := repo.Recent(context.Background(), args)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://blog.example/posts/first", items[0].Permalink)
	assert.Equal(t, 2, items[0].CommentCount)
	assert.Equal(t, created, items[0].PostDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func newTestRepository(t *testing.T) (*GormRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewGormRepository(db, func(slug string) string { return "https://blog.example/posts/" + slug }), mock
}

func postRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "slug", "comment_count", "views", "created_at"}).
		AddRow("p2", "Second", "second", 9, 40, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
}

func TestGormRepositoryMostCommented(t *testing.T) {
	repo, mock := newTestRepository(t)
	mock.ExpectQuery(`SELECT .+ FROM "posts" WHERE published = \$1 AND "posts"."deleted_at" IS NULL ORDER BY comment_count DESC,created_at DESC LIMIT 5`).
		WithArgs(true).
		WillReturnRows(postRows())

	items, err := repo.MostCommented(context.Background(), DefaultArgs())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 9, items[0].CommentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepositoryMostViewedWithinDays(t *testing.T) {
	repo, mock := newTestRepository(t)
	fixed := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	mock.ExpectQuery(`SELECT .+ FROM "posts" WHERE published = \$1 AND created_at >= \$2 AND "posts"."deleted_at" IS NULL ORDER BY views DESC LIMIT 5`).
		WithArgs(true, fixed.AddDate(0, 0, -30)).
		WillReturnRows(postRows())

	items, err := repo.MostViewed(context.Background(), DefaultArgs())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 40, items[0].Views)

	// no window when Days is unset
	mock.ExpectQuery(`SELECT .+ FROM "posts" WHERE published = \$1 AND "posts"."deleted_at" IS NULL ORDER BY views DESC LIMIT 5`).
		WithArgs(true).
		WillReturnRows(postRows())
	args := DefaultArgs()
	args.Days = 0
	_, err = repo.MostViewed(context.Background(), args)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepositoryRelatedExcludesPost(t *testing.T) {
	repo, mock := newTestRepository(t)
	mock.ExpectQuery(`SELECT .+ FROM "posts" WHERE published = \$1 AND id NOT IN \(\$2,\$3\) AND id IN \(SELECT post_id FROM "post_tags" WHERE tag_id IN \(SELECT tag_id FROM "post_tags" WHERE post_id = \$4\)\) AND "posts"."deleted_at" IS NULL ORDER BY created_at DESC LIMIT 5`).
		WithArgs(true, "p9", "p1", "p1").
		WillReturnRows(postRows())

	args := DefaultArgs()
	args.Skips = []string{"p9"}
	items, err := repo.Related(context.Background(), "p1", args)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://blog.example/posts/second", items[0].Permalink)
	// caller's skips are not modified
	assert.Equal(t, []string{"p9"}, args.Skips)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepositoryRandom(t *testing.T) {
	repo, mock := newTestRepository(t)
	mock.ExpectQuery(`SELECT .+ FROM "posts" WHERE published = \$1 AND "posts"."deleted_at" IS NULL ORDER BY RANDOM\(\) LIMIT 5`).
		WithArgs(true).
		WillReturnRows(postRows())

	items, err := repo.Random(context.Background(), DefaultArgs())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepositorySameCategoryExcludesPost(t *testing.T) {
	repo, mock := newTestRepository(t)
	mock.ExpectQuery(`SELECT .+ FROM "posts" WHERE published = \$1 AND id NOT IN \(\$2\) AND id IN \(SELECT post_id FROM "post_categories" WHERE category_id IN \(SELECT category_id FROM "post_categories" WHERE post_id = \$3\)\) AND "posts"."deleted_at" IS NULL ORDER BY RANDOM\(\) LIMIT 5`).
		WithArgs(true, "p1", "p1").
		WillReturnRows(postRows())

	items, err := repo.SameCategory(context.Background(), "p1", DefaultArgs())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepositoryRecentComments(t *testing.T) {
	repo, mock := newTestRepository(t)
	created := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "post_id", "author_name", "author_email", "content", "created_at", "post_title", "post_slug"}).
		AddRow("c1", "p1", "Ann", "ann@example.com", "Nice", created, "Hello", "hello")
	mock.ExpectQuery(`SELECT comments\.id, .+ FROM "comments" JOIN posts ON posts\.id = comments\.post_id WHERE \(posts\.published = \$1 AND posts\.deleted_at IS NULL AND comments\.deleted_at IS NULL\) AND comments\.author_email NOT IN \(\$2\) ORDER BY comments\.created_at DESC LIMIT 5`).
		WithArgs(true, "admin@example.com").
		WillReturnRows(rows)

	args := DefaultCommentArgs()
	args.SkipEmails = []string{"admin@example.com"}
	items, err := repo.RecentComments(context.Background(), args)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://blog.example/posts/hello#comment-c1", items[0].Permalink)
	assert.Equal(t, "Hello", items[0].PostTitle)
	assert.Equal(t, created, items[0].Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}
