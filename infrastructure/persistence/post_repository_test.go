package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"social-hub/domain/model"
)

func TestPostRepository_Create_WritesPendingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewPostRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO posts`)).
		WithArgs("post-1", "42", "hello", nil, sqlmock.AnyArg(), model.PostStatusPending,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	post := &model.Post{
		ID:        "post-1",
		UserID:    "42",
		Content:   "hello",
		Platforms: []string{"facebook", "telegram"},
	}
	require.NoError(t, repository.Create(context.Background(), post))
	require.Equal(t, model.PostStatusPending, post.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Finalize_OnlyTouchesPendingRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewPostRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE posts SET status=$1, platform_post_ids=$2, error_details=$3, updated_at=$4 WHERE id=$5 AND status='pending'`)).
		WithArgs(model.PostStatusPartial,
			[]byte(`{"facebook":"fb-1"}`),
			[]byte(`{"twitter":"duplicate content"}`),
			sqlmock.AnyArg(), "post-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repository.Finalize(context.Background(), "post-1", model.PostStatusPartial,
		map[string]string{"facebook": "fb-1"},
		map[string]string{"twitter": "duplicate content"})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Finalize_SettledRowNotRewritten(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewPostRepository(db)

	// guard clause matches zero rows once the post has settled
	mock.ExpectExec(regexp.QuoteMeta(`AND status='pending'`)).
		WithArgs(model.PostStatusPosted, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "post-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repository.Finalize(context.Background(), "post-1", model.PostStatusPosted,
		map[string]string{}, map[string]string{})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewPostRepository(db)

	now := time.Now().UTC()
	columns := []string{"id", "user_id", "content", "image_url", "platforms", "status",
		"platform_post_ids", "error_details", "created_at", "updated_at"}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM posts WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`)).
		WithArgs("42", 20).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("post-2", "42", "second", nil, "{facebook}", model.PostStatusPosted,
				[]byte(`{"facebook":"fb-2"}`), []byte(`{}`), now, now).
			AddRow("post-1", "42", "first", "https://cdn.example.com/a.jpg", "{facebook,instagram}", model.PostStatusPartial,
				[]byte(`{"facebook":"fb-1"}`), []byte(`{"instagram":"instagram requires an image"}`), now.Add(-time.Hour), now.Add(-time.Hour)))

	posts, err := repository.ListByUser(context.Background(), "42", 0)

	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, "post-2", posts[0].ID)
	require.Equal(t, map[string]string{"facebook": "fb-2"}, posts[0].PlatformPostIDs)
	require.Nil(t, posts[0].ImageURL)
	require.Equal(t, model.PostStatusPartial, posts[1].Status)
	require.NotNil(t, posts[1].ImageURL)
	require.Equal(t, map[string]string{"instagram": "instagram requires an image"}, posts[1].ErrorDetails)
	require.NoError(t, mock.ExpectationsWereMet())
}
