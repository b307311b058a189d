package repository

import (
	"testing"
	"time"

	"vidshare/internal/model"
	"vidshare/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Email: name + "@x.com", Password: "hash"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedVideo(t *testing.T, db *gorm.DB, owner int64, title string, uploadedAt time.Time) *model.Video {
	t.Helper()
	v := &model.Video{
		UserID:     owner,
		Title:      title,
		Category:   model.CategoryOthers,
		Privacy:    model.PrivacyPublic,
		VideoURL:   "http://blob/media/videos/" + title + ".mp4",
		UploadedAt: uploadedAt,
	}
	require.NoError(t, db.Create(v).Error)
	return v
}

func TestUserRepository_UniqueEmailAndUsername(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(&model.User{Username: "alice", Email: "a@x.com", Password: "h"}))

	err := repo.Create(&model.User{Username: "alice", Email: "b@x.com", Password: "h"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	err = repo.Create(&model.User{Username: "bob", Email: "a@x.com", Password: "h"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	exists, err := repo.ExistsByEmail("a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestReactionRepository_Toggle(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReactionRepository(db)
	u := seedUser(t, db, "alice")
	v := seedVideo(t, db, u.ID, "cats", time.Now())

	state, err := repo.Toggle(u.ID, v.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionLiked, state)

	// 同极性再次操作 -> 取消
	state, err = repo.Toggle(u.ID, v.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionNone, state)

	likes, dislikes, err := repo.Counts(v.ID)
	require.NoError(t, err)
	assert.Zero(t, likes)
	assert.Zero(t, dislikes)

	// 点赞后点踩 -> 翻转为一条点踩
	_, err = repo.Toggle(u.ID, v.ID, true)
	require.NoError(t, err)
	state, err = repo.Toggle(u.ID, v.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionDisliked, state)

	likes, dislikes, err = repo.Counts(v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), likes)
	assert.Equal(t, int64(1), dislikes)

	var rows int64
	require.NoError(t, db.Model(&model.Reaction{}).Where("user_id = ? AND video_id = ?", u.ID, v.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestReactionRepository_UniquePerUserVideo(t *testing.T) {
	db := testutil.NewDB(t)
	u := seedUser(t, db, "alice")
	v := seedVideo(t, db, u.ID, "cats", time.Now())

	require.NoError(t, db.Create(&model.Reaction{UserID: u.ID, VideoID: v.ID, IsLike: true}).Error)
	err := db.Create(&model.Reaction{UserID: u.ID, VideoID: v.ID, IsLike: false}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestHistoryRepository_Upsert(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewHistoryRepository(db)
	u := seedUser(t, db, "alice")
	v := seedVideo(t, db, u.ID, "cats", time.Now())

	first := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	require.NoError(t, repo.Upsert(u.ID, v.ID, first))
	require.NoError(t, repo.Upsert(u.ID, v.ID, later))

	entries, err := repo.ListByUser(u.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].WatchedAt.Equal(later))
	assert.Equal(t, "cats", entries[0].Video.Title)

	n, err := repo.Clear(u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	entries, err = repo.ListByUser(u.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryRepository_NewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewHistoryRepository(db)
	u := seedUser(t, db, "alice")
	older := seedVideo(t, db, u.ID, "older", time.Now())
	newer := seedVideo(t, db, u.ID, "newer", time.Now())

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(u.ID, older.ID, base))
	require.NoError(t, repo.Upsert(u.ID, newer.ID, base.Add(time.Minute)))

	entries, err := repo.ListByUser(u.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, newer.ID, entries[0].VideoID)
	assert.Equal(t, older.ID, entries[1].VideoID)
}

func TestFollowRepository_Unique(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")

	_, err := repo.Create(a.ID, b.ID)
	require.NoError(t, err)
	_, err = repo.Create(a.ID, b.ID)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	count, err := repo.CountFollowers(b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	deleted, err := repo.Delete(a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestVideoRepository_ListAndViews(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewVideoRepository(db)
	u := seedUser(t, db, "alice")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first := seedVideo(t, db, u.ID, "first", base)
	second := seedVideo(t, db, u.ID, "second", base.Add(time.Hour))

	videos, err := repo.ListByUser(u.ID)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, second.ID, videos[0].ID)
	assert.Equal(t, first.ID, videos[1].ID)

	views, err := repo.IncrementViews(first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), views)

	_, err = repo.IncrementViews(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	byCategory, err := repo.ListByCategoryRandom(model.CategoryOthers)
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)
}

func TestVideoRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewVideoRepository(db)
	u := seedUser(t, db, "alice")
	v := seedVideo(t, db, u.ID, "cats", time.Now())

	require.NoError(t, db.Create(&model.Reaction{UserID: u.ID, VideoID: v.ID, IsLike: true}).Error)
	require.NoError(t, db.Create(&model.Comment{UserID: u.ID, VideoID: v.ID, Text: "hi"}).Error)
	require.NoError(t, NewHistoryRepository(db).Upsert(u.ID, v.ID, time.Now()))

	require.NoError(t, repo.Delete(v.ID))

	for _, m := range []interface{}{&model.Reaction{}, &model.Comment{}, &model.History{}, &model.Video{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n)
	}

	assert.ErrorIs(t, repo.Delete(v.ID), gorm.ErrRecordNotFound)
}
