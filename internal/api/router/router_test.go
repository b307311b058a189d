package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"vidshare/internal/api/handler"
	"vidshare/internal/api/middleware"
	"vidshare/internal/config"
	"vidshare/internal/repository"
	"vidshare/internal/service"
	"vidshare/internal/testutil"
	"vidshare/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBlacklist 内存版 Token 黑名单
type memBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (b *memBlacklist) Revoke(_ context.Context, jti string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = true
	return nil
}

func (b *memBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked[jti], nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code int    `json:"code"`
		Type string `json:"type"`
	} `json:"error"`
}

type testServer struct {
	engine *gin.Engine
	store  *testutil.BlobStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	store := testutil.NewBlobStore()
	media := &config.MediaConfig{DefaultProfilePic: "http://placeholder/p.png", MaxVideoMB: 5, MaxImageMB: 1}
	jwtManager := utils.NewJWTManager("secret", 10*time.Hour, "vidshare")
	blacklist := &memBlacklist{revoked: map[string]bool{}}

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)

	authService := service.NewAuthService(userRepo, jwtManager, blacklist, media)
	userService := service.NewUserService(userRepo, store, media)
	videoService := service.NewVideoService(videoRepo, userRepo, store, &testutil.CleanupPublisher{}, media)

	h := &Handlers{
		Auth:     handler.NewAuthHandler(authService, userService),
		User:     handler.NewUserHandler(userService),
		Video:    handler.NewVideoHandler(videoService),
		Reaction: handler.NewReactionHandler(service.NewReactionService(repository.NewReactionRepository(db), userRepo, videoRepo)),
		Comment:  handler.NewCommentHandler(service.NewCommentService(repository.NewCommentRepository(db), userRepo, videoRepo, media)),
		Follow:   handler.NewFollowHandler(service.NewFollowService(repository.NewFollowRepository(db), userRepo)),
		History:  handler.NewHistoryHandler(service.NewHistoryService(repository.NewHistoryRepository(db), videoRepo)),
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	Setup(r, h, middleware.AuthRequired(jwtManager, blacklist))

	return &testServer{engine: r, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.serve(t, req, token)
}

func (s *testServer) serve(t *testing.T, req *http.Request, token string) (int, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (s *testServer) register(t *testing.T, name string) int64 {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/api/user/register",
		gin.H{"username": name, "email": name + "@x.com", "password": "pw"}, "")
	require.Equal(t, http.StatusCreated, code)

	var user struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	return user.ID
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/api/user/login", gin.H{"email": email, "password": "pw"}, "")
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func (s *testServer) upload(t *testing.T, fields map[string]string, filename string) (int, envelope) {
	t.Helper()
	return s.postMultipart(t, "/api/video/upload-video", fields, map[string]string{"video": filename}, "")
}

// postMultipart files 为 字段名 -> 文件名
func (s *testServer) postMultipart(t *testing.T, path string, fields, files map[string]string, token string) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, filename := range files {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake media bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.serve(t, req, token)
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type videoJSON struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Views    int64  `json:"views"`
}

type countsJSON struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

func TestEndToEnd_UploadViewReact(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "alice")
	token := s.login(t, "alice@x.com")
	require.NotEmpty(t, token)

	code, env := s.upload(t, map[string]string{
		"username": "alice",
		"title":    "Cats",
		"category": "others",
	}, "cats.mp4")
	require.Equal(t, http.StatusCreated, code)
	created := decode[videoJSON](t, env.Data)
	assert.Equal(t, "Cats", created.Title)
	assert.Zero(t, created.Views)

	code, env = s.do(t, http.MethodGet, "/api/video/data", nil, "")
	require.Equal(t, http.StatusOK, code)
	feed := decode[[]videoJSON](t, env.Data)
	require.Len(t, feed, 1)
	assert.Equal(t, "Cats", feed[0].Title)

	videoPath := fmt.Sprintf("/api/video/%d", created.ID)

	code, env = s.do(t, http.MethodPost, videoPath+"/view", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), decode[struct {
		Views int64 `json:"views"`
	}](t, env.Data).Views)

	code, env = s.do(t, http.MethodPost, videoPath+"/like", gin.H{"username": "alice"}, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, countsJSON{Likes: 1, Dislikes: 0}, decode[countsJSON](t, env.Data))

	code, env = s.do(t, http.MethodPost, videoPath+"/like", gin.H{"username": "alice"}, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, countsJSON{Likes: 0, Dislikes: 0}, decode[countsJSON](t, env.Data))
}

func TestUser_RegisterAndLoginErrors(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")

	code, env := s.do(t, http.MethodPost, "/api/user/register",
		gin.H{"username": "alice", "email": "other@x.com", "password": "pw"}, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BadRequest", env.Error.Type)

	code, _ = s.do(t, http.MethodPost, "/api/user/login", gin.H{"email": "alice@x.com", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodPost, "/api/user/login", gin.H{"email": "ghost@x.com", "password": "pw"}, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodGet, "/api/user/getIdByUsername/ghost", nil, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(t, http.MethodGet, "/api/user/profile/username/alice", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), "password")
}

func TestAuth_MissingInvalidAndRevokedToken(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	token := s.login(t, "alice@x.com")

	code, env := s.do(t, http.MethodGet, "/api/history/get-history", nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Unauthorized", env.Error.Type)

	code, env = s.do(t, http.MethodGet, "/api/history/get-history", nil, "garbage")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Forbidden", env.Error.Type)

	code, _ = s.do(t, http.MethodGet, "/api/history/get-history", nil, token)
	assert.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodGet, "/api/user/me", nil, token)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"username":"alice"`)

	req := httptest.NewRequest(http.MethodGet, "/api/history/get-history", nil)
	req.Header.Set("Authorization", "Token "+token)
	code, env = s.serve(t, req, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Forbidden", env.Error.Type)

	code, _ = s.do(t, http.MethodPost, "/api/user/logout", nil, token)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodGet, "/api/history/get-history", nil, token)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestUser_ChangeUsername(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	token := s.login(t, "alice@x.com")

	code, _ := s.do(t, http.MethodPut, "/api/user/username", gin.H{"username": "alice"}, token)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPut, "/api/user/username", gin.H{"username": "alicia"}, token)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodGet, "/api/user/profile/username/alicia", nil, "")
	assert.Equal(t, http.StatusOK, code)
}

func TestVideo_UploadValidation(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")

	code, _ := s.upload(t, map[string]string{"username": "alice", "title": "Doc"}, "doc.pdf")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.upload(t, map[string]string{"username": "ghost", "title": "Cats"}, "cats.mp4")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.upload(t, map[string]string{"username": "alice"}, "cats.mp4")
	assert.Equal(t, http.StatusBadRequest, code)

	s.store.FailUpload = true
	code, env := s.upload(t, map[string]string{"username": "alice", "title": "Cats"}, "cats.mp4")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "BadGateway", env.Error.Type)
}

func TestVideo_OwnerOnlyMutations(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	s.register(t, "bob")
	aliceToken := s.login(t, "alice@x.com")
	bobToken := s.login(t, "bob@x.com")

	code, env := s.upload(t, map[string]string{"username": "alice", "title": "Cats"}, "cats.mp4")
	require.Equal(t, http.StatusCreated, code)
	video := decode[videoJSON](t, env.Data)

	updatePath := fmt.Sprintf("/api/video/update-thumbnail/%d", video.ID)
	body := gin.H{"title": "Dogs", "category": "news", "privacy": "public"}

	code, _ = s.do(t, http.MethodPut, updatePath, body, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodPut, updatePath, body, bobToken)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(t, http.MethodPut, updatePath, body, aliceToken)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "news", decode[videoJSON](t, env.Data).Category)

	code, _ = s.do(t, http.MethodGet, "/api/video/category/news", nil, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodGet, "/api/video/category/cooking", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)

	deletePath := fmt.Sprintf("/api/video/%d", video.ID)
	code, _ = s.do(t, http.MethodDelete, deletePath, nil, bobToken)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodDelete, deletePath, nil, aliceToken)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodGet, deletePath+"/details", nil, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestComment_Ownership(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	s.register(t, "bob")
	bobToken := s.login(t, "bob@x.com")
	aliceToken := s.login(t, "alice@x.com")

	_, env := s.upload(t, map[string]string{"username": "alice", "title": "Cats"}, "cats.mp4")
	video := decode[videoJSON](t, env.Data)

	code, env := s.do(t, http.MethodPost, fmt.Sprintf("/api/comment/%d/add-comment", video.ID),
		gin.H{"username": "alice", "text": "nice"}, "")
	require.Equal(t, http.StatusCreated, code)
	comments := decode[struct {
		Comments []struct {
			ID int64 `json:"id"`
		} `json:"comments"`
	}](t, env.Data).Comments
	require.Len(t, comments, 1)

	commentPath := fmt.Sprintf("/api/comment/%d", comments[0].ID)

	code, _ = s.do(t, http.MethodPut, commentPath+"/edit-comment", gin.H{"text": "mine now"}, bobToken)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodDelete, commentPath+"/delete-comment", nil, bobToken)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodPut, commentPath+"/edit-comment", gin.H{"text": "edited"}, aliceToken)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodDelete, commentPath+"/delete-comment", nil, aliceToken)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodDelete, commentPath+"/delete-comment", nil, aliceToken)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestFollower(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	code, _ := s.do(t, http.MethodPost, fmt.Sprintf("/api/follower/add/%d", alice), gin.H{"follower_id": alice}, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/follower/add/%d", bob), gin.H{"follower_id": alice}, "")
	assert.Equal(t, http.StatusCreated, code)

	code, env := s.do(t, http.MethodPost, fmt.Sprintf("/api/follower/add/%d", bob), gin.H{"follower_id": alice}, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Conflict", env.Error.Type)

	code, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/follower/%d/count", bob), nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"count":1}`, string(env.Data))

	code, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/follower/%d/isFollowing/%d", bob, alice), nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"is_following":true}`, string(env.Data))

	code, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/follower/delete/%d", bob), gin.H{"follower_id": alice}, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/follower/delete/%d", bob), gin.H{"follower_id": alice}, "")
	assert.Equal(t, http.StatusOK, code)
}

func TestHistory(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	token := s.login(t, "alice@x.com")

	_, env := s.upload(t, map[string]string{"username": "alice", "title": "Cats"}, "cats.mp4")
	video := decode[videoJSON](t, env.Data)

	for i := 0; i < 2; i++ {
		code, _ := s.do(t, http.MethodPost, "/api/history/update", gin.H{"video_id": video.ID}, token)
		require.Equal(t, http.StatusOK, code)
	}

	code, env := s.do(t, http.MethodGet, "/api/history/get-history", nil, token)
	require.Equal(t, http.StatusOK, code)
	entries := decode[struct {
		Entries []struct {
			VideoID int64 `json:"video_id"`
		} `json:"entries"`
	}](t, env.Data).Entries
	require.Len(t, entries, 1)
	assert.Equal(t, video.ID, entries[0].VideoID)

	code, _ = s.do(t, http.MethodPost, "/api/history/update", gin.H{"video_id": 9999}, token)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(t, http.MethodDelete, "/api/history/clear-history", nil, token)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"deleted":1}`, string(env.Data))
}

func TestReaction_DislikeAndStatus(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	s.register(t, "bob")

	_, env := s.upload(t, map[string]string{"username": "alice", "title": "Cats"}, "cats.mp4")
	video := decode[videoJSON](t, env.Data)
	videoPath := fmt.Sprintf("/api/video/%d", video.ID)

	type statusJSON struct {
		Liked    bool `json:"liked"`
		Disliked bool `json:"disliked"`
	}

	code, env := s.do(t, http.MethodPost, videoPath+"/dislike", gin.H{"username": "bob"}, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, countsJSON{Likes: 0, Dislikes: 1}, decode[countsJSON](t, env.Data))

	code, env = s.do(t, http.MethodGet, videoPath+"/like-status?username=bob", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, statusJSON{Disliked: true}, decode[statusJSON](t, env.Data))

	code, env = s.do(t, http.MethodPost, videoPath+"/like", gin.H{"username": "bob"}, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, countsJSON{Likes: 1, Dislikes: 0}, decode[countsJSON](t, env.Data))

	code, env = s.do(t, http.MethodGet, videoPath+"/like-status?username=bob", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, statusJSON{Liked: true}, decode[statusJSON](t, env.Data))

	code, env = s.do(t, http.MethodGet, videoPath+"/like-status?username=ghost", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, statusJSON{}, decode[statusJSON](t, env.Data))

	code, _ = s.do(t, http.MethodPost, videoPath+"/dislike", gin.H{}, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/api/video/9999/dislike", gin.H{"username": "bob"}, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestVideo_UploadThumbnail(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	s.register(t, "bob")
	aliceToken := s.login(t, "alice@x.com")
	bobToken := s.login(t, "bob@x.com")

	code, env := s.postMultipart(t, "/api/video/upload-video",
		map[string]string{"username": "alice", "title": "Cats"},
		map[string]string{"video": "cats.mp4", "thumbnail": "cats.png"}, "")
	require.Equal(t, http.StatusCreated, code)
	video := decode[struct {
		VideoURL     string `json:"video_url"`
		ThumbnailURL string `json:"thumbnail_url"`
	}](t, env.Data)

	videoKey, ok := s.store.KeyFromURL(video.VideoURL)
	require.True(t, ok)
	thumbKey, ok := s.store.KeyFromURL(video.ThumbnailURL)
	require.True(t, ok)

	const path = "/api/video/upload-thumbnail"
	newThumb := map[string]string{"file": "new.png"}

	code, _ = s.postMultipart(t, path, map[string]string{"old_thumbnail_url": video.ThumbnailURL}, newThumb, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.postMultipart(t, path, map[string]string{"old_thumbnail_url": video.ThumbnailURL}, nil, aliceToken)
	assert.Equal(t, http.StatusBadRequest, code)

	// 视频地址不是封面，忽略旧地址，仅上传新封面
	code, _ = s.postMultipart(t, path, map[string]string{"old_thumbnail_url": video.VideoURL}, newThumb, bobToken)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, s.store.Has(videoKey))

	code, _ = s.postMultipart(t, path, map[string]string{"old_thumbnail_url": video.ThumbnailURL}, newThumb, bobToken)
	assert.Equal(t, http.StatusForbidden, code)
	assert.True(t, s.store.Has(thumbKey))

	code, env = s.postMultipart(t, path, map[string]string{"old_thumbnail_url": video.ThumbnailURL}, newThumb, aliceToken)
	require.Equal(t, http.StatusOK, code)
	data := decode[struct {
		ThumbnailURL string `json:"thumbnail_url"`
	}](t, env.Data)
	assert.NotEqual(t, video.ThumbnailURL, data.ThumbnailURL)
	assert.False(t, s.store.Has(thumbKey))

	newKey, ok := s.store.KeyFromURL(data.ThumbnailURL)
	require.True(t, ok)
	assert.True(t, s.store.Has(newKey))
}
