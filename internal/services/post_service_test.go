package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostService(t *testing.T) (*PostService, *MediaService) {
	t.Helper()
	db := newTestDB(t)
	media := NewMediaService(t.TempDir())
	return NewPostService(repository.NewPostRepository(db), media), media
}

func TestCreatePostGeneratesUniqueSlug(t *testing.T) {
	service, _ := newPostService(t)

	p1, err := service.CreatePost(PostInput{Title: "Hello World", Content: "<p>一</p>"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", p1.Slug)

	p2, err := service.CreatePost(PostInput{Title: "Hello World", Content: "<p>二</p>"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", p2.Slug)

	p3, err := service.CreatePost(PostInput{Title: "Hello World", Content: "<p>三</p>"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", p3.Slug)
}

func TestCreatePostEmptyTitleFallsBack(t *testing.T) {
	service, _ := newPostService(t)

	post, err := service.CreatePost(PostInput{Content: "<p>无题</p>"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "未命名标题", post.Title)
	assert.NotEmpty(t, post.Slug)
}

func TestUpdatePostKeepsSlugWhenTitleUnchanged(t *testing.T) {
	service, _ := newPostService(t)

	post, err := service.CreatePost(PostInput{Title: "稳定链接", Content: "<p>v1</p>"}, 1)
	require.NoError(t, err)
	originalSlug := post.Slug

	updated, err := service.UpdatePost(post.ID, PostInput{Title: "稳定链接", Content: "<p>v2</p>"})
	require.NoError(t, err)
	assert.Equal(t, originalSlug, updated.Slug)
	assert.Equal(t, "<p>v2</p>", updated.Content)
}

func TestPublishPolicy(t *testing.T) {
	service, _ := newPostService(t)

	post, err := service.CreatePost(PostInput{Title: "发布策略", Content: "<p>hi</p>", IsPublished: true}, 1)
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt, "发布时必须带上发布时间")
	firstPublished := *post.PublishedAt

	// 再次保存已发布文章不应重置发布时间
	post, err = service.UpdatePost(post.ID, PostInput{Title: "发布策略", Content: "<p>hi2</p>", IsPublished: true})
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
	assert.WithinDuration(t, firstPublished, *post.PublishedAt, time.Second)

	// 取消发布清掉时间
	post, err = service.UpdatePost(post.ID, PostInput{Title: "发布策略", Content: "<p>hi3</p>"})
	require.NoError(t, err)
	assert.False(t, post.IsPublished)
	assert.Nil(t, post.PublishedAt)
}

func TestGetPostBySlugPublishedOnly(t *testing.T) {
	service, _ := newPostService(t)

	draft, err := service.CreatePost(PostInput{Title: "还在写", Content: "<p>draft</p>"}, 1)
	require.NoError(t, err)

	_, err = service.GetPostBySlug(draft.Slug, true)
	assert.Error(t, err, "前台不应看到未发布文章")

	found, err := service.GetPostBySlug(draft.Slug, false)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, found.ID)
}

func TestDeletePostRemovesCoverFiles(t *testing.T) {
	service, media := newPostService(t)

	post, err := service.CreatePost(PostInput{Title: "带封面", Content: "<p>hi</p>"}, 1)
	require.NoError(t, err)

	coverPath := filepath.Join(media.UploadDir(), "cover.jpg")
	thumbDir := filepath.Join(media.UploadDir(), "thumbnails")
	require.NoError(t, os.MkdirAll(thumbDir, 0o755))
	thumbPath := filepath.Join(thumbDir, "cover_thumb.jpg")
	require.NoError(t, os.WriteFile(coverPath, []byte("jpg"), 0o644))
	require.NoError(t, os.WriteFile(thumbPath, []byte("jpg"), 0o644))
	require.NoError(t, service.AttachCoverImage(post.ID, "cover.jpg", "cover_thumb.jpg"))

	require.NoError(t, service.DeletePost(post.ID))

	_, err = os.Stat(coverPath)
	assert.True(t, os.IsNotExist(err), "删除文章后封面应被清理")
	_, err = os.Stat(thumbPath)
	assert.True(t, os.IsNotExist(err), "删除文章后缩略图应被清理")
	_, err = service.GetPostByID(post.ID)
	assert.Error(t, err)
}

func TestSearchPublishedPage(t *testing.T) {
	service, _ := newPostService(t)

	_, err := service.CreatePost(PostInput{Title: "Go 并发模式", Content: "<p>channel</p>", IsPublished: true}, 1)
	require.NoError(t, err)
	_, err = service.CreatePost(PostInput{Title: "山间一日", Content: "<p>徒步</p>", IsPublished: true}, 1)
	require.NoError(t, err)
	_, err = service.CreatePost(PostInput{Title: "Go 草稿", Content: "<p>未发布</p>"}, 1)
	require.NoError(t, err)

	posts, total, err := service.SearchPublishedPage("Go", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total, "搜索只命中已发布文章")
	require.Len(t, posts, 1)
	assert.Equal(t, "Go 并发模式", posts[0].Title)

	_, total, err = service.SearchPublishedPage("channel", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total, "正文也参与匹配")
}

func TestGetPublishedPageFiltersByCategory(t *testing.T) {
	db := newTestDB(t)
	service := NewPostService(repository.NewPostRepository(db), NewMediaService(t.TempDir()))

	tech := models.Category{Name: "Tech"}
	require.NoError(t, db.Create(&tech).Error)

	_, err := service.CreatePost(PostInput{Title: "分类内", Content: "<p>a</p>", CategoryID: &tech.ID, IsPublished: true}, 1)
	require.NoError(t, err)
	_, err = service.CreatePost(PostInput{Title: "分类外", Content: "<p>b</p>", IsPublished: true}, 1)
	require.NoError(t, err)

	posts, total, err := service.GetPublishedPage(1, 10, &tech.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "分类内", posts[0].Title)

	_, total, err = service.GetPublishedPage(1, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
