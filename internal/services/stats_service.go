package services

import (
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// StatsService 仪表盘统计与页面访问记录。
type StatsService struct {
	viewRepo    *repository.PageViewRepository
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
	catRepo     *repository.CategoryRepository
}

func NewStatsService(
	viewRepo *repository.PageViewRepository,
	postRepo *repository.PostRepository,
	commentRepo *repository.CommentRepository,
	catRepo *repository.CategoryRepository,
) *StatsService {
	return &StatsService{
		viewRepo:    viewRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		catRepo:     catRepo,
	}
}

// RecordPostView 记一条文章访问，并同步加文章上的计数器。
func (s *StatsService) RecordPostView(postID uint, path string) error {
	view := &models.PageView{Path: path, PostID: &postID}
	if err := s.viewRepo.Create(view); err != nil {
		return err
	}
	return s.postRepo.IncrementViews(postID)
}

type DashboardStats struct {
	TotalPosts    int64
	TotalComments int64
	TotalViews    int64
	ViewsLast7d   int64
	TopPosts      []repository.PostViewCount
}

func (s *StatsService) GetDashboardStats() (*DashboardStats, error) {
	totalPosts, err := s.postRepo.Count()
	if err != nil {
		return nil, err
	}
	totalComments, err := s.commentRepo.Count()
	if err != nil {
		return nil, err
	}
	totalViews, err := s.viewRepo.CountTotal()
	if err != nil {
		return nil, err
	}
	recentViews, err := s.viewRepo.CountSince(time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	topPosts, err := s.viewRepo.TopPosts(10)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalPosts:    totalPosts,
		TotalComments: totalComments,
		TotalViews:    totalViews,
		ViewsLast7d:   recentViews,
		TopPosts:      topPosts,
	}, nil
}
