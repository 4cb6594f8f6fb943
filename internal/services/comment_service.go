package services

import (
	"errors"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

var ErrInvalidComment = errors.New("昵称和内容不能为空")

type CommentService struct {
	repo     *repository.CommentRepository
	postRepo *repository.PostRepository
}

func NewCommentService(repo *repository.CommentRepository, postRepo *repository.PostRepository) *CommentService {
	return &CommentService{repo: repo, postRepo: postRepo}
}

// AddComment 为指定文章新增匿名评论，parentID 非空时作为楼中楼回复。
// 父评论不属于同一篇文章时不报错也不修正，与既有数据保持一致的宽松策略。
func (s *CommentService) AddComment(postID uint, nickname, content string, parentID *uint, ipAddress string) (*models.Comment, error) {
	nickname = strings.TrimSpace(nickname)
	content = strings.TrimSpace(content)
	if nickname == "" || content == "" {
		return nil, ErrInvalidComment
	}

	if parentID != nil {
		if _, err := s.repo.FindByID(*parentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 父评论不存在时按顶层评论处理
				parentID = nil
			} else {
				return nil, err
			}
		}
	}

	comment := &models.Comment{
		Nickname:  nickname,
		Content:   content,
		PostID:    postID,
		ParentID:  parentID,
		IPAddress: ipAddress,
	}
	if err := s.repo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// GetThreadedComments 返回按时间排序的顶层评论及其回复。
func (s *CommentService) GetThreadedComments(postID uint) ([]CommentThread, error) {
	comments, err := s.repo.FindByPost(postID)
	if err != nil {
		return nil, err
	}

	replies := make(map[uint][]models.Comment)
	var threads []CommentThread
	for _, c := range comments {
		if c.ParentID != nil {
			replies[*c.ParentID] = append(replies[*c.ParentID], c)
		}
	}
	for _, c := range comments {
		if c.ParentID == nil {
			threads = append(threads, CommentThread{
				Comment: c,
				Replies: replies[c.ID],
			})
		}
	}
	return threads, nil
}

func (s *CommentService) DeleteComment(id uint) error {
	return s.repo.Delete(id)
}

type CommentThread struct {
	Comment models.Comment
	Replies []models.Comment
}
