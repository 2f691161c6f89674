package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"fbw-backend/internal/models"
)

const maxPostLength = 2000

// FeedService handles community feed posts, comments and likes
type FeedService struct {
	db *gorm.DB
}

// NewFeedService creates a new FeedService
func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

// CreatePost adds a new post to the feed
func (s *FeedService) CreatePost(userID uint, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("post content is required")
	}
	if len(content) > maxPostLength {
		return nil, fmt.Errorf("post content exceeds %d characters", maxPostLength)
	}

	post := models.Post{
		UserID:  userID,
		Content: content,
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return &post, nil
}

// ListPosts returns feed posts, newest first
func (s *FeedService) ListPosts(limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Preload("User").Order("created_at DESC").
		Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// AddComment adds a comment to a post and bumps its counter
func (s *FeedService) AddComment(postID, userID uint, content string) (*models.PostComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("comment content is required")
	}

	var comment models.PostComment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return fmt.Errorf("post not found: %w", err)
		}

		comment = models.PostComment{
			PostID:  postID,
			UserID:  userID,
			Content: content,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		return tx.Model(&post).Update("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// ListComments returns a post's comments, oldest first
func (s *FeedService) ListComments(postID uint, limit, offset int) ([]models.PostComment, error) {
	var comments []models.PostComment
	if err := s.db.Where("post_id = ?", postID).Preload("User").
		Order("created_at ASC").Limit(limit).Offset(offset).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// ToggleLike likes a post, or removes the like if it already exists.
// Returns whether the post is liked after the call.
func (s *FeedService) ToggleLike(postID, userID uint) (bool, error) {
	liked := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return fmt.Errorf("post not found: %w", err)
		}

		var existing models.PostLike
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error

		if err == gorm.ErrRecordNotFound {
			if err := tx.Create(&models.PostLike{PostID: postID, UserID: userID}).Error; err != nil {
				return err
			}
			liked = true
			return tx.Model(&post).Update("likes_count", gorm.Expr("likes_count + 1")).Error
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		return tx.Model(&post).Update("likes_count", gorm.Expr("likes_count - 1")).Error
	})
	if err != nil {
		return false, err
	}

	return liked, nil
}
