package models

import (
	"time"
)

// Post is a community feed entry
type Post struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	UserID        uint          `gorm:"not null;index" json:"user_id"`
	User          *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content       string        `gorm:"type:text;not null" json:"content"`
	LikesCount    int           `gorm:"default:0" json:"likes_count"`
	CommentsCount int           `gorm:"default:0" json:"comments_count"`
	Comments      []PostComment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt     time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// TableName specifies the table name for Post model
func (Post) TableName() string {
	return "posts"
}

// PostComment is a comment on a feed post
type PostComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for PostComment model
func (PostComment) TableName() string {
	return "post_comments"
}

// PostLike records one user's like on a post; the pair is unique so a
// second like from the same user toggles the first off.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_likes_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_likes_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for PostLike model
func (PostLike) TableName() string {
	return "post_likes"
}
