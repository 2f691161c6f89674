package services

import (
	"strings"
	"testing"

	"fbw-backend/internal/models"
)

func TestCreatePostAndComment(t *testing.T) {
	db := setupTestDB(t)
	service := NewFeedService(db)

	user := models.User{Email: "poster@example.com", PasswordHash: "x"}
	db.Create(&user)

	post, err := service.CreatePost(user.ID, "  Banker landed again today!  ")
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if post.Content != "Banker landed again today!" {
		t.Errorf("content should be trimmed, got %q", post.Content)
	}

	if _, err := service.CreatePost(user.ID, "   "); err == nil {
		t.Error("blank post must be rejected")
	}
	if _, err := service.CreatePost(user.ID, strings.Repeat("x", maxPostLength+1)); err == nil {
		t.Error("oversized post must be rejected")
	}

	if _, err := service.AddComment(post.ID, user.ID, "Same here"); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if _, err := service.AddComment(9999, user.ID, "ghost"); err == nil {
		t.Error("commenting on a missing post must fail")
	}

	var reloaded models.Post
	db.First(&reloaded, post.ID)
	if reloaded.CommentsCount != 1 {
		t.Errorf("comment counter should be 1, got %d", reloaded.CommentsCount)
	}

	comments, err := service.ListComments(post.ID, 20, 0)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 1 || comments[0].Content != "Same here" {
		t.Errorf("unexpected comments: %+v", comments)
	}
}

func TestToggleLike(t *testing.T) {
	db := setupTestDB(t)
	service := NewFeedService(db)

	user := models.User{Email: "liker@example.com", PasswordHash: "x"}
	db.Create(&user)

	post, err := service.CreatePost(user.ID, "Elite slip is live")
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	liked, err := service.ToggleLike(post.ID, user.ID)
	if err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	if !liked {
		t.Error("first toggle should like the post")
	}

	var reloaded models.Post
	db.First(&reloaded, post.ID)
	if reloaded.LikesCount != 1 {
		t.Errorf("likes counter should be 1, got %d", reloaded.LikesCount)
	}

	liked, err = service.ToggleLike(post.ID, user.ID)
	if err != nil {
		t.Fatalf("second ToggleLike failed: %v", err)
	}
	if liked {
		t.Error("second toggle should remove the like")
	}

	db.First(&reloaded, post.ID)
	if reloaded.LikesCount != 0 {
		t.Errorf("likes counter should return to 0, got %d", reloaded.LikesCount)
	}
}
