package service

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/events"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/logging"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/models"
)

type CommentStore interface {
	CreateComment(ctx context.Context, c *models.Comment) error
	GetComment(ctx context.Context, id uint) (*models.Comment, error)
	UpdateCommentText(ctx context.Context, id uint, text string) error
	DeleteComment(ctx context.Context, id uint) error
	ListCommentsByPhoto(ctx context.Context, photoID uint, limit, offset int) ([]models.Comment, error)
	ListCommentsByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Comment, error)
	GetPhoto(ctx context.Context, id uint) (*models.Photo, error)
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
}

type CommentService struct {
	Store  CommentStore
	Events Publisher
}

func (s *CommentService) Create(ctx context.Context, author *models.User, photoID uint, text string) (*models.Comment, error) {
	l := logging.FromContext(ctx).With("svc", "comments.create", "photo_id", photoID)

	if text == "" {
		return nil, ErrValidation
	}
	if _, err := s.Store.GetPhoto(ctx, photoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		Text:    text,
		UserID:  author.ID,
		PhotoID: photoID,
	}
	if err := s.Store.CreateComment(ctx, comment); err != nil {
		l.Error("create_failed", "reason", "store_error", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicCommentEvents, strconv.Itoa(int(comment.ID)), map[string]interface{}{
		"type":       "comment_created",
		"comment_id": comment.ID,
		"photo_id":   photoID,
		"user_id":    author.ID,
	})

	l.Info("create_success", "comment_id", comment.ID)
	return comment, nil
}

// Update edits the caller's own comment. Editing someone else's comment
// is forbidden regardless of role.
func (s *CommentService) Update(ctx context.Context, actor *models.User, commentID uint, text string) (*models.Comment, error) {
	if text == "" {
		return nil, ErrValidation
	}

	comment, err := s.get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actor.ID {
		return nil, ErrForbidden
	}

	if err := s.Store.UpdateCommentText(ctx, commentID, text); err != nil {
		return nil, err
	}
	comment.Text = text
	return comment, nil
}

// Delete removes a comment. The route restricts this to admins and
// moderators.
func (s *CommentService) Delete(ctx context.Context, commentID uint) error {
	if _, err := s.get(ctx, commentID); err != nil {
		return err
	}
	return s.Store.DeleteComment(ctx, commentID)
}

func (s *CommentService) ListByPhoto(ctx context.Context, photoID uint, limit, offset int) ([]models.Comment, error) {
	if _, err := s.Store.GetPhoto(ctx, photoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Store.ListCommentsByPhoto(ctx, photoID, limit, offset)
}

func (s *CommentService) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Comment, error) {
	if _, err := s.Store.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Store.ListCommentsByUser(ctx, userID, limit, offset)
}

func (s *CommentService) get(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.Store.GetComment(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}
