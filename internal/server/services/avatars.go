package services

import (
	"context"
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/taskmanager/internal/common"
	"github.com/dmitrijs2005/taskmanager/internal/logging"
	"github.com/dmitrijs2005/taskmanager/internal/server/media"
	"github.com/dmitrijs2005/taskmanager/internal/server/repositories/avatars"
	"github.com/google/uuid"
)

// MaxAvatarSize is the largest accepted upload, in bytes.
const MaxAvatarSize = 1_000_000

var avatarNamePattern = regexp.MustCompile(`\.(jpg|jpeg|png)$`)

// AvatarService validates, resizes and stores profile pictures.
type AvatarService struct {
	store      avatars.Repository
	transcoder media.Transcoder
	logger     logging.Logger
}

func NewAvatarService(store avatars.Repository, t media.Transcoder, l logging.Logger) *AvatarService {
	return &AvatarService{
		store:      store,
		transcoder: t,
		logger:     l.With("module", "avatars"),
	}
}

// Upload checks size and file name before decoding, then stores the image
// as a 250x250 PNG.
func (s *AvatarService) Upload(ctx context.Context, userID, filename string, data []byte) error {
	if len(data) > MaxAvatarSize {
		return common.NewFieldError("avatar", fmt.Sprintf("must be at most %d bytes", MaxAvatarSize))
	}
	if !avatarNamePattern.MatchString(filename) {
		return common.NewFieldError("avatar", "must be a jpg, jpeg or png image")
	}

	png, err := s.transcoder.Transcode(data)
	if err != nil {
		s.logger.Info(ctx, "avatar rejected", "user_id", userID, "error", err)
		return common.NewFieldError("avatar", "is not a valid image")
	}

	if err := s.store.Put(ctx, userID, png); err != nil {
		return err
	}
	s.logger.Info(ctx, "avatar stored", "user_id", userID, "bytes", len(png))
	return nil
}

func (s *AvatarService) Delete(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, userID)
}

// Get returns the stored PNG or common.ErrorNotFound. Malformed user IDs
// are not found either.
func (s *AvatarService) Get(ctx context.Context, userID string) ([]byte, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, common.ErrorNotFound
	}
	return s.store.Get(ctx, userID)
}
