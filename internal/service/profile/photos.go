package profile

import (
	"context"
	"strings"

	svcErr "github.com/oggyb/desire-match/internal/errors"
)

type UploadURLRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required"`
}

type UploadURL struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

// PhotoUploadURL presigns a direct upload of one profile picture.
func (s *Service) PhotoUploadURL(ctx context.Context, userID uint64, req *UploadURLRequest) (*UploadURL, error) {
	if !strings.HasPrefix(req.ContentType, "image/") {
		return nil, svcErr.InvalidArgument("Only image uploads are allowed")
	}
	url, key, err := s.appCtx.Photos.UploadURL(ctx, userID, req.FileName, req.ContentType)
	if err != nil {
		if !svcErr.IsDomain(err) {
			s.appCtx.Logger.Error("presign failed", "user", userID, "err", err)
		}
		return nil, svcErr.Map(err)
	}
	return &UploadURL{UploadURL: url, Key: key}, nil
}
