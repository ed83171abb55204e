package profile

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	svcErr "github.com/oggyb/desire-match/internal/errors"
	"github.com/oggyb/desire-match/internal/service/view"
)

type OnboardingRequest struct {
	Interests  []string `json:"interests" validate:"required,max=20,dive,min=1,max=50"`
	Country    string   `json:"country" validate:"max=100"`
	State      string   `json:"state" validate:"max=100"`
	City       string   `json:"city" validate:"max=100"`
	Bio        string   `json:"bio" validate:"max=500"`
	Age        int      `json:"age" validate:"omitempty,gte=18,lte=100"`
	Gender     string   `json:"gender" validate:"omitempty,oneof=male female other"`
	LookingFor string   `json:"lookingFor" validate:"omitempty,oneof=male female both"`
	Photos     []string `json:"photos" validate:"omitempty,dive,min=1"`
}

// OnboardingStatus is what the client needs to resume onboarding.
type OnboardingStatus struct {
	Completed bool           `json:"onboardingCompleted"`
	Data      OnboardingData `json:"data"`
}

type OnboardingData struct {
	Interests  []string `json:"interests"`
	Photos     []string `json:"photos"`
	Country    string   `json:"country"`
	State      string   `json:"state"`
	City       string   `json:"city"`
	Bio        string   `json:"bio"`
	Age        int      `json:"age"`
	Gender     string   `json:"gender"`
	LookingFor string   `json:"lookingFor"`
}

// CompleteOnboarding stores the provided answers and flags onboarding done.
// Empty optional answers leave the stored value untouched.
func (s *Service) CompleteOnboarding(ctx context.Context, userID uint64, req *OnboardingRequest) error {
	fields := map[string]any{
		"interests":            datatypes.JSONSlice[string](view.Strings(req.Interests)),
		"onboarding_completed": true,
	}
	for col, v := range map[string]string{
		"country":     req.Country,
		"state":       req.State,
		"city":        req.City,
		"bio":         req.Bio,
		"gender":      req.Gender,
		"looking_for": req.LookingFor,
	} {
		if v = strings.TrimSpace(v); v != "" {
			fields[col] = v
		}
	}
	if req.Age != 0 {
		fields["age"] = req.Age
	}
	if len(req.Photos) > 0 {
		fields["photos"] = datatypes.JSONSlice[string](req.Photos)
		fields["profile_image"] = req.Photos[0]
	}

	err := s.users.Update(ctx, userID, fields)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFound("User not found")
	}
	if err != nil {
		s.appCtx.Logger.Error("CompleteOnboarding failed", "user", userID, "err", err)
		return svcErr.Map(err)
	}
	return nil
}

func (s *Service) OnboardingStatus(ctx context.Context, userID uint64) (*OnboardingStatus, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &OnboardingStatus{
		Completed: u.OnboardingCompleted,
		Data: OnboardingData{
			Interests:  view.Strings(u.Interests),
			Photos:     view.Strings(u.Photos),
			Country:    u.Country,
			State:      u.State,
			City:       u.City,
			Bio:        u.Bio,
			Age:        u.Age,
			Gender:     u.Gender,
			LookingFor: u.LookingFor,
		},
	}, nil
}
