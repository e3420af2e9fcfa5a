package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"groupRecommender/business/personality"
	"groupRecommender/domain"
	"groupRecommender/pkg/logger"
	"groupRecommender/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type userService struct {
	userRepo    UserRepository
	validate    *validator.Validate
	defaultCity domain.Location
}

func NewUserService(userRepo UserRepository, validate *validator.Validate, defaultCity domain.Location) *userService {
	return &userService{
		userRepo:    userRepo,
		validate:    validate,
		defaultCity: defaultCity,
	}
}

// ProfileInput creates a user straight from quiz answers.
type ProfileInput struct {
	Name           string                         `json:"name" validate:"max=100"`
	Email          string                         `json:"email" validate:"omitempty,email"`
	Quiz           personality.QuizAnswers        `json:"personality_quiz"`
	MotivationQuiz *personality.MotivationAnswers `json:"motivation_quiz,omitempty"`
	Interests      []string                       `json:"interests" validate:"max=20,dive,max=100"`
	City           string                         `json:"city" validate:"max=100"`
	State          string                         `json:"state" validate:"max=50"`
	SocialNeeds    *domain.SocialNeeds            `json:"social_needs,omitempty"`
	AffinityGroups []string                       `json:"affinity_groups,omitempty"`
}

// ProfileUpdate only touches the fields that are set.
type ProfileUpdate struct {
	Name           *string                        `json:"name,omitempty" validate:"omitempty,max=100"`
	Email          *string                        `json:"email,omitempty" validate:"omitempty,email"`
	Quiz           *personality.QuizAnswers       `json:"personality_quiz,omitempty"`
	MotivationQuiz *personality.MotivationAnswers `json:"motivation_quiz,omitempty"`
	Interests      []string                       `json:"interests,omitempty" validate:"omitempty,max=20,dive,max=100"`
	City           *string                        `json:"city,omitempty" validate:"omitempty,max=100"`
	State          *string                        `json:"state,omitempty" validate:"omitempty,max=50"`
	SocialNeeds    *domain.SocialNeeds            `json:"social_needs,omitempty"`
	Preferences    map[string]any                 `json:"preferences,omitempty"`
}

var ErrInvalidProfile = errors.New("invalid profile")

func (s *userService) CreateProfile(ctx context.Context, in ProfileInput) (domain.User, string, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, "", fmt.Errorf("context error: %w", err)
	}

	if err := s.validate.Struct(in); err != nil {
		logger.Error("Invalid profile input", err)
		return domain.User{}, "", fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	traits := personality.CalculateTraitScores(in.Quiz)

	newUser := domain.User{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(in.Name),
		Email:          strings.TrimSpace(in.Email),
		Role:           domain.RoleUser,
		Interests:      cleanInterests(in.Interests),
		Location:       s.location(in.City, in.State),
		AffinityGroups: in.AffinityGroups,
	}
	newUser.SetTraits(&traits)
	newUser.SetSocialNeeds(in.SocialNeeds)
	if in.MotivationQuiz != nil {
		newUser.SetMotivations(personality.CalculateMotivations(*in.MotivationQuiz))
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user", err)
		return domain.User{}, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := utils.GenerateJWT(newUser.ID, newUser.Role)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return domain.User{}, "", errors.New("failed to generate token")
	}

	logger.Info("user profile created", "user_id", newUser.ID, "city", newUser.Location.City)
	return newUser, token, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("context error: %w", err)
	}

	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			logger.Error("Failed to get user by ID", err)
		}
		return domain.User{}, err
	}

	return *u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		logger.Error("Invalid profile update", err)
		return domain.User{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	u, err := s.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	if in.Quiz != nil {
		traits := personality.CalculateTraitScores(*in.Quiz)
		u.SetTraits(&traits)
	}
	if in.MotivationQuiz != nil {
		u.SetMotivations(personality.CalculateMotivations(*in.MotivationQuiz))
	}
	if in.Interests != nil {
		u.Interests = cleanInterests(in.Interests)
	}
	if in.City != nil || in.State != nil {
		city, state := u.Location.City, u.Location.State
		if in.City != nil {
			city = *in.City
		}
		if in.State != nil {
			state = *in.State
		}
		u.Location = s.location(city, state)
	}
	if in.SocialNeeds != nil {
		u.SetSocialNeeds(in.SocialNeeds)
	}
	if in.Preferences != nil {
		u.Preferences = in.Preferences
	}

	if err := s.userRepo.Update(ctx, &u); err != nil {
		logger.Error("Failed to update user", err)
		return domain.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

// IssueToken signs a fresh access token for an existing user.
func (s *userService) IssueToken(ctx context.Context, id string) (string, error) {
	u, err := s.GetUserByID(ctx, id)
	if err != nil {
		return "", err
	}
	return utils.GenerateJWT(u.ID, u.Role)
}

// location falls back to the configured default city when none is given.
func (s *userService) location(city, state string) domain.Location {
	city, state = strings.TrimSpace(city), strings.TrimSpace(state)
	if city == "" {
		return s.defaultCity
	}
	return domain.Location{City: city, State: state}
}

// cleanInterests trims entries and drops blanks and case-insensitive duplicates.
func cleanInterests(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
