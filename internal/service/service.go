package service

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"mergington/internal/dto"
	"mergington/internal/repo"
	"mergington/pkg/validator"
)

type Service interface {
	GetActivities(ctx *gin.Context)
	Signup(ctx *gin.Context)
	Unregister(ctx *gin.Context)
}

type service struct {
	repo repo.Repository
	log  *zerolog.Logger
}

func NewService(repo repo.Repository, logger *zerolog.Logger) Service {
	return &service{
		repo: repo,
		log:  logger,
	}
}

// GetActivities returns every activity with its registered emails.
func (s *service) GetActivities(ctx *gin.Context) {
	activities, err := s.repo.GetAllActivities(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get activities")
		dto.InternalServerError(ctx)
		return
	}

	resp := make([]dto.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		emails, err := s.repo.GetParticipantEmails(ctx.Request.Context(), a.ID)
		if err != nil {
			s.log.Error().Err(err).Str("activity", a.Name).Msg("failed to get participants")
			dto.InternalServerError(ctx)
			return
		}

		resp = append(resp, dto.ActivityResponse{
			Name:            a.Name,
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			Participants:    emails,
		})
	}

	ctx.JSON(200, resp)
}

// Signup registers the email from the query string for the activity in
// the path. Presence is the only validation on the email.
func (s *service) Signup(ctx *gin.Context) {
	req := dto.SignupRequest{
		ActivityName: ctx.Param("name"),
		Email:        ctx.Query("email"),
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadRequestError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	activity, err := s.repo.SignupTx(ctx.Request.Context(), req.ActivityName, req.Email)
	if err != nil {
		switch err {
		case repo.ErrActivityNotFound:
			dto.ActivityNotFoundError(ctx)
		case repo.ErrAlreadySignedUp:
			dto.AlreadySignedUpError(ctx)
		case repo.ErrActivityFull:
			dto.ActivityFullError(ctx)
		default:
			s.log.Error().Err(err).Str("activity", req.ActivityName).Msg("failed to sign up")
			dto.InternalServerError(ctx)
		}
		return
	}

	s.log.Info().
		Str("activity", activity.Name).
		Str("email", req.Email).
		Msg("participant signed up")

	dto.SuccessMessage(ctx, fmt.Sprintf("Signed up %s for %s", req.Email, activity.Name))
}

// Unregister removes the email's registration for the activity.
func (s *service) Unregister(ctx *gin.Context) {
	req := dto.SignupRequest{
		ActivityName: ctx.Param("name"),
		Email:        ctx.Query("email"),
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadRequestError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	activity, err := s.repo.UnregisterTx(ctx.Request.Context(), req.ActivityName, req.Email)
	if err != nil {
		switch err {
		case repo.ErrActivityNotFound:
			dto.ActivityNotFoundError(ctx)
		case repo.ErrNotRegistered:
			dto.NotRegisteredError(ctx)
		default:
			s.log.Error().Err(err).Str("activity", req.ActivityName).Msg("failed to unregister")
			dto.InternalServerError(ctx)
		}
		return
	}

	s.log.Info().
		Str("activity", activity.Name).
		Str("email", req.Email).
		Msg("participant unregistered")

	dto.SuccessMessage(ctx, fmt.Sprintf("Unregistered %s from %s", req.Email, activity.Name))
}
