package services

import (
	"bytes"
	"context"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shin6949/passkey-sample-be/dtos/request"
	"github.com/shin6949/passkey-sample-be/dtos/response"
)

type IPasskeyService interface {
	List(ctx context.Context, userID string) ([]response.PasskeyResponse, error)
	UpdateLabel(ctx context.Context, userID, id, label string) error
	Delete(ctx context.Context, userID, id string) error
}

// PasskeyService manages the passkeys a signed-in user already registered.
type PasskeyService struct {
	entities    IUserEntityStore
	credentials ICredentialStore
	events      IEventPublisher
}

func NewPasskeyService(entities IUserEntityStore, credentials ICredentialStore, events IEventPublisher) IPasskeyService {
	return &PasskeyService{entities: entities, credentials: credentials, events: events}
}

func (s *PasskeyService) List(ctx context.Context, userID string) ([]response.PasskeyResponse, error) {
	passkeys := make([]response.PasskeyResponse, 0)
	entity, err := s.entities.FindByAppUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		log.Infof("no passkey mapping for user %s", userID)
		return passkeys, nil
	}
	records, err := s.credentials.FindByUserID(ctx, entity.ID)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		passkeys = append(passkeys, response.PasskeyResponse{
			UUID:     r.UUID,
			Label:    r.Label,
			Created:  r.Created.UnixMilli(),
			LastUsed: r.LastUsed.UnixMilli(),
		})
	}
	return passkeys, nil
}

// owned resolves the record and checks it belongs to the requesting user.
func (s *PasskeyService) owned(ctx context.Context, userID, id string) (*CredentialRecord, error) {
	entity, err := s.entities.FindByAppUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	record, err := s.credentials.FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil || record == nil {
		return nil, ErrPasskeyNotFound
	}
	if !bytes.Equal(record.UserHandle, entity.ID) {
		log.Infof("user %s does not own passkey %s", userID, id)
		return nil, ErrMismatchedOwnership
	}
	return record, nil
}

func (s *PasskeyService) UpdateLabel(ctx context.Context, userID, id, label string) error {
	record, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.credentials.UpdateLabel(ctx, record.UUID, label)
}

func (s *PasskeyService) Delete(ctx context.Context, userID, id string) error {
	record, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.credentials.Delete(ctx, record.ID); err != nil {
		return err
	}
	s.events.Publish(ctx, request.EventPasskeyDeleted, userID)
	return nil
}
