package testutil

import (
	"context"
	"errors"
)

type MockTelegramEndpoint struct {
	CreateChatInviteLinkFunc func(ctx context.Context, chatID int64, name string) (string, error)
}

func (e *MockTelegramEndpoint) CreateChatInviteLink(ctx context.Context, chatID int64, name string) (string, error) {
	if e.CreateChatInviteLinkFunc != nil {
		return e.CreateChatInviteLinkFunc(ctx, chatID, name)
	}

	return "", errors.New("not implemented")
}
