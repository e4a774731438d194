package telegram

import "context"

type IEndpoint interface {
	CreateChatInviteLink(ctx context.Context, chatID int64, name string) (string, error)
}
