package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/questx-lab/xpbot/config"
	"github.com/questx-lab/xpbot/pkg/api"
	"golang.org/x/time/rate"
)

const apiURL = "https://api.telegram.org"

type Endpoint struct {
	BotToken string

	apiGenerator api.Generator
	limiter      *rate.Limiter
}

func New(cfg config.TelegramConfigs) *Endpoint {
	return NewWithGenerator(cfg, api.NewGenerator(apiURL))
}

func NewWithGenerator(cfg config.TelegramConfigs, generator api.Generator) *Endpoint {
	limit := rate.Inf
	if cfg.APIRateLimit > 0 {
		limit = rate.Limit(cfg.APIRateLimit)
	}

	return &Endpoint{
		BotToken:     cfg.BotToken,
		apiGenerator: generator,
		limiter:      rate.NewLimiter(limit, 1),
	}
}

// CreateChatInviteLink asks the Bot API for a new invite link of chatID and
// returns the link. The bot must be an administrator with the right to invite
// users.
func (e *Endpoint) CreateChatInviteLink(ctx context.Context, chatID int64, name string) (string, error) {
	if e.BotToken == "" {
		return "", errors.New("bot token is not configured")
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := e.apiGenerator.New("/bot%s/createChatInviteLink", e.BotToken).
		Body(api.JSON{
			"chat_id": strconv.FormatInt(chatID, 10),
			"name":    name,
		}).
		POST(ctx)
	if err != nil {
		return "", err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return "", errors.New("invalid body type")
	}

	if ok, err := body.GetBool("ok"); err != nil || !ok {
		description, _ := body.GetString("description")
		return "", fmt.Errorf("invalid response: %s", description)
	}

	link, err := body.GetString("result.invite_link")
	if err != nil {
		return "", err
	}

	if link == "" {
		return "", errors.New("empty invite link")
	}

	return link, nil
}
