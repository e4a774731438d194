package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/xpbot/internal/common"
	"github.com/questx-lab/xpbot/internal/domain"
	"github.com/questx-lab/xpbot/internal/model"
	"github.com/questx-lab/xpbot/pkg/pubsub"
	"github.com/questx-lab/xpbot/pkg/xcontext"
)

// ChatEventDispatcher consumes the inbound chat event stream and calls the
// same domain operations as the HTTP API. Failed events are logged and
// skipped.
type ChatEventDispatcher struct {
	messageDomain  domain.MessageDomain
	referralDomain domain.ReferralDomain
}

func NewChatEventDispatcher(
	messageDomain domain.MessageDomain,
	referralDomain domain.ReferralDomain,
) *ChatEventDispatcher {
	return &ChatEventDispatcher{
		messageDomain:  messageDomain,
		referralDomain: referralDomain,
	}
}

func (d *ChatEventDispatcher) Subscribe(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var event model.ChatEvent
	decoder := json.NewDecoder(bytes.NewReader(pack.Msg))
	// Chat ids do not fit in a float64 mantissa.
	decoder.UseNumber()
	if err := decoder.Decode(&event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decode chat event: %v", err)
		common.PromCounters[common.ChatEventTotal].WithLabelValues("invalid").Inc()
		return
	}

	if err := d.dispatch(ctx, &event, t); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot handle %s chat event: %v", event.Type, err)
		common.PromCounters[common.ChatEventTotal].WithLabelValues("failed").Inc()
		return
	}

	common.PromCounters[common.ChatEventTotal].WithLabelValues(event.Type).Inc()
}

func (d *ChatEventDispatcher) dispatch(ctx context.Context, event *model.ChatEvent, t time.Time) error {
	switch event.Type {
	case model.ChatEventMessage:
		var req model.OnMessageRequest
		if err := decodeData(event.Data, &req); err != nil {
			return err
		}

		if req.SentAt.IsZero() {
			req.SentAt = t
		}

		_, err := d.messageDomain.OnMessage(ctx, &req)
		return err

	case model.ChatEventJoin:
		var req model.OnJoinRequest
		if err := decodeData(event.Data, &req); err != nil {
			return err
		}

		if req.JoinedAt.IsZero() {
			req.JoinedAt = t
		}

		_, err := d.referralDomain.OnJoin(ctx, &req)
		return err

	default:
		return fmt.Errorf("unknown event type %q", event.Type)
	}
}

func decodeData(data map[string]any, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
		WeaklyTypedInput: true,
		Result:           result,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(data)
}
