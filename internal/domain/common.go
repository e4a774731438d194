package domain

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/questx-lab/xpbot/internal/common"
	"github.com/questx-lab/xpbot/internal/model"
	"github.com/questx-lab/xpbot/pkg/errorx"
	"github.com/questx-lab/xpbot/pkg/pubsub"
	"github.com/questx-lab/xpbot/pkg/xcontext"
)

const defaultOutboundTopic = "xp_events"

// storeError logs a datastore failure and converts it to the transient error
// returned to callers. Nothing is retried here.
func storeError(ctx context.Context, action string, err error) error {
	xcontext.Logger(ctx).Errorf("Cannot %s: %v", action, err)
	return errorx.New(errorx.Unavailable, "Cannot %s, please try again later", action)
}

// PublishXPEvent sends an outbound event. Failures are logged only, the
// database is already committed at this point.
func PublishXPEvent(
	ctx context.Context, publisher pubsub.Publisher, communityID int64, eventType string, data any,
) {
	if publisher == nil {
		return
	}

	b, err := json.Marshal(model.XPEvent{Type: eventType, Data: data})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal %s event: %v", eventType, err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.OutboundTopic
	if topic == "" {
		topic = defaultOutboundTopic
	}

	pack := &pubsub.Pack{Key: []byte(strconv.FormatInt(communityID, 10)), Msg: b}
	if err := publisher.Publish(ctx, topic, pack); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish %s event: %v", eventType, err)
	}
}

func checkCommunity(communityID int64) error {
	if communityID == 0 {
		return errorx.New(errorx.BadRequest, "Not allow empty community id")
	}

	return nil
}

func checkMember(communityID, userID int64) error {
	if err := checkCommunity(communityID); err != nil {
		return err
	}

	if userID == 0 {
		return errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	return nil
}

func checkAdmin(ctx context.Context, settings *common.SettingsCache) error {
	if !settings.IsAdmin(ctx, xcontext.RequestUserID(ctx)) {
		return errorx.New(errorx.PermissionDenied, "Only administrators can do this")
	}

	return nil
}

func checkOwner(ctx context.Context) error {
	if !common.IsOwner(ctx, xcontext.RequestUserID(ctx)) {
		return errorx.New(errorx.PermissionDenied, "Only the owner can do this")
	}

	return nil
}
