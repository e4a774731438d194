package main

import (
	"github.com/questx-lab/xpbot/internal/gateway"
	"github.com/questx-lab/xpbot/pkg/kafka"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSubscriber(*cli.Context) error {
	s.loadAll()

	dispatcher := gateway.NewChatEventDispatcher(s.messageDomain, s.referralDomain)
	subscriber, err := kafka.NewSubscriber(
		s.configs.Kafka.ConsumerGroup,
		s.configs.Kafka.Addrs,
		[]string{s.configs.Kafka.InboundTopic},
		dispatcher.Subscribe,
	)
	if err != nil {
		return err
	}

	ctx, stop := waitForSignal(s.ctx)
	defer stop()

	go func() {
		<-ctx.Done()
		if err := subscriber.Stop(s.ctx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot stop subscriber: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Subscribing to %s", s.configs.Kafka.InboundTopic)
	subscriber.Subscribe(ctx)
	return nil
}
