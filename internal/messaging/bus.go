package messaging

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Bus pairs the publisher and subscriber of one transport.
type Bus struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
}

// NewMemoryBus creates an in-process bus. Only consumers running in the same
// process receive the events.
func NewMemoryBus(logger *zap.Logger) *Bus {
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, NewZapLogger(logger))

	return &Bus{Publisher: ch, Subscriber: ch}
}

// NewRedisBus creates a bus backed by Redis streams. Subscribers sharing
// consumerGroup split the stream between them.
func NewRedisBus(client redis.UniversalClient, consumerGroup string, logger *zap.Logger) (*Bus, error) {
	wmLogger := NewZapLogger(logger)

	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: client,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create redis stream publisher: %w", err)
	}

	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		ConsumerGroup: consumerGroup,
	}, wmLogger)
	if err != nil {
		_ = publisher.Close()

		return nil, fmt.Errorf("create redis stream subscriber: %w", err)
	}

	return &Bus{Publisher: publisher, Subscriber: subscriber}, nil
}

// Shutdown closes both sides of the bus.
func (b *Bus) Shutdown() error {
	return errors.Join(b.Publisher.Close(), b.Subscriber.Close())
}

// zapLogger adapts zap to watermill's logger interface.
type zapLogger struct {
	logger *zap.Logger
}

// NewZapLogger wraps logger for use by watermill components.
func NewZapLogger(logger *zap.Logger) watermill.LoggerAdapter {
	return &zapLogger{logger: logger.Named("watermill")}
}

func (l *zapLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.logger.Error(msg, append(toZapFields(fields), zap.Error(err))...)
}

func (l *zapLogger) Info(msg string, fields watermill.LogFields) {
	l.logger.Info(msg, toZapFields(fields)...)
}

func (l *zapLogger) Debug(msg string, fields watermill.LogFields) {
	l.logger.Debug(msg, toZapFields(fields)...)
}

// Trace is folded into debug; zap has no lower level.
func (l *zapLogger) Trace(msg string, fields watermill.LogFields) {
	l.logger.Debug(msg, toZapFields(fields)...)
}

func (l *zapLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &zapLogger{logger: l.logger.With(toZapFields(fields)...)}
}

func toZapFields(fields watermill.LogFields) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}

	return out
}
