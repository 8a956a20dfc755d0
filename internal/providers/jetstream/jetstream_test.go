package jetstream_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/messaging"
	"github.com/evermarks/evermark-minter/internal/mocks"
	"github.com/evermarks/evermark-minter/internal/providers/jetstream"
)

var testConfig = jetstream.Config{
	URL:            "nats://localhost:4222",
	StreamName:     "EVERMARKS",
	Subject:        "evermark.minted",
	ConsumerName:   "evermark-reconciler",
	MaxReconnects:  10,
	ReconnectWait:  time.Second,
	ConnectionName: "test",
	AckWait:        30 * time.Second,
	MaxDeliver:     5,
}

type natsMocks struct {
	ctrl   *gomock.Controller
	natsJS *mocks.MockNatsJetStream
	conn   *mocks.MockNatsConn
	js     *mocks.MockJetStream
}

func setupNats(t *testing.T) *natsMocks {
	ctrl := gomock.NewController(t)
	m := &natsMocks{
		ctrl:   ctrl,
		natsJS: mocks.NewMockNatsJetStream(ctrl),
		conn:   mocks.NewMockNatsConn(ctrl),
		js:     mocks.NewMockJetStream(ctrl),
	}
	return m
}

func (m *natsMocks) expectConnect() {
	m.natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(m.conn, m.js, nil)
	m.js.EXPECT().CreateOrUpdateStream(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cfg natsjs.StreamConfig) error {
			if cfg.Name != "EVERMARKS" || len(cfg.Subjects) != 1 || cfg.Subjects[0] != "evermark.minted" {
				return fmt.Errorf("unexpected stream config %+v", cfg)
			}
			if cfg.Duplicates != 24*time.Hour {
				return fmt.Errorf("unexpected duplicate window %s", cfg.Duplicates)
			}
			return nil
		})
}

func mintedEvent() *domain.MintedEvent {
	return &domain.MintedEvent{
		EventID:   "01JNCR0000000000000000TEST",
		Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Record: domain.EvermarkRecord{
			TokenID: "42",
			TxHash:  "0xabc",
			Title:   "Paper X",
		},
	}
}

func TestNewPublisher(t *testing.T) {
	t.Run("connect failure", func(t *testing.T) {
		m := setupNats(t)
		defer m.ctrl.Finish()
		m.natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(nil, nil, errors.New("no servers"))

		_, err := jetstream.NewPublisher(context.Background(), testConfig, m.natsJS, adapter.NewJSON())
		assert.Error(t, err)
	})

	t.Run("stream failure closes the connection", func(t *testing.T) {
		m := setupNats(t)
		defer m.ctrl.Finish()
		m.natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(m.conn, m.js, nil)
		m.js.EXPECT().CreateOrUpdateStream(gomock.Any(), gomock.Any()).Return(errors.New("not authorized"))
		m.conn.EXPECT().Close()

		_, err := jetstream.NewPublisher(context.Background(), testConfig, m.natsJS, adapter.NewJSON())
		assert.Error(t, err)
	})
}

func TestPublishMinted(t *testing.T) {
	m := setupNats(t)
	defer m.ctrl.Finish()
	m.expectConnect()

	publisher, err := jetstream.NewPublisher(context.Background(), testConfig, m.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	json := adapter.NewJSON()
	m.js.EXPECT().Publish(gomock.Any(), "evermark.minted", gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, data []byte, opts ...natsjs.PublishOpt) (*natsjs.PubAck, error) {
			var event domain.MintedEvent
			require.NoError(t, json.Unmarshal(data, &event))
			assert.Equal(t, "42", event.Record.TokenID)
			assert.Len(t, opts, 1)
			return &natsjs.PubAck{Stream: "EVERMARKS", Sequence: 1}, nil
		})
	require.NoError(t, publisher.PublishMinted(context.Background(), mintedEvent()))

	m.js.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
	assert.Error(t, publisher.PublishMinted(context.Background(), mintedEvent()))

	m.conn.EXPECT().Close()
	publisher.Close()
}

type subscriberHarness struct {
	*natsMocks
	consumer *mocks.MockNatsConsumer
	cc       *mocks.MockConsumeContext
	closed   chan struct{}
}

func setupSubscriber(t *testing.T) (messaging.Subscriber, *subscriberHarness) {
	h := &subscriberHarness{natsMocks: setupNats(t), closed: make(chan struct{})}
	h.consumer = mocks.NewMockNatsConsumer(h.ctrl)
	h.cc = mocks.NewMockConsumeContext(h.ctrl)
	h.expectConnect()
	h.js.EXPECT().CreateOrUpdateConsumer(gomock.Any(), "EVERMARKS", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, cfg natsjs.ConsumerConfig) (adapter.Consumer, error) {
			assert.Equal(t, "evermark-reconciler", cfg.Durable)
			assert.Equal(t, natsjs.AckExplicitPolicy, cfg.AckPolicy)
			assert.Equal(t, 5, cfg.MaxDeliver)
			return h.consumer, nil
		})

	sub, err := jetstream.NewSubscriber(context.Background(), testConfig, h.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	h.cc.EXPECT().Closed().Return(h.closed).AnyTimes()
	h.cc.EXPECT().Drain().Do(func() { close(h.closed) })
	return sub, h
}

// deliver makes Consume hand msgs to the handler before returning
func (h *subscriberHarness) deliver(msgs ...adapter.Message) {
	h.consumer.EXPECT().Consume(gomock.Any()).DoAndReturn(
		func(handler adapter.MessageHandler, _ ...natsjs.PullConsumeOpt) (adapter.ConsumeContext, error) {
			for _, msg := range msgs {
				handler(msg)
			}
			return h.cc, nil
		})
}

func (h *subscriberHarness) message(data []byte) *mocks.MockJetStreamMessage {
	msg := mocks.NewMockJetStreamMessage(h.ctrl)
	msg.EXPECT().Data().Return(data).AnyTimes()
	msg.EXPECT().Subject().Return("evermark.minted").AnyTimes()
	return msg
}

func TestSubscribe_AcknowledgesHandledEvents(t *testing.T) {
	sub, h := setupSubscriber(t)
	defer h.ctrl.Finish()

	data, err := adapter.NewJSON().Marshal(mintedEvent())
	require.NoError(t, err)

	ok := h.message(data)
	ok.EXPECT().Ack().Return(nil)
	h.deliver(ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var handled []string
	err = sub.Subscribe(ctx, func(_ context.Context, event *domain.MintedEvent) error {
		handled = append(handled, event.Record.TokenID)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"42"}, handled)
}

func TestSubscribe_FailureHandling(t *testing.T) {
	sub, h := setupSubscriber(t)
	defer h.ctrl.Finish()

	poison := mintedEvent()
	poison.Record.TxHash = "poison"
	transient := mintedEvent()
	transient.Record.TxHash = "transient"

	json := adapter.NewJSON()
	poisonData, err := json.Marshal(poison)
	require.NoError(t, err)
	transientData, err := json.Marshal(transient)
	require.NoError(t, err)

	malformed := h.message([]byte("{not json"))
	malformed.EXPECT().Term().Return(nil)
	poisonMsg := h.message(poisonData)
	poisonMsg.EXPECT().Term().Return(nil)
	transientMsg := h.message(transientData)
	transientMsg.EXPECT().NakWithDelay(30 * time.Second).Return(nil)
	h.deliver(malformed, poisonMsg, transientMsg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = sub.Subscribe(ctx, func(_ context.Context, event *domain.MintedEvent) error {
		if event.Record.TxHash == "poison" {
			return fmt.Errorf("record has no tx hash: %w", messaging.ErrPoisonMessage)
		}
		return errors.New("database down")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSubscribe_ConsumeFailure(t *testing.T) {
	h := &subscriberHarness{natsMocks: setupNats(t)}
	defer h.ctrl.Finish()
	h.consumer = mocks.NewMockNatsConsumer(h.ctrl)
	h.expectConnect()
	h.js.EXPECT().CreateOrUpdateConsumer(gomock.Any(), gomock.Any(), gomock.Any()).Return(h.consumer, nil)
	h.consumer.EXPECT().Consume(gomock.Any()).Return(nil, errors.New("consumer deleted"))

	sub, err := jetstream.NewSubscriber(context.Background(), testConfig, h.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	err = sub.Subscribe(context.Background(), func(context.Context, *domain.MintedEvent) error { return nil })
	assert.Error(t, err)

	h.conn.EXPECT().Close()
	sub.Close()
}
