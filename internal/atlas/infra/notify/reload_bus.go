// Package notify 通过 redis pub/sub 通知各实例重新加载数据。
//
// 只有 atlasctl publish 发出通知，服务端收到后只重新加载、不再转发，
// 多实例之间不会互相触发。
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"WorldMap/internal/shared/serverconfig"
	"WorldMap/modules/kit/logx"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Event 是一次数据发布的通知内容。
type Event struct {
	Origin     string    `json:"origin"`
	MapVersion string    `json:"mapVersion"`
	Datasets   []string  `json:"datasets"`
	At         time.Time `json:"at"`
}

type ReloadBus struct {
	client  *redis.Client
	channel string
	log     logx.Logger
}

// Open 连接并 ping redis。
func Open(ctx context.Context, cfg serverconfig.RedisConfig, log logx.Logger) (*ReloadBus, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis addr is empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	channel := cfg.Channel
	if channel == "" {
		channel = serverconfig.DefaultReloadChannel
	}
	return New(client, channel, log), nil
}

func New(client *redis.Client, channel string, log logx.Logger) *ReloadBus {
	if log == nil {
		log = logx.Nop()
	}
	return &ReloadBus{client: client, channel: channel, log: log}
}

func (b *ReloadBus) Close() error {
	return b.client.Close()
}

// Announce 发布通知，返回收到通知的订阅者数量。
func (b *ReloadBus) Announce(ctx context.Context, ev Event) (int64, error) {
	if ev.Origin == "" {
		ev.Origin = Origin()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return 0, err
	}
	return b.client.Publish(ctx, b.channel, payload).Result()
}

// Listen 阻塞直到 ctx 结束；无法解析的消息记日志后跳过。
func (b *ReloadBus) Listen(ctx context.Context, onEvent func(ctx context.Context, ev Event)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	b.log.Info("reload bus listening", zap.String("channel", b.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			ev, err := DecodeEvent(msg.Payload)
			if err != nil {
				b.log.Warn("丢弃无法解析的重新加载通知", zap.String("payload", msg.Payload), zap.Error(err))
				continue
			}
			onEvent(ctx, ev)
		}
	}
}

func DecodeEvent(payload string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return Event{}, err
	}
	if ev.Origin == "" {
		return Event{}, errors.New("event origin is empty")
	}
	return ev, nil
}

// Origin 标识发出通知的进程：host/pid。
func Origin() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%s/%d", host, os.Getpid())
}
