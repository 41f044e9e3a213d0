package config

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, validYAML)

	updated := make(chan AppConfig, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Watcher{Path: path, Cooldown: 10 * time.Millisecond}.Start(ctx, func(cfg AppConfig) {
			select {
			case updated <- cfg:
			default:
			}
		})
	}()

	// 给 watcher 一点时间建立监听。
	time.Sleep(100 * time.Millisecond)
	body := strings.Replace(validYAML, "baseVolume: 10", "baseVolume: 25", 1)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	select {
	case cfg := <-updated:
		assert.Equal(t, 25, cfg.Trading.BaseVolume)
	case <-time.After(3 * time.Second):
		t.Fatal("config reload callback not observed")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

// 写入解析失败的内容不触发回调，也不中断监听。
func TestWatcherSkipsInvalidConfig(t *testing.T) {
	path := writeConfig(t, validYAML)

	updated := make(chan AppConfig, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = Watcher{Path: path, Cooldown: 10 * time.Millisecond}.Start(ctx, func(cfg AppConfig) {
			updated <- cfg
		})
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0o644))
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o644))

	select {
	case cfg := <-updated:
		// 第一次收到的必须是修复后的有效配置。
		assert.Equal(t, "BMW", cfg.Trading.Underlying)
	case <-time.After(3 * time.Second):
		t.Fatal("valid rewrite not observed")
	}
}
