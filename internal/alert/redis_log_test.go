package alert

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSummarySender struct {
	subjects []string
	bodies   []string
	err      error
}

func (f *fakeSummarySender) SendSummary(_ context.Context, subject, html string) error {
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, html)
	return f.err
}

func newRedisLog(t *testing.T) (*RedisLog, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLog(rdb), mr
}

func TestRedisLog_NotifyAppendsJSON(t *testing.T) {
	log, mr := newRedisLog(t)
	ctx := context.Background()

	require.NoError(t, log.Notify(ctx, widgetAlert()))
	require.NoError(t, log.Notify(ctx, widgetAlert()))

	items, err := mr.List(DailyLowStockLogKey)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Contains(t, items[0], `"product_id":"P001"`)
}

func TestRedisLog_DrainEmptiesList(t *testing.T) {
	log, mr := newRedisLog(t)
	ctx := context.Background()

	second := widgetAlert()
	second.ProductID, second.Name = "P003", "Thingamajig"
	require.NoError(t, log.Notify(ctx, widgetAlert()))
	require.NoError(t, log.Notify(ctx, second))

	alerts, err := log.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "P001", alerts[0].ProductID)
	assert.Equal(t, "P003", alerts[1].ProductID)
	assert.True(t, alerts[0].Time.Equal(widgetAlert().Time))

	assert.False(t, mr.Exists(DailyLowStockLogKey))

	again, err := log.Drain(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestRedisLog_NotifyFailsWhenRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	err := NewRedisLog(rdb).Notify(context.Background(), widgetAlert())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to push alert to redis")
}

func TestSendDailySummary(t *testing.T) {
	log, mr := newRedisLog(t)
	ctx := context.Background()

	require.NoError(t, log.Notify(ctx, widgetAlert()))
	require.NoError(t, log.Notify(ctx, widgetAlert()))

	sender := &fakeSummarySender{}
	require.NoError(t, SendDailySummary(ctx, log, sender))

	require.Len(t, sender.bodies, 1)
	assert.Contains(t, sender.bodies[0], "Total alerts: <strong>2</strong>")
	assert.False(t, mr.Exists(DailyLowStockLogKey))
}

func TestSendDailySummary_NothingToReport(t *testing.T) {
	log, _ := newRedisLog(t)
	sender := &fakeSummarySender{}

	require.NoError(t, SendDailySummary(context.Background(), log, sender))
	assert.Empty(t, sender.subjects)
}

func TestSendDailySummary_MailFailure(t *testing.T) {
	log, _ := newRedisLog(t)
	ctx := context.Background()
	require.NoError(t, log.Notify(ctx, widgetAlert()))

	sender := &fakeSummarySender{err: errors.New("smtp down")}
	err := SendDailySummary(ctx, log, sender)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}
