package alert

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// BuildSummary renders the daily low-stock report. Products are listed by
// number of alerts, most alerted first.
func BuildSummary(alerts []LowStockAlert) string {
	counts := make(map[string]int)
	names := make(map[string]string)
	for _, a := range alerts {
		counts[a.ProductID]++
		names[a.ProductID] = a.Name
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	var sb strings.Builder
	sb.WriteString("<h2>📊 Daily Low Stock Summary</h2>")
	fmt.Fprintf(&sb, "<p>Total alerts: <strong>%d</strong></p>", len(alerts))

	sb.WriteString("<h3>📦 By Product</h3><ul>")
	for _, id := range ids {
		fmt.Fprintf(&sb, "<li><code>%s</code> %s: %d</li>", html.EscapeString(id), html.EscapeString(names[id]), counts[id])
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h3>📋 Full Log</h3><ul>")
	for _, a := range alerts {
		fmt.Fprintf(&sb, "<li><b>%s</b> (<code>%s</code>) stock %d / threshold %d at %s</li>",
			html.EscapeString(a.Name), html.EscapeString(a.ProductID), a.Stock, a.Threshold, a.Time.Format(time.RFC822))
	}
	sb.WriteString("</ul>")

	return sb.String()
}

type summarySender interface {
	SendSummary(ctx context.Context, subject, html string) error
}

// SendDailySummary drains the alert log and mails the report. Nothing is
// sent when no alert was raised.
func SendDailySummary(ctx context.Context, log *RedisLog, mailer summarySender) error {
	alerts, err := log.Drain(ctx)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		return nil
	}
	if err := mailer.SendSummary(ctx, "📊 Daily Low Stock Report", BuildSummary(alerts)); err != nil {
		return fmt.Errorf("failed to mail %d drained alerts: %w", len(alerts), err)
	}
	return nil
}

// StartDailySummary sends the report every day at 23:59 until ctx is done.
func StartDailySummary(ctx context.Context, log *RedisLog, mailer summarySender, logger *zap.Logger) {
	for {
		wait := time.Until(nextRun(time.Now()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		if err := SendDailySummary(ctx, log, mailer); err != nil {
			logger.Error("daily low stock summary failed", zap.Error(err))
		}
	}
}

func nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
