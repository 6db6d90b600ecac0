package alert

import (
	"context"
	"errors"
	"mime"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingAlerter struct {
	got []LowStockAlert
	err error
}

func (r *recordingAlerter) Notify(_ context.Context, a LowStockAlert) error {
	r.got = append(r.got, a)
	return r.err
}

func widgetAlert() LowStockAlert {
	return LowStockAlert{
		ProductID: "P001",
		Name:      "Widget",
		Stock:     1,
		Threshold: 2,
		Time:      time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestLowStockAlert_Message(t *testing.T) {
	assert.Equal(t,
		"ALERT: Stock for 'Widget' (ID: P001) has fallen below threshold. Current stock: 1",
		widgetAlert().Message())
}

func TestMulti_NotifiesAllAndJoinsErrors(t *testing.T) {
	ok := &recordingAlerter{}
	failing := &recordingAlerter{err: errors.New("redis down")}
	last := &recordingAlerter{}

	err := Multi{ok, failing, last}.Notify(context.Background(), widgetAlert())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")
	assert.Len(t, ok.got, 1)
	assert.Len(t, failing.got, 1)
	assert.Len(t, last.got, 1)
}

func TestMulti_Empty(t *testing.T) {
	require.NoError(t, Multi(nil).Notify(context.Background(), widgetAlert()))
}

func newTestMailer(send sendMailFunc) *Mailer {
	m := NewMailer(SMTPConfig{
		Server:       "smtp.example.com",
		Port:         "587",
		From:         "inventory@example.com",
		To:           "staff@example.com",
		AuthDisabled: true,
	}, zap.NewNop())
	m.sendMail = send
	return m
}

func decodedSubject(t *testing.T, msg string) string {
	t.Helper()
	for _, line := range strings.Split(msg, "\r\n") {
		if strings.HasPrefix(line, "Subject: ") {
			subject, err := new(mime.WordDecoder).DecodeHeader(strings.TrimPrefix(line, "Subject: "))
			require.NoError(t, err)
			return subject
		}
	}
	t.Fatal("no subject header")
	return ""
}

func TestMailer_Notify(t *testing.T) {
	var sent []byte
	m := newTestMailer(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		assert.Equal(t, "smtp.example.com:587", addr)
		assert.Nil(t, a)
		assert.Equal(t, []string{"staff@example.com"}, to)
		sent = msg
		return nil
	})

	require.NoError(t, m.Notify(context.Background(), widgetAlert()))
	require.NotNil(t, sent, "mail must be sent before Notify returns")

	body := string(sent)
	assert.Equal(t, "⚠️ LOW STOCK: Widget (P001)", decodedSubject(t, body))
	assert.Contains(t, body, "Current stock: 1")
}

func TestMailer_NotifyReturnsSendFailure(t *testing.T) {
	m := newTestMailer(func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("smtp down")
	})

	err := m.Notify(context.Background(), widgetAlert())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}

func TestMailer_NotifyHonoursContext(t *testing.T) {
	release := make(chan struct{})
	m := newTestMailer(func(string, smtp.Auth, string, []string, []byte) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := m.Notify(ctx, widgetAlert())
	require.ErrorIs(t, err, context.DeadlineExceeded)

	closed := make(chan struct{})
	go func() {
		_ = m.Close()
		close(closed)
	}()
	select {
	case <-closed:
		t.Fatal("Close returned while a send was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return after the send finished")
	}
}

func TestMailer_SubjectCannotInjectHeaders(t *testing.T) {
	var sent []byte
	m := newTestMailer(func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		sent = msg
		return nil
	})

	a := widgetAlert()
	a.Name = "Widget\r\nBcc: attacker@example.com"
	require.NoError(t, m.Notify(context.Background(), a))

	headers := strings.SplitN(string(sent), "\r\n\r\n", 2)[0]
	for _, line := range strings.Split(headers, "\r\n") {
		assert.False(t, strings.HasPrefix(line, "Bcc:"), "unexpected header line %q", line)
	}
	assert.Len(t, strings.Split(headers, "\r\n"), 3)
	assert.NotContains(t, decodedSubject(t, string(sent)), "\n")
}

func TestMailer_SendSummary(t *testing.T) {
	var sent []byte
	m := newTestMailer(func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		sent = msg
		return nil
	})

	require.NoError(t, m.SendSummary(context.Background(), "Daily report", "<p>hi</p>"))
	assert.Contains(t, string(sent), "Content-Type: text/html")
	assert.Contains(t, string(sent), "<p>hi</p>")
}

func TestBuildSummary(t *testing.T) {
	gadget := widgetAlert()
	gadget.ProductID, gadget.Name = "P003", "Thingamajig"

	html := BuildSummary([]LowStockAlert{widgetAlert(), gadget, widgetAlert()})

	assert.Contains(t, html, "Total alerts: <strong>3</strong>")
	widgetIdx := strings.Index(html, "<code>P001</code> Widget: 2")
	thingIdx := strings.Index(html, "<code>P003</code> Thingamajig: 1")
	require.NotEqual(t, -1, widgetIdx)
	require.NotEqual(t, -1, thingIdx)
	assert.Less(t, widgetIdx, thingIdx)
}

func TestNextRun(t *testing.T) {
	loc := time.UTC

	before := time.Date(2025, 7, 1, 12, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 7, 1, 23, 59, 0, 0, loc), nextRun(before))

	after := time.Date(2025, 7, 1, 23, 59, 30, 0, loc)
	assert.Equal(t, time.Date(2025, 7, 2, 23, 59, 0, 0, loc), nextRun(after))
}

func TestDecodeAlerts_SkipsGarbage(t *testing.T) {
	alerts := decodeAlerts([]string{
		`{"product_id":"P001","name":"Widget","stock":1,"threshold":2}`,
		`not json`,
	})
	require.Len(t, alerts, 1)
	assert.Equal(t, "P001", alerts[0].ProductID)
}
