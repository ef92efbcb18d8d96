package rabbitmq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoArmGo/PhotoSearch/internal/messaging/payloads"
)

func testClient() *Client {
	return &Client{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestProcessDelivery(t *testing.T) {
	okHandler := func(context.Context, payloads.DownloadJobPayload) error { return nil }
	failHandler := func(context.Context, payloads.DownloadJobPayload) error { return errors.New("upload failed") }

	tests := []struct {
		name        string
		body        string
		redelivered bool
		handler     func(context.Context, payloads.DownloadJobPayload) error
		want        deliveryOutcome
	}{
		{name: "success", body: `{"photo_id":"p1"}`, handler: okHandler, want: outcomeAck},
		{name: "redelivered success", body: `{"photo_id":"p1"}`, redelivered: true, handler: okHandler, want: outcomeAck},
		{name: "first failure is requeued", body: `{"photo_id":"p1"}`, handler: failHandler, want: outcomeRequeue},
		{name: "repeated failure is dropped", body: `{"photo_id":"p1"}`, redelivered: true, handler: failHandler, want: outcomeDrop},
		{name: "malformed message is dropped", body: `{"photo_id":`, handler: okHandler, want: outcomeDrop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testClient().processDelivery(context.Background(), []byte(tt.body), tt.redelivered, tt.handler)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProcessDelivery_PassesPayload(t *testing.T) {
	var received []payloads.DownloadJobPayload
	handler := func(_ context.Context, p payloads.DownloadJobPayload) error {
		received = append(received, p)
		return nil
	}

	c := testClient()
	c.processDelivery(context.Background(), []byte(`{"photo_id":"p1","download_location":"https://api.unsplash.com/photos/p1/download"}`), false, handler)
	c.processDelivery(context.Background(), []byte(`{"photo_id":"p1"}`), true, handler)

	if assert.Len(t, received, 2) {
		assert.Equal(t, "p1", received[0].PhotoID)
		assert.Equal(t, "https://api.unsplash.com/photos/p1/download", received[0].DownloadLocation)
		assert.False(t, received[0].Redelivered)
		assert.True(t, received[1].Redelivered)
	}
}

func TestProcessDelivery_MalformedSkipsHandler(t *testing.T) {
	called := false
	handler := func(context.Context, payloads.DownloadJobPayload) error {
		called = true
		return nil
	}

	outcome := testClient().processDelivery(context.Background(), []byte("not json"), false, handler)
	assert.Equal(t, outcomeDrop, outcome)
	assert.False(t, called)
}
