package handlers

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/nuricanozturk01/setupshowroom-public/internal/notifier"
	jwtutil "github.com/nuricanozturk01/setupshowroom-public/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "stream-test-secret"

func newStreamServer(t *testing.T) (*httptest.Server, *notifier.Registry) {
	t.Helper()

	registry := notifier.NewRegistry()
	handler := NewStreamHandler(registry, testSecret)

	router := mux.NewRouter()
	router.HandleFunc("/public/notification/stream", handler.StreamNotificationsHandler).Methods("GET")

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, registry
}

func subscribe(t *testing.T, server *httptest.Server, token string) (*http.Response, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/public/notification/stream?token="+token, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp, cancel
}

// readFrame reads one event/data frame off the stream.
func readFrame(t *testing.T, reader *bufio.Reader) (name, data string) {
	t.Helper()

	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")

		switch {
		case line == "":
			if name != "" || data != "" {
				return name, data
			}
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestStreamSubscribeAndPush(t *testing.T) {
	server, registry := newStreamServer(t)

	userID := primitive.NewObjectID().Hex()
	token, err := jwtutil.GenerateToken(userID, "alice@example.com", "user", testSecret, time.Hour)
	require.NoError(t, err)

	resp, cancel := subscribe(t, server, token)
	defer cancel()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no", resp.Header.Get("X-Accel-Buffering"))

	reader := bufio.NewReader(resp.Body)

	name, data := readFrame(t, reader)
	assert.Equal(t, notifier.EventInit, name)
	assert.Equal(t, "Connected!", data)

	// The init frame is only written after registration, so the
	// connection is visible by now.
	conn, ok := registry.Get(userID)
	require.True(t, ok)

	require.NoError(t, conn.Send(notifier.EventNotification, `{"id":"abc"}`))
	name, data = readFrame(t, reader)
	assert.Equal(t, notifier.EventNotification, name)
	assert.Equal(t, `{"id":"abc"}`, data)
}

func TestStreamClientDisconnectEvicts(t *testing.T) {
	server, registry := newStreamServer(t)

	userID := primitive.NewObjectID().Hex()
	token, err := jwtutil.GenerateToken(userID, "alice@example.com", "user", testSecret, time.Hour)
	require.NoError(t, err)

	resp, cancel := subscribe(t, server, token)
	reader := bufio.NewReader(resp.Body)
	readFrame(t, reader)

	_, ok := registry.Get(userID)
	require.True(t, ok)

	cancel()

	require.Eventually(t, func() bool {
		_, ok := registry.Get(userID)
		return !ok
	}, time.Second, 10*time.Millisecond, "disconnect must evict the connection")
}

func TestStreamResubscribeReplacesConnection(t *testing.T) {
	server, registry := newStreamServer(t)

	userID := primitive.NewObjectID().Hex()
	token, err := jwtutil.GenerateToken(userID, "alice@example.com", "user", testSecret, time.Hour)
	require.NoError(t, err)

	first, cancelFirst := subscribe(t, server, token)
	defer cancelFirst()
	firstReader := bufio.NewReader(first.Body)
	readFrame(t, firstReader)

	second, cancelSecond := subscribe(t, server, token)
	defer cancelSecond()
	secondReader := bufio.NewReader(second.Body)
	readFrame(t, secondReader)

	// The first stream ends once its connection is displaced.
	require.Eventually(t, func() bool {
		_, err := firstReader.ReadString('\n')
		return err == io.EOF || err == io.ErrUnexpectedEOF
	}, 2*time.Second, 10*time.Millisecond)

	// Pushes land on the replacement.
	conn, ok := registry.Get(userID)
	require.True(t, ok)
	require.NoError(t, conn.Send(notifier.EventNotification, `{"id":"after-replace"}`))

	name, data := readFrame(t, secondReader)
	assert.Equal(t, notifier.EventNotification, name)
	assert.Equal(t, `{"id":"after-replace"}`, data)
}

func TestStreamRejectsMissingToken(t *testing.T) {
	server, _ := newStreamServer(t)

	resp, err := http.Get(server.URL + "/public/notification/stream")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStreamRejectsInvalidToken(t *testing.T) {
	server, registry := newStreamServer(t)

	userID := primitive.NewObjectID().Hex()
	token, err := jwtutil.GenerateToken(userID, "alice@example.com", "user", "some-other-secret", time.Hour)
	require.NoError(t, err)

	resp, err := http.Get(server.URL + "/public/notification/stream?token=" + token)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, registry.Len())
}
