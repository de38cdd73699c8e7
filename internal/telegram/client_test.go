package telegram

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phrasebot/internal/domain"
)

const testToken = "123:secret"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeBotAPI serves getMe plus whatever handlers a test registers.
type fakeBotAPI struct {
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	forms    map[string][]map[string]string
}

func newFakeBotAPI(t *testing.T) (*fakeBotAPI, *httptest.Server) {
	t.Helper()
	f := &fakeBotAPI{
		handlers: map[string]http.HandlerFunc{
			"getMe": func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Phrase","username":"phrasebot"}}`)
			},
		},
		forms: map[string][]map[string]string{},
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeBotAPI) handle(method string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = h
}

func (f *fakeBotAPI) calls(method string) []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.forms[method]
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	prefix := "/bot" + testToken + "/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	method := strings.TrimPrefix(r.URL.Path, prefix)
	r.ParseForm()
	form := map[string]string{}
	for k := range r.PostForm {
		form[k] = r.PostForm.Get(k)
	}

	f.mu.Lock()
	f.forms[method] = append(f.forms[method], form)
	h, ok := f.handlers[method]
	f.mu.Unlock()

	if !ok {
		io.WriteString(w, `{"ok":false,"error_code":404,"description":"Not Found"}`)
		return
	}
	h(w, r)
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(Config{
		Token:       testToken,
		APIEndpoint: srv.URL + "/bot%s/%s",
		PollTimeout: 5 * time.Second,
		Logger:      discardLogger(),
	})
	require.NoError(t, err)
	return c
}

func TestNew_EmptyToken(t *testing.T) {
	_, err := New(Config{Logger: discardLogger()})
	assert.Error(t, err)
}

func TestNew_RejectedToken(t *testing.T) {
	f, srv := newFakeBotAPI(t)
	f.handle("getMe", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
	})

	_, err := New(Config{
		Token:       testToken,
		APIEndpoint: srv.URL + "/bot%s/%s",
		Logger:      discardLogger(),
	})
	assert.Error(t, err)
}

func TestPoll_DecodesUpdates(t *testing.T) {
	f, srv := newFakeBotAPI(t)
	f.handle("getUpdates", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true,"result":[
			{"update_id":41,"message":{"message_id":7,"date":0,"chat":{"id":-100,"type":"group"},"text":"привет"}},
			{"update_id":42,"message":{"message_id":8,"date":0,"chat":{"id":-100,"type":"group"},"sticker":{"file_id":"x","file_unique_id":"y","width":1,"height":1,"is_animated":false}}},
			{"update_id":43,"edited_message":{"message_id":7,"date":0,"chat":{"id":-100,"type":"group"},"text":"пока"}}
		]}`)
	})
	c := newTestClient(t, srv)
	assert.Equal(t, "phrasebot", c.Username())

	updates, ok := c.Poll(context.Background(), 40)
	require.True(t, ok)
	require.Len(t, updates, 3)

	assert.Equal(t, domain.Update{
		UpdateID: 41,
		Message:  &domain.Message{ChatID: -100, MessageID: 7, Text: "привет"},
	}, updates[0])
	require.NotNil(t, updates[1].Message)
	assert.Empty(t, updates[1].Message.Text)
	assert.Nil(t, updates[2].Message)

	form := f.calls("getUpdates")[0]
	assert.Equal(t, "40", form["offset"])
	assert.Equal(t, "5", form["timeout"])
}

func TestPoll_ZeroOffsetIsOmitted(t *testing.T) {
	f, srv := newFakeBotAPI(t)
	f.handle("getUpdates", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true,"result":[]}`)
	})
	c := newTestClient(t, srv)

	updates, ok := c.Poll(context.Background(), 0)
	require.True(t, ok)
	assert.Empty(t, updates)

	_, hasOffset := f.calls("getUpdates")[0]["offset"]
	assert.False(t, hasOffset)
}

func TestPoll_FailuresReportNoData(t *testing.T) {
	bodies := map[string]string{
		"api error": `{"ok":false,"error_code":409,"description":"Conflict"}`,
		"malformed": `{"ok":true,"result":"not a list"}`,
		"not json":  `<html>bad gateway</html>`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			f, srv := newFakeBotAPI(t)
			f.handle("getUpdates", func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, body)
			})
			c := newTestClient(t, srv)

			updates, ok := c.Poll(context.Background(), 1)
			assert.False(t, ok)
			assert.Nil(t, updates)
		})
	}
}

func TestPoll_CancelledContextReturnsImmediately(t *testing.T) {
	f, srv := newFakeBotAPI(t)
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	f.handle("getUpdates", func(w http.ResponseWriter, r *http.Request) {
		<-release
		io.WriteString(w, `{"ok":true,"result":[]}`)
	})
	c := newTestClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, ok := c.Poll(ctx, 1)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSend_RepliesToMessage(t *testing.T) {
	f, srv := newFakeBotAPI(t)
	f.handle("sendMessage", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true,"result":{"message_id":99,"date":0,"chat":{"id":-100,"type":"group"},"text":"ok"}}`)
	})
	c := newTestClient(t, srv)

	err := c.Send(context.Background(), domain.Reply{ChatID: -100, Text: "Хватит играть!", ReplyTo: 8})
	require.NoError(t, err)

	form := f.calls("sendMessage")[0]
	assert.Equal(t, "-100", form["chat_id"])
	assert.Equal(t, "Хватит играть!", form["text"])
	assert.Equal(t, "8", form["reply_to_message_id"])
}

func TestSend_Error(t *testing.T) {
	f, srv := newFakeBotAPI(t)
	f.handle("sendMessage", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false,"error_code":403,"description":"Forbidden: bot was kicked"}`)
	})
	c := newTestClient(t, srv)

	err := c.Send(context.Background(), domain.Reply{ChatID: 1, Text: "x", ReplyTo: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat 1")
}
