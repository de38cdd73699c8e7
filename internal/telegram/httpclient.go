package telegram

import (
	"net"
	"net/http"
	"time"
)

// longPollSlack is added to the poll timeout so the client never gives up
// before Telegram answers an idle long poll.
const longPollSlack = 10 * time.Second

// newHTTPClient returns a pooled client whose timeout outlasts a long poll
// of pollTimeout.
func newHTTPClient(pollTimeout time.Duration) *http.Client {
	timeout := pollTimeout + longPollSlack
	transport := &http.Transport{
		MaxIdleConns:        4,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
