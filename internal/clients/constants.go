package clients

import "time"

const (
	VALKEY_CONN_TIMEOUT = 5 * time.Second
	VALKEY_PING_TIMEOUT = 3 * time.Second
	USER_AGENT          = "summariser-client/1.0 (+https://github.com/spacesedan/summariser)"
)
