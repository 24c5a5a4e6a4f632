package common

import "sync/atomic"

var (
	UsingSQLite     atomic.Bool
	UsingPostgreSQL atomic.Bool
	UsingMySQL      atomic.Bool
)

var SQLitePath = "chat-api.db"

const (
	SQLiteBusyTimeout = 3000 // milliseconds
)
