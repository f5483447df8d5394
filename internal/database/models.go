package database

import (
	"time"
)

type Table struct {
	TableID   string
	Name      string
	State     string
	CreatedAt time.Time
}

type Tablet struct {
	ID         int64
	TableID    string
	PrevEndRow []byte
	EndRow     []byte
}

type TableLock struct {
	TableID    string
	TxID       string
	Mode       string
	AcquiredAt time.Time
}

type AbandonedJob struct {
	ID    int64
	State string
	Args  []byte
}
