package models

import "time"

// JobLock is a database lock used to make sure a scheduled job (daily task
// expiry, leaderboard cache warmup) runs on a single instance at a time.
type JobLock struct {
	LockName   string `gorm:"primaryKey;size:255"`
	InstanceID string `gorm:"size:255;not null"`
	AcquiredAt int64  `gorm:"not null;index"`
	ExpiresAt  int64  `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (JobLock) TableName() string {
	return "job_locks"
}

// Expired reports whether the lock lease has run out.
func (l *JobLock) Expired(now time.Time) bool {
	return l.ExpiresAt <= now.Unix()
}
