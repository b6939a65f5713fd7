package models

import "time"

type ActivityAction string

const (
	ActivityLogin              ActivityAction = "login"
	ActivityRegister           ActivityAction = "register"
	ActivityLogout             ActivityAction = "logout"
	ActivitySessionInvalidated ActivityAction = "session_invalidated"
	ActivitySourceSelected     ActivityAction = "source_selected"
	ActivityMockFallback       ActivityAction = "mock_fallback"
)

type Activity struct {
	ID        string         `bson:"_id" json:"id"`
	Action    ActivityAction `bson:"action" json:"action"`
	Tier      SourceTier     `bson:"tier,omitempty" json:"tier,omitempty"`
	UserID    string         `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Detail    string         `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
}
