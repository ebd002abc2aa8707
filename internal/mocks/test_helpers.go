package mocks

import "github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"

// TestUsers returns a small user set. u1 is 田中 一郎.
func TestUsers() []domain.User {
	return []domain.User{
		{ID: "u1", Name: "田中 一郎", Address: "東京都中央区"},
		{ID: "u2", Name: "佐藤 花子", Address: "東京都新宿区"},
		{ID: "u3", Name: "John Smith", Address: "東京都渋谷区"},
	}
}

// TestStatus creates a report with the fields most tests care about.
func TestStatus(id, userID string, status domain.Status) domain.SafetyStatus {
	return domain.SafetyStatus{
		ID:        id,
		UserID:    userID,
		Status:    status,
		Timestamp: "2023-09-01 14:30",
		Location:  "東京都中央区",
	}
}
