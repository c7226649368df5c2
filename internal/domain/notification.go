package domain

import "time"

// Notification is a push notification as kept in the user's history.
type Notification struct {
	ID        ID         `json:"id" validate:"required"`
	UserID    ID         `json:"userId,omitempty"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	IsOpened  bool       `json:"isOpened"`
	OpenedAt  *time.Time `json:"openedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// PageInfo is the backend's pagination block.
type PageInfo struct {
	Page       int `json:"page" validate:"gte=1"`
	Limit      int `json:"limit" validate:"gte=1"`
	Total      int `json:"total" validate:"gte=0"`
	TotalPages int `json:"totalPages" validate:"gte=0"`
}

// NotificationPage is one page of notification history.
type NotificationPage struct {
	Notifications []Notification `json:"notifications" validate:"dive"`
	Pagination    PageInfo       `json:"pagination"`
}
