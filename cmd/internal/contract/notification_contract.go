package contract

type NotificationResponse struct {
	ID        int64   `json:"id,string"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	Link      string  `json:"link,omitempty"`
	Read      bool    `json:"read"`
	ReadAt    *string `json:"read_at"`
	CreatedAt string  `json:"created_at"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
