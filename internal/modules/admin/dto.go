package admin

type Dashboard struct {
	PendingBookings     int64 `json:"pendingBookings"`
	PendingOrders       int64 `json:"pendingOrders"`
	RevenueCents30d     int64 `json:"revenueCents30d"`
	UnreadNotifications int64 `json:"unreadNotifications"`
	LowStockProducts    int64 `json:"lowStockProducts"`
}
