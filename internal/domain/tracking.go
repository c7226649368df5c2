package domain

import "time"

// GeoPoint is a coordinate with an optional address or timestamp.
type GeoPoint struct {
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	Address   string     `json:"address,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Route is the planned delivery route.
type Route struct {
	Polyline     string `json:"polyline"`
	DurationText string `json:"durationText"`
	DistanceText string `json:"distanceText"`
}

// StatusChange is one entry of an order's status history.
type StatusChange struct {
	ID        ID          `json:"id"`
	Status    OrderStatus `json:"status"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// TrackingInfo is the GET /api/delivery/track/:orderId payload.
type TrackingInfo struct {
	OrderID               ID             `json:"orderId" validate:"required"`
	Status                OrderStatus    `json:"status" validate:"required"`
	DriverName            string         `json:"driverName,omitempty"`
	DriverPhone           string         `json:"driverPhone,omitempty"`
	DriverLocation        *GeoPoint      `json:"driverLocation,omitempty"`
	CustomerLocation      *GeoPoint      `json:"customerLocation,omitempty"`
	RestaurantLocation    *GeoPoint      `json:"restaurantLocation,omitempty"`
	Route                 *Route         `json:"route,omitempty"`
	EstimatedDeliveryTime *time.Time     `json:"estimatedDeliveryTime,omitempty"`
	StatusHistory         []StatusChange `json:"statusHistory"`
}
