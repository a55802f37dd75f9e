package models

// SegmentItem is one order line enriched with its resolved display image.
type SegmentItem struct {
	OrderItem
	ImageURL string `json:"image_url"` // resolved display URL, "" when no image
}

// OrderSegment is a derived, display-only view: the lines of a single order
// that belong to a single restaurant. Segments partition an order's items by
// restaurant and are recomputed on every fetch, never persisted.
type OrderSegment struct {
	ID             string        `json:"id"` // "{orderID}-{restaurantID}"
	OrderID        uint          `json:"order_id"`
	RestaurantID   uint          `json:"restaurant_id"`
	RestaurantName string        `json:"restaurant_name"`
	Items          []SegmentItem `json:"items"`
	Subtotal       float64       `json:"subtotal"`
	OrderDate      string        `json:"order_date"` // short formatted date
	Status         string        `json:"status"`
}

// OrderHistory is the customer-facing order-history result: all segments in
// order of orders (newest first), plus any lines whose restaurant could not
// be determined. Those lines are excluded from every segment but surfaced
// here instead of being dropped silently.
type OrderHistory struct {
	Segments        []OrderSegment `json:"segments"`
	UnresolvedItems []SegmentItem  `json:"unresolved_items,omitempty"`
}
