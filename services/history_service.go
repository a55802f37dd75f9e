package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Gelou69/Food-OrderomgHub/models"
)

// orderDateFormat is the short display date on a segment
const orderDateFormat = "Jan 2, 2006"

// HistoryService builds the customer order-history view: per-restaurant,
// per-order segments with resolved item images.
//
// The store is read entity by entity (orders, lines, food items,
// restaurants) and joined here by foreign key rather than leaning on a
// nested-selection feature of any particular store.
type HistoryService struct {
	db       *gorm.DB
	resolver *ImageResolver
}

// NewHistoryService creates a history service over the given store and
// image resolver
func NewHistoryService(db *gorm.DB, resolver *ImageResolver) *HistoryService {
	return &HistoryService{db: db, resolver: resolver}
}

// BuildHistory assembles the full order history for a customer.
//
// Orders come back newest first; within an order, segments appear in the
// order their restaurant was first encountered. Lines whose restaurant
// cannot be determined are excluded from every segment and reported in the
// UnresolvedItems bucket instead.
func (s *HistoryService) BuildHistory(ctx context.Context, customerID uint) (*models.OrderHistory, error) {
	history := &models.OrderHistory{Segments: []models.OrderSegment{}}

	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	if len(orders) == 0 {
		return history, nil
	}

	orderIDs := make([]uint, len(orders))
	for i, o := range orders {
		orderIDs[i] = o.ID
	}

	var lines []models.OrderItem
	if err := s.db.WithContext(ctx).Where("order_id IN ?", orderIDs).Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch order items: %w", err)
	}
	if len(lines) == 0 {
		return history, nil
	}

	foodByID, restByID, err := s.fetchProvenance(ctx, lines)
	if err != nil {
		return nil, err
	}

	linesByOrder := make(map[uint][]models.OrderItem)
	for _, line := range lines {
		linesByOrder[line.OrderID] = append(linesByOrder[line.OrderID], line)
	}

	for _, order := range orders {
		segments, unresolved, err := s.segmentOrder(ctx, order, linesByOrder[order.ID], foodByID, restByID)
		if err != nil {
			return nil, err
		}
		history.Segments = append(history.Segments, segments...)
		history.UnresolvedItems = append(history.UnresolvedItems, unresolved...)
	}

	return history, nil
}

// fetchProvenance loads the food items referenced by the lines and the
// restaurants that own them, keyed for joining
func (s *HistoryService) fetchProvenance(ctx context.Context, lines []models.OrderItem) (map[string]models.FoodItem, map[uint]models.Restaurant, error) {
	foodIDs := make([]string, 0, len(lines))
	seenFood := make(map[string]bool)
	for _, line := range lines {
		if line.FoodItemID != "" && !seenFood[line.FoodItemID] {
			seenFood[line.FoodItemID] = true
			foodIDs = append(foodIDs, line.FoodItemID)
		}
	}

	foodByID := make(map[string]models.FoodItem)
	if len(foodIDs) > 0 {
		var foods []models.FoodItem
		if err := s.db.WithContext(ctx).Where("id IN ?", foodIDs).Find(&foods).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to fetch food items: %w", err)
		}
		for _, f := range foods {
			foodByID[f.ID] = f
		}
	}

	restIDs := make([]uint, 0, len(foodByID))
	seenRest := make(map[uint]bool)
	for _, f := range foodByID {
		if !seenRest[f.RestaurantID] {
			seenRest[f.RestaurantID] = true
			restIDs = append(restIDs, f.RestaurantID)
		}
	}

	restByID := make(map[uint]models.Restaurant)
	if len(restIDs) > 0 {
		var rests []models.Restaurant
		if err := s.db.WithContext(ctx).Where("id IN ?", restIDs).Find(&rests).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to fetch restaurants: %w", err)
		}
		for _, r := range rests {
			restByID[r.ID] = r
		}
	}

	return foodByID, restByID, nil
}

// segmentOrder resolves every line's image concurrently, waits for the full
// set, then partitions the lines by owning restaurant
func (s *HistoryService) segmentOrder(
	ctx context.Context,
	order models.Order,
	lines []models.OrderItem,
	foodByID map[string]models.FoodItem,
	restByID map[uint]models.Restaurant,
) ([]models.OrderSegment, []models.SegmentItem, error) {
	if len(lines) == 0 {
		return nil, nil, nil
	}

	// Fan out one image resolution per line; grouping below must never see
	// a partially resolved set, so wait for all of them first.
	enriched := make([]models.SegmentItem, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			ref := ""
			if food, ok := foodByID[line.FoodItemID]; ok {
				ref = food.ImageRef
			}
			enriched[i] = models.SegmentItem{
				OrderItem: line,
				ImageURL:  s.resolver.Resolve(gctx, ref),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		segments   []models.OrderSegment
		unresolved []models.SegmentItem
		restOrder  []uint
		grouped    = make(map[uint][]models.SegmentItem)
	)
	for _, item := range enriched {
		food, ok := foodByID[item.FoodItemID]
		if !ok {
			unresolved = append(unresolved, item)
			continue
		}
		rest, ok := restByID[food.RestaurantID]
		if !ok {
			unresolved = append(unresolved, item)
			continue
		}
		if _, seen := grouped[rest.ID]; !seen {
			restOrder = append(restOrder, rest.ID)
		}
		grouped[rest.ID] = append(grouped[rest.ID], item)
	}

	for _, restID := range restOrder {
		items := grouped[restID]
		subtotal := 0.0
		for _, item := range items {
			subtotal += item.Price * float64(item.Quantity)
		}
		segments = append(segments, models.OrderSegment{
			ID:             fmt.Sprintf("%d-%d", order.ID, restID),
			OrderID:        order.ID,
			RestaurantID:   restID,
			RestaurantName: restByID[restID].Name,
			Items:          items,
			Subtotal:       round2(subtotal),
			OrderDate:      order.CreatedAt.Format(orderDateFormat),
			Status:         order.Status,
		})
	}

	return segments, unresolved, nil
}
