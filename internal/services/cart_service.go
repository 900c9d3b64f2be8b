package services

import (
	"context"

	"github.com/go-redis/redis/v8"

	"bento-backend/internal/domain"
	"bento-backend/internal/repository"
)

// CartService implements the shared cart shape over the two parallel
// tables. Guest operations take a resolved session; user operations take
// the authenticated user id. Every mutation returns the resulting snapshot.
type CartService struct {
	guestCarts repository.GuestCartRepository
	userCarts  repository.UserCartRepository
	catalog    repository.CatalogRepository
	menus      *menuCache
}

func NewCartService(
	guestCarts repository.GuestCartRepository,
	userCarts repository.UserCartRepository,
	catalog repository.CatalogRepository,
) *CartService {
	return &CartService{
		guestCarts: guestCarts,
		userCarts:  userCarts,
		catalog:    catalog,
		menus:      &menuCache{catalog: catalog},
	}
}

func (s *CartService) SetRedisClient(client *redis.Client) {
	s.menus.rdb = client
}

// ----- guest cart -----

func (s *CartService) AddGuestItem(ctx context.Context, session *domain.GuestSession, menuID uint64, qty int) (*domain.CartSnapshot, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	if session.SelectedStoreID == nil {
		return nil, ErrStoreNotSelected
	}

	menu, err := s.menus.Get(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		return nil, ErrMenuNotFound
	}
	if menu.StoreID != *session.SelectedStoreID {
		return nil, ErrStoreMismatch
	}
	if !menu.IsAvailable {
		return nil, ErrMenuUnavailable
	}

	if err := s.guestCarts.Upsert(ctx, session.Token, menuID, qty); err != nil {
		return nil, err
	}
	return s.GuestSnapshot(ctx, session.Token)
}

func (s *CartService) UpdateGuestItem(ctx context.Context, session *domain.GuestSession, itemID uint64, qty int) (*domain.CartSnapshot, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	item, err := s.guestCarts.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.SessionToken != session.Token {
		return nil, ErrForbidden
	}
	if err := s.guestCarts.UpdateQuantity(ctx, itemID, qty); err != nil {
		return nil, err
	}
	return s.GuestSnapshot(ctx, session.Token)
}

func (s *CartService) RemoveGuestItem(ctx context.Context, session *domain.GuestSession, itemID uint64) (*domain.CartSnapshot, error) {
	item, err := s.guestCarts.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.SessionToken != session.Token {
		return nil, ErrForbidden
	}
	if err := s.guestCarts.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.GuestSnapshot(ctx, session.Token)
}

func (s *CartService) GuestSnapshot(ctx context.Context, token string) (*domain.CartSnapshot, error) {
	items, err := s.guestCarts.Items(ctx, token)
	if err != nil {
		return nil, err
	}

	lines := make([]line, 0, len(items))
	for _, it := range items {
		lines = append(lines, line{id: it.ID, menuID: it.MenuID, quantity: it.Quantity})
	}
	return s.buildSnapshot(ctx, lines)
}

// ----- user cart -----

func (s *CartService) AddUserItem(ctx context.Context, userID, menuID uint64, qty int) (*domain.CartSnapshot, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	menu, err := s.menus.Get(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		return nil, ErrMenuNotFound
	}
	if !menu.IsAvailable {
		return nil, ErrMenuUnavailable
	}

	if err := s.userCarts.Upsert(ctx, userID, menuID, qty); err != nil {
		return nil, err
	}
	return s.UserSnapshot(ctx, userID)
}

func (s *CartService) UpdateUserItem(ctx context.Context, userID, itemID uint64, qty int) (*domain.CartSnapshot, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	item, err := s.userCarts.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.UserID != userID {
		return nil, ErrForbidden
	}
	if err := s.userCarts.UpdateQuantity(ctx, itemID, qty); err != nil {
		return nil, err
	}
	return s.UserSnapshot(ctx, userID)
}

func (s *CartService) RemoveUserItem(ctx context.Context, userID, itemID uint64) (*domain.CartSnapshot, error) {
	item, err := s.userCarts.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.UserID != userID {
		return nil, ErrForbidden
	}
	if err := s.userCarts.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.UserSnapshot(ctx, userID)
}

func (s *CartService) ClearUserCart(ctx context.Context, userID uint64) error {
	return s.userCarts.Clear(ctx, userID)
}

func (s *CartService) UserSnapshot(ctx context.Context, userID uint64) (*domain.CartSnapshot, error) {
	items, err := s.userCarts.Items(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]line, 0, len(items))
	for _, it := range items {
		lines = append(lines, line{id: it.ID, menuID: it.MenuID, quantity: it.Quantity})
	}
	return s.buildSnapshot(ctx, lines)
}

// ----- snapshot assembly -----

type line struct {
	id       uint64
	menuID   uint64
	quantity int
}

func (s *CartService) buildSnapshot(ctx context.Context, lines []line) (*domain.CartSnapshot, error) {
	snapshot := &domain.CartSnapshot{Items: []domain.CartLine{}}
	if len(lines) == 0 {
		return snapshot, nil
	}

	ids := make([]uint64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.menuID)
	}
	menus, err := s.catalog.FindMenus(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]domain.Menu, len(menus))
	for _, m := range menus {
		byID[m.ID] = m
	}

	for _, l := range lines {
		menu, ok := byID[l.menuID]
		if !ok {
			// Menu removed from the catalog since it was added; skip the row.
			continue
		}
		subtotal := menu.Price * int64(l.quantity)
		snapshot.Items = append(snapshot.Items, domain.CartLine{
			ID:        l.id,
			MenuID:    l.menuID,
			MenuName:  menu.Name,
			MenuPrice: menu.Price,
			Quantity:  l.quantity,
			Subtotal:  subtotal,
		})
		snapshot.TotalItems += l.quantity
		snapshot.TotalAmount += subtotal
	}
	return snapshot, nil
}
