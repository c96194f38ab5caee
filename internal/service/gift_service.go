package service

import (
	"context"
	"fmt"
	"time"

	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/logging"
	"grapebd/g2g/internal/models"
	"grapebd/g2g/internal/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type GiftStore interface {
	CreateWithDebit(ctx context.Context, g *models.Gift) error
	Transition(ctx context.Context, g *models.Gift, to string, fields map[string]interface{}, restoreStock bool) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Gift, error)
	ListBySender(ctx context.Context, senderID uuid.UUID) ([]models.Gift, error)
	ListByReceiver(ctx context.Context, receiverID uuid.UUID) ([]models.Gift, error)
	List(ctx context.Context, f repository.GiftFilter) ([]models.Gift, int64, error)
	CountPending(ctx context.Context) (int64, error)
}

type CatalogGetter interface {
	GetVariety(ctx context.Context, id uuid.UUID) (*models.Variety, error)
	GetRound(ctx context.Context, id uuid.UUID) (*models.GiftRound, error)
}

type ProfileGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	ListAdmins(ctx context.Context) ([]models.Profile, error)
}

// Notifier delivers in-app and push notifications. Failures are the notifier's problem.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, notifType, title, body string, data map[string]string) error
	Push(ctx context.Context, userID uuid.UUID, notifType, title, body string, data map[string]string)
}

type CreateGiftInput struct {
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	VarietyID  uuid.UUID
	RoundID    uuid.UUID
	Quantity   int
}

type GiftService struct {
	gifts           GiftStore
	catalog         CatalogGetter
	profiles        ProfileGetter
	notifier        Notifier
	events          EventPublisher
	restoreOnCancel bool
	log             *logrus.Entry
}

func NewGiftService(gifts GiftStore, catalog CatalogGetter, profiles ProfileGetter, notifier Notifier, events EventPublisher, restoreOnCancel bool) *GiftService {
	return &GiftService{
		gifts:           gifts,
		catalog:         catalog,
		profiles:        profiles,
		notifier:        notifier,
		events:          events,
		restoreOnCancel: restoreOnCancel,
		log:             logging.For("gifts"),
	}
}

// CreateGift is the member path: the gift starts pending and waits for an admin.
func (s *GiftService) CreateGift(ctx context.Context, sender domain.Actor, in CreateGiftInput) (*models.Gift, error) {
	in.SenderID = sender.ID
	g, err := s.create(ctx, in, domain.GiftStatusPending, true)
	if err != nil {
		return nil, err
	}
	admins, err := s.profiles.ListAdmins(ctx)
	if err != nil {
		s.log.WithError(err).Warn("list admins for gift request")
	}
	for _, a := range admins {
		s.notify(ctx, a.ID, domain.NotifGiftRequested, "New gift request",
			fmt.Sprintf("%s wants to gift %d seedlings to %s", name(g.Sender), g.Quantity, name(g.Receiver)),
			"/admin/gifts", g.ID)
	}
	return g, nil
}

// AdminCreateGift records a gift on behalf of in.SenderID that is approved at once.
func (s *GiftService) AdminCreateGift(ctx context.Context, admin domain.Actor, in CreateGiftInput) (*models.Gift, error) {
	if !admin.IsAdmin() {
		return nil, ErrForbidden
	}
	g, err := s.create(ctx, in, domain.GiftStatusApproved, false)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, g.SenderID, domain.NotifGiftApproved, "Gift approved",
		fmt.Sprintf("Your gift of %d seedlings to %s was approved", g.Quantity, name(g.Receiver)), "/gifts", g.ID)
	s.notify(ctx, g.ReceiverID, domain.NotifGiftApproved, "A gift is on its way",
		fmt.Sprintf("%s is gifting you %d seedlings", name(g.Sender), g.Quantity), "/gifts", g.ID)
	return g, nil
}

// create validates the request and then debits stock and inserts the gift atomically.
// requireActiveSender is false for the admin path, which may act for pending members.
func (s *GiftService) create(ctx context.Context, in CreateGiftInput, status string, requireActiveSender bool) (*models.Gift, error) {
	if in.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if in.SenderID == in.ReceiverID {
		return nil, ErrSelfGift
	}
	sender, err := s.profiles.GetByID(ctx, in.SenderID)
	if err != nil {
		return nil, found(err, "sender")
	}
	if sender.IsSuspended() || (requireActiveSender && sender.Status != domain.ProfileStatusActive) {
		return nil, ErrProfileInactive
	}
	receiver, err := s.profiles.GetByID(ctx, in.ReceiverID)
	if err != nil {
		return nil, found(err, "receiver")
	}
	if receiver.IsSuspended() {
		return nil, errors.Wrap(ErrProfileInactive, "receiver")
	}
	variety, err := s.catalog.GetVariety(ctx, in.VarietyID)
	if err != nil {
		return nil, found(err, "variety")
	}
	round, err := s.catalog.GetRound(ctx, in.RoundID)
	if err != nil {
		return nil, found(err, "gift round")
	}
	if !variety.IsActive || !round.IsActive {
		return nil, ErrInactive
	}

	g := &models.Gift{
		SenderID:    in.SenderID,
		ReceiverID:  in.ReceiverID,
		VarietyID:   in.VarietyID,
		GiftRoundID: in.RoundID,
		Quantity:    in.Quantity,
		Status:      status,
	}
	if status == domain.GiftStatusApproved {
		now := time.Now()
		g.ApprovedAt = &now
	}
	if err := s.gifts.CreateWithDebit(ctx, g); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, ErrInsufficientStock
		}
		return nil, errors.Wrap(err, "create gift")
	}
	g.Sender, g.Receiver, g.Variety, g.GiftRound = sender, receiver, variety, round
	s.log.WithFields(logrus.Fields{"gift_id": g.ID, "sender_id": g.SenderID, "quantity": g.Quantity, "status": status}).Info("gift created")
	publish(s.events, s.log, domain.TableGifts, domain.OpInsert, g.ID, g, s.audience(ctx, g)...)
	return g, nil
}

func (s *GiftService) Approve(ctx context.Context, actor domain.Actor, id uuid.UUID) (*models.Gift, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	g, err := s.transition(ctx, id, domain.GiftStatusApproved, map[string]interface{}{"approved_at": time.Now()}, false)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, g.SenderID, domain.NotifGiftApproved, "Gift approved",
		fmt.Sprintf("Your gift of %d seedlings to %s was approved", g.Quantity, name(g.Receiver)), "/gifts", g.ID)
	s.notify(ctx, g.ReceiverID, domain.NotifGiftApproved, "A gift is on its way",
		fmt.Sprintf("%s is gifting you %d seedlings", name(g.Sender), g.Quantity), "/gifts", g.ID)
	return g, nil
}

// Cancel stops a pending or approved gift. Sender stock is credited back only when the
// service was built with restoreOnCancel.
func (s *GiftService) Cancel(ctx context.Context, actor domain.Actor, id uuid.UUID, adminNotes string) (*models.Gift, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	current, err := s.gifts.GetByID(ctx, id)
	if err != nil {
		return nil, found(err, "gift")
	}
	from := current.Status
	fields := map[string]interface{}{"cancelled_at": time.Now(), "admin_notes": adminNotes}
	g, err := s.apply(ctx, current, domain.GiftStatusCancelled, fields, s.restoreOnCancel)
	if err != nil {
		return nil, err
	}
	body := "Your gift request was cancelled"
	if adminNotes != "" {
		body += ": " + adminNotes
	}
	s.notify(ctx, g.SenderID, domain.NotifGiftCancelled, "Gift cancelled", body, "/gifts", g.ID)
	// the receiver was told about the gift once it was approved
	if from == domain.GiftStatusApproved {
		s.notify(ctx, g.ReceiverID, domain.NotifGiftCancelled, "Gift withdrawn",
			fmt.Sprintf("The gift of %d seedlings from %s will not be sent", g.Quantity, name(g.Sender)), "/gifts", g.ID)
	}
	return g, nil
}

func (s *GiftService) MarkSent(ctx context.Context, actor domain.Actor, id uuid.UUID) (*models.Gift, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	g, err := s.transition(ctx, id, domain.GiftStatusSent, map[string]interface{}{"sent_at": time.Now()}, false)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, g.ReceiverID, domain.NotifGiftSent, "Gift sent",
		fmt.Sprintf("%d seedlings from %s have been sent to you", g.Quantity, name(g.Sender)), "/gifts", g.ID)
	return g, nil
}

// MarkReceived only timestamps the gift. The receiver records arrivals in their own
// inventory, so no stock row changes here.
func (s *GiftService) MarkReceived(ctx context.Context, actor domain.Actor, id uuid.UUID) (*models.Gift, error) {
	g, err := s.gifts.GetByID(ctx, id)
	if err != nil {
		return nil, found(err, "gift")
	}
	if g.ReceiverID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	g, err = s.apply(ctx, g, domain.GiftStatusReceived, map[string]interface{}{"received_at": time.Now()}, false)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, g.SenderID, domain.NotifGiftReceived, "Gift received",
		fmt.Sprintf("%s received your %d seedlings", name(g.Receiver), g.Quantity), "/gifts", g.ID)
	return g, nil
}

func (s *GiftService) transition(ctx context.Context, id uuid.UUID, to string, fields map[string]interface{}, restore bool) (*models.Gift, error) {
	g, err := s.gifts.GetByID(ctx, id)
	if err != nil {
		return nil, found(err, "gift")
	}
	return s.apply(ctx, g, to, fields, restore)
}

func (s *GiftService) apply(ctx context.Context, g *models.Gift, to string, fields map[string]interface{}, restore bool) (*models.Gift, error) {
	if g.IsTerminal() {
		return nil, errors.Wrapf(ErrInvalidTransition, "gift is already %s", g.Status)
	}
	if !domain.CanTransitionGift(g.Status, to) {
		return nil, errors.Wrapf(ErrInvalidTransition, "%s to %s", g.Status, to)
	}
	if err := s.gifts.Transition(ctx, g, to, fields, restore); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrStatusConflict
		}
		return nil, errors.Wrap(err, "update gift")
	}
	from := g.Status
	updated, err := s.gifts.GetByID(ctx, g.ID)
	if err != nil {
		return nil, found(err, "gift")
	}
	s.log.WithFields(logrus.Fields{"gift_id": g.ID, "from": from, "to": to, "restored": restore && to == domain.GiftStatusCancelled}).Info("gift status changed")
	publish(s.events, s.log, domain.TableGifts, domain.OpUpdate, updated.ID, updated, s.audience(ctx, updated)...)
	return updated, nil
}

func (s *GiftService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*models.Gift, error) {
	g, err := s.gifts.GetByID(ctx, id)
	if err != nil {
		return nil, found(err, "gift")
	}
	if g.SenderID != actor.ID && g.ReceiverID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return g, nil
}

func (s *GiftService) ListSent(ctx context.Context, userID uuid.UUID) ([]models.Gift, error) {
	return s.gifts.ListBySender(ctx, userID)
}

func (s *GiftService) ListReceived(ctx context.Context, userID uuid.UUID) ([]models.Gift, error) {
	return s.gifts.ListByReceiver(ctx, userID)
}

func (s *GiftService) List(ctx context.Context, f repository.GiftFilter) ([]models.Gift, int64, error) {
	if f.Status != "" && !domain.ValidGiftStatus(f.Status) {
		return nil, 0, invalid("unknown gift status")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return s.gifts.List(ctx, f)
}

func (s *GiftService) PendingCount(ctx context.Context) (int64, error) {
	return s.gifts.CountPending(ctx)
}

func (s *GiftService) notify(ctx context.Context, userID uuid.UUID, notifType, title, body, path string, giftID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	data := map[string]string{"gift_id": giftID.String(), "click_action": path}
	if err := s.notifier.Notify(ctx, userID, notifType, title, body, data); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("gift notification failed")
	}
}

// audience is who sees a gift change live: both parties and every active admin.
func (s *GiftService) audience(ctx context.Context, g *models.Gift) []uuid.UUID {
	ids := []uuid.UUID{g.SenderID, g.ReceiverID}
	admins, err := s.profiles.ListAdmins(ctx)
	if err != nil {
		s.log.WithError(err).Warn("list admins for gift event")
		return ids
	}
	for _, a := range admins {
		if a.ID != g.SenderID && a.ID != g.ReceiverID {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func name(p *models.Profile) string {
	if p == nil || p.FullName == "" {
		return "A member"
	}
	return p.FullName
}
