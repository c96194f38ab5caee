package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/models"
	"grapebd/g2g/internal/realtime"
	"grapebd/g2g/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memDB is shared state behind the per-repository fakes below.
type memDB struct {
	mu            sync.Mutex
	identities    map[string]*models.AuthIdentity
	profiles      map[uuid.UUID]*models.Profile
	varieties     map[uuid.UUID]*models.Variety
	rounds        map[uuid.UUID]*models.GiftRound
	stocks        map[uuid.UUID]*models.UserStock
	gifts         map[uuid.UUID]*models.Gift
	messages      []*models.Message
	posts         map[uuid.UUID]*models.Post
	comments      map[uuid.UUID]*models.Comment
	reactions     map[uuid.UUID]*models.Reaction
	tokens        []models.FcmToken
	notifications []models.Notification
	notices       map[uuid.UUID]*models.Notice
	noticeReads   map[[2]uuid.UUID]bool
}

func newMemDB() *memDB {
	return &memDB{
		identities:  map[string]*models.AuthIdentity{},
		profiles:    map[uuid.UUID]*models.Profile{},
		varieties:   map[uuid.UUID]*models.Variety{},
		rounds:      map[uuid.UUID]*models.GiftRound{},
		stocks:      map[uuid.UUID]*models.UserStock{},
		gifts:       map[uuid.UUID]*models.Gift{},
		posts:       map[uuid.UUID]*models.Post{},
		comments:    map[uuid.UUID]*models.Comment{},
		reactions:   map[uuid.UUID]*models.Reaction{},
		notices:     map[uuid.UUID]*models.Notice{},
		noticeReads: map[[2]uuid.UUID]bool{},
	}
}

func (db *memDB) addProfile(name, role, status string) *models.Profile {
	db.mu.Lock()
	defer db.mu.Unlock()
	p := &models.Profile{ID: uuid.New(), UserID: uuid.New(), FullName: name, Email: name + "@example.com",
		Role: role, Status: status, PushPermission: domain.PushPermissionDefault}
	db.profiles[p.ID] = p
	return p
}

func (db *memDB) addVariety(name string, active bool) *models.Variety {
	db.mu.Lock()
	defer db.mu.Unlock()
	v := &models.Variety{ID: uuid.New(), Name: name, IsActive: active}
	db.varieties[v.ID] = v
	return v
}

func (db *memDB) addRound(title string, active bool) *models.GiftRound {
	db.mu.Lock()
	defer db.mu.Unlock()
	g := &models.GiftRound{ID: uuid.New(), Title: title, IsActive: active}
	db.rounds[g.ID] = g
	return g
}

func (db *memDB) setStock(user, variety uuid.UUID, qty int) *models.UserStock {
	db.mu.Lock()
	defer db.mu.Unlock()
	if s := db.findStock(user, variety); s != nil {
		s.Quantity = qty
		return s
	}
	s := &models.UserStock{ID: uuid.New(), UserID: user, VarietyID: variety, Quantity: qty}
	db.stocks[s.ID] = s
	return s
}

// quantity returns -1 when no row exists.
func (db *memDB) quantity(user, variety uuid.UUID) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	if s := db.findStock(user, variety); s != nil {
		return s.Quantity
	}
	return -1
}

func (db *memDB) giftCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.gifts)
}

func (db *memDB) findStock(user, variety uuid.UUID) *models.UserStock {
	for _, s := range db.stocks {
		if s.UserID == user && s.VarietyID == variety {
			return s
		}
	}
	return nil
}

type fakeProfiles struct{ *memDB }

func (f fakeProfiles) CreateWithIdentity(_ context.Context, ident *models.AuthIdentity, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.identities[ident.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	ident.ID = uuid.New()
	p.ID = uuid.New()
	p.UserID = ident.ID
	f.identities[ident.Email] = ident
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f fakeProfiles) GetIdentityByEmail(_ context.Context, email string) (*models.AuthIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i, ok := f.identities[email]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f fakeProfiles) GetByUserID(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f fakeProfiles) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.profiles)), nil
}

func (f fakeProfiles) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		s := v.(string)
		switch k {
		case "full_name":
			p.FullName = s
		case "phone":
			p.Phone = s
		case "courier_address":
			p.CourierAddress = s
		case "profile_image":
			p.ProfileImage = s
		case "push_permission":
			p.PushPermission = s
		case "status":
			p.Status = s
		case "role":
			p.Role = s
		}
	}
	return nil
}

func (f fakeProfiles) ListAdmins(context.Context) ([]models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Profile
	for _, p := range f.profiles {
		if p.Role == domain.RoleAdmin && p.Status == domain.ProfileStatusActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f fakeProfiles) List(_ context.Context, _, status string, _, _ int) ([]models.Profile, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Profile
	for _, p := range f.profiles {
		if status == "" || p.Status == status {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (f fakeProfiles) CountByStatus(context.Context) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int64{}
	for _, p := range f.profiles {
		out[p.Status]++
	}
	return out, nil
}

func (f fakeProfiles) DeleteCascade(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.profiles, id)
	for k, s := range f.stocks {
		if s.UserID == id {
			delete(f.stocks, k)
		}
	}
	for k, g := range f.gifts {
		if g.SenderID == id || g.ReceiverID == id {
			delete(f.gifts, k)
		}
	}
	return nil
}

type fakeCatalog struct{ *memDB }

func (f fakeCatalog) CreateVariety(_ context.Context, v *models.Variety) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v.ID = uuid.New()
	cp := *v
	f.varieties[v.ID] = &cp
	return nil
}

func (f fakeCatalog) GetVariety(_ context.Context, id uuid.UUID) (*models.Variety, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.varieties[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f fakeCatalog) SaveVariety(_ context.Context, v *models.Variety) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *v
	f.varieties[v.ID] = &cp
	return nil
}

func (f fakeCatalog) DeleteVariety(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.varieties, id)
	return nil
}

func (f fakeCatalog) ListVarieties(_ context.Context, activeOnly bool) ([]models.Variety, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Variety
	for _, v := range f.varieties {
		if !activeOnly || v.IsActive {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeCatalog) CountVarietyReferences(_ context.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.stocks {
		if s.VarietyID == id {
			n++
		}
	}
	for _, g := range f.gifts {
		if g.VarietyID == id {
			n++
		}
	}
	return n, nil
}

func (f fakeCatalog) CreateRound(_ context.Context, g *models.GiftRound) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g.ID = uuid.New()
	cp := *g
	f.rounds[g.ID] = &cp
	return nil
}

func (f fakeCatalog) GetRound(_ context.Context, id uuid.UUID) (*models.GiftRound, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.rounds[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f fakeCatalog) SaveRound(_ context.Context, g *models.GiftRound) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *g
	f.rounds[g.ID] = &cp
	return nil
}

func (f fakeCatalog) DeleteRound(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rounds, id)
	return nil
}

func (f fakeCatalog) ListRounds(_ context.Context, activeOnly bool) ([]models.GiftRound, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.GiftRound
	for _, g := range f.rounds {
		if !activeOnly || g.IsActive {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f fakeCatalog) CountRoundReferences(_ context.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, g := range f.gifts {
		if g.GiftRoundID == id {
			n++
		}
	}
	return n, nil
}

type fakeStocks struct{ *memDB }

func (f fakeStocks) GetByID(_ context.Context, id uuid.UUID) (*models.UserStock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.stocks[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f fakeStocks) AddOrIncrement(_ context.Context, userID, varietyID uuid.UUID, qty int, notes string) (*models.UserStock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.findStock(userID, varietyID)
	if s == nil {
		s = &models.UserStock{ID: uuid.New(), UserID: userID, VarietyID: varietyID}
		f.stocks[s.ID] = s
	}
	s.Quantity += qty
	s.Notes = notes
	cp := *s
	return &cp, nil
}

func (f fakeStocks) Update(_ context.Context, id uuid.UUID, qty int, notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stocks[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Quantity = qty
	s.Notes = notes
	return nil
}

func (f fakeStocks) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.stocks[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.stocks, id)
	return nil
}

func (f fakeStocks) ListByUser(_ context.Context, userID uuid.UUID) ([]models.UserStock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.UserStock
	for _, s := range f.stocks {
		if s.UserID == userID && s.Quantity > 0 {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeGifts struct{ *memDB }

// CreateWithDebit mirrors the conditional update: debit only when enough is held.
func (f fakeGifts) CreateWithDebit(_ context.Context, g *models.Gift) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.findStock(g.SenderID, g.VarietyID)
	if s == nil || s.Quantity < g.Quantity {
		return repository.ErrInsufficientStock
	}
	s.Quantity -= g.Quantity
	g.ID = uuid.New()
	g.CreatedAt = time.Now()
	cp := *g
	f.gifts[g.ID] = &cp
	return nil
}

func (f fakeGifts) Transition(_ context.Context, g *models.Gift, to string, fields map[string]interface{}, restore bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.gifts[g.ID]
	if !ok || cur.Status != g.Status {
		return repository.ErrStatusConflict
	}
	cur.Status = to
	for k, v := range fields {
		switch k {
		case "approved_at":
			t := v.(time.Time)
			cur.ApprovedAt = &t
		case "sent_at":
			t := v.(time.Time)
			cur.SentAt = &t
		case "received_at":
			t := v.(time.Time)
			cur.ReceivedAt = &t
		case "cancelled_at":
			t := v.(time.Time)
			cur.CancelledAt = &t
		case "admin_notes":
			cur.AdminNotes = v.(string)
		}
	}
	if restore {
		if s := f.findStock(cur.SenderID, cur.VarietyID); s != nil {
			s.Quantity += cur.Quantity
		} else {
			s := &models.UserStock{ID: uuid.New(), UserID: cur.SenderID, VarietyID: cur.VarietyID, Quantity: cur.Quantity}
			f.stocks[s.ID] = s
		}
	}
	return nil
}

func (f fakeGifts) GetByID(_ context.Context, id uuid.UUID) (*models.Gift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.gifts[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f fakeGifts) ListBySender(_ context.Context, senderID uuid.UUID) ([]models.Gift, error) {
	return f.filter(func(g *models.Gift) bool { return g.SenderID == senderID }), nil
}

func (f fakeGifts) ListByReceiver(_ context.Context, receiverID uuid.UUID) ([]models.Gift, error) {
	return f.filter(func(g *models.Gift) bool { return g.ReceiverID == receiverID }), nil
}

func (f fakeGifts) List(_ context.Context, flt repository.GiftFilter) ([]models.Gift, int64, error) {
	out := f.filter(func(g *models.Gift) bool {
		return (flt.Status == "" || g.Status == flt.Status) && (flt.RoundID == nil || g.GiftRoundID == *flt.RoundID)
	})
	return out, int64(len(out)), nil
}

func (f fakeGifts) CountPending(context.Context) (int64, error) {
	return int64(len(f.filter(func(g *models.Gift) bool { return g.Status == domain.GiftStatusPending }))), nil
}

func (f fakeGifts) filter(keep func(*models.Gift) bool) []models.Gift {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Gift
	for _, g := range f.gifts {
		if keep(g) {
			out = append(out, *g)
		}
	}
	return out
}

type fakeMessages struct{ *memDB }

func (f fakeMessages) Create(_ context.Context, m *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = time.Now().Add(time.Duration(len(f.messages)) * time.Millisecond)
	cp := *m
	f.messages = append(f.messages, &cp)
	return nil
}

func between(m *models.Message, a, b uuid.UUID) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}

func (f fakeMessages) Thread(_ context.Context, a, b uuid.UUID) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Message
	for _, m := range f.messages {
		if between(m, a, b) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f fakeMessages) MarkRead(_ context.Context, receiverID, senderID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.messages {
		if m.ReceiverID == receiverID && m.SenderID == senderID && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

func (f fakeMessages) DeleteThread(_ context.Context, a, b uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.messages[:0]
	var n int64
	for _, m := range f.messages {
		if between(m, a, b) {
			n++
			continue
		}
		kept = append(kept, m)
	}
	f.messages = kept
	return n, nil
}

func (f fakeMessages) UnreadCountsBySender(_ context.Context, receiverID uuid.UUID) (map[uuid.UUID]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[uuid.UUID]int64{}
	for _, m := range f.messages {
		if m.ReceiverID == receiverID && !m.IsRead {
			out[m.SenderID]++
		}
	}
	return out, nil
}

func (f fakeMessages) Conversations(_ context.Context, userID uuid.UUID) ([]repository.ConversationRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	last := map[uuid.UUID]*models.Message{}
	for _, m := range f.messages {
		var partner uuid.UUID
		switch userID {
		case m.SenderID:
			partner = m.ReceiverID
		case m.ReceiverID:
			partner = m.SenderID
		default:
			continue
		}
		last[partner] = m
	}
	var out []repository.ConversationRow
	for p, m := range last {
		out = append(out, repository.ConversationRow{PartnerID: p, LastMessage: m.Content, LastMessageAt: m.CreatedAt})
	}
	return out, nil
}

type fakeFeed struct{ *memDB }

func (f fakeFeed) CreatePost(_ context.Context, p *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	cp := *p
	f.posts[p.ID] = &cp
	return nil
}

func (f fakeFeed) GetPost(_ context.Context, id uuid.UUID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.posts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f fakeFeed) DeletePost(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.posts, id)
	for k, r := range f.reactions {
		if r.PostID == id {
			delete(f.reactions, k)
		}
	}
	for k, c := range f.comments {
		if c.PostID == id {
			delete(f.comments, k)
		}
	}
	return nil
}

func (f fakeFeed) ListPosts(_ context.Context, limit, offset int) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Post
	for _, p := range f.posts {
		cp := *p
		for _, r := range f.reactions {
			if r.PostID == p.ID {
				cp.Reactions = append(cp.Reactions, *r)
			}
		}
		for _, c := range f.comments {
			if c.PostID == p.ID {
				cp.Comments = append(cp.Comments, *c)
			}
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f fakeFeed) CreateComment(_ context.Context, c *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = uuid.New()
	cp := *c
	f.comments[c.ID] = &cp
	return nil
}

func (f fakeFeed) GetComment(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.comments[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f fakeFeed) DeleteComment(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.comments, id)
	return nil
}

func (f fakeFeed) GetReaction(_ context.Context, postID, userID uuid.UUID) (*models.Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reactions {
		if r.PostID == postID && r.UserID == userID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f fakeFeed) UpsertReaction(_ context.Context, r *models.Reaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cur := range f.reactions {
		if cur.PostID == r.PostID && cur.UserID == r.UserID {
			cur.ReactionType = r.ReactionType
			r.ID = cur.ID
			return nil
		}
	}
	r.ID = uuid.New()
	cp := *r
	f.reactions[r.ID] = &cp
	return nil
}

func (f fakeFeed) DeleteReaction(_ context.Context, postID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, r := range f.reactions {
		if r.PostID == postID && r.UserID == userID {
			delete(f.reactions, k)
		}
	}
	return nil
}

func (f fakeFeed) reactionsOn(postID uuid.UUID) []models.Reaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reaction
	for _, r := range f.reactions {
		if r.PostID == postID {
			out = append(out, *r)
		}
	}
	return out
}

type fakeTokens struct{ *memDB }

func (f fakeTokens) Upsert(_ context.Context, t *models.FcmToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tokens {
		if f.tokens[i].UserID == t.UserID && f.tokens[i].Token == t.Token {
			f.tokens[i].DeviceInfo = t.DeviceInfo
			return nil
		}
	}
	t.ID = uuid.New()
	f.tokens = append(f.tokens, *t)
	return nil
}

func (f fakeTokens) Delete(_ context.Context, userID uuid.UUID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.tokens[:0]
	for _, t := range f.tokens {
		if t.UserID == userID && t.Token == token {
			continue
		}
		kept = append(kept, t)
	}
	f.tokens = kept
	return nil
}

func (f fakeTokens) DeleteByToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.tokens[:0]
	for _, t := range f.tokens {
		if t.Token != token {
			kept = append(kept, t)
		}
	}
	f.tokens = kept
	return nil
}

func (f fakeTokens) ListByUser(_ context.Context, userID uuid.UUID) ([]models.FcmToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.FcmToken
	for _, t := range f.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeNotifications struct {
	*memDB
	createErr error
}

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = uuid.New()
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeNotifications) ListByUserID(_ context.Context, userID uuid.UUID, _, _ int) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifications) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, x := range f.notifications {
		if x.UserID == userID && x.ReadAt == nil {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for i := range f.notifications {
		if f.notifications[i].ID == id && f.notifications[i].UserID == userID {
			f.notifications[i].ReadAt = &now
		}
	}
	return nil
}

func (f *fakeNotifications) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for i := range f.notifications {
		if f.notifications[i].UserID == userID {
			f.notifications[i].ReadAt = &now
		}
	}
	return nil
}

// recordedEvents captures published change events.
type recordedEvents struct {
	mu     sync.Mutex
	events []realtime.ChangeEvent
}

func (r *recordedEvents) Publish(ev realtime.ChangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordedEvents) tables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, ev := range r.events {
		out = append(out, ev.Table+":"+ev.Op)
	}
	return out
}

type sentNotification struct {
	UserID uuid.UUID
	Type   string
	Data   map[string]string
	Pushed bool
}

// recordingNotifier captures Notify and Push calls.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (r *recordingNotifier) Notify(_ context.Context, userID uuid.UUID, notifType, _, _ string, data map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNotification{UserID: userID, Type: notifType, Data: data})
	return nil
}

func (r *recordingNotifier) Push(_ context.Context, userID uuid.UUID, notifType, _, _ string, data map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNotification{UserID: userID, Type: notifType, Data: data, Pushed: true})
}

func (r *recordingNotifier) to(userID uuid.UUID) []sentNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sentNotification
	for _, s := range r.sent {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}
