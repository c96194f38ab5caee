package domain

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

const (
	ProfileStatusActive    = "active"
	ProfileStatusSuspended = "suspended"
	ProfileStatusPending   = "pending"
)

const (
	GiftStatusPending   = "pending"
	GiftStatusApproved  = "approved"
	GiftStatusSent      = "sent"
	GiftStatusReceived  = "received"
	GiftStatusCancelled = "cancelled"
)

const (
	ReactionLike = "like"
	ReactionLove = "love"
	ReactionHaha = "haha"
	ReactionWow  = "wow"
	ReactionSad  = "sad"
)

// Browser notification permission as last reported by the client.
const (
	PushPermissionDefault = "default"
	PushPermissionGranted = "granted"
	PushPermissionDenied  = "denied"
)

// Tables watched by realtime subscribers.
const (
	TableMessages      = "messages"
	TablePosts         = "posts"
	TableComments      = "comments"
	TableReactions     = "reactions"
	TableGifts         = "gifts"
	TableNotifications = "notifications"
	TableNotices       = "notices"
)

const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// Notification types carried in push data and inbox rows.
const (
	NotifNewMessage    = "NEW_MESSAGE"
	NotifGiftRequested = "GIFT_REQUESTED"
	NotifGiftApproved  = "GIFT_APPROVED"
	NotifGiftSent      = "GIFT_SENT"
	NotifGiftReceived  = "GIFT_RECEIVED"
	NotifGiftCancelled = "GIFT_CANCELLED"
	NotifNotice        = "NOTICE"
)

var ProfileRoles = []string{RoleAdmin, RoleMember}

var ProfileStatuses = []string{ProfileStatusActive, ProfileStatusSuspended, ProfileStatusPending}

var ReactionTypes = []string{ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad}

var RealtimeTables = []string{TableMessages, TablePosts, TableComments, TableReactions, TableGifts, TableNotifications, TableNotices}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func ValidRole(r string) bool          { return contains(ProfileRoles, r) }
func ValidProfileStatus(s string) bool { return contains(ProfileStatuses, s) }
func ValidReaction(r string) bool      { return contains(ReactionTypes, r) }
func ValidRealtimeTable(t string) bool { return contains(RealtimeTables, t) }
