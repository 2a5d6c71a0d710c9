package domain

import "time"

// ItemStatus represents the completion status of a todo item
type ItemStatus string

const (
	ItemStatusPending ItemStatus = "pending"
	ItemStatusDone    ItemStatus = "done"
)

// ItemPriority represents the priority of a todo item
type ItemPriority string

const (
	ItemPriorityLow    ItemPriority = "low"
	ItemPriorityMedium ItemPriority = "medium"
	ItemPriorityHigh   ItemPriority = "high"
)

// User is the identity record returned by the backend. The client holds a
// read-only cached copy attached to the session; Partner is a session-scoped
// enrichment composed on after a successful partner-overview fetch.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	ColorCode string    `json:"colorCode"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Partner   *Partner  `json:"partner,omitempty"`
}

// Partner is the projection of a linked partner's identity attached to the
// session user. Absence of a partner is a normal state, not an error.
type Partner struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	ColorCode string    `json:"colorCode"`
	CreatedAt time.Time `json:"createdAt"`
}

// PartnerOverview is the backend's summary of the linked partner: identity
// plus the lists the partner has made visible.
type PartnerOverview struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	ColorCode string     `json:"colorCode"`
	CreatedAt time.Time  `json:"createdAt"`
	TodoLists []TodoList `json:"todoLists"`
}

// PartnerFromOverview builds the session partner projection from an overview.
func PartnerFromOverview(o *PartnerOverview) *Partner {
	if o == nil {
		return nil
	}
	return &Partner{
		ID:        o.ID,
		Username:  o.Username,
		ColorCode: o.ColorCode,
		CreatedAt: o.CreatedAt,
	}
}

// TodoList is a shared list owned by one member of the couple
type TodoList struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"ownerId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	ColorCode   string     `json:"colorCode,omitempty"`
	Items       []TodoItem `json:"items,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TodoItem is a single entry in a todo list
type TodoItem struct {
	ID          int64        `json:"id"`
	ListID      int64        `json:"todoListId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      ItemStatus   `json:"status"`
	Priority    ItemPriority `json:"priority,omitempty"`
	Order       int          `json:"order"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Activity is one entry in the couple's recent-activity feed
type Activity struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	Username   string    `json:"username,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   int64     `json:"entityId"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
