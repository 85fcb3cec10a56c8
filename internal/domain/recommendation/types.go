package recommendation

type Status string

const (
	StatusPending     Status = "pending"
	StatusAddedToCart Status = "added_to_cart"
	StatusPurchased   Status = "purchased"
	StatusRejected    Status = "rejected"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAddedToCart, StatusPurchased, StatusRejected:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s != StatusPending
}

// HistoryStatuses are the statuses shown in a user's purchase history.
var HistoryStatuses = []Status{StatusPurchased, StatusAddedToCart}
