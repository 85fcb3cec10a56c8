package ledger

type Kind string

const (
	KindCredit  Kind = "credit"
	KindReserve Kind = "reserve"
	KindSpend   Kind = "spend"
	KindRefund  Kind = "refund"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindCredit, KindReserve, KindSpend, KindRefund:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted:
		return true
	default:
		return false
	}
}
