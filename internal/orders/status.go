package orders

type Status string

const (
	StatusPending    Status = "pending"
	StatusCountered  Status = "countered"
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
	StatusPaid       Status = "paid"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

var AllStatuses = []Status{
	StatusPending, StatusCountered, StatusAccepted, StatusRejected,
	StatusPaid, StatusInProgress, StatusCompleted,
}

type Role string

const (
	RoleClient Role = "client"
	RoleDealer Role = "dealer"
)

// Tabel transisi per role. Pair yang tidak ada di map -> false.
// rejected & completed terminal (row kosong), tidak bisa di-resurrect.
var clientNext = map[Status]map[Status]bool{
	StatusPending:    {StatusRejected: true},
	StatusCountered:  {StatusAccepted: true, StatusRejected: true},
	StatusAccepted:   {},
	StatusPaid:       {},
	StatusInProgress: {},
	StatusRejected:   {},
	StatusCompleted:  {},
}

var dealerNext = map[Status]map[Status]bool{
	StatusPending:    {StatusAccepted: true, StatusRejected: true, StatusCountered: true},
	StatusCountered:  {},
	StatusAccepted:   {StatusPaid: true, StatusInProgress: true},
	StatusPaid:       {StatusInProgress: true},
	StatusInProgress: {StatusCompleted: true},
	StatusRejected:   {},
	StatusCompleted:  {},
}

func ClientCanTransition(from, to Status) bool {
	return clientNext[from][to]
}

func DealerCanTransition(from, to Status) bool {
	return dealerNext[from][to]
}

func CanTransition(role Role, from, to Status) bool {
	switch role {
	case RoleClient:
		return ClientCanTransition(from, to)
	case RoleDealer:
		return DealerCanTransition(from, to)
	}
	return false
}

func IsTerminal(s Status) bool {
	return s == StatusRejected || s == StatusCompleted
}

func ValidStatus(s Status) bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}
