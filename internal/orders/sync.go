package orders

// OrderList: list order lokal milik satu view, di-reconcile terhadap event
// insert/update yang datang async dari feed. Merge rule idempotent terhadap
// duplicate delivery dan reorder antara initial fetch vs notifikasi pertama.
// Tidak thread-safe: satu list dimiliki satu view (single event loop).
type OrderList struct {
	items []Order
}

func NewOrderList(initial []Order) *OrderList {
	l := &OrderList{items: make([]Order, len(initial))}
	copy(l.items, initial)
	return l
}

// ApplyInsert menambah order hanya kalau id-nya belum ada — insert event bisa
// datang setelah initial fetch sudah memuat row yang sama.
func (l *OrderList) ApplyInsert(o Order) bool {
	if l.indexOf(o.ID) >= 0 {
		return false
	}
	l.items = append([]Order{o}, l.items...)
	return true
}

// ApplyUpdate mengganti order di index existing; kalau belum ada (initial
// fetch kelewat row-nya), di-prepend.
func (l *OrderList) ApplyUpdate(o Order) {
	if i := l.indexOf(o.ID); i >= 0 {
		l.items[i] = o
		return
	}
	l.items = append([]Order{o}, l.items...)
}

func (l *OrderList) Get(orderID string) (Order, bool) {
	if i := l.indexOf(orderID); i >= 0 {
		return l.items[i], true
	}
	return Order{}, false
}

func (l *OrderList) Len() int { return len(l.items) }

// Orders mengembalikan snapshot copy; list internal tetap milik view.
func (l *OrderList) Orders() []Order {
	out := make([]Order, len(l.items))
	copy(out, l.items)
	return out
}

func (l *OrderList) indexOf(orderID string) int {
	for i := range l.items {
		if l.items[i].ID == orderID {
			return i
		}
	}
	return -1
}
