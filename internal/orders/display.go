package orders

import "time"

// Display projection: mapping murni dari Order + field joined ke view model
// yang dikonsumsi presentasi. Tidak ada I/O, tidak ada error; field joined
// yang kosong jatuh ke placeholder, bukan string kosong/null.

const DisplayPlaceholder = "Unknown"

// Vocabulary memilih kosakata display status per consumer. Satu tabel
// collapse kanonik; beda consumer cuma beda label untuk in_progress.
type Vocabulary int

const (
	// VocabBooking: requested / accepted / in-progress / completed / cancelled
	VocabBooking Vocabulary = iota
	// VocabJob: sama, tapi in_progress tampil sebagai "started"
	VocabJob
)

// CollapseStatus total untuk seluruh tujuh status persisted; status di luar
// enum (data korup) jatuh ke "requested" supaya UI tidak pernah dapat "".
func CollapseStatus(s Status, v Vocabulary) string {
	switch s {
	case StatusPending, StatusCountered:
		return "requested"
	case StatusAccepted, StatusPaid:
		return "accepted"
	case StatusInProgress:
		if v == VocabJob {
			return "started"
		}
		return "in-progress"
	case StatusCompleted:
		return "completed"
	case StatusRejected:
		return "cancelled"
	}
	return "requested"
}

type BookingDisplay struct {
	ID              string `json:"id"`
	ServiceType     string `json:"service_type"`
	CounterpartName string `json:"counterpart_name"`
	Location        string `json:"location"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	PriceCents      int    `json:"price_cents"`
	Status          string `json:"status"`
	Notes           string `json:"notes,omitempty"`
}

// ProjectBooking: deterministik — input sama selalu menghasilkan output sama.
func ProjectBooking(b BookingRow, v Vocabulary) BookingDisplay {
	date, clock := formatSchedule(b.ScheduledDate)
	return BookingDisplay{
		ID:              b.ID,
		ServiceType:     orPlaceholder(b.ServiceType),
		CounterpartName: orPlaceholder(b.CounterpartName),
		Location:        orPlaceholder(b.Location),
		Date:            date,
		Time:            clock,
		PriceCents:      b.EffectiveCents(),
		Status:          CollapseStatus(b.Status, v),
		Notes:           b.Notes,
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return DisplayPlaceholder
	}
	return s
}

// scheduled_date itu informational string; terima RFC3339 atau date-only,
// selain itu tampilkan mentah (jangan gagal).
func formatSchedule(s string) (date, clock string) {
	if s == "" {
		return DisplayPlaceholder, DisplayPlaceholder
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("02 Jan 2006"), t.Format("15:04")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("02 Jan 2006"), DisplayPlaceholder
	}
	return s, DisplayPlaceholder
}
