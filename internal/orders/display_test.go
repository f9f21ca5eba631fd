package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapseStatus_Complete(t *testing.T) {
	bookingWant := map[Status]string{
		StatusPending:    "requested",
		StatusCountered:  "requested",
		StatusAccepted:   "accepted",
		StatusPaid:       "accepted",
		StatusInProgress: "in-progress",
		StatusCompleted:  "completed",
		StatusRejected:   "cancelled",
	}
	jobWant := map[Status]string{
		StatusPending:    "requested",
		StatusCountered:  "requested",
		StatusAccepted:   "accepted",
		StatusPaid:       "accepted",
		StatusInProgress: "started",
		StatusCompleted:  "completed",
		StatusRejected:   "cancelled",
	}
	// setiap status persisted harus ter-map ke tepat satu display status
	for _, s := range AllStatuses {
		assert.Equal(t, bookingWant[s], CollapseStatus(s, VocabBooking), "booking %s", s)
		assert.Equal(t, jobWant[s], CollapseStatus(s, VocabJob), "job %s", s)
		assert.NotEmpty(t, CollapseStatus(s, VocabBooking))
	}
}

func TestCollapseStatus_UnknownNeverEmpty(t *testing.T) {
	assert.Equal(t, "requested", CollapseStatus(Status("???"), VocabBooking))
}

func sampleRow() BookingRow {
	agreed := 13000
	return BookingRow{
		Order: Order{
			ID:            "o1",
			GigID:         "g1",
			ClientID:      "c1",
			DealerID:      "d1",
			ProposedCents: 15000,
			AgreedCents:   &agreed,
			Notes:         "black SUV, pet hair",
			ScheduledDate: "2026-09-14T10:30:00Z",
			Status:        StatusAccepted,
			CreatedAt:     time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
		},
		ServiceType:     "Full Detail",
		CounterpartName: "Shine Bros Mobile",
		Location:        "Austin, TX",
	}
}

func TestProjectBooking(t *testing.T) {
	got := ProjectBooking(sampleRow(), VocabBooking)

	assert.Equal(t, "o1", got.ID)
	assert.Equal(t, "Full Detail", got.ServiceType)
	assert.Equal(t, "Shine Bros Mobile", got.CounterpartName)
	assert.Equal(t, "Austin, TX", got.Location)
	assert.Equal(t, "14 Sep 2026", got.Date)
	assert.Equal(t, "10:30", got.Time)
	assert.Equal(t, 13000, got.PriceCents) // agreed menang atas proposed
	assert.Equal(t, "accepted", got.Status)
}

func TestProjectBooking_Deterministic(t *testing.T) {
	a := ProjectBooking(sampleRow(), VocabBooking)
	b := ProjectBooking(sampleRow(), VocabBooking)
	require.Equal(t, a, b)
}

func TestProjectBooking_MissingJoinedFields(t *testing.T) {
	row := sampleRow()
	row.ServiceType = ""
	row.CounterpartName = ""
	row.Location = ""
	row.ScheduledDate = ""
	row.AgreedCents = nil

	got := ProjectBooking(row, VocabBooking)
	assert.Equal(t, DisplayPlaceholder, got.ServiceType)
	assert.Equal(t, DisplayPlaceholder, got.CounterpartName)
	assert.Equal(t, DisplayPlaceholder, got.Location)
	assert.Equal(t, DisplayPlaceholder, got.Date)
	assert.Equal(t, DisplayPlaceholder, got.Time)
	assert.Equal(t, 15000, got.PriceCents) // fallback ke proposed
}

func TestProjectBooking_DateOnlySchedule(t *testing.T) {
	row := sampleRow()
	row.ScheduledDate = "2026-09-14"

	got := ProjectBooking(row, VocabBooking)
	assert.Equal(t, "14 Sep 2026", got.Date)
	assert.Equal(t, DisplayPlaceholder, got.Time)
}

func TestProjectBooking_UnparseableScheduleKeptRaw(t *testing.T) {
	row := sampleRow()
	row.ScheduledDate = "next tuesday"

	got := ProjectBooking(row, VocabBooking)
	assert.Equal(t, "next tuesday", got.Date)
	assert.Equal(t, DisplayPlaceholder, got.Time)
}

func TestProjectBooking_JobVocab(t *testing.T) {
	row := sampleRow()
	row.Status = StatusInProgress
	assert.Equal(t, "started", ProjectBooking(row, VocabJob).Status)
	assert.Equal(t, "in-progress", ProjectBooking(row, VocabBooking).Status)
}
