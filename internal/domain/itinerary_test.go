package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
)

func intPtr(v int) *int { return &v }

// dayOf builds an itinerary whose items are already positioned 0..n-1.
func dayOf(titles ...string) domain.Itinerary {
	itin := domain.Itinerary{ID: uuid.New()}
	for _, title := range titles {
		itin.Insert(domain.ItineraryItem{ID: uuid.New(), Title: title, DurationMinutes: 60}, -1)
	}
	return itin
}

func titles(itin domain.Itinerary) []string {
	out := make([]string, len(itin.Items))
	for i, it := range itin.Items {
		out[i] = it.Title
	}
	return out
}

func assertPositions(t *testing.T, itin domain.Itinerary) {
	t.Helper()
	for i, it := range itin.Items {
		assert.Equal(t, i, it.Position, "position of %q", it.Title)
		assert.Equal(t, i == 0, it.IsStartingPoint, "starting flag of %q", it.Title)
	}
}

// ---- Insert ----------------------------------------------------------------

func TestItinerary_Insert_AppendsWhenOutOfRange(t *testing.T) {
	itin := dayOf("A", "B")

	pos := itin.Insert(domain.ItineraryItem{ID: uuid.New(), Title: "C"}, 99)

	assert.Equal(t, 2, pos)
	assert.Equal(t, []string{"A", "B", "C"}, titles(itin))
	assertPositions(t, itin)
	assert.Equal(t, itin.ID, itin.Items[2].ItineraryID)
	assert.Equal(t, domain.DistancePending, itin.Items[2].DistanceStatus)
}

func TestItinerary_Insert_AtZeroDemotesOldStart(t *testing.T) {
	itin := dayOf("A", "B")

	pos := itin.Insert(domain.ItineraryItem{ID: uuid.New(), Title: "Z"}, 0)

	assert.Equal(t, 0, pos)
	assert.Equal(t, []string{"Z", "A", "B"}, titles(itin))
	assertPositions(t, itin)
	assert.Equal(t, domain.DistanceStatus(""), itin.Items[0].DistanceStatus)
	assert.Equal(t, domain.DistancePending, itin.Items[1].DistanceStatus)
}

func TestItinerary_Insert_StartingPointLosesTransport(t *testing.T) {
	itin := domain.Itinerary{ID: uuid.New()}
	item := domain.ItineraryItem{ID: uuid.New(), Title: "A", TransportMode: domain.TransportDriving, ModePinned: true}
	item.ApplyRoute(domain.TransportDriving, domain.RouteEstimate{DistanceMeters: 10, DurationSeconds: 60})

	itin.Insert(item, 0)

	first := itin.Items[0]
	assert.True(t, first.IsStartingPoint)
	assert.Empty(t, first.TransportMode)
	assert.False(t, first.ModePinned)
	assert.Nil(t, first.DistanceMeters)
	assert.Nil(t, first.TravelTimeSeconds)
}

// ---- Remove ----------------------------------------------------------------

func TestItinerary_Remove_MiddleMarksSuccessorPending(t *testing.T) {
	itin := dayOf("A", "B", "C")
	itin.Items[2].DistanceStatus = domain.DistanceResolved

	removed, err := itin.Remove(itin.Items[1].ID)

	require.NoError(t, err)
	assert.Equal(t, "B", removed.Title)
	assert.Equal(t, []string{"A", "C"}, titles(itin))
	assertPositions(t, itin)
	assert.Equal(t, domain.DistancePending, itin.Items[1].DistanceStatus)
}

func TestItinerary_Remove_FirstPromotesSuccessor(t *testing.T) {
	itin := dayOf("A", "B")
	itin.Items[1].ApplyRoute(domain.TransportWalking, domain.RouteEstimate{DurationSeconds: 120})

	_, err := itin.Remove(itin.Items[0].ID)

	require.NoError(t, err)
	require.Len(t, itin.Items, 1)
	assert.True(t, itin.Items[0].IsStartingPoint)
	assert.Nil(t, itin.Items[0].TravelTimeSeconds)
	assert.Empty(t, itin.Items[0].DistanceStatus)
}

func TestItinerary_Remove_UnknownItem(t *testing.T) {
	itin := dayOf("A")

	_, err := itin.Remove(uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Reorder ---------------------------------------------------------------

func TestItinerary_Reorder_OK(t *testing.T) {
	itin := dayOf("A", "B", "C")
	a, b, c := itin.Items[0].ID, itin.Items[1].ID, itin.Items[2].ID

	err := itin.Reorder([]uuid.UUID{c, a, b})

	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, titles(itin))
	assertPositions(t, itin)
}

func TestItinerary_Reorder_RejectsNonPermutation(t *testing.T) {
	itin := dayOf("A", "B")
	a := itin.Items[0].ID

	cases := map[string][]uuid.UUID{
		"too short": {a},
		"duplicate": {a, a},
		"foreign":   {a, uuid.New()},
	}
	for name, ids := range cases {
		t.Run(name, func(t *testing.T) {
			copyItin := dayOf("A", "B")
			copyItin.Items[0].ID = a

			err := copyItin.Reorder(ids)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

// ---- item helpers ----------------------------------------------------------

func TestItineraryItem_TravelMinutes_RoundsUp(t *testing.T) {
	cases := []struct {
		seconds *int
		want    int
	}{
		{nil, 0},
		{intPtr(0), 0},
		{intPtr(1), 1},
		{intPtr(60), 1},
		{intPtr(61), 2},
		{intPtr(900), 15},
	}
	for _, tc := range cases {
		item := domain.ItineraryItem{TravelTimeSeconds: tc.seconds}
		assert.Equal(t, tc.want, item.TravelMinutes())
	}
}

func TestItineraryItem_Schedule_DerivesEnd(t *testing.T) {
	item := domain.ItineraryItem{DurationMinutes: 90}

	item.Schedule(domain.NewTimeOfDay(23, 0))

	require.NotNil(t, item.StartTime)
	require.NotNil(t, item.EndTime)
	assert.Equal(t, "23:00", item.StartTime.String())
	assert.Equal(t, "00:30", item.EndTime.String())
}
