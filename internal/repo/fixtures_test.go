package repo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/autoprime/backend/internal/domain"
	"github.com/autoprime/backend/internal/repo"
	"github.com/autoprime/backend/testutil"
)

// testEnv bundles all repositories bound to one transaction against the test
// database. The transaction is rolled back when the test finishes, giving
// free per-test isolation without any cleanup SQL.
//
// Requires TEST_DATABASE_URL to be set; migrations are applied by TestMain.
type testEnv struct {
	vehicles repo.VehicleRepo
	bookings repo.BookingRepo
	payments repo.PaymentRepo
	users    repo.UserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return &testEnv{
		vehicles: repo.NewVehicleRepo(tx),
		bookings: repo.NewBookingRepo(tx),
		payments: repo.NewPaymentRepo(tx),
		users:    repo.NewUserRepo(tx),
	}
}

var userSeq int

// seedUser inserts a user row with a unique email and returns it.
func (e *testEnv) seedUser(t *testing.T) domain.User {
	t.Helper()
	userSeq++
	u, err := e.users.Create(context.Background(), domain.User{
		Name:  "Asha Rao",
		Email: fmt.Sprintf("asha%d@example.com", userSeq),
	})
	require.NoError(t, err)
	return u
}

// seedVehicle inserts an AVAILABLE vehicle and returns it.
func (e *testEnv) seedVehicle(t *testing.T) domain.Vehicle {
	t.Helper()
	host := e.seedUser(t)
	v, err := e.vehicles.Create(context.Background(), domain.Vehicle{
		HostID:           host.ID,
		Brand:            "Maruti",
		Name:             "Swift",
		City:             "Pune",
		DailyRate:        domain.NewMoney(1500, 0),
		WeekendSurcharge: domain.NewMoney(500, 0),
		Status:           domain.VehicleAvailable,
	})
	require.NoError(t, err)
	return v
}

// seedBooking inserts a booking in the given status for the vehicle and
// returns it. Pricing fields are filled with plausible fixed values; the repo
// layer does not recompute them.
func (e *testEnv) seedBooking(t *testing.T, vehicle domain.Vehicle, user domain.User, start, end time.Time, status domain.BookingStatus) domain.Booking {
	t.Helper()
	b, err := e.bookings.Create(context.Background(), domain.Booking{
		VehicleID: vehicle.ID,
		UserID:    user.ID,
		StartDate: start,
		EndDate:   end,
		Days:      int(end.Sub(start).Hours()/24) + 1,
		Subtotal:  domain.NewMoney(15000, 0),
		Discount:  domain.NewMoney(1500, 0),
		GST:       domain.NewMoney(2430, 0),
		Total:     domain.NewMoney(15930, 0),
		Status:    status,
	})
	require.NoError(t, err)
	return b
}

func mar(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}
