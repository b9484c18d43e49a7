package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"trustscore/models"
)

type fakeLoader struct {
	snap  *models.RawSnapshot
	err   error
	fails int
	calls int
}

func (f *fakeLoader) Load(ctx context.Context) (*models.RawSnapshot, error) {
	f.calls++
	if f.err != nil && f.calls <= f.fails {
		return nil, f.err
	}
	return f.snap, nil
}

func rawFixture() *models.RawSnapshot {
	return &models.RawSnapshot{
		Sellers: []*models.RawSeller{
			{SellerID: "1", SellerName: "Alpha", AccountAgeDays: strp("730"), AvgResponseTimeHours: strp("5")},
			{SellerID: "2", SellerName: "Beta"},
		},
		Orders: []*models.RawOrder{
			{OrderID: "o1", SellerID: "1", OnTimeDelivery: strp("1"), Returned: strp("0")},
			{OrderID: "o2", SellerID: "1", OnTimeDelivery: strp("true"), Returned: strp("false")},
			{OrderID: "o3", SellerID: "2", DeliveryDays: strp("9")},
		},
		Reviews: []*models.RawReview{
			{ReviewID: "r1", SellerID: "1", Rating: strp("5"), ReviewText: strp("Excellent, would buy again"), ReviewDate: strp("2024-01-01")},
			{ReviewID: "r2", SellerID: "1", Rating: strp("5"), ReviewText: strp("Nice!"), ReviewDate: strp("2024-01-02")},
		},
	}
}

func testOptions() Options {
	return Options{Workers: 2, MaxRetries: 3, RetryBaseDelay: time.Millisecond}
}

func TestTrustServiceRun(t *testing.T) {
	loader := &fakeLoader{snap: rawFixture()}
	svc := NewTrustService(loader, testOptions(), newTestLogger())

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.RunID == "" {
		t.Error("RunID should be set")
	}
	if len(report.Cards) != 2 {
		t.Fatalf("cards: got %d, want 2", len(report.Cards))
	}
	if !report.Suspicious.Contains("r2") || report.Suspicious.Len() != 1 {
		t.Errorf("suspicious: got %v, want [r2]", report.Suspicious.IDs())
	}
	if got := report.Cards[0].Metrics.Authenticity; got != 50 {
		t.Errorf("seller 1 authenticity: got %v, want 50", got)
	}
	if got := report.Cards[1].Metrics.Delivery; got != 0 {
		t.Errorf("seller 2 delivery: got %v, want 0", got)
	}
}

func TestTrustServiceRetriesTransientFailures(t *testing.T) {
	loader := &fakeLoader{snap: rawFixture(), err: errors.New("connection refused"), fails: 2}
	svc := NewTrustService(loader, testOptions(), newTestLogger())

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if loader.calls != 3 {
		t.Errorf("calls: got %d, want 3", loader.calls)
	}
}

func TestTrustServiceUpstreamUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	loader := &fakeLoader{err: cause, fails: 100}
	svc := NewTrustService(loader, testOptions(), newTestLogger())

	report, err := svc.Run(context.Background())
	if report != nil {
		t.Errorf("report: got %+v, want nil", report)
	}
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("err: got %v, want ErrUpstreamUnavailable", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("err should wrap the load failure, got %v", err)
	}
	if loader.calls != 3 {
		t.Errorf("calls: got %d, want 3", loader.calls)
	}
}

func TestTrustServiceRunIDsAreUnique(t *testing.T) {
	svc := NewTrustService(&fakeLoader{snap: rawFixture()}, testOptions(), newTestLogger())

	a, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if a.RunID == b.RunID {
		t.Errorf("run ids should differ, both %s", a.RunID)
	}
}

func burstFixture(burstDates ...*string) *models.RawSnapshot {
	raw := &models.RawSnapshot{
		Sellers: []*models.RawSeller{{SellerID: "9", SellerName: "Gamma", AccountAgeDays: strp("730"), AvgResponseTimeHours: strp("1")}},
		Orders:  []*models.RawOrder{{OrderID: "o1", SellerID: "9", OnTimeDelivery: strp("1"), Returned: strp("0")}},
	}
	for i, d := range burstDates {
		raw.Reviews = append(raw.Reviews, &models.RawReview{
			ReviewID:   fmt.Sprintf("b%d", i),
			SellerID:   "9",
			Rating:     strp("4"),
			ReviewText: strp("Great product, fast shipping!"),
			ReviewDate: d,
		})
	}
	raw.Reviews = append(raw.Reviews, &models.RawReview{
		ReviewID: "honest", SellerID: "9", Rating: strp("4"),
		ReviewText: strp("Packaging was a bit damaged but fine"), ReviewDate: strp("2024-03-01 18:00:00"),
	})
	return raw
}

func TestTrustServiceRunDetectsBurst(t *testing.T) {
	dates := []*string{
		strp("2024-03-01 09:00:00"), strp("2024-03-01 09:05:00"), strp("2024-03-01T10:00:00Z"),
		strp("2024-03-01 11:30:00"), strp("2024-03-01"),
	}
	svc := NewTrustService(&fakeLoader{snap: burstFixture(dates...)}, testOptions(), newTestLogger())

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"b0", "b1", "b2", "b3", "b4"}
	if got := report.Suspicious.IDs(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("suspicious: got %v, want %v", got, want)
	}

	c := report.Cards[0]
	if c.Stats.FakeReviews != 5 || c.Stats.RealReviews != 1 {
		t.Errorf("Stats: got %+v, want 5 fake, 1 real", c.Stats)
	}
	if c.Metrics.Authenticity != 16.7 {
		t.Errorf("Authenticity: got %v, want 16.7", c.Metrics.Authenticity)
	}
}

func TestTrustServiceRunMissingDateNeverJoinsBurst(t *testing.T) {
	dates := []*string{
		strp("2024-03-01 09:00:00"), strp("2024-03-01 09:05:00"),
		strp("2024-03-01 10:00:00"), strp("2024-03-01 11:30:00"), nil,
	}
	svc := NewTrustService(&fakeLoader{snap: burstFixture(dates...)}, testOptions(), newTestLogger())

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Suspicious.Len() != 0 {
		t.Errorf("suspicious: got %v, want none", report.Suspicious.IDs())
	}
	if got := report.Cards[0].Metrics.Authenticity; got != 100 {
		t.Errorf("Authenticity: got %v, want 100", got)
	}
}
