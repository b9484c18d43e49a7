package services

import (
	"testing"

	"trustscore/models"
)

func TestCleanerParseNumber(t *testing.T) {
	p := &cleanPass{logger: newTestLogger(), validate: NewCleaner(newTestLogger()).validate}

	tests := []struct {
		raw       *string
		rule      string
		want      float64
		ok        bool
		malformed bool
	}{
		{strp("730"), ruleNonNegative, 730, true, false},
		{strp(" 4.5 "), ruleNonNegative, 4.5, true, false},
		{nil, ruleNonNegative, 0, false, false},
		{strp(""), ruleNonNegative, 0, false, false},
		{strp("abc"), ruleNonNegative, 0, false, true},
		{strp("-3"), ruleNonNegative, 0, false, true},
		{strp("NaN"), ruleNonNegative, 0, false, true},
		{strp("5"), ruleRating, 5, true, false},
		{strp("1"), ruleRating, 1, true, false},
		{strp("6"), ruleRating, 0, false, true},
		{strp("0"), ruleRating, 0, false, true},
	}

	for _, tt := range tests {
		got := p.parseNumber(tt.raw, tt.rule)
		v, ok := got.Get()
		if ok != tt.ok || v != tt.want || got.Malformed != tt.malformed {
			raw := "<nil>"
			if tt.raw != nil {
				raw = *tt.raw
			}
			t.Errorf("parseNumber(%q, %s) = (%v, %v, malformed=%v); want (%v, %v, malformed=%v)",
				raw, tt.rule, v, ok, got.Malformed, tt.want, tt.ok, tt.malformed)
		}
	}
}

func TestCleanerParseBool(t *testing.T) {
	p := &cleanPass{logger: newTestLogger()}

	tests := []struct {
		raw  string
		want bool
		ok   bool
	}{
		{"1", true, true},
		{"0", false, true},
		{"true", true, true},
		{"False", false, true},
		{"t", true, true},
		{"yes", true, true},
		{"NO", false, true},
		{"1.0", true, true},
		{"0.0", false, true},
		{"maybe", false, false},
		{"2", false, false},
	}

	for _, tt := range tests {
		v, ok := p.parseBool(strp(tt.raw)).Get()
		if v != tt.want || ok != tt.ok {
			t.Errorf("parseBool(%q) = (%v, %v); want (%v, %v)", tt.raw, v, ok, tt.want, tt.ok)
		}
	}
	if p.invalid != 2 {
		t.Errorf("invalid count: got %d, want 2", p.invalid)
	}
}

func TestCleanerParseDate(t *testing.T) {
	p := &cleanPass{logger: newTestLogger()}

	tests := []struct {
		raw     string
		wantDay string
		ok      bool
	}{
		{"2024-03-05", "2024-03-05", true},
		{"2024-03-05T10:11:12Z", "2024-03-05", true},
		{"2024-03-05 10:11:12", "2024-03-05", true},
		{"2024-03-05 10:11:12+00", "2024-03-05", true},
		{"2024-03-05 10:11:12.123456+05:30", "2024-03-05", true},
		{"05/03/2024", "", false},
	}

	for _, tt := range tests {
		got := p.parseDate(strp(tt.raw))
		v, ok := got.Get()
		if ok != tt.ok {
			t.Errorf("parseDate(%q) ok = %v; want %v", tt.raw, ok, tt.ok)
			continue
		}
		if ok && v.Format("2006-01-02") != tt.wantDay {
			t.Errorf("parseDate(%q) = %s; want %s", tt.raw, v.Format("2006-01-02"), tt.wantDay)
		}
		if !ok && !got.Malformed {
			t.Errorf("parseDate(%q) should be malformed", tt.raw)
		}
	}
}

func TestCleanerDropsRowsWithoutKeys(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := &models.RawSnapshot{
		Sellers: []*models.RawSeller{
			{SellerID: "", SellerName: "Nobody"},
			{SellerID: "1", SellerName: "  Seller   One "},
		},
		Orders: []*models.RawOrder{
			{OrderID: "o1", SellerID: ""},
			{OrderID: "o2", SellerID: "1", OnTimeDelivery: strp("1")},
		},
		Reviews: []*models.RawReview{
			{ReviewID: "", SellerID: "1"},
			{ReviewID: "r1", SellerID: ""},
			{ReviewID: "r2", SellerID: "1", Rating: strp("5")},
		},
	}

	snap := c.Clean(raw)
	if len(snap.Sellers) != 1 || len(snap.Orders) != 1 || len(snap.Reviews) != 1 {
		t.Fatalf("counts: got %d/%d/%d, want 1/1/1", len(snap.Sellers), len(snap.Orders), len(snap.Reviews))
	}
	if snap.Sellers[0].Name != "Seller One" {
		t.Errorf("Name: got %q, want %q", snap.Sellers[0].Name, "Seller One")
	}
}

func TestCleanerDeduplicatesIDs(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := &models.RawSnapshot{
		Sellers: []*models.RawSeller{
			{SellerID: "1", SellerName: "A"},
			{SellerID: "1", SellerName: "B"},
		},
		Reviews: []*models.RawReview{
			{ReviewID: "r1", SellerID: "1", ReviewText: strp("first")},
			{ReviewID: "r1", SellerID: "1", ReviewText: strp("second")},
		},
	}

	snap := c.Clean(raw)
	if len(snap.Sellers) != 1 || snap.Sellers[0].Name != "A" {
		t.Errorf("sellers: got %+v, want only A", snap.Sellers)
	}
	if len(snap.Reviews) != 1 || snap.Reviews[0].Text.Or("") != "first" {
		t.Errorf("reviews: got %+v, want only first", snap.Reviews)
	}
}

func TestCleanerKeepsReviewTextVerbatim(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := &models.RawSnapshot{
		Reviews: []*models.RawReview{{ReviewID: "r1", SellerID: "1", ReviewText: strp("  Good  ")}},
	}

	snap := c.Clean(raw)
	if got := snap.Reviews[0].Text.Or(""); got != "  Good  " {
		t.Errorf("Text: got %q, want verbatim", got)
	}
}
