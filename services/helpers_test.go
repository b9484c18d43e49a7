package services

import (
	"io"
	"time"

	"trustscore/models"
	"trustscore/utils"
)

func newTestLogger() *utils.Logger { return utils.New(io.Discard, "error", "text") }

func strp(s string) *string { return &s }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			panic(err)
		}
	}
	return t
}

func review(id, seller string, rating float64, text, date string) models.Review {
	return models.Review{
		ID:       id,
		SellerID: seller,
		Rating:   models.Some(rating),
		Text:     models.Some(text),
		Date:     models.Some(day(date)),
	}
}

func order(seller string, onTime, returned bool) models.Order {
	return models.Order{
		SellerID: seller,
		OnTime:   models.Some(onTime),
		Returned: models.Some(returned),
	}
}

func seller(id string, ageDays, responseHours float64) models.Seller {
	return models.Seller{
		ID:                   id,
		Name:                 "Seller_" + id,
		AccountAgeDays:       models.Some(ageDays),
		AvgResponseTimeHours: models.Some(responseHours),
	}
}
