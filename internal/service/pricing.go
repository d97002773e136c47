package service

import "github.com/PpaulaPulido/karaoke-reservations/internal/model"

// CalculatePrice: итог брони в центах: тариф за фактические минуты
// (округление половины вверх) плюс сумма доп. услуг.
func CalculatePrice(pricePerHour int64, minutes int, extras []model.Extra) int64 {
	total := (pricePerHour*int64(minutes) + 30) / 60
	for _, e := range extras {
		total += e.Price
	}
	return total
}
