package domain

import "time"

// Seller агрегирует состояние продавца и его торговую статистику.
type Seller struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	// SellsCount равен количеству проданных товаров, где owner == этот продавец.
	SellsCount int
	// SoldMinor — сумма всех продаж в минимальных денежных единицах.
	SoldMinor int64
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты продавца и возвращает список замечаний.
func (s *Seller) ValidateInvariants() []error {
	var errs []error

	if s.Email == "" {
		errs = append(errs, ErrEmailRequired)
	}
	if s.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	if s.SellsCount < 0 {
		errs = append(errs, ErrCounterNegative)
	}
	if s.SoldMinor < 0 {
		errs = append(errs, ErrAmountNegative)
	}

	return errs
}

// ApplySale фиксирует продажу в статистике продавца.
func (s *Seller) ApplySale(priceMinor int64, at time.Time) {
	s.SellsCount++
	s.SoldMinor += priceMinor
	s.UpdatedAt = at
}
