package domain

import "time"

// Client агрегирует состояние покупателя и его торговую статистику.
type Client struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	// BuysCount равен количеству проданных товаров, где buyer == этот клиент.
	BuysCount int
	// SpentMinor — сумма всех покупок в минимальных денежных единицах.
	SpentMinor int64
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidateInvariants проверяет базовые инварианты клиента и возвращает список замечаний.
func (c *Client) ValidateInvariants() []error {
	var errs []error

	if c.Email == "" {
		errs = append(errs, ErrEmailRequired)
	}
	if c.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	if c.BuysCount < 0 {
		errs = append(errs, ErrCounterNegative)
	}
	if c.SpentMinor < 0 {
		errs = append(errs, ErrAmountNegative)
	}

	return errs
}

// ApplyPurchase фиксирует покупку в статистике клиента.
func (c *Client) ApplyPurchase(priceMinor int64, at time.Time) {
	c.BuysCount++
	c.SpentMinor += priceMinor
	c.UpdatedAt = at
}
