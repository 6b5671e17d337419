package domain

import "time"

// Order — неизменяемая запись о завершённой покупке, связывающая покупателя,
// продавца и товар. Создаётся только в момент успешной продажи.
type Order struct {
	ID         string
	ProductID  string
	BuyerID    string
	SellerID   string
	PriceMinor int64
	CreatedAt  time.Time
}

// ValidateInvariants проверяет базовые инварианты записи о покупке.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.ProductID == "" {
		errs = append(errs, ErrProductIDRequired)
	}
	if o.BuyerID == "" {
		errs = append(errs, ErrBuyerRequired)
	}
	if o.SellerID == "" {
		errs = append(errs, ErrOwnerRequired)
	}
	if o.PriceMinor < 0 {
		errs = append(errs, ErrAmountNegative)
	}

	return errs
}
