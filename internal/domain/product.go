package domain

import "time"

// SaleState описывает жизненный цикл товара: Unsold → Sold, обратного перехода нет.
type SaleState string

const (
	// SaleStateUnsold — товар в каталоге и доступен для покупки.
	SaleStateUnsold SaleState = "unsold"
	// SaleStateSold — товар куплен; терминальное состояние.
	SaleStateSold SaleState = "sold"
)

// Product агрегирует состояние товара. Владелец назначается при создании и неизменен.
type Product struct {
	ID          string
	Name        string
	Description string
	PriceMinor  int64
	OwnerID     string
	SaleState   SaleState
	// BuyerID непустой тогда и только тогда, когда SaleState == Sold.
	BuyerID   string
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSold сообщает, находится ли товар в терминальном состоянии.
func (p *Product) IsSold() bool {
	return p.SaleState == SaleStateSold
}

// MarkSold переводит товар в состояние Sold и закрепляет покупателя.
// Возвращает ErrProductAlreadySold, если переход уже совершён.
func (p *Product) MarkSold(buyerID string, at time.Time) error {
	if p.IsSold() {
		return ErrProductAlreadySold
	}
	p.SaleState = SaleStateSold
	p.BuyerID = buyerID
	p.UpdatedAt = at
	return nil
}

// ValidateInvariants проверяет базовые инварианты товара и возвращает список замечаний.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrAmountNegative)
	}
	if p.OwnerID == "" {
		errs = append(errs, ErrOwnerRequired)
	}

	// Сверяем состояние продажи с наличием покупателя: buyer непуст ⇔ Sold.
	switch p.SaleState {
	case SaleStateUnsold:
		if p.BuyerID != "" {
			errs = append(errs, ErrSaleStateMismatch)
		}
	case SaleStateSold:
		if p.BuyerID == "" {
			errs = append(errs, ErrSaleStateMismatch)
		}
	default:
		errs = append(errs, ErrSaleStateInvalid)
	}

	return errs
}
