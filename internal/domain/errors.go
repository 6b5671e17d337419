package domain

import "errors"

var (
	// Ошибка отсутствующего email.
	ErrEmailRequired = errors.New("email is required")
	// Ошибка отсутствующего имени.
	ErrNameRequired = errors.New("name is required")
	// Ошибка отрицательного счётчика покупок/продаж.
	ErrCounterNegative = errors.New("counter must be non-negative")
	// Ошибка отрицательной денежной суммы.
	ErrAmountNegative = errors.New("amount_minor must be non-negative")
	// Ошибка отсутствующего владельца товара.
	ErrOwnerRequired = errors.New("product owner is required")
	// Ошибка отсутствующего покупателя в записи о покупке.
	ErrBuyerRequired = errors.New("buyer is required")
	// Ошибка отсутствующего идентификатора товара.
	ErrProductIDRequired = errors.New("product_id is required")
	// Ошибка рассинхронизации состояния продажи и покупателя: buyer непуст ⇔ Sold.
	ErrSaleStateMismatch = errors.New("buyer must be set if and only if product is sold")
	// Ошибка неизвестного состояния продажи.
	ErrSaleStateInvalid = errors.New("unknown sale state")

	// ErrClientNotFound возвращается, если клиент не найден в репозитории.
	ErrClientNotFound = errors.New("client not found")
	// ErrSellerNotFound возвращается, если продавец не найден в репозитории.
	ErrSellerNotFound = errors.New("seller not found")
	// ErrProductNotFound возвращается, если товар не найден в репозитории.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается, если запись о покупке не найдена в репозитории.
	ErrOrderNotFound = errors.New("order not found")

	// ErrUnauthorized — у вызывающего нет требуемого отношения к цели:
	// не владелец, не покупатель, не сам участник или не аутентифицирован нужным видом.
	ErrUnauthorized = errors.New("access denied")
	// ErrProductAlreadySold — нарушение конечного автомата: товар уже продан.
	ErrProductAlreadySold = errors.New("product has already been sold")
	// ErrProductAlreadyWished — товар уже есть в списке желаний клиента.
	ErrProductAlreadyWished = errors.New("product is already in the wishlist")
	// ErrCrossKindEmail — email уже занят участником другого вида.
	ErrCrossKindEmail = errors.New("email already belongs to the other principal kind")
	// ErrDuplicateEntry — нарушение уникальности на уровне хранилища.
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrHasActiveRelationships — удаление запрещено: у участника есть история сделок.
	ErrHasActiveRelationships = errors.New("principal has transaction history")
	// ErrVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrVersionConflict = errors.New("version conflict")
)

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}
