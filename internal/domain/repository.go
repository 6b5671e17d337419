package domain

// RankingEntry — строка рейтинга участника: статистика, предагрегированная хранилищем.
type RankingEntry struct {
	ID         string
	Name       string
	Count      int
	TotalMinor int64
}

// ClientRepository описывает требования к хранилищу клиентов.
type ClientRepository interface {
	// Create сохраняет нового клиента. Возвращает ErrDuplicateEntry при коллизии email.
	Create(client Client) (Client, error)
	// Get возвращает клиента по идентификатору или ErrClientNotFound, если его нет.
	Get(id string) (Client, error)
	// GetByEmail возвращает клиента по email или ErrClientNotFound.
	GetByEmail(email string) (Client, error)
	// Save применяет обновления к клиенту с учётом optimistic locking.
	Save(client Client) error
	// Delete удаляет клиента или возвращает ErrClientNotFound.
	Delete(id string) error
	// Ranking возвращает статистику покупателей, отсортированную хранилищем
	// по убыванию потраченной суммы.
	Ranking() ([]RankingEntry, error)
}

// SellerRepository описывает требования к хранилищу продавцов.
type SellerRepository interface {
	Create(seller Seller) (Seller, error)
	Get(id string) (Seller, error)
	GetByEmail(email string) (Seller, error)
	Save(seller Seller) error
	Delete(id string) error
	// Ranking возвращает статистику продавцов, отсортированную хранилищем
	// по убыванию вырученной суммы.
	Ranking() ([]RankingEntry, error)
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	Create(product Product) (Product, error)
	Get(id string) (Product, error)
	// ListBySaleState возвращает товары в заданном состоянии продажи.
	ListBySaleState(state SaleState) ([]Product, error)
	// ListByOwner возвращает все товары продавца независимо от состояния.
	ListByOwner(sellerID string) ([]Product, error)
	// Save применяет обновления к товару с учётом optimistic locking.
	Save(product Product) error
	Delete(id string) error
}

// OrderRepository описывает требования к хранилищу записей о покупках.
type OrderRepository interface {
	// Create сохраняет новую запись. Записи неизменяемы, метода Save нет.
	Create(order Order) (Order, error)
	Get(id string) (Order, error)
	ListByBuyer(clientID string) ([]Order, error)
	ListBySeller(sellerID string) ([]Order, error)
}

// WishlistRepository хранит отношение «клиент желает товар».
type WishlistRepository interface {
	// Add добавляет членство. Возвращает ErrProductAlreadyWished при повторе.
	Add(clientID, productID string) error
	// Remove снимает членство; удаление отсутствующей пары не является ошибкой.
	Remove(clientID, productID string) error
	// RemoveAllForProduct снимает товар со всех списков желаний системы.
	RemoveAllForProduct(productID string) error
	// ListByClient возвращает желаемые товары клиента.
	ListByClient(clientID string) ([]Product, error)
}
