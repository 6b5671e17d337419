package domain

import "context"

// Repositories — набор репозиториев, работающих в одной области видимости:
// либо поверх живого хранилища, либо внутри открытой транзакции.
type Repositories interface {
	Clients() ClientRepository
	Sellers() SellerRepository
	Products() ProductRepository
	Orders() OrderRepository
	Wishlists() WishlistRepository
}

// UnitOfWork задаёт атомарную границу для многосущностных изменений.
// fn выполняется над транзакционным набором репозиториев; ошибка откатывает всё.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx Repositories) error) error
}

// Notifier описывает взаимодействие с доставкой уведомлений.
// С точки зрения движка — fire-and-forget: сбой не влияет на исход операции.
type Notifier interface {
	// NotifyPurchase уведомляет покупателя и продавца о завершённой покупке.
	NotifyPurchase(ctx context.Context, order Order, product Product) error
	// NotifyPasswordReset отправляет участнику новый пароль.
	NotifyPasswordReset(ctx context.Context, email, newPassword string) error
}

// PasswordHasher хеширует пароли перед сохранением.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}
