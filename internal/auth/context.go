// Package auth передаёт аутентифицированного участника через context.Context.
// Глобального изменяемого состояния нет: параллельные запросы несут своих
// участников независимо друг от друга.
package auth

import (
	"context"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

type principalKey struct{}

// WithClient помечает контекст как аутентифицированный покупателем.
func WithClient(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, principalKey{}, domain.Principal{
		ID:   clientID,
		Kind: domain.PrincipalKindClient,
	})
}

// WithSeller помечает контекст как аутентифицированный продавцом.
func WithSeller(ctx context.Context, sellerID string) context.Context {
	return context.WithValue(ctx, principalKey{}, domain.Principal{
		ID:   sellerID,
		Kind: domain.PrincipalKindSeller,
	})
}

// Principal возвращает участника текущего запроса, если он аутентифицирован.
func Principal(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok && p.ID != ""
}

// CurrentClient возвращает идентификатор аутентифицированного покупателя.
// Второй результат false, если запрос не аутентифицирован этим видом участника.
func CurrentClient(ctx context.Context) (string, bool) {
	p, ok := Principal(ctx)
	if !ok || !p.IsClient() {
		return "", false
	}
	return p.ID, true
}

// CurrentSeller возвращает идентификатор аутентифицированного продавца.
func CurrentSeller(ctx context.Context) (string, bool) {
	p, ok := Principal(ctx)
	if !ok || !p.IsSeller() {
		return "", false
	}
	return p.ID, true
}
