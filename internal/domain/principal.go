package domain

// PrincipalKind различает два вида участников маркетплейса.
type PrincipalKind string

const (
	// PrincipalKindClient — покупатель.
	PrincipalKindClient PrincipalKind = "client"
	// PrincipalKindSeller — продавец.
	PrincipalKindSeller PrincipalKind = "seller"
)

// Principal описывает аутентифицированного участника текущего запроса.
// Запрос аутентифицирован максимум одним видом участника.
type Principal struct {
	ID   string
	Kind PrincipalKind
}

// IsClient сообщает, аутентифицирован ли запрос как покупатель.
func (p Principal) IsClient() bool {
	return p.Kind == PrincipalKindClient && p.ID != ""
}

// IsSeller сообщает, аутентифицирован ли запрос как продавец.
func (p Principal) IsSeller() bool {
	return p.Kind == PrincipalKindSeller && p.ID != ""
}
