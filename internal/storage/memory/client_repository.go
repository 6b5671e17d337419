package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// clientRepository — in-memory реализация ClientRepository.
// store установлен в живом режиме (блокирует мьютекс), st — внутри транзакции.
type clientRepository struct {
	store *Store
	st    *state
}

func (r *clientRepository) acquire() (*state, func()) {
	if r.st != nil {
		return r.st, func() {}
	}
	r.store.mu.Lock()
	return r.store.st, r.store.mu.Unlock
}

// Create сохраняет нового клиента, если ID и email ещё не заняты.
func (r *clientRepository) Create(client domain.Client) (domain.Client, error) {
	st, release := r.acquire()
	defer release()

	if _, exists := st.clients[client.ID]; exists {
		return domain.Client{}, domain.ErrDuplicateEntry
	}
	for _, existing := range st.clients {
		if existing.Email == client.Email {
			return domain.Client{}, domain.ErrDuplicateEntry
		}
	}
	st.clients[client.ID] = client
	return client, nil
}

// Get возвращает клиента или ErrClientNotFound, если его нет.
func (r *clientRepository) Get(id string) (domain.Client, error) {
	st, release := r.acquire()
	defer release()

	client, ok := st.clients[id]
	if !ok {
		return domain.Client{}, domain.ErrClientNotFound
	}
	return client, nil
}

// GetByEmail возвращает клиента по email или ErrClientNotFound.
func (r *clientRepository) GetByEmail(email string) (domain.Client, error) {
	st, release := r.acquire()
	defer release()

	for _, client := range st.clients {
		if client.Email == email {
			return client, nil
		}
	}
	return domain.Client{}, domain.ErrClientNotFound
}

// Save перезаписывает клиента, проверяя версию (optimistic locking)
// и уникальность email внутри вида.
func (r *clientRepository) Save(client domain.Client) error {
	st, release := r.acquire()
	defer release()

	current, ok := st.clients[client.ID]
	if !ok {
		return domain.ErrClientNotFound
	}
	if current.Version != client.Version {
		return domain.ErrVersionConflict
	}
	for id, existing := range st.clients {
		if id != client.ID && existing.Email == client.Email {
			return domain.ErrDuplicateEntry
		}
	}
	client.Version++
	st.clients[client.ID] = client
	return nil
}

// Delete удаляет клиента вместе с его списком желаний.
func (r *clientRepository) Delete(id string) error {
	st, release := r.acquire()
	defer release()

	if _, ok := st.clients[id]; !ok {
		return domain.ErrClientNotFound
	}
	delete(st.clients, id)
	for key := range st.wishes {
		if key.ClientID == id {
			delete(st.wishes, key)
		}
	}
	return nil
}

// Ranking возвращает статистику покупателей по убыванию потраченной суммы.
func (r *clientRepository) Ranking() ([]domain.RankingEntry, error) {
	st, release := r.acquire()
	defer release()

	entries := make([]domain.RankingEntry, 0, len(st.clients))
	for _, client := range st.clients {
		entries = append(entries, domain.RankingEntry{
			ID:         client.ID,
			Name:       client.Name,
			Count:      client.BuysCount,
			TotalMinor: client.SpentMinor,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalMinor != entries[j].TotalMinor {
			return entries[i].TotalMinor > entries[j].TotalMinor
		}
		return entries[i].ID < entries[j].ID
	})

	return entries, nil
}

var _ domain.ClientRepository = (*clientRepository)(nil)
