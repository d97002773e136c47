// Package lock сериализует запись броней по залу и по пользователю.
package lock

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
)

// ErrNotAcquired: ключ уже занят другим процессом.
var ErrNotAcquired = errors.New("lock: not acquired")

// Locker захватывает все ключи сразу или ни одного.
// Ключи берутся в отсортированном порядке, чтобы два запроса с общими
// ключами не ждали друг друга по кругу.
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

func RoomKey(id uuid.UUID) string { return "room:" + id.String() }
func UserKey(id uuid.UUID) string { return "user:" + id.String() }

func normalizeKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
