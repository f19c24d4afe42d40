// Package toyhttp implements the line-based user service used to exercise
// the curl command: a tiny HTTP-flavored server over raw TCP and its client.
package toyhttp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"unicode/utf16"
)

// User is a stored user record.
type User struct {
	ID   int
	Name string
	Age  int
}

// JSON renders the user the way the service has always sent it, with a
// space after every separator.
func (u User) JSON() string {
	return fmt.Sprintf(`{"id": %d, "name": %s, "age": %d}`, u.ID, asciiJSONString(u.Name), u.Age)
}

// asciiJSONString quotes s as a JSON string using only printable ASCII.
// HTML characters stay literal; DEL and every non-ASCII rune become \uXXXX
// escapes, with surrogate pairs above the BMP.
func asciiJSONString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	quoted := strings.TrimSuffix(buf.String(), "\n")

	var b strings.Builder
	b.Grow(len(quoted))
	for _, r := range quoted {
		switch {
		case r < 0x7f:
			b.WriteRune(r)
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, "\\u%04x\\u%04x", hi, lo)
		default:
			fmt.Fprintf(&b, "\\u%04x", r)
		}
	}
	return b.String()
}

// Store is an in-memory user table with monotonically increasing ids.
// It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	users  map[int]User
	nextID int
}

// NewStore returns a store seeded with Alice, Bob and Charlie as ids 0-2.
func NewStore() *Store {
	s := &Store{users: make(map[int]User)}
	s.Add("Alice", 30)
	s.Add("Bob", 25)
	s.Add("Charlie", 35)
	return s
}

// Get looks up a user by id.
func (s *Store) Get(id int) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	return u, ok
}

// Add stores a new user under the next id and returns it.
func (s *Store) Add(name string, age int) User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := User{ID: s.nextID, Name: name, Age: age}
	s.users[u.ID] = u
	s.nextID++
	return u
}

// Len returns the number of stored users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
