package auth

import (
	"sync"
	"time"
)

const DEFAULT_TOKEN_EXPIRY = 30 * time.Minute

// auth is in memory as the expected number of signed in users at any
// moment is tiny, a restart just asks people to log in again
type AuthedUser struct {
	ID       int64
	Username string
	Role     string
}

type tokenEntry struct {
	user       AuthedUser
	expireTime time.Time
}

type tokenStore struct {
	tokenToUser   map[string]*tokenEntry
	tokenDuration time.Duration
	mu            sync.RWMutex
}

// expiry is sliding, any authenticated request pushes it out again
func (t *tokenStore) getToken(token string) (AuthedUser, bool) {
	t.refreshTokens()
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.tokenToUser[token]
	if ok {
		entry.expireTime = time.Now().Add(t.tokenDuration)
		return entry.user, ok
	}
	return AuthedUser{}, ok
}

func (t *tokenStore) addToken(token string, user AuthedUser) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokenToUser[token] = &tokenEntry{
		user:       user,
		expireTime: time.Now().Add(t.tokenDuration),
	}
}

// could also use goroutines but this should be fine
// bc of the low number of expected authenticated users
func (t *tokenStore) refreshTokens() {
	currentTime := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	for token, entry := range t.tokenToUser {
		if currentTime.After(entry.expireTime) {
			delete(t.tokenToUser, token)
		}
	}
}

var memoryTokenStore tokenStore = tokenStore{
	tokenToUser:   map[string]*tokenEntry{},
	tokenDuration: DEFAULT_TOKEN_EXPIRY,
	mu:            sync.RWMutex{},
}
