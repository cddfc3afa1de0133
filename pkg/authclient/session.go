package authclient

import "sync"

// User is the client-side projection of the signed-in user.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsBlocked bool   `json:"isBlocked"`
}

// Session is the client's authentication state. It is safe for concurrent use.
type Session struct {
	mu          sync.RWMutex
	accessToken string
	user        *User
	lastPath    string
}

// AccessToken returns the current access token, or "" when signed out.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// Authenticated reports whether the session holds an access token.
func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

// User returns the signed-in user, if known.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Set stores a new access token. A nil user keeps the current one.
func (s *Session) Set(accessToken string, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	if user != nil {
		u := *user
		s.user = &u
	}
}

// Clear signs the session out. The last visited path is kept so a login
// redirect can return to it.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.user = nil
}

// SetLastPath records the path the user last visited.
func (s *Session) SetLastPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPath = path
}

// LastPath returns the path recorded by SetLastPath.
func (s *Session) LastPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPath
}
