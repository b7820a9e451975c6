package repository

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"sync"
	"time"

	"linkbridge/internal/models"
	"linkbridge/pkg/clock"
)

const (
	DefaultLinkCodeTTL = 5 * time.Minute

	codeMin = 100000
	codeMax = 999999
)

// LinkCodeStore keeps outstanding link codes in memory. Redeem, Expire and
// the expiry timers are serialized by mu, so exactly one of them observes
// a given code.
type LinkCodeStore struct {
	mu       sync.Mutex
	clock    clock.Clock
	ttl      time.Duration
	codes    map[string]*pendingCode
	generate func() (string, error)
}

type pendingCode struct {
	code  models.LinkCode
	timer clock.Timer
}

func NewLinkCodeStore(clk clock.Clock, ttl time.Duration) *LinkCodeStore {
	if ttl <= 0 {
		ttl = DefaultLinkCodeTTL
	}
	return &LinkCodeStore{
		clock:    clk,
		ttl:      ttl,
		codes:    make(map[string]*pendingCode),
		generate: generateCode,
	}
}

func (s *LinkCodeStore) TTL() time.Duration {
	return s.ttl
}

// Issue creates a code for ownerID. Outstanding codes are not checked for
// collisions: an identical code is replaced and its timer cancelled.
func (s *LinkCodeStore) Issue(ownerID string) (models.LinkCode, error) {
	code, err := s.generate()
	if err != nil {
		return models.LinkCode{}, err
	}

	now := s.clock.Now()
	lc := models.LinkCode{
		Code:      code,
		OwnerID:   ownerID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(lc, s.ttl)
	return lc, nil
}

// Redeem removes the code and returns it. A code past its expiry is
// removed as well and reported as ErrCodeExpired.
func (s *LinkCodeStore) Redeem(code string) (models.LinkCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[code]
	if !ok {
		return models.LinkCode{}, ErrCodeNotFound
	}
	delete(s.codes, code)
	entry.timer.Stop()

	if !s.clock.Now().Before(entry.code.ExpiresAt) {
		return models.LinkCode{}, ErrCodeExpired
	}
	return entry.code, nil
}

func (s *LinkCodeStore) Expire(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[code]
	if !ok {
		return false
	}
	delete(s.codes, code)
	entry.timer.Stop()
	return true
}

// Reinstate puts back a redeemed code whose link could not be stored. It
// keeps the original expiry and refuses when that has passed or when the
// code has been issued again in the meantime.
func (s *LinkCodeStore) Reinstate(lc models.LinkCode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := lc.ExpiresAt.Sub(s.clock.Now())
	if remaining <= 0 {
		return false
	}
	if _, taken := s.codes[lc.Code]; taken {
		return false
	}
	s.putLocked(lc, remaining)
	return true
}

func (s *LinkCodeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}

func (s *LinkCodeStore) putLocked(lc models.LinkCode, ttl time.Duration) {
	if old, ok := s.codes[lc.Code]; ok {
		old.timer.Stop()
	}
	entry := &pendingCode{code: lc}
	s.codes[lc.Code] = entry
	entry.timer = s.clock.AfterFunc(ttl, func() { s.expireEntry(entry) })
}

// expireEntry only removes the entry its timer was created for, so a
// stale timer cannot drop a re-issued code.
func (s *LinkCodeStore) expireEntry(entry *pendingCode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.codes[entry.code.Code]; ok && cur == entry {
		delete(s.codes, entry.code.Code)
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}
