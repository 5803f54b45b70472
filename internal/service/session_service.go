package service

import (
	"context"
	"errors"
	"farsihub_backend/internal/model"
	"farsihub_backend/internal/repository"
	"farsihub_backend/internal/util"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	sessionRevKeyFmt   = "session:rev:%s"
	jwtBlacklistKeyFmt = "jwt:blacklist:%s"
	redisOpTimeout     = 3 * time.Second
)

// SessionSnapshot is the single source of truth a client routes on. The
// revision is bumped on every mutation that can change the gate outcome,
// so a client can tell a fresh snapshot from a stale one.
type SessionSnapshot struct {
	User     *model.User       `json:"user"`
	Outcome  model.GateOutcome `json:"outcome"`
	Revision int64             `json:"revision"`
}

// SessionService resolves session snapshots and manages token revocation.
// Redis backs the revision counters and the jti blacklist; without Redis
// both fall back to process-local maps, which is enough for a single
// instance.
type SessionService struct {
	userRepo *repository.UserRepository
	redis    *redis.Client
	hub      *SessionHub

	mu            sync.RWMutex
	localRevs     map[string]int64
	localRevoked  map[string]time.Time
	localRevokeMu sync.Mutex
}

func NewSessionService(userRepo *repository.UserRepository, rdb *redis.Client, hub *SessionHub) *SessionService {
	return &SessionService{
		userRepo:     userRepo,
		redis:        rdb,
		hub:          hub,
		localRevs:    make(map[string]int64),
		localRevoked: make(map[string]time.Time),
	}
}

// Resolve builds the snapshot for a user. The revision is read before and
// after the user fetch; a mismatch means a mutation raced the read, so the
// fetch is retried once against the newer revision. A snapshot therefore
// never pairs a stale user with a fresh revision.
func (s *SessionService) Resolve(ctx context.Context, userID string) (*SessionSnapshot, error) {
	for attempt := 0; attempt < 2; attempt++ {
		before := s.Revision(ctx, userID)

		user, err := s.userRepo.FindByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrUserNotFound
			}
			return nil, err
		}

		after := s.Revision(ctx, userID)
		if before == after {
			return &SessionSnapshot{
				User:     user,
				Outcome:  model.EvaluateGate(user),
				Revision: after,
			}, nil
		}
	}

	// Two races in a row; serve the latest read anyway.
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return &SessionSnapshot{
		User:     user,
		Outcome:  model.EvaluateGate(user),
		Revision: s.Revision(ctx, userID),
	}, nil
}

// Revision returns the current session revision for a user, 0 if none was
// ever bumped.
func (s *SessionService) Revision(ctx context.Context, userID string) int64 {
	if s.redis == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.localRevs[userID]
	}

	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	val, err := s.redis.Get(ctx, fmt.Sprintf(sessionRevKeyFmt, userID)).Result()
	if err != nil {
		return 0
	}
	rev, _ := strconv.ParseInt(val, 10, 64)
	return rev
}

// Invalidate bumps the user's session revision and pushes a change event
// to their open connections. Call it after any mutation that can alter the
// gate outcome or the profile.
func (s *SessionService) Invalidate(ctx context.Context, userID, reason string) {
	if s.redis == nil {
		s.mu.Lock()
		s.localRevs[userID]++
		s.mu.Unlock()
	} else {
		rctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
		s.redis.Incr(rctx, fmt.Sprintf(sessionRevKeyFmt, userID))
		cancel()
	}

	if s.hub != nil {
		s.hub.NotifyUser(userID, reason)
	}
}

// Logout revokes the presented token by its jti. The blacklist entry lives
// exactly as long as the token would have.
func (s *SessionService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}

	ttl := time.Hour
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
		if ttl <= 0 {
			return nil
		}
	}

	if s.redis == nil {
		s.localRevokeMu.Lock()
		s.localRevoked[claims.ID] = time.Now().Add(ttl)
		s.localRevokeMu.Unlock()
	} else {
		rctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
		defer cancel()
		if err := s.redis.Set(rctx, fmt.Sprintf(jwtBlacklistKeyFmt, claims.ID), "1", ttl).Err(); err != nil {
			return err
		}
	}

	if s.hub != nil {
		s.hub.NotifyUser(claims.UserID, ReasonLoggedOut)
	}
	return nil
}

// IsRevoked reports whether a token id has been blacklisted by a logout.
func (s *SessionService) IsRevoked(ctx context.Context, jti string) bool {
	if jti == "" {
		return false
	}

	if s.redis == nil {
		s.localRevokeMu.Lock()
		defer s.localRevokeMu.Unlock()
		until, ok := s.localRevoked[jti]
		if !ok {
			return false
		}
		if time.Now().After(until) {
			delete(s.localRevoked, jti)
			return false
		}
		return true
	}

	rctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	n, err := s.redis.Exists(rctx, fmt.Sprintf(jwtBlacklistKeyFmt, jti)).Result()
	return err == nil && n > 0
}

// DeleteAccount removes the user's own account. Submission rows stay; they
// are an append-only record keyed by the user's id and display name.
func (s *SessionService) DeleteAccount(ctx context.Context, claims *util.Claims) error {
	if err := s.userRepo.Delete(claims.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	s.Invalidate(ctx, claims.UserID, ReasonAccountDeleted)
	return s.Logout(ctx, claims)
}
