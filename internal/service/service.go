package service

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"

	"github.com/samandr77/microservices/portal/internal/clients/places"
	"github.com/samandr77/microservices/portal/internal/entity"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=service.go -destination=../mocks/service.go -package=mocks

type Backend interface {
	Me(ctx context.Context, token string) (entity.User, error)
	Membership(ctx context.Context, token, pharmacyID string) (entity.Membership, error)
	CreateOrder(ctx context.Context, token, pharmacyID string, order json.RawMessage) (json.RawMessage, error)
	FinancialSummary(ctx context.Context, token, pharmacyID string) (json.RawMessage, error)
}

type OrgContextRepository interface {
	OrgContextByUserID(ctx context.Context, userID string) (entity.OrgContext, error)
	SaveOrgContext(ctx context.Context, org entity.OrgContext) error
	DeleteOrgContext(ctx context.Context, userID string) error
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

type Places interface {
	Autocomplete(ctx context.Context, input string) ([]places.Suggestion, error)
	Place(ctx context.Context, placeID string) (places.Place, error)
}

type Realtime interface {
	UpdateSession(session entity.Session)
	Close(token string)
}

type Config struct {
	SessionTTL          time.Duration
	VerifyKey           *rsa.PublicKey
	OrgContextRetention time.Duration
}

// sessionState is the cached state of one bearer token. generation orders
// access fetches so a stale result never overwrites a newer one.
type sessionState struct {
	mu         sync.Mutex
	session    entity.Session
	generation uint64
}

func (st *sessionState) snapshot() entity.Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	return st.session.Clone()
}

type Service struct {
	cfg      Config
	backend  Backend
	orgRepo  OrgContextRepository
	places   Places
	realtime Realtime
	sessions *cache.Cache
}

func New(cfg Config, backend Backend, orgRepo OrgContextRepository, places Places, rt Realtime) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	s := &Service{
		cfg:      cfg,
		backend:  backend,
		orgRepo:  orgRepo,
		places:   places,
		realtime: rt,
		sessions: cache.New(cfg.SessionTTL, time.Minute),
	}

	s.sessions.OnEvicted(func(token string, _ any) {
		s.realtime.Close(token)
	})

	return s
}

// Authenticate resolves the bearer token to a session, loading identity,
// organization context and access on first use.
func (s *Service) Authenticate(ctx context.Context, token string) (entity.Session, error) {
	if token == "" {
		return entity.Session{}, entity.ErrUnauthorized
	}

	expiresAt, err := s.tokenExpiry(token)
	if err != nil {
		return entity.Session{}, fmt.Errorf("%w: %w", entity.ErrUnauthorized, err)
	}

	if st, ok := s.state(token); ok {
		return st.snapshot(), nil
	}

	user, err := s.backend.Me(ctx, token)
	if err != nil {
		return entity.Session{}, fmt.Errorf("fetch identity: %w", err)
	}

	org, membership, err := s.loadOrgContext(ctx, user)
	if err != nil {
		return entity.Session{}, err
	}

	access := entity.DeniedAccess()
	if !org.Empty() {
		access = entity.NewAccess(membership.Role, membership.GovernanceStatus)
	}

	session := entity.Session{
		Token:     token,
		User:      user,
		Org:       org,
		Access:    access,
		ExpiresAt: expiresAt,
	}

	ttl := s.cfg.SessionTTL
	if !expiresAt.IsZero() && time.Until(expiresAt) < ttl {
		ttl = time.Until(expiresAt)
	}

	s.sessions.Set(token, &sessionState{session: session}, ttl)

	slog.InfoContext(ctx, "session started",
		"user_id", user.ID,
		"pharmacy_id", org.PharmacyID,
		"role", access.Role,
		"governance_status", access.Governance,
	)

	return session.Clone(), nil
}

// tokenExpiry verifies the token signature when a key is configured and
// returns its expiry. Opaque tokens are left to the backend.
func (s *Service) tokenExpiry(token string) (time.Time, error) {
	var (
		parsed *jwt.Token
		err    error
	)

	if s.cfg.VerifyKey != nil {
		parsed, err = jwt.Parse(token, func(*jwt.Token) (any, error) {
			return s.cfg.VerifyKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
		if err != nil {
			return time.Time{}, fmt.Errorf("verify token: %w", err)
		}
	} else {
		parsed, _, err = jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
		if err != nil {
			return time.Time{}, nil
		}
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, nil
	}

	if exp.Before(time.Now()) {
		return time.Time{}, jwt.ErrTokenExpired
	}

	return exp.Time, nil
}

// loadOrgContext restores the persisted context, falling back to the first
// membership when there is none or the user left that pharmacy.
func (s *Service) loadOrgContext(ctx context.Context, user entity.User) (entity.OrgContext, entity.Membership, error) {
	org, err := s.orgRepo.OrgContextByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return entity.OrgContext{}, entity.Membership{}, fmt.Errorf("load org context: %w", err)
	}

	if err == nil {
		if m, ok := user.Membership(org.PharmacyID); ok {
			org.PharmacyName = m.PharmacyName

			if _, ok := m.Location(org.LocationID); !ok {
				org.LocationID, org.LocationName = "", ""
			}

			return org, m, nil
		}
	}

	if len(user.Memberships) == 0 {
		return entity.OrgContext{}, entity.Membership{}, nil
	}

	m := user.Memberships[0]
	org = newOrgContext(user.ID, m, "")

	err = s.orgRepo.SaveOrgContext(ctx, org)
	if err != nil {
		return entity.OrgContext{}, entity.Membership{}, fmt.Errorf("save org context: %w", err)
	}

	return org, m, nil
}

func newOrgContext(userID string, m entity.Membership, locationID string) entity.OrgContext {
	org := entity.OrgContext{
		UserID:       userID,
		PharmacyID:   m.PharmacyID,
		PharmacyName: m.PharmacyName,
		UpdatedAt:    time.Now().UTC(),
	}

	if l, ok := m.Location(locationID); ok {
		org.LocationID = l.ID
		org.LocationName = l.Name
	}

	return org
}

// Session returns the cached session for the token.
func (s *Service) Session(_ context.Context, token string) (entity.Session, error) {
	st, ok := s.state(token)
	if !ok {
		return entity.Session{}, entity.ErrUnauthorized
	}

	return st.snapshot(), nil
}

func (s *Service) state(token string) (*sessionState, bool) {
	v, ok := s.sessions.Get(token)
	if !ok {
		return nil, false
	}

	st, ok := v.(*sessionState)

	return st, ok
}

// SwitchOrganization makes pharmacyID, and optionally one of its locations,
// the current context, then re-fetches access for it.
func (s *Service) SwitchOrganization(ctx context.Context, token, pharmacyID, locationID string) (entity.Session, error) {
	st, ok := s.state(token)
	if !ok {
		return entity.Session{}, entity.ErrUnauthorized
	}

	st.mu.Lock()
	user := st.session.User
	st.mu.Unlock()

	m, ok := user.Membership(pharmacyID)
	if !ok {
		return entity.Session{}, fmt.Errorf("%w: %s", entity.ErrNotMember, pharmacyID)
	}

	if locationID != "" {
		if _, ok := m.Location(locationID); !ok {
			return entity.Session{}, fmt.Errorf("%w: location %s", entity.ErrNotFound, locationID)
		}
	}

	org := newOrgContext(user.ID, m, locationID)

	err := s.orgRepo.SaveOrgContext(ctx, org)
	if err != nil {
		return entity.Session{}, fmt.Errorf("save org context: %w", err)
	}

	st.mu.Lock()
	st.generation++
	st.session.Org = org
	st.session.Access = entity.NewAccess(m.Role, m.GovernanceStatus)
	st.mu.Unlock()

	slog.InfoContext(ctx, "organization switched", "pharmacy_id", org.PharmacyID, "location_id", org.LocationID)

	session, err := s.RefreshAccess(ctx, token)
	if err != nil {
		if errors.Is(err, entity.ErrUnauthorized) {
			return entity.Session{}, err
		}

		// the switch stands, access stays denied until a refresh succeeds
		slog.WarnContext(ctx, "refresh access after switch", "error", err)
	}

	return session, nil
}

// RefreshAccess re-fetches role and governance status for the current
// pharmacy. A failed fetch leaves the session denied until one succeeds.
func (s *Service) RefreshAccess(ctx context.Context, token string) (entity.Session, error) {
	st, ok := s.state(token)
	if !ok {
		return entity.Session{}, entity.ErrUnauthorized
	}

	st.mu.Lock()
	st.generation++
	gen := st.generation
	pharmacyID := st.session.Org.PharmacyID
	st.mu.Unlock()

	if pharmacyID == "" {
		return st.snapshot(), nil
	}

	m, err := s.backend.Membership(ctx, token, pharmacyID)
	if errors.Is(err, entity.ErrUnauthorized) {
		s.ResetSession(ctx, token)
		return entity.Session{}, err
	}

	st.mu.Lock()
	if st.generation != gen {
		session := st.session.Clone()
		st.mu.Unlock()

		slog.DebugContext(ctx, "discard stale access fetch", "pharmacy_id", pharmacyID)

		return session, nil
	}

	if err != nil {
		st.session.Access = entity.DeniedAccess()
	} else {
		st.session.Access = entity.NewAccess(m.Role, m.GovernanceStatus)
		st.session.User = withMembership(st.session.User, m)
	}

	session := st.session.Clone()
	st.mu.Unlock()

	s.realtime.UpdateSession(session)

	if err != nil {
		return session, fmt.Errorf("fetch membership: %w", err)
	}

	return session, nil
}

func withMembership(user entity.User, m entity.Membership) entity.User {
	memberships := make([]entity.Membership, len(user.Memberships))
	copy(memberships, user.Memberships)

	for i := range memberships {
		if memberships[i].PharmacyID == m.PharmacyID {
			memberships[i].Role = m.Role
			memberships[i].GovernanceStatus = m.GovernanceStatus
		}
	}

	user.Memberships = memberships

	return user
}

// RefreshAll refreshes access of every cached session so suspensions and
// role changes propagate without a new login.
func (s *Service) RefreshAll(ctx context.Context) error {
	var errs []error

	for token := range s.sessions.Items() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		_, err := s.RefreshAccess(ctx, token)
		if err != nil && !errors.Is(err, entity.ErrUnauthorized) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// RefreshPharmacy refreshes the sessions currently working in pharmacyID,
// narrowed to one user when userID is set.
func (s *Service) RefreshPharmacy(ctx context.Context, pharmacyID, userID string) error {
	var errs []error

	for token, item := range s.sessions.Items() {
		st, ok := item.Object.(*sessionState)
		if !ok {
			continue
		}

		st.mu.Lock()
		match := st.session.Org.PharmacyID == pharmacyID && (userID == "" || st.session.User.ID == userID)
		st.mu.Unlock()

		if !match {
			continue
		}

		_, err := s.RefreshAccess(ctx, token)
		if err != nil && !errors.Is(err, entity.ErrUnauthorized) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// EndSession is an explicit logout.
func (s *Service) EndSession(ctx context.Context, token string) error {
	_, ok := s.state(token)
	if !ok {
		return entity.ErrUnauthorized
	}

	s.ResetSession(ctx, token)

	return nil
}

// ResetSession drops every trace of the session: cached state, the live
// connection and the persisted organization context.
func (s *Service) ResetSession(ctx context.Context, token string) {
	st, ok := s.state(token)
	if !ok {
		s.realtime.Close(token)
		return
	}

	// eviction closes the live connection
	s.sessions.Delete(token)

	st.mu.Lock()
	userID := st.session.User.ID
	st.mu.Unlock()

	err := s.orgRepo.DeleteOrgContext(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "delete org context", "user_id", userID, "error", err)
	}

	slog.InfoContext(ctx, "session reset", "user_id", userID)
}

// PurgeStaleOrgContexts removes persisted contexts older than the retention.
func (s *Service) PurgeStaleOrgContexts(ctx context.Context) error {
	if s.cfg.OrgContextRetention <= 0 {
		return nil
	}

	n, err := s.orgRepo.DeleteStale(ctx, time.Now().Add(-s.cfg.OrgContextRetention))
	if err != nil {
		return fmt.Errorf("delete stale org contexts: %w", err)
	}

	if n > 0 {
		slog.InfoContext(ctx, "stale org contexts purged", "count", n)
	}

	return nil
}

func (s *Service) CreateOrder(ctx context.Context, session entity.Session, order json.RawMessage) (json.RawMessage, error) {
	if !session.Access.CanOperate() {
		return nil, entity.ErrOperateDenied
	}

	resp, err := s.backend.CreateOrder(ctx, session.Token, session.Org.PharmacyID, order)
	if err != nil {
		return nil, s.backendErr(ctx, session.Token, err)
	}

	return resp, nil
}

func (s *Service) FinancialSummary(ctx context.Context, session entity.Session) (json.RawMessage, error) {
	resp, err := s.backend.FinancialSummary(ctx, session.Token, session.Org.PharmacyID)
	if err != nil {
		return nil, s.backendErr(ctx, session.Token, err)
	}

	return resp, nil
}

func (s *Service) Autocomplete(ctx context.Context, input string) ([]places.Suggestion, error) {
	return s.places.Autocomplete(ctx, input)
}

func (s *Service) Place(ctx context.Context, placeID string) (places.Place, error) {
	return s.places.Place(ctx, placeID)
}

// backendErr resets the session when the backend no longer accepts the token.
func (s *Service) backendErr(ctx context.Context, token string, err error) error {
	if errors.Is(err, entity.ErrUnauthorized) {
		s.ResetSession(ctx, token)
	}

	return err
}
