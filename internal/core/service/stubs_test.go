package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clearport/clearance-system/internal/core/domain"
	"github.com/clearport/clearance-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests. All stubs clone on
// read and write so tests cannot mutate stored state through returned
// pointers.
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type idSeq struct {
	prefix string
	n      int
}

func (s *idSeq) next() string {
	s.n++
	return fmt.Sprintf("%s_%d", s.prefix, s.n)
}

// --- users ---

type stubUserRepo struct {
	users map[string]*domain.User
	ids   idSeq
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User), ids: idSeq{prefix: "user"}}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := *user
	clone.ID = r.ids.next()
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) SetVerified(_ context.Context, id string, verified bool) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsVerified = verified
	return nil
}

// --- cargo owners ---

type stubOwnerRepo struct {
	owners map[string]*domain.CargoOwner
	ids    idSeq
}

func newStubOwnerRepo() *stubOwnerRepo {
	return &stubOwnerRepo{owners: make(map[string]*domain.CargoOwner), ids: idSeq{prefix: "owner"}}
}

func (r *stubOwnerRepo) Create(_ context.Context, o *domain.CargoOwner) (*domain.CargoOwner, error) {
	for _, existing := range r.owners {
		if existing.UserID == o.UserID {
			return nil, domain.ErrProfileExists
		}
	}
	clone := *o
	clone.ID = r.ids.next()
	r.owners[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubOwnerRepo) FindByID(_ context.Context, id string) (*domain.CargoOwner, error) {
	o, ok := r.owners[id]
	if !ok {
		return nil, domain.ErrOwnerNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOwnerRepo) FindByUserID(_ context.Context, userID string) (*domain.CargoOwner, error) {
	for _, o := range r.owners {
		if o.UserID == userID {
			clone := *o
			return &clone, nil
		}
	}
	return nil, domain.ErrOwnerNotFound
}

// --- agents ---

type stubAgentRepo struct {
	agents map[string]*domain.Agent
	ids    idSeq
}

func newStubAgentRepo() *stubAgentRepo {
	return &stubAgentRepo{agents: make(map[string]*domain.Agent), ids: idSeq{prefix: "agent"}}
}

func (r *stubAgentRepo) Create(_ context.Context, a *domain.Agent) (*domain.Agent, error) {
	for _, existing := range r.agents {
		if existing.UserID == a.UserID {
			return nil, domain.ErrProfileExists
		}
	}
	clone := *a
	clone.ID = r.ids.next()
	r.agents[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAgentRepo) FindByID(_ context.Context, id string) (*domain.Agent, error) {
	a, ok := r.agents[id]
	if !ok {
		return nil, domain.ErrAgentNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAgentRepo) FindByUserID(_ context.Context, userID string) (*domain.Agent, error) {
	for _, a := range r.agents {
		if a.UserID == userID {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAgentNotFound
}

// List applies the same filters the real Mongo repo would use.
func (r *stubAgentRepo) List(_ context.Context, f ports.ListAgentsFilter) ([]*domain.Agent, int64, error) {
	var matched []*domain.Agent
	for _, a := range r.agents {
		if f.City != "" && !strings.EqualFold(a.City, f.City) {
			continue
		}
		if f.Country != "" && !strings.EqualFold(a.Country, f.Country) {
			continue
		}
		if f.VerifiedOnly && !a.IsVerified {
			continue
		}
		if f.MinRating > 0 && a.AverageRating < f.MinRating {
			continue
		}
		clone := *a
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, f.Page, f.Limit)
}

func (r *stubAgentRepo) UpdateRatingStats(_ context.Context, id string, average float64, total int64) error {
	a, ok := r.agents[id]
	if !ok {
		return domain.ErrAgentNotFound
	}
	a.AverageRating = average
	a.TotalRatings = total
	return nil
}

func (r *stubAgentRepo) IncrementCompleted(_ context.Context, id string) error {
	a, ok := r.agents[id]
	if !ok {
		return domain.ErrAgentNotFound
	}
	a.CompletedRequests++
	return nil
}

func (r *stubAgentRepo) SetVerified(_ context.Context, id string, verified bool) error {
	a, ok := r.agents[id]
	if !ok {
		return domain.ErrAgentNotFound
	}
	a.IsVerified = verified
	return nil
}

// --- requests ---

type stubRequestRepo struct {
	requests map[string]*domain.Request
	ids      idSeq
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{requests: make(map[string]*domain.Request), ids: idSeq{prefix: "req"}}
}

func (r *stubRequestRepo) Create(_ context.Context, req *domain.Request) (*domain.Request, error) {
	clone := *req
	clone.ID = r.ids.next()
	r.requests[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id string) (*domain.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *stubRequestRepo) Update(_ context.Context, req *domain.Request) error {
	if _, ok := r.requests[req.ID]; !ok {
		return domain.ErrRequestNotFound
	}
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *stubRequestRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.requests[id]; !ok {
		return domain.ErrRequestNotFound
	}
	delete(r.requests, id)
	return nil
}

func (r *stubRequestRepo) List(_ context.Context, f ports.ListRequestsFilter) ([]*domain.Request, int64, error) {
	var matched []*domain.Request
	for _, req := range r.requests {
		if f.Status != "" && string(req.Status) != f.Status {
			continue
		}
		if f.CargoType != "" && !strings.EqualFold(req.CargoType, f.CargoType) {
			continue
		}
		if f.Origin != "" && !strings.EqualFold(req.Origin, f.Origin) {
			continue
		}
		if f.Destination != "" && !strings.EqualFold(req.Destination, f.Destination) {
			continue
		}
		if f.CargoOwnerID != "" && req.CargoOwnerID != f.CargoOwnerID {
			continue
		}
		if f.AgentID != "" && req.AgentID != f.AgentID {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			title := strings.Contains(strings.ToLower(req.Title), needle)
			desc := strings.Contains(strings.ToLower(req.Description), needle)
			cargo := strings.Contains(strings.ToLower(req.CargoType), needle)
			if !title && !desc && !cargo {
				continue
			}
		}
		if f.Scoped {
			owned := f.ScopeOwnerID != "" && req.CargoOwnerID == f.ScopeOwnerID
			assigned := f.ScopeAgentID != "" && req.AgentID == f.ScopeAgentID
			if !owned && !assigned {
				continue
			}
		}
		clone := *req
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, f.Page, f.Limit)
}

// --- ratings ---

type stubRatingRepo struct {
	ratings map[string]*domain.Rating
	ids     idSeq
}

func newStubRatingRepo() *stubRatingRepo {
	return &stubRatingRepo{ratings: make(map[string]*domain.Rating), ids: idSeq{prefix: "rating"}}
}

func (r *stubRatingRepo) Create(_ context.Context, rating *domain.Rating) (*domain.Rating, error) {
	if rating.RequestID != "" {
		for _, existing := range r.ratings {
			if existing.RequestID == rating.RequestID && existing.RaterID == rating.RaterID {
				return nil, domain.ErrDuplicateRating
			}
		}
	}
	clone := *rating
	clone.ID = r.ids.next()
	r.ratings[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubRatingRepo) FindByID(_ context.Context, id string) (*domain.Rating, error) {
	rating, ok := r.ratings[id]
	if !ok {
		return nil, domain.ErrRatingNotFound
	}
	clone := *rating
	return &clone, nil
}

func (r *stubRatingRepo) Update(_ context.Context, rating *domain.Rating) error {
	if _, ok := r.ratings[rating.ID]; !ok {
		return domain.ErrRatingNotFound
	}
	clone := *rating
	r.ratings[rating.ID] = &clone
	return nil
}

func (r *stubRatingRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.ratings[id]; !ok {
		return domain.ErrRatingNotFound
	}
	delete(r.ratings, id)
	return nil
}

func (r *stubRatingRepo) ExistsForRequest(_ context.Context, requestID, raterID string) (bool, error) {
	for _, rating := range r.ratings {
		if rating.RequestID == requestID && rating.RaterID == raterID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRatingRepo) ScoresByAgent(_ context.Context, agentID string) ([]int, error) {
	var scores []int
	for _, rating := range r.ratings {
		if rating.AgentID == agentID {
			scores = append(scores, rating.Score)
		}
	}
	return scores, nil
}

func (r *stubRatingRepo) RecentByAgent(_ context.Context, agentID string, limit int64) ([]*domain.Rating, error) {
	var matched []*domain.Rating
	for _, rating := range r.ratings {
		if rating.AgentID == agentID {
			clone := *rating
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// --- verifications ---

type stubVerificationRepo struct {
	verifications map[string]*domain.Verification
	ids           idSeq
}

func newStubVerificationRepo() *stubVerificationRepo {
	return &stubVerificationRepo{verifications: make(map[string]*domain.Verification), ids: idSeq{prefix: "verif"}}
}

func (r *stubVerificationRepo) Create(_ context.Context, v *domain.Verification) (*domain.Verification, error) {
	clone := *v
	clone.ID = r.ids.next()
	r.verifications[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubVerificationRepo) FindByID(_ context.Context, id string) (*domain.Verification, error) {
	v, ok := r.verifications[id]
	if !ok {
		return nil, domain.ErrVerificationNotFound
	}
	clone := *v
	return &clone, nil
}

func (r *stubVerificationRepo) Update(_ context.Context, v *domain.Verification) error {
	if _, ok := r.verifications[v.ID]; !ok {
		return domain.ErrVerificationNotFound
	}
	clone := *v
	r.verifications[v.ID] = &clone
	return nil
}

func (r *stubVerificationRepo) List(_ context.Context, f ports.ListVerificationsFilter) ([]*domain.Verification, int64, error) {
	var matched []*domain.Verification
	for _, v := range r.verifications {
		if f.Status != "" && string(v.Status) != f.Status {
			continue
		}
		clone := *v
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, f.Page, f.Limit)
}

func (r *stubVerificationRepo) HasPendingForAgent(_ context.Context, agentID string) (bool, error) {
	for _, v := range r.verifications {
		if v.AgentID == agentID && v.Status == domain.VerificationPending {
			return true, nil
		}
	}
	return false, nil
}

// --- reservation guard ---

type stubGuard struct {
	reserved   map[string]bool
	reserveErr error
}

func newStubGuard() *stubGuard {
	return &stubGuard{reserved: make(map[string]bool)}
}

func (g *stubGuard) key(requestID, raterID string) string {
	return requestID + "/" + raterID
}

func (g *stubGuard) Reserve(_ context.Context, requestID, raterID string) (bool, error) {
	if g.reserveErr != nil {
		return false, g.reserveErr
	}
	k := g.key(requestID, raterID)
	if g.reserved[k] {
		return false, nil
	}
	g.reserved[k] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, requestID, raterID string) error {
	delete(g.reserved, g.key(requestID, raterID))
	return nil
}

// paginate slices a matched result set the way the Mongo repos do with
// skip/limit.
func paginate[T any](matched []T, page, limit int) ([]T, int64, error) {
	total := int64(len(matched))
	if limit <= 0 {
		return matched, total, nil
	}
	skip := (page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip >= len(matched) {
		return []T{}, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}
