package usecase

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"media-catalog/internal/data/entity"
	"media-catalog/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repositories used by the service tests.

type fakes struct {
	profiles    *fakeProfileRepo
	sessions    *fakeSessionRepo
	books       *fakeBookRepo
	movies      *fakeMovieRepo
	reviews     *fakeReviewRepo
	communities *fakeCommunityRepo
	posts       *fakePostRepo
	comments    *fakeCommentRepo
}

func newFakeRepository() (*repository.Repository, *fakes) {
	f := &fakes{
		profiles:    &fakeProfileRepo{byID: map[uuid.UUID]*entity.Profile{}},
		sessions:    &fakeSessionRepo{byToken: map[string]*entity.Session{}},
		books:       &fakeBookRepo{byID: map[uuid.UUID]*entity.Book{}},
		movies:      &fakeMovieRepo{byID: map[uuid.UUID]*entity.Movie{}},
		reviews:     &fakeReviewRepo{byID: map[uuid.UUID]*entity.Review{}},
		communities: &fakeCommunityRepo{byID: map[uuid.UUID]*entity.Community{}, members: map[[2]uuid.UUID]entity.MemberRole{}},
	}
	f.posts = &fakePostRepo{byID: map[uuid.UUID]*entity.CommunityPost{}, votes: map[[2]uuid.UUID]entity.VoteType{}, communities: f.communities, profiles: f.profiles}
	f.comments = &fakeCommentRepo{posts: f.posts, profiles: f.profiles}
	f.reviews.profiles = f.profiles

	return &repository.Repository{
		Profile:   f.profiles,
		Session:   f.sessions,
		Book:      f.books,
		Movie:     f.movies,
		Review:    f.reviews,
		Community: f.communities,
		Post:      f.posts,
		Comment:   f.comments,
	}, f
}

var testLog = zap.NewNop()

// ==================== PROFILE ====================

type fakeProfileRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*entity.Profile
}

func (r *fakeProfileRepo) Create(_ context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == p.Email || existing.Username == p.Username {
			return repository.ErrDuplicate
		}
	}
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProfileRepo) find(match func(*entity.Profile) bool) *entity.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if match(p) {
			cp := *p
			return &cp
		}
	}
	return nil
}

func (r *fakeProfileRepo) FindByEmail(_ context.Context, email string) (*entity.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.find(func(p *entity.Profile) bool { return p.Email == email }), nil
}

func (r *fakeProfileRepo) FindByUsername(_ context.Context, username string) (*entity.Profile, error) {
	return r.find(func(p *entity.Profile) bool { return p.Username == username }), nil
}

func (r *fakeProfileRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*entity.Profile, 0, len(r.byID))
	for _, p := range r.byID {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []*entity.Profile{}, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (r *fakeProfileRepo) CountAll(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

func (r *fakeProfileRepo) Update(_ context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return repository.ErrNoRows
	}
	for id, existing := range r.byID {
		if id != p.ID && existing.Username == p.Username {
			return repository.ErrDuplicate
		}
	}
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) SetAdmin(_ context.Context, id uuid.UUID, isAdmin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return repository.ErrNoRows
	}
	p.IsAdmin = isAdmin
	return nil
}

func (r *fakeProfileRepo) add(username string) *entity.Profile {
	p := &entity.Profile{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Email:    username + "@example.com",
		Username: username,
	}
	r.mu.Lock()
	r.byID[p.ID] = p
	r.mu.Unlock()
	return p
}

// ==================== SESSION ====================

type fakeSessionRepo struct {
	mu      sync.Mutex
	byToken map[string]*entity.Session
}

func (r *fakeSessionRepo) Create(_ context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.byToken[s.Token.String()] = &cp
	return nil
}

func (r *fakeSessionRepo) find(token string) *entity.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byToken[token]
	if !ok || s.RevokedAt != nil || time.Now().After(s.ExpiresAt) {
		return nil
	}
	cp := *s
	return &cp
}

// FindActive has no profile join here, so the owner fields stay empty.
func (r *fakeSessionRepo) FindActive(_ context.Context, token string) (*entity.ActiveSession, error) {
	s := r.find(token)
	if s == nil {
		return nil, nil
	}
	return &entity.ActiveSession{Session: *s}, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, userID uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byToken[token]
	if !ok || s.UserID != userID || s.RevokedAt != nil {
		return repository.ErrNoRows
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (r *fakeSessionRepo) RevokeAll(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var n int64
	for _, s := range r.byToken {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) Purge(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for token, s := range r.byToken {
		if s.ExpiresAt.Before(before) || (s.RevokedAt != nil && s.RevokedAt.Before(before)) {
			delete(r.byToken, token)
			n++
		}
	}
	return n, nil
}

// ==================== MEDIA ====================

type fakeBookRepo struct {
	mu           sync.Mutex
	byID         map[uuid.UUID]*entity.Book
	findAllCalls int
}

func (r *fakeBookRepo) Create(_ context.Context, b *entity.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.byID[b.ID] = &cp
	return nil
}

func (r *fakeBookRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.byID[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeBookRepo) list(match func(*entity.Book) bool) []*entity.Book {
	out := []*entity.Book{}
	for _, b := range r.byID {
		if match(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeBookRepo) FindAll(context.Context) ([]*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findAllCalls++
	return r.list(func(*entity.Book) bool { return true }), nil
}

func (r *fakeBookRepo) FindByGenre(_ context.Context, genre string) ([]*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(b *entity.Book) bool { return slices.Contains(b.Genres, genre) }), nil
}

func (r *fakeBookRepo) Search(_ context.Context, query string) ([]*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(b *entity.Book) bool {
		return containsFold(b.Title, query) || containsFold(b.Author, query) || containsFoldPtr(b.Description, query)
	}), nil
}

func (r *fakeBookRepo) Update(_ context.Context, b *entity.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[b.ID]; !ok {
		return repository.ErrNoRows
	}
	cp := *b
	r.byID[b.ID] = &cp
	return nil
}

func (r *fakeBookRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeBookRepo) UpdateRating(_ context.Context, id uuid.UUID, rating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return repository.ErrNoRows
	}
	b.Rating = rating
	return nil
}

func (r *fakeBookRepo) add(title, author string, genres ...string) *entity.Book {
	b := &entity.Book{
		Base:   entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Title:  title,
		Author: author,
		Genres: genres,
	}
	r.Create(context.Background(), b)
	return b
}

type fakeMovieRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*entity.Movie
}

func (r *fakeMovieRepo) Create(_ context.Context, m *entity.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.byID[m.ID] = &cp
	return nil
}

func (r *fakeMovieRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.byID[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeMovieRepo) list(match func(*entity.Movie) bool) []*entity.Movie {
	out := []*entity.Movie{}
	for _, m := range r.byID {
		if match(m) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeMovieRepo) FindAll(context.Context) ([]*entity.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(*entity.Movie) bool { return true }), nil
}

func (r *fakeMovieRepo) FindByGenre(_ context.Context, genre string) ([]*entity.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(m *entity.Movie) bool { return slices.Contains(m.Genres, genre) }), nil
}

func (r *fakeMovieRepo) Search(_ context.Context, query string) ([]*entity.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(m *entity.Movie) bool {
		return containsFold(m.Title, query) || containsFold(m.Director, query) || containsFoldPtr(m.Description, query)
	}), nil
}

func (r *fakeMovieRepo) Update(_ context.Context, m *entity.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[m.ID]; !ok {
		return repository.ErrNoRows
	}
	cp := *m
	r.byID[m.ID] = &cp
	return nil
}

func (r *fakeMovieRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeMovieRepo) UpdateRating(_ context.Context, id uuid.UUID, rating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return repository.ErrNoRows
	}
	m.Rating = rating
	return nil
}

func (r *fakeMovieRepo) add(title, director string, genres ...string) *entity.Movie {
	m := &entity.Movie{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Title:    title,
		Director: director,
		Genres:   genres,
	}
	r.Create(context.Background(), m)
	return m
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func containsFoldPtr(s *string, sub string) bool {
	return s != nil && containsFold(*s, sub)
}

// ==================== REVIEW ====================

type fakeReviewRepo struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*entity.Review
	profiles *fakeProfileRepo
}

func (r *fakeReviewRepo) Create(_ context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.UserID == review.UserID && existing.MediaID == review.MediaID && existing.MediaType == review.MediaType {
			return repository.ErrDuplicate
		}
	}
	cp := *review
	r.byID[review.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if review, ok := r.byID[id]; ok {
		cp := *review
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeReviewRepo) withAuthor(match func(*entity.Review) bool, limit, offset int) []*entity.ReviewWithAuthor {
	matched := []*entity.Review{}
	for _, review := range r.byID {
		if match(review) {
			matched = append(matched, review)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	if offset >= len(matched) {
		return []*entity.ReviewWithAuthor{}
	}
	matched = matched[offset:min(offset+limit, len(matched))]

	out := make([]*entity.ReviewWithAuthor, 0, len(matched))
	for _, review := range matched {
		row := &entity.ReviewWithAuthor{Review: *review}
		if p, _ := r.profiles.FindByID(context.Background(), review.UserID); p != nil {
			row.Username, row.AvatarURL = &p.Username, p.AvatarURL
		}
		out = append(out, row)
	}
	return out
}

func (r *fakeReviewRepo) FindByMedia(_ context.Context, mediaType entity.MediaType, mediaID uuid.UUID, limit, offset int) ([]*entity.ReviewWithAuthor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.withAuthor(func(rv *entity.Review) bool {
		return rv.MediaType == mediaType && rv.MediaID == mediaID
	}, limit, offset), nil
}

func (r *fakeReviewRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.ReviewWithAuthor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.withAuthor(func(rv *entity.Review) bool { return rv.UserID == userID }, limit, offset), nil
}

func (r *fakeReviewRepo) FindByUserAndMedia(_ context.Context, userID uuid.UUID, mediaType entity.MediaType, mediaID uuid.UUID) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, review := range r.byID {
		if review.UserID == userID && review.MediaType == mediaType && review.MediaID == mediaID {
			cp := *review
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeReviewRepo) count(match func(*entity.Review) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, review := range r.byID {
		if match(review) {
			n++
		}
	}
	return n
}

func (r *fakeReviewRepo) CountByMedia(_ context.Context, mediaType entity.MediaType, mediaID uuid.UUID) (int64, error) {
	return r.count(func(rv *entity.Review) bool { return rv.MediaType == mediaType && rv.MediaID == mediaID }), nil
}

func (r *fakeReviewRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	return r.count(func(rv *entity.Review) bool { return rv.UserID == userID }), nil
}

func (r *fakeReviewRepo) Update(_ context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[review.ID]; !ok {
		return repository.ErrNoRows
	}
	cp := *review
	r.byID[review.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeReviewRepo) DeleteByMedia(_ context.Context, mediaType entity.MediaType, mediaID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, review := range r.byID {
		if review.MediaType == mediaType && review.MediaID == mediaID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *fakeReviewRepo) GetMediaReviewStats(_ context.Context, mediaType entity.MediaType, mediaID uuid.UUID) (*entity.ReviewStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stats entity.ReviewStats
	sum := 0
	for _, review := range r.byID {
		if review.MediaType == mediaType && review.MediaID == mediaID {
			stats.ReviewCount++
			sum += review.Rating
		}
	}
	if stats.ReviewCount > 0 {
		stats.AverageRating = float64(sum) / float64(stats.ReviewCount)
	}
	return &stats, nil
}

// ==================== COMMUNITY ====================

type fakeCommunityRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*entity.Community
	members map[[2]uuid.UUID]entity.MemberRole
}

func (r *fakeCommunityRepo) view(c *entity.Community, viewerID *uuid.UUID) *entity.CommunityView {
	v := &entity.CommunityView{Community: *c}
	if viewerID != nil {
		_, ok := r.members[[2]uuid.UUID{c.ID, *viewerID}]
		v.UserIsMember = &ok
	}
	return v
}

func (r *fakeCommunityRepo) FindAll(_ context.Context, viewerID *uuid.UUID) ([]*entity.CommunityView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.CommunityView{}
	for _, c := range r.byID {
		out = append(out, r.view(c, viewerID))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberCount > out[j].MemberCount })
	return out, nil
}

func (r *fakeCommunityRepo) FindByID(_ context.Context, id uuid.UUID, viewerID *uuid.UUID) (*entity.CommunityView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		return r.view(c, viewerID), nil
	}
	return nil, nil
}

func (r *fakeCommunityRepo) FindByName(_ context.Context, name string, viewerID *uuid.UUID) (*entity.CommunityView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Name == name {
			return r.view(c, viewerID), nil
		}
	}
	return nil, nil
}

func (r *fakeCommunityRepo) CreateWithOwner(_ context.Context, c *entity.Community) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Name == c.Name {
			return repository.ErrDuplicate
		}
	}
	c.MemberCount = 1
	cp := *c
	r.byID[c.ID] = &cp
	r.members[[2]uuid.UUID{c.ID, c.CreatedBy}] = entity.MemberRoleAdmin
	return nil
}

func (r *fakeCommunityRepo) AddMember(_ context.Context, m *entity.CommunityMember) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[m.CommunityID]
	if !ok {
		return 0, repository.ErrNoRows
	}
	key := [2]uuid.UUID{m.CommunityID, m.UserID}
	if _, ok := r.members[key]; ok {
		return 0, repository.ErrDuplicate
	}
	r.members[key] = m.Role
	c.MemberCount++
	return c.MemberCount, nil
}

func (r *fakeCommunityRepo) RemoveMember(_ context.Context, communityID, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]uuid.UUID{communityID, userID}
	if _, ok := r.members[key]; !ok {
		return 0, repository.ErrNoRows
	}
	delete(r.members, key)
	c := r.byID[communityID]
	c.MemberCount = max(c.MemberCount-1, 0)
	return c.MemberCount, nil
}

func (r *fakeCommunityRepo) IsMember(_ context.Context, communityID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[[2]uuid.UUID{communityID, userID}]
	return ok, nil
}

// ==================== POST ====================

type fakePostRepo struct {
	mu          sync.Mutex
	byID        map[uuid.UUID]*entity.CommunityPost
	votes       map[[2]uuid.UUID]entity.VoteType
	communities *fakeCommunityRepo
	profiles    *fakeProfileRepo
}

func (r *fakePostRepo) Create(_ context.Context, p *entity.CommunityPost) error {
	if c, _ := r.communities.FindByID(context.Background(), p.CommunityID, nil); c == nil {
		return repository.ErrNoRows
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *fakePostRepo) view(p *entity.CommunityPost, viewerID *uuid.UUID) *entity.PostView {
	v := &entity.PostView{CommunityPost: *p}
	if profile, _ := r.profiles.FindByID(context.Background(), p.UserID); profile != nil {
		v.Username, v.AvatarURL = &profile.Username, profile.AvatarURL
	}
	if c, _ := r.communities.FindByID(context.Background(), p.CommunityID, nil); c != nil {
		v.CommunityName, v.CommunityDisplayName = &c.Name, &c.DisplayName
	}
	if viewerID != nil {
		if vt, ok := r.votes[[2]uuid.UUID{p.ID, *viewerID}]; ok {
			v.UserVote = &vt
		}
	}
	return v
}

func (r *fakePostRepo) FindByID(_ context.Context, id uuid.UUID, viewerID *uuid.UUID) (*entity.PostView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		return r.view(p, viewerID), nil
	}
	return nil, nil
}

func (r *fakePostRepo) FindAll(_ context.Context, communityID, viewerID *uuid.UUID, limit int) ([]*entity.PostView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.PostView{}
	for _, p := range r.byID {
		if communityID == nil || p.CommunityID == *communityID {
			out = append(out, r.view(p, viewerID))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePostRepo) ApplyVote(_ context.Context, postID, userID uuid.UUID, voteType entity.VoteType) (*entity.VoteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[postID]
	if !ok {
		return nil, repository.ErrNoRows
	}

	key := [2]uuid.UUID{postID, userID}
	var current *entity.VoteType
	if vt, ok := r.votes[key]; ok {
		current = &vt
	}

	t := entity.ResolveVote(current, voteType)
	if t.Next == nil {
		delete(r.votes, key)
	} else {
		r.votes[key] = *t.Next
	}
	p.Upvotes += t.UpvoteDelta
	p.Downvotes += t.DownvoteDelta

	return &entity.VoteResult{
		PostID:    postID,
		Upvotes:   p.Upvotes,
		Downvotes: p.Downvotes,
		UserVote:  t.Next,
		Action:    t.Action,
	}, nil
}

func (r *fakePostRepo) voteRows(postID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for key := range r.votes {
		if key[0] == postID {
			n++
		}
	}
	return n
}

// ==================== COMMENT ====================

type fakeCommentRepo struct {
	mu       sync.Mutex
	rows     []*entity.PostComment
	posts    *fakePostRepo
	profiles *fakeProfileRepo
}

func (r *fakeCommentRepo) FindByPostID(_ context.Context, postID uuid.UUID) ([]*entity.CommentView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.CommentView{}
	for _, c := range r.rows {
		if c.PostID == postID {
			v := &entity.CommentView{PostComment: *c}
			if p, _ := r.profiles.FindByID(context.Background(), c.UserID); p != nil {
				v.Username = &p.Username
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) Create(_ context.Context, c *entity.PostComment) error {
	r.posts.mu.Lock()
	post, ok := r.posts.byID[c.PostID]
	if ok {
		post.CommentCount++
	}
	r.posts.mu.Unlock()
	if !ok {
		return repository.ErrNoRows
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.rows = append(r.rows, &cp)
	return nil
}
