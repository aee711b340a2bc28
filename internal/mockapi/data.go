package mockapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/api"
	"golang.org/x/crypto/bcrypt"
)

type userRecord struct {
	user api.User
	hash []byte
}

// db is the mock backend's in-memory state.
type db struct {
	mu         sync.RWMutex
	bcryptCost int

	users   map[string]*userRecord // by uuid
	byEmail map[string]string

	novels    map[int64]*api.Novel
	nextNovel int64

	chapters map[string]*api.Chapter

	reviews    map[int64]*api.Review
	nextReview int64
	likes      map[int64]map[string]bool
}

func newDB(bcryptCost int) *db {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &db{
		bcryptCost: bcryptCost,
		users:      make(map[string]*userRecord),
		byEmail:    make(map[string]string),
		novels:     make(map[int64]*api.Novel),
		chapters:   make(map[string]*api.Chapter),
		reviews:    make(map[int64]*api.Review),
		likes:      make(map[int64]map[string]bool),
	}
}

func (d *db) createUser(email, username, password string, gender int) (api.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.bcryptCost)
	if err != nil {
		return api.User{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byEmail[email]; exists {
		return api.User{}, errConflict
	}
	u := api.User{
		UUID:      uuid.NewString(),
		Email:     email,
		Username:  username,
		Gender:    gender,
		Level:     1,
		CreatedAt: time.Now().UTC(),
	}
	d.users[u.UUID] = &userRecord{user: u, hash: hash}
	d.byEmail[email] = u.UUID
	return u, nil
}

func (d *db) authenticate(email, password string) (api.User, bool) {
	d.mu.RLock()
	id, ok := d.byEmail[strings.ToLower(strings.TrimSpace(email))]
	var rec *userRecord
	if ok {
		rec = d.users[id]
	}
	d.mu.RUnlock()
	if rec == nil || bcrypt.CompareHashAndPassword(rec.hash, []byte(password)) != nil {
		return api.User{}, false
	}
	return rec.user, true
}

func (d *db) user(id string) (api.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.users[id]
	if !ok {
		return api.User{}, false
	}
	return rec.user, true
}

func (d *db) updateUser(id string, fn func(*api.User)) (api.User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.users[id]
	if !ok {
		return api.User{}, false
	}
	fn(&rec.user)
	return rec.user, true
}

func (d *db) createNovel(author api.User, in api.NovelInput) api.Novel {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextNovel++
	now := time.Now().UTC()
	n := &api.Novel{
		ID:          d.nextNovel,
		UUID:        uuid.NewString(),
		Title:       in.Title,
		Synopsis:    in.Synopsis,
		AuthorID:    author.UUID,
		AuthorName:  author.Username,
		CategoryID:  in.CategoryID,
		Status:      "PUBLISHED",
		CoverImgURL: in.CoverImgURL,
		IsCompleted: in.IsCompleted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	d.novels[n.ID] = n
	if rec, ok := d.users[author.UUID]; ok {
		rec.user.IsAuthor = true
	}
	return *n
}

func (d *db) novel(id int64) (api.Novel, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n, ok := d.novels[id]
	if !ok {
		return api.Novel{}, false
	}
	return *n, true
}

func (d *db) viewNovel(id int64) (api.Novel, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.novels[id]
	if !ok {
		return api.Novel{}, false
	}
	n.ViewCount++
	return *n, true
}

// mutateNovel applies fn when owner wrote the novel.
func (d *db) mutateNovel(id int64, owner string, fn func(*api.Novel)) (api.Novel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.novels[id]
	if !ok {
		return api.Novel{}, errNotFound
	}
	if n.AuthorID != owner {
		return api.Novel{}, errForbidden
	}
	fn(n)
	n.UpdatedAt = time.Now().UTC()
	return *n, nil
}

func (d *db) deleteNovel(id int64, owner string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.novels[id]
	if !ok {
		return errNotFound
	}
	if n.AuthorID != owner {
		return errForbidden
	}
	delete(d.novels, id)
	for k, c := range d.chapters {
		if c.NovelID == id {
			delete(d.chapters, k)
		}
	}
	for k, r := range d.reviews {
		if r.NovelID == id {
			delete(d.reviews, k)
			delete(d.likes, k)
		}
	}
	return nil
}

// listNovels returns novels matching keep, newest first unless sorted otherwise.
func (d *db) listNovels(keep func(*api.Novel) bool, sortBy string) []api.Novel {
	d.mu.RLock()
	out := make([]api.Novel, 0, len(d.novels))
	for _, n := range d.novels {
		if keep == nil || keep(n) {
			out = append(out, *n)
		}
	}
	d.mu.RUnlock()

	less := func(i, j int) bool { return out[i].ID > out[j].ID }
	switch sortBy {
	case "views", "viewCnt":
		less = func(i, j int) bool { return out[i].ViewCount > out[j].ViewCount }
	case "rating", "avgRating":
		less = func(i, j int) bool { return out[i].AvgRating > out[j].AvgRating }
	case "title":
		less = func(i, j int) bool { return out[i].Title < out[j].Title }
	}
	sort.SliceStable(out, less)
	return out
}

func (d *db) createChapter(owner string, in api.ChapterInput) (api.Chapter, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.novels[in.NovelID]
	if !ok {
		return api.Chapter{}, errNotFound
	}
	if n.AuthorID != owner {
		return api.Chapter{}, errForbidden
	}
	for _, c := range d.chapters {
		if c.NovelID == in.NovelID && c.ChapterNumber == in.ChapterNumber {
			return api.Chapter{}, errConflict
		}
	}
	c := &api.Chapter{
		UUID:          uuid.NewString(),
		NovelID:       in.NovelID,
		ChapterNumber: in.ChapterNumber,
		Title:         in.Title,
		Content:       in.Content,
		WordCount:     len(strings.Fields(in.Content)),
		IsPremium:     in.IsPremium,
		YuanCost:      in.YuanCost,
		PublishedAt:   time.Now().UTC(),
	}
	d.chapters[c.UUID] = c
	n.ChapterCount++
	n.WordCount += int64(c.WordCount)
	n.UpdatedAt = c.PublishedAt
	return *c, nil
}

func (d *db) chapter(id string) (api.Chapter, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.chapters[id]
	if !ok {
		return api.Chapter{}, false
	}
	c.ViewCount++
	return *c, true
}

func (d *db) mutateChapter(id, owner string, fn func(*api.Chapter)) (api.Chapter, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.chapters[id]
	if !ok {
		return api.Chapter{}, errNotFound
	}
	n := d.novels[c.NovelID]
	if n == nil || n.AuthorID != owner {
		return api.Chapter{}, errForbidden
	}
	before := c.WordCount
	fn(c)
	c.WordCount = len(strings.Fields(c.Content))
	n.WordCount += int64(c.WordCount - before)
	return *c, nil
}

func (d *db) deleteChapter(id, owner string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.chapters[id]
	if !ok {
		return errNotFound
	}
	n := d.novels[c.NovelID]
	if n == nil || n.AuthorID != owner {
		return errForbidden
	}
	delete(d.chapters, id)
	n.ChapterCount--
	n.WordCount -= int64(c.WordCount)
	return nil
}

// listChapters returns a novel's chapters in reading order, without content.
func (d *db) listChapters(novelID int64) ([]api.Chapter, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if _, ok := d.novels[novelID]; !ok {
		return nil, false
	}
	out := []api.Chapter{}
	for _, c := range d.chapters {
		if c.NovelID == novelID {
			cp := *c
			cp.Content = ""
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChapterNumber < out[j].ChapterNumber })
	return out, true
}

func (d *db) createReview(author api.User, in api.ReviewInput) (api.Review, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.novels[in.NovelID]
	if !ok {
		return api.Review{}, errNotFound
	}
	for _, r := range d.reviews {
		if r.NovelID == in.NovelID && r.UserID == author.UUID {
			return api.Review{}, errConflict
		}
	}
	d.nextReview++
	r := &api.Review{
		ID:        d.nextReview,
		UUID:      uuid.NewString(),
		NovelID:   in.NovelID,
		UserID:    author.UUID,
		Username:  author.Username,
		Rating:    in.Rating,
		Title:     in.Title,
		Content:   in.Content,
		Spoiler:   in.Spoiler,
		CreatedAt: time.Now().UTC(),
	}
	d.reviews[r.ID] = r
	d.rateLocked(n)
	return *r, nil
}

func (d *db) rateLocked(n *api.Novel) {
	sum, count := 0, 0
	for _, r := range d.reviews {
		if r.NovelID == n.ID {
			sum += r.Rating
			count++
		}
	}
	n.ReviewCount = count
	n.AvgRating = 0
	if count > 0 {
		n.AvgRating = float64(sum) / float64(count)
	}
}

func (d *db) deleteReview(id int64, owner string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.reviews[id]
	if !ok {
		return errNotFound
	}
	if r.UserID != owner {
		return errForbidden
	}
	delete(d.reviews, id)
	delete(d.likes, id)
	if n, ok := d.novels[r.NovelID]; ok {
		d.rateLocked(n)
	}
	return nil
}

// likeReview is idempotent per user.
func (d *db) likeReview(id int64, user string) (api.Review, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.reviews[id]
	if !ok {
		return api.Review{}, errNotFound
	}
	if d.likes[id] == nil {
		d.likes[id] = make(map[string]bool)
	}
	if !d.likes[id][user] {
		d.likes[id][user] = true
		r.LikeCount++
	}
	return *r, nil
}

func (d *db) listReviews(novelID int64) ([]api.Review, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if _, ok := d.novels[novelID]; !ok {
		return nil, false
	}
	out := []api.Review{}
	for _, r := range d.reviews {
		if r.NovelID == novelID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, true
}
