package mockapi

import (
	"fmt"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/api"
)

// Demo account created by SeedDemo.
const (
	DemoEmail    = "author@yushan.dev"
	DemoPassword = "yushan-demo"
)

var demoNovels = []struct {
	title, synopsis string
	category        int
	chapters        []string
}{
	{"Dragon of the Eastern Sea", "A fisherman's son inherits a dragon pearl.", 1, []string{"The Pearl", "The Tide Turns", "Storm Court"}},
	{"Dream of the Jade Pavilion", "Court intrigue in a fading dynasty.", 2, []string{"Spring Banquet", "The Letter"}},
	{"Dao of the Wandering Sword", "A swordsman walks the world looking for his master.", 1, []string{"Departure"}},
}

// SeedDemo creates the demo author with a few novels, chapters and a review.
func (s *Server) SeedDemo() error {
	author, err := s.data.createUser(DemoEmail, "demo_author", DemoPassword, 0)
	if err != nil {
		return fmt.Errorf("seed author: %w", err)
	}
	reader, err := s.data.createUser("reader@yushan.dev", "demo_reader", DemoPassword, 0)
	if err != nil {
		return fmt.Errorf("seed reader: %w", err)
	}
	for _, dn := range demoNovels {
		n := s.data.createNovel(author, api.NovelInput{Title: dn.title, Synopsis: dn.synopsis, CategoryID: dn.category})
		for i, title := range dn.chapters {
			_, err := s.data.createChapter(author.UUID, api.ChapterInput{
				NovelID:       n.ID,
				ChapterNumber: i + 1,
				Title:         title,
				Content:       fmt.Sprintf("Chapter %d of %s.", i+1, dn.title),
				IsPremium:     i >= 2,
			})
			if err != nil {
				return fmt.Errorf("seed chapter: %w", err)
			}
		}
		if _, err := s.data.createReview(reader, api.ReviewInput{NovelID: n.ID, Rating: 4, Title: "Worth it", Content: "Could not stop reading."}); err != nil {
			return fmt.Errorf("seed review: %w", err)
		}
	}
	return nil
}
