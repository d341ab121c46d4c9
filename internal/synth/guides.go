package synth

import "github.com/winterpeaks/tourdw/internal/dataset"

// GenerateGuides builds n tour guides with faker-backed contact details
// and a short bio.
func GenerateGuides(f *Faker, n int) []dataset.Guide {
	guides := make([]dataset.Guide, 0, n)
	for id := 1; id <= n; id++ {
		guides = append(guides, dataset.Guide{
			GuideID:   id,
			GuideName: f.Name(),
			Email:     f.Email(),
			Phone:     f.Phone(),
			Bio:       Truncate(f.Sentence(12), 160),
		})
	}
	return guides
}
