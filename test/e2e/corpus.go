// Package e2e provides end-to-end tests with a generated CMS corpus and multiple queries.
package e2e

import (
	"fmt"
	"strings"

	"github.com/hyperjump/sitesearch/internal/models"
	"github.com/hyperjump/sitesearch/internal/storage"
)

// E2EDocument is a page or post in the E2E corpus. Image, when set, is an
// uploaded file embedded in the body with ImageAlt as its alt text.
type E2EDocument struct {
	ID       string
	Type     models.EntityType
	Title    string
	Content  string
	Image    string
	ImageAlt string
}

// QueryTestCase defines a query and the record ID(s) that must appear in search results.
type QueryTestCase struct {
	Query          string
	ExpectedDocIDs []string
	Description    string
}

// Corpus holds documents and query test cases for E2E tests.
type Corpus struct {
	Documents    []E2EDocument
	TestCases    []QueryTestCase
	TotalDocs    int
	TotalQueries int
}

type topic struct {
	title   string
	phrase  string
	content string
}

var topics = []topic{
	{"Summer Sale", "summer sale discounts", "Our summer sale discounts apply to sandals, swimwear, and sun hats until August."},
	{"Shipping Policy", "free shipping threshold", "Orders above fifty euros qualify. The free shipping threshold is checked at checkout."},
	{"Returns and Refunds", "thirty day returns", "Unworn items can be sent back. Thirty day returns are refunded to the original card."},
	{"Store Locator", "flagship store Amsterdam", "Visit us in person. Our flagship store Amsterdam is open seven days a week."},
	{"Gift Cards", "digital gift cards", "Send a present instantly. Digital gift cards never expire and work online."},
	{"Running Shoes Guide", "cushioned running shoes", "Pick footwear by gait. Cushioned running shoes protect knees on long distances."},
	{"Trail Running Tips", "muddy trail grip", "Lug depth matters off road. Muddy trail grip improves with aggressive outsoles."},
	{"Winter Layering", "merino base layer", "Stay warm without bulk. A merino base layer wicks sweat and resists odor."},
	{"Rain Jackets Compared", "waterproof breathable membrane", "Not every shell is equal. A waterproof breathable membrane keeps storms out."},
	{"Backpack Buying Guide", "hip belt load transfer", "Fit the pack to your torso. Hip belt load transfer spares your shoulders."},
	{"Sustainable Materials", "recycled polyester fabric", "We source responsibly. Recycled polyester fabric turns bottles into jackets."},
	{"Care Instructions", "cold wash line dry", "Make garments last. Cold wash line dry keeps colors bright."},
	{"Size Chart", "chest waist hip measurements", "Find your fit. Chest waist hip measurements map to every size label."},
	{"Loyalty Program", "loyalty points rewards", "Members earn on every order. Loyalty points rewards unlock early access."},
	{"Student Discount", "student discount verification", "Studying? Save ten percent. Student discount verification takes a minute."},
	{"Press Room", "press kit downloads", "Journalists welcome. Press kit downloads include logos and founder photos."},
	{"Careers", "warehouse team openings", "Join the crew. Warehouse team openings are posted every spring."},
	{"Contact Us", "customer service hours", "We are here to help. Customer service hours run from nine to six."},
	{"Yoga Mat Review", "natural rubber mat", "Grip without slipping. A natural rubber mat cushions joints during practice."},
	{"Cycling Commute", "reflective commuter gear", "Be seen after dark. Reflective commuter gear makes riders visible to traffic."},
	{"Camping Checklist", "lightweight tent stakes", "Pack smart for the weekend. Lightweight tent stakes save grams on long hikes."},
	{"Hydration Basics", "electrolyte tablets", "Water alone is not always enough. Electrolyte tablets replace lost salts."},
	{"Kids Collection", "durable kids rainwear", "Puddles are fun. Durable kids rainwear survives every playground."},
	{"Swim Season", "chlorine resistant swimsuit", "Train all year. A chlorine resistant swimsuit keeps its shape."},
	{"Hiking Boots Fit", "heel lock lacing", "Blisters come from slipping. Heel lock lacing holds the foot in place."},
	{"Climbing Intro", "indoor bouldering basics", "Start on the wall. Indoor bouldering basics cover falling and footwork."},
	{"Ski Tuning", "edge sharpening wax", "Keep skis fast. Edge sharpening wax routines matter before each trip."},
	{"Fitness Trackers", "heart rate zones", "Train with data. Heart rate zones guide easy and hard days."},
	{"Brand Story", "family workshop founded", "We began small. The family workshop founded in 1984 still stitches samples."},
	{"Accessibility Statement", "screen reader support", "Everyone should shop with ease. Screen reader support is tested every release."},
}

// BuildCorpus returns a corpus of n documents alternating pages and posts, with
// every fifth post embedding an image that has a matching media record.
func BuildCorpus() *Corpus {
	docs := buildDocuments(60)
	cases := buildQueryTestCases(docs)
	return &Corpus{
		Documents:    docs,
		TestCases:    cases,
		TotalDocs:    len(docs),
		TotalQueries: len(cases),
	}
}

func buildDocuments(n int) []E2EDocument {
	out := make([]E2EDocument, 0, n)
	for i := 0; i < n; i++ {
		t := topics[i%len(topics)]
		title := t.title
		if i >= len(topics) {
			title = fmt.Sprintf("%s (%d)", t.title, i+1)
		}
		d := E2EDocument{
			ID:      fmt.Sprintf("e2e-doc-%03d", i+1),
			Type:    models.EntityPage,
			Title:   title,
			Content: t.content,
		}
		if i%2 == 1 {
			d.Type = models.EntityPost
			if i%10 == 1 {
				d.Image = fmt.Sprintf("photo-%03d.jpg", i+1)
				d.ImageAlt = fmt.Sprintf("Product shot %s", strings.ToLower(t.title))
			}
		}
		out = append(out, d)
	}
	return out
}

func buildQueryTestCases(docs []E2EDocument) []QueryTestCase {
	var cases []QueryTestCase
	used := make(map[string]bool)
	for _, t := range topics {
		for _, d := range docs {
			if containsPhrase(d, t.phrase) && !used[d.ID] {
				cases = append(cases, QueryTestCase{
					Query:          t.phrase,
					ExpectedDocIDs: []string{d.ID},
					Description:    fmt.Sprintf("query %q should return %s", t.phrase, d.ID),
				})
				used[d.ID] = true
				break
			}
		}
	}
	for _, d := range docs {
		if d.Image == "" {
			continue
		}
		cases = append(cases, QueryTestCase{
			Query:          `"` + d.ImageAlt + `"`,
			ExpectedDocIDs: []string{MediaID(d)},
			Description:    fmt.Sprintf("image alt of %s should find its media", d.ID),
		})
	}
	return cases
}

func containsPhrase(d E2EDocument, phrase string) bool {
	p := strings.ToLower(phrase)
	return strings.Contains(strings.ToLower(d.Title), p) || strings.Contains(strings.ToLower(d.Content), p)
}

// MediaID is the media record ID for a document's embedded image.
func MediaID(d E2EDocument) string {
	return "media-" + d.ID
}

// RecordSet converts the corpus to CMS records.
func (c *Corpus) RecordSet() *models.RecordSet {
	set := &models.RecordSet{}
	for _, d := range c.Documents {
		body := "<p>" + d.Content + "</p>"
		if d.Image != "" {
			body += fmt.Sprintf(`<figure><img src="/uploads/%s" alt="%s"></figure>`, d.Image, d.ImageAlt)
			set.Media = append(set.Media, models.RawRecord{
				"id":   MediaID(d),
				"file": "/uploads/" + d.Image,
			})
		}
		rec := models.RawRecord{
			"id":      d.ID,
			"title":   d.Title,
			"slug":    slugify(d.Title),
			"content": body,
		}
		if d.Type == models.EntityPost {
			set.Posts = append(set.Posts, rec)
		} else {
			set.Pages = append(set.Pages, rec)
		}
	}
	return set
}

// WriteTo writes the corpus as JSON record files into dir.
func (c *Corpus) WriteTo(dir string) error {
	set := c.RecordSet()
	if err := storage.WriteRecords(dir, storage.PagesFile, set.Pages); err != nil {
		return err
	}
	if err := storage.WriteRecords(dir, storage.PostsFile, set.Posts); err != nil {
		return err
	}
	return storage.WriteRecords(dir, storage.MediaFile, set.Media)
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
