package billparser

import (
	"context"
	"log"
	"net/url"
	"regexp"
	"strings"
)

// DefaultMaxEmbeddedImages caps how many linked images one document may pull in.
const DefaultMaxEmbeddedImages = 4

var imageLinkRe = regexp.MustCompile(`(?i)https?://[^\s"'<>()\[\]]+\.(?:jpg|jpeg|png|webp|tiff|bmp|jfif)(?:\?[^\s"'<>()\[\]]*)?`)

// FindImageLinks returns the distinct image URLs mentioned in the given page
// texts, in order of first appearance, up to limit. A negative limit means no cap.
func FindImageLinks(texts []string, limit int) []string {
	seen := make(map[string]bool)
	var links []string
	for _, t := range texts {
		for _, link := range imageLinkRe.FindAllString(t, -1) {
			if seen[link] {
				continue
			}
			if len(links) == limit {
				return links
			}
			seen[link] = true
			links = append(links, link)
		}
	}
	return links
}

// SameHostLinks keeps the links served from the same host as ref, up to limit.
// Links to any other host, including loopback and private addresses, are
// never fetched.
func SameHostLinks(ref string, links []string, limit int) []string {
	base, err := url.Parse(ref)
	if err != nil || base.Host == "" {
		return nil
	}
	var kept []string
	for _, link := range links {
		if len(kept) == limit {
			break
		}
		u, err := url.Parse(link)
		if err != nil || !strings.EqualFold(u.Host, base.Host) {
			continue
		}
		kept = append(kept, link)
	}
	return kept
}

// discoverEmbedded loads and OCRs the images linked from the page texts of
// the document at ref. Every failure here is logged and skipped.
func (p *Pipeline) discoverEmbedded(ctx context.Context, ref string, texts []string) []string {
	found := FindImageLinks(texts, -1)
	links := SameHostLinks(ref, found, p.cfg.MaxEmbeddedImages)
	if skipped := len(found) - len(links); skipped > 0 {
		log.Printf("billparser.Pipeline: ignoring %d embedded image links on other hosts or over the cap", skipped)
	}
	var extra []string
	for _, link := range links {
		images, err := p.loader.Load(ctx, link)
		if err != nil {
			log.Printf("billparser.Pipeline: skipping embedded image %s: %v", link, err)
			continue
		}
		pageTexts, err := p.recognizeAll(ctx, images)
		if err != nil {
			log.Printf("billparser.Pipeline: skipping embedded image %s: %v", link, err)
			continue
		}
		extra = append(extra, pageTexts...)
	}
	if len(links) > 0 {
		log.Printf("billparser.Pipeline: %d embedded image links yielded %d extra pages", len(links), len(extra))
	}
	return extra
}
