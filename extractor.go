package main

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-faster/errors"
	"golang.org/x/net/html/charset"
)

// Namshi page selectors. Hashed class names change with site deploys, so each
// field has a looser fallback.
const (
	selectorOGTitle       = `meta[property="og:title"]`
	selectorTitle         = `h1.ProductConversion_productTitle__dvlc5`
	selectorTitleLoose    = `h1[class*="productTitle"]`
	selectorPrice         = `span.ProductPrice_value__hnFSS`
	selectorPriceLoose    = `span[class*="value"]`
	selectorPriceAmount   = `meta[property="product:price:amount"]`
	selectorPriceCurrency = `meta[property="product:price:currency"]`
	selectorSizes         = `button.SizePills_size_variant__4qpXf:not([disabled])`
	selectorSizesLoose    = `button[class*="size_variant"]:not([disabled])`
	selectorGallery       = `div.ImageGallery_imageContainer__jmn93 img`
	selectorOGImage       = `meta[property="og:image"]`
	selectorAltImages     = `img[alt*="PUMA"], img[alt*="product"], img[alt*="Product"]`
)

const (
	fieldName  = "name"
	fieldPrice = "price"
)

// Extractor fetches a product page and reads ProductInfo out of it.
type Extractor struct {
	fetcher    *Fetcher
	imageWidth int
}

func NewExtractor(fetcher *Fetcher, imageWidth int) *Extractor {
	return &Extractor{fetcher: fetcher, imageWidth: imageWidth}
}

// Extract performs one fresh fetch of productURL and parses it. When required
// fields are missing it returns an *ExtractionError carrying what was found.
func (e *Extractor) Extract(ctx context.Context, productURL string) (*ProductInfo, error) {
	if e.fetcher.RespectRobots {
		allowed, err := e.fetcher.robotsAllowed(ctx, productURL)
		if err != nil {
			return nil, &NetworkError{URL: productURL, Err: err}
		}
		if !allowed {
			return nil, &NetworkError{URL: productURL, Err: errors.New("disallowed by robots.txt")}
		}
	}

	resp, err := e.fetcher.Get(ctx, productURL, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, &NetworkError{URL: productURL, Err: errors.Wrap(err, "decode body")}
	}
	return e.parse(body, productURL)
}

func (e *Extractor) parse(r io.Reader, pageURL string) (*ProductInfo, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &NetworkError{URL: pageURL, Err: errors.Wrap(err, "parse html")}
	}

	info := &ProductInfo{
		URL:       pageURL,
		Name:      extractName(doc),
		Price:     extractPrice(doc),
		Sizes:     extractSizes(doc),
		ImageURLs: e.extractImages(doc, pageURL),
	}

	var missing []string
	if info.Name == "" {
		missing = append(missing, fieldName)
	}
	if info.Price.IsZero() {
		missing = append(missing, fieldPrice)
	}
	if len(missing) > 0 {
		return nil, &ExtractionError{Missing: missing, Partial: info}
	}
	return info, nil
}

func extractName(doc *goquery.Document) string {
	if content, ok := doc.Find(selectorOGTitle).First().Attr("content"); ok {
		name, _, _ := strings.Cut(content, "|")
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	title := doc.Find(selectorTitle).First()
	if title.Length() == 0 {
		title = doc.Find(selectorTitleLoose).First()
	}
	return strings.TrimSpace(title.Text())
}

func extractPrice(doc *goquery.Document) Price {
	el := doc.Find(selectorPrice).First()
	if el.Length() == 0 {
		el = doc.Find(selectorPriceLoose).First()
	}
	if text := strings.TrimSpace(el.Text()); text != "" {
		return parsePrice(text)
	}

	amount := strings.TrimSpace(doc.Find(selectorPriceAmount).First().AttrOr("content", ""))
	if amount == "" {
		return Price{}
	}
	currency := strings.TrimSpace(doc.Find(selectorPriceCurrency).First().AttrOr("content", ""))
	return parsePrice(strings.TrimSpace(currency + " " + amount))
}

// extractSizes returns the enabled size pills. Disabled pills are out of stock
// and left out.
func extractSizes(doc *goquery.Document) []string {
	buttons := doc.Find(selectorSizes)
	if buttons.Length() == 0 {
		buttons = doc.Find(selectorSizesLoose)
	}

	var sizes []string
	seen := make(map[string]bool)
	buttons.Each(func(_ int, s *goquery.Selection) {
		size := strings.Join(strings.Fields(s.Text()), " ")
		if size == "" || seen[size] {
			return
		}
		seen[size] = true
		sizes = append(sizes, size)
	})
	return sizes
}

func (e *Extractor) extractImages(doc *goquery.Document, pageURL string) []string {
	var images []string

	// Gallery images.
	doc.Find(selectorGallery).Each(func(_ int, s *goquery.Selection) {
		if src := e.absoluteImageURL(pageURL, s.AttrOr("src", "")); src != "" {
			images = append(images, e.withWidth(src))
		}
	})

	// Open Graph images, skipping the site logo.
	if len(images) == 0 {
		doc.Find(selectorOGImage).Each(func(_ int, s *goquery.Selection) {
			src := e.absoluteImageURL(pageURL, s.AttrOr("content", ""))
			if src == "" || strings.Contains(strings.ToLower(src), "namshi-logo") {
				return
			}
			if strings.Contains(src, "/p/") || strings.Contains(src, "pzsku") {
				images = append(images, src)
			}
		})
	}

	// Any large or product-path image with a product alt text.
	if len(images) == 0 {
		doc.Find(selectorAltImages).Each(func(_ int, s *goquery.Selection) {
			src := e.absoluteImageURL(pageURL, s.AttrOr("src", ""))
			if src == "" {
				return
			}
			if queryWidth(src) > 200 || strings.Contains(src, "/p/") || strings.Contains(src, "pzsku") {
				images = append(images, e.withWidth(src))
			}
		})
	}

	images = dedupe(images)

	var productImages []string
	for _, img := range images {
		lower := strings.ToLower(img)
		if strings.Contains(lower, "/p/") || strings.Contains(lower, "pzsku") || strings.Contains(lower, "product") {
			productImages = append(productImages, img)
		}
	}
	if len(productImages) > 0 {
		return productImages
	}
	return images
}

// absoluteImageURL resolves src against the page and keeps only http(s) results.
func (e *Extractor) absoluteImageURL(pageURL, src string) string {
	if strings.TrimSpace(src) == "" || strings.HasPrefix(src, "data:") {
		return ""
	}
	abs := resolveURL(pageURL, src)
	if !strings.HasPrefix(abs, "http://") && !strings.HasPrefix(abs, "https://") {
		return ""
	}
	return abs
}

// withWidth rewrites an existing width query parameter to the configured width.
func (e *Extractor) withWidth(src string) string {
	if e.imageWidth <= 0 {
		return src
	}
	u, err := url.Parse(src)
	if err != nil {
		return src
	}
	q := u.Query()
	if !q.Has("width") {
		return src
	}
	q.Set("width", strconv.Itoa(e.imageWidth))
	u.RawQuery = q.Encode()
	return u.String()
}

func queryWidth(src string) int {
	u, err := url.Parse(src)
	if err != nil {
		return 0
	}
	w, err := strconv.Atoi(u.Query().Get("width"))
	if err != nil {
		return 0
	}
	return w
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
