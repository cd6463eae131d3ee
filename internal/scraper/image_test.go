package scraper

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
)

func TestImageExtractor_Extract(t *testing.T) {
	tests := []struct {
		name       string
		html       string
		wantImage  string
		wantSource string
	}{
		{
			name:       "fetch failed",
			html:       "",
			wantImage:  PlaceholderImage,
			wantSource: SourcePlaceholder,
		},
		{
			name: "og image wins over structured data",
			html: `<html><head>
				<meta property="og:image" content="https://cdn.example.com/og.jpg">
				<script type="application/ld+json">{"image": "https://cdn.example.com/ld.jpg"}</script>
			</head></html>`,
			wantImage:  "https://cdn.example.com/og.jpg",
			wantSource: SourceOpenGraph,
		},
		{
			name:       "og image declared with name attribute",
			html:       `<html><head><meta name="og:image" content="//cdn.example.com/relative.jpg" /></head></html>`,
			wantImage:  "//cdn.example.com/relative.jpg",
			wantSource: SourceOpenGraph,
		},
		{
			name: "og image property matched regardless of case",
			html: `<html><head>
				<meta property="OG:Image" content="https://cdn.example.com/upper.jpg">
				<script type="application/ld+json">{"image": "https://cdn.example.com/ld.jpg"}</script>
			</head></html>`,
			wantImage:  "https://cdn.example.com/upper.jpg",
			wantSource: SourceOpenGraph,
		},
		{
			name: "other og tags are ignored",
			html: `<html><head>
				<meta property="og:title" content="Blue Wireless Mouse">
				<meta name="description" content="A mouse">
				<meta property="og:image" content="https://cdn.example.com/og.jpg">
			</head></html>`,
			wantImage:  "https://cdn.example.com/og.jpg",
			wantSource: SourceOpenGraph,
		},
		{
			name: "og tag without content falls through",
			html: `<html><head>
				<meta property="og:image">
				<script type="application/ld+json">{"image": "https://cdn.example.com/ld.jpg"}</script>
			</head></html>`,
			wantImage:  "https://cdn.example.com/ld.jpg",
			wantSource: SourceStructuredData,
		},
		{
			name:       "structured data image string",
			html:       `<script type="application/ld+json">{"@type": "Product", "image": "https://cdn.example.com/p.jpg"}</script>`,
			wantImage:  "https://cdn.example.com/p.jpg",
			wantSource: SourceStructuredData,
		},
		{
			name:       "structured data image array",
			html:       `<script type="application/ld+json">{"image": ["https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg"]}</script>`,
			wantImage:  "https://cdn.example.com/1.jpg",
			wantSource: SourceStructuredData,
		},
		{
			name:       "structured data image object",
			html:       `<script type="application/ld+json">{"image": {"@type": "ImageObject", "url": "https://cdn.example.com/obj.jpg"}}</script>`,
			wantImage:  "https://cdn.example.com/obj.jpg",
			wantSource: SourceStructuredData,
		},
		{
			name:       "structured data main entity",
			html:       `<script type="application/ld+json">{"mainEntity": {"image": {"url": "https://cdn.example.com/main.jpg"}}}</script>`,
			wantImage:  "https://cdn.example.com/main.jpg",
			wantSource: SourceStructuredData,
		},
		{
			name:       "structured data logo",
			html:       `<script type="application/ld+json">{"@type": "Organization", "logo": "https://cdn.example.com/logo.png"}</script>`,
			wantImage:  "https://cdn.example.com/logo.png",
			wantSource: SourceStructuredData,
		},
		{
			name:       "structured data offer image",
			html:       `<script type="application/ld+json">{"offers": [{"image": "https://cdn.example.com/offer.jpg"}]}</script>`,
			wantImage:  "https://cdn.example.com/offer.jpg",
			wantSource: SourceStructuredData,
		},
		{
			name:       "non http image ignored",
			html:       `<script type="application/ld+json">{"image": "/static/p.jpg"}</script>`,
			wantImage:  PlaceholderImage,
			wantSource: SourcePlaceholder,
		},
		{
			name: "malformed block skipped",
			html: `<script type="application/ld+json">{"image": "https://cdn.example.com/broken.jpg",</script>
				<script type="application/ld+json">{"image": "https://cdn.example.com/second.jpg"}</script>`,
			wantImage:  "https://cdn.example.com/second.jpg",
			wantSource: SourceStructuredData,
		},
		{
			name:       "malformed block only",
			html:       `<script type="application/ld+json">{not json}</script>`,
			wantImage:  PlaceholderImage,
			wantSource: SourcePlaceholder,
		},
		{
			name:       "top level array",
			html:       `<script type="application/ld+json">[{"@type": "BreadcrumbList"}, {"@type": "Product", "image": "https://cdn.example.com/arr.jpg"}]</script>`,
			wantImage:  "https://cdn.example.com/arr.jpg",
			wantSource: SourceStructuredData,
		},
		{
			name:       "graph",
			html:       `<script type="application/ld+json">{"@context": "https://schema.org", "@graph": [{"@type": "WebPage"}, {"@type": "Product", "image": "https://cdn.example.com/graph.jpg"}]}</script>`,
			wantImage:  "https://cdn.example.com/graph.jpg",
			wantSource: SourceStructuredData,
		},
		{
			name: "first block with image wins",
			html: `<script type="application/ld+json">{"image": "https://cdn.example.com/first.jpg"}</script>
				<script type="application/ld+json">{"image": "https://cdn.example.com/second.jpg"}</script>`,
			wantImage:  "https://cdn.example.com/first.jpg",
			wantSource: SourceStructuredData,
		},
		{
			name:       "plain page",
			html:       `<html><body><img src="https://cdn.example.com/img.jpg"></body></html>`,
			wantImage:  PlaceholderImage,
			wantSource: SourcePlaceholder,
		},
	}

	extractor := NewImageExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			image, source := extractor.Extract(tt.html)
			assert.Equal(t, tt.wantImage, image)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

type stubFinder struct {
	name  string
	image string
}

func (p stubFinder) Name() string { return p.name }

func (p stubFinder) Find(_ *goquery.Document) (string, bool) {
	return p.image, p.image != ""
}

func TestImageExtractor_CustomFinderOrder(t *testing.T) {
	extractor := NewImageExtractor(
		stubFinder{name: "empty"},
		stubFinder{name: "fixed", image: "https://cdn.example.com/fixed.jpg"},
		OpenGraphFinder{},
	)

	image, source := extractor.Extract(`<meta property="og:image" content="https://cdn.example.com/og.jpg">`)
	assert.Equal(t, "https://cdn.example.com/fixed.jpg", image)
	assert.Equal(t, "fixed", source)
}
