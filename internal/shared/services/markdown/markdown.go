// Package markdown turns organizer-supplied markdown (bank details, payment
// instructions) into HTML that is safe to embed in checkout pages.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type Service interface {
	ToSafeHTML(source string) (template.HTML, error)
	ToPlainText(source string) string
}

type service struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	strip  *bluemonday.Policy
}

func NewService() Service {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span", "div", "pre")

	return &service{
		md:     md,
		policy: policy,
		strip:  bluemonday.StrictPolicy(),
	}
}

func (s *service) ToSafeHTML(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return template.HTML(s.policy.Sanitize(buf.String())), nil
}

// ToPlainText drops any markup so the text can go into a plain mail body.
func (s *service) ToPlainText(source string) string {
	return strings.TrimSpace(s.strip.Sanitize(source))
}
