package render

import (
	"fmt"
	"html"
	"strings"
	"sync"
)

// TagFunc renders one component tag from its parsed attributes.
type TagFunc func(attrs map[string]string) (string, error)

// Registry maps component tag names to their renderers. Dispatch is over a
// closed set of known tags with an explicit unknown-tag outcome; callers
// decide how to handle unknown tags.
type Registry struct {
	mu   sync.RWMutex
	tags map[string]TagFunc
}

// NewRegistry creates a registry preloaded with the builtin component tags.
func NewRegistry() *Registry {
	r := &Registry{tags: make(map[string]TagFunc)}

	r.Register("Image", renderImage)
	r.Register("Video", renderVideo)
	r.Register("Audio", renderAudio)
	r.Register("Form", renderForm)
	r.Register("Hero", renderHero)
	r.Register("Card", renderCard)
	r.Register("Button", renderButton)
	r.Register("Divider", renderDivider)

	return r
}

// Register adds or replaces the renderer for a tag.
func (r *Registry) Register(tag string, fn TagFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tags[tag] = fn
}

// Render dispatches a tag to its renderer. The boolean reports whether the
// tag is known.
func (r *Registry) Render(tag string, attrs map[string]string) (string, bool, error) {
	r.mu.RLock()
	fn, ok := r.tags[tag]
	r.mu.RUnlock()

	if !ok {
		return "", false, nil
	}

	out, err := fn(attrs)
	if err != nil {
		return "", true, err
	}

	return out, true, nil
}

func renderImage(attrs map[string]string) (string, error) {
	src := attrs["src"]
	if src == "" {
		return "", fmt.Errorf("image tag requires a src attribute")
	}

	return fmt.Sprintf(
		`<figure class="content-image"><img src="%s" alt="%s" loading="lazy" /></figure>`,
		html.EscapeString(src),
		html.EscapeString(attrs["alt"]),
	), nil
}

func renderVideo(attrs map[string]string) (string, error) {
	src := attrs["src"]
	if src == "" {
		return "", fmt.Errorf("video tag requires a src attribute")
	}

	return fmt.Sprintf(
		`<video class="content-video" src="%s" controls></video>`,
		html.EscapeString(src),
	), nil
}

func renderAudio(attrs map[string]string) (string, error) {
	src := attrs["src"]
	if src == "" {
		return "", fmt.Errorf("audio tag requires a src attribute")
	}

	return fmt.Sprintf(
		`<audio class="content-audio" src="%s" controls></audio>`,
		html.EscapeString(src),
	), nil
}

func renderForm(attrs map[string]string) (string, error) {
	id := attrs["id"]
	if id == "" {
		return "", fmt.Errorf("form tag requires an id attribute")
	}

	return fmt.Sprintf(
		`<div class="content-form" data-form-id="%s"></div>`,
		html.EscapeString(id),
	), nil
}

func renderHero(attrs map[string]string) (string, error) {
	var b strings.Builder

	b.WriteString(`<section class="content-hero"`)
	if bg := attrs["background"]; bg != "" {
		fmt.Fprintf(&b, ` style="background-image:url('%s')"`, html.EscapeString(bg))
	}
	b.WriteString(">")

	if title := attrs["title"]; title != "" {
		fmt.Fprintf(&b, "<h1>%s</h1>", html.EscapeString(title))
	}
	if subtitle := attrs["subtitle"]; subtitle != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(subtitle))
	}

	b.WriteString("</section>")

	return b.String(), nil
}

func renderCard(attrs map[string]string) (string, error) {
	var b strings.Builder

	b.WriteString(`<div class="content-card">`)
	if title := attrs["title"]; title != "" {
		fmt.Fprintf(&b, "<h3>%s</h3>", html.EscapeString(title))
	}
	if text := attrs["text"]; text != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(text))
	}
	b.WriteString("</div>")

	return b.String(), nil
}

func renderButton(attrs map[string]string) (string, error) {
	href := attrs["href"]
	if href == "" {
		return "", fmt.Errorf("button tag requires an href attribute")
	}

	label := attrs["label"]
	if label == "" {
		label = href
	}

	return fmt.Sprintf(
		`<a class="content-button" href="%s">%s</a>`,
		html.EscapeString(href),
		html.EscapeString(label),
	), nil
}

func renderDivider(_ map[string]string) (string, error) {
	return `<hr class="content-divider" />`, nil
}
