// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package sink

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mia-platform/templogger/internal/level"
)

const (
	DefaultFadeDuration = 500 * time.Millisecond

	containerClass = "temp-logger-console fixed-top px-4 text-start"
	elementClass   = "temp-logger-msg alert alert-dismissible my-2"
	closeClass     = "temp-logger-close btn-close"
)

var (
	// ErrPanelRemoved is returned when writing to a container that has been removed.
	ErrPanelRemoved = errors.New("page panel has been removed")
	// ErrPanelNotFound is returned when dismissing an unknown element.
	ErrPanelNotFound = errors.New("panel element not found")
)

var panelTemplate = template.Must(template.New("panel").Parse(
	`<div class="{{ .ContainerClass }}">
{{- range .Elements }}
	<div id="{{ .ID }}" class="{{ $.ElementClass }} alert-{{ .Style }}" role="alert"{{ if .Fading }} style="opacity: 0; transition: opacity {{ $.FadeSeconds }}s;"{{ end }}>
		<div class="row">
			<div class="temp-logger-msg col">{{ .Body }}</div>
			<form class="col-auto" method="post" action="{{ $.DismissBase }}/{{ .ID }}/dismiss">
				<button type="submit" class="{{ $.CloseClass }}" aria-label="Close"></button>
			</form>
		</div>
	</div>
{{- end }}
</div>
`))

// Element is a single dismissible message panel.
type Element struct {
	ID        string      `json:"id"`
	Level     level.Level `json:"level"`
	Style     string      `json:"style"`
	Body      string      `json:"body"`
	CreatedAt time.Time   `json:"createdAt"`
	Fading    bool        `json:"fading"`
}

// Panel is the fixed-position container holding message elements.
type Panel struct {
	lock     sync.RWMutex
	elements []*Element
	removed  bool
	fade     time.Duration
	now      func() time.Time
}

// NewPanel returns an empty container. Dismissed elements stay in the container, marked as
// fading, for the fade duration before being removed.
func NewPanel(fade time.Duration) *Panel {
	if fade < 0 {
		fade = 0
	}
	return &Panel{
		fade: fade,
		now:  time.Now,
	}
}

// Insert appends a new element styled after the level alert style.
func (p *Panel) Insert(l level.Level, body string) (Element, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.removed {
		return Element{}, ErrPanelRemoved
	}

	element := &Element{
		ID:        uuid.NewString(),
		Level:     l,
		Style:     l.AlertStyle(),
		Body:      body,
		CreatedAt: p.now(),
	}
	p.elements = append(p.elements, element)
	return *element, nil
}

// Dismiss fades out and then removes the element with the given id.
func (p *Panel) Dismiss(id string) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	idx := p.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrPanelNotFound, id)
	}

	if p.fade == 0 {
		p.elements = slices.Delete(p.elements, idx, idx+1)
		return nil
	}

	element := p.elements[idx]
	if element.Fading {
		return nil
	}
	element.Fading = true
	time.AfterFunc(p.fade, func() {
		p.lock.Lock()
		defer p.lock.Unlock()
		if idx := p.index(id); idx >= 0 {
			p.elements = slices.Delete(p.elements, idx, idx+1)
		}
	})
	return nil
}

// Remove detaches the whole container. Later inserts fail with ErrPanelRemoved.
func (p *Panel) Remove() {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.removed = true
	p.elements = nil
}

// Removed reports whether Remove has been called.
func (p *Panel) Removed() bool {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.removed
}

// Elements returns a copy of the elements in insertion order.
func (p *Panel) Elements() []Element {
	p.lock.RLock()
	defer p.lock.RUnlock()

	elements := make([]Element, 0, len(p.elements))
	for _, element := range p.elements {
		elements = append(elements, *element)
	}
	return elements
}

// Render writes the container as HTML. Dismiss buttons post to dismissBase/<id>/dismiss.
// A removed container renders nothing.
func (p *Panel) Render(w io.Writer, dismissBase string) error {
	if p.Removed() {
		return nil
	}

	return panelTemplate.Execute(w, struct {
		ContainerClass string
		ElementClass   string
		CloseClass     string
		DismissBase    string
		FadeSeconds    float64
		Elements       []Element
	}{
		ContainerClass: containerClass,
		ElementClass:   elementClass,
		CloseClass:     closeClass,
		DismissBase:    dismissBase,
		FadeSeconds:    p.fade.Seconds(),
		Elements:       p.Elements(),
	})
}

func (p *Panel) index(id string) int {
	return slices.IndexFunc(p.elements, func(e *Element) bool { return e.ID == id })
}
