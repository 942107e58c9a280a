package httpserver

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const inboundBuffer = 16

// Panel is one display surface: a served document plus the message channel
// of the page currently showing it.
type Panel struct {
	id       string
	title    string
	document string
	url      string

	messages chan []byte
	done     chan struct{}

	mu       sync.Mutex
	conn     *websocket.Conn
	timer    *time.Timer
	disposed bool
}

func newPanel(id, title, document, baseURL string) *Panel {
	return &Panel{
		id:       id,
		title:    title,
		document: document,
		url:      baseURL + "/panel/" + id,
		messages: make(chan []byte, inboundBuffer),
		done:     make(chan struct{}),
	}
}

// ID returns the panel id used in its URL.
func (p *Panel) ID() string { return p.id }

// Title returns the panel title.
func (p *Panel) Title() string { return p.title }

// URL returns the address of the panel page.
func (p *Panel) URL() string { return p.url }

// Document returns the HTML served for the panel.
func (p *Panel) Document() string { return p.document }

// Messages delivers raw page messages in arrival order. It has a single
// consumer and is never closed; select on Done to stop reading.
func (p *Panel) Messages() <-chan []byte {
	return p.messages
}

// Done is closed when the panel is disposed.
func (p *Panel) Done() <-chan struct{} {
	return p.done
}

// attach makes conn the page connection, replacing any previous one.
func (p *Panel) attach(conn *websocket.Conn) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disposed {
		return false
	}
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn = conn
	return true
}

// detach closes conn and reports whether it was the current connection.
func (p *Panel) detach(conn *websocket.Conn) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	_ = conn.Close()
	if p.conn != conn {
		return false
	}
	p.conn = nil
	return true
}

// deliver hands msg to the consumer, giving up once the panel is disposed.
func (p *Panel) deliver(msg []byte) bool {
	select {
	case p.messages <- msg:
		return true
	case <-p.done:
		return false
	}
}

// close disposes the panel and reports whether this call did it.
func (p *Panel) close() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disposed {
		return false
	}
	p.disposed = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	close(p.done)
	return true
}
