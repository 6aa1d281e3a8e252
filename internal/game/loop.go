package game

import (
	"fmt"
	"image"
	"log"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"pixel-tank/internal/tank"
)

const (
	InputChanSize = 256
	FrameChanSize = 2
)

// Sink is a display that shows each finished frame synchronously on the loop
// goroutine. The frame buffer is reused, so a sink must not retain it.
type Sink interface {
	Show(frame *image.NRGBA, origin image.Point) error
}

// Frame is an immutable snapshot of one rendered tick, sent to subscribers.
type Frame struct {
	Image   *image.NRGBA
	Tick    uint64
	Command tank.Command
	Viewers int
}

// FrameChan is the per-subscriber channel that receives frame snapshots.
type FrameChan chan Frame

// Loop drives the scene: once per tick it collects input, renders, and hands
// the frame to sinks and subscribers.
type Loop struct {
	scene     *tank.Scene
	inputCh   chan InputEvent
	tickCount atomic.Uint64
	interval  time.Duration

	sinks []Sink

	mu      sync.RWMutex
	viewers map[string]FrameChan

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a loop for scene running at TickRate.
func NewLoop(scene *tank.Scene) *Loop {
	return &Loop{
		scene:    scene,
		inputCh:  make(chan InputEvent, InputChanSize),
		interval: TickInterval,
		viewers:  make(map[string]FrameChan),
		stopCh:   make(chan struct{}),
	}
}

// InputChan returns the shared input channel for input sources.
func (l *Loop) InputChan() chan<- InputEvent {
	return l.inputCh
}

// AddSink registers a synchronous display. Call before Run.
func (l *Loop) AddSink(s Sink) {
	l.sinks = append(l.sinks, s)
}

// Subscribe registers an asynchronous viewer. Returns the effective viewer
// ID and the channel frames are delivered on.
func (l *Loop) Subscribe(name string) (string, FrameChan) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := name
	if _, taken := l.viewers[id]; taken {
		id = fmt.Sprintf("%s_%04d", name, time.Now().UnixNano()%10000)
	}

	ch := make(FrameChan, FrameChanSize)
	l.viewers[id] = ch
	return id, ch
}

// Unsubscribe removes a viewer and closes its channel.
func (l *Loop) Unsubscribe(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ch, ok := l.viewers[id]; ok {
		close(ch)
		delete(l.viewers, id)
	}
}

// Viewers returns the number of subscribed viewers.
func (l *Loop) Viewers() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.viewers)
}

// Tick returns the number of ticks rendered so far.
func (l *Loop) Tick() uint64 {
	return l.tickCount.Load()
}

// Run starts the loop. Blocks until Stop is called.
func (l *Loop) Run() {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.tick()
		}
	}
}

// Stop shuts down the loop. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *Loop) tick() {
	cmd := l.drainInput()

	frame := l.scene.Render(cmd)
	n := l.tickCount.Add(1)

	for _, s := range l.sinks {
		if err := s.Show(frame, image.Point{}); err != nil {
			log.Printf("Warning: display sink: %v", err)
		}
	}

	l.broadcast(frame, n, cmd)

	if n%uint64(StatusInterval) == 0 {
		log.Printf("Tick %d: %d viewer(s)", n, l.Viewers())
	}
}

// drainInput consumes every pending event. The last directional action of
// the tick wins; no input means Stop.
func (l *Loop) drainInput() tank.Command {
	cmd := tank.Stop
	for {
		select {
		case ev := <-l.inputCh:
			if ev.Action.Directional() {
				cmd = ev.Action.Command()
			}
		default:
			return cmd
		}
	}
}

func (l *Loop) broadcast(frame *image.NRGBA, tick uint64, cmd tank.Command) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.viewers) == 0 {
		return
	}

	snap := Frame{
		Image: &image.NRGBA{
			Pix:    slices.Clone(frame.Pix),
			Stride: frame.Stride,
			Rect:   frame.Rect,
		},
		Tick:    tick,
		Command: cmd,
		Viewers: len(l.viewers),
	}

	// Non-blocking send to each viewer
	for _, ch := range l.viewers {
		select {
		case ch <- snap:
		default:
			// Drop frame for slow viewer
		}
	}
}
