package server

import (
	"fmt"
	"image"
	"io"
	"log"
	"sync"
	"unicode/utf8"

	"github.com/gliderlabs/ssh"

	"pixel-tank/internal/game"
	"pixel-tank/internal/render"
)

// SSHServer lets remote terminals watch and steer the tank.
type SSHServer struct {
	loop    *game.Loop
	name    string
	addr    string
	hostKey string
}

// NewSSHServer creates a new SSH server bound to the given address.
func NewSSHServer(addr string, hostKey string, loop *game.Loop, tankName string) *SSHServer {
	return &SSHServer{
		loop:    loop,
		name:    tankName,
		addr:    addr,
		hostKey: hostKey,
	}
}

// Start begins listening for SSH connections.
func (s *SSHServer) Start() error {
	server := &ssh.Server{
		Addr: s.addr,
		Handler: func(sess ssh.Session) {
			s.handleSession(sess)
		},
	}

	// Set host key
	if err := server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	log.Printf("SSH server listening on %s", s.addr)
	return server.ListenAndServe()
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	// Require PTY
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	username := sess.User()
	if username == "" {
		username = "Anonymous"
	}

	viewerID, frameCh := s.loop.Subscribe(username)

	log.Printf("Viewer connected: %s (%s)", username, viewerID)
	defer func() {
		s.loop.Unsubscribe(viewerID)
		log.Printf("Viewer disconnected: %s (%s)", username, viewerID)
	}()

	// Terminal dimensions
	termW := ptyReq.Window.Width
	termH := ptyReq.Window.Height
	var termMu sync.Mutex

	engine := render.NewEngine(termW, termH)

	// Setup terminal
	io.WriteString(sess, render.EnableAltScreen())
	io.WriteString(sess, render.HideCursor())
	io.WriteString(sess, render.ClearScreen())
	defer func() {
		io.WriteString(sess, render.ShowCursor())
		io.WriteString(sess, render.DisableAltScreen())
	}()

	inputCh := s.loop.InputChan()
	quitCh := make(chan struct{})

	// Goroutine: read input
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				close(quitCh)
				return
			}
			actions := parseInput(buf[:n])
			for _, action := range actions {
				if action == game.ActionQuit {
					close(quitCh)
					return
				}
				select {
				case inputCh <- game.InputEvent{Source: viewerID, Action: action}:
				default:
				}
			}
		}
	}()

	// Goroutine: handle window resizes
	go func() {
		for win := range winCh {
			termMu.Lock()
			termW = win.Width
			termH = win.Height
			termMu.Unlock()
		}
	}()

	// Main render loop: read from frame channel
	for {
		select {
		case <-quitCh:
			return
		case frame, ok := <-frameCh:
			if !ok {
				return
			}

			termMu.Lock()
			w, h := termW, termH
			termMu.Unlock()

			output := engine.Render(frame.Image, image.Point{}, w, h, statusLine(s.name, frame))
			if len(output) > 0 {
				io.WriteString(sess, output)
			}
		}
	}
}

// statusLine is the text shown under the tank.
func statusLine(name string, f game.Frame) string {
	b := f.Image.Bounds()
	return fmt.Sprintf(" %s %dx%d  tick %d  %s  viewers %d  (arrows/WASD steer, q quits)",
		name, b.Dx(), b.Dy(), f.Tick, f.Command, f.Viewers)
}

// parseInput converts raw bytes into viewer actions.
// Handles WASD, arrow key escape sequences, Q, and Ctrl-C.
func parseInput(data []byte) []game.Action {
	var actions []game.Action
	i := 0
	for i < len(data) {
		// Check for escape sequences (arrow keys)
		if i+2 < len(data) && data[i] == 0x1b && data[i+1] == '[' {
			switch data[i+2] {
			case 'A':
				actions = append(actions, game.ActionUp)
			case 'B':
				actions = append(actions, game.ActionDown)
			case 'C':
				actions = append(actions, game.ActionRight)
			case 'D':
				actions = append(actions, game.ActionLeft)
			}
			i += 3
			continue
		}

		// Single byte inputs
		r, size := utf8.DecodeRune(data[i:])
		switch r {
		case 'w', 'W':
			actions = append(actions, game.ActionUp)
		case 's', 'S':
			actions = append(actions, game.ActionDown)
		case 'a', 'A':
			actions = append(actions, game.ActionLeft)
		case 'd', 'D':
			actions = append(actions, game.ActionRight)
		case 'q', 'Q':
			actions = append(actions, game.ActionQuit)
		case 3: // Ctrl-C
			actions = append(actions, game.ActionQuit)
		}
		i += size
	}
	return actions
}
