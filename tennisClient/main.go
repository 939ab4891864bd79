package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/lguibr/asciiring/helpers"
	"github.com/lguibr/retrotennis/render"
	"github.com/lguibr/retrotennis/server"
	"golang.org/x/net/websocket"
	"golang.org/x/sys/unix"
)

// holdWindow is how long a key stays pressed after its last byte arrives.
// Raw terminals deliver auto-repeat but no key-up.
const holdWindow = 150 * time.Millisecond

func setRawMode(fileDescriptor uintptr) (*unix.Termios, error) {
	terminalSettings, err := unix.IoctlGetTermios(int(fileDescriptor), unix.TCGETS)
	if err != nil {
		return nil, err
	}
	savedTerminalSettings := *terminalSettings
	terminalSettings.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	terminalSettings.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	terminalSettings.Cflag &^= unix.CSIZE | unix.PARENB
	terminalSettings.Cflag |= unix.CS8
	terminalSettings.Oflag |= unix.OPOST | unix.ONLCR

	if err := unix.IoctlSetTermios(int(fileDescriptor), unix.TCSETS, terminalSettings); err != nil {
		return nil, err
	}
	return &savedTerminalSettings, nil
}

// keyToAction maps one input byte to a wire action name.
func keyToAction(b byte) (string, bool) {
	switch b {
	case 'w', 'W':
		return "moveUp", true
	case 's', 'S':
		return "moveDown", true
	case ' ', '\r':
		return "confirm", true
	case 'm', 'M':
		return "mute", true
	}
	return "", false
}

func isQuitKey(b byte) bool {
	return b == 'q' || b == 'Q' || b == 3 // Ctrl-C
}

// holdTracker turns repeated key bytes into one press and a delayed release.
type holdTracker struct {
	mu     sync.Mutex
	window time.Duration
	timers map[string]*time.Timer
	send   func(action string, pressed bool)
}

func newHoldTracker(window time.Duration, send func(action string, pressed bool)) *holdTracker {
	return &holdTracker{window: window, timers: make(map[string]*time.Timer), send: send}
}

func (h *holdTracker) press(action string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, held := h.timers[action]; held {
		t.Reset(h.window)
		return
	}
	h.send(action, true)
	h.timers[action] = time.AfterFunc(h.window, func() { h.release(action) })
}

func (h *holdTracker) release(action string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, held := h.timers[action]; held {
		t.Stop()
		delete(h.timers, action)
		h.send(action, false)
	}
}

func main() {
	url := flag.String("url", "ws://localhost:3001/subscribe", "match websocket URL")
	color := flag.Bool("color", true, "24-bit colour output")
	flag.Parse()

	websocketConnection, err := websocket.Dial(*url, "", "http://localhost/")
	if err != nil {
		fmt.Println("Error connecting to server:", err)
		return
	}
	defer websocketConnection.Close()

	go func() {
		helpers.ClearScreen()
		for {
			var msg server.StateMessage
			if err := websocket.JSON.Receive(websocketConnection, &msg); err != nil {
				fmt.Println("Error reading from server:", err)
				return
			}
			if msg.MessageType != "state" {
				continue
			}
			frame := render.NewFrame(msg.Snapshot, 80, 24)
			out := frame.String()
			if *color {
				out = frame.ANSI()
			}
			fmt.Print("\033[H" + out)
		}
	}()

	savedTerminalSettings, err := setRawMode(os.Stdin.Fd())
	if err != nil {
		fmt.Println("Error setting raw mode:", err)
		return
	}
	restore := func() { _ = unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, savedTerminalSettings) }
	defer restore()

	interruptSignalChannel := make(chan os.Signal, 1)
	signal.Notify(interruptSignalChannel, os.Interrupt)
	go func() {
		<-interruptSignalChannel
		restore()
		os.Exit(0)
	}()

	keys := newHoldTracker(holdWindow, func(action string, pressed bool) {
		msg := server.InputMessage{Action: action, Pressed: pressed}
		if err := websocket.JSON.Send(websocketConnection, msg); err != nil {
			fmt.Println("Error sending to server:", err)
		}
	})

	singleByteBuffer := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(singleByteBuffer); err != nil {
			return
		}
		if isQuitKey(singleByteBuffer[0]) {
			fmt.Println("Quitting game")
			return
		}
		if action, ok := keyToAction(singleByteBuffer[0]); ok {
			keys.press(action)
		}
	}
}
