package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// changeMsg asks the model to redraw from session state.
type changeMsg struct{}

// Bridge coalesces change signals from background goroutines into tea
// messages. Signals never block; a pending signal absorbs later ones.
type Bridge struct {
	ch   chan struct{}
	done chan struct{}
}

func NewBridge() *Bridge {
	return &Bridge{ch: make(chan struct{}, 1), done: make(chan struct{})}
}

func (b *Bridge) Signal() {
	select {
	case b.ch <- struct{}{}:
	default:
	}
}

func (b *Bridge) Close() {
	select {
	case <-b.done:
	default:
		close(b.done)
	}
}

// Wait returns a command that resolves on the next signal.
func (b *Bridge) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.ch:
			return changeMsg{}
		case <-b.done:
			return nil
		}
	}
}
