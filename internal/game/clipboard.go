package game

import "github.com/atotto/clipboard"

// copyText puts a report on the system clipboard. Headless environments
// (no X/Wayland, no pbcopy) surface an error the caller can show.
func copyText(text string) error {
	return clipboard.WriteAll(text)
}
