package entities

import "fmt"

// Checkpoint identifies a fixed point in the workflow where a
// diagnostic screenshot is captured.
type Checkpoint string

const (
	CheckpointLoginPage   Checkpoint = "login_page"
	CheckpointAfterLogin  Checkpoint = "after_login"
	CheckpointAfterAccept Checkpoint = "after_accept"
)

// checkpointOrder fixes the numbering of screenshot files.
var checkpointOrder = map[Checkpoint]int{
	CheckpointLoginPage:   1,
	CheckpointAfterLogin:  2,
	CheckpointAfterAccept: 3,
}

// Filename returns the numbered PNG file name for the checkpoint,
// e.g. "01_login_page.png".
func (c Checkpoint) Filename() string {
	n, ok := checkpointOrder[c]
	if !ok {
		return fmt.Sprintf("%s.png", string(c))
	}
	return fmt.Sprintf("%02d_%s.png", n, string(c))
}
