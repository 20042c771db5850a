package pipeline

// State is a step of a pipeline run. Runs move strictly forward; Done, Aborted and
// Failed are terminal.
type State int

const (
	StateStart State = iota
	StateFolderPrompt
	StateArchiveChosen
	StateImagePrompt
	StateImageChosen
	StateExtracting
	StateManifestWritten
	StateOverlaying
	StateCleaningUp
	StateDone
	StateAborted
	StateFailed
)

var stateNames = [...]string{
	StateStart:           "Start",
	StateFolderPrompt:    "FolderPrompt",
	StateArchiveChosen:   "ArchiveChosen",
	StateImagePrompt:     "ImagePrompt",
	StateImageChosen:     "ImageChosen",
	StateExtracting:      "Extracting",
	StateManifestWritten: "ManifestWritten",
	StateOverlaying:      "Overlaying",
	StateCleaningUp:      "CleaningUp",
	StateDone:            "Done",
	StateAborted:         "Aborted",
	StateFailed:          "Failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted || s == StateFailed
}
