package domain

// Mode enumerates the user-facing workflows. Exactly one mode is active per
// session; switching modes gates which actions are available but does not
// clear inputs belonging to other modes.
type Mode string

const (
	ModeTryOn    Mode = "tryon"
	ModeGenerate Mode = "generate"
	ModeEdit     Mode = "edit"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeTryOn, ModeGenerate, ModeEdit:
		return true
	}
	return false
}

// AspectRatio enumerates the output shapes accepted by the text-to-image
// capability.
type AspectRatio string

const (
	AspectSquare        AspectRatio = "1:1"
	AspectPortrait      AspectRatio = "3:4"
	AspectLandscape     AspectRatio = "4:3"
	AspectTallPortrait  AspectRatio = "9:16"
	AspectWideLandscape AspectRatio = "16:9"
)

// Valid reports whether a is one of the supported ratios.
func (a AspectRatio) Valid() bool {
	switch a {
	case AspectSquare, AspectPortrait, AspectLandscape, AspectTallPortrait, AspectWideLandscape:
		return true
	}
	return false
}
