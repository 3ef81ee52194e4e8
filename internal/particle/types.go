package particle

type Kind uint8

const (
	Normal Kind = iota
	Shell
	Flash
	Trail
)

func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Shell:
		return "shell"
	case Flash:
		return "flash"
	case Trail:
		return "trail"
	}
	return "unknown"
}

// Shape is the explosion profile of a Normal particle.
type Shape uint8

const (
	Peony Shape = iota
	Willow
	Ring
	Crossette

	NumShapes = 4
)

func (s Shape) String() string {
	switch s {
	case Peony:
		return "peony"
	case Willow:
		return "willow"
	case Ring:
		return "ring"
	case Crossette:
		return "crossette"
	}
	return "unknown"
}

type Flags uint8

const (
	Strobe Flags = 1 << iota
	Split
	WhiteHot
)

func (f Flags) Has(flag Flags) bool { return f&flag != 0 }
