package zpool

// SubpoolType is the redundancy scheme of a top-level vdev.
type SubpoolType int

const (
	SubpoolMirror SubpoolType = iota
	SubpoolRaidz
	SubpoolRaidz2
	// SubpoolDisk is a top-level vdev made of one drive with no redundancy.
	SubpoolDisk
)

func (t SubpoolType) String() string {
	switch t {
	case SubpoolMirror:
		return "mirror"
	case SubpoolRaidz:
		return "raidz"
	case SubpoolRaidz2:
		return "raidz2"
	case SubpoolDisk:
		return "disk"
	default:
		return "unknown"
	}
}

// Drive is a physical device in a subpool or in a pool's spares list.
type Drive struct {
	Name  string
	Spare bool
	State State
}

// Subpool is a redundancy group (vdev) and its member drives.
type Subpool struct {
	Name   string
	Type   SubpoolType
	State  State
	Drives []Drive
}

// Pool is one pool as reported by zpool status.
type Pool struct {
	Name  string
	State State

	Resilvering       bool
	ResilverRemaining int64 // seconds
	LastResilver      int64 // unix seconds

	Scrubbing      bool
	ScrubRemaining int64 // seconds
	LastScrub      int64 // unix seconds

	Subpools []Subpool
	Spares   []Drive
}

// Drives returns every non-spare drive of the pool in report order.
func (p *Pool) Drives() []Drive {
	var drives []Drive
	for _, sp := range p.Subpools {
		drives = append(drives, sp.Drives...)
	}
	return drives
}
