package scores

import "fmt"

// Server identifies which upstream service a query targets.
type Server int

const (
	Official Server = iota
	Gatari
	Akatsuki
)

// Valid reports whether s is a known server.
func (s Server) Valid() bool {
	return s >= Official && s <= Akatsuki
}

func (s Server) String() string {
	switch s {
	case Official:
		return "Official"
	case Gatari:
		return "Gatari"
	case Akatsuki:
		return "Akatsuki"
	default:
		return fmt.Sprintf("Server(%d)", int(s))
	}
}
