package lookups

// since there are no joins in MongoDB, text descriptions of code values are fetched by the API

// Registry of Lookup/Code Types
const (
	LTuserRole = iota
	LTlang
	LTplatform
	LTgenre
	LTgameStatus
)

// LookupType returns names of the available code types
func LookupType(lt int) string {

	var str = ""

	switch {
	case lt == LTuserRole:
		str = "user role"
	case lt == LTlang:
		str = "user language"
	case lt == LTplatform:
		str = "platform"
	case lt == LTgenre:
		str = "genre"
	case lt == LTgameStatus:
		str = "game status"
	}

	return str
}
